package legacydb

import (
	"errors"
	"fmt"
)

// Sentinel errors, matched with errors.Is.
var (
	ErrOpen           = errors.New("legacydb: cannot open database")
	ErrFormat         = errors.New("legacydb: unsupported database format")
	ErrCorrupt        = errors.New("legacydb: database is corrupt")
	ErrInvalidAddress = errors.New("legacydb: invalid IPv4 address")
	ErrNotFound       = errors.New("legacydb: address not found")
	ErrClosed         = errors.New("legacydb: database is closed")
)

// OpenError reports a database file that could not be read.
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("legacydb: open %s: %v", e.Path, e.Err)
}

func (e *OpenError) Unwrap() error        { return e.Err }
func (e *OpenError) Is(target error) bool { return target == ErrOpen }

// FormatError reports a missing trailer or an edition this package does not decode.
type FormatError struct {
	Edition Edition
	Reason  string
}

func (e *FormatError) Error() string {
	if e.Edition != EditionUnknown {
		return fmt.Sprintf("legacydb: %s (edition %s)", e.Reason, e.Edition)
	}
	return "legacydb: " + e.Reason
}

func (e *FormatError) Is(target error) bool { return target == ErrFormat }

// CorruptionError is returned by a single lookup that hit inconsistent data.
// The reader stays usable for other addresses.
type CorruptionError struct {
	Offset int64
	Reason string
}

func (e *CorruptionError) Error() string {
	return fmt.Sprintf("legacydb: corrupt database at offset %d: %s", e.Offset, e.Reason)
}

func (e *CorruptionError) Is(target error) bool { return target == ErrCorrupt }

// InvalidAddressError reports input that is not a dotted-decimal IPv4 address.
type InvalidAddressError struct {
	Input string
}

func (e *InvalidAddressError) Error() string {
	return fmt.Sprintf("legacydb: invalid IPv4 address %q", e.Input)
}

func (e *InvalidAddressError) Is(target error) bool { return target == ErrInvalidAddress }

func corrupt(off int64, format string, args ...interface{}) error {
	return &CorruptionError{Offset: off, Reason: fmt.Sprintf(format, args...)}
}
