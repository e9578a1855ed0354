package legacydb

import (
	"fmt"
	"net"
	"sync/atomic"
)

// Reader looks up addresses in a legacy City database. It is immutable after
// Open and safe for concurrent use; all lookup state is local to the call.
type Reader struct {
	path string
	mode AccessMode
	src  ByteSource
	md   Metadata

	closed atomic.Bool
}

// Open opens the database at path with the given access mode and reads its
// trailer. It returns an *OpenError if the file cannot be read and a
// *FormatError if the trailer is missing or names an unsupported edition.
func Open(path string, mode AccessMode) (*Reader, error) {
	src, err := openSource(path, mode)
	if err != nil {
		return nil, err
	}
	r, err := newReader(src)
	if err != nil {
		src.Close()
		return nil, err
	}
	r.path = path
	r.mode = mode
	return r, nil
}

// FromBytes opens a database held in memory, such as an embedded asset.
// gzip and zstd content is decompressed first.
func FromBytes(b []byte) (*Reader, error) {
	data, err := unwrapContainer(b)
	if err != nil {
		return nil, &OpenError{Path: "<memory>", Err: err}
	}
	if len(data) > 0 && len(data) == len(b) && &data[0] == &b[0] {
		// Uncompressed input; do not alias the caller's buffer.
		data = append([]byte(nil), b...)
	}
	r, err := newReader(&memorySource{data: data})
	if err != nil {
		return nil, err
	}
	r.mode = MemoryCache
	return r, nil
}

func newReader(src ByteSource) (*Reader, error) {
	md, err := scanHeader(src)
	if err != nil {
		return nil, err
	}
	return &Reader{src: src, md: md}, nil
}

// Metadata returns the values read from the trailer.
func (r *Reader) Metadata() Metadata { return r.md }

// Path returns the file the reader was opened from, or "" for FromBytes.
func (r *Reader) Path() string { return r.path }

// Mode returns the access mode in use.
func (r *Reader) Mode() AccessMode { return r.mode }

// Lookup returns the record for a dotted-decimal IPv4 address.
func (r *Reader) Lookup(ip string) (*Record, error) {
	ipnum, err := ParseIPv4(ip)
	if err != nil {
		return nil, err
	}
	return r.LookupUint32(ipnum)
}

// LookupIP is Lookup for a parsed address. IPv6 addresses that are not
// IPv4-mapped are rejected as invalid.
func (r *Reader) LookupIP(ip net.IP) (*Record, error) {
	ipnum, ok := ipToUint32(ip)
	if !ok {
		return nil, &InvalidAddressError{Input: ip.String()}
	}
	return r.LookupUint32(ipnum)
}

// LookupUint32 returns the record for an address in host order.
func (r *Reader) LookupUint32(ipnum uint32) (*Record, error) {
	if r.closed.Load() {
		return nil, ErrClosed
	}
	res, err := r.walk(ipnum)
	if err != nil {
		return nil, err
	}
	if res.pointer == r.md.Segments {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, FormatIPv4(ipnum))
	}
	rec, err := r.decode(res.pointer)
	if err != nil {
		return nil, err
	}
	rec.PrefixLen = res.prefixLen
	return rec, nil
}

// LookupLocation returns only the coordinates for ip.
func (r *Reader) LookupLocation(ip string) (Location, error) {
	rec, err := r.Lookup(ip)
	if err != nil {
		return Location{}, err
	}
	return rec.Location(), nil
}

// LookupTimeZone returns the time zone name for ip. ok is false when the
// record exists but no zone is known for its country and region.
func (r *Reader) LookupTimeZone(ip string) (name string, ok bool, err error) {
	rec, err := r.Lookup(ip)
	if err != nil {
		return "", false, err
	}
	return rec.TimeZone, rec.TimeZone != "", nil
}

// Close releases the file handle or mapping. Records already returned stay
// valid; later lookups fail with ErrClosed. Closing twice is a no-op.
func (r *Reader) Close() error {
	if r.closed.Swap(true) {
		return nil
	}
	return r.src.Close()
}
