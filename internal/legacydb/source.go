package legacydb

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// AccessMode selects how the database file is read.
type AccessMode int

const (
	// Standard seeks and reads the file for every access.
	Standard AccessMode = iota
	// MemoryCache loads the whole (optionally compressed) file into memory.
	MemoryCache
	// MMapCache maps the file read-only.
	MMapCache
)

func (m AccessMode) String() string {
	switch m {
	case Standard:
		return "standard"
	case MemoryCache:
		return "memory"
	case MMapCache:
		return "mmap"
	}
	return fmt.Sprintf("AccessMode(%d)", int(m))
}

// ParseAccessMode maps "standard", "memory" or "mmap" to an AccessMode.
func ParseAccessMode(s string) (AccessMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "standard", "direct":
		return Standard, nil
	case "memory", "memory_cache", "buffered":
		return MemoryCache, nil
	case "mmap", "mmap_cache", "mapped":
		return MMapCache, nil
	}
	return Standard, fmt.Errorf("unknown access mode %q", s)
}

// ByteSource is random access to the database bytes. Implementations must
// return identical bytes for the same file regardless of backing strategy.
type ByteSource interface {
	// Slice returns exactly n bytes starting at off. The returned slice must
	// not be modified; it may alias the source's storage.
	Slice(off, n int64) ([]byte, error)
	Size() int64
	Close() error
}

func checkBounds(off, n, size int64) error {
	if off < 0 || n < 0 || off > size || n > size-off {
		return corrupt(off, "read of %d bytes outside file of %d bytes", n, size)
	}
	return nil
}

// fileSource reads through a single file handle. Seek and read share the
// handle's cursor, so both run under mu.
type fileSource struct {
	mu   sync.Mutex
	f    *os.File
	size int64
}

func openFileSource(path string) (*fileSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &OpenError{Path: path, Err: err}
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, &OpenError{Path: path, Err: err}
	}
	return &fileSource{f: f, size: fi.Size()}, nil
}

func (s *fileSource) Slice(off, n int64) ([]byte, error) {
	if err := checkBounds(off, n, s.size); err != nil {
		return nil, err
	}
	buf := make([]byte, n)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.f == nil {
		return nil, ErrClosed
	}
	if _, err := s.f.Seek(off, io.SeekStart); err != nil {
		return nil, corrupt(off, "seek: %v", err)
	}
	if _, err := io.ReadFull(s.f, buf); err != nil {
		return nil, corrupt(off, "read %d bytes: %v", n, err)
	}
	return buf, nil
}

func (s *fileSource) Size() int64 { return s.size }

func (s *fileSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.f == nil {
		return nil
	}
	err := s.f.Close()
	s.f = nil
	return err
}

// memorySource serves reads from an immutable byte slice.
type memorySource struct {
	data []byte
}

func (s *memorySource) Slice(off, n int64) ([]byte, error) {
	if err := checkBounds(off, n, int64(len(s.data))); err != nil {
		return nil, err
	}
	return s.data[off : off+n : off+n], nil
}

func (s *memorySource) Size() int64 { return int64(len(s.data)) }

func (s *memorySource) Close() error {
	s.data = nil
	return nil
}

func openMemorySource(path string) (*memorySource, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &OpenError{Path: path, Err: err}
	}
	data, err := unwrapContainer(raw)
	if err != nil {
		return nil, &OpenError{Path: path, Err: err}
	}
	return &memorySource{data: data}, nil
}

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// unwrapContainer decompresses gzip or zstd content. Content whose container
// header does not parse is returned as is; a failure after the header parsed
// is an error.
func unwrapContainer(raw []byte) ([]byte, error) {
	if bytes.HasPrefix(raw, zstdMagic) {
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, fmt.Errorf("zstd decoder: %w", err)
		}
		defer dec.Close()
		out, err := dec.DecodeAll(raw, nil)
		if err != nil {
			return nil, fmt.Errorf("zstd decompress: %w", err)
		}
		return out, nil
	}

	zr, err := gzip.NewReader(bytes.NewReader(raw))
	if err != nil {
		// Not a gzip stream.
		return raw, nil
	}
	defer zr.Close()
	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("gzip decompress: %w", err)
	}
	return out, nil
}

func openSource(path string, mode AccessMode) (ByteSource, error) {
	switch mode {
	case Standard:
		return openFileSource(path)
	case MemoryCache:
		return openMemorySource(path)
	case MMapCache:
		return openMappedSource(path)
	}
	return nil, &OpenError{Path: path, Err: fmt.Errorf("unknown access mode %d", int(mode))}
}
