//go:build unix

package legacydb

import (
	"os"

	"golang.org/x/sys/unix"
)

// mappedSource is a read-only shared mapping of the database file.
type mappedSource struct {
	memorySource
	f *os.File
}

func openMappedSource(path string) (*mappedSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &OpenError{Path: path, Err: err}
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, &OpenError{Path: path, Err: err}
	}

	size := fi.Size()
	if size == 0 {
		// mmap rejects empty mappings; the header scan reports the format error.
		return &mappedSource{f: f}, nil
	}
	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, &OpenError{Path: path, Err: err}
	}
	return &mappedSource{memorySource: memorySource{data: data}, f: f}, nil
}

func (s *mappedSource) Close() error {
	var err error
	if s.data != nil {
		err = unix.Munmap(s.data)
		s.data = nil
	}
	if s.f != nil {
		if cerr := s.f.Close(); cerr != nil && err == nil {
			err = cerr
		}
		s.f = nil
	}
	return err
}
