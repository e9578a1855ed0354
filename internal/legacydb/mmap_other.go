//go:build !unix

package legacydb

import "os"

// mappedSource falls back to a private copy where mmap is unavailable.
type mappedSource struct {
	memorySource
}

func openMappedSource(path string) (*mappedSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &OpenError{Path: path, Err: err}
	}
	return &mappedSource{memorySource: memorySource{data: data}}, nil
}
