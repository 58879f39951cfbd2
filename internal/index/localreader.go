package index

import (
	"fmt"
	"os"
)

// LocalFileReader is the built-in ByteRangeReader implementation: a plain
// local file accessed via ReadAt. HTTP Range and object-storage readers
// are pluggable implementations of the same interface, not provided here.
type LocalFileReader struct {
	f *os.File
}

// OpenLocalFile opens path for range reads.
func OpenLocalFile(path string) (*LocalFileReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("index: open %s: %w", path, err)
	}
	return &LocalFileReader{f: f}, nil
}

// ReadRange reads exactly length bytes starting at offset. A short read
// is reported as an error rather than returned as a partial slice.
func (r *LocalFileReader) ReadRange(offset, length uint64) ([]byte, error) {
	buf := make([]byte, length)
	n, err := r.f.ReadAt(buf, int64(offset))
	if err != nil {
		return nil, fmt.Errorf("index: read range [%d, %d): %w", offset, offset+length, err)
	}
	if uint64(n) != length {
		return nil, fmt.Errorf("index: short read at offset %d: got %d of %d bytes", offset, n, length)
	}
	return buf, nil
}

// Close releases the underlying file.
func (r *LocalFileReader) Close() error {
	return r.f.Close()
}

var _ ByteRangeReader = (*LocalFileReader)(nil)
