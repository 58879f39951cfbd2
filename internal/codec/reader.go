// Package codec implements the primitive read/write layer shared by the
// block, graph, and record packages: fixed-width scalar decoding in either
// byte order, sub-byte bit-field extraction, and string decoding across the
// four MDF text encodings.
package codec

import (
	"encoding/binary"

	"github.com/scigolib/mdf4/internal/utils"
)

// ReaderAt is a simplified interface for io.ReaderAt, kept separate so
// callers needing only offset-based reads (the graph parser's file reader,
// in particular) don't have to import io directly.
type ReaderAt interface {
	ReadAt(p []byte, off int64) (n int, err error)
}

// ReadUint64 reads a 64-bit value at the given absolute offset.
func ReadUint64(r ReaderAt, offset int64, order binary.ByteOrder) (uint64, error) {
	buf := utils.GetBuffer(8)
	defer utils.ReleaseBuffer(buf)

	if _, err := r.ReadAt(buf, offset); err != nil {
		return 0, err
	}
	return order.Uint64(buf), nil
}

// ReadUint32 reads a 32-bit value at the given absolute offset.
func ReadUint32(r ReaderAt, offset int64, order binary.ByteOrder) (uint32, error) {
	buf := utils.GetBuffer(4)
	defer utils.ReleaseBuffer(buf)

	if _, err := r.ReadAt(buf, offset); err != nil {
		return 0, err
	}
	return order.Uint32(buf), nil
}

// ReadExact reads exactly n bytes at offset. On a short read it returns
// the non-nil error the underlying ReadAt reports (io.EOF for an
// *os.File read past the end).
func ReadExact(r ReaderAt, offset int64, n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := r.ReadAt(buf, offset); err != nil {
		return nil, err
	}
	return buf, nil
}
