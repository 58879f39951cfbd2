// Package block implements the MDF 4.1 block layer: a shared 24-byte header
// plus typed parse/serialize for every block kind this library handles.
package block

import (
	"encoding/binary"
	"fmt"

	"github.com/scigolib/mdf4/internal/codec"
)

// HeaderSize is the fixed size in bytes of every block's header: a 4-byte
// magic, 4 reserved bytes, an 8-byte total length, and an 8-byte link count.
const HeaderSize = 24

// Alignment is the byte boundary every block is padded to on disk.
const Alignment = 8

// Header is the 24-byte prefix shared by every MDF block.
type Header struct {
	Magic     [4]byte
	Length    uint64 // Total block length: header + links + payload.
	LinkCount uint64
}

// ParseHeader decodes the 24-byte header from the start of buf. It does not
// validate the magic against an expected value — callers compare Magic
// themselves so a single routine can peek a block's kind before dispatch.
func ParseHeader(buf []byte) (Header, error) {
	var h Header
	if len(buf) < HeaderSize {
		return h, fmt.Errorf("%w: need %d bytes for header, got %d", ErrShortBuffer, HeaderSize, len(buf))
	}

	copy(h.Magic[:], buf[0:4])
	// buf[4:8] is reserved.

	length, err := codec.Uint64(buf[8:16], binary.LittleEndian)
	if err != nil {
		return h, err
	}
	h.Length = length

	linkCount, err := codec.Uint64(buf[16:24], binary.LittleEndian)
	if err != nil {
		return h, err
	}
	h.LinkCount = linkCount

	return h, nil
}

// CheckMagic returns ErrUnexpectedMagic if h.Magic does not equal want.
func (h Header) CheckMagic(want [4]byte) error {
	if h.Magic != want {
		return fmt.Errorf("%w: expected %q, got %q", ErrUnexpectedMagic, want, h.Magic)
	}
	return nil
}

// Validate checks the structural invariants every header must satisfy
// regardless of block kind: length covers at least the header and link
// array, and (when bufLen is known) the declared length fits the buffer.
func (h Header) Validate(bufLen int) error {
	minLength := uint64(HeaderSize) + 8*h.LinkCount
	if h.Length < minLength {
		return fmt.Errorf("%w: length %d shorter than header+links %d", ErrBadLength, h.Length, minLength)
	}
	if bufLen >= 0 && h.Length > uint64(bufLen) {
		return fmt.Errorf("%w: declared length %d exceeds buffer size %d", ErrBadLength, h.Length, bufLen)
	}
	return nil
}

// SerializeHeader writes h's 24 bytes into buf[:24], zeroing the reserved
// field.
func SerializeHeader(buf []byte, h Header) error {
	if len(buf) < HeaderSize {
		return fmt.Errorf("%w: need %d bytes for header, got %d", ErrShortBuffer, HeaderSize, len(buf))
	}

	copy(buf[0:4], h.Magic[:])
	buf[4], buf[5], buf[6], buf[7] = 0, 0, 0, 0

	if err := codec.PutUint64(buf[8:16], h.Length, binary.LittleEndian); err != nil {
		return err
	}
	return codec.PutUint64(buf[16:24], h.LinkCount, binary.LittleEndian)
}

// PadLen returns the number of zero padding bytes needed to bring n up to
// the next multiple of Alignment.
func PadLen(n int) int {
	rem := n % Alignment
	if rem == 0 {
		return 0
	}
	return Alignment - rem
}

// ReadLink reads the i'th link (0-based) from a block buffer that begins at
// its header. Links immediately follow the 24-byte header.
func ReadLink(buf []byte, i int) (uint64, error) {
	off := HeaderSize + 8*i
	if off+8 > len(buf) {
		return 0, fmt.Errorf("%w: link %d out of range", ErrShortBuffer, i)
	}
	return codec.Uint64(buf[off:off+8], binary.LittleEndian)
}

// PutLink writes the i'th link into a block buffer that begins at its
// header.
func PutLink(buf []byte, i int, value uint64) error {
	off := HeaderSize + 8*i
	if off+8 > len(buf) {
		return fmt.Errorf("%w: link %d out of range", ErrShortBuffer, i)
	}
	return codec.PutUint64(buf[off:off+8], value, binary.LittleEndian)
}
