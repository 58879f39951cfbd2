package codec

import (
	"encoding/binary"
	"fmt"
	"math"
)

// ErrShortBuffer is returned by any scalar read that needs more bytes than
// are available in the supplied slice.
var ErrShortBuffer = fmt.Errorf("codec: short buffer")

func require(buf []byte, n int) error {
	if len(buf) < n {
		return ErrShortBuffer
	}
	return nil
}

// Uint16 decodes a 16-bit unsigned integer in the given byte order.
func Uint16(buf []byte, order binary.ByteOrder) (uint16, error) {
	if err := require(buf, 2); err != nil {
		return 0, err
	}
	return order.Uint16(buf), nil
}

// Uint32 decodes a 32-bit unsigned integer in the given byte order.
func Uint32(buf []byte, order binary.ByteOrder) (uint32, error) {
	if err := require(buf, 4); err != nil {
		return 0, err
	}
	return order.Uint32(buf), nil
}

// Uint64 decodes a 64-bit unsigned integer in the given byte order.
func Uint64(buf []byte, order binary.ByteOrder) (uint64, error) {
	if err := require(buf, 8); err != nil {
		return 0, err
	}
	return order.Uint64(buf), nil
}

// Float32 decodes an IEEE-754 single-precision float in the given byte order.
func Float32(buf []byte, order binary.ByteOrder) (float32, error) {
	bits, err := Uint32(buf, order)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(bits), nil
}

// Float64 decodes an IEEE-754 double-precision float in the given byte order.
func Float64(buf []byte, order binary.ByteOrder) (float64, error) {
	bits, err := Uint64(buf, order)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(bits), nil
}

// PutUint16 encodes v into buf[:2] in the given byte order.
func PutUint16(buf []byte, v uint16, order binary.ByteOrder) error {
	if err := require(buf, 2); err != nil {
		return err
	}
	order.PutUint16(buf, v)
	return nil
}

// PutUint32 encodes v into buf[:4] in the given byte order.
func PutUint32(buf []byte, v uint32, order binary.ByteOrder) error {
	if err := require(buf, 4); err != nil {
		return err
	}
	order.PutUint32(buf, v)
	return nil
}

// PutUint64 encodes v into buf[:8] in the given byte order.
func PutUint64(buf []byte, v uint64, order binary.ByteOrder) error {
	if err := require(buf, 8); err != nil {
		return err
	}
	order.PutUint64(buf, v)
	return nil
}

// PutFloat32 encodes v into buf[:4] in the given byte order.
func PutFloat32(buf []byte, v float32, order binary.ByteOrder) error {
	return PutUint32(buf, math.Float32bits(v), order)
}

// PutFloat64 encodes v into buf[:8] in the given byte order.
func PutFloat64(buf []byte, v float64, order binary.ByteOrder) error {
	return PutUint64(buf, math.Float64bits(v), order)
}
