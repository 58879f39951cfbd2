package block

import (
	"encoding/binary"
	"fmt"

	"github.com/scigolib/mdf4/internal/codec"
)

// CCType enumerates cc_type, the 12 conversion kinds.
type CCType uint8

const (
	CCIdentity CCType = iota
	CCLinear
	CCRational
	CCAlgebraic
	CCTableLookupInterp
	CCTableLookupNoInterp
	CCRangeLookup
	CCValueToText
	CCRangeToText
	CCTextToValue
	CCTextToText
	CCBitfieldText
)

// ccPayloadHeaderSize is the fixed portion of a conversion block's payload
// preceding the variable Val array: cc_type (1 byte), 3 reserved, val_count
// (uint32).
const ccPayloadHeaderSize = 8

// Conversion (##CC) holds cc_type, a variable list of f64 values (Val —
// coefficients for Linear/Rational, x/y pairs for the table kinds, masks
// for BitfieldText reinterpreted as float64 bit patterns), and a variable
// list of cc_ref links to text blocks or nested conversions.
type Conversion struct {
	Type CCType
	Val  []float64
	Ref  []uint64 // Links: ##TX/##MD text blocks or nested ##CC blocks.
}

// Size returns the exact on-disk size of c once serialized.
func (c Conversion) Size() uint64 {
	return uint64(HeaderSize) + 8*uint64(len(c.Ref)) + ccPayloadHeaderSize + 8*uint64(len(c.Val))
}

// ParseConversion parses a ##CC block.
func ParseConversion(buf []byte) (Conversion, error) {
	var c Conversion

	h, err := ParseHeader(buf)
	if err != nil {
		return c, err
	}
	if err := h.CheckMagic(MagicCC); err != nil {
		return c, err
	}
	if err := h.Validate(len(buf)); err != nil {
		return c, err
	}

	refCount := int(h.LinkCount)
	c.Ref = make([]uint64, refCount)
	for i := range c.Ref {
		if c.Ref[i], err = ReadLink(buf, i); err != nil {
			return c, err
		}
	}

	payloadStart := HeaderSize + 8*refCount
	if len(buf) < payloadStart+ccPayloadHeaderSize {
		return c, fmt.Errorf("%w: conversion payload header too short", ErrShortBuffer)
	}
	payload := buf[payloadStart:]

	c.Type = CCType(payload[0])

	valCount, err := codec.Uint32(payload[4:8], binary.LittleEndian)
	if err != nil {
		return c, err
	}

	valsStart := ccPayloadHeaderSize
	needed := valsStart + 8*int(valCount)
	if len(payload) < needed {
		return c, fmt.Errorf("%w: conversion value array truncated", ErrShortBuffer)
	}

	c.Val = make([]float64, valCount)
	for i := range c.Val {
		off := valsStart + 8*i
		v, err := codec.Float64(payload[off:off+8], binary.LittleEndian)
		if err != nil {
			return c, err
		}
		c.Val[i] = v
	}

	return c, nil
}

// Serialize emits a ##CC block into buf, which must be at least c.Size()
// bytes.
func (c Conversion) Serialize(buf []byte) error {
	size := c.Size()
	if uint64(len(buf)) < size {
		return fmt.Errorf("%w: conversion needs %d bytes, got %d", ErrShortBuffer, size, len(buf))
	}

	h := Header{Magic: MagicCC, Length: size, LinkCount: uint64(len(c.Ref))}
	if err := SerializeHeader(buf, h); err != nil {
		return err
	}

	for i, ref := range c.Ref {
		if err := PutLink(buf, i, ref); err != nil {
			return err
		}
	}

	payloadStart := HeaderSize + 8*len(c.Ref)
	payload := buf[payloadStart:]

	payload[0] = byte(c.Type)
	payload[1], payload[2], payload[3] = 0, 0, 0
	if err := codec.PutUint32(payload[4:8], uint32(len(c.Val)), binary.LittleEndian); err != nil {
		return err
	}

	for i, v := range c.Val {
		off := ccPayloadHeaderSize + 8*i
		if err := codec.PutFloat64(payload[off:off+8], v, binary.LittleEndian); err != nil {
			return err
		}
	}

	return nil
}
