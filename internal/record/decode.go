// Package record implements the per-channel record decoder: invalidation
// short-circuit, raw bit/byte extraction by data_type, and (via
// internal/conversion) physical-value conversion. It never touches the
// file itself; callers hand it the fixed-length record byte run and its
// companion invalidation-bit run, both already resolved from a data
// group's fragments.
package record

import (
	"encoding/binary"
	"fmt"

	"github.com/scigolib/mdf4/internal/block"
	"github.com/scigolib/mdf4/internal/codec"
	"github.com/scigolib/mdf4/internal/conversion"
	"github.com/scigolib/mdf4/internal/utils"
)

// VLSDSource supplies the out-of-band entries referenced by a VLSD
// channel's inline record bytes: the value in the record is the entry's
// byte offset within the logical signal data stream, not the value itself.
type VLSDSource interface {
	Entry(index uint64) ([]byte, error)
}

// Decode extracts ch's value from record (and, when ch uses an
// invalidation bit, from invalidation), then applies resolved (nil means
// no conversion). ok is false when the sample is invalid; raw and
// converted values are both meaningless in that case.
func Decode(ch block.Channel, record, invalidation []byte, resolved *conversion.Resolved, vlsd VLSDSource) (conversion.DecodedValue, bool, error) {
	if ch.IsAllInvalid() {
		return conversion.DecodedValue{}, false, nil
	}
	if ch.UsesInvalidationBit() {
		invalid, err := bitSet(invalidation, ch.PosInvalidationBit)
		if err != nil {
			return conversion.DecodedValue{}, false, utils.WrapError("record: read invalidation bit", err)
		}
		if invalid {
			return conversion.DecodedValue{}, false, nil
		}
	}

	raw, err := extractRaw(ch, record, vlsd)
	if err != nil {
		return conversion.DecodedValue{}, false, utils.WrapError("record: extract raw value", err)
	}

	out, err := conversion.Apply(resolved, raw)
	if err != nil {
		return conversion.DecodedValue{}, false, utils.WrapError("record: apply conversion", err)
	}
	return out, true, nil
}

// bitSet reads the bit at bit-position pos (LSB-first byte order,
// matching the record's own invalidation-byte convention) out of
// invalidation.
func bitSet(invalidation []byte, pos uint32) (bool, error) {
	byteOff := pos / 8
	bitOff := uint8(pos % 8)
	if int(byteOff) >= len(invalidation) {
		return false, fmt.Errorf("invalidation bit %d out of range (region is %d bytes)", pos, len(invalidation))
	}
	return invalidation[byteOff]&(1<<bitOff) != 0, nil
}

// extractRaw pulls ch's field out of record per its data_type, producing
// the DecodedValue that conversion.Apply (or, for channels without a
// conversion, the caller) consumes. A VLSD channel's record bytes are
// always an inline handle rather than inline data, regardless of
// data_type, so VLSD is dispatched before the data_type switch.
func extractRaw(ch block.Channel, record []byte, vlsd VLSDSource) (conversion.DecodedValue, error) {
	if ch.ChannelType == block.ChannelTypeVLSD {
		return extractVLSD(ch, record, vlsd)
	}

	byteOff := int(ch.ByteOffset)

	switch ch.DataType {
	case block.DataTypeUnsignedLE, block.DataTypeUnsignedBE:
		v, err := extractInteger(ch, record, byteOff, false)
		if err != nil {
			return conversion.DecodedValue{}, err
		}
		return conversion.Unsigned(v), nil

	case block.DataTypeSignedLE, block.DataTypeSignedBE:
		v, err := extractInteger(ch, record, byteOff, true)
		if err != nil {
			return conversion.DecodedValue{}, err
		}
		return conversion.Signed(int64(v)), nil

	case block.DataTypeFloatLE, block.DataTypeFloatBE:
		return extractFloat(ch, record)

	case block.DataTypeStringLatin1, block.DataTypeStringUTF8, block.DataTypeStringUTF16LE, block.DataTypeStringUTF16BE:
		return extractString(ch, record)

	case block.DataTypeByteArray:
		b, err := rawBytes(ch, record)
		if err != nil {
			return conversion.DecodedValue{}, err
		}
		return conversion.ByteArray(b), nil

	case block.DataTypeMimeSample, block.DataTypeMimeStream:
		b, err := rawBytes(ch, record)
		if err != nil {
			return conversion.DecodedValue{}, err
		}
		kind := conversion.KindMimeSample
		if ch.DataType == block.DataTypeMimeStream {
			kind = conversion.KindMimeStream
		}
		return conversion.DecodedValue{Kind: kind, Bytes: b}, nil

	default:
		return conversion.DecodedValue{}, fmt.Errorf("unsupported data_type %d", ch.DataType)
	}
}

// extractVLSD resolves a VLSD channel's inline handle to its out-of-band
// payload, then decodes that payload per data_type: a string encoding, a
// raw byte array, or an opaque MIME sample/stream.
func extractVLSD(ch block.Channel, record []byte, vlsd VLSDSource) (conversion.DecodedValue, error) {
	b, err := vlsdBytes(ch, record, vlsd)
	if err != nil {
		return conversion.DecodedValue{}, err
	}

	switch ch.DataType {
	case block.DataTypeStringLatin1, block.DataTypeStringUTF8, block.DataTypeStringUTF16LE, block.DataTypeStringUTF16BE:
		s, err := codec.DecodeString(b, stringEncoding(ch.DataType))
		if err != nil {
			return conversion.DecodedValue{}, err
		}
		return conversion.StringValue(s), nil

	case block.DataTypeByteArray:
		return conversion.ByteArray(b), nil

	case block.DataTypeMimeSample:
		return conversion.DecodedValue{Kind: conversion.KindMimeSample, Bytes: b}, nil

	case block.DataTypeMimeStream:
		return conversion.DecodedValue{Kind: conversion.KindMimeStream, Bytes: b}, nil

	default:
		return conversion.DecodedValue{}, fmt.Errorf("unsupported VLSD data_type %d", ch.DataType)
	}
}

func stringEncoding(dt block.DataType) codec.StringEncoding {
	switch dt {
	case block.DataTypeStringUTF8:
		return codec.UTF8
	case block.DataTypeStringUTF16LE:
		return codec.UTF16LE
	case block.DataTypeStringUTF16BE:
		return codec.UTF16BE
	default:
		return codec.Latin1
	}
}

// extractInteger reads ch's bit field, dispatching to the big-endian path
// when ch.DataType names a BE integer kind.
func extractInteger(ch block.Channel, record []byte, byteOff int, signed bool) (uint64, error) {
	be := ch.DataType == block.DataTypeUnsignedBE || ch.DataType == block.DataTypeSignedBE
	if be {
		return extractBitsBE(record, byteOff, ch.BitOffset, uint8(ch.BitCount), signed)
	}
	return codec.ExtractBits(record, byteOff, ch.BitOffset, uint8(ch.BitCount), signed)
}

// rawBytes returns the bit_count/8-byte field verbatim, aligned to a
// byte boundary (bit_offset must be 0 for byte-array/string/MIME
// channels: those kinds are never sub-byte packed).
func rawBytes(ch block.Channel, record []byte) ([]byte, error) {
	if ch.BitOffset != 0 {
		return nil, fmt.Errorf("data_type %d requires bit_offset 0, got %d", ch.DataType, ch.BitOffset)
	}
	if ch.BitCount%8 != 0 {
		return nil, fmt.Errorf("data_type %d requires a byte-multiple bit_count, got %d", ch.DataType, ch.BitCount)
	}
	n := int(ch.BitCount / 8)
	start := int(ch.ByteOffset)
	if start < 0 || start+n > len(record) {
		return nil, codec.ErrShortBuffer
	}
	out := make([]byte, n)
	copy(out, record[start:start+n])
	return out, nil
}

func extractFloat(ch block.Channel, record []byte) (conversion.DecodedValue, error) {
	if ch.BitOffset != 0 {
		return conversion.DecodedValue{}, fmt.Errorf("float channel requires bit_offset 0, got %d", ch.BitOffset)
	}
	start := int(ch.ByteOffset)
	var order binary.ByteOrder = binary.LittleEndian
	if ch.DataType == block.DataTypeFloatBE {
		order = binary.BigEndian
	}

	switch ch.BitCount {
	case 32:
		v, err := codec.Float32(sliceAt(record, start, 4), order)
		if err != nil {
			return conversion.DecodedValue{}, err
		}
		return conversion.FloatValue(float64(v)), nil
	case 64:
		v, err := codec.Float64(sliceAt(record, start, 8), order)
		if err != nil {
			return conversion.DecodedValue{}, err
		}
		return conversion.FloatValue(v), nil
	default:
		return conversion.DecodedValue{}, fmt.Errorf("float channel bit_count must be 32 or 64, got %d", ch.BitCount)
	}
}

func extractString(ch block.Channel, record []byte) (conversion.DecodedValue, error) {
	b, err := rawBytes(ch, record)
	if err != nil {
		return conversion.DecodedValue{}, err
	}

	var enc codec.StringEncoding
	switch ch.DataType {
	case block.DataTypeStringLatin1:
		enc = codec.Latin1
	case block.DataTypeStringUTF8:
		enc = codec.UTF8
	case block.DataTypeStringUTF16LE:
		enc = codec.UTF16LE
	case block.DataTypeStringUTF16BE:
		enc = codec.UTF16BE
	}

	s, err := codec.DecodeString(b, enc)
	if err != nil {
		return conversion.DecodedValue{}, err
	}
	return conversion.StringValue(s), nil
}

// vlsdBytes reads the inline handle (the entry's byte offset within the
// signal data stream that cn_data links to) and resolves it to the
// out-of-band payload.
func vlsdBytes(ch block.Channel, record []byte, vlsd VLSDSource) ([]byte, error) {
	if vlsd == nil {
		return nil, fmt.Errorf("channel is VLSD but no signal data source was supplied")
	}
	v, err := codec.ExtractBits(record, int(ch.ByteOffset), ch.BitOffset, uint8(ch.BitCount), false)
	if err != nil {
		return nil, err
	}
	return vlsd.Entry(v)
}

func sliceAt(buf []byte, start, n int) []byte {
	if start < 0 || start+n > len(buf) {
		return nil
	}
	return buf[start : start+n]
}

// extractBitsBE reinterprets a big-endian field by byte-reversing the
// relevant span before handing it to ExtractBits, whose shift-and-mask
// path is little-endian-bit-order only. Sub-byte big-endian fields
// (bitOffset != 0) are rejected: the format does not define bit order
// within a byte for BE integer channels.
func extractBitsBE(record []byte, byteOffset int, bitOffset, bitCount uint8, signed bool) (uint64, error) {
	if bitOffset != 0 {
		return 0, fmt.Errorf("big-endian integer channel requires bit_offset 0, got %d", bitOffset)
	}
	if bitCount%8 != 0 {
		return 0, fmt.Errorf("big-endian integer channel requires a byte-multiple bit_count, got %d", bitCount)
	}
	n := int(bitCount / 8)
	if byteOffset < 0 || byteOffset+n > len(record) {
		return 0, codec.ErrShortBuffer
	}
	reversed := make([]byte, n)
	for i := 0; i < n; i++ {
		reversed[i] = record[byteOffset+n-1-i]
	}
	return codec.ExtractBits(reversed, 0, 0, bitCount, signed)
}
