package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scigolib/mdf4/internal/block"
	"github.com/scigolib/mdf4/internal/conversion"
)

func baseChannel() block.Channel {
	return block.Channel{
		DataType:   block.DataTypeUnsignedLE,
		ByteOffset: 0,
		BitOffset:  0,
		BitCount:   32,
	}
}

func TestDecodeAllInvalidShortCircuits(t *testing.T) {
	ch := baseChannel()
	ch.Flags = block.FlagAllInvalid
	_, ok, err := Decode(ch, []byte{1, 2, 3, 4}, nil, nil, nil)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDecodeInvalidationBitClearMeansAlwaysValid(t *testing.T) {
	ch := baseChannel()
	record := []byte{0x2A, 0, 0, 0}
	out, ok, err := Decode(ch, record, nil, nil, nil)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uint64(0x2A), out.Uint)
}

func TestDecodeInvalidationBitSet(t *testing.T) {
	ch := baseChannel()
	ch.Flags = block.FlagInvalidationUsed
	ch.PosInvalidationBit = 3

	invalidation := []byte{0b00001000}
	_, ok, err := Decode(ch, []byte{1, 0, 0, 0}, invalidation, nil, nil)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDecodeInvalidationBitClearButChannelUsesIt(t *testing.T) {
	ch := baseChannel()
	ch.Flags = block.FlagInvalidationUsed
	ch.PosInvalidationBit = 3

	invalidation := []byte{0b00000000}
	out, ok, err := Decode(ch, []byte{7, 0, 0, 0}, invalidation, nil, nil)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uint64(7), out.Uint)
}

func TestDecodeInvalidationBitOutOfRange(t *testing.T) {
	ch := baseChannel()
	ch.Flags = block.FlagInvalidationUsed
	ch.PosInvalidationBit = 100

	_, _, err := Decode(ch, []byte{0, 0, 0, 0}, []byte{0}, nil, nil)
	assert.Error(t, err)
}

func TestDecodeUnsignedLittleEndian(t *testing.T) {
	ch := baseChannel()
	record := []byte{0x01, 0x00, 0x00, 0x00}
	out, ok, err := Decode(ch, record, nil, nil, nil)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uint64(1), out.Uint)
}

func TestDecodeUnsignedBigEndian(t *testing.T) {
	ch := baseChannel()
	ch.DataType = block.DataTypeUnsignedBE
	record := []byte{0x00, 0x00, 0x00, 0x01}
	out, ok, err := Decode(ch, record, nil, nil, nil)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uint64(1), out.Uint)
}

func TestDecodeSignedLittleEndianNegative(t *testing.T) {
	ch := baseChannel()
	ch.DataType = block.DataTypeSignedLE
	ch.BitCount = 16
	record := []byte{0xFF, 0xFF}
	out, ok, err := Decode(ch, record, nil, nil, nil)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(-1), out.Int)
}

func TestDecodeSignedBigEndianNegative(t *testing.T) {
	ch := baseChannel()
	ch.DataType = block.DataTypeSignedBE
	ch.BitCount = 16
	record := []byte{0xFF, 0xFE}
	out, ok, err := Decode(ch, record, nil, nil, nil)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(-2), out.Int)
}

func TestDecodeSubByteBitField(t *testing.T) {
	ch := baseChannel()
	ch.BitOffset = 2
	ch.BitCount = 3
	record := []byte{0b00011100} // bits 2..4 = 0b111 = 7
	out, ok, err := Decode(ch, record, nil, nil, nil)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uint64(7), out.Uint)
}

func TestDecodeFloat32(t *testing.T) {
	ch := baseChannel()
	ch.DataType = block.DataTypeFloatLE
	ch.BitCount = 32
	record := []byte{0x00, 0x00, 0x80, 0x3F} // 1.0f LE
	out, ok, err := Decode(ch, record, nil, nil, nil)
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, 1.0, out.Float, 1e-9)
}

func TestDecodeFloat64BigEndian(t *testing.T) {
	ch := baseChannel()
	ch.DataType = block.DataTypeFloatBE
	ch.BitCount = 64
	record := []byte{0x3F, 0xF0, 0, 0, 0, 0, 0, 0} // 1.0 BE
	out, ok, err := Decode(ch, record, nil, nil, nil)
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, 1.0, out.Float, 1e-9)
}

func TestDecodeFloatRejectsOddWidth(t *testing.T) {
	ch := baseChannel()
	ch.DataType = block.DataTypeFloatLE
	ch.BitCount = 16
	_, _, err := Decode(ch, []byte{0, 0}, nil, nil, nil)
	assert.Error(t, err)
}

func TestDecodeStringUTF8StripsTrailingNUL(t *testing.T) {
	ch := baseChannel()
	ch.DataType = block.DataTypeStringUTF8
	ch.BitCount = 8 * 8
	record := []byte("speed\x00\x00\x00")
	out, ok, err := Decode(ch, record, nil, nil, nil)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "speed", out.Str)
}

func TestDecodeStringUTF16LE(t *testing.T) {
	ch := baseChannel()
	ch.DataType = block.DataTypeStringUTF16LE
	ch.BitCount = 8 * 8
	record := []byte{'o', 0, 'k', 0, 0, 0, 0, 0}
	out, ok, err := Decode(ch, record, nil, nil, nil)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "ok", out.Str)
}

func TestDecodeByteArray(t *testing.T) {
	ch := baseChannel()
	ch.DataType = block.DataTypeByteArray
	ch.BitCount = 3 * 8
	record := []byte{0xDE, 0xAD, 0xBE}
	out, ok, err := Decode(ch, record, nil, nil, nil)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte{0xDE, 0xAD, 0xBE}, out.Bytes)
}

func TestDecodeVLSDMimeSample(t *testing.T) {
	ch := baseChannel()
	ch.DataType = block.DataTypeMimeSample
	ch.ChannelType = block.ChannelTypeVLSD
	ch.BitCount = 32

	// "first" occupies stream offset 0 (4-byte length prefix + 5 bytes);
	// "second" starts right after, at offset 9.
	entries := OffsetEntries{0: []byte("first"), 9: []byte("second")}
	record := []byte{0x09, 0x00, 0x00, 0x00} // offset 9 -> "second"

	out, ok, err := Decode(ch, record, nil, nil, entries)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("second"), out.Bytes)
	assert.Equal(t, conversion.KindMimeSample, out.Kind)
}

func TestDecodeVLSDWithoutSourceErrors(t *testing.T) {
	ch := baseChannel()
	ch.DataType = block.DataTypeMimeStream
	ch.ChannelType = block.ChannelTypeVLSD
	ch.BitCount = 32
	_, _, err := Decode(ch, []byte{0, 0, 0, 0}, nil, nil, nil)
	assert.Error(t, err)
}

func TestDecodeVLSDIndexOutOfRange(t *testing.T) {
	ch := baseChannel()
	ch.DataType = block.DataTypeMimeSample
	ch.ChannelType = block.ChannelTypeVLSD
	ch.BitCount = 32
	entries := OffsetEntries{0: []byte("only")}
	record := []byte{0x05, 0x00, 0x00, 0x00} // no entry at stream offset 5
	_, _, err := Decode(ch, record, nil, nil, entries)
	assert.Error(t, err)
}

func TestDecodeVLSDStringChannel(t *testing.T) {
	ch := baseChannel()
	ch.DataType = block.DataTypeStringUTF8
	ch.ChannelType = block.ChannelTypeVLSD
	ch.BitCount = 32

	// "first" occupies stream offset 0, "second" starts at offset 9 (4
	// byte length prefix + 5 byte payload).
	entries := OffsetEntries{0: []byte("first"), 9: []byte("second")}
	record := []byte{0x09, 0x00, 0x00, 0x00} // offset 9 -> "second"

	out, ok, err := Decode(ch, record, nil, nil, entries)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "second", out.Str)
}

func TestDecodeVLSDByteArrayChannel(t *testing.T) {
	ch := baseChannel()
	ch.DataType = block.DataTypeByteArray
	ch.ChannelType = block.ChannelTypeVLSD
	ch.BitCount = 32

	entries := OffsetEntries{0: {0xDE, 0xAD, 0xBE}}
	record := []byte{0x00, 0x00, 0x00, 0x00}

	out, ok, err := Decode(ch, record, nil, nil, entries)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte{0xDE, 0xAD, 0xBE}, out.Bytes)
}

func TestDecodeAppliesConversion(t *testing.T) {
	ch := baseChannel()
	record := []byte{0x0A, 0x00, 0x00, 0x00} // 10
	resolved := &conversion.Resolved{Type: block.CCLinear, Val: []float64{5, 2}}

	out, ok, err := Decode(ch, record, nil, resolved, nil)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, float64(25), out.Float)
}

func TestDecodeShortRecordBuffer(t *testing.T) {
	ch := baseChannel()
	_, _, err := Decode(ch, []byte{0, 0}, nil, nil, nil)
	assert.Error(t, err)
}
