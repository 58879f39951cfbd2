package codec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractBits_ByteAligned(t *testing.T) {
	buf := []byte{0xAB, 0xCD, 0x00, 0x00}
	v, err := ExtractBits(buf, 0, 0, 8, false)
	require.NoError(t, err)
	require.Equal(t, uint64(0xAB), v)

	v, err = ExtractBits(buf, 0, 0, 16, false)
	require.NoError(t, err)
	require.Equal(t, uint64(0xCDAB), v)
}

func TestExtractBits_SubByteOffset(t *testing.T) {
	// 0b1010_1100 -> bits [2:6) = 1011 = 0xB, reading from LSB-first bit 2.
	buf := []byte{0b10101100}
	v, err := ExtractBits(buf, 0, 2, 4, false)
	require.NoError(t, err)
	require.Equal(t, uint64(0b1011), v)
}

func TestExtractBits_SingleBit(t *testing.T) {
	buf := []byte{0b00000001}
	v, err := ExtractBits(buf, 0, 0, 1, false)
	require.NoError(t, err)
	require.Equal(t, uint64(1), v)

	v, err = ExtractBits(buf, 0, 1, 1, false)
	require.NoError(t, err)
	require.Equal(t, uint64(0), v)
}

func TestExtractBits_SignExtend(t *testing.T) {
	// 4-bit value 0b1000 (=-8 signed, 8 unsigned) at bit offset 0.
	buf := []byte{0b00001000}
	unsigned, err := ExtractBits(buf, 0, 0, 4, false)
	require.NoError(t, err)
	require.Equal(t, uint64(8), unsigned)

	signed, err := ExtractBits(buf, 0, 0, 4, true)
	require.NoError(t, err)
	require.Equal(t, uint64(0xFFFFFFFFFFFFFFF8), signed)
	require.Equal(t, int64(-8), int64(signed))
}

func TestExtractBits_FullWord(t *testing.T) {
	buf := []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}
	v, err := ExtractBits(buf, 0, 0, 64, false)
	require.NoError(t, err)
	require.Equal(t, uint64(0xFFFFFFFFFFFFFFFF), v)
}

func TestExtractBits_Errors(t *testing.T) {
	buf := []byte{0x01, 0x02}

	_, err := ExtractBits(buf, 0, 8, 4, false)
	require.Error(t, err)

	_, err = ExtractBits(buf, 0, 0, 0, false)
	require.Error(t, err)

	_, err = ExtractBits(buf, 0, 0, 65, false)
	require.Error(t, err)

	_, err = ExtractBits(buf, 5, 0, 8, false)
	require.ErrorIs(t, err, ErrShortBuffer)
}

func TestPackBits_RoundTrip(t *testing.T) {
	buf := make([]byte, 4)
	require.NoError(t, PackBits(buf, 0, 2, 4, 0b1011))

	v, err := ExtractBits(buf, 0, 2, 4, false)
	require.NoError(t, err)
	require.Equal(t, uint64(0b1011), v)
}

func TestPackBits_PreservesNeighboringBits(t *testing.T) {
	buf := []byte{0b11110000}
	require.NoError(t, PackBits(buf, 0, 0, 4, 0b1010))
	require.Equal(t, byte(0b11111010), buf[0])
}

func TestPackBits_FullByteField(t *testing.T) {
	buf := make([]byte, 8)
	require.NoError(t, PackBits(buf, 0, 0, 64, 0xDEADBEEFCAFEBABE))
	v, err := ExtractBits(buf, 0, 0, 64, false)
	require.NoError(t, err)
	require.Equal(t, uint64(0xDEADBEEFCAFEBABE), v)
}
