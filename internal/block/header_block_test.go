package block

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderBlockRoundTrip(t *testing.T) {
	want := HeaderBlock{
		DataGroupFirst: 0x80,
		StartTimeNS:    1_700_000_000_000_000_000,
		TZOffsetMin:    -300,
		DSTOffsetMin:   60,
		TimeFlags:      1,
	}

	buf := make([]byte, HeaderBlockSize)
	require.NoError(t, want.Serialize(buf))

	got, err := ParseHeaderBlock(buf)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestHeaderBlockZeroDataGroup(t *testing.T) {
	want := HeaderBlock{}
	buf := make([]byte, HeaderBlockSize)
	require.NoError(t, want.Serialize(buf))

	got, err := ParseHeaderBlock(buf)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), got.DataGroupFirst)
}

func TestParseHeaderBlockWrongLinkCount(t *testing.T) {
	buf := make([]byte, HeaderBlockSize)
	h := Header{Magic: MagicHD, Length: HeaderBlockSize, LinkCount: 2}
	require.NoError(t, SerializeHeader(buf, h))

	_, err := ParseHeaderBlock(buf)
	assert.ErrorIs(t, err, ErrBadLength)
}

func TestParseHeaderBlockBadMagic(t *testing.T) {
	buf := make([]byte, HeaderBlockSize)
	h := Header{Magic: MagicDG, Length: HeaderBlockSize, LinkCount: 1}
	require.NoError(t, SerializeHeader(buf, h))

	_, err := ParseHeaderBlock(buf)
	assert.ErrorIs(t, err, ErrUnexpectedMagic)
}

func TestHeaderBlockSerializeShortBuffer(t *testing.T) {
	err := HeaderBlock{}.Serialize(make([]byte, 10))
	assert.ErrorIs(t, err, ErrShortBuffer)
}
