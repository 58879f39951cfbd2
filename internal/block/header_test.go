package block

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHeader(t *testing.T) {
	buf := make([]byte, 32)
	copy(buf[0:4], "##CN")
	SerializeHeader(buf, Header{Magic: MagicCN, Length: 32, LinkCount: 1})

	h, err := ParseHeader(buf)
	require.NoError(t, err)
	assert.Equal(t, MagicCN, h.Magic)
	assert.Equal(t, uint64(32), h.Length)
	assert.Equal(t, uint64(1), h.LinkCount)
}

func TestParseHeaderShortBuffer(t *testing.T) {
	_, err := ParseHeader(make([]byte, 10))
	assert.ErrorIs(t, err, ErrShortBuffer)
}

func TestHeaderCheckMagic(t *testing.T) {
	h := Header{Magic: MagicCN}
	assert.NoError(t, h.CheckMagic(MagicCN))
	assert.ErrorIs(t, h.CheckMagic(MagicCG), ErrUnexpectedMagic)
}

func TestHeaderValidate(t *testing.T) {
	tests := []struct {
		name    string
		h       Header
		bufLen  int
		wantErr error
	}{
		{"ok", Header{Length: 40, LinkCount: 2}, 40, nil},
		{"length shorter than header+links", Header{Length: 20, LinkCount: 2}, 40, ErrBadLength},
		{"length exceeds buffer", Header{Length: 100, LinkCount: 0}, 40, ErrBadLength},
		{"unknown buffer length skips upper check", Header{Length: 100, LinkCount: 0}, -1, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.h.Validate(tt.bufLen)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestSerializeHeaderRoundTrip(t *testing.T) {
	buf := make([]byte, HeaderSize)
	want := Header{Magic: MagicDG, Length: 56, LinkCount: 3}
	require.NoError(t, SerializeHeader(buf, want))

	got, err := ParseHeader(buf)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSerializeHeaderShortBuffer(t *testing.T) {
	err := SerializeHeader(make([]byte, 10), Header{})
	assert.ErrorIs(t, err, ErrShortBuffer)
}

func TestPadLen(t *testing.T) {
	tests := []struct {
		n    int
		want int
	}{
		{0, 0},
		{8, 0},
		{16, 0},
		{1, 7},
		{7, 1},
		{9, 7},
		{63, 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PadLen(tt.n), "PadLen(%d)", tt.n)
	}
}

func TestLinkRoundTrip(t *testing.T) {
	buf := make([]byte, HeaderSize+24)
	require.NoError(t, PutLink(buf, 0, 0x1122334455667788))
	require.NoError(t, PutLink(buf, 1, 0))
	require.NoError(t, PutLink(buf, 2, 42))

	v0, err := ReadLink(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x1122334455667788), v0)

	v1, err := ReadLink(buf, 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), v1)

	v2, err := ReadLink(buf, 2)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), v2)
}

func TestLinkOutOfRange(t *testing.T) {
	buf := make([]byte, HeaderSize+8)
	_, err := ReadLink(buf, 5)
	assert.ErrorIs(t, err, ErrShortBuffer)

	err = PutLink(buf, 5, 1)
	assert.ErrorIs(t, err, ErrShortBuffer)
}
