package codec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeString_Latin1(t *testing.T) {
	buf := []byte{'H', 'e', 'l', 'l', 'o', 0xE9, 0x00, 0x00}
	s, err := DecodeString(buf, Latin1)
	require.NoError(t, err)
	require.Equal(t, "Hello"+string(rune(0xE9)), s)
}

func TestDecodeString_UTF8(t *testing.T) {
	buf := append([]byte("café"), 0x00)
	s, err := DecodeString(buf, UTF8)
	require.NoError(t, err)
	require.Equal(t, "café", s)
}

func TestDecodeString_UTF16LE(t *testing.T) {
	// "Hi" as UTF-16LE plus trailing NUL code unit.
	buf := []byte{'H', 0x00, 'i', 0x00, 0x00, 0x00}
	s, err := DecodeString(buf, UTF16LE)
	require.NoError(t, err)
	require.Equal(t, "Hi", s)
}

func TestDecodeString_UTF16BE(t *testing.T) {
	buf := []byte{0x00, 'H', 0x00, 'i', 0x00, 0x00}
	s, err := DecodeString(buf, UTF16BE)
	require.NoError(t, err)
	require.Equal(t, "Hi", s)
}

func TestDecodeString_UTF16OddLength(t *testing.T) {
	_, err := DecodeString([]byte{0x00, 0x48, 0x00}, UTF16BE)
	require.Error(t, err)
}

func TestDecodeString_UnknownEncoding(t *testing.T) {
	_, err := DecodeString([]byte{0x00}, StringEncoding(99))
	require.Error(t, err)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		s    string
		enc  StringEncoding
	}{
		{name: "latin1 ascii", s: "hello", enc: Latin1},
		{name: "utf8 unicode", s: "café ☃", enc: UTF8},
		{name: "utf16le", s: "hello world", enc: UTF16LE},
		{name: "utf16be", s: "hello world", enc: UTF16BE},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded, err := EncodeString(tt.s, tt.enc)
			require.NoError(t, err)

			decoded, err := DecodeString(encoded, tt.enc)
			require.NoError(t, err)
			require.Equal(t, tt.s, decoded)
		})
	}
}

func TestEncodeString_Latin1Rejects(t *testing.T) {
	_, err := EncodeString("☃", Latin1)
	require.Error(t, err)
}
