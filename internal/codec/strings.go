package codec

import (
	"bytes"
	"fmt"
	"unicode/utf16"
	"unicode/utf8"
)

// StringEncoding enumerates the four text encodings MDF channel data can
// carry, matching the data_type enumerants for string channels.
type StringEncoding int

const (
	Latin1 StringEncoding = iota
	UTF8
	UTF16LE
	UTF16BE
)

// DecodeString decodes buf under the given encoding and strips trailing
// NUL bytes/code units.
func DecodeString(buf []byte, enc StringEncoding) (string, error) {
	switch enc {
	case Latin1:
		return decodeLatin1(buf), nil
	case UTF8:
		return decodeUTF8(buf), nil
	case UTF16LE:
		return decodeUTF16(buf, true)
	case UTF16BE:
		return decodeUTF16(buf, false)
	default:
		return "", fmt.Errorf("codec: unknown string encoding %d", enc)
	}
}

func decodeLatin1(buf []byte) string {
	buf = bytes.TrimRight(buf, "\x00")
	runes := make([]rune, len(buf))
	for i, b := range buf {
		runes[i] = rune(b)
	}
	return string(runes)
}

func decodeUTF8(buf []byte) string {
	return string(bytes.TrimRight(buf, "\x00"))
}

func decodeUTF16(buf []byte, little bool) (string, error) {
	if len(buf)%2 != 0 {
		return "", fmt.Errorf("codec: UTF-16 payload length %d is odd", len(buf))
	}

	units := make([]uint16, 0, len(buf)/2)
	for i := 0; i < len(buf); i += 2 {
		var u uint16
		if little {
			u = uint16(buf[i]) | uint16(buf[i+1])<<8
		} else {
			u = uint16(buf[i])<<8 | uint16(buf[i+1])
		}
		units = append(units, u)
	}

	for len(units) > 0 && units[len(units)-1] == 0 {
		units = units[:len(units)-1]
	}

	return string(utf16.Decode(units)), nil
}

// EncodeString is the writer-side counterpart of DecodeString: it produces
// the null-terminated byte payload for s under the given encoding.
func EncodeString(s string, enc StringEncoding) ([]byte, error) {
	switch enc {
	case Latin1:
		out := make([]byte, 0, len(s)+1)
		for _, r := range s {
			if r > 0xFF {
				return nil, fmt.Errorf("codec: rune %q not representable in Latin-1", r)
			}
			out = append(out, byte(r))
		}
		return append(out, 0), nil
	case UTF8:
		if !utf8.ValidString(s) {
			return nil, fmt.Errorf("codec: invalid UTF-8 string")
		}
		return append([]byte(s), 0), nil
	case UTF16LE, UTF16BE:
		units := utf16.Encode([]rune(s))
		out := make([]byte, 0, len(units)*2+2)
		for _, u := range units {
			if enc == UTF16LE {
				out = append(out, byte(u), byte(u>>8))
			} else {
				out = append(out, byte(u>>8), byte(u))
			}
		}
		return append(out, 0, 0), nil
	default:
		return nil, fmt.Errorf("codec: unknown string encoding %d", enc)
	}
}
