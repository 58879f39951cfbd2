package block

import "fmt"

// Text represents both ##TX (plain UTF-8) and ##MD (XML) blocks: a
// null-terminated payload, padded to an 8-byte boundary.
type Text struct {
	Value    string
	Metadata bool // true -> ##MD, false -> ##TX.
}

func (t Text) magic() [4]byte {
	if t.Metadata {
		return MagicMD
	}
	return MagicTX
}

// Size returns the exact on-disk size of t once serialized.
func (t Text) Size() uint64 {
	raw := len(t.Value) + 1 // null terminator
	return uint64(HeaderSize + raw + PadLen(HeaderSize+raw))
}

// ParseText parses a ##TX or ##MD block, stripping the trailing NUL and any
// alignment padding.
func ParseText(buf []byte) (Text, error) {
	var t Text

	h, err := ParseHeader(buf)
	if err != nil {
		return t, err
	}
	if h.Magic == MagicMD {
		t.Metadata = true
	} else if h.Magic != MagicTX {
		return t, fmt.Errorf("%w: expected %q or %q, got %q", ErrUnexpectedMagic, MagicTX, MagicMD, h.Magic)
	}
	if err := h.Validate(len(buf)); err != nil {
		return t, err
	}
	if h.LinkCount != 0 {
		return t, fmt.Errorf("%w: text block must have 0 links, got %d", ErrBadLength, h.LinkCount)
	}

	payload := buf[HeaderSize:h.Length]
	nul := len(payload)
	for i, b := range payload {
		if b == 0 {
			nul = i
			break
		}
	}
	t.Value = string(payload[:nul])

	return t, nil
}

// Serialize emits t into buf, which must be at least t.Size() bytes.
func (t Text) Serialize(buf []byte) error {
	size := t.Size()
	if uint64(len(buf)) < size {
		return fmt.Errorf("%w: text block needs %d bytes, got %d", ErrShortBuffer, size, len(buf))
	}

	contentLength := uint64(HeaderSize + len(t.Value) + 1)
	h := Header{Magic: t.magic(), Length: contentLength, LinkCount: 0}
	if err := SerializeHeader(buf, h); err != nil {
		return err
	}

	payload := buf[HeaderSize:size]
	n := copy(payload, t.Value)
	for i := n; i < len(payload); i++ {
		payload[i] = 0
	}

	return nil
}
