package block

import "fmt"

// DataBlock represents both ##DT and ##DV: a contiguous run of fixed-size
// records (or record-data, for ##DV) with no links.
type DataBlock struct {
	Payload []byte
	Values  bool // true -> ##DV, false -> ##DT.
}

func (d DataBlock) magic() [4]byte {
	if d.Values {
		return MagicDV
	}
	return MagicDT
}

// Size returns the exact on-disk size of d once serialized.
func (d DataBlock) Size() uint64 {
	return uint64(HeaderSize + len(d.Payload) + PadLen(HeaderSize+len(d.Payload)))
}

// ParseDataBlock parses a ##DT or ##DV block. The returned Payload is a
// sub-slice of buf (borrowed, not copied) so callers reading from a
// memory-mapped file avoid a copy.
func ParseDataBlock(buf []byte) (DataBlock, error) {
	var d DataBlock

	h, err := ParseHeader(buf)
	if err != nil {
		return d, err
	}
	switch h.Magic {
	case MagicDV:
		d.Values = true
	case MagicDT:
		d.Values = false
	default:
		return d, fmt.Errorf("%w: expected %q or %q, got %q", ErrUnexpectedMagic, MagicDT, MagicDV, h.Magic)
	}
	if err := h.Validate(len(buf)); err != nil {
		return d, err
	}
	if h.LinkCount != 0 {
		return d, fmt.Errorf("%w: data block must have 0 links, got %d", ErrBadLength, h.LinkCount)
	}

	d.Payload = buf[HeaderSize:h.Length]

	return d, nil
}

// Serialize emits d into buf, which must be at least d.Size() bytes.
func (d DataBlock) Serialize(buf []byte) error {
	size := d.Size()
	if uint64(len(buf)) < size {
		return fmt.Errorf("%w: data block needs %d bytes, got %d", ErrShortBuffer, size, len(buf))
	}

	h := Header{Magic: d.magic(), Length: uint64(HeaderSize + len(d.Payload)), LinkCount: 0}
	if err := SerializeHeader(buf, h); err != nil {
		return err
	}

	n := copy(buf[HeaderSize:], d.Payload)
	for i := HeaderSize + n; i < int(size); i++ {
		buf[i] = 0
	}

	return nil
}
