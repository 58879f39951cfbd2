package block

import (
	"encoding/binary"
	"fmt"

	"github.com/scigolib/mdf4/internal/codec"
)

// DataList (##DL) chains data blocks together into a fragmented data
// stream: each link points at a ##DT/##DV/##SD/##DL block, and Offsets[i]
// gives the logical byte offset of that fragment within the stream when
// fragments are not all the same length.
type DataList struct {
	Next    uint64   // Link to the next ##DL in the chain, or 0.
	Data    []uint64 // Links to data blocks.
	Offsets []uint64 // One entry per Data link when !EqualLength.

	EqualLength    bool // dl_flags bit 0: all fragments but the last share FragmentLength.
	FragmentLength uint64
}

const dlFlagEqualLength uint32 = 1 << 0

// dlPayloadHeaderSize: dl_flags (uint32), reserved (uint32), dl_count
// (uint32), 4 reserved, equal_length (uint64).
const dlPayloadHeaderSize = 24

// Size returns the exact on-disk size of d once serialized.
func (d DataList) Size() uint64 {
	links := uint64(HeaderSize) + 8*uint64(1+len(d.Data))
	raw := links + dlPayloadHeaderSize
	if !d.EqualLength {
		raw += 8 * uint64(len(d.Offsets))
	}
	return raw + uint64(PadLen(int(raw)))
}

// ParseDataList parses a ##DL block.
func ParseDataList(buf []byte) (DataList, error) {
	var d DataList

	h, err := ParseHeader(buf)
	if err != nil {
		return d, err
	}
	if err := h.CheckMagic(MagicDL); err != nil {
		return d, err
	}
	if err := h.Validate(len(buf)); err != nil {
		return d, err
	}
	if h.LinkCount < 1 {
		return d, fmt.Errorf("%w: data list must have at least 1 link (dl_next), got %d", ErrBadLength, h.LinkCount)
	}

	if d.Next, err = ReadLink(buf, 0); err != nil {
		return d, err
	}
	dataCount := int(h.LinkCount) - 1
	d.Data = make([]uint64, dataCount)
	for i := range d.Data {
		if d.Data[i], err = ReadLink(buf, i+1); err != nil {
			return d, err
		}
	}

	payloadStart := HeaderSize + 8*int(h.LinkCount)
	if len(buf) < payloadStart+dlPayloadHeaderSize {
		return d, fmt.Errorf("%w: data list payload header too short", ErrShortBuffer)
	}
	payload := buf[payloadStart:]

	flags, err := codec.Uint32(payload[0:4], binary.LittleEndian)
	if err != nil {
		return d, err
	}
	d.EqualLength = flags&dlFlagEqualLength != 0

	count, err := codec.Uint32(payload[8:12], binary.LittleEndian)
	if err != nil {
		return d, err
	}
	if int(count) != dataCount {
		return d, fmt.Errorf("%w: dl_count %d does not match link count %d", ErrBadLength, count, dataCount)
	}

	d.FragmentLength, err = codec.Uint64(payload[16:24], binary.LittleEndian)
	if err != nil {
		return d, err
	}

	if !d.EqualLength {
		need := dlPayloadHeaderSize + 8*dataCount
		if len(payload) < need {
			return d, fmt.Errorf("%w: data list offset array truncated", ErrShortBuffer)
		}
		d.Offsets = make([]uint64, dataCount)
		for i := range d.Offsets {
			off := dlPayloadHeaderSize + 8*i
			if d.Offsets[i], err = codec.Uint64(payload[off:off+8], binary.LittleEndian); err != nil {
				return d, err
			}
		}
	}

	return d, nil
}

// Serialize emits a ##DL block into buf, which must be at least d.Size()
// bytes.
func (d DataList) Serialize(buf []byte) error {
	size := d.Size()
	if uint64(len(buf)) < size {
		return fmt.Errorf("%w: data list needs %d bytes, got %d", ErrShortBuffer, size, len(buf))
	}

	linkCount := 1 + len(d.Data)
	links := uint64(HeaderSize) + 8*uint64(linkCount)
	raw := links + dlPayloadHeaderSize
	if !d.EqualLength {
		raw += 8 * uint64(len(d.Offsets))
	}

	h := Header{Magic: MagicDL, Length: raw, LinkCount: uint64(linkCount)}
	if err := SerializeHeader(buf, h); err != nil {
		return err
	}

	if err := PutLink(buf, 0, d.Next); err != nil {
		return err
	}
	for i, l := range d.Data {
		if err := PutLink(buf, i+1, l); err != nil {
			return err
		}
	}

	payloadStart := HeaderSize + 8*linkCount
	payload := buf[payloadStart:]

	var flags uint32
	if d.EqualLength {
		flags |= dlFlagEqualLength
	}
	if err := codec.PutUint32(payload[0:4], flags, binary.LittleEndian); err != nil {
		return err
	}
	if err := codec.PutUint32(payload[4:8], 0, binary.LittleEndian); err != nil {
		return err
	}
	if err := codec.PutUint32(payload[8:12], uint32(len(d.Data)), binary.LittleEndian); err != nil {
		return err
	}
	if err := codec.PutUint32(payload[12:16], 0, binary.LittleEndian); err != nil {
		return err
	}
	if err := codec.PutUint64(payload[16:24], d.FragmentLength, binary.LittleEndian); err != nil {
		return err
	}

	pos := dlPayloadHeaderSize
	if !d.EqualLength {
		for _, off := range d.Offsets {
			if err := codec.PutUint64(payload[pos:pos+8], off, binary.LittleEndian); err != nil {
				return err
			}
			pos += 8
		}
	}

	for i := int(raw) - HeaderSize; i < int(size)-HeaderSize; i++ {
		buf[HeaderSize+i] = 0
	}

	return nil
}
