package block

import (
	"encoding/binary"
	"fmt"

	"github.com/scigolib/mdf4/internal/codec"
)

// ChannelGroupSize is the fixed total size of a channel group block.
const ChannelGroupSize = 64

// ChannelGroup (##CG) links to the next channel group and the first
// channel. SamplesByteNr is the data region's per-record byte width;
// InvalidationBytesNr is the invalidation region's per-record byte width.
type ChannelGroup struct {
	Next    uint64
	CNFirst uint64

	RecordID            uint64
	CycleCount          uint64
	SamplesByteNr       uint32
	InvalidationBytesNr uint32
}

// ParseChannelGroup parses a ##CG block.
func ParseChannelGroup(buf []byte) (ChannelGroup, error) {
	var cg ChannelGroup

	h, err := ParseHeader(buf)
	if err != nil {
		return cg, err
	}
	if err := h.CheckMagic(MagicCG); err != nil {
		return cg, err
	}
	if err := h.Validate(len(buf)); err != nil {
		return cg, err
	}
	if h.LinkCount != 2 {
		return cg, fmt.Errorf("%w: channel group must have 2 links, got %d", ErrBadLength, h.LinkCount)
	}

	if cg.Next, err = ReadLink(buf, 0); err != nil {
		return cg, err
	}
	if cg.CNFirst, err = ReadLink(buf, 1); err != nil {
		return cg, err
	}

	payload := buf[HeaderSize+16:]
	if len(payload) < 24 {
		return cg, fmt.Errorf("%w: channel group payload too short", ErrShortBuffer)
	}

	if cg.RecordID, err = codec.Uint64(payload[0:8], binary.LittleEndian); err != nil {
		return cg, err
	}
	if cg.CycleCount, err = codec.Uint64(payload[8:16], binary.LittleEndian); err != nil {
		return cg, err
	}
	if cg.SamplesByteNr, err = codec.Uint32(payload[16:20], binary.LittleEndian); err != nil {
		return cg, err
	}
	if cg.InvalidationBytesNr, err = codec.Uint32(payload[20:24], binary.LittleEndian); err != nil {
		return cg, err
	}

	return cg, nil
}

// Serialize emits a ##CG block into buf, which must be at least
// ChannelGroupSize bytes.
func (cg ChannelGroup) Serialize(buf []byte) error {
	if len(buf) < ChannelGroupSize {
		return fmt.Errorf("%w: channel group needs %d bytes, got %d", ErrShortBuffer, ChannelGroupSize, len(buf))
	}

	h := Header{Magic: MagicCG, Length: ChannelGroupSize, LinkCount: 2}
	if err := SerializeHeader(buf, h); err != nil {
		return err
	}
	if err := PutLink(buf, 0, cg.Next); err != nil {
		return err
	}
	if err := PutLink(buf, 1, cg.CNFirst); err != nil {
		return err
	}

	payload := buf[HeaderSize+16:]
	if err := codec.PutUint64(payload[0:8], cg.RecordID, binary.LittleEndian); err != nil {
		return err
	}
	if err := codec.PutUint64(payload[8:16], cg.CycleCount, binary.LittleEndian); err != nil {
		return err
	}
	if err := codec.PutUint32(payload[16:20], cg.SamplesByteNr, binary.LittleEndian); err != nil {
		return err
	}
	return codec.PutUint32(payload[20:24], cg.InvalidationBytesNr, binary.LittleEndian)
}
