package block

import (
	"encoding/binary"
	"fmt"

	"github.com/scigolib/mdf4/internal/codec"
)

// ChannelSize is the fixed total size of a channel block.
const ChannelSize = 112

// ChannelType enumerates cn_type.
type ChannelType uint8

const (
	ChannelTypeNormal ChannelType = 0
	ChannelTypeVLSD   ChannelType = 1
	ChannelTypeMaster ChannelType = 2
)

// SyncType enumerates cn_sync_type; only SyncTime designates the master
// channel of a channel group per the format's convention.
type SyncType uint8

const (
	SyncNone     SyncType = 0
	SyncTime     SyncType = 1
	SyncAngle    SyncType = 2
	SyncDistance SyncType = 3
	SyncIndex    SyncType = 4
)

// DataType enumerates cn_data_type.
type DataType uint8

const (
	DataTypeUnsignedLE DataType = iota
	DataTypeUnsignedBE
	DataTypeSignedLE
	DataTypeSignedBE
	DataTypeFloatLE
	DataTypeFloatBE
	DataTypeStringLatin1
	DataTypeStringUTF8
	DataTypeStringUTF16LE
	DataTypeStringUTF16BE
	DataTypeByteArray
	DataTypeMimeSample
	DataTypeMimeStream
	DataTypeCANopenDate
	DataTypeCANopenTime
	DataTypeComplexLE
	DataTypeComplexBE
)

// Channel flag bits within cn_flags.
const (
	FlagAllInvalid       uint32 = 1 << 0
	FlagInvalidationUsed uint32 = 1 << 1
)

// Channel (##CN) links: next channel, composition (child), name, unit,
// comment, source info, conversion, and VLSD data.
type Channel struct {
	Next        uint64
	Composition uint64
	Name        uint64
	Unit        uint64
	Comment     uint64
	Source      uint64
	Conversion  uint64
	Data        uint64 // Nonzero -> VLSD signal data (##SD or ##DL of ##SD).

	ChannelType        ChannelType
	SyncType           SyncType
	DataType           DataType
	BitOffset          uint8 // 0-7.
	ByteOffset         uint32
	BitCount           uint32
	Flags              uint32
	PosInvalidationBit uint32
}

// IsAllInvalid reports whether cn_flags bit 0 is set: every sample of this
// channel is unconditionally invalid.
func (c Channel) IsAllInvalid() bool {
	return c.Flags&FlagAllInvalid != 0
}

// UsesInvalidationBit reports whether cn_flags bit 1 is set: validity is
// determined per-record via PosInvalidationBit.
func (c Channel) UsesInvalidationBit() bool {
	return c.Flags&FlagInvalidationUsed != 0
}

// ParseChannel parses a ##CN block.
func ParseChannel(buf []byte) (Channel, error) {
	var c Channel

	h, err := ParseHeader(buf)
	if err != nil {
		return c, err
	}
	if err := h.CheckMagic(MagicCN); err != nil {
		return c, err
	}
	if err := h.Validate(len(buf)); err != nil {
		return c, err
	}
	if h.LinkCount != 8 {
		return c, fmt.Errorf("%w: channel must have 8 links, got %d", ErrBadLength, h.LinkCount)
	}

	links := make([]uint64, 8)
	for i := range links {
		if links[i], err = ReadLink(buf, i); err != nil {
			return c, err
		}
	}
	c.Next, c.Composition, c.Name, c.Unit, c.Comment, c.Source, c.Conversion, c.Data =
		links[0], links[1], links[2], links[3], links[4], links[5], links[6], links[7]

	payload := buf[HeaderSize+64:]
	if len(payload) < 20 {
		return c, fmt.Errorf("%w: channel payload too short", ErrShortBuffer)
	}

	c.ChannelType = ChannelType(payload[0])
	c.SyncType = SyncType(payload[1])
	c.DataType = DataType(payload[2])
	c.BitOffset = payload[3]
	if c.BitOffset > 7 {
		return c, fmt.Errorf("%w: bit_offset %d out of range 0..7", ErrBadLength, c.BitOffset)
	}

	if c.ByteOffset, err = codec.Uint32(payload[4:8], binary.LittleEndian); err != nil {
		return c, err
	}
	if c.BitCount, err = codec.Uint32(payload[8:12], binary.LittleEndian); err != nil {
		return c, err
	}
	if c.Flags, err = codec.Uint32(payload[12:16], binary.LittleEndian); err != nil {
		return c, err
	}
	if c.PosInvalidationBit, err = codec.Uint32(payload[16:20], binary.LittleEndian); err != nil {
		return c, err
	}

	return c, nil
}

// Serialize emits a ##CN block into buf, which must be at least
// ChannelSize bytes.
func (c Channel) Serialize(buf []byte) error {
	if len(buf) < ChannelSize {
		return fmt.Errorf("%w: channel needs %d bytes, got %d", ErrShortBuffer, ChannelSize, len(buf))
	}

	h := Header{Magic: MagicCN, Length: ChannelSize, LinkCount: 8}
	if err := SerializeHeader(buf, h); err != nil {
		return err
	}

	links := []uint64{c.Next, c.Composition, c.Name, c.Unit, c.Comment, c.Source, c.Conversion, c.Data}
	for i, l := range links {
		if err := PutLink(buf, i, l); err != nil {
			return err
		}
	}

	payload := buf[HeaderSize+64:]
	payload[0] = byte(c.ChannelType)
	payload[1] = byte(c.SyncType)
	payload[2] = byte(c.DataType)
	payload[3] = c.BitOffset

	if err := codec.PutUint32(payload[4:8], c.ByteOffset, binary.LittleEndian); err != nil {
		return err
	}
	if err := codec.PutUint32(payload[8:12], c.BitCount, binary.LittleEndian); err != nil {
		return err
	}
	if err := codec.PutUint32(payload[12:16], c.Flags, binary.LittleEndian); err != nil {
		return err
	}
	if err := codec.PutUint32(payload[16:20], c.PosInvalidationBit, binary.LittleEndian); err != nil {
		return err
	}

	for i := 20; i < ChannelSize-(HeaderSize+64); i++ {
		payload[i] = 0
	}

	return nil
}
