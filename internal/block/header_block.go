package block

import (
	"encoding/binary"
	"fmt"

	"github.com/scigolib/mdf4/internal/codec"
)

// HeaderBlockSize is the fixed total size of a header block.
const HeaderBlockSize = 48

// HeaderBlock (##HD) carries the file's absolute start time, timezone/DST
// offsets, and the link to the first data group.
type HeaderBlock struct {
	DataGroupFirst uint64 // Link; 0 = no data groups.

	StartTimeNS  int64 // Absolute start time, nanoseconds since epoch.
	TZOffsetMin  int16
	DSTOffsetMin int16
	TimeFlags    uint8
}

// ParseHeaderBlock parses a ##HD block.
func ParseHeaderBlock(buf []byte) (HeaderBlock, error) {
	var hd HeaderBlock

	h, err := ParseHeader(buf)
	if err != nil {
		return hd, err
	}
	if err := h.CheckMagic(MagicHD); err != nil {
		return hd, err
	}
	if err := h.Validate(len(buf)); err != nil {
		return hd, err
	}
	if h.LinkCount != 1 {
		return hd, fmt.Errorf("%w: header block must have 1 link, got %d", ErrBadLength, h.LinkCount)
	}

	dgFirst, err := ReadLink(buf, 0)
	if err != nil {
		return hd, err
	}
	hd.DataGroupFirst = dgFirst

	payload := buf[HeaderSize+8:]
	if len(payload) < 13 {
		return hd, fmt.Errorf("%w: header block payload too short", ErrShortBuffer)
	}

	startRaw, err := codec.Uint64(payload[0:8], binary.LittleEndian)
	if err != nil {
		return hd, err
	}
	hd.StartTimeNS = int64(startRaw)

	tzRaw, err := codec.Uint16(payload[8:10], binary.LittleEndian)
	if err != nil {
		return hd, err
	}
	hd.TZOffsetMin = int16(tzRaw)

	dstRaw, err := codec.Uint16(payload[10:12], binary.LittleEndian)
	if err != nil {
		return hd, err
	}
	hd.DSTOffsetMin = int16(dstRaw)

	hd.TimeFlags = payload[12]

	return hd, nil
}

// Serialize emits a ##HD block into buf, which must be at least
// HeaderBlockSize bytes.
func (hd HeaderBlock) Serialize(buf []byte) error {
	if len(buf) < HeaderBlockSize {
		return fmt.Errorf("%w: header block needs %d bytes, got %d", ErrShortBuffer, HeaderBlockSize, len(buf))
	}

	h := Header{Magic: MagicHD, Length: HeaderBlockSize, LinkCount: 1}
	if err := SerializeHeader(buf, h); err != nil {
		return err
	}
	if err := PutLink(buf, 0, hd.DataGroupFirst); err != nil {
		return err
	}

	payload := buf[HeaderSize+8:]
	if err := codec.PutUint64(payload[0:8], uint64(hd.StartTimeNS), binary.LittleEndian); err != nil {
		return err
	}
	if err := codec.PutUint16(payload[8:10], uint16(hd.TZOffsetMin), binary.LittleEndian); err != nil {
		return err
	}
	if err := codec.PutUint16(payload[10:12], uint16(hd.DSTOffsetMin), binary.LittleEndian); err != nil {
		return err
	}
	payload[12] = hd.TimeFlags

	for i := 13; i < HeaderBlockSize-(HeaderSize+8); i++ {
		payload[i] = 0
	}

	return nil
}
