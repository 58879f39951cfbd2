package block

import "fmt"

// DataGroupSize is the fixed total size of a data group block.
const DataGroupSize = 56

// DataGroup (##DG) links to the next data group, the first channel group,
// and the data region (a ##DT, ##DV, or ##DL). RecordIDLen is the size in
// bytes of each record's leading record-id field.
type DataGroup struct {
	Next     uint64
	CGFirst  uint64
	Data     uint64 // Link to ##DT, ##DV, or ##DL. 0 = empty data group.
	RecordIDLen uint8
}

// ParseDataGroup parses a ##DG block.
func ParseDataGroup(buf []byte) (DataGroup, error) {
	var dg DataGroup

	h, err := ParseHeader(buf)
	if err != nil {
		return dg, err
	}
	if err := h.CheckMagic(MagicDG); err != nil {
		return dg, err
	}
	if err := h.Validate(len(buf)); err != nil {
		return dg, err
	}
	if h.LinkCount != 3 {
		return dg, fmt.Errorf("%w: data group must have 3 links, got %d", ErrBadLength, h.LinkCount)
	}

	if dg.Next, err = ReadLink(buf, 0); err != nil {
		return dg, err
	}
	if dg.CGFirst, err = ReadLink(buf, 1); err != nil {
		return dg, err
	}
	if dg.Data, err = ReadLink(buf, 2); err != nil {
		return dg, err
	}

	payload := buf[HeaderSize+24:]
	if len(payload) < 1 {
		return dg, fmt.Errorf("%w: data group payload too short", ErrShortBuffer)
	}
	dg.RecordIDLen = payload[0]

	switch dg.RecordIDLen {
	case 0, 1, 2, 4, 8:
	default:
		return dg, fmt.Errorf("%w: record_id_len %d not in {0,1,2,4,8}", ErrBadLength, dg.RecordIDLen)
	}

	return dg, nil
}

// Serialize emits a ##DG block into buf, which must be at least
// DataGroupSize bytes.
func (dg DataGroup) Serialize(buf []byte) error {
	if len(buf) < DataGroupSize {
		return fmt.Errorf("%w: data group needs %d bytes, got %d", ErrShortBuffer, DataGroupSize, len(buf))
	}

	h := Header{Magic: MagicDG, Length: DataGroupSize, LinkCount: 3}
	if err := SerializeHeader(buf, h); err != nil {
		return err
	}
	if err := PutLink(buf, 0, dg.Next); err != nil {
		return err
	}
	if err := PutLink(buf, 1, dg.CGFirst); err != nil {
		return err
	}
	if err := PutLink(buf, 2, dg.Data); err != nil {
		return err
	}

	payload := buf[HeaderSize+24:]
	payload[0] = dg.RecordIDLen
	for i := 1; i < DataGroupSize-(HeaderSize+24); i++ {
		payload[i] = 0
	}

	return nil
}
