package block

import "fmt"

// SourceInfoSize is the fixed total size of a source info block.
const SourceInfoSize = 56

// SourceType enumerates si_type.
type SourceType uint8

const (
	SourceTypeOther SourceType = iota
	SourceTypeECU
	SourceTypeBus
	SourceTypeIO
	SourceTypeTool
	SourceTypeUser
)

// BusType enumerates si_bus_type.
type BusType uint8

const (
	BusTypeNone BusType = iota
	BusTypeOther
	BusTypeCAN
	BusTypeLIN
	BusTypeMOST
	BusTypeFlexRay
	BusTypeKLine
	BusTypeEthernet
	BusTypeUSB
)

// SourceInfo (##SI) describes where a channel's samples originate.
type SourceInfo struct {
	Name    uint64 // Link to ##TX.
	Path    uint64 // Link to ##TX.
	Comment uint64 // Link to ##TX or ##MD.

	Type    SourceType
	Bus     BusType
	Flags   uint8
}

// ParseSourceInfo parses a ##SI block.
func ParseSourceInfo(buf []byte) (SourceInfo, error) {
	var si SourceInfo

	h, err := ParseHeader(buf)
	if err != nil {
		return si, err
	}
	if err := h.CheckMagic(MagicSI); err != nil {
		return si, err
	}
	if err := h.Validate(len(buf)); err != nil {
		return si, err
	}
	if h.LinkCount != 3 {
		return si, fmt.Errorf("%w: source info must have 3 links, got %d", ErrBadLength, h.LinkCount)
	}

	if si.Name, err = ReadLink(buf, 0); err != nil {
		return si, err
	}
	if si.Path, err = ReadLink(buf, 1); err != nil {
		return si, err
	}
	if si.Comment, err = ReadLink(buf, 2); err != nil {
		return si, err
	}

	payload := buf[HeaderSize+24:]
	if len(payload) < 3 {
		return si, fmt.Errorf("%w: source info payload too short", ErrShortBuffer)
	}
	si.Type = SourceType(payload[0])
	si.Bus = BusType(payload[1])
	si.Flags = payload[2]

	return si, nil
}

// Serialize emits a ##SI block into buf, which must be at least
// SourceInfoSize bytes.
func (si SourceInfo) Serialize(buf []byte) error {
	if len(buf) < SourceInfoSize {
		return fmt.Errorf("%w: source info needs %d bytes, got %d", ErrShortBuffer, SourceInfoSize, len(buf))
	}

	h := Header{Magic: MagicSI, Length: SourceInfoSize, LinkCount: 3}
	if err := SerializeHeader(buf, h); err != nil {
		return err
	}
	if err := PutLink(buf, 0, si.Name); err != nil {
		return err
	}
	if err := PutLink(buf, 1, si.Path); err != nil {
		return err
	}
	if err := PutLink(buf, 2, si.Comment); err != nil {
		return err
	}

	payload := buf[HeaderSize+24:]
	payload[0] = byte(si.Type)
	payload[1] = byte(si.Bus)
	payload[2] = si.Flags
	for i := 3; i < SourceInfoSize-(HeaderSize+24); i++ {
		payload[i] = 0
	}

	return nil
}
