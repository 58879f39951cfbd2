package writer

import (
	"fmt"

	"github.com/scigolib/mdf4/internal/block"
)

// Builder assembles an MDF file's block graph incrementally: init() writes
// the identification/header preamble, then data groups, channel groups,
// and channels are appended one at a time, back-patching each predecessor's
// link once the new block's address is known.
type Builder struct {
	fw *FileWriter

	headerOffset uint64
	lastDG       uint64 // 0 until the first data group is added.

	// lastCGOf/lastCNOf track each data group's/channel group's most
	// recently appended child, so the next Add* call can back-patch its
	// Next link instead of walking the chain from the head every time.
	lastCGOf map[uint64]uint64
	lastCNOf map[uint64]uint64
}

// Init creates filename and writes the ##ID/##HD preamble. program is
// copied (truncated/space-padded) into the identification block's
// "program" field, matching the convention of naming the writing tool.
func Init(filename string, program string, startTimeNS int64) (*Builder, error) {
	fw, err := NewFileWriter(filename, ModeTruncate, 0)
	if err != nil {
		return nil, fmt.Errorf("writer: create file: %w", err)
	}

	id := block.Identification{
		FormatID: fixed8("MDF     "),
		VersionString: fixed8("4.10    "),
		Program: fixed8(program),
		Version: 410,
	}
	idBuf := make([]byte, block.IdentificationSize)
	if err := id.Serialize(idBuf); err != nil {
		return nil, fmt.Errorf("writer: serialize identification: %w", err)
	}
	if err := fw.WriteAtAddress(idBuf, 0); err != nil {
		return nil, fmt.Errorf("writer: write identification: %w", err)
	}

	hd := block.HeaderBlock{StartTimeNS: startTimeNS}
	hdBuf := make([]byte, block.HeaderBlockSize)
	if err := hd.Serialize(hdBuf); err != nil {
		return nil, fmt.Errorf("writer: serialize header block: %w", err)
	}
	headerOffset := uint64(block.IdentificationSize)
	if err := fw.WriteAtAddress(hdBuf, headerOffset); err != nil {
		return nil, fmt.Errorf("writer: write header block: %w", err)
	}

	fw.allocator = NewAllocator(headerOffset + block.HeaderBlockSize)

	return &Builder{
		fw:           fw,
		headerOffset: headerOffset,
		lastCGOf:     map[uint64]uint64{},
		lastCNOf:     map[uint64]uint64{},
	}, nil
}

func fixed8(s string) [8]byte {
	var out [8]byte
	for i := range out {
		out[i] = ' '
	}
	copy(out[:], s)
	return out
}

// FileWriter exposes the underlying writer, e.g. for Flush/Close.
func (b *Builder) FileWriter() *FileWriter { return b.fw }

// AddDataGroup appends a new ##DG to the file's data group chain and
// returns its offset.
func (b *Builder) AddDataGroup(recordIDLen uint8) (uint64, error) {
	dg := block.DataGroup{RecordIDLen: recordIDLen}
	buf := make([]byte, block.DataGroupSize)
	if err := dg.Serialize(buf); err != nil {
		return 0, fmt.Errorf("writer: serialize data group: %w", err)
	}

	offset, err := b.fw.WriteAtWithAllocation(buf)
	if err != nil {
		return 0, fmt.Errorf("writer: allocate data group: %w", err)
	}

	if b.lastDG == 0 {
		if err := b.fw.UpdateLink(b.headerOffset, 0, offset); err != nil {
			return 0, fmt.Errorf("writer: link header to first data group: %w", err)
		}
	} else {
		if err := b.fw.UpdateLink(b.lastDG, 0, offset); err != nil {
			return 0, fmt.Errorf("writer: link data group chain: %w", err)
		}
	}
	b.lastDG = offset

	return offset, nil
}

// AddChannelGroup appends a new ##CG to dgOffset's channel group chain.
func (b *Builder) AddChannelGroup(dgOffset uint64, recordID uint64, samplesByteNr, invalidationBytesNr uint32) (uint64, error) {
	cg := block.ChannelGroup{
		RecordID:            recordID,
		SamplesByteNr:       samplesByteNr,
		InvalidationBytesNr: invalidationBytesNr,
	}
	buf := make([]byte, block.ChannelGroupSize)
	if err := cg.Serialize(buf); err != nil {
		return 0, fmt.Errorf("writer: serialize channel group: %w", err)
	}

	offset, err := b.fw.WriteAtWithAllocation(buf)
	if err != nil {
		return 0, fmt.Errorf("writer: allocate channel group: %w", err)
	}

	if last, ok := b.lastCGOf[dgOffset]; ok {
		if err := b.fw.UpdateLink(last, 0, offset); err != nil {
			return 0, fmt.Errorf("writer: link channel group chain: %w", err)
		}
	} else {
		if err := b.fw.UpdateLink(dgOffset, 1, offset); err != nil {
			return 0, fmt.Errorf("writer: link data group to first channel group: %w", err)
		}
	}
	b.lastCGOf[dgOffset] = offset

	return offset, nil
}

// AddChannel appends ch to cgOffset's channel chain and returns its
// offset. ch.Next is ignored and overwritten by chain bookkeeping.
func (b *Builder) AddChannel(cgOffset uint64, ch block.Channel) (uint64, error) {
	ch.Next = 0
	buf := make([]byte, block.ChannelSize)
	if err := ch.Serialize(buf); err != nil {
		return 0, fmt.Errorf("writer: serialize channel: %w", err)
	}

	offset, err := b.fw.WriteAtWithAllocation(buf)
	if err != nil {
		return 0, fmt.Errorf("writer: allocate channel: %w", err)
	}

	if last, ok := b.lastCNOf[cgOffset]; ok {
		if err := b.fw.UpdateLink(last, 0, offset); err != nil {
			return 0, fmt.Errorf("writer: link channel chain: %w", err)
		}
	} else {
		if err := b.fw.UpdateLink(cgOffset, 1, offset); err != nil {
			return 0, fmt.Errorf("writer: link channel group to first channel: %w", err)
		}
	}
	b.lastCNOf[cgOffset] = offset

	return offset, nil
}

// AddText writes a ##TX (or ##MD, when metadata is true) block and returns
// its offset. Channel/source-info name/unit/comment links all point at
// blocks written this way.
func (b *Builder) AddText(value string, metadata bool) (uint64, error) {
	t := block.Text{Value: value, Metadata: metadata}
	buf := make([]byte, t.Size())
	if err := t.Serialize(buf); err != nil {
		return 0, fmt.Errorf("writer: serialize text: %w", err)
	}
	offset, err := b.fw.WriteAtWithAllocation(buf)
	if err != nil {
		return 0, fmt.Errorf("writer: allocate text: %w", err)
	}
	return offset, nil
}

// AddSignalData writes a ##SD block holding a VLSD channel's
// length-prefixed variable-length entries. It returns the block's offset
// and, for each entry, the byte offset within the logical VLSD stream
// that a referencing channel's record must embed to address it.
func (b *Builder) AddSignalData(entries [][]byte) (blockOffset uint64, entryOffsets []uint64, err error) {
	sd := block.SignalData{Entries: entries}
	buf := make([]byte, sd.Size())
	if err := sd.Serialize(buf); err != nil {
		return 0, nil, fmt.Errorf("writer: serialize signal data: %w", err)
	}
	blockOffset, err = b.fw.WriteAtWithAllocation(buf)
	if err != nil {
		return 0, nil, err
	}
	return blockOffset, block.EntryOffsets(entries), nil
}

// AddSourceInfo writes a ##SI block and returns its offset.
func (b *Builder) AddSourceInfo(si block.SourceInfo) (uint64, error) {
	buf := make([]byte, block.SourceInfoSize)
	if err := si.Serialize(buf); err != nil {
		return 0, fmt.Errorf("writer: serialize source info: %w", err)
	}
	return b.fw.WriteAtWithAllocation(buf)
}

// AddConversion writes a ##CC block and returns its offset.
func (b *Builder) AddConversion(c block.Conversion) (uint64, error) {
	buf := make([]byte, c.Size())
	if err := c.Serialize(buf); err != nil {
		return 0, fmt.Errorf("writer: serialize conversion: %w", err)
	}
	return b.fw.WriteAtWithAllocation(buf)
}

// SetDataGroupData back-patches dgOffset's data link once its data block
// (or data list) has been written.
func (b *Builder) SetDataGroupData(dgOffset, dataOffset uint64) error {
	return b.fw.UpdateLink(dgOffset, 2, dataOffset)
}

// cgCycleCountOffset is cg_cycle_count's byte offset within a ##CG block:
// 24-byte header, two 8-byte links, then an 8-byte cg_record_id.
const cgCycleCountOffset = 24 + 16 + 8

// SetCycleCount back-patches cgOffset's recorded cycle count once every
// record has been written to its data group.
func (b *Builder) SetCycleCount(cgOffset, count uint64) error {
	buf := make([]byte, 8)
	for i := 0; i < 8; i++ {
		buf[i] = byte(count >> (8 * i))
	}
	return b.fw.WriteAtAddress(buf, cgOffset+cgCycleCountOffset)
}

// MasterChannel returns a copy of ch marked as the channel group's master
// (time) channel: cn_type = Master, cn_sync_type = Time.
func MasterChannel(ch block.Channel) block.Channel {
	ch.ChannelType = block.ChannelTypeMaster
	ch.SyncType = block.SyncTime
	return ch
}
