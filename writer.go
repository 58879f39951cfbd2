package mdf4

import (
	"github.com/scigolib/mdf4/internal/block"
	"github.com/scigolib/mdf4/internal/writer"
)

// Re-exported so callers building a Channel literal for AddChannel don't
// need to import internal/block themselves.
type (
	ChannelSpec    = block.Channel
	ConversionSpec = block.Conversion
	SourceInfoSpec = block.SourceInfo
	DataType       = block.DataType
	ChannelType    = block.ChannelType
	CCType         = block.CCType
)

const (
	DataTypeUnsignedLE = block.DataTypeUnsignedLE
	DataTypeUnsignedBE = block.DataTypeUnsignedBE
	DataTypeSignedLE   = block.DataTypeSignedLE
	DataTypeSignedBE   = block.DataTypeSignedBE
	DataTypeFloatLE    = block.DataTypeFloatLE
	DataTypeFloatBE    = block.DataTypeFloatBE
	DataTypeStringUTF8 = block.DataTypeStringUTF8
	DataTypeByteArray  = block.DataTypeByteArray
	DataTypeMimeSample = block.DataTypeMimeSample
)

const (
	CCIdentity  = block.CCIdentity
	CCLinear    = block.CCLinear
	CCAlgebraic = block.CCAlgebraic
)

const (
	ChannelTypeNormal = block.ChannelTypeNormal
	ChannelTypeVLSD   = block.ChannelTypeVLSD
	ChannelTypeMaster = block.ChannelTypeMaster
)

// Writer assembles a new MDF file's block graph incrementally: a data
// group and its channel groups/channels are added, then one or more data
// blocks are written and linked in, in the order the caller calls these
// methods.
type Writer struct {
	b *writer.Builder
}

// Create creates filename and writes its ##ID/##HD preamble. program
// names the writing tool, copied into the identification block.
func Create(filename, program string, startTimeNS int64) (*Writer, error) {
	b, err := writer.Init(filename, program, startTimeNS)
	if err != nil {
		return nil, err
	}
	return &Writer{b: b}, nil
}

// AddDataGroup appends a new ##DG and returns its offset, the handle
// later calls reference it by.
func (w *Writer) AddDataGroup(recordIDLen uint8) (uint64, error) {
	return w.b.AddDataGroup(recordIDLen)
}

// AddChannelGroup appends a new ##CG to dgOffset's chain.
func (w *Writer) AddChannelGroup(dgOffset uint64, recordID uint64, samplesByteNr, invalidationBytesNr uint32) (uint64, error) {
	return w.b.AddChannelGroup(dgOffset, recordID, samplesByteNr, invalidationBytesNr)
}

// AddChannel appends ch to cgOffset's channel chain.
func (w *Writer) AddChannel(cgOffset uint64, ch ChannelSpec) (uint64, error) {
	return w.b.AddChannel(cgOffset, ch)
}

// AddText writes a ##TX (or ##MD, when metadata is true) block.
func (w *Writer) AddText(value string, metadata bool) (uint64, error) {
	return w.b.AddText(value, metadata)
}

// AddSignalData writes a ##SD block holding a VLSD channel's
// variable-length entries, for a channel's cn_data link. It returns the
// block's offset and, for each entry, the byte offset a referencing
// channel's record must hold to address it.
func (w *Writer) AddSignalData(entries [][]byte) (blockOffset uint64, entryOffsets []uint64, err error) {
	return w.b.AddSignalData(entries)
}

// AddSourceInfo writes a ##SI block.
func (w *Writer) AddSourceInfo(si SourceInfoSpec) (uint64, error) {
	return w.b.AddSourceInfo(si)
}

// AddConversion writes a ##CC block.
func (w *Writer) AddConversion(c ConversionSpec) (uint64, error) {
	return w.b.AddConversion(c)
}

// SetCycleCount back-patches cgOffset's recorded cycle count, called once
// every record has been written.
func (w *Writer) SetCycleCount(cgOffset, count uint64) error {
	return w.b.SetCycleCount(cgOffset, count)
}

// DataBlockWriter accumulates a data group's record stream, splitting
// into multiple ##DT fragments (chained by a ##DL) once the accumulated
// bytes exceed writer.MaxFragmentBytes.
type DataBlockWriter struct {
	dw *writer.DataBlockWriter
}

// StartDataBlock begins a new record stream for a data group.
func (w *Writer) StartDataBlock() *DataBlockWriter {
	return &DataBlockWriter{dw: w.b.StartDataBlock()}
}

// WriteRecord appends one fixed-length record (record id + sample bytes +
// invalidation bytes, in that order) to the stream.
func (d *DataBlockWriter) WriteRecord(record []byte) error {
	return d.dw.WriteRecord(record)
}

// WriteRecordU64 is a fast path for an 8-byte little-endian sample with no
// record id or invalidation bytes.
func (d *DataBlockWriter) WriteRecordU64(v uint64) error {
	return d.dw.WriteRecordU64(v)
}

// Finish flushes any buffered bytes and returns the offset to pass to
// Writer.SetDataGroupData: 0 for no records, a direct ##DT offset for a
// single fragment, or a ##DL offset chaining multiple.
func (d *DataBlockWriter) Finish() (uint64, error) {
	return d.dw.Finish()
}

// SetDataGroupData back-patches dgOffset's data link once its data block
// (or data list) has been written.
func (w *Writer) SetDataGroupData(dgOffset, dataOffset uint64) error {
	return w.b.SetDataGroupData(dgOffset, dataOffset)
}

// MasterChannel returns a copy of ch marked as its group's master (time)
// channel.
func MasterChannel(ch ChannelSpec) ChannelSpec {
	return writer.MasterChannel(ch)
}

// Flush commits all writes to the underlying file.
func (w *Writer) Flush() error {
	return w.b.FileWriter().Flush()
}

// Close closes the underlying file. Call Flush first when durability
// matters.
func (w *Writer) Close() error {
	return w.b.FileWriter().Close()
}
