package writer

import (
	"fmt"

	"github.com/scigolib/mdf4/internal/block"
)

// MaxFragmentBytes is the largest payload a single ##DT/##DV block is
// allowed to carry before the data block writer auto-fragments: records
// keep accumulating in memory, then flush to a new block once this
// threshold is crossed. Large data groups become a ##DL chain
// transparently; callers never see individual fragments.
const MaxFragmentBytes = 4 << 20 // 4 MiB

// DataBlockWriter accumulates a data group's record stream and emits
// ##DT blocks, auto-fragmenting at MaxFragmentBytes. Call Finish once all
// records are written to get the link to store in the owning ##DG.
type DataBlockWriter struct {
	b         *Builder
	buf       []byte
	fragments []uint64
	offsets   []uint64 // logical byte offset of each fragment within the record stream.
	written   uint64
}

// StartDataBlock begins a new record stream. Records are accumulated via
// WriteRecord and flushed to ##DT blocks transparently.
func (b *Builder) StartDataBlock() *DataBlockWriter {
	return &DataBlockWriter{b: b}
}

// WriteRecord appends one record's raw bytes (including any leading
// record-id and trailing invalidation bytes the caller has already
// assembled) to the stream.
func (d *DataBlockWriter) WriteRecord(record []byte) error {
	d.buf = append(d.buf, record...)
	if len(d.buf) >= MaxFragmentBytes {
		return d.flush()
	}
	return nil
}

// WriteRecordU64 is a fast path for a single little-endian uint64 sample
// (e.g. a record whose sole channel is an 8-byte counter), avoiding a
// caller-side byte-slice allocation per record.
func (d *DataBlockWriter) WriteRecordU64(v uint64) error {
	var rec [8]byte
	for i := range rec {
		rec[i] = byte(v >> (8 * i))
	}
	return d.WriteRecord(rec[:])
}

func (d *DataBlockWriter) flush() error {
	if len(d.buf) == 0 {
		return nil
	}

	db := block.DataBlock{Payload: d.buf}
	buf := make([]byte, db.Size())
	if err := db.Serialize(buf); err != nil {
		return fmt.Errorf("writer: serialize data block: %w", err)
	}

	offset, err := d.b.fw.WriteAtWithAllocation(buf)
	if err != nil {
		return fmt.Errorf("writer: allocate data block: %w", err)
	}
	d.fragments = append(d.fragments, offset)
	d.offsets = append(d.offsets, d.written)
	d.written += uint64(len(d.buf))
	d.buf = d.buf[:0]
	return nil
}

// Finish flushes any buffered records and returns the link to store in
// the owning ##DG's data field: the single fragment's offset if only one
// was needed, a ##DL chaining them in order otherwise, or 0 if no records
// were ever written.
func (d *DataBlockWriter) Finish() (uint64, error) {
	if err := d.flush(); err != nil {
		return 0, err
	}

	switch len(d.fragments) {
	case 0:
		return 0, nil
	case 1:
		return d.fragments[0], nil
	default:
		dl := block.DataList{Data: d.fragments, Offsets: d.offsets, EqualLength: false}
		buf := make([]byte, dl.Size())
		if err := dl.Serialize(buf); err != nil {
			return 0, fmt.Errorf("writer: serialize data list: %w", err)
		}
		return d.b.fw.WriteAtWithAllocation(buf)
	}
}
