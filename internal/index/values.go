package index

import (
	"fmt"

	"github.com/scigolib/mdf4/internal/block"
	"github.com/scigolib/mdf4/internal/conversion"
	"github.com/scigolib/mdf4/internal/record"
)

// ByteRangeReader is the capability ReadChannelValues needs: read exactly
// length bytes starting at offset, whether from a local file, an HTTP
// Range request, or object storage. Implementations return an error
// rather than a short read.
type ByteRangeReader interface {
	ReadRange(offset, length uint64) ([]byte, error)
}

// ReadChannelValues decodes channelIdx's value for every valid record in
// group, fetching only the bytes each record's sample/invalidation region
// needs via reader. Invalid records (per the channel's invalidation bit)
// are omitted rather than represented as a placeholder. For a VLSD
// channel, its ##SD (or ##DL chain of ##SD) is resolved through reader
// once up front, then indexed per record by the inline byte offset.
func (g IndexedChannelGroup) ReadChannelValues(channelIdx int, reader ByteRangeReader) ([]conversion.DecodedValue, error) {
	if channelIdx < 0 || channelIdx >= len(g.Channels) {
		return nil, fmt.Errorf("index: channel index %d out of range (%d channels)", channelIdx, len(g.Channels))
	}
	ich := g.Channels[channelIdx]

	ch := block.Channel{
		ChannelType:        ich.ChannelType,
		DataType:           ich.DataType,
		ByteOffset:         ich.ByteOffset,
		BitOffset:          ich.BitOffset,
		BitCount:           ich.BitCount,
		Flags:              ich.Flags,
		PosInvalidationBit: ich.PosInvalidationBit,
	}
	resolved := toResolved(ich.Conversion)

	var vlsd record.VLSDSource
	if ich.ChannelType == block.ChannelTypeVLSD {
		entries, err := resolveSignalData(reader, ich.Data)
		if err != nil {
			return nil, fmt.Errorf("index: resolve VLSD data for channel %q: %w", ich.Name, err)
		}
		vlsd = record.OffsetEntries(entries)
	}

	stride := g.recordStride()
	if stride == 0 {
		return nil, fmt.Errorf("index: channel group has zero record stride")
	}
	recordIDLen := int(g.RecordIDLen)
	samplesByteNr := int(g.SamplesByteNr)

	out := make([]conversion.DecodedValue, 0, g.CycleCount)
	recordIdx := uint64(0)
	for _, frag := range g.Fragments {
		recordsInFrag := frag.Length / stride
		for i := uint64(0); i < recordsInFrag && recordIdx < g.CycleCount; i++ {
			raw, err := reader.ReadRange(frag.Offset+i*stride, stride)
			if err != nil {
				return nil, fmt.Errorf("index: read record %d: %w", recordIdx, err)
			}
			sample := raw[recordIDLen : recordIDLen+samplesByteNr]
			invalidation := raw[recordIDLen+samplesByteNr:]

			val, ok, err := record.Decode(ch, sample, invalidation, resolved, vlsd)
			if err != nil {
				return nil, fmt.Errorf("index: decode record %d: %w", recordIdx, err)
			}
			if ok {
				out = append(out, val)
			}
			recordIdx++
		}
	}
	return out, nil
}

func toResolved(r *ResolvedConversion) *conversion.Resolved {
	if r == nil {
		return nil
	}
	out := &conversion.Resolved{Type: r.Type, Val: r.Val}
	for _, ref := range r.Refs {
		out.Refs = append(out.Refs, conversion.Ref{Text: ref.Text, Nested: toResolved(ref.Nested)})
	}
	return out
}
