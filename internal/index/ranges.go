package index

import "fmt"

// channelWidth is the number of whole bytes a channel's bit field spans,
// rounding up a sub-byte bit_count.
func channelWidth(ch IndexedChannel) uint64 {
	return (uint64(ch.BitCount) + 7) / 8
}

// GetChannelByteRanges returns the exact (offset, length) ranges covering
// channelIdx's bytes across every record in every fragment of group,
// coalescing adjacent ranges.
func (g IndexedChannelGroup) GetChannelByteRanges(channelIdx int) ([]ByteRange, error) {
	return g.GetChannelByteRangesForRecords(channelIdx, 0, g.CycleCount)
}

// GetChannelByteRangesForRecords restricts GetChannelByteRanges to the
// record interval [start, start+count).
func (g IndexedChannelGroup) GetChannelByteRangesForRecords(channelIdx int, start, count uint64) ([]ByteRange, error) {
	if channelIdx < 0 || channelIdx >= len(g.Channels) {
		return nil, fmt.Errorf("index: channel index %d out of range (%d channels)", channelIdx, len(g.Channels))
	}
	ch := g.Channels[channelIdx]
	width := channelWidth(ch)
	stride := g.recordStride()
	if stride == 0 {
		return nil, fmt.Errorf("index: channel group has zero record stride")
	}
	fieldStart := uint64(g.RecordIDLen) + uint64(ch.ByteOffset)

	var out []ByteRange
	recordIdx := uint64(0)
	end := start + count

	for _, frag := range g.Fragments {
		recordsInFrag := frag.Length / stride
		for i := uint64(0); i < recordsInFrag; i++ {
			if recordIdx >= start && recordIdx < end {
				off := frag.Offset + i*stride + fieldStart
				out = appendCoalesced(out, ByteRange{Offset: off, Length: width})
			}
			recordIdx++
			if recordIdx >= end {
				return out, nil
			}
		}
	}
	return out, nil
}

// appendCoalesced appends r to ranges, merging it into the last entry when
// it starts exactly where the previous one ends.
func appendCoalesced(ranges []ByteRange, r ByteRange) []ByteRange {
	if n := len(ranges); n > 0 {
		last := &ranges[n-1]
		if last.Offset+last.Length == r.Offset {
			last.Length += r.Length
			return ranges
		}
	}
	return append(ranges, r)
}
