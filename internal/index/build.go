package index

import (
	"fmt"

	"github.com/cespare/xxhash/v2"

	"github.com/scigolib/mdf4/internal/block"
	"github.com/scigolib/mdf4/internal/conversion"
	"github.com/scigolib/mdf4/internal/graph"
	"github.com/scigolib/mdf4/internal/utils"
)

// FromFile opens path, walks its full block graph, and returns a
// self-contained IndexedFile: every conversion resolved, every fragment
// list flattened to byte ranges.
func FromFile(path string) (*IndexedFile, error) {
	g, err := graph.Open(path)
	if err != nil {
		return nil, utils.WrapError("index: open file", err)
	}
	defer g.Close()

	return FromGraph(g)
}

// FromGraph builds an IndexedFile from an already-opened graph. Exposed
// separately so tests (and callers with a pre-opened reader) can skip the
// mmap round trip.
func FromGraph(g *graph.Graph) (*IndexedFile, error) {
	idx := &IndexedFile{
		FileSize:    uint64(g.Size()),
		StartTimeNS: g.Header.StartTimeNS,
	}

	dataGroups, err := g.DataGroups()
	if err != nil {
		return nil, utils.WrapError("index: walk data groups", err)
	}

	for _, dg := range dataGroups {
		fragments, err := g.Fragments(dg.Block.Data)
		if err != nil {
			return nil, utils.WrapError(fmt.Sprintf("index: resolve fragments at 0x%x", dg.Offset), err)
		}
		ranges := make([]ByteRange, len(fragments))
		for i, f := range fragments {
			ranges[i] = ByteRange{Offset: f.Offset + block.HeaderSize, Length: uint64(len(f.Payload))}
		}

		channelGroups, err := g.ChannelGroups(dg)
		if err != nil {
			return nil, utils.WrapError(fmt.Sprintf("index: walk channel groups at 0x%x", dg.Offset), err)
		}

		for _, cg := range channelGroups {
			igroup := IndexedChannelGroup{
				RecordIDLen:         dg.Block.RecordIDLen,
				SamplesByteNr:       cg.Block.SamplesByteNr,
				InvalidationBytesNr: cg.Block.InvalidationBytesNr,
				CycleCount:          cg.Block.CycleCount,
				Fragments:           ranges,
			}
			igroup.FragmentDigest = digestRanges(ranges)

			channels, err := g.Channels(cg)
			if err != nil {
				return nil, utils.WrapError(fmt.Sprintf("index: walk channels at 0x%x", cg.Offset), err)
			}

			for _, ch := range channels {
				ichan, err := buildIndexedChannel(g, ch)
				if err != nil {
					return nil, err
				}
				igroup.Channels = append(igroup.Channels, ichan)
			}

			idx.Groups = append(idx.Groups, igroup)
		}
	}

	return idx, nil
}

func buildIndexedChannel(g *graph.Graph, ch graph.ChannelRef) (IndexedChannel, error) {
	name, err := textOrEmpty(g, ch.Block.Name)
	if err != nil {
		return IndexedChannel{}, utils.WrapError(fmt.Sprintf("index: resolve channel name at 0x%x", ch.Offset), err)
	}
	unit, err := textOrEmpty(g, ch.Block.Unit)
	if err != nil {
		return IndexedChannel{}, utils.WrapError(fmt.Sprintf("index: resolve channel unit at 0x%x", ch.Offset), err)
	}
	comment, err := textOrEmpty(g, ch.Block.Comment)
	if err != nil {
		return IndexedChannel{}, utils.WrapError(fmt.Sprintf("index: resolve channel comment at 0x%x", ch.Offset), err)
	}

	resolved, err := conversion.Resolve(g, ch.Block.Conversion)
	if err != nil {
		return IndexedChannel{}, utils.WrapError(fmt.Sprintf("index: resolve conversion at 0x%x", ch.Offset), err)
	}

	return IndexedChannel{
		Name:               name,
		Unit:               unit,
		Comment:            comment,
		ChannelType:        ch.Block.ChannelType,
		DataType:           ch.Block.DataType,
		ByteOffset:         ch.Block.ByteOffset,
		BitOffset:          ch.Block.BitOffset,
		BitCount:           ch.Block.BitCount,
		Flags:              ch.Block.Flags,
		PosInvalidationBit: ch.Block.PosInvalidationBit,
		Data:               ch.Block.Data,
		Conversion:         toResolvedConversion(resolved),
	}, nil
}

func textOrEmpty(g *graph.Graph, offset uint64) (string, error) {
	if offset == 0 {
		return "", nil
	}
	return g.Text(offset)
}

func toResolvedConversion(r *conversion.Resolved) *ResolvedConversion {
	if r == nil {
		return nil
	}
	out := &ResolvedConversion{Type: r.Type, Val: r.Val}
	for _, ref := range r.Refs {
		out.Refs = append(out.Refs, ResolvedConversionRef{
			Text:   ref.Text,
			Nested: toResolvedConversion(ref.Nested),
		})
	}
	return out
}

// digestRanges hashes a channel group's fragment list so Load can detect
// silent corruption of a saved index beyond the mandatory file_size check.
func digestRanges(ranges []ByteRange) uint64 {
	buf := make([]byte, 0, 16*len(ranges))
	for _, r := range ranges {
		buf = appendUint64(buf, r.Offset)
		buf = appendUint64(buf, r.Length)
	}
	return xxhash.Sum64(buf)
}

func appendUint64(buf []byte, v uint64) []byte {
	for i := 0; i < 8; i++ {
		buf = append(buf, byte(v>>(8*i)))
	}
	return buf
}
