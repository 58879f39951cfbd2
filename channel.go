package mdf4

import (
	"fmt"

	"github.com/scigolib/mdf4/internal/block"
	"github.com/scigolib/mdf4/internal/conversion"
	"github.com/scigolib/mdf4/internal/graph"
	"github.com/scigolib/mdf4/internal/record"
	"github.com/scigolib/mdf4/internal/utils"
)

// DecodedValue is a channel's value after conversion: an unsigned/signed
// integer, a float, a string, or a byte array, tagged by Kind.
type DecodedValue = conversion.DecodedValue

// Channel is one ##CN: a record-layout field plus its name/unit/comment
// and conversion.
type Channel struct {
	f   *File
	cg  ChannelGroup
	ref graph.ChannelRef
}

// Name resolves the channel's cn_tx_name link.
func (c Channel) Name() (string, error) {
	return c.f.textOrEmpty(c.ref.Block.Name)
}

// Unit resolves the channel's cn_md_unit link.
func (c Channel) Unit() (string, error) {
	return c.f.textOrEmpty(c.ref.Block.Unit)
}

// Comment resolves the channel's cn_tx_comment link.
func (c Channel) Comment() (string, error) {
	return c.f.textOrEmpty(c.ref.Block.Comment)
}

// IsMaster reports whether this channel is its group's master (time)
// channel.
func (c Channel) IsMaster() bool {
	return c.ref.Block.ChannelType == block.ChannelTypeMaster
}

// Read decodes every record of this channel's group, in record order,
// applying the channel's resolved conversion chain. valid[i] reports
// whether values[i] is a genuine reading rather than a placeholder for a
// record the invalidation flags mark as invalid.
func (c Channel) Read() (values []DecodedValue, valid []bool, err error) {
	resolved, err := conversion.Resolve(c.f.g, c.ref.Block.Conversion)
	if err != nil {
		return nil, nil, utils.WrapError(fmt.Sprintf("mdf4: resolve conversion at 0x%x", c.ref.Offset), err)
	}

	var vlsd record.VLSDSource
	if c.ref.Block.ChannelType == block.ChannelTypeVLSD {
		entries, err := c.f.g.SignalData(c.ref.Block.Data)
		if err != nil {
			return nil, nil, utils.WrapError(fmt.Sprintf("mdf4: resolve VLSD data at 0x%x", c.ref.Offset), err)
		}
		vlsd = record.OffsetEntries(entries)
	}

	fragments, err := c.f.g.Fragments(c.cg.dg.ref.Block.Data)
	if err != nil {
		return nil, nil, utils.WrapError(fmt.Sprintf("mdf4: resolve fragments at 0x%x", c.cg.dg.ref.Offset), err)
	}

	stream := record.NewStream(fragments, c.cg.dg.ref.Block.RecordIDLen, c.cg.ref.Block.SamplesByteNr, c.cg.ref.Block.InvalidationBytesNr)

	values = make([]DecodedValue, 0, c.cg.ref.Block.CycleCount)
	valid = make([]bool, 0, c.cg.ref.Block.CycleCount)
	for {
		sample, invalidation, ok, err := stream.Next()
		if err != nil {
			return nil, nil, utils.WrapError("mdf4: read record stream", err)
		}
		if !ok {
			break
		}
		val, isValid, err := record.Decode(c.ref.Block, sample, invalidation, resolved, vlsd)
		if err != nil {
			return nil, nil, utils.WrapError(fmt.Sprintf("mdf4: decode channel at 0x%x", c.ref.Offset), err)
		}
		values = append(values, val)
		valid = append(valid, isValid)
	}
	return values, valid, nil
}

func (f *File) textOrEmpty(offset uint64) (string, error) {
	if offset == 0 {
		return "", nil
	}
	return f.g.Text(offset)
}
