package graph

import (
	"fmt"

	"github.com/scigolib/mdf4/internal/block"
)

// maxChainLength bounds every singly-linked block chain this package
// walks (data groups, channel groups, channels; data list chains are
// bounded separately by maxFragmentListDepth in data.go). A corrupt
// file with a cyclic Next link would otherwise loop forever.
const maxChainLength = 1 << 20

// DataGroupRef pairs a parsed ##DG with the file offset it was read from,
// which callers need to resolve its channel groups and data region.
type DataGroupRef struct {
	Offset uint64
	Block  block.DataGroup
}

// ChannelGroupRef pairs a parsed ##CG with its file offset.
type ChannelGroupRef struct {
	Offset uint64
	Block  block.ChannelGroup
}

// ChannelRef pairs a parsed ##CN with its file offset.
type ChannelRef struct {
	Offset uint64
	Block  block.Channel
}

// DataGroups walks the ##HD -> ##DG chain, returning every data group in
// file order.
func (g *Graph) DataGroups() ([]DataGroupRef, error) {
	var out []DataGroupRef
	offset := g.Header.DataGroupFirst
	for i := 0; offset != 0; i++ {
		if i >= maxChainLength {
			return nil, fmt.Errorf("graph: data group chain exceeds %d entries, possible cycle", maxChainLength)
		}
		buf, h, err := readBlockAt(g.ra, offset)
		if err != nil {
			return nil, fmt.Errorf("read data group at 0x%x: %w", offset, err)
		}
		if err := h.CheckMagic(block.MagicDG); err != nil {
			return nil, fmt.Errorf("data group at 0x%x: %w", offset, err)
		}
		dg, err := block.ParseDataGroup(buf)
		if err != nil {
			return nil, fmt.Errorf("parse data group at 0x%x: %w", offset, err)
		}
		out = append(out, DataGroupRef{Offset: offset, Block: dg})
		offset = dg.Next
	}
	return out, nil
}

// ChannelGroups walks the ##DG -> ##CG chain rooted at dg.
func (g *Graph) ChannelGroups(dg DataGroupRef) ([]ChannelGroupRef, error) {
	var out []ChannelGroupRef
	offset := dg.Block.CGFirst
	for i := 0; offset != 0; i++ {
		if i >= maxChainLength {
			return nil, fmt.Errorf("graph: channel group chain exceeds %d entries, possible cycle", maxChainLength)
		}
		buf, h, err := readBlockAt(g.ra, offset)
		if err != nil {
			return nil, fmt.Errorf("read channel group at 0x%x: %w", offset, err)
		}
		if err := h.CheckMagic(block.MagicCG); err != nil {
			return nil, fmt.Errorf("channel group at 0x%x: %w", offset, err)
		}
		cg, err := block.ParseChannelGroup(buf)
		if err != nil {
			return nil, fmt.Errorf("parse channel group at 0x%x: %w", offset, err)
		}
		out = append(out, ChannelGroupRef{Offset: offset, Block: cg})
		offset = cg.Next
	}
	return out, nil
}

// Channels walks the ##CG -> ##CN chain rooted at cg.
func (g *Graph) Channels(cg ChannelGroupRef) ([]ChannelRef, error) {
	return g.channelChain(cg.Block.CNFirst)
}

// Composition returns ch's nested channels (cn_composition), if any. A
// channel with Composition == 0 has none.
func (g *Graph) Composition(ch ChannelRef) ([]ChannelRef, error) {
	if ch.Block.Composition == 0 {
		return nil, nil
	}
	return g.channelChain(ch.Block.Composition)
}

func (g *Graph) channelChain(offset uint64) ([]ChannelRef, error) {
	var out []ChannelRef
	for i := 0; offset != 0; i++ {
		if i >= maxChainLength {
			return nil, fmt.Errorf("graph: channel chain exceeds %d entries, possible cycle", maxChainLength)
		}
		buf, h, err := readBlockAt(g.ra, offset)
		if err != nil {
			return nil, fmt.Errorf("read channel at 0x%x: %w", offset, err)
		}
		if err := h.CheckMagic(block.MagicCN); err != nil {
			return nil, fmt.Errorf("channel at 0x%x: %w", offset, err)
		}
		cn, err := block.ParseChannel(buf)
		if err != nil {
			return nil, fmt.Errorf("parse channel at 0x%x: %w", offset, err)
		}
		out = append(out, ChannelRef{Offset: offset, Block: cn})
		offset = cn.Next
	}
	return out, nil
}
