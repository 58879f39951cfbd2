// Package mdf4 provides a pure Go implementation for reading and writing
// ASAM MDF 4.1 binary measurement files. It supports the block subset
// named in the format's identification/header/data-group/channel-group/
// channel/conversion chain, decoding channel values through the 12
// cc_type conversions, and building a self-contained byte-range index for
// replay without re-parsing the block graph.
package mdf4

import (
	"fmt"

	"github.com/scigolib/mdf4/internal/graph"
	"github.com/scigolib/mdf4/internal/utils"
)

// File represents an open MDF file and its block graph.
type File struct {
	g *graph.Graph
}

// Open mmaps filename (or, when mapping fails, reads it through a plain
// file handle) and parses its identification and header blocks.
func Open(filename string) (*File, error) {
	g, err := graph.Open(filename)
	if err != nil {
		return nil, utils.WrapError("mdf4: open file", err)
	}
	return &File{g: g}, nil
}

// Close releases the underlying memory mapping or file handle.
func (f *File) Close() error {
	return f.g.Close()
}

// StartTime returns the recording start time as nanoseconds since the
// Unix epoch.
func (f *File) StartTime() int64 {
	return f.g.Header.StartTimeNS
}

// Size returns the total byte length of the file.
func (f *File) Size() int64 {
	return f.g.Size()
}

// DataGroups returns every data group in the file, in file order.
func (f *File) DataGroups() ([]DataGroup, error) {
	refs, err := f.g.DataGroups()
	if err != nil {
		return nil, utils.WrapError("mdf4: walk data groups", err)
	}
	out := make([]DataGroup, len(refs))
	for i, ref := range refs {
		out[i] = DataGroup{f: f, ref: ref}
	}
	return out, nil
}

// DataGroup is one ##DG: a record stream shared by one or more channel
// groups (multiple channel groups at the same data group means unsorted
// storage, where several record layouts interleave in one byte stream).
type DataGroup struct {
	f   *File
	ref graph.DataGroupRef
}

// RecordIDLen is the record id's byte width (0 when the group has a
// single channel group and no id is stored).
func (dg DataGroup) RecordIDLen() uint8 {
	return dg.ref.Block.RecordIDLen
}

// ChannelGroups returns dg's channel groups in file order.
func (dg DataGroup) ChannelGroups() ([]ChannelGroup, error) {
	refs, err := dg.f.g.ChannelGroups(dg.ref)
	if err != nil {
		return nil, utils.WrapError(fmt.Sprintf("mdf4: walk channel groups at 0x%x", dg.ref.Offset), err)
	}
	out := make([]ChannelGroup, len(refs))
	for i, ref := range refs {
		out[i] = ChannelGroup{f: dg.f, dg: dg, ref: ref}
	}
	return out, nil
}

// ChannelGroup is one ##CG: a fixed record layout and its channels.
type ChannelGroup struct {
	f   *File
	dg  DataGroup
	ref graph.ChannelGroupRef
}

// CycleCount is the number of records in this group.
func (cg ChannelGroup) CycleCount() uint64 {
	return cg.ref.Block.CycleCount
}

// SamplesByteNr is the per-record sample-data byte width.
func (cg ChannelGroup) SamplesByteNr() uint32 {
	return cg.ref.Block.SamplesByteNr
}

// Channels returns cg's channels in file order.
func (cg ChannelGroup) Channels() ([]Channel, error) {
	refs, err := cg.f.g.Channels(cg.ref)
	if err != nil {
		return nil, utils.WrapError(fmt.Sprintf("mdf4: walk channels at 0x%x", cg.ref.Offset), err)
	}
	out := make([]Channel, len(refs))
	for i, ref := range refs {
		out[i] = Channel{f: cg.f, cg: cg, ref: ref}
	}
	return out, nil
}
