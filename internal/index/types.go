// Package index builds and serializes a self-contained replay artifact for
// an MDF file: fully-resolved conversions and flattened fragment byte
// ranges, so record values can be read back without re-parsing the file's
// block graph or re-walking cc_ref chains.
package index

import "github.com/scigolib/mdf4/internal/block"

// ByteRange is a contiguous run of file bytes: [Offset, Offset+Length).
type ByteRange struct {
	Offset uint64 `json:"offset"`
	Length uint64 `json:"length"`
}

// IndexedChannel is a channel's record-layout fields plus its conversion,
// already walked to completion so a reader never dereferences a cc_ref.
type IndexedChannel struct {
	Name    string `json:"name"`
	Unit    string `json:"unit,omitempty"`
	Comment string `json:"comment,omitempty"`

	ChannelType        block.ChannelType `json:"channel_type"`
	DataType           block.DataType    `json:"data_type"`
	ByteOffset         uint32            `json:"byte_offset"`
	BitOffset          uint8             `json:"bit_offset"`
	BitCount           uint32            `json:"bit_count"`
	Flags              uint32            `json:"flags"`
	PosInvalidationBit uint32            `json:"pos_invalidation_bit"`

	// Data is the channel's cn_data link, the file offset of its ##SD (or
	// ##DL of ##SD) block. Zero unless ChannelType is VLSD.
	Data uint64 `json:"data,omitempty"`

	Conversion *ResolvedConversion `json:"conversion,omitempty"`
}

// ResolvedConversion is the JSON-serializable mirror of
// internal/conversion.Resolved: the same flattened cc_type/Val/Refs shape,
// with Ref entries as plain strings/nested values instead of the
// conversion package's Ref struct (kept local to avoid this package
// depending on conversion's in-memory representation for its wire format).
type ResolvedConversion struct {
	Type block.CCType          `json:"type"`
	Val  []float64             `json:"val,omitempty"`
	Refs []ResolvedConversionRef `json:"refs,omitempty"`
}

// ResolvedConversionRef is one cc_ref dependency: either resolved text or
// a nested conversion. A null cc_ref serializes as a zero value (both
// fields empty/nil).
type ResolvedConversionRef struct {
	Text   string              `json:"text,omitempty"`
	Nested *ResolvedConversion `json:"nested,omitempty"`
}

// IndexedChannelGroup is one ##CG's record geometry, flattened fragment
// list, and channel list.
type IndexedChannelGroup struct {
	RecordIDLen         uint8       `json:"record_id_len"`
	SamplesByteNr       uint32      `json:"samples_byte_nr"`
	InvalidationBytesNr uint32      `json:"invalidation_bytes_nr"`
	CycleCount          uint64      `json:"cycle_count"`
	Fragments           []ByteRange `json:"fragments"`
	FragmentDigest      uint64      `json:"fragment_digest"`
	Channels            []IndexedChannel `json:"channels"`
}

// IndexedFile is the top-level replay artifact.
type IndexedFile struct {
	FileSize    uint64                `json:"file_size"`
	StartTimeNS int64                 `json:"start_time_ns"`
	Groups      []IndexedChannelGroup `json:"groups"`
}

// recordStride is the per-record byte width: record-id, sample bytes, and
// invalidation bytes.
func (g IndexedChannelGroup) recordStride() uint64 {
	return uint64(g.RecordIDLen) + uint64(g.SamplesByteNr) + uint64(g.InvalidationBytesNr)
}
