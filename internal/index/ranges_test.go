package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetChannelByteRangesOneRangePerRecordWhenNotAdjacent(t *testing.T) {
	path, _ := buildFixture(t)
	idx, err := FromFile(path)
	require.NoError(t, err)
	g := idx.Groups[0]

	// speed occupies bytes [4,8) of each 8-byte record; the time
	// channel's bytes sit between consecutive records' speed fields, so
	// nothing coalesces.
	ranges, err := g.GetChannelByteRanges(1)
	require.NoError(t, err)
	require.Len(t, ranges, 3)
	for _, r := range ranges {
		assert.Equal(t, uint64(4), r.Length)
	}
}

func TestGetChannelByteRangesCoalescesWhenRecordsAreContiguous(t *testing.T) {
	// A single-channel record group: each record is exactly the
	// channel's width, so consecutive records' byte ranges are adjacent
	// and coalesce into one.
	g := IndexedChannelGroup{
		SamplesByteNr: 4,
		CycleCount:    3,
		Fragments:     []ByteRange{{Offset: 1000, Length: 12}},
		Channels: []IndexedChannel{
			{BitCount: 32},
		},
	}
	ranges, err := g.GetChannelByteRanges(0)
	require.NoError(t, err)
	require.Len(t, ranges, 1)
	assert.Equal(t, ByteRange{Offset: 1000, Length: 12}, ranges[0])
}

func TestGetChannelByteRangesForRecordsSubset(t *testing.T) {
	path, _ := buildFixture(t)
	idx, err := FromFile(path)
	require.NoError(t, err)
	g := idx.Groups[0]

	ranges, err := g.GetChannelByteRangesForRecords(1, 1, 1)
	require.NoError(t, err)
	require.Len(t, ranges, 1)
	assert.Equal(t, uint64(4), ranges[0].Length)
}

func TestGetChannelByteRangesOutOfRangeIndex(t *testing.T) {
	path, _ := buildFixture(t)
	idx, err := FromFile(path)
	require.NoError(t, err)
	g := idx.Groups[0]

	_, err = g.GetChannelByteRanges(99)
	assert.Error(t, err)
}
