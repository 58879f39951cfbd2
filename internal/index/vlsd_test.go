package index

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scigolib/mdf4/internal/block"
	"github.com/scigolib/mdf4/internal/writer"
)

// buildVLSDFixture writes a one-data-group, one-channel-group file with a
// single VLSD string channel whose records yield "a", "bb", "", "ccc" -
// spec scenario 5's direct-read/index-read equivalence case.
func buildVLSDFixture(t *testing.T) (path string, want []string) {
	t.Helper()
	path = filepath.Join(t.TempDir(), "vlsd-fixture.mf4")
	want = []string{"a", "bb", "", "ccc"}

	b, err := writer.Init(path, "mdf4-index-test", 1_700_000_000_000_000_000)
	require.NoError(t, err)

	dg, err := b.AddDataGroup(0)
	require.NoError(t, err)
	cg, err := b.AddChannelGroup(dg, 0, 8, 0)
	require.NoError(t, err)

	entries := make([][]byte, len(want))
	for i, s := range want {
		entries[i] = []byte(s)
	}
	sdOff, entryOffsets, err := b.AddSignalData(entries)
	require.NoError(t, err)

	nameOff, err := b.AddText("label", false)
	require.NoError(t, err)
	ch := block.Channel{
		Name:        nameOff,
		ChannelType: block.ChannelTypeVLSD,
		DataType:    block.DataTypeStringUTF8,
		BitCount:    32,
		Data:        sdOff,
	}
	_, err = b.AddChannel(cg, ch)
	require.NoError(t, err)

	dw := b.StartDataBlock()
	for _, off := range entryOffsets {
		require.NoError(t, dw.WriteRecordU64(off))
	}
	dataOff, err := dw.Finish()
	require.NoError(t, err)
	require.NoError(t, b.SetDataGroupData(dg, dataOff))
	require.NoError(t, b.SetCycleCount(cg, uint64(len(want))))

	require.NoError(t, b.FileWriter().Flush())
	require.NoError(t, b.FileWriter().Close())

	return path, want
}

func TestReadChannelValuesVLSD(t *testing.T) {
	path, want := buildVLSDFixture(t)

	idx, err := FromFile(path)
	require.NoError(t, err)
	g := idx.Groups[0]
	require.Len(t, g.Channels, 1)
	assert.Equal(t, block.ChannelTypeVLSD, g.Channels[0].ChannelType)
	assert.NotZero(t, g.Channels[0].Data)

	reader, err := OpenLocalFile(path)
	require.NoError(t, err)
	defer reader.Close()

	values, err := g.ReadChannelValues(0, reader)
	require.NoError(t, err)
	require.Len(t, values, len(want))
	for i, v := range values {
		assert.Equal(t, want[i], v.Str)
	}
}
