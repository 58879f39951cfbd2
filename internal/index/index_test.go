package index

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/scigolib/mdf4/internal/block"
	"github.com/scigolib/mdf4/internal/writer"
)

// buildFixture writes a one-data-group, one-channel-group file with two
// channels: a float32 master ("time") and an unsigned 32-bit "speed" with
// a linear conversion (y = 2x + 1). Returns the file path and sample count.
func buildFixture(t *testing.T) (path string, samples int) {
	t.Helper()
	path = filepath.Join(t.TempDir(), "fixture.mf4")

	b, err := writer.Init(path, "mdf4-index-test", 1_700_000_000_000_000_000)
	require.NoError(t, err)

	dg, err := b.AddDataGroup(0)
	require.NoError(t, err)
	cg, err := b.AddChannelGroup(dg, 0, 8, 0)
	require.NoError(t, err)

	timeNameOff, err := b.AddText("time", false)
	require.NoError(t, err)
	timeCh := writer.MasterChannel(block.Channel{
		Name:     timeNameOff,
		DataType: block.DataTypeFloatLE,
		BitCount: 32,
	})
	_, err = b.AddChannel(cg, timeCh)
	require.NoError(t, err)

	speedNameOff, err := b.AddText("speed", false)
	require.NoError(t, err)
	unitOff, err := b.AddText("km/h", false)
	require.NoError(t, err)
	ccOff, err := b.AddConversion(block.Conversion{Type: block.CCLinear, Val: []float64{1, 2}})
	require.NoError(t, err)

	speedCh := block.Channel{
		Name:       speedNameOff,
		Unit:       unitOff,
		Conversion: ccOff,
		DataType:   block.DataTypeUnsignedLE,
		ByteOffset: 4,
		BitCount:   32,
	}
	_, err = b.AddChannel(cg, speedCh)
	require.NoError(t, err)

	dw := b.StartDataBlock()
	records := [][2]uint32{{0, 10}, {1, 20}, {2, 30}}
	for _, r := range records {
		rec := make([]byte, 8)
		rec[0] = byte(r[0])
		rec[4] = byte(r[1])
		require.NoError(t, dw.WriteRecord(rec))
	}
	dataOff, err := dw.Finish()
	require.NoError(t, err)
	require.NoError(t, b.SetDataGroupData(dg, dataOff))
	require.NoError(t, b.SetCycleCount(cg, uint64(len(records))))

	require.NoError(t, b.FileWriter().Flush())
	require.NoError(t, b.FileWriter().Close())

	return path, len(records)
}
