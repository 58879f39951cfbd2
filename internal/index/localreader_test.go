package index

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalFileReaderReadRange(t *testing.T) {
	path, _ := buildFixture(t)

	reader, err := OpenLocalFile(path)
	require.NoError(t, err)
	defer reader.Close()

	data, err := reader.ReadRange(0, 4)
	require.NoError(t, err)
	assert.Equal(t, []byte("##ID"), data)

	formatID, err := reader.ReadRange(24, 8)
	require.NoError(t, err)
	assert.Equal(t, []byte("MDF     "), formatID)
}

func TestLocalFileReaderShortReadErrors(t *testing.T) {
	path, _ := buildFixture(t)

	reader, err := OpenLocalFile(path)
	require.NoError(t, err)
	defer reader.Close()

	_, err = reader.ReadRange(0, 1<<40)
	assert.Error(t, err)
}

func TestOpenLocalFileMissingPath(t *testing.T) {
	_, err := OpenLocalFile(filepath.Join(t.TempDir(), "missing.mf4"))
	assert.Error(t, err)
}
