package mdf4

import (
	"github.com/scigolib/mdf4/internal/index"
)

// Index is a self-contained replay artifact for an MDF file: every
// conversion resolved, every data group's fragment list flattened to byte
// ranges, so channel values can be read back through a ByteRangeReader
// without re-parsing the file's block graph.
type Index = index.IndexedFile

// ByteRangeReader is the capability reading channel values through an
// Index needs: read exactly length bytes starting at offset, whether
// from a local file, an HTTP Range request, or object storage.
type ByteRangeReader = index.ByteRangeReader

// ChannelLocation identifies a channel within an Index by its (group,
// channel) position.
type ChannelLocation = index.ChannelLocation

// BuildIndex opens filename and walks its full block graph into an Index.
func BuildIndex(filename string) (*Index, error) {
	return index.FromFile(filename)
}

// OpenLocalFile opens filename for byte-range reads, the built-in
// ByteRangeReader implementation.
func OpenLocalFile(filename string) (*index.LocalFileReader, error) {
	return index.OpenLocalFile(filename)
}

// SaveIndex writes idx to path as JSON.
func SaveIndex(idx *Index, path string) error {
	return index.Save(idx, path)
}

// LoadIndex reads an Index from path and validates it against fileSize,
// the size of the MDF file the index claims to describe.
func LoadIndex(path string, fileSize uint64) (*Index, error) {
	return index.Load(path, fileSize)
}
