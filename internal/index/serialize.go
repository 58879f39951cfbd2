package index

import (
	"encoding/json"
	"fmt"
	"os"
)

// Save writes idx to path as JSON. Plain encoding/json: the index is a
// small, human-inspectable artifact, not a hot-path wire format, so no
// third-party codec is warranted here.
func Save(idx *IndexedFile, path string) error {
	data, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return fmt.Errorf("index: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("index: write %s: %w", path, err)
	}
	return nil
}

// Load reads an IndexedFile from path and validates it against fileSize,
// the size of the MDF file the index claims to describe. Consumers must
// reject an index whose file_size does not match the target file, since
// the index's byte ranges are only valid against the exact file it was
// built from. Load also re-verifies each group's FragmentDigest, catching
// truncation or hand-editing that fileSize alone would miss.
func Load(path string, fileSize uint64) (*IndexedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("index: read %s: %w", path, err)
	}
	var idx IndexedFile
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, fmt.Errorf("index: unmarshal %s: %w", path, err)
	}
	if idx.FileSize != fileSize {
		return nil, fmt.Errorf("index: file_size mismatch: index has %d, target file has %d", idx.FileSize, fileSize)
	}
	for i, g := range idx.Groups {
		want := digestRanges(g.Fragments)
		if g.FragmentDigest != want {
			return nil, fmt.Errorf("index: fragment digest mismatch in group %d: got %d, want %d", i, g.FragmentDigest, want)
		}
	}
	return &idx, nil
}
