// Package graph parses an MDF file's block graph: identification, header,
// and the data-group -> channel-group -> channel linked lists, resolving
// text/conversion/source links and data regions on demand rather than
// eagerly loading the whole file into memory.
package graph

import (
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/exp/mmap"

	"github.com/scigolib/mdf4/internal/block"
	"github.com/scigolib/mdf4/internal/codec"
	"github.com/scigolib/mdf4/internal/utils"
)

// ErrNullLink is returned by resolve helpers when asked to follow a link
// that is 0 (the on-disk convention for "absent").
var ErrNullLink = errors.New("graph: null link")

// Graph is an opened MDF file's navigable block structure.
type Graph struct {
	ra     codec.ReaderAt
	closer io.Closer
	size   int64

	ID     block.Identification
	Header block.HeaderBlock
}

// Open mmaps path and parses its identification and header blocks. When
// the file cannot be mapped, it is read through a plain *os.File instead.
func Open(path string) (*Graph, error) {
	var ra codec.ReaderAt
	var closer io.Closer
	var size int64
	if m, err := mmap.Open(path); err == nil {
		ra, closer, size = m, m, int64(m.Len())
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, utils.WrapError("open mdf file", err)
		}
		st, err := f.Stat()
		if err != nil {
			_ = f.Close()
			return nil, utils.WrapError("stat mdf file", err)
		}
		ra, closer, size = f, f, st.Size()
	}

	g, err := newGraph(ra, size)
	if err != nil {
		_ = closer.Close()
		return nil, err
	}
	g.closer = closer
	return g, nil
}

// OpenReaderAt builds a Graph over an already-open reader (a test double, a
// pre-opened *os.File, or anything implementing ReadAt). The caller retains
// ownership of closing ra.
func OpenReaderAt(ra codec.ReaderAt, size int64) (*Graph, error) {
	return newGraph(ra, size)
}

func newGraph(ra codec.ReaderAt, size int64) (*Graph, error) {
	g := &Graph{ra: ra, size: size}

	idBuf, err := codec.ReadExact(ra, 0, block.IdentificationSize)
	if err != nil {
		return nil, utils.WrapError("read identification block", err)
	}
	id, err := block.ParseIdentification(idBuf)
	if err != nil {
		return nil, utils.WrapError("parse identification block", err)
	}
	g.ID = id

	hdBuf, hdHeader, err := readBlockAt(ra, block.IdentificationSize)
	if err != nil {
		return nil, utils.WrapError("read header block", err)
	}
	if err := hdHeader.CheckMagic(block.MagicHD); err != nil {
		return nil, utils.WrapError("parse header block", err)
	}
	hd, err := block.ParseHeaderBlock(hdBuf)
	if err != nil {
		return nil, utils.WrapError("parse header block", err)
	}
	g.Header = hd

	return g, nil
}

// Close releases the underlying reader if Graph opened it itself (Open, not
// OpenReaderAt).
func (g *Graph) Close() error {
	if g.closer == nil {
		return nil
	}
	return g.closer.Close()
}

// Size returns the total byte length of the underlying file.
func (g *Graph) Size() int64 {
	return g.size
}

// readBlockAt reads a block's 24-byte header at offset, then reads exactly
// Header.Length bytes (the unpadded content) so callers can parse it
// directly.
func readBlockAt(ra codec.ReaderAt, offset uint64) ([]byte, block.Header, error) {
	hbuf, err := codec.ReadExact(ra, int64(offset), block.HeaderSize)
	if err != nil {
		return nil, block.Header{}, fmt.Errorf("read block header at 0x%x: %w", offset, err)
	}
	h, err := block.ParseHeader(hbuf)
	if err != nil {
		return nil, block.Header{}, fmt.Errorf("parse block header at 0x%x: %w", offset, err)
	}
	if h.Length < block.HeaderSize {
		return nil, block.Header{}, fmt.Errorf("block at 0x%x: %w", offset, block.ErrBadLength)
	}

	buf, err := codec.ReadExact(ra, int64(offset), int(h.Length))
	if err != nil {
		return nil, block.Header{}, fmt.Errorf("read block body at 0x%x: %w", offset, err)
	}
	return buf, h, nil
}
