package graph

import "fmt"

// Magic reads the 4-byte magic at offset without parsing the rest of the
// block. The conversion resolver uses this to tell a cc_ref pointing at a
// ##TX/##MD from one pointing at a nested ##CC before committing to either
// parse path.
func (g *Graph) Magic(offset uint64) ([4]byte, error) {
	var magic [4]byte
	buf, err := readExactMagic(g, offset)
	if err != nil {
		return magic, fmt.Errorf("read magic at 0x%x: %w", offset, err)
	}
	copy(magic[:], buf)
	return magic, nil
}

func readExactMagic(g *Graph, offset uint64) ([]byte, error) {
	buf := make([]byte, 4)
	if _, err := g.ra.ReadAt(buf, int64(offset)); err != nil {
		return nil, err
	}
	return buf, nil
}
