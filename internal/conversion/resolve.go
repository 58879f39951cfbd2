package conversion

import (
	"fmt"

	"github.com/scigolib/mdf4/internal/block"
	"github.com/scigolib/mdf4/internal/graph"
)

// GraphReader is the subset of *graph.Graph the resolver needs. Taking an
// interface keeps this package testable without a real mmap'd file.
type GraphReader interface {
	Magic(offset uint64) ([4]byte, error)
	Text(offset uint64) (string, error)
	Conversion(offset uint64) (graph.ConversionRef, error)
}

// Ref is one entry of a resolved conversion's dependency list: either the
// text a cc_ref resolved to, or the nested conversion it resolved to.
// Exactly one of Text/Nested is populated for a non-null ref.
type Ref struct {
	Text   string
	Nested *Resolved
}

// Resolved is a ##CC block with every cc_ref dependency walked and
// flattened: after Resolve returns, Apply never touches the file again.
type Resolved struct {
	Type block.CCType
	Val  []float64
	Refs []Ref
}

// Resolve walks offset's cc_ref chain to completion. offset == 0 returns
// (nil, nil): the channel has no conversion, and the raw value is used
// as-is.
func Resolve(g GraphReader, offset uint64) (*Resolved, error) {
	if offset == 0 {
		return nil, nil
	}
	return resolve(g, offset, map[uint64]bool{}, 0)
}

// resolve walks offset's dependency chain. path tracks offsets on the
// current recursion path (not every offset ever visited): the conversion
// graph is a DAG, so two sibling branches may legitimately reference the
// same shared nested conversion without that being a cycle. Only
// revisiting an offset that is an ancestor of the current call is an
// error.
func resolve(g GraphReader, offset uint64, path map[uint64]bool, depth int) (*Resolved, error) {
	if depth > MaxChainDepth {
		return nil, ErrChainTooDeep
	}
	if path[offset] {
		return nil, ErrChainCycle
	}
	path[offset] = true
	defer delete(path, offset)

	ccRef, err := g.Conversion(offset)
	if err != nil {
		return nil, fmt.Errorf("resolve conversion at 0x%x: %w", offset, err)
	}

	r := &Resolved{Type: ccRef.Block.Type, Val: ccRef.Block.Val}
	for _, link := range ccRef.Block.Ref {
		if link == 0 {
			r.Refs = append(r.Refs, Ref{})
			continue
		}

		magic, err := g.Magic(link)
		if err != nil {
			return nil, fmt.Errorf("peek cc_ref at 0x%x: %w", link, err)
		}

		switch magic {
		case block.MagicTX, block.MagicMD:
			text, err := g.Text(link)
			if err != nil {
				return nil, fmt.Errorf("resolve cc_ref text at 0x%x: %w", link, err)
			}
			r.Refs = append(r.Refs, Ref{Text: text})
		case block.MagicCC:
			nested, err := resolve(g, link, path, depth+1)
			if err != nil {
				return nil, err
			}
			r.Refs = append(r.Refs, Ref{Nested: nested})
		default:
			return nil, fmt.Errorf("cc_ref at 0x%x: %w", link, ErrUnexpectedRefKind)
		}
	}

	return r, nil
}
