package graph

import (
	"fmt"

	"github.com/scigolib/mdf4/internal/block"
)

// maxFragmentListDepth bounds ##DL -> ##DL chains (nested fragment lists).
const maxFragmentListDepth = 1 << 16

// Fragment is one contiguous run of record bytes within a data group's
// logical record stream.
type Fragment struct {
	Offset  uint64
	Payload []byte
}

// Fragments resolves a ##DG's data link into an ordered list of record
// byte runs. dataLink may point directly at a ##DT/##DV block (a single
// fragment) or at a ##DL block chaining several of them. dataLink == 0
// (an empty data group) returns (nil, nil).
func (g *Graph) Fragments(dataLink uint64) ([]Fragment, error) {
	if dataLink == 0 {
		return nil, nil
	}

	buf, h, err := readBlockAt(g.ra, dataLink)
	if err != nil {
		return nil, fmt.Errorf("read data region at 0x%x: %w", dataLink, err)
	}

	switch h.Magic {
	case block.MagicDT, block.MagicDV:
		db, err := block.ParseDataBlock(buf)
		if err != nil {
			return nil, fmt.Errorf("parse data block at 0x%x: %w", dataLink, err)
		}
		return []Fragment{{Offset: dataLink, Payload: db.Payload}}, nil
	case block.MagicDL:
		return g.fragmentsFromList(dataLink, 0)
	default:
		return nil, fmt.Errorf("data region at 0x%x: %w", dataLink, block.ErrUnexpectedMagic)
	}
}

func (g *Graph) fragmentsFromList(offset uint64, depth int) ([]Fragment, error) {
	if depth >= maxFragmentListDepth {
		return nil, fmt.Errorf("graph: data list chain exceeds %d entries, possible cycle", maxFragmentListDepth)
	}

	var out []Fragment
	for offset != 0 {
		buf, h, err := readBlockAt(g.ra, offset)
		if err != nil {
			return nil, fmt.Errorf("read data list at 0x%x: %w", offset, err)
		}
		if err := h.CheckMagic(block.MagicDL); err != nil {
			return nil, fmt.Errorf("data list at 0x%x: %w", offset, err)
		}
		dl, err := block.ParseDataList(buf)
		if err != nil {
			return nil, fmt.Errorf("parse data list at 0x%x: %w", offset, err)
		}

		for _, link := range dl.Data {
			dbuf, dh, err := readBlockAt(g.ra, link)
			if err != nil {
				return nil, fmt.Errorf("read data list entry at 0x%x: %w", link, err)
			}
			if dh.Magic != block.MagicDT && dh.Magic != block.MagicDV {
				return nil, fmt.Errorf("data list entry at 0x%x: %w", link, block.ErrUnexpectedMagic)
			}
			db, err := block.ParseDataBlock(dbuf)
			if err != nil {
				return nil, fmt.Errorf("parse data list entry at 0x%x: %w", link, err)
			}
			out = append(out, Fragment{Offset: link, Payload: db.Payload})
		}

		depth++
		if depth >= maxFragmentListDepth {
			return nil, fmt.Errorf("graph: data list chain exceeds %d entries, possible cycle", maxFragmentListDepth)
		}
		offset = dl.Next
	}
	return out, nil
}

// SignalData resolves a VLSD channel's cn_data link (a ##SD block, or a
// ##DL chain of them) into a map from each entry's byte offset within
// the logical VLSD stream to its payload. A VLSD channel's inline record
// value is one of these offsets, not a sequential index: a ##DL chain's
// blocks are addressed as one continuous byte stream, each block's base
// offset picking up where the previous one's raw payload ended.
func (g *Graph) SignalData(dataLink uint64) (map[uint64][]byte, error) {
	if dataLink == 0 {
		return nil, nil
	}

	buf, h, err := readBlockAt(g.ra, dataLink)
	if err != nil {
		return nil, fmt.Errorf("read signal data at 0x%x: %w", dataLink, err)
	}

	switch h.Magic {
	case block.MagicSD:
		entries, _, err := block.ParseSignalDataAt(buf, 0)
		if err != nil {
			return nil, fmt.Errorf("parse signal data at 0x%x: %w", dataLink, err)
		}
		return entries, nil
	case block.MagicDL:
		return g.signalDataFromList(dataLink, 0)
	default:
		return nil, fmt.Errorf("signal data at 0x%x: %w", dataLink, block.ErrUnexpectedMagic)
	}
}

func (g *Graph) signalDataFromList(offset uint64, depth int) (map[uint64][]byte, error) {
	if depth >= maxFragmentListDepth {
		return nil, fmt.Errorf("graph: signal data list chain exceeds %d entries, possible cycle", maxFragmentListDepth)
	}

	out := make(map[uint64][]byte)
	base := uint64(0)
	for offset != 0 {
		buf, h, err := readBlockAt(g.ra, offset)
		if err != nil {
			return nil, fmt.Errorf("read data list at 0x%x: %w", offset, err)
		}
		if err := h.CheckMagic(block.MagicDL); err != nil {
			return nil, fmt.Errorf("data list at 0x%x: %w", offset, err)
		}
		dl, err := block.ParseDataList(buf)
		if err != nil {
			return nil, fmt.Errorf("parse data list at 0x%x: %w", offset, err)
		}

		for _, link := range dl.Data {
			sbuf, sh, err := readBlockAt(g.ra, link)
			if err != nil {
				return nil, fmt.Errorf("read signal data entry at 0x%x: %w", link, err)
			}
			if err := sh.CheckMagic(block.MagicSD); err != nil {
				return nil, fmt.Errorf("signal data entry at 0x%x: %w", link, err)
			}
			entries, next, err := block.ParseSignalDataAt(sbuf, base)
			if err != nil {
				return nil, fmt.Errorf("parse signal data entry at 0x%x: %w", link, err)
			}
			for k, v := range entries {
				out[k] = v
			}
			base = next
		}

		depth++
		if depth >= maxFragmentListDepth {
			return nil, fmt.Errorf("graph: signal data list chain exceeds %d entries, possible cycle", maxFragmentListDepth)
		}
		offset = dl.Next
	}
	return out, nil
}
