package index

import (
	"fmt"

	"github.com/scigolib/mdf4/internal/block"
)

// maxSignalDataListDepth bounds ##DL -> ##DL chains of VLSD data, mirroring
// internal/graph's same-purpose guard.
const maxSignalDataListDepth = 1 << 16

// resolveSignalData reads dataLink's ##SD (or ##DL chain of ##SD) through
// reader and returns the map from each entry's logical-stream byte offset
// to its payload, the same shape internal/graph.Graph.SignalData produces
// from a fully-mapped file.
func resolveSignalData(reader ByteRangeReader, dataLink uint64) (map[uint64][]byte, error) {
	if dataLink == 0 {
		return nil, nil
	}

	h, err := readHeader(reader, dataLink)
	if err != nil {
		return nil, fmt.Errorf("index: read signal data header at 0x%x: %w", dataLink, err)
	}

	switch h.Magic {
	case block.MagicSD:
		buf, err := reader.ReadRange(dataLink, h.Length)
		if err != nil {
			return nil, fmt.Errorf("index: read signal data at 0x%x: %w", dataLink, err)
		}
		entries, _, err := block.ParseSignalDataAt(buf, 0)
		if err != nil {
			return nil, fmt.Errorf("index: parse signal data at 0x%x: %w", dataLink, err)
		}
		return entries, nil
	case block.MagicDL:
		return signalDataFromList(reader, dataLink, 0)
	default:
		return nil, fmt.Errorf("index: signal data at 0x%x: %w", dataLink, block.ErrUnexpectedMagic)
	}
}

func signalDataFromList(reader ByteRangeReader, offset uint64, depth int) (map[uint64][]byte, error) {
	if depth >= maxSignalDataListDepth {
		return nil, fmt.Errorf("index: signal data list chain exceeds %d entries, possible cycle", maxSignalDataListDepth)
	}

	out := make(map[uint64][]byte)
	base := uint64(0)
	for offset != 0 {
		h, err := readHeader(reader, offset)
		if err != nil {
			return nil, fmt.Errorf("index: read data list header at 0x%x: %w", offset, err)
		}
		if err := h.CheckMagic(block.MagicDL); err != nil {
			return nil, fmt.Errorf("index: data list at 0x%x: %w", offset, err)
		}
		buf, err := reader.ReadRange(offset, h.Length)
		if err != nil {
			return nil, fmt.Errorf("index: read data list at 0x%x: %w", offset, err)
		}
		dl, err := block.ParseDataList(buf)
		if err != nil {
			return nil, fmt.Errorf("index: parse data list at 0x%x: %w", offset, err)
		}

		for _, link := range dl.Data {
			sh, err := readHeader(reader, link)
			if err != nil {
				return nil, fmt.Errorf("index: read signal data entry header at 0x%x: %w", link, err)
			}
			if err := sh.CheckMagic(block.MagicSD); err != nil {
				return nil, fmt.Errorf("index: signal data entry at 0x%x: %w", link, err)
			}
			sbuf, err := reader.ReadRange(link, sh.Length)
			if err != nil {
				return nil, fmt.Errorf("index: read signal data entry at 0x%x: %w", link, err)
			}
			entries, next, err := block.ParseSignalDataAt(sbuf, base)
			if err != nil {
				return nil, fmt.Errorf("index: parse signal data entry at 0x%x: %w", link, err)
			}
			for k, v := range entries {
				out[k] = v
			}
			base = next
		}

		depth++
		if depth >= maxSignalDataListDepth {
			return nil, fmt.Errorf("index: signal data list chain exceeds %d entries, possible cycle", maxSignalDataListDepth)
		}
		offset = dl.Next
	}
	return out, nil
}

func readHeader(reader ByteRangeReader, offset uint64) (block.Header, error) {
	buf, err := reader.ReadRange(offset, block.HeaderSize)
	if err != nil {
		return block.Header{}, err
	}
	return block.ParseHeader(buf)
}
