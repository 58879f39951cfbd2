package graph

import (
	"fmt"

	"github.com/scigolib/mdf4/internal/block"
)

// Text resolves a ##TX/##MD link to its string value. offset == 0 returns
// "", nil per the null-link convention.
func (g *Graph) Text(offset uint64) (string, error) {
	if offset == 0 {
		return "", nil
	}
	buf, h, err := readBlockAt(g.ra, offset)
	if err != nil {
		return "", fmt.Errorf("read text block at 0x%x: %w", offset, err)
	}
	if h.Magic != block.MagicTX && h.Magic != block.MagicMD {
		return "", fmt.Errorf("text block at 0x%x: %w", offset, block.ErrUnexpectedMagic)
	}
	tx, err := block.ParseText(buf)
	if err != nil {
		return "", fmt.Errorf("parse text block at 0x%x: %w", offset, err)
	}
	return tx.Value, nil
}

// SourceInfo resolves a ##SI link. offset == 0 returns ErrNullLink.
func (g *Graph) SourceInfo(offset uint64) (block.SourceInfo, error) {
	if offset == 0 {
		return block.SourceInfo{}, ErrNullLink
	}
	buf, h, err := readBlockAt(g.ra, offset)
	if err != nil {
		return block.SourceInfo{}, fmt.Errorf("read source info at 0x%x: %w", offset, err)
	}
	if err := h.CheckMagic(block.MagicSI); err != nil {
		return block.SourceInfo{}, fmt.Errorf("source info at 0x%x: %w", offset, err)
	}
	si, err := block.ParseSourceInfo(buf)
	if err != nil {
		return block.SourceInfo{}, fmt.Errorf("parse source info at 0x%x: %w", offset, err)
	}
	return si, nil
}

// ConversionRef pairs a parsed ##CC with its file offset, so the
// conversion engine can detect cycles across cc_ref chains by offset.
type ConversionRef struct {
	Offset uint64
	Block  block.Conversion
}

// Conversion resolves a ##CC link. offset == 0 returns ErrNullLink — callers
// treat a null conversion link as the identity conversion.
func (g *Graph) Conversion(offset uint64) (ConversionRef, error) {
	if offset == 0 {
		return ConversionRef{}, ErrNullLink
	}
	buf, h, err := readBlockAt(g.ra, offset)
	if err != nil {
		return ConversionRef{}, fmt.Errorf("read conversion at 0x%x: %w", offset, err)
	}
	if err := h.CheckMagic(block.MagicCC); err != nil {
		return ConversionRef{}, fmt.Errorf("conversion at 0x%x: %w", offset, err)
	}
	cc, err := block.ParseConversion(buf)
	if err != nil {
		return ConversionRef{}, fmt.Errorf("parse conversion at 0x%x: %w", offset, err)
	}
	return ConversionRef{Offset: offset, Block: cc}, nil
}
