package block

import (
	"encoding/binary"
	"fmt"

	"github.com/scigolib/mdf4/internal/codec"
)

// SignalData (##SD) holds the variable-length payloads of a VLSD channel:
// a concatenation of [uint32 length][bytes...] entries, no links.
type SignalData struct {
	Entries [][]byte
}

// Size returns the exact on-disk size of s once serialized.
func (s SignalData) Size() uint64 {
	raw := HeaderSize
	for _, e := range s.Entries {
		raw += 4 + len(e)
	}
	return uint64(raw + PadLen(raw))
}

// ParseSignalData parses a ##SD block, splitting its payload into
// length-prefixed entries.
func ParseSignalData(buf []byte) (SignalData, error) {
	var s SignalData

	h, err := ParseHeader(buf)
	if err != nil {
		return s, err
	}
	if err := h.CheckMagic(MagicSD); err != nil {
		return s, err
	}
	if err := h.Validate(len(buf)); err != nil {
		return s, err
	}
	if h.LinkCount != 0 {
		return s, fmt.Errorf("%w: signal data must have 0 links, got %d", ErrBadLength, h.LinkCount)
	}

	payload := buf[HeaderSize:h.Length]
	for len(payload) > 0 {
		if len(payload) < 4 {
			return s, fmt.Errorf("%w: signal data entry length truncated", ErrShortBuffer)
		}
		n, err := codec.Uint32(payload[0:4], binary.LittleEndian)
		if err != nil {
			return s, err
		}
		payload = payload[4:]
		if uint64(len(payload)) < uint64(n) {
			return s, fmt.Errorf("%w: signal data entry body truncated", ErrShortBuffer)
		}
		entry := make([]byte, n)
		copy(entry, payload[:n])
		s.Entries = append(s.Entries, entry)
		payload = payload[n:]
	}

	return s, nil
}

// ParseSignalDataAt parses a ##SD block's entries keyed by each entry's
// byte offset within the logical VLSD stream the block belongs to: the
// position of the entry's [u32 length] prefix, counting from base. This
// is the same offset a VLSD channel's inline record value holds, so the
// result can be looked up directly by that value. next is base plus this
// block's raw (unpadded) payload length, the base a following ##SD block
// in a ##DL chain continues from.
func ParseSignalDataAt(buf []byte, base uint64) (entries map[uint64][]byte, next uint64, err error) {
	h, err := ParseHeader(buf)
	if err != nil {
		return nil, 0, err
	}
	if err := h.CheckMagic(MagicSD); err != nil {
		return nil, 0, err
	}
	if err := h.Validate(len(buf)); err != nil {
		return nil, 0, err
	}
	if h.LinkCount != 0 {
		return nil, 0, fmt.Errorf("%w: signal data must have 0 links, got %d", ErrBadLength, h.LinkCount)
	}

	payload := buf[HeaderSize:h.Length]
	entries = make(map[uint64][]byte)
	pos := uint64(0)
	for len(payload) > 0 {
		if len(payload) < 4 {
			return nil, 0, fmt.Errorf("%w: signal data entry length truncated", ErrShortBuffer)
		}
		n, err := codec.Uint32(payload[0:4], binary.LittleEndian)
		if err != nil {
			return nil, 0, err
		}
		payload = payload[4:]
		if uint64(len(payload)) < uint64(n) {
			return nil, 0, fmt.Errorf("%w: signal data entry body truncated", ErrShortBuffer)
		}
		entry := make([]byte, n)
		copy(entry, payload[:n])
		entries[base+pos] = entry
		payload = payload[n:]
		pos += 4 + uint64(n)
	}
	return entries, base + pos, nil
}

// EntryOffsets returns each of entries' byte offset within the logical
// VLSD stream a ##SD block serializing them in order would produce —
// the values a writer must embed in the referencing channel's records.
func EntryOffsets(entries [][]byte) []uint64 {
	offsets := make([]uint64, len(entries))
	pos := uint64(0)
	for i, e := range entries {
		offsets[i] = pos
		pos += 4 + uint64(len(e))
	}
	return offsets
}

// Serialize emits a ##SD block into buf, which must be at least s.Size()
// bytes.
func (s SignalData) Serialize(buf []byte) error {
	size := s.Size()
	if uint64(len(buf)) < size {
		return fmt.Errorf("%w: signal data needs %d bytes, got %d", ErrShortBuffer, size, len(buf))
	}

	raw := HeaderSize
	for _, e := range s.Entries {
		raw += 4 + len(e)
	}

	h := Header{Magic: MagicSD, Length: uint64(raw), LinkCount: 0}
	if err := SerializeHeader(buf, h); err != nil {
		return err
	}

	pos := HeaderSize
	for _, e := range s.Entries {
		if err := codec.PutUint32(buf[pos:pos+4], uint32(len(e)), binary.LittleEndian); err != nil {
			return err
		}
		pos += 4
		copy(buf[pos:], e)
		pos += len(e)
	}

	for i := pos; i < int(size); i++ {
		buf[i] = 0
	}

	return nil
}
