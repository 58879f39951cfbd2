package record

import "fmt"

// OffsetEntries is a VLSDSource over a signal-data stream addressed by
// byte offset, matching internal/graph's Graph.SignalData: a VLSD
// channel's inline record value is the byte position of an entry's
// length prefix within the logical VLSD stream, not a sequential index.
type OffsetEntries map[uint64][]byte

// Entry returns the payload whose length prefix begins at offset.
func (e OffsetEntries) Entry(offset uint64) ([]byte, error) {
	v, ok := e[offset]
	if !ok {
		return nil, fmt.Errorf("record: no vlsd entry at stream offset %d", offset)
	}
	return v, nil
}
