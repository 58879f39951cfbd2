package record

import (
	"fmt"

	"github.com/scigolib/mdf4/internal/graph"
)

// Stream iterates fixed-length records across a data group's fragmented
// byte stream, stitching a record that straddles a fragment boundary
// across two (or more) ##DT/##DV payloads.
type Stream struct {
	fragments []graph.Fragment
	idLen     int
	dataLen   int
	invLen    int
	recLen    int

	fragIdx int
	fragOff int
	scratch []byte
}

// NewStream builds a record iterator over fragments. recordIDLen,
// samplesByteNr, and invalidationBytesNr come from the owning ##DG/##CG's
// record layout; recordIDLen bytes are skipped at the front of every
// record rather than returned.
func NewStream(fragments []graph.Fragment, recordIDLen uint8, samplesByteNr, invalidationBytesNr uint32) *Stream {
	return &Stream{
		fragments: fragments,
		idLen:     int(recordIDLen),
		dataLen:   int(samplesByteNr),
		invLen:    int(invalidationBytesNr),
		recLen:    int(recordIDLen) + int(samplesByteNr) + int(invalidationBytesNr),
	}
}

// Next returns the next record's data and invalidation byte runs, with
// the record id (if any) already skipped. ok is false once the stream is
// exhausted. The returned slices are valid only until the next call to
// Next.
func (s *Stream) Next() (data, invalidation []byte, ok bool, err error) {
	if s.recLen == s.idLen {
		return nil, nil, false, fmt.Errorf("record: zero-length record (samples + invalidation bytes both 0)")
	}
	buf, ok := s.take(s.recLen)
	if !ok {
		return nil, nil, false, nil
	}
	buf = buf[s.idLen:]
	return buf[:s.dataLen], buf[s.dataLen:], true, nil
}

// take returns exactly n contiguous bytes from the fragment stream. If a
// single fragment doesn't hold the whole run, it copies the pieces into
// a reused scratch buffer.
func (s *Stream) take(n int) ([]byte, bool) {
	s.skipExhausted()
	if s.fragIdx >= len(s.fragments) {
		return nil, false
	}

	cur := s.fragments[s.fragIdx].Payload
	if len(cur)-s.fragOff >= n {
		out := cur[s.fragOff : s.fragOff+n]
		s.fragOff += n
		return out, true
	}

	if cap(s.scratch) < n {
		s.scratch = make([]byte, n)
	}
	out := s.scratch[:n]
	copied := 0
	for copied < n {
		s.skipExhausted()
		if s.fragIdx >= len(s.fragments) {
			return nil, false
		}
		cur := s.fragments[s.fragIdx].Payload
		avail := len(cur) - s.fragOff
		need := n - copied
		take := avail
		if take > need {
			take = need
		}
		copy(out[copied:copied+take], cur[s.fragOff:s.fragOff+take])
		s.fragOff += take
		copied += take
	}
	return out, true
}

func (s *Stream) skipExhausted() {
	for s.fragIdx < len(s.fragments) && s.fragOff >= len(s.fragments[s.fragIdx].Payload) {
		s.fragIdx++
		s.fragOff = 0
	}
}
