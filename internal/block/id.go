package block

import (
	"encoding/binary"
	"fmt"

	"github.com/scigolib/mdf4/internal/codec"
)

// IdentificationSize is the fixed total size of an identification block.
const IdentificationSize = 64

// MinVersion is the lowest version number (major*100+minor) this library
// accepts on read.
const MinVersion = 410

// Identification is the file's leading block: format signature, producing
// program, and version number. The reader rejects Version < MinVersion.
type Identification struct {
	FormatID [8]byte // e.g. "MDF     "
	VersionString [8]byte // e.g. "4.10    "
	Program  [8]byte
	Version  uint16 // major*100 + minor, e.g. 410 for "4.10"
}

// ParseIdentification parses a fixed 64-byte identification block.
func ParseIdentification(buf []byte) (Identification, error) {
	var id Identification

	if len(buf) < IdentificationSize {
		return id, fmt.Errorf("%w: identification needs %d bytes, got %d", ErrShortBuffer, IdentificationSize, len(buf))
	}

	h, err := ParseHeader(buf)
	if err != nil {
		return id, err
	}
	if err := h.CheckMagic(MagicID); err != nil {
		return id, err
	}
	if h.Length != IdentificationSize {
		return id, fmt.Errorf("%w: identification length must be %d, got %d", ErrBadLength, IdentificationSize, h.Length)
	}

	copy(id.FormatID[:], buf[24:32])
	copy(id.VersionString[:], buf[32:40])
	copy(id.Program[:], buf[40:48])

	version, err := codec.Uint16(buf[48:50], binary.LittleEndian)
	if err != nil {
		return id, err
	}
	id.Version = version

	if id.Version < MinVersion {
		return id, fmt.Errorf("%w: version %d below minimum %d", ErrBadVersion, id.Version, MinVersion)
	}

	return id, nil
}

// Serialize emits the 64-byte identification block into buf.
func (id Identification) Serialize(buf []byte) error {
	if len(buf) < IdentificationSize {
		return fmt.Errorf("%w: identification needs %d bytes, got %d", ErrShortBuffer, IdentificationSize, len(buf))
	}

	h := Header{Magic: MagicID, Length: IdentificationSize, LinkCount: 0}
	if err := SerializeHeader(buf, h); err != nil {
		return err
	}

	copy(buf[24:32], id.FormatID[:])
	copy(buf[32:40], id.VersionString[:])
	copy(buf[40:48], id.Program[:])

	if err := codec.PutUint16(buf[48:50], id.Version, binary.LittleEndian); err != nil {
		return err
	}

	for i := 50; i < IdentificationSize; i++ {
		buf[i] = 0
	}

	return nil
}
