package block

import "errors"

// Structural parse-time failure modes, per spec §4.2/§6.
var (
	ErrUnexpectedMagic = errors.New("block: unexpected magic")
	ErrShortBuffer     = errors.New("block: short buffer")
	ErrBadLength       = errors.New("block: bad length")
	ErrBadVersion      = errors.New("block: bad version")
)
