package conversion

import "errors"

// MaxChainDepth bounds cc_ref recursion: a nested ##CC chain deeper than
// this is treated as corrupt rather than walked indefinitely.
const MaxChainDepth = 20

var (
	// ErrChainCycle is returned when a cc_ref chain revisits a block
	// offset already on the current resolution path.
	ErrChainCycle = errors.New("conversion: cc_ref chain cycle")

	// ErrChainTooDeep is returned when a cc_ref chain exceeds MaxChainDepth.
	ErrChainTooDeep = errors.New("conversion: cc_ref chain exceeds max depth")

	// ErrUnexpectedRefKind is returned when a cc_ref points at a block
	// that is neither text (##TX/##MD) nor a nested conversion (##CC).
	ErrUnexpectedRefKind = errors.New("conversion: cc_ref points at neither text nor conversion")
)
