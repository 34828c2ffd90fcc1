package wire

// DefaultMaxNestingDepth bounds struct/array recursion when the
// capabilities record leaves MaxNestingDepth unset.
const DefaultMaxNestingDepth = 64

// Capabilities is the negotiated set of optional wire extensions and
// resource limits for one codec. It is passed explicitly at construction
// time; there is no mutable global configuration.
type Capabilities struct {
	// AllowNil permits the <nil/> extension element. When false,
	// encoding a Nil value fails and a <nil/> element on the wire is a
	// ParseError.
	AllowNil bool

	// AllowBigInt permits the <i8> arbitrary-precision extension
	// element, with the same encode/decode symmetry as AllowNil.
	AllowBigInt bool

	// MaxNestingDepth is the maximum struct/array nesting accepted.
	// Zero selects DefaultMaxNestingDepth.
	MaxNestingDepth int
}

// DefaultCapabilities returns the baseline configuration: no extensions,
// default nesting depth. This matches what an unextended XML-RPC peer
// understands.
func DefaultCapabilities() Capabilities {
	return Capabilities{MaxNestingDepth: DefaultMaxNestingDepth}
}

// withDefaults fills unset limits.
func (c Capabilities) withDefaults() Capabilities {
	if c.MaxNestingDepth <= 0 {
		c.MaxNestingDepth = DefaultMaxNestingDepth
	}
	return c
}
