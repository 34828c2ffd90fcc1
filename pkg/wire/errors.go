package wire

import "fmt"

// ParseError reports a malformed XML-RPC document or value: an element
// outside the fixed grammar, a duplicate struct member, an out-of-range
// scalar, or nesting beyond the configured depth. It is always
// recoverable at the document boundary; a server converts it into a
// fault response, a client surfaces it distinctly from a remote Fault.
type ParseError struct {
	Msg string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return "xmlrpc parse error: " + e.Msg
}

// parseErrorf creates a ParseError from a format string.
func parseErrorf(format string, args ...any) *ParseError {
	return &ParseError{Msg: fmt.Sprintf(format, args...)}
}

// EncodeError reports an attempt to encode a value the active
// capabilities forbid, or a structurally invalid tree. It is always
// local and never sent on the wire.
type EncodeError struct {
	Msg string
}

// Error implements the error interface.
func (e *EncodeError) Error() string {
	return "xmlrpc encode error: " + e.Msg
}

// encodeErrorf creates an EncodeError from a format string.
func encodeErrorf(format string, args ...any) *EncodeError {
	return &EncodeError{Msg: fmt.Sprintf(format, args...)}
}
