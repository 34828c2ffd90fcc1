package wire

import "fmt"

// Reserved fault codes produced by the implementation itself. Handlers
// are free to use any other code; these values are fixed and documented
// so callers can branch on them.
const (
	// FaultMethodMissing is returned when no handler matches the
	// requested method name.
	FaultMethodMissing int32 = 1

	// FaultHandlerError is returned when a handler fails without
	// choosing its own fault: an uncaught panic, a plain error return,
	// an unencodable result, or a signature mismatch.
	FaultHandlerError int32 = 2

	// FaultMulticallWrongParam is returned when system.multicall is not
	// called with a single array parameter.
	FaultMulticallWrongParam int32 = 3

	// FaultMulticallMissingMethodName is the per-item fault for a
	// multicall entry without a methodName member.
	FaultMulticallMissingMethodName int32 = 4

	// FaultMulticallNotStruct is the per-item fault for a multicall
	// entry that is not a struct.
	FaultMulticallNotStruct int32 = 5

	// FaultMulticallBadParams is the per-item fault for a multicall
	// entry whose params member is missing or not an array.
	FaultMulticallBadParams int32 = 6

	// FaultMulticallRecursive is the per-item fault for a multicall
	// entry that tries to invoke system.multicall itself.
	FaultMulticallRecursive int32 = 7

	// FaultInvalidRequest is returned when the request document itself
	// cannot be parsed.
	FaultInvalidRequest int32 = 8
)

// Fault is a structured error result carried on the wire as ordinary
// protocol data. It is created explicitly by handlers, or synthesized by
// the dispatch table and protocol engine with one of the reserved codes.
type Fault struct {
	Code   int32
	String string
}

// Faultf creates a Fault from a format string.
func Faultf(code int32, format string, args ...any) *Fault {
	return &Fault{Code: code, String: fmt.Sprintf(format, args...)}
}

// Error implements the error interface so a Fault can travel through
// ordinary error returns. Use errors.As to recover the code and message.
func (f *Fault) Error() string {
	return fmt.Sprintf("xmlrpc fault %d: %s", f.Code, f.String)
}
