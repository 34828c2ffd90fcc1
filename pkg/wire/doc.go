// Package wire implements the XML-RPC wire format: the value codec and
// the methodCall/methodResponse/fault document shapes.
//
// # Codec
//
// A Codec converts between value.Value trees and XML-RPC markup through
// the xmltok token contract. Each codec carries an explicit Capabilities
// record; there is no process-wide default state. The capabilities decide
// whether the <nil/> and <i8> extension elements are legal on the wire
// and bound the struct/array nesting depth accepted on decode.
//
// # Documents
//
// EncodeCall/DecodeCall handle methodCall documents, EncodeResponse,
// EncodeFault and DecodeResponse handle methodResponse documents. A
// response carries either a single value or a fault struct with exactly
// the faultCode and faultString members; anything else is a ParseError.
//
// # Errors
//
// ParseError reports malformed input, EncodeError reports a value the
// active capabilities forbid. Fault is not a local failure: it is
// protocol data, transmitted inside a well-formed response. Fault also
// implements error so remote faults flow through ordinary error returns.
package wire
