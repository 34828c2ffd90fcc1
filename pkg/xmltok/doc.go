// Package xmltok defines the streaming XML token contract the XML-RPC
// codec is built on, plus the default backend.
//
// The codec never touches an XML library directly; it consumes a Reader
// (a flat stream of start-element, end-element, text and EOF tokens) and
// produces output through a Writer. Any backend satisfying the Backend
// interface is interchangeable and is selected once at construction time.
//
// The default backend uses encoding/xml for tokenization and a minimal
// escaping emitter for output. Both sides are multibyte-safe: text
// round-trips byte-accurately through XML escaping.
package xmltok
