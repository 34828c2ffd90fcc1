package xmltok

import "io"

// Kind identifies a token type.
type Kind uint8

const (
	// KindEOF indicates the end of the document.
	KindEOF Kind = iota

	// KindStartElement is an opening tag.
	KindStartElement

	// KindEndElement is a closing tag.
	KindEndElement

	// KindText is character data between tags, with entities resolved.
	KindText
)

// String returns the token kind name.
func (k Kind) String() string {
	switch k {
	case KindEOF:
		return "EOF"
	case KindStartElement:
		return "START"
	case KindEndElement:
		return "END"
	case KindText:
		return "TEXT"
	default:
		return "UNKNOWN"
	}
}

// Attr is one attribute of a start-element token. The XML-RPC grammar
// itself uses no attributes, but backends surface them so the codec can
// reject documents that carry unexpected markup.
type Attr struct {
	Name  string
	Value string
}

// Token is one event of the streaming parse.
//
// Name is set for start/end elements, Text for character data. Element
// names are local names; namespace prefixes are not part of the XML-RPC
// grammar.
type Token struct {
	Kind  Kind
	Name  string
	Attrs []Attr
	Text  string
}

// Reader produces a flat token stream from an XML document.
// Comments, processing instructions and the XML declaration are not
// surfaced; after the document ends Next returns KindEOF tokens.
type Reader interface {
	Next() (Token, error)
}

// Writer emits an XML document token by token. Text is escaped by the
// writer; callers pass raw text.
type Writer interface {
	// Decl emits the XML declaration. Call at most once, before Start.
	Decl() error

	// Start emits an opening tag.
	Start(name string) error

	// Text emits escaped character data.
	Text(s string) error

	// End emits a closing tag.
	End(name string) error

	// Flush writes any buffered output to the underlying writer.
	Flush() error
}

// Backend creates readers and writers for one XML engine.
type Backend interface {
	NewReader(r io.Reader) Reader
	NewWriter(w io.Writer) Writer
}
