package xmltok

import (
	"bufio"
	"encoding/xml"
	"io"
)

// StdBackend is the default backend, built on encoding/xml for reading
// and a minimal escaping emitter for writing.
type StdBackend struct{}

// Default returns the backend used when none is configured.
func Default() Backend { return StdBackend{} }

// NewReader creates a token reader over r.
func (StdBackend) NewReader(r io.Reader) Reader {
	dec := xml.NewDecoder(r)
	// XML-RPC documents declare no custom entities; only the predefined
	// XML entities are resolved.
	dec.Strict = true
	return &stdReader{dec: dec}
}

// NewWriter creates a token writer over w.
func (StdBackend) NewWriter(w io.Writer) Writer {
	return &stdWriter{bw: bufio.NewWriter(w)}
}

type stdReader struct {
	dec *xml.Decoder
	eof bool
}

func (r *stdReader) Next() (Token, error) {
	if r.eof {
		return Token{Kind: KindEOF}, nil
	}
	for {
		tok, err := r.dec.Token()
		if err == io.EOF {
			r.eof = true
			return Token{Kind: KindEOF}, nil
		}
		if err != nil {
			return Token{}, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			out := Token{Kind: KindStartElement, Name: t.Name.Local}
			for _, a := range t.Attr {
				out.Attrs = append(out.Attrs, Attr{Name: a.Name.Local, Value: a.Value})
			}
			return out, nil
		case xml.EndElement:
			return Token{Kind: KindEndElement, Name: t.Name.Local}, nil
		case xml.CharData:
			// The decoder reuses its buffer; copy before returning.
			return Token{Kind: KindText, Text: string(t)}, nil
		default:
			// Comments, processing instructions and directives are not
			// part of the token contract.
			continue
		}
	}
}

type stdWriter struct {
	bw *bufio.Writer
}

func (w *stdWriter) Decl() error {
	_, err := w.bw.WriteString(xml.Header)
	return err
}

func (w *stdWriter) Start(name string) error {
	if err := w.bw.WriteByte('<'); err != nil {
		return err
	}
	if _, err := w.bw.WriteString(name); err != nil {
		return err
	}
	return w.bw.WriteByte('>')
}

func (w *stdWriter) Text(s string) error {
	return xml.EscapeText(w.bw, []byte(s))
}

func (w *stdWriter) End(name string) error {
	if _, err := w.bw.WriteString("</"); err != nil {
		return err
	}
	if _, err := w.bw.WriteString(name); err != nil {
		return err
	}
	return w.bw.WriteByte('>')
}

func (w *stdWriter) Flush() error {
	return w.bw.Flush()
}

// Compile-time interface satisfaction checks.
var (
	_ Backend = StdBackend{}
	_ Reader  = (*stdReader)(nil)
	_ Writer  = (*stdWriter)(nil)
)
