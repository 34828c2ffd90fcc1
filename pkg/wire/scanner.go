package wire

import (
	"strings"
	"unicode/utf8"

	"github.com/xmlrpc-protocol/xmlrpc-go/pkg/xmltok"
)

// scanner wraps an xmltok.Reader with one-token lookahead and the
// expect helpers the grammar needs. Backend tokenizer errors surface as
// ParseError so callers see a single error taxonomy.
type scanner struct {
	r      xmltok.Reader
	peeked *xmltok.Token
}

func newScanner(r xmltok.Reader) *scanner {
	return &scanner{r: r}
}

// next returns the next token.
func (s *scanner) next() (xmltok.Token, error) {
	if s.peeked != nil {
		tok := *s.peeked
		s.peeked = nil
		return tok, nil
	}
	tok, err := s.r.Next()
	if err != nil {
		return xmltok.Token{}, parseErrorf("malformed XML: %v", err)
	}
	return tok, nil
}

// nextNonSpace returns the next token that is not whitespace-only text.
func (s *scanner) nextNonSpace() (xmltok.Token, error) {
	for {
		tok, err := s.next()
		if err != nil {
			return xmltok.Token{}, err
		}
		if tok.Kind == xmltok.KindText && strings.TrimSpace(tok.Text) == "" {
			continue
		}
		return tok, nil
	}
}

// peekNonSpace returns the next non-whitespace token without consuming it.
func (s *scanner) peekNonSpace() (xmltok.Token, error) {
	tok, err := s.nextNonSpace()
	if err != nil {
		return xmltok.Token{}, err
	}
	s.peeked = &tok
	return tok, nil
}

// expectStart consumes the opening tag of the named element, skipping
// leading whitespace.
func (s *scanner) expectStart(name string) error {
	tok, err := s.nextNonSpace()
	if err != nil {
		return err
	}
	if tok.Kind != xmltok.KindStartElement || tok.Name != name {
		return parseErrorf("expected <%s>, got %s", name, describe(tok))
	}
	return nil
}

// expectEnd consumes the closing tag of the named element, skipping
// leading whitespace.
func (s *scanner) expectEnd(name string) error {
	tok, err := s.nextNonSpace()
	if err != nil {
		return err
	}
	if tok.Kind != xmltok.KindEndElement || tok.Name != name {
		return parseErrorf("expected </%s>, got %s", name, describe(tok))
	}
	return nil
}

// textUntilEnd accumulates character data until the closing tag of the
// named element. Nested elements are a grammar violation.
func (s *scanner) textUntilEnd(name string) (string, error) {
	var b strings.Builder
	for {
		tok, err := s.next()
		if err != nil {
			return "", err
		}
		switch tok.Kind {
		case xmltok.KindText:
			b.WriteString(tok.Text)
		case xmltok.KindEndElement:
			if tok.Name != name {
				return "", parseErrorf("expected </%s>, got </%s>", name, tok.Name)
			}
			return b.String(), nil
		case xmltok.KindStartElement:
			return "", parseErrorf("unexpected <%s> inside <%s>", tok.Name, name)
		default:
			return "", parseErrorf("unexpected end of document inside <%s>", name)
		}
	}
}

// expectEOF verifies only whitespace remains after the document root.
func (s *scanner) expectEOF() error {
	tok, err := s.nextNonSpace()
	if err != nil {
		return err
	}
	if tok.Kind != xmltok.KindEOF {
		return parseErrorf("unexpected %s after document end", describe(tok))
	}
	return nil
}

// describe renders a token for error messages.
func describe(tok xmltok.Token) string {
	switch tok.Kind {
	case xmltok.KindStartElement:
		return "<" + tok.Name + ">"
	case xmltok.KindEndElement:
		return "</" + tok.Name + ">"
	case xmltok.KindText:
		return "text " + strconvQuoteShort(tok.Text)
	default:
		return "end of document"
	}
}

func strconvQuoteShort(s string) string {
	const max = 24
	trimmed := strings.TrimSpace(s)
	if len(trimmed) > max {
		// Back up to a rune boundary so the cut never splits a
		// multibyte character.
		cut := max
		for cut > 0 && !utf8.RuneStart(trimmed[cut]) {
			cut--
		}
		trimmed = trimmed[:cut] + "..."
	}
	return "\"" + trimmed + "\""
}
