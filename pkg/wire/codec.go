package wire

import (
	"encoding/base64"
	"math"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/xmlrpc-protocol/xmlrpc-go/pkg/value"
	"github.com/xmlrpc-protocol/xmlrpc-go/pkg/xmltok"
)

// DateTime wire formats. XML-RPC uses the basic ISO-8601 form; the
// extended form with dashes is accepted on decode for interoperability.
const (
	dateTimeLayout         = "20060102T15:04:05"
	dateTimeExtendedLayout = "2006-01-02T15:04:05"
)

// Codec converts between value trees and XML-RPC markup. A codec is
// immutable after construction and safe for concurrent use.
type Codec struct {
	caps    Capabilities
	backend xmltok.Backend
}

// NewCodec creates a codec with the given capabilities. A nil backend
// selects xmltok.Default().
func NewCodec(caps Capabilities, backend xmltok.Backend) *Codec {
	if backend == nil {
		backend = xmltok.Default()
	}
	return &Codec{caps: caps.withDefaults(), backend: backend}
}

// Capabilities returns the capability record the codec was built with.
func (c *Codec) Capabilities() Capabilities { return c.caps }

// writeValue emits one <value> element. depth counts the containers the
// value is nested in, starting at 1 for a top-level value.
func (c *Codec) writeValue(w xmltok.Writer, v value.Value, depth int) error {
	if depth > c.caps.MaxNestingDepth {
		return encodeErrorf("nesting depth %d exceeds maximum %d", depth, c.caps.MaxNestingDepth)
	}
	if v == nil {
		return encodeErrorf("cannot encode untyped nil; use value.Nil")
	}
	if err := w.Start("value"); err != nil {
		return err
	}

	switch val := v.(type) {
	case value.Nil:
		if !c.caps.AllowNil {
			return encodeErrorf("nil values require the nil extension (AllowNil)")
		}
		if err := emitScalar(w, "nil", ""); err != nil {
			return err
		}
	case value.Bool:
		text := "0"
		if val {
			text = "1"
		}
		if err := emitScalar(w, "boolean", text); err != nil {
			return err
		}
	case value.Int:
		if err := emitScalar(w, "int", strconv.FormatInt(int64(val), 10)); err != nil {
			return err
		}
	case value.BigInt:
		if !c.caps.AllowBigInt {
			return encodeErrorf("bigint values require the i8 extension (AllowBigInt)")
		}
		if err := emitScalar(w, "i8", val.Num().String()); err != nil {
			return err
		}
	case value.Double:
		f := float64(val)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return encodeErrorf("double %v is not representable in XML-RPC", f)
		}
		if err := emitScalar(w, "double", strconv.FormatFloat(f, 'f', -1, 64)); err != nil {
			return err
		}
	case value.String:
		if err := emitScalar(w, "string", string(val)); err != nil {
			return err
		}
	case value.DateTime:
		if err := emitScalar(w, "dateTime.iso8601", val.Time().Format(dateTimeLayout)); err != nil {
			return err
		}
	case value.Base64:
		if err := emitScalar(w, "base64", base64.StdEncoding.EncodeToString(val)); err != nil {
			return err
		}
	case value.Array:
		if err := w.Start("array"); err != nil {
			return err
		}
		if err := w.Start("data"); err != nil {
			return err
		}
		for _, elem := range val {
			if err := c.writeValue(w, elem, depth+1); err != nil {
				return err
			}
		}
		if err := w.End("data"); err != nil {
			return err
		}
		if err := w.End("array"); err != nil {
			return err
		}
	case *value.Struct:
		if val == nil {
			return encodeErrorf("cannot encode nil struct pointer")
		}
		if err := w.Start("struct"); err != nil {
			return err
		}
		for _, m := range val.Members() {
			if err := w.Start("member"); err != nil {
				return err
			}
			if err := emitScalar(w, "name", m.Name); err != nil {
				return err
			}
			if err := c.writeValue(w, m.Value, depth+1); err != nil {
				return err
			}
			if err := w.End("member"); err != nil {
				return err
			}
		}
		if err := w.End("struct"); err != nil {
			return err
		}
	default:
		return encodeErrorf("unsupported value type %T", v)
	}

	return w.End("value")
}

// emitScalar writes <name>text</name>.
func emitScalar(w xmltok.Writer, name, text string) error {
	if err := w.Start(name); err != nil {
		return err
	}
	if text != "" {
		if err := w.Text(text); err != nil {
			return err
		}
	}
	return w.End(name)
}

// readValue consumes one <value> element. A value with only character
// data and no type element decodes as a string.
func (c *Codec) readValue(s *scanner, depth int) (value.Value, error) {
	if err := s.expectStart("value"); err != nil {
		return nil, err
	}

	var text strings.Builder
	for {
		tok, err := s.next()
		if err != nil {
			return nil, err
		}
		switch tok.Kind {
		case xmltok.KindText:
			text.WriteString(tok.Text)
		case xmltok.KindEndElement:
			// Untyped value: bare character data is a string.
			return value.String(text.String()), nil
		case xmltok.KindStartElement:
			if strings.TrimSpace(text.String()) != "" {
				return nil, parseErrorf("unexpected text %q before <%s> element", strings.TrimSpace(text.String()), tok.Name)
			}
			v, err := c.readTyped(s, tok.Name, depth)
			if err != nil {
				return nil, err
			}
			if err := s.expectEnd("value"); err != nil {
				return nil, err
			}
			return v, nil
		default:
			return nil, parseErrorf("unexpected end of document inside <value>")
		}
	}
}

// readTyped decodes the typed element inside a <value>. The start tag
// named name has already been consumed.
func (c *Codec) readTyped(s *scanner, name string, depth int) (value.Value, error) {
	switch name {
	case "int", "i4":
		text, err := s.textUntilEnd(name)
		if err != nil {
			return nil, err
		}
		n, err := strconv.ParseInt(strings.TrimSpace(text), 10, 32)
		if err != nil {
			return nil, parseErrorf("invalid <%s> value %q", name, strings.TrimSpace(text))
		}
		return value.Int(n), nil

	case "i8":
		if !c.caps.AllowBigInt {
			return nil, parseErrorf("<i8> requires the bigint extension (AllowBigInt)")
		}
		text, err := s.textUntilEnd(name)
		if err != nil {
			return nil, err
		}
		n, ok := new(big.Int).SetString(strings.TrimSpace(text), 10)
		if !ok {
			return nil, parseErrorf("invalid <i8> value %q", strings.TrimSpace(text))
		}
		return value.NewBigInt(n), nil

	case "boolean":
		text, err := s.textUntilEnd(name)
		if err != nil {
			return nil, err
		}
		switch strings.TrimSpace(text) {
		case "0":
			return value.Bool(false), nil
		case "1":
			return value.Bool(true), nil
		default:
			return nil, parseErrorf("invalid <boolean> value %q, want 0 or 1", strings.TrimSpace(text))
		}

	case "double":
		text, err := s.textUntilEnd(name)
		if err != nil {
			return nil, err
		}
		trimmed := strings.TrimSpace(text)
		// ParseFloat alone is too permissive: it takes hex floats,
		// exponents, and inf, none of which the double grammar allows.
		if !isDecimalDouble(trimmed) {
			return nil, parseErrorf("invalid <double> value %q", trimmed)
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, parseErrorf("invalid <double> value %q", trimmed)
		}
		return value.Double(f), nil

	case "string":
		text, err := s.textUntilEnd(name)
		if err != nil {
			return nil, err
		}
		return value.String(text), nil

	case "dateTime.iso8601":
		text, err := s.textUntilEnd(name)
		if err != nil {
			return nil, err
		}
		trimmed := strings.TrimSpace(text)
		t, err := time.Parse(dateTimeLayout, trimmed)
		if err != nil {
			t, err = time.Parse(dateTimeExtendedLayout, trimmed)
		}
		if err != nil {
			return nil, parseErrorf("invalid <dateTime.iso8601> value %q", trimmed)
		}
		return value.DateTime(t), nil

	case "base64":
		text, err := s.textUntilEnd(name)
		if err != nil {
			return nil, err
		}
		data, err := base64.StdEncoding.DecodeString(stripSpace(text))
		if err != nil {
			return nil, parseErrorf("invalid <base64> content: %v", err)
		}
		return value.Base64(data), nil

	case "nil":
		if !c.caps.AllowNil {
			return nil, parseErrorf("<nil> requires the nil extension (AllowNil)")
		}
		text, err := s.textUntilEnd(name)
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(text) != "" {
			return nil, parseErrorf("<nil> must be empty")
		}
		return value.Nil{}, nil

	case "array":
		return c.readArray(s, depth)

	case "struct":
		return c.readStruct(s, depth)

	default:
		return nil, parseErrorf("unknown value element <%s>", name)
	}
}

// readArray decodes <array><data>value*</data></array>. The <array>
// start tag has already been consumed.
func (c *Codec) readArray(s *scanner, depth int) (value.Value, error) {
	if depth+1 > c.caps.MaxNestingDepth {
		return nil, parseErrorf("nesting depth exceeds maximum %d", c.caps.MaxNestingDepth)
	}
	if err := s.expectStart("data"); err != nil {
		return nil, err
	}

	arr := value.Array{}
	for {
		tok, err := s.peekNonSpace()
		if err != nil {
			return nil, err
		}
		if tok.Kind == xmltok.KindEndElement {
			break
		}
		elem, err := c.readValue(s, depth+1)
		if err != nil {
			return nil, err
		}
		arr = append(arr, elem)
	}

	if err := s.expectEnd("data"); err != nil {
		return nil, err
	}
	if err := s.expectEnd("array"); err != nil {
		return nil, err
	}
	return arr, nil
}

// readStruct decodes <struct>member*</struct>. The <struct> start tag
// has already been consumed. Duplicate member names are rejected.
func (c *Codec) readStruct(s *scanner, depth int) (value.Value, error) {
	if depth+1 > c.caps.MaxNestingDepth {
		return nil, parseErrorf("nesting depth exceeds maximum %d", c.caps.MaxNestingDepth)
	}

	st := value.NewStruct()
	for {
		tok, err := s.peekNonSpace()
		if err != nil {
			return nil, err
		}
		if tok.Kind == xmltok.KindEndElement {
			break
		}
		if err := s.expectStart("member"); err != nil {
			return nil, err
		}
		if err := s.expectStart("name"); err != nil {
			return nil, err
		}
		name, err := s.textUntilEnd("name")
		if err != nil {
			return nil, err
		}
		if st.Has(name) {
			return nil, parseErrorf("duplicate struct member %q", name)
		}
		v, err := c.readValue(s, depth+1)
		if err != nil {
			return nil, err
		}
		st.Set(name, v)
		if err := s.expectEnd("member"); err != nil {
			return nil, err
		}
	}

	if err := s.expectEnd("struct"); err != nil {
		return nil, err
	}
	return st, nil
}

// isDecimalDouble reports whether s matches the double grammar: an
// optional sign, decimal digits, and an optional fractional part. No
// exponent, no hex, no inf/nan spellings.
func isDecimalDouble(s string) bool {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
			digits++
		}
	}
	return i == len(s) && digits > 0
}

// stripSpace removes all whitespace; base64 content may be wrapped.
func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r':
			return -1
		}
		return r
	}, s)
}
