package wire

import (
	"bytes"

	"github.com/xmlrpc-protocol/xmlrpc-go/pkg/value"
	"github.com/xmlrpc-protocol/xmlrpc-go/pkg/xmltok"
)

// MethodCall is one request: a method name plus an ordered parameter
// sequence. The name may contain "." as a namespace separator; that is
// opaque to the codec and meaningful only to the dispatch table.
type MethodCall struct {
	MethodName string
	Params     []value.Value
}

// MethodResponse is either a success value or a fault, never both.
type MethodResponse struct {
	Value value.Value
	Fault *Fault
}

// IsFault reports whether the response carries a fault.
func (r *MethodResponse) IsFault() bool { return r.Fault != nil }

// EncodeCall encodes a methodCall document.
func (c *Codec) EncodeCall(call *MethodCall) ([]byte, error) {
	if call.MethodName == "" {
		return nil, encodeErrorf("method name must not be empty")
	}

	var buf bytes.Buffer
	w := c.backend.NewWriter(&buf)
	if err := c.encodeCallTo(w, call); err != nil {
		return nil, err
	}
	if err := w.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (c *Codec) encodeCallTo(w xmltok.Writer, call *MethodCall) error {
	if err := w.Decl(); err != nil {
		return err
	}
	if err := w.Start("methodCall"); err != nil {
		return err
	}
	if err := emitScalar(w, "methodName", call.MethodName); err != nil {
		return err
	}
	if err := w.Start("params"); err != nil {
		return err
	}
	for _, p := range call.Params {
		if err := w.Start("param"); err != nil {
			return err
		}
		if err := c.writeValue(w, p, 1); err != nil {
			return err
		}
		if err := w.End("param"); err != nil {
			return err
		}
	}
	if err := w.End("params"); err != nil {
		return err
	}
	return w.End("methodCall")
}

// DecodeCall decodes a methodCall document.
func (c *Codec) DecodeCall(data []byte) (*MethodCall, error) {
	s := newScanner(c.backend.NewReader(bytes.NewReader(data)))

	if err := s.expectStart("methodCall"); err != nil {
		return nil, err
	}
	if err := s.expectStart("methodName"); err != nil {
		return nil, err
	}
	name, err := s.textUntilEnd("methodName")
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, parseErrorf("empty methodName")
	}

	call := &MethodCall{MethodName: name}

	// The params element is optional for zero-argument calls.
	tok, err := s.peekNonSpace()
	if err != nil {
		return nil, err
	}
	if tok.Kind == xmltok.KindStartElement && tok.Name == "params" {
		if err := s.expectStart("params"); err != nil {
			return nil, err
		}
		for {
			tok, err := s.peekNonSpace()
			if err != nil {
				return nil, err
			}
			if tok.Kind != xmltok.KindStartElement {
				break
			}
			if err := s.expectStart("param"); err != nil {
				return nil, err
			}
			v, err := c.readValue(s, 1)
			if err != nil {
				return nil, err
			}
			if err := s.expectEnd("param"); err != nil {
				return nil, err
			}
			call.Params = append(call.Params, v)
		}
		if err := s.expectEnd("params"); err != nil {
			return nil, err
		}
	}

	if err := s.expectEnd("methodCall"); err != nil {
		return nil, err
	}
	if err := s.expectEOF(); err != nil {
		return nil, err
	}
	return call, nil
}

// EncodeResponse encodes a methodResponse document: a fault document if
// resp.Fault is set, otherwise a single-value success document.
func (c *Codec) EncodeResponse(resp *MethodResponse) ([]byte, error) {
	if resp.Fault != nil {
		return c.EncodeFault(resp.Fault)
	}

	var buf bytes.Buffer
	w := c.backend.NewWriter(&buf)
	if err := w.Decl(); err != nil {
		return nil, err
	}
	if err := w.Start("methodResponse"); err != nil {
		return nil, err
	}
	if err := w.Start("params"); err != nil {
		return nil, err
	}
	if err := w.Start("param"); err != nil {
		return nil, err
	}
	if err := c.writeValue(w, resp.Value, 1); err != nil {
		return nil, err
	}
	if err := w.End("param"); err != nil {
		return nil, err
	}
	if err := w.End("params"); err != nil {
		return nil, err
	}
	if err := w.End("methodResponse"); err != nil {
		return nil, err
	}
	if err := w.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeFault encodes a fault methodResponse document. Fault documents
// use only int and string values, so encoding cannot fail for
// capability reasons.
func (c *Codec) EncodeFault(f *Fault) ([]byte, error) {
	var buf bytes.Buffer
	w := c.backend.NewWriter(&buf)
	if err := w.Decl(); err != nil {
		return nil, err
	}
	if err := w.Start("methodResponse"); err != nil {
		return nil, err
	}
	if err := w.Start("fault"); err != nil {
		return nil, err
	}
	fs := value.NewStruct().
		Set("faultCode", value.Int(f.Code)).
		Set("faultString", value.String(f.String))
	if err := c.writeValue(w, fs, 1); err != nil {
		return nil, err
	}
	if err := w.End("fault"); err != nil {
		return nil, err
	}
	if err := w.End("methodResponse"); err != nil {
		return nil, err
	}
	if err := w.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeResponse decodes a methodResponse document into either a
// success value or a fault.
func (c *Codec) DecodeResponse(data []byte) (*MethodResponse, error) {
	s := newScanner(c.backend.NewReader(bytes.NewReader(data)))

	if err := s.expectStart("methodResponse"); err != nil {
		return nil, err
	}
	tok, err := s.nextNonSpace()
	if err != nil {
		return nil, err
	}
	if tok.Kind != xmltok.KindStartElement {
		return nil, parseErrorf("expected <params> or <fault>, got %s", describe(tok))
	}

	resp := &MethodResponse{}
	switch tok.Name {
	case "params":
		if err := s.expectStart("param"); err != nil {
			return nil, err
		}
		v, err := c.readValue(s, 1)
		if err != nil {
			return nil, err
		}
		if err := s.expectEnd("param"); err != nil {
			return nil, err
		}
		next, err := s.nextNonSpace()
		if err != nil {
			return nil, err
		}
		if next.Kind != xmltok.KindEndElement || next.Name != "params" {
			return nil, parseErrorf("methodResponse must carry exactly one param, got %s", describe(next))
		}
		resp.Value = v

	case "fault":
		fv, err := c.readValue(s, 1)
		if err != nil {
			return nil, err
		}
		f, err := faultFromValue(fv)
		if err != nil {
			return nil, err
		}
		if err := s.expectEnd("fault"); err != nil {
			return nil, err
		}
		resp.Fault = f

	default:
		return nil, parseErrorf("expected <params> or <fault>, got <%s>", tok.Name)
	}

	// A response is never both a success and a fault.
	if err := s.expectEnd("methodResponse"); err != nil {
		return nil, err
	}
	if err := s.expectEOF(); err != nil {
		return nil, err
	}
	return resp, nil
}

// faultFromValue validates the fault struct: exactly the two required
// members, faultCode (int) and faultString (string).
func faultFromValue(v value.Value) (*Fault, error) {
	st, ok := v.(*value.Struct)
	if !ok {
		return nil, parseErrorf("fault value must be a struct, got %s", v.Kind())
	}
	if st.Len() != 2 {
		return nil, parseErrorf("fault struct must have exactly faultCode and faultString, got %d members", st.Len())
	}
	codeVal, ok := st.Get("faultCode")
	if !ok {
		return nil, parseErrorf("fault struct missing faultCode")
	}
	code, ok := codeVal.(value.Int)
	if !ok {
		return nil, parseErrorf("faultCode must be an int, got %s", codeVal.Kind())
	}
	msgVal, ok := st.Get("faultString")
	if !ok {
		return nil, parseErrorf("fault struct missing faultString")
	}
	msg, ok := msgVal.(value.String)
	if !ok {
		return nil, parseErrorf("faultString must be a string, got %s", msgVal.Kind())
	}
	return &Fault{Code: int32(code), String: string(msg)}, nil
}

// EncodeValue encodes a single value as an XML fragment. Intended for
// tests and diagnostics; documents on the wire always go through
// EncodeCall/EncodeResponse.
func (c *Codec) EncodeValue(v value.Value) ([]byte, error) {
	var buf bytes.Buffer
	w := c.backend.NewWriter(&buf)
	if err := c.writeValue(w, v, 1); err != nil {
		return nil, err
	}
	if err := w.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeValue decodes a single <value> fragment.
func (c *Codec) DecodeValue(data []byte) (value.Value, error) {
	s := newScanner(c.backend.NewReader(bytes.NewReader(data)))
	v, err := c.readValue(s, 1)
	if err != nil {
		return nil, err
	}
	if err := s.expectEOF(); err != nil {
		return nil, err
	}
	return v, nil
}
