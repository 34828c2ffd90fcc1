package value

import (
	"bytes"
	"math/big"
	"time"
)

// Kind identifies which member of the Value union a value is.
type Kind uint8

const (
	// KindNil is the <nil/> extension type.
	KindNil Kind = iota

	// KindBool is the boolean type (wire values 0 and 1).
	KindBool

	// KindInt is the 32-bit signed integer type (<int> or <i4>).
	KindInt

	// KindBigInt is the arbitrary-precision integer extension type (<i8>).
	KindBigInt

	// KindDouble is the floating-point type.
	KindDouble

	// KindString is the text type.
	KindString

	// KindDateTime is the ISO-8601 date/time type (no timezone guarantee).
	KindDateTime

	// KindBase64 is the opaque byte-string type.
	KindBase64

	// KindArray is the ordered sequence type.
	KindArray

	// KindStruct is the ordered name/value mapping type.
	KindStruct
)

// String returns the XML-RPC type tag for the kind. These strings double
// as the type tags used in system.methodSignature results.
func (k Kind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindBool:
		return "boolean"
	case KindInt:
		return "int"
	case KindBigInt:
		return "i8"
	case KindDouble:
		return "double"
	case KindString:
		return "string"
	case KindDateTime:
		return "dateTime.iso8601"
	case KindBase64:
		return "base64"
	case KindArray:
		return "array"
	case KindStruct:
		return "struct"
	default:
		return "unknown"
	}
}

// Value is one member of the closed XML-RPC type union.
// The concrete types are Nil, Bool, Int, BigInt, Double, String,
// DateTime, Base64, Array and *Struct.
type Value interface {
	// Kind reports which union member this value is.
	Kind() Kind
}

// Nil is the explicit null value (protocol extension).
type Nil struct{}

// Kind returns KindNil.
func (Nil) Kind() Kind { return KindNil }

// Bool is an XML-RPC boolean.
type Bool bool

// Kind returns KindBool.
func (Bool) Kind() Kind { return KindBool }

// Int is a 32-bit signed XML-RPC integer.
type Int int32

// Kind returns KindInt.
func (Int) Kind() Kind { return KindInt }

// BigInt is an arbitrary-precision integer (protocol extension).
// The zero value represents the number zero.
type BigInt struct {
	X *big.Int
}

// NewBigInt creates a BigInt from a *big.Int. The value is not copied.
func NewBigInt(x *big.Int) BigInt {
	return BigInt{X: x}
}

// Kind returns KindBigInt.
func (BigInt) Kind() Kind { return KindBigInt }

// Num returns the numeric value, treating a nil inner pointer as zero.
func (b BigInt) Num() *big.Int {
	if b.X == nil {
		return new(big.Int)
	}
	return b.X
}

// Double is an XML-RPC double-precision float.
type Double float64

// Kind returns KindDouble.
func (Double) Kind() Kind { return KindDouble }

// String is an XML-RPC string. Content is arbitrary UTF-8 text; the codec
// is responsible for XML escaping.
type String string

// Kind returns KindString.
func (String) Kind() Kind { return KindString }

// DateTime is an XML-RPC dateTime.iso8601 value. XML-RPC carries no
// timezone information; the instant is interpreted in the location of the
// underlying time.Time.
type DateTime time.Time

// Kind returns KindDateTime.
func (DateTime) Kind() Kind { return KindDateTime }

// Time returns the underlying time.Time.
func (d DateTime) Time() time.Time { return time.Time(d) }

// Base64 is an opaque byte string, carried base64-encoded on the wire.
type Base64 []byte

// Kind returns KindBase64.
func (Base64) Kind() Kind { return KindBase64 }

// Array is an ordered sequence of values. Order round-trips exactly.
type Array []Value

// Kind returns KindArray.
func (Array) Kind() Kind { return KindArray }

// Member is one name/value pair of a Struct.
type Member struct {
	Name  string
	Value Value
}

// Struct is an ordered mapping of unique member names to values.
// Insertion order is preserved for wire emission; lookup is by name.
// The zero value is not usable; call NewStruct.
type Struct struct {
	members []Member
	index   map[string]int
}

// NewStruct creates an empty struct.
func NewStruct() *Struct {
	return &Struct{index: make(map[string]int)}
}

// Kind returns KindStruct.
func (*Struct) Kind() Kind { return KindStruct }

// Set adds a member or replaces the value of an existing member in place,
// keeping its original position. It returns the struct for chaining.
func (s *Struct) Set(name string, v Value) *Struct {
	if i, ok := s.index[name]; ok {
		s.members[i].Value = v
		return s
	}
	s.index[name] = len(s.members)
	s.members = append(s.members, Member{Name: name, Value: v})
	return s
}

// Get returns the value of the named member.
func (s *Struct) Get(name string) (Value, bool) {
	i, ok := s.index[name]
	if !ok {
		return nil, false
	}
	return s.members[i].Value, true
}

// Has reports whether the named member exists.
func (s *Struct) Has(name string) bool {
	_, ok := s.index[name]
	return ok
}

// Len returns the number of members.
func (s *Struct) Len() int { return len(s.members) }

// Members returns the members in insertion order.
// The returned slice must not be modified.
func (s *Struct) Members() []Member { return s.members }

// Names returns the member names in insertion order.
func (s *Struct) Names() []string {
	names := make([]string, len(s.members))
	for i, m := range s.members {
		names[i] = m.Name
	}
	return names
}

// Equal reports whether two values are deeply equal. Two nil Values are
// equal; a nil Value is never equal to a non-nil one (including Nil{}).
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}

	switch av := a.(type) {
	case Nil:
		return true
	case Bool:
		return av == b.(Bool)
	case Int:
		return av == b.(Int)
	case BigInt:
		return av.Num().Cmp(b.(BigInt).Num()) == 0
	case Double:
		return av == b.(Double)
	case String:
		return av == b.(String)
	case DateTime:
		return av.Time().Equal(b.(DateTime).Time())
	case Base64:
		return bytes.Equal(av, b.(Base64))
	case Array:
		bv := b.(Array)
		if len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case *Struct:
		bv := b.(*Struct)
		if av.Len() != bv.Len() {
			return false
		}
		for _, m := range av.members {
			other, ok := bv.Get(m.Name)
			if !ok || !Equal(m.Value, other) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Compile-time union membership checks.
var (
	_ Value = Nil{}
	_ Value = Bool(false)
	_ Value = Int(0)
	_ Value = BigInt{}
	_ Value = Double(0)
	_ Value = String("")
	_ Value = DateTime{}
	_ Value = Base64(nil)
	_ Value = Array(nil)
	_ Value = (*Struct)(nil)
)
