package value

import (
	"math/big"
	"testing"
	"time"
)

func TestStructInsertionOrder(t *testing.T) {
	s := NewStruct().
		Set("sum", Int(8)).
		Set("difference", Int(2)).
		Set("ratio", Double(2.5))

	want := []string{"sum", "difference", "ratio"}
	got := s.Names()
	if len(got) != len(want) {
		t.Fatalf("Names() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Names()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestStructSetReplacesInPlace(t *testing.T) {
	s := NewStruct().
		Set("a", Int(1)).
		Set("b", Int(2)).
		Set("a", Int(3))

	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2 (Set must not create duplicates)", s.Len())
	}
	if got := s.Names()[0]; got != "a" {
		t.Errorf("replaced member moved: Names()[0] = %q, want %q", got, "a")
	}
	v, ok := s.Get("a")
	if !ok || v.(Int) != 3 {
		t.Errorf("Get(a) = %v, %v, want Int(3), true", v, ok)
	}
}

func TestStructGetMissing(t *testing.T) {
	s := NewStruct().Set("a", Int(1))
	if _, ok := s.Get("b"); ok {
		t.Error("Get on missing member should report false")
	}
	if s.Has("b") {
		t.Error("Has on missing member should report false")
	}
}

func TestKindTags(t *testing.T) {
	tests := []struct {
		v    Value
		kind Kind
		tag  string
	}{
		{Nil{}, KindNil, "nil"},
		{Bool(true), KindBool, "boolean"},
		{Int(42), KindInt, "int"},
		{NewBigInt(big.NewInt(1)), KindBigInt, "i8"},
		{Double(3.14), KindDouble, "double"},
		{String("hi"), KindString, "string"},
		{DateTime(time.Now()), KindDateTime, "dateTime.iso8601"},
		{Base64([]byte{1}), KindBase64, "base64"},
		{Array{}, KindArray, "array"},
		{NewStruct(), KindStruct, "struct"},
	}

	for _, tt := range tests {
		if tt.v.Kind() != tt.kind {
			t.Errorf("%T: Kind() = %v, want %v", tt.v, tt.v.Kind(), tt.kind)
		}
		if tt.v.Kind().String() != tt.tag {
			t.Errorf("%T: tag = %q, want %q", tt.v, tt.v.Kind().String(), tt.tag)
		}
	}
}

func TestEqual(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"nil values", Nil{}, Nil{}, true},
		{"equal ints", Int(5), Int(5), true},
		{"unequal ints", Int(5), Int(6), false},
		{"kind mismatch", Int(1), Double(1), false},
		{"bigint by value", NewBigInt(big.NewInt(100)), NewBigInt(big.NewInt(100)), true},
		{"bigint zero value", BigInt{}, NewBigInt(big.NewInt(0)), true},
		{"datetime by instant", DateTime(now), DateTime(now.UTC()), true},
		{"base64", Base64("abc"), Base64("abc"), true},
		{"array order matters", Array{Int(1), Int(2)}, Array{Int(2), Int(1)}, false},
		{"array equal", Array{Int(1), String("x")}, Array{Int(1), String("x")}, true},
		{
			"struct member order irrelevant for equality",
			NewStruct().Set("a", Int(1)).Set("b", Int(2)),
			NewStruct().Set("b", Int(2)).Set("a", Int(1)),
			true,
		},
		{
			"struct member mismatch",
			NewStruct().Set("a", Int(1)),
			NewStruct().Set("a", Int(2)),
			false,
		},
		{"untyped nil both", nil, nil, true},
		{"untyped nil vs Nil", nil, Nil{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("Equal(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestEqualNestedStruct(t *testing.T) {
	mk := func() Value {
		return NewStruct().
			Set("list", Array{Int(1), NewStruct().Set("deep", String("值"))}).
			Set("flag", Bool(true))
	}
	if !Equal(mk(), mk()) {
		t.Error("deeply nested identical values should be equal")
	}
}
