// Package value defines the XML-RPC data model as a closed tagged union.
//
// A Value is one of the fixed set of wire types: Nil, Bool, Int, BigInt,
// Double, String, DateTime, Base64, Array, or Struct. Nil and BigInt are
// protocol extensions; whether they may appear on the wire is decided by
// the codec capabilities, not by this package.
//
// # Structs
//
// Struct preserves member insertion order for wire emission while lookup
// is by name. Member names are unique within one struct; Set replaces the
// value of an existing member in place instead of appending a duplicate.
//
// # Equality
//
// Equal compares two values deeply. DateTime values compare by instant
// (time.Time.Equal), BigInt values by numeric value.
package value
