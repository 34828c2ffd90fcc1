package dispatch

import (
	"github.com/xmlrpc-protocol/xmlrpc-go/pkg/value"
	"github.com/xmlrpc-protocol/xmlrpc-go/pkg/wire"
)

// Built-in metadata for the reserved methods, reported through the same
// introspection surface as user methods.
var systemEntries = map[string]*entry{
	"system.listMethods": {
		sig:  &Signature{Return: "array"},
		help: "Returns an array of the names of all callable methods.",
	},
	"system.methodSignature": {
		sig:  &Signature{Return: "array", Params: []string{"string"}},
		help: "Returns an array of known signatures for the named method.",
	},
	"system.methodHelp": {
		sig:  &Signature{Return: "string", Params: []string{"string"}},
		help: "Returns the help text for the named method.",
	},
	"system.multicall": {
		sig:  &Signature{Return: "array", Params: []string{"array"}},
		help: "Executes an array of {methodName, params} calls and returns per-call results.",
	},
}

// listMethods answers system.listMethods. Parameters are ignored; the
// result lists user registrations in registration order followed by the
// reserved introspection names.
func (t *Table) listMethods([]value.Value) *wire.MethodResponse {
	names := t.Methods()
	out := make(value.Array, len(names))
	for i, n := range names {
		out[i] = value.String(n)
	}
	return &wire.MethodResponse{Value: out}
}

// methodSignature answers system.methodSignature: an array of
// signatures, each an array of type-tag strings with the return type
// first. A method without a recorded signature yields a fault.
func (t *Table) methodSignature(params []value.Value) *wire.MethodResponse {
	name, f := oneStringParam("system.methodSignature", params)
	if f != nil {
		return &wire.MethodResponse{Fault: f}
	}

	e, found := t.lookup(name)
	if !found {
		return faultResponse(wire.FaultMethodMissing, "method %q not found", name)
	}
	if e.sig == nil {
		return faultResponse(wire.FaultHandlerError, "no signature registered for %q", name)
	}

	sig := make(value.Array, 0, len(e.sig.Params)+1)
	sig = append(sig, value.String(e.sig.Return))
	for _, p := range e.sig.Params {
		sig = append(sig, value.String(p))
	}
	return &wire.MethodResponse{Value: value.Array{sig}}
}

// methodHelp answers system.methodHelp: the recorded help text, or the
// empty string for a method registered without help.
func (t *Table) methodHelp(params []value.Value) *wire.MethodResponse {
	name, f := oneStringParam("system.methodHelp", params)
	if f != nil {
		return &wire.MethodResponse{Fault: f}
	}

	e, found := t.lookup(name)
	if !found {
		return faultResponse(wire.FaultMethodMissing, "method %q not found", name)
	}
	return &wire.MethodResponse{Value: value.String(e.help)}
}

// lookup finds a user or system entry by qualified name.
func (t *Table) lookup(name string) (*entry, bool) {
	if e, ok := systemEntries[name]; ok {
		return e, true
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	e, ok := t.entries[name]
	return e, ok
}

// oneStringParam validates the single string parameter the
// introspection queries take.
func oneStringParam(method string, params []value.Value) (string, *wire.Fault) {
	if len(params) != 1 {
		return "", wire.Faultf(wire.FaultHandlerError,
			"%s expects exactly one parameter, got %d", method, len(params))
	}
	s, ok := params[0].(value.String)
	if !ok {
		return "", wire.Faultf(wire.FaultHandlerError,
			"%s expects a string parameter, got %s", method, params[0].Kind())
	}
	return string(s), nil
}
