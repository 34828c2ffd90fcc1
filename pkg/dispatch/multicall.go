package dispatch

import (
	"github.com/xmlrpc-protocol/xmlrpc-go/pkg/value"
	"github.com/xmlrpc-protocol/xmlrpc-go/pkg/wire"
)

// multicall answers system.multicall: one array parameter whose items
// are {methodName, params} structs. Items run sequentially and in
// order; each slot succeeds or faults independently, so one failing
// sub-call never aborts or reorders the others.
func (t *Table) multicall(params []value.Value) *wire.MethodResponse {
	if len(params) != 1 {
		return faultResponse(wire.FaultMulticallWrongParam,
			"system.multicall expects exactly one parameter, got %d", len(params))
	}
	calls, ok := params[0].(value.Array)
	if !ok {
		return faultResponse(wire.FaultMulticallWrongParam,
			"system.multicall parameter must be an array, got %s", params[0].Kind())
	}

	results := make(value.Array, len(calls))
	for i, item := range calls {
		results[i] = t.multicallItem(item)
	}
	return &wire.MethodResponse{Value: results}
}

// multicallItem executes one sub-call. A success is wrapped in a
// one-element array; a fault becomes a {faultCode, faultString} struct
// occupying the same slot.
func (t *Table) multicallItem(item value.Value) value.Value {
	st, ok := item.(*value.Struct)
	if !ok {
		return faultSlot(wire.Faultf(wire.FaultMulticallNotStruct,
			"multicall item must be a struct, got %s", item.Kind()))
	}

	nameVal, ok := st.Get("methodName")
	if !ok {
		return faultSlot(wire.Faultf(wire.FaultMulticallMissingMethodName,
			"multicall item missing methodName"))
	}
	name, ok := nameVal.(value.String)
	if !ok {
		return faultSlot(wire.Faultf(wire.FaultMulticallMissingMethodName,
			"multicall methodName must be a string, got %s", nameVal.Kind()))
	}
	if string(name) == "system.multicall" {
		return faultSlot(wire.Faultf(wire.FaultMulticallRecursive,
			"recursive system.multicall is not allowed"))
	}

	paramsVal, ok := st.Get("params")
	if !ok {
		return faultSlot(wire.Faultf(wire.FaultMulticallBadParams,
			"multicall item %q missing params", name))
	}
	callParams, ok := paramsVal.(value.Array)
	if !ok {
		return faultSlot(wire.Faultf(wire.FaultMulticallBadParams,
			"multicall item %q params must be an array, got %s", name, paramsVal.Kind()))
	}

	resp := t.Dispatch(string(name), callParams)
	if resp.IsFault() {
		return faultSlot(resp.Fault)
	}
	return value.Array{resp.Value}
}

// faultSlot renders a fault as the struct shape multicall slots use.
func faultSlot(f *wire.Fault) value.Value {
	return value.NewStruct().
		Set("faultCode", value.Int(f.Code)).
		Set("faultString", value.String(f.String))
}
