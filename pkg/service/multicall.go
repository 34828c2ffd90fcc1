package service

import (
	"context"

	"github.com/xmlrpc-protocol/xmlrpc-go/pkg/value"
	"github.com/xmlrpc-protocol/xmlrpc-go/pkg/wire"
)

// SubCall is one entry in a MultiCall batch.
type SubCall struct {
	Method string
	Params []value.Value
}

// SubResult is the outcome of one MultiCall entry. Exactly one of Value
// and Fault is meaningful; Ok reports which.
type SubResult struct {
	Value value.Value
	Fault *wire.Fault
}

// Ok reports whether the sub-call succeeded.
func (r SubResult) Ok() bool { return r.Fault == nil }

// MultiCall batches several calls into one system.multicall round trip.
// Results arrive in call order; a faulting sub-call occupies its slot
// without disturbing the others. The error return covers the round trip
// itself, including a server that rejects the batch outright.
func (c *Client) MultiCall(ctx context.Context, calls ...SubCall) ([]SubResult, error) {
	items := make(value.Array, len(calls))
	for i, sc := range calls {
		items[i] = value.NewStruct().
			Set("methodName", value.String(sc.Method)).
			Set("params", value.Array(sc.Params))
	}

	raw, err := c.Call(ctx, "system.multicall", items)
	if err != nil {
		return nil, err
	}

	slots, ok := raw.(value.Array)
	if !ok {
		return nil, &wire.ParseError{Msg: "multicall result is not an array"}
	}
	if len(slots) != len(calls) {
		return nil, &wire.ParseError{
			Msg: "multicall result count does not match batch size",
		}
	}

	results := make([]SubResult, len(slots))
	for i, slot := range slots {
		results[i], err = decodeSubResult(slot)
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}

// decodeSubResult unpacks one multicall slot: a one-element array for
// success, a {faultCode, faultString} struct for a fault.
func decodeSubResult(slot value.Value) (SubResult, error) {
	switch v := slot.(type) {
	case value.Array:
		if len(v) != 1 {
			return SubResult{}, &wire.ParseError{
				Msg: "multicall success slot must hold exactly one value",
			}
		}
		return SubResult{Value: v[0]}, nil
	case *value.Struct:
		code, okCode := v.Get("faultCode")
		msg, okMsg := v.Get("faultString")
		ci, isInt := code.(value.Int)
		ms, isStr := msg.(value.String)
		if !okCode || !okMsg || !isInt || !isStr {
			return SubResult{}, &wire.ParseError{
				Msg: "multicall fault slot missing faultCode or faultString",
			}
		}
		return SubResult{Fault: &wire.Fault{Code: int32(ci), String: string(ms)}}, nil
	default:
		return SubResult{}, &wire.ParseError{
			Msg: "multicall slot must be an array or a fault struct",
		}
	}
}
