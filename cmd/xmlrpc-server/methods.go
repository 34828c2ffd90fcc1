package main

import (
	"strings"
	"time"

	"github.com/xmlrpc-protocol/xmlrpc-go/pkg/dispatch"
	"github.com/xmlrpc-protocol/xmlrpc-go/pkg/value"
	"github.com/xmlrpc-protocol/xmlrpc-go/pkg/wire"
)

// registerSampleMethods fills the table with the demonstration methods
// this server exposes.
func registerSampleMethods(table *dispatch.Table) error {
	if err := table.Register("sample.sumAndDifference", sumAndDifference,
		dispatch.WithSignature("struct", "int", "int"),
		dispatch.WithHelp("Returns a struct with the sum and difference of two integers.")); err != nil {
		return err
	}
	if err := table.Register("sample.echo", echo,
		dispatch.WithHelp("Returns its parameters unchanged, wrapped in an array.")); err != nil {
		return err
	}
	if err := table.Register("sample.uppercase", uppercase,
		dispatch.WithSignature("string", "string"),
		dispatch.WithHelp("Returns the argument upper-cased.")); err != nil {
		return err
	}
	if err := table.Register("sample.now", now,
		dispatch.WithSignature("dateTime.iso8601"),
		dispatch.WithHelp("Returns the current server time.")); err != nil {
		return err
	}
	if err := table.Register("math.add", add,
		dispatch.WithSignature("int", "int", "int"),
		dispatch.WithHelp("Adds two integers.")); err != nil {
		return err
	}
	return table.Register("math.div", div,
		dispatch.WithSignature("int", "int", "int"),
		dispatch.WithHelp("Divides two integers; faults on division by zero."))
}

func sumAndDifference(params []value.Value) (value.Value, error) {
	if len(params) != 2 {
		return nil, wire.Faultf(wire.FaultHandlerError, "expected 2 parameters, got %d", len(params))
	}
	a, okA := params[0].(value.Int)
	b, okB := params[1].(value.Int)
	if !okA || !okB {
		return nil, wire.Faultf(wire.FaultHandlerError, "parameters must be integers")
	}
	return value.NewStruct().
		Set("sum", a+b).
		Set("difference", a-b), nil
}

func echo(params []value.Value) (value.Value, error) {
	return value.Array(params), nil
}

func uppercase(params []value.Value) (value.Value, error) {
	if len(params) != 1 {
		return nil, wire.Faultf(wire.FaultHandlerError, "expected 1 parameter, got %d", len(params))
	}
	s, ok := params[0].(value.String)
	if !ok {
		return nil, wire.Faultf(wire.FaultHandlerError, "parameter must be a string")
	}
	return value.String(strings.ToUpper(string(s))), nil
}

func now([]value.Value) (value.Value, error) {
	return value.DateTime(time.Now()), nil
}

func add(params []value.Value) (value.Value, error) {
	if len(params) != 2 {
		return nil, wire.Faultf(wire.FaultHandlerError, "expected 2 parameters, got %d", len(params))
	}
	a, okA := params[0].(value.Int)
	b, okB := params[1].(value.Int)
	if !okA || !okB {
		return nil, wire.Faultf(wire.FaultHandlerError, "parameters must be integers")
	}
	return a + b, nil
}

func div(params []value.Value) (value.Value, error) {
	if len(params) != 2 {
		return nil, wire.Faultf(wire.FaultHandlerError, "expected 2 parameters, got %d", len(params))
	}
	a, okA := params[0].(value.Int)
	b, okB := params[1].(value.Int)
	if !okA || !okB {
		return nil, wire.Faultf(wire.FaultHandlerError, "parameters must be integers")
	}
	if b == 0 {
		return nil, &wire.Fault{Code: 1, String: "division by zero"}
	}
	return a / b, nil
}
