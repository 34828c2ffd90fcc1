package dispatch

import (
	"errors"
	"fmt"
	"testing"

	"github.com/xmlrpc-protocol/xmlrpc-go/pkg/value"
	"github.com/xmlrpc-protocol/xmlrpc-go/pkg/wire"
)

func addHandler(params []value.Value) (value.Value, error) {
	a := params[0].(value.Int)
	b := params[1].(value.Int)
	return a + b, nil
}

func TestRegisterAndDispatch(t *testing.T) {
	table := NewTable()
	if err := table.Register("math.add", addHandler); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	resp := table.Dispatch("math.add", []value.Value{value.Int(2), value.Int(3)})
	if resp.IsFault() {
		t.Fatalf("unexpected fault: %v", resp.Fault)
	}
	if !value.Equal(resp.Value, value.Int(5)) {
		t.Errorf("result = %#v, want Int(5)", resp.Value)
	}
}

func TestRegisterValidation(t *testing.T) {
	table := NewTable()

	if err := table.Register("", addHandler); !errors.Is(err, ErrEmptyName) {
		t.Errorf("empty name: got %v, want ErrEmptyName", err)
	}
	if err := table.Register("x", nil); !errors.Is(err, ErrNilHandler) {
		t.Errorf("nil handler: got %v, want ErrNilHandler", err)
	}
}

func TestReservedNamesRejected(t *testing.T) {
	table := NewTable()

	for _, name := range []string{
		"system.listMethods",
		"system.methodSignature",
		"system.methodHelp",
		"system.multicall",
		"system.anything",
	} {
		if err := table.Register(name, addHandler); !errors.Is(err, ErrReservedName) {
			t.Errorf("Register(%q): got %v, want ErrReservedName", name, err)
		}
	}

	if err := table.RegisterReceiver("system", struct{}{}, nil); !errors.Is(err, ErrReservedName) {
		t.Errorf("RegisterReceiver(system): got %v, want ErrReservedName", err)
	}
}

func TestMethodMissingFault(t *testing.T) {
	table := NewTable()
	resp := table.Dispatch("no.such.method", nil)
	if !resp.IsFault() {
		t.Fatal("expected fault for unknown method")
	}
	if resp.Fault.Code != wire.FaultMethodMissing {
		t.Errorf("fault code = %d, want %d", resp.Fault.Code, wire.FaultMethodMissing)
	}
}

func TestReRegistrationReplacesHandler(t *testing.T) {
	table := NewTable()
	if err := table.Register("m", func([]value.Value) (value.Value, error) {
		return value.Int(1), nil
	}); err != nil {
		t.Fatal(err)
	}
	if err := table.Register("m", func([]value.Value) (value.Value, error) {
		return value.Int(2), nil
	}); err != nil {
		t.Fatal(err)
	}

	resp := table.Dispatch("m", nil)
	if !value.Equal(resp.Value, value.Int(2)) {
		t.Errorf("result = %#v, want the replacement handler's Int(2)", resp.Value)
	}

	// Replacement must not duplicate the listMethods entry.
	count := 0
	for _, n := range table.Methods() {
		if n == "m" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("method listed %d times after re-registration, want 1", count)
	}
}

func TestExplicitFaultPassesThrough(t *testing.T) {
	table := NewTable()
	if err := table.Register("test.div", func(params []value.Value) (value.Value, error) {
		b := params[1].(value.Int)
		if b == 0 {
			return nil, &wire.Fault{Code: 1, String: "division by zero"}
		}
		return params[0].(value.Int) / b, nil
	}); err != nil {
		t.Fatal(err)
	}

	resp := table.Dispatch("test.div", []value.Value{value.Int(1), value.Int(0)})
	if !resp.IsFault() {
		t.Fatal("expected fault")
	}
	if resp.Fault.Code != 1 || resp.Fault.String != "division by zero" {
		t.Errorf("fault = %+v, want code 1 / division by zero", resp.Fault)
	}
}

func TestPlainErrorBecomesHandlerFault(t *testing.T) {
	table := NewTable()
	if err := table.Register("fail", func([]value.Value) (value.Value, error) {
		return nil, fmt.Errorf("disk on fire")
	}); err != nil {
		t.Fatal(err)
	}

	resp := table.Dispatch("fail", nil)
	if !resp.IsFault() || resp.Fault.Code != wire.FaultHandlerError {
		t.Fatalf("got %+v, want handler-error fault", resp)
	}
}

func TestPanicContained(t *testing.T) {
	table := NewTable()
	if err := table.Register("boom", func(params []value.Value) (value.Value, error) {
		// Index out of range on missing params.
		return params[0], nil
	}); err != nil {
		t.Fatal(err)
	}

	resp := table.Dispatch("boom", nil)
	if !resp.IsFault() || resp.Fault.Code != wire.FaultHandlerError {
		t.Fatalf("got %+v, want handler-error fault from contained panic", resp)
	}
}

func TestDefaultHandler(t *testing.T) {
	table := NewTable()
	table.SetDefaultHandler(func(name string, params []value.Value) (value.Value, error) {
		return value.String("default:" + name), nil
	})

	resp := table.Dispatch("anything.goes", nil)
	if resp.IsFault() {
		t.Fatalf("unexpected fault: %v", resp.Fault)
	}
	if !value.Equal(resp.Value, value.String("default:anything.goes")) {
		t.Errorf("result = %#v", resp.Value)
	}
}

func TestDefaultHandlerFailureIsMethodMissing(t *testing.T) {
	table := NewTable()
	table.SetDefaultHandler(func(string, []value.Value) (value.Value, error) {
		return nil, errors.New("cannot help")
	})

	resp := table.Dispatch("anything.goes", nil)
	if !resp.IsFault() || resp.Fault.Code != wire.FaultMethodMissing {
		t.Fatalf("got %+v, want method-missing fault", resp)
	}
}

// calculator is a receiver with more capabilities than it exposes.
type calculator struct{}

func (calculator) Add(params []value.Value) (value.Value, error) {
	return params[0].(value.Int) + params[1].(value.Int), nil
}

func (calculator) Sub(params []value.Value) (value.Value, error) {
	return params[0].(value.Int) - params[1].(value.Int), nil
}

// Wipe must never be remotely callable unless explicitly exposed.
func (calculator) Wipe(params []value.Value) (value.Value, error) {
	return value.String("wiped"), nil
}

func (calculator) String() string { return "calculator" }

func TestReceiverAllowListSecurity(t *testing.T) {
	table := NewTable()
	if err := table.RegisterReceiver("calc", calculator{}, []string{"Add"}); err != nil {
		t.Fatalf("RegisterReceiver failed: %v", err)
	}

	resp := table.Dispatch("calc.Add", []value.Value{value.Int(4), value.Int(1)})
	if resp.IsFault() {
		t.Fatalf("allowed method faulted: %v", resp.Fault)
	}
	if !value.Equal(resp.Value, value.Int(5)) {
		t.Errorf("calc.Add = %#v, want Int(5)", resp.Value)
	}

	// The receiver has these methods, but they were not allow-listed.
	for _, name := range []string{"calc.Sub", "calc.Wipe", "calc.String"} {
		resp := table.Dispatch(name, nil)
		if !resp.IsFault() || resp.Fault.Code != wire.FaultMethodMissing {
			t.Errorf("Dispatch(%q) = %+v, want method-missing fault", name, resp)
		}
	}
}

func TestRegisterReceiverValidation(t *testing.T) {
	table := NewTable()

	if err := table.RegisterReceiver("calc", calculator{}, []string{"Missing"}); !errors.Is(err, ErrNoSuchMethod) {
		t.Errorf("unknown method: got %v, want ErrNoSuchMethod", err)
	}
	// String exists but has the wrong shape.
	if err := table.RegisterReceiver("calc", calculator{}, []string{"String"}); !errors.Is(err, ErrBadMethodShape) {
		t.Errorf("wrong shape: got %v, want ErrBadMethodShape", err)
	}
}

func TestSignatureEnforcementOptIn(t *testing.T) {
	table := NewTable()
	if err := table.Register("math.add", addHandler,
		WithSignature("int", "int", "int")); err != nil {
		t.Fatal(err)
	}

	// Descriptive by default: a wrong-arity call reaches the handler
	// (which panics, contained as a handler fault).
	resp := table.Dispatch("math.add", []value.Value{value.Int(1)})
	if !resp.IsFault() || resp.Fault.Code != wire.FaultHandlerError {
		t.Fatalf("without enforcement: got %+v", resp)
	}

	table.EnforceSignatures(true)

	resp = table.Dispatch("math.add", []value.Value{value.Int(1)})
	if !resp.IsFault() || resp.Fault.Code != wire.FaultHandlerError {
		t.Fatalf("arity mismatch: got %+v, want fault", resp)
	}

	resp = table.Dispatch("math.add", []value.Value{value.Int(1), value.String("2")})
	if !resp.IsFault() {
		t.Fatal("type mismatch should fault")
	}

	resp = table.Dispatch("math.add", []value.Value{value.Int(1), value.Int(2)})
	if resp.IsFault() {
		t.Fatalf("matching call faulted: %v", resp.Fault)
	}
}
