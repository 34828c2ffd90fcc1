package dispatch

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/xmlrpc-protocol/xmlrpc-go/pkg/value"
	"github.com/xmlrpc-protocol/xmlrpc-go/pkg/wire"
)

// Registration errors.
var (
	ErrReservedName   = errors.New("method name is reserved for system methods")
	ErrEmptyName      = errors.New("method name must not be empty")
	ErrNilHandler     = errors.New("handler must not be nil")
	ErrNoSuchMethod   = errors.New("receiver has no such method")
	ErrBadMethodShape = errors.New("receiver method must have signature func([]value.Value) (value.Value, error)")
)

// reservedPrefix guards the system method namespace.
const reservedPrefix = "system."

// Handler executes one method call. Returning *wire.Fault as the error
// transmits that exact fault; any other error becomes a fault with the
// reserved handler-error code.
type Handler func(params []value.Value) (value.Value, error)

// DefaultHandler runs when no registered name matches. It receives the
// unresolved method name.
type DefaultHandler func(name string, params []value.Value) (value.Value, error)

// Signature describes a method for introspection: the return type tag
// followed by one tag per parameter (see value.Kind.String for the tag
// vocabulary). Signatures are purely descriptive unless the table is
// built with signature enforcement.
type Signature struct {
	Return string
	Params []string
}

// entry is one registered method. Immutable after registration.
type entry struct {
	name    string
	handler Handler
	sig     *Signature
	help    string
}

// RegisterOption attaches optional metadata to a registration.
type RegisterOption func(*entry)

// WithHelp records the help string returned by system.methodHelp.
func WithHelp(help string) RegisterOption {
	return func(e *entry) { e.help = help }
}

// WithSignature records the signature returned by system.methodSignature.
func WithSignature(ret string, params ...string) RegisterOption {
	return func(e *entry) { e.sig = &Signature{Return: ret, Params: params} }
}

// Table resolves method names to handlers. Lookup during dispatch is
// safe for concurrent use; registration is expected at startup or under
// external synchronization, though the table locks internally so
// concurrent registration does not corrupt state.
type Table struct {
	mu             sync.RWMutex
	entries        map[string]*entry
	order          []string
	defaultHandler DefaultHandler
	enforceSigs    bool
}

// NewTable creates an empty dispatch table.
func NewTable() *Table {
	return &Table{entries: make(map[string]*entry)}
}

// EnforceSignatures enables checking recorded signatures against actual
// calls: parameter count and type tags must match. Off by default;
// signatures are descriptive otherwise.
func (t *Table) EnforceSignatures(on bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.enforceSigs = on
}

// Register binds a handler to a qualified method name. Names under the
// system. prefix are rejected. Re-registering a name replaces the
// previous handler (destructive) while keeping its position in the
// registration order.
func (t *Table) Register(name string, h Handler, opts ...RegisterOption) error {
	if name == "" {
		return ErrEmptyName
	}
	if h == nil {
		return ErrNilHandler
	}
	if strings.HasPrefix(name, reservedPrefix) {
		return fmt.Errorf("%w: %q", ErrReservedName, name)
	}

	e := &entry{name: name, handler: h}
	for _, opt := range opts {
		opt(e)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if _, exists := t.entries[name]; !exists {
		t.order = append(t.order, name)
	}
	t.entries[name] = e
	return nil
}

// RegisterReceiver exposes the listed methods of recv under the given
// prefix, as prefix.Method. Only the names in allow become callable;
// every other method of the receiver stays unreachable no matter what
// a remote caller asks for. Each allowed method must have the shape
// func([]value.Value) (value.Value, error).
func (t *Table) RegisterReceiver(prefix string, recv any, allow []string) error {
	if prefix == "" {
		return ErrEmptyName
	}
	if strings.HasPrefix(prefix+".", reservedPrefix) {
		return fmt.Errorf("%w: %q", ErrReservedName, prefix)
	}

	rv := reflect.ValueOf(recv)
	// Bind everything up front; dispatch never consults the receiver.
	bound := make(map[string]Handler, len(allow))
	for _, name := range allow {
		m := rv.MethodByName(name)
		if !m.IsValid() {
			return fmt.Errorf("%w: %s.%s", ErrNoSuchMethod, prefix, name)
		}
		fn, ok := m.Interface().(func([]value.Value) (value.Value, error))
		if !ok {
			return fmt.Errorf("%w: %s.%s has type %s", ErrBadMethodShape, prefix, name, m.Type())
		}
		bound[name] = fn
	}

	for _, name := range allow {
		if err := t.Register(prefix+"."+name, bound[name]); err != nil {
			return err
		}
	}
	return nil
}

// SetDefaultHandler installs the fallback invoked when no registered
// name matches. Pass nil to remove it.
func (t *Table) SetDefaultHandler(h DefaultHandler) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.defaultHandler = h
}

// Methods returns every callable method name: user registrations in
// registration order, followed by the reserved introspection names.
func (t *Table) Methods() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	names := make([]string, 0, len(t.order)+3)
	names = append(names, t.order...)
	names = append(names, "system.listMethods", "system.methodSignature", "system.methodHelp")
	return names
}

// Dispatch resolves and invokes a method. It always returns a response:
// either the handler's value or a fault. It never panics; handler
// panics are converted into handler-error faults.
func (t *Table) Dispatch(name string, params []value.Value) *wire.MethodResponse {
	switch name {
	case "system.multicall":
		return t.multicall(params)
	case "system.listMethods":
		return t.listMethods(params)
	case "system.methodSignature":
		return t.methodSignature(params)
	case "system.methodHelp":
		return t.methodHelp(params)
	}

	t.mu.RLock()
	e, found := t.entries[name]
	fallback := t.defaultHandler
	enforce := t.enforceSigs
	t.mu.RUnlock()

	if !found {
		if fallback != nil {
			return invokeDefault(fallback, name, params)
		}
		return faultResponse(wire.FaultMethodMissing, "method %q not found", name)
	}

	if enforce && e.sig != nil {
		if f := checkSignature(name, e.sig, params); f != nil {
			return &wire.MethodResponse{Fault: f}
		}
	}

	return invoke(e.handler, name, params)
}

// invoke runs a handler with panic containment.
func invoke(h Handler, name string, params []value.Value) (resp *wire.MethodResponse) {
	defer func() {
		if r := recover(); r != nil {
			resp = faultResponse(wire.FaultHandlerError, "method %q panicked: %v", name, r)
		}
	}()

	v, err := h(params)
	if err != nil {
		return errorResponse(name, err)
	}
	return &wire.MethodResponse{Value: v}
}

// invokeDefault runs the fallback handler with panic containment. Its
// failures surface as method-missing faults unless it chose a fault of
// its own.
func invokeDefault(h DefaultHandler, name string, params []value.Value) (resp *wire.MethodResponse) {
	defer func() {
		if r := recover(); r != nil {
			resp = faultResponse(wire.FaultMethodMissing, "method %q not found (default handler panicked: %v)", name, r)
		}
	}()

	v, err := h(name, params)
	if err != nil {
		var f *wire.Fault
		if errors.As(err, &f) {
			return &wire.MethodResponse{Fault: f}
		}
		return faultResponse(wire.FaultMethodMissing, "method %q not found: %v", name, err)
	}
	return &wire.MethodResponse{Value: v}
}

// checkSignature validates parameter count and type tags.
func checkSignature(name string, sig *Signature, params []value.Value) *wire.Fault {
	if len(params) != len(sig.Params) {
		return wire.Faultf(wire.FaultHandlerError,
			"method %q expects %d parameters, got %d", name, len(sig.Params), len(params))
	}
	for i, p := range params {
		if tag := p.Kind().String(); tag != sig.Params[i] {
			return wire.Faultf(wire.FaultHandlerError,
				"method %q parameter %d must be %s, got %s", name, i+1, sig.Params[i], tag)
		}
	}
	return nil
}

// errorResponse converts a handler error into a response. An explicit
// *wire.Fault passes through; anything else gets the reserved code.
func errorResponse(name string, err error) *wire.MethodResponse {
	var f *wire.Fault
	if errors.As(err, &f) {
		return &wire.MethodResponse{Fault: f}
	}
	return faultResponse(wire.FaultHandlerError, "method %q failed: %v", name, err)
}

func faultResponse(code int32, format string, args ...any) *wire.MethodResponse {
	return &wire.MethodResponse{Fault: wire.Faultf(code, format, args...)}
}
