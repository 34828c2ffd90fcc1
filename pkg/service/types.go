package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/xmlrpc-protocol/xmlrpc-go/pkg/log"
	"github.com/xmlrpc-protocol/xmlrpc-go/pkg/wire"
	"github.com/xmlrpc-protocol/xmlrpc-go/pkg/xmltok"
)

// Service errors.
var (
	ErrEmptyMethodName = errors.New("empty method name")
	ErrNilTransport    = errors.New("nil transport")
	ErrNilTable        = errors.New("nil dispatch table")
)

// Transport carries one encoded request to a peer and returns the
// encoded response. Implementations must honor ctx cancellation and
// must be safe for concurrent use.
type Transport interface {
	Send(ctx context.Context, request []byte) ([]byte, error)
}

// TransportError wraps a failure raised by the transport layer, keeping
// it distinguishable from parse errors and faults.
type TransportError struct {
	Err error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("transport: %v", e.Err)
}

// Unwrap returns the underlying transport failure.
func (e *TransportError) Unwrap() error { return e.Err }

// Config configures a Client or Server.
type Config struct {
	// Capabilities controls which value extensions are accepted and the
	// maximum nesting depth. The zero value means defaults.
	Capabilities wire.Capabilities

	// Backend supplies the XML tokenizer. If nil, the standard library
	// backend is used.
	Backend xmltok.Backend

	// Logger receives protocol events. If nil, logging is disabled.
	Logger log.Logger
}

// DefaultConfig returns a Config with default capabilities.
func DefaultConfig() Config {
	return Config{Capabilities: wire.DefaultCapabilities()}
}

func (c Config) logger() log.Logger {
	if c.Logger == nil {
		return log.NoopLogger{}
	}
	return c.Logger
}

// FaultError reports whether err is a remote fault, returning it when so.
// A fault is protocol data from the peer; every other error from Call is
// a local encode/decode failure or a transport failure.
func FaultError(err error) (*wire.Fault, bool) {
	var f *wire.Fault
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}
