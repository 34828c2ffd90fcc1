package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/xmlrpc-protocol/xmlrpc-go/pkg/log"
	"github.com/xmlrpc-protocol/xmlrpc-go/pkg/value"
	"github.com/xmlrpc-protocol/xmlrpc-go/pkg/wire"
)

// Client issues method calls over a Transport.
// It is safe for concurrent use.
type Client struct {
	transport Transport
	codec     *wire.Codec
	logger    log.Logger
	connID    string
}

// NewClient creates a Client that sends calls over tr.
func NewClient(tr Transport, cfg Config) (*Client, error) {
	if tr == nil {
		return nil, ErrNilTransport
	}
	return &Client{
		transport: tr,
		codec:     wire.NewCodec(cfg.Capabilities, cfg.Backend),
		logger:    cfg.logger(),
		connID:    uuid.NewString(),
	}, nil
}

// ConnectionID returns the client's session identifier, present on every
// logged event.
func (c *Client) ConnectionID() string { return c.connID }

// Call invokes the named method and returns its result. A fault answer
// from the peer is returned as a *wire.Fault error; use errors.As or
// FaultError to recover the code and message.
func (c *Client) Call(ctx context.Context, method string, params ...value.Value) (value.Value, error) {
	resp, err := c.Call2(ctx, method, params...)
	if err != nil {
		return nil, err
	}
	if resp.IsFault() {
		return nil, resp.Fault
	}
	return resp.Value, nil
}

// Call2 invokes the named method and returns the decoded response,
// leaving fault handling to the caller. The error covers local encode
// and decode failures and transport failures; a fault answer arrives as
// a non-nil response with Fault set.
func (c *Client) Call2(ctx context.Context, method string, params ...value.Value) (*wire.MethodResponse, error) {
	if method == "" {
		return nil, ErrEmptyMethodName
	}

	request, err := c.codec.EncodeCall(&wire.MethodCall{MethodName: method, Params: params})
	if err != nil {
		return nil, err
	}
	c.logger.Log(log.Event{
		Timestamp:    time.Now(),
		ConnectionID: c.connID,
		Direction:    log.DirectionOut,
		Layer:        log.LayerProtocol,
		Category:     log.CategoryCall,
		Call:         &log.CallEvent{Method: method, ParamCount: len(params), Size: len(request)},
	})

	reply, err := c.transport.Send(ctx, request)
	if err != nil {
		terr := &TransportError{Err: err}
		c.logError(log.LayerTransport, terr.Error(), method)
		return nil, terr
	}

	resp, err := c.codec.DecodeResponse(reply)
	if err != nil {
		c.logError(log.LayerProtocol, err.Error(), method)
		return nil, err
	}

	ev := &log.ResponseEvent{Method: method, Size: len(reply)}
	if resp.IsFault() {
		code := resp.Fault.Code
		ev.FaultCode = &code
		ev.FaultString = resp.Fault.String
	}
	c.logger.Log(log.Event{
		Timestamp:    time.Now(),
		ConnectionID: c.connID,
		Direction:    log.DirectionIn,
		Layer:        log.LayerProtocol,
		Category:     log.CategoryResponse,
		Response:     ev,
	})
	return resp, nil
}

// AsyncResult delivers the outcome of a CallAsync invocation.
type AsyncResult struct {
	Value value.Value
	Err   error
}

// CallAsync invokes the named method on a new goroutine and delivers
// the result on the returned channel. The channel is buffered, so the
// result never blocks even if the caller walks away.
func (c *Client) CallAsync(ctx context.Context, method string, params ...value.Value) <-chan AsyncResult {
	ch := make(chan AsyncResult, 1)
	go func() {
		v, err := c.Call(ctx, method, params...)
		ch <- AsyncResult{Value: v, Err: err}
	}()
	return ch
}

func (c *Client) logError(layer log.Layer, msg, method string) {
	c.logger.Log(log.Event{
		Timestamp:    time.Now(),
		ConnectionID: c.connID,
		Direction:    log.DirectionIn,
		Layer:        layer,
		Category:     log.CategoryError,
		Error:        &log.ErrorEventData{Layer: layer, Message: msg, Context: method},
	})
}
