package service

import (
	"context"
	"time"

	"github.com/xmlrpc-protocol/xmlrpc-go/pkg/dispatch"
	"github.com/xmlrpc-protocol/xmlrpc-go/pkg/log"
	"github.com/xmlrpc-protocol/xmlrpc-go/pkg/wire"
)

// faultDocDepth is the value nesting a fault document needs: the
// {faultCode, faultString} struct at depth 1, its members at depth 2.
const faultDocDepth = 2

// Server answers encoded method call documents against a dispatch table.
// It is safe for concurrent use.
type Server struct {
	table      *dispatch.Table
	codec      *wire.Codec
	faultCodec *wire.Codec
	logger     log.Logger
}

// NewServer creates a Server dispatching against table.
func NewServer(table *dispatch.Table, cfg Config) (*Server, error) {
	if table == nil {
		return nil, ErrNilTable
	}

	// Fault documents must encode under any configured depth limit, so
	// the fault codec floors MaxNestingDepth at the fault struct's own
	// nesting.
	faultCaps := cfg.Capabilities
	if faultCaps.MaxNestingDepth > 0 && faultCaps.MaxNestingDepth < faultDocDepth {
		faultCaps.MaxNestingDepth = faultDocDepth
	}

	return &Server{
		table:      table,
		codec:      wire.NewCodec(cfg.Capabilities, cfg.Backend),
		faultCodec: wire.NewCodec(faultCaps, cfg.Backend),
		logger:     cfg.logger(),
	}, nil
}

// Table returns the server's dispatch table.
func (s *Server) Table() *dispatch.Table { return s.table }

// HandleRequest decodes one method call document, dispatches it, and
// returns the encoded response. The returned bytes are always a
// well-formed response document: an undecodable request yields an
// invalid-request fault, and a result the codec cannot encode yields a
// fault describing the encoding failure.
func (s *Server) HandleRequest(ctx context.Context, request []byte) []byte {
	return s.HandleRequestFrom(ctx, request, "", "")
}

// HandleRequestFrom is HandleRequest with transport-supplied metadata
// for logging: a connection or request ID and the peer address.
func (s *Server) HandleRequestFrom(ctx context.Context, request []byte, connID, remoteAddr string) []byte {
	start := time.Now()

	call, err := s.codec.DecodeCall(request)
	if err != nil {
		s.logger.Log(log.Event{
			Timestamp:    time.Now(),
			ConnectionID: connID,
			Direction:    log.DirectionIn,
			Layer:        log.LayerProtocol,
			Category:     log.CategoryError,
			RemoteAddr:   remoteAddr,
			Error:        &log.ErrorEventData{Layer: log.LayerProtocol, Message: err.Error(), Context: "decode call"},
		})
		return s.encodeFault(wire.Faultf(wire.FaultInvalidRequest,
			"invalid request: %v", err))
	}

	s.logger.Log(log.Event{
		Timestamp:    time.Now(),
		ConnectionID: connID,
		Direction:    log.DirectionIn,
		Layer:        log.LayerDispatch,
		Category:     log.CategoryCall,
		RemoteAddr:   remoteAddr,
		Call:         &log.CallEvent{Method: call.MethodName, ParamCount: len(call.Params), Size: len(request)},
	})

	resp := s.table.Dispatch(call.MethodName, call.Params)

	var out []byte
	if resp.IsFault() {
		out = s.encodeFault(resp.Fault)
	} else if out, err = s.codec.EncodeResponse(resp); err != nil {
		// The handler produced a value the capability set rejects.
		resp = &wire.MethodResponse{Fault: wire.Faultf(wire.FaultHandlerError,
			"cannot encode response for %s: %v", call.MethodName, err)}
		out = s.encodeFault(resp.Fault)
	}

	ev := &log.ResponseEvent{Method: call.MethodName, Size: len(out)}
	elapsed := time.Since(start)
	ev.ProcessingTime = &elapsed
	if resp.IsFault() {
		code := resp.Fault.Code
		ev.FaultCode = &code
		ev.FaultString = resp.Fault.String
	}
	s.logger.Log(log.Event{
		Timestamp:    time.Now(),
		ConnectionID: connID,
		Direction:    log.DirectionOut,
		Layer:        log.LayerDispatch,
		Category:     log.CategoryResponse,
		RemoteAddr:   remoteAddr,
		Response:     ev,
	})
	return out
}

// encodeFault renders f as a fault document. The fault codec admits the
// fault struct's nesting and its payload is plain ints and strings, so
// encoding cannot fail.
func (s *Server) encodeFault(f *wire.Fault) []byte {
	out, _ := s.faultCodec.EncodeFault(f)
	return out
}
