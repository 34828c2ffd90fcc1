package log

import (
	"time"
)

// Event represents a protocol log event captured at any layer.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// ConnectionID identifies the client session or server request (UUID).
	ConnectionID string `cbor:"2,keyasint"`

	// Direction indicates message flow.
	Direction Direction `cbor:"3,keyasint"`

	// Layer where the event was captured.
	Layer Layer `cbor:"4,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"5,keyasint"`

	// RemoteAddr is the peer address, when known.
	RemoteAddr string `cbor:"6,keyasint,omitempty"`

	// Type-specific payload (one of these will be set).
	Call     *CallEvent      `cbor:"7,keyasint,omitempty"` // Method calls
	Response *ResponseEvent  `cbor:"8,keyasint,omitempty"` // Responses and faults
	Error    *ErrorEventData `cbor:"9,keyasint,omitempty"` // Errors at any layer
}

// Direction indicates the direction of message flow.
type Direction uint8

const (
	// DirectionIn indicates an incoming message.
	DirectionIn Direction = 0
	// DirectionOut indicates an outgoing message.
	DirectionOut Direction = 1
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	default:
		return "UNKNOWN"
	}
}

// Layer indicates which protocol layer captured the event.
type Layer uint8

const (
	// LayerTransport is the byte transport layer (HTTP or custom).
	LayerTransport Layer = 0
	// LayerProtocol is the XML encoding layer (documents, values).
	LayerProtocol Layer = 1
	// LayerDispatch is the method dispatch layer.
	LayerDispatch Layer = 2
)

// String returns the layer name.
func (l Layer) String() string {
	switch l {
	case LayerTransport:
		return "TRANSPORT"
	case LayerProtocol:
		return "PROTOCOL"
	case LayerDispatch:
		return "DISPATCH"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryCall indicates a method call.
	CategoryCall Category = 0
	// CategoryResponse indicates a method response or fault.
	CategoryResponse Category = 1
	// CategoryError indicates an error event.
	CategoryError Category = 2
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryCall:
		return "CALL"
	case CategoryResponse:
		return "RESPONSE"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// CallEvent captures an outgoing or incoming method call.
type CallEvent struct {
	// Method is the qualified method name.
	Method string `cbor:"1,keyasint"`

	// ParamCount is the number of call parameters.
	ParamCount int `cbor:"2,keyasint"`

	// Size is the encoded document size in bytes.
	Size int `cbor:"3,keyasint,omitempty"`
}

// ResponseEvent captures a method response or fault.
type ResponseEvent struct {
	// Method is the name of the call being answered.
	Method string `cbor:"1,keyasint"`

	// FaultCode is set when the response is a fault.
	FaultCode *int32 `cbor:"2,keyasint,omitempty"`

	// FaultString is the fault message (fault responses only).
	FaultString string `cbor:"3,keyasint,omitempty"`

	// Size is the encoded document size in bytes.
	Size int `cbor:"4,keyasint,omitempty"`

	// ProcessingTime is the duration from call receipt to response send
	// (server side only). Stored as nanoseconds.
	ProcessingTime *time.Duration `cbor:"5,keyasint,omitempty"`
}

// IsFault reports whether the response carried a fault.
func (r *ResponseEvent) IsFault() bool {
	return r.FaultCode != nil
}

// ErrorEventData captures errors at any layer.
type ErrorEventData struct {
	// Layer where the error occurred.
	Layer Layer `cbor:"1,keyasint"`

	// Message is the error message.
	Message string `cbor:"2,keyasint"`

	// Context describes what operation was being performed.
	Context string `cbor:"3,keyasint,omitempty"`
}
