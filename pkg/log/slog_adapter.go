package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes protocol events to an slog.Logger.
// Useful for development when you want to see protocol events in console.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger at Debug level.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("conn_id", event.ConnectionID),
		slog.String("direction", event.Direction.String()),
		slog.String("layer", event.Layer.String()),
		slog.String("category", event.Category.String()),
	}

	if event.RemoteAddr != "" {
		attrs = append(attrs, slog.String("remote_addr", event.RemoteAddr))
	}

	// Add type-specific attributes
	switch {
	case event.Call != nil:
		attrs = append(attrs,
			slog.String("method", event.Call.Method),
			slog.Int("param_count", event.Call.ParamCount),
		)
		if event.Call.Size > 0 {
			attrs = append(attrs, slog.Int("size", event.Call.Size))
		}
	case event.Response != nil:
		attrs = append(attrs, slog.String("method", event.Response.Method))
		if event.Response.FaultCode != nil {
			attrs = append(attrs,
				slog.Int("fault_code", int(*event.Response.FaultCode)),
				slog.String("fault_string", event.Response.FaultString),
			)
		}
		if event.Response.Size > 0 {
			attrs = append(attrs, slog.Int("size", event.Response.Size))
		}
		if event.Response.ProcessingTime != nil {
			attrs = append(attrs, slog.Duration("processing_time", *event.Response.ProcessingTime))
		}
	case event.Error != nil:
		attrs = append(attrs,
			slog.String("error_layer", event.Error.Layer.String()),
			slog.String("error_msg", event.Error.Message),
		)
		if event.Error.Context != "" {
			attrs = append(attrs, slog.String("error_context", event.Error.Context))
		}
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "protocol", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
