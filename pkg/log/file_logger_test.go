package log

import (
	"io"
	"path/filepath"
	"testing"
	"time"
)

func callEvent(conn, method string, ts time.Time) Event {
	return Event{
		Timestamp:    ts,
		ConnectionID: conn,
		Direction:    DirectionIn,
		Layer:        LayerDispatch,
		Category:     CategoryCall,
		Call:         &CallEvent{Method: method, ParamCount: 1},
	}
}

func TestFileLoggerRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.rlog")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}

	base := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	logger.Log(callEvent("conn-a", "math.add", base))
	logger.Log(callEvent("conn-b", "math.sub", base.Add(time.Second)))
	logger.Log(callEvent("conn-a", "math.add", base.Add(2*time.Second)))

	if err := logger.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	// Close is idempotent, and a closed logger drops events silently.
	if err := logger.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}
	logger.Log(callEvent("conn-c", "ignored", base))

	r, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer r.Close()

	var methods []string
	for {
		ev, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		methods = append(methods, ev.Call.Method)
	}
	want := []string{"math.add", "math.sub", "math.add"}
	if len(methods) != len(want) {
		t.Fatalf("read %d events, want %d", len(methods), len(want))
	}
	for i := range want {
		if methods[i] != want[i] {
			t.Errorf("event %d method = %q, want %q", i, methods[i], want[i])
		}
	}
}

func TestFilteredReader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.rlog")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}
	base := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	fc := int32(1)
	logger.Log(callEvent("conn-a", "math.add", base))
	logger.Log(Event{
		Timestamp:    base.Add(time.Second),
		ConnectionID: "conn-a",
		Direction:    DirectionOut,
		Layer:        LayerDispatch,
		Category:     CategoryResponse,
		Response:     &ResponseEvent{Method: "math.add", FaultCode: &fc, FaultString: "bad"},
	})
	logger.Log(callEvent("conn-b", "other.method", base.Add(2*time.Second)))
	if err := logger.Close(); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		filter Filter
		want   int
	}{
		{"by connection", Filter{ConnectionID: "conn-a"}, 2},
		{"by method", Filter{Method: "math.add"}, 2},
		{"faults only", Filter{FaultsOnly: true}, 1},
		{"by category", Filter{Category: ptr(CategoryCall)}, 2},
		{"by direction", Filter{Direction: ptr(DirectionOut)}, 1},
		{"time window", Filter{
			TimeStart: ptr(base.Add(time.Second)),
			TimeEnd:   ptr(base.Add(2 * time.Second)),
		}, 1},
		{"no match", Filter{ConnectionID: "conn-z"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewFilteredReader(path, tt.filter)
			if err != nil {
				t.Fatalf("NewFilteredReader failed: %v", err)
			}
			defer r.Close()

			count := 0
			for {
				if _, err := r.Next(); err == io.EOF {
					break
				} else if err != nil {
					t.Fatalf("Next failed: %v", err)
				}
				count++
			}
			if count != tt.want {
				t.Errorf("matched %d events, want %d", count, tt.want)
			}
		})
	}
}

func ptr[T any](v T) *T { return &v }
