package service

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xmlrpc-protocol/xmlrpc-go/pkg/dispatch"
	"github.com/xmlrpc-protocol/xmlrpc-go/pkg/value"
	"github.com/xmlrpc-protocol/xmlrpc-go/pkg/wire"
)

// loopback carries requests to a Server in-process.
type loopback struct {
	server *Server
}

func (l *loopback) Send(ctx context.Context, request []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return l.server.HandleRequest(ctx, request), nil
}

// failingTransport always fails at the transport layer.
type failingTransport struct{ err error }

func (f *failingTransport) Send(context.Context, []byte) ([]byte, error) {
	return nil, f.err
}

// garbageTransport returns bytes that are not a response document.
type garbageTransport struct{}

func (garbageTransport) Send(context.Context, []byte) ([]byte, error) {
	return []byte("<html>not xml-rpc</html>"), nil
}

func newTestPair(t *testing.T) (*Client, *Server) {
	t.Helper()
	table := dispatch.NewTable()
	require.NoError(t, table.Register("math.add", func(params []value.Value) (value.Value, error) {
		return params[0].(value.Int) + params[1].(value.Int), nil
	}))
	require.NoError(t, table.Register("str.concat", func(params []value.Value) (value.Value, error) {
		return params[0].(value.String) + params[1].(value.String), nil
	}))
	require.NoError(t, table.Register("test.div", func(params []value.Value) (value.Value, error) {
		b := params[1].(value.Int)
		if b == 0 {
			return nil, &wire.Fault{Code: 1, String: "division by zero"}
		}
		return params[0].(value.Int) / b, nil
	}))
	require.NoError(t, table.Register("bad.double", func([]value.Value) (value.Value, error) {
		return value.Double(math.NaN()), nil
	}))

	server, err := NewServer(table, DefaultConfig())
	require.NoError(t, err)
	client, err := NewClient(&loopback{server: server}, DefaultConfig())
	require.NoError(t, err)
	return client, server
}

func TestCallRoundTrip(t *testing.T) {
	client, _ := newTestPair(t)

	result, err := client.Call(context.Background(), "math.add", value.Int(2), value.Int(40))
	require.NoError(t, err)
	assert.True(t, value.Equal(result, value.Int(42)))
}

func TestCallMultibyteStrings(t *testing.T) {
	client, _ := newTestPair(t)

	result, err := client.Call(context.Background(), "str.concat",
		value.String("héllo "), value.String("wörld 你好"))
	require.NoError(t, err)
	assert.True(t, value.Equal(result, value.String("héllo wörld 你好")))
}

func TestCallFaultAsError(t *testing.T) {
	client, _ := newTestPair(t)

	_, err := client.Call(context.Background(), "test.div", value.Int(1), value.Int(0))
	require.Error(t, err)

	var fault *wire.Fault
	require.True(t, errors.As(err, &fault))
	assert.Equal(t, int32(1), fault.Code)
	assert.Equal(t, "division by zero", fault.String)

	f, ok := FaultError(err)
	require.True(t, ok)
	assert.Equal(t, fault, f)
}

func TestCall2FaultIsNotAnError(t *testing.T) {
	client, _ := newTestPair(t)

	resp, err := client.Call2(context.Background(), "test.div", value.Int(1), value.Int(0))
	require.NoError(t, err)
	require.True(t, resp.IsFault())
	assert.Equal(t, int32(1), resp.Fault.Code)

	resp, err = client.Call2(context.Background(), "math.add", value.Int(1), value.Int(2))
	require.NoError(t, err)
	require.False(t, resp.IsFault())
	assert.True(t, value.Equal(resp.Value, value.Int(3)))
}

func TestCallMethodMissing(t *testing.T) {
	client, _ := newTestPair(t)

	_, err := client.Call(context.Background(), "no.such.method")
	var fault *wire.Fault
	require.True(t, errors.As(err, &fault))
	assert.Equal(t, wire.FaultMethodMissing, fault.Code)
}

func TestTransportFailureIsNotAFault(t *testing.T) {
	cause := errors.New("connection refused")
	client, err := NewClient(&failingTransport{err: cause}, DefaultConfig())
	require.NoError(t, err)

	_, err = client.Call(context.Background(), "math.add", value.Int(1), value.Int(2))
	require.Error(t, err)

	var terr *TransportError
	require.True(t, errors.As(err, &terr))
	assert.ErrorIs(t, err, cause)

	_, isFault := FaultError(err)
	assert.False(t, isFault)
}

func TestGarbageReplyIsParseError(t *testing.T) {
	client, err := NewClient(garbageTransport{}, DefaultConfig())
	require.NoError(t, err)

	_, err = client.Call(context.Background(), "math.add", value.Int(1), value.Int(2))
	require.Error(t, err)

	var perr *wire.ParseError
	assert.True(t, errors.As(err, &perr))
	_, isFault := FaultError(err)
	assert.False(t, isFault)
}

func TestCallEmptyMethodName(t *testing.T) {
	client, _ := newTestPair(t)

	_, err := client.Call(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyMethodName)
}

func TestConstructorValidation(t *testing.T) {
	_, err := NewClient(nil, DefaultConfig())
	assert.ErrorIs(t, err, ErrNilTransport)

	_, err = NewServer(nil, DefaultConfig())
	assert.ErrorIs(t, err, ErrNilTable)
}

func TestCallAsync(t *testing.T) {
	client, _ := newTestPair(t)

	ch := client.CallAsync(context.Background(), "math.add", value.Int(20), value.Int(22))
	res := <-ch
	require.NoError(t, res.Err)
	assert.True(t, value.Equal(res.Value, value.Int(42)))

	ch = client.CallAsync(context.Background(), "test.div", value.Int(1), value.Int(0))
	res = <-ch
	var fault *wire.Fault
	require.True(t, errors.As(res.Err, &fault))
	assert.Equal(t, int32(1), fault.Code)
}
