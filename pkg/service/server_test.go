package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xmlrpc-protocol/xmlrpc-go/pkg/dispatch"
	"github.com/xmlrpc-protocol/xmlrpc-go/pkg/value"
	"github.com/xmlrpc-protocol/xmlrpc-go/pkg/wire"
)

// decodeResponse parses server output with a default codec, failing the
// test if the bytes are not a well-formed response document.
func decodeResponse(t *testing.T, data []byte) *wire.MethodResponse {
	t.Helper()
	resp, err := wire.NewCodec(wire.DefaultCapabilities(), nil).DecodeResponse(data)
	require.NoError(t, err, "server output must always be a well-formed response")
	return resp
}

func TestUndecodableRequestYieldsFaultDocument(t *testing.T) {
	_, server := newTestPair(t)

	for _, request := range [][]byte{
		nil,
		[]byte(""),
		[]byte("not xml at all"),
		[]byte("<methodCall><methodName>x</methodName>"), // truncated
		[]byte("<methodResponse></methodResponse>"),      // wrong document type
	} {
		out := server.HandleRequest(context.Background(), request)
		resp := decodeResponse(t, out)
		require.True(t, resp.IsFault(), "request %q should fault", request)
		assert.Equal(t, wire.FaultInvalidRequest, resp.Fault.Code)
	}
}

func TestUnencodableResultYieldsFaultDocument(t *testing.T) {
	client, _ := newTestPair(t)

	// bad.double returns NaN, which no capability set can encode. The
	// client must still receive a well-formed fault, not a broken body.
	resp, err := client.Call2(context.Background(), "bad.double")
	require.NoError(t, err)
	require.True(t, resp.IsFault())
	assert.Equal(t, wire.FaultHandlerError, resp.Fault.Code)
	assert.Contains(t, resp.Fault.String, "bad.double")
}

func TestServerCapabilityRejection(t *testing.T) {
	table := dispatch.NewTable()
	server, err := NewServer(table, Config{
		Capabilities: wire.Capabilities{AllowNil: false, MaxNestingDepth: 4},
	})
	require.NoError(t, err)

	// A nil value in the request is rejected at decode time under the
	// server's capability set.
	request := []byte(`<?xml version="1.0"?><methodCall><methodName>m</methodName>` +
		`<params><param><value><nil/></value></param></params></methodCall>`)
	out := server.HandleRequest(context.Background(), request)
	resp := decodeResponse(t, out)
	require.True(t, resp.IsFault())
	assert.Equal(t, wire.FaultInvalidRequest, resp.Fault.Code)
}

func TestFaultAnswersUnderMinimalDepthLimit(t *testing.T) {
	table := dispatch.NewTable()
	server, err := NewServer(table, Config{
		Capabilities: wire.Capabilities{MaxNestingDepth: 1},
	})
	require.NoError(t, err)

	// A fault struct needs two levels of value nesting. Even a depth
	// limit below that must yield a well-formed fault document rather
	// than no answer at all.
	out := server.HandleRequest(context.Background(), []byte("not xml"))
	resp := decodeResponse(t, out)
	require.True(t, resp.IsFault())
	assert.Equal(t, wire.FaultInvalidRequest, resp.Fault.Code)

	// Dispatch faults keep their own code on the same path.
	out = server.HandleRequest(context.Background(),
		[]byte(`<?xml version="1.0"?><methodCall><methodName>no.such</methodName></methodCall>`))
	resp = decodeResponse(t, out)
	require.True(t, resp.IsFault())
	assert.Equal(t, wire.FaultMethodMissing, resp.Fault.Code)
}

func TestServerIntrospectionOverWire(t *testing.T) {
	client, _ := newTestPair(t)

	result, err := client.Call(context.Background(), "system.listMethods")
	require.NoError(t, err)

	names, ok := result.(value.Array)
	require.True(t, ok)
	got := make([]string, len(names))
	for i, n := range names {
		got[i] = string(n.(value.String))
	}
	assert.Equal(t, []string{
		"math.add",
		"str.concat",
		"test.div",
		"bad.double",
		"system.listMethods",
		"system.methodSignature",
		"system.methodHelp",
	}, got)
}
