package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xmlrpc-protocol/xmlrpc-go/pkg/dispatch"
	"github.com/xmlrpc-protocol/xmlrpc-go/pkg/service"
	"github.com/xmlrpc-protocol/xmlrpc-go/pkg/value"
	"github.com/xmlrpc-protocol/xmlrpc-go/pkg/wire"
)

func newRPCServer(t *testing.T) *service.Server {
	t.Helper()
	table := dispatch.NewTable()
	require.NoError(t, table.Register("echo", func(params []value.Value) (value.Value, error) {
		return value.Array(params), nil
	}))
	require.NoError(t, table.Register("greet", func(params []value.Value) (value.Value, error) {
		return value.String("hello " + string(params[0].(value.String))), nil
	}))
	server, err := service.NewServer(table, service.DefaultConfig())
	require.NoError(t, err)
	return server
}

func newTestClient(t *testing.T, url string, cfg HTTPConfig) *service.Client {
	t.Helper()
	cfg.URL = url
	tr, err := NewHTTPTransport(cfg)
	require.NoError(t, err)
	client, err := service.NewClient(tr, service.DefaultConfig())
	require.NoError(t, err)
	return client
}

func TestHTTPRoundTrip(t *testing.T) {
	ts := httptest.NewServer(NewHandler(newRPCServer(t), HandlerConfig{}))
	defer ts.Close()

	client := newTestClient(t, ts.URL, HTTPConfig{})
	result, err := client.Call(context.Background(), "greet", value.String("world"))
	require.NoError(t, err)
	assert.True(t, value.Equal(result, value.String("hello world")))
}

func TestHTTPFaultPropagation(t *testing.T) {
	ts := httptest.NewServer(NewHandler(newRPCServer(t), HandlerConfig{}))
	defer ts.Close()

	client := newTestClient(t, ts.URL, HTTPConfig{})
	resp, err := client.Call2(context.Background(), "no.such")
	require.NoError(t, err)
	require.True(t, resp.IsFault())
	assert.Equal(t, wire.FaultMethodMissing, resp.Fault.Code)
}

func TestHandlerRejectsNonPOST(t *testing.T) {
	ts := httptest.NewServer(NewHandler(newRPCServer(t), HandlerConfig{}))
	defer ts.Close()

	resp, err := http.Get(ts.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	assert.Equal(t, http.MethodPost, resp.Header.Get("Allow"))
}

func TestHandlerRequestSizeLimit(t *testing.T) {
	ts := httptest.NewServer(NewHandler(newRPCServer(t), HandlerConfig{MaxRequestSize: 64}))
	defer ts.Close()

	body := strings.NewReader(strings.Repeat("x", 128))
	resp, err := http.Post(ts.URL, "text/xml", body)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
}

func TestBasicAuth(t *testing.T) {
	auth := NewBasicAuth()
	require.NoError(t, auth.AddUser("alice", "s3cret"))

	ts := httptest.NewServer(NewHandler(newRPCServer(t), HandlerConfig{Auth: auth}))
	defer ts.Close()

	// No credentials.
	client := newTestClient(t, ts.URL, HTTPConfig{})
	_, err := client.Call(context.Background(), "greet", value.String("x"))
	var terr *service.TransportError
	require.ErrorAs(t, err, &terr)
	assert.ErrorIs(t, err, ErrUnauthorized)

	// Wrong password.
	client = newTestClient(t, ts.URL, HTTPConfig{Username: "alice", Password: "wrong"})
	_, err = client.Call(context.Background(), "greet", value.String("x"))
	assert.ErrorIs(t, err, ErrUnauthorized)

	// Correct credentials.
	client = newTestClient(t, ts.URL, HTTPConfig{Username: "alice", Password: "s3cret"})
	result, err := client.Call(context.Background(), "greet", value.String("x"))
	require.NoError(t, err)
	assert.True(t, value.Equal(result, value.String("hello x")))
}

func TestBasicAuthVerify(t *testing.T) {
	auth := NewBasicAuth()
	require.NoError(t, auth.AddUser("bob", "pw"))

	assert.True(t, auth.Verify("bob", "pw"))
	assert.False(t, auth.Verify("bob", "other"))
	assert.False(t, auth.Verify("nobody", "pw"))
}

func TestHTTPTransportValidation(t *testing.T) {
	_, err := NewHTTPTransport(HTTPConfig{})
	assert.ErrorIs(t, err, ErrEmptyURL)
}

func TestHTTPNonOKStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer ts.Close()

	client := newTestClient(t, ts.URL, HTTPConfig{})
	_, err := client.Call(context.Background(), "greet", value.String("x"))
	var terr *service.TransportError
	require.ErrorAs(t, err, &terr)
	assert.Contains(t, terr.Error(), "500")
}

func TestHTTPRequestHeaders(t *testing.T) {
	var gotContentType, gotUA string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		gotUA = r.Header.Get("User-Agent")
		NewHandler(newRPCServer(t), HandlerConfig{}).ServeHTTP(w, r)
	}))
	defer ts.Close()

	client := newTestClient(t, ts.URL, HTTPConfig{})
	_, err := client.Call(context.Background(), "greet", value.String("x"))
	require.NoError(t, err)
	assert.Equal(t, "text/xml", gotContentType)
	assert.Equal(t, "xmlrpc-go", gotUA)
}
