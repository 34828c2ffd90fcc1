package transport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/xmlrpc-protocol/xmlrpc-go/pkg/service"
)

// Transport errors.
var (
	ErrEmptyURL     = errors.New("empty endpoint URL")
	ErrUnauthorized = errors.New("unauthorized")
)

const (
	// DefaultTimeout bounds one request round trip.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxResponseSize caps the response body (default: 10MB).
	DefaultMaxResponseSize = 10 << 20

	contentType = "text/xml"
	userAgent   = "xmlrpc-go"
)

// HTTPConfig configures an HTTPTransport.
type HTTPConfig struct {
	// URL is the endpoint to POST requests to.
	URL string

	// Username and Password enable HTTP Basic authentication when
	// Username is non-empty.
	Username string
	Password string

	// UserAgent overrides the default User-Agent header.
	UserAgent string

	// Timeout bounds one round trip (default: DefaultTimeout).
	// Ignored when Client is set.
	Timeout time.Duration

	// MaxResponseSize caps the response body (default: DefaultMaxResponseSize).
	MaxResponseSize int64

	// Client overrides the underlying *http.Client, e.g. for custom TLS.
	Client *http.Client
}

// HTTPTransport carries request documents over HTTP POST.
// It is safe for concurrent use.
type HTTPTransport struct {
	config HTTPConfig
	client *http.Client
}

// NewHTTPTransport creates an HTTPTransport for the configured endpoint.
func NewHTTPTransport(config HTTPConfig) (*HTTPTransport, error) {
	if config.URL == "" {
		return nil, ErrEmptyURL
	}
	if config.UserAgent == "" {
		config.UserAgent = userAgent
	}
	if config.MaxResponseSize == 0 {
		config.MaxResponseSize = DefaultMaxResponseSize
	}

	client := config.Client
	if client == nil {
		timeout := config.Timeout
		if timeout == 0 {
			timeout = DefaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}

	return &HTTPTransport{config: config, client: client}, nil
}

// Send POSTs one request document and returns the response body.
func (t *HTTPTransport) Send(ctx context.Context, request []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.config.URL, bytes.NewReader(request))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("User-Agent", t.config.UserAgent)
	if t.config.Username != "" {
		req.SetBasicAuth(t.config.Username, t.config.Password)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, ErrUnauthorized
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, t.config.MaxResponseSize+1))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if int64(len(body)) > t.config.MaxResponseSize {
		return nil, fmt.Errorf("response exceeds %d bytes", t.config.MaxResponseSize)
	}
	return body, nil
}

// Compile-time interface satisfaction check.
var _ service.Transport = (*HTTPTransport)(nil)
