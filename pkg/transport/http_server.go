package transport

import (
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/xmlrpc-protocol/xmlrpc-go/pkg/service"
)

// DefaultMaxRequestSize caps the request body (default: 10MB).
const DefaultMaxRequestSize = 10 << 20

// HandlerConfig configures a Handler.
type HandlerConfig struct {
	// MaxRequestSize caps the request body (default: DefaultMaxRequestSize).
	MaxRequestSize int64

	// Auth, when non-nil, requires HTTP Basic authentication.
	Auth *BasicAuth
}

// Handler adapts a service.Server to net/http. Each request gets a
// fresh UUID carried through the server's protocol log events.
type Handler struct {
	server *service.Server
	config HandlerConfig
}

// NewHandler creates an http.Handler serving rpc.
func NewHandler(rpc *service.Server, config HandlerConfig) *Handler {
	if config.MaxRequestSize == 0 {
		config.MaxRequestSize = DefaultMaxRequestSize
	}
	return &Handler{server: rpc, config: config}
}

// ServeHTTP handles one method call request.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if h.config.Auth != nil {
		user, pass, ok := r.BasicAuth()
		if !ok || !h.config.Auth.Verify(user, pass) {
			w.Header().Set("WWW-Authenticate", `Basic realm="xmlrpc"`)
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, h.config.MaxRequestSize+1))
	if err != nil {
		http.Error(w, "read error", http.StatusBadRequest)
		return
	}
	if int64(len(body)) > h.config.MaxRequestSize {
		http.Error(w, "request too large", http.StatusRequestEntityTooLarge)
		return
	}

	requestID := uuid.NewString()
	response := h.server.HandleRequestFrom(r.Context(), body, requestID, r.RemoteAddr)

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(response)
}

// Compile-time interface satisfaction check.
var _ http.Handler = (*Handler)(nil)
