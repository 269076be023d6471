package transport

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// MCPHandler handles tool dispatch for JSON-RPC calls.
type MCPHandler interface {
	Handle(ctx context.Context, userID, method string, params json.RawMessage) (any, error)
}

// CodedError is implemented by errors that carry an API error code.
type CodedError interface {
	error
	CodeValue() string
}

// Server wires HTTP handlers.
type Server struct {
	handler MCPHandler
	logger  *slog.Logger
}

// Option configures the router.
type Option func(*routes)

type routes struct {
	mcp     http.Handler
	metrics http.Handler
	logger  *slog.Logger
}

// WithMCP mounts a streamable MCP handler at /mcp. It authenticates itself.
func WithMCP(h http.Handler) Option {
	return func(r *routes) { r.mcp = h }
}

// WithMetrics exposes h at /metrics.
func WithMetrics(h http.Handler) Option {
	return func(r *routes) { r.metrics = h }
}

// WithLogger logs handler failures.
func WithLogger(logger *slog.Logger) Option {
	return func(r *routes) { r.logger = logger }
}

// NewServer creates an HTTP server router with middleware. The JSON-RPC
// endpoint at /rpc sits behind authMiddleware when one is given.
func NewServer(handler MCPHandler, authMiddleware func(http.Handler) http.Handler, opts ...Option) *chi.Mux {
	cfg := routes{}
	for _, opt := range opts {
		opt(&cfg)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	srv := &Server{handler: handler, logger: cfg.logger}

	r.Get("/health", srv.handleHealth)
	if cfg.metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.metrics)
	}
	if cfg.mcp != nil {
		r.Handle("/mcp", cfg.mcp)
		r.Handle("/mcp/*", cfg.mcp)
	}

	r.Group(func(r chi.Router) {
		if authMiddleware != nil {
			r.Use(authMiddleware)
		} else {
			r.Use(DefaultUser(DefaultUserID))
		}
		r.Post("/rpc", srv.handleRPC)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleRPC(w http.ResponseWriter, r *http.Request) {
	req, err := ParseRequest(r.Body)
	if err != nil {
		WriteError(w, nil, RequestErrorCode(err), err.Error(), nil)
		return
	}

	userID, ok := UserFromContext(r.Context())
	if !ok || userID == "" {
		http.Error(w, "missing user", http.StatusUnauthorized)
		return
	}

	result, err := s.handler.Handle(r.Context(), userID, req.Method, req.Params)
	if err != nil {
		var coded CodedError
		switch {
		case errors.Is(err, ErrUnauthorized):
			http.Error(w, "unauthorized", http.StatusUnauthorized)
		case errors.As(err, &coded):
			WriteError(w, req.ID, ErrInvalidParams, err.Error(), map[string]string{"code": coded.CodeValue()})
		default:
			if s.logger != nil {
				s.logger.Error("rpc call failed", "method", req.Method, "user_id", userID, "error", err)
			}
			WriteError(w, req.ID, ErrInternal, err.Error(), nil)
		}
		return
	}

	WriteResult(w, req.ID, result)
}
