package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/TraceMachina/nativelink-mcp-server/internal/config"
	"github.com/TraceMachina/nativelink-mcp-server/internal/nativelink"
	"github.com/TraceMachina/nativelink-mcp-server/internal/rpc"
)

// maxBodySize bounds one HTTP request body (4 MiB).
const maxBodySize = 4 << 20

// shutdownTimeout is how long in-flight requests get to finish.
const shutdownTimeout = 10 * time.Second

// HTTP serves JSON-RPC over one-shot POST requests.
type HTTP struct {
	handler *rpc.Handler
	port    int
	log     *log.Logger
}

// NewHTTP creates the request/response binding.
func NewHTTP(handler *rpc.Handler, cfg config.Config, logger *log.Logger) *HTTP {
	return &HTTP{handler: handler, port: cfg.Port, log: logger}
}

// Router builds the HTTP surface:
//
//	OPTIONS *   -> 204 with permissive CORS headers
//	GET  /ping  -> 200 "pong"
//	POST /mcp   -> JSON-RPC dispatch, always 200 with the envelope as body
//	anything else -> 404
//
// Tool-level failures ride inside the JSON-RPC body, never the HTTP
// status.
func (s *HTTP) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors)

	// The surface is exactly the routes below; a wrong method on a known
	// path is as unknown as a wrong path.
	r.MethodNotAllowed(http.NotFound)

	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("pong"))
	})
	r.Post("/mcp", s.handleMCP)

	return r
}

// cors applies permissive cross-origin headers to every response and
// answers pre-flight OPTIONS immediately.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-API-Key")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *HTTP) handleMCP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		http.Error(w, "failed to read request body", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	if key, ok := apiKeyFromHeaders(r.Header); ok {
		ctx = nativelink.WithAPIKey(ctx, key)
	}

	resp := s.handler.HandleMessage(ctx, body)
	if resp == nil {
		// Notification: acknowledged, nothing to say.
		w.WriteHeader(http.StatusAccepted)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(resp)
}

// apiKeyFromHeaders extracts a per-request credential. Priority is fixed:
// a Bearer Authorization header wins over the X-API-Key family (header
// names are matched case-insensitively, so every casing of x-api-key is
// covered). First match wins.
func apiKeyFromHeaders(h http.Header) (string, bool) {
	if auth := h.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		if key := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer ")); key != "" {
			return key, true
		}
	}
	if key := strings.TrimSpace(h.Get("X-Api-Key")); key != "" {
		return key, true
	}
	return "", false
}

// ListenAndServe runs the HTTP binding until ctx is cancelled, then shuts
// down gracefully. A failure to bind the port is fatal and returned.
func (s *HTTP) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.Router(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http transport listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
		s.log.Info("http transport shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	}
}
