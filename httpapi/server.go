// Package httpapi provides an HTTP surface for the tool dispatcher: list
// tools, call a tool, and a health check.
package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	hevymcp "github.com/jamoski3112/hevy-mcp"
)

const maxBodyBytes = 1 << 20

// Config contains the server settings.
type Config struct {
	// Token, when set, must be presented as "Authorization: Bearer <token>" on /mcp routes.
	Token string
	// RequestTimeout bounds each request. Defaults to 60s.
	RequestTimeout time.Duration
	Logger         *slog.Logger
}

// Server routes HTTP requests to a Dispatcher.
type Server struct {
	cfg        Config
	dispatcher *hevymcp.Dispatcher
	router     *chi.Mux
	logger     *slog.Logger
}

// New constructs a Server with middleware and routes configured.
func New(d *hevymcp.Dispatcher, cfg Config) *Server {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 60 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		cfg:        cfg,
		dispatcher: d,
		router:     chi.NewRouter(),
		logger:     logger,
	}
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.logRequests)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(cfg.RequestTimeout))

	s.router.Get("/health", s.handleHealth)

	s.router.Route("/mcp", func(r chi.Router) {
		r.Use(s.auth)
		r.Get("/tools", s.handleListTools)
		r.Post("/call", s.handleCall)
	})
	return s
}

// Router exposes the root HTTP handler for the server.
func (s *Server) Router() http.Handler { return s.router }

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.InfoContext(r.Context(), "http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func (s *Server) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.Token == "" {
			next.ServeHTTP(w, r)
			return
		}
		if r.Header.Get("Authorization") != "Bearer "+s.cfg.Token {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleListTools returns the descriptors in registration order. The optional
// "tag" query parameter keeps only tools carrying that tag.
func (s *Server) handleListTools(w http.ResponseWriter, r *http.Request) {
	tag := r.URL.Query().Get("tag")
	tools := s.dispatcher.Registry().Tools()
	out := make([]hevymcp.Descriptor, 0, len(tools))
	for _, t := range tools {
		if tag != "" && !slices.Contains(t.Tags(), tag) {
			continue
		}
		out = append(out, t.Descriptor())
	}
	writeJSON(w, http.StatusOK, map[string]any{"tools": out})
}

func (s *Server) handleCall(w http.ResponseWriter, r *http.Request) {
	var req CallRequest
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil || json.Unmarshal(body, &req) != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	args, err := hevymcp.DecodeArguments(req.Arguments)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResult(err))
		return
	}
	resp, err := s.dispatcher.Dispatch(r.Context(), hevymcp.Call{Name: req.Name, Arguments: args})
	if err != nil {
		writeJSON(w, http.StatusBadGateway, errorResult(err))
		return
	}
	if resp.IsError() {
		writeJSON(w, statusFor(resp.Err), errorResult(resp.Err))
		return
	}
	writeJSON(w, http.StatusOK, CallResult{Content: []Content{{Type: "text", Text: string(resp.Payload)}}})
}

// statusFor maps a displayable error to its HTTP status. Remote rejections
// are successful calls whose result is an error, so they stay 200.
func statusFor(err error) int {
	switch {
	case errors.Is(err, hevymcp.ErrUnknownTool):
		return http.StatusNotFound
	case errors.Is(err, hevymcp.ErrInvalidArguments):
		return http.StatusBadRequest
	default:
		return http.StatusOK
	}
}

func errorResult(err error) CallResult {
	return CallResult{Content: []Content{{Type: "text", Text: err.Error()}}, IsError: true}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
