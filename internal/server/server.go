// Package server exposes the explorer over HTTP and pushes state changes
// to websocket clients.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/sells-group/media-explorer/internal/events"
	"github.com/sells-group/media-explorer/internal/explorer"
	"github.com/sells-group/media-explorer/internal/model"
)

// Options configures the HTTP API.
type Options struct {
	// AllowedOrigins lists CORS origins; empty allows any.
	AllowedOrigins []string
}

// Server routes API requests to an Explorer.
type Server struct {
	exp      *explorer.Explorer
	hub      *Hub
	router   chi.Router
	upgrader websocket.Upgrader
}

// New creates a Server and subscribes its hub to state changes.
func New(exp *explorer.Explorer, opts Options) *Server {
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	s := &Server{
		exp: exp,
		hub: NewHub(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return originAllowed(origins, r.Header.Get("Origin"))
			},
		},
	}

	exp.Bus().On(events.StateChanged, events.Typed(func(_ context.Context, snap explorer.Snapshot) error {
		s.hub.BroadcastJSON(Message{Type: MessageStateChanged, Snapshot: &snap})
		return nil
	}))

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Get("/ws", s.handleWS)
	r.Handle("/metrics", promhttp.Handler())
	r.Route("/api", func(r chi.Router) {
		r.Get("/tree", s.handleTree)
		r.Get("/state", s.handleState)
		r.Get("/data", s.handleData)
		r.Get("/view", s.handleView)
		r.Get("/attributes", s.handleAttributes)
		r.Post("/events/path", s.handlePathEvent)
		r.Post("/events/jump", s.handleJumpEvent)
	})
	s.router = r
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Hub returns the websocket hub.
func (s *Server) Hub() *Hub { return s.hub }

func originAllowed(origins []string, origin string) bool {
	return origin == "" || slices.Contains(origins, "*") || slices.Contains(origins, origin)
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		zap.L().Debug("server: request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("server: encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"records": s.exp.Dataset().Len(),
		"clients": s.hub.Count(),
	})
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	depth := -1
	if d := r.URL.Query().Get("depth"); d != "" {
		n, err := strconv.Atoi(d)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "depth must be a non-negative integer")
			return
		}
		depth = n
	}
	saturation, ok := optionalAttribute(r.URL.Query().Get("saturation"))
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown saturation attribute")
		return
	}
	writeJSON(w, http.StatusOK, BuildTree(s.exp.Tree(), s.exp.Colors(), saturation, depth))
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.exp.Snapshot())
}

func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	path := model.FilterPath(r.URL.Query()["path"])
	records := s.exp.FilteredData(path)
	writeJSON(w, http.StatusOK, map[string]any{
		"path":            path.Clone(),
		"activeAttribute": s.exp.ActiveAttribute(path),
		"count":           len(records),
		"records":         records,
	})
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	attr, ok := optionalAttribute(r.URL.Query().Get("attribute"))
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown attribute")
		return
	}
	writeJSON(w, http.StatusOK, s.exp.View(model.FilterPath(r.URL.Query()["path"]), attr))
}

func (s *Server) handleAttributes(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"levels":  s.exp.Levels(),
		"palette": s.exp.Colors().Palette(),
	})
}

func (s *Server) handlePathEvent(w http.ResponseWriter, r *http.Request) {
	var ev model.NavigationEvent
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.exp.Navigate(r.Context(), ev.Path, ev.IsGoBack); err != nil {
		zap.L().Error("server: path event", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "navigation failed")
		return
	}
	writeJSON(w, http.StatusOK, s.exp.Snapshot())
}

func (s *Server) handleJumpEvent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Attribute string `json:"attribute"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	attr, ok := model.ParseAttribute(req.Attribute)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown attribute")
		return
	}
	if err := s.exp.JumpTo(r.Context(), attr); err != nil {
		zap.L().Error("server: jump event", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "navigation failed")
		return
	}
	writeJSON(w, http.StatusOK, s.exp.Snapshot())
}

// optionalAttribute parses an attribute query value; empty is allowed.
func optionalAttribute(s string) (model.Attribute, bool) {
	if s == "" {
		return "", true
	}
	return model.ParseAttribute(s)
}
