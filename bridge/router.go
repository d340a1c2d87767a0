// Package bridge serves the local HTTP bridge: the JSON-RPC WebSocket that
// lets a phone or browser drive the client, plus a few plain HTTP routes.
package bridge

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/aravindadityxa/nayamai/app"
	"github.com/aravindadityxa/nayamai/apperr"
	"github.com/aravindadityxa/nayamai/history"
	"github.com/aravindadityxa/nayamai/middleware"
	"github.com/aravindadityxa/nayamai/ws"
)

type Options struct {
	Token   string
	Version string
	DevMode bool
}

// NewRouter wires the bridge routes to a.
func NewRouter(a *app.App, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(requestLogger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Auth(opts.Token))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// WebSocket endpoint (handles its own auth in the first RPC)
	r.Method(http.MethodGet, "/ws", ws.NewRPCHandler(opts.Token, opts.Version, opts.DevMode, a))

	h := &handler{app: a}
	r.Route("/api", func(api chi.Router) {
		api.Get("/history", h.history)
		api.Get("/export", h.export)
		api.Get("/backend/health", h.backendHealth)
	})

	return r
}

type handler struct {
	app *app.App
}

func (h *handler) history(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"messages": h.app.History.Messages()})
}

func (h *handler) export(w http.ResponseWriter, r *http.Request) {
	doc, err := h.app.Export()
	var verr *apperr.ValidationError
	if errors.As(err, &verr) {
		respondError(w, http.StatusNotFound, verr.Message)
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "export failed")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="`+history.ExportFilename(doc.ExportedAt)+`"`)
	if err := history.WriteExport(w, doc); err != nil {
		slog.Error("failed to write export", "error", err)
	}
}

func (h *handler) backendHealth(w http.ResponseWriter, r *http.Request) {
	if err := h.app.Client.Health(r.Context()); err != nil {
		slog.Warn("backend health check failed", "error", err)
		respondError(w, http.StatusBadGateway, "backend unreachable")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"backend": "ok"})
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, detail string) {
	respondJSON(w, status, map[string]string{"detail": detail})
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		slog.Debug("http request",
			"requestId", chimw.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
		)
	})
}
