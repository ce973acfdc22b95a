package status

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/riskmap/internal/hierarchy"
)

// RoutesDeps holds the dependencies needed to register the status routes.
type RoutesDeps struct {
	Client Client
	Store  *Store // optional; snapshots are skipped without it
	Logger *slog.Logger
}

// RegisterRoutes wires up the status proxy and history endpoints.
func RegisterRoutes(r chi.Router, deps RoutesDeps) {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	h := &routeHandler{deps: deps}
	r.Get("/status/{componentName}", h.getStatus)
	r.Get("/api/status/{componentName}/history", h.getHistory)
}

type routeHandler struct {
	deps RoutesDeps
}

func (h *routeHandler) getStatus(w http.ResponseWriter, r *http.Request) {
	name, err := pathParam(r, "componentName")
	if err != nil || strings.TrimSpace(name) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid component name"})
		return
	}

	st, err := h.deps.Client.Status(r.Context(), name)
	snap := Snapshot{Component: hierarchy.ComponentID(name), Status: st}
	if err != nil {
		h.deps.Logger.Error("status lookup failed", "component", name, "error", err)
		snap.Status = hierarchy.StatusUnknown
		snap.Error = err.Error()
	}
	if h.deps.Store != nil {
		if rerr := h.deps.Store.Record(r.Context(), snap); rerr != nil {
			h.deps.Logger.Warn("recording status snapshot failed", "component", name, "error", rerr)
		}
	}

	if err != nil {
		writeJSON(w, http.StatusInternalServerError, statusResponse{Status: string(hierarchy.StatusUnknown)})
		return
	}
	if st == "" {
		st = hierarchy.StatusUnknown
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: string(st)})
}

func (h *routeHandler) getHistory(w http.ResponseWriter, r *http.Request) {
	if h.deps.Store == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "status history is not enabled"})
		return
	}
	name, err := pathParam(r, "componentName")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid component name"})
		return
	}

	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "limit must be a non-negative integer"})
			return
		}
		limit = n
	}

	snaps, err := h.deps.Store.History(r.Context(), hierarchy.ComponentID(name), limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if snaps == nil {
		snaps = []Snapshot{}
	}
	writeJSON(w, http.StatusOK, snaps)
}

func pathParam(r *http.Request, key string) (string, error) {
	v := chi.URLParam(r, key)
	if r.URL.RawPath == "" {
		return v, nil
	}
	return url.PathUnescape(v)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
