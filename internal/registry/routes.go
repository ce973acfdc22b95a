package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/riskmap/internal/diagrams"
	"github.com/ziadkadry99/riskmap/internal/hierarchy"
)

// StatusResolver reports live statuses for a set of components.
type StatusResolver interface {
	Resolve(ctx context.Context, ids []hierarchy.ComponentID) map[hierarchy.ComponentID]hierarchy.Status
}

// RoutesDeps holds the dependencies needed to register the map routes.
type RoutesDeps struct {
	Holder   *Holder
	Statuses StatusResolver // optional; live=1 is ignored without it
}

// RegisterRoutes wires up the map browsing REST API endpoints.
func RegisterRoutes(r chi.Router, deps RoutesDeps) {
	h := &routeHandler{deps: deps}
	r.Route("/api/maps", func(r chi.Router) {
		r.Get("/", h.listMaps)
		r.Get("/{name}", h.getMap)
		r.Get("/{name}/tree", h.getTree)
		r.Get("/{name}/path/{component}", h.getPath)
		r.Get("/{name}/diagram", h.getDiagram)
	})
	r.Get("/api/search", h.search)
}

type routeHandler struct {
	deps RoutesDeps
}

type mapSummary struct {
	Name            string                  `json:"name"`
	Description     string                  `json:"description"`
	DescriptionHTML string                  `json:"description_html,omitempty"`
	Source          string                  `json:"source,omitempty"`
	Components      int                     `json:"components"`
	Roots           []hierarchy.ComponentID `json:"roots"`
}

func summarize(m NamedMap) mapSummary {
	return mapSummary{
		Name:            m.Name,
		Description:     m.Description,
		DescriptionHTML: DescriptionHTML(m.Description),
		Source:          m.Source,
		Components:      len(m.Components.AllComponents()),
		Roots:           m.Components.Roots(),
	}
}

func (h *routeHandler) listMaps(w http.ResponseWriter, r *http.Request) {
	reg := h.deps.Holder.Current()
	maps := reg.Maps()
	out := make([]mapSummary, 0, len(maps))
	for _, m := range maps {
		out = append(out, summarize(m))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *routeHandler) getMap(w http.ResponseWriter, r *http.Request) {
	m, ok := h.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"summary":    summarize(*m),
		"components": m.Components,
	})
}

func (h *routeHandler) getTree(w http.ResponseWriter, r *http.Request) {
	m, ok := h.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.buildTree(r, m))
}

func (h *routeHandler) getPath(w http.ResponseWriter, r *http.Request) {
	m, ok := h.lookup(w, r)
	if !ok {
		return
	}
	raw, err := pathParam(r, "component")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid component name"})
		return
	}
	id := hierarchy.NormalizeID(raw)
	path := hierarchy.PathTo(m.Components, id)
	if path == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": fmt.Sprintf("component %q not in map %q", id, m.Name)})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"map":       m.Name,
		"component": id,
		"path":      path,
	})
}

func (h *routeHandler) getDiagram(w http.ResponseWriter, r *http.Request) {
	m, ok := h.lookup(w, r)
	if !ok {
		return
	}
	tree := h.buildTree(r, m)

	switch format := r.URL.Query().Get("format"); format {
	case "", "mermaid":
		writeText(w, diagrams.Mermaid(tree, diagrams.DefaultStylesheet))
	case "text":
		out, err := diagrams.TextString(tree)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		writeText(w, out)
	case "json":
		writeJSON(w, http.StatusOK, diagrams.Flatten(tree, diagrams.DefaultStylesheet))
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("unknown format %q", format)})
	}
}

type searchResponse struct {
	Component hierarchy.ComponentID `json:"component"`
	Outcome   Outcome               `json:"outcome"`
	Matches   []Match               `json:"matches"`
}

func (h *routeHandler) search(w http.ResponseWriter, r *http.Request) {
	id := hierarchy.NormalizeID(r.URL.Query().Get("q"))
	if id == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "q is required"})
		return
	}
	matches := h.deps.Holder.Current().Find(string(id))
	if matches == nil {
		matches = []Match{}
	}
	writeJSON(w, http.StatusOK, searchResponse{
		Component: id,
		Outcome:   Classify(matches),
		Matches:   matches,
	})
}

// buildTree derives the tree for m, expanding the path to ?highlight and
// attaching live statuses when ?live=1 and a resolver is configured.
func (h *routeHandler) buildTree(r *http.Request, m *NamedMap) *hierarchy.TreeNode {
	q := r.URL.Query()
	highlight := hierarchy.NormalizeID(q.Get("highlight"))

	var expand map[hierarchy.ComponentID]bool
	if highlight != "" {
		expand = hierarchy.ExpandSet(hierarchy.PathTo(m.Components, highlight))
	}

	var statusOf hierarchy.StatusFunc
	if h.deps.Statuses != nil && (q.Get("live") == "1" || q.Get("live") == "true") {
		statusOf = hierarchy.StatusLookup(h.deps.Statuses.Resolve(r.Context(), m.Components.AllComponents()))
	}
	return hierarchy.Build(m.Components, statusOf, highlight, expand)
}

func (h *routeHandler) lookup(w http.ResponseWriter, r *http.Request) (*NamedMap, bool) {
	name, err := pathParam(r, "name")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid map name"})
		return nil, false
	}
	m, ok := h.deps.Holder.Current().Get(name)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": fmt.Sprintf("map %q not found", name)})
		return nil, false
	}
	return m, true
}

// pathParam returns the decoded URL parameter key. chi matches against
// RawPath when the request has one, and only then is the value still escaped.
func pathParam(r *http.Request, key string) (string, error) {
	v := chi.URLParam(r, key)
	if r.URL.RawPath == "" {
		return v, nil
	}
	return url.PathUnescape(v)
}

func writeText(w http.ResponseWriter, s string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(s))
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
