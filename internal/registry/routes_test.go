package registry

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/riskmap/internal/diagrams"
	"github.com/ziadkadry99/riskmap/internal/hierarchy"
)

type fixedResolver map[hierarchy.ComponentID]hierarchy.Status

func (f fixedResolver) Resolve(_ context.Context, ids []hierarchy.ComponentID) map[hierarchy.ComponentID]hierarchy.Status {
	out := make(map[hierarchy.ComponentID]hierarchy.Status, len(ids))
	for _, id := range ids {
		if st, ok := f[id]; ok {
			out[id] = st
		}
	}
	return out
}

func setupRouter(t *testing.T) chi.Router {
	t.Helper()
	r := chi.NewRouter()
	RegisterRoutes(r, RoutesDeps{
		Holder:   NewHolder(sampleRegistry(t)),
		Statuses: fixedResolver{"FICO": hierarchy.StatusDown},
	})
	return r
}

func get(t *testing.T, r http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHTTPListMaps(t *testing.T) {
	rec := get(t, setupRouter(t), "/api/maps")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var got []mapSummary
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 maps, got %d", len(got))
	}
	if got[0].Name != "LoanProcessTree" || got[0].Components != 5 {
		t.Errorf("first map = %+v", got[0])
	}
	if !reflect.DeepEqual(got[1].Roots, ids("ACCTOPEN")) {
		t.Errorf("roots = %v", got[1].Roots)
	}
}

func TestHTTPGetMapNotFound(t *testing.T) {
	rec := get(t, setupRouter(t), "/api/maps/Nope")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestHTTPTree(t *testing.T) {
	rec := get(t, setupRouter(t), "/api/maps/LoanProcessTree/tree?highlight=fico&live=1")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var tree hierarchy.TreeNode
	if err := json.NewDecoder(rec.Body).Decode(&tree); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if tree.ID != "ULSHIP" {
		t.Errorf("root = %q", tree.ID)
	}
	fico := tree.Find("FICO")
	if fico == nil {
		t.Fatal("FICO missing from tree")
	}
	if !fico.Highlighted || fico.Collapsed || fico.Status != hierarchy.StatusDown {
		t.Errorf("FICO = %+v, want highlighted, expanded, down", fico)
	}
	if st := tree.Find("AEAPS").Status; st != hierarchy.StatusUnknown {
		t.Errorf("AEAPS status = %q, want unknown", st)
	}
}

func TestHTTPTreeWithoutLive(t *testing.T) {
	rec := get(t, setupRouter(t), "/api/maps/LoanProcessTree/tree")
	var tree hierarchy.TreeNode
	if err := json.NewDecoder(rec.Body).Decode(&tree); err != nil {
		t.Fatalf("decode: %v", err)
	}
	fico := tree.Find("FICO")
	if fico.Status != hierarchy.StatusUnknown || !fico.Collapsed {
		t.Errorf("FICO = %+v, want unknown and collapsed", fico)
	}
}

func TestHTTPPath(t *testing.T) {
	r := setupRouter(t)

	rec := get(t, r, "/api/maps/LoanProcessTree/path/fico")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var got struct {
		Path []hierarchy.ComponentID `json:"path"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(got.Path, ids("ULSHIP", "ULDEC", "FICO")) {
		t.Errorf("path = %v", got.Path)
	}

	if rec := get(t, r, "/api/maps/LoanProcessTree/path/KYC"); rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestHTTPPathEscapedNames(t *testing.T) {
	reg, err := New([]NamedMap{
		namedMap(t, "Fees 100%", "", entry("FEES", "A%41", "100%", "AA")),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	r := chi.NewRouter()
	RegisterRoutes(r, RoutesDeps{Holder: NewHolder(reg)})

	tests := []struct {
		target string
		want   []hierarchy.ComponentID
	}{
		{"/api/maps/Fees%20100%25/path/A%2541", ids("FEES", "A%41")},
		{"/api/maps/Fees%20100%25/path/100%25", ids("FEES", "100%")},
		{"/api/maps/Fees%20100%25/path/aa", ids("FEES", "AA")},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec := get(t, r, tt.target)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
			}
			var got struct {
				Path []hierarchy.ComponentID `json:"path"`
			}
			if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if !reflect.DeepEqual(got.Path, tt.want) {
				t.Errorf("path = %v, want %v", got.Path, tt.want)
			}
		})
	}
}

func TestHTTPDiagram(t *testing.T) {
	r := setupRouter(t)

	rec := get(t, r, "/api/maps/LoanProcessTree/diagram")
	if !strings.HasPrefix(rec.Body.String(), "flowchart TD") {
		t.Errorf("default diagram = %q", rec.Body.String())
	}

	rec = get(t, r, "/api/maps/LoanProcessTree/diagram?format=text&highlight=uldec")
	if !strings.Contains(rec.Body.String(), "* ULDEC") {
		t.Errorf("text diagram = %q", rec.Body.String())
	}

	rec = get(t, r, "/api/maps/LoanProcessTree/diagram?format=json")
	var d diagrams.Diagram
	if err := json.NewDecoder(rec.Body).Decode(&d); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(d.Nodes) != 5 || len(d.Edges) != 4 {
		t.Errorf("diagram has %d nodes, %d edges", len(d.Nodes), len(d.Edges))
	}

	if rec := get(t, r, "/api/maps/LoanProcessTree/diagram?format=svg"); rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHTTPSearch(t *testing.T) {
	r := setupRouter(t)

	tests := []struct {
		query   string
		code    int
		outcome string
		count   int
	}{
		{"uldec", http.StatusOK, "ambiguous", 2},
		{"kyc", http.StatusOK, "single", 1},
		{"zzz", http.StatusOK, "not_found", 0},
		{"", http.StatusBadRequest, "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rec := get(t, r, "/api/search?q="+tt.query)
			if rec.Code != tt.code {
				t.Fatalf("status = %d, want %d", rec.Code, tt.code)
			}
			if tt.code != http.StatusOK {
				return
			}
			var got struct {
				Outcome string  `json:"outcome"`
				Matches []Match `json:"matches"`
			}
			if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got.Outcome != tt.outcome || len(got.Matches) != tt.count {
				t.Errorf("got %s with %d matches, want %s with %d", got.Outcome, len(got.Matches), tt.outcome, tt.count)
			}
		})
	}
}
