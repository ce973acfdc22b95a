package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ziadkadry99/riskmap/internal/db"
	"github.com/ziadkadry99/riskmap/internal/hierarchy"
	"github.com/ziadkadry99/riskmap/internal/registry"
	"github.com/ziadkadry99/riskmap/internal/status"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testHolder(t *testing.T) *registry.Holder {
	t.Helper()
	m, err := hierarchy.FromEntries(hierarchy.Entry{Parent: "ULSHIP", Children: []hierarchy.ComponentID{"ULDEC", "FICO"}})
	if err != nil {
		t.Fatal(err)
	}
	reg, err := registry.New([]registry.NamedMap{{Name: "LoanProcessTree", Components: m}})
	if err != nil {
		t.Fatal(err)
	}
	return registry.NewHolder(reg)
}

func TestHealthCheck(t *testing.T) {
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer database.Close()

	srv := New(Config{Port: 0}, database, testHolder(t), quietLogger())

	req := httptest.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body healthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.Status != "ok" {
		t.Errorf("expected status 'ok', got %q", body.Status)
	}
	if body.Maps != 1 || body.Components != 3 {
		t.Errorf("expected 1 map and 3 components, got %d and %d", body.Maps, body.Components)
	}
}

func TestCORSHeaders(t *testing.T) {
	srv := New(Config{Port: 0, AllowAll: true}, nil, nil, quietLogger())

	req := httptest.NewRequest("OPTIONS", "/healthz", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("expected CORS Allow-Origin header")
	}
}

func TestServeWithFeatureRoutes(t *testing.T) {
	holder := testHolder(t)
	srv := New(Config{}, nil, holder, quietLogger())
	registry.RegisterRoutes(srv.Router(), registry.RoutesDeps{Holder: holder})
	status.RegisterRoutes(srv.Router(), status.RoutesDeps{
		Client: status.StaticClient{"ULDEC": hierarchy.StatusIncident},
		Logger: quietLogger(),
	})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ln) }()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
		if err := <-done; !errors.Is(err, http.ErrServerClosed) {
			t.Errorf("Serve returned %v", err)
		}
	})

	// Statuses fetched through the proxy client go through the live server.
	client := status.NewProxyClient("http://"+ln.Addr().String(), time.Second)
	st, err := client.Status(context.Background(), "uldec")
	if err != nil {
		t.Fatalf("proxy status: %v", err)
	}
	if st != hierarchy.StatusIncident {
		t.Errorf("status = %q, want incident", st)
	}

	resp, err := http.Get("http://" + ln.Addr().String() + "/api/maps")
	if err != nil {
		t.Fatalf("GET /api/maps: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("GET /api/maps status = %d", resp.StatusCode)
	}
}
