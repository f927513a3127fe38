package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/fouge/leger-go/internal/provider"
	"github.com/fouge/leger-go/internal/rpc"
	"github.com/fouge/leger-go/internal/rpc/rpctest"
)

func setupProvider(t *testing.T, handlers map[string]rpctest.Handler) *provider.Provider {
	t.Helper()
	ft := rpctest.New(handlers)
	session := rpc.New(ft)
	p := provider.New(session, "127.0.0.1:9944")
	if err := p.Open(context.Background()); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { p.Close(context.Background()) })
	return p
}

func TestHealthHandler(t *testing.T) {
	p := setupProvider(t, map[string]rpctest.Handler{})

	r := chi.NewRouter()
	r.Get("/api/health", HealthHandler(p, "test"))

	req := httptest.NewRequest("GET", "/api/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp["status"] != "ok" {
		t.Errorf("status = %v, want ok", resp["status"])
	}
	if resp["connected"] != true {
		t.Errorf("connected = %v, want true", resp["connected"])
	}
}

func TestChainHandler(t *testing.T) {
	fakeHash := "0x" + repeatHex("11", 32)

	p := setupProvider(t, map[string]rpctest.Handler{
		"system_name":       constResult(`"leger dev node"`),
		"system_version":    constResult(`"1.0.0"`),
		"chain_getBlockHash": constResult(`"` + fakeHash + `"`),
	})

	r := chi.NewRouter()
	r.Get("/api/chain", ChainHandler(p))

	req := httptest.NewRequest("GET", "/api/chain", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", w.Code, w.Body.String())
	}

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp["name"] != "leger dev node" {
		t.Errorf("name = %q", resp["name"])
	}
	if resp["genesisHash"] != fakeHash {
		t.Errorf("genesisHash = %q, want %q", resp["genesisHash"], fakeHash)
	}
}

func TestTransferHandlerBadRequest(t *testing.T) {
	p := setupProvider(t, map[string]rpctest.Handler{})

	r := chi.NewRouter()
	r.Post("/api/transfer", TransferHandler(p))

	req := httptest.NewRequest("POST", "/api/transfer", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func constResult(raw string) rpctest.Handler {
	return func(id uint64, method string, params json.RawMessage) rpctest.Outcome {
		return rpctest.Outcome{Result: json.RawMessage(raw)}
	}
}

func repeatHex(pair string, n int) string {
	out := ""
	for i := 0; i < n; i++ {
		out += pair
	}
	return out
}
