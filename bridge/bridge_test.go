package bridge

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aravindadityxa/nayamai/app"
	"github.com/aravindadityxa/nayamai/config"
	"github.com/aravindadityxa/nayamai/history"
	"github.com/aravindadityxa/nayamai/kv"
	"github.com/aravindadityxa/nayamai/locale"
)

const testToken = "bridge-token"

func newTestServer(t *testing.T) (*httptest.Server, *app.App) {
	t.Helper()

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			w.Write([]byte(`{"status":"healthy"}`))
			return
		}
		http.NotFound(w, r)
	}))
	t.Cleanup(backend.Close)

	cfg := config.DefaultConfig()
	cfg.BackendURL = backend.URL
	a, err := app.New(cfg, app.WithStore(kv.NewMemoryStore()))
	if err != nil {
		t.Fatalf("failed to create app: %v", err)
	}
	t.Cleanup(func() { a.Close() })

	srv := httptest.NewServer(NewRouter(a, Options{Token: testToken, Version: "test", DevMode: true}))
	t.Cleanup(srv.Close)
	return srv, a
}

func get(t *testing.T, url string, token string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		t.Fatal(err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestRouter_Health(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := get(t, srv.URL+"/health", "")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
}

func TestRouter_APIRequiresToken(t *testing.T) {
	srv, _ := newTestServer(t)

	if resp := get(t, srv.URL+"/api/history", ""); resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", resp.StatusCode)
	}
	if resp := get(t, srv.URL+"/api/history", testToken); resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 with token, got %d", resp.StatusCode)
	}
}

func TestRouter_ExportEmpty(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := get(t, srv.URL+"/api/export", testToken)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	var body map[string]string
	json.NewDecoder(resp.Body).Decode(&body)
	if body["detail"] != "No chat history to export" {
		t.Errorf("unexpected detail %q", body["detail"])
	}
}

func TestRouter_Export(t *testing.T) {
	srv, a := newTestServer(t)
	a.History.Append(history.SenderUser, "headache", locale.English)
	a.History.Append(history.SenderAssistant, "rest", locale.English)

	resp := get(t, srv.URL+"/api/export?token="+testToken, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	disposition := resp.Header.Get("Content-Disposition")
	if !strings.Contains(disposition, "nayam-ai-chat-history-") || !strings.HasPrefix(disposition, "attachment") {
		t.Errorf("unexpected Content-Disposition %q", disposition)
	}

	var doc history.Export
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		t.Fatalf("failed to decode export: %v", err)
	}
	if doc.TotalMessages != 2 || len(doc.ChatHistory) != 2 {
		t.Errorf("unexpected export %+v", doc)
	}
}

func TestRouter_BackendHealth(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := get(t, srv.URL+"/api/backend/health", testToken)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
}

func TestServe_StopsOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Serve(ctx, ln, http.NotFoundHandler())
	}()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("expected clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestAdvertiseURL(t *testing.T) {
	tests := []struct {
		name   string
		addr   string
		token  string
		prefix string
	}{
		{"explicit host", "192.168.1.5:8080", "", "http://192.168.1.5:8080/"},
		{"with token", "127.0.0.1:8080", "abc", "http://127.0.0.1:8080/?token=abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AdvertiseURL(tt.addr, tt.token); got != tt.prefix {
				t.Errorf("AdvertiseURL(%q) = %q, want %q", tt.addr, got, tt.prefix)
			}
		})
	}

	if got := AdvertiseURL(":8080", ""); strings.Contains(got, "0.0.0.0") || !strings.HasSuffix(got, ":8080/") {
		t.Errorf("wildcard address not replaced: %q", got)
	}
}

func TestNewToken(t *testing.T) {
	a, b := NewToken(), NewToken()
	if a == "" || a == b {
		t.Errorf("expected distinct non-empty tokens, got %q and %q", a, b)
	}
}
