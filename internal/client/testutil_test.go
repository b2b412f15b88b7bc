package client

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

// mockServer is a fluent builder for an httptest.Server that checks the
// request line and optionally the JSON body before responding.
type mockServer struct {
	t          *testing.T
	handler    http.HandlerFunc
	expectPath string
	expectMeth string
	expectBody string
}

func newMockServer(t *testing.T) *mockServer {
	t.Helper()
	return &mockServer{t: t}
}

func (m *mockServer) ExpectPath(path string) *mockServer {
	m.expectPath = path
	return m
}

func (m *mockServer) ExpectMethod(method string) *mockServer {
	m.expectMeth = method
	return m
}

func (m *mockServer) ExpectGET() *mockServer  { return m.ExpectMethod(http.MethodGet) }
func (m *mockServer) ExpectPOST() *mockServer { return m.ExpectMethod(http.MethodPost) }
func (m *mockServer) ExpectPUT() *mockServer  { return m.ExpectMethod(http.MethodPut) }

// ExpectBody asserts the request body is JSON-equal to body.
func (m *mockServer) ExpectBody(body string) *mockServer {
	m.expectBody = body
	return m
}

// Handler sets a custom handler run after the request checks.
func (m *mockServer) Handler(h func(w http.ResponseWriter, r *http.Request)) *mockServer {
	m.handler = h
	return m
}

func (m *mockServer) RespondJSON(v any) *mockServer {
	m.handler = func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(m.t, w, v)
	}
	return m
}

// RespondError answers with the daemon's {error, code} envelope.
func (m *mockServer) RespondError(status int, code, message string) *mockServer {
	m.handler = func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": message, "code": code})
	}
	return m
}

// Build starts the server and registers its shutdown with t.Cleanup.
func (m *mockServer) Build() *httptest.Server {
	m.t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.expectPath != "" {
			assert.Equal(m.t, m.expectPath, r.URL.Path, "unexpected request path")
		}
		if m.expectMeth != "" {
			assert.Equal(m.t, m.expectMeth, r.Method, "unexpected request method")
		}
		if m.expectBody != "" {
			body, err := io.ReadAll(r.Body)
			assert.NoError(m.t, err)
			assert.JSONEq(m.t, m.expectBody, string(body), "unexpected request body")
		}
		if m.handler != nil {
			m.handler(w, r)
		}
	}))
	m.t.Cleanup(srv.Close)
	return srv
}

func respondJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Fatalf("failed to encode JSON response: %v", err)
	}
}
