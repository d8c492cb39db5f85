package gateway

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// recordedRequest is what the fake backend saw for one call.
type recordedRequest struct {
	Method string
	Path   string
	Header http.Header
	Body   map[string]any
}

// fakeBackend is an httptest server that records requests and answers
// with a canned status and body per "METHOD path" key.
type fakeBackend struct {
	t        *testing.T
	srv      *httptest.Server
	mu       sync.Mutex
	requests []recordedRequest
	routes   map[string]fakeResponse
}

type fakeResponse struct {
	status int
	body   string
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()

	fb := &fakeBackend{t: t, routes: make(map[string]fakeResponse)}
	fb.srv = httptest.NewServer(http.HandlerFunc(fb.serve))
	t.Cleanup(fb.srv.Close)
	return fb
}

func (fb *fakeBackend) on(method, path string, status int, body string) {
	fb.routes[method+" "+path] = fakeResponse{status: status, body: body}
}

func (fb *fakeBackend) serve(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	rec := recordedRequest{Method: r.Method, Path: r.URL.Path, Header: r.Header.Clone()}
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &rec.Body)
	}

	fb.mu.Lock()
	fb.requests = append(fb.requests, rec)
	resp, ok := fb.routes[r.Method+" "+r.URL.Path]
	fb.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.status)
	_, _ = io.WriteString(w, resp.body)
}

func (fb *fakeBackend) calls() []recordedRequest {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return append([]recordedRequest(nil), fb.requests...)
}

func (fb *fakeBackend) lastCall() recordedRequest {
	fb.t.Helper()
	calls := fb.calls()
	require.NotEmpty(fb.t, calls, "expected at least one request")
	return calls[len(calls)-1]
}

func (fb *fakeBackend) client() *Client {
	return NewClient(fb.srv.URL+"/", "")
}

var bg = context.Background()
