// Package testutil provides a fake generative-language upstream for tests.
package testutil

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// UpstreamRequest is one call the fake upstream received.
type UpstreamRequest struct {
	Method      string
	Path        string
	Key         string
	ContentType string
	Body        string
}

// Upstream is an httptest server that records every call and answers with a
// fixed status and body.
type Upstream struct {
	*httptest.Server
	mu       sync.Mutex
	requests []UpstreamRequest
}

// NewUpstream starts a fake upstream that is closed when the test ends.
func NewUpstream(t testing.TB, status int, body string) *Upstream {
	t.Helper()
	u := &Upstream{}
	u.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		u.mu.Lock()
		u.requests = append(u.requests, UpstreamRequest{
			Method:      r.Method,
			Path:        r.URL.Path,
			Key:         r.URL.Query().Get("key"),
			ContentType: r.Header.Get("Content-Type"),
			Body:        string(data),
		})
		u.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
	t.Cleanup(u.Close)
	return u
}

// Requests returns a copy of the calls received so far.
func (u *Upstream) Requests() []UpstreamRequest {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]UpstreamRequest(nil), u.requests...)
}

// DeadURL returns the address of a server that has already been shut down, so
// connections to it are refused.
func DeadURL(t testing.TB) string {
	t.Helper()
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	return url
}
