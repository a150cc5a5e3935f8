// Package testkit fakes the remote storefront API for tests.
//
// Backend is an http.RoundTripper that answers from routes registered per
// "METHOD /path" and records every call. Install puts it on the shared
// outbound client for the duration of a test:
//
//	be := testkit.Install(t)
//	be.JSON("GET /api/products/p1", 200, product)
//	... exercise code ...
//	be.AssertAllCalled(t)
package testkit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	sfhttp "github.com/shashiranjanraj/storefront/pkg/http"
)

// Call is one request the backend received.
type Call struct {
	Method string
	Path   string
	Auth   string // Authorization header
	Header http.Header
	Body   []byte
}

// Route answers one method+path. Responses are consumed in order; the last
// one repeats.
type Route struct {
	responses []response
	calls     int
}

type response struct {
	status int
	body   []byte
	err    error
}

type Backend struct {
	mu     sync.Mutex
	routes map[string]*Route
	calls  []Call
}

func NewBackend() *Backend {
	return &Backend{routes: map[string]*Route{}}
}

// Install creates a Backend, sets it as the outbound transport and restores
// the real transport when t finishes.
func Install(t *testing.T) *Backend {
	t.Helper()
	be := NewBackend()
	sfhttp.DefaultClient.Transport = be
	t.Cleanup(sfhttp.ResetTransport)
	return be
}

func (b *Backend) route(key string) *Route {
	b.mu.Lock()
	defer b.mu.Unlock()
	r, ok := b.routes[key]
	if !ok {
		r = &Route{}
		b.routes[key] = r
	}
	return r
}

// JSON queues a JSON response for key ("GET /api/products").
func (b *Backend) JSON(key string, status int, v any) *Backend {
	raw, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("testkit: marshal %s: %v", key, err))
	}
	r := b.route(key)
	b.mu.Lock()
	r.responses = append(r.responses, response{status: status, body: raw})
	b.mu.Unlock()
	return b
}

// Fail queues a transport-level error for key.
func (b *Backend) Fail(key string, err error) *Backend {
	r := b.route(key)
	b.mu.Lock()
	r.responses = append(r.responses, response{err: err})
	b.mu.Unlock()
	return b
}

// RoundTrip implements http.RoundTripper. Unregistered routes answer 404.
func (b *Backend) RoundTrip(req *http.Request) (*http.Response, error) {
	var body []byte
	if req.Body != nil {
		body, _ = io.ReadAll(req.Body)
		_ = req.Body.Close()
	}

	key := req.Method + " " + req.URL.Path

	b.mu.Lock()
	b.calls = append(b.calls, Call{
		Method: req.Method,
		Path:   req.URL.Path,
		Auth:   req.Header.Get("Authorization"),
		Header: req.Header.Clone(),
		Body:   body,
	})
	r, ok := b.routes[key]
	var resp response
	if ok && len(r.responses) > 0 {
		idx := r.calls
		if idx >= len(r.responses) {
			idx = len(r.responses) - 1
		}
		resp = r.responses[idx]
		r.calls++
	} else {
		resp = response{status: http.StatusNotFound, body: []byte(`{"message":"no mock for ` + key + `"}`)}
	}
	b.mu.Unlock()

	if resp.err != nil {
		return nil, resp.err
	}

	header := make(http.Header)
	header.Set("Content-Type", "application/json")
	return &http.Response{
		StatusCode: resp.status,
		Status:     fmt.Sprintf("%d %s", resp.status, http.StatusText(resp.status)),
		Header:     header,
		Body:       io.NopCloser(bytes.NewReader(resp.body)),
		Request:    req,
	}, nil
}

// Calls returns a copy of every call received so far.
func (b *Backend) Calls() []Call {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Call(nil), b.calls...)
}

// CallsTo returns the calls matching key.
func (b *Backend) CallsTo(key string) []Call {
	var out []Call
	for _, c := range b.Calls() {
		if c.Method+" "+c.Path == key {
			out = append(out, c)
		}
	}
	return out
}

// Last returns the most recent call matching key.
func (b *Backend) Last(key string) (Call, bool) {
	calls := b.CallsTo(key)
	if len(calls) == 0 {
		return Call{}, false
	}
	return calls[len(calls)-1], true
}

// Uncalled lists registered routes that never received a request.
func (b *Backend) Uncalled() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []string
	for key, r := range b.routes {
		if r.calls == 0 {
			out = append(out, key)
		}
	}
	return out
}

// HasPrefixCall reports whether any call's path starts with prefix.
func (b *Backend) HasPrefixCall(prefix string) bool {
	for _, c := range b.Calls() {
		if strings.HasPrefix(c.Path, prefix) {
			return true
		}
	}
	return false
}
