// Package http is the fluent outbound client the remote API client is
// built on.
//
//	resp, err := http.Get(base + "/api/products/" + id).
//	    WithContext(ctx).
//	    Bearer(token).
//	    Send()
//
//	var p Product
//	err = resp.JSON(&p)
//
// Send returns an error only when no response arrived. Non-2xx answers come
// back as a Response; use OK or Throw to inspect them.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"errors"
	"io"
	gohttp "net/http"
	"strconv"
	"time"

	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/reqid"
)

// maxBody caps how much of a response is read. Product lists are the
// largest answers the storefront API gives.
const maxBody = 8 << 20

// defaultTransport is the pooled transport used in production. Tests replace
// DefaultClient.Transport to inject mocks.
var defaultTransport = &gohttp.Transport{
	Proxy:               gohttp.ProxyFromEnvironment,
	MaxIdleConns:        50,
	MaxIdleConnsPerHost: 20,
	IdleConnTimeout:     90 * time.Second,
}

// DefaultClient is shared by every outgoing request.
//
//	http.DefaultClient.Transport = myMockTransport
//	defer http.ResetTransport()
var DefaultClient = &gohttp.Client{
	Transport: defaultTransport,
}

// ResetTransport restores the production transport on DefaultClient.
func ResetTransport() {
	DefaultClient.Transport = defaultTransport
}

// Request is a fluent HTTP request builder.
type Request struct {
	method    string
	url       string
	headers   map[string]string
	body      any
	timeout   time.Duration
	retries   int
	retryWait time.Duration
	ctx       context.Context
}

func Get(url string) *Request    { return newRequest(gohttp.MethodGet, url) }
func Post(url string) *Request   { return newRequest(gohttp.MethodPost, url) }
func Put(url string) *Request    { return newRequest(gohttp.MethodPut, url) }
func Delete(url string) *Request { return newRequest(gohttp.MethodDelete, url) }

// newRequest defaults to a single attempt and no deadline beyond whatever
// the caller's context carries.
func newRequest(method, url string) *Request {
	return &Request{
		method:    method,
		url:       url,
		headers:   map[string]string{"Accept": "application/json"},
		retries:   1,
		retryWait: 500 * time.Millisecond,
		ctx:       context.Background(),
	}
}

func (r *Request) Header(key, value string) *Request {
	r.headers[key] = value
	return r
}

// Bearer sets Authorization: Bearer <token>. An empty token sends nothing.
func (r *Request) Bearer(token string) *Request {
	if token == "" {
		return r
	}
	return r.Header("Authorization", "Bearer "+token)
}

// Body sets the request body. v is marshalled to JSON unless it is a
// string or []byte.
func (r *Request) Body(v any) *Request {
	r.body = v
	return r
}

// Timeout sets a per-attempt deadline. Zero leaves it to the transport.
func (r *Request) Timeout(d time.Duration) *Request {
	r.timeout = d
	return r
}

// Retry allows up to n attempts for idempotent methods. A transport error or
// a 502, 503 or 504 answer is retried after wait, doubling each time. POST is
// always sent once so an order can never be placed twice.
func (r *Request) Retry(n int, wait time.Duration) *Request {
	r.retries = max(n, 1)
	r.retryWait = wait
	return r
}

// WithContext sets the request context. Its request ID, if any, is
// forwarded as X-Request-ID.
func (r *Request) WithContext(ctx context.Context) *Request {
	if ctx != nil {
		r.ctx = ctx
	}
	return r
}

// Send executes the request. A cancelled context stops the retry loop.
func (r *Request) Send() (*Response, error) {
	attempts := r.retries
	if r.method == gohttp.MethodPost {
		attempts = 1
	}

	wait := r.retryWait
	for attempt := 1; ; attempt++ {
		resp, err := r.do()
		if attempt >= attempts || !retryable(resp, err) {
			return resp, err
		}
		logger.WithCtx(r.ctx).Warn("http: retrying",
			"method", r.method, "url", r.url, "attempt", attempt, "backoff", wait, "reason", reason(resp, err))

		t := time.NewTimer(wait)
		select {
		case <-r.ctx.Done():
			t.Stop()
			if err == nil {
				return resp, nil
			}
			return nil, err
		case <-t.C:
		}
		wait *= 2
	}
}

func retryable(resp *Response, err error) bool {
	if err != nil {
		return !errors.Is(err, context.Canceled)
	}
	switch resp.StatusCode {
	case gohttp.StatusBadGateway, gohttp.StatusServiceUnavailable, gohttp.StatusGatewayTimeout:
		return true
	}
	return false
}

func reason(resp *Response, err error) string {
	if err != nil {
		return err.Error()
	}
	return strconv.Itoa(resp.StatusCode)
}

func (r *Request) do() (*Response, error) {
	body, ct, err := r.buildBody()
	if err != nil {
		return nil, err
	}

	ctx := r.ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	req, err := gohttp.NewRequestWithContext(ctx, r.method, r.url, body)
	if err != nil {
		return nil, fmt.Errorf("http: build request: %w", err)
	}

	for k, v := range r.headers {
		req.Header.Set(k, v)
	}
	if ct != "" {
		req.Header.Set("Content-Type", ct)
	}
	if id := reqid.FromCtx(ctx); id != "" {
		req.Header.Set(reqid.Header, id)
	}

	resp, err := DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("http: read body: %w", err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Raw:        raw,
	}, nil
}

func (r *Request) buildBody() (io.Reader, string, error) {
	if r.body == nil {
		return nil, "", nil
	}
	switch v := r.body.(type) {
	case string:
		return bytes.NewBufferString(v), "text/plain", nil
	case []byte:
		return bytes.NewReader(v), "application/octet-stream", nil
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, "", fmt.Errorf("http: marshal body: %w", err)
		}
		return bytes.NewReader(b), "application/json", nil
	}
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Headers    gohttp.Header
	Raw        []byte
}

// OK reports whether the status code is 2xx.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// JSON unmarshals the response body into dest.
func (r *Response) JSON(dest any) error {
	if err := json.Unmarshal(r.Raw, dest); err != nil {
		return fmt.Errorf("http: decode JSON: %w", err)
	}
	return nil
}

func (r *Response) Text() string { return string(r.Raw) }

// Throw returns an error if the response status is not 2xx. At most 200
// bytes of the body are quoted.
func (r *Response) Throw() error {
	if r.OK() {
		return nil
	}
	body := r.Raw
	if len(body) > 200 {
		body = body[:200]
	}
	return fmt.Errorf("http: status %d: %s", r.StatusCode, body)
}
