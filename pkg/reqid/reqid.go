// Package reqid tags each local request and each outbound API call with a
// correlation ID.
//
// The local HTTP surface runs Middleware; the CLI stamps a fresh ID per
// command with WithValue. pkg/http forwards the ID as X-Request-ID so the
// storefront backend logs can be matched to ours, and logger.WithCtx
// carries it on every log line.
package reqid

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"
)

type ctxKey struct{}

const (
	Header = "X-Request-ID"
	maxLen = 64
)

// New returns 32 random hex characters.
func New() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}

func WithValue(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromCtx returns the ID in ctx, or "".
func FromCtx(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// Ensure returns ctx unchanged when it already carries an ID, otherwise a
// child with a fresh one. Background work uses it so its API calls are
// still traceable.
func Ensure(ctx context.Context) context.Context {
	if FromCtx(ctx) != "" {
		return ctx
	}
	return WithValue(ctx, New())
}

// Valid reports whether an incoming ID is safe to log and forward:
// 1 to 64 characters of letters, digits, '-', '_' or '.'.
func Valid(id string) bool {
	if id == "" || len(id) > maxLen {
		return false
	}
	for _, c := range id {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '-', c == '_', c == '.':
		default:
			return false
		}
	}
	return true
}

// Middleware reuses a valid incoming X-Request-ID or mints one, echoes it on
// the response and stores it in the request context.
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(Header)
			if !Valid(id) {
				id = New()
			}
			w.Header().Set(Header, id)
			next.ServeHTTP(w, r.WithContext(WithValue(r.Context(), id)))
		})
	}
}
