package sse_test

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/pkg/slots"
	"github.com/shashiranjanraj/storefront/pkg/sse"
	"github.com/shashiranjanraj/storefront/pkg/state"
	"github.com/shashiranjanraj/storefront/pkg/store"
	"github.com/shashiranjanraj/storefront/pkg/ws"
)

type event struct {
	name  string
	frame ws.Frame
}

// next reads lines until a complete named event arrives.
func next(t *testing.T, sc *bufio.Scanner) event {
	t.Helper()
	var ev event
	for sc.Scan() {
		line := sc.Text()
		switch {
		case strings.HasPrefix(line, "event: "):
			ev.name = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &ev.frame))
		case line == "" && ev.name != "":
			return ev
		}
	}
	t.Fatalf("stream ended: %v", sc.Err())
	return ev
}

func TestChangesStreamsSnapshotThenDispatches(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	st, err := store.New(ctx, slots.NewBridge(slots.NewMemory(), ""), nil)
	require.NoError(t, err)

	srv := httptest.NewServer(sse.Changes(st.Bus(), st.State))
	defer srv.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))
	sc := bufio.NewScanner(resp.Body)

	first := next(t, sc)
	assert.Equal(t, "snapshot", first.name)
	assert.Equal(t, "SNAPSHOT", first.frame.Action)

	_, err = st.Dispatch(ctx, state.Login{Session: state.Session{ID: "u1", Name: "Ann", Token: "secret"}})
	require.NoError(t, err)

	change := next(t, sc)
	assert.Equal(t, "change", change.name)
	assert.Equal(t, state.KindLogin.String(), change.frame.Action)
	require.NotNil(t, change.frame.State.Session)
	assert.Equal(t, "u1", change.frame.State.Session.ID)
	assert.Empty(t, change.frame.State.Session.Token)
}

type plainWriter struct {
	header http.Header
	status int
}

func (p *plainWriter) Header() http.Header         { return p.header }
func (p *plainWriter) Write(b []byte) (int, error) { return len(b), nil }
func (p *plainWriter) WriteHeader(code int)        { p.status = code }

func TestNewRequiresFlusher(t *testing.T) {
	w := &plainWriter{header: http.Header{}}
	r := httptest.NewRequest(http.MethodGet, "/events", nil)

	_, err := sse.New(w, r)
	assert.ErrorIs(t, err, http.ErrNotSupported)
}
