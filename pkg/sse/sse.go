// Package sse streams store changes as Server-Sent Events, for clients that
// cannot hold a websocket open.
//
//	r.Handle("/events", sse.Changes(st.Bus(), st.State))
//
// A client first receives a "snapshot" event, then one "change" event per
// committed dispatch. Payloads are ws.Frame values, so the session token is
// never sent.
package sse

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shashiranjanraj/storefront/pkg/event"
	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/state"
	"github.com/shashiranjanraj/storefront/pkg/store"
	"github.com/shashiranjanraj/storefront/pkg/ws"
)

const (
	heartbeat  = 15 * time.Second
	sendBuffer = 16
)

// Stream is an open event stream to one client.
type Stream struct {
	w   http.ResponseWriter
	rc  *http.ResponseController
	ctx context.Context
}

// New sets the stream headers and flushes them. It fails when no writer in
// the chain supports flushing.
func New(w http.ResponseWriter, r *http.Request) (*Stream, error) {
	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")

	s := &Stream{w: w, rc: http.NewResponseController(w), ctx: r.Context()}
	if err := s.rc.Flush(); err != nil {
		return nil, fmt.Errorf("sse: flush: %w", err)
	}
	return s, nil
}

// Send writes a named event with a JSON payload.
func (s *Stream) Send(name string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("sse: marshal: %w", err)
	}
	if _, err := fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", name, payload); err != nil {
		return err
	}
	return s.rc.Flush()
}

// Comment writes a comment line; clients ignore it. Used as a keepalive.
func (s *Stream) Comment(msg string) error {
	if _, err := fmt.Fprintf(s.w, ": %s\n\n", msg); err != nil {
		return err
	}
	return s.rc.Flush()
}

// Done is closed when the client goes away.
func (s *Stream) Done() <-chan struct{} { return s.ctx.Done() }

// Changes serves the store change stream fired on bus.
func Changes(bus *event.Bus, current func() state.State) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		frames := make(chan ws.Frame, sendBuffer)
		unsubscribe := bus.Listen(store.EventChanged, func(payload any) {
			ch, ok := payload.(store.Change)
			if !ok {
				return
			}
			select {
			case frames <- ws.NewFrame(ch.Action.String(), ch.State):
			default:
				logger.WithCtx(r.Context()).Warn("sse: slow client, dropping change", "action", ch.Action.String())
			}
		})
		defer unsubscribe()

		stream, err := New(w, r)
		if err != nil {
			logger.WithCtx(r.Context()).Error("sse: stream unsupported", "error", err)
			http.Error(w, "streaming unsupported", http.StatusInternalServerError)
			return
		}
		if err := stream.Send("snapshot", ws.NewFrame("SNAPSHOT", current())); err != nil {
			return
		}

		tick := time.NewTicker(heartbeat)
		defer tick.Stop()
		for {
			select {
			case <-stream.Done():
				return
			case f := <-frames:
				if err := stream.Send("change", f); err != nil {
					return
				}
			case <-tick.C:
				if err := stream.Comment("ping"); err != nil {
					return
				}
			}
		}
	})
}
