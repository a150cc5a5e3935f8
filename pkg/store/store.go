// Package store owns the live state tree. Every change goes through
// Dispatch, which reduces, persists the resulting effects and only then
// commits, so memory never runs ahead of durable storage.
package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shashiranjanraj/storefront/pkg/auth"
	"github.com/shashiranjanraj/storefront/pkg/event"
	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/metrics"
	"github.com/shashiranjanraj/storefront/pkg/state"
)

// EventChanged is fired on the bus with a Change after each committed dispatch.
const EventChanged = "state.changed"

type Change struct {
	Action state.Kind
	State  state.State
}

// Persister is the slot bridge as the store sees it.
type Persister interface {
	Load(ctx context.Context) (state.State, error)
	Apply(ctx context.Context, effects []state.Effect) error
}

type Store struct {
	mu      sync.Mutex
	current state.State
	slots   Persister
	bus     *event.Bus
}

// New rehydrates the tree from p. A nil bus gets a private one.
func New(ctx context.Context, p Persister, bus *event.Bus) (*Store, error) {
	initial, err := p.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("store: rehydrate: %w", err)
	}
	if bus == nil {
		bus = event.New()
	}
	if initial.Session != nil && auth.Expired(initial.Session.Token, time.Now()) {
		logger.WithCtx(ctx).Warn("store: restored session token has expired", "user", initial.Session.Email)
	}
	return &Store{current: initial, slots: p, bus: bus}, nil
}

// State returns a snapshot the caller may keep and modify.
func (s *Store) State() state.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Clone()
}

func (s *Store) Bus() *event.Bus { return s.bus }

// Dispatch applies a. Dispatches are serialised: the effects of one are
// durable before the next is reduced. If persisting fails the previous state
// stays current and the error is returned. A nil action is a no-op.
func (s *Store) Dispatch(ctx context.Context, a state.Action) (state.State, error) {
	got, _, err := s.DispatchIf(ctx, nil, a)
	return got, err
}

// DispatchIf applies a only when when(current) holds, checked under the same
// lock as the reduction. Work that read the state earlier and talked to the
// network in between uses it so it never overwrites a newer change. applied
// is false when the condition failed; a nil condition always holds.
func (s *Store) DispatchIf(ctx context.Context, when func(state.State) bool, a state.Action) (got state.State, applied bool, err error) {
	if a == nil {
		return s.State(), false, nil
	}

	s.mu.Lock()
	if when != nil && !when(s.current.Clone()) {
		snapshot := s.current.Clone()
		s.mu.Unlock()
		logger.WithCtx(ctx).Debug("store: dispatch skipped, state moved on", "action", a.Kind())
		return snapshot, false, nil
	}
	next := state.Reduce(s.current, a)
	effects := state.Effects(a, next)

	start := time.Now()
	if err := s.slots.Apply(ctx, effects); err != nil {
		snapshot := s.current.Clone()
		s.mu.Unlock()
		metrics.ObserveDispatch(a.Kind().String(), false, start)
		logger.WithCtx(ctx).Error("store: persist failed, state unchanged", "action", a.Kind(), "error", err)
		return snapshot, false, fmt.Errorf("store: persist %s: %w", a.Kind(), err)
	}
	s.current = next
	snapshot := next.Clone()
	s.mu.Unlock()

	metrics.ObserveDispatch(a.Kind().String(), true, start)
	logger.WithCtx(ctx).Debug("store: dispatched", "action", a.Kind(), "items", snapshot.Cart.ItemCount())
	s.bus.Fire(EventChanged, Change{Action: a.Kind(), State: snapshot.Clone()})
	return snapshot, true, nil
}
