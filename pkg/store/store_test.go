package store_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/pkg/event"
	"github.com/shashiranjanraj/storefront/pkg/slots"
	"github.com/shashiranjanraj/storefront/pkg/state"
	"github.com/shashiranjanraj/storefront/pkg/store"
)

func newStore(t *testing.T) (*store.Store, *slots.MemoryKV) {
	t.Helper()
	kv := slots.NewMemory()
	s, err := store.New(context.Background(), slots.NewBridge(kv, ""), nil)
	require.NoError(t, err)
	return s, kv
}

func TestDispatchPersistsBeforeReturning(t *testing.T) {
	ctx := context.Background()
	s, kv := newStore(t)

	_, err := s.Dispatch(ctx, state.CartAddItem{Item: state.CartItem{ID: "p1", Qty: 2, Price: 5}})
	require.NoError(t, err)

	raw, ok, err := kv.Get(ctx, string(state.SlotCartItems))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, raw, `"_id":"p1"`)
	assert.Equal(t, 2, s.State().Cart.ItemCount())
}

func TestRehydrateRestoresSlots(t *testing.T) {
	ctx := context.Background()
	kv := slots.NewMemory()
	b := slots.NewBridge(kv, "")

	first, err := store.New(ctx, b, nil)
	require.NoError(t, err)
	_, err = first.Dispatch(ctx, state.Login{Session: state.Session{ID: "u1", Token: "t"}})
	require.NoError(t, err)
	_, err = first.Dispatch(ctx, state.SavePaymentMethod{Method: state.Stripe})
	require.NoError(t, err)

	second, err := store.New(ctx, b, nil)
	require.NoError(t, err)
	assert.Equal(t, first.State(), second.State())
}

type failingPersister struct{}

func (failingPersister) Load(context.Context) (state.State, error) { return state.Initial(), nil }
func (failingPersister) Apply(context.Context, []state.Effect) error {
	return errors.New("disk full")
}

func TestPersistFailureKeepsPreviousState(t *testing.T) {
	ctx := context.Background()
	bus := event.New()
	fired := false
	bus.Listen(store.EventChanged, func(any) { fired = true })

	s, err := store.New(ctx, failingPersister{}, bus)
	require.NoError(t, err)

	got, err := s.Dispatch(ctx, state.CartAddItem{Item: state.CartItem{ID: "p1", Qty: 1}})
	assert.ErrorContains(t, err, "disk full")
	assert.Empty(t, got.Cart.Items)
	assert.Empty(t, s.State().Cart.Items)
	assert.False(t, fired)
}

func TestDispatchIfSkipsWhenStateMovedOn(t *testing.T) {
	ctx := context.Background()
	s, kv := newStore(t)

	line := state.CartItem{ID: "p1", Name: "Phone", Price: 10, Stock: 5, Qty: 2}
	_, err := s.Dispatch(ctx, state.CartAddItem{Item: line})
	require.NoError(t, err)

	unchanged := func(cur state.State) bool {
		it, ok := cur.Cart.Item("p1")
		return ok && it == line
	}
	fresher := line
	fresher.Price = 8

	_, err = s.Dispatch(ctx, state.CartClear{})
	require.NoError(t, err)

	got, applied, err := s.DispatchIf(ctx, unchanged, state.CartAddItem{Item: fresher})
	require.NoError(t, err)
	assert.False(t, applied)
	assert.Empty(t, got.Cart.Items)
	_, present, _ := kv.Get(ctx, string(state.SlotCartItems))
	assert.False(t, present, "cleared cart slot stays absent")

	_, err = s.Dispatch(ctx, state.CartAddItem{Item: line})
	require.NoError(t, err)
	got, applied, err = s.DispatchIf(ctx, unchanged, state.CartAddItem{Item: fresher})
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, 8.0, got.Cart.Items[0].Price)
}

func TestSnapshotsAreIsolated(t *testing.T) {
	s, _ := newStore(t)
	_, err := s.Dispatch(context.Background(), state.CartAddItem{Item: state.CartItem{ID: "p1", Qty: 1}})
	require.NoError(t, err)

	snap := s.State()
	snap.Cart.Items[0].Qty = 99

	assert.Equal(t, 1, s.State().Cart.Items[0].Qty)
}

func TestChangeEventCarriesCommittedState(t *testing.T) {
	ctx := context.Background()
	bus := event.New()
	var changes []store.Change
	bus.Listen(store.EventChanged, func(p any) { changes = append(changes, p.(store.Change)) })

	s, err := store.New(ctx, slots.NewBridge(slots.NewMemory(), ""), bus)
	require.NoError(t, err)

	_, _ = s.Dispatch(ctx, state.Login{Session: state.Session{ID: "u1"}})
	_, _ = s.Dispatch(ctx, state.Logout{})

	require.Len(t, changes, 2)
	assert.Equal(t, state.KindLogin, changes[0].Action)
	assert.True(t, changes[0].State.Authenticated())
	assert.Equal(t, state.KindLogout, changes[1].Action)
	assert.False(t, changes[1].State.Authenticated())
}

func TestNilActionIsNoop(t *testing.T) {
	s, kv := newStore(t)
	_, err := s.Dispatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, kv.Len())
}

func TestConcurrentDispatchesAreSerialised(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := string(rune('a' + i%26))
			_, _ = s.Dispatch(ctx, state.CartAddItem{Item: state.CartItem{ID: id, Qty: 1}})
		}(i)
	}
	wg.Wait()

	assert.Len(t, s.State().Cart.Items, 26)
}
