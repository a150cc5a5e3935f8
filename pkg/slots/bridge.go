package slots

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shashiranjanraj/storefront/pkg/collection"
	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/state"
)

// ErrCorrupt marks a stored value that cannot be decoded into its slot.
var ErrCorrupt = errors.New("slots: corrupt value")

// Bridge reads and writes the four state slots on a KV.
type Bridge struct {
	kv     KV
	prefix string
}

// NewBridge returns a bridge whose keys are prefix + slot name.
func NewBridge(kv KV, prefix string) *Bridge {
	return &Bridge{kv: kv, prefix: prefix}
}

// Key is the storage key for s.
func (b *Bridge) Key(s state.Slot) string { return b.prefix + string(s) }

// Close releases the underlying driver.
func (b *Bridge) Close() error { return b.kv.Close() }

// Load rebuilds the persisted part of the tree. Missing or corrupt slots
// take their defaults: no session, no items, an empty address and PayPal.
// Only driver failures are returned as errors.
func (b *Bridge) Load(ctx context.Context) (state.State, error) {
	log := logger.WithCtx(ctx)
	out := state.Initial()

	for _, slot := range state.Slots {
		raw, ok, err := b.kv.Get(ctx, b.Key(slot))
		if errors.Is(err, ErrCorrupt) {
			log.Warn("slots: unreadable value, using default", "slot", slot)
			continue
		}
		if err != nil {
			return state.Initial(), fmt.Errorf("slots: load %s: %w", slot, err)
		}
		if !ok {
			continue
		}
		if err := decodeInto(&out, slot, raw); err != nil {
			log.Warn("slots: corrupt value, using default", "slot", slot, "error", err)
		}
	}
	return out, nil
}

func decodeInto(s *state.State, slot state.Slot, raw string) error {
	switch slot {
	case state.SlotSession:
		var sess *state.Session
		if err := json.Unmarshal([]byte(raw), &sess); err != nil {
			return err
		}
		s.Session = sess
	case state.SlotCartItems:
		var items []state.CartItem
		if err := json.Unmarshal([]byte(raw), &items); err != nil {
			return err
		}
		if err := validItems(items); err != nil {
			return err
		}
		if items != nil {
			s.Cart.Items = items
		}
	case state.SlotShippingAddress:
		var addr state.ShippingAddress
		if err := json.Unmarshal([]byte(raw), &addr); err != nil {
			return err
		}
		s.Cart.ShippingAddress = addr
	case state.SlotPaymentMethod:
		m := state.PaymentMethod(raw)
		if !m.Valid() {
			return fmt.Errorf("%w: unknown payment method %q", ErrCorrupt, raw)
		}
		s.Cart.PaymentMethod = m
	}
	return nil
}

// validItems rejects lists the reducer could never have produced.
func validItems(items []state.CartItem) error {
	if !collection.UniqueBy(items, func(it state.CartItem) string { return it.ID }) {
		return fmt.Errorf("%w: duplicate item id", ErrCorrupt)
	}
	for _, it := range items {
		if it.ID == "" || it.Qty < 1 {
			return fmt.Errorf("%w: item %q has qty %d", ErrCorrupt, it.ID, it.Qty)
		}
	}
	return nil
}

// Apply performs effects in order and stops at the first failure.
func (b *Bridge) Apply(ctx context.Context, effects []state.Effect) error {
	for _, e := range effects {
		if err := b.apply(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

func (b *Bridge) apply(ctx context.Context, e state.Effect) error {
	switch e.Op {
	case state.OpPut:
		raw, err := encode(e.Slot, e.Value)
		if err != nil {
			return fmt.Errorf("slots: encode %s: %w", e.Slot, err)
		}
		if err := b.kv.Set(ctx, b.Key(e.Slot), raw); err != nil {
			return fmt.Errorf("slots: write %s: %w", e.Slot, err)
		}
	case state.OpDelete:
		if err := b.kv.Delete(ctx, b.Key(e.Slot)); err != nil {
			return fmt.Errorf("slots: delete %s: %w", e.Slot, err)
		}
	case state.OpClear:
		keys := collection.Map(state.Slots, b.Key)
		if err := b.kv.Delete(ctx, keys...); err != nil {
			return fmt.Errorf("slots: clear: %w", err)
		}
	default:
		return fmt.Errorf("slots: unknown op %d", e.Op)
	}
	return nil
}

// encode serialises a slot value. The payment method is stored bare, the
// rest as JSON.
func encode(slot state.Slot, v any) (string, error) {
	if slot == state.SlotPaymentMethod {
		switch m := v.(type) {
		case state.PaymentMethod:
			return string(m), nil
		case string:
			return m, nil
		default:
			return "", fmt.Errorf("payment method has type %T", v)
		}
	}
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
