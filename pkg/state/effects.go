package state

// Slot names one independently persisted piece of the tree. The values are
// the storage keys, before any driver prefix.
type Slot string

const (
	SlotSession         Slot = "userInfo"
	SlotCartItems       Slot = "cartItems"
	SlotShippingAddress Slot = "shippingAddress"
	SlotPaymentMethod   Slot = "paymentMethod"
)

// Slots lists every persisted slot.
var Slots = []Slot{SlotSession, SlotCartItems, SlotShippingAddress, SlotPaymentMethod}

type Op int

const (
	// OpPut overwrites the whole slot with Value.
	OpPut Op = iota + 1
	// OpDelete removes the slot.
	OpDelete
	// OpClear removes every slot, whether or not it holds data.
	OpClear
)

// Effect is one persistence step the bridge must perform after a reduction.
type Effect struct {
	Op    Op
	Slot  Slot // unset for OpClear
	Value any  // *Session, []CartItem, ShippingAddress or PaymentMethod
}

// Effects returns the persistence plan for a, given the state Reduce
// produced for it. Like Reduce it performs no I/O.
func Effects(a Action, next State) []Effect {
	switch a.(type) {
	case Login:
		return []Effect{{Op: OpPut, Slot: SlotSession, Value: next.Session}}
	case Logout:
		return []Effect{{Op: OpClear}}
	case CartAddItem, CartRemoveItem:
		return []Effect{{Op: OpPut, Slot: SlotCartItems, Value: next.Cart.Items}}
	case CartClear:
		return []Effect{{Op: OpDelete, Slot: SlotCartItems}}
	case SaveShippingAddress:
		return []Effect{{Op: OpPut, Slot: SlotShippingAddress, Value: next.Cart.ShippingAddress}}
	case SavePaymentMethod:
		return []Effect{{Op: OpPut, Slot: SlotPaymentMethod, Value: next.Cart.PaymentMethod}}
	default:
		return nil
	}
}
