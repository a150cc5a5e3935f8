package state

import "github.com/shashiranjanraj/storefront/pkg/collection"

// Reduce returns the state that follows s under a. It is pure: s is never
// modified and the result shares no slices with it. A nil action leaves the
// state unchanged.
func Reduce(s State, a Action) State {
	next := s.Clone()

	switch act := a.(type) {
	case Login:
		sess := act.Session
		next.Session = &sess

	case Logout:
		next.Session = nil
		next.Cart = Cart{Items: []CartItem{}, ShippingAddress: ShippingAddress{}, PaymentMethod: ""}

	case CartAddItem:
		next.Cart.Items = collection.Upsert(next.Cart.Items, act.Item, func(it CartItem) bool {
			return it.ID == act.Item.ID
		})

	case CartRemoveItem:
		next.Cart.Items = collection.Reject(next.Cart.Items, func(it CartItem) bool {
			return it.ID == act.ID
		})

	case CartClear:
		next.Cart.Items = []CartItem{}

	case SaveShippingAddress:
		next.Cart.ShippingAddress = act.Address

	case SavePaymentMethod:
		next.Cart.PaymentMethod = act.Method
	}

	return next
}
