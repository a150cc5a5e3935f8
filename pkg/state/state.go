// Package state holds the storefront's single state tree and its pure
// transition function.
//
// The tree is { session, cart: { items, shippingAddress, paymentMethod } }.
// Reduce computes the next tree for an Action; Effects computes which
// persisted slots that transition touches. Neither performs I/O; pkg/store
// runs both and hands the effects to the slot bridge.
package state

import "github.com/shashiranjanraj/storefront/pkg/collection"

// Session is the signed-in user as returned by login, registration or a
// profile update.
type Session struct {
	ID      string `json:"_id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
	Token   string `json:"token"`
}

// CartItem is a product snapshot plus the selected quantity. Stock is the
// value seen when the item was last added or updated; it bounds local
// quantity pickers only.
type CartItem struct {
	ID    string  `json:"_id"`
	Name  string  `json:"name"`
	Image string  `json:"image"`
	Price float64 `json:"price"`
	Stock int     `json:"stock"`
	Qty   int     `json:"qty"`
}

type ShippingAddress struct {
	FullName   string `json:"fullName"   validate:"required"`
	Address    string `json:"address"    validate:"required"`
	City       string `json:"city"       validate:"required"`
	PostalCode string `json:"postalCode" validate:"required"`
	Country    string `json:"country"    validate:"required"`
}

// IsZero reports whether no field has been set.
func (a ShippingAddress) IsZero() bool { return a == ShippingAddress{} }

type PaymentMethod string

const (
	PayPal PaymentMethod = "PayPal"
	Stripe PaymentMethod = "Stripe"

	DefaultPaymentMethod = PayPal
)

// PaymentMethods lists the accepted methods in display order.
var PaymentMethods = []PaymentMethod{PayPal, Stripe}

// Valid reports whether m is one of PaymentMethods.
func (m PaymentMethod) Valid() bool {
	return collection.Contains(PaymentMethods, func(p PaymentMethod) bool { return p == m })
}

type Cart struct {
	Items           []CartItem      `json:"cartItems"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	PaymentMethod   PaymentMethod   `json:"paymentMethod"`
}

// State is the whole client-side tree. A nil Session means anonymous.
type State struct {
	Session *Session `json:"userInfo"`
	Cart    Cart     `json:"cart"`
}

// Initial is the tree used when nothing has been persisted yet.
func Initial() State {
	return State{
		Cart: Cart{
			Items:         []CartItem{},
			PaymentMethod: DefaultPaymentMethod,
		},
	}
}

// Clone returns a deep copy so callers can hand snapshots out freely.
func (s State) Clone() State {
	out := s
	if s.Session != nil {
		sess := *s.Session
		out.Session = &sess
	}
	out.Cart.Items = append(make([]CartItem, 0, len(s.Cart.Items)), s.Cart.Items...)
	return out
}

// Authenticated reports whether a session is present.
func (s State) Authenticated() bool { return s.Session != nil }

// IsAdmin reports whether the session belongs to an administrator.
func (s State) IsAdmin() bool { return s.Session != nil && s.Session.IsAdmin }

// ItemCount is the total quantity across the cart (the header badge).
func (c Cart) ItemCount() int {
	return collection.SumInt(c.Items, func(it CartItem) int { return it.Qty })
}

// Item returns the cart entry for id.
func (c Cart) Item(id string) (CartItem, bool) {
	return collection.First(c.Items, func(it CartItem) bool { return it.ID == id })
}
