package state

// Kind enumerates the recognised actions.
type Kind int

const (
	KindLogin Kind = iota + 1
	KindLogout
	KindCartAddItem
	KindCartRemoveItem
	KindCartClear
	KindSaveShippingAddress
	KindSavePaymentMethod
)

var kindNames = map[Kind]string{
	KindLogin:               "LOGIN",
	KindLogout:              "LOGOUT",
	KindCartAddItem:         "CART_ADD_ITEM",
	KindCartRemoveItem:      "CART_REMOVE_ITEM",
	KindCartClear:           "CART_CLEAR",
	KindSaveShippingAddress: "SAVE_SHIPPING_ADDRESS",
	KindSavePaymentMethod:   "SAVE_PAYMENT_METHOD",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return "UNKNOWN"
}

// Action is a closed set: only the types in this file implement it.
type Action interface {
	Kind() Kind
	sealed()
}

type Login struct{ Session Session }

type Logout struct{}

// CartAddItem inserts Item, or replaces the entry with the same ID wholesale.
type CartAddItem struct{ Item CartItem }

type CartRemoveItem struct{ ID string }

type CartClear struct{}

type SaveShippingAddress struct{ Address ShippingAddress }

type SavePaymentMethod struct{ Method PaymentMethod }

func (Login) Kind() Kind               { return KindLogin }
func (Logout) Kind() Kind              { return KindLogout }
func (CartAddItem) Kind() Kind         { return KindCartAddItem }
func (CartRemoveItem) Kind() Kind      { return KindCartRemoveItem }
func (CartClear) Kind() Kind           { return KindCartClear }
func (SaveShippingAddress) Kind() Kind { return KindSaveShippingAddress }
func (SavePaymentMethod) Kind() Kind   { return KindSavePaymentMethod }

func (Login) sealed()               {}
func (Logout) sealed()              {}
func (CartAddItem) sealed()         {}
func (CartRemoveItem) sealed()      {}
func (CartClear) sealed()           {}
func (SaveShippingAddress) sealed() {}
func (SavePaymentMethod) sealed()   {}
