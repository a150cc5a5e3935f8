package routes

import (
	"github.com/shashiranjanraj/storefront/pkg/guard"
	"github.com/shashiranjanraj/storefront/pkg/state"
)

// Screen is one navigable screen and the guards that gate it, in the order
// they are evaluated.
type Screen struct {
	Name   string
	Path   string
	Guards []guard.Guard
}

var (
	auth     = []guard.Guard{guard.Authenticated}
	admin    = []guard.Guard{guard.Admin}
	payment  = []guard.Guard{guard.Authenticated, guard.ShippingSet}
	placeOrd = []guard.Guard{guard.Authenticated, guard.ShippingSet, guard.PaymentSet}
)

// Screens is the navigation table shared by the HTTP surface and the CLI.
var Screens = []Screen{
	{Name: "home", Path: "/"},
	{Name: "product", Path: "/product/{id}"},
	{Name: "cart", Path: "/cart"},
	{Name: "login", Path: "/login"},
	{Name: "register", Path: "/register"},
	{Name: "shipping", Path: "/shipping", Guards: auth},
	{Name: "payment", Path: "/payment", Guards: payment},
	{Name: "placeorder", Path: "/placeorder", Guards: placeOrd},
	{Name: "order", Path: "/order/{id}", Guards: auth},
	{Name: "profile", Path: "/profile", Guards: auth},
	{Name: "orderhistory", Path: "/orderhistory", Guards: auth},
	{Name: "admin.userlist", Path: "/admin/userlist", Guards: admin},
	{Name: "admin.productlist", Path: "/admin/productlist", Guards: admin},
	{Name: "admin.productedit", Path: "/admin/product/{id}/edit", Guards: admin},
	{Name: "admin.orderlist", Path: "/admin/orderlist", Guards: admin},
}

// Lookup returns the screen called name.
func Lookup(name string) (Screen, bool) {
	for _, s := range Screens {
		if s.Name == name {
			return s, true
		}
	}
	return Screen{}, false
}

// Enter evaluates the guards of screen name for the concrete path being
// requested. Unknown screens are allowed.
func Enter(st state.State, name, path string) guard.Decision {
	s, ok := Lookup(name)
	if !ok {
		return guard.Decision{Allow: true}
	}
	return guard.Evaluate(st, path, s.Guards...)
}
