// Package routes wires the screen table onto the local HTTP surface.
package routes

import (
	"net/http"

	"github.com/shashiranjanraj/storefront/app/controllers"
	"github.com/shashiranjanraj/storefront/pkg/ctx"
	"github.com/shashiranjanraj/storefront/pkg/guard"
	"github.com/shashiranjanraj/storefront/pkg/router"
	"github.com/shashiranjanraj/storefront/pkg/state"
)

// Register mounts every screen. GET renders a screen's view model; other
// methods run its actions. Both pass through the screen's guards.
func Register(r *router.Router, c *controllers.Controllers) {
	current := func(*http.Request) state.State { return c.State() }
	gate := func(name string) router.Middleware {
		s, _ := Lookup(name)
		return guard.Middleware(current, s.Guards...)
	}

	r.Get("/", "home", ctx.Wrap(c.Catalog.Home))
	r.Post("/quickadd/{id}", "home.quickadd", ctx.Wrap(c.Catalog.QuickAdd))
	r.Get("/product/{id}", "product", ctx.Wrap(c.Catalog.Show))
	r.Post("/product/{id}", "product.add", ctx.Wrap(c.Catalog.Add))

	r.Get("/cart", "cart", ctx.Wrap(c.Cart.Index))
	r.Post("/cart/checkout", "cart.checkout", ctx.Wrap(c.Cart.Checkout))
	r.Post("/cart/refresh", "cart.refresh", ctx.Wrap(c.Cart.Refresh))
	cart := r.Group("/cart")
	cart.Put("/{id}", "cart.update", ctx.Wrap(c.Cart.Update))
	cart.Delete("/{id}", "cart.remove", ctx.Wrap(c.Cart.Remove))

	r.Get("/login", "login", ctx.Wrap(c.Auth.LoginForm))
	r.Post("/login", "login.submit", ctx.Wrap(c.Auth.Login))
	r.Get("/register", "register", ctx.Wrap(c.Auth.RegisterForm))
	r.Post("/register", "register.submit", ctx.Wrap(c.Auth.Register))
	r.Post("/logout", "logout", ctx.Wrap(c.Auth.Logout))

	r.Get("/shipping", "shipping", ctx.Wrap(c.Checkout.Shipping), gate("shipping"))
	r.Post("/shipping", "shipping.save", ctx.Wrap(c.Checkout.SaveShipping), gate("shipping"))
	r.Get("/payment", "payment", ctx.Wrap(c.Checkout.Payment), gate("payment"))
	r.Post("/payment", "payment.save", ctx.Wrap(c.Checkout.SavePayment), gate("payment"))
	r.Get("/placeorder", "placeorder", ctx.Wrap(c.Checkout.Preview), gate("placeorder"))
	r.Post("/placeorder", "placeorder.submit", ctx.Wrap(c.Checkout.PlaceOrder), gate("placeorder"))

	r.Get("/order/{id}", "order", ctx.Wrap(c.Orders.Show), gate("order"))
	r.Get("/orderhistory", "orderhistory", ctx.Wrap(c.Orders.History), gate("orderhistory"))
	r.Get("/profile", "profile", ctx.Wrap(c.Auth.Profile), gate("profile"))
	r.Post("/profile", "profile.update", ctx.Wrap(c.Auth.UpdateProfile), gate("profile"))

	adm := r.Group("/admin", gate("admin.userlist"))
	adm.Get("/userlist", "admin.userlist", ctx.Wrap(c.Admin.Users))
	adm.Get("/productlist", "admin.productlist", ctx.Wrap(c.Admin.ProductList))
	adm.Get("/product/{id}/edit", "admin.productedit", ctx.Wrap(c.Admin.ProductEdit))
	adm.Get("/orderlist", "admin.orderlist", ctx.Wrap(c.Admin.OrderList))
}
