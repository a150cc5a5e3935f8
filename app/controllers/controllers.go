// Package controllers adapts the screen services to HTTP. GET handlers
// answer a screen's view model; action handlers answer 303 with the next
// screen.
package controllers

import (
	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/ctx"
	"github.com/shashiranjanraj/storefront/pkg/state"
	"github.com/shashiranjanraj/storefront/pkg/store"
)

type Controllers struct {
	store    *store.Store
	Catalog  *CatalogController
	Cart     *CartController
	Auth     *AuthController
	Checkout *CheckoutController
	Orders   *OrderController
	Admin    *AdminController
}

func New(st *store.Store, svc *services.Services) *Controllers {
	return &Controllers{
		store:    st,
		Catalog:  &CatalogController{svc.Catalog},
		Cart:     &CartController{svc.Cart},
		Auth:     &AuthController{svc.Auth},
		Checkout: &CheckoutController{svc.Checkout},
		Orders:   &OrderController{svc.Orders},
		Admin:    &AdminController{svc.Admin},
	}
}

// State is the current tree, read by the route guards.
func (c *Controllers) State() state.State { return c.store.State() }

func done(c *ctx.Context, res services.Result, err error) {
	if err != nil {
		c.Fail(err)
		return
	}
	c.SeeOther(res.Redirect, res.Message)
}

func view[T any](c *ctx.Context, v T, err error) {
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(v)
}
