package controllers

import (
	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/ctx"
	"github.com/shashiranjanraj/storefront/pkg/state"
)

type CheckoutController struct {
	service *services.CheckoutService
}

func (h *CheckoutController) Shipping(c *ctx.Context) { c.Success(h.service.Shipping()) }

// SaveShipping binds without validation; the service reports missing fields.
func (h *CheckoutController) SaveShipping(c *ctx.Context) {
	var in struct {
		FullName   string `json:"fullName"`
		Address    string `json:"address"`
		City       string `json:"city"`
		PostalCode string `json:"postalCode"`
		Country    string `json:"country"`
	}
	if !c.Bind(&in) {
		return
	}
	res, err := h.service.SaveShipping(c.Context(), state.ShippingAddress(in))
	done(c, res, err)
}

func (h *CheckoutController) Payment(c *ctx.Context) { c.Success(h.service.Payment()) }

func (h *CheckoutController) SavePayment(c *ctx.Context) {
	var in struct {
		PaymentMethod string `json:"paymentMethod" validate:"required,in=PayPal|Stripe"`
	}
	if !c.Bind(&in) {
		return
	}
	res, err := h.service.SavePayment(c.Context(), state.PaymentMethod(in.PaymentMethod))
	done(c, res, err)
}

func (h *CheckoutController) Preview(c *ctx.Context) { c.Success(h.service.Preview()) }

func (h *CheckoutController) PlaceOrder(c *ctx.Context) {
	res, err := h.service.PlaceOrder(c.Context())
	done(c, res, err)
}
