package controllers

import (
	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/ctx"
)

type CartController struct {
	service *services.CartService
}

func (h *CartController) Index(c *ctx.Context) {
	c.Success(h.service.View())
}

func (h *CartController) Update(c *ctx.Context) {
	var in qtyInput
	if !c.Bind(&in) {
		return
	}
	res, err := h.service.Update(c.Context(), c.Param("id"), in.Qty)
	done(c, res, err)
}

func (h *CartController) Remove(c *ctx.Context) {
	res, err := h.service.Remove(c.Context(), c.Param("id"))
	done(c, res, err)
}

func (h *CartController) Checkout(c *ctx.Context) {
	done(c, h.service.Checkout(), nil)
}

// Refresh answers the refresh report rather than redirecting.
func (h *CartController) Refresh(c *ctx.Context) {
	report, err := h.service.Refresh(c.Context())
	view(c, report, err)
}
