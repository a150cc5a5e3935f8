package controllers

import (
	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/ctx"
)

type OrderController struct {
	service *services.OrderService
}

func (h *OrderController) Show(c *ctx.Context) {
	v, err := h.service.Order(c.Context(), c.Param("id"))
	view(c, v, err)
}

func (h *OrderController) History(c *ctx.Context) {
	v, err := h.service.History(c.Context())
	view(c, v, err)
}
