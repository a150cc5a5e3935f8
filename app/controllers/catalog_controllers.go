package controllers

import (
	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/ctx"
)

type CatalogController struct {
	service *services.CatalogService
}

func (h *CatalogController) Home(c *ctx.Context) {
	v, err := h.service.Home(c.Context())
	view(c, v, err)
}

func (h *CatalogController) Show(c *ctx.Context) {
	v, err := h.service.Product(c.Context(), c.Param("id"))
	view(c, v, err)
}

func (h *CatalogController) QuickAdd(c *ctx.Context) {
	res, err := h.service.QuickAdd(c.Context(), c.Param("id"))
	done(c, res, err)
}

// qtyInput treats an absent qty as zero so Add can fall back to the query.
type qtyInput struct {
	Qty int `json:"qty" validate:"nullable,min=1"`
}

// Add takes the quantity from the body, falling back to ?qty= and then 1.
func (h *CatalogController) Add(c *ctx.Context) {
	var in qtyInput
	if !c.Bind(&in) {
		return
	}
	if in.Qty == 0 {
		in.Qty = c.QueryInt("qty", 1)
	}
	res, err := h.service.AddToCart(c.Context(), c.Param("id"), in.Qty)
	done(c, res, err)
}
