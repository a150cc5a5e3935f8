package controllers

import (
	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/ctx"
)

type AdminController struct {
	service *services.AdminService
}

func (h *AdminController) Users(c *ctx.Context) {
	v, err := h.service.Users(c.Context())
	view(c, v, err)
}

func (h *AdminController) ProductList(c *ctx.Context) { c.Success(h.service.ProductList()) }

func (h *AdminController) ProductEdit(c *ctx.Context) {
	c.Success(h.service.ProductEdit(c.Param("id")))
}

func (h *AdminController) OrderList(c *ctx.Context) { c.Success(h.service.OrderList()) }
