package controllers

import (
	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/ctx"
)

type AuthController struct {
	service *services.AuthService
}

// LoginForm answers the login screen, or 303 onward when already signed in.
func (h *AuthController) LoginForm(c *ctx.Context) {
	v, onward := h.service.Entry(c.Query("redirect"))
	if onward != nil {
		done(c, *onward, nil)
		return
	}
	c.Success(v)
}

func (h *AuthController) Login(c *ctx.Context) {
	var in services.LoginInput
	if !c.Bind(&in) {
		return
	}
	res, err := h.service.Login(c.Context(), in, c.Query("redirect"))
	done(c, res, err)
}

func (h *AuthController) RegisterForm(c *ctx.Context) { h.LoginForm(c) }

func (h *AuthController) Register(c *ctx.Context) {
	var in services.RegisterInput
	if !c.Bind(&in) {
		return
	}
	res, err := h.service.Register(c.Context(), in, c.Query("redirect"))
	done(c, res, err)
}

func (h *AuthController) Logout(c *ctx.Context) {
	res, err := h.service.Logout(c.Context())
	done(c, res, err)
}

func (h *AuthController) Profile(c *ctx.Context) {
	v, err := h.service.Profile()
	view(c, v, err)
}

func (h *AuthController) UpdateProfile(c *ctx.Context) {
	var in services.ProfileInput
	if !c.Bind(&in) {
		return
	}
	res, err := h.service.UpdateProfile(c.Context(), in)
	done(c, res, err)
}
