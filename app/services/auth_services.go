package services

import (
	"context"

	"github.com/shashiranjanraj/storefront/pkg/api"
	"github.com/shashiranjanraj/storefront/pkg/apperr"
	"github.com/shashiranjanraj/storefront/pkg/guard"
	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/state"
	"github.com/shashiranjanraj/storefront/pkg/validate"
)

const passwordMismatch = "Passwords do not match"

type AuthService struct{ base }

type LoginInput struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RegisterInput struct {
	Name            string `json:"name"            validate:"required"`
	Email           string `json:"email"           validate:"required"`
	Password        string `json:"password"        validate:"required"`
	ConfirmPassword string `json:"confirmPassword" validate:"confirmed=password"`
}

// ProfileInput leaves the password unchanged when Password is empty.
type ProfileInput struct {
	Name            string `json:"name"  validate:"required"`
	Email           string `json:"email" validate:"required"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword" validate:"confirmed=password"`
}

// AuthView is what the login and register screens render.
type AuthView struct {
	Redirect string `json:"redirect"`
}

// Entry resolves the login/register screen for redirect. A signed-in user
// is sent on immediately (the returned Result is non-nil).
func (s *AuthService) Entry(redirect string) (AuthView, *Result) {
	target := guard.SafeRedirect(redirect)
	if s.store.State().Authenticated() {
		return AuthView{}, &Result{Redirect: target}
	}
	return AuthView{Redirect: target}, nil
}

// invalid reports a password mismatch ahead of missing fields.
func invalid(errs map[string]string) error {
	if !validate.HasErrors(errs) {
		return nil
	}
	if _, ok := errs["confirmPassword"]; ok {
		return apperr.InvalidErr(passwordMismatch, map[string]string{"confirmPassword": passwordMismatch})
	}
	return apperr.InvalidErr("Please fill in all required fields", errs)
}

func (s *AuthService) Login(ctx context.Context, in LoginInput, redirect string) (Result, error) {
	target := guard.SafeRedirect(redirect)
	if s.store.State().Authenticated() {
		return Result{Redirect: target}, nil
	}
	if err := invalid(validate.Struct(in)); err != nil {
		return Result{}, err
	}

	sess, err := s.api.Login(ctx, api.Credentials{Email: in.Email, Password: in.Password})
	if err != nil {
		return Result{}, err
	}
	if err := s.dispatch(ctx, state.Login{Session: sess}); err != nil {
		return Result{}, err
	}
	logger.WithCtx(ctx).Info("auth: signed in", "user", sess.ID)
	return Result{Redirect: target}, nil
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput, redirect string) (Result, error) {
	target := guard.SafeRedirect(redirect)
	if s.store.State().Authenticated() {
		return Result{Redirect: target}, nil
	}
	if err := invalid(validate.Struct(in)); err != nil {
		return Result{}, err
	}

	sess, err := s.api.Register(ctx, api.Registration{Name: in.Name, Email: in.Email, Password: in.Password})
	if err != nil {
		return Result{}, err
	}
	if err := s.dispatch(ctx, state.Login{Session: sess}); err != nil {
		return Result{}, err
	}
	logger.WithCtx(ctx).Info("auth: registered", "user", sess.ID)
	return Result{Redirect: target}, nil
}

// Logout clears the session and every persisted slot.
func (s *AuthService) Logout(ctx context.Context) (Result, error) {
	if err := s.dispatch(ctx, state.Logout{}); err != nil {
		return Result{}, err
	}
	return Result{Redirect: "/login"}, nil
}

type ProfileView struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (s *AuthService) Profile() (ProfileView, error) {
	sess := s.store.State().Session
	if sess == nil {
		return ProfileView{}, errNotSignedIn
	}
	return ProfileView{Name: sess.Name, Email: sess.Email}, nil
}

// UpdateProfile saves the profile and replaces the session with the
// server's answer. The previous token is kept if the answer has none.
func (s *AuthService) UpdateProfile(ctx context.Context, in ProfileInput) (Result, error) {
	sess := s.store.State().Session
	if sess == nil {
		return Result{}, errNotSignedIn
	}
	if err := invalid(validate.Struct(in)); err != nil {
		return Result{}, err
	}

	updated, err := s.api.UpdateProfile(ctx, sess.Token, api.ProfileUpdate{
		Name: in.Name, Email: in.Email, Password: in.Password,
	})
	if err != nil {
		return Result{}, err
	}
	if updated.Token == "" {
		updated.Token = sess.Token
	}
	if err := s.dispatch(ctx, state.Login{Session: updated}); err != nil {
		return Result{}, err
	}
	return Result{Redirect: "/profile", Message: "Profile Updated Successfully"}, nil
}
