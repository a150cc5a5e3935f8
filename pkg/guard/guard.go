// Package guard decides whether a screen may be entered for a given state.
//
// A Guard is a pure predicate over the state tree and the requested path.
// It never surfaces an error: a denial is a redirect.
//
//	d := guard.Evaluate(st, "/placeorder", guard.Authenticated, guard.ShippingSet, guard.PaymentSet)
//	if !d.Allow {
//	    // navigate to d.Redirect
//	}
package guard

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/shashiranjanraj/storefront/pkg/state"
)

// Decision is the outcome of evaluating guards.
type Decision struct {
	Allow    bool
	Redirect string
}

var allow = Decision{Allow: true}

func redirect(to string) Decision { return Decision{Redirect: to} }

type Guard func(s state.State, path string) Decision

// LoginURL is the login screen that returns to path after signing in.
func LoginURL(path string) string {
	return "/login?redirect=" + strings.ReplaceAll(url.QueryEscape(path), "%2F", "/")
}

// Authenticated requires a session.
func Authenticated(s state.State, path string) Decision {
	if !s.Authenticated() {
		return redirect(LoginURL(path))
	}
	return allow
}

// Admin requires a session with the admin flag. Non-admins are sent to
// login like anonymous users.
func Admin(s state.State, path string) Decision {
	if !s.IsAdmin() {
		return redirect(LoginURL(path))
	}
	return allow
}

// ShippingSet requires a saved shipping address.
func ShippingSet(s state.State, _ string) Decision {
	if s.Cart.ShippingAddress.Address == "" {
		return redirect("/shipping")
	}
	return allow
}

// PaymentSet requires a chosen payment method.
func PaymentSet(s state.State, _ string) Decision {
	if s.Cart.PaymentMethod == "" {
		return redirect("/payment")
	}
	return allow
}

// Evaluate runs guards in order; the first denial wins.
func Evaluate(s state.State, path string, guards ...Guard) Decision {
	for _, g := range guards {
		if d := g(s, path); !d.Allow {
			return d
		}
	}
	return allow
}

// SafeRedirect returns target when it is a local absolute path, else "/".
// Used for the login screen's redirect parameter.
func SafeRedirect(target string) string {
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return "/"
	}
	return target
}

// Middleware applies guards to every request, answering 302 Found with the
// redirect on denial. current supplies the state to check.
func Middleware(current func(*http.Request) state.State, guards ...Guard) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if d := Evaluate(current(r), r.URL.Path, guards...); !d.Allow {
				http.Redirect(w, r, d.Redirect, http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
