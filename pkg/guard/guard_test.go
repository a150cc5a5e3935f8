package guard_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/storefront/pkg/guard"
	"github.com/shashiranjanraj/storefront/pkg/state"
)

func anonymous() state.State { return state.Initial() }

func signedIn(admin bool) state.State {
	return state.Reduce(state.Initial(), state.Login{Session: state.Session{ID: "u1", IsAdmin: admin, Token: "t"}})
}

func withShipping(s state.State) state.State {
	return state.Reduce(s, state.SaveShippingAddress{Address: state.ShippingAddress{
		FullName: "Ann", Address: "1 Main", City: "Oslo", PostalCode: "0150", Country: "NO",
	}})
}

func TestAnonymousRedirectsToLoginWithPath(t *testing.T) {
	for _, path := range []string{"/shipping", "/profile", "/order/abc123", "/orderhistory"} {
		d := guard.Evaluate(anonymous(), path, guard.Authenticated)
		assert.False(t, d.Allow)
		assert.Equal(t, "/login?redirect="+path, d.Redirect)
	}
}

func TestAdminRequiresFlag(t *testing.T) {
	assert.Equal(t, "/login?redirect=/admin/users", guard.Admin(anonymous(), "/admin/users").Redirect)
	assert.Equal(t, "/login?redirect=/admin/users", guard.Admin(signedIn(false), "/admin/users").Redirect)
	assert.True(t, guard.Admin(signedIn(true), "/admin/users").Allow)
}

func TestCheckoutGatingOrder(t *testing.T) {
	chain := []guard.Guard{guard.Authenticated, guard.ShippingSet, guard.PaymentSet}

	assert.Equal(t, "/login?redirect=/placeorder", guard.Evaluate(anonymous(), "/placeorder", chain...).Redirect)
	assert.Equal(t, "/shipping", guard.Evaluate(signedIn(false), "/placeorder", chain...).Redirect)

	ready := withShipping(signedIn(false))
	assert.True(t, guard.Evaluate(ready, "/placeorder", chain...).Allow, "PayPal is the default method")

	noPayment := ready
	noPayment.Cart.PaymentMethod = ""
	assert.Equal(t, "/payment", guard.Evaluate(noPayment, "/placeorder", chain...).Redirect)
}

func TestShippingNeedsAddressField(t *testing.T) {
	s := state.Reduce(signedIn(false), state.SaveShippingAddress{Address: state.ShippingAddress{FullName: "Ann"}})
	assert.Equal(t, "/shipping", guard.ShippingSet(s, "/payment").Redirect)
}

func TestLoginURLEscapesQuery(t *testing.T) {
	assert.Equal(t, "/login?redirect=/a%3Fb%3Dc", guard.LoginURL("/a?b=c"))
}

func TestSafeRedirect(t *testing.T) {
	cases := map[string]string{
		"":                   "/",
		"/shipping":          "/shipping",
		"//evil.example.com": "/",
		"https://evil":       "/",
		"shipping":           "/",
		"/\\evil":            "/",
	}
	for in, want := range cases {
		assert.Equal(t, want, guard.SafeRedirect(in), "input %q", in)
	}
}

func TestMiddleware(t *testing.T) {
	current := anonymous()
	h := guard.Middleware(func(*http.Request) state.State { return current }, guard.Authenticated)(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusTeapot) }),
	)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/profile", nil))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login?redirect=/profile", rec.Header().Get("Location"))

	current = signedIn(false)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/profile", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}
