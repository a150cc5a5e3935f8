package services_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/api"
	"github.com/shashiranjanraj/storefront/pkg/apperr"
	sfhttp "github.com/shashiranjanraj/storefront/pkg/http"
	"github.com/shashiranjanraj/storefront/pkg/slots"
	"github.com/shashiranjanraj/storefront/pkg/state"
	"github.com/shashiranjanraj/storefront/pkg/store"
	"github.com/shashiranjanraj/storefront/pkg/testkit"
)

type fixture struct {
	be    *testkit.Backend
	kv    *slots.MemoryKV
	store *store.Store
	svc   *services.Services
}

func setup(t *testing.T) *fixture {
	t.Helper()
	be := testkit.Install(t)
	kv := slots.NewMemory()
	st, err := store.New(context.Background(), slots.NewBridge(kv, ""), nil)
	require.NoError(t, err)
	return &fixture{be: be, kv: kv, store: st, svc: services.New(st, api.New("https://shop.test", 0))}
}

func (f *fixture) signIn(t *testing.T, sess state.Session) {
	t.Helper()
	_, err := f.store.Dispatch(context.Background(), state.Login{Session: sess})
	require.NoError(t, err)
}

func product(id string, stock int) api.Product {
	return api.Product{ID: id, Name: "Item " + id, Price: 40, Stock: stock}
}

var ctx = context.Background()

func TestQuickAddIncrementsAndChecksStock(t *testing.T) {
	f := setup(t)
	f.be.JSON("GET /api/products/p1", http.StatusOK, product("p1", 2))

	res, err := f.svc.Catalog.QuickAdd(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "/", res.Redirect)

	_, err = f.svc.Catalog.QuickAdd(ctx, "p1")
	require.NoError(t, err)
	it, _ := f.store.State().Cart.Item("p1")
	assert.Equal(t, 2, it.Qty)

	_, err = f.svc.Catalog.QuickAdd(ctx, "p1")
	assert.True(t, apperr.Is(err, apperr.StockConflict))
	it, _ = f.store.State().Cart.Item("p1")
	assert.Equal(t, 2, it.Qty, "cart unchanged after conflict")
}

func TestAddToCartSetsQuantity(t *testing.T) {
	f := setup(t)
	f.be.JSON("GET /api/products/p1", http.StatusOK, product("p1", 5))

	res, err := f.svc.Catalog.AddToCart(ctx, "p1", 3)
	require.NoError(t, err)
	assert.Equal(t, "/cart", res.Redirect)

	_, err = f.svc.Catalog.AddToCart(ctx, "p1", 1)
	require.NoError(t, err)
	items := f.store.State().Cart.Items
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Qty)

	_, err = f.svc.Catalog.AddToCart(ctx, "p1", 0)
	assert.True(t, apperr.Is(err, apperr.Invalid))
}

func TestProductView(t *testing.T) {
	f := setup(t)
	f.be.JSON("GET /api/products/p1", http.StatusOK, product("p1", 3))

	v, err := f.svc.Catalog.Product(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, v.InStock)
	assert.Equal(t, []int{1, 2, 3}, v.QtyOptions)
	assert.Zero(t, v.InCart)
}

func TestHomeSurfacesNetworkError(t *testing.T) {
	f := setup(t)
	f.be.JSON("GET /api/products", http.StatusInternalServerError, map[string]string{"message": "db down"})

	_, err := f.svc.Catalog.Home(ctx)
	assert.Equal(t, "db down", apperr.PublicMessage(err))
}

func TestCartUpdate(t *testing.T) {
	f := setup(t)
	f.be.JSON("GET /api/products/p1", http.StatusOK, product("p1", 2)).
		JSON("GET /api/products/p1", http.StatusOK, product("p1", 9))

	_, err := f.svc.Catalog.AddToCart(ctx, "p1", 2)
	require.NoError(t, err)

	_, err = f.svc.Cart.Update(ctx, "p1", 1)
	require.NoError(t, err)
	assert.Len(t, f.be.CallsTo("GET /api/products/p1"), 1, "decrease stays local")

	_, err = f.svc.Cart.Update(ctx, "p1", 6)
	require.NoError(t, err)
	it, _ := f.store.State().Cart.Item("p1")
	assert.Equal(t, 6, it.Qty)
	assert.Equal(t, 9, it.Stock, "stock snapshot refreshed")

	_, err = f.svc.Cart.Update(ctx, "zz", 1)
	assert.True(t, apperr.Is(err, apperr.Invalid))
}

func TestCartViewAndRemove(t *testing.T) {
	f := setup(t)
	f.be.JSON("GET /api/products/p1", http.StatusOK, product("p1", 4))
	_, err := f.svc.Catalog.AddToCart(ctx, "p1", 2)
	require.NoError(t, err)

	v := f.svc.Cart.View()
	assert.Equal(t, 2, v.ItemCount)
	assert.Equal(t, 80.0, v.Subtotal)
	assert.Equal(t, []int{1, 2, 3, 4}, v.Items[0].QtyOptions)

	_, err = f.svc.Cart.Remove(ctx, "p1")
	require.NoError(t, err)
	_, err = f.svc.Cart.Remove(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, f.svc.Cart.View().Empty)
	assert.Equal(t, "/login?redirect=/shipping", f.svc.Cart.Checkout().Redirect)
}

func TestLoginPersistsSessionAndRedirects(t *testing.T) {
	f := setup(t)
	f.be.JSON("POST /api/users/login", http.StatusOK, state.Session{ID: "u1", Email: "a@x", Token: "tok"})

	res, err := f.svc.Auth.Login(ctx, services.LoginInput{Email: "a@x", Password: "pw"}, "/shipping")
	require.NoError(t, err)
	assert.Equal(t, "/shipping", res.Redirect)
	assert.True(t, f.store.State().Authenticated())

	raw, ok, err := f.kv.Get(ctx, string(state.SlotSession))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, raw, `"token":"tok"`)

	_, redirect := f.svc.Auth.Entry("https://evil.test")
	require.NotNil(t, redirect)
	assert.Equal(t, "/", redirect.Redirect)
}

func TestLoginRejectedLeavesStateAlone(t *testing.T) {
	f := setup(t)
	f.be.JSON("POST /api/users/login", http.StatusUnauthorized, map[string]string{"message": "Invalid email or password"})

	_, err := f.svc.Auth.Login(ctx, services.LoginInput{Email: "a@x", Password: "bad"}, "")
	assert.Equal(t, "Invalid email or password", apperr.PublicMessage(err))
	assert.False(t, f.store.State().Authenticated())
	assert.Zero(t, f.kv.Len())
}

func TestLoginRequiresFields(t *testing.T) {
	f := setup(t)
	_, err := f.svc.Auth.Login(ctx, services.LoginInput{}, "")

	ae, ok := apperr.As(err)
	require.True(t, ok)
	assert.Contains(t, ae.Fields, "email")
	assert.Empty(t, f.be.Calls())
}

func TestRegisterPasswordMismatch(t *testing.T) {
	f := setup(t)
	_, err := f.svc.Auth.Register(ctx, services.RegisterInput{
		Name: "A", Email: "a@x", Password: "one", ConfirmPassword: "two",
	}, "")
	assert.Equal(t, "Passwords do not match", apperr.PublicMessage(err))
	assert.Empty(t, f.be.Calls())
}

func TestRegisterSignsIn(t *testing.T) {
	f := setup(t)
	f.be.JSON("POST /api/users", http.StatusCreated, state.Session{ID: "u2", Name: "B", Token: "t2"})

	res, err := f.svc.Auth.Register(ctx, services.RegisterInput{
		Name: "B", Email: "b@x", Password: "pw", ConfirmPassword: "pw",
	}, "")
	require.NoError(t, err)
	assert.Equal(t, "/", res.Redirect)
	assert.Equal(t, "u2", f.store.State().Session.ID)
}

func TestLogoutClearsEverySlot(t *testing.T) {
	f := setup(t)
	f.signIn(t, state.Session{ID: "u1", Token: "tok"})
	_, err := f.svc.Checkout.SavePayment(ctx, state.Stripe)
	require.NoError(t, err)

	res, err := f.svc.Auth.Logout(ctx)
	require.NoError(t, err)
	assert.Equal(t, "/login", res.Redirect)
	assert.Zero(t, f.kv.Len())
	assert.Equal(t, state.PayPal, f.svc.Checkout.Payment().Selected)
}

func TestUpdateProfileKeepsTokenWhenAbsent(t *testing.T) {
	f := setup(t)
	f.signIn(t, state.Session{ID: "u1", Name: "Old", Token: "tok"})
	f.be.JSON("PUT /api/users/profile", http.StatusOK, state.Session{ID: "u1", Name: "New", Email: "n@x"})

	res, err := f.svc.Auth.UpdateProfile(ctx, services.ProfileInput{Name: "New", Email: "n@x"})
	require.NoError(t, err)
	assert.Equal(t, "Profile Updated Successfully", res.Message)

	sess := f.store.State().Session
	assert.Equal(t, "New", sess.Name)
	assert.Equal(t, "tok", sess.Token)

	call, _ := f.be.Last("PUT /api/users/profile")
	assert.Equal(t, "Bearer tok", call.Auth)
	assert.NotContains(t, string(call.Body), "password")
}

func TestProfileRequiresSession(t *testing.T) {
	f := setup(t)
	_, err := f.svc.Auth.Profile()
	assert.Error(t, err)
}

func TestSaveShippingValidates(t *testing.T) {
	f := setup(t)
	_, err := f.svc.Checkout.SaveShipping(ctx, state.ShippingAddress{FullName: "Ann"})
	ae, ok := apperr.As(err)
	require.True(t, ok)
	assert.Contains(t, ae.Fields, "city")
	assert.True(t, f.store.State().Cart.ShippingAddress.IsZero())

	addr := state.ShippingAddress{FullName: "Ann", Address: "1 Main", City: "Oslo", PostalCode: "0150", Country: "NO"}
	res, err := f.svc.Checkout.SaveShipping(ctx, addr)
	require.NoError(t, err)
	assert.Equal(t, "/payment", res.Redirect)
	assert.Equal(t, addr, f.svc.Checkout.Shipping().Address)
}

func TestSavePaymentRejectsUnknown(t *testing.T) {
	f := setup(t)
	_, err := f.svc.Checkout.SavePayment(ctx, "Cash")
	assert.True(t, apperr.Is(err, apperr.Invalid))

	res, err := f.svc.Checkout.SavePayment(ctx, state.Stripe)
	require.NoError(t, err)
	assert.Equal(t, "/placeorder", res.Redirect)

	raw, _, _ := f.kv.Get(ctx, string(state.SlotPaymentMethod))
	assert.Equal(t, "Stripe", raw)
}

func TestPlaceOrderClearsCart(t *testing.T) {
	f := setup(t)
	f.signIn(t, state.Session{ID: "u1", Token: "tok"})
	f.be.JSON("GET /api/products/p1", http.StatusOK, product("p1", 5))
	f.be.JSON("POST /api/orders", http.StatusCreated, map[string]any{
		"message": "New Order Created",
		"order":   map[string]any{"_id": "o9"},
	})
	_, err := f.svc.Catalog.AddToCart(ctx, "p1", 2)
	require.NoError(t, err)

	preview := f.svc.Checkout.Preview()
	assert.True(t, preview.CanPlace)
	assert.Equal(t, 102.0, preview.Pricing.TotalPrice)

	res, err := f.svc.Checkout.PlaceOrder(ctx)
	require.NoError(t, err)
	assert.Equal(t, "/order/o9", res.Redirect)
	assert.Empty(t, f.store.State().Cart.Items)

	call, _ := f.be.Last("POST /api/orders")
	assert.Equal(t, "Bearer tok", call.Auth)
	assert.Contains(t, string(call.Body), `"totalPrice":102`)
}

// diskFullKV fails every delete, as a full disk would for the cart slot.
type diskFullKV struct{ *slots.MemoryKV }

func (diskFullKV) Delete(context.Context, ...string) error { return errors.New("disk full") }

func TestPlaceOrderRedirectsEvenWhenCartClearFails(t *testing.T) {
	be := testkit.Install(t)
	st, err := store.New(ctx, slots.NewBridge(diskFullKV{slots.NewMemory()}, ""), nil)
	require.NoError(t, err)
	svc := services.New(st, api.New("https://shop.test", 0))

	_, err = st.Dispatch(ctx, state.Login{Session: state.Session{ID: "u1", Token: "tok"}})
	require.NoError(t, err)
	_, err = st.Dispatch(ctx, state.CartAddItem{Item: state.CartItem{ID: "p1", Price: 40, Stock: 5, Qty: 1}})
	require.NoError(t, err)
	be.JSON("POST /api/orders", http.StatusCreated, map[string]any{"order": map[string]any{"_id": "o9"}})

	res, err := svc.Checkout.PlaceOrder(ctx)
	require.NoError(t, err)
	assert.Equal(t, "/order/o9", res.Redirect)
	assert.Contains(t, res.Message, "could not be cleared")
	assert.Len(t, be.CallsTo("POST /api/orders"), 1)
}

func TestPlaceOrderFailureKeepsCart(t *testing.T) {
	f := setup(t)
	f.signIn(t, state.Session{ID: "u1", Token: "tok"})
	f.be.JSON("GET /api/products/p1", http.StatusOK, product("p1", 5))
	f.be.JSON("POST /api/orders", http.StatusBadRequest, map[string]string{"message": "No order items"})
	_, err := f.svc.Catalog.AddToCart(ctx, "p1", 1)
	require.NoError(t, err)

	_, err = f.svc.Checkout.PlaceOrder(ctx)
	assert.Equal(t, "No order items", apperr.PublicMessage(err))
	assert.Len(t, f.store.State().Cart.Items, 1)
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	f := setup(t)
	f.signIn(t, state.Session{ID: "u1", Token: "tok"})

	_, err := f.svc.Checkout.PlaceOrder(ctx)
	assert.Equal(t, "Cart is empty", apperr.PublicMessage(err))
	assert.Empty(t, f.be.Calls())
}

func TestOrdersAndHistory(t *testing.T) {
	f := setup(t)
	f.signIn(t, state.Session{ID: "u1", Token: "tok"})
	f.be.JSON("GET /api/orders/o1", http.StatusOK, api.Order{ID: "o1", IsPaid: true})
	f.be.JSON("GET /api/orders/myorders", http.StatusOK, []api.Order{{ID: "o1"}, {ID: "o2", IsDelivered: true}})

	o, err := f.svc.Orders.Order(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, "Paid", o.PaymentStatus)
	assert.Equal(t, "Not Delivered", o.DeliveryStatus)

	list, err := f.svc.Orders.History(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Delivered", list[1].DeliveryStatus)
	f.be.AssertAllCalled(t)
}

func TestAdminUsers(t *testing.T) {
	f := setup(t)
	_, err := f.svc.Admin.Users(ctx)
	assert.Error(t, err, "needs a session")

	f.signIn(t, state.Session{ID: "u1", IsAdmin: true, Token: "tok"})
	f.be.JSON("GET /api/users", http.StatusOK, []api.User{{ID: "u1", IsAdmin: true}})
	users, err := f.svc.Admin.Users(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
	assert.Equal(t, "p7", f.svc.Admin.ProductEdit("p7").ID)
}

func TestCartRefreshUpdatesSnapshotsAndReportsShortages(t *testing.T) {
	f := setup(t)
	f.be.JSON("GET /api/products/p1", http.StatusOK, product("p1", 5))
	f.be.JSON("GET /api/products/p2", http.StatusOK, product("p2", 5))
	_, err := f.svc.Catalog.AddToCart(ctx, "p1", 2)
	require.NoError(t, err)
	_, err = f.svc.Catalog.AddToCart(ctx, "p2", 3)
	require.NoError(t, err)

	cheaper := product("p1", 4)
	cheaper.Price = 35
	f.be.JSON("GET /api/products/p1", http.StatusOK, cheaper)
	f.be.JSON("GET /api/products/p2", http.StatusOK, product("p2", 1))

	report, err := f.svc.Cart.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Updated)
	require.Len(t, report.Shortages, 1)
	assert.Equal(t, services.Shortage{ID: "p2", Name: "Item p2", Requested: 3, Available: 1}, report.Shortages[0])

	p1, _ := f.store.State().Cart.Item("p1")
	assert.Equal(t, 35.0, p1.Price)
	assert.Equal(t, 4, p1.Stock)
	assert.Equal(t, 2, p1.Qty)
	p2, _ := f.store.State().Cart.Item("p2")
	assert.Equal(t, 5, p2.Stock, "short line left untouched")
}

func TestCartRefreshAbortsOnLookupFailure(t *testing.T) {
	f := setup(t)
	f.be.JSON("GET /api/products/p1", http.StatusOK, product("p1", 5))
	_, err := f.svc.Catalog.AddToCart(ctx, "p1", 1)
	require.NoError(t, err)

	f.be.JSON("GET /api/products/p1", http.StatusInternalServerError, map[string]string{"message": "down"})

	_, err = f.svc.Cart.Refresh(ctx)
	assert.True(t, apperr.Is(err, apperr.Network))
	p1, _ := f.store.State().Cart.Item("p1")
	assert.Equal(t, 5, p1.Stock)
}

func TestCartRefreshEmptyCart(t *testing.T) {
	f := setup(t)
	report, err := f.svc.Cart.Refresh(ctx)
	require.NoError(t, err)
	assert.Zero(t, report.Updated)
	assert.Empty(t, report.Shortages)
	assert.Empty(t, f.be.Calls())
}

// heldTransport parks one route until release is closed.
type heldTransport struct {
	next    http.RoundTripper
	key     string
	entered chan struct{}
	release chan struct{}
}

func (h *heldTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Method+" "+req.URL.Path == h.key {
		h.entered <- struct{}{}
		<-h.release
	}
	return h.next.RoundTrip(req)
}

func TestCartRefreshDoesNotResurrectPlacedOrder(t *testing.T) {
	f := setup(t)
	f.signIn(t, state.Session{ID: "u1", Token: "tok"})
	f.be.JSON("GET /api/products/p1", http.StatusOK, product("p1", 5))
	_, err := f.svc.Catalog.AddToCart(ctx, "p1", 2)
	require.NoError(t, err)

	cheaper := product("p1", 5)
	cheaper.Price = 35
	f.be.JSON("GET /api/products/p1", http.StatusOK, cheaper)
	f.be.JSON("POST /api/orders", http.StatusCreated, map[string]any{"order": map[string]any{"_id": "o1"}})

	held := &heldTransport{next: f.be, key: "GET /api/products/p1", entered: make(chan struct{}, 1), release: make(chan struct{})}
	sfhttp.DefaultClient.Transport = held

	type outcome struct {
		report services.RefreshReport
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		r, err := f.svc.Cart.Refresh(ctx)
		done <- outcome{r, err}
	}()

	select {
	case <-held.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("refresh never looked the product up")
	}
	res, err := f.svc.Checkout.PlaceOrder(ctx)
	require.NoError(t, err)
	assert.Equal(t, "/order/o1", res.Redirect)
	close(held.release)

	out := <-done
	require.NoError(t, out.err)
	assert.Zero(t, out.report.Updated)
	assert.Empty(t, f.store.State().Cart.Items)
	_, present, _ := f.kv.Get(ctx, string(state.SlotCartItems))
	assert.False(t, present)
}

func TestCartRefreshKeepsQuantityChangedMeanwhile(t *testing.T) {
	f := setup(t)
	f.be.JSON("GET /api/products/p1", http.StatusOK, product("p1", 5))
	_, err := f.svc.Catalog.AddToCart(ctx, "p1", 2)
	require.NoError(t, err)

	cheaper := product("p1", 5)
	cheaper.Price = 35
	f.be.JSON("GET /api/products/p1", http.StatusOK, cheaper)

	held := &heldTransport{next: f.be, key: "GET /api/products/p1", entered: make(chan struct{}, 1), release: make(chan struct{})}
	sfhttp.DefaultClient.Transport = held

	done := make(chan error, 1)
	go func() {
		_, err := f.svc.Cart.Refresh(ctx)
		done <- err
	}()
	<-held.entered
	_, err = f.svc.Cart.Update(ctx, "p1", 1)
	require.NoError(t, err)
	close(held.release)
	require.NoError(t, <-done)

	it, ok := f.store.State().Cart.Item("p1")
	require.True(t, ok)
	assert.Equal(t, 1, it.Qty)
	assert.Equal(t, 40.0, it.Price, "stale refresh did not overwrite the line")
}

// panickyTransport panics on every call, as a broken decoder would.
type panickyTransport struct{}

func (panickyTransport) RoundTrip(*http.Request) (*http.Response, error) { panic("broken transport") }

func TestCartRefreshAbortsWhenLookupPanics(t *testing.T) {
	f := setup(t)
	f.be.JSON("GET /api/products/p1", http.StatusOK, product("p1", 5))
	_, err := f.svc.Catalog.AddToCart(ctx, "p1", 2)
	require.NoError(t, err)

	sfhttp.DefaultClient.Transport = panickyTransport{}

	report, err := f.svc.Cart.Refresh(ctx)
	require.Error(t, err)
	assert.Empty(t, report.Shortages, "no false shortage")
	it, _ := f.store.State().Cart.Item("p1")
	assert.Equal(t, 2, it.Qty)
}
