package api_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/pkg/api"
	"github.com/shashiranjanraj/storefront/pkg/apperr"
	"github.com/shashiranjanraj/storefront/pkg/checkout"
	"github.com/shashiranjanraj/storefront/pkg/reqid"
	"github.com/shashiranjanraj/storefront/pkg/state"
	"github.com/shashiranjanraj/storefront/pkg/testkit"
)

func client() *api.Client { return api.New("https://shop.test/", 0) }

func TestProducts(t *testing.T) {
	be := testkit.Install(t)
	be.JSON("GET /api/products", http.StatusOK, []map[string]any{
		{"_id": "p1", "name": "Phone", "price": 599.99, "stock": 3, "rating": 4.5, "numReviews": 12},
		{"_id": "p2", "name": "Case", "price": 9.5, "stock": 0},
	})

	got, err := client().Products(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "p1", got[0].ID)
	assert.Equal(t, 4.5, got[0].Rating)
	assert.True(t, got[0].InStock())
	assert.False(t, got[1].InStock())
	be.AssertAllCalled(t)
}

func TestProductToCartItemSnapshotsStock(t *testing.T) {
	p := api.Product{ID: "p1", Name: "Phone", Image: "/i.jpg", Price: 10, Stock: 4, Rating: 5}
	assert.Equal(t, state.CartItem{ID: "p1", Name: "Phone", Image: "/i.jpg", Price: 10, Stock: 4, Qty: 2}, p.CartItem(2))
}

func TestLoginSendsCredentialsAndDecodesSession(t *testing.T) {
	be := testkit.Install(t)
	be.JSON("POST /api/users/login", http.StatusOK, map[string]any{
		"_id": "u1", "name": "Ann", "email": "ann@example.com", "isAdmin": true, "token": "tok",
	})

	sess, err := client().Login(context.Background(), api.Credentials{Email: "ann@example.com", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, state.Session{ID: "u1", Name: "Ann", Email: "ann@example.com", IsAdmin: true, Token: "tok"}, sess)

	testkit.AssertCallBody(t, be, "POST /api/users/login", map[string]string{"email": "ann@example.com", "password": "pw"})
	call, _ := be.Last("POST /api/users/login")
	assert.Empty(t, call.Auth, "login is not authenticated")
}

func TestServerMessageIsSurfaced(t *testing.T) {
	be := testkit.Install(t)
	be.JSON("POST /api/users/login", http.StatusUnauthorized, map[string]string{"message": "Invalid email or password"})

	_, err := client().Login(context.Background(), api.Credentials{})
	require.Error(t, err)

	ae, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.Network, ae.Kind)
	assert.Equal(t, http.StatusUnauthorized, ae.Status)
	assert.Equal(t, "Invalid email or password", apperr.PublicMessage(err))
}

func TestStatusTextWhenNoServerMessage(t *testing.T) {
	be := testkit.Install(t)
	be.JSON("GET /api/products/zz", http.StatusInternalServerError, map[string]string{"error": "boom"})

	_, err := client().Product(context.Background(), "zz")
	assert.Equal(t, "Request failed with status code 500", apperr.PublicMessage(err))
}

func TestTransportErrorText(t *testing.T) {
	be := testkit.Install(t)
	be.Fail("GET /api/products", errors.New("connection refused"))

	_, err := client().Products(context.Background())
	require.True(t, apperr.Is(err, apperr.Network))
	assert.Contains(t, apperr.PublicMessage(err), "connection refused")
	assert.Len(t, be.CallsTo("GET /api/products"), 1, "no automatic retry")
}

func TestReadsRetryWhenConfigured(t *testing.T) {
	be := testkit.Install(t)
	be.JSON("GET /api/products/p1", http.StatusServiceUnavailable, map[string]string{"message": "warming up"})
	be.JSON("GET /api/products/p1", http.StatusOK, api.Product{ID: "p1", Stock: 2})

	p, err := client().WithRetries(3).Product(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, 2, p.Stock)
	assert.Len(t, be.CallsTo("GET /api/products/p1"), 2)
}

func TestOrderPlacementIsNeverRetried(t *testing.T) {
	be := testkit.Install(t)
	be.JSON("POST /api/orders", http.StatusBadGateway, map[string]string{"message": "upstream down"})

	_, err := client().WithRetries(3).CreateOrder(context.Background(), "tok", api.OrderRequest{})
	require.True(t, apperr.Is(err, apperr.Network))
	assert.Len(t, be.CallsTo("POST /api/orders"), 1)
}

func TestAuthenticatedCallsSendBearer(t *testing.T) {
	be := testkit.Install(t)
	be.JSON("GET /api/orders/myorders", http.StatusOK, []api.Order{{ID: "o1"}})
	be.JSON("GET /api/orders/o1", http.StatusOK, api.Order{ID: "o1", IsPaid: true})
	be.JSON("GET /api/users", http.StatusOK, []api.User{{ID: "u1", IsAdmin: true}})
	be.JSON("PUT /api/users/profile", http.StatusOK, state.Session{ID: "u1", Name: "New", Token: "tok2"})

	ctx := context.Background()
	c := client()

	orders, err := c.MyOrders(ctx, "tok")
	require.NoError(t, err)
	assert.Len(t, orders, 1)

	o, err := c.Order(ctx, "tok", "o1")
	require.NoError(t, err)
	assert.True(t, o.IsPaid)

	users, err := c.Users(ctx, "tok")
	require.NoError(t, err)
	assert.True(t, users[0].IsAdmin)

	sess, err := c.UpdateProfile(ctx, "tok", api.ProfileUpdate{Name: "New", Email: "n@x"})
	require.NoError(t, err)
	assert.Equal(t, "tok2", sess.Token)
	testkit.AssertCallBody(t, be, "PUT /api/users/profile", map[string]string{"name": "New", "email": "n@x"})

	for _, call := range be.Calls() {
		assert.Equal(t, "Bearer tok", call.Auth, "%s %s", call.Method, call.Path)
	}
	be.AssertAllCalled(t)
}

func TestCreateOrderPayload(t *testing.T) {
	be := testkit.Install(t)
	be.JSON("POST /api/orders", http.StatusCreated, map[string]any{
		"message": "New Order Created",
		"order":   map[string]any{"_id": "o42", "totalPrice": 102},
	})

	items := []state.CartItem{{ID: "p1", Name: "Phone", Price: 40, Stock: 5, Qty: 2}}
	addr := state.ShippingAddress{FullName: "Ann", Address: "1 Main", City: "Oslo", PostalCode: "0150", Country: "NO"}
	req := api.OrderRequest{
		OrderItems:      items,
		ShippingAddress: addr,
		PaymentMethod:   state.PayPal,
		Pricing:         checkout.Compute(items),
	}

	o, err := client().CreateOrder(context.Background(), "tok", req)
	require.NoError(t, err)
	assert.Equal(t, "o42", o.ID)

	testkit.AssertCallBody(t, be, "POST /api/orders", map[string]any{
		"orderItems": []map[string]any{
			{"_id": "p1", "name": "Phone", "image": "", "price": 40, "stock": 5, "qty": 2},
		},
		"shippingAddress": map[string]string{
			"fullName": "Ann", "address": "1 Main", "city": "Oslo", "postalCode": "0150", "country": "NO",
		},
		"paymentMethod": "PayPal",
		"itemsPrice":    80,
		"shippingPrice": 10,
		"taxPrice":      12,
		"totalPrice":    102,
	})
}

func TestCreateOrderWithoutIDIsAnError(t *testing.T) {
	be := testkit.Install(t)
	be.JSON("POST /api/orders", http.StatusCreated, map[string]any{"order": map[string]any{}})

	_, err := client().CreateOrder(context.Background(), "tok", api.OrderRequest{})
	assert.True(t, apperr.Is(err, apperr.Network))
}

func TestRequestIDForwarded(t *testing.T) {
	be := testkit.Install(t)
	be.JSON("GET /api/products", http.StatusOK, []api.Product{})

	ctx := reqid.WithValue(context.Background(), "rid-1")
	got, err := client().Products(ctx)
	require.NoError(t, err)
	assert.NotNil(t, got)

	call, ok := be.Last("GET /api/products")
	require.True(t, ok)
	assert.Equal(t, "rid-1", call.Header.Get(reqid.Header))
}
