package app_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/config"
	"github.com/shashiranjanraj/storefront/pkg/api"
	"github.com/shashiranjanraj/storefront/pkg/app"
	"github.com/shashiranjanraj/storefront/pkg/slots"
	"github.com/shashiranjanraj/storefront/pkg/state"
	"github.com/shashiranjanraj/storefront/pkg/testkit"
)

func TestApplicationRehydratesFromSlots(t *testing.T) {
	ctx := context.Background()
	kv := slots.NewMemory()
	bridge := slots.NewBridge(kv, "storefront:")

	first, err := app.New(ctx, bridge, api.New("https://shop.test", 0))
	require.NoError(t, err)
	_, err = first.Store.Dispatch(ctx, state.SavePaymentMethod{Method: state.Stripe})
	require.NoError(t, err)

	second, err := app.New(ctx, slots.NewBridge(kv, "storefront:"), api.New("https://shop.test", 0))
	require.NoError(t, err)
	assert.Equal(t, state.Stripe, second.Store.State().Cart.PaymentMethod)
	require.NoError(t, second.Close())
}

func TestKernelServesOperationalEndpoints(t *testing.T) {
	testkit.Install(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := app.New(ctx, slots.NewBridge(slots.NewMemory(), ""), api.New("https://shop.test", 0))
	require.NoError(t, err)
	k, err := a.Kernel(ctx)
	require.NoError(t, err)
	defer k.Close()

	for path, want := range map[string]int{
		"/healthz": http.StatusOK,
		"/metrics": http.StatusOK,
		"/cart":    http.StatusOK,
		"/nowhere": http.StatusNotFound,
		"/graphql?query=%7Bcart%7BitemCount%7D%7D": http.StatusOK,
	} {
		rec := httptest.NewRecorder()
		k.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, want, rec.Code, path)
		assert.NotEmpty(t, rec.Header().Get("X-Request-ID"), path)
	}
	assert.NotEmpty(t, k.Routes())
}

func TestScheduleRegistersCartRefreshWhenConfigured(t *testing.T) {
	ctx := context.Background()
	a, err := app.New(ctx, slots.NewBridge(slots.NewMemory(), ""), api.New("https://shop.test", 0))
	require.NoError(t, err)

	assert.Empty(t, a.Schedule().List())

	config.Set("CART_REFRESH", "1m")
	t.Cleanup(func() { config.Set("CART_REFRESH", "") })
	assert.Equal(t, []string{"cart.refresh  [1m0s]"}, a.Schedule().List())
}
