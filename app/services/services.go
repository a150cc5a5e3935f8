// Package services holds the screen controllers: each method loads a view
// model or performs a screen action against the remote API and the state
// store. They are shared by the HTTP surface and the CLI.
package services

import (
	"context"

	"github.com/shashiranjanraj/storefront/pkg/api"
	"github.com/shashiranjanraj/storefront/pkg/apperr"
	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/metrics"
	"github.com/shashiranjanraj/storefront/pkg/state"
	"github.com/shashiranjanraj/storefront/pkg/store"
)

// Result is the outcome of a completed screen action.
type Result struct {
	Redirect string `json:"redirect"`
	Message  string `json:"message,omitempty"`
}

// Services bundles every screen controller over one store and API client.
type Services struct {
	Catalog  *CatalogService
	Cart     *CartService
	Auth     *AuthService
	Checkout *CheckoutService
	Orders   *OrderService
	Admin    *AdminService
}

func New(st *store.Store, client *api.Client) *Services {
	b := base{store: st, api: client}
	return &Services{
		Catalog:  &CatalogService{b},
		Cart:     &CartService{b},
		Auth:     &AuthService{b},
		Checkout: &CheckoutService{b},
		Orders:   &OrderService{b},
		Admin:    &AdminService{b},
	}
}

type base struct {
	store *store.Store
	api   *api.Client
}

var errNotSignedIn = apperr.InvalidErr("Please sign in first", nil)

// token returns the session token, or errNotSignedIn. Routes guard these
// screens already; this covers direct library use.
func (b base) token() (string, error) {
	st := b.store.State()
	if st.Session == nil {
		return "", errNotSignedIn
	}
	return st.Session.Token, nil
}

func (b base) dispatch(ctx context.Context, a state.Action) error {
	if _, err := b.store.Dispatch(ctx, a); err != nil {
		return apperr.Wrap(err)
	}
	return nil
}

func (b base) dispatchIf(ctx context.Context, when func(state.State) bool, a state.Action) (bool, error) {
	_, applied, err := b.store.DispatchIf(ctx, when, a)
	if err != nil {
		return false, apperr.Wrap(err)
	}
	return applied, nil
}

// freshProduct re-reads id and refuses qty when live stock is lower.
// The check and the following dispatch are not atomic with respect to the
// backend; another buyer can still take the stock in between.
func (b base) freshProduct(ctx context.Context, id string, qty int) (api.Product, error) {
	p, err := b.api.Product(ctx, id)
	if err != nil {
		return api.Product{}, err
	}
	if p.Stock < qty {
		metrics.StockConflicts.Inc()
		logger.WithCtx(ctx).Info("cart: stock conflict", "product", id, "requested", qty, "stock", p.Stock)
		return api.Product{}, apperr.StockConflictErr(id, qty, p.Stock)
	}
	return p, nil
}

// qtyOptions is 1..stock, the choices a quantity picker offers.
func qtyOptions(stock int) []int {
	if stock < 1 {
		return []int{}
	}
	out := make([]int, stock)
	for i := range out {
		out[i] = i + 1
	}
	return out
}
