package services

import (
	"context"

	"github.com/shashiranjanraj/storefront/pkg/api"
	"github.com/shashiranjanraj/storefront/pkg/apperr"
	"github.com/shashiranjanraj/storefront/pkg/state"
)

type CatalogService struct{ base }

type HomeView struct {
	Products  []api.Product `json:"products"`
	CartCount int           `json:"cartCount"`
}

func (s *CatalogService) Home(ctx context.Context) (HomeView, error) {
	products, err := s.api.Products(ctx)
	if err != nil {
		return HomeView{}, err
	}
	return HomeView{Products: products, CartCount: s.store.State().Cart.ItemCount()}, nil
}

type ProductView struct {
	Product    api.Product `json:"product"`
	InStock    bool        `json:"inStock"`
	QtyOptions []int       `json:"qtyOptions"`
	InCart     int         `json:"inCart"`
	CartCount  int         `json:"cartCount"`
}

func (s *CatalogService) Product(ctx context.Context, id string) (ProductView, error) {
	p, err := s.api.Product(ctx, id)
	if err != nil {
		return ProductView{}, err
	}
	cart := s.store.State().Cart
	view := ProductView{
		Product:    p,
		InStock:    p.InStock(),
		QtyOptions: qtyOptions(p.Stock),
		CartCount:  cart.ItemCount(),
	}
	if it, ok := cart.Item(id); ok {
		view.InCart = it.Qty
	}
	return view, nil
}

// QuickAdd is the home screen's "Add to cart": one more unit than the cart
// already holds, checked against live stock.
func (s *CatalogService) QuickAdd(ctx context.Context, id string) (Result, error) {
	qty := 1
	if it, ok := s.store.State().Cart.Item(id); ok {
		qty = it.Qty + 1
	}

	p, err := s.freshProduct(ctx, id, qty)
	if err != nil {
		return Result{}, err
	}
	if err := s.dispatch(ctx, state.CartAddItem{Item: p.CartItem(qty)}); err != nil {
		return Result{}, err
	}
	return Result{Redirect: "/"}, nil
}

// AddToCart is the product screen's button: sets the cart quantity to qty
// and moves to the cart.
func (s *CatalogService) AddToCart(ctx context.Context, id string, qty int) (Result, error) {
	if qty < 1 {
		return Result{}, apperr.InvalidErr("Quantity must be at least 1", map[string]string{"qty": "min 1"})
	}

	p, err := s.freshProduct(ctx, id, qty)
	if err != nil {
		return Result{}, err
	}
	if err := s.dispatch(ctx, state.CartAddItem{Item: p.CartItem(qty)}); err != nil {
		return Result{}, err
	}
	return Result{Redirect: "/cart"}, nil
}
