package services

import (
	"context"
	"fmt"

	"github.com/shashiranjanraj/storefront/pkg/api"
	"github.com/shashiranjanraj/storefront/pkg/apperr"
	"github.com/shashiranjanraj/storefront/pkg/checkout"
	"github.com/shashiranjanraj/storefront/pkg/guard"
	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/metrics"
	"github.com/shashiranjanraj/storefront/pkg/state"
	"github.com/shashiranjanraj/storefront/pkg/workerpool"
)

// refreshWorkers bounds concurrent product lookups during Refresh.
const refreshWorkers = 4

type CartService struct{ base }

type CartLine struct {
	state.CartItem
	QtyOptions []int `json:"qtyOptions"`
}

type CartView struct {
	Items     []CartLine `json:"cartItems"`
	ItemCount int        `json:"itemCount"`
	Subtotal  float64    `json:"subtotal"`
	Empty     bool       `json:"empty"`
}

func (s *CartService) View() CartView {
	cart := s.store.State().Cart
	lines := make([]CartLine, 0, len(cart.Items))
	for _, it := range cart.Items {
		lines = append(lines, CartLine{CartItem: it, QtyOptions: qtyOptions(it.Stock)})
	}
	return CartView{
		Items:     lines,
		ItemCount: cart.ItemCount(),
		Subtotal:  checkout.Compute(cart.Items).ItemsPrice,
		Empty:     len(cart.Items) == 0,
	}
}

// Update sets the quantity of a cart line. Increases are checked against
// live stock and refresh the stock snapshot; decreases stay local.
func (s *CartService) Update(ctx context.Context, id string, qty int) (Result, error) {
	if qty < 1 {
		return Result{}, apperr.InvalidErr("Quantity must be at least 1", map[string]string{"qty": "min 1"})
	}
	item, ok := s.store.State().Cart.Item(id)
	if !ok {
		return Result{}, apperr.InvalidErr(fmt.Sprintf("Product %s is not in the cart", id), nil)
	}

	if qty > item.Qty {
		p, err := s.freshProduct(ctx, id, qty)
		if err != nil {
			return Result{}, err
		}
		item.Stock = p.Stock
	}
	item.Qty = qty

	if err := s.dispatch(ctx, state.CartAddItem{Item: item}); err != nil {
		return Result{}, err
	}
	return Result{Redirect: "/cart"}, nil
}

// Remove drops a line. Removing an absent id is not an error.
func (s *CartService) Remove(ctx context.Context, id string) (Result, error) {
	if err := s.dispatch(ctx, state.CartRemoveItem{ID: id}); err != nil {
		return Result{}, err
	}
	return Result{Redirect: "/cart"}, nil
}

// Checkout always goes through login; a signed-in user is bounced straight
// on to shipping by the login screen.
func (s *CartService) Checkout() Result {
	return Result{Redirect: guard.LoginURL("/shipping")}
}

// Shortage is a cart line whose quantity live stock can no longer cover.
type Shortage struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Requested int    `json:"requested"`
	Available int    `json:"available"`
}

type RefreshReport struct {
	Updated   int        `json:"updated"`
	Shortages []Shortage `json:"shortages"`
}

// Refresh re-reads every cart line from the catalog and brings the name,
// image, price and stock snapshots up to date. Lines that live stock cannot
// cover are reported and left untouched. Any failed lookup aborts the
// refresh before the cart is modified. A line that was changed, removed or
// ordered while the lookups ran is left as it now is.
func (s *CartService) Refresh(ctx context.Context) (RefreshReport, error) {
	items := s.store.State().Cart.Items
	fresh := make([]api.Product, len(items))
	errs := make([]error, len(items))

	if err := workerpool.Each(ctx, refreshWorkers, len(items), func(ctx context.Context, i int) {
		fresh[i], errs[i] = s.api.Product(ctx, items[i].ID)
	}); err != nil {
		return RefreshReport{}, apperr.Wrap(err)
	}
	for _, err := range errs {
		if err != nil {
			return RefreshReport{}, err
		}
	}

	report := RefreshReport{Shortages: []Shortage{}}
	for i, it := range items {
		p := fresh[i]
		if p.Stock < it.Qty {
			metrics.StockConflicts.Inc()
			report.Shortages = append(report.Shortages, Shortage{ID: it.ID, Name: it.Name, Requested: it.Qty, Available: p.Stock})
			continue
		}
		next := p.CartItem(it.Qty)
		if next == it {
			continue
		}
		applied, err := s.dispatchIf(ctx, lineUnchanged(it), state.CartAddItem{Item: next})
		if err != nil {
			return report, err
		}
		if applied {
			report.Updated++
		}
	}

	if len(report.Shortages) > 0 {
		logger.WithCtx(ctx).Info("cart: refresh found shortages", "count", len(report.Shortages))
	}
	return report, nil
}

// lineUnchanged holds while the cart still has it exactly as read.
func lineUnchanged(it state.CartItem) func(state.State) bool {
	return func(cur state.State) bool {
		now, ok := cur.Cart.Item(it.ID)
		return ok && now == it
	}
}
