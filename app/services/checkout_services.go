package services

import (
	"context"

	"github.com/shashiranjanraj/storefront/pkg/api"
	"github.com/shashiranjanraj/storefront/pkg/apperr"
	"github.com/shashiranjanraj/storefront/pkg/checkout"
	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/metrics"
	"github.com/shashiranjanraj/storefront/pkg/state"
	"github.com/shashiranjanraj/storefront/pkg/validate"
)

// Step is a checkout progress marker shown above each checkout screen.
type Step string

const (
	StepSignIn     Step = "Sign In"
	StepShipping   Step = "Shipping"
	StepPayment    Step = "Payment"
	StepPlaceOrder Step = "Place Order"
)

func steps(n int) []Step {
	return []Step{StepSignIn, StepShipping, StepPayment, StepPlaceOrder}[:n]
}

type CheckoutService struct{ base }

type ShippingView struct {
	Steps   []Step                `json:"steps"`
	Address state.ShippingAddress `json:"shippingAddress"`
}

func (s *CheckoutService) Shipping() ShippingView {
	return ShippingView{Steps: steps(2), Address: s.store.State().Cart.ShippingAddress}
}

// SaveShipping stores addr (all fields required) and moves on to payment.
func (s *CheckoutService) SaveShipping(ctx context.Context, addr state.ShippingAddress) (Result, error) {
	if err := invalid(validate.Struct(addr)); err != nil {
		return Result{}, err
	}
	if err := s.dispatch(ctx, state.SaveShippingAddress{Address: addr}); err != nil {
		return Result{}, err
	}
	return Result{Redirect: "/payment"}, nil
}

type PaymentView struct {
	Steps    []Step                `json:"steps"`
	Selected state.PaymentMethod   `json:"paymentMethod"`
	Methods  []state.PaymentMethod `json:"methods"`
}

// Payment preselects the stored method, or PayPal after a logout emptied it.
func (s *CheckoutService) Payment() PaymentView {
	m := s.store.State().Cart.PaymentMethod
	if m == "" {
		m = state.DefaultPaymentMethod
	}
	return PaymentView{Steps: steps(3), Selected: m, Methods: state.PaymentMethods}
}

func (s *CheckoutService) SavePayment(ctx context.Context, m state.PaymentMethod) (Result, error) {
	if !m.Valid() {
		return Result{}, apperr.InvalidErr("Please choose a payment method", map[string]string{"paymentMethod": "must be PayPal or Stripe"})
	}
	if err := s.dispatch(ctx, state.SavePaymentMethod{Method: m}); err != nil {
		return Result{}, err
	}
	return Result{Redirect: "/placeorder"}, nil
}

type PlaceOrderView struct {
	Steps           []Step                `json:"steps"`
	Items           []state.CartItem      `json:"orderItems"`
	ShippingAddress state.ShippingAddress `json:"shippingAddress"`
	PaymentMethod   state.PaymentMethod   `json:"paymentMethod"`
	Pricing         checkout.Pricing      `json:"pricing"`
	CanPlace        bool                  `json:"canPlace"`
}

// Preview prices the current cart. Prices are derived here every time and
// never stored.
func (s *CheckoutService) Preview() PlaceOrderView {
	cart := s.store.State().Cart
	return PlaceOrderView{
		Steps:           steps(4),
		Items:           cart.Items,
		ShippingAddress: cart.ShippingAddress,
		PaymentMethod:   cart.PaymentMethod,
		Pricing:         checkout.Compute(cart.Items),
		CanPlace:        len(cart.Items) > 0,
	}
}

const cartNotCleared = "Your order was placed, but the cart could not be cleared. Remove the items before ordering again."

// PlaceOrder submits the cart, clears it and opens the new order.
func (s *CheckoutService) PlaceOrder(ctx context.Context) (Result, error) {
	st := s.store.State()
	if st.Session == nil {
		return Result{}, errNotSignedIn
	}
	if len(st.Cart.Items) == 0 {
		return Result{}, apperr.InvalidErr("Cart is empty", nil)
	}

	order, err := s.api.CreateOrder(ctx, st.Session.Token, api.OrderRequest{
		OrderItems:      st.Cart.Items,
		ShippingAddress: st.Cart.ShippingAddress,
		PaymentMethod:   st.Cart.PaymentMethod,
		Pricing:         checkout.Compute(st.Cart.Items),
	})
	if err != nil {
		return Result{}, err
	}
	metrics.OrdersPlaced.Inc()
	logger.WithCtx(ctx).Info("checkout: order placed", "order_id", order.ID)

	// The order exists remotely from here on; a failed clear must not read
	// as a failed placement or the user would submit it again.
	res := Result{Redirect: "/order/" + order.ID}
	if err := s.dispatch(ctx, state.CartClear{}); err != nil {
		logger.WithCtx(ctx).Error("checkout: cart not cleared after order", "order_id", order.ID, "error", err)
		res.Message = cartNotCleared
	}
	return res, nil
}
