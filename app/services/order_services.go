package services

import (
	"context"

	"github.com/shashiranjanraj/storefront/pkg/api"
)

type OrderService struct{ base }

type OrderView struct {
	api.Order
	PaymentStatus  string `json:"paymentStatus"`
	DeliveryStatus string `json:"deliveryStatus"`
}

func (s *OrderService) Order(ctx context.Context, id string) (OrderView, error) {
	token, err := s.token()
	if err != nil {
		return OrderView{}, err
	}
	o, err := s.api.Order(ctx, token, id)
	if err != nil {
		return OrderView{}, err
	}
	return newOrderView(o), nil
}

func newOrderView(o api.Order) OrderView {
	v := OrderView{Order: o, PaymentStatus: "Not Paid", DeliveryStatus: "Not Delivered"}
	if o.IsPaid {
		v.PaymentStatus = "Paid"
		if o.PaidAt != nil {
			v.PaymentStatus += " at " + o.PaidAt.Format("2006-01-02 15:04")
		}
	}
	if o.IsDelivered {
		v.DeliveryStatus = "Delivered"
		if o.DeliveredAt != nil {
			v.DeliveryStatus += " at " + o.DeliveredAt.Format("2006-01-02 15:04")
		}
	}
	return v
}

// History lists the signed-in user's orders.
func (s *OrderService) History(ctx context.Context) ([]OrderView, error) {
	token, err := s.token()
	if err != nil {
		return nil, err
	}
	orders, err := s.api.MyOrders(ctx, token)
	if err != nil {
		return nil, err
	}
	out := make([]OrderView, len(orders))
	for i, o := range orders {
		out[i] = newOrderView(o)
	}
	return out, nil
}
