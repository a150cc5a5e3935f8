package api

import (
	"time"

	"github.com/shashiranjanraj/storefront/pkg/checkout"
	"github.com/shashiranjanraj/storefront/pkg/state"
)

type Product struct {
	ID          string  `json:"_id"`
	Name        string  `json:"name"`
	Image       string  `json:"image"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	Rating      float64 `json:"rating"`
	NumReviews  int     `json:"numReviews"`
	Description string  `json:"description"`
}

// InStock reports whether at least one unit is available.
func (p Product) InStock() bool { return p.Stock > 0 }

// CartItem snapshots p with qty. The stock is copied at this moment and is
// only used to bound local quantity pickers.
func (p Product) CartItem(qty int) state.CartItem {
	return state.CartItem{
		ID:    p.ID,
		Name:  p.Name,
		Image: p.Image,
		Price: p.Price,
		Stock: p.Stock,
		Qty:   qty,
	}
}

// User is a row of the admin user list.
type User struct {
	ID      string `json:"_id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ProfileUpdate leaves the password unchanged when Password is empty.
type ProfileUpdate struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
}

// OrderRequest is the body of POST /api/orders.
type OrderRequest struct {
	OrderItems      []state.CartItem      `json:"orderItems"`
	ShippingAddress state.ShippingAddress `json:"shippingAddress"`
	PaymentMethod   state.PaymentMethod   `json:"paymentMethod"`
	checkout.Pricing
}

type OrderItem struct {
	ID      string  `json:"_id"`
	Name    string  `json:"name"`
	Image   string  `json:"image"`
	Price   float64 `json:"price"`
	Qty     int     `json:"qty"`
	Product string  `json:"product,omitempty"`
}

type Order struct {
	ID              string                `json:"_id"`
	User            string                `json:"user,omitempty"`
	OrderItems      []OrderItem           `json:"orderItems"`
	ShippingAddress state.ShippingAddress `json:"shippingAddress"`
	PaymentMethod   state.PaymentMethod   `json:"paymentMethod"`
	ItemsPrice      float64               `json:"itemsPrice"`
	ShippingPrice   float64               `json:"shippingPrice"`
	TaxPrice        float64               `json:"taxPrice"`
	TotalPrice      float64               `json:"totalPrice"`
	IsPaid          bool                  `json:"isPaid"`
	PaidAt          *time.Time            `json:"paidAt,omitempty"`
	IsDelivered     bool                  `json:"isDelivered"`
	DeliveredAt     *time.Time            `json:"deliveredAt,omitempty"`
	CreatedAt       *time.Time            `json:"createdAt,omitempty"`
}

type createdOrder struct {
	Message string `json:"message"`
	Order   Order  `json:"order"`
}
