// Package graphql exposes the state tree and the catalogue as a read-only
// GraphQL schema served at /graphql.
//
//	{ cart { itemCount pricing { totalPrice } items { id qty } } }
package graphql

import (
	"context"

	"github.com/graphql-go/graphql"

	"github.com/shashiranjanraj/storefront/pkg/api"
	"github.com/shashiranjanraj/storefront/pkg/checkout"
	"github.com/shashiranjanraj/storefront/pkg/state"
)

// Catalog is the part of the API client the schema reads products from.
type Catalog interface {
	Products(ctx context.Context) ([]api.Product, error)
	Product(ctx context.Context, id string) (api.Product, error)
}

var sessionType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Session",
	Fields: graphql.Fields{
		"id":      &graphql.Field{Type: graphql.String},
		"name":    &graphql.Field{Type: graphql.String},
		"email":   &graphql.Field{Type: graphql.String},
		"isAdmin": &graphql.Field{Type: graphql.Boolean},
	},
})

var cartItemType = graphql.NewObject(graphql.ObjectConfig{
	Name: "CartItem",
	Fields: graphql.Fields{
		"id":    &graphql.Field{Type: graphql.String},
		"name":  &graphql.Field{Type: graphql.String},
		"image": &graphql.Field{Type: graphql.String},
		"price": &graphql.Field{Type: graphql.Float},
		"stock": &graphql.Field{Type: graphql.Int},
		"qty":   &graphql.Field{Type: graphql.Int},
	},
})

var addressType = graphql.NewObject(graphql.ObjectConfig{
	Name: "ShippingAddress",
	Fields: graphql.Fields{
		"fullName":   &graphql.Field{Type: graphql.String},
		"address":    &graphql.Field{Type: graphql.String},
		"city":       &graphql.Field{Type: graphql.String},
		"postalCode": &graphql.Field{Type: graphql.String},
		"country":    &graphql.Field{Type: graphql.String},
	},
})

var pricingType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Pricing",
	Fields: graphql.Fields{
		"itemsPrice":    &graphql.Field{Type: graphql.Float},
		"shippingPrice": &graphql.Field{Type: graphql.Float},
		"taxPrice":      &graphql.Field{Type: graphql.Float},
		"totalPrice":    &graphql.Field{Type: graphql.Float},
	},
})

var cartType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Cart",
	Fields: graphql.Fields{
		"items":           &graphql.Field{Type: graphql.NewList(cartItemType)},
		"itemCount":       &graphql.Field{Type: graphql.Int},
		"shippingAddress": &graphql.Field{Type: addressType},
		"paymentMethod":   &graphql.Field{Type: graphql.String},
		"pricing":         &graphql.Field{Type: pricingType},
	},
})

var productType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Product",
	Fields: graphql.Fields{
		"id":          &graphql.Field{Type: graphql.String},
		"name":        &graphql.Field{Type: graphql.String},
		"image":       &graphql.Field{Type: graphql.String},
		"price":       &graphql.Field{Type: graphql.Float},
		"stock":       &graphql.Field{Type: graphql.Int},
		"rating":      &graphql.Field{Type: graphql.Float},
		"numReviews":  &graphql.Field{Type: graphql.Int},
		"description": &graphql.Field{Type: graphql.String},
		"inStock":     &graphql.Field{Type: graphql.Boolean},
	},
})

// NewSchema builds the schema over the live tree and the catalogue.
func NewSchema(current func() state.State, catalog Catalog) (graphql.Schema, error) {
	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"session": &graphql.Field{
				Type: sessionType,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					s := current().Session
					if s == nil {
						return nil, nil
					}
					return sessionMap(*s), nil
				},
			},
			"cart": &graphql.Field{
				Type: cartType,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return cartMap(current().Cart), nil
				},
			},
			"products": &graphql.Field{
				Type: graphql.NewList(productType),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					list, err := catalog.Products(p.Context)
					if err != nil {
						return nil, err
					}
					out := make([]map[string]any, len(list))
					for i, pr := range list {
						out[i] = productMap(pr)
					}
					return out, nil
				},
			},
			"product": &graphql.Field{
				Type: productType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					id, _ := p.Args["id"].(string)
					pr, err := catalog.Product(p.Context, id)
					if err != nil {
						return nil, err
					}
					return productMap(pr), nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{Query: query})
}

// The token is deliberately absent from Session.
func sessionMap(s state.Session) map[string]any {
	return map[string]any{"id": s.ID, "name": s.Name, "email": s.Email, "isAdmin": s.IsAdmin}
}

func cartMap(c state.Cart) map[string]any {
	items := make([]map[string]any, len(c.Items))
	for i, it := range c.Items {
		items[i] = map[string]any{
			"id": it.ID, "name": it.Name, "image": it.Image,
			"price": it.Price, "stock": it.Stock, "qty": it.Qty,
		}
	}
	p := checkout.Compute(c.Items)
	a := c.ShippingAddress
	return map[string]any{
		"items":     items,
		"itemCount": c.ItemCount(),
		"shippingAddress": map[string]any{
			"fullName": a.FullName, "address": a.Address, "city": a.City,
			"postalCode": a.PostalCode, "country": a.Country,
		},
		"paymentMethod": string(c.PaymentMethod),
		"pricing": map[string]any{
			"itemsPrice": p.ItemsPrice, "shippingPrice": p.ShippingPrice,
			"taxPrice": p.TaxPrice, "totalPrice": p.TotalPrice,
		},
	}
}

func productMap(p api.Product) map[string]any {
	return map[string]any{
		"id": p.ID, "name": p.Name, "image": p.Image, "price": p.Price,
		"stock": p.Stock, "rating": p.Rating, "numReviews": p.NumReviews,
		"description": p.Description, "inStock": p.InStock(),
	}
}
