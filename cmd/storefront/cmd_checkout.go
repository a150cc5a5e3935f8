package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/state"
)

var addr state.ShippingAddress

func steps(w *tabwriter.Writer, s []services.Step) {
	names := make([]string, len(s))
	for i, st := range s {
		names[i] = string(st)
	}
	fmt.Fprintf(w, "[%s]\n\n", strings.Join(names, " > "))
}

// storefront shipping [--full-name ... --country ...]
var shippingCmd = &cobra.Command{
	Use:   "shipping",
	Short: "Show the shipping address; flags save a new one",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := enter("shipping", "/shipping"); err != nil {
			return err
		}
		if anyChanged(cmd, "full-name", "address", "city", "postal-code", "country") {
			res, err := application.Services.Checkout.SaveShipping(cmd.Context(), addr)
			if err != nil {
				return err
			}
			return moved(cmd, res)
		}

		v := application.Services.Checkout.Shipping()
		return show(cmd, v, func(w *tabwriter.Writer) {
			steps(w, v.Steps)
			a := v.Address
			fmt.Fprintf(w, "Full name\t%s\nAddress\t%s\nCity\t%s\nPostal code\t%s\nCountry\t%s\n",
				a.FullName, a.Address, a.City, a.PostalCode, a.Country)
		})
	},
}

func anyChanged(cmd *cobra.Command, names ...string) bool {
	for _, n := range names {
		if cmd.Flags().Changed(n) {
			return true
		}
	}
	return false
}

// storefront payment [PayPal|Stripe]
var paymentCmd = &cobra.Command{
	Use:       "payment [method]",
	Short:     "Show or choose the payment method",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{string(state.PayPal), string(state.Stripe)},
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := enter("payment", "/payment"); err != nil {
			return err
		}
		if len(args) == 1 {
			res, err := application.Services.Checkout.SavePayment(cmd.Context(), state.PaymentMethod(args[0]))
			if err != nil {
				return err
			}
			return moved(cmd, res)
		}

		v := application.Services.Checkout.Payment()
		return show(cmd, v, func(w *tabwriter.Writer) {
			steps(w, v.Steps)
			for _, m := range v.Methods {
				mark := " "
				if m == v.Selected {
					mark = "*"
				}
				fmt.Fprintf(w, "(%s) %s\n", mark, m)
			}
		})
	},
}

var flagSubmit bool

// storefront placeorder [--submit]
var placeOrderCmd = &cobra.Command{
	Use:   "placeorder",
	Short: "Preview the order; --submit places it",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := enter("placeorder", "/placeorder"); err != nil {
			return err
		}
		if flagSubmit {
			res, err := application.Services.Checkout.PlaceOrder(cmd.Context())
			if err != nil {
				return err
			}
			return moved(cmd, res)
		}

		v := application.Services.Checkout.Preview()
		return show(cmd, v, func(w *tabwriter.Writer) {
			steps(w, v.Steps)
			a := v.ShippingAddress
			fmt.Fprintf(w, "Shipping\t%s, %s %s, %s\n", a.Address, a.City, a.PostalCode, a.Country)
			fmt.Fprintf(w, "Method\t%s\n\n", v.PaymentMethod)
			if len(v.Items) == 0 {
				fmt.Fprintln(w, "Your cart is empty")
			}
			for _, it := range v.Items {
				fmt.Fprintf(w, "%s\t%d x %s = %s\n", it.Name, it.Qty, money(it.Price), money(float64(it.Qty)*it.Price))
			}
			p := v.Pricing
			fmt.Fprintf(w, "\nItems\t%s\nShipping\t%s\nTax\t%s\nTotal\t%s\n",
				money(p.ItemsPrice), money(p.ShippingPrice), money(p.TaxPrice), money(p.TotalPrice))
		})
	},
}

func init() {
	f := shippingCmd.Flags()
	f.StringVar(&addr.FullName, "full-name", "", "recipient")
	f.StringVar(&addr.Address, "address", "", "street address")
	f.StringVar(&addr.City, "city", "", "city")
	f.StringVar(&addr.PostalCode, "postal-code", "", "postal code")
	f.StringVar(&addr.Country, "country", "", "country")

	placeOrderCmd.Flags().BoolVar(&flagSubmit, "submit", false, "place the order")
}
