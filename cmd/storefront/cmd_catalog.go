package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/storefront/app/services"
)

// storefront products — the home screen.
var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "List products",
	RunE: func(cmd *cobra.Command, _ []string) error {
		v, err := application.Services.Catalog.Home(cmd.Context())
		if err != nil {
			return err
		}
		return show(cmd, v, func(w *tabwriter.Writer) {
			fmt.Fprintln(w, "ID\tNAME\tPRICE\tSTOCK\tRATING")
			for _, p := range v.Products {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.1f (%d)\n", p.ID, p.Name, money(p.Price), p.Stock, p.Rating, p.NumReviews)
			}
			fmt.Fprintf(w, "\ncart: %d item(s)\n", v.CartCount)
		})
	},
}

var flagAdd bool

// storefront product <id> [--add [--qty N]] — the product screen.
var productCmd = &cobra.Command{
	Use:   "product <id>",
	Short: "Show a product; --add puts it in the cart",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagAdd {
			res, err := application.Services.Catalog.AddToCart(cmd.Context(), args[0], flagQty)
			if err != nil {
				return err
			}
			return moved(cmd, res)
		}

		v, err := application.Services.Catalog.Product(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return show(cmd, v, func(w *tabwriter.Writer) { printProduct(w, v) })
	},
}

func printProduct(w *tabwriter.Writer, v services.ProductView) {
	p := v.Product
	status := "In Stock"
	if !v.InStock {
		status = "Out Of Stock"
	}
	fmt.Fprintf(w, "%s\t%s\n", p.Name, money(p.Price))
	fmt.Fprintf(w, "Rating\t%.1f from %d reviews\n", p.Rating, p.NumReviews)
	fmt.Fprintf(w, "Status\t%s\n", status)
	if v.InCart > 0 {
		fmt.Fprintf(w, "In cart\t%d\n", v.InCart)
	}
	fmt.Fprintf(w, "\n%s\n", p.Description)
}

var flagQty int

// storefront cart [add|update|remove|checkout]
var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Show the cart",
	RunE: func(cmd *cobra.Command, _ []string) error {
		v := application.Services.Cart.View()
		return show(cmd, v, func(w *tabwriter.Writer) {
			if v.Empty {
				fmt.Fprintln(w, "Your cart is empty")
				return
			}
			fmt.Fprintln(w, "ID\tNAME\tPRICE\tQTY\tMAX")
			for _, it := range v.Items {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\n", it.ID, it.Name, money(it.Price), it.Qty, it.Stock)
			}
			fmt.Fprintf(w, "\nSubtotal (%d items)\t%s\n", v.ItemCount, money(v.Subtotal))
		})
	},
}

var cartAddCmd = &cobra.Command{
	Use:   "add <id>",
	Short: "Add one more unit (home screen quick add), or set --qty",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			res services.Result
			err error
		)
		if cmd.Flags().Changed("qty") {
			res, err = application.Services.Catalog.AddToCart(cmd.Context(), args[0], flagQty)
		} else {
			res, err = application.Services.Catalog.QuickAdd(cmd.Context(), args[0])
		}
		if err != nil {
			return err
		}
		return moved(cmd, res)
	},
}

var cartUpdateCmd = &cobra.Command{
	Use:   "update <id> <qty>",
	Short: "Change the quantity of a cart line",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		qty, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("qty: %w", err)
		}
		res, err := application.Services.Cart.Update(cmd.Context(), args[0], qty)
		if err != nil {
			return err
		}
		return moved(cmd, res)
	},
}

var cartRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a cart line",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := application.Services.Cart.Remove(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return moved(cmd, res)
	},
}

var cartCheckoutCmd = &cobra.Command{
	Use:   "checkout",
	Short: "Proceed to checkout",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return moved(cmd, application.Services.Cart.Checkout())
	},
}

var cartRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Re-read every cart line from the catalog",
	RunE: func(cmd *cobra.Command, _ []string) error {
		report, err := application.Services.Cart.Refresh(cmd.Context())
		if err != nil {
			return err
		}
		return show(cmd, report, func(w *tabwriter.Writer) {
			fmt.Fprintf(w, "updated\t%d\n", report.Updated)
			if len(report.Shortages) == 0 {
				return
			}
			fmt.Fprintln(w, "\nID\tNAME\tWANTED\tAVAILABLE")
			for _, sh := range report.Shortages {
				fmt.Fprintf(w, "%s\t%s\t%d\t%d\n", sh.ID, sh.Name, sh.Requested, sh.Available)
			}
		})
	},
}

func init() {
	productCmd.Flags().BoolVar(&flagAdd, "add", false, "add to cart and go to the cart")
	productCmd.Flags().IntVar(&flagQty, "qty", 1, "quantity")
	cartAddCmd.Flags().IntVar(&flagQty, "qty", 1, "set the quantity instead of adding one")

	cartCmd.AddCommand(cartAddCmd, cartUpdateCmd, cartRemoveCmd, cartCheckoutCmd, cartRefreshCmd)
}
