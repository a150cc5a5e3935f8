package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

var orderCmd = &cobra.Command{
	Use:   "order <id>",
	Short: "Show an order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := enter("order", "/order/"+args[0]); err != nil {
			return err
		}
		v, err := application.Services.Orders.Order(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return show(cmd, v, func(w *tabwriter.Writer) {
			fmt.Fprintf(w, "Order\t%s\n", v.ID)
			fmt.Fprintf(w, "Payment\t%s (%s)\n", v.PaymentStatus, v.PaymentMethod)
			fmt.Fprintf(w, "Delivery\t%s\n\n", v.DeliveryStatus)
			for _, it := range v.OrderItems {
				fmt.Fprintf(w, "%s\t%d x %s\n", it.Name, it.Qty, money(it.Price))
			}
			fmt.Fprintf(w, "\nTotal\t%s\n", money(v.TotalPrice))
		})
	},
}

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "List your orders",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := enter("orderhistory", "/orderhistory"); err != nil {
			return err
		}
		list, err := application.Services.Orders.History(cmd.Context())
		if err != nil {
			return err
		}
		return show(cmd, list, func(w *tabwriter.Writer) {
			fmt.Fprintln(w, "ID\tDATE\tTOTAL\tPAID\tDELIVERED")
			for _, o := range list {
				date := ""
				if o.CreatedAt != nil {
					date = o.CreatedAt.Format("2006-01-02")
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", o.ID, date, money(o.TotalPrice), yesNo(o.IsPaid), yesNo(o.IsDelivered))
			}
		})
	},
}

// storefront admin users
var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Admin screens",
}

var adminUsersCmd = &cobra.Command{
	Use:   "users",
	Short: "List every user",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := enter("admin.userlist", "/admin/userlist"); err != nil {
			return err
		}
		users, err := application.Services.Admin.Users(cmd.Context())
		if err != nil {
			return err
		}
		return show(cmd, users, func(w *tabwriter.Writer) {
			fmt.Fprintln(w, "ID\tNAME\tEMAIL\tADMIN")
			for _, u := range users {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", u.ID, u.Name, u.Email, yesNo(u.IsAdmin))
			}
		})
	},
}

func init() {
	adminCmd.AddCommand(adminUsersCmd)
}
