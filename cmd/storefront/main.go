package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/storefront/config"
	"github.com/shashiranjanraj/storefront/pkg/app"
	"github.com/shashiranjanraj/storefront/pkg/apperr"
	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/reqid"
)

// Exit codes.
const (
	exitError  = 1
	exitDenied = 2
)

var (
	flagAPI     string
	flagSlots   string
	flagVerbose bool
	flagJSON    bool

	application *app.Application
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(reqid.WithValue(ctx, reqid.New()))
	if err == nil {
		return
	}

	var denied *deniedError
	if errors.As(err, &denied) {
		fmt.Fprintln(os.Stderr, "redirect:", denied.to)
		os.Exit(exitDenied)
	}
	fmt.Fprintln(os.Stderr, "error:", apperr.PublicMessage(err))
	logger.Debug("command failed", "error", err)
	os.Exit(exitError)
}

var rootCmd = &cobra.Command{
	Use:           "storefront",
	Short:         "Storefront client: browse, fill a cart and check out from the terminal",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if flagAPI != "" {
			config.Set("API_BASE_URL", flagAPI)
		}
		if flagSlots != "" {
			config.Set("SLOT_DRIVER", flagSlots)
		}
		if !flagVerbose {
			logger.SetOutput(slog.New(slog.NewTextHandler(io.Discard, nil)))
		}
		if cmd.Annotations["boot"] == "false" {
			return nil
		}

		a, err := app.Boot(cmd.Context())
		if err != nil {
			return err
		}
		application = a
		return nil
	},
	PersistentPostRunE: func(*cobra.Command, []string) error {
		if application == nil {
			return nil
		}
		return application.Close()
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagAPI, "api", "", "remote API base URL (overrides API_BASE_URL)")
	pf.StringVar(&flagSlots, "slots", "", "slot driver: memory, disk, redis, sql, mongo (overrides SLOT_DRIVER)")
	pf.BoolVarP(&flagVerbose, "verbose", "v", false, "log to stderr")
	pf.BoolVar(&flagJSON, "json", false, "print raw JSON view models")

	// Server
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(routesCmd)

	// Screens
	rootCmd.AddCommand(productsCmd)
	rootCmd.AddCommand(productCmd)
	rootCmd.AddCommand(cartCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(shippingCmd)
	rootCmd.AddCommand(paymentCmd)
	rootCmd.AddCommand(placeOrderCmd)
	rootCmd.AddCommand(orderCmd)
	rootCmd.AddCommand(ordersCmd)
	rootCmd.AddCommand(adminCmd)
	rootCmd.AddCommand(stateCmd)
}
