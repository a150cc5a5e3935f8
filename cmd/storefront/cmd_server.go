package main

import (
	"context"
	"fmt"
	"net"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/storefront/config"
	"github.com/shashiranjanraj/storefront/internal/kernel"
	"github.com/shashiranjanraj/storefront/pkg/api"
	"github.com/shashiranjanraj/storefront/pkg/slots"
	"github.com/shashiranjanraj/storefront/pkg/store"
)

var flagAddr string

// storefront serve — expose every screen over HTTP.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the screens, /metrics, /ws and /graphql over HTTP",
	RunE: func(cmd *cobra.Command, _ []string) error {
		addr := flagAddr
		if addr == "" {
			addr = net.JoinHostPort("127.0.0.1", config.AppPort())
		}
		fmt.Fprintln(cmd.OutOrStdout(), "storefront serving on http://"+addr)
		return application.Serve(cmd.Context(), addr)
	},
}

// storefront routes — print the screen table as mounted.
var routesCmd = &cobra.Command{
	Use:         "routes",
	Short:       "List the named routes of the HTTP surface",
	Annotations: map[string]string{"boot": "false"},
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		st, err := store.New(ctx, slots.NewBridge(slots.NewMemory(), ""), nil)
		if err != nil {
			return err
		}
		k, err := kernel.NewHTTPKernel(ctx, st, api.New("http://localhost", 0))
		if err != nil {
			return err
		}
		defer k.Close()

		infos := k.Routes()
		return show(cmd, infos, func(w *tabwriter.Writer) {
			fmt.Fprintln(w, "METHOD\tPATH\tNAME")
			fmt.Fprintln(w, "------\t----\t----")
			for _, ri := range infos {
				fmt.Fprintf(w, "%s\t%s\t%s\n", ri.Method, ri.Path, ri.Name)
			}
		})
	},
}

func init() {
	serveCmd.Flags().StringVar(&flagAddr, "addr", "", "listen address (default 127.0.0.1:$APP_PORT)")
}
