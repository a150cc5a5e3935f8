package main

import (
	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/storefront/pkg/ws"
)

// storefront state — dump the persisted tree (token redacted).
var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Print the current state tree",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return printJSON(cmd.OutOrStdout(), ws.NewFrame("STATE", application.Store.State()))
	},
}
