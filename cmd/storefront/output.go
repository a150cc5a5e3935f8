package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/storefront/app/routes"
	"github.com/shashiranjanraj/storefront/app/services"
)

// deniedError is a guard redirect. main prints the target and exits 2.
type deniedError struct{ to string }

func (e *deniedError) Error() string { return "redirect to " + e.to }

// enter checks the guards of screen name for path.
func enter(name, path string) error {
	if d := routes.Enter(application.Store.State(), name, path); !d.Allow {
		return &deniedError{to: d.Redirect}
	}
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// show prints v as JSON under --json, else through human.
func show(cmd *cobra.Command, v any, human func(w *tabwriter.Writer)) error {
	if flagJSON || human == nil {
		return printJSON(cmd.OutOrStdout(), v)
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	human(w)
	return w.Flush()
}

// moved reports a completed action.
func moved(cmd *cobra.Command, res services.Result) error {
	if flagJSON {
		return printJSON(cmd.OutOrStdout(), res)
	}
	if res.Message != "" {
		fmt.Fprintln(cmd.OutOrStdout(), res.Message)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "→", res.Redirect)
	return nil
}

func money(f float64) string { return fmt.Sprintf("$%.2f", f) }
