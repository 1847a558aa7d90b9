package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jward/arbor/internal/grammar"
)

func newLanguagesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List the file names and extensions arbor detects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "PATTERN\tMATCH\tLANGUAGE")
			for _, r := range grammar.Rules() {
				match := "extension"
				if r.ByName {
					match = "name"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Pattern, match, r.Language)
			}
			return tw.Flush()
		},
	}
}
