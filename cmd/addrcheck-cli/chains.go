package main

import (
	"fmt"
	"text/tabwriter"

	"addrcheck/internal/core/chains"

	"github.com/spf13/cobra"
)

func (a *app) chainsCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "chains",
		Short: "List supported blockchains, label and code",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if asJSON {
				return printJSON(cmd.OutOrStdout(), chains.Options())
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CODE\tLABEL")
			for _, o := range chains.Options() {
				fmt.Fprintf(tw, "%s\t%s\n", o.Code, o.Label)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}
