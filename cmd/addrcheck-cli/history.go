package main

import (
	"context"

	verifymod "addrcheck/internal/services/verify/module"

	"github.com/spf13/cobra"
)

func (a *app) historyCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history <address>",
		Short: "Show journaled outcomes for an address, newest first",
		Long:  "Needs SERVICE_PGSQL_DBURL.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return a.withModule(ctx, func(m *verifymod.Module) error {
				rows, err := m.Service().History(ctx, args[0], limit)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), rows)
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "max rows (1..100)")
	return cmd
}
