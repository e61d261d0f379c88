package main

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"addrcheck/internal/modkit"
	"addrcheck/internal/platform/config"
	"addrcheck/internal/platform/logger"
	"addrcheck/internal/platform/store"
	verifymod "addrcheck/internal/services/verify/module"

	"github.com/spf13/cobra"
)

// app carries what every subcommand needs; newModule is swapped in tests
type app struct {
	cfg       config.Conf
	newModule func(ctx context.Context, deps modkit.Deps) (*verifymod.Module, error)
}

func newRootCmd() *cobra.Command {
	a := &app{
		cfg: config.New(),
		newModule: func(ctx context.Context, deps modkit.Deps) (*verifymod.Module, error) {
			return verifymod.New(ctx, deps)
		},
	}
	return a.rootCmd()
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "addrcheck",
		Short: "Verify blockchain addresses from the command line",
		Long: `addrcheck submits an address to the configured verification client and
prints the result. Deferred results are polled until they arrive.

The client and polling are configured with the same VERIFY_* variables as the API.
Set SERVICE_PGSQL_DBURL to journal outcomes and enable the history command.`,
		SilenceUsage: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			logger.Init(logger.FromEnv())
		},
	}
	root.AddCommand(a.chainsCmd(), a.checkCmd(), a.historyCmd(), a.versionCmd())
	return root
}

// withModule opens the optional store and builds the verify module around it
func (a *app) withModule(ctx context.Context, fn func(m *verifymod.Module) error) error {
	st, err := store.Open(ctx, store.FromConfig(a.cfg, "addrcheck-cli"), store.WithLogger(*logger.Get()))
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	m, err := a.newModule(ctx, modkit.Deps{Log: *logger.Named("cli"), Cfg: a.cfg, PG: st.PG})
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		_ = m.Shutdown(sctx)
	}()
	return fn(m)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
