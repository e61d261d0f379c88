package main

import (
	"context"
	"fmt"
	"time"

	"addrcheck/internal/core/chains"
	perr "addrcheck/internal/platform/errors"
	dom "addrcheck/internal/services/verify/domain"
	verifymod "addrcheck/internal/services/verify/module"

	"github.com/spf13/cobra"
)

func (a *app) checkCmd() *cobra.Command {
	var (
		chain  string
		wait   time.Duration
		every  time.Duration
		noWait bool
	)
	cmd := &cobra.Command{
		Use:   "check <address>",
		Short: "Verify one address on a blockchain",
		Example: `  addrcheck check 1BoatSLRHtKNngkdXEeobR76b53LETtpyT --chain Bitcoin
  addrcheck check 0x52908400098527886E0F7030069857D2E4169EE7 --chain ETH --wait 10m`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, ok := chains.Resolve(chain)
			if !ok {
				return perr.WithField(perr.InvalidArgf("%q is not a supported blockchain", chain), "chain")
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return a.withModule(ctx, func(m *verifymod.Module) error {
				svc := m.Service()
				sub, err := svc.Submit(ctx, args[0])
				if err != nil {
					return err
				}
				if sub.Status != dom.SubmissionAccepted {
					return perr.WithField(perr.InvalidArgf("%s", sub.Message), "address")
				}
				out, err := svc.Choose(ctx, sub.RequestID, code)
				if err != nil {
					return err
				}
				if out.Status == dom.OutcomeWorking && !noWait {
					fmt.Fprintln(cmd.ErrOrStderr(), out.Message)
					out, err = await(ctx, svc, sub.RequestID, wait, every)
					if err != nil {
						return err
					}
				}
				return printJSON(cmd.OutOrStdout(), out)
			})
		},
	}
	f := cmd.Flags()
	f.StringVarP(&chain, "chain", "c", "", "blockchain label or code")
	f.DurationVar(&wait, "wait", 5*time.Minute, "how long to wait for a deferred result")
	f.DurationVar(&every, "every", time.Second, "how often to look for a deferred result")
	f.BoolVar(&noWait, "no-wait", false, "print the working outcome and exit")
	_ = cmd.MarkFlagRequired("chain")
	return cmd
}

// await polls Result until the request leaves the working state or wait runs out
func await(ctx context.Context, svc dom.ServicePort, id dom.RequestID, wait, every time.Duration) (dom.Outcome, error) {
	ctx, cancel := context.WithTimeout(ctx, wait)
	defer cancel()
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return dom.Outcome{}, perr.Wrapf(ctx.Err(), perr.ErrorCodeUnavailable, "no result for %s after %s", id, wait)
		case <-t.C:
		}
		out, err := svc.Result(ctx, id)
		if err != nil {
			return out, err
		}
		if out.Status != dom.OutcomeWorking {
			return out, nil
		}
	}
}
