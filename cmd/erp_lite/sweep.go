package main

import (
	"errors"
	"log/slog"

	"github.com/SscSPs/erp_lite/internal/core/domain"
	"github.com/SscSPs/erp_lite/internal/jobs"
	"github.com/spf13/cobra"
)

func newSweepCmd() *cobra.Command {
	var enqueue, quotesOnly, invoicesOnly bool
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Expire stale quotes and flag overdue invoices once",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if enqueue && (quotesOnly || invoicesOnly) {
				return errors.New("--enqueue always queues both sweeps")
			}
			a, err := loadApp(cmd, false)
			if err != nil {
				return err
			}
			defer a.Close()

			if enqueue {
				redisOpts, err := a.AsynqRedisOpts()
				if err != nil {
					return err
				}
				client := jobs.NewClient(redisOpts)
				defer client.Close()
				if err := client.EnqueueSweep(cmd.Context()); err != nil {
					return err
				}
				a.Logger.Info("Sweep tasks enqueued")
				return nil
			}

			ctx := cmd.Context()
			sweeper := a.Services.Sweeper
			var results []domain.SweepResult
			switch {
			case quotesOnly && !invoicesOnly:
				var r domain.SweepResult
				r, err = sweeper.SweepExpiredQuotes(ctx)
				results = append(results, r)
			case invoicesOnly && !quotesOnly:
				var r domain.SweepResult
				r, err = sweeper.SweepOverdueInvoices(ctx)
				results = append(results, r)
			default:
				results, err = sweeper.Run(ctx)
			}
			for _, r := range results {
				a.Logger.Info("Sweep pass",
					slog.String("kind", string(r.Kind)),
					slog.Int("examined", r.Examined),
					slog.Int("updated", r.Updated),
					slog.Int("failed", r.Failed))
			}
			return err
		},
	}
	cmd.Flags().BoolVar(&enqueue, "enqueue", false, "hand the sweep to the worker instead of running it here")
	cmd.Flags().BoolVar(&quotesOnly, "quotes", false, "only expire quotes")
	cmd.Flags().BoolVar(&invoicesOnly, "invoices", false, "only flag overdue invoices")
	return cmd
}
