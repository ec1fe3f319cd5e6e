package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/SscSPs/erp_lite/internal/jobs"
	"github.com/spf13/cobra"
)

func newWorkerCmd() *cobra.Command {
	var concurrency int
	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Process queued jobs and schedule the status sweeps",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(cmd, false)
			if err != nil {
				return err
			}
			defer a.Close()

			redisOpts, err := a.AsynqRedisOpts()
			if err != nil {
				return err
			}

			sweep := jobs.NewSweepJob(a.Services.Sweeper, a.Logger)
			worker, err := jobs.NewWorker(jobs.WorkerConfig{
				RedisOpts:   redisOpts,
				Logger:      a.Logger,
				Location:    a.Config.Location,
				Concurrency: concurrency,
				Handlers: []jobs.TaskHandler{
					{Type: jobs.TaskExpireQuotes, Handler: sweep.HandleExpireQuotes},
					{Type: jobs.TaskMarkOverdue, Handler: sweep.HandleMarkOverdue},
				},
				Cron: jobs.SweepCron(a.Config.SweepCron),
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&concurrency, "concurrency", 2, "number of jobs processed in parallel")
	return cmd
}
