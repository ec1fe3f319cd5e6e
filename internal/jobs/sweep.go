package jobs

import (
	"context"
	"errors"
	"log/slog"

	"github.com/SscSPs/erp_lite/internal/core/domain"
	portssvc "github.com/SscSPs/erp_lite/internal/core/ports/services"
	"github.com/SscSPs/erp_lite/internal/core/services"
	"github.com/hibiken/asynq"
)

// SweepJob adapts the status sweeper to asynq handlers.
type SweepJob struct {
	Sweeper portssvc.SweeperSvc
	Logger  *slog.Logger
}

// NewSweepJob initialises the sweep handlers.
func NewSweepJob(sweeper portssvc.SweeperSvc, logger *slog.Logger) *SweepJob {
	return &SweepJob{Sweeper: sweeper, Logger: logger}
}

// HandleExpireQuotes executes TaskExpireQuotes.
func (j *SweepJob) HandleExpireQuotes(ctx context.Context, _ *asynq.Task) error {
	if j == nil || j.Sweeper == nil {
		return errors.New("expire quotes: sweeper not configured")
	}
	result, err := j.Sweeper.SweepExpiredQuotes(ctx)
	return j.finish(TaskExpireQuotes, result, err)
}

// HandleMarkOverdue executes TaskMarkOverdue.
func (j *SweepJob) HandleMarkOverdue(ctx context.Context, _ *asynq.Task) error {
	if j == nil || j.Sweeper == nil {
		return errors.New("mark overdue: sweeper not configured")
	}
	result, err := j.Sweeper.SweepOverdueInvoices(ctx)
	return j.finish(TaskMarkOverdue, result, err)
}

// finish treats a concurrent sweep as success: the other run covers the same documents, and
// retrying would only queue behind it. Per-document failures are retried on the next cycle,
// not by asynq.
func (j *SweepJob) finish(task string, result domain.SweepResult, err error) error {
	logger := j.logger().With(slog.String("job", task))
	if errors.Is(err, services.ErrSweepInProgress) {
		logger.Info("sweep already running elsewhere, skipping")
		return nil
	}
	if err != nil {
		logger.Error("sweep failed", slog.Any("error", err))
		return err
	}
	logger.Info("sweep completed",
		slog.Int("examined", result.Examined),
		slog.Int("updated", result.Updated),
		slog.Int("failed", result.Failed),
	)
	return nil
}

func (j *SweepJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}
