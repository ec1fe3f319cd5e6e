package jobs

import (
	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskExpireQuotes moves SENT quotes past their validity date to EXPIRED.
	TaskExpireQuotes = "documents:expire_quotes"
	// TaskMarkOverdue moves unpaid invoices past their due date to OVERDUE.
	TaskMarkOverdue = "documents:mark_overdue"
)

// NewExpireQuotesTask constructs the quote expiry task. It carries no payload: the sweeper
// reads today's date itself.
func NewExpireQuotesTask() *asynq.Task {
	return asynq.NewTask(TaskExpireQuotes, nil)
}

// NewMarkOverdueTask constructs the overdue invoice task.
func NewMarkOverdueTask() *asynq.Task {
	return asynq.NewTask(TaskMarkOverdue, nil)
}
