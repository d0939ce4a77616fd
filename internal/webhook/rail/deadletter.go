package rail

import (
	"context"
	"fmt"
	"log/slog"

	"railhook/internal/webhook"
	"railhook/internal/webhook/eventlog"
)

// DeadLetterRecorder writes the permanent WasProcessed=false rows for a job
// whose attempts are exhausted. One row per envelope keeps the trail
// queryable by authentication code even when the failure hit mid-batch.
type DeadLetterRecorder struct {
	log    eventlog.Store
	logger *slog.Logger
}

func NewDeadLetterRecorder(log eventlog.Store, logger *slog.Logger) *DeadLetterRecorder {
	return &DeadLetterRecorder{log: log, logger: logger}
}

// Record never fails the caller: the job is gone from the queue either way,
// so a write error here is logged and the remaining envelopes still get
// their rows.
func (r *DeadLetterRecorder) Record(ctx context.Context, job *webhook.Job, cause error) {
	reason := fmt.Sprintf("failed after %d attempts: %v", job.Attempt, cause)
	for _, env := range job.Envelopes {
		authCode := fallbackAuthCode(env)
		entry := eventlog.Skipped(env, authCode, entityTypeFor(job.Rail), reason, job.ClientID)
		if err := r.log.Append(ctx, entry); err != nil {
			r.logger.ErrorContext(ctx, "failed to record dead letter",
				"rail", job.Rail,
				"job_id", job.ID,
				"authentication_code", authCode,
				"error", err,
			)
			continue
		}
		r.logger.ErrorContext(ctx, "job dead-lettered",
			"rail", job.Rail,
			"job_id", job.ID,
			"event", env.EventName,
			"authentication_code", authCode,
			"attempts", job.Attempt,
			"cause", cause,
		)
	}
}
