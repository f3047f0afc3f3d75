package journal

import (
	"context"
	"time"

	"go.uber.org/zap/zapcore"

	"github.com/oshokin/alarm-watchdog/internal/domain/alarm"
	"github.com/oshokin/alarm-watchdog/internal/logger"
)

// Reporter records firings in a journal. Write failures are logged and
// otherwise ignored so a broken disk cannot stall the watchdog loop.
type Reporter struct {
	// ctx carries the logger used for write failures.
	ctx   context.Context
	repo  Repository
	actor *alarm.Actor
}

// NewReporter returns a reporter that stamps every firing with actor.
func NewReporter(ctx context.Context, repo Repository, actor *alarm.Actor) *Reporter {
	return &Reporter{
		ctx:   logger.WithName(ctx, "journal"),
		repo:  repo,
		actor: actor.Clone(),
	}
}

// Report records a firing that only carries text.
func (r *Reporter) Report(level zapcore.Level, text string) {
	r.ReportFiring(&alarm.Firing{
		Message: text,
		Level:   level.String(),
		FiredAt: time.Now(),
	})
}

// ReportFiring records f, stamped with the reporter's actor.
func (r *Reporter) ReportFiring(f *alarm.Firing) {
	record := f.Clone()
	if record.Actor == nil {
		record.Actor = r.actor.Clone()
	}

	if err := r.repo.Append(r.ctx, record); err != nil {
		logger.ErrorKV(r.ctx, "Failed to journal alarm firing", "alarm_id", f.ID, "error", err)
	}
}
