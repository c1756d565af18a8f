package job

import (
	"context"
	"time"

	"github.com/segyhp/reminder-engine/internal/domain"
	"github.com/segyhp/reminder-engine/internal/lock"

	"github.com/sirupsen/logrus"
)

// LockKey names the run lock shared by every trigger
const LockKey = "reminder-engine:cycle"

// Runner makes cycles single-flight and bounds their duration
type Runner struct {
	job     *Job
	locker  lock.Locker
	ttl     time.Duration
	timeout time.Duration
	logger  logrus.FieldLogger
}

func NewRunner(job *Job, locker lock.Locker, ttl, timeout time.Duration, logger logrus.FieldLogger) *Runner {
	return &Runner{
		job:     job,
		locker:  locker,
		ttl:     ttl,
		timeout: timeout,
		logger:  logger,
	}
}

// Run returns lock.ErrLocked when another cycle is in flight
func (r *Runner) Run(ctx context.Context) (domain.Summary, error) {
	release, err := r.locker.Acquire(ctx, LockKey, r.ttl)
	if err != nil {
		return domain.Summary{}, err
	}
	defer func() {
		// ctx may already be done when the cycle timed out
		if err := release(context.WithoutCancel(ctx)); err != nil {
			logError(r.logger, "Run", logrus.Fields{"lock_key": LockKey}, err)
		}
	}()

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	start := time.Now()
	summary, err := r.job.Run(ctx)
	if err != nil {
		logError(r.logger, "Run", logrus.Fields{"duration": time.Since(start).String()}, err)
		return summary, err
	}

	r.logger.WithField("duration", time.Since(start).String()).Debug("cycle finished")
	return summary, nil
}
