package handler

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"time"

	"github.com/segyhp/reminder-engine/internal/domain"
	"github.com/segyhp/reminder-engine/internal/lock"
	"github.com/segyhp/reminder-engine/pkg/response"

	"github.com/sirupsen/logrus"
)

// cronWriteSlack is added to the run timeout so the summary can still be
// written after a run that used its whole budget.
const cronWriteSlack = 30 * time.Second

// CycleRunner runs one notification cycle
type CycleRunner interface {
	Run(ctx context.Context) (domain.Summary, error)
}

type CronHandler struct {
	runner     CycleRunner
	secret     string
	runTimeout time.Duration
	logger     logrus.FieldLogger
}

// NewCronHandler builds the trigger handler. runTimeout is the runner's own
// bound on a cycle; zero means unbounded.
func NewCronHandler(runner CycleRunner, secret string, runTimeout time.Duration, logger logrus.FieldLogger) *CronHandler {
	return &CronHandler{
		runner:     runner,
		secret:     secret,
		runTimeout: runTimeout,
		logger:     logger,
	}
}

// Run handles GET /api/cron?secret=...
//
// The cycle is detached from the request: a caller hanging up does not stop
// it halfway. The server write timeout is lifted for this route so the
// summary outlives SERVER_WRITE_TIMEOUT.
func (h *CronHandler) Run(w http.ResponseWriter, r *http.Request) {
	secret := r.URL.Query().Get("secret")
	if h.secret == "" || subtle.ConstantTimeCompare([]byte(secret), []byte(h.secret)) != 1 {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	h.extendWriteDeadline(w)

	summary, err := h.runner.Run(context.WithoutCancel(r.Context()))
	switch {
	case errors.Is(err, lock.ErrLocked):
		response.Conflict(w, "Cron job already running")
	case err != nil:
		h.logger.WithError(err).WithFields(logrus.Fields{
			"emails_sent": summary.EmailsSent,
			"push_sent":   summary.PushSent,
		}).Error("cron job failed")
		response.InternalServerError(w, "Cron job failed", nil)
	default:
		response.Success(w, summary)
	}
}

func (h *CronHandler) extendWriteDeadline(w http.ResponseWriter) {
	var deadline time.Time
	if h.runTimeout > 0 {
		deadline = time.Now().Add(h.runTimeout + cronWriteSlack)
	}

	if err := http.NewResponseController(w).SetWriteDeadline(deadline); err != nil {
		h.logger.WithError(err).Debug("write deadline not adjustable")
	}
}
