// Package observability holds the OpenTelemetry instruments of the batch job.
// Instruments come from the global providers, so they are no-ops until the
// binary installs an SDK.
package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/segyhp/reminder-engine"

// Metric names
const (
	EmailsSentTotal      = "reminder_engine.emails_sent"
	PushSentTotal        = "reminder_engine.push_sent"
	PushExpiredTotal     = "reminder_engine.push_expired"
	RemindersMissedTotal = "reminder_engine.reminders_missed"
	LoansOverdueTotal    = "reminder_engine.loans_overdue"
)

// Tracer returns the job tracer from the global provider
func Tracer() trace.Tracer {
	return otel.Tracer(instrumentationName)
}

// Metrics records delivery and transition counts
type Metrics struct {
	emailsSent      metric.Int64Counter
	pushSent        metric.Int64Counter
	pushExpired     metric.Int64Counter
	remindersMissed metric.Int64Counter
	loansOverdue    metric.Int64Counter
}

// NewMetrics creates instruments on the global meter provider
func NewMetrics() (*Metrics, error) {
	return NewMetricsWithMeter(otel.Meter(instrumentationName))
}

func NewMetricsWithMeter(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}
	var err error

	if m.emailsSent, err = meter.Int64Counter(EmailsSentTotal,
		metric.WithDescription("Emails delivered"), metric.WithUnit("1")); err != nil {
		return nil, fmt.Errorf("failed to create emails sent counter: %w", err)
	}
	if m.pushSent, err = meter.Int64Counter(PushSentTotal,
		metric.WithDescription("Push messages delivered"), metric.WithUnit("1")); err != nil {
		return nil, fmt.Errorf("failed to create push sent counter: %w", err)
	}
	if m.pushExpired, err = meter.Int64Counter(PushExpiredTotal,
		metric.WithDescription("Push subscriptions removed as expired"), metric.WithUnit("1")); err != nil {
		return nil, fmt.Errorf("failed to create push expired counter: %w", err)
	}
	if m.remindersMissed, err = meter.Int64Counter(RemindersMissedTotal,
		metric.WithDescription("Reminders transitioned to Missed"), metric.WithUnit("1")); err != nil {
		return nil, fmt.Errorf("failed to create reminders missed counter: %w", err)
	}
	if m.loansOverdue, err = meter.Int64Counter(LoansOverdueTotal,
		metric.WithDescription("Loans transitioned to Overdue"), metric.WithUnit("1")); err != nil {
		return nil, fmt.Errorf("failed to create loans overdue counter: %w", err)
	}

	return m, nil
}

// RecordDelivery counts the outcome of one dispatched notification
func (m *Metrics) RecordDelivery(ctx context.Context, kind string, emailSent bool, pushSent, pushExpired int) {
	attrs := metric.WithAttributes(attribute.String("kind", kind))
	if emailSent {
		m.emailsSent.Add(ctx, 1, attrs)
	}
	if pushSent > 0 {
		m.pushSent.Add(ctx, int64(pushSent), attrs)
	}
	if pushExpired > 0 {
		m.pushExpired.Add(ctx, int64(pushExpired), attrs)
	}
}

func (m *Metrics) RecordRemindersMissed(ctx context.Context, n int64) {
	if n > 0 {
		m.remindersMissed.Add(ctx, n)
	}
}

func (m *Metrics) RecordLoanOverdue(ctx context.Context) {
	m.loansOverdue.Add(ctx, 1)
}
