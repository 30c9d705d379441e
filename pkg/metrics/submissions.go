package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SubmissionMetrics records the outcome of lead submissions and credit
// consumption. The orphaned-credit counter tracks the partial-failure state
// (credit consumed, lead insert failed) so operators can alert on it and
// reconcile by hand.
type SubmissionMetrics struct {
	duration       *prometheus.HistogramVec
	submissions    *prometheus.CounterVec
	creditsUsed    prometheus.Counter
	orphanedCredit prometheus.Counter
}

// NewSubmissionMetrics registers the submission metrics on the provided registerer.
func NewSubmissionMetrics(reg prometheus.Registerer) *SubmissionMetrics {
	if reg == nil {
		return &SubmissionMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "lead_submission_duration_seconds",
		Help:    "Duration of lead submissions in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	submissions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "lead_submissions_total",
		Help: "Lead submissions by outcome.",
	}, []string{"outcome"})
	creditsUsed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "credits_consumed_total",
		Help: "Successfully consumed session credits.",
	})
	orphanedCredit := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orphaned_credit_total",
		Help: "Credits consumed without a persisted lead; requires manual reconciliation.",
	})
	reg.MustRegister(duration, submissions, creditsUsed, orphanedCredit)
	return &SubmissionMetrics{
		duration:       duration,
		submissions:    submissions,
		creditsUsed:    creditsUsed,
		orphanedCredit: orphanedCredit,
	}
}

// ObserveDuration records how long a submission took for the given outcome.
func (m *SubmissionMetrics) ObserveDuration(outcome string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(outcome)).Observe(duration.Seconds())
}

// IncSubmission counts a submission with the given outcome label.
func (m *SubmissionMetrics) IncSubmission(outcome string) {
	if m == nil || m.submissions == nil {
		return
	}
	m.submissions.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncCreditConsumed counts a successful credit consumption.
func (m *SubmissionMetrics) IncCreditConsumed() {
	if m == nil || m.creditsUsed == nil {
		return
	}
	m.creditsUsed.Inc()
}

// IncOrphanedCredit counts the consumed-credit-without-lead state.
func (m *SubmissionMetrics) IncOrphanedCredit() {
	if m == nil || m.orphanedCredit == nil {
		return
	}
	m.orphanedCredit.Inc()
}

func normalizeLabel(outcome string) string {
	if outcome == "" {
		return "unknown"
	}
	return outcome
}
