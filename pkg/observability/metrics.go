package observability

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MUSHYo888/patient-history-pro-scribe/pkg/domain"
)

const namespace = "scribe"

// Metrics counts interview activity per complaint.
type Metrics struct {
	Started   *prometheus.CounterVec
	Completed *prometheus.CounterVec
	Answers   *prometheus.CounterVec
	RedFlags  *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Started: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "interviews_started_total",
			Help:      "Interviews started, by complaint.",
		}, []string{"complaint"}),
		Completed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "interviews_completed_total",
			Help:      "Interviews that reached the end of their question graph, by complaint.",
		}, []string{"complaint"}),
		Answers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "answers_total",
			Help:      "Answers recorded, by complaint and question.",
		}, []string{"complaint", "question"}),
		RedFlags: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "red_flags_total",
			Help:      "Red-flag answers recorded, by complaint and question.",
		}, []string{"complaint", "question"}),
	}
	if reg != nil {
		reg.MustRegister(m.Started, m.Completed, m.Answers, m.RedFlags)
	}
	return m
}

// Hooks returns lifecycle hooks feeding the counters.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStart: func(_ context.Context, e *domain.InterviewEvent) {
			m.Started.WithLabelValues(e.ComplaintID).Inc()
		},
		OnAnswer: func(_ context.Context, e *domain.InterviewEvent) {
			m.Answers.WithLabelValues(e.ComplaintID, e.QuestionID).Inc()
		},
		OnComplete: func(_ context.Context, e *domain.InterviewEvent) {
			m.Completed.WithLabelValues(e.ComplaintID).Inc()
		},
		OnRedFlag: func(_ context.Context, e *domain.InterviewEvent) {
			m.RedFlags.WithLabelValues(e.ComplaintID, e.QuestionID).Inc()
		},
	}
}

// Handler serves the metrics gathered by g in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// LogHooks returns lifecycle hooks that log every event. Answer values are
// not logged.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStart: func(ctx context.Context, e *domain.InterviewEvent) {
			logger.InfoContext(ctx, "interview_started", "session_id", e.SessionID, "complaint", e.ComplaintID)
		},
		OnAnswer: func(ctx context.Context, e *domain.InterviewEvent) {
			logger.DebugContext(ctx, "question_answered", "session_id", e.SessionID, "question", e.QuestionID)
		},
		OnComplete: func(ctx context.Context, e *domain.InterviewEvent) {
			logger.InfoContext(ctx, "interview_completed", "session_id", e.SessionID, "complaint", e.ComplaintID)
		},
		OnRedFlag: func(ctx context.Context, e *domain.InterviewEvent) {
			logger.WarnContext(ctx, "red_flag_raised", "session_id", e.SessionID, "question", e.QuestionID, "note", e.Note)
		},
	}
}
