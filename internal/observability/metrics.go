// Package observability holds the Prometheus metrics and OpenTelemetry
// tracing setup shared by the services and the HTTP layer.
package observability

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "trainingsplan"

// Metrics groups every collector the application exports. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	PlansIngested       *prometheus.CounterVec
	TrainingsCreated    prometheus.Counter
	WeeksGenerated      prometheus.Counter
	FeedbackEvents      *prometheus.CounterVec
	IntensityDowngrades prometheus.Counter
	MixedDayCandidates  prometheus.Histogram
	ActivityUploads     *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// NewMetrics registers the collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		PlansIngested: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "plans_ingested_total",
			Help:      "Plan documents ingested, by detected shape.",
		}, []string{"shape"}),
		TrainingsCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "trainings_created_total",
			Help:      "Trainings persisted from plan documents.",
		}),
		WeeksGenerated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "weeks_generated_total",
			Help:      "Training weeks created by ledger generation or week resolution.",
		}),
		FeedbackEvents: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feedback_events_total",
			Help:      "Completion feedback received, by outcome.",
		}, []string{"outcome"}),
		IntensityDowngrades: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "intensity_downgrades_total",
			Help:      "Sibling trainings downgraded after a missed training.",
		}),
		MixedDayCandidates: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "mixed_day_candidates",
			Help:      "Trainings offered per mixed-day request.",
			Buckets:   prometheus.LinearBuckets(0, 1, 6),
		}),
		ActivityUploads: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "activity_uploads_total",
			Help:      "Activity file uploads, by result.",
		}, []string{"result"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
}

func (m *Metrics) PlanIngested(shape string, trainings int) {
	if m == nil {
		return
	}
	m.PlansIngested.WithLabelValues(shape).Inc()
	m.TrainingsCreated.Add(float64(trainings))
}

func (m *Metrics) WeeksCreated(n int) {
	if m == nil || n == 0 {
		return
	}
	m.WeeksGenerated.Add(float64(n))
}

func (m *Metrics) Feedback(completed bool, downgraded int) {
	if m == nil {
		return
	}
	outcome := "missed"
	if completed {
		outcome = "completed"
	}
	m.FeedbackEvents.WithLabelValues(outcome).Inc()
	m.IntensityDowngrades.Add(float64(downgraded))
}

func (m *Metrics) MixedDay(candidates int) {
	if m == nil {
		return
	}
	m.MixedDayCandidates.Observe(float64(candidates))
}

func (m *Metrics) ActivityUpload(result string) {
	if m == nil {
		return
	}
	m.ActivityUploads.WithLabelValues(result).Inc()
}

// GinMiddleware records request latency per route template.
func (m *Metrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.HTTPRequestDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
