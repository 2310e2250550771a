package monitoring

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	SubmissionCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "survey_submissions_total",
			Help: "Survey submissions by outcome",
		},
		[]string{"outcome"},
	)

	RejectedAnswerCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "survey_answers_rejected_total",
			Help: "Answers dropped from accepted submissions, by failure kind",
		},
		[]string{"kind"},
	)

	AnalyticsCacheCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analytics_cache_requests_total",
			Help: "Per-survey analytics cache lookups",
		},
		[]string{"result"},
	)
)

// submission outcomes
const (
	OutcomeAccepted         = "accepted"
	OutcomeAlreadySubmitted = "already_submitted"
	OutcomeNotEligible      = "not_eligible"
	OutcomeError            = "error"
)

var initOnce sync.Once

func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(RequestCounter)
		prometheus.MustRegister(RequestDuration)
		prometheus.MustRegister(SubmissionCounter)
		prometheus.MustRegister(RejectedAnswerCounter)
		prometheus.MustRegister(AnalyticsCacheCounter)
	})
}

func RecordSubmission(outcome string) {
	SubmissionCounter.WithLabelValues(outcome).Inc()
}

func RecordRejectedAnswer(kind string) {
	RejectedAnswerCounter.WithLabelValues(kind).Inc()
}

func RecordCacheLookup(hit bool) {
	if hit {
		AnalyticsCacheCounter.WithLabelValues("hit").Inc()
		return
	}
	AnalyticsCacheCounter.WithLabelValues("miss").Inc()
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}

		RequestCounter.WithLabelValues(
			c.Request.Method,
			endpoint,
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			endpoint,
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
