package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Extraction stages recorded by ObserveExtraction.
const (
	StageLayout = "layout"
	StageOCR    = "ocr"
	StageNone   = "none"
)

// Analysis paths and reasons recorded by ObserveAnalysis.
const (
	PathLLM       = "llm"
	PathHeuristic = "heuristic"

	ReasonOK             = "ok"
	ReasonNoCredential   = "no_credential"
	ReasonGeneratorError = "generator_error"
	ReasonUnparseable    = "unparseable"
)

// Metrics holds the service collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	gatherer prometheus.Gatherer

	requests         *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	extractions      *prometheus.CounterVec
	analyses         *prometheus.CounterVec
	analysisDuration *prometheus.HistogramVec
}

// New registers the collectors on reg. When reg also implements
// prometheus.Gatherer it backs Handler.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests processed.",
			},
			[]string{"method", "path", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		extractions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "resume_extraction_total",
				Help: "Text extractions by the stage that produced the text.",
			},
			[]string{"stage"},
		),
		analyses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "resume_analysis_total",
				Help: "Analyses by producing path and reason.",
			},
			[]string{"path", "reason"},
		),
		analysisDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "resume_analysis_duration_seconds",
				Help:    "Analysis duration in seconds.",
				Buckets: []float64{0.01, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60, 120},
			},
			[]string{"path"},
		),
	}

	for _, c := range []prometheus.Collector{m.requests, m.requestDuration, m.extractions, m.analyses, m.analysisDuration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	if g, ok := reg.(prometheus.Gatherer); ok {
		m.gatherer = g
	}
	return m, nil
}

// ObserveExtraction counts one extraction finished at stage.
func (m *Metrics) ObserveExtraction(stage string) {
	if m == nil {
		return
	}
	m.extractions.WithLabelValues(stage).Inc()
}

// ObserveAnalysis counts one analysis and records its duration.
func (m *Metrics) ObserveAnalysis(path, reason string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.analyses.WithLabelValues(path, reason).Inc()
	m.analysisDuration.WithLabelValues(path).Observe(elapsed.Seconds())
}

// Middleware records request counts and latency by route pattern.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil || c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		m.requests.WithLabelValues(c.Request.Method, path, status).Inc()
		m.requestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes metrics in Prometheus text format.
func (m *Metrics) Handler() gin.HandlerFunc {
	var h http.Handler
	if m != nil && m.gatherer != nil {
		h = promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
	} else {
		h = promhttp.Handler()
	}
	return gin.WrapH(h)
}
