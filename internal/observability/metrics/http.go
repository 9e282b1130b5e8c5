package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type HTTPServerMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	uploadsTotal        *prometheus.CounterVec
	uploadBytes         *prometheus.HistogramVec
	extractionsTotal    *prometheus.CounterVec
	extractionDuration  *prometheus.HistogramVec
	lifecycleEventTotal *prometheus.CounterVec
}

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "koopflow",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "koopflow",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "koopflow",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	uploadsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "koopflow",
			Subsystem: "workflow",
			Name:      "uploads_total",
			Help:      "Total koopovereenkomst uploads by outcome.",
		},
		[]string{"service", "outcome"},
	)
	uploadBytes := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "koopflow",
			Subsystem: "workflow",
			Name:      "upload_bytes",
			Help:      "Estimated decoded size of accepted uploads.",
			Buckets:   prometheus.ExponentialBuckets(1024, 4, 9),
		},
		[]string{"service"},
	)
	extractionsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "koopflow",
			Subsystem: "workflow",
			Name:      "extractions_total",
			Help:      "Total extraction attempts by outcome.",
		},
		[]string{"service", "outcome"},
	)
	extractionDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "koopflow",
			Subsystem: "workflow",
			Name:      "extraction_duration_seconds",
			Help:      "Extraction round-trip duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "outcome"},
	)
	lifecycleEventTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "koopflow",
			Subsystem: "workflow",
			Name:      "lifecycle_events_total",
			Help:      "Total published lifecycle events by type.",
		},
		[]string{"service", "event"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		uploadsTotal,
		uploadBytes,
		extractionsTotal,
		extractionDuration,
		lifecycleEventTotal,
	)

	return &HTTPServerMetrics{
		registry:            registry,
		requestTotal:        requestTotal,
		requestDuration:     requestDuration,
		requestInFlight:     requestInFlight,
		uploadsTotal:        uploadsTotal,
		uploadBytes:         uploadBytes,
		extractionsTotal:    extractionsTotal,
		extractionDuration:  extractionDuration,
		lifecycleEventTotal: lifecycleEventTotal,
	}
}

func (m *HTTPServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *HTTPServerMetrics) Middleware(service string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := normalizePath(r.URL.Path)
		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(recorder, r)

		m.requestTotal.WithLabelValues(
			service,
			r.Method,
			path,
			strconv.Itoa(recorder.statusCode),
		).Inc()
		m.requestDuration.WithLabelValues(service, r.Method, path).Observe(time.Since(start).Seconds())
	})
}

// normalizePath collapses record ids and slugs so the path label stays bounded.
func normalizePath(path string) string {
	switch {
	case path == "/v1/koopovereenkomsten/extract":
		return path
	case strings.HasPrefix(path, "/v1/koopovereenkomsten/"):
		return "/v1/koopovereenkomsten/{id}"
	case strings.HasPrefix(path, "/v1/werkinstructies/"):
		return "/v1/werkinstructies/{slug}"
	default:
		return path
	}
}

// WorkflowObserver binds the workflow metric vectors to one service label so
// the lifecycle engine can record outcomes without knowing about prometheus.
type WorkflowObserver struct {
	metrics *HTTPServerMetrics
	service string
}

func (m *HTTPServerMetrics) WorkflowObserver(service string) *WorkflowObserver {
	return &WorkflowObserver{metrics: m, service: service}
}

func (o *WorkflowObserver) ObserveUpload(outcome string, estimatedBytes int64) {
	o.metrics.RecordUpload(o.service, outcome, estimatedBytes)
}

func (o *WorkflowObserver) ObserveExtraction(outcome string, duration time.Duration) {
	o.metrics.RecordExtraction(o.service, outcome, duration)
}

func (o *WorkflowObserver) ObserveLifecycleEvent(event string) {
	o.metrics.RecordLifecycleEvent(o.service, event)
}

func (m *HTTPServerMetrics) RecordUpload(service, outcome string, estimatedBytes int64) {
	m.uploadsTotal.WithLabelValues(service, outcome).Inc()
	if outcome == "accepted" && estimatedBytes > 0 {
		m.uploadBytes.WithLabelValues(service).Observe(float64(estimatedBytes))
	}
}

func (m *HTTPServerMetrics) RecordExtraction(service, outcome string, duration time.Duration) {
	m.extractionsTotal.WithLabelValues(service, outcome).Inc()
	m.extractionDuration.WithLabelValues(service, outcome).Observe(duration.Seconds())
}

func (m *HTTPServerMetrics) RecordLifecycleEvent(service, event string) {
	if event == "" {
		event = "unknown"
	}
	m.lifecycleEventTotal.WithLabelValues(service, event).Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusRecorder) Flush() {
	flusher, ok := w.ResponseWriter.(http.Flusher)
	if ok {
		flusher.Flush()
	}
}

func (w *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not implement http.Hijacker")
	}
	return hijacker.Hijack()
}

func (w *statusRecorder) Push(target string, opts *http.PushOptions) error {
	pusher, ok := w.ResponseWriter.(http.Pusher)
	if !ok {
		return http.ErrNotSupported
	}
	return pusher.Push(target, opts)
}
