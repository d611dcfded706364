package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce        sync.Once
	httpRequestsTotal   *prometheus.CounterVec
	httpLatencySeconds  *prometheus.HistogramVec
	httpErrorsTotal     *prometheus.CounterVec
	passwordResetsTotal *prometheus.CounterVec
	blogViewsTotal      *prometheus.CounterVec
	uploadRequestsTotal *prometheus.CounterVec
	uploadRejectedTotal *prometheus.CounterVec
	uploadLatency       prometheus.Histogram
)

// RegisterMetrics initialises the Prometheus collectors.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_latency_seconds",
			Help:    "Latency distribution for HTTP requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		httpErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_errors_total",
			Help: "Total number of error responses.",
		}, []string{"method", "route", "status"})

		passwordResetsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "password_resets_total",
			Help: "Password reset flow outcomes.",
		}, []string{"outcome"})

		blogViewsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "blog_views_total",
			Help: "Blog detail page views by slug.",
		}, []string{"slug"})

		uploadRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "upload_requests_total",
			Help: "Accepted uploads by detected MIME type.",
		}, []string{"mime"})

		uploadRejectedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "upload_rejected_total",
			Help: "Rejected uploads by reason.",
		}, []string{"reason"})

		uploadLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "upload_latency_seconds",
			Help:    "Latency distribution for upload handling.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		})

		prometheus.MustRegister(
			httpRequestsTotal,
			httpLatencySeconds,
			httpErrorsTotal,
			passwordResetsTotal,
			blogViewsTotal,
			uploadRequestsTotal,
			uploadRejectedTotal,
			uploadLatency,
		)
	})
}

// HTTPRequests exposes the request counter.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the request latency histogram.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// HTTPErrors exposes the error response counter.
func HTTPErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return httpErrorsTotal
}

// PasswordResets exposes the reset flow outcome counter.
func PasswordResets() *prometheus.CounterVec {
	RegisterMetrics()
	return passwordResetsTotal
}

// BlogViews exposes the blog view counter.
func BlogViews() *prometheus.CounterVec {
	RegisterMetrics()
	return blogViewsTotal
}

// UploadRequests exposes the accepted upload counter.
func UploadRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return uploadRequestsTotal
}

// UploadRejected exposes the rejected upload counter.
func UploadRejected() *prometheus.CounterVec {
	RegisterMetrics()
	return uploadRejectedTotal
}

// UploadLatency exposes the upload latency histogram.
func UploadLatency() prometheus.Histogram {
	RegisterMetrics()
	return uploadLatency
}
