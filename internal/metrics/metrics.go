package metrics

import (
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	PublishRuns = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "spacebook_publish_runs_total",
		Help: "Total scheduled publish attempts",
	})
	PublishErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "spacebook_publish_errors_total",
		Help: "Total scheduled publish failures",
	})
	PublishDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "spacebook_publish_duration_seconds",
		Help:    "Publish round-trip duration seconds",
		Buckets: prometheus.DefBuckets,
	})
	StoreErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "spacebook_store_errors_total",
		Help: "Total local store failures",
	})
	APIRetries = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "spacebook_api_retries_total",
		Help: "Total API retry attempts",
	}, []string{"endpoint"})
	CommandRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "spacebook_command_runs_total",
		Help: "Total CLI command invocations",
	}, []string{"command"})
	CommandErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "spacebook_command_errors_total",
		Help: "Total CLI command failures",
	}, []string{"command"})
)

func init() {
	prometheus.MustRegister(PublishRuns, PublishErrors, PublishDuration, StoreErrors, APIRetries, CommandRuns, CommandErrors)
}

// StartServer starts a metrics HTTP server on addr (e.g., ":9090").
func StartServer(addr string) {
	if addr == "" {
		addr = os.Getenv("METRICS_ADDR")
	}
	if addr == "" {
		return
	}
	http.Handle("/metrics", promhttp.Handler())
	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	go func() { _ = http.ListenAndServe(addr, nil) }()
}

// ObservePublishDuration records a publish round-trip duration.
func ObservePublishDuration(start time.Time) {
	PublishDuration.Observe(time.Since(start).Seconds())
}

// IncAPIRetry increments the retry counter for an endpoint.
func IncAPIRetry(endpoint string) { APIRetries.WithLabelValues(endpoint).Inc() }

// IncCommandRun counts a CLI command invocation.
func IncCommandRun(cmd string) { CommandRuns.WithLabelValues(cmd).Inc() }

// IncCommandError counts a CLI command failure.
func IncCommandError(cmd string) { CommandErrors.WithLabelValues(cmd).Inc() }
