package observability

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "insights", Name: "http_requests_total", Help: "HTTP requests."},
		[]string{"route", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "insights", Name: "http_request_duration_seconds",
			Help:    "HTTP request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	ExternalRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "insights", Name: "external_requests_total", Help: "Outbound requests."},
		[]string{"service", "endpoint", "status"},
	)
	ExternalLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "insights", Name: "external_request_duration_seconds",
			Help:    "Outbound request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "endpoint"},
	)
	ExternalErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "insights", Name: "external_errors_total", Help: "Outbound calls that failed before a response arrived."},
		[]string{"service", "endpoint", "kind"},
	)
	CacheEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "insights", Name: "cache_events_total", Help: "Cache hits/misses/sets/dels."},
		[]string{"cache", "event"}, // event: hit|miss|set|del
	)
	PipelineRecords = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "insights", Name: "pipeline_records_total", Help: "Records seen by the insights pipeline."},
		[]string{"outcome"}, // outcome: kept|dropped
	)
	AnalyzerOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "insights", Name: "analyzer_outcomes_total", Help: "Per-review analyzer results during ingestion."},
		[]string{"outcome"}, // outcome: scored|abstained|failed
	)
)

// Serve exposes reg on a dedicated listener for processes without an API
// router. An empty addr disables it.
func Serve(addr string, reg *prometheus.Registry) {
	if addr == "" {
		return // disabled
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", MetricsHandler(reg))

	go func() {
		srv := &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		log.Info().Str("addr", addr).Msg("metrics server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("metrics server failed")
		}
	}()
}

func InitRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(HTTPRequests, HTTPLatency, ExternalRequests, ExternalLatency, ExternalErrors, CacheEvents, PipelineRecords, AnalyzerOutcomes)
	return reg
}

func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

func ObserveHTTP(route, method string, status int, dur time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPLatency.WithLabelValues(route, method).Observe(dur.Seconds())
}

func ObserveExternal(service, endpoint string, status int, dur time.Duration) {
	ExternalRequests.WithLabelValues(service, endpoint, strconv.Itoa(status)).Inc()
	ExternalLatency.WithLabelValues(service, endpoint).Observe(dur.Seconds())
}

// ObserveExternalError records a transport failure by kind, see LabelErr.
func ObserveExternalError(service, endpoint string, err error) {
	ExternalErrors.WithLabelValues(service, endpoint, LabelErr(err)).Inc()
}

func ObserveCache(cache, event string) { // event: hit|miss|set|del
	CacheEvents.WithLabelValues(cache, event).Inc()
}

func ObservePipeline(kept, dropped int) {
	PipelineRecords.WithLabelValues("kept").Add(float64(kept))
	PipelineRecords.WithLabelValues("dropped").Add(float64(dropped))
}

func ObserveAnalyzer(outcome string) { // outcome: scored|abstained|failed
	AnalyzerOutcomes.WithLabelValues(outcome).Inc()
}

// LabelErr turns an error into a low-cardinality label value. Timeouts and
// cancellations get their own names; anything else is labelled by the type
// of the innermost error below *url.Error.
func LabelErr(err error) string {
	var ne net.Error
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &ne) && ne.Timeout():
		return "timeout"
	}
	var ue *url.Error
	if errors.As(err, &ue) && ue.Err != nil {
		err = ue.Err
	}
	return fmt.Sprintf("%T", err)
}
