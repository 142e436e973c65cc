// Package metrics holds the Prometheus collectors for provider traffic and
// Ramadan verification, and a small server that exposes them.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

var (
	ProviderRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "provider_requests_total",
		Help: "Provider request attempts by endpoint and outcome.",
	}, []string{"endpoint", "status"})

	ProviderRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "provider_request_duration_seconds",
		Help:    "Duration of single provider request attempts.",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint", "status"})

	ProviderRetries = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "provider_retries_total",
		Help: "Retries scheduled after a failed provider attempt.",
	}, []string{"endpoint"})

	Verifications = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ramadan_verifications_total",
		Help: "Ramadan window verifications by result.",
	}, []string{"result"})
)

// Registry is the registry the collectors above are registered with.
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(
		ProviderRequests,
		ProviderRequestDuration,
		ProviderRetries,
		Verifications,
	)
}

// ObserveProviderRequest records one attempt against a provider endpoint.
func ObserveProviderRequest(endpoint string, start time.Time, err error) {
	if endpoint == "" {
		endpoint = "unknown"
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	ProviderRequestDuration.WithLabelValues(endpoint, status).Observe(time.Since(start).Seconds())
	ProviderRequests.WithLabelValues(endpoint, status).Inc()
}

// ObserveVerification counts a cross-verification outcome.
func ObserveVerification(match bool) {
	result := "mismatch"
	if match {
		result = "match"
	}
	Verifications.WithLabelValues(result).Inc()
}

// Handler serves the registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// StartServer serves /metrics on addr until ctx is done.
func StartServer(ctx context.Context, logger zerolog.Logger, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("metrics: graceful shutdown failed")
		}
	}()

	go func() {
		logger.Info().Str("addr", addr).Msg("metrics: server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("metrics: server stopped")
		}
	}()
}
