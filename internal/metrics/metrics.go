// Package metrics registers the catalog's prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SlugChecksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_slug_checks_total",
		Help: "Slug existence checks, by outcome (free or taken).",
	}, []string{"outcome"})

	SlugSaveRetriesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_slug_save_retries_total",
		Help: "Saves retried after the unique index rejected a slug.",
	})

	ValidationFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_validation_failures_total",
		Help: "Rejected saves, by the field the failure was attributed to.",
	}, []string{"entity", "field"})

	SaveDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "catalog_save_duration_seconds",
		Help:    "Time spent in a full validate-and-commit save.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5},
	}, []string{"entity"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_http_requests_total",
		Help: "API requests, by route pattern, method and status code.",
	}, []string{"route", "method", "status"})

	RateLimitedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_http_rate_limited_total",
		Help: "API requests rejected by the rate limiter.",
	})
)

// ObserveSlugCheck counts one slug existence check. It matches the
// slug.Service OnCheck hook.
func ObserveSlugCheck(_ string, taken bool) {
	outcome := "free"
	if taken {
		outcome = "taken"
	}
	SlugChecksTotal.WithLabelValues(outcome).Inc()
}
