// internal/common/metrics/metrics.go
package metrics

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Destination outcomes besides an alert; alerts are labelled with their
// variant (models.AlertCheap, models.AlertNotCheap).
const (
	OutcomeNoFlights = "no_flights"
	OutcomeSkipped   = "skipped"
)

var (
	RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flight_deals_runs_total",
			Help: "Total number of deal check runs by final status",
		},
		[]string{"status"},
	)

	DestinationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flight_deals_destinations_total",
			Help: "Destinations processed by outcome",
		},
		[]string{"outcome"},
	)

	QuotedPrice = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "flight_deals_quoted_price",
			Help:    "Cheapest quoted round-trip price per destination",
			Buckets: []float64{50, 100, 200, 300, 500, 750, 1000, 1500, 2500},
		},
		[]string{"destination"},
	)

	RunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "flight_deals_run_duration_seconds",
			Help: "Duration of a full run in seconds",
		},
	)

	LastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "flight_deals_last_success_timestamp_seconds",
			Help: "Unix time of the last successful run",
		},
	)

	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)
)

// Push sends the default registry to a Prometheus Pushgateway. The one-shot
// binary exits before it could be scraped, so it pushes instead.
func Push(ctx context.Context, url, job string) error {
	if err := push.New(url, job).Gatherer(prometheus.DefaultGatherer).PushContext(ctx); err != nil {
		return fmt.Errorf("failed to push metrics: %w", err)
	}
	return nil
}
