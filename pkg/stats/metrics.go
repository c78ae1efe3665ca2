package stats

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "marketplace"

var (
	operations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "operations_total",
		Help:      "Number of marketplace operations by kind and outcome.",
	}, []string{"operation", "outcome"})

	settledVolume = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "settled_volume_total",
		Help:      "Gross amount of settled sales by listing kind.",
	}, []string{"kind"})

	collectedFees = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "collected_fees_total",
		Help:      "Amount paid out to fee collectors and publication fee wallet.",
	}, []string{"type"})

	jobItems = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "job_items_total",
		Help:      "Expired auctions processed by the settlement job by outcome.",
	}, []string{"outcome"})

	jobDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "job_duration_seconds",
		Help:      "Duration of the expired auctions settlement job.",
		Buckets:   prometheus.DefBuckets,
	})

	httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Number of HTTP requests by route, method and status code.",
	}, []string{"route", "method", "code"})

	httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests by route and method.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})
)

func init() {
	prometheus.MustRegister(
		operations, settledVolume, collectedFees, jobItems, jobDuration,
		httpRequests, httpDuration,
	)
}

// RecordOperation counts a marketplace operation as succeeded or failed.
func RecordOperation(operation string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	operations.WithLabelValues(operation, outcome).Inc()
}

// RecordSale adds the gross amount and the fees of a settled sale.
func RecordSale(kind string, gross, fees uint64) {
	settledVolume.WithLabelValues(kind).Add(float64(gross))
	if fees > 0 {
		collectedFees.WithLabelValues("collector").Add(float64(fees))
	}
}

// RecordPublicationFee adds a collected publication fee.
func RecordPublicationFee(amount uint64) {
	if amount > 0 {
		collectedFees.WithLabelValues("publication").Add(float64(amount))
	}
}

// RecordJob observes a completed settlement job.
func RecordJob(
	started time.Time, settled, cancelled, expired, skipped int,
) {
	jobDuration.Observe(time.Since(started).Seconds())
	jobItems.WithLabelValues("settled").Add(float64(settled))
	jobItems.WithLabelValues("cancelled").Add(float64(cancelled))
	jobItems.WithLabelValues("expired").Add(float64(expired))
	jobItems.WithLabelValues("skipped").Add(float64(skipped))
}

// RecordHTTPRequest observes a served HTTP request.
func RecordHTTPRequest(route, method, code string, started time.Time) {
	httpRequests.WithLabelValues(route, method, code).Inc()
	httpDuration.WithLabelValues(route, method).Observe(time.Since(started).Seconds())
}
