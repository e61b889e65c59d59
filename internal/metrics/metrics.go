package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
)

var documentsLoaded = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "raglab_documents_loaded_total",
	Help: "Documents loaded per tenant, labelled by outcome",
}, []string{"tenant", "outcome"})

var pointsUpserted = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "raglab_points_upserted_total",
	Help: "Points written to the vector store per tenant",
}, []string{"tenant"})

var queriesServed = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "raglab_queries_total",
	Help: "Queries answered per tenant, labelled by outcome",
}, []string{"tenant", "outcome"})

var dependencyLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "raglab_dependency_latency_seconds",
	Help:    "Latency of external service calls.",
	Buckets: []float64{.05, .1, .25, .5, 1, 2, 5, 10, 30},
}, []string{"service"})

func CountDocumentLoaded(tenant string) {
	documentsLoaded.WithLabelValues(tenant, "loaded").Inc()
}

func CountDocumentSkipped(tenant string) {
	documentsLoaded.WithLabelValues(tenant, "skipped").Inc()
}

func CountPointsUpserted(tenant string, n int) {
	pointsUpserted.WithLabelValues(tenant).Add(float64(n))
}

func CountQuery(tenant string, outcome string) {
	queriesServed.WithLabelValues(tenant, outcome).Inc()
}

func CaptureExecutionMetrics(label string, timeElapsed time.Duration) {
	dependencyLatency.WithLabelValues(label).Observe(timeElapsed.Seconds())
}

// PushToGateway ships the run's metrics to a Pushgateway, the exposition
// mode for batch jobs that exit before a scrape would happen. A missing
// gateway address is a no-op so runs without monitoring stay quiet.
func PushToGateway(gateway, job, tenant string) error {
	if gateway == "" {
		return nil
	}
	return push.New(gateway, job).
		Grouping("tenant", tenant).
		Gatherer(prometheus.DefaultGatherer).
		Push()
}
