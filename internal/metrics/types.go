package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service is the Prometheus-backed implementation of Metrics.
type Service struct {
	GamesCreated          prometheus.Counter
	GamesCancelled        prometheus.Counter
	ApplicationsSubmitted prometheus.Counter
	ApplicationsAccepted  prometheus.Counter
	ApplicationsRejected  prometheus.Counter
	CapacityRejections    prometheus.Counter
	DecisionDuration      prometheus.Histogram
	NotifSent             prometheus.Counter
	NotifFailed           prometheus.Counter
	StartupTimeSeconds    prometheus.Gauge
}
