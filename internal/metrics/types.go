package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service is the Prometheus-backed implementation of Metrics.
type Service struct {
	MatchesRecorded      prometheus.Counter
	MatchesDeleted       prometheus.Counter
	StaleDeletesRejected prometheus.Counter
	ReplayDuration       prometheus.Histogram
	SlackNotifSent       prometheus.Counter
	SlackNotifFailed     prometheus.Counter
	StartupTimeSeconds   prometheus.Gauge
}
