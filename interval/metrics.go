package interval

import "github.com/prometheus/client_golang/prometheus"

const cronLabel = "cron"

// readyGauge and missingGauge expose the size of the most recent Ready/
// Missing result per cron expression, mirroring process/metrics.go's
// prometheus.NewGaugeVec + MustRegister pattern.
var readyGauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
	Name: "interval_ready_count",
	Help: "Number of data intervals considered ready by the most recent Ready call.",
}, []string{cronLabel})

var missingGauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
	Name: "interval_missing_count",
	Help: "Number of data intervals considered missing by the most recent Missing call.",
}, []string{cronLabel})

func init() {
	prometheus.MustRegister(readyGauge, missingGauge)
}
