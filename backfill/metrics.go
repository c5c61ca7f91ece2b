package backfill

import "github.com/prometheus/client_golang/prometheus"

const runnerLabel = "runner_name"

var runnerErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "backfill_runner_error_count",
	Help: "Number of errors from running a backfill Runner.",
}, []string{runnerLabel})

var runnerMaterialized = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "backfill_runner_materialized_count",
	Help: "Number of intervals successfully materialized by a backfill Runner.",
}, []string{runnerLabel})

func init() {
	prometheus.MustRegister(runnerErrors, runnerMaterialized)
}
