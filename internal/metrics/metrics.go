package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Registry struct {
	reg *prometheus.Registry

	RowsLoaded    *prometheus.GaugeVec
	FeatureRows   prometheus.Gauge
	StageDuration *prometheus.HistogramVec
	StageFailures prometheus.Counter
	NullDistance  prometheus.Gauge
	StoredRecords prometheus.Counter
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	rowsLoaded := prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: "featpipe_rows_loaded"}, []string{"table"})
	featureRows := prometheus.NewGauge(prometheus.GaugeOpts{Name: "featpipe_feature_rows"})
	stageDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "featpipe_stage_duration_seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"stage"})
	stageFailures := prometheus.NewCounter(prometheus.CounterOpts{Name: "featpipe_stage_failures_total"})
	nullDistance := prometheus.NewGauge(prometheus.GaugeOpts{Name: "featpipe_null_distance_orders"})
	storedRecords := prometheus.NewCounter(prometheus.CounterOpts{Name: "featpipe_stored_records_total"})

	r.MustRegister(rowsLoaded, featureRows, stageDuration, stageFailures, nullDistance, storedRecords)
	return &Registry{
		reg:           r,
		RowsLoaded:    rowsLoaded,
		FeatureRows:   featureRows,
		StageDuration: stageDuration,
		StageFailures: stageFailures,
		NullDistance:  nullDistance,
		StoredRecords: storedRecords,
	}
}

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }
