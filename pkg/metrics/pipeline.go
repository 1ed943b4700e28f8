package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Wall time of one full rebuild pass (source -> matrix -> scores -> sink)
	RebuildDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "related_items_rebuild_duration_seconds",
		Help:    "Duration of association rebuild runs",
		Buckets: prometheus.DefBuckets,
	})

	RebuildTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "related_items_rebuild_total",
		Help: "Total number of association rebuild runs",
	})

	RebuildFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "related_items_rebuild_failures_total",
		Help: "Rebuild runs that ended in an error",
	})

	AssociationsStored = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "related_items_associations",
		Help: "Associations written by the most recent rebuild",
	})

	RelatedServedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "related_items_served_total",
		Help: "Total related-items lookups served",
	})
)

func Init() {
	prometheus.MustRegister(
		RebuildDuration,
		RebuildTotal,
		RebuildFailures,
		AssociationsStored,
		RelatedServedTotal,
	)
}
