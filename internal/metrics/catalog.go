package metrics

import "github.com/prometheus/client_golang/prometheus"

// Catalog write operation label values.
const (
	OpCreate     = "create"
	OpUpdate     = "update"
	OpMetadata   = "metadata"
	OpDeactivate = "deactivate"
	OpSeed       = "seed"
)

// Catalog Prometheus metrics.
var (
	CatalogWritesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shopdex",
			Name:      "catalog_writes_total",
			Help:      "Total number of catalog writes",
		},
		[]string{"op", "status"}, // status: ok / error
	)

	CatalogWriteDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "shopdex",
			Name:      "catalog_write_duration_seconds",
			Help:      "Catalog write duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"op"},
	)

	SeedProductsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shopdex",
			Name:      "seed_products_total",
			Help:      "Products written by the catalog seeder",
		},
		[]string{"category"},
	)
)

var catalogMetricsRegistered bool

// RegisterCatalogMetrics registers Prometheus catalog metrics. Must be called once from main.
func RegisterCatalogMetrics() {
	if catalogMetricsRegistered {
		return
	}
	prometheus.MustRegister(CatalogWritesTotal)
	prometheus.MustRegister(CatalogWriteDuration)
	prometheus.MustRegister(SeedProductsTotal)
	catalogMetricsRegistered = true
}

// ObserveCatalogWrite records one catalog write.
func ObserveCatalogWrite(op string, seconds float64, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	CatalogWritesTotal.WithLabelValues(op, status).Inc()
	CatalogWriteDuration.WithLabelValues(op).Observe(seconds)
}
