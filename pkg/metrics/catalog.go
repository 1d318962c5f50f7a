package metrics

import "github.com/prometheus/client_golang/prometheus"

// Upsert outcomes
const (
	OutcomeCreated = "created"
	OutcomeMerged  = "merged"
)

// CatalogMetrics holds business level collectors
type CatalogMetrics struct {
	ProductsTotal   prometheus.Gauge
	Upserts         *prometheus.CounterVec
	EventsPublished *prometheus.CounterVec
	EventsConsumed  *prometheus.CounterVec
}

// NewCatalogMetrics creates and registers the catalog collectors on reg
func NewCatalogMetrics(reg prometheus.Registerer) *CatalogMetrics {
	m := &CatalogMetrics{
		ProductsTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "catalog_products_total",
			Help: "Number of products in the catalog",
		}),
		Upserts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_product_upserts_total",
			Help: "Product upserts by outcome (created or merged)",
		}, []string{"outcome"}),
		EventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_events_published_total",
			Help: "Catalog events published to Kafka by type and result",
		}, []string{"event_type", "result"}),
		EventsConsumed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_events_consumed_total",
			Help: "Ingestion events consumed from Kafka by type and result",
		}, []string{"event_type", "result"}),
	}

	reg.MustRegister(m.ProductsTotal, m.Upserts, m.EventsPublished, m.EventsConsumed)
	return m
}
