package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the storefront collectors on a private registry so tests can
// build as many as they like.
type Metrics struct {
	Registry *prometheus.Registry

	CartMutations          *prometheus.CounterVec
	FavoriteToggles        prometheus.Counter
	CatalogFetches         *prometheus.CounterVec
	NotificationsDelivered prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		CartMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dummyshop_cart_mutations_total",
			Help: "Cart mutations by operation and result.",
		}, []string{"op", "result"}),
		FavoriteToggles: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dummyshop_favorite_toggles_total",
			Help: "Favorite toggles.",
		}),
		CatalogFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dummyshop_catalog_fetch_total",
			Help: "Product source calls by call and result.",
		}, []string{"call", "result"}),
		NotificationsDelivered: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dummyshop_notifications_delivered_total",
			Help: "Notifications moved to the delivered inbox.",
		}),
	}
	m.Registry.MustRegister(m.CartMutations, m.FavoriteToggles, m.CatalogFetches, m.NotificationsDelivered)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// Result labels an outcome from an error.
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
