// Package metrics collects and exposes Prometheus metrics for the usage
// metering core.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"engmate/internal/domain"
)

// Collector registers and updates the service's Prometheus metrics.
type Collector struct {
	checksAllowed   *prometheus.CounterVec
	checksDenied    *prometheus.CounterVec
	topupUnits      prometheus.Counter
	topupPurchases  prometheus.Counter
	debitShortfalls prometheus.Counter
}

// NewCollector creates a Collector and registers its metrics on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		checksAllowed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "engmate_usage_checks_allowed_total",
			Help: "Usage checks that allowed the AI call, by plan.",
		}, []string{"plan"}),
		checksDenied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "engmate_usage_checks_denied_total",
			Help: "Usage checks that denied the AI call, by plan.",
		}, []string{"plan"}),
		topupUnits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "engmate_topup_units_total",
			Help: "Top-up credit units issued.",
		}),
		topupPurchases: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "engmate_topup_purchases_total",
			Help: "Top-up purchases completed.",
		}),
		debitShortfalls: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "engmate_topup_debit_shortfalls_total",
			Help: "Top-up debits that could not be fully covered.",
		}),
	}

	reg.MustRegister(
		c.checksAllowed,
		c.checksDenied,
		c.topupUnits,
		c.topupPurchases,
		c.debitShortfalls,
	)

	return c
}

// CheckAllowed counts an allowed usage check.
func (c *Collector) CheckAllowed(plan domain.UserPlan) {
	c.checksAllowed.WithLabelValues(string(plan)).Inc()
}

// CheckDenied counts a denied usage check.
func (c *Collector) CheckDenied(plan domain.UserPlan) {
	c.checksDenied.WithLabelValues(string(plan)).Inc()
}

// TopupPurchased counts a completed purchase and its units.
func (c *Collector) TopupPurchased(units int) {
	c.topupPurchases.Inc()
	c.topupUnits.Add(float64(units))
}

// DebitShortfall counts a debit that fell short of the requested units.
func (c *Collector) DebitShortfall() {
	c.debitShortfalls.Inc()
}

// Handler returns the Prometheus scrape handler for the gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
