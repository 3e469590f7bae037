// Package metrics exports ledger and HTTP observations to Prometheus.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"subscription-ledger/internal/core/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ledger"

// Metrics implements ports.LedgerMetrics and carries the HTTP collectors.
// Each instance owns its registry.
type Metrics struct {
	registry *prometheus.Registry

	payments        *prometheus.CounterVec
	shortfallShares *prometheus.CounterVec
	shortfallAmount *prometheus.CounterVec
	redemptionDust  *prometheus.CounterVec
	rebalances      *prometheus.CounterVec
	rebalanceAmount *prometheus.CounterVec
	vaultShares     *prometheus.GaugeVec
	vaultValuation  *prometheus.GaugeVec
	vaultEmergency  *prometheus.GaugeVec
	httpRequests    *prometheus.CounterVec
	httpLatency     *prometheus.HistogramVec
	schedulerRuns   *prometheus.CounterVec
}

// New creates the collectors and registers them with a fresh registry
// alongside the Go and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		payments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "payment",
			Name:      "executions_total",
			Help:      "Payment executions segmented by outcome.",
		}, []string{"outcome"}),
		shortfallShares: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "payment",
			Name:      "shortfall_shares_burned_total",
			Help:      "Vault shares burned to cover payment shortfalls.",
		}, []string{"currency"}),
		shortfallAmount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "payment",
			Name:      "shortfall_amount_total",
			Help:      "Underlying redeemed from the vault to cover payment shortfalls.",
		}, []string{"currency"}),
		redemptionDust: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "payment",
			Name:      "redemption_dust_total",
			Help:      "Shortfall amount moved beyond the value of the shares burned for it.",
		}, []string{"currency"}),
		rebalances: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "vault",
			Name:      "rebalances_total",
			Help:      "Vault rebalances segmented by action.",
		}, []string{"currency", "action"}),
		rebalanceAmount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "vault",
			Name:      "rebalance_amount_total",
			Help:      "Underlying moved between buffer and venue by rebalances.",
		}, []string{"currency", "action"}),
		vaultShares: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "vault",
			Name:      "total_shares",
			Help:      "Outstanding vault shares.",
		}, []string{"currency"}),
		vaultValuation: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "vault",
			Name:      "valuation",
			Help:      "Last observed vault valuation (buffer plus venue position).",
		}, []string{"currency"}),
		vaultEmergency: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "vault",
			Name:      "emergency_mode",
			Help:      "1 while the vault is frozen in emergency mode.",
		}, []string{"currency"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests segmented by route, method and status.",
		}, []string{"route", "method", "status"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Latency distribution for HTTP handlers.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		schedulerRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "items_total",
			Help:      "Items processed by background jobs segmented by job and outcome.",
		}, []string{"job", "outcome"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.payments,
		m.shortfallShares,
		m.shortfallAmount,
		m.redemptionDust,
		m.rebalances,
		m.rebalanceAmount,
		m.vaultShares,
		m.vaultValuation,
		m.vaultEmergency,
		m.httpRequests,
		m.httpLatency,
		m.schedulerRuns,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) ObservePayment(outcome string) {
	m.payments.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveShortfallRedemption(currency string, shares, amount uint64) {
	m.shortfallShares.WithLabelValues(currency).Add(float64(shares))
	m.shortfallAmount.WithLabelValues(currency).Add(float64(amount))
}

func (m *Metrics) ObserveRedemptionDust(currency string, dust uint64) {
	m.redemptionDust.WithLabelValues(currency).Add(float64(dust))
}

func (m *Metrics) ObserveRebalance(currency string, action domain.RebalanceAction, amount uint64) {
	m.rebalances.WithLabelValues(currency, string(action)).Inc()
	m.rebalanceAmount.WithLabelValues(currency, string(action)).Add(float64(amount))
}

// ObserveVault updates the vault gauges. A zero valuation leaves the last
// observed valuation in place.
func (m *Metrics) ObserveVault(currency string, totalShares, valuation uint64, emergency bool) {
	m.vaultShares.WithLabelValues(currency).Set(float64(totalShares))
	if valuation > 0 {
		m.vaultValuation.WithLabelValues(currency).Set(float64(valuation))
	}
	flag := 0.0
	if emergency {
		flag = 1
	}
	m.vaultEmergency.WithLabelValues(currency).Set(flag)
}

// ObserveHTTP records one handled request. route should be the matched
// pattern, not the raw path.
func (m *Metrics) ObserveHTTP(route, method string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpLatency.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

// ObserveJob records items processed by a background job.
func (m *Metrics) ObserveJob(job, outcome string, n int) {
	if n <= 0 {
		return
	}
	m.schedulerRuns.WithLabelValues(job, outcome).Add(float64(n))
}
