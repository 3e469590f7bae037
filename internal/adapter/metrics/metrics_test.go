package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"subscription-ledger/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sample returns the value of the series in family name whose labels match.
func sample(t *testing.T, m *Metrics, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := m.Registry().Gather()
	require.NoError(t, err)
	for _, fam := range families {
		if fam.GetName() != name {
			continue
		}
		for _, metric := range fam.GetMetric() {
			matched := 0
			for _, lp := range metric.GetLabel() {
				if v, ok := labels[lp.GetName()]; ok && v == lp.GetValue() {
					matched++
				}
			}
			if matched != len(labels) {
				continue
			}
			switch {
			case metric.GetCounter() != nil:
				return metric.GetCounter().GetValue()
			case metric.GetGauge() != nil:
				return metric.GetGauge().GetValue()
			case metric.GetHistogram() != nil:
				return float64(metric.GetHistogram().GetSampleCount())
			}
		}
	}
	t.Fatalf("series %s%v not found", name, labels)
	return 0
}

func TestMetrics_Payments(t *testing.T) {
	m := New()
	m.ObservePayment("success")
	m.ObservePayment("success")
	m.ObservePayment("insufficient_funds")

	assert.Equal(t, 2.0, sample(t, m, "ledger_payment_executions_total", map[string]string{"outcome": "success"}))
	assert.Equal(t, 1.0, sample(t, m, "ledger_payment_executions_total", map[string]string{"outcome": "insufficient_funds"}))
}

func TestMetrics_Shortfall(t *testing.T) {
	m := New()
	m.ObserveShortfallRedemption("USDC", 30, 33)
	m.ObserveRedemptionDust("USDC", 3)

	usdc := map[string]string{"currency": "USDC"}
	assert.Equal(t, 30.0, sample(t, m, "ledger_payment_shortfall_shares_burned_total", usdc))
	assert.Equal(t, 33.0, sample(t, m, "ledger_payment_shortfall_amount_total", usdc))
	assert.Equal(t, 3.0, sample(t, m, "ledger_payment_redemption_dust_total", usdc))
}

func TestMetrics_Rebalance(t *testing.T) {
	m := New()
	m.ObserveRebalance("USDC", domain.RebalanceDeposit, 400)
	m.ObserveRebalance("USDC", domain.RebalanceDeposit, 100)

	labels := map[string]string{"currency": "USDC", "action": "DEPOSIT"}
	assert.Equal(t, 2.0, sample(t, m, "ledger_vault_rebalances_total", labels))
	assert.Equal(t, 500.0, sample(t, m, "ledger_vault_rebalance_amount_total", labels))
}

func TestMetrics_VaultGauges(t *testing.T) {
	m := New()
	usdc := map[string]string{"currency": "USDC"}

	m.ObserveVault("USDC", 900, 990, false)
	assert.Equal(t, 900.0, sample(t, m, "ledger_vault_total_shares", usdc))
	assert.Equal(t, 990.0, sample(t, m, "ledger_vault_valuation", usdc))
	assert.Equal(t, 0.0, sample(t, m, "ledger_vault_emergency_mode", usdc))

	m.ObserveVault("USDC", 850, 0, true)
	assert.Equal(t, 850.0, sample(t, m, "ledger_vault_total_shares", usdc))
	assert.Equal(t, 990.0, sample(t, m, "ledger_vault_valuation", usdc))
	assert.Equal(t, 1.0, sample(t, m, "ledger_vault_emergency_mode", usdc))
}

func TestMetrics_HTTPAndJobs(t *testing.T) {
	m := New()
	m.ObserveHTTP("/api/v1/wallets", http.MethodPost, http.StatusCreated, 12*time.Millisecond)
	m.ObserveHTTP("", http.MethodGet, http.StatusNotFound, time.Millisecond)
	m.ObserveJob("payments", "success", 3)
	m.ObserveJob("payments", "failure", 0)

	assert.Equal(t, 1.0, sample(t, m, "ledger_http_requests_total",
		map[string]string{"route": "/api/v1/wallets", "method": "POST", "status": "201"}))
	assert.Equal(t, 1.0, sample(t, m, "ledger_http_requests_total",
		map[string]string{"route": "unmatched", "status": "404"}))
	assert.Equal(t, 1.0, sample(t, m, "ledger_http_request_duration_seconds",
		map[string]string{"route": "/api/v1/wallets"}))
	assert.Equal(t, 3.0, sample(t, m, "ledger_scheduler_items_total",
		map[string]string{"job": "payments", "outcome": "success"}))
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.ObservePayment("success")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `ledger_payment_executions_total{outcome="success"} 1`)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
