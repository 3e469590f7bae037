package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordIDs_AreDeterministic(t *testing.T) {
	assert.Equal(t, WalletID("alice", "USDC"), WalletID("alice", "USDC"))
	assert.NotEqual(t, WalletID("alice", "USDC"), WalletID("alice", "EURC"))
	assert.NotEqual(t, WalletID("alice", "USDC"), WalletID("bob", "USDC"))
	assert.Equal(t, VaultID("USDC"), VaultID("USDC"))
	assert.Equal(t, PlanKey("shop", "USDC", "pro"), PlanKey("shop", "USDC", "pro"))
	assert.NotEqual(t, PlanKey("shop", "USDC", "pro"), PlanKey("shop", "USDC", "basic"))
	assert.Equal(t, SubscriptionID("alice", "shop", "USDC"), SubscriptionKey{User: "alice", Merchant: "shop", Currency: "USDC"}.ID())
}

func TestRecordIDs_KindsDoNotCollide(t *testing.T) {
	assert.NotEqual(t, VaultID("USDC"), recordID("wallet", "USDC"))
	assert.NotEqual(t, ProtocolConfigID(), VaultID(""))
}

func TestValidPrincipal(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"simple", "alice", true},
		{"email-like", "ops@example.com", true},
		{"empty", "", false},
		{"separator", "a:b", false},
		{"space", "a b", false},
		{"too long", string(make([]byte, 65)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidPrincipal(tt.in))
		})
	}
}

func TestValidCurrency(t *testing.T) {
	assert.True(t, ValidCurrency("USDC"))
	assert.True(t, ValidCurrency("EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"))
	assert.False(t, ValidCurrency(""))
	assert.False(t, ValidCurrency("US:DC"))
}

func TestNewWalletAccount(t *testing.T) {
	now := time.Now().UTC()
	w := NewWalletAccount("alice", "USDC", now)

	assert.Equal(t, WalletID("alice", "USDC"), w.ID)
	assert.Equal(t, "wallet:alice:USDC", w.LiquidAccount)
	assert.True(t, w.IsOwnedBy("alice"))
	assert.False(t, w.IsOwnedBy("bob"))
	assert.False(t, w.CanRedeem())

	w.YieldEnabled = true
	assert.False(t, w.CanRedeem(), "enabled without shares cannot redeem")
	w.YieldShares = 1
	assert.True(t, w.CanRedeem())
}

func TestYieldVault_Mode(t *testing.T) {
	v := NewYieldVault("USDC", "admin", "buffer_only", 1000, time.Now())

	assert.Equal(t, VaultModeOperational, v.Mode())
	assert.Equal(t, DefaultExchangeRate, v.EmergencyRate)
	assert.Equal(t, "vault:USDC:buffer", v.BufferAccount)
	assert.Equal(t, "vault:USDC:position", v.PositionAccount)

	v.EmergencyMode = true
	assert.Equal(t, VaultModeEmergency, v.Mode())
	assert.True(t, v.IsAuthority("admin"))
	assert.False(t, v.IsAuthority("alice"))
}

func TestSubscription_IsDue(t *testing.T) {
	last := time.Unix(1_700_000_000, 0)
	s := &Subscription{LastPaymentAt: last, PaymentInterval: 3600}

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"same instant", last, false},
		{"one second short", last.Add(3599 * time.Second), false},
		{"exactly one interval", last.Add(time.Hour), true},
		{"well past", last.Add(48 * time.Hour), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.IsDue(tt.now))
		})
	}
	assert.Equal(t, last.Add(time.Hour), s.NextPaymentAt())
}

func TestLedgerEntry_Touches(t *testing.T) {
	e := NewLedgerEntry(LedgerMerchantPayment, "wallet:a:USDC", "merchant:m:USDC", 10, "sub", time.Now())

	assert.True(t, e.Touches("wallet:a:USDC"))
	assert.True(t, e.Touches("merchant:m:USDC"))
	assert.False(t, e.Touches("treasury:t:USDC"))
}

func TestNewEvent(t *testing.T) {
	evt, err := NewEvent(EventEmergencyModeChanged, "USDC", EmergencyModeData{
		Currency: "USDC", Enabled: true, FrozenRate: 1_050_000,
	}, time.Now())
	require.NoError(t, err)

	assert.Equal(t, "ledger.vault.emergency_mode_changed", evt.RoutingKey())

	var data EmergencyModeData
	require.NoError(t, json.Unmarshal(evt.Data, &data))
	assert.True(t, data.Enabled)
	assert.Equal(t, uint64(1_050_000), data.FrozenRate)
}
