package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	// MaxTargetBufferBps caps the liquid buffer target at 50% of valuation.
	MaxTargetBufferBps uint16 = 5000
	// RatePrecision scales exchange rates (1 share == 1 unit at RatePrecision).
	RatePrecision uint64 = 1_000_000
	// DefaultExchangeRate is reported for vaults with no shares outstanding.
	DefaultExchangeRate = RatePrecision
	// RebalanceHysteresisDivisor sets the no-action band to valuation/100.
	RebalanceHysteresisDivisor uint64 = 100
)

// VaultMode is the vault state machine.
type VaultMode string

const (
	VaultModeOperational VaultMode = "OPERATIONAL"
	VaultModeEmergency   VaultMode = "EMERGENCY"
)

// YieldVault pools yield-enabled wallet funds for one currency.
type YieldVault struct {
	ID              uuid.UUID `json:"id"`
	Currency        string    `json:"currency"`
	Authority       string    `json:"authority"`
	BufferAccount   string    `json:"buffer_account"`
	PositionAccount string    `json:"position_account"`
	Venue           string    `json:"venue"`
	TotalShares     uint64    `json:"total_shares"`
	TotalDeposited  uint64    `json:"total_deposited"`
	TargetBufferBps uint16    `json:"target_buffer_bps"`
	EmergencyMode   bool      `json:"emergency_mode"`
	EmergencyRate   uint64    `json:"emergency_rate"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NewYieldVault builds the vault addressed by currency.
func NewYieldVault(currency, authority, venue string, targetBufferBps uint16, now time.Time) *YieldVault {
	return &YieldVault{
		ID:              VaultID(currency),
		Currency:        currency,
		Authority:       authority,
		BufferAccount:   VaultBufferAccount(currency),
		PositionAccount: VaultPositionAccount(currency),
		Venue:           venue,
		TargetBufferBps: targetBufferBps,
		EmergencyRate:   DefaultExchangeRate,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// Mode returns the current state machine mode.
func (v *YieldVault) Mode() VaultMode {
	if v.EmergencyMode {
		return VaultModeEmergency
	}
	return VaultModeOperational
}

// IsAuthority reports whether principal administers the vault.
func (v *YieldVault) IsAuthority(principal string) bool {
	return v.Authority == principal
}

// RebalanceAction describes what a rebalance did with the venue.
type RebalanceAction string

const (
	RebalanceNone     RebalanceAction = "NONE"
	RebalanceDeposit  RebalanceAction = "DEPOSIT"
	RebalanceWithdraw RebalanceAction = "WITHDRAW"
)

// RebalanceResult reports a rebalance decision.
type RebalanceResult struct {
	Currency     string          `json:"currency"`
	Action       RebalanceAction `json:"action"`
	Amount       uint64          `json:"amount"`
	Valuation    uint64          `json:"valuation"`
	BufferBefore uint64          `json:"buffer_before"`
	TargetBuffer uint64          `json:"target_buffer"`
}

// VaultQuote is a read-only view of vault state and pricing.
type VaultQuote struct {
	Vault        *YieldVault `json:"vault"`
	Mode         VaultMode   `json:"mode"`
	Valuation    uint64      `json:"valuation"`
	Buffer       uint64      `json:"buffer"`
	ExchangeRate uint64      `json:"exchange_rate"`
}
