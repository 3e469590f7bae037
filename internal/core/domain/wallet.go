package domain

import (
	"time"

	"github.com/google/uuid"
)

// CommitmentPeriods is how many fee periods each active subscription reserves
// out of the wallet's liquid balance.
const CommitmentPeriods uint64 = 3

// WalletAccount is a user's custodial wallet for one currency.
type WalletAccount struct {
	ID                 uuid.UUID `json:"id"`
	Owner              string    `json:"owner"`
	Currency           string    `json:"currency"`
	LiquidAccount      string    `json:"liquid_account"`
	TotalSpent         uint64    `json:"total_spent"`
	YieldEnabled       bool      `json:"yield_enabled"`
	YieldShares        uint64    `json:"yield_shares"`
	TotalSubscriptions uint32    `json:"total_subscriptions"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// NewWalletAccount builds a wallet addressed by (owner, currency).
func NewWalletAccount(owner, currency string, now time.Time) *WalletAccount {
	return &WalletAccount{
		ID:            WalletID(owner, currency),
		Owner:         owner,
		Currency:      currency,
		LiquidAccount: WalletLiquidAccount(owner, currency),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// IsOwnedBy reports whether principal owns the wallet.
func (w *WalletAccount) IsOwnedBy(principal string) bool {
	return w.Owner == principal
}

// CanRedeem reports whether the wallet holds shares it may redeem.
func (w *WalletAccount) CanRedeem() bool {
	return w.YieldEnabled && w.YieldShares > 0
}
