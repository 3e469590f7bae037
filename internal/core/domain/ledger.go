package domain

import (
	"time"

	"github.com/google/uuid"
)

// LedgerEntryKind classifies a balance movement.
type LedgerEntryKind string

const (
	LedgerWalletDeposit    LedgerEntryKind = "WALLET_DEPOSIT"
	LedgerWalletWithdrawal LedgerEntryKind = "WALLET_WITHDRAWAL"
	LedgerYieldIn          LedgerEntryKind = "YIELD_IN"
	LedgerYieldOut         LedgerEntryKind = "YIELD_OUT"
	LedgerMerchantPayment  LedgerEntryKind = "MERCHANT_PAYMENT"
	LedgerProtocolFee      LedgerEntryKind = "PROTOCOL_FEE"
	LedgerVenueSupply      LedgerEntryKind = "VENUE_SUPPLY"
	LedgerVenueRedeem      LedgerEntryKind = "VENUE_REDEEM"
)

// LedgerEntry is an append-only record of a balance movement between accounts.
type LedgerEntry struct {
	ID          uuid.UUID       `json:"id"`
	Kind        LedgerEntryKind `json:"kind"`
	FromAccount string          `json:"from_account"`
	ToAccount   string          `json:"to_account"`
	Amount      uint64          `json:"amount"`
	Reference   string          `json:"reference,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// NewLedgerEntry builds an entry with a fresh ID.
func NewLedgerEntry(kind LedgerEntryKind, from, to string, amount uint64, reference string, now time.Time) *LedgerEntry {
	return &LedgerEntry{
		ID:          uuid.New(),
		Kind:        kind,
		FromAccount: from,
		ToAccount:   to,
		Amount:      amount,
		Reference:   reference,
		CreatedAt:   now,
	}
}

// Touches reports whether the entry moves funds into or out of account.
func (e *LedgerEntry) Touches(account string) bool {
	return e.FromAccount == account || e.ToAccount == account
}
