package domain

import (
	"time"

	"github.com/google/uuid"
)

// SubscriptionKey locates a subscription by its logical key.
type SubscriptionKey struct {
	User     string
	Merchant string
	Currency string
}

// ID returns the deterministic record ID for the key.
func (k SubscriptionKey) ID() uuid.UUID {
	return SubscriptionID(k.User, k.Merchant, k.Currency)
}

// Subscription links a user's wallet to a merchant plan.
type Subscription struct {
	ID              uuid.UUID `json:"id"`
	User            string    `json:"user"`
	WalletID        uuid.UUID `json:"wallet_id"`
	PlanKey         uuid.UUID `json:"plan_key"`
	Merchant        string    `json:"merchant"`
	Currency        string    `json:"currency"`
	FeeAmount       uint64    `json:"fee_amount"`
	PaymentInterval int64     `json:"payment_interval"` // seconds
	LastPaymentAt   time.Time `json:"last_payment_at"`
	TotalPaid       uint64    `json:"total_paid"`
	PaymentCount    uint32    `json:"payment_count"`
	Active          bool      `json:"active"`
	SessionToken    string    `json:"session_token"`
	CreatedAt       time.Time `json:"created_at"`
}

// Key returns the logical key of the subscription.
func (s *Subscription) Key() SubscriptionKey {
	return SubscriptionKey{User: s.User, Merchant: s.Merchant, Currency: s.Currency}
}

// IsDue reports whether a full interval has elapsed since the last payment.
func (s *Subscription) IsDue(now time.Time) bool {
	return now.Unix()-s.LastPaymentAt.Unix() >= s.PaymentInterval
}

// NextPaymentAt returns the earliest time the next payment may execute.
func (s *Subscription) NextPaymentAt() time.Time {
	return s.LastPaymentAt.Add(time.Duration(s.PaymentInterval) * time.Second)
}

// DueCursor is a keyset position in the due-payment ordering
// (last_payment_at, id).
type DueCursor struct {
	LastPaymentAt time.Time
	ID            uuid.UUID
}

// Cursor returns the keyset position of the subscription.
func (s *Subscription) Cursor() DueCursor {
	return DueCursor{LastPaymentAt: s.LastPaymentAt, ID: s.ID}
}

// Precedes reports whether c sorts strictly before s.
func (c DueCursor) Precedes(s *Subscription) bool {
	if !c.LastPaymentAt.Equal(s.LastPaymentAt) {
		return c.LastPaymentAt.Before(s.LastPaymentAt)
	}
	return c.ID.String() < s.ID.String()
}
