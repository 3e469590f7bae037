package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	MaxPlanIDLen   = 32
	MaxPlanNameLen = 64
)

// MerchantPlan is a recurring-fee plan offered by a merchant.
// Fee and interval are immutable once created.
type MerchantPlan struct {
	ID               uuid.UUID `json:"id"`
	Merchant         string    `json:"merchant"`
	Currency         string    `json:"currency"`
	PlanID           string    `json:"plan_id"`
	PlanName         string    `json:"plan_name"`
	FeeAmount        uint64    `json:"fee_amount"`
	PaymentInterval  int64     `json:"payment_interval"` // seconds
	Active           bool      `json:"active"`
	TotalSubscribers uint32    `json:"total_subscribers"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Interval returns the payment interval as a duration.
func (p *MerchantPlan) Interval() time.Duration {
	return time.Duration(p.PaymentInterval) * time.Second
}
