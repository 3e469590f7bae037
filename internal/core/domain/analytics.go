package domain

import (
	"time"

	"github.com/google/uuid"
)

// SecondsPerMonth is the 30-day month used to normalise recurring revenue.
const SecondsPerMonth = 30 * 24 * 60 * 60

// RevenuePoint is the merchant revenue booked on one UTC day.
type RevenuePoint struct {
	Day     time.Time `json:"day"`
	Revenue uint64    `json:"revenue"`
}

// SubscriptionChange is one recorded subscription.created or
// subscription.cancelled event.
type SubscriptionChange struct {
	Type       EventType `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
}

// GrowthPoint is the cumulative count of subscriptions opened up to Day
// within the reporting window.
type GrowthPoint struct {
	Day         time.Time `json:"day"`
	Subscribers int       `json:"subscribers"`
}

// ChurnStats counts cancellations against every subscription ever opened.
type ChurnStats struct {
	Total     int     `json:"total"`
	Cancelled int     `json:"cancelled"`
	Rate      float64 `json:"rate"` // percent
}

// PlanPerformance summarises one plan. Revenue is what its subscriptions on
// record have paid.
type PlanPerformance struct {
	PlanKey          uuid.UUID `json:"plan_key"`
	PlanID           string    `json:"plan_id"`
	PlanName         string    `json:"plan_name"`
	Active           bool      `json:"active"`
	Subscribers      uint32    `json:"subscribers"`
	Revenue          uint64    `json:"revenue"`
	RevenuePerMember uint64    `json:"revenue_per_subscriber"`
}

// MerchantSummary is the headline view of a merchant in one currency.
type MerchantSummary struct {
	Merchant                string            `json:"merchant"`
	Currency                string            `json:"currency"`
	TotalRevenue            uint64            `json:"total_revenue"`
	ActiveSubscribers       int               `json:"active_subscribers"`
	TotalPlans              int               `json:"total_plans"`
	MonthlyRecurringRevenue uint64            `json:"monthly_recurring_revenue"`
	Plans                   []PlanPerformance `json:"plans"`
}

// Customer groups a user's subscriptions to one merchant across currencies.
type Customer struct {
	User                string            `json:"user"`
	Spent               map[string]uint64 `json:"spent"` // by currency
	ActiveSubscriptions int               `json:"active_subscriptions"`
	Subscriptions       []Subscription    `json:"subscriptions"`
}

// UTCDay truncates t to midnight UTC.
func UTCDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
