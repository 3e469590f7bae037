package service

import (
	"context"
	"sort"
	"time"

	"subscription-ledger/internal/core/domain"
	"subscription-ledger/internal/core/ports"
	"subscription-ledger/internal/core/vaultmath"
	"subscription-ledger/pkg/apperror"

	"github.com/google/uuid"
)

const (
	DefaultReportDays = 30
	MaxReportDays     = 365
)

// AnalyticsServiceImpl implements ports.AnalyticsService over committed
// state. It never writes.
type AnalyticsServiceImpl struct {
	repo ports.AnalyticsRepository
	now  func() time.Time
}

// NewAnalyticsService creates a new analytics service.
func NewAnalyticsService(repo ports.AnalyticsRepository) *AnalyticsServiceImpl {
	return &AnalyticsServiceImpl{repo: repo, now: systemClock}
}

// Summary returns lifetime revenue, active subscribers, monthly recurring
// revenue and per-plan performance.
func (s *AnalyticsServiceImpl) Summary(ctx context.Context, merchant, currency string) (*domain.MerchantSummary, error) {
	if err := validScope(merchant, currency); err != nil {
		return nil, err
	}

	revenue, err := s.repo.RevenueByDay(ctx, merchant, currency, time.Time{})
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	subs, err := s.repo.ListSubscriptions(ctx, merchant, currency)
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	plans, err := s.repo.ListPlans(ctx, merchant, currency)
	if err != nil {
		return nil, apperror.InternalError(err)
	}

	summary := &domain.MerchantSummary{
		Merchant:   merchant,
		Currency:   currency,
		TotalPlans: len(plans),
		Plans:      planPerformance(plans, subs),
	}
	for _, p := range revenue {
		summary.TotalRevenue = saturatingAdd(summary.TotalRevenue, p.Revenue)
	}
	for i := range subs {
		sub := &subs[i]
		if !sub.Active || sub.PaymentInterval <= 0 {
			continue
		}
		summary.ActiveSubscribers++
		monthly, err := vaultmath.MulDiv(sub.FeeAmount, domain.SecondsPerMonth, uint64(sub.PaymentInterval))
		if err != nil {
			return nil, apperror.InternalError(err)
		}
		summary.MonthlyRecurringRevenue = saturatingAdd(summary.MonthlyRecurringRevenue, monthly)
	}
	return summary, nil
}

// RevenueChart returns merchant revenue per UTC day over the last days days.
// Days without revenue are omitted.
func (s *AnalyticsServiceImpl) RevenueChart(ctx context.Context, merchant, currency string, days int) ([]domain.RevenuePoint, error) {
	if err := validScope(merchant, currency); err != nil {
		return nil, err
	}
	since, err := s.windowStart(days)
	if err != nil {
		return nil, err
	}

	points, err := s.repo.RevenueByDay(ctx, merchant, currency, since)
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	if points == nil {
		points = []domain.RevenuePoint{}
	}
	return points, nil
}

// SubscriberGrowth returns the running count of subscriptions opened in the
// window, one point per day with at least one new subscription.
func (s *AnalyticsServiceImpl) SubscriberGrowth(ctx context.Context, merchant, currency string, days int) ([]domain.GrowthPoint, error) {
	if err := validScope(merchant, currency); err != nil {
		return nil, err
	}
	since, err := s.windowStart(days)
	if err != nil {
		return nil, err
	}

	changes, err := s.repo.SubscriptionChanges(ctx, merchant, currency, since)
	if err != nil {
		return nil, apperror.InternalError(err)
	}

	points := []domain.GrowthPoint{}
	opened := 0
	for _, c := range changes {
		if c.Type != domain.EventSubscriptionCreated {
			continue
		}
		opened++
		day := domain.UTCDay(c.OccurredAt)
		if n := len(points); n > 0 && points[n-1].Day.Equal(day) {
			points[n-1].Subscribers = opened
			continue
		}
		points = append(points, domain.GrowthPoint{Day: day, Subscribers: opened})
	}
	return points, nil
}

// Churn returns the share of all subscriptions ever opened that were cancelled.
func (s *AnalyticsServiceImpl) Churn(ctx context.Context, merchant, currency string) (*domain.ChurnStats, error) {
	if err := validScope(merchant, currency); err != nil {
		return nil, err
	}

	changes, err := s.repo.SubscriptionChanges(ctx, merchant, currency, time.Time{})
	if err != nil {
		return nil, apperror.InternalError(err)
	}

	stats := &domain.ChurnStats{}
	for _, c := range changes {
		switch c.Type {
		case domain.EventSubscriptionCreated:
			stats.Total++
		case domain.EventSubscriptionCancelled:
			stats.Cancelled++
		}
	}
	if stats.Total > 0 {
		stats.Rate = float64(stats.Cancelled) / float64(stats.Total) * 100
	}
	return stats, nil
}

// PlanPerformance ranks the merchant's plans by subscriber count.
func (s *AnalyticsServiceImpl) PlanPerformance(ctx context.Context, merchant, currency string) ([]domain.PlanPerformance, error) {
	if err := validScope(merchant, currency); err != nil {
		return nil, err
	}

	plans, err := s.repo.ListPlans(ctx, merchant, currency)
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	subs, err := s.repo.ListSubscriptions(ctx, merchant, currency)
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	return planPerformance(plans, subs), nil
}

// Customers groups the merchant's subscriptions by user, in order of each
// user's most recent subscription.
func (s *AnalyticsServiceImpl) Customers(ctx context.Context, merchant string) ([]domain.Customer, error) {
	if err := validPrincipal(merchant); err != nil {
		return nil, err
	}

	subs, err := s.repo.ListSubscriptions(ctx, merchant, "")
	if err != nil {
		return nil, apperror.InternalError(err)
	}

	customers := []domain.Customer{}
	index := make(map[string]int)
	for i := range subs {
		sub := subs[i]
		at, ok := index[sub.User]
		if !ok {
			at = len(customers)
			index[sub.User] = at
			customers = append(customers, domain.Customer{User: sub.User, Spent: make(map[string]uint64)})
		}
		c := &customers[at]
		c.Subscriptions = append(c.Subscriptions, sub)
		c.Spent[sub.Currency] = saturatingAdd(c.Spent[sub.Currency], sub.TotalPaid)
		if sub.Active {
			c.ActiveSubscriptions++
		}
	}
	return customers, nil
}

func (s *AnalyticsServiceImpl) windowStart(days int) (time.Time, error) {
	if days == 0 {
		days = DefaultReportDays
	}
	if days < 1 || days > MaxReportDays {
		return time.Time{}, apperror.Validation("days must be between 1 and 365")
	}
	return domain.UTCDay(s.now()).AddDate(0, 0, -(days - 1)), nil
}

func planPerformance(plans []domain.MerchantPlan, subs []domain.Subscription) []domain.PlanPerformance {
	revenue := make(map[uuid.UUID]uint64, len(plans))
	for i := range subs {
		revenue[subs[i].PlanKey] = saturatingAdd(revenue[subs[i].PlanKey], subs[i].TotalPaid)
	}

	out := make([]domain.PlanPerformance, 0, len(plans))
	for i := range plans {
		p := &plans[i]
		perf := domain.PlanPerformance{
			PlanKey:     p.ID,
			PlanID:      p.PlanID,
			PlanName:    p.PlanName,
			Active:      p.Active,
			Subscribers: p.TotalSubscribers,
			Revenue:     revenue[p.ID],
		}
		if perf.Subscribers > 0 {
			perf.RevenuePerMember = perf.Revenue / uint64(perf.Subscribers)
		}
		out = append(out, perf)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Subscribers > out[j].Subscribers })
	return out
}

func validScope(merchant, currency string) error {
	if err := validPrincipal(merchant); err != nil {
		return err
	}
	return validCurrency(currency)
}

// saturatingAdd caps report totals at the uint64 maximum.
func saturatingAdd(a, b uint64) uint64 {
	sum, err := vaultmath.Add(a, b)
	if err != nil {
		return ^uint64(0)
	}
	return sum
}
