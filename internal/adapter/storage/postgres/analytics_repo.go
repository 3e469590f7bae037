package postgres

import (
	"context"
	"fmt"
	"time"

	"subscription-ledger/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// AnalyticsRepo implements ports.AnalyticsRepository.
type AnalyticsRepo struct {
	pool Pool
}

// NewAnalyticsRepo creates a new AnalyticsRepo.
func NewAnalyticsRepo(pool Pool) *AnalyticsRepo {
	return &AnalyticsRepo{pool: pool}
}

// RevenueByDay sums payments into the merchant's account per UTC day since
// the given instant.
func (r *AnalyticsRepo) RevenueByDay(ctx context.Context, merchant, currency string, since time.Time) ([]domain.RevenuePoint, error) {
	query := `SELECT date_trunc('day', created_at AT TIME ZONE 'UTC') AS day, SUM(amount)::BIGINT
		FROM ledger_entries
		WHERE kind = $1 AND to_account = $2 AND created_at >= $3
		GROUP BY day ORDER BY day`

	account := domain.MerchantAccount(merchant, currency)
	rows, err := r.pool.Query(ctx, query, string(domain.LedgerMerchantPayment), account, since)
	if err != nil {
		return nil, fmt.Errorf("query revenue: %w", err)
	}
	defer rows.Close()

	var points []domain.RevenuePoint
	for rows.Next() {
		var (
			day   time.Time
			total int64
		)
		if err := rows.Scan(&day, &total); err != nil {
			return nil, fmt.Errorf("scan revenue: %w", err)
		}
		points = append(points, domain.RevenuePoint{Day: domain.UTCDay(day), Revenue: fromColumn(total)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate revenue: %w", err)
	}
	return points, nil
}

// ListSubscriptions fetches every subscription to the merchant, newest first.
func (r *AnalyticsRepo) ListSubscriptions(ctx context.Context, merchant, currency string) ([]domain.Subscription, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if currency == "" {
		query := `SELECT ` + subscriptionColumns + ` FROM subscriptions
			WHERE merchant = $1 ORDER BY created_at DESC, id`
		rows, err = r.pool.Query(ctx, query, merchant)
	} else {
		query := `SELECT ` + subscriptionColumns + ` FROM subscriptions
			WHERE merchant = $1 AND currency = $2 ORDER BY created_at DESC, id`
		rows, err = r.pool.Query(ctx, query, merchant, currency)
	}
	if err != nil {
		return nil, fmt.Errorf("list merchant subscriptions: %w", err)
	}
	return collectSubscriptions(rows)
}

// ListPlans fetches the merchant's plans, oldest first.
func (r *AnalyticsRepo) ListPlans(ctx context.Context, merchant, currency string) ([]domain.MerchantPlan, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if currency == "" {
		query := `SELECT ` + planColumns + ` FROM merchant_plans
			WHERE merchant = $1 ORDER BY created_at, plan_id`
		rows, err = r.pool.Query(ctx, query, merchant)
	} else {
		query := `SELECT ` + planColumns + ` FROM merchant_plans
			WHERE merchant = $1 AND currency = $2 ORDER BY created_at, plan_id`
		rows, err = r.pool.Query(ctx, query, merchant, currency)
	}
	if err != nil {
		return nil, fmt.Errorf("list merchant plans: %w", err)
	}
	defer rows.Close()

	var plans []domain.MerchantPlan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate plans: %w", err)
	}
	return plans, nil
}

// SubscriptionChanges reads subscription.created and subscription.cancelled
// events for the merchant since the given instant, oldest first.
func (r *AnalyticsRepo) SubscriptionChanges(ctx context.Context, merchant, currency string, since time.Time) ([]domain.SubscriptionChange, error) {
	query := `SELECT type, occurred_at FROM events
		WHERE type IN ($1, $2) AND data->>'merchant' = $3 AND data->>'currency' = $4 AND occurred_at >= $5
		ORDER BY occurred_at`

	rows, err := r.pool.Query(ctx, query,
		string(domain.EventSubscriptionCreated), string(domain.EventSubscriptionCancelled), merchant, currency, since)
	if err != nil {
		return nil, fmt.Errorf("query subscription changes: %w", err)
	}
	defer rows.Close()

	var changes []domain.SubscriptionChange
	for rows.Next() {
		var (
			c   domain.SubscriptionChange
			typ string
		)
		if err := rows.Scan(&typ, &c.OccurredAt); err != nil {
			return nil, fmt.Errorf("scan subscription change: %w", err)
		}
		c.Type = domain.EventType(typ)
		changes = append(changes, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate subscription changes: %w", err)
	}
	return changes, nil
}
