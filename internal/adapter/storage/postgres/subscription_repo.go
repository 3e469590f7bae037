package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"subscription-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const subscriptionColumns = `id, user_principal, wallet_id, plan_key, merchant, currency, fee_amount,
		payment_interval, last_payment_at, total_paid, payment_count, active, session_token, created_at`

// SubscriptionRepo implements ports.SubscriptionRepository.
type SubscriptionRepo struct {
	pool Pool
}

// NewSubscriptionRepo creates a new SubscriptionRepo.
func NewSubscriptionRepo(pool Pool) *SubscriptionRepo {
	return &SubscriptionRepo{pool: pool}
}

// Create inserts a new subscription within a database transaction.
func (r *SubscriptionRepo) Create(ctx context.Context, tx pgx.Tx, s *domain.Subscription) error {
	fee, err := toColumn(s.FeeAmount)
	if err != nil {
		return err
	}
	paid, err := toColumn(s.TotalPaid)
	if err != nil {
		return err
	}

	query := `INSERT INTO subscriptions (` + subscriptionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err = tx.Exec(ctx, query,
		s.ID, s.User, s.WalletID, s.PlanKey, s.Merchant, s.Currency, fee,
		s.PaymentInterval, s.LastPaymentAt, paid, int64(s.PaymentCount), s.Active, s.SessionToken, s.CreatedAt,
	)
	if err != nil {
		return mapWriteError("insert subscription", err)
	}
	return nil
}

// GetByID fetches a subscription by its UUID (without locking).
func (r *SubscriptionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE id = $1`
	return scanSubscription(r.pool.QueryRow(ctx, query, id))
}

// GetByIDForUpdate fetches a subscription by ID with pessimistic locking.
// This MUST be called within a transaction.
func (r *SubscriptionRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE id = $1 FOR UPDATE`
	return scanSubscription(tx.QueryRow(ctx, query, id))
}

// Update writes the payment bookkeeping and active flag.
func (r *SubscriptionRepo) Update(ctx context.Context, tx pgx.Tx, s *domain.Subscription) error {
	paid, err := toColumn(s.TotalPaid)
	if err != nil {
		return err
	}

	query := `UPDATE subscriptions SET last_payment_at = $1, total_paid = $2, payment_count = $3, active = $4
		WHERE id = $5`

	tag, err := tx.Exec(ctx, query, s.LastPaymentAt, paid, int64(s.PaymentCount), s.Active, s.ID)
	if err != nil {
		return mapWriteError("update subscription", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("subscription not found: %s", s.ID)
	}
	return nil
}

// Delete removes a subscription record.
func (r *SubscriptionRepo) Delete(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	tag, err := tx.Exec(ctx, `DELETE FROM subscriptions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete subscription: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("subscription not found: %s", id)
	}
	return nil
}

// ListActiveByWallet returns the active subscriptions drawing on a wallet.
func (r *SubscriptionRepo) ListActiveByWallet(ctx context.Context, tx pgx.Tx, walletID uuid.UUID) ([]domain.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions
		WHERE wallet_id = $1 AND active ORDER BY created_at, id`

	rows, err := tx.Query(ctx, query, walletID)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions by wallet: %w", err)
	}
	return collectSubscriptions(rows)
}

// ListDue returns active subscriptions whose interval has elapsed at now,
// oldest payment first. A non-nil cursor resumes after that row.
func (r *SubscriptionRepo) ListDue(ctx context.Context, now time.Time, after *domain.DueCursor, limit int) ([]domain.Subscription, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if after == nil {
		query := `SELECT ` + subscriptionColumns + ` FROM subscriptions
			WHERE active AND last_payment_at + make_interval(secs => payment_interval) <= $1
			ORDER BY last_payment_at, id LIMIT $2`
		rows, err = r.pool.Query(ctx, query, now, limit)
	} else {
		query := `SELECT ` + subscriptionColumns + ` FROM subscriptions
			WHERE active AND last_payment_at + make_interval(secs => payment_interval) <= $1
			AND (last_payment_at, id) > ($2, $3)
			ORDER BY last_payment_at, id LIMIT $4`
		rows, err = r.pool.Query(ctx, query, now, after.LastPaymentAt, after.ID, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("list due subscriptions: %w", err)
	}
	return collectSubscriptions(rows)
}

func collectSubscriptions(rows pgx.Rows) ([]domain.Subscription, error) {
	defer rows.Close()

	var subs []domain.Subscription
	for rows.Next() {
		s, err := scanSubscription(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate subscriptions: %w", err)
	}
	return subs, nil
}

func scanSubscription(row pgx.Row) (*domain.Subscription, error) {
	s := &domain.Subscription{}
	var fee, paid, count int64
	err := row.Scan(
		&s.ID, &s.User, &s.WalletID, &s.PlanKey, &s.Merchant, &s.Currency, &fee,
		&s.PaymentInterval, &s.LastPaymentAt, &paid, &count, &s.Active, &s.SessionToken, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan subscription: %w", err)
	}
	s.FeeAmount = fromColumn(fee)
	s.TotalPaid = fromColumn(paid)
	s.PaymentCount = uint32(fromColumn(count))
	return s, nil
}
