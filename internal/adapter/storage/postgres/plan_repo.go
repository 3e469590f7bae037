package postgres

import (
	"context"
	"errors"
	"fmt"

	"subscription-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const planColumns = `id, merchant, currency, plan_id, plan_name, fee_amount, payment_interval, active,
		total_subscribers, created_at, updated_at`

// PlanRepo implements ports.PlanRepository.
type PlanRepo struct {
	pool Pool
}

// NewPlanRepo creates a new PlanRepo.
func NewPlanRepo(pool Pool) *PlanRepo {
	return &PlanRepo{pool: pool}
}

// Create inserts a new merchant plan within a database transaction.
func (r *PlanRepo) Create(ctx context.Context, tx pgx.Tx, p *domain.MerchantPlan) error {
	fee, err := toColumn(p.FeeAmount)
	if err != nil {
		return err
	}

	query := `INSERT INTO merchant_plans (` + planColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err = tx.Exec(ctx, query,
		p.ID, p.Merchant, p.Currency, p.PlanID, p.PlanName, fee, p.PaymentInterval, p.Active,
		int64(p.TotalSubscribers), p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return mapWriteError("insert plan", err)
	}
	return nil
}

// GetByID fetches a plan by its UUID (without locking).
func (r *PlanRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.MerchantPlan, error) {
	query := `SELECT ` + planColumns + ` FROM merchant_plans WHERE id = $1`
	return scanPlan(r.pool.QueryRow(ctx, query, id))
}

// GetByIDForUpdate fetches a plan by ID with pessimistic locking.
// This MUST be called within a transaction.
func (r *PlanRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.MerchantPlan, error) {
	query := `SELECT ` + planColumns + ` FROM merchant_plans WHERE id = $1 FOR UPDATE`
	return scanPlan(tx.QueryRow(ctx, query, id))
}

// Update writes the plan's active flag and subscriber count. Fee and interval are immutable.
func (r *PlanRepo) Update(ctx context.Context, tx pgx.Tx, p *domain.MerchantPlan) error {
	query := `UPDATE merchant_plans SET active = $1, total_subscribers = $2, updated_at = $3 WHERE id = $4`

	tag, err := tx.Exec(ctx, query, p.Active, int64(p.TotalSubscribers), p.UpdatedAt, p.ID)
	if err != nil {
		return mapWriteError("update plan", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("plan not found: %s", p.ID)
	}
	return nil
}

func scanPlan(row pgx.Row) (*domain.MerchantPlan, error) {
	p := &domain.MerchantPlan{}
	var fee, subscribers int64
	err := row.Scan(
		&p.ID, &p.Merchant, &p.Currency, &p.PlanID, &p.PlanName, &fee, &p.PaymentInterval, &p.Active,
		&subscribers, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan plan: %w", err)
	}
	p.FeeAmount = fromColumn(fee)
	p.TotalSubscribers = uint32(fromColumn(subscribers))
	return p, nil
}
