package postgres

import (
	"context"
	"errors"
	"fmt"

	"subscription-ledger/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// WebhookRepo implements ports.WebhookRepository. Like events, webhook
// records are written on the pool, outside any business transaction.
type WebhookRepo struct {
	pool Pool
}

// NewWebhookRepo creates a new WebhookRepo.
func NewWebhookRepo(pool Pool) *WebhookRepo {
	return &WebhookRepo{pool: pool}
}

// UpsertEndpoint inserts or replaces the merchant's endpoint.
func (r *WebhookRepo) UpsertEndpoint(ctx context.Context, ep *domain.WebhookEndpoint) error {
	query := `INSERT INTO webhook_endpoints (merchant, url, secret_enc, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (merchant) DO UPDATE
		SET url = EXCLUDED.url, secret_enc = EXCLUDED.secret_enc, active = EXCLUDED.active, updated_at = EXCLUDED.updated_at`

	_, err := r.pool.Exec(ctx, query, ep.Merchant, ep.URL, ep.SecretEnc, ep.Active, ep.CreatedAt, ep.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert webhook endpoint: %w", err)
	}
	return nil
}

// GetEndpoint returns the merchant's endpoint, or nil.
func (r *WebhookRepo) GetEndpoint(ctx context.Context, merchant string) (*domain.WebhookEndpoint, error) {
	query := `SELECT merchant, url, secret_enc, active, created_at, updated_at
		FROM webhook_endpoints WHERE merchant = $1`

	ep := &domain.WebhookEndpoint{}
	err := r.pool.QueryRow(ctx, query, merchant).Scan(&ep.Merchant, &ep.URL, &ep.SecretEnc, &ep.Active, &ep.CreatedAt, &ep.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get webhook endpoint: %w", err)
	}
	return ep, nil
}

// CreateDelivery logs a new delivery.
func (r *WebhookRepo) CreateDelivery(ctx context.Context, d *domain.WebhookDelivery) error {
	query := `INSERT INTO webhook_deliveries
		(id, event_id, event_type, merchant, url, payload, http_status, attempt, status, last_error, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.pool.Exec(ctx, query,
		d.ID, d.EventID, string(d.EventType), d.Merchant, d.URL, d.Payload,
		d.HTTPStatus, d.Attempt, string(d.Status), d.LastError, d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert webhook delivery: %w", err)
	}
	return nil
}

// UpdateDelivery records the latest attempt.
func (r *WebhookRepo) UpdateDelivery(ctx context.Context, d *domain.WebhookDelivery) error {
	query := `UPDATE webhook_deliveries
		SET http_status = $1, attempt = $2, status = $3, last_error = $4, updated_at = $5
		WHERE id = $6`

	tag, err := r.pool.Exec(ctx, query, d.HTTPStatus, d.Attempt, string(d.Status), d.LastError, d.UpdatedAt, d.ID)
	if err != nil {
		return fmt.Errorf("update webhook delivery: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("webhook delivery not found: %s", d.ID)
	}
	return nil
}

// ListDeliveries returns the merchant's deliveries, newest first.
func (r *WebhookRepo) ListDeliveries(ctx context.Context, merchant string, limit int) ([]domain.WebhookDelivery, error) {
	query := `SELECT id, event_id, event_type, merchant, url, payload, http_status, attempt, status, last_error, created_at, updated_at
		FROM webhook_deliveries WHERE merchant = $1
		ORDER BY created_at DESC LIMIT $2`

	rows, err := r.pool.Query(ctx, query, merchant, limit)
	if err != nil {
		return nil, fmt.Errorf("list webhook deliveries: %w", err)
	}
	defer rows.Close()

	var out []domain.WebhookDelivery
	for rows.Next() {
		var (
			d         domain.WebhookDelivery
			eventType string
			status    string
		)
		if err := rows.Scan(
			&d.ID, &d.EventID, &eventType, &d.Merchant, &d.URL, &d.Payload,
			&d.HTTPStatus, &d.Attempt, &status, &d.LastError, &d.CreatedAt, &d.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan webhook delivery: %w", err)
		}
		d.EventType = domain.EventType(eventType)
		d.Status = domain.WebhookStatus(status)
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate webhook deliveries: %w", err)
	}
	return out, nil
}
