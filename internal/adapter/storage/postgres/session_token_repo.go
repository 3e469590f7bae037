package postgres

import (
	"context"
	"errors"
	"fmt"

	"subscription-ledger/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// SessionTokenRepo implements ports.SessionTokenRepository.
// The primary key on token makes each token usable once.
type SessionTokenRepo struct {
	pool Pool
}

// NewSessionTokenRepo creates a new SessionTokenRepo.
func NewSessionTokenRepo(pool Pool) *SessionTokenRepo {
	return &SessionTokenRepo{pool: pool}
}

// Create records a consumed token. A reused token fails with ports.ErrDuplicate.
func (r *SessionTokenRepo) Create(ctx context.Context, tx pgx.Tx, rec *domain.SessionTokenRecord) error {
	query := `INSERT INTO session_tokens (token, user_principal, subscription_id, used, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := tx.Exec(ctx, query, rec.Token, rec.User, rec.SubscriptionID, rec.Used, rec.CreatedAt)
	if err != nil {
		return mapWriteError("insert session token", err)
	}
	return nil
}

// Get fetches a token record inside the caller's transaction.
func (r *SessionTokenRepo) Get(ctx context.Context, tx pgx.Tx, token string) (*domain.SessionTokenRecord, error) {
	query := `SELECT token, user_principal, subscription_id, used, created_at
		FROM session_tokens WHERE token = $1`

	rec := &domain.SessionTokenRecord{}
	err := tx.QueryRow(ctx, query, token).Scan(&rec.Token, &rec.User, &rec.SubscriptionID, &rec.Used, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get session token: %w", err)
	}
	return rec, nil
}
