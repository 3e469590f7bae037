package postgres

import (
	"context"
	"errors"
	"fmt"

	"subscription-ledger/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

const protocolColumns = `id, authority, treasury, fee_bps, created_at, updated_at`

// ProtocolConfigRepo implements ports.ProtocolConfigRepository.
type ProtocolConfigRepo struct {
	pool Pool
}

// NewProtocolConfigRepo creates a new ProtocolConfigRepo.
func NewProtocolConfigRepo(pool Pool) *ProtocolConfigRepo {
	return &ProtocolConfigRepo{pool: pool}
}

// Create inserts the protocol singleton.
func (r *ProtocolConfigRepo) Create(ctx context.Context, tx pgx.Tx, cfg *domain.ProtocolConfig) error {
	query := `INSERT INTO protocol_config (` + protocolColumns + `) VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := tx.Exec(ctx, query,
		cfg.ID, cfg.Authority, cfg.Treasury, int32(cfg.FeeBps), cfg.CreatedAt, cfg.UpdatedAt,
	)
	if err != nil {
		return mapWriteError("insert protocol config", err)
	}
	return nil
}

// Get fetches the protocol singleton (without locking).
func (r *ProtocolConfigRepo) Get(ctx context.Context) (*domain.ProtocolConfig, error) {
	query := `SELECT ` + protocolColumns + ` FROM protocol_config WHERE id = $1`
	return scanProtocolConfig(r.pool.QueryRow(ctx, query, domain.ProtocolConfigID()))
}

// GetForUpdate fetches the protocol singleton with pessimistic locking.
// This MUST be called within a transaction.
func (r *ProtocolConfigRepo) GetForUpdate(ctx context.Context, tx pgx.Tx) (*domain.ProtocolConfig, error) {
	query := `SELECT ` + protocolColumns + ` FROM protocol_config WHERE id = $1 FOR UPDATE`
	return scanProtocolConfig(tx.QueryRow(ctx, query, domain.ProtocolConfigID()))
}

// Update writes the mutable protocol fields.
func (r *ProtocolConfigRepo) Update(ctx context.Context, tx pgx.Tx, cfg *domain.ProtocolConfig) error {
	query := `UPDATE protocol_config SET authority = $1, treasury = $2, fee_bps = $3, updated_at = $4 WHERE id = $5`

	tag, err := tx.Exec(ctx, query, cfg.Authority, cfg.Treasury, int32(cfg.FeeBps), cfg.UpdatedAt, cfg.ID)
	if err != nil {
		return mapWriteError("update protocol config", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("protocol config not found: %s", cfg.ID)
	}
	return nil
}

func scanProtocolConfig(row pgx.Row) (*domain.ProtocolConfig, error) {
	cfg := &domain.ProtocolConfig{}
	var feeBps int32
	err := row.Scan(&cfg.ID, &cfg.Authority, &cfg.Treasury, &feeBps, &cfg.CreatedAt, &cfg.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan protocol config: %w", err)
	}
	cfg.FeeBps = uint16(feeBps)
	return cfg, nil
}
