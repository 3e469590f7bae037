package postgres

import (
	"context"
	"errors"
	"fmt"

	"subscription-ledger/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

const vaultColumns = `id, currency, authority, buffer_account, position_account, venue, total_shares,
		total_deposited, target_buffer_bps, emergency_mode, emergency_rate, created_at, updated_at`

// VaultRepo implements ports.VaultRepository.
type VaultRepo struct {
	pool Pool
}

// NewVaultRepo creates a new VaultRepo.
func NewVaultRepo(pool Pool) *VaultRepo {
	return &VaultRepo{pool: pool}
}

type vaultAmounts struct {
	shares, deposited, rate int64
}

func vaultColumnsOf(v *domain.YieldVault) (vaultAmounts, error) {
	var (
		a   vaultAmounts
		err error
	)
	if a.shares, err = toColumn(v.TotalShares); err != nil {
		return a, err
	}
	if a.deposited, err = toColumn(v.TotalDeposited); err != nil {
		return a, err
	}
	if a.rate, err = toColumn(v.EmergencyRate); err != nil {
		return a, err
	}
	return a, nil
}

// Create inserts a new vault within a database transaction.
func (r *VaultRepo) Create(ctx context.Context, tx pgx.Tx, v *domain.YieldVault) error {
	a, err := vaultColumnsOf(v)
	if err != nil {
		return err
	}

	query := `INSERT INTO yield_vaults (` + vaultColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err = tx.Exec(ctx, query,
		v.ID, v.Currency, v.Authority, v.BufferAccount, v.PositionAccount, v.Venue, a.shares,
		a.deposited, int32(v.TargetBufferBps), v.EmergencyMode, a.rate, v.CreatedAt, v.UpdatedAt,
	)
	if err != nil {
		return mapWriteError("insert vault", err)
	}
	return nil
}

// GetByCurrency fetches the vault for a currency (without locking).
func (r *VaultRepo) GetByCurrency(ctx context.Context, currency string) (*domain.YieldVault, error) {
	query := `SELECT ` + vaultColumns + ` FROM yield_vaults WHERE currency = $1`
	return scanVault(r.pool.QueryRow(ctx, query, currency))
}

// GetByCurrencyForUpdate fetches the vault for a currency with pessimistic locking.
// This MUST be called within a transaction.
func (r *VaultRepo) GetByCurrencyForUpdate(ctx context.Context, tx pgx.Tx, currency string) (*domain.YieldVault, error) {
	query := `SELECT ` + vaultColumns + ` FROM yield_vaults WHERE currency = $1 FOR UPDATE`
	return scanVault(tx.QueryRow(ctx, query, currency))
}

// Update writes the vault's share supply, parameters and emergency state.
func (r *VaultRepo) Update(ctx context.Context, tx pgx.Tx, v *domain.YieldVault) error {
	a, err := vaultColumnsOf(v)
	if err != nil {
		return err
	}

	query := `UPDATE yield_vaults SET total_shares = $1, total_deposited = $2, target_buffer_bps = $3,
		emergency_mode = $4, emergency_rate = $5, updated_at = $6 WHERE id = $7`

	tag, err := tx.Exec(ctx, query,
		a.shares, a.deposited, int32(v.TargetBufferBps), v.EmergencyMode, a.rate, v.UpdatedAt, v.ID,
	)
	if err != nil {
		return mapWriteError("update vault", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("vault not found: %s", v.Currency)
	}
	return nil
}

// List returns every vault ordered by currency.
func (r *VaultRepo) List(ctx context.Context) ([]domain.YieldVault, error) {
	query := `SELECT ` + vaultColumns + ` FROM yield_vaults ORDER BY currency`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list vaults: %w", err)
	}
	defer rows.Close()

	var vaults []domain.YieldVault
	for rows.Next() {
		v, err := scanVault(rows)
		if err != nil {
			return nil, err
		}
		vaults = append(vaults, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate vaults: %w", err)
	}
	return vaults, nil
}

func scanVault(row pgx.Row) (*domain.YieldVault, error) {
	v := &domain.YieldVault{}
	var (
		a         vaultAmounts
		bufferBps int32
	)
	err := row.Scan(
		&v.ID, &v.Currency, &v.Authority, &v.BufferAccount, &v.PositionAccount, &v.Venue, &a.shares,
		&a.deposited, &bufferBps, &v.EmergencyMode, &a.rate, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan vault: %w", err)
	}
	v.TotalShares = fromColumn(a.shares)
	v.TotalDeposited = fromColumn(a.deposited)
	v.EmergencyRate = fromColumn(a.rate)
	v.TargetBufferBps = uint16(bufferBps)
	return v, nil
}
