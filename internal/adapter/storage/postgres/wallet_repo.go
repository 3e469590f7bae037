package postgres

import (
	"context"
	"errors"
	"fmt"

	"subscription-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const walletColumns = `id, owner, currency, liquid_account, total_spent, yield_enabled, yield_shares,
		total_subscriptions, created_at, updated_at`

// WalletRepo implements ports.WalletRepository.
type WalletRepo struct {
	pool Pool
}

// NewWalletRepo creates a new WalletRepo.
func NewWalletRepo(pool Pool) *WalletRepo {
	return &WalletRepo{pool: pool}
}

// Create inserts a new wallet within a database transaction.
func (r *WalletRepo) Create(ctx context.Context, tx pgx.Tx, w *domain.WalletAccount) error {
	spent, err := toColumn(w.TotalSpent)
	if err != nil {
		return err
	}
	shares, err := toColumn(w.YieldShares)
	if err != nil {
		return err
	}

	query := `INSERT INTO wallets (` + walletColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err = tx.Exec(ctx, query,
		w.ID, w.Owner, w.Currency, w.LiquidAccount, spent, w.YieldEnabled, shares,
		int64(w.TotalSubscriptions), w.CreatedAt, w.UpdatedAt,
	)
	if err != nil {
		return mapWriteError("insert wallet", err)
	}
	return nil
}

// GetByID fetches a wallet by its UUID (without locking).
func (r *WalletRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.WalletAccount, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE id = $1`
	return scanWallet(r.pool.QueryRow(ctx, query, id))
}

// GetByIDForUpdate fetches a wallet by ID with pessimistic locking.
// This MUST be called within a transaction.
func (r *WalletRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.WalletAccount, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE id = $1 FOR UPDATE`
	return scanWallet(tx.QueryRow(ctx, query, id))
}

// Update writes the wallet's counters and yield state within a transaction.
func (r *WalletRepo) Update(ctx context.Context, tx pgx.Tx, w *domain.WalletAccount) error {
	spent, err := toColumn(w.TotalSpent)
	if err != nil {
		return err
	}
	shares, err := toColumn(w.YieldShares)
	if err != nil {
		return err
	}

	query := `UPDATE wallets SET total_spent = $1, yield_enabled = $2, yield_shares = $3,
		total_subscriptions = $4, updated_at = $5 WHERE id = $6`

	tag, err := tx.Exec(ctx, query, spent, w.YieldEnabled, shares, int64(w.TotalSubscriptions), w.UpdatedAt, w.ID)
	if err != nil {
		return mapWriteError("update wallet", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("wallet not found: %s", w.ID)
	}
	return nil
}

func scanWallet(row pgx.Row) (*domain.WalletAccount, error) {
	w := &domain.WalletAccount{}
	var spent, shares, subs int64
	err := row.Scan(
		&w.ID, &w.Owner, &w.Currency, &w.LiquidAccount, &spent, &w.YieldEnabled, &shares,
		&subs, &w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan wallet: %w", err)
	}
	w.TotalSpent = fromColumn(spent)
	w.YieldShares = fromColumn(shares)
	w.TotalSubscriptions = uint32(fromColumn(subs))
	return w, nil
}
