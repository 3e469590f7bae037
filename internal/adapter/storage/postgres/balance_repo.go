package postgres

import (
	"context"
	"errors"
	"fmt"

	"subscription-ledger/internal/core/ports"

	"github.com/jackc/pgx/v5"
)

// BalanceRepo implements ports.BalanceRepository over token_accounts.
// Accounts are created on first credit; unknown accounts read as zero.
type BalanceRepo struct {
	pool Pool
}

// NewBalanceRepo creates a new BalanceRepo.
func NewBalanceRepo(pool Pool) *BalanceRepo {
	return &BalanceRepo{pool: pool}
}

// Get returns an account balance (without locking).
func (r *BalanceRepo) Get(ctx context.Context, account string) (uint64, error) {
	var balance int64
	err := r.pool.QueryRow(ctx, `SELECT balance FROM token_accounts WHERE account = $1`, account).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("get balance %s: %w", account, err)
	}
	return fromColumn(balance), nil
}

// GetForUpdate returns an account balance and locks its row until the
// transaction ends. The row is created first so the lock always holds.
func (r *BalanceRepo) GetForUpdate(ctx context.Context, tx pgx.Tx, account string) (uint64, error) {
	if _, err := tx.Exec(ctx,
		`INSERT INTO token_accounts (account, balance) VALUES ($1, 0) ON CONFLICT (account) DO NOTHING`,
		account,
	); err != nil {
		return 0, fmt.Errorf("ensure account %s: %w", account, err)
	}

	var balance int64
	err := tx.QueryRow(ctx, `SELECT balance FROM token_accounts WHERE account = $1 FOR UPDATE`, account).Scan(&balance)
	if err != nil {
		return 0, fmt.Errorf("lock balance %s: %w", account, err)
	}
	return fromColumn(balance), nil
}

// Credit adds amount to an account, creating it when missing.
func (r *BalanceRepo) Credit(ctx context.Context, tx pgx.Tx, account string, amount uint64) error {
	v, err := toColumn(amount)
	if err != nil {
		return err
	}

	query := `INSERT INTO token_accounts (account, balance, updated_at) VALUES ($1, $2, NOW())
		ON CONFLICT (account) DO UPDATE SET balance = token_accounts.balance + EXCLUDED.balance, updated_at = NOW()`

	if _, err := tx.Exec(ctx, query, account, v); err != nil {
		return mapWriteError(fmt.Sprintf("credit %s", account), err)
	}
	return nil
}

// Debit subtracts amount from an account. It fails with
// ports.ErrInsufficientBalance instead of going negative.
func (r *BalanceRepo) Debit(ctx context.Context, tx pgx.Tx, account string, amount uint64) error {
	v, err := toColumn(amount)
	if err != nil {
		return fmt.Errorf("debit %s: %w", account, ports.ErrInsufficientBalance)
	}

	query := `UPDATE token_accounts SET balance = balance - $2, updated_at = NOW()
		WHERE account = $1 AND balance >= $2`

	tag, err := tx.Exec(ctx, query, account, v)
	if err != nil {
		return mapWriteError(fmt.Sprintf("debit %s", account), err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("debit %s: %w", account, ports.ErrInsufficientBalance)
	}
	return nil
}
