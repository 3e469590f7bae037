package postgres

import (
	"context"
	"fmt"

	"subscription-ledger/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// LedgerRepo implements ports.LedgerRepository over ledger_entries.
type LedgerRepo struct {
	pool Pool
}

// NewLedgerRepo creates a new LedgerRepo.
func NewLedgerRepo(pool Pool) *LedgerRepo {
	return &LedgerRepo{pool: pool}
}

// Append inserts a ledger entry within a database transaction.
func (r *LedgerRepo) Append(ctx context.Context, tx pgx.Tx, e *domain.LedgerEntry) error {
	amount, err := toColumn(e.Amount)
	if err != nil {
		return err
	}

	query := `INSERT INTO ledger_entries (id, kind, from_account, to_account, amount, reference, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err = tx.Exec(ctx, query,
		e.ID, string(e.Kind), e.FromAccount, e.ToAccount, amount, e.Reference, e.CreatedAt,
	)
	if err != nil {
		return mapWriteError("insert ledger entry", err)
	}
	return nil
}

// ListByAccount fetches entries touching account, newest first.
func (r *LedgerRepo) ListByAccount(ctx context.Context, account string, limit int) ([]domain.LedgerEntry, error) {
	query := `SELECT id, kind, from_account, to_account, amount, reference, created_at
		FROM ledger_entries WHERE from_account = $1 OR to_account = $1
		ORDER BY seq DESC LIMIT $2`

	rows, err := r.pool.Query(ctx, query, account, limit)
	if err != nil {
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.LedgerEntry
	for rows.Next() {
		var (
			e      domain.LedgerEntry
			kind   string
			amount int64
		)
		if err := rows.Scan(&e.ID, &kind, &e.FromAccount, &e.ToAccount, &amount, &e.Reference, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		e.Kind = domain.LedgerEntryKind(kind)
		e.Amount = fromColumn(amount)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ledger entries: %w", err)
	}
	return entries, nil
}
