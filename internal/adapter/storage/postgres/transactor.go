package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// Transactor implements ports.DBTransactor. Every balance, vault and ledger
// mutation in the service layer runs inside one of its transactions, so the
// isolation level here is the ledger's consistency level.
type Transactor struct {
	pool Pool
	opts pgx.TxOptions
}

// NewTransactor creates a Transactor that begins transactions at the given
// isolation level (read_committed, repeatable_read or serializable).
func NewTransactor(pool Pool, isolation string) (*Transactor, error) {
	level, err := isolationLevel(isolation)
	if err != nil {
		return nil, err
	}
	return &Transactor{pool: pool, opts: pgx.TxOptions{IsoLevel: level}}, nil
}

// Begin starts a ledger transaction.
func (t *Transactor) Begin(ctx context.Context) (pgx.Tx, error) {
	tx, err := t.pool.BeginTx(ctx, t.opts)
	if err != nil {
		return nil, fmt.Errorf("begin ledger transaction: %w", err)
	}
	return tx, nil
}

func isolationLevel(name string) (pgx.TxIsoLevel, error) {
	switch name {
	case "", "read_committed":
		return pgx.ReadCommitted, nil
	case "repeatable_read":
		return pgx.RepeatableRead, nil
	case "serializable":
		return pgx.Serializable, nil
	default:
		return "", fmt.Errorf("unsupported isolation level %q", name)
	}
}
