package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"subscription-ledger/internal/core/domain"
	"subscription-ledger/internal/core/ports"
	"subscription-ledger/internal/core/vaultmath"
	"subscription-ledger/pkg/apperror"

	"github.com/jackc/pgx/v5"
)

// funds moves balances between ledger accounts inside a caller's transaction.
type funds struct {
	balances ports.BalanceRepository
	ledger   ports.LedgerRepository
}

// move debits from, credits to and appends the ledger entry. Zero amounts are skipped.
func (f funds) move(ctx context.Context, tx pgx.Tx, kind domain.LedgerEntryKind, from, to string, amount uint64, reference string, now time.Time) error {
	if amount == 0 {
		return nil
	}
	if err := f.balances.Debit(ctx, tx, from, amount); err != nil {
		return storageError(fmt.Sprintf("debit %s", from), err)
	}
	if err := f.balances.Credit(ctx, tx, to, amount); err != nil {
		return storageError(fmt.Sprintf("credit %s", to), err)
	}
	if err := f.ledger.Append(ctx, tx, domain.NewLedgerEntry(kind, from, to, amount, reference, now)); err != nil {
		return apperror.InternalError(fmt.Errorf("append ledger entry: %w", err))
	}
	return nil
}

// storageError maps repository sentinels onto the error taxonomy.
func storageError(op string, err error) error {
	switch {
	case errors.Is(err, ports.ErrInsufficientBalance):
		return apperror.ErrInsufficientFunds()
	case errors.Is(err, ports.ErrAmountOutOfRange):
		return apperror.ErrMathOverflow(fmt.Errorf("%s: %w", op, err))
	default:
		return apperror.InternalError(fmt.Errorf("%s: %w", op, err))
	}
}

// mathError reports a checked-arithmetic failure.
func mathError(err error) error {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(err, vaultmath.ErrOverflow) || errors.Is(err, vaultmath.ErrUnderflow) || errors.Is(err, vaultmath.ErrDivisionByZero) {
		return apperror.ErrMathOverflow(err)
	}
	return apperror.InternalError(err)
}

func validCurrency(currency string) error {
	if !domain.ValidCurrency(currency) {
		return apperror.ErrInvalidCurrency()
	}
	return nil
}

func validPrincipal(principal string) error {
	if !domain.ValidPrincipal(principal) {
		return apperror.ErrInvalidPrincipal()
	}
	return nil
}

func systemClock() time.Time { return time.Now().UTC() }

// nopMetrics is used when no metrics sink is wired.
type nopMetrics struct{}

func (nopMetrics) ObservePayment(string)                                       {}
func (nopMetrics) ObserveShortfallRedemption(string, uint64, uint64)           {}
func (nopMetrics) ObserveRedemptionDust(string, uint64)                        {}
func (nopMetrics) ObserveRebalance(string, domain.RebalanceAction, uint64)     {}
func (nopMetrics) ObserveVault(string, uint64, uint64, bool)                   {}

func metricsOrNop(m ports.LedgerMetrics) ports.LedgerMetrics {
	if m == nil {
		return nopMetrics{}
	}
	return m
}
