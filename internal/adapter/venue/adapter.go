// Package venue implements the vault's yield adapter and the external lending
// venues it can place liquidity with.
package venue

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"subscription-ledger/config"
	"subscription-ledger/internal/core/domain"
	"subscription-ledger/internal/core/ports"
	"subscription-ledger/internal/core/vaultmath"
	"subscription-ledger/pkg/apperror"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

const (
	KindBufferOnly    = "buffer_only"
	KindReserveRatio  = "reserve_ratio"
	KindExchangePrice = "exchange_price"
)

// New builds the adapter selected by cfg.Kind.
func New(cfg config.VenueConfig, balances ports.BalanceRepository, ledger ports.LedgerRepository, log zerolog.Logger) (ports.YieldAdapter, error) {
	httpClient := &http.Client{Timeout: cfg.Timeout}
	switch cfg.Kind {
	case KindBufferOnly, "":
		return NewBufferOnly(balances), nil
	case KindReserveRatio:
		return NewLending(NewReserveRatio(cfg.BaseURL, cfg.Market, cfg.APIKey, httpClient), balances, ledger, log), nil
	case KindExchangePrice:
		return NewLending(NewExchangePrice(cfg.BaseURL, cfg.Market, cfg.APIKey, httpClient), balances, ledger, log), nil
	default:
		return nil, fmt.Errorf("unsupported venue kind %q", cfg.Kind)
	}
}

// BufferOnly keeps every unit in the vault buffer. Deposit is a no-op and
// nothing can be withdrawn from a venue that holds nothing.
type BufferOnly struct {
	balances ports.BalanceRepository
}

func NewBufferOnly(balances ports.BalanceRepository) *BufferOnly {
	return &BufferOnly{balances: balances}
}

func (a *BufferOnly) Name() string { return KindBufferOnly }

func (a *BufferOnly) Valuation(ctx context.Context, tx pgx.Tx, vault *domain.YieldVault) (uint64, error) {
	return a.BufferBalance(ctx, tx, vault)
}

func (a *BufferOnly) BufferBalance(ctx context.Context, tx pgx.Tx, vault *domain.YieldVault) (uint64, error) {
	bal, err := a.balances.GetForUpdate(ctx, tx, vault.BufferAccount)
	if err != nil {
		return 0, apperror.InternalError(fmt.Errorf("lock vault buffer: %w", err))
	}
	return bal, nil
}

func (a *BufferOnly) Deposit(_ context.Context, _ pgx.Tx, _ *domain.YieldVault, _ uint64) (*ports.VenueMove, error) {
	return nil, nil
}

func (a *BufferOnly) Withdraw(_ context.Context, _ pgx.Tx, _ *domain.YieldVault, amount uint64) (*ports.VenueMove, error) {
	if amount == 0 {
		return nil, nil
	}
	return nil, apperror.ErrInsufficientLiquidity()
}

func (a *BufferOnly) Reverse(_ context.Context, _ *domain.YieldVault, _ *ports.VenueMove) error {
	return nil
}

// Lending places buffer excess with an external venue. The vault's position
// tokens are held in its position account; venue calls are made before any
// balance is written so a failed call leaves the ledger untouched.
type Lending struct {
	venue    ports.YieldVenue
	balances ports.BalanceRepository
	ledger   ports.LedgerRepository
	log      zerolog.Logger
	now      func() time.Time
}

func NewLending(venue ports.YieldVenue, balances ports.BalanceRepository, ledger ports.LedgerRepository, log zerolog.Logger) *Lending {
	return &Lending{
		venue:    venue,
		balances: balances,
		ledger:   ledger,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (a *Lending) Name() string { return a.venue.Name() }

func (a *Lending) BufferBalance(ctx context.Context, tx pgx.Tx, vault *domain.YieldVault) (uint64, error) {
	bal, err := a.balances.GetForUpdate(ctx, tx, vault.BufferAccount)
	if err != nil {
		return 0, apperror.InternalError(fmt.Errorf("lock vault buffer: %w", err))
	}
	return bal, nil
}

func (a *Lending) position(ctx context.Context, tx pgx.Tx, vault *domain.YieldVault) (uint64, error) {
	bal, err := a.balances.GetForUpdate(ctx, tx, vault.PositionAccount)
	if err != nil {
		return 0, apperror.InternalError(fmt.Errorf("lock vault position: %w", err))
	}
	return bal, nil
}

// Valuation is the buffer plus the underlying value of the position.
func (a *Lending) Valuation(ctx context.Context, tx pgx.Tx, vault *domain.YieldVault) (uint64, error) {
	buffer, err := a.BufferBalance(ctx, tx, vault)
	if err != nil {
		return 0, err
	}
	tokens, err := a.position(ctx, tx, vault)
	if err != nil {
		return 0, err
	}
	placed, err := a.venue.Value(ctx, tokens)
	if err != nil {
		if errors.Is(err, vaultmath.ErrOverflow) {
			return 0, apperror.ErrMathOverflow(err)
		}
		return 0, apperror.ErrVenueQueryFailed(err)
	}
	total, err := vaultmath.Add(buffer, placed)
	if err != nil {
		return 0, apperror.ErrMathOverflow(err)
	}
	return total, nil
}

// Deposit supplies amount from the buffer to the venue.
func (a *Lending) Deposit(ctx context.Context, tx pgx.Tx, vault *domain.YieldVault, amount uint64) (*ports.VenueMove, error) {
	if amount == 0 {
		return nil, nil
	}
	buffer, err := a.BufferBalance(ctx, tx, vault)
	if err != nil {
		return nil, err
	}
	if buffer < amount {
		return nil, apperror.ErrInsufficientLiquidity()
	}
	if _, err := a.position(ctx, tx, vault); err != nil {
		return nil, err
	}

	minted, err := a.venue.Supply(ctx, amount)
	if err != nil {
		return nil, apperror.ErrVenueDepositFailed(err)
	}
	move := &ports.VenueMove{Action: ports.VenueSupply, Underlying: amount, Tokens: minted}

	if err := a.record(ctx, tx, vault, move); err != nil {
		a.compensate(ctx, vault, move)
		return nil, err
	}

	a.log.Info().
		Str("currency", vault.Currency).
		Str("venue", a.venue.Name()).
		Uint64("amount", amount).
		Uint64("minted", minted).
		Msg("supplied liquidity to venue")
	return move, nil
}

// Withdraw redeems enough position tokens to return amount to the buffer.
// Whatever the venue pays out is credited, including less than amount.
func (a *Lending) Withdraw(ctx context.Context, tx pgx.Tx, vault *domain.YieldVault, amount uint64) (*ports.VenueMove, error) {
	if amount == 0 {
		return nil, nil
	}
	if _, err := a.BufferBalance(ctx, tx, vault); err != nil {
		return nil, err
	}
	held, err := a.position(ctx, tx, vault)
	if err != nil {
		return nil, err
	}
	if held == 0 {
		return nil, apperror.ErrInsufficientLiquidity()
	}

	tokens, err := a.venue.PositionFor(ctx, amount)
	if err != nil {
		return nil, apperror.ErrVenueWithdrawFailed(err)
	}
	if tokens > held {
		return nil, apperror.ErrInsufficientLiquidity()
	}

	received, err := a.venue.Redeem(ctx, tokens)
	if err != nil {
		return nil, apperror.ErrVenueWithdrawFailed(err)
	}
	move := &ports.VenueMove{Action: ports.VenueRedeem, Underlying: received, Tokens: tokens}

	if err := a.record(ctx, tx, vault, move); err != nil {
		a.compensate(ctx, vault, move)
		return nil, err
	}

	logEvt := a.log.Info()
	if received < amount {
		logEvt = a.log.Warn()
	}
	logEvt.
		Str("currency", vault.Currency).
		Str("venue", a.venue.Name()).
		Uint64("requested", amount).
		Uint64("burned", tokens).
		Uint64("received", received).
		Msg("redeemed liquidity from venue")
	return move, nil
}

// record writes a venue movement to the buffer and position accounts.
func (a *Lending) record(ctx context.Context, tx pgx.Tx, vault *domain.YieldVault, move *ports.VenueMove) error {
	var entry *domain.LedgerEntry
	switch move.Action {
	case ports.VenueSupply:
		if err := a.balances.Debit(ctx, tx, vault.BufferAccount, move.Underlying); err != nil {
			return apperror.InternalError(fmt.Errorf("debit vault buffer: %w", err))
		}
		if err := a.balances.Credit(ctx, tx, vault.PositionAccount, move.Tokens); err != nil {
			return apperror.InternalError(fmt.Errorf("credit vault position: %w", err))
		}
		entry = domain.NewLedgerEntry(domain.LedgerVenueSupply, vault.BufferAccount, vault.PositionAccount,
			move.Underlying, fmt.Sprintf("%s minted=%d", a.venue.Name(), move.Tokens), a.now())
	case ports.VenueRedeem:
		if err := a.balances.Debit(ctx, tx, vault.PositionAccount, move.Tokens); err != nil {
			return apperror.InternalError(fmt.Errorf("debit vault position: %w", err))
		}
		if err := a.balances.Credit(ctx, tx, vault.BufferAccount, move.Underlying); err != nil {
			return apperror.InternalError(fmt.Errorf("credit vault buffer: %w", err))
		}
		entry = domain.NewLedgerEntry(domain.LedgerVenueRedeem, vault.PositionAccount, vault.BufferAccount,
			move.Underlying, fmt.Sprintf("%s burned=%d", a.venue.Name(), move.Tokens), a.now())
	default:
		return apperror.InternalError(fmt.Errorf("unknown venue action %q", move.Action))
	}
	if err := a.ledger.Append(ctx, tx, entry); err != nil {
		return apperror.InternalError(fmt.Errorf("append ledger entry: %w", err))
	}
	return nil
}

// Reverse returns the venue to where it stood before move, up to venue rounding.
func (a *Lending) Reverse(ctx context.Context, vault *domain.YieldVault, move *ports.VenueMove) error {
	if move == nil {
		return nil
	}
	var err error
	switch move.Action {
	case ports.VenueSupply:
		_, err = a.venue.Redeem(ctx, move.Tokens)
	case ports.VenueRedeem:
		_, err = a.venue.Supply(ctx, move.Underlying)
	default:
		err = fmt.Errorf("unknown venue action %q", move.Action)
	}
	if err != nil {
		return fmt.Errorf("reverse %s of %d at %s: %w", move.Action, move.Underlying, a.venue.Name(), err)
	}
	a.log.Warn().
		Str("currency", vault.Currency).
		Str("venue", a.venue.Name()).
		Str("action", string(move.Action)).
		Uint64("underlying", move.Underlying).
		Uint64("tokens", move.Tokens).
		Msg("reversed venue movement")
	return nil
}

func (a *Lending) compensate(ctx context.Context, vault *domain.YieldVault, move *ports.VenueMove) {
	if err := a.Reverse(context.WithoutCancel(ctx), vault, move); err != nil {
		a.log.Error().Err(err).
			Str("currency", vault.Currency).
			Msg("venue movement not recorded and could not be reversed; reconcile the position account")
	}
}
