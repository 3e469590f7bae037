package ports

import (
	"context"
	"errors"
	"fmt"

	"subscription-ledger/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// ErrNoPosition is returned by venues that cannot redeem because nothing is placed.
var ErrNoPosition = errors.New("venue holds no position")

// VenueAction names the direction of a venue movement.
type VenueAction string

const (
	VenueSupply VenueAction = "SUPPLY"
	VenueRedeem VenueAction = "REDEEM"
)

// VenueMove records what the venue actually did during Deposit or Withdraw.
// Underlying is the amount supplied or received, Tokens the position tokens
// minted or burned.
type VenueMove struct {
	Action     VenueAction
	Underlying uint64
	Tokens     uint64
}

// BufferShortError reports that a payout needs more than the vault buffer
// holds. The caller rolls back, replenishes the buffer from the venue in its
// own transaction and retries.
type BufferShortError struct {
	Currency  string
	Required  uint64
	Available uint64
}

func (e *BufferShortError) Error() string {
	return fmt.Sprintf("vault %s buffer holds %d, payout needs %d", e.Currency, e.Available, e.Required)
}

// YieldAdapter is the vault's capability boundary toward liquidity placement.
// Valuation covers the buffer plus the underlying value of the venue position.
//
// Deposit and Withdraw call the venue and then record the movement in tx.
// They leave no trace when the venue call fails. Once the venue has moved
// funds the movement is recorded as it happened, even when the venue returned
// less than requested, and the returned move must either commit with tx or be
// passed to Reverse.
type YieldAdapter interface {
	Name() string
	Valuation(ctx context.Context, tx pgx.Tx, vault *domain.YieldVault) (uint64, error)
	BufferBalance(ctx context.Context, tx pgx.Tx, vault *domain.YieldVault) (uint64, error)
	Deposit(ctx context.Context, tx pgx.Tx, vault *domain.YieldVault, amount uint64) (*VenueMove, error)
	Withdraw(ctx context.Context, tx pgx.Tx, vault *domain.YieldVault, amount uint64) (*VenueMove, error)
	// Reverse undoes a move whose transaction did not commit. A nil move is a no-op.
	Reverse(ctx context.Context, vault *domain.YieldVault, move *VenueMove) error
}

// YieldVenue is an external lending market that mints position tokens for
// supplied underlying. Implementations differ only in how they price the
// position token.
type YieldVenue interface {
	Name() string
	// Value converts position tokens into underlying units.
	Value(ctx context.Context, positionTokens uint64) (uint64, error)
	// PositionFor converts an underlying amount into the position tokens
	// that redeem for at least that amount.
	PositionFor(ctx context.Context, underlying uint64) (uint64, error)
	// Supply places underlying and returns the position tokens minted.
	Supply(ctx context.Context, underlying uint64) (uint64, error)
	// Redeem burns position tokens and returns the underlying received.
	Redeem(ctx context.Context, positionTokens uint64) (uint64, error)
}
