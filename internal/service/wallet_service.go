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

	"github.com/rs/zerolog"
)

const (
	defaultLedgerLimit = 50
	maxLedgerLimit     = 500
)

// WalletServiceImpl implements ports.WalletService.
type WalletServiceImpl struct {
	walletRepo ports.WalletRepository
	subRepo    ports.SubscriptionRepository
	funds      funds
	vaults     ports.VaultService
	transactor ports.DBTransactor
	events     ports.EventRecorder
	log        zerolog.Logger
	now        func() time.Time
}

// NewWalletService creates a new WalletServiceImpl.
func NewWalletService(
	walletRepo ports.WalletRepository,
	subRepo ports.SubscriptionRepository,
	balances ports.BalanceRepository,
	ledger ports.LedgerRepository,
	vaults ports.VaultService,
	transactor ports.DBTransactor,
	events ports.EventRecorder,
	log zerolog.Logger,
) *WalletServiceImpl {
	return &WalletServiceImpl{
		walletRepo: walletRepo,
		subRepo:    subRepo,
		funds:      funds{balances: balances, ledger: ledger},
		vaults:     vaults,
		transactor: transactor,
		events:     events,
		log:        log,
		now:        systemClock,
	}
}

// CreateWallet creates the owner's wallet for a currency. One per (owner, currency).
func (s *WalletServiceImpl) CreateWallet(ctx context.Context, owner, currency string) (*domain.WalletAccount, error) {
	if err := validPrincipal(owner); err != nil {
		return nil, err
	}
	if err := validCurrency(currency); err != nil {
		return nil, err
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	wallet := domain.NewWalletAccount(owner, currency, s.now())
	if err := s.walletRepo.Create(ctx, dbTx, wallet); err != nil {
		if errors.Is(err, ports.ErrDuplicate) {
			return nil, apperror.ErrAlreadyExists("wallet")
		}
		return nil, apperror.InternalError(fmt.Errorf("create wallet: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().Str("owner", owner).Str("currency", currency).Msg("wallet created")
	recordEvent(ctx, s.events, s.log, domain.EventSubscriptionWalletCreated, owner, domain.WalletMovementData{
		Owner: owner, Currency: currency,
	}, s.now())

	return wallet, nil
}

// Deposit credits external funds into the wallet's liquid balance.
func (s *WalletServiceImpl) Deposit(ctx context.Context, req ports.WalletAmountRequest) (*ports.WalletView, error) {
	if req.Amount == 0 {
		return nil, apperror.ErrInvalidDepositAmount()
	}
	if err := validCurrency(req.Currency); err != nil {
		return nil, err
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	wallet, err := s.walletRepo.GetByIDForUpdate(ctx, dbTx, domain.WalletID(req.Owner, req.Currency))
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock wallet: %w", err))
	}
	if wallet == nil {
		return nil, apperror.ErrNotFound("wallet")
	}
	if !wallet.IsOwnedBy(req.Owner) {
		return nil, apperror.ErrUnauthorizedWalletAccess()
	}

	liquid, err := s.funds.balances.GetForUpdate(ctx, dbTx, wallet.LiquidAccount)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock wallet balance: %w", err))
	}
	newLiquid, err := vaultmath.Add(liquid, req.Amount)
	if err != nil {
		return nil, mathError(err)
	}

	now := s.now()
	if err := s.funds.balances.Credit(ctx, dbTx, wallet.LiquidAccount, req.Amount); err != nil {
		return nil, storageError("credit wallet", err)
	}
	entry := domain.NewLedgerEntry(domain.LedgerWalletDeposit, domain.FundingAccount(wallet.Currency),
		wallet.LiquidAccount, req.Amount, wallet.ID.String(), now)
	if err := s.funds.ledger.Append(ctx, dbTx, entry); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("append ledger entry: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("owner", wallet.Owner).
		Str("currency", wallet.Currency).
		Uint64("amount", req.Amount).
		Msg("wallet deposit")
	recordEvent(ctx, s.events, s.log, domain.EventWalletDeposit, wallet.Owner, domain.WalletMovementData{
		Owner: wallet.Owner, Currency: wallet.Currency, Amount: req.Amount,
	}, now)

	return &ports.WalletView{Wallet: wallet, LiquidBalance: newLiquid}, nil
}

// GetWallet returns the wallet with its liquid balance, the current value of
// its shares, and the committed and withdrawable amounts.
func (s *WalletServiceImpl) GetWallet(ctx context.Context, owner, currency string) (*ports.WalletView, error) {
	if err := validCurrency(currency); err != nil {
		return nil, err
	}

	view, err := s.walletBalances(ctx, owner, currency)
	if err != nil {
		return nil, err
	}

	if view.Wallet.YieldShares > 0 && s.vaults != nil {
		quote, err := s.vaults.GetVault(ctx, currency)
		if err != nil {
			return nil, err
		}
		view.ShareValue, err = vaultmath.ValueOfShares(view.Wallet.YieldShares, quote.Vault.TotalShares, quote.Valuation)
		if err != nil {
			return nil, mathError(err)
		}
	}
	return view, nil
}

func (s *WalletServiceImpl) walletBalances(ctx context.Context, owner, currency string) (*ports.WalletView, error) {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	wallet, err := s.walletRepo.GetByIDForUpdate(ctx, dbTx, domain.WalletID(owner, currency))
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get wallet: %w", err))
	}
	if wallet == nil {
		return nil, apperror.ErrNotFound("wallet")
	}
	if !wallet.IsOwnedBy(owner) {
		return nil, apperror.ErrUnauthorizedWalletAccess()
	}

	liquid, err := s.funds.balances.GetForUpdate(ctx, dbTx, wallet.LiquidAccount)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get wallet balance: %w", err))
	}
	subs, err := s.subRepo.ListActiveByWallet(ctx, dbTx, wallet.ID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list subscriptions: %w", err))
	}
	committed, err := CommittedBalance(subs)
	if err != nil {
		return nil, mathError(err)
	}

	return &ports.WalletView{
		Wallet:        wallet,
		LiquidBalance: liquid,
		Committed:     committed,
		Withdrawable:  vaultmath.SaturatingSub(liquid, committed),
	}, nil
}

// ListLedger returns the most recent movements of the wallet's liquid balance.
func (s *WalletServiceImpl) ListLedger(ctx context.Context, owner, currency string, limit int) ([]domain.LedgerEntry, error) {
	if err := validCurrency(currency); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultLedgerLimit
	}
	if limit > maxLedgerLimit {
		limit = maxLedgerLimit
	}

	wallet, err := s.walletRepo.GetByID(ctx, domain.WalletID(owner, currency))
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get wallet: %w", err))
	}
	if wallet == nil {
		return nil, apperror.ErrNotFound("wallet")
	}
	if !wallet.IsOwnedBy(owner) {
		return nil, apperror.ErrUnauthorizedWalletAccess()
	}

	entries, err := s.funds.ledger.ListByAccount(ctx, wallet.LiquidAccount, limit)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list ledger: %w", err))
	}
	return entries, nil
}
