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
	"github.com/rs/zerolog"
)

// VaultServiceImpl implements ports.VaultService and ports.ShareRedeemer.
//
// Every share-mutating operation locks the wallet, then the vault, reads the
// valuation through the adapter and computes all new totals with checked math
// before the first balance is written.
type VaultServiceImpl struct {
	vaultRepo    ports.VaultRepository
	walletRepo   ports.WalletRepository
	protocolRepo ports.ProtocolConfigRepository
	funds        funds
	adapter      ports.YieldAdapter
	transactor   ports.DBTransactor
	events       ports.EventRecorder
	metrics      ports.LedgerMetrics
	log          zerolog.Logger
	now          func() time.Time
}

// NewVaultService creates a new VaultServiceImpl.
func NewVaultService(
	vaultRepo ports.VaultRepository,
	walletRepo ports.WalletRepository,
	protocolRepo ports.ProtocolConfigRepository,
	balances ports.BalanceRepository,
	ledger ports.LedgerRepository,
	adapter ports.YieldAdapter,
	transactor ports.DBTransactor,
	events ports.EventRecorder,
	metrics ports.LedgerMetrics,
	log zerolog.Logger,
) *VaultServiceImpl {
	return &VaultServiceImpl{
		vaultRepo:    vaultRepo,
		walletRepo:   walletRepo,
		protocolRepo: protocolRepo,
		funds:        funds{balances: balances, ledger: ledger},
		adapter:      adapter,
		transactor:   transactor,
		events:       events,
		metrics:      metricsOrNop(metrics),
		log:          log,
		now:          systemClock,
	}
}

// InitializeVault creates the vault for a currency. Only the protocol authority may do so.
func (s *VaultServiceImpl) InitializeVault(ctx context.Context, req ports.InitializeVaultRequest) (*domain.YieldVault, error) {
	if err := validCurrency(req.Currency); err != nil {
		return nil, err
	}
	if req.TargetBufferBps > domain.MaxTargetBufferBps {
		return nil, apperror.ErrInvalidBufferRatio()
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	cfg, err := s.protocolRepo.GetForUpdate(ctx, dbTx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock protocol config: %w", err))
	}
	if cfg == nil {
		return nil, apperror.ErrProtocolNotInitialized()
	}
	if !cfg.IsAuthority(req.Caller) {
		return nil, apperror.ErrUnauthorizedProtocolUpdate()
	}

	vault := domain.NewYieldVault(req.Currency, req.Caller, s.adapter.Name(), req.TargetBufferBps, s.now())
	if err := s.vaultRepo.Create(ctx, dbTx, vault); err != nil {
		if errors.Is(err, ports.ErrDuplicate) {
			return nil, apperror.ErrAlreadyExists("yield vault")
		}
		return nil, apperror.InternalError(fmt.Errorf("create vault: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("currency", vault.Currency).
		Str("venue", vault.Venue).
		Uint16("target_buffer_bps", vault.TargetBufferBps).
		Msg("yield vault initialized")
	recordEvent(ctx, s.events, s.log, domain.EventYieldVaultInitialized, vault.Currency, vault, s.now())
	s.metrics.ObserveVault(vault.Currency, 0, 0, false)

	return vault, nil
}

// lockWalletAndVault locks the owner's wallet and the currency vault, in that order.
func (s *VaultServiceImpl) lockWalletAndVault(ctx context.Context, tx pgx.Tx, owner, currency string) (*domain.WalletAccount, *domain.YieldVault, error) {
	wallet, err := s.walletRepo.GetByIDForUpdate(ctx, tx, domain.WalletID(owner, currency))
	if err != nil {
		return nil, nil, apperror.InternalError(fmt.Errorf("lock wallet: %w", err))
	}
	if wallet == nil {
		return nil, nil, apperror.ErrNotFound("wallet")
	}
	if !wallet.IsOwnedBy(owner) {
		return nil, nil, apperror.ErrUnauthorizedWalletAccess()
	}

	vault, err := s.lockVault(ctx, tx, currency)
	if err != nil {
		return nil, nil, err
	}
	return wallet, vault, nil
}

func (s *VaultServiceImpl) lockVault(ctx context.Context, tx pgx.Tx, currency string) (*domain.YieldVault, error) {
	vault, err := s.vaultRepo.GetByCurrencyForUpdate(ctx, tx, currency)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock vault: %w", err))
	}
	if vault == nil {
		return nil, apperror.ErrNotFound("yield vault")
	}
	return vault, nil
}

func (s *VaultServiceImpl) liquidBalance(ctx context.Context, tx pgx.Tx, wallet *domain.WalletAccount) (uint64, error) {
	bal, err := s.funds.balances.GetForUpdate(ctx, tx, wallet.LiquidAccount)
	if err != nil {
		return 0, apperror.InternalError(fmt.Errorf("lock wallet balance: %w", err))
	}
	return bal, nil
}

// EnableYield turns yield on for the wallet. The target-buffer slice of amount
// stays liquid in the wallet; the rest moves to the vault buffer and is issued shares.
func (s *VaultServiceImpl) EnableYield(ctx context.Context, req ports.YieldAmountRequest) (*ports.YieldResult, error) {
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

	wallet, vault, err := s.lockWalletAndVault(ctx, dbTx, req.Owner, req.Currency)
	if err != nil {
		return nil, err
	}
	if vault.EmergencyMode {
		return nil, apperror.ErrEmergencyModeEnabled()
	}
	if wallet.YieldEnabled {
		return nil, apperror.ErrYieldAlreadyEnabled()
	}

	liquid, err := s.liquidBalance(ctx, dbTx, wallet)
	if err != nil {
		return nil, err
	}
	if liquid < req.Amount {
		return nil, apperror.ErrInsufficientWalletBalance()
	}

	buffer, yieldPortion, err := vaultmath.SplitBuffer(req.Amount, vault.TargetBufferBps)
	if err != nil {
		return nil, mathError(err)
	}
	if yieldPortion == 0 {
		return nil, apperror.ErrYieldAmountTooSmall()
	}

	shares, valuation, err := s.issue(ctx, dbTx, wallet, vault, yieldPortion, domain.LedgerYieldIn)
	if err != nil {
		return nil, err
	}
	wallet.YieldEnabled = true
	if err := s.persist(ctx, dbTx, wallet, vault); err != nil {
		return nil, err
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("owner", wallet.Owner).
		Str("currency", wallet.Currency).
		Uint64("amount", yieldPortion).
		Uint64("buffer", buffer).
		Uint64("shares", shares).
		Msg("yield enabled")
	recordEvent(ctx, s.events, s.log, domain.EventYieldEnabled, wallet.Owner, domain.YieldEnabledData{
		Owner: wallet.Owner, Currency: wallet.Currency, Amount: yieldPortion, Buffer: buffer, Shares: shares,
	}, s.now())
	s.observe(vault, valuation+yieldPortion)

	return &ports.YieldResult{Wallet: wallet, Amount: yieldPortion, Shares: shares, Buffer: buffer}, nil
}

// DepositToYield adds the whole amount to the vault buffer and issues shares
// against the current valuation. No buffer slice is kept back on top-ups.
func (s *VaultServiceImpl) DepositToYield(ctx context.Context, req ports.YieldAmountRequest) (*ports.YieldResult, error) {
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

	wallet, vault, err := s.lockWalletAndVault(ctx, dbTx, req.Owner, req.Currency)
	if err != nil {
		return nil, err
	}
	if vault.EmergencyMode {
		return nil, apperror.ErrEmergencyModeEnabled()
	}
	if !wallet.YieldEnabled {
		return nil, apperror.ErrYieldNotEnabled()
	}

	liquid, err := s.liquidBalance(ctx, dbTx, wallet)
	if err != nil {
		return nil, err
	}
	if liquid < req.Amount {
		return nil, apperror.ErrInsufficientWalletBalance()
	}

	shares, valuation, err := s.issue(ctx, dbTx, wallet, vault, req.Amount, domain.LedgerYieldIn)
	if err != nil {
		return nil, err
	}
	if err := s.persist(ctx, dbTx, wallet, vault); err != nil {
		return nil, err
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("owner", wallet.Owner).
		Str("currency", wallet.Currency).
		Uint64("amount", req.Amount).
		Uint64("shares", shares).
		Msg("deposited to yield")
	recordEvent(ctx, s.events, s.log, domain.EventYieldDeposit, wallet.Owner, domain.YieldMovementData{
		Owner: wallet.Owner, Currency: wallet.Currency, Amount: req.Amount, Shares: shares,
	}, s.now())
	s.observe(vault, valuation+req.Amount)

	return &ports.YieldResult{Wallet: wallet, Amount: req.Amount, Shares: shares}, nil
}

// issue prices amount against the current valuation, moves it from the wallet
// to the vault buffer and credits the shares to both records in memory.
func (s *VaultServiceImpl) issue(ctx context.Context, tx pgx.Tx, wallet *domain.WalletAccount, vault *domain.YieldVault, amount uint64, kind domain.LedgerEntryKind) (shares, valuation uint64, err error) {
	valuation, err = s.adapter.Valuation(ctx, tx, vault)
	if err != nil {
		return 0, 0, err
	}
	shares, err = vaultmath.SharesForDeposit(amount, vault.TotalShares, valuation)
	if err != nil {
		return 0, 0, mathError(err)
	}
	if shares == 0 {
		return 0, 0, apperror.ErrInvalidShareAmount()
	}

	walletShares, err := vaultmath.Add(wallet.YieldShares, shares)
	if err != nil {
		return 0, 0, mathError(err)
	}
	totalShares, err := vaultmath.Add(vault.TotalShares, shares)
	if err != nil {
		return 0, 0, mathError(err)
	}
	totalDeposited, err := vaultmath.Add(vault.TotalDeposited, amount)
	if err != nil {
		return 0, 0, mathError(err)
	}
	if _, err := vaultmath.Add(valuation, amount); err != nil {
		return 0, 0, mathError(err)
	}

	if err := s.funds.move(ctx, tx, kind, wallet.LiquidAccount, vault.BufferAccount, amount, wallet.ID.String(), s.now()); err != nil {
		return 0, 0, err
	}

	wallet.YieldShares = walletShares
	vault.TotalShares = totalShares
	vault.TotalDeposited = totalDeposited
	return shares, valuation, nil
}

// WithdrawFromYield redeems part of the wallet's shares into its liquid balance.
func (s *VaultServiceImpl) WithdrawFromYield(ctx context.Context, req ports.YieldRedeemRequest) (*ports.YieldResult, error) {
	if req.Shares == 0 {
		return nil, apperror.ErrInvalidShareAmount()
	}
	if err := validCurrency(req.Currency); err != nil {
		return nil, err
	}

	var res *ports.YieldResult
	err := s.withLiquidity(ctx, req.Currency, func() (err error) {
		res, err = s.withdrawFromYield(ctx, req)
		return err
	})
	return res, err
}

func (s *VaultServiceImpl) withdrawFromYield(ctx context.Context, req ports.YieldRedeemRequest) (*ports.YieldResult, error) {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	wallet, vault, err := s.lockWalletAndVault(ctx, dbTx, req.Owner, req.Currency)
	if err != nil {
		return nil, err
	}
	if vault.EmergencyMode {
		return nil, apperror.ErrEmergencyModeEnabled()
	}
	if !wallet.YieldEnabled {
		return nil, apperror.ErrYieldNotEnabled()
	}
	if wallet.YieldShares < req.Shares {
		return nil, apperror.ErrInsufficientShares()
	}

	value, valuation, err := s.redeem(ctx, dbTx, wallet, vault, req.Shares)
	if err != nil {
		return nil, err
	}
	if err := s.persist(ctx, dbTx, wallet, vault); err != nil {
		return nil, err
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("owner", wallet.Owner).
		Str("currency", wallet.Currency).
		Uint64("shares", req.Shares).
		Uint64("amount", value).
		Msg("withdrew from yield")
	recordEvent(ctx, s.events, s.log, domain.EventYieldWithdrawal, wallet.Owner, domain.YieldMovementData{
		Owner: wallet.Owner, Currency: wallet.Currency, Amount: value, Shares: req.Shares,
	}, s.now())
	s.observe(vault, vaultmath.SaturatingSub(valuation, value))

	return &ports.YieldResult{Wallet: wallet, Amount: value, Shares: req.Shares}, nil
}

// DisableYield redeems every share the wallet holds and turns yield off.
func (s *VaultServiceImpl) DisableYield(ctx context.Context, req ports.YieldOwnerRequest) (*ports.YieldResult, error) {
	if err := validCurrency(req.Currency); err != nil {
		return nil, err
	}

	var res *ports.YieldResult
	err := s.withLiquidity(ctx, req.Currency, func() (err error) {
		res, err = s.disableYield(ctx, req)
		return err
	})
	return res, err
}

func (s *VaultServiceImpl) disableYield(ctx context.Context, req ports.YieldOwnerRequest) (*ports.YieldResult, error) {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	wallet, vault, err := s.lockWalletAndVault(ctx, dbTx, req.Owner, req.Currency)
	if err != nil {
		return nil, err
	}
	if vault.EmergencyMode {
		return nil, apperror.ErrEmergencyModeEnabled()
	}
	if !wallet.YieldEnabled {
		return nil, apperror.ErrYieldNotEnabled()
	}
	if wallet.YieldShares == 0 {
		return nil, apperror.ErrNoSharesToRedeem()
	}

	shares := wallet.YieldShares
	value, valuation, err := s.redeem(ctx, dbTx, wallet, vault, shares)
	if err != nil {
		return nil, err
	}
	wallet.YieldEnabled = false
	if err := s.persist(ctx, dbTx, wallet, vault); err != nil {
		return nil, err
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("owner", wallet.Owner).
		Str("currency", wallet.Currency).
		Uint64("shares", shares).
		Uint64("amount", value).
		Msg("yield disabled")
	recordEvent(ctx, s.events, s.log, domain.EventYieldDisabled, wallet.Owner, domain.YieldMovementData{
		Owner: wallet.Owner, Currency: wallet.Currency, Amount: value, Shares: shares,
	}, s.now())
	s.observe(vault, vaultmath.SaturatingSub(valuation, value))

	return &ports.YieldResult{Wallet: wallet, Amount: value, Shares: shares}, nil
}

// redeem values shares at the current valuation (floor) and pays them out.
func (s *VaultServiceImpl) redeem(ctx context.Context, tx pgx.Tx, wallet *domain.WalletAccount, vault *domain.YieldVault, shares uint64) (value, valuation uint64, err error) {
	valuation, err = s.adapter.Valuation(ctx, tx, vault)
	if err != nil {
		return 0, 0, err
	}
	value, err = vaultmath.ValueOfShares(shares, vault.TotalShares, valuation)
	if err != nil {
		return 0, 0, mathError(err)
	}
	if err := s.payout(ctx, tx, wallet, vault, shares, value); err != nil {
		return 0, 0, err
	}
	return value, valuation, nil
}

// payout burns shares and moves amount from the vault buffer into the wallet.
// It never calls the venue: a buffer that cannot cover amount yields a
// *ports.BufferShortError so the caller can roll back and replenish first.
func (s *VaultServiceImpl) payout(ctx context.Context, tx pgx.Tx, wallet *domain.WalletAccount, vault *domain.YieldVault, shares, amount uint64) error {
	walletShares, err := vaultmath.Sub(wallet.YieldShares, shares)
	if err != nil {
		return apperror.ErrInsufficientShares()
	}
	totalShares, err := vaultmath.Sub(vault.TotalShares, shares)
	if err != nil {
		return mathError(err)
	}

	buffer, err := s.adapter.BufferBalance(ctx, tx, vault)
	if err != nil {
		return err
	}
	if buffer < amount {
		return &ports.BufferShortError{Currency: vault.Currency, Required: amount, Available: buffer}
	}

	if err := s.funds.move(ctx, tx, domain.LedgerYieldOut, vault.BufferAccount, wallet.LiquidAccount, amount, wallet.ID.String(), s.now()); err != nil {
		return err
	}

	wallet.YieldShares = walletShares
	vault.TotalShares = totalShares
	vault.TotalDeposited = vaultmath.SaturatingSub(vault.TotalDeposited, amount)
	return nil
}

// RedeemShortfall burns floor(shortfall * totalShares / valuation) shares and
// moves the full shortfall into the wallet. The burned shares may be worth
// slightly less than the shortfall; the difference is reported as dust.
func (s *VaultServiceImpl) RedeemShortfall(ctx context.Context, tx pgx.Tx, wallet *domain.WalletAccount, shortfall uint64, reference string) (*ports.ShortfallRedemption, error) {
	vault, err := s.lockVault(ctx, tx, wallet.Currency)
	if err != nil {
		return nil, err
	}
	if vault.EmergencyMode {
		return nil, apperror.ErrEmergencyModeEnabled()
	}

	valuation, err := s.adapter.Valuation(ctx, tx, vault)
	if err != nil {
		return nil, err
	}
	if valuation == 0 {
		return nil, apperror.ErrInsufficientFunds()
	}
	sharesNeeded, err := vaultmath.SharesForWithdrawal(shortfall, vault.TotalShares, valuation)
	if err != nil {
		return nil, mathError(err)
	}
	if sharesNeeded > wallet.YieldShares {
		return nil, apperror.ErrInsufficientShares()
	}
	sharesValue, err := vaultmath.ValueOfShares(sharesNeeded, vault.TotalShares, valuation)
	if err != nil {
		return nil, mathError(err)
	}

	if err := s.payout(ctx, tx, wallet, vault, sharesNeeded, shortfall); err != nil {
		return nil, err
	}
	if err := s.vaultRepo.Update(ctx, tx, vault); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update vault: %w", err))
	}

	if dust := vaultmath.SaturatingSub(shortfall, sharesValue); dust > 0 {
		s.log.Warn().
			Str("currency", vault.Currency).
			Str("reference", reference).
			Uint64("shortfall", shortfall).
			Uint64("shares_value", sharesValue).
			Uint64("dust", dust).
			Msg("shortfall redemption paid out more than the burned shares were worth")
		s.metrics.ObserveRedemptionDust(vault.Currency, dust)
	}
	s.metrics.ObserveShortfallRedemption(vault.Currency, sharesNeeded, shortfall)
	s.observe(vault, vaultmath.SaturatingSub(valuation, shortfall))

	return &ports.ShortfallRedemption{
		Vault:        vault,
		SharesBurned: sharesNeeded,
		Amount:       shortfall,
		SharesValue:  sharesValue,
	}, nil
}

// Rebalance moves the buffer toward its target. Excess is only placed with the
// venue when it exceeds 1% of valuation.
func (s *VaultServiceImpl) Rebalance(ctx context.Context, req ports.VaultAdminRequest) (*domain.RebalanceResult, error) {
	if err := validCurrency(req.Currency); err != nil {
		return nil, err
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	vault, err := s.lockVault(ctx, dbTx, req.Currency)
	if err != nil {
		return nil, err
	}
	if !vault.IsAuthority(req.Caller) {
		return nil, apperror.ErrUnauthorizedProtocolUpdate()
	}
	if vault.EmergencyMode {
		return nil, apperror.ErrEmergencyModeEnabled()
	}

	valuation, err := s.adapter.Valuation(ctx, dbTx, vault)
	if err != nil {
		return nil, err
	}
	buffer, err := s.adapter.BufferBalance(ctx, dbTx, vault)
	if err != nil {
		return nil, err
	}
	target, err := vaultmath.BpsOf(valuation, vault.TargetBufferBps)
	if err != nil {
		return nil, mathError(err)
	}

	result := PlanRebalance(buffer, target, valuation)
	result.Currency = vault.Currency

	var move *ports.VenueMove
	switch result.Action {
	case domain.RebalanceWithdraw:
		move, err = s.adapter.Withdraw(ctx, dbTx, vault, result.Amount)
	case domain.RebalanceDeposit:
		move, err = s.adapter.Deposit(ctx, dbTx, vault, result.Amount)
	}
	if err != nil {
		return nil, err
	}

	if result.Action == domain.RebalanceNone {
		if err := dbTx.Commit(ctx); err != nil {
			return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
		}
	} else if err := s.settleVenueMove(ctx, dbTx, vault, move); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("currency", vault.Currency).
		Str("action", string(result.Action)).
		Uint64("amount", result.Amount).
		Uint64("buffer", buffer).
		Uint64("target", target).
		Uint64("valuation", valuation).
		Msg("vault rebalanced")
	if result.Action != domain.RebalanceNone {
		recordEvent(ctx, s.events, s.log, domain.EventVaultRebalanced, vault.Currency, result, s.now())
	}
	s.metrics.ObserveRebalance(vault.Currency, result.Action, result.Amount)

	return result, nil
}

// ReplenishBuffer redeems from the venue until the vault buffer holds at least
// minBuffer, in a transaction of its own. The venue movement commits whatever
// the venue paid out, so a later failure of the operation that needed the
// liquidity cannot strand it.
func (s *VaultServiceImpl) ReplenishBuffer(ctx context.Context, currency string, minBuffer uint64) error {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	vault, err := s.lockVault(ctx, dbTx, currency)
	if err != nil {
		return err
	}
	if vault.EmergencyMode {
		return apperror.ErrEmergencyModeEnabled()
	}
	buffer, err := s.adapter.BufferBalance(ctx, dbTx, vault)
	if err != nil {
		return err
	}
	if buffer >= minBuffer {
		return nil
	}

	move, err := s.adapter.Withdraw(ctx, dbTx, vault, minBuffer-buffer)
	if err != nil {
		return err
	}
	if err := s.settleVenueMove(ctx, dbTx, vault, move); err != nil {
		return err
	}

	s.log.Info().
		Str("currency", currency).
		Uint64("buffer_before", buffer).
		Uint64("required", minBuffer).
		Uint64("received", move.Underlying).
		Msg("vault buffer replenished from venue")
	return nil
}

// settleVenueMove persists the vault and commits a transaction that moved
// funds at the venue. If either step fails the venue movement is reversed.
func (s *VaultServiceImpl) settleVenueMove(ctx context.Context, tx pgx.Tx, vault *domain.YieldVault, move *ports.VenueMove) error {
	vault.UpdatedAt = s.now()
	err := s.vaultRepo.Update(ctx, tx, vault)
	if err != nil {
		err = apperror.InternalError(fmt.Errorf("update vault: %w", err))
	} else if cerr := tx.Commit(ctx); cerr != nil {
		err = apperror.InternalError(fmt.Errorf("commit tx: %w", cerr))
	}
	if err == nil {
		return nil
	}
	if rerr := s.adapter.Reverse(context.WithoutCancel(ctx), vault, move); rerr != nil {
		s.log.Error().Err(rerr).
			Str("currency", vault.Currency).
			Msg("venue movement not committed and could not be reversed; reconcile the position account")
	}
	return err
}

// withLiquidity runs op and, when it fails on a short buffer, replenishes the
// buffer from the venue and runs op once more.
func (s *VaultServiceImpl) withLiquidity(ctx context.Context, currency string, op func() error) error {
	err := op()
	var short *ports.BufferShortError
	if !errors.As(err, &short) {
		return err
	}
	if err := s.ReplenishBuffer(ctx, currency, short.Required); err != nil {
		return err
	}
	if err := op(); err != nil {
		if errors.As(err, &short) {
			return apperror.ErrInsufficientLiquidity()
		}
		return err
	}
	return nil
}

// PlanRebalance decides the venue movement for a buffer against its target.
func PlanRebalance(buffer, target, valuation uint64) *domain.RebalanceResult {
	result := &domain.RebalanceResult{
		Action:       domain.RebalanceNone,
		Valuation:    valuation,
		BufferBefore: buffer,
		TargetBuffer: target,
	}
	switch {
	case buffer < target:
		result.Action = domain.RebalanceWithdraw
		result.Amount = target - buffer
	case buffer > target:
		excess := buffer - target
		if excess > valuation/domain.RebalanceHysteresisDivisor {
			result.Action = domain.RebalanceDeposit
			result.Amount = excess
		}
	}
	return result
}

// SetEmergencyMode toggles the vault freeze. Entering emergency records the
// exchange rate at that instant; repeated enables keep the first frozen rate.
func (s *VaultServiceImpl) SetEmergencyMode(ctx context.Context, req ports.EmergencyModeRequest) (*domain.YieldVault, error) {
	if err := validCurrency(req.Currency); err != nil {
		return nil, err
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	vault, err := s.lockVault(ctx, dbTx, req.Currency)
	if err != nil {
		return nil, err
	}
	if !vault.IsAuthority(req.Caller) {
		return nil, apperror.ErrUnauthorizedProtocolUpdate()
	}

	if req.Enabled && !vault.EmergencyMode {
		valuation, err := s.adapter.Valuation(ctx, dbTx, vault)
		if err != nil {
			return nil, err
		}
		rate, err := vaultmath.ExchangeRate(vault.TotalShares, valuation, domain.RatePrecision)
		if err != nil {
			return nil, mathError(err)
		}
		vault.EmergencyRate = rate
	}
	changed := vault.EmergencyMode != req.Enabled
	vault.EmergencyMode = req.Enabled
	vault.UpdatedAt = s.now()

	if err := s.vaultRepo.Update(ctx, dbTx, vault); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update vault: %w", err))
	}
	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Warn().
		Str("currency", vault.Currency).
		Bool("enabled", vault.EmergencyMode).
		Bool("changed", changed).
		Uint64("frozen_rate", vault.EmergencyRate).
		Msg("vault emergency mode set")
	recordEvent(ctx, s.events, s.log, domain.EventEmergencyModeChanged, vault.Currency, domain.EmergencyModeData{
		Currency: vault.Currency, Enabled: vault.EmergencyMode, FrozenRate: vault.EmergencyRate,
	}, s.now())
	s.metrics.ObserveVault(vault.Currency, vault.TotalShares, 0, vault.EmergencyMode)

	return vault, nil
}

// GetVault returns the vault with its current valuation and exchange rate.
// While frozen the quoted rate is the emergency rate.
func (s *VaultServiceImpl) GetVault(ctx context.Context, currency string) (*domain.VaultQuote, error) {
	if err := validCurrency(currency); err != nil {
		return nil, err
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	vault, err := s.lockVault(ctx, dbTx, currency)
	if err != nil {
		return nil, err
	}
	valuation, err := s.adapter.Valuation(ctx, dbTx, vault)
	if err != nil {
		return nil, err
	}
	buffer, err := s.adapter.BufferBalance(ctx, dbTx, vault)
	if err != nil {
		return nil, err
	}

	rate := vault.EmergencyRate
	if !vault.EmergencyMode {
		rate, err = vaultmath.ExchangeRate(vault.TotalShares, valuation, domain.RatePrecision)
		if err != nil {
			return nil, mathError(err)
		}
	}

	return &domain.VaultQuote{
		Vault:        vault,
		Mode:         vault.Mode(),
		Valuation:    valuation,
		Buffer:       buffer,
		ExchangeRate: rate,
	}, nil
}

func (s *VaultServiceImpl) persist(ctx context.Context, tx pgx.Tx, wallet *domain.WalletAccount, vault *domain.YieldVault) error {
	now := s.now()
	wallet.UpdatedAt = now
	vault.UpdatedAt = now
	if err := s.walletRepo.Update(ctx, tx, wallet); err != nil {
		return apperror.InternalError(fmt.Errorf("update wallet: %w", err))
	}
	if err := s.vaultRepo.Update(ctx, tx, vault); err != nil {
		return apperror.InternalError(fmt.Errorf("update vault: %w", err))
	}
	return nil
}

func (s *VaultServiceImpl) observe(vault *domain.YieldVault, valuation uint64) {
	s.metrics.ObserveVault(vault.Currency, vault.TotalShares, valuation, vault.EmergencyMode)
}
