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

// PaymentServiceImpl implements ports.PaymentService.
type PaymentServiceImpl struct {
	subRepo      ports.SubscriptionRepository
	planRepo     ports.PlanRepository
	walletRepo   ports.WalletRepository
	protocolRepo ports.ProtocolConfigRepository
	funds        funds
	redeemer     ports.ShareRedeemer
	transactor   ports.DBTransactor
	events       ports.EventRecorder
	metrics      ports.LedgerMetrics
	log          zerolog.Logger
	now          func() time.Time
}

// NewPaymentService creates a new PaymentServiceImpl.
func NewPaymentService(
	subRepo ports.SubscriptionRepository,
	planRepo ports.PlanRepository,
	walletRepo ports.WalletRepository,
	protocolRepo ports.ProtocolConfigRepository,
	balances ports.BalanceRepository,
	ledger ports.LedgerRepository,
	redeemer ports.ShareRedeemer,
	transactor ports.DBTransactor,
	events ports.EventRecorder,
	metrics ports.LedgerMetrics,
	log zerolog.Logger,
) *PaymentServiceImpl {
	return &PaymentServiceImpl{
		subRepo:      subRepo,
		planRepo:     planRepo,
		walletRepo:   walletRepo,
		protocolRepo: protocolRepo,
		funds:        funds{balances: balances, ledger: ledger},
		redeemer:     redeemer,
		transactor:   transactor,
		events:       events,
		metrics:      metricsOrNop(metrics),
		log:          log,
		now:          systemClock,
	}
}

// ExecutePayment pulls one fee from the subscriber's wallet. When the liquid
// balance is short and the wallet holds shares, the shortfall is redeemed from
// the vault in the same transaction. If the vault buffer cannot cover the
// redemption, the buffer is replenished from the venue and the payment retried once.
func (s *PaymentServiceImpl) ExecutePayment(ctx context.Context, key domain.SubscriptionKey) (result *ports.PaymentResult, err error) {
	defer func() {
		outcome := "success"
		if err != nil {
			outcome = apperror.CodeOf(err)
		}
		s.metrics.ObservePayment(outcome)
	}()

	if err := validCurrency(key.Currency); err != nil {
		return nil, err
	}
	if err := validPrincipal(key.User); err != nil {
		return nil, err
	}
	if err := validPrincipal(key.Merchant); err != nil {
		return nil, err
	}

	result, err = s.executePayment(ctx, key)
	var short *ports.BufferShortError
	if !errors.As(err, &short) {
		return result, err
	}
	if err := s.redeemer.ReplenishBuffer(ctx, short.Currency, short.Required); err != nil {
		return nil, err
	}
	result, err = s.executePayment(ctx, key)
	if errors.As(err, &short) {
		return nil, apperror.ErrInsufficientLiquidity()
	}
	return result, err
}

func (s *PaymentServiceImpl) executePayment(ctx context.Context, key domain.SubscriptionKey) (*ports.PaymentResult, error) {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	now := s.now()

	sub, err := s.subRepo.GetByIDForUpdate(ctx, dbTx, key.ID())
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock subscription: %w", err))
	}
	if sub == nil {
		return nil, apperror.ErrNotFound("subscription")
	}
	if !sub.Active {
		return nil, apperror.ErrSubscriptionInactive()
	}
	if !sub.IsDue(now) {
		return nil, apperror.ErrPaymentTooEarly()
	}

	plan, err := s.planRepo.GetByID(ctx, sub.PlanKey)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get plan: %w", err))
	}
	if plan == nil || plan.Merchant != sub.Merchant {
		return nil, apperror.ErrInvalidMerchantPlan()
	}
	if !plan.Active {
		return nil, apperror.ErrPlanInactive()
	}

	cfg, err := s.protocolRepo.Get(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get protocol config: %w", err))
	}
	if cfg == nil {
		return nil, apperror.ErrProtocolNotInitialized()
	}

	wallet, err := s.walletRepo.GetByIDForUpdate(ctx, dbTx, sub.WalletID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock wallet: %w", err))
	}
	if wallet == nil {
		return nil, apperror.ErrNotFound("wallet")
	}

	fee := sub.FeeAmount
	protocolFee, merchantReceives, err := vaultmath.ProtocolFee(fee, cfg.FeeBps)
	if err != nil {
		return nil, mathError(err)
	}
	totalPaid, err := vaultmath.Add(sub.TotalPaid, fee)
	if err != nil {
		return nil, mathError(err)
	}
	totalSpent, err := vaultmath.Add(wallet.TotalSpent, fee)
	if err != nil {
		return nil, mathError(err)
	}
	if sub.PaymentCount == ^uint32(0) {
		return nil, apperror.ErrMathOverflow(vaultmath.ErrOverflow)
	}

	liquid, err := s.funds.balances.GetForUpdate(ctx, dbTx, wallet.LiquidAccount)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock wallet balance: %w", err))
	}

	result := &ports.PaymentResult{
		Amount:           fee,
		ProtocolFee:      protocolFee,
		MerchantReceived: merchantReceives,
	}

	if liquid < fee && wallet.YieldEnabled && wallet.YieldShares > 0 {
		redemption, err := s.redeemer.RedeemShortfall(ctx, dbTx, wallet, fee-liquid, sub.ID.String())
		if err != nil {
			return nil, err
		}
		result.SharesRedeemed = redemption.SharesBurned
		result.Redeemed = redemption.Amount

		liquid, err = s.funds.balances.GetForUpdate(ctx, dbTx, wallet.LiquidAccount)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("lock wallet balance: %w", err))
		}
	}
	if liquid < fee {
		return nil, apperror.ErrInsufficientFunds()
	}

	ref := sub.ID.String()
	if err := s.funds.move(ctx, dbTx, domain.LedgerMerchantPayment, wallet.LiquidAccount,
		domain.MerchantAccount(sub.Merchant, sub.Currency), merchantReceives, ref, now); err != nil {
		return nil, err
	}
	if err := s.funds.move(ctx, dbTx, domain.LedgerProtocolFee, wallet.LiquidAccount,
		domain.TreasuryAccount(cfg.Treasury, sub.Currency), protocolFee, ref, now); err != nil {
		return nil, err
	}

	sub.LastPaymentAt = now
	sub.TotalPaid = totalPaid
	sub.PaymentCount++
	wallet.TotalSpent = totalSpent
	wallet.UpdatedAt = now

	if err := s.subRepo.Update(ctx, dbTx, sub); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update subscription: %w", err))
	}
	if err := s.walletRepo.Update(ctx, dbTx, wallet); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update wallet: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	result.Subscription = sub

	s.log.Info().
		Str("subscription_id", sub.ID.String()).
		Str("user", sub.User).
		Str("merchant", sub.Merchant).
		Str("currency", sub.Currency).
		Uint64("amount", fee).
		Uint64("protocol_fee", protocolFee).
		Uint64("shares_redeemed", result.SharesRedeemed).
		Uint32("payment_number", sub.PaymentCount).
		Msg("payment executed")
	recordEvent(ctx, s.events, s.log, domain.EventPaymentExecuted, sub.ID.String(), domain.PaymentExecutedData{
		SubscriptionID:   sub.ID,
		User:             sub.User,
		Merchant:         sub.Merchant,
		Currency:         sub.Currency,
		Amount:           fee,
		ProtocolFee:      protocolFee,
		MerchantReceived: merchantReceives,
		PaymentNumber:    sub.PaymentCount,
		SharesRedeemed:   result.SharesRedeemed,
	}, now)

	return result, nil
}

// WithdrawIdle pays out liquid funds not committed to active subscriptions.
func (s *PaymentServiceImpl) WithdrawIdle(ctx context.Context, req ports.WalletAmountRequest) (*ports.WalletView, error) {
	if req.Amount == 0 {
		return nil, apperror.ErrInvalidWithdrawAmount()
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
	subs, err := s.subRepo.ListActiveByWallet(ctx, dbTx, wallet.ID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list subscriptions: %w", err))
	}
	committed, err := CommittedBalance(subs)
	if err != nil {
		return nil, mathError(err)
	}
	withdrawable := vaultmath.SaturatingSub(liquid, committed)
	if req.Amount > withdrawable {
		return nil, apperror.ErrInsufficientAvailableBalance()
	}

	now := s.now()
	if err := s.funds.move(ctx, dbTx, domain.LedgerWalletWithdrawal, wallet.LiquidAccount,
		domain.PayoutAccount(wallet.Owner, wallet.Currency), req.Amount, wallet.ID.String(), now); err != nil {
		return nil, err
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("owner", wallet.Owner).
		Str("currency", wallet.Currency).
		Uint64("amount", req.Amount).
		Uint64("committed", committed).
		Msg("idle funds withdrawn")
	recordEvent(ctx, s.events, s.log, domain.EventWalletWithdrawal, wallet.Owner, domain.WalletMovementData{
		Owner: wallet.Owner, Currency: wallet.Currency, Amount: req.Amount,
	}, now)

	return &ports.WalletView{
		Wallet:        wallet,
		LiquidBalance: liquid - req.Amount,
		Committed:     committed,
		Withdrawable:  withdrawable - req.Amount,
	}, nil
}

// ListDue returns subscriptions whose next payment is due, oldest first,
// resuming after the cursor when one is given.
func (s *PaymentServiceImpl) ListDue(ctx context.Context, after *domain.DueCursor, limit int) ([]domain.Subscription, error) {
	subs, err := s.subRepo.ListDue(ctx, s.now(), after, limit)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list due subscriptions: %w", err))
	}
	return subs, nil
}

// CommittedBalance is the liquid balance reserved by active subscriptions:
// CommitmentPeriods fees each.
func CommittedBalance(subs []domain.Subscription) (uint64, error) {
	var total uint64
	for _, sub := range subs {
		if !sub.Active {
			continue
		}
		reserved, err := vaultmath.Mul(sub.FeeAmount, domain.CommitmentPeriods)
		if err != nil {
			return 0, err
		}
		total, err = vaultmath.Add(total, reserved)
		if err != nil {
			return 0, err
		}
	}
	return total, nil
}
