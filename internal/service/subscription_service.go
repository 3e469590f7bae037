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

// sessionTokenCacheTTL bounds the Redis fast-path marker. The database record
// is permanent and authoritative.
const sessionTokenCacheTTL = 30 * 24 * time.Hour

// SubscriptionServiceImpl implements ports.SubscriptionService.
type SubscriptionServiceImpl struct {
	planRepo   ports.PlanRepository
	subRepo    ports.SubscriptionRepository
	walletRepo ports.WalletRepository
	tokenRepo  ports.SessionTokenRepository
	tokenCache ports.SessionTokenCache
	balances   ports.BalanceRepository
	transactor ports.DBTransactor
	events     ports.EventRecorder
	log        zerolog.Logger
	now        func() time.Time
}

// NewSubscriptionService creates a new SubscriptionServiceImpl.
// tokenCache may be nil when Redis is disabled.
func NewSubscriptionService(
	planRepo ports.PlanRepository,
	subRepo ports.SubscriptionRepository,
	walletRepo ports.WalletRepository,
	tokenRepo ports.SessionTokenRepository,
	tokenCache ports.SessionTokenCache,
	balances ports.BalanceRepository,
	transactor ports.DBTransactor,
	events ports.EventRecorder,
	log zerolog.Logger,
) *SubscriptionServiceImpl {
	return &SubscriptionServiceImpl{
		planRepo:   planRepo,
		subRepo:    subRepo,
		walletRepo: walletRepo,
		tokenRepo:  tokenRepo,
		tokenCache: tokenCache,
		balances:   balances,
		transactor: transactor,
		events:     events,
		log:        log,
		now:        systemClock,
	}
}

// RegisterPlan creates a merchant plan. Fee and interval are fixed for the plan's lifetime.
func (s *SubscriptionServiceImpl) RegisterPlan(ctx context.Context, req ports.RegisterPlanRequest) (*domain.MerchantPlan, error) {
	if err := validPrincipal(req.Merchant); err != nil {
		return nil, err
	}
	if err := validCurrency(req.Currency); err != nil {
		return nil, err
	}
	if req.PlanID == "" {
		return nil, apperror.Validation("plan_id is required")
	}
	if len(req.PlanID) > domain.MaxPlanIDLen {
		return nil, apperror.ErrPlanIDTooLong()
	}
	if len(req.PlanName) > domain.MaxPlanNameLen {
		return nil, apperror.ErrPlanNameTooLong()
	}
	if req.FeeAmount == 0 {
		return nil, apperror.ErrInvalidFeeAmount()
	}
	if req.PaymentInterval <= 0 {
		return nil, apperror.ErrInvalidInterval()
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	now := s.now()
	plan := &domain.MerchantPlan{
		ID:              domain.PlanKey(req.Merchant, req.Currency, req.PlanID),
		Merchant:        req.Merchant,
		Currency:        req.Currency,
		PlanID:          req.PlanID,
		PlanName:        req.PlanName,
		FeeAmount:       req.FeeAmount,
		PaymentInterval: req.PaymentInterval,
		Active:          true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.planRepo.Create(ctx, dbTx, plan); err != nil {
		if errors.Is(err, ports.ErrDuplicate) {
			return nil, apperror.ErrAlreadyExists("merchant plan")
		}
		return nil, storageError("create plan", err)
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("merchant", plan.Merchant).
		Str("currency", plan.Currency).
		Str("plan_id", plan.PlanID).
		Uint64("fee_amount", plan.FeeAmount).
		Int64("interval", plan.PaymentInterval).
		Msg("merchant plan registered")
	recordEvent(ctx, s.events, s.log, domain.EventMerchantPlanRegistered, plan.Merchant, plan, now)

	return plan, nil
}

// DeactivatePlan stops new subscriptions and payments against a plan.
func (s *SubscriptionServiceImpl) DeactivatePlan(ctx context.Context, req ports.DeactivatePlanRequest) (*domain.MerchantPlan, error) {
	if err := validCurrency(req.Currency); err != nil {
		return nil, err
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	plan, err := s.planRepo.GetByIDForUpdate(ctx, dbTx, domain.PlanKey(req.Merchant, req.Currency, req.PlanID))
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock plan: %w", err))
	}
	if plan == nil {
		return nil, apperror.ErrNotFound("merchant plan")
	}
	if plan.Merchant != req.Merchant {
		return nil, apperror.ErrUnauthorizedPlanUpdate()
	}

	plan.Active = false
	plan.UpdatedAt = s.now()
	if err := s.planRepo.Update(ctx, dbTx, plan); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update plan: %w", err))
	}
	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().Str("merchant", plan.Merchant).Str("plan_id", plan.PlanID).Msg("merchant plan deactivated")
	recordEvent(ctx, s.events, s.log, domain.EventMerchantPlanDeactivated, plan.Merchant, plan, plan.UpdatedAt)

	return plan, nil
}

// Subscribe links the user's wallet to a plan, consuming the session token.
// The wallet's liquid balance must already cover every existing commitment
// plus CommitmentPeriods fees of the new plan.
func (s *SubscriptionServiceImpl) Subscribe(ctx context.Context, req ports.SubscribeRequest) (*domain.Subscription, error) {
	if err := validPrincipal(req.User); err != nil {
		return nil, err
	}
	if err := validPrincipal(req.Merchant); err != nil {
		return nil, err
	}
	if err := validCurrency(req.Currency); err != nil {
		return nil, err
	}
	if req.SessionToken == "" {
		return nil, apperror.ErrSessionTokenRequired()
	}
	if len(req.SessionToken) > domain.MaxSessionTokenLen {
		return nil, apperror.ErrSessionTokenTooLong()
	}

	if s.tokenCache != nil {
		used, err := s.tokenCache.IsUsed(ctx, req.SessionToken)
		if err != nil {
			s.log.Warn().Err(err).Msg("redis session token check failed, falling through to DB")
		}
		if used {
			return nil, apperror.ErrSessionTokenAlreadyUsed()
		}
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	// A replayed token is rejected before any other state is consulted.
	rec, err := s.tokenRepo.Get(ctx, dbTx, req.SessionToken)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get session token: %w", err))
	}
	if rec != nil {
		return nil, apperror.ErrSessionTokenAlreadyUsed()
	}

	key := domain.SubscriptionKey{User: req.User, Merchant: req.Merchant, Currency: req.Currency}
	existing, err := s.subRepo.GetByIDForUpdate(ctx, dbTx, key.ID())
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock subscription: %w", err))
	}
	if existing != nil {
		return nil, apperror.ErrAlreadyExists("subscription")
	}

	plan, err := s.planRepo.GetByIDForUpdate(ctx, dbTx, domain.PlanKey(req.Merchant, req.Currency, req.PlanID))
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock plan: %w", err))
	}
	if plan == nil {
		return nil, apperror.ErrInvalidMerchantPlan()
	}
	if !plan.Active {
		return nil, apperror.ErrPlanInactive()
	}

	wallet, err := s.walletRepo.GetByIDForUpdate(ctx, dbTx, domain.WalletID(req.User, req.Currency))
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock wallet: %w", err))
	}
	if wallet == nil {
		return nil, apperror.ErrNotFound("wallet")
	}
	if !wallet.IsOwnedBy(req.User) {
		return nil, apperror.ErrUnauthorizedWalletAccess()
	}

	liquid, err := s.balances.GetForUpdate(ctx, dbTx, wallet.LiquidAccount)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock wallet balance: %w", err))
	}
	active, err := s.subRepo.ListActiveByWallet(ctx, dbTx, wallet.ID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list subscriptions: %w", err))
	}
	committed, err := CommittedBalance(active)
	if err != nil {
		return nil, mathError(err)
	}
	reserve, err := vaultmath.Mul(plan.FeeAmount, domain.CommitmentPeriods)
	if err != nil {
		return nil, mathError(err)
	}
	required, err := vaultmath.Add(committed, reserve)
	if err != nil {
		return nil, mathError(err)
	}
	if liquid < required {
		return nil, apperror.ErrInsufficientWalletBalance()
	}
	if wallet.TotalSubscriptions == ^uint32(0) || plan.TotalSubscribers == ^uint32(0) {
		return nil, apperror.ErrMathOverflow(vaultmath.ErrOverflow)
	}

	now := s.now()
	sub := &domain.Subscription{
		ID:              key.ID(),
		User:            req.User,
		WalletID:        wallet.ID,
		PlanKey:         plan.ID,
		Merchant:        plan.Merchant,
		Currency:        plan.Currency,
		FeeAmount:       plan.FeeAmount,
		PaymentInterval: plan.PaymentInterval,
		LastPaymentAt:   now,
		Active:          true,
		SessionToken:    req.SessionToken,
		CreatedAt:       now,
	}
	if err := s.subRepo.Create(ctx, dbTx, sub); err != nil {
		if errors.Is(err, ports.ErrDuplicate) {
			return nil, apperror.ErrAlreadyExists("subscription")
		}
		return nil, storageError("create subscription", err)
	}
	if err := s.tokenRepo.Create(ctx, dbTx, &domain.SessionTokenRecord{
		Token:          req.SessionToken,
		User:           req.User,
		SubscriptionID: sub.ID,
		Used:           true,
		CreatedAt:      now,
	}); err != nil {
		if errors.Is(err, ports.ErrDuplicate) {
			return nil, apperror.ErrSessionTokenAlreadyUsed()
		}
		return nil, apperror.InternalError(fmt.Errorf("create session token: %w", err))
	}

	wallet.TotalSubscriptions++
	wallet.UpdatedAt = now
	plan.TotalSubscribers++
	plan.UpdatedAt = now
	if err := s.walletRepo.Update(ctx, dbTx, wallet); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update wallet: %w", err))
	}
	if err := s.planRepo.Update(ctx, dbTx, plan); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update plan: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	if s.tokenCache != nil {
		if err := s.tokenCache.MarkUsed(ctx, req.SessionToken, sessionTokenCacheTTL); err != nil {
			s.log.Warn().Err(err).Msg("failed to cache used session token")
		}
	}

	s.log.Info().
		Str("subscription_id", sub.ID.String()).
		Str("user", sub.User).
		Str("merchant", sub.Merchant).
		Str("plan_id", plan.PlanID).
		Msg("subscription created")
	recordEvent(ctx, s.events, s.log, domain.EventSubscriptionCreated, sub.ID.String(), sub, now)

	return sub, nil
}

// Cancel ends the caller's subscription and removes its record.
func (s *SubscriptionServiceImpl) Cancel(ctx context.Context, req ports.CancelRequest) error {
	if err := validCurrency(req.Currency); err != nil {
		return err
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	key := domain.SubscriptionKey{User: req.User, Merchant: req.Merchant, Currency: req.Currency}
	sub, err := s.subRepo.GetByIDForUpdate(ctx, dbTx, key.ID())
	if err != nil {
		return apperror.InternalError(fmt.Errorf("lock subscription: %w", err))
	}
	if sub == nil {
		return apperror.ErrNotFound("subscription")
	}
	if sub.User != req.User {
		return apperror.ErrUnauthorizedCancellation()
	}
	if !sub.Active {
		return apperror.ErrSubscriptionInactive()
	}

	now := s.now()
	plan, err := s.planRepo.GetByIDForUpdate(ctx, dbTx, sub.PlanKey)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("lock plan: %w", err))
	}
	wallet, err := s.walletRepo.GetByIDForUpdate(ctx, dbTx, sub.WalletID)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("lock wallet: %w", err))
	}

	if err := s.subRepo.Delete(ctx, dbTx, sub.ID); err != nil {
		return apperror.InternalError(fmt.Errorf("delete subscription: %w", err))
	}
	if plan != nil {
		if plan.TotalSubscribers > 0 {
			plan.TotalSubscribers--
		}
		plan.UpdatedAt = now
		if err := s.planRepo.Update(ctx, dbTx, plan); err != nil {
			return apperror.InternalError(fmt.Errorf("update plan: %w", err))
		}
	}
	if wallet != nil {
		if wallet.TotalSubscriptions > 0 {
			wallet.TotalSubscriptions--
		}
		wallet.UpdatedAt = now
		if err := s.walletRepo.Update(ctx, dbTx, wallet); err != nil {
			return apperror.InternalError(fmt.Errorf("update wallet: %w", err))
		}
	}

	if err := dbTx.Commit(ctx); err != nil {
		return apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("subscription_id", sub.ID.String()).
		Str("user", sub.User).
		Str("merchant", sub.Merchant).
		Uint32("payments_made", sub.PaymentCount).
		Msg("subscription cancelled")
	sub.Active = false
	recordEvent(ctx, s.events, s.log, domain.EventSubscriptionCancelled, sub.ID.String(), sub, now)

	return nil
}

// GetSubscription returns the subscription at key.
func (s *SubscriptionServiceImpl) GetSubscription(ctx context.Context, key domain.SubscriptionKey) (*domain.Subscription, error) {
	if err := validCurrency(key.Currency); err != nil {
		return nil, err
	}
	sub, err := s.subRepo.GetByID(ctx, key.ID())
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get subscription: %w", err))
	}
	if sub == nil {
		return nil, apperror.ErrNotFound("subscription")
	}
	return sub, nil
}
