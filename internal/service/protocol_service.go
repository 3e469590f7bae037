package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"subscription-ledger/internal/core/domain"
	"subscription-ledger/internal/core/ports"
	"subscription-ledger/pkg/apperror"

	"github.com/rs/zerolog"
)

// ProtocolServiceImpl implements ports.ProtocolService.
type ProtocolServiceImpl struct {
	repo       ports.ProtocolConfigRepository
	transactor ports.DBTransactor
	events     ports.EventRecorder
	log        zerolog.Logger
	now        func() time.Time
}

// NewProtocolService creates a new ProtocolServiceImpl.
func NewProtocolService(repo ports.ProtocolConfigRepository, transactor ports.DBTransactor, events ports.EventRecorder, log zerolog.Logger) *ProtocolServiceImpl {
	return &ProtocolServiceImpl{
		repo:       repo,
		transactor: transactor,
		events:     events,
		log:        log,
		now:        systemClock,
	}
}

// Initialize creates the protocol singleton. The caller becomes its authority.
func (s *ProtocolServiceImpl) Initialize(ctx context.Context, req ports.InitializeProtocolRequest) (*domain.ProtocolConfig, error) {
	if err := validPrincipal(req.Caller); err != nil {
		return nil, err
	}
	if err := validPrincipal(req.Treasury); err != nil {
		return nil, err
	}
	if req.FeeBps > domain.MaxProtocolFeeBps {
		return nil, apperror.ErrFeeTooHigh()
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	now := s.now()
	cfg := &domain.ProtocolConfig{
		ID:        domain.ProtocolConfigID(),
		Authority: req.Caller,
		Treasury:  req.Treasury,
		FeeBps:    req.FeeBps,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, dbTx, cfg); err != nil {
		if errors.Is(err, ports.ErrDuplicate) {
			return nil, apperror.ErrAlreadyExists("protocol config")
		}
		return nil, apperror.InternalError(fmt.Errorf("create protocol config: %w", err))
	}
	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("authority", cfg.Authority).
		Str("treasury", cfg.Treasury).
		Uint16("fee_bps", cfg.FeeBps).
		Msg("protocol initialized")
	recordEvent(ctx, s.events, s.log, domain.EventProtocolInitialized, cfg.Authority, cfg, now)

	return cfg, nil
}

// UpdateFee changes the protocol fee. Only the authority may call it.
func (s *ProtocolServiceImpl) UpdateFee(ctx context.Context, req ports.UpdateProtocolFeeRequest) (*domain.ProtocolConfig, error) {
	if req.FeeBps > domain.MaxProtocolFeeBps {
		return nil, apperror.ErrFeeTooHigh()
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	cfg, err := s.repo.GetForUpdate(ctx, dbTx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock protocol config: %w", err))
	}
	if cfg == nil {
		return nil, apperror.ErrProtocolNotInitialized()
	}
	if !cfg.IsAuthority(req.Caller) {
		return nil, apperror.ErrUnauthorizedProtocolUpdate()
	}

	previous := cfg.FeeBps
	cfg.FeeBps = req.FeeBps
	cfg.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, dbTx, cfg); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update protocol config: %w", err))
	}
	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().Uint16("previous_bps", previous).Uint16("fee_bps", cfg.FeeBps).Msg("protocol fee updated")
	recordEvent(ctx, s.events, s.log, domain.EventProtocolFeeUpdated, cfg.Authority, cfg, cfg.UpdatedAt)

	return cfg, nil
}

// Get returns the protocol singleton.
func (s *ProtocolServiceImpl) Get(ctx context.Context) (*domain.ProtocolConfig, error) {
	cfg, err := s.repo.Get(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get protocol config: %w", err))
	}
	if cfg == nil {
		return nil, apperror.ErrProtocolNotInitialized()
	}
	return cfg, nil
}
