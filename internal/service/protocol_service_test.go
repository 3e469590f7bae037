package service

import (
	"context"
	"fmt"
	"testing"

	"subscription-ledger/internal/core/domain"
	"subscription-ledger/internal/core/ports"
	"subscription-ledger/internal/core/ports/mocks"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type protocolTestDeps struct {
	svc        *ProtocolServiceImpl
	repo       *mocks.MockProtocolConfigRepository
	events     *mocks.MockEventRecorder
	transactor *mocks.MockDBTransactor
	ctrl       *gomock.Controller
}

func setupProtocolService(t *testing.T) *protocolTestDeps {
	ctrl := gomock.NewController(t)
	d := &protocolTestDeps{
		repo:       mocks.NewMockProtocolConfigRepository(ctrl),
		events:     mocks.NewMockEventRecorder(ctrl),
		transactor: mocks.NewMockDBTransactor(ctrl),
		ctrl:       ctrl,
	}
	d.svc = NewProtocolService(d.repo, d.transactor, d.events, newTestLogger())
	return d
}

func TestProtocolService_Initialize_Success(t *testing.T) {
	d := setupProtocolService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.repo.EXPECT().Create(ctx, tx, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ pgx.Tx, cfg *domain.ProtocolConfig) error {
			assert.Equal(t, domain.ProtocolConfigID(), cfg.ID)
			return nil
		},
	)
	d.events.EXPECT().Record(ctx, gomock.Any()).Do(func(_ context.Context, evt *domain.Event) {
		assert.Equal(t, domain.EventProtocolInitialized, evt.Type)
	})

	cfg, err := d.svc.Initialize(ctx, ports.InitializeProtocolRequest{Caller: testAdmin, Treasury: testTreasury, FeeBps: 1000})
	require.NoError(t, err)
	assert.Equal(t, testAdmin, cfg.Authority)
	assert.Equal(t, testTreasury, cfg.Treasury)
	assert.Equal(t, uint16(1000), cfg.FeeBps)
}

func TestProtocolService_Initialize_FeeTooHigh(t *testing.T) {
	d := setupProtocolService(t)
	defer d.ctrl.Finish()

	_, err := d.svc.Initialize(context.Background(), ports.InitializeProtocolRequest{Caller: testAdmin, Treasury: testTreasury, FeeBps: 1001})
	assertAppError(t, err, "VAL_009")
}

func TestProtocolService_Initialize_AlreadyInitialized(t *testing.T) {
	d := setupProtocolService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.repo.EXPECT().Create(ctx, tx, gomock.Any()).Return(fmt.Errorf("insert protocol config: %w", ports.ErrDuplicate))

	_, err := d.svc.Initialize(ctx, ports.InitializeProtocolRequest{Caller: testAdmin, Treasury: testTreasury, FeeBps: 100})
	assertAppError(t, err, "STATE_002")
}

func TestProtocolService_UpdateFee(t *testing.T) {
	existing := func() *domain.ProtocolConfig {
		return &domain.ProtocolConfig{ID: domain.ProtocolConfigID(), Authority: testAdmin, Treasury: testTreasury, FeeBps: 100}
	}

	t.Run("authority updates fee", func(t *testing.T) {
		d := setupProtocolService(t)
		defer d.ctrl.Finish()
		ctx := context.Background()
		tx := &mockTx{}
		cfg := existing()

		d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
		d.repo.EXPECT().GetForUpdate(ctx, tx).Return(cfg, nil)
		d.repo.EXPECT().Update(ctx, tx, cfg).Return(nil)
		d.events.EXPECT().Record(ctx, gomock.Any())

		got, err := d.svc.UpdateFee(ctx, ports.UpdateProtocolFeeRequest{Caller: testAdmin, FeeBps: 1000})
		require.NoError(t, err)
		assert.Equal(t, uint16(1000), got.FeeBps)
	})

	t.Run("non-authority rejected", func(t *testing.T) {
		d := setupProtocolService(t)
		defer d.ctrl.Finish()
		ctx := context.Background()
		tx := &mockTx{}

		d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
		d.repo.EXPECT().GetForUpdate(ctx, tx).Return(existing(), nil)

		_, err := d.svc.UpdateFee(ctx, ports.UpdateProtocolFeeRequest{Caller: "mallory", FeeBps: 10})
		assertAppError(t, err, "AUTH_003")
	})

	t.Run("not initialized", func(t *testing.T) {
		d := setupProtocolService(t)
		defer d.ctrl.Finish()
		ctx := context.Background()
		tx := &mockTx{}

		d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
		d.repo.EXPECT().GetForUpdate(ctx, tx).Return(nil, nil)

		_, err := d.svc.UpdateFee(ctx, ports.UpdateProtocolFeeRequest{Caller: testAdmin, FeeBps: 10})
		assertAppError(t, err, "STATE_012")
	})

	t.Run("fee above cap", func(t *testing.T) {
		d := setupProtocolService(t)
		defer d.ctrl.Finish()

		_, err := d.svc.UpdateFee(context.Background(), ports.UpdateProtocolFeeRequest{Caller: testAdmin, FeeBps: 1001})
		assertAppError(t, err, "VAL_009")
	})
}

func TestProtocolService_Get(t *testing.T) {
	d := setupProtocolService(t)
	defer d.ctrl.Finish()
	ctx := context.Background()

	d.repo.EXPECT().Get(ctx).Return(nil, nil)
	_, err := d.svc.Get(ctx)
	assertAppError(t, err, "STATE_012")

	d.repo.EXPECT().Get(ctx).Return(nil, assert.AnError)
	_, err = d.svc.Get(ctx)
	assertAppError(t, err, "SYS_001")
}
