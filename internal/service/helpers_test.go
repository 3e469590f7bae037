package service

import (
	"context"
	"io"
	"testing"
	"time"

	"subscription-ledger/internal/adapter/storage/memory"
	"subscription-ledger/internal/adapter/venue"
	"subscription-ledger/internal/core/domain"
	"subscription-ledger/internal/core/ports"
	"subscription-ledger/pkg/apperror"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testCurrency  = "USDC"
	testAdmin     = "admin"
	testTreasury  = "treasury"
	testMerchant  = "shop"
	testPlanID    = "pro"
	testInterval  = int64(30 * 24 * 3600)
	testFeeBps    = uint16(250)
	testBufferBps = uint16(1000)
)

func newTestLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

// mockTx implements pgx.Tx for testing
type mockTx struct{ pgx.Tx }

func (m *mockTx) Rollback(_ context.Context) error { return nil }
func (m *mockTx) Commit(_ context.Context) error   { return nil }

func assertAppError(t *testing.T, err error, expectedCode string) {
	t.Helper()
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, expectedCode, appErr.Code)
}

// testEngine wires every service over one in-memory store and a buffer-only
// adapter, sharing a controllable clock.
type testEngine struct {
	store    *memory.Store
	balances *memory.BalanceRepo
	ledger   *memory.LedgerRepo
	wallets  *memory.WalletRepo
	vaults   *memory.VaultRepo
	plans    *memory.PlanRepo
	subs     *memory.SubscriptionRepo

	protocol      *ProtocolServiceImpl
	vault         *VaultServiceImpl
	payment       *PaymentServiceImpl
	wallet        *WalletServiceImpl
	subscriptions *SubscriptionServiceImpl
	metrics       *recordingMetrics

	now time.Time
}

func newTestEngine(t *testing.T) *testEngine {
	t.Helper()
	return newTestEngineWith(t, nil)
}

// newTestEngineWith places vault liquidity with v; nil keeps everything in the buffer.
func newTestEngineWith(t *testing.T, v ports.YieldVenue) *testEngine {
	t.Helper()
	store := memory.NewStore()
	e := &testEngine{
		store:    store,
		balances: memory.NewBalanceRepo(store),
		ledger:   memory.NewLedgerRepo(store),
		wallets:  memory.NewWalletRepo(store),
		vaults:   memory.NewVaultRepo(store),
		plans:    memory.NewPlanRepo(store),
		subs:     memory.NewSubscriptionRepo(store),
		metrics:  &recordingMetrics{},
		now:      time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	log := newTestLogger()
	protocolRepo := memory.NewProtocolConfigRepo(store)
	events := NewEventService(memory.NewEventRepo(store), nil, log)
	var adapter ports.YieldAdapter = venue.NewBufferOnly(e.balances)
	if v != nil {
		adapter = venue.NewLending(v, e.balances, e.ledger, log)
	}

	e.protocol = NewProtocolService(protocolRepo, store, events, log)
	e.vault = NewVaultService(e.vaults, e.wallets, protocolRepo, e.balances, e.ledger, adapter, store, events, e.metrics, log)
	e.payment = NewPaymentService(e.subs, e.plans, e.wallets, protocolRepo, e.balances, e.ledger, e.vault, store, events, e.metrics, log)
	e.wallet = NewWalletService(e.wallets, e.subs, e.balances, e.ledger, e.vault, store, events, log)
	e.subscriptions = NewSubscriptionService(e.plans, e.subs, e.wallets, memory.NewSessionTokenRepo(store), nil, e.balances, store, events, log)

	clock := func() time.Time { return e.now }
	e.protocol.now = clock
	e.vault.now = clock
	e.payment.now = clock
	e.wallet.now = clock
	e.subscriptions.now = clock
	return e
}

func (e *testEngine) advance(d time.Duration) { e.now = e.now.Add(d) }

// setup initializes the protocol and the test vault.
func (e *testEngine) setup(t *testing.T, feeBps, bufferBps uint16) {
	t.Helper()
	ctx := context.Background()
	_, err := e.protocol.Initialize(ctx, ports.InitializeProtocolRequest{Caller: testAdmin, Treasury: testTreasury, FeeBps: feeBps})
	require.NoError(t, err)
	_, err = e.vault.InitializeVault(ctx, ports.InitializeVaultRequest{Caller: testAdmin, Currency: testCurrency, TargetBufferBps: bufferBps})
	require.NoError(t, err)
}

// fundWallet creates the owner's wallet and deposits amount into it.
func (e *testEngine) fundWallet(t *testing.T, owner string, amount uint64) {
	t.Helper()
	ctx := context.Background()
	_, err := e.wallet.CreateWallet(ctx, owner, testCurrency)
	require.NoError(t, err)
	if amount > 0 {
		_, err = e.wallet.Deposit(ctx, ports.WalletAmountRequest{Owner: owner, Currency: testCurrency, Amount: amount})
		require.NoError(t, err)
	}
}

// accrue credits amount straight into an account, standing in for venue yield.
func (e *testEngine) accrue(t *testing.T, account string, amount uint64) {
	t.Helper()
	ctx := context.Background()
	tx, err := e.store.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, e.balances.Credit(ctx, tx, account, amount))
	require.NoError(t, tx.Commit(ctx))
}

func (e *testEngine) balance(t *testing.T, account string) uint64 {
	t.Helper()
	bal, err := e.balances.Get(context.Background(), account)
	require.NoError(t, err)
	return bal
}

func (e *testEngine) walletRecord(t *testing.T, owner string) *domain.WalletAccount {
	t.Helper()
	w, err := e.wallets.GetByID(context.Background(), domain.WalletID(owner, testCurrency))
	require.NoError(t, err)
	require.NotNil(t, w)
	return w
}

func (e *testEngine) vaultRecord(t *testing.T) *domain.YieldVault {
	t.Helper()
	v, err := e.vaults.GetByCurrency(context.Background(), testCurrency)
	require.NoError(t, err)
	require.NotNil(t, v)
	return v
}

func (e *testEngine) registerPlan(t *testing.T, fee uint64) *domain.MerchantPlan {
	t.Helper()
	plan, err := e.subscriptions.RegisterPlan(context.Background(), ports.RegisterPlanRequest{
		Merchant:        testMerchant,
		Currency:        testCurrency,
		PlanID:          testPlanID,
		PlanName:        "Pro",
		FeeAmount:       fee,
		PaymentInterval: testInterval,
	})
	require.NoError(t, err)
	return plan
}

func (e *testEngine) subscribe(t *testing.T, user, token string) *domain.Subscription {
	t.Helper()
	sub, err := e.subscriptions.Subscribe(context.Background(), ports.SubscribeRequest{
		User: user, Merchant: testMerchant, Currency: testCurrency, PlanID: testPlanID, SessionToken: token,
	})
	require.NoError(t, err)
	return sub
}

type rebalanceObservation struct {
	action domain.RebalanceAction
	amount uint64
}

// recordingMetrics captures engine observations.
type recordingMetrics struct {
	payments   []string
	dust       []uint64
	shortfalls []uint64
	rebalances []rebalanceObservation
}

func (m *recordingMetrics) ObservePayment(outcome string) { m.payments = append(m.payments, outcome) }
func (m *recordingMetrics) ObserveShortfallRedemption(_ string, shares, _ uint64) {
	m.shortfalls = append(m.shortfalls, shares)
}
func (m *recordingMetrics) ObserveRedemptionDust(_ string, dust uint64) { m.dust = append(m.dust, dust) }
func (m *recordingMetrics) ObserveRebalance(_ string, action domain.RebalanceAction, amount uint64) {
	m.rebalances = append(m.rebalances, rebalanceObservation{action: action, amount: amount})
}
func (m *recordingMetrics) ObserveVault(string, uint64, uint64, bool) {}

// stubVenue mints and redeems position tokens 1:1. shortBy withholds
// underlying on each redeem.
type stubVenue struct {
	redeemErr error
	shortBy   uint64
	supplied  uint64
	redeemed  uint64
}

func (v *stubVenue) Name() string { return "stub" }
func (v *stubVenue) Value(_ context.Context, tokens uint64) (uint64, error) { return tokens, nil }
func (v *stubVenue) PositionFor(_ context.Context, underlying uint64) (uint64, error) {
	return underlying, nil
}
func (v *stubVenue) Supply(_ context.Context, underlying uint64) (uint64, error) {
	v.supplied += underlying
	return underlying, nil
}
func (v *stubVenue) Redeem(_ context.Context, tokens uint64) (uint64, error) {
	if v.redeemErr != nil {
		return 0, v.redeemErr
	}
	v.redeemed += tokens
	return tokens - v.shortBy, nil
}

// held is the position the venue believes the vault holds.
func (v *stubVenue) held() uint64 { return v.supplied - v.redeemed }
