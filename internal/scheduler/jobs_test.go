package scheduler

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"subscription-ledger/config"
	"subscription-ledger/internal/core/domain"
	"subscription-ledger/internal/core/ports"
	"subscription-ledger/internal/core/ports/mocks"
	"subscription-ledger/pkg/apperror"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fakeJobMetrics struct {
	counts map[string]int
}

func (f *fakeJobMetrics) ObserveJob(job, outcome string, n int) {
	if f.counts == nil {
		f.counts = make(map[string]int)
	}
	f.counts[job+"/"+outcome] += n
}

type fakeEventRecorder struct {
	mu     sync.Mutex
	events []*domain.Event
}

func (f *fakeEventRecorder) Record(_ context.Context, evt *domain.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, evt)
}

func (f *fakeEventRecorder) ofType(typ domain.EventType) []*domain.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Event
	for _, e := range f.events {
		if e.Type == typ {
			out = append(out, e)
		}
	}
	return out
}

type jobsFixture struct {
	payments *mocks.MockPaymentService
	vaults   *mocks.MockVaultService
	lister   *mocks.MockVaultRepository
	lock     *mocks.MockJobLock
	metrics  *fakeJobMetrics
	events   *fakeEventRecorder
	jobs     *Jobs
}

func setupJobs(t *testing.T, withLock bool) *jobsFixture {
	ctrl := gomock.NewController(t)
	f := &jobsFixture{
		payments: mocks.NewMockPaymentService(ctrl),
		vaults:   mocks.NewMockVaultService(ctrl),
		lister:   mocks.NewMockVaultRepository(ctrl),
		lock:     mocks.NewMockJobLock(ctrl),
		metrics:  &fakeJobMetrics{},
		events:   &fakeEventRecorder{},
	}
	cfg := config.SchedulerConfig{BatchSize: 2, LockTTL: 55 * time.Second}
	var lock ports.JobLock
	if withLock {
		lock = f.lock
	}
	f.jobs = NewJobs(f.payments, f.vaults, f.lister, f.events, lock, f.metrics, cfg, zerolog.Nop())
	return f
}

func dueSubscription(user string) domain.Subscription {
	return domain.Subscription{
		ID:        domain.SubscriptionID(user, "shop", "USDC"),
		User:      user,
		Merchant:  "shop",
		Currency:  "USDC",
		FeeAmount: 80,
		Active:    true,
	}
}

func cursorOf(sub domain.Subscription) *domain.DueCursor {
	c := sub.Cursor()
	return &c
}

func TestRunPayments_AttemptsEachDueSubscriptionOnce(t *testing.T) {
	f := setupJobs(t, false)
	alice := dueSubscription("alice")
	bob := dueSubscription("bob")

	gomock.InOrder(
		f.payments.EXPECT().ListDue(gomock.Any(), nil, 2).Return([]domain.Subscription{alice, bob}, nil),
		f.payments.EXPECT().ExecutePayment(gomock.Any(), alice.Key()).
			Return(&ports.PaymentResult{Amount: 80}, nil),
		f.payments.EXPECT().ExecutePayment(gomock.Any(), bob.Key()).
			Return(nil, apperror.ErrInsufficientFunds()),
		// A stale listing that repeats bob does not retry him.
		f.payments.EXPECT().ListDue(gomock.Any(), cursorOf(bob), 2).Return([]domain.Subscription{bob}, nil),
	)

	stats := f.jobs.RunPayments(context.Background())

	assert.Equal(t, RunStats{Attempted: 2, Succeeded: 1, Failed: 1}, stats)
	assert.Equal(t, 1, f.metrics.counts["payments/success"])
	assert.Equal(t, 1, f.metrics.counts["payments/failure"])
}

func TestRunPayments_PagesThroughFullBatches(t *testing.T) {
	f := setupJobs(t, false)
	a, b, c := dueSubscription("a"), dueSubscription("b"), dueSubscription("c")

	gomock.InOrder(
		f.payments.EXPECT().ListDue(gomock.Any(), nil, 2).Return([]domain.Subscription{a, b}, nil),
		f.payments.EXPECT().ExecutePayment(gomock.Any(), a.Key()).Return(&ports.PaymentResult{}, nil),
		f.payments.EXPECT().ExecutePayment(gomock.Any(), b.Key()).Return(&ports.PaymentResult{}, nil),
		f.payments.EXPECT().ListDue(gomock.Any(), cursorOf(b), 2).Return([]domain.Subscription{c}, nil),
		f.payments.EXPECT().ExecutePayment(gomock.Any(), c.Key()).Return(&ports.PaymentResult{}, nil),
	)

	stats := f.jobs.RunPayments(context.Background())
	assert.Equal(t, 3, stats.Succeeded)
}

func TestRunPayments_FailingBatchDoesNotStarveLaterRows(t *testing.T) {
	f := setupJobs(t, false)
	broke1, broke2 := dueSubscription("broke1"), dueSubscription("broke2")
	healthy := dueSubscription("healthy")

	gomock.InOrder(
		f.payments.EXPECT().ListDue(gomock.Any(), nil, 2).Return([]domain.Subscription{broke1, broke2}, nil),
		f.payments.EXPECT().ExecutePayment(gomock.Any(), broke1.Key()).Return(nil, apperror.ErrInsufficientFunds()),
		f.payments.EXPECT().ExecutePayment(gomock.Any(), broke2.Key()).Return(nil, apperror.ErrInsufficientFunds()),
		f.payments.EXPECT().ListDue(gomock.Any(), cursorOf(broke2), 2).Return([]domain.Subscription{healthy}, nil),
		f.payments.EXPECT().ExecutePayment(gomock.Any(), healthy.Key()).Return(&ports.PaymentResult{Amount: 80}, nil),
	)

	stats := f.jobs.RunPayments(context.Background())
	assert.Equal(t, RunStats{Attempted: 3, Succeeded: 1, Failed: 2}, stats)
}

func TestRunPayments_FailureEmitsPaymentFailedEvent(t *testing.T) {
	f := setupJobs(t, false)
	broke := dueSubscription("broke")

	gomock.InOrder(
		f.payments.EXPECT().ListDue(gomock.Any(), nil, 2).Return([]domain.Subscription{broke}, nil),
		f.payments.EXPECT().ExecutePayment(gomock.Any(), broke.Key()).Return(nil, apperror.ErrInsufficientFunds()),
	)

	f.jobs.RunPayments(context.Background())

	failed := f.events.ofType(domain.EventPaymentFailed)
	require.Len(t, failed, 1)
	assert.Equal(t, broke.ID.String(), failed[0].Subject)

	var data domain.PaymentFailedData
	require.NoError(t, json.Unmarshal(failed[0].Data, &data))
	assert.Equal(t, "shop", data.Merchant)
	assert.Equal(t, "broke", data.User)
	assert.Equal(t, uint64(80), data.Amount)
	assert.Equal(t, apperror.CodeOf(apperror.ErrInsufficientFunds()), data.ErrorCode)
}

func TestRunPayments_ListError(t *testing.T) {
	f := setupJobs(t, false)
	f.payments.EXPECT().ListDue(gomock.Any(), nil, 2).Return(nil, errors.New("db down"))

	stats := f.jobs.RunPayments(context.Background())
	assert.Equal(t, RunStats{}, stats)
}

func TestRunPayments_LockHeldElsewhere(t *testing.T) {
	f := setupJobs(t, true)
	f.lock.EXPECT().TryLock(gomock.Any(), paymentJob, 55*time.Second).Return(false, nil)

	stats := f.jobs.RunPayments(context.Background())
	assert.True(t, stats.Skipped)
	assert.False(t, f.jobs.paymentRunning.Load())
}

func TestRunPayments_LockError(t *testing.T) {
	f := setupJobs(t, true)
	f.lock.EXPECT().TryLock(gomock.Any(), paymentJob, gomock.Any()).Return(false, errors.New("redis down"))

	stats := f.jobs.RunPayments(context.Background())
	assert.True(t, stats.Skipped)
}

func TestRunPayments_ReleasesLock(t *testing.T) {
	f := setupJobs(t, true)
	gomock.InOrder(
		f.lock.EXPECT().TryLock(gomock.Any(), paymentJob, gomock.Any()).Return(true, nil),
		f.payments.EXPECT().ListDue(gomock.Any(), nil, 2).Return(nil, nil),
		f.lock.EXPECT().Unlock(gomock.Any(), paymentJob).Return(nil),
	)

	stats := f.jobs.RunPayments(context.Background())
	assert.False(t, stats.Skipped)
	assert.False(t, f.jobs.paymentRunning.Load())
}

func TestRunPayments_SkipsOverlappingRun(t *testing.T) {
	f := setupJobs(t, false)
	f.jobs.paymentRunning.Store(true)

	stats := f.jobs.RunPayments(context.Background())
	assert.True(t, stats.Skipped)
}

func TestRunRebalance_SkipsEmergencyVaults(t *testing.T) {
	f := setupJobs(t, false)
	now := time.Now()
	usdc := domain.NewYieldVault("USDC", "admin", "reserve-ratio", 1000, now)
	eurc := domain.NewYieldVault("EURC", "admin", "reserve-ratio", 1000, now)
	eurc.EmergencyMode = true
	gbpc := domain.NewYieldVault("GBPC", "ops", "reserve-ratio", 1000, now)

	f.lister.EXPECT().List(gomock.Any()).Return([]domain.YieldVault{*eurc, *gbpc, *usdc}, nil)
	f.vaults.EXPECT().Rebalance(gomock.Any(), ports.VaultAdminRequest{Caller: "ops", Currency: "GBPC"}).
		Return(nil, apperror.ErrVenueQueryFailed(errors.New("timeout")))
	f.vaults.EXPECT().Rebalance(gomock.Any(), ports.VaultAdminRequest{Caller: "admin", Currency: "USDC"}).
		Return(&domain.RebalanceResult{Currency: "USDC", Action: domain.RebalanceDeposit, Amount: 400}, nil)

	stats := f.jobs.RunRebalance(context.Background())

	assert.Equal(t, RunStats{Attempted: 2, Succeeded: 1, Failed: 1}, stats)
	assert.Equal(t, 1, f.metrics.counts["rebalance/success"])
	assert.Equal(t, 1, f.metrics.counts["rebalance/failure"])
}

func TestRunRebalance_ListError(t *testing.T) {
	f := setupJobs(t, false)
	f.lister.EXPECT().List(gomock.Any()).Return(nil, errors.New("db down"))

	stats := f.jobs.RunRebalance(context.Background())
	assert.Equal(t, RunStats{}, stats)
	assert.False(t, f.jobs.rebalanceRunning.Load())
}

func TestScheduler_StartStop(t *testing.T) {
	f := setupJobs(t, false)
	s := NewScheduler(f.jobs, zerolog.Nop(), config.SchedulerConfig{
		PaymentSchedule:   "@every 1h",
		RebalanceSchedule: "@every 1h",
		BatchSize:         2,
	})
	require.NoError(t, s.Start())
	<-s.Stop().Done()
}

func TestScheduler_InvalidSchedule(t *testing.T) {
	f := setupJobs(t, false)
	s := NewScheduler(f.jobs, zerolog.Nop(), config.SchedulerConfig{
		PaymentSchedule:   "every now and then",
		RebalanceSchedule: "@every 1h",
	})
	assert.Error(t, s.Start())
}
