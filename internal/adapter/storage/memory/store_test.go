package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"subscription-ledger/internal/core/domain"
	"subscription-ledger/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_CommitPublishesState(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	wallets := NewWalletRepo(s)
	w := domain.NewWalletAccount("alice", "USDC", time.Now())

	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, wallets.Create(ctx, tx, w))

	got, err := wallets.GetByID(ctx, w.ID)
	require.NoError(t, err)
	assert.Nil(t, got, "uncommitted writes are not visible")

	require.NoError(t, tx.Commit(ctx))

	got, err = wallets.GetByID(ctx, w.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "alice", got.Owner)
}

func TestStore_RollbackDiscardsState(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	balances := NewBalanceRepo(s)

	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, balances.Credit(ctx, tx, "wallet:alice:USDC", 100))
	require.NoError(t, tx.Rollback(ctx))

	bal, err := balances.Get(ctx, "wallet:alice:USDC")
	require.NoError(t, err)
	assert.Zero(t, bal)
}

func TestStore_TxClosedAfterCommit(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.Commit(ctx))

	assert.ErrorIs(t, tx.Rollback(ctx), pgx.ErrTxClosed)
	assert.ErrorIs(t, tx.Commit(ctx), pgx.ErrTxClosed)

	err = NewBalanceRepo(s).Credit(ctx, tx, "x", 1)
	assert.ErrorIs(t, err, pgx.ErrTxClosed)

	// the writer lock was released; a new transaction can start
	tx2, err := s.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, tx2.Rollback(ctx))
}

func TestStore_SerialisesWriters(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	balances := NewBalanceRepo(s)

	tx, err := s.Begin(ctx)
	require.NoError(t, err)

	started := make(chan struct{})
	done := make(chan uint64)
	go func() {
		close(started)
		tx2, err := s.Begin(ctx)
		if err != nil {
			done <- 0
			return
		}
		bal, _ := balances.GetForUpdate(ctx, tx2, "acct")
		_ = tx2.Rollback(ctx)
		done <- bal
	}()
	<-started

	require.NoError(t, balances.Credit(ctx, tx, "acct", 7))
	require.NoError(t, tx.Commit(ctx))

	select {
	case bal := <-done:
		assert.Equal(t, uint64(7), bal, "second transaction sees the first commit")
	case <-time.After(2 * time.Second):
		t.Fatal("second transaction never started")
	}
}

func TestStore_BeginHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewStore().Begin(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRepos_DuplicateCreate(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	now := time.Now()

	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	defer tx.Rollback(ctx) //nolint:errcheck

	vaults := NewVaultRepo(s)
	v := domain.NewYieldVault("USDC", "admin", "buffer_only", 1000, now)
	require.NoError(t, vaults.Create(ctx, tx, v))
	assert.ErrorIs(t, vaults.Create(ctx, tx, v), ports.ErrDuplicate)

	tokens := NewSessionTokenRepo(s)
	rec := &domain.SessionTokenRecord{Token: "tok", User: "alice", Used: true, CreatedAt: now}
	require.NoError(t, tokens.Create(ctx, tx, rec))
	assert.ErrorIs(t, tokens.Create(ctx, tx, rec), ports.ErrDuplicate)

	protocol := NewProtocolConfigRepo(s)
	cfg := &domain.ProtocolConfig{ID: domain.ProtocolConfigID(), Authority: "admin"}
	require.NoError(t, protocol.Create(ctx, tx, cfg))
	assert.ErrorIs(t, protocol.Create(ctx, tx, cfg), ports.ErrDuplicate)
}

func TestBalanceRepo_DebitBelowZero(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	balances := NewBalanceRepo(s)

	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	defer tx.Rollback(ctx) //nolint:errcheck

	require.NoError(t, balances.Credit(ctx, tx, "a", 10))
	err = balances.Debit(ctx, tx, "a", 11)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ports.ErrInsufficientBalance))

	require.NoError(t, balances.Debit(ctx, tx, "a", 10))
	bal, err := balances.GetForUpdate(ctx, tx, "a")
	require.NoError(t, err)
	assert.Zero(t, bal)
}

func TestSubscriptionRepo_ListDue(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	subs := NewSubscriptionRepo(s)
	base := time.Unix(1_700_000_000, 0)

	mk := func(user string, last time.Time, active bool) *domain.Subscription {
		return &domain.Subscription{
			ID: domain.SubscriptionID(user, "shop", "USDC"), User: user, Merchant: "shop",
			Currency: "USDC", PaymentInterval: 60, LastPaymentAt: last, Active: active,
		}
	}

	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, subs.Create(ctx, tx, mk("late", base, true)))
	require.NoError(t, subs.Create(ctx, tx, mk("later", base.Add(-time.Hour), true)))
	require.NoError(t, subs.Create(ctx, tx, mk("fresh", base.Add(50*time.Second), true)))
	require.NoError(t, subs.Create(ctx, tx, mk("inactive", base.Add(-time.Hour), false)))
	require.NoError(t, tx.Commit(ctx))

	due, err := subs.ListDue(ctx, base.Add(60*time.Second), nil, 10)
	require.NoError(t, err)
	require.Len(t, due, 2)
	assert.Equal(t, "later", due[0].User, "oldest payment first")
	assert.Equal(t, "late", due[1].User)

	due, err = subs.ListDue(ctx, base.Add(60*time.Second), nil, 1)
	require.NoError(t, err)
	require.Len(t, due, 1)

	cursor := due[0].Cursor()
	due, err = subs.ListDue(ctx, base.Add(60*time.Second), &cursor, 1)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, "late", due[0].User, "resumes after the cursor")

	cursor = due[0].Cursor()
	due, err = subs.ListDue(ctx, base.Add(60*time.Second), &cursor, 1)
	require.NoError(t, err)
	assert.Empty(t, due)
}

func TestLedgerRepo_ListByAccountNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	ledger := NewLedgerRepo(s)
	now := time.Now()

	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, ledger.Append(ctx, tx, domain.NewLedgerEntry(domain.LedgerWalletDeposit, "funding:USDC", "wallet:a:USDC", 1, "", now)))
	require.NoError(t, ledger.Append(ctx, tx, domain.NewLedgerEntry(domain.LedgerWalletDeposit, "funding:USDC", "wallet:b:USDC", 2, "", now)))
	require.NoError(t, ledger.Append(ctx, tx, domain.NewLedgerEntry(domain.LedgerMerchantPayment, "wallet:a:USDC", "merchant:m:USDC", 3, "", now)))
	require.NoError(t, tx.Commit(ctx))

	entries, err := ledger.ListByAccount(ctx, "wallet:a:USDC", 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, uint64(3), entries[0].Amount)
	assert.Equal(t, uint64(1), entries[1].Amount)
}

func TestWebhookRepo_EndpointsAndDeliveries(t *testing.T) {
	ctx := context.Background()
	repo := NewWebhookRepo(NewStore())

	ep, err := repo.GetEndpoint(ctx, "shop")
	require.NoError(t, err)
	assert.Nil(t, ep)

	require.NoError(t, repo.UpsertEndpoint(ctx, &domain.WebhookEndpoint{Merchant: "shop", URL: "https://a.example/hook", Active: true}))
	require.NoError(t, repo.UpsertEndpoint(ctx, &domain.WebhookEndpoint{Merchant: "shop", URL: "https://b.example/hook", Active: true}))
	ep, err = repo.GetEndpoint(ctx, "shop")
	require.NoError(t, err)
	assert.Equal(t, "https://b.example/hook", ep.URL)

	first := &domain.WebhookDelivery{ID: uuid.New(), Merchant: "shop", Status: domain.WebhookStatusPending}
	second := &domain.WebhookDelivery{ID: uuid.New(), Merchant: "shop", Status: domain.WebhookStatusPending}
	require.NoError(t, repo.CreateDelivery(ctx, first))
	require.NoError(t, repo.CreateDelivery(ctx, second))
	require.NoError(t, repo.CreateDelivery(ctx, &domain.WebhookDelivery{ID: uuid.New(), Merchant: "gym"}))

	first.Status = domain.WebhookStatusDelivered
	require.NoError(t, repo.UpdateDelivery(ctx, first))
	assert.Error(t, repo.UpdateDelivery(ctx, &domain.WebhookDelivery{ID: uuid.New()}))

	got, err := repo.ListDeliveries(ctx, "shop", 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, second.ID, got[0].ID, "newest first")
	assert.Equal(t, domain.WebhookStatusDelivered, got[1].Status)

	got, err = repo.ListDeliveries(ctx, "shop", 1)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestAnalyticsRepo_MerchantQueries(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	ledger := NewLedgerRepo(s)
	plans := NewPlanRepo(s)
	subs := NewSubscriptionRepo(s)
	analytics := NewAnalyticsRepo(s)
	day1 := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	day2 := day1.Add(24 * time.Hour)

	mkSub := func(user, currency string, created time.Time) *domain.Subscription {
		return &domain.Subscription{
			ID: domain.SubscriptionID(user, "shop", currency), User: user, Merchant: "shop",
			Currency: currency, PaymentInterval: 60, LastPaymentAt: created, Active: true, CreatedAt: created,
		}
	}

	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	shop := domain.MerchantAccount("shop", "USDC")
	require.NoError(t, ledger.Append(ctx, tx, domain.NewLedgerEntry(domain.LedgerMerchantPayment, "wallet:a:USDC", shop, 10, "", day1)))
	require.NoError(t, ledger.Append(ctx, tx, domain.NewLedgerEntry(domain.LedgerMerchantPayment, "wallet:b:USDC", shop, 5, "", day1.Add(time.Hour))))
	require.NoError(t, ledger.Append(ctx, tx, domain.NewLedgerEntry(domain.LedgerMerchantPayment, "wallet:a:USDC", shop, 7, "", day2)))
	require.NoError(t, ledger.Append(ctx, tx, domain.NewLedgerEntry(domain.LedgerProtocolFee, "wallet:a:USDC", "treasury:t:USDC", 1, "", day2)))
	require.NoError(t, ledger.Append(ctx, tx, domain.NewLedgerEntry(domain.LedgerMerchantPayment, "wallet:a:USDC", "merchant:other:USDC", 99, "", day2)))
	require.NoError(t, plans.Create(ctx, tx, &domain.MerchantPlan{ID: domain.PlanKey("shop", "USDC", "pro"), Merchant: "shop", Currency: "USDC", PlanID: "pro", CreatedAt: day1}))
	require.NoError(t, plans.Create(ctx, tx, &domain.MerchantPlan{ID: domain.PlanKey("shop", "EURC", "pro"), Merchant: "shop", Currency: "EURC", PlanID: "pro", CreatedAt: day2}))
	require.NoError(t, subs.Create(ctx, tx, mkSub("alice", "USDC", day1)))
	require.NoError(t, subs.Create(ctx, tx, mkSub("bob", "USDC", day2)))
	require.NoError(t, subs.Create(ctx, tx, mkSub("alice", "EURC", day2)))
	require.NoError(t, tx.Commit(ctx))

	revenue, err := analytics.RevenueByDay(ctx, "shop", "USDC", time.Time{})
	require.NoError(t, err)
	assert.Equal(t, []domain.RevenuePoint{
		{Day: domain.UTCDay(day1), Revenue: 15},
		{Day: domain.UTCDay(day2), Revenue: 7},
	}, revenue)

	revenue, err = analytics.RevenueByDay(ctx, "shop", "USDC", day2)
	require.NoError(t, err)
	assert.Len(t, revenue, 1)

	usdc, err := analytics.ListSubscriptions(ctx, "shop", "USDC")
	require.NoError(t, err)
	require.Len(t, usdc, 2)
	assert.Equal(t, "bob", usdc[0].User, "newest first")

	all, err := analytics.ListSubscriptions(ctx, "shop", "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	shopPlans, err := analytics.ListPlans(ctx, "shop", "")
	require.NoError(t, err)
	require.Len(t, shopPlans, 2)
	assert.Equal(t, "USDC", shopPlans[0].Currency, "oldest first")
}

func TestAnalyticsRepo_SubscriptionChanges(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	events := NewEventRepo(s)
	analytics := NewAnalyticsRepo(s)
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	record := func(typ domain.EventType, merchant, currency string, at time.Time) {
		sub := domain.Subscription{User: "alice", Merchant: merchant, Currency: currency}
		evt, err := domain.NewEvent(typ, "sub", sub, at)
		require.NoError(t, err)
		require.NoError(t, events.Create(ctx, evt))
	}
	record(domain.EventSubscriptionCreated, "shop", "USDC", base)
	record(domain.EventPaymentExecuted, "shop", "USDC", base.Add(time.Minute))
	record(domain.EventSubscriptionCreated, "other", "USDC", base.Add(time.Hour))
	record(domain.EventSubscriptionCreated, "shop", "EURC", base.Add(time.Hour))
	record(domain.EventSubscriptionCancelled, "shop", "USDC", base.Add(48*time.Hour))

	changes, err := analytics.SubscriptionChanges(ctx, "shop", "USDC", time.Time{})
	require.NoError(t, err)
	require.Len(t, changes, 2)
	assert.Equal(t, domain.EventSubscriptionCreated, changes[0].Type)
	assert.Equal(t, domain.EventSubscriptionCancelled, changes[1].Type)

	changes, err = analytics.SubscriptionChanges(ctx, "shop", "USDC", base.Add(24*time.Hour))
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, domain.EventSubscriptionCancelled, changes[0].Type)
}
