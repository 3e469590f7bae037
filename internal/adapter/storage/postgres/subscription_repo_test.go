package postgres

import (
	"context"
	"testing"
	"time"

	"subscription-ledger/internal/core/domain"
	"subscription-ledger/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSubscription() *domain.Subscription {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.Subscription{
		ID:              domain.SubscriptionID("alice", "shop", "USDC"),
		User:            "alice",
		WalletID:        domain.WalletID("alice", "USDC"),
		PlanKey:         domain.PlanKey("shop", "USDC", "pro"),
		Merchant:        "shop",
		Currency:        "USDC",
		FeeAmount:       80,
		PaymentInterval: 2592000,
		LastPaymentAt:   now,
		TotalPaid:       160,
		PaymentCount:    2,
		Active:          true,
		SessionToken:    "tok-1",
		CreatedAt:       now,
	}
}

func subscriptionTestColumns() []string {
	return []string{"id", "user_principal", "wallet_id", "plan_key", "merchant", "currency", "fee_amount",
		"payment_interval", "last_payment_at", "total_paid", "payment_count", "active", "session_token", "created_at"}
}

func subscriptionRow(rows *pgxmock.Rows, s *domain.Subscription) *pgxmock.Rows {
	return rows.AddRow(
		s.ID, s.User, s.WalletID, s.PlanKey, s.Merchant, s.Currency, int64(s.FeeAmount),
		s.PaymentInterval, s.LastPaymentAt, int64(s.TotalPaid), int64(s.PaymentCount), s.Active, s.SessionToken, s.CreatedAt,
	)
}

func TestSubscriptionRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewSubscriptionRepo(mock)
	s := newTestSubscription()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO subscriptions").
		WithArgs(s.ID, s.User, s.WalletID, s.PlanKey, s.Merchant, s.Currency, int64(80),
			s.PaymentInterval, s.LastPaymentAt, int64(160), int64(2), true, "tok-1", s.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	assert.NoError(t, repo.Create(context.Background(), tx, s))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubscriptionRepo_GetByIDForUpdate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewSubscriptionRepo(mock)
	s := newTestSubscription()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .+ FROM subscriptions WHERE id .+ FOR UPDATE").
		WithArgs(s.ID).
		WillReturnRows(subscriptionRow(pgxmock.NewRows(subscriptionTestColumns()), s))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	got, err := repo.GetByIDForUpdate(context.Background(), tx, s.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, s.Key(), got.Key())
	assert.Equal(t, uint64(80), got.FeeAmount)
	assert.Equal(t, uint32(2), got.PaymentCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubscriptionRepo_Delete(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewSubscriptionRepo(mock)
	s := newTestSubscription()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM subscriptions WHERE id").
		WithArgs(s.ID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec("DELETE FROM subscriptions WHERE id").
		WithArgs(s.ID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	assert.NoError(t, repo.Delete(context.Background(), tx, s.ID))
	err = repo.Delete(context.Background(), tx, s.ID)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "subscription not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubscriptionRepo_ListActiveByWallet(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewSubscriptionRepo(mock)
	s := newTestSubscription()
	other := newTestSubscription()
	other.ID = domain.SubscriptionID("alice", "gym", "USDC")
	other.Merchant = "gym"

	rows := pgxmock.NewRows(subscriptionTestColumns())
	subscriptionRow(rows, s)
	subscriptionRow(rows, other)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .+ FROM subscriptions WHERE wallet_id .+ AND active").
		WithArgs(s.WalletID).
		WillReturnRows(rows)

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	subs, err := repo.ListActiveByWallet(context.Background(), tx, s.WalletID)
	require.NoError(t, err)
	require.Len(t, subs, 2)
	assert.Equal(t, "gym", subs[1].Merchant)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubscriptionRepo_ListDue(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewSubscriptionRepo(mock)
	s := newTestSubscription()
	now := s.LastPaymentAt.Add(31 * 24 * time.Hour)

	mock.ExpectQuery("SELECT .+ FROM subscriptions WHERE active AND last_payment_at .+ ORDER BY last_payment_at").
		WithArgs(now, 50).
		WillReturnRows(subscriptionRow(pgxmock.NewRows(subscriptionTestColumns()), s))

	subs, err := repo.ListDue(context.Background(), now, nil, 50)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.True(t, subs[0].IsDue(now))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubscriptionRepo_ListDue_ResumesAfterCursor(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewSubscriptionRepo(mock)
	s := newTestSubscription()
	now := s.LastPaymentAt.Add(31 * 24 * time.Hour)
	after := domain.DueCursor{LastPaymentAt: s.LastPaymentAt.Add(-time.Hour), ID: uuid.New()}

	mock.ExpectQuery(`SELECT .+ FROM subscriptions WHERE active .+ AND \(last_payment_at, id\) > \(\$2, \$3\) ORDER BY last_payment_at, id LIMIT \$4`).
		WithArgs(now, after.LastPaymentAt, after.ID, 2).
		WillReturnRows(subscriptionRow(pgxmock.NewRows(subscriptionTestColumns()), s))

	subs, err := repo.ListDue(context.Background(), now, &after, 2)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, s.ID, subs[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionTokenRepo_CreateAndGet(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewSessionTokenRepo(mock)
	s := newTestSubscription()
	rec := &domain.SessionTokenRecord{
		Token: "tok-1", User: "alice", SubscriptionID: s.ID, Used: true, CreatedAt: s.CreatedAt,
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO session_tokens").
		WithArgs("tok-1", "alice", s.ID, true, s.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO session_tokens").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "session_tokens_pkey"})
	mock.ExpectQuery("SELECT .+ FROM session_tokens WHERE token").
		WithArgs("tok-1").
		WillReturnRows(pgxmock.NewRows([]string{"token", "user_principal", "subscription_id", "used", "created_at"}).
			AddRow("tok-1", "alice", s.ID, true, s.CreatedAt))
	mock.ExpectQuery("SELECT .+ FROM session_tokens WHERE token").
		WithArgs("tok-2").
		WillReturnRows(pgxmock.NewRows([]string{"token", "user_principal", "subscription_id", "used", "created_at"}))

	ctx := context.Background()
	tx, err := mock.Begin(ctx)
	require.NoError(t, err)

	require.NoError(t, repo.Create(ctx, tx, rec))
	assert.ErrorIs(t, repo.Create(ctx, tx, rec), ports.ErrDuplicate)

	got, err := repo.Get(ctx, tx, "tok-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Used)
	assert.Equal(t, s.ID, got.SubscriptionID)

	missing, err := repo.Get(ctx, tx, "tok-2")
	require.NoError(t, err)
	assert.Nil(t, missing)
	assert.NoError(t, mock.ExpectationsWereMet())
}
