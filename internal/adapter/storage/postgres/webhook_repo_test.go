package postgres

import (
	"context"
	"testing"
	"time"

	"subscription-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDelivery() *domain.WebhookDelivery {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.WebhookDelivery{
		ID:        uuid.New(),
		EventID:   uuid.New(),
		EventType: domain.EventPaymentExecuted,
		Merchant:  "shop",
		URL:       "https://shop.example/hook",
		Payload:   `{"event_type":"payment.executed"}`,
		Status:    domain.WebhookStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestWebhookRepo_UpsertEndpoint(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWebhookRepo(mock)
	now := time.Now().UTC()
	ep := &domain.WebhookEndpoint{Merchant: "shop", URL: "https://shop.example/hook", SecretEnc: "enc", Active: true, CreatedAt: now, UpdatedAt: now}

	mock.ExpectExec("INSERT INTO webhook_endpoints .+ ON CONFLICT \\(merchant\\) DO UPDATE").
		WithArgs("shop", ep.URL, "enc", true, now, now).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	assert.NoError(t, repo.UpsertEndpoint(context.Background(), ep))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWebhookRepo_GetEndpoint(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWebhookRepo(mock)
	now := time.Now().UTC()
	cols := []string{"merchant", "url", "secret_enc", "active", "created_at", "updated_at"}

	mock.ExpectQuery("SELECT .+ FROM webhook_endpoints WHERE merchant").
		WithArgs("shop").
		WillReturnRows(pgxmock.NewRows(cols).AddRow("shop", "https://shop.example/hook", "enc", true, now, now))
	mock.ExpectQuery("SELECT .+ FROM webhook_endpoints WHERE merchant").
		WithArgs("gym").
		WillReturnError(pgx.ErrNoRows)

	ep, err := repo.GetEndpoint(context.Background(), "shop")
	require.NoError(t, err)
	assert.Equal(t, "enc", ep.SecretEnc)
	assert.True(t, ep.Active)

	ep, err = repo.GetEndpoint(context.Background(), "gym")
	require.NoError(t, err)
	assert.Nil(t, ep)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWebhookRepo_CreateAndUpdateDelivery(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWebhookRepo(mock)
	d := newTestDelivery()

	mock.ExpectExec("INSERT INTO webhook_deliveries").
		WithArgs(d.ID, d.EventID, "payment.executed", "shop", d.URL, d.Payload,
			d.HTTPStatus, 0, "PENDING", d.LastError, d.CreatedAt, d.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	require.NoError(t, repo.CreateDelivery(context.Background(), d))

	status := 200
	d.HTTPStatus = &status
	d.Attempt = 2
	d.Status = domain.WebhookStatusDelivered
	mock.ExpectExec("UPDATE webhook_deliveries SET").
		WithArgs(d.HTTPStatus, 2, "DELIVERED", d.LastError, d.UpdatedAt, d.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	require.NoError(t, repo.UpdateDelivery(context.Background(), d))

	mock.ExpectExec("UPDATE webhook_deliveries SET").
		WithArgs(d.HTTPStatus, 2, "DELIVERED", d.LastError, d.UpdatedAt, d.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	assert.ErrorContains(t, repo.UpdateDelivery(context.Background(), d), "not found")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWebhookRepo_ListDeliveries(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWebhookRepo(mock)
	d := newTestDelivery()
	status := 503
	lastErr := "non-2xx response: 503"
	cols := []string{"id", "event_id", "event_type", "merchant", "url", "payload", "http_status", "attempt", "status", "last_error", "created_at", "updated_at"}

	mock.ExpectQuery("SELECT .+ FROM webhook_deliveries WHERE merchant = \\$1 ORDER BY created_at DESC LIMIT \\$2").
		WithArgs("shop", 20).
		WillReturnRows(pgxmock.NewRows(cols).
			AddRow(d.ID, d.EventID, "payment.executed", "shop", d.URL, d.Payload, &status, 6, "FAILED", &lastErr, d.CreatedAt, d.UpdatedAt))

	got, err := repo.ListDeliveries(context.Background(), "shop", 20)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, domain.EventPaymentExecuted, got[0].EventType)
	assert.Equal(t, domain.WebhookStatusFailed, got[0].Status)
	require.NotNil(t, got[0].HTTPStatus)
	assert.Equal(t, 503, *got[0].HTTPStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}
