package ports

import (
	"context"
	"errors"
	"time"

	"subscription-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	// ErrDuplicate is returned by Create when the deterministic key is taken.
	ErrDuplicate = errors.New("record already exists")
	// ErrInsufficientBalance is returned by BalanceRepository.Debit.
	ErrInsufficientBalance = errors.New("insufficient account balance")
	// ErrAmountOutOfRange is returned when an amount cannot be stored.
	ErrAmountOutOfRange = errors.New("amount out of storable range")
)

// Methods accepting pgx.Tx run inside the caller's transaction; *ForUpdate
// variants take a row lock held until commit or rollback. Getters return
// nil, nil when the record does not exist.

// ProtocolConfigRepository persists the protocol singleton.
type ProtocolConfigRepository interface {
	Create(ctx context.Context, tx pgx.Tx, cfg *domain.ProtocolConfig) error
	Get(ctx context.Context) (*domain.ProtocolConfig, error)
	GetForUpdate(ctx context.Context, tx pgx.Tx) (*domain.ProtocolConfig, error)
	Update(ctx context.Context, tx pgx.Tx, cfg *domain.ProtocolConfig) error
}

// WalletRepository persists wallet accounts.
type WalletRepository interface {
	Create(ctx context.Context, tx pgx.Tx, wallet *domain.WalletAccount) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.WalletAccount, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.WalletAccount, error)
	Update(ctx context.Context, tx pgx.Tx, wallet *domain.WalletAccount) error
}

// VaultRepository persists yield vaults, one per currency.
type VaultRepository interface {
	Create(ctx context.Context, tx pgx.Tx, vault *domain.YieldVault) error
	GetByCurrency(ctx context.Context, currency string) (*domain.YieldVault, error)
	GetByCurrencyForUpdate(ctx context.Context, tx pgx.Tx, currency string) (*domain.YieldVault, error)
	Update(ctx context.Context, tx pgx.Tx, vault *domain.YieldVault) error
	List(ctx context.Context) ([]domain.YieldVault, error)
}

// PlanRepository persists merchant plans.
type PlanRepository interface {
	Create(ctx context.Context, tx pgx.Tx, plan *domain.MerchantPlan) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.MerchantPlan, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.MerchantPlan, error)
	Update(ctx context.Context, tx pgx.Tx, plan *domain.MerchantPlan) error
}

// SubscriptionRepository persists subscriptions.
type SubscriptionRepository interface {
	Create(ctx context.Context, tx pgx.Tx, sub *domain.Subscription) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Subscription, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Subscription, error)
	Update(ctx context.Context, tx pgx.Tx, sub *domain.Subscription) error
	Delete(ctx context.Context, tx pgx.Tx, id uuid.UUID) error
	ListActiveByWallet(ctx context.Context, tx pgx.Tx, walletID uuid.UUID) ([]domain.Subscription, error)
	// ListDue returns active subscriptions whose interval has elapsed at now,
	// ordered by (last_payment_at, id) and starting strictly after the
	// cursor when one is given.
	ListDue(ctx context.Context, now time.Time, after *domain.DueCursor, limit int) ([]domain.Subscription, error)
}

// SessionTokenRepository persists consumed session tokens.
type SessionTokenRepository interface {
	Create(ctx context.Context, tx pgx.Tx, rec *domain.SessionTokenRecord) error
	Get(ctx context.Context, tx pgx.Tx, token string) (*domain.SessionTokenRecord, error)
}

// BalanceRepository holds token balances keyed by account reference.
// Unknown accounts have a zero balance.
type BalanceRepository interface {
	Get(ctx context.Context, account string) (uint64, error)
	GetForUpdate(ctx context.Context, tx pgx.Tx, account string) (uint64, error)
	Credit(ctx context.Context, tx pgx.Tx, account string, amount uint64) error
	Debit(ctx context.Context, tx pgx.Tx, account string, amount uint64) error
}

// LedgerRepository appends and lists balance movements.
type LedgerRepository interface {
	Append(ctx context.Context, tx pgx.Tx, entry *domain.LedgerEntry) error
	ListByAccount(ctx context.Context, account string, limit int) ([]domain.LedgerEntry, error)
}

// EventRepository persists emitted domain events.
type EventRepository interface {
	Create(ctx context.Context, evt *domain.Event) error
}

// WebhookRepository persists merchant webhook endpoints and the delivery
// log. Writes happen outside business transactions.
type WebhookRepository interface {
	UpsertEndpoint(ctx context.Context, ep *domain.WebhookEndpoint) error
	GetEndpoint(ctx context.Context, merchant string) (*domain.WebhookEndpoint, error)
	CreateDelivery(ctx context.Context, d *domain.WebhookDelivery) error
	UpdateDelivery(ctx context.Context, d *domain.WebhookDelivery) error
	ListDeliveries(ctx context.Context, merchant string, limit int) ([]domain.WebhookDelivery, error)
}

// AnalyticsRepository answers read-only merchant reporting queries. The list
// methods match every currency when currency is empty.
type AnalyticsRepository interface {
	RevenueByDay(ctx context.Context, merchant, currency string, since time.Time) ([]domain.RevenuePoint, error)
	ListSubscriptions(ctx context.Context, merchant, currency string) ([]domain.Subscription, error)
	ListPlans(ctx context.Context, merchant, currency string) ([]domain.MerchantPlan, error)
	// SubscriptionChanges reads the event history, which outlives cancelled
	// subscription records. Oldest first.
	SubscriptionChanges(ctx context.Context, merchant, currency string, since time.Time) ([]domain.SubscriptionChange, error)
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
