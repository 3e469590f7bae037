package ports

import (
	"context"
	"time"

	"subscription-ledger/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// TokenService handles JWT token operations.
type TokenService interface {
	Generate(principal string) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	Principal string
}

// SessionTokenCache is the Redis fast path for consumed session tokens.
type SessionTokenCache interface {
	IsUsed(ctx context.Context, token string) (bool, error)
	MarkUsed(ctx context.Context, token string, ttl time.Duration) error
}

// JobLock guards background jobs across instances.
type JobLock interface {
	// TryLock returns true when the caller now holds the lock.
	TryLock(ctx context.Context, name string, ttl time.Duration) (bool, error)
	Unlock(ctx context.Context, name string) error
}

// EventPublisher ships events to the message bus.
type EventPublisher interface {
	Publish(ctx context.Context, evt *domain.Event) error
	Close() error
}

// EventRecorder logs, stores and publishes events. Failures are logged, never returned.
type EventRecorder interface {
	Record(ctx context.Context, evt *domain.Event)
}

// EventNotifier receives every recorded event after it is stored.
type EventNotifier interface {
	Notify(ctx context.Context, evt *domain.Event)
}

// SignatureService signs webhook bodies.
type SignatureService interface {
	Sign(secretKey string, payload string) string
	Verify(secretKey string, payload string, signature string) bool
}

// EncryptionService protects secrets at rest.
type EncryptionService interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

// WebhookService manages merchant endpoints and delivers merchant events.
type WebhookService interface {
	EventNotifier
	SetEndpoint(ctx context.Context, req SetWebhookRequest) (*WebhookEndpointView, error)
	GetEndpoint(ctx context.Context, merchant string) (*WebhookEndpointView, error)
	ListDeliveries(ctx context.Context, merchant string, limit int) ([]domain.WebhookDelivery, error)
}

// SetWebhookRequest registers or replaces the caller's endpoint. An empty
// Secret generates one.
type SetWebhookRequest struct {
	Merchant string
	URL      string
	Secret   string
}

// WebhookEndpointView is an endpoint as shown to its merchant. Secret is set
// only by SetEndpoint.
type WebhookEndpointView struct {
	Endpoint *domain.WebhookEndpoint
	Secret   string
}

// AnalyticsService reports on a merchant's revenue and subscribers.
type AnalyticsService interface {
	Summary(ctx context.Context, merchant, currency string) (*domain.MerchantSummary, error)
	RevenueChart(ctx context.Context, merchant, currency string, days int) ([]domain.RevenuePoint, error)
	SubscriberGrowth(ctx context.Context, merchant, currency string, days int) ([]domain.GrowthPoint, error)
	Churn(ctx context.Context, merchant, currency string) (*domain.ChurnStats, error)
	PlanPerformance(ctx context.Context, merchant, currency string) ([]domain.PlanPerformance, error)
	Customers(ctx context.Context, merchant string) ([]domain.Customer, error)
}

// LedgerMetrics receives engine observations.
type LedgerMetrics interface {
	ObservePayment(outcome string)
	ObserveShortfallRedemption(currency string, shares, amount uint64)
	ObserveRedemptionDust(currency string, dust uint64)
	ObserveRebalance(currency string, action domain.RebalanceAction, amount uint64)
	ObserveVault(currency string, totalShares, valuation uint64, emergency bool)
}

// --- Service Ports (Business Logic) ---

// ProtocolService manages the protocol-fee singleton.
type ProtocolService interface {
	Initialize(ctx context.Context, req InitializeProtocolRequest) (*domain.ProtocolConfig, error)
	UpdateFee(ctx context.Context, req UpdateProtocolFeeRequest) (*domain.ProtocolConfig, error)
	Get(ctx context.Context) (*domain.ProtocolConfig, error)
}

// InitializeProtocolRequest creates the protocol singleton; the caller becomes authority.
type InitializeProtocolRequest struct {
	Caller   string
	Treasury string
	FeeBps   uint16
}

// UpdateProtocolFeeRequest changes the protocol fee.
type UpdateProtocolFeeRequest struct {
	Caller string
	FeeBps uint16
}

// VaultService is the yield vault engine.
type VaultService interface {
	InitializeVault(ctx context.Context, req InitializeVaultRequest) (*domain.YieldVault, error)
	EnableYield(ctx context.Context, req YieldAmountRequest) (*YieldResult, error)
	DepositToYield(ctx context.Context, req YieldAmountRequest) (*YieldResult, error)
	WithdrawFromYield(ctx context.Context, req YieldRedeemRequest) (*YieldResult, error)
	DisableYield(ctx context.Context, req YieldOwnerRequest) (*YieldResult, error)
	Rebalance(ctx context.Context, req VaultAdminRequest) (*domain.RebalanceResult, error)
	SetEmergencyMode(ctx context.Context, req EmergencyModeRequest) (*domain.YieldVault, error)
	GetVault(ctx context.Context, currency string) (*domain.VaultQuote, error)
}

// InitializeVaultRequest creates the vault for a currency.
type InitializeVaultRequest struct {
	Caller          string
	Currency        string
	TargetBufferBps uint16
}

// YieldAmountRequest moves an amount of the owner's liquid balance into yield.
type YieldAmountRequest struct {
	Owner    string
	Currency string
	Amount   uint64
}

// YieldRedeemRequest redeems shares back into the owner's liquid balance.
type YieldRedeemRequest struct {
	Owner    string
	Currency string
	Shares   uint64
}

// YieldOwnerRequest addresses the owner's wallet.
type YieldOwnerRequest struct {
	Owner    string
	Currency string
}

// VaultAdminRequest addresses a vault on behalf of its authority.
type VaultAdminRequest struct {
	Caller   string
	Currency string
}

// EmergencyModeRequest toggles the vault emergency flag.
type EmergencyModeRequest struct {
	Caller   string
	Currency string
	Enabled  bool
}

// YieldResult reports the outcome of a share-mutating operation.
type YieldResult struct {
	Wallet *domain.WalletAccount
	Amount uint64 // underlying moved between wallet and vault
	Shares uint64 // shares minted or burned
	Buffer uint64 // liquid slice kept in the wallet on enable
}

// ShareRedeemer is the vault engine's in-transaction redemption path used by
// the payment engine. The caller holds the wallet lock. RedeemShortfall never
// calls the venue; when the buffer is short it returns *BufferShortError and
// the caller rolls back, calls ReplenishBuffer outside its transaction and retries.
type ShareRedeemer interface {
	RedeemShortfall(ctx context.Context, tx pgx.Tx, wallet *domain.WalletAccount, shortfall uint64, reference string) (*ShortfallRedemption, error)
	ReplenishBuffer(ctx context.Context, currency string, minBuffer uint64) error
}

// ShortfallRedemption reports shares burned to cover a payment shortfall.
type ShortfallRedemption struct {
	Vault        *domain.YieldVault
	SharesBurned uint64
	Amount       uint64 // underlying moved into the wallet
	SharesValue  uint64 // value of the burned shares at the pre-redemption valuation
}

// PaymentService is the payment and idle-fund withdrawal engine.
type PaymentService interface {
	ExecutePayment(ctx context.Context, key domain.SubscriptionKey) (*PaymentResult, error)
	WithdrawIdle(ctx context.Context, req WalletAmountRequest) (*WalletView, error)
	ListDue(ctx context.Context, after *domain.DueCursor, limit int) ([]domain.Subscription, error)
}

// PaymentResult reports an executed payment.
type PaymentResult struct {
	Subscription     *domain.Subscription
	Amount           uint64
	ProtocolFee      uint64
	MerchantReceived uint64
	SharesRedeemed   uint64
	Redeemed         uint64
}

// WalletService manages wallet records and liquid deposits.
type WalletService interface {
	CreateWallet(ctx context.Context, owner, currency string) (*domain.WalletAccount, error)
	Deposit(ctx context.Context, req WalletAmountRequest) (*WalletView, error)
	GetWallet(ctx context.Context, owner, currency string) (*WalletView, error)
	ListLedger(ctx context.Context, owner, currency string, limit int) ([]domain.LedgerEntry, error)
}

// WalletAmountRequest carries an owner-authorised amount.
type WalletAmountRequest struct {
	Owner    string
	Currency string
	Amount   uint64
}

// WalletView is a wallet with its derived balances.
type WalletView struct {
	Wallet        *domain.WalletAccount
	LiquidBalance uint64
	ShareValue    uint64
	Committed     uint64
	Withdrawable  uint64
}

// SubscriptionService manages plans and subscriptions.
type SubscriptionService interface {
	RegisterPlan(ctx context.Context, req RegisterPlanRequest) (*domain.MerchantPlan, error)
	DeactivatePlan(ctx context.Context, req DeactivatePlanRequest) (*domain.MerchantPlan, error)
	Subscribe(ctx context.Context, req SubscribeRequest) (*domain.Subscription, error)
	Cancel(ctx context.Context, req CancelRequest) error
	GetSubscription(ctx context.Context, key domain.SubscriptionKey) (*domain.Subscription, error)
}

// RegisterPlanRequest registers a merchant plan.
type RegisterPlanRequest struct {
	Merchant        string
	Currency        string
	PlanID          string
	PlanName        string
	FeeAmount       uint64
	PaymentInterval int64
}

// DeactivatePlanRequest flips a plan inactive.
type DeactivatePlanRequest struct {
	Merchant string
	Currency string
	PlanID   string
}

// SubscribeRequest subscribes the caller's wallet to a plan.
type SubscribeRequest struct {
	User         string
	Merchant     string
	Currency     string
	PlanID       string
	SessionToken string
}

// CancelRequest cancels the caller's subscription.
type CancelRequest struct {
	User     string
	Merchant string
	Currency string
}
