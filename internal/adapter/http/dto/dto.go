package dto

// InitializeProtocolRequest is the request body for POST /protocol.
type InitializeProtocolRequest struct {
	Treasury string `json:"treasury" binding:"required,safe_id,max=64"`
	FeeBps   uint16 `json:"fee_bps"`
}

// UpdateProtocolFeeRequest is the request body for PUT /protocol/fee.
type UpdateProtocolFeeRequest struct {
	FeeBps uint16 `json:"fee_bps"`
}

// InitializeVaultRequest is the request body for POST /vaults.
type InitializeVaultRequest struct {
	Currency        string `json:"currency" binding:"required,currency_code"`
	TargetBufferBps uint16 `json:"target_buffer_bps"`
}

// EmergencyModeRequest is the request body for PUT /vaults/:currency/emergency.
type EmergencyModeRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

// CreateWalletRequest is the request body for POST /wallets.
type CreateWalletRequest struct {
	Currency string `json:"currency" binding:"required,currency_code"`
}

// AmountRequest carries an amount in the wallet currency's smallest unit.
type AmountRequest struct {
	Amount uint64 `json:"amount"`
}

// SharesRequest carries a share count to redeem.
type SharesRequest struct {
	Shares uint64 `json:"shares"`
}

// RegisterPlanRequest is the request body for POST /plans.
type RegisterPlanRequest struct {
	Currency        string `json:"currency" binding:"required,currency_code"`
	PlanID          string `json:"plan_id" binding:"required"`
	PlanName        string `json:"plan_name"`
	FeeAmount       uint64 `json:"fee_amount"`
	PaymentInterval int64  `json:"payment_interval"`
}

// SubscribeRequest is the request body for POST /subscriptions.
type SubscribeRequest struct {
	Merchant     string `json:"merchant" binding:"required,safe_id,max=64"`
	Currency     string `json:"currency" binding:"required,currency_code"`
	PlanID       string `json:"plan_id" binding:"required"`
	SessionToken string `json:"session_token"`
}

// WalletResponse is a wallet with its derived balances.
type WalletResponse struct {
	ID                 string `json:"id"`
	Owner              string `json:"owner"`
	Currency           string `json:"currency"`
	YieldEnabled       bool   `json:"yield_enabled"`
	YieldShares        uint64 `json:"yield_shares"`
	TotalSpent         uint64 `json:"total_spent"`
	TotalSubscriptions uint32 `json:"total_subscriptions"`
	LiquidBalance      uint64 `json:"liquid_balance"`
	ShareValue         uint64 `json:"share_value"`
	Committed          uint64 `json:"committed"`
	Withdrawable       uint64 `json:"withdrawable"`
	CreatedAt          string `json:"created_at"`
}

// YieldResponse reports a share-mutating operation.
type YieldResponse struct {
	Wallet WalletSummary `json:"wallet"`
	Amount uint64        `json:"amount"`
	Shares uint64        `json:"shares"`
	Buffer uint64        `json:"buffer,omitempty"`
}

// WalletSummary is the stored wallet record without derived balances.
type WalletSummary struct {
	Owner        string `json:"owner"`
	Currency     string `json:"currency"`
	YieldEnabled bool   `json:"yield_enabled"`
	YieldShares  uint64 `json:"yield_shares"`
	TotalSpent   uint64 `json:"total_spent"`
}

// LedgerEntryResponse is one ledger line.
type LedgerEntryResponse struct {
	ID        string `json:"id"`
	Kind      string `json:"kind"`
	From      string `json:"from"`
	To        string `json:"to"`
	Amount    uint64 `json:"amount"`
	Reference string `json:"reference"`
	CreatedAt string `json:"created_at"`
}

// SubscriptionResponse is a subscription with its next due time.
type SubscriptionResponse struct {
	ID              string `json:"id"`
	User            string `json:"user"`
	Merchant        string `json:"merchant"`
	Currency        string `json:"currency"`
	FeeAmount       uint64 `json:"fee_amount"`
	PaymentInterval int64  `json:"payment_interval"`
	LastPaymentAt   string `json:"last_payment_at"`
	NextPaymentAt   string `json:"next_payment_at"`
	TotalPaid       uint64 `json:"total_paid"`
	PaymentCount    uint32 `json:"payment_count"`
	Active          bool   `json:"active"`
}

// PaymentResponse reports an executed payment.
type PaymentResponse struct {
	Subscription     SubscriptionResponse `json:"subscription"`
	Amount           uint64               `json:"amount"`
	ProtocolFee      uint64               `json:"protocol_fee"`
	MerchantReceived uint64               `json:"merchant_received"`
	SharesRedeemed   uint64               `json:"shares_redeemed"`
	Redeemed         uint64               `json:"redeemed"`
}

// WhoAmIResponse echoes the authenticated principal.
type WhoAmIResponse struct {
	Principal string `json:"principal"`
}

// WebhookEndpointRequest is the request body for PUT /merchants/me/webhook.
// An empty secret asks the server to generate one.
type WebhookEndpointRequest struct {
	URL    string `json:"url" binding:"required,url,max=512" sanitize:"trim"`
	Secret string `json:"secret" binding:"omitempty,min=16,max=128" sanitize:"trim"`
}

// WebhookEndpointResponse describes a merchant's webhook endpoint. Secret is
// only returned when the endpoint is saved.
type WebhookEndpointResponse struct {
	Merchant  string `json:"merchant"`
	URL       string `json:"url"`
	Active    bool   `json:"active"`
	Secret    string `json:"secret,omitempty"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// WebhookDeliveryResponse is one entry of the delivery log.
type WebhookDeliveryResponse struct {
	ID         string  `json:"id"`
	EventID    string  `json:"event_id"`
	EventType  string  `json:"event_type"`
	URL        string  `json:"url"`
	HTTPStatus *int    `json:"http_status"`
	Attempt    int     `json:"attempt"`
	Status     string  `json:"status"`
	LastError  *string `json:"last_error"`
	CreatedAt  string  `json:"created_at"`
	UpdatedAt  string  `json:"updated_at"`
}

// RevenuePointResponse is merchant revenue on one UTC day (YYYY-MM-DD).
type RevenuePointResponse struct {
	Date    string `json:"date"`
	Revenue uint64 `json:"revenue"`
}

// GrowthPointResponse is the running count of new subscribers on one UTC day.
type GrowthPointResponse struct {
	Date        string `json:"date"`
	Subscribers int    `json:"subscribers"`
}

// ChurnResponse is the cancelled share of a merchant's subscriptions.
type ChurnResponse struct {
	TotalSubscriptions     int     `json:"total_subscriptions"`
	CancelledSubscriptions int     `json:"cancelled_subscriptions"`
	ChurnRate              float64 `json:"churn_rate"`
}

// PlanPerformanceResponse summarises one plan.
type PlanPerformanceResponse struct {
	PlanKey                 string `json:"plan_key"`
	PlanID                  string `json:"plan_id"`
	PlanName                string `json:"plan_name"`
	Active                  bool   `json:"active"`
	Subscribers             uint32 `json:"subscribers"`
	Revenue                 uint64 `json:"revenue"`
	AvgRevenuePerSubscriber uint64 `json:"avg_revenue_per_subscriber"`
}

// MerchantSummaryResponse is the merchant dashboard headline.
type MerchantSummaryResponse struct {
	Merchant                string                    `json:"merchant"`
	Currency                string                    `json:"currency"`
	TotalRevenue            uint64                    `json:"total_revenue"`
	ActiveSubscribers       int                       `json:"active_subscribers"`
	TotalPlans              int                       `json:"total_plans"`
	MonthlyRecurringRevenue uint64                    `json:"monthly_recurring_revenue"`
	Plans                   []PlanPerformanceResponse `json:"plans"`
}

// CustomerResponse is one of the merchant's subscribers.
type CustomerResponse struct {
	User                string                 `json:"user"`
	TotalSpent          map[string]uint64      `json:"total_spent"`
	ActiveSubscriptions int                    `json:"active_subscriptions"`
	Subscriptions       []SubscriptionResponse `json:"subscriptions"`
}
