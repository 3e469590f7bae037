package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EventType names a domain event.
type EventType string

const (
	EventProtocolInitialized       EventType = "protocol.initialized"
	EventProtocolFeeUpdated        EventType = "protocol.fee_updated"
	EventYieldVaultInitialized     EventType = "vault.initialized"
	EventVaultRebalanced           EventType = "vault.rebalanced"
	EventEmergencyModeChanged      EventType = "vault.emergency_mode_changed"
	EventSubscriptionWalletCreated EventType = "wallet.created"
	EventWalletDeposit             EventType = "wallet.deposit"
	EventWalletWithdrawal          EventType = "wallet.withdrawal"
	EventYieldEnabled              EventType = "yield.enabled"
	EventYieldDeposit              EventType = "yield.deposit"
	EventYieldWithdrawal           EventType = "yield.withdrawal"
	EventYieldDisabled             EventType = "yield.disabled"
	EventMerchantPlanRegistered    EventType = "plan.registered"
	EventMerchantPlanDeactivated   EventType = "plan.deactivated"
	EventSubscriptionCreated       EventType = "subscription.created"
	EventSubscriptionCancelled     EventType = "subscription.cancelled"
	EventPaymentExecuted           EventType = "payment.executed"
	EventPaymentFailed             EventType = "payment.failed"
	EventAccessDenied              EventType = "security.access_denied"
)

// Event is an immutable fact emitted after a committed state change.
type Event struct {
	ID         uuid.UUID       `json:"id"`
	Type       EventType       `json:"type"`
	Subject    string          `json:"subject"`
	Data       json.RawMessage `json:"data"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// NewEvent marshals data into a new event.
func NewEvent(typ EventType, subject string, data any, now time.Time) (*Event, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshal %s event: %w", typ, err)
	}
	return &Event{
		ID:         uuid.New(),
		Type:       typ,
		Subject:    subject,
		Data:       raw,
		OccurredAt: now,
	}, nil
}

// RoutingKey is the message-bus routing key for the event.
func (e *Event) RoutingKey() string {
	return "ledger." + string(e.Type)
}

// YieldEnabledData is the payload of EventYieldEnabled.
type YieldEnabledData struct {
	Owner    string `json:"owner"`
	Currency string `json:"currency"`
	Amount   uint64 `json:"amount"`
	Buffer   uint64 `json:"buffer"`
	Shares   uint64 `json:"shares"`
}

// YieldMovementData is the payload of yield deposit, withdrawal and disable events.
type YieldMovementData struct {
	Owner    string `json:"owner"`
	Currency string `json:"currency"`
	Amount   uint64 `json:"amount"`
	Shares   uint64 `json:"shares"`
}

// WalletMovementData is the payload of wallet deposit and withdrawal events.
type WalletMovementData struct {
	Owner    string `json:"owner"`
	Currency string `json:"currency"`
	Amount   uint64 `json:"amount"`
}

// EmergencyModeData is the payload of EventEmergencyModeChanged.
type EmergencyModeData struct {
	Currency   string `json:"currency"`
	Enabled    bool   `json:"enabled"`
	FrozenRate uint64 `json:"frozen_rate"`
}

// PaymentExecutedData is the payload of EventPaymentExecuted.
type PaymentExecutedData struct {
	SubscriptionID   uuid.UUID `json:"subscription_id"`
	User             string    `json:"user"`
	Merchant         string    `json:"merchant"`
	Currency         string    `json:"currency"`
	Amount           uint64    `json:"amount"`
	ProtocolFee      uint64    `json:"protocol_fee"`
	MerchantReceived uint64    `json:"merchant_received"`
	PaymentNumber    uint32    `json:"payment_number"`
	SharesRedeemed   uint64    `json:"shares_redeemed"`
}

// PaymentFailedData is the payload of EventPaymentFailed. The subscription
// stays due and is retried on the next scheduler run.
type PaymentFailedData struct {
	SubscriptionID uuid.UUID `json:"subscription_id"`
	User           string    `json:"user"`
	Merchant       string    `json:"merchant"`
	Currency       string    `json:"currency"`
	Amount         uint64    `json:"amount"`
	ErrorCode      string    `json:"error_code"`
	Reason         string    `json:"reason"`
}

// AccessDeniedData is the payload of EventAccessDenied.
type AccessDeniedData struct {
	Method    string `json:"method"`
	Path      string `json:"path"`
	Status    int    `json:"status"`
	ErrorCode string `json:"error_code,omitempty"`
	ClientIP  string `json:"client_ip"`
	RequestID string `json:"request_id,omitempty"`
}
