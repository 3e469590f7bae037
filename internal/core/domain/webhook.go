package domain

import (
	"time"

	"github.com/google/uuid"
)

// WebhookStatus is the delivery state of one webhook notification.
type WebhookStatus string

const (
	WebhookStatusPending   WebhookStatus = "PENDING"
	WebhookStatusDelivered WebhookStatus = "DELIVERED"
	WebhookStatusFailed    WebhookStatus = "FAILED"
)

// WebhookEndpoint is where a merchant receives its notifications. The signing
// secret is stored encrypted.
type WebhookEndpoint struct {
	Merchant  string    `json:"merchant"`
	URL       string    `json:"url"`
	SecretEnc string    `json:"-"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// WebhookDelivery records one notification and its latest attempt.
type WebhookDelivery struct {
	ID         uuid.UUID     `json:"id"`
	EventID    uuid.UUID     `json:"event_id"`
	EventType  EventType     `json:"event_type"`
	Merchant   string        `json:"merchant"`
	URL        string        `json:"url"`
	Payload    string        `json:"payload"`
	HTTPStatus *int          `json:"http_status"`
	Attempt    int           `json:"attempt"`
	Status     WebhookStatus `json:"status"`
	LastError  *string       `json:"last_error"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

// MerchantEvents are the event types delivered to merchant webhooks.
var MerchantEvents = map[EventType]bool{
	EventMerchantPlanRegistered:  true,
	EventMerchantPlanDeactivated: true,
	EventSubscriptionCreated:     true,
	EventSubscriptionCancelled:   true,
	EventPaymentExecuted:         true,
	EventPaymentFailed:           true,
}
