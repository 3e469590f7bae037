package domain

import (
	"time"

	"github.com/google/uuid"
)

// MaxSessionTokenLen bounds anti-replay session tokens.
const MaxSessionTokenLen = 64

// SessionTokenRecord marks a session token as consumed by a subscription.
type SessionTokenRecord struct {
	Token          string    `json:"token"`
	User           string    `json:"user"`
	SubscriptionID uuid.UUID `json:"subscription_id"`
	Used           bool      `json:"used"`
	CreatedAt      time.Time `json:"created_at"`
}
