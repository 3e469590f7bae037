package domain

import (
	"time"

	"github.com/google/uuid"
)

// MaxProtocolFeeBps caps the protocol fee at 10%.
const MaxProtocolFeeBps uint16 = 1000

// BpsDenominator is the basis-point scale.
const BpsDenominator uint64 = 10_000

// ProtocolConfig is the protocol-wide singleton.
type ProtocolConfig struct {
	ID        uuid.UUID `json:"id"`
	Authority string    `json:"authority"`
	Treasury  string    `json:"treasury"`
	FeeBps    uint16    `json:"fee_bps"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsAuthority reports whether principal may change protocol parameters.
func (p *ProtocolConfig) IsAuthority(principal string) bool {
	return p.Authority == principal
}
