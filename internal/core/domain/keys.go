package domain

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// recordNamespace seeds every deterministic record ID.
var recordNamespace = uuid.MustParse("9b7e3c52-4f1a-5d8e-a6c0-1d2f3e4a5b6c")

var (
	principalRe = regexp.MustCompile(`^[A-Za-z0-9_\-\.@]{1,64}$`)
	currencyRe  = regexp.MustCompile(`^[A-Za-z0-9_\-]{1,44}$`)
)

// ValidPrincipal reports whether p can be used as an owner, merchant or authority identity.
func ValidPrincipal(p string) bool {
	return principalRe.MatchString(p)
}

// ValidCurrency reports whether c can be used as a currency identity.
func ValidCurrency(c string) bool {
	return currencyRe.MatchString(c)
}

func recordID(kind string, parts ...string) uuid.UUID {
	key := kind + ":" + strings.Join(parts, ":")
	return uuid.NewSHA1(recordNamespace, []byte(key))
}

// ProtocolConfigID is the fixed key of the protocol singleton.
func ProtocolConfigID() uuid.UUID { return recordID("protocol") }

// WalletID derives the wallet key from (owner, currency).
func WalletID(owner, currency string) uuid.UUID { return recordID("wallet", owner, currency) }

// VaultID derives the vault key from the currency.
func VaultID(currency string) uuid.UUID { return recordID("vault", currency) }

// PlanKey derives the plan key from (merchant, currency, plan id).
func PlanKey(merchant, currency, planID string) uuid.UUID {
	return recordID("plan", merchant, currency, planID)
}

// SubscriptionID derives the subscription key from (user, merchant, currency).
func SubscriptionID(user, merchant, currency string) uuid.UUID {
	return recordID("subscription", user, merchant, currency)
}

// Token account references. Balances are held in the ledger keyed by these strings.

func WalletLiquidAccount(owner, currency string) string { return "wallet:" + owner + ":" + currency }

func VaultBufferAccount(currency string) string { return "vault:" + currency + ":buffer" }

func VaultPositionAccount(currency string) string { return "vault:" + currency + ":position" }

func MerchantAccount(merchant, currency string) string { return "merchant:" + merchant + ":" + currency }

func TreasuryAccount(treasury, currency string) string { return "treasury:" + treasury + ":" + currency }

func PayoutAccount(owner, currency string) string { return "payout:" + owner + ":" + currency }

// FundingAccount is the external source credited into wallets on deposit.
func FundingAccount(currency string) string { return "funding:" + currency }
