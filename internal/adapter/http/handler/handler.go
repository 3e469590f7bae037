package handler

import (
	"strconv"
	"time"

	"subscription-ledger/internal/adapter/http/dto"
	"subscription-ledger/internal/adapter/http/middleware"
	"subscription-ledger/internal/core/domain"
	"subscription-ledger/internal/core/ports"
	"subscription-ledger/pkg/apperror"
	"subscription-ledger/pkg/response"

	"github.com/gin-gonic/gin"
)

const defaultLedgerLimit = 50

// principal returns the authenticated caller or writes AUTH_001.
func principal(c *gin.Context) (string, bool) {
	p := middleware.Principal(c)
	if p == "" {
		response.Error(c, apperror.ErrInvalidToken())
		return "", false
	}
	return p, true
}

// bindJSON decodes and sanitizes the request body or writes VAL_000.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return false
	}
	dto.SanitizeStruct(req)
	return true
}

func queryLimit(c *gin.Context, def int) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		response.Error(c, apperror.Validation("limit must be a non-negative integer"))
		return 0, false
	}
	return n, true
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func toWalletResponse(v *ports.WalletView) dto.WalletResponse {
	w := v.Wallet
	return dto.WalletResponse{
		ID:                 w.ID.String(),
		Owner:              w.Owner,
		Currency:           w.Currency,
		YieldEnabled:       w.YieldEnabled,
		YieldShares:        w.YieldShares,
		TotalSpent:         w.TotalSpent,
		TotalSubscriptions: w.TotalSubscriptions,
		LiquidBalance:      v.LiquidBalance,
		ShareValue:         v.ShareValue,
		Committed:          v.Committed,
		Withdrawable:       v.Withdrawable,
		CreatedAt:          formatTime(w.CreatedAt),
	}
}

func toWalletSummary(w *domain.WalletAccount) dto.WalletSummary {
	return dto.WalletSummary{
		Owner:        w.Owner,
		Currency:     w.Currency,
		YieldEnabled: w.YieldEnabled,
		YieldShares:  w.YieldShares,
		TotalSpent:   w.TotalSpent,
	}
}

func toYieldResponse(r *ports.YieldResult) dto.YieldResponse {
	return dto.YieldResponse{
		Wallet: toWalletSummary(r.Wallet),
		Amount: r.Amount,
		Shares: r.Shares,
		Buffer: r.Buffer,
	}
}

func toLedgerEntryResponse(e *domain.LedgerEntry) dto.LedgerEntryResponse {
	return dto.LedgerEntryResponse{
		ID:        e.ID.String(),
		Kind:      string(e.Kind),
		From:      e.FromAccount,
		To:        e.ToAccount,
		Amount:    e.Amount,
		Reference: e.Reference,
		CreatedAt: formatTime(e.CreatedAt),
	}
}

func toSubscriptionResponse(s *domain.Subscription) dto.SubscriptionResponse {
	return dto.SubscriptionResponse{
		ID:              s.ID.String(),
		User:            s.User,
		Merchant:        s.Merchant,
		Currency:        s.Currency,
		FeeAmount:       s.FeeAmount,
		PaymentInterval: s.PaymentInterval,
		LastPaymentAt:   formatTime(s.LastPaymentAt),
		NextPaymentAt:   formatTime(s.NextPaymentAt()),
		TotalPaid:       s.TotalPaid,
		PaymentCount:    s.PaymentCount,
		Active:          s.Active,
	}
}
