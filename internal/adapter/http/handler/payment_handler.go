package handler

import (
	"subscription-ledger/internal/adapter/http/dto"
	"subscription-ledger/internal/core/domain"
	"subscription-ledger/internal/core/ports"
	"subscription-ledger/pkg/response"

	"github.com/gin-gonic/gin"
)

// PaymentHandler handles payment execution and idle-fund withdrawal.
type PaymentHandler struct {
	paymentSvc ports.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(paymentSvc ports.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentSvc: paymentSvc}
}

// Execute handles POST /api/v1/subscriptions/:user/:merchant/:currency/execute.
// Any authenticated caller may crank a due payment.
func (h *PaymentHandler) Execute(c *gin.Context) {
	if _, ok := principal(c); !ok {
		return
	}

	result, err := h.paymentSvc.ExecutePayment(c.Request.Context(), domain.SubscriptionKey{
		User:     c.Param("user"),
		Merchant: c.Param("merchant"),
		Currency: c.Param("currency"),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.PaymentResponse{
		Subscription:     toSubscriptionResponse(result.Subscription),
		Amount:           result.Amount,
		ProtocolFee:      result.ProtocolFee,
		MerchantReceived: result.MerchantReceived,
		SharesRedeemed:   result.SharesRedeemed,
		Redeemed:         result.Redeemed,
	})
}

// WithdrawIdle handles POST /api/v1/wallets/:currency/withdraw.
func (h *PaymentHandler) WithdrawIdle(c *gin.Context) {
	owner, ok := principal(c)
	if !ok {
		return
	}
	var req dto.AmountRequest
	if !bindJSON(c, &req) {
		return
	}

	view, err := h.paymentSvc.WithdrawIdle(c.Request.Context(), ports.WalletAmountRequest{
		Owner:    owner,
		Currency: c.Param("currency"),
		Amount:   req.Amount,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toWalletResponse(view))
}
