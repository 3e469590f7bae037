package handler

import (
	"context"

	"subscription-ledger/internal/adapter/http/dto"
	"subscription-ledger/internal/core/ports"
	"subscription-ledger/pkg/response"

	"github.com/gin-gonic/gin"
)

// YieldHandler moves wallet funds in and out of the currency's vault.
type YieldHandler struct {
	vaultSvc ports.VaultService
}

// NewYieldHandler creates a new YieldHandler.
func NewYieldHandler(vaultSvc ports.VaultService) *YieldHandler {
	return &YieldHandler{vaultSvc: vaultSvc}
}

// Enable handles POST /api/v1/wallets/:currency/yield/enable.
func (h *YieldHandler) Enable(c *gin.Context) {
	h.amountOp(c, h.vaultSvc.EnableYield)
}

// Deposit handles POST /api/v1/wallets/:currency/yield/deposit.
func (h *YieldHandler) Deposit(c *gin.Context) {
	h.amountOp(c, h.vaultSvc.DepositToYield)
}

// Withdraw handles POST /api/v1/wallets/:currency/yield/withdraw.
func (h *YieldHandler) Withdraw(c *gin.Context) {
	owner, ok := principal(c)
	if !ok {
		return
	}
	var req dto.SharesRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.vaultSvc.WithdrawFromYield(c.Request.Context(), ports.YieldRedeemRequest{
		Owner:    owner,
		Currency: c.Param("currency"),
		Shares:   req.Shares,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toYieldResponse(result))
}

// Disable handles POST /api/v1/wallets/:currency/yield/disable.
func (h *YieldHandler) Disable(c *gin.Context) {
	owner, ok := principal(c)
	if !ok {
		return
	}

	result, err := h.vaultSvc.DisableYield(c.Request.Context(), ports.YieldOwnerRequest{
		Owner:    owner,
		Currency: c.Param("currency"),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toYieldResponse(result))
}

type yieldAmountFunc func(ctx context.Context, req ports.YieldAmountRequest) (*ports.YieldResult, error)

func (h *YieldHandler) amountOp(c *gin.Context, op yieldAmountFunc) {
	owner, ok := principal(c)
	if !ok {
		return
	}
	var req dto.AmountRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := op(c.Request.Context(), ports.YieldAmountRequest{
		Owner:    owner,
		Currency: c.Param("currency"),
		Amount:   req.Amount,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toYieldResponse(result))
}
