package handler

import (
	"subscription-ledger/internal/adapter/http/dto"
	"subscription-ledger/internal/core/ports"
	"subscription-ledger/pkg/response"

	"github.com/gin-gonic/gin"
)

// PlanHandler handles merchant plan endpoints. The caller is the merchant.
type PlanHandler struct {
	subscriptionSvc ports.SubscriptionService
}

// NewPlanHandler creates a new PlanHandler.
func NewPlanHandler(subscriptionSvc ports.SubscriptionService) *PlanHandler {
	return &PlanHandler{subscriptionSvc: subscriptionSvc}
}

// Register handles POST /api/v1/plans.
func (h *PlanHandler) Register(c *gin.Context) {
	merchant, ok := principal(c)
	if !ok {
		return
	}
	var req dto.RegisterPlanRequest
	if !bindJSON(c, &req) {
		return
	}

	plan, err := h.subscriptionSvc.RegisterPlan(c.Request.Context(), ports.RegisterPlanRequest{
		Merchant:        merchant,
		Currency:        req.Currency,
		PlanID:          req.PlanID,
		PlanName:        req.PlanName,
		FeeAmount:       req.FeeAmount,
		PaymentInterval: req.PaymentInterval,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, plan)
}

// Deactivate handles POST /api/v1/plans/:currency/:plan_id/deactivate.
func (h *PlanHandler) Deactivate(c *gin.Context) {
	merchant, ok := principal(c)
	if !ok {
		return
	}

	plan, err := h.subscriptionSvc.DeactivatePlan(c.Request.Context(), ports.DeactivatePlanRequest{
		Merchant: merchant,
		Currency: c.Param("currency"),
		PlanID:   c.Param("plan_id"),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, plan)
}
