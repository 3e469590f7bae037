package handler

import (
	"net/http"

	"subscription-ledger/internal/adapter/http/dto"
	"subscription-ledger/internal/core/domain"
	"subscription-ledger/internal/core/ports"
	"subscription-ledger/pkg/apperror"
	"subscription-ledger/pkg/response"

	"github.com/gin-gonic/gin"
)

// SubscriptionHandler handles subscribe, cancel and lookup.
type SubscriptionHandler struct {
	subscriptionSvc ports.SubscriptionService
}

// NewSubscriptionHandler creates a new SubscriptionHandler.
func NewSubscriptionHandler(subscriptionSvc ports.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptionSvc: subscriptionSvc}
}

// Subscribe handles POST /api/v1/subscriptions.
func (h *SubscriptionHandler) Subscribe(c *gin.Context) {
	user, ok := principal(c)
	if !ok {
		return
	}
	var req dto.SubscribeRequest
	if !bindJSON(c, &req) {
		return
	}

	sub, err := h.subscriptionSvc.Subscribe(c.Request.Context(), ports.SubscribeRequest{
		User:         user,
		Merchant:     req.Merchant,
		Currency:     req.Currency,
		PlanID:       req.PlanID,
		SessionToken: req.SessionToken,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, toSubscriptionResponse(sub))
}

// Cancel handles DELETE /api/v1/subscriptions/:merchant/:currency.
func (h *SubscriptionHandler) Cancel(c *gin.Context) {
	user, ok := principal(c)
	if !ok {
		return
	}

	err := h.subscriptionSvc.Cancel(c.Request.Context(), ports.CancelRequest{
		User:     user,
		Merchant: c.Param("merchant"),
		Currency: c.Param("currency"),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Get handles GET /api/v1/subscriptions/:user/:merchant/:currency. Only the
// subscriber and the merchant may read it.
func (h *SubscriptionHandler) Get(c *gin.Context) {
	caller, ok := principal(c)
	if !ok {
		return
	}
	key := domain.SubscriptionKey{
		User:     c.Param("user"),
		Merchant: c.Param("merchant"),
		Currency: c.Param("currency"),
	}
	if caller != key.User && caller != key.Merchant {
		response.Error(c, apperror.ErrUnauthorizedWalletAccess())
		return
	}

	sub, err := h.subscriptionSvc.GetSubscription(c.Request.Context(), key)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toSubscriptionResponse(sub))
}
