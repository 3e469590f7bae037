package handler

import (
	"subscription-ledger/internal/adapter/http/dto"
	"subscription-ledger/internal/core/domain"
	"subscription-ledger/internal/core/ports"
	"subscription-ledger/pkg/response"

	"github.com/gin-gonic/gin"
)

// WebhookHandler manages the calling merchant's webhook endpoint.
type WebhookHandler struct {
	webhookSvc ports.WebhookService
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(webhookSvc ports.WebhookService) *WebhookHandler {
	return &WebhookHandler{webhookSvc: webhookSvc}
}

// Set handles PUT /api/v1/merchants/me/webhook.
func (h *WebhookHandler) Set(c *gin.Context) {
	merchant, ok := principal(c)
	if !ok {
		return
	}
	var req dto.WebhookEndpointRequest
	if !bindJSON(c, &req) {
		return
	}

	view, err := h.webhookSvc.SetEndpoint(c.Request.Context(), ports.SetWebhookRequest{
		Merchant: merchant,
		URL:      req.URL,
		Secret:   req.Secret,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toWebhookEndpointResponse(view))
}

// Get handles GET /api/v1/merchants/me/webhook.
func (h *WebhookHandler) Get(c *gin.Context) {
	merchant, ok := principal(c)
	if !ok {
		return
	}
	view, err := h.webhookSvc.GetEndpoint(c.Request.Context(), merchant)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toWebhookEndpointResponse(view))
}

// Deliveries handles GET /api/v1/merchants/me/webhook/deliveries?limit=N.
func (h *WebhookHandler) Deliveries(c *gin.Context) {
	merchant, ok := principal(c)
	if !ok {
		return
	}
	limit, ok := queryLimit(c, defaultLedgerLimit)
	if !ok {
		return
	}

	deliveries, err := h.webhookSvc.ListDeliveries(c.Request.Context(), merchant, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	items := make([]dto.WebhookDeliveryResponse, 0, len(deliveries))
	for i := range deliveries {
		items = append(items, toWebhookDeliveryResponse(&deliveries[i]))
	}
	response.OK(c, items)
}

func toWebhookEndpointResponse(v *ports.WebhookEndpointView) dto.WebhookEndpointResponse {
	return dto.WebhookEndpointResponse{
		Merchant:  v.Endpoint.Merchant,
		URL:       v.Endpoint.URL,
		Active:    v.Endpoint.Active,
		Secret:    v.Secret,
		CreatedAt: formatTime(v.Endpoint.CreatedAt),
		UpdatedAt: formatTime(v.Endpoint.UpdatedAt),
	}
}

func toWebhookDeliveryResponse(d *domain.WebhookDelivery) dto.WebhookDeliveryResponse {
	return dto.WebhookDeliveryResponse{
		ID:         d.ID.String(),
		EventID:    d.EventID.String(),
		EventType:  string(d.EventType),
		URL:        d.URL,
		HTTPStatus: d.HTTPStatus,
		Attempt:    d.Attempt,
		Status:     string(d.Status),
		LastError:  d.LastError,
		CreatedAt:  formatTime(d.CreatedAt),
		UpdatedAt:  formatTime(d.UpdatedAt),
	}
}
