package handler

import (
	"subscription-ledger/internal/adapter/http/dto"
	"subscription-ledger/internal/core/ports"
	"subscription-ledger/pkg/response"

	"github.com/gin-gonic/gin"
)

// ProtocolHandler handles the protocol fee singleton.
type ProtocolHandler struct {
	protocolSvc ports.ProtocolService
}

// NewProtocolHandler creates a new ProtocolHandler.
func NewProtocolHandler(protocolSvc ports.ProtocolService) *ProtocolHandler {
	return &ProtocolHandler{protocolSvc: protocolSvc}
}

// Initialize handles POST /api/v1/protocol.
func (h *ProtocolHandler) Initialize(c *gin.Context) {
	caller, ok := principal(c)
	if !ok {
		return
	}
	var req dto.InitializeProtocolRequest
	if !bindJSON(c, &req) {
		return
	}

	cfg, err := h.protocolSvc.Initialize(c.Request.Context(), ports.InitializeProtocolRequest{
		Caller:   caller,
		Treasury: req.Treasury,
		FeeBps:   req.FeeBps,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, cfg)
}

// UpdateFee handles PUT /api/v1/protocol/fee.
func (h *ProtocolHandler) UpdateFee(c *gin.Context) {
	caller, ok := principal(c)
	if !ok {
		return
	}
	var req dto.UpdateProtocolFeeRequest
	if !bindJSON(c, &req) {
		return
	}

	cfg, err := h.protocolSvc.UpdateFee(c.Request.Context(), ports.UpdateProtocolFeeRequest{
		Caller: caller,
		FeeBps: req.FeeBps,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, cfg)
}

// Get handles GET /api/v1/protocol.
func (h *ProtocolHandler) Get(c *gin.Context) {
	cfg, err := h.protocolSvc.Get(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, cfg)
}
