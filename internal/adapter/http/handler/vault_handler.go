package handler

import (
	"subscription-ledger/internal/adapter/http/dto"
	"subscription-ledger/internal/core/ports"
	"subscription-ledger/pkg/response"

	"github.com/gin-gonic/gin"
)

// VaultHandler handles vault administration and quotes.
type VaultHandler struct {
	vaultSvc ports.VaultService
}

// NewVaultHandler creates a new VaultHandler.
func NewVaultHandler(vaultSvc ports.VaultService) *VaultHandler {
	return &VaultHandler{vaultSvc: vaultSvc}
}

// Initialize handles POST /api/v1/vaults.
func (h *VaultHandler) Initialize(c *gin.Context) {
	caller, ok := principal(c)
	if !ok {
		return
	}
	var req dto.InitializeVaultRequest
	if !bindJSON(c, &req) {
		return
	}

	vault, err := h.vaultSvc.InitializeVault(c.Request.Context(), ports.InitializeVaultRequest{
		Caller:          caller,
		Currency:        req.Currency,
		TargetBufferBps: req.TargetBufferBps,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, vault)
}

// Get handles GET /api/v1/vaults/:currency.
func (h *VaultHandler) Get(c *gin.Context) {
	quote, err := h.vaultSvc.GetVault(c.Request.Context(), c.Param("currency"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, quote)
}

// Rebalance handles POST /api/v1/vaults/:currency/rebalance.
func (h *VaultHandler) Rebalance(c *gin.Context) {
	caller, ok := principal(c)
	if !ok {
		return
	}

	result, err := h.vaultSvc.Rebalance(c.Request.Context(), ports.VaultAdminRequest{
		Caller:   caller,
		Currency: c.Param("currency"),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// SetEmergency handles PUT /api/v1/vaults/:currency/emergency.
func (h *VaultHandler) SetEmergency(c *gin.Context) {
	caller, ok := principal(c)
	if !ok {
		return
	}
	var req dto.EmergencyModeRequest
	if !bindJSON(c, &req) {
		return
	}

	vault, err := h.vaultSvc.SetEmergencyMode(c.Request.Context(), ports.EmergencyModeRequest{
		Caller:   caller,
		Currency: c.Param("currency"),
		Enabled:  *req.Enabled,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, vault)
}
