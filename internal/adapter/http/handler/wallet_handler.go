package handler

import (
	"subscription-ledger/internal/adapter/http/dto"
	"subscription-ledger/internal/core/ports"
	"subscription-ledger/pkg/response"

	"github.com/gin-gonic/gin"
)

// WalletHandler handles wallet records, deposits and ledger queries.
type WalletHandler struct {
	walletSvc ports.WalletService
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(walletSvc ports.WalletService) *WalletHandler {
	return &WalletHandler{walletSvc: walletSvc}
}

// Create handles POST /api/v1/wallets.
func (h *WalletHandler) Create(c *gin.Context) {
	owner, ok := principal(c)
	if !ok {
		return
	}
	var req dto.CreateWalletRequest
	if !bindJSON(c, &req) {
		return
	}

	wallet, err := h.walletSvc.CreateWallet(c.Request.Context(), owner, req.Currency)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, toWalletResponse(&ports.WalletView{Wallet: wallet}))
}

// Get handles GET /api/v1/wallets/:currency.
func (h *WalletHandler) Get(c *gin.Context) {
	owner, ok := principal(c)
	if !ok {
		return
	}

	view, err := h.walletSvc.GetWallet(c.Request.Context(), owner, c.Param("currency"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toWalletResponse(view))
}

// Deposit handles POST /api/v1/wallets/:currency/deposit.
func (h *WalletHandler) Deposit(c *gin.Context) {
	owner, ok := principal(c)
	if !ok {
		return
	}
	var req dto.AmountRequest
	if !bindJSON(c, &req) {
		return
	}

	view, err := h.walletSvc.Deposit(c.Request.Context(), ports.WalletAmountRequest{
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

// Ledger handles GET /api/v1/wallets/:currency/ledger?limit=N.
func (h *WalletHandler) Ledger(c *gin.Context) {
	owner, ok := principal(c)
	if !ok {
		return
	}
	limit, ok := queryLimit(c, defaultLedgerLimit)
	if !ok {
		return
	}

	entries, err := h.walletSvc.ListLedger(c.Request.Context(), owner, c.Param("currency"), limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.LedgerEntryResponse, 0, len(entries))
	for i := range entries {
		items = append(items, toLedgerEntryResponse(&entries[i]))
	}
	response.OK(c, items)
}
