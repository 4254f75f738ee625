package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type TransactionHandler struct {
	ledger LedgerService
}

func NewTransactionHandler(ledger LedgerService) *TransactionHandler {
	return &TransactionHandler{
		ledger: ledger,
	}
}

// HandleWalletTransactions godoc
// @Summary      Wallet history
// @Tags         transactions
// @Produce      json
// @Param        walletID  path      string  true  "Wallet ID"
// @Success      200       {array}   domain.Transaction
// @Failure      400       {object}  response.Err
// @Router       /wallets/{walletID}/transactions [get]
func (h *TransactionHandler) HandleWalletTransactions(ctx *gin.Context) {
	walletID, ok := parseUUIDParam(ctx, "walletID")
	if !ok {
		return
	}

	txns, err := h.ledger.WalletTransactions(ctx.Request.Context(), walletID)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleWalletTransactions -> h.ledger.WalletTransactions", err)
		return
	}

	ctx.JSON(http.StatusOK, txns)
}

// HandleEventTransactions godoc
// @Summary      Event ledger export
// @Tags         transactions
// @Produce      json
// @Param        eventID  path      string  true  "Event ID"
// @Success      200      {array}   domain.Transaction
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Router       /events/{eventID}/transactions [get]
// @Security     BearerAuth
func (h *TransactionHandler) HandleEventTransactions(ctx *gin.Context) {
	organizerID, ok := organizerFromContext(ctx)
	if !ok {
		return
	}
	eventID, ok := parseUUIDParam(ctx, "eventID")
	if !ok {
		return
	}

	txns, err := h.ledger.EventTransactions(ctx.Request.Context(), eventID, organizerID)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleEventTransactions -> h.ledger.EventTransactions", err)
		return
	}

	ctx.JSON(http.StatusOK, txns)
}
