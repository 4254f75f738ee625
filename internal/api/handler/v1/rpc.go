package v1

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mintly/mintly-api/internal/api/handler/v1/request"
	"github.com/mintly/mintly-api/internal/api/handler/v1/response"
	"github.com/mintly/mintly-api/internal/domain"
)

type LedgerService interface {
	ProcessPayment(ctx context.Context, walletID, vendorID uuid.UUID, amount decimal.Decimal, description string) (uuid.UUID, error)
	TransferFunds(ctx context.Context, fromWalletID, toWalletID uuid.UUID, amount decimal.Decimal, description string) (uuid.UUID, error)
	SendReward(ctx context.Context, eventID, participantID uuid.UUID, amount decimal.Decimal, description string, organizerID uuid.UUID) (uuid.UUID, error)
	WalletTransactions(ctx context.Context, walletID uuid.UUID) ([]domain.Transaction, error)
	EventTransactions(ctx context.Context, eventID, organizerID uuid.UUID) ([]domain.Transaction, error)
}

// RPCHandler serves the ledger calls under /rpc. Arguments use the p_ prefix
// and every call answers 200 with a bare JSON value.
type RPCHandler struct {
	participants ParticipantService
	ledger       LedgerService
}

func NewRPCHandler(participants ParticipantService, ledger LedgerService) *RPCHandler {
	return &RPCHandler{
		participants: participants,
		ledger:       ledger,
	}
}

// HandleJoinEvent godoc
// @Summary      Join an event
// @Description  Creates a participant and a wallet seeded with the event's starting balance. p_join_code is ignored, the server issues the code.
// @Tags         rpc
// @Accept       json
// @Produce      json
// @Param        input  body      request.JoinEventRequest  true  "Arguments"
// @Success      200    {object}  domain.JoinResult
// @Failure      400    {object}  response.Err
// @Failure      404    {object}  response.Err
// @Failure      409    {object}  response.Err
// @Router       /rpc/join_event_secure [post]
func (h *RPCHandler) HandleJoinEvent(ctx *gin.Context) {
	var req request.JoinEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	result, err := h.participants.JoinEvent(ctx.Request.Context(), req.EventID, req.ParticipantName)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleJoinEvent -> h.participants.JoinEvent", err)
		return
	}

	ctx.JSON(http.StatusOK, result)
}

// HandleProcessPayment godoc
// @Summary      Pay a vendor
// @Tags         rpc
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header    string                         false  "Replays the first response for a repeated key"
// @Param        input            body      request.ProcessPaymentRequest  true   "Arguments"
// @Success      200              {string}  string  "transaction id"
// @Failure      400              {object}  response.Err
// @Failure      404              {object}  response.Err
// @Failure      409              {object}  response.Err
// @Failure      422              {object}  response.Err
// @Failure      503              {object}  response.Err
// @Router       /rpc/process_payment_secure [post]
func (h *RPCHandler) HandleProcessPayment(ctx *gin.Context) {
	var req request.ProcessPaymentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		renderRequestErr(ctx, err)
		return
	}

	id, err := h.ledger.ProcessPayment(ctx.Request.Context(), req.WalletID, req.VendorID, req.Amount, req.DescriptionText())
	if err != nil {
		renderServiceErr(ctx, "v1.HandleProcessPayment -> h.ledger.ProcessPayment", err)
		return
	}

	ctx.JSON(http.StatusOK, id.String())
}

// HandleTransferFunds godoc
// @Summary      Transfer between wallets
// @Tags         rpc
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header    string                        false  "Replays the first response for a repeated key"
// @Param        input            body      request.TransferFundsRequest  true   "Arguments"
// @Success      200              {string}  string  "transaction id"
// @Failure      400              {object}  response.Err
// @Failure      404              {object}  response.Err
// @Failure      409              {object}  response.Err
// @Failure      422              {object}  response.Err
// @Failure      503              {object}  response.Err
// @Router       /rpc/transfer_funds_secure [post]
func (h *RPCHandler) HandleTransferFunds(ctx *gin.Context) {
	var req request.TransferFundsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		renderRequestErr(ctx, err)
		return
	}

	id, err := h.ledger.TransferFunds(ctx.Request.Context(), req.FromWalletID, req.ToWalletID, req.Amount, req.DescriptionText())
	if err != nil {
		renderServiceErr(ctx, "v1.HandleTransferFunds -> h.ledger.TransferFunds", err)
		return
	}

	ctx.JSON(http.StatusOK, id.String())
}

// HandleSendReward godoc
// @Summary      Reward a participant
// @Description  Credits the participant's wallet. Only the event organizer can reward.
// @Tags         rpc
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header    string                     false  "Replays the first response for a repeated key"
// @Param        input            body      request.SendRewardRequest  true   "Arguments"
// @Success      200              {string}  string  "transaction id"
// @Failure      400              {object}  response.Err
// @Failure      403              {object}  response.Err
// @Failure      404              {object}  response.Err
// @Failure      409              {object}  response.Err
// @Failure      503              {object}  response.Err
// @Router       /rpc/send_reward_secure [post]
// @Security     BearerAuth
func (h *RPCHandler) HandleSendReward(ctx *gin.Context) {
	organizerID, ok := organizerFromContext(ctx)
	if !ok {
		return
	}

	var req request.SendRewardRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		renderRequestErr(ctx, err)
		return
	}

	id, err := h.ledger.SendReward(ctx.Request.Context(), req.EventID, req.ParticipantID, req.Amount, req.DescriptionText(), organizerID)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleSendReward -> h.ledger.SendReward", err)
		return
	}

	ctx.JSON(http.StatusOK, id.String())
}

// renderRequestErr keeps the invalid_amount code for amount errors caught
// at the boundary.
func renderRequestErr(ctx *gin.Context, err error) {
	if request.IsAmountError(err) {
		response.RenderErr(ctx, response.ErrValidation("invalid_amount", domain.ErrInvalidAmount))
		return
	}

	response.RenderErr(ctx, response.ErrBadRequest(err))
}
