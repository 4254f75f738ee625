package v1

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mintly/mintly-api/internal/api/handler/v1/request"
	"github.com/mintly/mintly-api/internal/api/handler/v1/response"
	"github.com/mintly/mintly-api/internal/domain"
)

type EventService interface {
	CreateEvent(ctx context.Context, organizerID uuid.UUID, event domain.Event) (domain.Event, error)
	GetEvent(ctx context.Context, id uuid.UUID) (domain.Event, error)
	ListMyEvents(ctx context.Context, organizerID uuid.UUID) ([]domain.Event, error)
	UpdateEvent(ctx context.Context, eventID, organizerID uuid.UUID, update domain.EventUpdate) (domain.Event, error)
	GetEventStats(ctx context.Context, eventID, organizerID uuid.UUID) (domain.EventStats, error)
}

type EventHandler struct {
	svc EventService
}

func NewEventHandler(svc EventService) *EventHandler {
	return &EventHandler{
		svc: svc,
	}
}

// HandleCreateEvent godoc
// @Summary      Create an event
// @Description  Creates an event with its own currency and seeds the default badges
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        input  body      request.CreateEventRequest  true  "Event configuration"
// @Success      201    {object}  domain.Event
// @Failure      400    {object}  response.Err
// @Failure      401    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /events [post]
// @Security     BearerAuth
func (h *EventHandler) HandleCreateEvent(ctx *gin.Context) {
	organizerID, ok := organizerFromContext(ctx)
	if !ok {
		return
	}

	var req request.CreateEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	event, err := h.svc.CreateEvent(ctx.Request.Context(), organizerID, req.ToDomain())
	if err != nil {
		renderServiceErr(ctx, "v1.HandleCreateEvent -> h.svc.CreateEvent", err)
		return
	}

	ctx.JSON(http.StatusCreated, event)
}

// HandleListMyEvents godoc
// @Summary      List my events
// @Tags         events
// @Produce      json
// @Success      200  {array}   domain.Event
// @Failure      401  {object}  response.Err
// @Router       /events [get]
// @Security     BearerAuth
func (h *EventHandler) HandleListMyEvents(ctx *gin.Context) {
	organizerID, ok := organizerFromContext(ctx)
	if !ok {
		return
	}

	events, err := h.svc.ListMyEvents(ctx.Request.Context(), organizerID)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleListMyEvents -> h.svc.ListMyEvents", err)
		return
	}

	ctx.JSON(http.StatusOK, events)
}

// HandleGetEvent godoc
// @Summary      Get an event
// @Tags         events
// @Produce      json
// @Param        eventID  path      string  true  "Event ID"
// @Success      200      {object}  domain.Event
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Router       /events/{eventID} [get]
func (h *EventHandler) HandleGetEvent(ctx *gin.Context) {
	eventID, ok := parseUUIDParam(ctx, "eventID")
	if !ok {
		return
	}

	event, err := h.svc.GetEvent(ctx.Request.Context(), eventID)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleGetEvent -> h.svc.GetEvent", err)
		return
	}

	ctx.JSON(http.StatusOK, event)
}

// HandleUpdateEvent godoc
// @Summary      Update an event
// @Description  Only the organizer can update. Existing wallets keep their balances.
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        eventID  path      string                      true  "Event ID"
// @Param        input    body      request.UpdateEventRequest  true  "Fields to change"
// @Success      200      {object}  domain.Event
// @Failure      400      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Router       /events/{eventID} [patch]
// @Security     BearerAuth
func (h *EventHandler) HandleUpdateEvent(ctx *gin.Context) {
	organizerID, ok := organizerFromContext(ctx)
	if !ok {
		return
	}
	eventID, ok := parseUUIDParam(ctx, "eventID")
	if !ok {
		return
	}

	var req request.UpdateEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	event, err := h.svc.UpdateEvent(ctx.Request.Context(), eventID, organizerID, req.ToDomain())
	if err != nil {
		renderServiceErr(ctx, "v1.HandleUpdateEvent -> h.svc.UpdateEvent", err)
		return
	}

	ctx.JSON(http.StatusOK, event)
}

// HandleGetEventStats godoc
// @Summary      Event statistics
// @Tags         events
// @Produce      json
// @Param        eventID  path      string  true  "Event ID"
// @Success      200      {object}  domain.EventStats
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Router       /events/{eventID}/stats [get]
// @Security     BearerAuth
func (h *EventHandler) HandleGetEventStats(ctx *gin.Context) {
	organizerID, ok := organizerFromContext(ctx)
	if !ok {
		return
	}
	eventID, ok := parseUUIDParam(ctx, "eventID")
	if !ok {
		return
	}

	stats, err := h.svc.GetEventStats(ctx.Request.Context(), eventID, organizerID)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleGetEventStats -> h.svc.GetEventStats", err)
		return
	}

	ctx.JSON(http.StatusOK, stats)
}
