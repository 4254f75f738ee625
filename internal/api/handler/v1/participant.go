package v1

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mintly/mintly-api/internal/domain"
)

type ParticipantService interface {
	JoinEvent(ctx context.Context, eventID uuid.UUID, name string) (domain.JoinResult, error)
	GetByJoinCode(ctx context.Context, code string) (domain.ParticipantWallet, error)
	ListParticipants(ctx context.Context, eventID, organizerID uuid.UUID) ([]domain.ParticipantWallet, error)
}

type BadgeService interface {
	EventBadges(ctx context.Context, eventID uuid.UUID) ([]domain.Badge, error)
	ParticipantBadges(ctx context.Context, participantID uuid.UUID) ([]domain.ParticipantBadge, error)
}

type ParticipantHandler struct {
	svc    ParticipantService
	badges BadgeService
}

func NewParticipantHandler(svc ParticipantService, badges BadgeService) *ParticipantHandler {
	return &ParticipantHandler{
		svc:    svc,
		badges: badges,
	}
}

// HandleGetByJoinCode godoc
// @Summary      Find a participant by join code
// @Description  The lookup ignores case and surrounding spaces
// @Tags         participants
// @Produce      json
// @Param        joinCode  path      string  true  "Join code"
// @Success      200       {object}  domain.ParticipantWallet
// @Failure      404       {object}  response.Err
// @Router       /participants/code/{joinCode} [get]
func (h *ParticipantHandler) HandleGetByJoinCode(ctx *gin.Context) {
	participant, err := h.svc.GetByJoinCode(ctx.Request.Context(), ctx.Param("joinCode"))
	if err != nil {
		renderServiceErr(ctx, "v1.HandleGetByJoinCode -> h.svc.GetByJoinCode", err)
		return
	}

	ctx.JSON(http.StatusOK, participant)
}

// HandleListParticipants godoc
// @Summary      List participants of an event
// @Tags         participants
// @Produce      json
// @Param        eventID  path      string  true  "Event ID"
// @Success      200      {array}   domain.ParticipantWallet
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Router       /events/{eventID}/participants [get]
// @Security     BearerAuth
func (h *ParticipantHandler) HandleListParticipants(ctx *gin.Context) {
	organizerID, ok := organizerFromContext(ctx)
	if !ok {
		return
	}
	eventID, ok := parseUUIDParam(ctx, "eventID")
	if !ok {
		return
	}

	participants, err := h.svc.ListParticipants(ctx.Request.Context(), eventID, organizerID)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleListParticipants -> h.svc.ListParticipants", err)
		return
	}

	ctx.JSON(http.StatusOK, participants)
}

// HandleParticipantBadges godoc
// @Summary      Badges earned by a participant
// @Tags         badges
// @Produce      json
// @Param        participantID  path      string  true  "Participant ID"
// @Success      200            {array}   domain.ParticipantBadge
// @Failure      404            {object}  response.Err
// @Router       /participants/{participantID}/badges [get]
func (h *ParticipantHandler) HandleParticipantBadges(ctx *gin.Context) {
	participantID, ok := parseUUIDParam(ctx, "participantID")
	if !ok {
		return
	}

	badges, err := h.badges.ParticipantBadges(ctx.Request.Context(), participantID)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleParticipantBadges -> h.badges.ParticipantBadges", err)
		return
	}

	ctx.JSON(http.StatusOK, badges)
}

// HandleEventBadges godoc
// @Summary      Badges available in an event
// @Tags         badges
// @Produce      json
// @Param        eventID  path      string  true  "Event ID"
// @Success      200      {array}   domain.Badge
// @Failure      404      {object}  response.Err
// @Router       /events/{eventID}/badges [get]
func (h *ParticipantHandler) HandleEventBadges(ctx *gin.Context) {
	eventID, ok := parseUUIDParam(ctx, "eventID")
	if !ok {
		return
	}

	badges, err := h.badges.EventBadges(ctx.Request.Context(), eventID)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleEventBadges -> h.badges.EventBadges", err)
		return
	}

	ctx.JSON(http.StatusOK, badges)
}
