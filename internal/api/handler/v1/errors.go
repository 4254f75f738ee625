package v1

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mintly/mintly-api/internal/api/handler/v1/response"
	"github.com/mintly/mintly-api/internal/api/middleware"
	"github.com/mintly/mintly-api/internal/domain"
)

const busyRetryAfter = time.Second

type domainError struct {
	err  error
	code string
}

// Most specific first. The class sentinels come last as a fallback.
var domainErrors = []domainError{
	{domain.ErrInvalidAmount, "invalid_amount"},
	{domain.ErrInvalidInput, "invalid_input"},
	{domain.ErrEventNotFound, "event_not_found"},
	{domain.ErrParticipantNotFound, "participant_not_found"},
	{domain.ErrWalletNotFound, "wallet_not_found"},
	{domain.ErrVendorNotFound, "vendor_not_found"},
	{domain.ErrOrganizerNotFound, "organizer_not_found"},
	{domain.ErrSameWallet, "same_wallet"},
	{domain.ErrCrossEvent, "cross_event"},
	{domain.ErrEventInactive, "event_inactive"},
	{domain.ErrEventExpired, "event_expired"},
	{domain.ErrBusy, "busy"},
	{domain.ErrNotEventOrganizer, "not_event_organizer"},
	{domain.ErrInsufficientFunds, "insufficient_funds"},
	{domain.ErrValidation, "invalid_input"},
	{domain.ErrNotFound, "not_found"},
	{domain.ErrState, "invalid_state"},
	{domain.ErrConcurrency, "busy"},
	{domain.ErrUnauthorized, "unauthorized"},
}

// renderServiceErr maps a service error to its HTTP status by class. Errors
// outside the domain taxonomy become a logged 500.
func renderServiceErr(ctx *gin.Context, op string, err error) {
	for _, de := range domainErrors {
		if !errors.Is(err, de.err) {
			continue
		}

		msg := domainMessage(err, de.err)
		switch {
		case errors.Is(de.err, domain.ErrValidation):
			response.RenderErr(ctx, response.ErrValidation(de.code, msg))
		case errors.Is(de.err, domain.ErrNotFound):
			resp := response.ErrNotFoundErr(msg)
			resp.Code = de.code
			response.RenderErr(ctx, resp)
		case errors.Is(de.err, domain.ErrInsufficientFunds):
			response.RenderErr(ctx, response.ErrUnprocessable(de.code, msg))
		case errors.Is(de.err, domain.ErrState):
			response.RenderErr(ctx, response.ErrConflict(de.code, msg))
		case errors.Is(de.err, domain.ErrConcurrency):
			response.RenderErr(ctx, response.ErrServiceUnavailable(msg, busyRetryAfter))
		case errors.Is(de.err, domain.ErrUnauthorized):
			resp := response.ErrPermissionDenied(msg)
			resp.Code = de.code
			response.RenderErr(ctx, resp)
		}
		return
	}

	if errors.Is(err, domain.ErrCodeExhausted) {
		response.RenderErr(ctx, response.ErrServiceUnavailable(domain.ErrCodeExhausted, busyRetryAfter))
		return
	}

	response.RenderErr(ctx, response.ErrInternalServerError(fmt.Errorf("%s -> %w", op, err)))
}

// domainMessage strips the call chain prefixes and any storage detail from
// err. Field specific validation messages are kept.
func domainMessage(err, sentinel error) error {
	if sentinel != domain.ErrInvalidInput {
		return sentinel
	}

	msg := err.Error()
	if i := strings.LastIndex(msg, " -> "); i >= 0 {
		msg = msg[i+len(" -> "):]
	}

	return errors.New(msg)
}

func parseUUIDParam(ctx *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param(name))
	if err != nil {
		response.RenderErr(ctx, response.ErrValidation("invalid_input", fmt.Errorf("invalid %s", name)))
		return uuid.Nil, false
	}

	return id, true
}

func organizerFromContext(ctx *gin.Context) (uuid.UUID, bool) {
	id, err := middleware.OrganizerID(ctx)
	if err != nil {
		response.RenderErr(ctx, response.ErrUnauthorized(err))
		return uuid.Nil, false
	}

	return id, true
}
