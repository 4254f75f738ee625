package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mintly/mintly-api/internal/api/handler/v1/request"
	"github.com/mintly/mintly-api/internal/api/handler/v1/response"
	"github.com/mintly/mintly-api/internal/config"
	"github.com/mintly/mintly-api/internal/domain"
	"github.com/mintly/mintly-api/internal/pkg/jwthelper"
	"github.com/mintly/mintly-api/internal/service"
)

type AuthService interface {
	Signup(ctx context.Context, organizer domain.Organizer) (domain.Organizer, error)
	Login(ctx context.Context, email, password string) (domain.Organizer, error)
}

type OrganizerService interface {
	GetOrganizer(ctx context.Context, id uuid.UUID) (domain.Organizer, error)
}

type AuthHandler struct {
	conf  *config.APIConfig
	svc   AuthService
	orgSvc OrganizerService
}

func NewAuthHandler(conf *config.APIConfig, svc AuthService, orgSvc OrganizerService) *AuthHandler {
	return &AuthHandler{
		conf:  conf,
		svc:   svc,
		orgSvc: orgSvc,
	}
}

// HandleSignup godoc
// @Summary      Signup a new organizer
// @Tags         auth
// @Produce      json
// @Param        request   body      request.SignupRequest true "request body"
// @Success      201      {object}   domain.Organizer
// @Failure      400      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /auth/signup [post]
func (h *AuthHandler) HandleSignup(ctx *gin.Context) {
	var req request.SignupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	organizer, err := h.svc.Signup(ctx.Request.Context(), domain.Organizer{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		if errors.Is(err, service.ErrOrganizerEmailExists) {
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrOrganizerEmailExists))
			return
		}

		err = fmt.Errorf("v1.HandleSignup -> h.svc.Signup -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, organizer)
}

// HandleLogin godoc
// @Summary      Login an organizer
// @Tags         auth
// @Produce      json
// @Param        request   body      request.LoginRequest true "request body"
// @Success      200      {object}   response.LoginResponse
// @Failure      401      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /auth/login [post]
func (h *AuthHandler) HandleLogin(ctx *gin.Context) {
	req := request.LoginRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	organizer, err := h.svc.Login(ctx.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrOrganizerNotFound) || errors.Is(err, service.ErrWrongPassword) {
			response.RenderErr(ctx, response.ErrWrongCredentials(err))

			return
		}

		err = fmt.Errorf("v1.HandleLogin -> h.svc.Login -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	token, err := jwthelper.GenerateToken([]byte(h.conf.JWTSigningKey), organizer.ID, ctx.Request.UserAgent(), h.conf.JWTExpiration)
	if err != nil {
		err = fmt.Errorf("v1.HandleLogin -> jwthelper.GenerateToken() -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, response.LoginResponse{
		Token: token,
		User:  organizer,
	})
}

// HandleMe godoc
// @Summary      Get the authenticated organizer
// @Tags         auth
// @Produce      json
// @Success      200      {object}   domain.Organizer
// @Failure      401      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Router       /auth/me [get]
// @Security     BearerAuth
func (h *AuthHandler) HandleMe(ctx *gin.Context) {
	organizerID, ok := organizerFromContext(ctx)
	if !ok {
		return
	}

	organizer, err := h.orgSvc.GetOrganizer(ctx.Request.Context(), organizerID)
	if err != nil {
		if errors.Is(err, service.ErrOrganizerNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("organizer", "ID", organizerID))
			return
		}

		renderServiceErr(ctx, "v1.HandleMe -> h.orgSvc.GetOrganizer", err)
		return
	}

	ctx.JSON(http.StatusOK, organizer)
}
