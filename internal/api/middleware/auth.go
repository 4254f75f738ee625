package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mintly/mintly-api/internal/api/handler/v1/response"
	"github.com/mintly/mintly-api/internal/pkg/jwthelper"
)

const organizerIDKey = "organizerID"

var (
	errMissingToken = errors.New("missing bearer token")
	errNoOrganizer  = errors.New("no authenticated organizer")
)

type Authenticator struct {
	key []byte
}

func NewAuthenticator(signingKey string) *Authenticator {
	return &Authenticator{
		key: []byte(signingKey),
	}
}

// VerifyJWT rejects requests without a valid bearer token and stores the
// organizer id for the handlers.
func (a *Authenticator) VerifyJWT() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		tokenString := extractBearer(ctx.GetHeader("Authorization"))
		if tokenString == "" {
			response.RenderErr(ctx, response.ErrUnauthorized(errMissingToken))
			return
		}

		claims, err := jwthelper.ParseToken(a.key, tokenString, ctx.Request.UserAgent())
		if err != nil {
			response.RenderErr(ctx, response.ErrUnauthorized(jwthelper.ErrInvalidToken))
			return
		}

		organizerID, err := claims.OrganizerID()
		if err != nil {
			response.RenderErr(ctx, response.ErrUnauthorized(jwthelper.ErrInvalidToken))
			return
		}

		ctx.Set(organizerIDKey, organizerID)
		ctx.Next()
	}
}

// OrganizerID returns the organizer authenticated by VerifyJWT.
func OrganizerID(ctx *gin.Context) (uuid.UUID, error) {
	value, ok := ctx.Get(organizerIDKey)
	if !ok {
		return uuid.Nil, errNoOrganizer
	}

	id, ok := value.(uuid.UUID)
	if !ok {
		return uuid.Nil, errNoOrganizer
	}

	return id, nil
}

// SetOrganizerID is used by tests that bypass VerifyJWT.
func SetOrganizerID(ctx *gin.Context, id uuid.UUID) {
	ctx.Set(organizerIDKey, id)
}

func extractBearer(header string) string {
	const prefix = "bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}

	return strings.TrimSpace(header[len(prefix):])
}
