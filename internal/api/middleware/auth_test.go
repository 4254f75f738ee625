package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mintly/mintly-api/internal/pkg/jwthelper"
)

const testSigningKey = "test-signing-key"

func newAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", NewAuthenticator(testSigningKey).VerifyJWT(), func(ctx *gin.Context) {
		id, err := OrganizerID(ctx)
		if err != nil {
			ctx.Status(http.StatusInternalServerError)
			return
		}
		ctx.String(http.StatusOK, id.String())
	})

	return r
}

func TestVerifyJWT(t *testing.T) {
	organizerID := uuid.New()
	token, err := jwthelper.GenerateToken([]byte(testSigningKey), organizerID, "mintly-test", time.Hour)
	require.NoError(t, err)
	otherKey, err := jwthelper.GenerateToken([]byte("another-key"), organizerID, "mintly-test", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		userAgent  string
		wantStatus int
	}{
		{"valid token", "Bearer " + token, "mintly-test", http.StatusOK},
		{"lowercase scheme", "bearer " + token, "mintly-test", http.StatusOK},
		{"missing header", "", "mintly-test", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + token, "mintly-test", http.StatusUnauthorized},
		{"other signing key", "Bearer " + otherKey, "mintly-test", http.StatusUnauthorized},
		{"other user agent", "Bearer " + token, "curl/8.0", http.StatusUnauthorized},
	}

	r := newAuthRouter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			req.Header.Set("User-Agent", tt.userAgent)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			require.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, organizerID.String(), w.Body.String())
			}
		})
	}
}

func TestOrganizerID_NotAuthenticated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctx, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, err := OrganizerID(ctx)
	assert.Error(t, err)

	id := uuid.New()
	SetOrganizerID(ctx, id)
	got, err := OrganizerID(ctx)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}
