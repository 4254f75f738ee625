package jwthelper

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testKey = []byte("test-signing-key")

func TestGenerateAndParseToken(t *testing.T) {
	organizerID := uuid.New()

	token, err := GenerateToken(testKey, organizerID, "curl/8.0", time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(testKey, token, "curl/8.0")
	require.NoError(t, err)

	id, err := claims.OrganizerID()
	require.NoError(t, err)
	assert.Equal(t, organizerID, id)
}

func TestParseToken_Rejects(t *testing.T) {
	organizerID := uuid.New()
	token, err := GenerateToken(testKey, organizerID, "curl/8.0", time.Hour)
	require.NoError(t, err)

	_, err = ParseToken([]byte("other-key"), token, "curl/8.0")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = ParseToken(testKey, token, "Mozilla/5.0")
	assert.ErrorIs(t, err, ErrUserAgentMismatch)

	_, err = ParseToken(testKey, "not-a-token", "curl/8.0")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestGenerateToken_DefaultTTL(t *testing.T) {
	token, err := GenerateToken(testKey, uuid.New(), "", 0)
	require.NoError(t, err)

	claims, err := ParseToken(testKey, token, "")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(DefaultTTL), claims.ExpiresAt.Time, time.Minute)
}
