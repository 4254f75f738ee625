package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mintly/mintly-api/internal/domain"
	"github.com/mintly/mintly-api/internal/repository"
	"github.com/mintly/mintly-api/internal/repository/dao"
)

func TestAuthService_SignupAndLogin(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewOrganizerRepository(dao.NewOrganizerDAO(db))
	auth := NewAuthService(repo)
	organizers := NewOrganizerService(repo)
	ctx := context.Background()

	created, err := auth.Signup(ctx, domain.Organizer{
		Email:    "  Owner@Example.com ",
		Password: "secret123",
		Name:     "Fair Owner",
	})
	require.NoError(t, err)
	assert.Equal(t, "owner@example.com", created.Email)
	assert.NotEqual(t, "secret123", created.Password)

	_, err = auth.Signup(ctx, domain.Organizer{Email: "owner@example.com", Password: "other1234", Name: "Copy"})
	require.ErrorIs(t, err, ErrOrganizerEmailExists)

	logged, err := auth.Login(ctx, "OWNER@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, created.ID, logged.ID)

	_, err = auth.Login(ctx, "owner@example.com", "wrong-password1")
	require.ErrorIs(t, err, ErrWrongPassword)

	_, err = auth.Login(ctx, "nobody@example.com", "secret123")
	require.ErrorIs(t, err, ErrOrganizerNotFound)

	found, err := organizers.GetOrganizer(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Fair Owner", found.Name)

	_, err = organizers.GetOrganizer(ctx, uuid.New())
	require.ErrorIs(t, err, domain.ErrNotFound)
}
