package service

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mintly/mintly-api/internal/domain"
	"github.com/mintly/mintly-api/internal/pkg/joincode"
)

func TestVendorService_CreateVendor(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	organizerID := uuid.New()
	event := env.createEvent(t, organizerID)

	vendor, err := env.vendors.CreateVendor(ctx, event.ID, organizerID, " Lemonade Stand ")
	require.NoError(t, err)
	assert.Equal(t, "Lemonade Stand", vendor.Name)
	assert.True(t, joincode.Valid(vendor.VendorCode))
	assert.True(t, vendor.TotalEarnings.IsZero())

	found, err := env.vendors.GetByCode(ctx, strings.ToLower(vendor.VendorCode))
	require.NoError(t, err)
	assert.Equal(t, vendor.ID, found.ID)

	_, err = env.vendors.CreateVendor(ctx, event.ID, uuid.New(), "Popcorn")
	require.ErrorIs(t, err, domain.ErrNotEventOrganizer)

	_, err = env.vendors.CreateVendor(ctx, event.ID, organizerID, "P")
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = env.vendors.CreateVendor(ctx, uuid.New(), organizerID, "Popcorn")
	require.ErrorIs(t, err, domain.ErrEventNotFound)
}

func TestVendorService_CodeNeverCollidesWithJoinCode(t *testing.T) {
	const (
		shared = "CCCCCCCCCCCCCCCC"
		fresh  = "DDDDDDDDDDDDDDDD"
	)
	env := setupEnv(t, WithCodeGenerator(codeSequence(shared, shared, fresh)))
	organizerID := uuid.New()
	event := env.createEvent(t, organizerID)

	alice := env.join(t, event.ID, "Alice")
	require.Equal(t, shared, alice.JoinCode)

	vendor := env.createVendor(t, event.ID, organizerID, "Lemonade")
	assert.Equal(t, fresh, vendor.VendorCode)
}

func TestVendorService_UpdateAndDelete(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	organizerID := uuid.New()
	event := env.createEvent(t, organizerID)
	vendor := env.createVendor(t, event.ID, organizerID, "Lemonade")
	env.createVendor(t, event.ID, organizerID, "Popcorn")

	updated, err := env.vendors.UpdateVendor(ctx, vendor.ID, organizerID, "Iced Tea")
	require.NoError(t, err)
	assert.Equal(t, "Iced Tea", updated.Name)
	assert.Equal(t, vendor.VendorCode, updated.VendorCode)

	_, err = env.vendors.UpdateVendor(ctx, vendor.ID, uuid.New(), "Coffee")
	require.ErrorIs(t, err, domain.ErrNotEventOrganizer)

	err = env.vendors.DeleteVendor(ctx, vendor.ID, uuid.New())
	require.ErrorIs(t, err, domain.ErrNotEventOrganizer)

	require.NoError(t, env.vendors.DeleteVendor(ctx, vendor.ID, organizerID))

	vendors, err := env.vendors.ListVendors(ctx, event.ID)
	require.NoError(t, err)
	require.Len(t, vendors, 1)
	assert.Equal(t, "Popcorn", vendors[0].Name)

	_, err = env.vendors.GetByCode(ctx, vendor.VendorCode)
	require.ErrorIs(t, err, domain.ErrVendorNotFound)

	err = env.vendors.DeleteVendor(ctx, vendor.ID, organizerID)
	require.ErrorIs(t, err, domain.ErrVendorNotFound)
}
