package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mintly/mintly-api/internal/domain"
	"github.com/mintly/mintly-api/internal/pkg/joincode"
)

type VendorRepository interface {
	Create(ctx context.Context, vendor domain.Vendor) (domain.Vendor, error)
	CodeInUse(ctx context.Context, code string) (bool, error)
	FindByID(ctx context.Context, id uuid.UUID) (domain.Vendor, error)
	FindByCode(ctx context.Context, code string) (domain.Vendor, error)
	FindByEvent(ctx context.Context, eventID uuid.UUID) ([]domain.Vendor, error)
	UpdateName(ctx context.Context, id uuid.UUID, name string, now time.Time) (domain.Vendor, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type VendorService struct {
	repo   VendorRepository
	events EventAuthorizer
	options
}

func NewVendorService(repo VendorRepository, events EventAuthorizer, opts ...Option) *VendorService {
	return &VendorService{
		repo:    repo,
		events:  events,
		options: newOptions(opts),
	}
}

// CreateVendor registers a booth under the organizer's event with a freshly
// issued vendor code.
func (s *VendorService) CreateVendor(ctx context.Context, eventID, organizerID uuid.UUID, name string) (domain.Vendor, error) {
	name, err := domain.NormalizeName("vendor name", name, domain.MinVendorNameLength, domain.MaxVendorNameLength)
	if err != nil {
		return domain.Vendor{}, err
	}

	if _, err = s.events.OwnedEvent(ctx, eventID, organizerID); err != nil {
		return domain.Vendor{}, err
	}

	var created domain.Vendor
	err = allocateCode(ctx, s.options, s.repo.CodeInUse, func(code string) error {
		now := s.now()
		created, err = s.repo.Create(ctx, domain.Vendor{
			ID:            uuid.New(),
			EventID:       eventID,
			Name:          name,
			VendorCode:    code,
			TotalEarnings: decimal.Zero,
			CreatedAt:     now,
			UpdatedAt:     now,
		})
		return err
	})
	if err != nil {
		return domain.Vendor{}, fmt.Errorf("allocateCode -> %w", err)
	}

	return created, nil
}

func (s *VendorService) UpdateVendor(ctx context.Context, vendorID, organizerID uuid.UUID, name string) (domain.Vendor, error) {
	name, err := domain.NormalizeName("vendor name", name, domain.MinVendorNameLength, domain.MaxVendorNameLength)
	if err != nil {
		return domain.Vendor{}, err
	}

	if _, err = s.ownedVendor(ctx, vendorID, organizerID); err != nil {
		return domain.Vendor{}, err
	}

	updated, err := s.repo.UpdateName(ctx, vendorID, name, s.now())
	if err != nil {
		return domain.Vendor{}, fmt.Errorf("s.repo.UpdateName -> %w", err)
	}

	return updated, nil
}

// DeleteVendor hides the vendor from new payments. Past transactions keep
// referencing it.
func (s *VendorService) DeleteVendor(ctx context.Context, vendorID, organizerID uuid.UUID) error {
	if _, err := s.ownedVendor(ctx, vendorID, organizerID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, vendorID); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}

func (s *VendorService) ListVendors(ctx context.Context, eventID uuid.UUID) ([]domain.Vendor, error) {
	vendors, err := s.repo.FindByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByEvent -> %w", err)
	}

	return vendors, nil
}

func (s *VendorService) GetByCode(ctx context.Context, code string) (domain.Vendor, error) {
	code = joincode.Normalize(code)
	if !joincode.Valid(code) {
		return domain.Vendor{}, domain.ErrVendorNotFound
	}

	vendor, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		return domain.Vendor{}, fmt.Errorf("s.repo.FindByCode -> %w", err)
	}

	return vendor, nil
}

func (s *VendorService) ownedVendor(ctx context.Context, vendorID, organizerID uuid.UUID) (domain.Vendor, error) {
	vendor, err := s.repo.FindByID(ctx, vendorID)
	if err != nil {
		return domain.Vendor{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if _, err = s.events.OwnedEvent(ctx, vendor.EventID, organizerID); err != nil {
		return domain.Vendor{}, err
	}

	return vendor, nil
}
