package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mintly/mintly-api/internal/domain"
	"github.com/mintly/mintly-api/internal/repository/dao"
)

type VendorDAO interface {
	Insert(ctx context.Context, vendor dao.Vendor) (dao.Vendor, error)
	CodeInUse(ctx context.Context, code string) (bool, error)
	FindByID(ctx context.Context, id uuid.UUID) (dao.Vendor, error)
	FindByCode(ctx context.Context, code string) (dao.Vendor, error)
	FindByEvent(ctx context.Context, eventID uuid.UUID) ([]dao.Vendor, error)
	UpdateName(ctx context.Context, id uuid.UUID, name string, now time.Time) (dao.Vendor, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type VendorRepository struct {
	dao VendorDAO
}

func NewVendorRepository(dao VendorDAO) *VendorRepository {
	return &VendorRepository{
		dao: dao,
	}
}

func (r *VendorRepository) Create(ctx context.Context, vendor domain.Vendor) (domain.Vendor, error) {
	created, err := r.dao.Insert(ctx, vendorDomainToDao(vendor))
	if err != nil {
		return domain.Vendor{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return vendorDaoToDomain(created), nil
}

func (r *VendorRepository) CodeInUse(ctx context.Context, code string) (bool, error) {
	inUse, err := r.dao.CodeInUse(ctx, code)
	if err != nil {
		return false, fmt.Errorf("r.dao.CodeInUse -> %w", err)
	}

	return inUse, nil
}

func (r *VendorRepository) FindByID(ctx context.Context, id uuid.UUID) (domain.Vendor, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Vendor{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return vendorDaoToDomain(found), nil
}

func (r *VendorRepository) FindByCode(ctx context.Context, code string) (domain.Vendor, error) {
	found, err := r.dao.FindByCode(ctx, code)
	if err != nil {
		return domain.Vendor{}, fmt.Errorf("r.dao.FindByCode -> %w", err)
	}

	return vendorDaoToDomain(found), nil
}

func (r *VendorRepository) FindByEvent(ctx context.Context, eventID uuid.UUID) ([]domain.Vendor, error) {
	found, err := r.dao.FindByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByEvent -> %w", err)
	}

	vendors := make([]domain.Vendor, 0, len(found))
	for _, v := range found {
		vendors = append(vendors, vendorDaoToDomain(v))
	}

	return vendors, nil
}

func (r *VendorRepository) UpdateName(ctx context.Context, id uuid.UUID, name string, now time.Time) (domain.Vendor, error) {
	updated, err := r.dao.UpdateName(ctx, id, name, now)
	if err != nil {
		return domain.Vendor{}, fmt.Errorf("r.dao.UpdateName -> %w", err)
	}

	return vendorDaoToDomain(updated), nil
}

func (r *VendorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}
