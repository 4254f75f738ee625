package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mintly/mintly-api/internal/domain"
	"github.com/mintly/mintly-api/internal/repository/dao"
)

type BadgeDAO interface {
	FindByEvent(ctx context.Context, eventID uuid.UUID) ([]dao.Badge, error)
	FindByParticipant(ctx context.Context, participantID uuid.UUID) ([]dao.ParticipantBadge, error)
	FindUnearned(ctx context.Context, eventID, participantID uuid.UUID) ([]dao.Badge, error)
	Award(ctx context.Context, pb dao.ParticipantBadge) error
	PaymentSpend(ctx context.Context, walletID uuid.UUID) (decimal.Decimal, error)
	TransactionCount(ctx context.Context, walletID uuid.UUID) (int64, error)
	SpendRanking(ctx context.Context, eventID uuid.UUID) ([]dao.WalletSpend, error)
	CountParticipants(ctx context.Context, eventID uuid.UUID) (int64, error)
}

// WalletSpend is the payment total of one wallet.
type WalletSpend struct {
	WalletID uuid.UUID
	Spent    decimal.Decimal
}

type BadgeRepository struct {
	dao BadgeDAO
}

func NewBadgeRepository(dao BadgeDAO) *BadgeRepository {
	return &BadgeRepository{
		dao: dao,
	}
}

func (r *BadgeRepository) FindByEvent(ctx context.Context, eventID uuid.UUID) ([]domain.Badge, error) {
	found, err := r.dao.FindByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByEvent -> %w", err)
	}

	badges := make([]domain.Badge, 0, len(found))
	for _, b := range found {
		badges = append(badges, badgeDaoToDomain(b))
	}

	return badges, nil
}

func (r *BadgeRepository) FindByParticipant(ctx context.Context, participantID uuid.UUID) ([]domain.ParticipantBadge, error) {
	found, err := r.dao.FindByParticipant(ctx, participantID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByParticipant -> %w", err)
	}

	earned := make([]domain.ParticipantBadge, 0, len(found))
	for _, pb := range found {
		item := domain.ParticipantBadge{
			ID:            pb.ID,
			ParticipantID: pb.ParticipantID,
			BadgeID:       pb.BadgeID,
			EarnedAt:      pb.EarnedAt,
		}
		if pb.Badge != nil {
			badge := badgeDaoToDomain(*pb.Badge)
			item.Badge = &badge
		}
		earned = append(earned, item)
	}

	return earned, nil
}

func (r *BadgeRepository) FindUnearned(ctx context.Context, eventID, participantID uuid.UUID) ([]domain.Badge, error) {
	found, err := r.dao.FindUnearned(ctx, eventID, participantID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindUnearned -> %w", err)
	}

	badges := make([]domain.Badge, 0, len(found))
	for _, b := range found {
		badges = append(badges, badgeDaoToDomain(b))
	}

	return badges, nil
}

func (r *BadgeRepository) Award(ctx context.Context, earned domain.ParticipantBadge) error {
	err := r.dao.Award(ctx, dao.ParticipantBadge{
		ID:            earned.ID,
		ParticipantID: earned.ParticipantID,
		BadgeID:       earned.BadgeID,
		EarnedAt:      earned.EarnedAt,
	})
	if err != nil {
		return fmt.Errorf("r.dao.Award -> %w", err)
	}

	return nil
}

func (r *BadgeRepository) PaymentSpend(ctx context.Context, walletID uuid.UUID) (decimal.Decimal, error) {
	spent, err := r.dao.PaymentSpend(ctx, walletID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("r.dao.PaymentSpend -> %w", err)
	}

	return spent, nil
}

func (r *BadgeRepository) TransactionCount(ctx context.Context, walletID uuid.UUID) (int64, error) {
	n, err := r.dao.TransactionCount(ctx, walletID)
	if err != nil {
		return 0, fmt.Errorf("r.dao.TransactionCount -> %w", err)
	}

	return n, nil
}

func (r *BadgeRepository) SpendRanking(ctx context.Context, eventID uuid.UUID) ([]WalletSpend, error) {
	found, err := r.dao.SpendRanking(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.SpendRanking -> %w", err)
	}

	ranking := make([]WalletSpend, 0, len(found))
	for _, s := range found {
		ranking = append(ranking, WalletSpend{WalletID: s.WalletID, Spent: s.Spent})
	}

	return ranking, nil
}

func (r *BadgeRepository) CountParticipants(ctx context.Context, eventID uuid.UUID) (int64, error) {
	n, err := r.dao.CountParticipants(ctx, eventID)
	if err != nil {
		return 0, fmt.Errorf("r.dao.CountParticipants -> %w", err)
	}

	return n, nil
}
