package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mintly/mintly-api/internal/domain"
	"github.com/mintly/mintly-api/internal/repository/dao"
)

type ParticipantDAO interface {
	FindByID(ctx context.Context, id uuid.UUID) (dao.Participant, error)
	FindByJoinCode(ctx context.Context, code string) (dao.Participant, error)
	FindByEvent(ctx context.Context, eventID uuid.UUID) ([]dao.Participant, error)
	FindWalletByID(ctx context.Context, id uuid.UUID) (dao.Wallet, error)
}

type ParticipantRepository struct {
	dao ParticipantDAO
}

func NewParticipantRepository(dao ParticipantDAO) *ParticipantRepository {
	return &ParticipantRepository{
		dao: dao,
	}
}

func (r *ParticipantRepository) FindByID(ctx context.Context, id uuid.UUID) (domain.ParticipantWallet, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.ParticipantWallet{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return participantWalletDaoToDomain(found), nil
}

func (r *ParticipantRepository) FindByJoinCode(ctx context.Context, code string) (domain.ParticipantWallet, error) {
	found, err := r.dao.FindByJoinCode(ctx, code)
	if err != nil {
		return domain.ParticipantWallet{}, fmt.Errorf("r.dao.FindByJoinCode -> %w", err)
	}

	return participantWalletDaoToDomain(found), nil
}

func (r *ParticipantRepository) FindByEvent(ctx context.Context, eventID uuid.UUID) ([]domain.ParticipantWallet, error) {
	found, err := r.dao.FindByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByEvent -> %w", err)
	}

	participants := make([]domain.ParticipantWallet, 0, len(found))
	for _, p := range found {
		participants = append(participants, participantWalletDaoToDomain(p))
	}

	return participants, nil
}

func (r *ParticipantRepository) FindWalletByID(ctx context.Context, id uuid.UUID) (domain.Wallet, error) {
	found, err := r.dao.FindWalletByID(ctx, id)
	if err != nil {
		return domain.Wallet{}, fmt.Errorf("r.dao.FindWalletByID -> %w", err)
	}

	return walletDaoToDomain(found), nil
}
