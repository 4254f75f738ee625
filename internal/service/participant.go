package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mintly/mintly-api/internal/domain"
	"github.com/mintly/mintly-api/internal/pkg/joincode"
	"github.com/mintly/mintly-api/internal/repository"
)

type ParticipantRepository interface {
	FindByJoinCode(ctx context.Context, code string) (domain.ParticipantWallet, error)
	FindByEvent(ctx context.Context, eventID uuid.UUID) ([]domain.ParticipantWallet, error)
	FindWalletByID(ctx context.Context, id uuid.UUID) (domain.Wallet, error)
}

type AtomicRunner interface {
	Atomic(ctx context.Context, fn func(tx *repository.LedgerTx) error) error
}

type EventAuthorizer interface {
	OwnedEvent(ctx context.Context, eventID, organizerID uuid.UUID) (domain.Event, error)
}

type BadgeEvaluator interface {
	Evaluate(ctx context.Context, participantID uuid.UUID) ([]domain.Badge, error)
}

type ParticipantService struct {
	repo     ParticipantRepository
	ledger   AtomicRunner
	events   EventAuthorizer
	badges   BadgeEvaluator
	notifier *Notifier
	options
}

func NewParticipantService(
	repo ParticipantRepository,
	ledger AtomicRunner,
	events EventAuthorizer,
	badges BadgeEvaluator,
	notifier *Notifier,
	opts ...Option,
) *ParticipantService {
	return &ParticipantService{
		repo:     repo,
		ledger:   ledger,
		events:   events,
		badges:   badges,
		notifier: notifier,
		options:  newOptions(opts),
	}
}

// JoinEvent creates a participant and its wallet in one transaction. The
// wallet is seeded with the event's starting balance as read inside that
// transaction, and the participant gets a freshly issued join code.
func (s *ParticipantService) JoinEvent(ctx context.Context, eventID uuid.UUID, name string) (domain.JoinResult, error) {
	name, err := domain.NormalizeName("participant name", name, domain.MinParticipantNameLength, domain.MaxParticipantNameLength)
	if err != nil {
		return domain.JoinResult{}, err
	}

	var participant domain.Participant
	var wallet domain.Wallet
	err = s.ledger.Atomic(ctx, func(tx *repository.LedgerTx) error {
		event, err := tx.FindEvent(ctx, eventID)
		if err != nil {
			return err
		}

		now := s.now()
		if err = event.CheckAcceptsMutations(now); err != nil {
			return err
		}

		return allocateCode(ctx, s.options, tx.CodeInUse, func(code string) error {
			participant, wallet, err = tx.InsertParticipant(ctx,
				domain.Participant{
					ID:       uuid.New(),
					EventID:  event.ID,
					Name:     name,
					JoinCode: code,
					JoinedAt: now,
				},
				domain.Wallet{
					ID:        uuid.New(),
					Balance:   event.StartingBalance,
					CreatedAt: now,
					UpdatedAt: now,
				},
			)
			return err
		})
	})
	if err != nil {
		return domain.JoinResult{}, fmt.Errorf("s.ledger.Atomic -> %w", err)
	}

	participantID := participant.ID
	s.notifier.Notify(domain.LedgerEvent{
		Kind:          domain.KindParticipantJoined,
		EventID:       participant.EventID,
		ParticipantID: &participantID,
		ToWalletID:    &wallet.ID,
		Amount:        wallet.Balance,
		OccurredAt:    participant.JoinedAt,
	})
	evaluateBadges(ctx, s.badges, participant.ID)

	return domain.JoinResult{
		ParticipantID: participant.ID,
		WalletID:      wallet.ID,
		JoinCode:      participant.JoinCode,
		Balance:       wallet.Balance,
	}, nil
}

// GetByJoinCode looks a participant up regardless of code case or padding.
func (s *ParticipantService) GetByJoinCode(ctx context.Context, code string) (domain.ParticipantWallet, error) {
	code = joincode.Normalize(code)
	if !joincode.Valid(code) {
		return domain.ParticipantWallet{}, domain.ErrParticipantNotFound
	}

	participant, err := s.repo.FindByJoinCode(ctx, code)
	if err != nil {
		return domain.ParticipantWallet{}, fmt.Errorf("s.repo.FindByJoinCode -> %w", err)
	}

	return participant, nil
}

func (s *ParticipantService) GetWallet(ctx context.Context, id uuid.UUID) (domain.Wallet, error) {
	wallet, err := s.repo.FindWalletByID(ctx, id)
	if err != nil {
		return domain.Wallet{}, fmt.Errorf("s.repo.FindWalletByID -> %w", err)
	}

	return wallet, nil
}

func (s *ParticipantService) ListParticipants(ctx context.Context, eventID, organizerID uuid.UUID) ([]domain.ParticipantWallet, error) {
	if _, err := s.events.OwnedEvent(ctx, eventID, organizerID); err != nil {
		return nil, err
	}

	participants, err := s.repo.FindByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByEvent -> %w", err)
	}

	return participants, nil
}

// evaluateBadges runs after commit. A failure here never undoes the ledger
// mutation that triggered it.
func evaluateBadges(ctx context.Context, badges BadgeEvaluator, participantIDs ...uuid.UUID) {
	if badges == nil {
		return
	}

	for _, id := range participantIDs {
		if _, err := badges.Evaluate(ctx, id); err != nil {
			zap.L().Warn("failed to evaluate badges",
				zap.Stringer("participant_id", id),
				zap.Error(err),
			)
		}
	}
}
