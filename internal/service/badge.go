package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mintly/mintly-api/internal/domain"
	"github.com/mintly/mintly-api/internal/repository"
)

type BadgeRepository interface {
	FindByEvent(ctx context.Context, eventID uuid.UUID) ([]domain.Badge, error)
	FindByParticipant(ctx context.Context, participantID uuid.UUID) ([]domain.ParticipantBadge, error)
	FindUnearned(ctx context.Context, eventID, participantID uuid.UUID) ([]domain.Badge, error)
	Award(ctx context.Context, earned domain.ParticipantBadge) error
	PaymentSpend(ctx context.Context, walletID uuid.UUID) (decimal.Decimal, error)
	TransactionCount(ctx context.Context, walletID uuid.UUID) (int64, error)
	SpendRanking(ctx context.Context, eventID uuid.UUID) ([]repository.WalletSpend, error)
	CountParticipants(ctx context.Context, eventID uuid.UUID) (int64, error)
}

type ParticipantFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (domain.ParticipantWallet, error)
}

type EventFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (domain.Event, error)
}

var (
	spend50Threshold      = decimal.NewFromInt(50)
	transactionsThreshold = int64(5)
	firstHourWindow       = time.Hour
)

type badgeSubject struct {
	participant domain.ParticipantWallet
	event       domain.Event
}

type badgeEvaluator func(ctx context.Context, s *BadgeService, subject badgeSubject) (bool, error)

type BadgeService struct {
	repo         BadgeRepository
	participants ParticipantFinder
	events       EventFinder
	evaluators   map[domain.BadgeCriteria]badgeEvaluator
	options
}

func NewBadgeService(repo BadgeRepository, participants ParticipantFinder, events EventFinder, opts ...Option) *BadgeService {
	return &BadgeService{
		repo:         repo,
		participants: participants,
		events:       events,
		evaluators: map[domain.BadgeCriteria]badgeEvaluator{
			domain.CriteriaFirstHour:     evaluateFirstHour,
			domain.CriteriaSpend50:       evaluateSpend50,
			domain.CriteriaTransactions5: evaluateTransactions5,
			domain.CriteriaTop10Percent:  evaluateTop10Percent,
		},
		options: newOptions(opts),
	}
}

// Evaluate awards every badge of the participant's event whose criteria the
// participant now meets and returns the newly awarded ones. Calling it again
// awards nothing twice.
func (s *BadgeService) Evaluate(ctx context.Context, participantID uuid.UUID) ([]domain.Badge, error) {
	participant, err := s.participants.FindByID(ctx, participantID)
	if err != nil {
		return nil, fmt.Errorf("s.participants.FindByID -> %w", err)
	}

	event, err := s.events.FindByID(ctx, participant.EventID)
	if err != nil {
		return nil, fmt.Errorf("s.events.FindByID -> %w", err)
	}

	unearned, err := s.repo.FindUnearned(ctx, event.ID, participant.ID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindUnearned -> %w", err)
	}

	subject := badgeSubject{participant: participant, event: event}
	var awarded []domain.Badge
	for _, badge := range unearned {
		evaluate, ok := s.evaluators[badge.Criteria]
		if !ok {
			continue
		}

		met, err := evaluate(ctx, s, subject)
		if err != nil {
			return awarded, fmt.Errorf("evaluate %s -> %w", badge.Criteria, err)
		}
		if !met {
			continue
		}

		err = s.repo.Award(ctx, domain.ParticipantBadge{
			ID:            uuid.New(),
			ParticipantID: participant.ID,
			BadgeID:       badge.ID,
			EarnedAt:      s.now(),
		})
		if err != nil {
			return awarded, fmt.Errorf("s.repo.Award -> %w", err)
		}
		awarded = append(awarded, badge)
	}

	return awarded, nil
}

func (s *BadgeService) EventBadges(ctx context.Context, eventID uuid.UUID) ([]domain.Badge, error) {
	if _, err := s.events.FindByID(ctx, eventID); err != nil {
		return nil, fmt.Errorf("s.events.FindByID -> %w", err)
	}

	badges, err := s.repo.FindByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByEvent -> %w", err)
	}

	return badges, nil
}

func (s *BadgeService) ParticipantBadges(ctx context.Context, participantID uuid.UUID) ([]domain.ParticipantBadge, error) {
	if _, err := s.participants.FindByID(ctx, participantID); err != nil {
		return nil, fmt.Errorf("s.participants.FindByID -> %w", err)
	}

	badges, err := s.repo.FindByParticipant(ctx, participantID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByParticipant -> %w", err)
	}

	return badges, nil
}

func evaluateFirstHour(_ context.Context, _ *BadgeService, subject badgeSubject) (bool, error) {
	return subject.participant.JoinedAt.Sub(subject.event.CreatedAt) <= firstHourWindow, nil
}

func evaluateSpend50(ctx context.Context, s *BadgeService, subject badgeSubject) (bool, error) {
	spent, err := s.repo.PaymentSpend(ctx, subject.participant.Wallet.ID)
	if err != nil {
		return false, err
	}

	return spent.GreaterThanOrEqual(spend50Threshold), nil
}

func evaluateTransactions5(ctx context.Context, s *BadgeService, subject badgeSubject) (bool, error) {
	n, err := s.repo.TransactionCount(ctx, subject.participant.Wallet.ID)
	if err != nil {
		return false, err
	}

	return n >= transactionsThreshold, nil
}

// evaluateTop10Percent ranks wallets by payment spend. A participant with
// positive spend qualifies when fewer than ceil(10% of participants) wallets
// spent strictly more, so ties at the boundary all qualify.
func evaluateTop10Percent(ctx context.Context, s *BadgeService, subject badgeSubject) (bool, error) {
	ranking, err := s.repo.SpendRanking(ctx, subject.event.ID)
	if err != nil {
		return false, err
	}

	var own decimal.Decimal
	for _, r := range ranking {
		if r.WalletID == subject.participant.Wallet.ID {
			own = r.Spent
			break
		}
	}
	if !own.IsPositive() {
		return false, nil
	}

	total, err := s.repo.CountParticipants(ctx, subject.event.ID)
	if err != nil {
		return false, err
	}

	return topSpender(ranking, own, total), nil
}

func topSpender(ranking []repository.WalletSpend, own decimal.Decimal, participants int64) bool {
	slots := (participants + 9) / 10
	if slots < 1 {
		slots = 1
	}

	var ahead int64
	for _, r := range ranking {
		if r.Spent.GreaterThan(own) {
			ahead++
		}
	}

	return ahead < slots
}
