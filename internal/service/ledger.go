package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mintly/mintly-api/internal/domain"
	"github.com/mintly/mintly-api/internal/metrics"
	"github.com/mintly/mintly-api/internal/repository"
)

type LedgerRepository interface {
	Atomic(ctx context.Context, fn func(tx *repository.LedgerTx) error) error
	FindByWallet(ctx context.Context, walletID uuid.UUID) ([]domain.Transaction, error)
	FindByEvent(ctx context.Context, eventID uuid.UUID) ([]domain.Transaction, error)
}

type LedgerService struct {
	repo     LedgerRepository
	events   EventAuthorizer
	badges   BadgeEvaluator
	notifier *Notifier
	options
}

func NewLedgerService(
	repo LedgerRepository,
	events EventAuthorizer,
	badges BadgeEvaluator,
	notifier *Notifier,
	opts ...Option,
) *LedgerService {
	return &LedgerService{
		repo:     repo,
		events:   events,
		badges:   badges,
		notifier: notifier,
		options:  newOptions(opts),
	}
}

// ProcessPayment moves amount from a participant wallet to a vendor of the
// same event and returns the new transaction id.
func (s *LedgerService) ProcessPayment(ctx context.Context, walletID, vendorID uuid.UUID, amount decimal.Decimal, description string) (uuid.UUID, error) {
	start := time.Now()
	txn, participantID, err := s.processPayment(ctx, walletID, vendorID, amount, description)
	metrics.ObserveLedgerOperation(string(domain.TransactionPayment), err, time.Since(start))
	if err != nil {
		return uuid.Nil, err
	}

	s.afterCommit(ctx, txn, participantID)

	return txn.ID, nil
}

func (s *LedgerService) processPayment(ctx context.Context, walletID, vendorID uuid.UUID, amount decimal.Decimal, description string) (domain.Transaction, uuid.UUID, error) {
	description, err := checkMutation(amount, description)
	if err != nil {
		return domain.Transaction{}, uuid.Nil, err
	}

	var txn domain.Transaction
	var participantID uuid.UUID
	err = s.repo.Atomic(ctx, func(tx *repository.LedgerTx) error {
		wallet, err := tx.LockWallet(ctx, walletID)
		if err != nil {
			return err
		}
		vendor, err := tx.LockVendor(ctx, vendorID)
		if err != nil {
			return err
		}
		if vendor.EventID != wallet.EventID {
			return domain.ErrCrossEvent
		}

		now, err := s.acceptingEvent(ctx, tx, wallet.EventID)
		if err != nil {
			return err
		}

		if wallet.Balance.LessThan(amount) {
			return domain.ErrInsufficientFunds
		}

		if err = tx.UpdateWalletBalance(ctx, wallet, wallet.Balance.Sub(amount), now); err != nil {
			return err
		}
		if err = tx.UpdateVendorEarnings(ctx, vendor, vendor.TotalEarnings.Add(amount), now); err != nil {
			return err
		}

		txn, err = tx.InsertTransaction(ctx, domain.Transaction{
			ID:           uuid.New(),
			EventID:      wallet.EventID,
			Type:         domain.TransactionPayment,
			Amount:       amount,
			FromWalletID: &wallet.ID,
			VendorID:     &vendor.ID,
			VendorName:   vendor.Name,
			Description:  description,
			CreatedAt:    now,
		})
		participantID = wallet.ParticipantID

		return err
	})
	if err != nil {
		return domain.Transaction{}, uuid.Nil, fmt.Errorf("s.repo.Atomic -> %w", err)
	}

	return txn, participantID, nil
}

// TransferFunds moves amount between two wallets of the same event.
func (s *LedgerService) TransferFunds(ctx context.Context, fromWalletID, toWalletID uuid.UUID, amount decimal.Decimal, description string) (uuid.UUID, error) {
	start := time.Now()
	txn, participantIDs, err := s.transferFunds(ctx, fromWalletID, toWalletID, amount, description)
	metrics.ObserveLedgerOperation(string(domain.TransactionTransfer), err, time.Since(start))
	if err != nil {
		return uuid.Nil, err
	}

	s.afterCommit(ctx, txn, participantIDs...)

	return txn.ID, nil
}

func (s *LedgerService) transferFunds(ctx context.Context, fromWalletID, toWalletID uuid.UUID, amount decimal.Decimal, description string) (domain.Transaction, []uuid.UUID, error) {
	description, err := checkMutation(amount, description)
	if err != nil {
		return domain.Transaction{}, nil, err
	}
	if fromWalletID == toWalletID {
		return domain.Transaction{}, nil, domain.ErrSameWallet
	}

	var txn domain.Transaction
	var participantIDs []uuid.UUID
	err = s.repo.Atomic(ctx, func(tx *repository.LedgerTx) error {
		wallets, err := tx.LockWallets(ctx, fromWalletID, toWalletID)
		if err != nil {
			return err
		}
		from, to := wallets[fromWalletID], wallets[toWalletID]
		if from.EventID != to.EventID {
			return domain.ErrCrossEvent
		}

		now, err := s.acceptingEvent(ctx, tx, from.EventID)
		if err != nil {
			return err
		}

		if from.Balance.LessThan(amount) {
			return domain.ErrInsufficientFunds
		}

		if err = tx.UpdateWalletBalance(ctx, from, from.Balance.Sub(amount), now); err != nil {
			return err
		}
		if err = tx.UpdateWalletBalance(ctx, to, to.Balance.Add(amount), now); err != nil {
			return err
		}

		txn, err = tx.InsertTransaction(ctx, domain.Transaction{
			ID:           uuid.New(),
			EventID:      from.EventID,
			Type:         domain.TransactionTransfer,
			Amount:       amount,
			FromWalletID: &from.ID,
			ToWalletID:   &to.ID,
			Description:  description,
			CreatedAt:    now,
		})
		participantIDs = []uuid.UUID{from.ParticipantID, to.ParticipantID}

		return err
	})
	if err != nil {
		return domain.Transaction{}, nil, fmt.Errorf("s.repo.Atomic -> %w", err)
	}

	return txn, participantIDs, nil
}

// SendReward credits a participant on behalf of the event organizer. Rewards
// have no balance precondition.
func (s *LedgerService) SendReward(ctx context.Context, eventID, participantID uuid.UUID, amount decimal.Decimal, description string, organizerID uuid.UUID) (uuid.UUID, error) {
	start := time.Now()
	txn, err := s.sendReward(ctx, eventID, participantID, amount, description, organizerID)
	metrics.ObserveLedgerOperation(string(domain.TransactionReward), err, time.Since(start))
	if err != nil {
		return uuid.Nil, err
	}

	s.afterCommit(ctx, txn, participantID)

	return txn.ID, nil
}

func (s *LedgerService) sendReward(ctx context.Context, eventID, participantID uuid.UUID, amount decimal.Decimal, description string, organizerID uuid.UUID) (domain.Transaction, error) {
	description, err := checkMutation(amount, description)
	if err != nil {
		return domain.Transaction{}, err
	}
	if description == "" {
		description = domain.DefaultRewardDescription
	}

	var txn domain.Transaction
	err = s.repo.Atomic(ctx, func(tx *repository.LedgerTx) error {
		event, err := tx.FindEvent(ctx, eventID)
		if err != nil {
			return err
		}
		if event.OrganizerID != organizerID {
			return domain.ErrNotEventOrganizer
		}

		participant, err := tx.FindParticipant(ctx, participantID)
		if err != nil {
			return err
		}
		if participant.EventID != event.ID {
			return domain.ErrParticipantNotFound
		}

		now := s.now()
		if err = event.CheckAcceptsMutations(now); err != nil {
			return err
		}

		wallet, err := tx.LockWalletByParticipant(ctx, participant.ID)
		if err != nil {
			return err
		}

		if err = tx.UpdateWalletBalance(ctx, wallet, wallet.Balance.Add(amount), now); err != nil {
			return err
		}

		txn, err = tx.InsertTransaction(ctx, domain.Transaction{
			ID:          uuid.New(),
			EventID:     event.ID,
			Type:        domain.TransactionReward,
			Amount:      amount,
			ToWalletID:  &wallet.ID,
			Description: description,
			CreatedAt:   now,
		})

		return err
	})
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("s.repo.Atomic -> %w", err)
	}

	return txn, nil
}

// WalletTransactions lists the wallet's history, newest first.
func (s *LedgerService) WalletTransactions(ctx context.Context, walletID uuid.UUID) ([]domain.Transaction, error) {
	txns, err := s.repo.FindByWallet(ctx, walletID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByWallet -> %w", err)
	}

	return txns, nil
}

func (s *LedgerService) EventTransactions(ctx context.Context, eventID, organizerID uuid.UUID) ([]domain.Transaction, error) {
	if _, err := s.events.OwnedEvent(ctx, eventID, organizerID); err != nil {
		return nil, err
	}

	txns, err := s.repo.FindByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByEvent -> %w", err)
	}

	return txns, nil
}

// acceptingEvent re-reads the event inside the transaction and returns the
// timestamp used for every write of the mutation.
func (s *LedgerService) acceptingEvent(ctx context.Context, tx *repository.LedgerTx, eventID uuid.UUID) (time.Time, error) {
	event, err := tx.FindEvent(ctx, eventID)
	if err != nil {
		return time.Time{}, err
	}

	now := s.now()
	if err = event.CheckAcceptsMutations(now); err != nil {
		return time.Time{}, err
	}

	return now, nil
}

func (s *LedgerService) afterCommit(ctx context.Context, txn domain.Transaction, participantIDs ...uuid.UUID) {
	s.notifier.Notify(domain.NewTransactionEvent(txn))
	evaluateBadges(ctx, s.badges, participantIDs...)
}

func checkMutation(amount decimal.Decimal, description string) (string, error) {
	if err := domain.ValidateAmount(amount); err != nil {
		return "", err
	}

	description = strings.TrimSpace(description)
	if err := domain.ValidateDescription(description); err != nil {
		return "", err
	}

	return description, nil
}
