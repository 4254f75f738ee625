package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mintly/mintly-api/internal/domain"
	"github.com/mintly/mintly-api/internal/repository/dao"
)

type LedgerDAO interface {
	Transaction(ctx context.Context, fn func(tx *dao.LedgerTx) error) error
}

type TransactionDAO interface {
	FindByWallet(ctx context.Context, walletID uuid.UUID) ([]dao.TransactionWithVendor, error)
	FindByEvent(ctx context.Context, eventID uuid.UUID) ([]dao.TransactionWithVendor, error)
}

type LedgerRepository struct {
	dao    LedgerDAO
	txnDAO TransactionDAO
}

func NewLedgerRepository(dao LedgerDAO, txnDAO TransactionDAO) *LedgerRepository {
	return &LedgerRepository{
		dao:    dao,
		txnDAO: txnDAO,
	}
}

// Atomic runs fn in a single database transaction. Errors returned by fn
// roll back every write made through tx.
func (r *LedgerRepository) Atomic(ctx context.Context, fn func(tx *LedgerTx) error) error {
	return r.dao.Transaction(ctx, func(tx *dao.LedgerTx) error {
		return fn(&LedgerTx{tx: tx})
	})
}

func (r *LedgerRepository) FindByWallet(ctx context.Context, walletID uuid.UUID) ([]domain.Transaction, error) {
	found, err := r.txnDAO.FindByWallet(ctx, walletID)
	if err != nil {
		return nil, fmt.Errorf("r.txnDAO.FindByWallet -> %w", err)
	}

	return transactionsWithVendorToDomain(found), nil
}

func (r *LedgerRepository) FindByEvent(ctx context.Context, eventID uuid.UUID) ([]domain.Transaction, error) {
	found, err := r.txnDAO.FindByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("r.txnDAO.FindByEvent -> %w", err)
	}

	return transactionsWithVendorToDomain(found), nil
}

// LedgerTx exposes the locked reads and guarded writes of one ledger
// transaction in domain types.
type LedgerTx struct {
	tx *dao.LedgerTx
}

func (t *LedgerTx) FindEvent(ctx context.Context, id uuid.UUID) (domain.Event, error) {
	found, err := t.tx.FindEvent(ctx, id)
	if err != nil {
		return domain.Event{}, fmt.Errorf("t.tx.FindEvent -> %w", err)
	}

	return eventDaoToDomain(found), nil
}

func (t *LedgerTx) FindParticipant(ctx context.Context, id uuid.UUID) (domain.Participant, error) {
	found, err := t.tx.FindParticipant(ctx, id)
	if err != nil {
		return domain.Participant{}, fmt.Errorf("t.tx.FindParticipant -> %w", err)
	}

	return participantDaoToDomain(found), nil
}

func (t *LedgerTx) LockWallet(ctx context.Context, id uuid.UUID) (domain.Wallet, error) {
	found, err := t.tx.LockWallet(ctx, id)
	if err != nil {
		return domain.Wallet{}, fmt.Errorf("t.tx.LockWallet -> %w", err)
	}

	return walletDaoToDomain(found), nil
}

func (t *LedgerTx) LockWallets(ctx context.Context, ids ...uuid.UUID) (map[uuid.UUID]domain.Wallet, error) {
	found, err := t.tx.LockWallets(ctx, ids...)
	if err != nil {
		return nil, fmt.Errorf("t.tx.LockWallets -> %w", err)
	}

	wallets := make(map[uuid.UUID]domain.Wallet, len(found))
	for id, w := range found {
		wallets[id] = walletDaoToDomain(w)
	}

	return wallets, nil
}

func (t *LedgerTx) LockWalletByParticipant(ctx context.Context, participantID uuid.UUID) (domain.Wallet, error) {
	found, err := t.tx.LockWalletByParticipant(ctx, participantID)
	if err != nil {
		return domain.Wallet{}, fmt.Errorf("t.tx.LockWalletByParticipant -> %w", err)
	}

	return walletDaoToDomain(found), nil
}

func (t *LedgerTx) LockVendor(ctx context.Context, id uuid.UUID) (domain.Vendor, error) {
	found, err := t.tx.LockVendor(ctx, id)
	if err != nil {
		return domain.Vendor{}, fmt.Errorf("t.tx.LockVendor -> %w", err)
	}

	return vendorDaoToDomain(found), nil
}

func (t *LedgerTx) UpdateWalletBalance(ctx context.Context, wallet domain.Wallet, balance decimal.Decimal, now time.Time) error {
	if err := t.tx.UpdateWalletBalance(ctx, walletDomainToDao(wallet), balance, now); err != nil {
		return fmt.Errorf("t.tx.UpdateWalletBalance -> %w", err)
	}

	return nil
}

func (t *LedgerTx) UpdateVendorEarnings(ctx context.Context, vendor domain.Vendor, earnings decimal.Decimal, now time.Time) error {
	if err := t.tx.UpdateVendorEarnings(ctx, vendorDomainToDao(vendor), earnings, now); err != nil {
		return fmt.Errorf("t.tx.UpdateVendorEarnings -> %w", err)
	}

	return nil
}

// InsertTransaction refuses rows whose account columns do not fit the type.
func (t *LedgerTx) InsertTransaction(ctx context.Context, txn domain.Transaction) (domain.Transaction, error) {
	if err := txn.CheckShape(); err != nil {
		return domain.Transaction{}, fmt.Errorf("txn.CheckShape -> %w", err)
	}

	created, err := t.tx.InsertTransaction(ctx, transactionDomainToDao(txn))
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("t.tx.InsertTransaction -> %w", err)
	}

	return transactionDaoToDomain(created), nil
}

func (t *LedgerTx) CodeInUse(ctx context.Context, code string) (bool, error) {
	inUse, err := t.tx.CodeInUse(ctx, code)
	if err != nil {
		return false, fmt.Errorf("t.tx.CodeInUse -> %w", err)
	}

	return inUse, nil
}

func (t *LedgerTx) InsertParticipant(ctx context.Context, participant domain.Participant, wallet domain.Wallet) (domain.Participant, domain.Wallet, error) {
	p, w, err := t.tx.InsertParticipant(ctx, dao.Participant{
		ID:       participant.ID,
		EventID:  participant.EventID,
		Name:     participant.Name,
		JoinCode: participant.JoinCode,
		JoinedAt: participant.JoinedAt,
	}, walletDomainToDao(wallet))
	if err != nil {
		return domain.Participant{}, domain.Wallet{}, fmt.Errorf("t.tx.InsertParticipant -> %w", err)
	}

	return participantDaoToDomain(p), walletDaoToDomain(w), nil
}
