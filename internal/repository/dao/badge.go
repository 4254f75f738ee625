package dao

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Badge struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	EventID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Name        string    `gorm:"size:50;not null"`
	Icon        string    `gorm:"size:10;not null"`
	Description string    `gorm:"size:200;not null"`
	Criteria    string    `gorm:"size:32;not null;default:''"`
	CreatedAt   time.Time `gorm:"not null"`
}

func (b *Badge) BeforeCreate(*gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}

	return nil
}

type ParticipantBadge struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	ParticipantID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_participant_badge"`
	BadgeID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_participant_badge"`
	EarnedAt      time.Time `gorm:"not null"`
	Badge         *Badge    `gorm:"foreignKey:BadgeID"`
}

func (pb *ParticipantBadge) BeforeCreate(*gorm.DB) error {
	if pb.ID == uuid.Nil {
		pb.ID = uuid.New()
	}

	return nil
}

// WalletSpend is the total payment amount sent from one wallet.
type WalletSpend struct {
	WalletID uuid.UUID
	Spent    decimal.Decimal
}

type walletAmount struct {
	WalletID uuid.UUID
	Amount   decimal.Decimal
}

type BadgeDAO struct {
	db *gorm.DB
}

func NewBadgeDAO(db *gorm.DB) *BadgeDAO {
	return &BadgeDAO{
		db: db,
	}
}

func (d *BadgeDAO) FindByEvent(ctx context.Context, eventID uuid.UUID) ([]Badge, error) {
	var badges []Badge

	result := d.db.WithContext(ctx).Where("event_id = ?", eventID).Order("created_at ASC, name ASC").Find(&badges)
	if result.Error != nil {
		return nil, result.Error
	}

	return badges, nil
}

func (d *BadgeDAO) FindByParticipant(ctx context.Context, participantID uuid.UUID) ([]ParticipantBadge, error) {
	var earned []ParticipantBadge

	result := d.db.WithContext(ctx).
		Preload("Badge").
		Where("participant_id = ?", participantID).
		Order("earned_at ASC").
		Find(&earned)
	if result.Error != nil {
		return nil, result.Error
	}

	return earned, nil
}

// FindUnearned returns the event badges the participant does not hold yet.
func (d *BadgeDAO) FindUnearned(ctx context.Context, eventID, participantID uuid.UUID) ([]Badge, error) {
	var badges []Badge

	earned := d.db.Model(&ParticipantBadge{}).Select("badge_id").Where("participant_id = ?", participantID)
	result := d.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Where("id NOT IN (?)", earned).
		Find(&badges)
	if result.Error != nil {
		return nil, result.Error
	}

	return badges, nil
}

// Award is idempotent: awarding a badge twice keeps the first row.
func (d *BadgeDAO) Award(ctx context.Context, pb ParticipantBadge) error {
	return d.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "participant_id"}, {Name: "badge_id"}},
			DoNothing: true,
		}).
		Create(&pb).Error
}

func (d *BadgeDAO) PaymentSpend(ctx context.Context, walletID uuid.UUID) (decimal.Decimal, error) {
	var rows []walletAmount

	err := d.db.WithContext(ctx).Model(&Transaction{}).
		Select("from_wallet_id AS wallet_id, amount").
		Where("from_wallet_id = ? AND type = ?", walletID, string(TransactionPayment)).
		Scan(&rows).Error
	if err != nil {
		return decimal.Zero, err
	}

	spent := decimal.Zero
	for _, row := range rows {
		spent = spent.Add(row.Amount)
	}

	return spent, nil
}

func (d *BadgeDAO) TransactionCount(ctx context.Context, walletID uuid.UUID) (int64, error) {
	var n int64

	err := d.db.WithContext(ctx).Model(&Transaction{}).
		Where("from_wallet_id = ? OR to_wallet_id = ?", walletID, walletID).
		Count(&n).Error
	if err != nil {
		return 0, err
	}

	return n, nil
}

// SpendRanking returns payment spend per wallet of the event, highest first.
// Amounts are summed in Go: SQLite stores numeric columns as REAL and its
// SUM would add binary floats.
func (d *BadgeDAO) SpendRanking(ctx context.Context, eventID uuid.UUID) ([]WalletSpend, error) {
	var rows []walletAmount

	err := d.db.WithContext(ctx).Model(&Transaction{}).
		Select("from_wallet_id AS wallet_id, amount").
		Where("event_id = ? AND type = ?", eventID, string(TransactionPayment)).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	index := make(map[uuid.UUID]int)
	var ranking []WalletSpend
	for _, row := range rows {
		i, ok := index[row.WalletID]
		if !ok {
			i = len(ranking)
			index[row.WalletID] = i
			ranking = append(ranking, WalletSpend{WalletID: row.WalletID, Spent: decimal.Zero})
		}
		ranking[i].Spent = ranking[i].Spent.Add(row.Amount)
	}

	sort.Slice(ranking, func(i, j int) bool {
		if c := ranking[i].Spent.Cmp(ranking[j].Spent); c != 0 {
			return c > 0
		}
		return ranking[i].WalletID.String() < ranking[j].WalletID.String()
	})

	return ranking, nil
}

func (d *BadgeDAO) CountParticipants(ctx context.Context, eventID uuid.UUID) (int64, error) {
	var n int64

	if err := d.db.WithContext(ctx).Model(&Participant{}).Where("event_id = ?", eventID).Count(&n).Error; err != nil {
		return 0, err
	}

	return n, nil
}
