package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mintly/mintly-api/internal/domain"
)

type IdempotencyKey struct {
	Key       string    `gorm:"primaryKey;size:255"`
	RequestID string    `gorm:"size:64"`
	Method    string    `gorm:"size:16;not null"`
	Path      string    `gorm:"size:255;not null"`
	Status    int       `gorm:"not null"`
	Response  string    `gorm:"type:text"`
	CreatedAt time.Time `gorm:"not null;index"`
}

// IdempotencyDAO stores replayable responses in the main database. The
// primary key on Key is what serializes concurrent requests across replicas.
type IdempotencyDAO struct {
	db  *gorm.DB
	ttl time.Duration
}

func NewIdempotencyDAO(db *gorm.DB, ttl time.Duration) *IdempotencyDAO {
	return &IdempotencyDAO{
		db:  db,
		ttl: ttl,
	}
}

// Reserve inserts a pending row for entry.Key. When the key is already held
// it returns the existing row and false.
func (d *IdempotencyDAO) Reserve(ctx context.Context, entry domain.IdempotentResponse) (domain.IdempotentResponse, bool, error) {
	now := time.Now()
	if err := d.purgeStale(ctx, entry.Key, now); err != nil {
		return domain.IdempotentResponse{}, false, err
	}

	record := IdempotencyKey{
		Key:       entry.Key,
		RequestID: entry.RequestID,
		Method:    entry.Method,
		Path:      entry.Path,
		CreatedAt: now,
	}

	for attempt := 0; attempt < 2; attempt++ {
		result := d.db.WithContext(ctx).
			Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "key"}}, DoNothing: true}).
			Create(&record)
		if result.Error != nil {
			return domain.IdempotentResponse{}, false, result.Error
		}
		if result.RowsAffected == 1 {
			return idempotencyDaoToDomain(record), true, nil
		}

		var held IdempotencyKey
		err := d.db.WithContext(ctx).Where("key = ?", entry.Key).First(&held).Error
		if err == nil {
			return idempotencyDaoToDomain(held), false, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.IdempotentResponse{}, false, err
		}
	}

	// The holder released the key between our insert and read.
	return idempotencyDaoToDomain(record), false, nil
}

// Complete stores the response of a pending reservation.
func (d *IdempotencyDAO) Complete(ctx context.Context, resp domain.IdempotentResponse) error {
	return d.db.WithContext(ctx).
		Model(&IdempotencyKey{}).
		Where("key = ? AND status = 0", resp.Key).
		Updates(map[string]any{
			"request_id": resp.RequestID,
			"status":     resp.Status,
			"response":   resp.Body,
		}).Error
}

// Release drops a pending reservation so the key can be retried.
func (d *IdempotencyDAO) Release(ctx context.Context, key string) error {
	return d.db.WithContext(ctx).
		Where("key = ? AND status = 0", key).
		Delete(&IdempotencyKey{}).Error
}

func (d *IdempotencyDAO) purgeStale(ctx context.Context, key string, now time.Time) error {
	var expiredBefore time.Time
	if d.ttl > 0 {
		expiredBefore = now.Add(-d.ttl)
	}

	return d.db.WithContext(ctx).
		Where("key = ? AND (created_at <= ? OR (status = 0 AND created_at <= ?))",
			key, expiredBefore, now.Add(-domain.IdempotencyPendingTimeout)).
		Delete(&IdempotencyKey{}).Error
}

func idempotencyDaoToDomain(record IdempotencyKey) domain.IdempotentResponse {
	return domain.IdempotentResponse{
		Key:       record.Key,
		RequestID: record.RequestID,
		Method:    record.Method,
		Path:      record.Path,
		Status:    record.Status,
		Body:      record.Response,
		CreatedAt: record.CreatedAt,
	}
}
