package dao

import "gorm.io/gorm"

func InitTables(db *gorm.DB) error {
	return db.AutoMigrate(
		&Organizer{},
		&Event{},
		&Participant{},
		&Wallet{},
		&Vendor{},
		&Transaction{},
		&Badge{},
		&ParticipantBadge{},
		&IdempotencyKey{},
	)
}
