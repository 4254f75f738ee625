package domain

import (
	"time"

	"github.com/google/uuid"
)

type BadgeCriteria string

const (
	CriteriaFirstHour     BadgeCriteria = "first_hour"
	CriteriaSpend50       BadgeCriteria = "spend_50"
	CriteriaTransactions5 BadgeCriteria = "transactions_5"
	CriteriaTop10Percent  BadgeCriteria = "top_10_percent"
)

type Badge struct {
	ID          uuid.UUID     `json:"id"`
	EventID     uuid.UUID     `json:"event_id"`
	Name        string        `json:"name"`
	Icon        string        `json:"icon"`
	Description string        `json:"description"`
	Criteria    BadgeCriteria `json:"criteria,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
}

type ParticipantBadge struct {
	ID            uuid.UUID `json:"id"`
	ParticipantID uuid.UUID `json:"participant_id"`
	BadgeID       uuid.UUID `json:"badge_id"`
	EarnedAt      time.Time `json:"earned_at"`
	Badge         *Badge    `json:"badge,omitempty"`
}

// DefaultBadges are seeded for every new event.
func DefaultBadges(eventID uuid.UUID) []Badge {
	return []Badge{
		{EventID: eventID, Name: "Early Bird", Icon: "EB", Description: "Joined in the first hour", Criteria: CriteriaFirstHour},
		{EventID: eventID, Name: "Big Spender", Icon: "BS", Description: "Spent over 50 coins", Criteria: CriteriaSpend50},
		{EventID: eventID, Name: "Supporter", Icon: "SP", Description: "Made 5+ transactions", Criteria: CriteriaTransactions5},
		{EventID: eventID, Name: "VIP", Icon: "VP", Description: "Top 10% spender", Criteria: CriteriaTop10Percent},
	}
}
