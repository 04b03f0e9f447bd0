package models

import (
	"time"
)

type PantryEventType string

const (
	PantryEventAdded    PantryEventType = "added"
	PantryEventConsumed PantryEventType = "consumed"
	PantryEventWasted   PantryEventType = "wasted"
)

// PantryEvent is the append-only consumption/waste journal behind the
// analytics charts.
type PantryEvent struct {
	ID         string          `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	UserID     string          `json:"userId" gorm:"not null;index"`
	ItemID     *string         `json:"itemId" gorm:"type:uuid"`
	ItemName   string          `json:"itemName"`
	EventType  PantryEventType `json:"eventType" gorm:"type:varchar(20);not null"`
	Quantity   float64         `json:"quantity"`
	OccurredAt time.Time       `json:"occurredAt"`
	CreatedAt  time.Time       `json:"createdAt"`
}
