package models

import (
	"time"
)

// WebhookLog is the audit row appended for every verified Stripe webhook
// delivery. Processed event ids short-circuit redelivery before dispatch.
type WebhookLog struct {
	ID          string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	EventID     string     `json:"eventId" gorm:"uniqueIndex;not null"`
	EventType   string     `json:"eventType" gorm:"not null"`
	Payload     string     `json:"payload" gorm:"type:text"`
	Processed   bool       `json:"processed"`
	ProcessedAt *time.Time `json:"processedAt"`
	Error       string     `json:"error"`
	CreatedAt   time.Time  `json:"createdAt"`
}

func (WebhookLog) TableName() string {
	return "stripe_webhooks_log"
}
