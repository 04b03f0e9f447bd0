package models

import (
	"time"
)

// PaymentRecord is an append-only ledger row per successful invoice. The
// unique payment-intent id is the idempotency key for webhook redelivery.
type PaymentRecord struct {
	ID                    string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	UserID                string    `json:"userId" gorm:"not null;index"`
	StripePaymentIntentId string    `json:"stripePaymentIntentId" gorm:"uniqueIndex;not null"`
	StripeInvoiceId       string    `json:"stripeInvoiceId"`
	StripeChargeId        string    `json:"stripeChargeId"`
	Amount                int64     `json:"amount"`
	Currency              string    `json:"currency" gorm:"type:varchar(10)"`
	Status                string    `json:"status" gorm:"type:varchar(30)"`
	Description           string    `json:"description"`
	ReceiptURL            string    `json:"receiptUrl"`
	CreatedAt             time.Time `json:"createdAt"`
}

func (PaymentRecord) TableName() string {
	return "payment_history"
}
