package models

import (
	"time"
)

type SubscriptionStatus string

// Miroir des statuts Stripe
const (
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionTrialing SubscriptionStatus = "trialing"
	SubscriptionPastDue  SubscriptionStatus = "past_due"
	SubscriptionCanceled SubscriptionStatus = "canceled"
)

// Subscription is one row per Stripe subscription object. Rows are upserted
// by StripeSubscriptionId and never deleted, the status moves to canceled
// instead.
type Subscription struct {
	ID                   string             `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	UserID               string             `json:"userId" gorm:"not null;index"`
	StripeSubscriptionId string             `json:"stripeSubscriptionId" gorm:"uniqueIndex;not null"`
	StripeCustomerId     string             `json:"stripeCustomerId"`
	StripePriceId        string             `json:"stripePriceId"`
	PlanTier             SubscriptionTier   `json:"planTier" gorm:"type:varchar(30)"`
	BillingInterval      string             `json:"billingInterval" gorm:"type:varchar(10)"`
	Status               SubscriptionStatus `json:"status" gorm:"type:varchar(30)"`
	CurrentPeriodStart   *time.Time         `json:"currentPeriodStart"`
	CurrentPeriodEnd     *time.Time         `json:"currentPeriodEnd"`
	CancelAtPeriodEnd    bool               `json:"cancelAtPeriodEnd"`
	CanceledAt           *time.Time         `json:"canceledAt"`
	TrialEnd             *time.Time         `json:"trialEnd"`
	CreatedAt            time.Time          `json:"createdAt"`
	UpdatedAt            time.Time          `json:"updatedAt"`
}
