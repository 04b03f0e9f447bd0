package models

import (
	"time"
)

type SubscriptionTier string

// Valeurs possibles pour le tier d'abonnement (le legacy "free" n'existe plus)
const (
	TierBasic            SubscriptionTier = "basic"
	TierPremium          SubscriptionTier = "premium"
	TierHouseholdPremium SubscriptionTier = "household_premium"
)

// Profile mirrors one identity-provider user. The ID is the Clerk user id,
// not a generated uuid.
type Profile struct {
	ID                 string           `json:"id" gorm:"primaryKey"`
	Email              string           `json:"email" gorm:"uniqueIndex;not null"`
	FullName           string           `json:"fullName"`
	AvatarURL          string           `json:"avatarUrl"`
	SubscriptionTier   SubscriptionTier `json:"subscriptionTier" gorm:"type:varchar(30);not null"`
	SubscriptionStatus string           `json:"subscriptionStatus" gorm:"type:varchar(30);not null"`
	StripeCustomerId   string           `json:"stripeCustomerId"`
	GmailRefreshToken  string           `json:"-"`
	CreatedAt          time.Time        `json:"createdAt"`
	UpdatedAt          time.Time        `json:"updatedAt"`
}

type ProfileUpdate struct {
	FullName  string `json:"fullName"`
	AvatarURL string `json:"avatarUrl"`
}
