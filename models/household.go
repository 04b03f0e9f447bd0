package models

import (
	"time"
)

type Household struct {
	ID         string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	OwnerID    string    `json:"ownerId" gorm:"not null;index"`
	Name       string    `json:"name" gorm:"not null"`
	InviteCode string    `json:"inviteCode" gorm:"uniqueIndex;not null"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type HouseholdRole string

const (
	RoleOwner  HouseholdRole = "owner"
	RoleMember HouseholdRole = "member"
)

type HouseholdMember struct {
	ID          string        `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	HouseholdID string        `json:"householdId" gorm:"type:uuid;not null;uniqueIndex:idx_household_user"`
	UserID      string        `json:"userId" gorm:"not null;uniqueIndex:idx_household_user"`
	Role        HouseholdRole `json:"role" gorm:"type:varchar(10)"`
	CreatedAt   time.Time     `json:"createdAt"`
}
