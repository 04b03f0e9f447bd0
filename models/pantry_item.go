package models

import (
	"time"
)

type PantryItem struct {
	ID                string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	UserID            string     `json:"userId" gorm:"not null;index"`
	HouseholdID       *string    `json:"householdId" gorm:"type:uuid"`
	StorageLocationID *string    `json:"storageLocationId" gorm:"type:uuid"`
	Name              string     `json:"name" gorm:"not null"`
	Category          string     `json:"category"`
	Quantity          float64    `json:"quantity"`
	Unit              string     `json:"unit" gorm:"type:varchar(20)"`
	ExpirationDate    *time.Time `json:"expirationDate"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

type PantryItemInput struct {
	Name              string     `json:"name" binding:"required"`
	Category          string     `json:"category"`
	Quantity          float64    `json:"quantity"`
	Unit              string     `json:"unit"`
	StorageLocationID *string    `json:"storageLocationId"`
	HouseholdID       *string    `json:"householdId"`
	ExpirationDate    *time.Time `json:"expirationDate"`
}
