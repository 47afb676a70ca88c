package models

import (
	"time"
)

// Package represents a photographer-defined service offering. Packages are
// immutable reference data for pricing: bookings copy what they need at
// creation time instead of re-reading the package later.
type Package struct {
	ID             uint     `json:"id" gorm:"primaryKey"`
	PhotographerID uint     `json:"photographer_id" gorm:"not null;index"`
	Photographer   User     `json:"photographer,omitempty" gorm:"foreignKey:PhotographerID"`
	Title          string   `json:"title" gorm:"type:varchar(200);not null"`
	Description    string   `json:"description" gorm:"type:text"`
	BasePrice      float64  `json:"base_price" gorm:"type:decimal(10,2);not null"`
	DurationHours  int      `json:"duration_hours" gorm:"not null"`
	Deliverables   []string `json:"deliverables" gorm:"serializer:json;type:text"`
	IsActive       bool     `json:"is_active" gorm:"default:true"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for the Package model
func (Package) TableName() string {
	return "packages"
}
