package models

import (
	"time"
)

type UserRole string

const (
	RoleCustomer     UserRole = "customer"
	RolePhotographer UserRole = "photographer"
)

// User represents a marketplace account: either an event client or a
// photographer offering packages.
type User struct {
	ID           uint     `json:"id" gorm:"primaryKey"`
	Role         UserRole `json:"role" gorm:"type:varchar(20);not null;check:role IN ('customer','photographer')"`
	FullName     string   `json:"full_name" gorm:"type:varchar(200);not null"`
	Email        string   `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	Phone        string   `json:"phone" gorm:"type:varchar(30)"`
	PasswordHash string   `json:"-" gorm:"type:varchar(255);not null"`

	// HourlyRate is the photographer's current overtime rate. Overtime
	// requests snapshot this value at submission time.
	HourlyRate float64 `json:"hourly_rate" gorm:"type:decimal(10,2);default:0"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// SignupRequest is the payload for account creation
type SignupRequest struct {
	Role       string  `json:"role" binding:"required,oneof=customer photographer"`
	FullName   string  `json:"full_name" binding:"required"`
	Email      string  `json:"email" binding:"required,email"`
	Phone      string  `json:"phone"`
	Password   string  `json:"password" binding:"required,min=8"`
	HourlyRate float64 `json:"hourly_rate"`
}

// SigninRequest is the payload for signing in
type SigninRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}
