package models

import (
	"time"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
	PaymentStatusFailed   PaymentStatus = "failed"
)

// Booking represents an engagement between a customer and a photographer for
// a specific event date and package.
type Booking struct {
	ID             uint    `json:"id" gorm:"primaryKey"`
	CustomerID     uint    `json:"customer_id" gorm:"not null;index"`
	Customer       User    `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	PhotographerID uint    `json:"photographer_id" gorm:"not null;index"`
	Photographer   User    `json:"photographer,omitempty" gorm:"foreignKey:PhotographerID"`
	PackageID      uint    `json:"package_id" gorm:"not null"`
	Package        Package `json:"package,omitempty" gorm:"foreignKey:PackageID"`

	EventDate time.Time `json:"event_date" gorm:"not null"`
	EventTime string    `json:"event_time" gorm:"size:20"`

	VenueName       string `json:"venue_name" gorm:"type:varchar(200);not null"`
	VenueStreet     string `json:"venue_street" gorm:"type:varchar(255)"`
	VenueCity       string `json:"venue_city" gorm:"type:varchar(100)"`
	VenueState      string `json:"venue_state" gorm:"type:varchar(100)"`
	VenuePostalCode string `json:"venue_postal_code" gorm:"type:varchar(20)"`

	GuestCount int `json:"guest_count"`

	// TotalAmount mirrors the amount on the payment option the customer
	// selected at quote time; CreateBooking re-derives the quote and
	// rejects a mismatch.
	TotalAmount   float64       `json:"total_amount" gorm:"type:decimal(10,2);not null"`
	PaymentOption string        `json:"payment_option" gorm:"type:varchar(30);not null"`
	PaymentStatus PaymentStatus `json:"payment_status" gorm:"type:varchar(20);default:'pending';check:payment_status IN ('pending','paid','refunded','failed')"`
	BookingStatus BookingStatus `json:"booking_status" gorm:"type:varchar(20);default:'pending';check:booking_status IN ('pending','confirmed','completed','cancelled')"`

	// ContractURL is set exactly once; the contract reflects terms at the
	// moment of payment and never changes afterwards.
	ContractURL      *string `json:"contract_url" gorm:"type:varchar(500)"`
	PaymentSessionID string  `json:"payment_session_id" gorm:"type:varchar(255);index"`

	// Personalization holds free-form JSON captured from the client
	// (song choices, shot lists, etc). Opaque to the server.
	Personalization string `json:"personalization" gorm:"type:text"`

	OvertimeHours float64 `json:"overtime_hours" gorm:"type:decimal(6,2);default:0"`

	CancellationReason *string    `json:"cancellation_reason,omitempty" gorm:"type:text"`
	CancelledBy        *string    `json:"cancelled_by,omitempty" gorm:"type:varchar(20)"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for the Booking model
func (Booking) TableName() string {
	return "bookings"
}

// IsTerminal reports whether no further status transitions are allowed.
func (b *Booking) IsTerminal() bool {
	return b.BookingStatus == BookingStatusCompleted || b.BookingStatus == BookingStatusCancelled
}

// BookingCreate is the payload for creating a booking from an accepted quote
type BookingCreate struct {
	PackageID       uint    `json:"package_id" binding:"required"`
	EventDate       string  `json:"event_date" binding:"required"` // YYYY-MM-DD
	EventTime       string  `json:"event_time"`
	VenueName       string  `json:"venue_name" binding:"required"`
	VenueStreet     string  `json:"venue_street"`
	VenueCity       string  `json:"venue_city"`
	VenueState      string  `json:"venue_state"`
	VenuePostalCode string  `json:"venue_postal_code"`
	GuestCount      int     `json:"guest_count"`
	PaymentOption   string  `json:"payment_option" binding:"required"`
	ExpectedAmount  float64 `json:"expected_amount" binding:"required"`
	Personalization string  `json:"personalization"`
}

// BookingCancel is the payload for cancelling a booking
type BookingCancel struct {
	Reason string `json:"reason" binding:"required"`
}
