package models

import (
	"time"
)

type EmailStatus string

const (
	EmailStatusPending EmailStatus = "pending"
	EmailStatusSent    EmailStatus = "sent"
	EmailStatusFailed  EmailStatus = "failed"
)

// Recipient roles for queued notifications.
const (
	RecipientCustomer     = "customer"
	RecipientPhotographer = "photographer"
)

// EmailQueueEntry is the durable retry record for a notification that failed
// synchronous dispatch. Rows only exist for failed sends; the retry job
// deletes them once delivery succeeds.
type EmailQueueEntry struct {
	ID        uint `json:"id" gorm:"primaryKey"`
	BookingID uint `json:"booking_id" gorm:"not null;index"`

	RecipientRole  string `json:"recipient_role" gorm:"type:varchar(20);not null"`
	RecipientEmail string `json:"recipient_email" gorm:"type:varchar(255);not null"`

	Subject  string `json:"subject" gorm:"type:varchar(255);not null"`
	HTMLBody string `json:"html_body" gorm:"type:text;not null"`
	TextBody string `json:"text_body" gorm:"type:text"`

	Status    EmailStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	Attempts  int         `json:"attempts" gorm:"default:0"`
	LastError *string     `json:"last_error,omitempty" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for the EmailQueueEntry model
func (EmailQueueEntry) TableName() string {
	return "email_queue_entries"
}
