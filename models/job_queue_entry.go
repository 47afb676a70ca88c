package models

import (
	"time"
)

type UploadStatus string

const (
	UploadStatusPending    UploadStatus = "pending"
	UploadStatusInProgress UploadStatus = "in_progress"
	UploadStatusCompleted  UploadStatus = "completed"
	// UploadStatusApproved is a later review step outside the core
	// transition logic; nothing in this server sets it.
	UploadStatusApproved UploadStatus = "approved"
)

// JobQueueEntry tracks post-event upload and delivery for one confirmed
// booking. Created when the booking is confirmed; one entry per booking.
type JobQueueEntry struct {
	ID        uint    `json:"id" gorm:"primaryKey"`
	BookingID uint    `json:"booking_id" gorm:"not null;uniqueIndex"`
	Booking   Booking `json:"booking,omitempty" gorm:"foreignKey:BookingID"`

	UploadStatus UploadStatus `json:"upload_status" gorm:"type:varchar(20);default:'pending';check:upload_status IN ('pending','in_progress','completed','approved')"`

	// DeliveryDeadline is derived once at creation as event date plus the
	// SLA window. Never recomputed, even if the event date is edited.
	DeliveryDeadline time.Time `json:"delivery_deadline" gorm:"not null"`

	// GalleryURL, AccessCode and DeliveredAt are all-or-nothing: a job is
	// never delivered with only some of them set. AccessCode holds a
	// bcrypt hash; the plaintext is emailed once at delivery time.
	GalleryURL  *string    `json:"gallery_url,omitempty" gorm:"type:varchar(500)"`
	AccessCode  *string    `json:"-" gorm:"type:varchar(255)"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`

	// LoggedOvertimeHours is a display aggregate; the billing records live
	// in overtime_requests.
	LoggedOvertimeHours float64 `json:"logged_overtime_hours" gorm:"type:decimal(6,2);default:0"`

	Files []UploadedFile `json:"files,omitempty" gorm:"foreignKey:JobID"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for the JobQueueEntry model
func (JobQueueEntry) TableName() string {
	return "job_queue_entries"
}

// UploadedFile is one delivered media file. Files are append-only rows:
// uploads insert, nothing updates or replaces the list.
type UploadedFile struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	JobID      uint      `json:"job_id" gorm:"not null;index"`
	FileName   string    `json:"file_name" gorm:"type:varchar(255);not null"`
	FileSize   int64     `json:"file_size" gorm:"not null"`
	MimeType   string    `json:"mime_type" gorm:"type:varchar(100)"`
	StorageURL string    `json:"storage_url" gorm:"type:varchar(500);not null"`
	UploadedAt time.Time `json:"uploaded_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for the UploadedFile model
func (UploadedFile) TableName() string {
	return "uploaded_files"
}

// JobDeliver is the payload for completing delivery of a job
type JobDeliver struct {
	GalleryURL string `json:"gallery_url" binding:"required"`
}

// OvertimeLog is the payload for logging overtime hours on a job
type OvertimeLog struct {
	Hours float64 `json:"hours" binding:"required,gt=0"`
}
