package models

import (
	"time"
)

type OvertimeStatus string

const (
	OvertimeStatusPending  OvertimeStatus = "pending"
	OvertimeStatusApproved OvertimeStatus = "approved"
	OvertimeStatusRejected OvertimeStatus = "rejected"
)

// OvertimeRequest is a billing claim for hours worked beyond the contracted
// package duration. Each submission creates a new row; rows are never merged
// or mutated after creation. Approval happens outside this server.
type OvertimeRequest struct {
	ID    uint          `json:"id" gorm:"primaryKey"`
	JobID uint          `json:"job_id" gorm:"not null;index"`
	Job   JobQueueEntry `json:"job,omitempty" gorm:"foreignKey:JobID"`

	Hours float64 `json:"hours" gorm:"type:decimal(6,2);not null"`

	// HourlyRate snapshots the photographer's rate at submission time so a
	// later rate change never rewrites an existing claim.
	HourlyRate float64 `json:"hourly_rate" gorm:"type:decimal(10,2);not null"`
	Total      float64 `json:"total" gorm:"type:decimal(10,2);not null"`

	Status OvertimeStatus `json:"status" gorm:"type:varchar(20);default:'pending'"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for the OvertimeRequest model
func (OvertimeRequest) TableName() string {
	return "overtime_requests"
}
