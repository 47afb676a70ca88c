package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"photo-booking-server/models"
	"photo-booking-server/types"
	"photo-booking-server/utils"
)

// JobService manages post-event fulfillment: upload state, the append-only
// delivered-file list, delivery completion and overtime billing.
type JobService struct {
	db       *gorm.DB
	notifier *NotificationService
	slaDays  int
	now      func() time.Time
}

func NewJobService(db *gorm.DB, notifier *NotificationService, slaDays int) *JobService {
	return &JobService{db: db, notifier: notifier, slaDays: slaDays, now: time.Now}
}

// CreateForBooking creates the job entry when a booking is confirmed. The
// delivery deadline is derived here, once, as event date + SLA window and is
// never recomputed, even if the event date field is later edited.
// FirstOrCreate keeps a racing double-confirm from creating two entries.
func (s *JobService) CreateForBooking(tx *gorm.DB, booking *models.Booking) (*models.JobQueueEntry, error) {
	entry := models.JobQueueEntry{BookingID: booking.ID}
	err := tx.Where(models.JobQueueEntry{BookingID: booking.ID}).
		Attrs(models.JobQueueEntry{
			UploadStatus:     models.UploadStatusPending,
			DeliveryDeadline: booking.EventDate.AddDate(0, 0, s.slaDays),
		}).
		FirstOrCreate(&entry).Error
	if err != nil {
		return nil, fmt.Errorf("failed to create job queue entry: %w", err)
	}
	return &entry, nil
}

// Get loads a job entry with its booking and files, checking that the
// caller is the photographer on the booking.
func (s *JobService) Get(jobID, photographerID uint) (*models.JobQueueEntry, error) {
	var entry models.JobQueueEntry
	err := s.db.
		Preload("Booking").
		Preload("Booking.Customer").
		Preload("Booking.Photographer").
		Preload("Booking.Package").
		Preload("Files", func(db *gorm.DB) *gorm.DB { return db.Order("uploaded_files.id ASC") }).
		First(&entry, jobID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, types.NewValidationError("job not found")
	}
	if err != nil {
		return nil, err
	}
	if entry.Booking.PhotographerID != photographerID {
		return nil, types.NewValidationError("job does not belong to this photographer")
	}
	return &entry, nil
}

// GetByBookingID loads the job entry for a booking without an ownership
// check; used internally after a confirm.
func (s *JobService) GetByBookingID(bookingID uint) (*models.JobQueueEntry, error) {
	var entry models.JobQueueEntry
	err := s.db.Where("booking_id = ?", bookingID).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, types.NewValidationError("job not found for booking")
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// ListForPhotographer returns the photographer's jobs, newest event first.
func (s *JobService) ListForPhotographer(photographerID uint) ([]models.JobQueueEntry, error) {
	var entries []models.JobQueueEntry
	err := s.db.
		Joins("JOIN bookings ON bookings.id = job_queue_entries.booking_id").
		Where("bookings.photographer_id = ?", photographerID).
		Preload("Booking").
		Preload("Booking.Customer").
		Preload("Booking.Package").
		Preload("Files").
		Order("job_queue_entries.delivery_deadline ASC").
		Find(&entries).Error
	return entries, err
}

// StartUpload transitions pending → in_progress once the event date has
// passed. Calling it again while already in progress is a no-op.
func (s *JobService) StartUpload(jobID, photographerID uint) (*models.JobQueueEntry, error) {
	entry, err := s.Get(jobID, photographerID)
	if err != nil {
		return nil, err
	}

	switch entry.UploadStatus {
	case models.UploadStatusInProgress:
		return entry, nil
	case models.UploadStatusPending:
		// fall through to the transition
	default:
		return nil, types.NewValidationError("upload already completed for this job")
	}

	if s.now().Before(entry.Booking.EventDate) {
		return nil, types.NewValidationError("uploads cannot start before the event date")
	}

	if err := s.db.Model(entry).Update("upload_status", models.UploadStatusInProgress).Error; err != nil {
		return nil, err
	}
	entry.UploadStatus = models.UploadStatusInProgress
	return entry, nil
}

// AppendFiles records newly uploaded file descriptors on the job. Each file
// becomes its own inserted row, so the list is strictly append-only and two
// concurrent uploads can never drop each other's files.
func (s *JobService) AppendFiles(jobID, photographerID uint, files []models.UploadedFile) (*models.JobQueueEntry, error) {
	if len(files) == 0 {
		return nil, types.NewValidationError("no files to append")
	}

	entry, err := s.Get(jobID, photographerID)
	if err != nil {
		return nil, err
	}
	if entry.UploadStatus != models.UploadStatusInProgress {
		return nil, types.NewValidationError("job is not accepting uploads")
	}

	for i := range files {
		files[i].ID = 0
		files[i].JobID = entry.ID
	}
	if err := s.db.Create(&files).Error; err != nil {
		return nil, fmt.Errorf("failed to record uploaded files: %w", err)
	}

	entry.Files = append(entry.Files, files...)
	return entry, nil
}

// CompleteDelivery sets the gallery URL, access credential, delivered_at
// stamp and completed status together, marks the booking completed, and
// fires the delivery-ready notification. The gallery URL, credential and
// timestamp are all-or-nothing; a notification failure does not roll back
// the status change, because delivery status reflects file availability,
// not notification success.
func (s *JobService) CompleteDelivery(ctx context.Context, jobID, photographerID uint, galleryURL string) (*models.JobQueueEntry, string, error) {
	if galleryURL == "" {
		return nil, "", types.NewValidationError("gallery URL is required")
	}

	entry, err := s.Get(jobID, photographerID)
	if err != nil {
		return nil, "", err
	}
	if entry.UploadStatus != models.UploadStatusInProgress {
		return nil, "", types.NewValidationError("job is not in progress")
	}
	if len(entry.Files) == 0 {
		return nil, "", types.NewValidationError("cannot complete delivery with no uploaded files")
	}

	accessCode := utils.GenerateAccessCode()
	codeHash, err := bcrypt.GenerateFromPassword([]byte(accessCode), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash access code: %w", err)
	}

	deliveredAt := s.now()
	hashString := string(codeHash)

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(entry).Updates(map[string]interface{}{
			"gallery_url":   galleryURL,
			"access_code":   hashString,
			"delivered_at":  deliveredAt,
			"upload_status": models.UploadStatusCompleted,
		}).Error; err != nil {
			return err
		}

		return tx.Model(&models.Booking{}).
			Where("id = ? AND booking_status = ?", entry.BookingID, models.BookingStatusConfirmed).
			Update("booking_status", models.BookingStatusCompleted).Error
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to complete delivery: %w", err)
	}

	entry.GalleryURL = &galleryURL
	entry.AccessCode = &hashString
	entry.DeliveredAt = &deliveredAt
	entry.UploadStatus = models.UploadStatusCompleted
	entry.Booking.BookingStatus = models.BookingStatusCompleted

	if err := s.notifier.SendDeliveryReady(ctx, &entry.Booking, galleryURL, accessCode); err != nil {
		log.Printf("⚠️ Delivery-ready notification for job %d could not be queued: %v", entry.ID, err)
	}

	return entry, accessCode, nil
}

// LogOvertime creates one OvertimeRequest for the hours claimed, priced at
// the photographer's current hourly rate. Multiple submissions create
// multiple records; nothing is merged. Approval happens externally.
func (s *JobService) LogOvertime(jobID, photographerID uint, hours float64) (*models.OvertimeRequest, error) {
	if hours <= 0 {
		return nil, types.NewValidationError("overtime hours must be positive")
	}

	entry, err := s.Get(jobID, photographerID)
	if err != nil {
		return nil, err
	}
	if entry.UploadStatus == models.UploadStatusPending {
		return nil, types.NewValidationError("overtime can be logged once fulfillment has started")
	}

	rate := entry.Booking.Photographer.HourlyRate
	request := models.OvertimeRequest{
		JobID:      entry.ID,
		Hours:      hours,
		HourlyRate: rate,
		Total:      hours * rate,
		Status:     models.OvertimeStatusPending,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&request).Error; err != nil {
			return err
		}
		if err := tx.Model(entry).
			Update("logged_overtime_hours", gorm.Expr("logged_overtime_hours + ?", hours)).Error; err != nil {
			return err
		}
		return tx.Model(&models.Booking{}).
			Where("id = ?", entry.BookingID).
			Update("overtime_hours", gorm.Expr("overtime_hours + ?", hours)).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record overtime: %w", err)
	}

	return &request, nil
}
