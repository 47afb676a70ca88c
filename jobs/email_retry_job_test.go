package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"photo-booking-server/models"
	"photo-booking-server/types"
)

type recordingMailer struct {
	sent    []string // recipient per successful send
	failAll bool
}

func (m *recordingMailer) Send(ctx context.Context, to, subject, htmlBody, textBody string) error {
	if m.failAll {
		return types.NewTransientError("smtp is down", nil)
	}
	m.sent = append(m.sent, to)
	return nil
}

func setupQueueDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.EmailQueueEntry{}))
	return db
}

func queueEntry(t *testing.T, db *gorm.DB, attempts int) models.EmailQueueEntry {
	entry := models.EmailQueueEntry{
		BookingID:      1,
		RecipientRole:  models.RecipientCustomer,
		RecipientEmail: "customer@example.com",
		Subject:        "Booking confirmed",
		HTMLBody:       "<p>hi</p>",
		TextBody:       "hi",
		Status:         models.EmailStatusPending,
		Attempts:       attempts,
	}
	require.NoError(t, db.Create(&entry).Error)
	return entry
}

func TestDrainQueueDeletesOnSuccess(t *testing.T) {
	db := setupQueueDB(t)
	mailer := &recordingMailer{}
	job := NewEmailRetryJob(db, mailer, time.Minute, 5)

	queueEntry(t, db, 0)
	queueEntry(t, db, 2)

	job.DrainQueue(context.Background())

	assert.Len(t, mailer.sent, 2)

	var remaining int64
	db.Model(&models.EmailQueueEntry{}).Count(&remaining)
	assert.Zero(t, remaining)
}

func TestDrainQueueBumpsAttemptsOnFailure(t *testing.T) {
	db := setupQueueDB(t)
	mailer := &recordingMailer{failAll: true}
	job := NewEmailRetryJob(db, mailer, time.Minute, 5)

	entry := queueEntry(t, db, 0)
	job.DrainQueue(context.Background())

	var reloaded models.EmailQueueEntry
	require.NoError(t, db.First(&reloaded, entry.ID).Error)
	assert.Equal(t, 1, reloaded.Attempts)
	assert.Equal(t, models.EmailStatusPending, reloaded.Status)
	require.NotNil(t, reloaded.LastError)
	assert.Contains(t, *reloaded.LastError, "smtp is down")
}

func TestDrainQueueParksEntryAtMaxAttempts(t *testing.T) {
	db := setupQueueDB(t)
	mailer := &recordingMailer{failAll: true}
	job := NewEmailRetryJob(db, mailer, time.Minute, 3)

	entry := queueEntry(t, db, 2)
	job.DrainQueue(context.Background())

	var reloaded models.EmailQueueEntry
	require.NoError(t, db.First(&reloaded, entry.ID).Error)
	assert.Equal(t, 3, reloaded.Attempts)
	assert.Equal(t, models.EmailStatusFailed, reloaded.Status)

	// Parked entries are never picked up again
	mailer.failAll = false
	job.DrainQueue(context.Background())
	assert.Empty(t, mailer.sent)
}

func TestDrainQueueSkipsAlreadySent(t *testing.T) {
	db := setupQueueDB(t)
	mailer := &recordingMailer{}
	job := NewEmailRetryJob(db, mailer, time.Minute, 5)

	entry := queueEntry(t, db, 0)
	require.NoError(t, db.Model(&entry).Update("status", models.EmailStatusSent).Error)

	job.DrainQueue(context.Background())
	assert.Empty(t, mailer.sent)
}
