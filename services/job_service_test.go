package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"photo-booking-server/models"
	"photo-booking-server/types"
)

type jobTestEnv struct {
	db           *gorm.DB
	mailer       *fakeEmailGateway
	jobs         *JobService
	customer     models.User
	photographer models.User
	pkg          models.Package
}

func newJobTestEnv(t *testing.T) *jobTestEnv {
	db := setupTestDB(t)
	mailer := &fakeEmailGateway{}
	notifier := NewNotificationService(db, mailer, "http://localhost:3000")
	jobs := NewJobService(db, notifier, 42)

	photographer := createUser(t, db, models.RolePhotographer, "photographer@example.com", 150)
	customer := createUser(t, db, models.RoleCustomer, "customer@example.com", 0)
	pkg := createPackage(t, db, photographer.ID, 2400)

	return &jobTestEnv{
		db:           db,
		mailer:       mailer,
		jobs:         jobs,
		customer:     customer,
		photographer: photographer,
		pkg:          pkg,
	}
}

// newJob confirms a booking with the given event date and returns its job
// entry, optionally advanced to in_progress with a file already uploaded.
func (env *jobTestEnv) newJob(t *testing.T, eventDate time.Time, inProgress bool) *models.JobQueueEntry {
	booking := createBooking(t, env.db, env.customer, env.photographer, env.pkg,
		eventDate, models.BookingStatusConfirmed)

	entry, err := env.jobs.CreateForBooking(env.db, &booking)
	require.NoError(t, err)

	if inProgress {
		require.NoError(t, env.db.Model(entry).
			Update("upload_status", models.UploadStatusInProgress).Error)
		require.NoError(t, env.db.Create(&models.UploadedFile{
			JobID:      entry.ID,
			FileName:   "seed.jpg",
			FileSize:   1024,
			MimeType:   "image/jpeg",
			StorageURL: "https://cdn.example/deliveries/seed.jpg",
		}).Error)
	}

	loaded, err := env.jobs.Get(entry.ID, env.photographer.ID)
	require.NoError(t, err)
	return loaded
}

func yesterday() time.Time { return time.Now().AddDate(0, 0, -1) }
func nextMonth() time.Time { return time.Now().AddDate(0, 1, 0) }

func TestCreateForBookingSetsDeadlineOnce(t *testing.T) {
	env := newJobTestEnv(t)
	eventDate := time.Date(2026, 6, 20, 0, 0, 0, 0, time.UTC)
	booking := createBooking(t, env.db, env.customer, env.photographer, env.pkg,
		eventDate, models.BookingStatusConfirmed)

	entry, err := env.jobs.CreateForBooking(env.db, &booking)
	require.NoError(t, err)
	assert.Equal(t, eventDate.AddDate(0, 0, 42), entry.DeliveryDeadline)
	assert.Equal(t, models.UploadStatusPending, entry.UploadStatus)

	// A second confirm finds the existing entry instead of creating another
	again, err := env.jobs.CreateForBooking(env.db, &booking)
	require.NoError(t, err)
	assert.Equal(t, entry.ID, again.ID)

	var count int64
	env.db.Model(&models.JobQueueEntry{}).Count(&count)
	assert.Equal(t, int64(1), count)

	// Editing the event date later never moves the deadline
	require.NoError(t, env.db.Model(&models.Booking{}).
		Where("id = ?", booking.ID).
		Update("event_date", eventDate.AddDate(0, 1, 0)).Error)

	reloaded, err := env.jobs.GetByBookingID(booking.ID)
	require.NoError(t, err)
	assert.WithinDuration(t, eventDate.AddDate(0, 0, 42), reloaded.DeliveryDeadline, time.Second)
}

func TestGetRejectsOtherPhotographer(t *testing.T) {
	env := newJobTestEnv(t)
	other := createUser(t, env.db, models.RolePhotographer, "other@example.com", 100)
	entry := env.newJob(t, nextMonth(), false)

	_, err := env.jobs.Get(entry.ID, other.ID)
	require.Error(t, err)
	assert.True(t, types.IsValidation(err))
}

func TestStartUploadBeforeEventRejected(t *testing.T) {
	env := newJobTestEnv(t)
	entry := env.newJob(t, nextMonth(), false)

	_, err := env.jobs.StartUpload(entry.ID, env.photographer.ID)
	require.Error(t, err)
	assert.True(t, types.IsValidation(err))
}

func TestStartUploadAfterEvent(t *testing.T) {
	env := newJobTestEnv(t)
	entry := env.newJob(t, yesterday(), false)

	started, err := env.jobs.StartUpload(entry.ID, env.photographer.ID)
	require.NoError(t, err)
	assert.Equal(t, models.UploadStatusInProgress, started.UploadStatus)

	// Starting again is a no-op, not an error
	again, err := env.jobs.StartUpload(entry.ID, env.photographer.ID)
	require.NoError(t, err)
	assert.Equal(t, models.UploadStatusInProgress, again.UploadStatus)
}

func TestAppendFilesPreservesEarlierBatches(t *testing.T) {
	env := newJobTestEnv(t)
	entry := env.newJob(t, yesterday(), true)

	_, err := env.jobs.AppendFiles(entry.ID, env.photographer.ID, []models.UploadedFile{
		{FileName: "a.jpg", FileSize: 2048, MimeType: "image/jpeg", StorageURL: "https://cdn.example/a.jpg"},
	})
	require.NoError(t, err)

	// A second batch, as if from a concurrent upload session
	_, err = env.jobs.AppendFiles(entry.ID, env.photographer.ID, []models.UploadedFile{
		{FileName: "b.jpg", FileSize: 2048, MimeType: "image/jpeg", StorageURL: "https://cdn.example/b.jpg"},
		{FileName: "c.jpg", FileSize: 2048, MimeType: "image/jpeg", StorageURL: "https://cdn.example/c.jpg"},
	})
	require.NoError(t, err)

	loaded, err := env.jobs.Get(entry.ID, env.photographer.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Files, 4) // seed + 3 appended

	names := make([]string, 0, len(loaded.Files))
	for _, f := range loaded.Files {
		names = append(names, f.FileName)
	}
	assert.Equal(t, []string{"seed.jpg", "a.jpg", "b.jpg", "c.jpg"}, names)
}

func TestAppendFilesRequiresInProgress(t *testing.T) {
	env := newJobTestEnv(t)
	entry := env.newJob(t, nextMonth(), false)

	_, err := env.jobs.AppendFiles(entry.ID, env.photographer.ID, []models.UploadedFile{
		{FileName: "a.jpg", FileSize: 2048, MimeType: "image/jpeg", StorageURL: "https://cdn.example/a.jpg"},
	})
	require.Error(t, err)
	assert.True(t, types.IsValidation(err))
}

func TestCompleteDelivery(t *testing.T) {
	env := newJobTestEnv(t)
	entry := env.newJob(t, yesterday(), true)

	completed, accessCode, err := env.jobs.CompleteDelivery(
		context.Background(), entry.ID, env.photographer.ID, "https://gallery.example/abc")
	require.NoError(t, err)
	require.NotEmpty(t, accessCode)

	// Gallery URL, credential, timestamp and status land together
	require.NotNil(t, completed.GalleryURL)
	assert.Equal(t, "https://gallery.example/abc", *completed.GalleryURL)
	require.NotNil(t, completed.AccessCode)
	require.NotNil(t, completed.DeliveredAt)
	assert.Equal(t, models.UploadStatusCompleted, completed.UploadStatus)

	// The stored credential is a hash that verifies against the plaintext
	assert.NotEqual(t, accessCode, *completed.AccessCode)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(*completed.AccessCode), []byte(accessCode)))

	var booking models.Booking
	require.NoError(t, env.db.First(&booking, entry.BookingID).Error)
	assert.Equal(t, models.BookingStatusCompleted, booking.BookingStatus)

	// The customer got the gallery link and the plaintext code
	require.Len(t, env.mailer.sent, 1)
	assert.Contains(t, env.mailer.sent[0].text, accessCode)
}

func TestCompleteDeliveryWithNoFilesRejected(t *testing.T) {
	env := newJobTestEnv(t)
	entry := env.newJob(t, yesterday(), false)

	_, err := env.jobs.StartUpload(entry.ID, env.photographer.ID)
	require.NoError(t, err)

	_, _, err = env.jobs.CompleteDelivery(
		context.Background(), entry.ID, env.photographer.ID, "https://gallery.example/abc")
	require.Error(t, err)
	assert.True(t, types.IsValidation(err))
}

func TestCompleteDeliverySurvivesNotificationFailure(t *testing.T) {
	env := newJobTestEnv(t)
	entry := env.newJob(t, yesterday(), true)
	env.mailer.failAll = true

	completed, _, err := env.jobs.CompleteDelivery(
		context.Background(), entry.ID, env.photographer.ID, "https://gallery.example/abc")
	require.NoError(t, err)
	assert.Equal(t, models.UploadStatusCompleted, completed.UploadStatus)

	// The failed send landed in the durable queue instead
	var queued int64
	env.db.Model(&models.EmailQueueEntry{}).Count(&queued)
	assert.Equal(t, int64(1), queued)
}

func TestLogOvertimeSnapshotsCurrentRate(t *testing.T) {
	env := newJobTestEnv(t)
	entry := env.newJob(t, yesterday(), true)

	request, err := env.jobs.LogOvertime(entry.ID, env.photographer.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, float64(150), request.HourlyRate)
	assert.Equal(t, float64(300), request.Total)
	assert.Equal(t, models.OvertimeStatusPending, request.Status)

	// A later rate change only affects requests submitted after it
	require.NoError(t, env.db.Model(&models.User{}).
		Where("id = ?", env.photographer.ID).
		Update("hourly_rate", 200).Error)

	second, err := env.jobs.LogOvertime(entry.ID, env.photographer.ID, 1.5)
	require.NoError(t, err)
	assert.Equal(t, float64(200), second.HourlyRate)
	assert.Equal(t, float64(300), second.Total)
	assert.Equal(t, float64(150), request.HourlyRate, "earlier request keeps its snapshot")

	// Hours accumulate on both the job and the booking
	loaded, err := env.jobs.Get(entry.ID, env.photographer.ID)
	require.NoError(t, err)
	assert.Equal(t, 3.5, loaded.LoggedOvertimeHours)

	var booking models.Booking
	require.NoError(t, env.db.First(&booking, entry.BookingID).Error)
	assert.Equal(t, 3.5, booking.OvertimeHours)

	var requests int64
	env.db.Model(&models.OvertimeRequest{}).Where("job_id = ?", entry.ID).Count(&requests)
	assert.Equal(t, int64(2), requests)
}

func TestLogOvertimeRequiresStartedJob(t *testing.T) {
	env := newJobTestEnv(t)
	entry := env.newJob(t, nextMonth(), false)

	_, err := env.jobs.LogOvertime(entry.ID, env.photographer.ID, 1)
	require.Error(t, err)
	assert.True(t, types.IsValidation(err))
}

func TestLogOvertimeRejectsNonPositiveHours(t *testing.T) {
	env := newJobTestEnv(t)
	entry := env.newJob(t, yesterday(), true)

	for _, hours := range []float64{0, -1} {
		_, err := env.jobs.LogOvertime(entry.ID, env.photographer.ID, hours)
		require.Error(t, err)
		assert.True(t, types.IsValidation(err))
	}
}
