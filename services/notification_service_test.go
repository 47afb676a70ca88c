package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"photo-booking-server/models"
)

func newNotificationFixture(t *testing.T) (*gorm.DB, *fakeEmailGateway, *NotificationService, *models.Booking) {
	db := setupTestDB(t)
	mailer := &fakeEmailGateway{}
	svc := NewNotificationService(db, mailer, "http://localhost:3000")

	photographer := createUser(t, db, models.RolePhotographer, "photographer@example.com", 150)
	customer := createUser(t, db, models.RoleCustomer, "customer@example.com", 0)
	pkg := createPackage(t, db, photographer.ID, 2400)
	booking := createBooking(t, db, customer, photographer, pkg,
		time.Date(2026, 6, 20, 0, 0, 0, 0, time.UTC), models.BookingStatusConfirmed)

	return db, mailer, svc, loadBookingWithAssociations(t, db, booking.ID)
}

func TestSendBookingConfirmation(t *testing.T) {
	db, mailer, svc, booking := newNotificationFixture(t)

	require.NoError(t, svc.SendBookingConfirmation(context.Background(), booking))

	require.Len(t, mailer.sent, 1)
	msg := mailer.sent[0]
	assert.Equal(t, booking.Customer.Email, msg.to)
	assert.Contains(t, msg.subject, "Booking confirmed")
	assert.Contains(t, msg.text, booking.Photographer.FullName)
	assert.Contains(t, msg.text, "June 20, 2026")
	assert.Contains(t, msg.text, "$2400.00")

	// Successful sends leave nothing in the retry queue
	var queued int64
	db.Model(&models.EmailQueueEntry{}).Count(&queued)
	assert.Zero(t, queued)
}

func TestSendNewBookingAlert(t *testing.T) {
	_, mailer, svc, booking := newNotificationFixture(t)
	deadline := booking.EventDate.AddDate(0, 0, 42)

	require.NoError(t, svc.SendNewBookingAlert(context.Background(), booking, deadline))

	require.Len(t, mailer.sent, 1)
	msg := mailer.sent[0]
	assert.Equal(t, booking.Photographer.Email, msg.to)
	assert.Contains(t, msg.subject, "New booking")
	assert.Contains(t, msg.text, booking.Customer.Email)
	assert.Contains(t, msg.text, deadline.Format("January 2, 2006"))
}

func TestSendDeliveryReadyIncludesPlaintextCode(t *testing.T) {
	_, mailer, svc, booking := newNotificationFixture(t)

	require.NoError(t, svc.SendDeliveryReady(context.Background(), booking,
		"https://gallery.example/abc", "code-1234"))

	require.Len(t, mailer.sent, 1)
	msg := mailer.sent[0]
	assert.Equal(t, booking.Customer.Email, msg.to)
	assert.Contains(t, msg.text, "https://gallery.example/abc")
	assert.Contains(t, msg.text, "code-1234")
}

func TestFailedSendIsQueuedForRetry(t *testing.T) {
	db, mailer, svc, booking := newNotificationFixture(t)
	mailer.failAll = true

	// dispatch succeeds from the caller's perspective: the message is parked
	require.NoError(t, svc.SendBookingConfirmation(context.Background(), booking))
	assert.Empty(t, mailer.sent)

	var entry models.EmailQueueEntry
	require.NoError(t, db.Where("booking_id = ?", booking.ID).First(&entry).Error)
	assert.Equal(t, models.EmailStatusPending, entry.Status)
	assert.Equal(t, 0, entry.Attempts)
	assert.Equal(t, models.RecipientCustomer, entry.RecipientRole)
	assert.Equal(t, booking.Customer.Email, entry.RecipientEmail)
	assert.Contains(t, entry.Subject, "Booking confirmed")
	assert.NotEmpty(t, entry.TextBody)
	assert.NotEmpty(t, entry.HTMLBody)
}
