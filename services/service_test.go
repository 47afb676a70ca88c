package services

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"photo-booking-server/models"
	"photo-booking-server/types"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Package{},
		&models.Booking{},
		&models.JobQueueEntry{},
		&models.UploadedFile{},
		&models.EmailQueueEntry{},
		&models.OvertimeRequest{},
	))
	return db
}

// --- fakes ---

type fakePaymentGateway struct {
	paid            bool
	bookingID       uint
	verifyErr       error
	createdSessions int
}

func (f *fakePaymentGateway) CreateCheckoutSession(ctx context.Context, booking *models.Booking, packageTitle string) (*CheckoutSession, error) {
	f.createdSessions++
	return &CheckoutSession{
		ID:  fmt.Sprintf("cs_test_%d", booking.ID),
		URL: fmt.Sprintf("https://checkout.example/cs_test_%d", booking.ID),
	}, nil
}

func (f *fakePaymentGateway) VerifySession(ctx context.Context, sessionID string) (*PaymentVerification, error) {
	if f.verifyErr != nil {
		return nil, f.verifyErr
	}
	return &PaymentVerification{Paid: f.paid, BookingID: f.bookingID, SessionID: sessionID}, nil
}

type sentEmail struct {
	to      string
	subject string
	html    string
	text    string
}

type fakeEmailGateway struct {
	sent    []sentEmail
	failAll bool
}

func (f *fakeEmailGateway) Send(ctx context.Context, to, subject, htmlBody, textBody string) error {
	if f.failAll {
		return types.NewTransientError("smtp is down", nil)
	}
	f.sent = append(f.sent, sentEmail{to: to, subject: subject, html: htmlBody, text: textBody})
	return nil
}

type fakeStorage struct {
	documents map[string]string // publicID -> uploaded content
	media     int
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{documents: make(map[string]string)}
}

func (f *fakeStorage) UploadDocument(ctx context.Context, publicID string, r io.Reader) (string, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	f.documents[publicID] = string(content)
	return "https://cdn.example/" + publicID, nil
}

func (f *fakeStorage) UploadMedia(ctx context.Context, folder, filename string, r io.Reader) (string, error) {
	f.media++
	return fmt.Sprintf("https://cdn.example/%s/%s", folder, filename), nil
}

// --- fixtures ---

func createUser(t *testing.T, db *gorm.DB, role models.UserRole, email string, rate float64) models.User {
	user := models.User{
		Role:         role,
		FullName:     "Test " + string(role),
		Email:        email,
		Phone:        "555-0100",
		PasswordHash: "irrelevant",
		HourlyRate:   rate,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func createPackage(t *testing.T, db *gorm.DB, photographerID uint, basePrice float64) models.Package {
	pkg := models.Package{
		PhotographerID: photographerID,
		Title:          "Signature",
		Description:    "Full-day coverage",
		BasePrice:      basePrice,
		DurationHours:  8,
		Deliverables:   []string{"500+ edited photos", "Online gallery"},
		IsActive:       true,
	}
	require.NoError(t, db.Create(&pkg).Error)
	return pkg
}

func createBooking(t *testing.T, db *gorm.DB, customer, photographer models.User, pkg models.Package, eventDate time.Time, status models.BookingStatus) models.Booking {
	booking := models.Booking{
		CustomerID:     customer.ID,
		PhotographerID: photographer.ID,
		PackageID:      pkg.ID,
		EventDate:      eventDate,
		EventTime:      "14:00",
		VenueName:      "The Old Mill",
		VenueCity:      "Portland",
		GuestCount:     120,
		TotalAmount:    pkg.BasePrice,
		PaymentOption:  models.PaymentOptionFull,
		PaymentStatus:  models.PaymentStatusPending,
		BookingStatus:  status,
	}
	if status == models.BookingStatusConfirmed || status == models.BookingStatusCompleted {
		booking.PaymentStatus = models.PaymentStatusPaid
		booking.PaymentSessionID = "cs_seed"
	}
	require.NoError(t, db.Create(&booking).Error)
	return booking
}
