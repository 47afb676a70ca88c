package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"gorm.io/gorm"

	"photo-booking-server/models"
	"photo-booking-server/types"
)

// BookingService owns the booking state machine:
// pending → confirmed → completed, with cancelled reachable from pending or
// confirmed. Status only ever advances; cancel is the one terminal
// side-exit.
type BookingService struct {
	db        *gorm.DB
	pricing   *PricingService
	payments  PaymentGateway
	contracts *ContractService
	jobs      *JobService
	notifier  *NotificationService
}

func NewBookingService(db *gorm.DB, pricing *PricingService, payments PaymentGateway, contracts *ContractService, jobs *JobService, notifier *NotificationService) *BookingService {
	return &BookingService{
		db:        db,
		pricing:   pricing,
		payments:  payments,
		contracts: contracts,
		jobs:      jobs,
		notifier:  notifier,
	}
}

// CreateBooking creates a pending booking from an accepted quote. The quote
// is recomputed server-side: the selected option must still exist and its
// amount must match what the customer saw, so the stored total always equals
// the amount on the selected payment option.
func (s *BookingService) CreateBooking(ctx context.Context, customerID uint, req *models.BookingCreate) (*models.Booking, error) {
	var pkg models.Package
	err := s.db.Where("is_active = ?", true).First(&pkg, req.PackageID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, types.NewValidationError("package not found")
	}
	if err != nil {
		return nil, err
	}

	eventDate, err := time.Parse("2006-01-02", req.EventDate)
	if err != nil {
		return nil, types.NewValidationError("event date must be in YYYY-MM-DD format")
	}

	quote, err := s.pricing.Quote(eventDate, pkg.BasePrice)
	if err != nil {
		return nil, err
	}

	option := quote.Option(req.PaymentOption)
	if option == nil {
		return nil, types.NewValidationError("selected payment option is not available for this event date")
	}
	if math.Abs(option.Amount-req.ExpectedAmount) > 0.009 {
		return nil, types.NewValidationError("the quoted price has changed, please review the new quote")
	}

	booking := models.Booking{
		CustomerID:      customerID,
		PhotographerID:  pkg.PhotographerID,
		PackageID:       pkg.ID,
		EventDate:       eventDate,
		EventTime:       req.EventTime,
		VenueName:       req.VenueName,
		VenueStreet:     req.VenueStreet,
		VenueCity:       req.VenueCity,
		VenueState:      req.VenueState,
		VenuePostalCode: req.VenuePostalCode,
		GuestCount:      req.GuestCount,
		TotalAmount:     option.Amount,
		PaymentOption:   option.Type,
		PaymentStatus:   models.PaymentStatusPending,
		BookingStatus:   models.BookingStatusPending,
		Personalization: req.Personalization,
	}

	if err := s.db.Create(&booking).Error; err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	log.Printf("📅 Booking %d created (customer %d, package %d, event %s)",
		booking.ID, customerID, pkg.ID, eventDate.Format("2006-01-02"))
	return &booking, nil
}

// StartCheckout opens an external payment session for a pending booking and
// records the session id on the booking.
func (s *BookingService) StartCheckout(ctx context.Context, bookingID, customerID uint) (*CheckoutSession, error) {
	booking, err := s.load(bookingID)
	if err != nil {
		return nil, err
	}
	if booking.CustomerID != customerID {
		return nil, types.NewValidationError("booking does not belong to this customer")
	}
	if booking.BookingStatus != models.BookingStatusPending {
		return nil, types.NewValidationError("booking is not awaiting payment")
	}

	session, err := s.payments.CreateCheckoutSession(ctx, booking, booking.Package.Title)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(booking).Update("payment_session_id", session.ID).Error; err != nil {
		return nil, fmt.Errorf("failed to record payment session: %w", err)
	}

	return session, nil
}

// ConfirmPayment verifies the session against the payment gateway and, on
// success, marks the booking paid+confirmed and creates its job entry.
//
// It is idempotent: the webhook and the client redirect callback both call
// it, possibly concurrently, and a booking already confirmed with this
// session id is reported as success with no repeated side effects.
// Verification failure leaves the booking pending; the caller decides
// whether to retry (transient) or surface the rejection (terminal).
func (s *BookingService) ConfirmPayment(ctx context.Context, sessionID string) (*models.Booking, error) {
	verification, err := s.payments.VerifySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	booking, err := s.load(verification.BookingID)
	if err != nil {
		return nil, err
	}

	switch booking.BookingStatus {
	case models.BookingStatusConfirmed, models.BookingStatusCompleted:
		if booking.PaymentSessionID == sessionID {
			return booking, nil
		}
		return nil, types.NewTerminalError("booking was confirmed through a different payment session", nil)
	case models.BookingStatusCancelled:
		return nil, types.NewTerminalError("booking has been cancelled", nil)
	}

	if !verification.Paid {
		return nil, types.NewTerminalError("payment session has not been paid", nil)
	}

	var jobEntry *models.JobQueueEntry
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(booking).Updates(map[string]interface{}{
			"payment_status":     models.PaymentStatusPaid,
			"booking_status":     models.BookingStatusConfirmed,
			"payment_session_id": sessionID,
		}).Error; err != nil {
			return err
		}

		var err error
		jobEntry, err = s.jobs.CreateForBooking(tx, booking)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to confirm booking: %w", err)
	}

	booking.PaymentStatus = models.PaymentStatusPaid
	booking.BookingStatus = models.BookingStatusConfirmed
	booking.PaymentSessionID = sessionID

	log.Printf("✅ Booking %d confirmed (session %s)", booking.ID, sessionID)

	// Notification failures never reverse the confirmation.
	if err := s.notifier.SendBookingConfirmation(ctx, booking); err != nil {
		log.Printf("⚠️ Confirmation email for booking %d could not be queued: %v", booking.ID, err)
	}
	if err := s.notifier.SendNewBookingAlert(ctx, booking, jobEntry.DeliveryDeadline); err != nil {
		log.Printf("⚠️ New-booking alert for booking %d could not be queued: %v", booking.ID, err)
	}

	return booking, nil
}

// GetBooking returns a booking visible to the given user. Viewing a
// confirmed booking without a contract triggers lazy, exactly-once contract
// generation; a generation failure is logged and the view still succeeds.
func (s *BookingService) GetBooking(ctx context.Context, bookingID, userID uint) (*models.Booking, error) {
	booking, err := s.load(bookingID)
	if err != nil {
		return nil, err
	}
	if booking.CustomerID != userID && booking.PhotographerID != userID {
		return nil, types.NewValidationError("booking is not visible to this user")
	}

	if booking.BookingStatus == models.BookingStatusConfirmed && booking.ContractURL == nil {
		if _, err := s.contracts.EnsureContract(ctx, booking); err != nil {
			log.Printf("⚠️ Contract generation for booking %d failed: %v", booking.ID, err)
		}
	}

	return booking, nil
}

// ListForCustomer returns the customer's bookings, newest first.
func (s *BookingService) ListForCustomer(customerID uint) ([]models.Booking, error) {
	var bookings []models.Booking
	err := s.db.
		Where("customer_id = ?", customerID).
		Preload("Photographer").
		Preload("Package").
		Order("event_date DESC").
		Find(&bookings).Error
	return bookings, err
}

// Cancel cancels a booking on behalf of either party. Permitted from
// pending or confirmed only; completed and cancelled bookings allow no
// further transitions.
func (s *BookingService) Cancel(ctx context.Context, bookingID, userID uint, reason string) (*models.Booking, error) {
	booking, err := s.load(bookingID)
	if err != nil {
		return nil, err
	}
	if booking.CustomerID != userID && booking.PhotographerID != userID {
		return nil, types.NewValidationError("booking is not visible to this user")
	}

	switch booking.BookingStatus {
	case models.BookingStatusCompleted:
		return nil, types.NewValidationError("a completed booking cannot be cancelled")
	case models.BookingStatusCancelled:
		return nil, types.NewValidationError("booking is already cancelled")
	}

	actor := string(models.RoleCustomer)
	if userID == booking.PhotographerID {
		actor = string(models.RolePhotographer)
	}
	now := time.Now()

	if err := s.db.Model(booking).Updates(map[string]interface{}{
		"booking_status":      models.BookingStatusCancelled,
		"cancellation_reason": reason,
		"cancelled_by":        actor,
		"cancelled_at":        now,
	}).Error; err != nil {
		return nil, fmt.Errorf("failed to cancel booking: %w", err)
	}

	booking.BookingStatus = models.BookingStatusCancelled
	booking.CancellationReason = &reason
	booking.CancelledBy = &actor
	booking.CancelledAt = &now

	log.Printf("🛑 Booking %d cancelled by %s: %s", booking.ID, actor, reason)
	return booking, nil
}

func (s *BookingService) load(bookingID uint) (*models.Booking, error) {
	var booking models.Booking
	err := s.db.
		Preload("Customer").
		Preload("Photographer").
		Preload("Package").
		First(&booking, bookingID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, types.NewValidationError("booking not found")
	}
	if err != nil {
		return nil, err
	}
	return &booking, nil
}
