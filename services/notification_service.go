package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"photo-booking-server/models"
)

const sendTimeout = 10 * time.Second

// NotificationService renders booking messages and attempts synchronous
// delivery through the email gateway. A failed send is durably queued as an
// EmailQueueEntry so the retry job can drain it later: delivery is
// at-least-once, and duplicates must be tolerated by recipients.
//
// Notification failures never block or reverse a booking transition.
type NotificationService struct {
	db      *gorm.DB
	mailer  EmailGateway
	baseURL string
}

func NewNotificationService(db *gorm.DB, mailer EmailGateway, baseURL string) *NotificationService {
	return &NotificationService{db: db, mailer: mailer, baseURL: baseURL}
}

type outboundEmail struct {
	bookingID uint
	role      string
	to        string
	subject   string
	htmlBody  string
	textBody  string
}

// dispatch tries a synchronous send and falls back to the durable queue.
// The returned error is non-nil only when even the fallback enqueue failed.
func (s *NotificationService) dispatch(ctx context.Context, msg outboundEmail) error {
	sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	err := s.mailer.Send(sendCtx, msg.to, msg.subject, msg.htmlBody, msg.textBody)
	if err == nil {
		log.Printf("📧 Sent %q to %s (booking %d)", msg.subject, msg.to, msg.bookingID)
		return nil
	}

	log.Printf("⚠️ Send failed for %q to %s (booking %d), queueing for retry: %v",
		msg.subject, msg.to, msg.bookingID, err)

	entry := models.EmailQueueEntry{
		BookingID:      msg.bookingID,
		RecipientRole:  msg.role,
		RecipientEmail: msg.to,
		Subject:        msg.subject,
		HTMLBody:       msg.htmlBody,
		TextBody:       msg.textBody,
		Status:         models.EmailStatusPending,
		Attempts:       0,
	}
	if qErr := s.db.Create(&entry).Error; qErr != nil {
		log.Printf("❌ Failed to queue email for booking %d: %v", msg.bookingID, qErr)
		return qErr
	}
	return nil
}

// SendBookingConfirmation emails the customer after payment is confirmed.
// The booking must carry Customer, Photographer and Package associations.
func (s *NotificationService) SendBookingConfirmation(ctx context.Context, booking *models.Booking) error {
	bookingURL := fmt.Sprintf("%s/bookings/%d", s.baseURL, booking.ID)
	quizURL := fmt.Sprintf("%s/bookings/%d/personalize", s.baseURL, booking.ID)

	contractLine := fmt.Sprintf("Your contract will be available at %s shortly.", bookingURL)
	if booking.ContractURL != nil {
		contractLine = fmt.Sprintf("Your contract: %s", *booking.ContractURL)
	}

	subject := fmt.Sprintf("Booking confirmed — %s on %s",
		booking.Package.Title, booking.EventDate.Format("January 2, 2006"))

	text := fmt.Sprintf(`Hi %s,

Your booking with %s is confirmed!

Event: %s on %s%s
Venue: %s
Package: %s
Total: $%.2f

%s

Next step: tell us about your event so %s can prepare — %s

Cancellation policy: you can cancel any time before delivery is completed.
Cancellations within 60 days of the event forfeit any deposit paid.
`,
		booking.Customer.FullName,
		booking.Photographer.FullName,
		booking.Package.Title,
		booking.EventDate.Format("January 2, 2006"),
		timeSuffix(booking.EventTime),
		booking.VenueName,
		booking.Package.Title,
		booking.TotalAmount,
		contractLine,
		booking.Photographer.FullName,
		quizURL,
	)

	html := fmt.Sprintf(`<h2>Your booking is confirmed 🎉</h2>
<p>Hi %s, your booking with <strong>%s</strong> is locked in.</p>
<ul>
  <li><strong>Event:</strong> %s%s</li>
  <li><strong>Venue:</strong> %s</li>
  <li><strong>Package:</strong> %s</li>
  <li><strong>Total:</strong> $%.2f</li>
</ul>
<p>%s</p>
<p><a href="%s">Personalize your event</a> so your photographer can prepare.</p>
<p style="color:#666;font-size:12px">You can cancel any time before delivery is
completed. Cancellations within 60 days of the event forfeit any deposit paid.</p>`,
		booking.Customer.FullName,
		booking.Photographer.FullName,
		booking.EventDate.Format("January 2, 2006"),
		timeSuffix(booking.EventTime),
		booking.VenueName,
		booking.Package.Title,
		booking.TotalAmount,
		contractLine,
		quizURL,
	)

	return s.dispatch(ctx, outboundEmail{
		bookingID: booking.ID,
		role:      models.RecipientCustomer,
		to:        booking.Customer.Email,
		subject:   subject,
		htmlBody:  html,
		textBody:  text,
	})
}

// SendNewBookingAlert emails the photographer about a freshly confirmed
// booking, including the delivery deadline for the job.
func (s *NotificationService) SendNewBookingAlert(ctx context.Context, booking *models.Booking, deadline time.Time) error {
	subject := fmt.Sprintf("New booking — %s on %s",
		booking.Package.Title, booking.EventDate.Format("January 2, 2006"))

	text := fmt.Sprintf(`Hi %s,

You have a new confirmed booking.

Client: %s (%s, %s)
Event: %s on %s%s
Venue: %s
Guests: %d
Payout: $%.2f

Delivery deadline: %s

Dashboard: %s/dashboard/jobs
`,
		booking.Photographer.FullName,
		booking.Customer.FullName, booking.Customer.Email, booking.Customer.Phone,
		booking.Package.Title,
		booking.EventDate.Format("January 2, 2006"),
		timeSuffix(booking.EventTime),
		booking.VenueName,
		booking.GuestCount,
		booking.TotalAmount,
		deadline.Format("January 2, 2006"),
		s.baseURL,
	)

	html := fmt.Sprintf(`<h2>New confirmed booking 📸</h2>
<ul>
  <li><strong>Client:</strong> %s (%s, %s)</li>
  <li><strong>Event:</strong> %s on %s%s</li>
  <li><strong>Venue:</strong> %s</li>
  <li><strong>Guests:</strong> %d</li>
  <li><strong>Payout:</strong> $%.2f</li>
  <li><strong>Delivery deadline:</strong> %s</li>
</ul>
<p><a href="%s/dashboard/jobs">Open your dashboard</a></p>`,
		booking.Customer.FullName, booking.Customer.Email, booking.Customer.Phone,
		booking.Package.Title,
		booking.EventDate.Format("January 2, 2006"),
		timeSuffix(booking.EventTime),
		booking.VenueName,
		booking.GuestCount,
		booking.TotalAmount,
		deadline.Format("January 2, 2006"),
		s.baseURL,
	)

	return s.dispatch(ctx, outboundEmail{
		bookingID: booking.ID,
		role:      models.RecipientPhotographer,
		to:        booking.Photographer.Email,
		subject:   subject,
		htmlBody:  html,
		textBody:  text,
	})
}

// SendDeliveryReady emails the customer their gallery link and access code
// once delivery is completed. The plaintext access code exists only here;
// the database stores a hash.
func (s *NotificationService) SendDeliveryReady(ctx context.Context, booking *models.Booking, galleryURL, accessCode string) error {
	subject := fmt.Sprintf("Your photos are ready — %s", booking.EventDate.Format("January 2, 2006"))

	text := fmt.Sprintf(`Hi %s,

Your gallery from %s is ready!

Gallery: %s
Access code: %s

Enjoy,
%s
`,
		booking.Customer.FullName,
		booking.EventDate.Format("January 2, 2006"),
		galleryURL,
		accessCode,
		booking.Photographer.FullName,
	)

	html := fmt.Sprintf(`<h2>Your photos are ready ✨</h2>
<p>Hi %s, your gallery from %s is ready.</p>
<p><a href="%s">Open your gallery</a></p>
<p>Access code: <code>%s</code></p>`,
		booking.Customer.FullName,
		booking.EventDate.Format("January 2, 2006"),
		galleryURL,
		accessCode,
	)

	return s.dispatch(ctx, outboundEmail{
		bookingID: booking.ID,
		role:      models.RecipientCustomer,
		to:        booking.Customer.Email,
		subject:   subject,
		htmlBody:  html,
		textBody:  text,
	})
}

func timeSuffix(eventTime string) string {
	if eventTime == "" {
		return ""
	}
	return " at " + eventTime
}
