package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"text/template"
	"time"

	"gorm.io/gorm"

	"photo-booking-server/models"
	"photo-booking-server/types"
)

// contractTemplate is the fixed legal template. The rendering is
// deterministic for a given booking, so a double-write under a race
// produces identical content.
const contractTemplate = `PHOTOGRAPHY SERVICES AGREEMENT

This agreement is entered into between:

CLIENT:       {{.CustomerName}} ({{.CustomerEmail}})
PHOTOGRAPHER: {{.PhotographerName}} ({{.PhotographerEmail}})

1. EVENT
   Date:  {{.EventDate}}{{if .EventTime}} at {{.EventTime}}{{end}}
   Venue: {{.VenueName}}{{if .VenueAddress}}, {{.VenueAddress}}{{end}}
   Expected guests: {{.GuestCount}}

2. SERVICES
   Package: {{.PackageTitle}} ({{.DurationHours}} hours of coverage)
   Deliverables:
{{- range .Deliverables}}
   - {{.}}
{{- end}}

3. PAYMENT
   Total amount due: ${{printf "%.2f" .TotalAmount}}
   Payment plan: {{.PaymentOption}}
   Payments are processed by the marketplace's payment provider. The
   photographer's payout is released after delivery is completed.

4. OVERTIME
   Coverage beyond the contracted duration is billed at the
   photographer's hourly rate and requires the client's approval of each
   overtime request before payment is collected.

5. DELIVERY
   The photographer will deliver the edited gallery no later than 42 days
   after the event date through the marketplace's delivery system.

6. CANCELLATION POLICY
   The client may cancel at any time before delivery is completed.
   Cancellations more than 60 days before the event receive a full refund
   less processing fees. Cancellations within 60 days of the event forfeit
   any deposit paid. The photographer may cancel only for cause, in which
   case all payments are refunded in full.

7. ELECTRONIC SIGNATURE
   By completing payment, both parties agree to the terms above. This
   document was generated electronically and is valid without a
   handwritten signature.

   Signed electronically on {{.GeneratedOn}}.
`

type contractData struct {
	CustomerName      string
	CustomerEmail     string
	PhotographerName  string
	PhotographerEmail string
	EventDate         string
	EventTime         string
	VenueName         string
	VenueAddress      string
	GuestCount        int
	PackageTitle      string
	DurationHours     int
	Deliverables      []string
	TotalAmount       float64
	PaymentOption     string
	GeneratedOn       string
}

// ContractService generates the immutable legal contract for a booking and
// persists it exactly once.
type ContractService struct {
	db       *gorm.DB
	storage  StorageUploader
	template *template.Template
	now      func() time.Time
}

func NewContractService(db *gorm.DB, storage StorageUploader) *ContractService {
	return &ContractService{
		db:       db,
		storage:  storage,
		template: template.Must(template.New("contract").Parse(contractTemplate)),
		now:      time.Now,
	}
}

// EnsureContract returns the booking's contract URL, generating and storing
// the document on first call. Once a URL exists it is returned unmodified
// forever, even if booking fields change later: the contract reflects terms
// at the moment of payment.
//
// Two near-simultaneous first views may both render and upload; the
// conditional update below makes the first writer win and the loser adopt
// the stored URL. Content is deterministic, so either artifact is correct.
func (s *ContractService) EnsureContract(ctx context.Context, booking *models.Booking) (string, error) {
	if booking.ContractURL != nil && *booking.ContractURL != "" {
		return *booking.ContractURL, nil
	}

	rendered, err := s.Render(booking)
	if err != nil {
		return "", err
	}

	publicID := fmt.Sprintf("booking-%d-contract", booking.ID)
	url, err := s.storage.UploadDocument(ctx, publicID, strings.NewReader(rendered))
	if err != nil {
		return "", err
	}

	res := s.db.Model(&models.Booking{}).
		Where("id = ? AND contract_url IS NULL", booking.ID).
		Update("contract_url", url)
	if res.Error != nil {
		return "", types.NewTransientError("failed to record contract URL", res.Error)
	}

	if res.RowsAffected == 0 {
		// Lost the race: another caller stored its URL first.
		var current models.Booking
		if err := s.db.Select("contract_url").First(&current, booking.ID).Error; err != nil {
			return "", types.NewTransientError("failed to reload contract URL", err)
		}
		if current.ContractURL != nil {
			booking.ContractURL = current.ContractURL
			return *current.ContractURL, nil
		}
	}

	booking.ContractURL = &url
	return url, nil
}

// Render produces the contract text for the booking. The booking must carry
// its Customer, Photographer and Package associations.
func (s *ContractService) Render(booking *models.Booking) (string, error) {
	data := contractData{
		CustomerName:      booking.Customer.FullName,
		CustomerEmail:     booking.Customer.Email,
		PhotographerName:  booking.Photographer.FullName,
		PhotographerEmail: booking.Photographer.Email,
		EventDate:         booking.EventDate.Format("January 2, 2006"),
		EventTime:         booking.EventTime,
		VenueName:         booking.VenueName,
		VenueAddress:      formatVenueAddress(booking),
		GuestCount:        booking.GuestCount,
		PackageTitle:      booking.Package.Title,
		DurationHours:     booking.Package.DurationHours,
		Deliverables:      booking.Package.Deliverables,
		TotalAmount:       booking.TotalAmount,
		PaymentOption:     booking.PaymentOption,
		GeneratedOn:       s.now().Format("January 2, 2006"),
	}

	var buf bytes.Buffer
	if err := s.template.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render contract: %w", err)
	}
	return buf.String(), nil
}

func formatVenueAddress(booking *models.Booking) string {
	parts := make([]string, 0, 4)
	for _, p := range []string{booking.VenueStreet, booking.VenueCity, booking.VenueState, booking.VenuePostalCode} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}
