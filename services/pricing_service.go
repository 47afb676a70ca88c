package services

import (
	"fmt"
	"math"
	"time"

	"photo-booking-server/models"
	"photo-booking-server/types"
)

const (
	// Bookings inside this window pay the late booking fee.
	lateBookingWindowDays = 31
	// Bookings at or beyond this window get the full option menu.
	flexiblePaymentWindowDays = 60
	// A monthly plan never exceeds this many installments.
	maxMonthlyInstallments = 6
)

// PricingService computes quotes from the event date and a package base
// price. It has no side effects and touches no storage.
type PricingService struct {
	lateFee float64
	now     func() time.Time
}

func NewPricingService(lateFee float64) *PricingService {
	return &PricingService{lateFee: lateFee, now: time.Now}
}

// Quote prices a booking for the given event date. Days-until-event is the
// whole-day difference between today and the event date; events already in
// the past are rejected.
func (s *PricingService) Quote(eventDate time.Time, basePrice float64) (*models.PricingQuote, error) {
	if basePrice <= 0 {
		return nil, types.NewValidationError("base price must be positive")
	}

	days := daysBetween(s.now(), eventDate)
	if days < 0 {
		return nil, types.ErrInvalidBookingWindow
	}

	quote := &models.PricingQuote{
		BasePrice:      basePrice,
		FinalPrice:     basePrice,
		DaysUntilEvent: days,
	}

	switch {
	case days >= flexiblePaymentWindowDays:
		quote.Options = flexibleOptions(basePrice, days)
	case days >= lateBookingWindowDays:
		quote.Options = []models.PaymentOptionChoice{{
			Type:   models.PaymentOptionFull,
			Amount: basePrice,
			Label:  "Pay in full",
		}}
	default:
		quote.LateFee = s.lateFee
		quote.FinalPrice = basePrice + s.lateFee
		quote.Options = []models.PaymentOptionChoice{{
			Type:   models.PaymentOptionFullLate,
			Amount: quote.FinalPrice,
			Label:  fmt.Sprintf("Pay in full + $%.0f late booking fee", s.lateFee),
		}}
	}

	return quote, nil
}

// flexibleOptions builds the three-way menu offered when the event is at
// least 60 days out: full payment, 50% deposit, and a monthly plan.
func flexibleOptions(basePrice float64, days int) []models.PaymentOptionChoice {
	installments := days / 30
	if installments > maxMonthlyInstallments {
		installments = maxMonthlyInstallments
	}
	// Every installment rounds up independently; the plan is not
	// reconciled against the true base price, so the sum can exceed it.
	installmentAmount := math.Ceil(basePrice / float64(installments))

	return []models.PaymentOptionChoice{
		{
			Type:   models.PaymentOptionFull,
			Amount: basePrice,
			Label:  "Pay in full",
		},
		{
			Type:   models.PaymentOptionDeposit,
			Amount: basePrice * 0.5,
			Label:  "50% deposit now, 50% two weeks before the event",
		},
		{
			Type:         models.PaymentOptionMonthly,
			Amount:       installmentAmount,
			Label:        fmt.Sprintf("%d monthly payments of $%.0f", installments, installmentAmount),
			Installments: installments,
		},
	}
}

// daysBetween returns the whole-day difference between the two dates,
// ignoring the time-of-day component.
func daysBetween(from, to time.Time) int {
	fromDay := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	toDay := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(toDay.Sub(fromDay).Hours() / 24)
}
