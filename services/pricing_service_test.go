package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photo-booking-server/models"
	"photo-booking-server/types"
)

func newTestPricingService() *PricingService {
	svc := NewPricingService(450)
	// Fix the clock so days-until-event is exact
	svc.now = func() time.Time {
		return time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC)
	}
	return svc
}

func eventIn(days int) time.Time {
	return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, days)
}

func TestQuoteFlexibleWindow(t *testing.T) {
	svc := newTestPricingService()

	quote, err := svc.Quote(eventIn(90), 1000)
	require.NoError(t, err)

	assert.Equal(t, 90, quote.DaysUntilEvent)
	assert.Equal(t, float64(1000), quote.BasePrice)
	assert.Equal(t, float64(1000), quote.FinalPrice)
	assert.Zero(t, quote.LateFee)
	require.Len(t, quote.Options, 3)

	full := quote.Option(models.PaymentOptionFull)
	require.NotNil(t, full)
	assert.Equal(t, float64(1000), full.Amount)

	deposit := quote.Option(models.PaymentOptionDeposit)
	require.NotNil(t, deposit)
	assert.Equal(t, float64(500), deposit.Amount)

	// floor(90/30) = 3 installments, each ceil(1000/3) = 334
	monthly := quote.Option(models.PaymentOptionMonthly)
	require.NotNil(t, monthly)
	assert.Equal(t, 3, monthly.Installments)
	assert.Equal(t, float64(334), monthly.Amount)
}

func TestQuoteInstallmentCount(t *testing.T) {
	svc := newTestPricingService()

	tests := []struct {
		name         string
		days         int
		base         float64
		installments int
		amount       float64
	}{
		{"exactly 60 days", 60, 1000, 2, 500},
		{"90 days", 90, 1000, 3, 334},
		{"119 days rounds down", 119, 1000, 3, 334},
		{"six-month cap", 240, 1200, 6, 200},
		{"far future still capped", 400, 600, 6, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quote, err := svc.Quote(eventIn(tt.days), tt.base)
			require.NoError(t, err)

			monthly := quote.Option(models.PaymentOptionMonthly)
			require.NotNil(t, monthly)
			assert.Equal(t, tt.installments, monthly.Installments)
			assert.Equal(t, tt.amount, monthly.Amount)
		})
	}
}

func TestQuoteStandardWindow(t *testing.T) {
	svc := newTestPricingService()

	for _, days := range []int{31, 45, 59} {
		quote, err := svc.Quote(eventIn(days), 1000)
		require.NoError(t, err)

		require.Len(t, quote.Options, 1, "days=%d", days)
		assert.Equal(t, models.PaymentOptionFull, quote.Options[0].Type)
		assert.Equal(t, float64(1000), quote.Options[0].Amount)
		assert.Zero(t, quote.LateFee)
		assert.Equal(t, float64(1000), quote.FinalPrice)
	}
}

func TestQuoteLateWindow(t *testing.T) {
	svc := newTestPricingService()

	quote, err := svc.Quote(eventIn(10), 500)
	require.NoError(t, err)

	assert.Equal(t, float64(450), quote.LateFee)
	assert.Equal(t, float64(950), quote.FinalPrice)
	require.Len(t, quote.Options, 1)
	assert.Equal(t, models.PaymentOptionFullLate, quote.Options[0].Type)
	assert.Equal(t, float64(950), quote.Options[0].Amount)
}

func TestQuoteSameDayEvent(t *testing.T) {
	svc := newTestPricingService()

	// Event later today is still bookable, with the late fee
	quote, err := svc.Quote(eventIn(0), 800)
	require.NoError(t, err)
	assert.Equal(t, 0, quote.DaysUntilEvent)
	assert.Equal(t, float64(1250), quote.FinalPrice)
}

func TestQuotePastEventRejected(t *testing.T) {
	svc := newTestPricingService()

	_, err := svc.Quote(eventIn(-1), 1000)
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrInvalidBookingWindow))
	assert.True(t, types.IsValidation(err))
}

func TestQuoteRejectsNonPositiveBasePrice(t *testing.T) {
	svc := newTestPricingService()

	for _, base := range []float64{0, -50} {
		_, err := svc.Quote(eventIn(90), base)
		require.Error(t, err)
		assert.True(t, types.IsValidation(err))
	}
}

func TestQuoteBoundaryWindows(t *testing.T) {
	svc := newTestPricingService()

	// 30 days is inside the late window, 31 is not
	late, err := svc.Quote(eventIn(30), 1000)
	require.NoError(t, err)
	assert.Equal(t, float64(450), late.LateFee)

	standard, err := svc.Quote(eventIn(31), 1000)
	require.NoError(t, err)
	assert.Zero(t, standard.LateFee)

	// 59 days is one option, 60 days is three
	single, err := svc.Quote(eventIn(59), 1000)
	require.NoError(t, err)
	assert.Len(t, single.Options, 1)

	flexible, err := svc.Quote(eventIn(60), 1000)
	require.NoError(t, err)
	assert.Len(t, flexible.Options, 3)
}
