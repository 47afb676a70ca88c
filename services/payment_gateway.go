package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/stripe/stripe-go/v79"
	checkout "github.com/stripe/stripe-go/v79/checkout/session"

	"photo-booking-server/config"
	"photo-booking-server/models"
	"photo-booking-server/types"
)

// CheckoutSession is the result of starting an external payment flow.
type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// PaymentVerification is the gateway's answer for a session id.
type PaymentVerification struct {
	Paid      bool
	BookingID uint
	SessionID string
}

// PaymentGateway abstracts the external payment platform so the booking
// state machine can be tested without network access.
type PaymentGateway interface {
	CreateCheckoutSession(ctx context.Context, booking *models.Booking, packageTitle string) (*CheckoutSession, error)
	VerifySession(ctx context.Context, sessionID string) (*PaymentVerification, error)
}

// StripeGateway implements PaymentGateway over Stripe Checkout.
type StripeGateway struct {
	successURL string
	cancelURL  string
}

func NewStripeGateway(cfg config.StripeConfig) *StripeGateway {
	stripe.Key = cfg.SecretKey
	return &StripeGateway{
		successURL: cfg.SuccessURL,
		cancelURL:  cfg.CancelURL,
	}
}

// CreateCheckoutSession opens a Stripe Checkout session for the booking's
// total amount. The booking id travels in the session metadata so the
// webhook and the redirect callback can both resolve it later.
func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, booking *models.Booking, packageTitle string) (*CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(string(stripe.CurrencyUSD)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(fmt.Sprintf("%s — %s", packageTitle, booking.EventDate.Format("Jan 2, 2006"))),
					},
					UnitAmount: stripe.Int64(int64(booking.TotalAmount * 100)),
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(g.successURL + "?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:  stripe.String(g.cancelURL),
	}
	params.Context = ctx
	params.AddMetadata("booking_id", strconv.FormatUint(uint64(booking.ID), 10))

	sess, err := checkout.New(params)
	if err != nil {
		return nil, classifyStripeError("failed to create checkout session", err)
	}

	return &CheckoutSession{ID: sess.ID, URL: sess.URL}, nil
}

// VerifySession fetches the session and reports whether it has been paid.
func (g *StripeGateway) VerifySession(ctx context.Context, sessionID string) (*PaymentVerification, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	sess, err := checkout.Get(sessionID, params)
	if err != nil {
		return nil, classifyStripeError("failed to verify payment session", err)
	}

	bookingID, err := strconv.ParseUint(sess.Metadata["booking_id"], 10, 64)
	if err != nil {
		return nil, types.NewTerminalError("payment session carries no booking reference", err)
	}

	return &PaymentVerification{
		Paid:      sess.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid,
		BookingID: uint(bookingID),
		SessionID: sess.ID,
	}, nil
}

// classifyStripeError maps explicit Stripe rejections to terminal errors and
// everything else (network, timeout) to transient ones.
func classifyStripeError(message string, err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		return types.NewTerminalError(message, err)
	}
	return types.NewTransientError(message, err)
}
