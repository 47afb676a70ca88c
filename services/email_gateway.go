package services

import (
	"context"

	"github.com/resend/resend-go/v2"

	"photo-booking-server/config"
	"photo-booking-server/types"
)

// EmailGateway abstracts the external email platform.
type EmailGateway interface {
	Send(ctx context.Context, to, subject, htmlBody, textBody string) error
}

// ResendGateway implements EmailGateway over the Resend API.
type ResendGateway struct {
	client *resend.Client
	from   string
}

func NewResendGateway(cfg config.EmailConfig) *ResendGateway {
	return &ResendGateway{
		client: resend.NewClient(cfg.ResendAPIKey),
		from:   cfg.FromAddress,
	}
}

func (g *ResendGateway) Send(ctx context.Context, to, subject, htmlBody, textBody string) error {
	params := &resend.SendEmailRequest{
		From:    g.from,
		To:      []string{to},
		Subject: subject,
		Html:    htmlBody,
		Text:    textBody,
	}

	if _, err := g.client.Emails.SendWithContext(ctx, params); err != nil {
		// The dispatcher treats any send failure as retryable: the
		// durable queue is the fallback either way.
		return types.NewTransientError("failed to send email", err)
	}
	return nil
}
