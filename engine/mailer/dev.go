package mailer

import (
	"context"

	"github.com/equipsight/equipsight/pkg/logger"
)

// DevMailer logs messages instead of delivering them. It is selected when no
// SendGrid API key is configured so the OTP flow stays usable in development.
type DevMailer struct{}

func NewDevMailer() *DevMailer {
	return &DevMailer{}
}

func (m *DevMailer) Send(ctx context.Context, msg *Message) error {
	log := logger.FromContext(ctx)
	log.Info("Dev mailer: email not sent",
		"to", msg.To,
		"subject", msg.Subject,
		"body", msg.PlainBody,
	)
	return nil
}
