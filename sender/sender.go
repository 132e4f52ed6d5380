package sender

import (
	"context"
	"time"
)

type SendResult struct {
	MessageID string
	SentAt    time.Time
}

type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, body string) (SendResult, error)
}

// WhatsAppSender delivers pre-approved template messages.
type WhatsAppSender interface {
	SendTemplate(ctx context.Context, to, template string, params []string) (SendResult, error)
}
