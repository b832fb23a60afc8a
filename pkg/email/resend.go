package email

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"asperro-contact-backend/pkg/logger"

	"github.com/resend/resend-go/v2"
)

// ResendSender delivers mail through the Resend HTTP API
type ResendSender struct {
	client *resend.Client
}

// NewResendSender creates a Resend sender. baseURL overrides the API endpoint
// and is empty in production.
func NewResendSender(apiKey, baseURL string) (*ResendSender, error) {
	client := resend.NewClient(apiKey)
	if baseURL != "" {
		u, err := url.Parse(strings.TrimRight(baseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("invalid resend base url: %w", err)
		}
		client.BaseURL = u
	}
	return &ResendSender{client: client}, nil
}

func (s *ResendSender) Send(ctx context.Context, msg Message) error {
	params := &resend.SendEmailRequest{
		From:    msg.From,
		To:      msg.To,
		ReplyTo: msg.ReplyTo,
		Subject: msg.Subject,
		Html:    msg.HTML,
	}

	sent, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return fmt.Errorf("resend: %w", err)
	}

	logger.Log.Debug("Email accepted by provider", "provider", "resend", "id", sent.Id)
	return nil
}
