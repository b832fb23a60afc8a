package email

import (
	"context"
	"fmt"
	"strings"

	mail "github.com/wneessen/go-mail"
)

// SMTPConfig holds SMTP server configuration.
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	TLSPolicy string // mandatory | opportunistic | none
}

// SMTPSender delivers mail over SMTP submission
type SMTPSender struct {
	host string
	opts []mail.Option
}

func NewSMTPSender(cfg SMTPConfig) *SMTPSender {
	var opts []mail.Option

	if cfg.Port > 0 {
		opts = append(opts, mail.WithPort(cfg.Port))
	}

	switch strings.ToLower(strings.TrimSpace(cfg.TLSPolicy)) {
	case "none":
		opts = append(opts, mail.WithTLSPortPolicy(mail.NoTLS))
	case "opportunistic":
		opts = append(opts, mail.WithTLSPortPolicy(mail.TLSOpportunistic))
	default:
		// Unknown value → be conservative and require TLS
		opts = append(opts, mail.WithTLSPortPolicy(mail.TLSMandatory))
	}

	if cfg.Username != "" && cfg.Password != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	return &SMTPSender{host: cfg.Host, opts: opts}
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	m, err := buildSMTPMessage(msg)
	if err != nil {
		return err
	}

	client, err := mail.NewClient(s.host, s.opts...)
	if err != nil {
		return fmt.Errorf("failed to create mail client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}
	return nil
}

func buildSMTPMessage(msg Message) (*mail.Msg, error) {
	m := mail.NewMsg()
	if err := m.From(msg.From); err != nil {
		return nil, fmt.Errorf("invalid FROM address: %w", err)
	}
	if len(msg.To) == 0 {
		return nil, fmt.Errorf("no recipients configured")
	}
	if err := m.To(msg.To...); err != nil {
		return nil, fmt.Errorf("invalid recipient %v: %w", msg.To, err)
	}
	if msg.ReplyTo != "" {
		if err := m.ReplyTo(msg.ReplyTo); err != nil {
			return nil, fmt.Errorf("invalid reply-to %q: %w", msg.ReplyTo, err)
		}
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextHTML, msg.HTML)
	return m, nil
}
