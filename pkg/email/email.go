package email

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"text/template"

	"asperro-contact-backend/config"
)

// Message is a provider-neutral outbound email.
type Message struct {
	From    string
	To      []string
	ReplyTo string
	Subject string
	HTML    string
}

// Sender delivers a message through an email provider. Implementations must
// honour ctx cancellation so the caller's timeout bounds the provider call.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// ContactEmailData holds the data for contact form emails. Name, Email, Phone and
// Message must already be escaped with EscapeHTML.
type ContactEmailData struct {
	SenderName  string
	SenderEmail string
	Phone       string
	Message     string
	SiteURL     string
	SiteHost    string
}

// NotProvided replaces a missing phone number in the notification
const NotProvided = "Neuveden"

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#x27;",
	"/", "&#x2F;",
)

// EscapeHTML replaces the six HTML-special characters & < > " ' / with entities.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

// contactEmailTemplate is the HTML template for contact form emails. It is a
// text/template: every interpolated value is escaped before rendering.
const contactEmailTemplate = `
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333; border-bottom: 2px solid #06b6d4; padding-bottom: 10px;">
    Nová zpráva z kontaktního formuláře
  </h2>

  <div style="margin: 20px 0;">
    <p style="margin: 10px 0;"><strong>Jméno:</strong> {{.SenderName}}</p>
    <p style="margin: 10px 0;"><strong>Email:</strong> <a href="mailto:{{.SenderEmail}}">{{.SenderEmail}}</a></p>
    <p style="margin: 10px 0;"><strong>Telefon:</strong> {{.Phone}}</p>
  </div>

  <div style="background: #f5f5f5; padding: 15px; border-radius: 8px; margin: 20px 0;">
    <h3 style="color: #333; margin-top: 0;">Zpráva:</h3>
    <p style="white-space: pre-wrap; line-height: 1.6;">{{.Message}}</p>
  </div>

  <hr style="border: none; border-top: 1px solid #ddd; margin: 20px 0;" />

  <p style="color: #999; font-size: 12px; text-align: center;">
    Tato zpráva byla odeslána z kontaktního formuláře na
    <a href="{{.SiteURL}}" style="color: #06b6d4;">{{.SiteHost}}</a>
  </p>
</div>
`

var contactTmpl = template.Must(template.New("contact").Parse(contactEmailTemplate))

// RenderContactEmail renders the notification body for a contact submission
func RenderContactEmail(data ContactEmailData) (string, error) {
	if data.SiteHost == "" {
		data.SiteHost = strings.TrimPrefix(strings.TrimPrefix(data.SiteURL, "https://"), "http://")
	}

	var body bytes.Buffer
	if err := contactTmpl.Execute(&body, data); err != nil {
		return "", fmt.Errorf("failed to execute email template: %w", err)
	}
	return body.String(), nil
}

// ContactSubject builds the subject line from the already escaped sender name
func ContactSubject(safeName string) string {
	return fmt.Sprintf("Nová zpráva od %s - AsperroStudio", safeName)
}

// NewSender creates the Sender selected by cfg.MailProvider
func NewSender(cfg *config.Config) (Sender, error) {
	switch cfg.MailProvider {
	case "", "resend":
		return NewResendSender(cfg.ResendAPIKey, cfg.ResendBaseURL)
	case "smtp":
		return NewSMTPSender(SMTPConfig{
			Host:      cfg.SMTPHost,
			Port:      cfg.SMTPPort,
			Username:  cfg.SMTPUsername,
			Password:  cfg.SMTPPassword,
			TLSPolicy: cfg.SMTPTLSPolicy,
		}), nil
	case "sendgrid":
		return NewSendGridSender(cfg.SendGridAPIKey), nil
	default:
		return nil, fmt.Errorf("unknown mail provider %q", cfg.MailProvider)
	}
}
