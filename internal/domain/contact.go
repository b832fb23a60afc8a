package domain

import (
	"context"
	"errors"
	"time"
)

// ContactRequest represents a contact form submission as sent by the website.
// Every field is untrusted.
type ContactRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Message  string `json:"message"`
	Honeypot string `json:"_honeypot,omitempty"`
}

// ContactResult is the only body shape the contact endpoint returns.
type ContactResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ContactSettings is the fixed configuration of the submission pipeline.
type ContactSettings struct {
	SenderAddress    string
	RecipientAddress string
	SiteURL          string
	MaxNameLength    int
	MaxEmailLength   int
	MaxPhoneLength   int
	MaxMessageLength int
	ProviderTimeout  time.Duration
	HoneypotDelayMin time.Duration
	HoneypotDelayMax time.Duration
}

// DefaultContactSettings mirrors the production site.
func DefaultContactSettings() ContactSettings {
	return ContactSettings{
		SenderAddress:    "AsperroStudio <noreply@asperrostudio.cz>",
		RecipientAddress: "mpenkava1337@gmail.com",
		SiteURL:          "https://www.asperrostudio.cz",
		MaxNameLength:    100,
		MaxEmailLength:   254,
		MaxPhoneLength:   20,
		MaxMessageLength: 5000,
		ProviderTimeout:  10 * time.Second,
		HoneypotDelayMin: 250 * time.Millisecond,
		HoneypotDelayMax: 750 * time.Millisecond,
	}
}

// ContactUsecase defines the interface for contact form operations
type ContactUsecase interface {
	// SendContactMessage validates, sanitizes and relays a submission.
	// Returned errors are *apperror.AppError for every expected failure.
	SendContactMessage(ctx context.Context, req *ContactRequest) error
}

// SubmissionOutcome records what happened to an archived submission.
type SubmissionOutcome string

const (
	OutcomeSent   SubmissionOutcome = "sent"
	OutcomeFailed SubmissionOutcome = "failed"
	OutcomeSpam   SubmissionOutcome = "spam"
)

// ArchivedSubmission is one row of the optional submission archive.
// Values are stored trimmed and unescaped.
type ArchivedSubmission struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Email     string            `json:"email"`
	Phone     string            `json:"phone"`
	Message   string            `json:"message"`
	Outcome   SubmissionOutcome `json:"outcome"`
	RequestID string            `json:"request_id"`
	CreatedAt time.Time         `json:"created_at"`
}

// SubmissionArchive persists submissions for operators.
type SubmissionArchive interface {
	Save(ctx context.Context, s *ArchivedSubmission) error
}

// SubmissionLister reads archived submissions back, newest first.
type SubmissionLister interface {
	ListRecent(ctx context.Context, limit int) ([]ArchivedSubmission, error)
}

// SubmissionExportUsecase renders archived submissions as a downloadable file.
type SubmissionExportUsecase interface {
	// Export returns the file content and a suggested filename.
	Export(ctx context.Context, format string, limit int) ([]byte, string, error)
}

// HealthUsecase reports the state of the service and its dependencies.
type HealthUsecase interface {
	Check(ctx context.Context) (map[string]string, bool)
}

// Archives fans a submission out to several archives. Every archive is tried;
// the errors are joined.
type Archives []SubmissionArchive

func (a Archives) Save(ctx context.Context, s *ArchivedSubmission) error {
	var errs []error
	for _, archive := range a {
		if err := archive.Save(ctx, s); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// User-facing API messages
const (
	MsgSent             = "Zpráva byla úspěšně odeslána!"
	MsgMethodNotAllowed = "Metoda není povolena"
	MsgBadContentType   = "Neplatný Content-Type. Očekává se application/json."
	MsgBadShape         = "Neplatný formát dat."
	MsgSendFailed       = "Nepodařilo se odeslat zprávu. Zkuste to prosím znovu."
	MsgServerError      = "Došlo k chybě serveru. Zkuste to prosím později."
	MsgRateLimited      = "Příliš mnoho pokusů. Zkuste to prosím později."
	MsgUnavailable      = "Služba je dočasně nedostupná."
)
