package usecase

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"asperro-contact-backend/internal/domain"
	"asperro-contact-backend/pkg/apperror"
	"asperro-contact-backend/pkg/email"
	"asperro-contact-backend/pkg/logger"
	"asperro-contact-backend/pkg/security"
	"asperro-contact-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type contactUsecase struct {
	sender   email.Sender
	archive  domain.SubmissionArchive
	validate *validator.Validate
	settings domain.ContactSettings
	sleep    func(ctx context.Context, d time.Duration)
	now      func() time.Time
}

// NewContactUsecase creates a new contact usecase. archive may be nil.
func NewContactUsecase(sender email.Sender, archive domain.SubmissionArchive, validate *validator.Validate, settings domain.ContactSettings) domain.ContactUsecase {
	if validate == nil {
		validate = validation.New()
	}
	return &contactUsecase{
		sender:   sender,
		archive:  archive,
		validate: validate,
		settings: settings,
		sleep:    sleepCtx,
		now:      time.Now,
	}
}

// SendContactMessage runs the honeypot, validation and dispatch gates in order.
// The first failing gate decides the returned *apperror.AppError.
func (uc *contactUsecase) SendContactMessage(ctx context.Context, req *domain.ContactRequest) error {
	requestID := domain.RequestIDFrom(ctx)

	// Bots get the same answer as humans, after a comparable delay
	if req.Honeypot != "" {
		logger.Log.Info("Honeypot triggered, dropping submission", "request_id", requestID)
		security.DefaultLogger().LogHoneypotTriggered(ctx, req.Email, requestID)
		uc.record(ctx, req, domain.OutcomeSpam)
		uc.sleep(ctx, uc.honeypotDelay())
		return nil
	}

	req.Name = validation.TrimSpace(req.Name)
	req.Email = validation.TrimSpace(req.Email)
	req.Phone = validation.TrimSpace(req.Phone)
	req.Message = validation.TrimSpace(req.Message)

	if err := uc.validateRequest(req); err != nil {
		logger.Log.Info("Contact submission rejected", "request_id", requestID, "kind", err.Kind, "field", err.Field)
		security.DefaultLogger().LogValidationFailed(ctx, requestID, string(err.Kind), err.Field)
		return err
	}

	safeName := email.EscapeHTML(req.Name)
	safePhone := email.NotProvided
	if req.Phone != "" {
		safePhone = email.EscapeHTML(req.Phone)
	}

	body, err := email.RenderContactEmail(email.ContactEmailData{
		SenderName:  safeName,
		SenderEmail: email.EscapeHTML(req.Email),
		Phone:       safePhone,
		Message:     email.EscapeHTML(req.Message),
		SiteURL:     uc.settings.SiteURL,
	})
	if err != nil {
		return apperror.Internal(domain.MsgServerError, err)
	}

	msg := email.Message{
		From:    uc.settings.SenderAddress,
		To:      []string{uc.settings.RecipientAddress},
		ReplyTo: req.Email, // original address so replies reach the visitor
		Subject: email.ContactSubject(safeName),
		HTML:    body,
	}

	sendCtx := ctx
	if uc.settings.ProviderTimeout > 0 {
		var cancel context.CancelFunc
		sendCtx, cancel = context.WithTimeout(ctx, uc.settings.ProviderTimeout)
		defer cancel()
	}

	if err := uc.sender.Send(sendCtx, msg); err != nil {
		logger.Log.Error("Failed to send contact email", "request_id", requestID, "error", err)
		security.DefaultLogger().LogDeliveryFailed(ctx, req.Email, requestID, err)
		uc.record(ctx, req, domain.OutcomeFailed)
		return apperror.Provider(domain.MsgSendFailed, fmt.Errorf("failed to send contact email: %w", err))
	}

	logger.Log.Info("Contact email sent", "request_id", requestID)
	uc.record(ctx, req, domain.OutcomeSent)
	return nil
}

func (uc *contactUsecase) validateRequest(req *domain.ContactRequest) *apperror.AppError {
	if req.Name == "" || req.Email == "" || req.Message == "" {
		return apperror.MissingFields(validation.MsgRequiredFields)
	}

	ceilings := []struct {
		field string
		value string
		limit int
	}{
		{validation.FieldName, req.Name, uc.settings.MaxNameLength},
		{validation.FieldEmail, req.Email, uc.settings.MaxEmailLength},
		{validation.FieldPhone, req.Phone, uc.settings.MaxPhoneLength},
		{validation.FieldMessage, req.Message, uc.settings.MaxMessageLength},
	}
	for _, c := range ceilings {
		if c.limit <= 0 {
			continue
		}
		if err := uc.validate.Var(c.value, fmt.Sprintf("max=%d", c.limit)); err != nil {
			return apperror.FieldTooLong(c.field, validation.FormatFieldError(c.field, err))
		}
	}

	if err := uc.validate.Var(req.Email, "contact_email"); err != nil {
		return apperror.InvalidEmail(validation.FormatFieldError(validation.FieldEmail, err))
	}
	return nil
}

// record stores the submission in the archive. Archive failures never change
// the response.
func (uc *contactUsecase) record(ctx context.Context, req *domain.ContactRequest, outcome domain.SubmissionOutcome) {
	if uc.archive == nil {
		return
	}
	entry := &domain.ArchivedSubmission{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Message:   req.Message,
		Outcome:   outcome,
		RequestID: domain.RequestIDFrom(ctx),
		CreatedAt: uc.now(),
	}
	if err := uc.archive.Save(context.WithoutCancel(ctx), entry); err != nil {
		logger.Log.Warn("Failed to archive contact submission", "request_id", entry.RequestID, "outcome", outcome, "error", err)
	}
}

func (uc *contactUsecase) honeypotDelay() time.Duration {
	lo, hi := uc.settings.HoneypotDelayMin, uc.settings.HoneypotDelayMax
	if hi <= lo {
		return lo
	}
	return lo + rand.N(hi-lo)
}

func sleepCtx(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
