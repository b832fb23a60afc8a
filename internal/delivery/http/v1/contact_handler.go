package v1

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"asperro-contact-backend/internal/delivery/http/response"
	"asperro-contact-backend/internal/domain"
	"asperro-contact-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type ContactHandler struct {
	contactUC    domain.ContactUsecase
	maxBodyBytes int64
}

// NewContactHandler registers the contact route (public, no auth required).
// Every method reaches the handler so that anything but POST gets a 405 with
// the standard JSON body.
func NewContactHandler(api *gin.RouterGroup, contactUC domain.ContactUsecase, maxBodyBytes int64, limiter ...gin.HandlerFunc) {
	handler := &ContactHandler{
		contactUC:    contactUC,
		maxBodyBytes: maxBodyBytes,
	}

	handlers := append(limiter, handler.SubmitContact)
	api.Any("/contact", handlers...)
}

// SubmitContact godoc
// @Summary      Submit Contact Form
// @Description  Relays a contact form submission to the studio inbox. Public endpoint.
// @Tags         contact
// @Accept       json
// @Produce      json
// @Param        contact  body      domain.ContactRequest  true  "Contact Form Data"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      405      {object}  response.Response
// @Failure      429      {object}  response.Response
// @Failure      500      {object}  response.Response
// @Router       /api/contact [post]
func (h *ContactHandler) SubmitContact(c *gin.Context) {
	if c.Request.Method != http.MethodPost {
		c.Error(apperror.MethodNotAllowed(domain.MsgMethodNotAllowed))
		return
	}

	if !strings.Contains(c.GetHeader("Content-Type"), "application/json") {
		c.Error(apperror.BadContentType(domain.MsgBadContentType))
		return
	}

	req, err := h.decodeRequest(c)
	if err != nil {
		c.Error(apperror.BadShape(domain.MsgBadShape, err))
		return
	}

	if err := h.contactUC.SendContactMessage(c.Request.Context(), req); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, domain.MsgSent)
}

// decodeRequest accepts only a JSON object whose known fields are strings.
// A filled honeypot short-circuits the string check so bots never learn
// which field gave them away.
func (h *ContactHandler) decodeRequest(c *gin.Context) (*domain.ContactRequest, error) {
	body := c.Request.Body
	if h.maxBodyBytes > 0 {
		body = http.MaxBytesReader(c.Writer, body, h.maxBodyBytes)
	}

	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, errors.New("request body is not a JSON object")
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return nil, err
	}

	if honeypot, ok := honeypotValue(fields["_honeypot"]); ok {
		return botRequest(fields, honeypot), nil
	}

	var req domain.ContactRequest
	if err := binding.JSON.BindBody(trimmed, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

// honeypotValue reports whether the hidden field was filled. Any value other
// than null or an empty string counts, including numbers and objects.
func honeypotValue(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return string(raw), true
	}
	return s, s != ""
}

// botRequest keeps whatever string fields the bot sent for the archive
func botRequest(fields map[string]json.RawMessage, honeypot string) *domain.ContactRequest {
	str := func(key string) string {
		var s string
		_ = json.Unmarshal(fields[key], &s)
		return s
	}
	return &domain.ContactRequest{
		Name:     str("name"),
		Email:    str("email"),
		Phone:    str("phone"),
		Message:  str("message"),
		Honeypot: honeypot,
	}
}
