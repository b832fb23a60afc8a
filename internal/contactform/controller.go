// Package contactform is the client side of the contact pipeline: it owns the
// form fields, pre-validates them, posts them to the contact API and tracks the
// submission lifecycle.
package contactform

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"asperro-contact-backend/internal/domain"
	"asperro-contact-backend/pkg/logger"
	"asperro-contact-backend/pkg/validation"
)

// Status is the lifecycle tag of a submission attempt.
type Status int

const (
	StatusIdle Status = iota
	StatusSubmitting
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusSubmitting:
		return "submitting"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Field names one editable form field.
type Field string

const (
	FieldName    Field = validation.FieldName
	FieldEmail   Field = validation.FieldEmail
	FieldPhone   Field = validation.FieldPhone
	FieldMessage Field = validation.FieldMessage
)

// ErrUnknownField is returned by UpdateField for names outside the form.
var ErrUnknownField = errors.New("contactform: unknown field")

// Client-side messages
const (
	MsgConnectivity = "Nepodařilo se spojit se serverem. Zkontrolujte připojení k internetu."
	MsgSendFallback = "Nepodařilo se odeslat zprávu."
	MsgUnexpected   = "Došlo k neočekávané chybě."
)

// Values holds the four form fields.
type Values struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// State is a snapshot of the form.
type State struct {
	Values
	Status       Status
	ErrorMessage string
}

// Config configures a Controller.
type Config struct {
	Endpoint string
	// SuccessDisplay is how long the success status lasts before reverting to idle
	SuccessDisplay time.Duration
	HTTPClient     *http.Client
	// OnChange, when set, receives every new state. It runs outside the
	// controller's lock and may call back into the controller.
	OnChange func(State)
}

// Controller mediates between user input and the contact API. All methods are
// safe for concurrent use.
type Controller struct {
	endpoint       string
	successDisplay time.Duration
	client         *http.Client
	onChange       func(State)

	mu      sync.Mutex
	values  Values
	status  Status
	errMsg  string
	timer   *time.Timer
	timerID uint64 // generation of the armed timer; stale callbacks compare against it
	closed  bool
}

func New(cfg Config) *Controller {
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	display := cfg.SuccessDisplay
	if display <= 0 {
		display = 5 * time.Second
	}
	return &Controller{
		endpoint:       cfg.Endpoint,
		successDisplay: display,
		client:         client,
		onChange:       cfg.OnChange,
	}
}

// State returns a snapshot of the form.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// UpdateField overwrites one field. An error status is cleared as a side effect;
// success and submitting are left alone.
func (c *Controller) UpdateField(field Field, value string) error {
	c.mu.Lock()
	switch field {
	case FieldName:
		c.values.Name = value
	case FieldEmail:
		c.values.Email = value
	case FieldPhone:
		c.values.Phone = value
	case FieldMessage:
		c.values.Message = value
	default:
		c.mu.Unlock()
		return ErrUnknownField
	}
	if c.status == StatusError {
		c.status = StatusIdle
		c.errMsg = ""
	}
	st := c.snapshotLocked()
	c.mu.Unlock()

	c.notify(st)
	return nil
}

// Submit validates and posts the form, blocking until the API answers. A call
// made while another submission is in flight returns StatusSubmitting at once
// without touching the network. The returned status is the lifecycle after the
// call.
func (c *Controller) Submit(ctx context.Context) Status {
	c.mu.Lock()
	if c.status == StatusSubmitting {
		c.mu.Unlock()
		return StatusSubmitting
	}

	if msg, ok := prevalidate(c.values); !ok {
		c.status = StatusError
		c.errMsg = msg
		st := c.snapshotLocked()
		c.mu.Unlock()
		c.notify(st)
		return StatusError
	}

	c.status = StatusSubmitting
	c.errMsg = ""
	payload := c.values
	st := c.snapshotLocked()
	c.mu.Unlock()
	c.notify(st)

	result, err := c.post(ctx, payload)

	c.mu.Lock()
	switch {
	case err != nil:
		c.status = StatusError
		c.errMsg = err.Error()
	default:
		c.values = Values{}
		c.status = StatusSuccess
		c.errMsg = ""
		c.armSuccessTimerLocked()
		logger.Log.Debug("Contact form submitted", "response", result.Message)
	}
	status := c.status
	st = c.snapshotLocked()
	c.mu.Unlock()

	c.notify(st)
	return status
}

// Close cancels a pending success timer. An in-flight request is not
// cancelled, but its outcome is still recorded.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.stopTimerLocked()
}

// prevalidate applies the same required-field and email rules as the API
func prevalidate(v Values) (string, bool) {
	if validation.TrimSpace(v.Name) == "" || validation.TrimSpace(v.Email) == "" || validation.TrimSpace(v.Message) == "" {
		return validation.MsgRequiredFields, false
	}
	if !validation.IsContactEmail(v.Email) {
		return validation.MsgInvalidEmail, false
	}
	return "", true
}

// submitError carries a user-facing message
type submitError struct {
	msg string
}

func (e *submitError) Error() string { return e.msg }

func (c *Controller) post(ctx context.Context, payload Values) (*domain.ContactResult, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &submitError{msg: MsgUnexpected}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &submitError{msg: MsgUnexpected}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		logger.Log.Warn("Contact API unreachable", "endpoint", c.endpoint, "error", err)
		return nil, &submitError{msg: MsgConnectivity}
	}
	defer resp.Body.Close()

	var result domain.ContactResult
	decodeErr := json.NewDecoder(resp.Body).Decode(&result)

	ok := resp.StatusCode >= 200 && resp.StatusCode < 300
	if !ok || decodeErr != nil || !result.Success {
		msg := result.Message
		if msg == "" {
			msg = MsgSendFallback
		}
		if ok && decodeErr != nil {
			msg = MsgUnexpected
		}
		return nil, &submitError{msg: msg}
	}
	return &result, nil
}

// armSuccessTimerLocked replaces any pending timer with a fresh one
func (c *Controller) armSuccessTimerLocked() {
	c.stopTimerLocked()
	if c.closed {
		return
	}
	c.timerID++
	id := c.timerID
	c.timer = time.AfterFunc(c.successDisplay, func() { c.expireSuccess(id) })
}

func (c *Controller) stopTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	// Invalidate a callback that already started but has not taken the lock
	c.timerID++
}

func (c *Controller) expireSuccess(id uint64) {
	c.mu.Lock()
	if c.closed || id != c.timerID || c.status != StatusSuccess {
		c.mu.Unlock()
		return
	}
	c.timer = nil
	c.status = StatusIdle
	st := c.snapshotLocked()
	c.mu.Unlock()

	c.notify(st)
}

func (c *Controller) snapshotLocked() State {
	return State{Values: c.values, Status: c.status, ErrorMessage: c.errMsg}
}

func (c *Controller) notify(st State) {
	if c.onChange != nil {
		c.onChange(st)
	}
}
