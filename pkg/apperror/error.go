package apperror

import "net/http"

// Kind classifies a failure of the contact pipeline.
type Kind string

const (
	KindMethodNotAllowed Kind = "method_not_allowed"
	KindBadContentType   Kind = "bad_content_type"
	KindBadShape         Kind = "bad_shape"
	KindMissingFields    Kind = "missing_fields"
	KindFieldTooLong     Kind = "field_too_long"
	KindInvalidEmail     Kind = "invalid_email"
	KindRateLimited      Kind = "rate_limited"
	KindProviderError    Kind = "provider_error"
	KindInternal         Kind = "internal_error"
)

type AppError struct {
	Code    int    `json:"code"`
	Kind    Kind   `json:"kind"`
	Field   string `json:"field,omitempty"` // set for KindFieldTooLong
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// CallerFixable reports whether the caller can correct the request and retry.
func (e *AppError) CallerFixable() bool {
	return e.Code >= 400 && e.Code < 500
}

func New(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Kind:    kindForCode(code),
		Message: message,
		Err:     err,
	}
}

func kindForCode(code int) Kind {
	switch code {
	case http.StatusMethodNotAllowed:
		return KindMethodNotAllowed
	case http.StatusTooManyRequests:
		return KindRateLimited
	case http.StatusBadRequest:
		return KindBadShape
	default:
		return KindInternal
	}
}

func BadRequest(message string) *AppError {
	return New(http.StatusBadRequest, message, nil)
}

func MethodNotAllowed(message string) *AppError {
	return New(http.StatusMethodNotAllowed, message, nil)
}

func BadContentType(message string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Kind: KindBadContentType, Message: message}
}

func BadShape(message string, err error) *AppError {
	return &AppError{Code: http.StatusBadRequest, Kind: KindBadShape, Message: message, Err: err}
}

func MissingFields(message string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Kind: KindMissingFields, Message: message}
}

func FieldTooLong(field, message string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Kind: KindFieldTooLong, Field: field, Message: message}
}

func InvalidEmail(message string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Kind: KindInvalidEmail, Message: message}
}

func TooManyRequests(message string) *AppError {
	return New(http.StatusTooManyRequests, message, nil)
}

// Provider wraps a failure of the outbound email provider. The message is shown
// to the caller; err is for operators only.
func Provider(message string, err error) *AppError {
	return &AppError{Code: http.StatusInternalServerError, Kind: KindProviderError, Message: message, Err: err}
}

func Internal(message string, err error) *AppError {
	return New(http.StatusInternalServerError, message, err)
}
