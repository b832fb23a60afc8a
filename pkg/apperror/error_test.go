package apperror

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructorsSetKindAndCode(t *testing.T) {
	cases := []struct {
		err  *AppError
		code int
		kind Kind
	}{
		{MethodNotAllowed("m"), http.StatusMethodNotAllowed, KindMethodNotAllowed},
		{BadContentType("m"), http.StatusBadRequest, KindBadContentType},
		{BadShape("m", nil), http.StatusBadRequest, KindBadShape},
		{MissingFields("m"), http.StatusBadRequest, KindMissingFields},
		{FieldTooLong("name", "m"), http.StatusBadRequest, KindFieldTooLong},
		{InvalidEmail("m"), http.StatusBadRequest, KindInvalidEmail},
		{TooManyRequests("m"), http.StatusTooManyRequests, KindRateLimited},
		{Provider("m", nil), http.StatusInternalServerError, KindProviderError},
		{Internal("m", nil), http.StatusInternalServerError, KindInternal},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.code, tc.err.Code, string(tc.kind))
		assert.Equal(t, tc.kind, tc.err.Kind)
		assert.Equal(t, "m", tc.err.Error())
	}
}

func TestCallerFixable(t *testing.T) {
	assert.True(t, InvalidEmail("x").CallerFixable())
	assert.False(t, Provider("x", nil).CallerFixable())
	assert.False(t, Internal("x", nil).CallerFixable())
}

func TestUnwrapExposesCause(t *testing.T) {
	cause := errors.New("resend: 503")
	err := Provider("retry later", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "retry later", err.Error())
	assert.Equal(t, "name", FieldTooLong("name", "x").Field)
}
