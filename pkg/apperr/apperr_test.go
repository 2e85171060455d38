package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindStatus(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{KindBadRequest, http.StatusBadRequest},
		{KindAuthFailure, http.StatusUnauthorized},
		{KindForbidden, http.StatusForbidden},
		{KindNotFound, http.StatusNotFound},
		{KindNoData, http.StatusInternalServerError},
		{KindInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.Status())
		})
	}
}

func TestFrom_UnknownErrorIsInternal(t *testing.T) {
	err := From(errors.New("boom"))
	assert.Equal(t, KindInternal, err.Kind)
	assert.Equal(t, "Internal server error", err.Message)
}

func TestFrom_WrappedAppError(t *testing.T) {
	base := NotFound("Admin not found")
	wrapped := fmt.Errorf("delete admin: %w", base)

	got := From(wrapped)
	assert.Same(t, base, got)
	assert.Equal(t, KindNotFound, KindOf(wrapped))
}

func TestIs_MatchesKindAndCode(t *testing.T) {
	sentinel := AuthFailure("").WithCode("MISSING_CREDENTIAL")
	err := AuthFailure("Missing credential").WithCode("MISSING_CREDENTIAL")

	assert.True(t, errors.Is(err, sentinel))
	assert.False(t, errors.Is(err, AuthFailure("").WithCode("INVALID_CREDENTIAL")))
	assert.False(t, errors.Is(err, Forbidden("").WithCode("MISSING_CREDENTIAL")))
}

func TestInternal_KeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Internal("Failed to send mail", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")
}
