package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorsIsMatchesKindAndResource(t *testing.T) {
	err := fmt.Errorf("ask: %w", SessionNotFound())

	assert.True(t, errors.Is(err, ErrSessionNotFound))
	assert.False(t, errors.Is(err, ErrUserNotFound))
	assert.False(t, errors.Is(err, ErrProvider))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want int
	}{
		{"user not found", UserNotFound(), http.StatusNotFound},
		{"session not found", SessionNotFound(), http.StatusNotFound},
		{"validation", Validation(FieldError{Field: "message", Message: "required"}), http.StatusUnprocessableEntity},
		{"conflict", Conflict("user", "exists"), http.StatusConflict},
		{"provider", Provider(errors.New("timeout")), http.StatusInternalServerError},
		{"persistence", Persistence(errors.New("disk full")), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.HTTPStatus())
		})
	}
}

func TestProviderKeepsCause(t *testing.T) {
	cause := errors.New("quota exceeded")
	err := Provider(cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "quota exceeded")
	assert.Equal(t, "quota exceeded", err.Detail())
	assert.Empty(t, SessionNotFound().Detail())

	got, ok := As(fmt.Errorf("wrapped: %w", err))
	assert.True(t, ok)
	assert.Equal(t, KindProvider, got.Kind)
}
