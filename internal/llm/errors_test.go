package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

var errEmptyItems = errors.New("items must not be empty")

func TestMapError(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(t *testing.T, got error)
	}{
		{
			name: "deadline",
			err:  fmt.Errorf("call: %w", context.DeadlineExceeded),
			check: func(t *testing.T, got error) {
				var te *ProviderTimeoutError
				assert.ErrorAs(t, got, &te)
				assert.ErrorIs(t, got, context.DeadlineExceeded)
			},
		},
		{
			name: "timeout text",
			err:  errors.New("Client.Timeout exceeded while awaiting headers"),
			check: func(t *testing.T, got error) {
				var te *ProviderTimeoutError
				assert.ErrorAs(t, got, &te)
			},
		},
		{
			name: "unauthorized",
			err:  errors.New("error, status code: 401, status: 401 Unauthorized, message: Incorrect API key"),
			check: func(t *testing.T, got error) {
				var ae *ProviderAuthError
				assert.ErrorAs(t, got, &ae)
			},
		},
		{
			name: "bad request",
			err:  errors.New("error, status code: 400, status: 400 Bad Request, message: invalid model"),
			check: func(t *testing.T, got error) {
				var be *ProviderBadRequestError
				assert.ErrorAs(t, got, &be)
			},
		},
		{
			name: "other propagates unchanged",
			err:  errors.New("connection reset by peer"),
			check: func(t *testing.T, got error) {
				assert.EqualError(t, got, "connection reset by peer")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, mapError("openai", tt.err))
		})
	}
}

func TestMapError_AlreadyTyped(t *testing.T) {
	orig := &ProviderAuthError{Provider: "mistral", Err: errors.New("401")}
	assert.Same(t, orig, mapError("openai", orig))
	assert.NoError(t, mapError("openai", nil))
}

func TestIsOutputError(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", &OutputError{Schema: "tasks", Err: errors.New("bad")})
	assert.True(t, IsOutputError(err))
	assert.False(t, IsOutputError(errors.New("plain")))
}
