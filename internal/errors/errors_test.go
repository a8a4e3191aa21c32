package errors_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cerrors "github.com/opsarc/bwsctl/internal/errors"
)

func TestUserErrorFormatting(t *testing.T) {
	t.Parallel()

	err := cerrors.UserError{
		Message:    "Something broke",
		Details:    "the wire came loose",
		Suggestion: "plug it back in",
	}

	msg := err.Error()
	assert.Contains(t, msg, "Something broke")
	assert.Contains(t, msg, "Details: the wire came loose")
	assert.Contains(t, msg, "Try: plug it back in")
}

func TestUserErrorUnwrap(t *testing.T) {
	t.Parallel()

	inner := errors.New("root cause")
	err := cerrors.UserError{Message: "outer", Err: inner}

	assert.ErrorIs(t, error(err), inner)
}

func TestNotFoundError(t *testing.T) {
	t.Parallel()

	err := cerrors.NotFoundError{Kind: "secret", Name: "LMB_DB_URL"}
	assert.Equal(t, "secret 'LMB_DB_URL' not found", err.Error())
}

func TestAPIErrorSuggestions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		inner      error
		wantInText string
	}{
		{"unauthorized", fmt.Errorf("status 401: invalid_client"), "bwsctl login"},
		{"forbidden", fmt.Errorf("status 403: nope"), "lacks permission"},
		{"rate limited", fmt.Errorf("status 429"), "rate limiting"},
		{"connection refused", fmt.Errorf("dial tcp: connection refused"), "BWS_API_URL"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := cerrors.APIError("list secrets", tt.inner)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantInText)
			assert.ErrorIs(t, err, tt.inner)
		})
	}
}

func TestCommandError(t *testing.T) {
	t.Parallel()

	err := cerrors.CommandError{Command: "npm start", ExitCode: 7, Message: "boom"}
	assert.Contains(t, err.Error(), "'npm start' failed")
	assert.Contains(t, err.Error(), "exit code: 7")
}
