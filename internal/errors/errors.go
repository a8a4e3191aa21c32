package errors

import (
	"fmt"
	"strings"
)

// UserError represents an error that should be shown to the user with helpful context
type UserError struct {
	Message    string
	Suggestion string
	Details    string
	Err        error
}

func (e UserError) Error() string {
	var parts []string

	if e.Message != "" {
		parts = append(parts, e.Message)
	} else if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}

	if e.Details != "" {
		parts = append(parts, "\n  Details: "+e.Details)
	}

	if e.Suggestion != "" {
		parts = append(parts, "\n  💡 Try: "+e.Suggestion)
	}

	return strings.Join(parts, "")
}

func (e UserError) Unwrap() error {
	return e.Err
}

// NotFoundError indicates a name resolved to zero entries in the inventory.
type NotFoundError struct {
	Kind string // "secret" or "project"
	Name string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s '%s' not found", e.Kind, e.Name)
}

// CommandError represents a child command execution error
type CommandError struct {
	Command    string
	ExitCode   int
	Message    string
	Suggestion string
}

func (e CommandError) Error() string {
	msg := fmt.Sprintf("Command '%s' failed", e.Command)
	if e.ExitCode != 0 {
		msg += fmt.Sprintf(" (exit code: %d)", e.ExitCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}

	if e.Suggestion != "" {
		msg += "\n  💡 " + e.Suggestion
	}

	return msg
}

// APIError wraps a secrets-service error with a context-aware suggestion.
func APIError(operation string, err error) error {
	return UserError{
		Message:    fmt.Sprintf("secrets service error during %s", operation),
		Suggestion: apiSuggestion(err),
		Err:        err,
	}
}

// apiSuggestion returns helpful suggestions based on the service error text
func apiSuggestion(err error) string {
	errStr := err.Error()

	if strings.Contains(errStr, "401") || strings.Contains(errStr, "invalid_client") {
		return "Check the access token. Run 'bwsctl login' to store a fresh one, or set BWS_ACCESS_TOKEN"
	}
	if strings.Contains(errStr, "403") {
		return "The access token lacks permission for this organization or project"
	}
	if strings.Contains(errStr, "404") {
		return "Verify the organization ID and that the resource still exists"
	}
	if strings.Contains(errStr, "429") {
		return "The service is rate limiting requests. Wait a moment and try again"
	}
	if strings.Contains(errStr, "timeout") {
		return "The operation timed out. Check your network connection and try again"
	}
	if strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "no such host") {
		return "Unable to connect. Check BWS_API_URL and your network"
	}

	return ""
}

// WrapCommandNotFound wraps command-not-found errors with install hints for
// tools commonly launched through bwsrun.
func WrapCommandNotFound(command string, err error) error {
	suggestions := map[string]string{
		"npm":    "Install Node.js: https://nodejs.org/",
		"node":   "Install Node.js: https://nodejs.org/",
		"python": "Install Python: https://www.python.org/downloads/",
		"docker": "Install Docker: https://docs.docker.com/get-docker/",
		"go":     "Install Go: https://go.dev/dl/",
	}

	suggestion := fmt.Sprintf("Check that '%s' is installed and in your PATH", command)
	if s, ok := suggestions[command]; ok {
		suggestion = s
	}

	return UserError{
		Message:    fmt.Sprintf("Command '%s' not found", command),
		Suggestion: suggestion,
		Err:        err,
	}
}
