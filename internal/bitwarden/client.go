package bitwarden

import (
	"context"
	"fmt"
	"strings"
)

// Secret is one entry in the organization's secret inventory. Value and Note
// may be empty depending on the call that produced the entry. A secret is
// assigned to at most one project.
type Secret struct {
	ID           string
	Key          string
	Value        string
	Note         string
	ProjectID    string
	CreationDate string
	RevisionDate string
}

// Project is a named grouping that secrets can be assigned to.
type Project struct {
	ID           string
	Name         string
	CreationDate string
	RevisionDate string
}

// SecretRequest carries the writable fields for create and update calls.
type SecretRequest struct {
	Key        string
	Value      string
	Note       string
	ProjectIDs []string
}

// DeleteResult is the per-id row returned by bulk delete calls. Error is
// empty on success.
type DeleteResult struct {
	ID    string
	Error string
}

// Client is the contract this tool expects from the secrets service. Every
// call is one network round trip; no call retries.
type Client interface {
	ListSecrets(ctx context.Context, orgID string) ([]Secret, error)
	ListProjects(ctx context.Context, orgID string) ([]Project, error)
	CreateSecret(ctx context.Context, orgID string, req SecretRequest) (*Secret, error)
	UpdateSecret(ctx context.Context, orgID, secretID string, req SecretRequest) (*Secret, error)
	DeleteSecrets(ctx context.Context, orgID string, ids []string) ([]DeleteResult, error)
	CreateProject(ctx context.Context, orgID, name string) (*Project, error)
	DeleteProjects(ctx context.Context, orgID string, ids []string) ([]DeleteResult, error)
}

// APIError is a non-2xx response from the service.
type APIError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("secrets API %s failed: status %d: %s", e.Op, e.StatusCode, e.Message)
}

// ParseAccessToken splits a machine access token of the form
// "0.<clientID>.<clientSecret>" into its credential parts. A trailing
// ":<encryptionKey>" segment is tolerated and ignored; this tool never
// handles client-side encrypted payloads.
func ParseAccessToken(token string) (clientID, clientSecret string, err error) {
	token = strings.TrimSpace(token)
	if i := strings.IndexByte(token, ':'); i >= 0 {
		token = token[:i]
	}

	parts := strings.SplitN(token, ".", 3)
	if len(parts) != 3 || parts[0] != "0" || parts[1] == "" || parts[2] == "" {
		return "", "", fmt.Errorf("malformed access token: expected '0.<client_id>.<client_secret>'")
	}
	return parts[1], parts[2], nil
}
