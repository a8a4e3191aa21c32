package bitwarden

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const (
	// DefaultAPIURL is the hosted secrets API endpoint.
	DefaultAPIURL = "https://api.bitwarden.com"
	// DefaultIdentityURL is the hosted identity endpoint used for the
	// client-credentials token exchange.
	DefaultIdentityURL = "https://identity.bitwarden.com"

	defaultTimeout = 30 * time.Second
)

// HTTPConfig configures the HTTP client. Empty URLs fall back to the hosted
// endpoints; self-hosted installs point both at their own server.
type HTTPConfig struct {
	APIURL       string
	IdentityURL  string
	ClientID     string
	ClientSecret string
	Timeout      time.Duration
}

// HTTPClient implements Client over the service's REST API. A bearer token
// is obtained lazily from the identity endpoint and reused until shortly
// before expiry.
type HTTPClient struct {
	httpClient  *http.Client
	apiURL      string
	identityURL string

	clientID     string
	clientSecret string

	mu          sync.Mutex
	bearer      string
	bearerUntil time.Time
}

// NewHTTPClient creates a client for the given credentials.
func NewHTTPClient(cfg HTTPConfig) *HTTPClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	apiURL := strings.TrimRight(cfg.APIURL, "/")
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	identityURL := strings.TrimRight(cfg.IdentityURL, "/")
	if identityURL == "" {
		identityURL = DefaultIdentityURL
	}

	return &HTTPClient{
		httpClient:   &http.Client{Timeout: timeout},
		apiURL:       apiURL,
		identityURL:  identityURL,
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
	}
}

// token returns a valid bearer token, exchanging credentials if the cached
// one is missing or about to expire.
func (c *HTTPClient) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.bearer != "" && time.Now().Before(c.bearerUntil) {
		return c.bearer, nil
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("scope", "api.secrets")
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)

	endpoint := c.identityURL + "/connect/token"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", &APIError{
			Op:         "auth",
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(body)),
		}
	}

	var tokenResp struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
		TokenType   string `json:"token_type"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}

	ttl := time.Duration(tokenResp.ExpiresIn) * time.Second
	if ttl == 0 {
		ttl = 5 * time.Minute
	}

	c.bearer = tokenResp.AccessToken
	// Renew a minute early so in-flight requests don't race expiry
	c.bearerUntil = time.Now().Add(ttl - time.Minute)
	return c.bearer, nil
}

// do issues an authenticated JSON request and decodes the response body into
// out (when out is non-nil).
func (c *HTTPClient) do(ctx context.Context, op, method, path string, payload, out interface{}) error {
	bearer, err := c.token(ctx)
	if err != nil {
		return err
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal %s request: %w", op, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.apiURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+bearer)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(resp.Body)
		return &APIError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(respBody)),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", op, err)
	}
	return nil
}

// Wire representations. Secrets come back with a project object list even
// though at most one assignment is expected; the first one wins.

type secretRow struct {
	ID           string       `json:"id"`
	Key          string       `json:"key"`
	Value        string       `json:"value"`
	Note         string       `json:"note"`
	Projects     []projectRow `json:"projects"`
	CreationDate string       `json:"creationDate"`
	RevisionDate string       `json:"revisionDate"`
}

type projectRow struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	CreationDate string `json:"creationDate"`
	RevisionDate string `json:"revisionDate"`
}

type deleteRow struct {
	ID    string `json:"id"`
	Error string `json:"error"`
}

func (r secretRow) toSecret() Secret {
	s := Secret{
		ID:           r.ID,
		Key:          r.Key,
		Value:        r.Value,
		Note:         r.Note,
		CreationDate: r.CreationDate,
		RevisionDate: r.RevisionDate,
	}
	if len(r.Projects) > 0 {
		s.ProjectID = r.Projects[0].ID
	}
	return s
}

func (r projectRow) toProject() Project {
	return Project{
		ID:           r.ID,
		Name:         r.Name,
		CreationDate: r.CreationDate,
		RevisionDate: r.RevisionDate,
	}
}

type secretWriteBody struct {
	Key        string   `json:"key"`
	Value      string   `json:"value"`
	Note       string   `json:"note"`
	ProjectIDs []string `json:"projectIds"`
}

// ListSecrets fetches the full secret inventory for the organization,
// including values and notes. Response order is preserved.
func (c *HTTPClient) ListSecrets(ctx context.Context, orgID string) ([]Secret, error) {
	var resp struct {
		Data []secretRow `json:"data"`
	}
	path := fmt.Sprintf("/organizations/%s/secrets", orgID)
	if err := c.do(ctx, "list secrets", http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}

	secrets := make([]Secret, 0, len(resp.Data))
	for _, row := range resp.Data {
		secrets = append(secrets, row.toSecret())
	}
	return secrets, nil
}

// ListProjects fetches all projects for the organization in response order.
func (c *HTTPClient) ListProjects(ctx context.Context, orgID string) ([]Project, error) {
	var resp struct {
		Data []projectRow `json:"data"`
	}
	path := fmt.Sprintf("/organizations/%s/projects", orgID)
	if err := c.do(ctx, "list projects", http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}

	projects := make([]Project, 0, len(resp.Data))
	for _, row := range resp.Data {
		projects = append(projects, row.toProject())
	}
	return projects, nil
}

// CreateSecret creates a new secret and returns the stored entry.
func (c *HTTPClient) CreateSecret(ctx context.Context, orgID string, req SecretRequest) (*Secret, error) {
	var row secretRow
	path := fmt.Sprintf("/organizations/%s/secrets", orgID)
	body := secretWriteBody{
		Key:        req.Key,
		Value:      req.Value,
		Note:       req.Note,
		ProjectIDs: req.ProjectIDs,
	}
	if err := c.do(ctx, "create secret", http.MethodPost, path, body, &row); err != nil {
		return nil, err
	}
	secret := row.toSecret()
	return &secret, nil
}

// UpdateSecret replaces the writable fields of an existing secret. The
// caller supplies the full desired state; there is no server-side merge.
func (c *HTTPClient) UpdateSecret(ctx context.Context, orgID, secretID string, req SecretRequest) (*Secret, error) {
	var row secretRow
	path := fmt.Sprintf("/organizations/%s/secrets/%s", orgID, secretID)
	body := secretWriteBody{
		Key:        req.Key,
		Value:      req.Value,
		Note:       req.Note,
		ProjectIDs: req.ProjectIDs,
	}
	if err := c.do(ctx, "update secret", http.MethodPut, path, body, &row); err != nil {
		return nil, err
	}
	secret := row.toSecret()
	return &secret, nil
}

// DeleteSecrets deletes secrets by id and returns one result row per id.
func (c *HTTPClient) DeleteSecrets(ctx context.Context, orgID string, ids []string) ([]DeleteResult, error) {
	var resp struct {
		Data []deleteRow `json:"data"`
	}
	path := fmt.Sprintf("/organizations/%s/secrets/delete", orgID)
	body := struct {
		IDs []string `json:"ids"`
	}{IDs: ids}
	if err := c.do(ctx, "delete secrets", http.MethodPost, path, body, &resp); err != nil {
		return nil, err
	}

	results := make([]DeleteResult, 0, len(resp.Data))
	for _, row := range resp.Data {
		results = append(results, DeleteResult(row))
	}
	return results, nil
}

// CreateProject creates a project and returns the stored entry.
func (c *HTTPClient) CreateProject(ctx context.Context, orgID, name string) (*Project, error) {
	var row projectRow
	path := fmt.Sprintf("/organizations/%s/projects", orgID)
	body := struct {
		Name string `json:"name"`
	}{Name: name}
	if err := c.do(ctx, "create project", http.MethodPost, path, body, &row); err != nil {
		return nil, err
	}
	project := row.toProject()
	return &project, nil
}

// DeleteProjects deletes projects by id and returns one result row per id.
func (c *HTTPClient) DeleteProjects(ctx context.Context, orgID string, ids []string) ([]DeleteResult, error) {
	var resp struct {
		Data []deleteRow `json:"data"`
	}
	path := fmt.Sprintf("/organizations/%s/projects/delete", orgID)
	body := struct {
		IDs []string `json:"ids"`
	}{IDs: ids}
	if err := c.do(ctx, "delete projects", http.MethodPost, path, body, &resp); err != nil {
		return nil, err
	}

	results := make([]DeleteResult, 0, len(resp.Data))
	for _, row := range resp.Data {
		results = append(results, DeleteResult(row))
	}
	return results, nil
}
