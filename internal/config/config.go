package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/opsarc/bwsctl/internal/bitwarden"
	cerrors "github.com/opsarc/bwsctl/internal/errors"
	"github.com/opsarc/bwsctl/internal/keyrings"
	"github.com/opsarc/bwsctl/internal/logging"
	"github.com/opsarc/bwsctl/internal/secure"
)

// Config is the runtime configuration, built once in main and threaded into
// every command constructor. There is no other process-wide state.
type Config struct {
	Path   string // profile file path, may not exist
	Logger *logging.Logger

	OrgID       string
	APIURL      string
	IdentityURL string

	// AccessToken holds the raw machine access token encrypted in memory.
	// Nil until Load resolves one.
	AccessToken *secure.Buffer
}

// Profile is the optional bwsctl.yaml structure. Everything in it can also
// be supplied through environment variables, which take precedence.
type Profile struct {
	Version     int    `yaml:"version" json:"version"`
	OrgID       string `yaml:"orgId" json:"orgId"`
	APIURL      string `yaml:"apiUrl,omitempty" json:"apiUrl,omitempty"`
	IdentityURL string `yaml:"identityUrl,omitempty" json:"identityUrl,omitempty"`
}

// profileSchema validates the profile file before any field is trusted.
const profileSchema = `{
  "type": "object",
  "required": ["version"],
  "additionalProperties": false,
  "properties": {
    "version": {"type": "integer", "enum": [1]},
    "orgId": {"type": "string", "minLength": 1},
    "apiUrl": {"type": "string", "minLength": 1},
    "identityUrl": {"type": "string", "minLength": 1}
  }
}`

// Load resolves the effective configuration: profile file (when present),
// then environment overrides, then the keyring for a token when
// BWS_ACCESS_TOKEN is unset. It fails fast on a malformed profile or a
// non-UUID organization id, before any network call can happen.
func (c *Config) Load() error {
	if err := c.loadProfile(); err != nil {
		return err
	}

	if v := os.Getenv("BWS_ORG_ID"); v != "" {
		c.OrgID = v
	}
	if v := os.Getenv("BWS_API_URL"); v != "" {
		c.APIURL = v
	}
	if v := os.Getenv("BWS_IDENTITY_URL"); v != "" {
		c.IdentityURL = v
	}

	if c.OrgID == "" {
		return cerrors.UserError{
			Message:    "Organization ID is not configured",
			Suggestion: "Set BWS_ORG_ID or add 'orgId' to " + c.profilePath(),
		}
	}
	if _, err := uuid.Parse(c.OrgID); err != nil {
		return cerrors.UserError{
			Message:    fmt.Sprintf("Organization ID '%s' is not a valid UUID", c.OrgID),
			Details:    err.Error(),
			Suggestion: "Copy the organization ID from the secrets manager web vault",
		}
	}

	token := os.Getenv("BWS_ACCESS_TOKEN")
	if token == "" {
		stored, err := keyrings.GetToken()
		if err != nil {
			if err == keyrings.ErrNoToken {
				return cerrors.UserError{
					Message:    "No access token available",
					Suggestion: "Run 'bwsctl login' to store one, or set BWS_ACCESS_TOKEN",
				}
			}
			return err
		}
		token = stored
	}
	c.AccessToken = secure.NewBufferFromString(token)

	return nil
}

// NewAPIClient opens the access token and constructs the HTTP client.
func (c *Config) NewAPIClient() (bitwarden.Client, error) {
	if c.AccessToken == nil {
		return nil, cerrors.UserError{
			Message:    "Configuration not loaded",
			Suggestion: "This is a bug: Load must run before NewAPIClient",
		}
	}

	locked, err := c.AccessToken.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open access token: %w", err)
	}
	defer locked.Destroy()

	// Copy the token out of the locked buffer before the deferred Destroy
	// unmaps it; ParseAccessToken returns substrings of its argument and
	// the client holds them for its whole lifetime
	token := string(locked.Bytes())

	clientID, clientSecret, err := bitwarden.ParseAccessToken(token)
	if err != nil {
		return nil, cerrors.UserError{
			Message:    "Invalid access token",
			Details:    err.Error(),
			Suggestion: "Generate a machine access token in the secrets manager and run 'bwsctl login' again",
		}
	}

	return bitwarden.NewHTTPClient(bitwarden.HTTPConfig{
		APIURL:       c.APIURL,
		IdentityURL:  c.IdentityURL,
		ClientID:     clientID,
		ClientSecret: clientSecret,
	}), nil
}

func (c *Config) profilePath() string {
	if c.Path != "" {
		return c.Path
	}
	return "bwsctl.yaml"
}

func (c *Config) loadProfile() error {
	path := c.profilePath()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Profile file is optional; env vars may carry everything
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return cerrors.UserError{
			Message:    fmt.Sprintf("Failed to parse %s", path),
			Details:    err.Error(),
			Suggestion: "Check the file is valid YAML",
		}
	}

	if err := validateProfile(raw); err != nil {
		return cerrors.UserError{
			Message:    fmt.Sprintf("Invalid profile in %s", path),
			Details:    err.Error(),
			Suggestion: "Allowed keys: version, orgId, apiUrl, identityUrl",
		}
	}

	var profile Profile
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}

	if c.OrgID == "" {
		c.OrgID = profile.OrgID
	}
	if c.APIURL == "" {
		c.APIURL = profile.APIURL
	}
	if c.IdentityURL == "" {
		c.IdentityURL = profile.IdentityURL
	}
	return nil
}

// validateProfile checks the parsed profile against the JSON schema.
func validateProfile(raw map[string]interface{}) error {
	jsonData, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("failed to marshal profile for validation: %w", err)
	}

	schemaLoader := gojsonschema.NewStringLoader(profileSchema)
	documentLoader := gojsonschema.NewBytesLoader(jsonData)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}

	if !result.Valid() {
		var problems []string
		for _, desc := range result.Errors() {
			problems = append(problems, desc.String())
		}
		return fmt.Errorf("%s", strings.Join(problems, "; "))
	}
	return nil
}
