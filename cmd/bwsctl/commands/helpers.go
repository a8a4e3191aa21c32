package commands

import (
	"github.com/opsarc/bwsctl/internal/config"
	"github.com/opsarc/bwsctl/internal/secrets"
)

// newService loads the configuration and builds the API-backed service.
// Every command goes through here so usage and configuration errors are
// reported before any network call.
func newService(cfg *config.Config) (*secrets.Service, error) {
	if err := cfg.Load(); err != nil {
		return nil, err
	}

	client, err := cfg.NewAPIClient()
	if err != nil {
		return nil, err
	}

	return secrets.New(cfg, client), nil
}
