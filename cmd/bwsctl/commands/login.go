package commands

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/opsarc/bwsctl/internal/bitwarden"
	"github.com/opsarc/bwsctl/internal/config"
	cerrors "github.com/opsarc/bwsctl/internal/errors"
	"github.com/opsarc/bwsctl/internal/keyrings"
)

func NewLoginCommand(cfg *config.Config) *cobra.Command {
	var token string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store a machine access token in the OS keyring",
		Long: `Validate a machine access token and store it in the operating
system keyring so it does not have to live in shell history or dotfiles.

The token can be passed with --token or piped on stdin:

  bwsctl login --token '0.xxxx.yyyy'
  pbpaste | bwsctl login

BWS_ACCESS_TOKEN, when set, always takes precedence over the stored token.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if token == "" {
				reader := bufio.NewReader(os.Stdin)
				line, err := reader.ReadString('\n')
				if err != nil && line == "" {
					return cerrors.UserError{
						Message:    "No access token provided",
						Suggestion: "Pass --token or pipe the token on stdin",
					}
				}
				token = strings.TrimSpace(line)
			}

			if _, _, err := bitwarden.ParseAccessToken(token); err != nil {
				return cerrors.UserError{
					Message:    "Invalid access token",
					Details:    err.Error(),
					Suggestion: "Generate a machine access token in the secrets manager web vault",
				}
			}

			if err := keyrings.SetToken(token); err != nil {
				return cerrors.UserError{
					Message:    "Failed to store the token",
					Details:    err.Error(),
					Suggestion: "Check that an OS keyring service is available, or use BWS_ACCESS_TOKEN instead",
					Err:        err,
				}
			}

			cfg.Logger.Info("access token stored in the OS keyring")
			return nil
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "Machine access token (read from stdin when omitted)")

	return cmd
}

func NewLogoutCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored access token from the OS keyring",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := keyrings.DeleteToken(); err != nil {
				return fmt.Errorf("failed to remove stored token: %w", err)
			}
			cfg.Logger.Info("stored access token removed")
			return nil
		},
	}
}
