package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/opsarc/bwsctl/internal/config"
)

func NewDeleteCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a secret",
		Long: `Delete the secret with the given exact name.

An unknown name is an error. The delete is only reported as successful when
the service confirms it for the secret's id; an HTTP-level success without a
confirmation record is treated as a failure.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newService(cfg)
			if err != nil {
				return err
			}

			if err := svc.Delete(context.Background(), args[0]); err != nil {
				return err
			}

			cfg.Logger.Info("deleted secret '%s'", args[0])
			return nil
		},
	}

	return cmd
}
