package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/opsarc/bwsctl/internal/config"
	"github.com/opsarc/bwsctl/internal/secrets"
)

func NewSetCommand(cfg *config.Config) *cobra.Command {
	var (
		note    string
		project string
	)

	cmd := &cobra.Command{
		Use:   "set <name> <value>",
		Short: "Create or update a secret",
		Long: `Create the secret if the name is unknown, otherwise update it in place.

An omitted --note or --project keeps the stored note and project assignment;
pass the flag explicitly (even empty) to overwrite. A --project name with no
existing project creates the project first.

Examples:
  bwsctl set LMB_DB_URL postgres://db.internal/app
  bwsctl set LMB_API_KEY s3cret --note "rotated 2026-08" --project backend
  bwsctl set LMB_API_KEY s3cret --note ""`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newService(cfg)
			if err != nil {
				return err
			}

			opts := secrets.SetOptions{
				Note:       note,
				NoteSet:    cmd.Flags().Changed("note"),
				Project:    project,
				ProjectSet: cmd.Flags().Changed("project"),
			}

			stored, created, err := svc.Set(context.Background(), args[0], args[1], opts)
			if err != nil {
				return err
			}

			if created {
				cfg.Logger.Info("created secret '%s'", stored.Key)
			} else {
				cfg.Logger.Info("updated secret '%s'", stored.Key)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&note, "note", "", "Note to attach (omit to keep the stored note)")
	cmd.Flags().StringVar(&project, "project", "", "Project to assign (omit to keep the stored assignment)")

	return cmd
}
