package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/opsarc/bwsctl/internal/config"
)

// NewProjectsCommand groups project management under one parent, mirroring
// how secrets commands sit at the top level.
func NewProjectsCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "Manage projects",
	}

	cmd.AddCommand(
		newProjectsListCommand(cfg),
		newProjectsCreateCommand(cfg),
		newProjectsDeleteCommand(cfg),
	)

	return cmd
}

func newProjectsListCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newService(cfg)
			if err != nil {
				return err
			}

			projects, err := svc.Projects(context.Background())
			if err != nil {
				return err
			}

			if len(projects) == 0 {
				cfg.Logger.Warn("no projects in this organization")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tID")
			for _, p := range projects {
				fmt.Fprintf(w, "%s\t%s\n", p.Name, p.ID)
			}
			return w.Flush()
		},
	}
}

func newProjectsCreateCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "create <name>",
		Short: "Create a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newService(cfg)
			if err != nil {
				return err
			}

			project, err := svc.CreateProject(context.Background(), args[0])
			if err != nil {
				return err
			}

			cfg.Logger.Info("created project '%s' (%s)", project.Name, project.ID)
			return nil
		},
	}
}

func newProjectsDeleteCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a project",
		Long: `Delete the first-listed project with the given name. Secrets assigned
to it become unassigned; they are not deleted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newService(cfg)
			if err != nil {
				return err
			}

			if err := svc.DeleteProject(context.Background(), args[0]); err != nil {
				return err
			}

			cfg.Logger.Info("deleted project '%s'", args[0])
			return nil
		},
	}
}
