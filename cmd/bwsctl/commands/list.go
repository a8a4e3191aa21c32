package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/opsarc/bwsctl/internal/config"
)

func NewListCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [pattern]",
		Short: "List secrets, optionally filtered by pattern",
		Long: `List secret names and their project assignments in the service's
listing order. Values are never printed; use 'bwsctl get' for that.

The optional pattern uses '*' as the only wildcard and matches the whole
name case-insensitively.

Examples:
  bwsctl list
  bwsctl list 'LMB_*'
  bwsctl list '*metrics*'`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pattern := ""
			if len(args) == 1 {
				pattern = args[0]
			}

			svc, err := newService(cfg)
			if err != nil {
				return err
			}

			entries, err := svc.List(context.Background(), pattern)
			if err != nil {
				return err
			}

			if len(entries) == 0 {
				if pattern != "" {
					cfg.Logger.Warn("no secrets match pattern '%s'", pattern)
				} else {
					cfg.Logger.Warn("no secrets in this organization")
				}
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tPROJECT\tID")
			for _, entry := range entries {
				project := entry.ProjectName
				if project == "" {
					project = "-"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", entry.Secret.Key, project, entry.Secret.ID)
			}
			return w.Flush()
		},
	}

	return cmd
}
