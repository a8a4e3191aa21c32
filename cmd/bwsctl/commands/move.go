package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opsarc/bwsctl/internal/config"
	cerrors "github.com/opsarc/bwsctl/internal/errors"
)

func NewMoveCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "move <pattern> <project>",
		Short: "Move all matching secrets into a project",
		Long: `Reassign every secret whose name matches the pattern to the given
project, creating the project if it does not exist yet.

Updates are issued in small concurrent batches. Every matched secret is
attempted even when an earlier one fails; the command reports one line per
secret and exits non-zero if any update failed.

Examples:
  bwsctl move 'LMB_*' backend
  bwsctl move '*_URL' connections`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pattern, project := args[0], args[1]

			svc, err := newService(cfg)
			if err != nil {
				return err
			}

			report, err := svc.Move(context.Background(), pattern, project)
			if err != nil {
				return err
			}

			for _, outcome := range report.Outcomes {
				if outcome.OK() {
					cfg.Logger.Info("%s: %s", outcome.Item.Key, outcome.Detail)
				} else {
					cfg.Logger.Error("%s: %v", outcome.Item.Key, outcome.Err)
				}
			}

			total := len(report.Outcomes)
			if total > 1 {
				cfg.Logger.Info("Moved %d of %d secrets to '%s'", report.Moved(), total, project)
			}

			if failed := total - report.Moved(); failed > 0 {
				return cerrors.UserError{
					Message:    fmt.Sprintf("%d of %d moves failed", failed, total),
					Suggestion: "See the per-secret errors above; re-run the same move to retry the failed ones",
				}
			}
			return nil
		},
	}

	return cmd
}
