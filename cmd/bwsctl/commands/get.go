package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/opsarc/bwsctl/internal/config"
)

func NewGetCommand(cfg *config.Config) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "get <name>",
		Short: "Print a secret's value",
		Long: `Fetch the secret with the given exact name and print its value.

By default only the raw value goes to stdout, making the command suitable
for scripting. If several secrets share the name, the first one in the
service's listing order is used and a warning is printed.

Examples:
  bwsctl get LMB_DB_URL
  export DB_URL=$(bwsctl get LMB_DB_URL)
  bwsctl get LMB_DB_URL --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newService(cfg)
			if err != nil {
				return err
			}

			secret, err := svc.Get(context.Background(), args[0])
			if err != nil {
				return err
			}

			if jsonOutput {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]string{
					"id":        secret.ID,
					"key":       secret.Key,
					"value":     secret.Value,
					"note":      secret.Note,
					"projectId": secret.ProjectID,
				})
			}

			fmt.Println(secret.Value)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the full entry as JSON")

	return cmd
}
