package main

import (
	"context"
	"fmt"
	"os"

	"github.com/awnumar/memguard"
	"github.com/spf13/cobra"

	"github.com/opsarc/bwsctl/internal/config"
	cerrors "github.com/opsarc/bwsctl/internal/errors"
	"github.com/opsarc/bwsctl/internal/execenv"
	"github.com/opsarc/bwsctl/internal/logging"
	"github.com/opsarc/bwsctl/internal/secrets"
	"github.com/opsarc/bwsctl/internal/secure"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	defer memguard.Purge()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		memguard.Purge()
		os.Exit(1)
	}
}

func run() error {
	var (
		configFile    string
		noColor       bool
		debug         bool
		project       string
		pattern       string
		printVars     bool
		allowOverride bool
		workingDir    string
		timeout       int
	)

	cfg := &config.Config{}

	rootCmd := &cobra.Command{
		Use:   "bwsrun [flags] -- <command> [args...]",
		Short: "Run a command with secrets injected as environment variables",
		Long: `bwsrun fetches secrets from the secrets manager and launches a child
process with them set as environment variables. Nothing is written to disk
and the child's exit code is passed through.

Variable names are the secret names. Use --project and/or --pattern to
narrow what gets injected.

Examples:
  bwsrun -- npm start
  bwsrun --project backend -- docker compose up
  bwsrun --pattern 'LMB_*' --print -- python app.py`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		Args:    cobra.MinimumNArgs(1),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cfg.Path = configFile
			cfg.Logger = logging.New(debug, noColor)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Load(); err != nil {
				return err
			}

			client, err := cfg.NewAPIClient()
			if err != nil {
				return err
			}
			svc := secrets.New(cfg, client)

			ctx := context.Background()
			entries, err := svc.List(ctx, pattern)
			if err != nil {
				return err
			}

			injected := make(map[string]*secure.Buffer)
			for _, entry := range entries {
				if project != "" && entry.ProjectName != project {
					continue
				}
				// First occurrence wins on duplicate names, matching
				// the lookup tie-break of get/set/delete
				if _, exists := injected[entry.Secret.Key]; exists {
					cfg.Logger.Warn("multiple secrets named '%s'; injecting the first one listed", entry.Secret.Key)
					continue
				}
				injected[entry.Secret.Key] = secure.NewBufferFromString(entry.Secret.Value)
			}

			if len(injected) == 0 {
				return cerrors.UserError{
					Message:    "No secrets matched the given filters",
					Suggestion: "Check --project and --pattern against 'bwsctl list'",
				}
			}

			cfg.Logger.Debug("resolved %d secrets for injection", len(injected))

			executor := execenv.New(cfg.Logger)
			return executor.Exec(ctx, execenv.Options{
				Command:       args,
				Secrets:       injected,
				AllowOverride: allowOverride,
				PrintVars:     printVars,
				WorkingDir:    workingDir,
				Timeout:       timeout,
			})
		},
	}

	rootCmd.Flags().StringVar(&configFile, "config", "bwsctl.yaml", "Profile file path")
	rootCmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.Flags().StringVar(&project, "project", "", "Only inject secrets assigned to this project")
	rootCmd.Flags().StringVar(&pattern, "pattern", "", "Only inject secrets whose name matches this glob")
	rootCmd.Flags().BoolVar(&printVars, "print", false, "Print injected variables (values masked)")
	rootCmd.Flags().BoolVar(&allowOverride, "allow-override", false, "Let pre-existing environment variables win over injected ones")
	rootCmd.Flags().StringVar(&workingDir, "working-dir", "", "Working directory for the command")
	rootCmd.Flags().IntVar(&timeout, "timeout", 0, "Command timeout in seconds (0 for no timeout)")

	return rootCmd.Execute()
}
