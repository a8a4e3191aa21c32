package main

import (
	"fmt"
	"os"

	"github.com/awnumar/memguard"
	"github.com/spf13/cobra"

	"github.com/opsarc/bwsctl/cmd/bwsctl/commands"
	"github.com/opsarc/bwsctl/internal/config"
	"github.com/opsarc/bwsctl/internal/logging"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// Wipe decrypted secret material on exit
	defer memguard.Purge()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		memguard.Purge()
		os.Exit(1)
	}
}

func run() error {
	// Global flags
	var (
		configFile string
		noColor    bool
		debug      bool
	)

	// Config placeholder, filled in once flags are parsed and threaded
	// into every command. No other process-wide state exists.
	cfg := &config.Config{}

	rootCmd := &cobra.Command{
		Use:   "bwsctl",
		Short: "Manage secrets in the organization's secrets manager",
		Long: `bwsctl manages machine secrets stored in the secrets manager:
read, write and delete secrets, organize them into projects, and bulk-move
them with shell-like name patterns.`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cfg.Path = configFile
			cfg.Logger = logging.New(debug, noColor)
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "bwsctl.yaml", "Profile file path")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(
		commands.NewListCommand(cfg),
		commands.NewGetCommand(cfg),
		commands.NewSetCommand(cfg),
		commands.NewDeleteCommand(cfg),
		commands.NewMoveCommand(cfg),
		commands.NewProjectsCommand(cfg),
		commands.NewLoginCommand(cfg),
		commands.NewLogoutCommand(cfg),
	)

	return rootCmd.Execute()
}
