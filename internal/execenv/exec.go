// Package execenv launches a child process with secrets injected as
// environment variables. Values stay wrapped in encrypted buffers until the
// process environment is assembled, and nothing is ever written to disk.
package execenv

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"
	"syscall"
	"time"

	cerrors "github.com/opsarc/bwsctl/internal/errors"
	"github.com/opsarc/bwsctl/internal/logging"
	"github.com/opsarc/bwsctl/internal/secure"
)

// Executor runs commands with injected environment variables.
type Executor struct {
	logger *logging.Logger
}

// New creates a new executor
func New(logger *logging.Logger) *Executor {
	return &Executor{logger: logger}
}

// Options configures command execution.
type Options struct {
	Command       []string                  // Command and arguments to run
	Secrets       map[string]*secure.Buffer // Injected variables, encrypted until launch
	AllowOverride bool                      // Let pre-existing env vars win over injected ones
	PrintVars     bool                      // Print injected variable names with masked values
	WorkingDir    string                    // Working directory for the command
	Timeout       int                       // Timeout in seconds (0 for no timeout)
}

// Exec runs the command. On a normal child exit the child's exit code is
// passed through via os.Exit, so this only returns for launch failures.
func (e *Executor) Exec(ctx context.Context, options Options) error {
	if len(options.Command) == 0 {
		return cerrors.UserError{
			Message:    "No command specified",
			Suggestion: "Provide a command after -- (e.g., bwsrun -- npm start)",
		}
	}

	if options.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(options.Timeout)*time.Second)
		defer cancel()
	}

	cmdName := options.Command[0]
	if _, err := exec.LookPath(cmdName); err != nil {
		return cerrors.WrapCommandNotFound(cmdName, err)
	}

	env, opened, err := e.buildEnvironment(options.Secrets, options.AllowOverride)
	if err != nil {
		return err
	}

	if options.PrintVars {
		e.printVariables(opened)
	}

	cmd := exec.CommandContext(ctx, cmdName, options.Command[1:]...)
	cmd.Env = env
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin

	if options.WorkingDir != "" {
		cmd.Dir = options.WorkingDir
	}

	e.logger.Debug("Executing command: %s", redactedCommandLine(options.Command, opened))
	e.logger.Debug("Injected variables: %d", len(options.Secrets))

	if err := cmd.Run(); err != nil {
		if exitError, ok := err.(*exec.ExitError); ok {
			// Preserve the exit code from the child process
			if status, ok := exitError.Sys().(syscall.WaitStatus); ok {
				os.Exit(status.ExitStatus())
			}
			os.Exit(1)
		}
		return cerrors.CommandError{
			Command:    strings.Join(options.Command, " "),
			Message:    err.Error(),
			Suggestion: "Check the command output above for details",
		}
	}

	return nil
}

// buildEnvironment merges the current environment with the injected
// variables. The plaintext map is returned alongside for masked printing.
func (e *Executor) buildEnvironment(injected map[string]*secure.Buffer, allowOverride bool) ([]string, map[string]string, error) {
	envMap := make(map[string]string)
	for _, entry := range os.Environ() {
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) == 2 {
			envMap[parts[0]] = parts[1]
		}
	}

	opened := make(map[string]string, len(injected))
	for key, buf := range injected {
		locked, err := buf.Open()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open value for %s: %w", key, err)
		}
		// LockedBuffer.String() is a no-copy view of memory that Destroy
		// unmaps; the []byte->string conversion copies the plaintext out
		// before that happens
		value := string(locked.Bytes())
		locked.Destroy()
		opened[key] = value

		if allowOverride {
			if _, exists := envMap[key]; exists {
				continue
			}
		}
		envMap[key] = value
	}

	result := make([]string, 0, len(envMap))
	for key, value := range envMap {
		result = append(result, fmt.Sprintf("%s=%s", key, value))
	}
	// Sort for consistent ordering (helps with debugging)
	sort.Strings(result)

	return result, opened, nil
}

// redactedCommandLine renders the command for debug logging with any
// injected plaintext scrubbed, in case a user interpolated a secret into
// the argument list.
func redactedCommandLine(command []string, injected map[string]string) string {
	values := make([]string, 0, len(injected))
	for _, v := range injected {
		values = append(values, v)
	}
	return logging.Redact(strings.Join(command, " "), values)
}

// printVariables displays injected variable names with masked values.
func (e *Executor) printVariables(vars map[string]string) {
	if len(vars) == 0 {
		fmt.Println("No variables injected")
		return
	}

	fmt.Printf("Injecting %d environment variables:\n", len(vars))

	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		fmt.Printf("  %s=%s\n", key, maskValue(vars[key]))
	}
	fmt.Println()
}

// maskValue masks a secret value for display
func maskValue(value string) string {
	if len(value) == 0 {
		return "(empty)"
	}
	if len(value) <= 3 {
		return strings.Repeat("*", len(value))
	}
	if len(value) <= 8 {
		return value[:1] + strings.Repeat("*", len(value)-2) + value[len(value)-1:]
	}
	return value[:3] + strings.Repeat("*", 8) + value[len(value)-2:]
}
