package dispatch

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/gofrs/flock"

	"grun/internal/logging"
	"grun/internal/orchestrator"
)

// Runner executes an assembled command line.
type Runner interface {
	Run(ctx context.Context, commandLine string) (orchestrator.Outcome, error)
}

// Dispatcher runs invocations and reports their outcome.
type Dispatcher struct {
	Runner   Runner
	ToolPath string
	// LockPath, when set, serializes non-dry runs across grun processes.
	LockPath string
	Stdout   io.Writer
	Stderr   io.Writer
	Logger   *slog.Logger
}

// Execute runs inv and returns grun's exit code. Diagnostics are written to
// Stderr before returning.
func (d *Dispatcher) Execute(ctx context.Context, inv Invocation) int {
	logger := d.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	line := inv.CommandLine(d.ToolPath)
	fmt.Fprintf(d.Stdout, "Running command: %s\n", line)
	logger.Info("dispatching operation",
		logging.String(logging.FieldOperation, inv.Operation()),
		logging.Bool("dry_run", inv.DryRun()),
		logging.Int("bindings", len(inv.bindings)),
	)

	if d.LockPath != "" && !inv.DryRun() {
		lock := flock.New(d.LockPath)
		locked, err := lock.TryLock()
		if err != nil {
			fmt.Fprintf(d.Stderr, "Error: acquire run lock %s: %v\n", d.LockPath, err)
			return 1
		}
		if !locked {
			fmt.Fprintf(d.Stderr, "Error: another grun run holds %s\n", d.LockPath)
			return 1
		}
		defer lock.Unlock() //nolint:errcheck
	}

	if ctx.Err() != nil {
		fmt.Fprintln(d.Stderr, "\nInterrupted by user.")
		return InterruptExitCode
	}

	// exec replaces the shell so the tool's own status reaches us.
	outcome, err := d.Runner.Run(ctx, "exec "+line)
	if err != nil {
		logger.Error("run failed", logging.Error(err))
		fmt.Fprintf(d.Stderr, "Error: %v\n", err)
		return 1
	}

	result := Decode(outcome)
	if result.Message != "" {
		fmt.Fprintln(d.Stderr, result.Message)
	}
	logger.Info("operation finished",
		logging.String(logging.FieldOperation, inv.Operation()),
		logging.Int("exit_code", result.Code),
		logging.Bool("interrupted", outcome.Interrupted),
	)
	return result.Code
}
