package orchestrator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sys/unix"

	"grun/internal/catalog"
	"grun/internal/logging"
)

// Tool runs the orchestration tool inside the working root.
type Tool struct {
	Path  string
	Dir   string
	Shell string

	// ResolveTimeout bounds each print-NAME lookup; zero means no bound.
	ResolveTimeout time.Duration
	// InterruptGrace is how long an interrupted child may run before it is killed.
	InterruptGrace time.Duration

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
}

// Resolution is the outcome of looking up a variable's live default.
type Resolution struct {
	Value string
	// Resolved is false when Value is the literal declared default.
	Resolved bool
}

// Outcome describes how the child process ended.
type Outcome struct {
	Status unix.WaitStatus
	// Interrupted is set when the run's context was cancelled by an interrupt.
	Interrupted bool
}

// PrintVariable asks the tool for the evaluated value of name.
func (t *Tool) PrintVariable(ctx context.Context, name string) (string, error) {
	if t.ResolveTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.ResolveTimeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, t.Path, "-s", "print-"+name)
	cmd.Dir = t.Dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("print-%s: %w: %s", name, err, msg)
		}
		return "", fmt.Errorf("print-%s: %w", name, err)
	}
	return strings.TrimSpace(string(out)), nil
}

// ResolveDefault returns the evaluated default for v, or its literal default
// when the lookup fails for any reason.
func (t *Tool) ResolveDefault(ctx context.Context, v catalog.Variable) Resolution {
	value, err := t.PrintVariable(ctx, v.Name)
	if err != nil {
		t.logger().Debug("default resolution failed; using literal value",
			logging.String(logging.FieldVariable, v.Name),
			logging.Error(err),
		)
		return Resolution{Value: v.Default}
	}
	return Resolution{Value: value, Resolved: true}
}

// ResolveDefaults resolves every variable sequentially, keyed by name.
func (t *Tool) ResolveDefaults(ctx context.Context, vars []catalog.Variable) map[string]Resolution {
	out := make(map[string]Resolution, len(vars))
	for _, v := range vars {
		out[v.Name] = t.ResolveDefault(ctx, v)
	}
	return out
}

// Run executes commandLine through the shell and waits for it. When ctx is
// cancelled the child receives SIGINT and, after InterruptGrace, SIGKILL.
// An error is returned only when the child could not be started or waited on.
func (t *Tool) Run(ctx context.Context, commandLine string) (Outcome, error) {
	cmd := exec.CommandContext(ctx, t.Shell, "-c", commandLine)
	cmd.Dir = t.Dir
	cmd.Stdin = t.Stdin
	cmd.Stdout = t.Stdout
	cmd.Stderr = t.Stderr
	cmd.Cancel = func() error {
		return cmd.Process.Signal(os.Interrupt)
	}
	cmd.WaitDelay = t.InterruptGrace

	if err := cmd.Start(); err != nil {
		return Outcome{}, fmt.Errorf("start %s: %w", t.Shell, err)
	}
	waitErr := cmd.Wait()

	outcome := Outcome{Interrupted: ctx.Err() != nil}
	if cmd.ProcessState == nil {
		return outcome, fmt.Errorf("wait for %s: %w", t.Shell, waitErr)
	}
	status, ok := cmd.ProcessState.Sys().(syscall.WaitStatus)
	if !ok {
		return outcome, fmt.Errorf("wait for %s: unsupported process state %T", t.Shell, cmd.ProcessState.Sys())
	}
	outcome.Status = unix.WaitStatus(status)

	var exitErr *exec.ExitError
	if waitErr != nil && !errors.As(waitErr, &exitErr) && !outcome.Interrupted {
		t.logger().Warn("child wait reported an error", logging.Error(waitErr))
	}
	return outcome, nil
}

func (t *Tool) logger() *slog.Logger {
	if t.Logger == nil {
		return logging.NewNop()
	}
	return t.Logger
}
