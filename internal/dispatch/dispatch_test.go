package dispatch_test

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofrs/flock"
	"github.com/google/go-cmp/cmp"
	"github.com/kballard/go-shellquote"
	"golang.org/x/sys/unix"

	"grun/internal/bindings"
	"grun/internal/dispatch"
	"grun/internal/orchestrator"
)

func TestStripDryRunIsPositionIndependent(t *testing.T) {
	inputs := [][]string{
		{"-n", "op", "--x=1"},
		{"op", "-n", "--x=1"},
		{"op", "--x=1", "-n"},
		{"op", "--dry-run", "--x=1"},
		{"-n", "op", "--x=1", "--dry-run"},
	}
	want := []string{"op", "--x=1"}

	for _, input := range inputs {
		original := append([]string(nil), input...)
		rest, dry := dispatch.StripDryRun(input)
		if !dry {
			t.Fatalf("expected dry run for %v", input)
		}
		if diff := cmp.Diff(want, rest); diff != "" {
			t.Fatalf("remaining args mismatch for %v (-want +got):\n%s", input, diff)
		}
		if diff := cmp.Diff(original, input); diff != "" {
			t.Fatalf("input was modified (-want +got):\n%s", diff)
		}
	}
}

func TestStripDryRunWithoutToken(t *testing.T) {
	rest, dry := dispatch.StripDryRun([]string{"op", "--name", "-nx"})
	if dry {
		t.Fatal("unexpected dry run")
	}
	if diff := cmp.Diff([]string{"op", "--name", "-nx"}, rest); diff != "" {
		t.Fatalf("remaining args mismatch (-want +got):\n%s", diff)
	}
}

func TestInvocationAssembly(t *testing.T) {
	list := []bindings.Binding{
		{Key: "JOB", Value: "train"},
		{Key: "USER_PARAMETERS", Value: "FOO=bar BAZ=qux FLAG="},
	}
	inv := dispatch.NewInvocation("submit", list, true)
	list[0].Value = "mutated"

	wantArgv := []string{"make", "-n", "submit", "JOB=train", "USER_PARAMETERS=FOO=bar BAZ=qux FLAG="}
	if diff := cmp.Diff(wantArgv, inv.Argv("make")); diff != "" {
		t.Fatalf("argv mismatch (-want +got):\n%s", diff)
	}

	split, err := shellquote.Split(inv.CommandLine("make"))
	if err != nil {
		t.Fatalf("split command line: %v", err)
	}
	if diff := cmp.Diff(wantArgv, split); diff != "" {
		t.Fatalf("command line does not round-trip (-want +got):\n%s", diff)
	}
}

func TestInvocationWithoutDryRun(t *testing.T) {
	inv := dispatch.NewInvocation("clean", nil, false)
	if got := inv.CommandLine("make"); got != "make clean" {
		t.Fatalf("unexpected command line %q", got)
	}
}

func TestDecodeExitStatuses(t *testing.T) {
	tests := []struct {
		name    string
		outcome orchestrator.Outcome
		code    int
		message string
	}{
		{name: "success", outcome: orchestrator.Outcome{Status: 0}, code: 0},
		{name: "exit 3", outcome: orchestrator.Outcome{Status: unix.WaitStatus(3 << 8)}, code: 1, message: "Command exited with code 3"},
		{name: "sigkill", outcome: orchestrator.Outcome{Status: unix.WaitStatus(9)}, code: 137, message: "Command terminated by signal 9"},
		{name: "sigterm", outcome: orchestrator.Outcome{Status: unix.WaitStatus(15)}, code: 143, message: "Command terminated by signal 15"},
		{name: "interrupt wins", outcome: orchestrator.Outcome{Status: unix.WaitStatus(2), Interrupted: true}, code: 130, message: "Interrupted by user."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := dispatch.Decode(tt.outcome)
			if got.Code != tt.code {
				t.Fatalf("expected code %d, got %d", tt.code, got.Code)
			}
			if !strings.Contains(got.Message, tt.message) {
				t.Fatalf("expected message containing %q, got %q", tt.message, got.Message)
			}
			if tt.message == "" && got.Message != "" {
				t.Fatalf("expected no message, got %q", got.Message)
			}
		})
	}
}

func TestExitCode(t *testing.T) {
	if dispatch.ExitCode(nil) != 0 {
		t.Fatal("nil error should exit 0")
	}
	if dispatch.ExitCode(errors.New("usage")) != 1 {
		t.Fatal("plain errors should exit 1")
	}
	wrapped := errors.Join(errors.New("ctx"), &dispatch.ExitError{Code: 137})
	if dispatch.ExitCode(wrapped) != 137 {
		t.Fatal("expected wrapped exit code")
	}
}

type fakeRunner struct {
	outcome orchestrator.Outcome
	err     error
	lines   []string
}

func (f *fakeRunner) Run(_ context.Context, line string) (orchestrator.Outcome, error) {
	f.lines = append(f.lines, line)
	return f.outcome, f.err
}

func newDispatcher(runner dispatch.Runner) (*dispatch.Dispatcher, *bytes.Buffer, *bytes.Buffer) {
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	return &dispatch.Dispatcher{Runner: runner, ToolPath: "make", Stdout: stdout, Stderr: stderr}, stdout, stderr
}

func TestExecuteSuccess(t *testing.T) {
	runner := &fakeRunner{}
	d, stdout, stderr := newDispatcher(runner)

	code := d.Execute(context.Background(), dispatch.NewInvocation("submit", []bindings.Binding{{Key: "JOB", Value: "x"}}, false))
	if code != 0 {
		t.Fatalf("expected 0, got %d", code)
	}
	if diff := cmp.Diff([]string{"exec make submit JOB=x"}, runner.lines); diff != "" {
		t.Fatalf("runner lines mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(stdout.String(), "Running command: make submit JOB=x") {
		t.Fatalf("expected running banner, got %q", stdout.String())
	}
	if stderr.Len() != 0 {
		t.Fatalf("expected silent success, got %q", stderr.String())
	}
}

func TestExecuteReportsSignal(t *testing.T) {
	d, _, stderr := newDispatcher(&fakeRunner{outcome: orchestrator.Outcome{Status: unix.WaitStatus(9)}})

	if code := d.Execute(context.Background(), dispatch.NewInvocation("submit", nil, false)); code != 137 {
		t.Fatalf("expected 137, got %d", code)
	}
	if !strings.Contains(stderr.String(), "terminated by signal 9") {
		t.Fatalf("expected signal diagnostic, got %q", stderr.String())
	}
}

func TestExecuteStartFailure(t *testing.T) {
	d, _, stderr := newDispatcher(&fakeRunner{err: errors.New("start /bin/sh: no such file")})

	if code := d.Execute(context.Background(), dispatch.NewInvocation("submit", nil, false)); code != 1 {
		t.Fatalf("expected 1, got %d", code)
	}
	if !strings.Contains(stderr.String(), "no such file") {
		t.Fatalf("expected start diagnostic, got %q", stderr.String())
	}
}

func TestExecuteAlreadyInterrupted(t *testing.T) {
	runner := &fakeRunner{}
	d, _, stderr := newDispatcher(runner)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if code := d.Execute(ctx, dispatch.NewInvocation("submit", nil, false)); code != 130 {
		t.Fatalf("expected 130, got %d", code)
	}
	if len(runner.lines) != 0 {
		t.Fatal("runner must not start after an interrupt")
	}
	if !strings.Contains(stderr.String(), "Interrupted by user.") {
		t.Fatalf("expected interrupt diagnostic, got %q", stderr.String())
	}
}

func TestExecuteLockContention(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), ".grun.lock")
	held := flock.New(lockPath)
	locked, err := held.TryLock()
	if err != nil || !locked {
		t.Fatalf("hold lock: locked=%v err=%v", locked, err)
	}
	defer held.Unlock() //nolint:errcheck

	runner := &fakeRunner{}
	d, _, stderr := newDispatcher(runner)
	d.LockPath = lockPath

	if code := d.Execute(context.Background(), dispatch.NewInvocation("submit", nil, false)); code != 1 {
		t.Fatalf("expected 1 under contention, got %d", code)
	}
	if !strings.Contains(stderr.String(), "another grun run holds") {
		t.Fatalf("expected contention diagnostic, got %q", stderr.String())
	}

	if code := d.Execute(context.Background(), dispatch.NewInvocation("submit", nil, true)); code != 0 {
		t.Fatalf("dry runs should bypass the lock, got %d", code)
	}
}
