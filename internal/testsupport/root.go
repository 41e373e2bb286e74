package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/kballard/go-shellquote"

	"grun/internal/config"
)

// InvocationFile records the arguments the stub tool received for a run.
const InvocationFile = "invocation.txt"

// RootOption allows callers to customize the generated working root.
type RootOption func(*rootBuilder)

type rootBuilder struct {
	variables  *string
	operations *string
	resolved   map[string]string
	run        string
}

// Root is a temporary working root with declaration sources and a stub
// orchestration tool.
type Root struct {
	Dir  string
	Tool string
}

// NewRoot produces a working root seeded with small default sources and a
// stub make that answers print-NAME lookups from WithResolvedDefault and
// records run arguments in InvocationFile.
func NewRoot(t testing.TB, opts ...RootOption) *Root {
	t.Helper()

	vars := "# job name\nJOB ?= demo\nIMAGE_URI = gcr.io/example/image\n"
	ops := "# submit the batch job\nsubmit:\n\t@echo submit\n"
	builder := &rootBuilder{
		variables:  &vars,
		operations: &ops,
		resolved:   map[string]string{},
		run:        "exit 0\n",
	}
	for _, opt := range opts {
		opt(builder)
	}

	dir := t.TempDir()
	if builder.variables != nil {
		writeFile(t, filepath.Join(dir, "config.mk"), *builder.variables, 0o644)
	}
	if builder.operations != nil {
		writeFile(t, filepath.Join(dir, "rules.mk"), *builder.operations, 0o644)
	}
	tool := filepath.Join(dir, "bin", "make")
	writeFile(t, tool, builder.script(), 0o755)

	return &Root{Dir: dir, Tool: tool}
}

// WithVariables replaces the variable source contents.
func WithVariables(src string) RootOption {
	return func(b *rootBuilder) {
		b.variables = &src
	}
}

// WithOperations replaces the operation source contents.
func WithOperations(src string) RootOption {
	return func(b *rootBuilder) {
		b.operations = &src
	}
}

// WithoutVariables omits the variable source.
func WithoutVariables() RootOption {
	return func(b *rootBuilder) {
		b.variables = nil
	}
}

// WithoutOperations omits the operation source.
func WithoutOperations() RootOption {
	return func(b *rootBuilder) {
		b.operations = nil
	}
}

// WithResolvedDefault makes the stub answer `make -s print-NAME` with value.
// Names without a resolved default make the lookup fail.
func WithResolvedDefault(name, value string) RootOption {
	return func(b *rootBuilder) {
		b.resolved[name] = value
	}
}

// WithRunScript replaces the shell fragment executed after the arguments are
// recorded, e.g. "exit 3" or "kill -9 $$".
func WithRunScript(body string) RootOption {
	return func(b *rootBuilder) {
		b.run = body + "\n"
	}
}

func (b *rootBuilder) script() string {
	var sb strings.Builder
	sb.WriteString("#!/bin/sh\n")
	sb.WriteString("if [ \"$1\" = \"-s\" ]; then\n  case \"$2\" in\n")
	names := make([]string, 0, len(b.resolved))
	for name := range b.resolved {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		fmt.Fprintf(&sb, "    print-%s) echo %s; exit 0 ;;\n", name, shellquote.Join(b.resolved[name]))
	}
	sb.WriteString("  esac\n  echo \"no rule to make target '$2'\" >&2\n  exit 2\nfi\n")
	sb.WriteString("printf '%s\\n' \"$@\" > \"$(dirname \"$0\")/" + InvocationFile + "\"\n")
	sb.WriteString(b.run)
	return sb.String()
}

// Setenv points GRUN_DIR and GRUN_MAKE at the root for the duration of t.
func (r *Root) Setenv(t testing.TB) {
	t.Helper()
	t.Setenv(config.RootEnv, r.Dir)
	t.Setenv("GRUN_MAKE", r.Tool)
}

// Invocation returns the arguments recorded by the most recent stub run, or
// nil when the stub was never run.
func (r *Root) Invocation(t testing.TB) []string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(filepath.Dir(r.Tool), InvocationFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		t.Fatalf("read invocation: %v", err)
	}
	return strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
}

func writeFile(t testing.TB, path, content string, mode os.FileMode) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), mode); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
