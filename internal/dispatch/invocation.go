package dispatch

import (
	"github.com/kballard/go-shellquote"

	"grun/internal/bindings"
)

// Invocation is the fully resolved request for one run.
type Invocation struct {
	operation string
	bindings  []bindings.Binding
	dryRun    bool
}

// NewInvocation builds an invocation; the bindings slice is copied.
func NewInvocation(operation string, list []bindings.Binding, dryRun bool) Invocation {
	copied := make([]bindings.Binding, len(list))
	copy(copied, list)
	return Invocation{operation: operation, bindings: copied, dryRun: dryRun}
}

func (i Invocation) Operation() string { return i.operation }

func (i Invocation) DryRun() bool { return i.dryRun }

// Bindings returns a copy of the ordered bindings.
func (i Invocation) Bindings() []bindings.Binding {
	out := make([]bindings.Binding, len(i.bindings))
	copy(out, i.bindings)
	return out
}

// Argv returns the tool invocation as separate arguments.
func (i Invocation) Argv(tool string) []string {
	argv := []string{tool}
	if i.dryRun {
		argv = append(argv, DryRunFlag)
	}
	argv = append(argv, i.operation)
	return append(argv, bindings.Strings(i.bindings)...)
}

// CommandLine renders Argv as a single shell-quoted line.
func (i Invocation) CommandLine(tool string) string {
	return shellquote.Join(i.Argv(tool)...)
}
