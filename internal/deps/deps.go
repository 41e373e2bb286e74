// Package deps checks that the executables grun shells out to are present.
package deps

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Requirement names an executable grun needs before it can dispatch.
type Requirement struct {
	Name    string
	Command string
}

// Status reports the availability of a requirement.
type Status struct {
	Requirement
	Path      string
	Available bool
	Detail    string
}

// Check evaluates every requirement in order.
func Check(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		req.Command = strings.TrimSpace(req.Command)
		status := Status{Requirement: req}
		if req.Command == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		path, err := exec.LookPath(req.Command)
		if err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", req.Command)
			results = append(results, status)
			continue
		}
		status.Path = path
		status.Available = true
		results = append(results, status)
	}
	return results
}

// Verify returns an error describing every unavailable requirement, or nil.
func Verify(requirements []Requirement) error {
	var errs []error
	for _, status := range Check(requirements) {
		if !status.Available {
			errs = append(errs, fmt.Errorf("%s: %s", status.Name, status.Detail))
		}
	}
	return errors.Join(errs...)
}
