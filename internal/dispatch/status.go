package dispatch

import (
	"fmt"

	"golang.org/x/sys/unix"

	"grun/internal/orchestrator"
)

const (
	// InterruptExitCode is returned when grun itself is interrupted.
	InterruptExitCode = 130
	signalExitBase    = 128
)

// Result is grun's exit code for a child outcome plus the diagnostic to print.
type Result struct {
	Code    int
	Message string
}

// Decode maps a child outcome to grun's exit code.
func Decode(outcome orchestrator.Outcome) Result {
	if outcome.Interrupted {
		return Result{Code: InterruptExitCode, Message: "\nInterrupted by user."}
	}
	status := outcome.Status
	if status.Signaled() {
		sig := status.Signal()
		msg := fmt.Sprintf("Command terminated by signal %d", int(sig))
		if name := unix.SignalName(sig); name != "" {
			msg += " (" + name + ")"
		}
		return Result{Code: signalExitBase + int(sig), Message: msg}
	}
	if code := status.ExitStatus(); code != 0 {
		return Result{Code: 1, Message: fmt.Sprintf("Command exited with code %d", code)}
	}
	return Result{}
}
