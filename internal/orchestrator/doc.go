// Package orchestrator wraps the external build orchestration tool (make).
//
// Two calls exist: a side-effect-free `make -s print-NAME` lookup used to show
// computed defaults in help output, and the final operation run, executed
// through the shell inside the working root. The run forwards an interrupt to
// the child when its context is cancelled and reports the child's raw wait
// status so callers can decode signal termination faithfully.
package orchestrator
