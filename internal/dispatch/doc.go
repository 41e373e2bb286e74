// Package dispatch owns the final step of a grun run.
//
// It strips the position-independent dry-run toggle from the raw arguments,
// assembles the invocation `make [-n] <operation> KEY=VALUE...` as one
// shell-quoted command line, runs it, and maps the child's termination to
// grun's own exit code:
//
//   - interrupted by the user: 130
//   - terminated by signal N:  128+N
//   - non-zero exit:           1
//   - success:                 0
//
// An interrupt delivered to grun takes precedence over whatever status the
// child reports afterwards, since a terminal ^C reaches both processes.
package dispatch
