package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"

	"grun/internal/config"
	"grun/internal/dispatch"
	"grun/internal/logging"
)

type streams struct {
	in  io.Reader
	out io.Writer
	err io.Writer
}

// run executes one grun invocation and returns the process exit code.
func run(ctx context.Context, args []string, std streams) int {
	rest, dryRun := dispatch.StripDryRun(args)

	root, err := config.RootFromEnv()
	if err != nil {
		return fail(std.err, err)
	}
	cfg, err := config.Load(root)
	if err != nil {
		return fail(std.err, err)
	}
	logger, logFiles, err := logging.NewFromConfig(cfg)
	if err != nil {
		return fail(std.err, fmt.Errorf("init logger: %w", err))
	}
	defer logFiles.Close()
	logger = logger.With(logging.String(logging.FieldRunID, uuid.NewString()))

	cmdCtx, err := newCommandContext(cfg, logger, std)
	if err != nil {
		return fail(std.err, err)
	}

	rootCmd := newRootCommand(cmdCtx, dryRun)
	rootCmd.SetArgs(rest)
	rootCmd.SetIn(std.in)
	rootCmd.SetOut(std.out)
	rootCmd.SetErr(std.err)

	err = rootCmd.ExecuteContext(ctx)
	var exitErr *dispatch.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		fmt.Fprintf(std.err, "Error: %v\n", err)
		if isUsageError(err) {
			fmt.Fprintln(std.err, "Run 'grun' without arguments to list commands and variables.")
		}
	}
	return dispatch.ExitCode(err)
}

func fail(w io.Writer, err error) int {
	fmt.Fprintf(w, "Error: %v\n", err)
	return 1
}
