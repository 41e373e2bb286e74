package main

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"grun/internal/catalog"
	"grun/internal/config"
	"grun/internal/deps"
	"grun/internal/dispatch"
	"grun/internal/logging"
	"grun/internal/orchestrator"
	"grun/internal/surface"
)

// commandContext carries everything the synthesized commands share. It is
// built once per run after the declaration sources have been parsed.
type commandContext struct {
	cfg    *config.Config
	logger *slog.Logger
	std    streams

	vars  *catalog.Variables
	ops   *catalog.Operations
	iface surface.Interface
	tool  *orchestrator.Tool
}

func newCommandContext(cfg *config.Config, logger *slog.Logger, std streams) (*commandContext, error) {
	vars, err := catalog.LoadVariables(cfg.VariablesPath())
	if err != nil {
		return nil, err
	}
	ops, err := catalog.LoadOperations(cfg.OperationsPath())
	if err != nil {
		return nil, err
	}
	iface, err := surface.Describe(vars, ops)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cfg.VariablesPath(), err)
	}
	logger.Debug("declarations loaded",
		logging.Int("variables", vars.Len()),
		logging.Int("operations", ops.Len()),
	)

	return &commandContext{
		cfg:    cfg,
		logger: logger,
		std:    std,
		vars:   vars,
		ops:    ops,
		iface:  iface,
		tool: &orchestrator.Tool{
			Path:           cfg.Tool.Path,
			Dir:            cfg.Root,
			Shell:          cfg.Tool.Shell,
			ResolveTimeout: cfg.ResolveTimeout(),
			InterruptGrace: cfg.InterruptGrace(),
			Stdin:          std.in,
			Stdout:         std.out,
			Stderr:         std.err,
			Logger:         logging.NewComponentLogger(logger, "orchestrator"),
		},
	}, nil
}

func (c *commandContext) dispatcher() *dispatch.Dispatcher {
	d := &dispatch.Dispatcher{
		Runner:   c.tool,
		ToolPath: c.cfg.Tool.Path,
		Stdout:   c.std.out,
		Stderr:   c.std.err,
		Logger:   logging.NewComponentLogger(c.logger, "dispatch"),
	}
	if c.cfg.Execution.Exclusive {
		d.LockPath = c.cfg.LockPath()
	}
	return d
}

// requirements lists the executables a dispatch shells out to.
func (c *commandContext) requirements() []deps.Requirement {
	return []deps.Requirement{
		{Name: "orchestration tool", Command: c.inRoot(c.cfg.Tool.Path)},
		{Name: "shell", Command: c.inRoot(c.cfg.Tool.Shell)},
	}
}

// inRoot resolves a relative command path the way the child sees it, from the
// working root. Bare names are left for a PATH lookup.
func (c *commandContext) inRoot(command string) string {
	if filepath.IsAbs(command) || !strings.ContainsRune(command, filepath.Separator) {
		return command
	}
	return filepath.Join(c.cfg.Root, command)
}

// variablesSourceName is the file name shown in help headings.
func (c *commandContext) variablesSourceName() string {
	return filepath.Base(c.cfg.VariablesPath())
}
