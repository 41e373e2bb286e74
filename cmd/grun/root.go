package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"grun/internal/bindings"
	"grun/internal/deps"
	"grun/internal/dispatch"
	"grun/internal/logging"
	"grun/internal/surface"
)

func newRootCommand(ctx *commandContext, dryRun bool) *cobra.Command {
	cobra.EnableCommandSorting = false

	rootCmd := &cobra.Command{
		Use:           "grun [-n|--dry-run] <command>",
		Short:         "Run make targets with variable overrides",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.renderOverview(cmd.Context(), ctx.std.err)
		},
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	defaultHelp := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if cmd == rootCmd {
			if err := ctx.renderOverview(cmd.Context(), ctx.std.err); err != nil {
				fmt.Fprintf(ctx.std.err, "Error: %v\n", err)
			}
			return
		}
		ctx.annotateDefaults(cmd)
		defaultHelp(cmd, args)
	})

	for _, command := range ctx.iface.Commands {
		rootCmd.AddCommand(newOperationCommand(ctx, command, dryRun))
	}
	return rootCmd
}

// newOperationCommand builds the subcommand for one rule. Flag parsing is done
// by the command itself so that unknown flags survive as free parameters.
func newOperationCommand(ctx *commandContext, command surface.Command, dryRun bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:                command.Name,
		Short:              command.Description,
		Long:               command.Description,
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			known, extras := partitionArgs(cmd.Flags(), args)
			if err := cmd.Flags().Parse(known); err != nil {
				return &usageError{err: fmt.Errorf("%s: %w", command.Name, err)}
			}
			if help, _ := cmd.Flags().GetBool("help"); help {
				return cmd.Help()
			}

			mapper := bindings.Mapper{AggregateKey: ctx.cfg.Bindings.AggregateKey}
			list := mapper.Map(ctx.vars, suppliedFrom(cmd), extras)
			inv := dispatch.NewInvocation(command.Name, list, dryRun)
			ctx.logger.Debug("invocation assembled",
				logging.String(logging.FieldOperation, command.Name),
				logging.Strings("bindings", bindings.Strings(inv.Bindings())),
				logging.Strings("extras", extras),
			)

			if err := deps.Verify(ctx.requirements()); err != nil {
				return err
			}
			if code := ctx.dispatcher().Execute(cmd.Context(), inv); code != 0 {
				return &dispatch.ExitError{Code: code}
			}
			return nil
		},
	}

	for _, flag := range ctx.iface.Flags {
		cmd.Flags().String(flag.Name, "", flag.Usage)
	}
	cmd.Flags().BoolP("dry-run", "n", false, "Pass -n to make; accepted anywhere on the command line")
	return cmd
}

// suppliedFrom reports the overrides that were explicitly set on cmd.
func suppliedFrom(cmd *cobra.Command) bindings.Supplied {
	return func(variable string) (string, bool) {
		flag := cmd.Flags().Lookup(surface.FlagName(variable))
		if flag == nil || !flag.Changed {
			return "", false
		}
		return flag.Value.String(), true
	}
}

// annotateDefaults appends the resolved default to every variable flag of cmd.
func (c *commandContext) annotateDefaults(cmd *cobra.Command) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	resolved := c.tool.ResolveDefaults(ctx, c.vars.All())
	for _, flag := range c.iface.Flags {
		if f := cmd.Flags().Lookup(flag.Name); f != nil {
			f.Usage = flag.UsageWithDefault(resolved[flag.Variable].Value)
		}
	}
}
