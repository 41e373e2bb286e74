package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

const (
	ansiReset = "\x1b[0m"
	ansiBold  = "\x1b[1m"
)

const banner = "Run make targets with variable overrides taken from the command line."

// renderOverview writes the full listing shown when grun runs without a
// command: usage, commands, then every configuration argument with its
// effective default.
func (c *commandContext) renderOverview(ctx context.Context, w io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	colorize := shouldColorize(w)

	var b strings.Builder
	b.WriteString("Usage: grun [-n|--dry-run] <command> [--variable value ...] [--other-name value ...]\n\n")
	b.WriteString(banner + "\n")

	b.WriteString("\n" + heading("Commands:", colorize) + "\n")
	if len(c.iface.Commands) == 0 {
		b.WriteString(columnIndent + "(none declared)\n")
	} else {
		rows := make([][]string, 0, len(c.iface.Commands))
		for _, command := range c.iface.Commands {
			rows = append(rows, []string{command.Name, command.Description})
		}
		b.WriteString(renderColumns(rows) + "\n")
	}

	b.WriteString("\n" + heading(fmt.Sprintf("Configuration Arguments (from %s):", c.variablesSourceName()), colorize) + "\n")
	if len(c.iface.Flags) == 0 {
		b.WriteString(columnIndent + "(none declared)\n")
	} else {
		resolved := c.tool.ResolveDefaults(ctx, c.vars.All())
		rows := make([][]string, 0, len(c.iface.Flags))
		for _, flag := range c.iface.Flags {
			rows = append(rows, []string{
				"--" + flag.Name,
				flag.Usage,
				fmt.Sprintf("(Default: %s)", resolved[flag.Variable].Value),
			})
		}
		b.WriteString(renderColumns(rows) + "\n")
	}

	b.WriteString("\nOptions:\n")
	b.WriteString(renderColumns([][]string{
		{"-n, --dry-run", "Print what make would run without running it; accepted anywhere"},
		{"-h, --help", "Show help for grun or a command"},
	}) + "\n")
	b.WriteString("\nUnrecognized --name value pairs are forwarded as NAME=value and collected in " +
		c.cfg.Bindings.AggregateKey + ".\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func heading(title string, colorize bool) string {
	if colorize {
		return ansiBold + title + ansiReset
	}
	return title
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
