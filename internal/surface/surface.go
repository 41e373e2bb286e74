// Package surface maps parsed declaration tables to a description of the
// command-line interface. It performs no I/O; cmd/grun renders the result.
package surface

import (
	"fmt"
	"strings"

	"grun/internal/catalog"
)

// Flag describes one per-operation override option.
type Flag struct {
	// Name is the long option name without the leading dashes.
	Name string
	// Variable is the declared, original-case variable name.
	Variable string
	// Usage is the help text before any default value is appended.
	Usage string
}

// Command describes one subcommand.
type Command struct {
	Name        string
	Description string
}

// Interface is the complete synthesized command-line surface.
type Interface struct {
	Commands []Command
	Flags    []Flag
}

// reservedFlags are options every command already defines.
var reservedFlags = map[string]struct{}{
	"help":    {},
	"dry-run": {},
}

// ReservedFlagError reports a variable whose option would shadow a built-in
// one.
type ReservedFlagError struct {
	Variable string
	Flag     string
}

func (e *ReservedFlagError) Error() string {
	return fmt.Sprintf("variable %s maps to --%s, which grun reserves; rename the variable", e.Variable, e.Flag)
}

// Describe builds the interface for the given tables. Every command accepts
// every flag.
func Describe(vars *catalog.Variables, ops *catalog.Operations) (Interface, error) {
	var iface Interface
	for _, op := range ops.All() {
		iface.Commands = append(iface.Commands, Command{Name: op.Name, Description: op.Description})
	}
	for _, v := range vars.All() {
		name := FlagName(v.Name)
		if _, ok := reservedFlags[name]; ok {
			return Interface{}, &ReservedFlagError{Variable: v.Name, Flag: name}
		}
		iface.Flags = append(iface.Flags, Flag{
			Name:     name,
			Variable: v.Name,
			Usage:    baseUsage(v),
		})
	}
	return iface, nil
}

// FlagName is the option name used for a declared variable.
func FlagName(variable string) string {
	return strings.ToLower(variable)
}

// UsageWithDefault appends the displayed default to a flag's usage text.
func (f Flag) UsageWithDefault(value string) string {
	return fmt.Sprintf("%s Default: %s", f.Usage, value)
}

func baseUsage(v catalog.Variable) string {
	if v.Description != "" {
		return v.Description
	}
	return fmt.Sprintf("Overrides %s.", v.Name)
}
