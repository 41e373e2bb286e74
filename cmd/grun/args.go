package main

import (
	"errors"
	"strings"

	"github.com/spf13/pflag"
)

// usageError marks mistakes in the user's command line.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }

func (e *usageError) Unwrap() error { return e.err }

func isUsageError(err error) bool {
	var ue *usageError
	if errors.As(err, &ue) {
		return true
	}
	msg := err.Error()
	for _, prefix := range []string{"unknown command", "unknown flag", "unknown shorthand flag"} {
		if strings.HasPrefix(msg, prefix) {
			return true
		}
	}
	return false
}

// partitionArgs splits args into tokens flags knows about (with their values)
// and everything else. Everything after a bare "--" is left over.
func partitionArgs(flags *pflag.FlagSet, args []string) (known, extras []string) {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			extras = append(extras, args[i+1:]...)
			break
		}
		flag, inline := lookupFlag(flags, arg)
		if flag == nil {
			extras = append(extras, arg)
			continue
		}
		known = append(known, arg)
		if !inline && flag.NoOptDefVal == "" && i+1 < len(args) {
			known = append(known, args[i+1])
			i++
		}
	}
	return known, extras
}

// lookupFlag resolves --name, --name=value and single-letter -x tokens.
// inline reports whether the token already carries its value.
func lookupFlag(flags *pflag.FlagSet, arg string) (*pflag.Flag, bool) {
	if body, ok := strings.CutPrefix(arg, "--"); ok {
		name, _, inline := strings.Cut(body, "=")
		if name == "" {
			return nil, false
		}
		return flags.Lookup(name), inline
	}
	if len(arg) == 2 && arg[0] == '-' && arg[1] != '-' {
		return flags.ShorthandLookup(arg[1:]), false
	}
	return nil, false
}
