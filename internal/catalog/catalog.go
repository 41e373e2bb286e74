package catalog

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrSourceMissing reports that a declaration source does not exist.
var ErrSourceMissing = errors.New("declaration source missing")

// MissingSourceError names the declaration source that could not be found.
type MissingSourceError struct {
	Kind    string
	Path    string
	Purpose string
}

func (e *MissingSourceError) Error() string {
	return fmt.Sprintf("%s not found at '%s'\nThis file is required to define %s.", e.Kind, e.Path, e.Purpose)
}

func (e *MissingSourceError) Unwrap() error { return ErrSourceMissing }

// Variable is one overridable assignment from the variable source.
type Variable struct {
	Name        string
	Default     string
	Description string
}

// Variables is an ordered, name-keyed table of variables.
type Variables struct {
	entries []Variable
	index   map[string]int
}

func (v *Variables) put(entry Variable) {
	if v.index == nil {
		v.index = make(map[string]int)
	}
	if pos, ok := v.index[entry.Name]; ok {
		v.entries[pos] = entry
		return
	}
	v.index[entry.Name] = len(v.entries)
	v.entries = append(v.entries, entry)
}

// Len returns the number of variables.
func (v *Variables) Len() int {
	if v == nil {
		return 0
	}
	return len(v.entries)
}

// All returns the variables in declaration order.
func (v *Variables) All() []Variable {
	if v == nil {
		return nil
	}
	out := make([]Variable, len(v.entries))
	copy(out, v.entries)
	return out
}

// Lookup finds a variable by its declared name.
func (v *Variables) Lookup(name string) (Variable, bool) {
	if v == nil {
		return Variable{}, false
	}
	pos, ok := v.index[name]
	if !ok {
		return Variable{}, false
	}
	return v.entries[pos], true
}

// Operation is one invocable target from the operation source.
type Operation struct {
	Name        string
	Description string
}

// Operations is an ordered, name-keyed table of operations.
type Operations struct {
	entries []Operation
	index   map[string]int
}

func (o *Operations) put(entry Operation) {
	if o.index == nil {
		o.index = make(map[string]int)
	}
	if pos, ok := o.index[entry.Name]; ok {
		o.entries[pos] = entry
		return
	}
	o.index[entry.Name] = len(o.entries)
	o.entries = append(o.entries, entry)
}

// Len returns the number of operations.
func (o *Operations) Len() int {
	if o == nil {
		return 0
	}
	return len(o.entries)
}

// All returns the operations in declaration order.
func (o *Operations) All() []Operation {
	if o == nil {
		return nil
	}
	out := make([]Operation, len(o.entries))
	copy(out, o.entries)
	return out
}

// Lookup finds an operation by name.
func (o *Operations) Lookup(name string) (Operation, bool) {
	if o == nil {
		return Operation{}, false
	}
	pos, ok := o.index[name]
	if !ok {
		return Operation{}, false
	}
	return o.entries[pos], true
}

// capitalize upper-cases the first letter and lower-cases the rest.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return cases.Upper(language.Und).String(string(r)) + cases.Lower(language.Und).String(s[size:])
}
