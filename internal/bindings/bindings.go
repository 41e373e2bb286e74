// Package bindings turns parsed overrides and leftover command-line tokens
// into the ordered KEY=VALUE list forwarded to make.
package bindings

import (
	"strings"

	"grun/internal/catalog"
)

// DefaultAggregateKey carries free-form user parameters as one binding.
const DefaultAggregateKey = "USER_PARAMETERS"

const longFlag = "--"

// Binding is a single override forwarded to the orchestration tool.
type Binding struct {
	Key   string
	Value string
}

// String renders the binding as KEY=VALUE.
func (b Binding) String() string {
	return b.Key + "=" + b.Value
}

// Supplied reports the override given for a declared variable, if any.
type Supplied func(variable string) (string, bool)

// Mapper converts parse results into bindings.
type Mapper struct {
	// AggregateKey names the binding that carries free-form parameters.
	AggregateKey string
}

// Map emits one binding per supplied declared variable, in declaration order,
// followed by the aggregate free-form binding when extras contain any flags.
func (m Mapper) Map(vars *catalog.Variables, supplied Supplied, extras []string) []Binding {
	var out []Binding
	for _, v := range vars.All() {
		value, ok := supplied(v.Name)
		if !ok {
			continue
		}
		out = append(out, Binding{Key: v.Name, Value: value})
	}
	if params := FreeParameters(extras); len(params) > 0 {
		key := m.AggregateKey
		if key == "" {
			key = DefaultAggregateKey
		}
		out = append(out, Binding{Key: key, Value: joinParameters(params)})
	}
	return out
}

// FreeParameters interprets leftover tokens as --name[=value] pairs. A flag
// without an embedded value takes the following token unless that token is
// itself a long flag. Names are upper-cased; tokens that are neither flags
// nor consumed values are ignored.
func FreeParameters(tokens []string) []Binding {
	var params []Binding
	for i := 0; i < len(tokens); i++ {
		token := tokens[i]
		if !strings.HasPrefix(token, longFlag) {
			continue
		}
		body := strings.TrimPrefix(token, longFlag)
		name, value, hasValue := strings.Cut(body, "=")
		if name == "" {
			continue
		}
		if !hasValue && i+1 < len(tokens) && !strings.HasPrefix(tokens[i+1], longFlag) {
			value = tokens[i+1]
			i++
		}
		params = append(params, Binding{Key: strings.ToUpper(name), Value: value})
	}
	return params
}

func joinParameters(params []Binding) string {
	parts := make([]string, 0, len(params))
	for _, p := range params {
		parts = append(parts, p.String())
	}
	return strings.Join(parts, " ")
}

// Strings renders bindings as KEY=VALUE arguments.
func Strings(list []Binding) []string {
	out := make([]string, 0, len(list))
	for _, b := range list {
		out = append(out, b.String())
	}
	return out
}
