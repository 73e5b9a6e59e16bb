package disposition

import (
	"fmt"
	"regexp"
	"strings"
)

// PlaceholderHint carries what is known about a value that has to be
// synthesised for a short-circuited logical AND in a value context.
type PlaceholderHint struct {
	// Variable is the name of the variable or property receiving the value.
	Variable string
	// Operand is the source text of the right operand that no longer runs.
	Operand string
}

// PlaceholderPolicy returns the literal substituted for a removed value.
type PlaceholderPolicy func(PlaceholderHint) string

// Placeholder policy names accepted in configuration.
const (
	PolicyNameHints    = "name-hints"
	PolicyOperandShape = "operand-shape"
)

var nameHints = []struct {
	needles []string
	literal string
}{
	{[]string{"theme"}, "'light'"},
	{[]string{"enabled", "active"}, "false"},
	{[]string{"count", "index"}, "0"},
}

// NameHints guesses a literal from the receiving variable's name. The first
// matching hint wins, so "enabledCount" yields false. This is a heuristic and
// not type-directed.
func NameHints(h PlaceholderHint) string {
	name := strings.ToLower(h.Variable)
	if name != "" {
		for _, hint := range nameHints {
			for _, needle := range hint.needles {
				if strings.Contains(name, needle) {
					return hint.literal
				}
			}
		}
	}
	return "''"
}

var (
	booleanOperand = regexp.MustCompile(`^(true|false)$`)
	stringOperand  = regexp.MustCompile("^(['\"`]).*['\"`]$")
	numberOperand  = regexp.MustCompile(`^\d+$`)
)

// OperandShape picks a zero value matching the literal kind of the right
// operand, and false when the operand is not a literal.
func OperandShape(h PlaceholderHint) string {
	operand := strings.TrimSpace(h.Operand)
	switch {
	case booleanOperand.MatchString(operand):
		return "false"
	case stringOperand.MatchString(operand) && operand[0] == operand[len(operand)-1]:
		return "''"
	case numberOperand.MatchString(operand):
		return "0"
	}
	return "false"
}

// PolicyByName returns the placeholder policy registered under name.
// The empty name selects NameHints.
func PolicyByName(name string) (PlaceholderPolicy, error) {
	switch name {
	case "", PolicyNameHints:
		return NameHints, nil
	case PolicyOperandShape:
		return OperandShape, nil
	}
	return nil, fmt.Errorf("unknown placeholder policy %q", name)
}
