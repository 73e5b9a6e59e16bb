package locator

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// ConstructKind is the syntactic construct a flag check sits in.
type ConstructKind int

const (
	IfStatement ConstructKind = iota
	ConditionalExpression
	LogicalAnd
	LogicalOr
)

func (k ConstructKind) String() string {
	switch k {
	case IfStatement:
		return "IfStatement"
	case ConditionalExpression:
		return "ConditionalExpression"
	case LogicalAnd:
		return "LogicalAnd"
	case LogicalOr:
		return "LogicalOr"
	}
	return "Unknown"
}

// Context describes where the reported node's value goes.
type Context int

const (
	// StatementContext: the node is a statement or the whole expression of
	// an expression statement; its value is discarded.
	StatementContext Context = iota
	// ValueContext: the node initialises a variable or is the right-hand
	// side of an assignment.
	ValueContext
	// ExpressionContext: the node is nested in some other expression
	// (a condition, an argument, a return value, ...).
	ExpressionContext
)

func (c Context) String() string {
	switch c {
	case StatementContext:
		return "statement"
	case ValueContext:
		return "value"
	case ExpressionContext:
		return "expression"
	}
	return "unknown"
}

// Call is an accessor invocation whose first argument is a string literal.
type Call struct {
	Node     *sitter.Node
	Accessor string
	Flag     string
}

// UsageSite is one classified flag check.
type UsageSite struct {
	Call Call
	Flag string
	Kind ConstructKind

	// Node is the reported node; its range is the range of the edit.
	Node *sitter.Node

	// Operand is the construct that tests the flag call directly. It equals
	// Node unless the check is at the bottom of a logical chain, in which case
	// Spine lists the logical expressions from Node down to Operand.
	Operand *sitter.Node
	Spine   []*sitter.Node

	Context Context

	// Target is the variable declarator or assignment receiving the value
	// when Context is ValueContext.
	Target *sitter.Node
}

// Nested reports whether the flag check sits below the reported node.
func (s UsageSite) Nested() bool {
	return len(s.Spine) > 1
}
