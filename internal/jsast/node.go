package jsast

import (
	"iter"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// tree-sitter node types shared by the javascript and typescript grammars.
const (
	NodeProgram             = "program"
	NodeStatementBlock      = "statement_block"
	NodeExpressionStatement = "expression_statement"
	NodeIfStatement         = "if_statement"
	NodeElseClause          = "else_clause"
	NodeTernary             = "ternary_expression"
	NodeBinary              = "binary_expression"
	NodeParenthesized       = "parenthesized_expression"
	NodeCall                = "call_expression"
	NodeArguments           = "arguments"
	NodeIdentifier          = "identifier"
	NodeMemberExpression    = "member_expression"
	NodeSubscript           = "subscript_expression"
	NodeString              = "string"
	NodeStringFragment      = "string_fragment"
	NodeEscapeSequence      = "escape_sequence"
	NodeVariableDeclarator  = "variable_declarator"
	NodeAssignment          = "assignment_expression"
	NodeObjectPattern       = "object_pattern"
	NodeArrayPattern        = "array_pattern"
	NodeComment             = "comment"
	NodeSwitchCase          = "switch_case"
	NodeSwitchDefault       = "switch_default"
)

// Same reports whether a and b denote the same node of one tree.
func Same(a, b *sitter.Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.StartByte() == b.StartByte() &&
		a.EndByte() == b.EndByte() &&
		a.Type() == b.Type()
}

// Walk yields every node under root in pre-order (tree order).
// The traversal uses an explicit stack.
func Walk(root *sitter.Node) iter.Seq[*sitter.Node] {
	return func(yield func(*sitter.Node) bool) {
		if root == nil {
			return
		}
		stack := []*sitter.Node{root}
		for len(stack) > 0 {
			n := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if !yield(n) {
				return
			}
			for i := int(n.NamedChildCount()) - 1; i >= 0; i-- {
				if child := n.NamedChild(i); child != nil {
					stack = append(stack, child)
				}
			}
		}
	}
}

// Unwrap strips any parentheses around n.
func Unwrap(n *sitter.Node) *sitter.Node {
	for n != nil && n.Type() == NodeParenthesized {
		inner := FirstNamed(n)
		if inner == nil {
			return n
		}
		n = inner
	}
	return n
}

// Outer returns the outermost parenthesized expression wrapping n, or n.
func Outer(n *sitter.Node) *sitter.Node {
	for n != nil {
		p := n.Parent()
		if p == nil || p.Type() != NodeParenthesized {
			return n
		}
		n = p
	}
	return n
}

// Enclosing returns the parent of n, looking through parentheses.
func Enclosing(n *sitter.Node) *sitter.Node {
	outer := Outer(n)
	if outer == nil {
		return nil
	}
	return outer.Parent()
}

// FirstNamed returns the first named child of n that is not a comment.
func FirstNamed(n *sitter.Node) *sitter.Node {
	if n == nil {
		return nil
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child != nil && child.Type() != NodeComment {
			return child
		}
	}
	return nil
}

// NamedChildren returns the named children of n, comments included.
func NamedChildren(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	children := make([]*sitter.Node, 0, n.NamedChildCount())
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if child := n.NamedChild(i); child != nil {
			children = append(children, child)
		}
	}
	return children
}

// Field is a nil-safe ChildByFieldName.
func Field(n *sitter.Node, name string) *sitter.Node {
	if n == nil {
		return nil
	}
	return n.ChildByFieldName(name)
}

// Operator returns the operator token of a binary expression.
func Operator(n *sitter.Node) string {
	if n == nil || n.Type() != NodeBinary {
		return ""
	}
	if op := n.ChildByFieldName("operator"); op != nil {
		return op.Type()
	}
	return ""
}

// IsLogical reports whether n is a `&&` or `||` binary expression.
func IsLogical(n *sitter.Node) bool {
	op := Operator(n)
	return op == "&&" || op == "||"
}

// IfAlternative returns the statement of an if-statement's else branch.
func IfAlternative(n *sitter.Node) *sitter.Node {
	alt := Field(n, "alternative")
	if alt == nil {
		return nil
	}
	if alt.Type() == NodeElseClause {
		return FirstNamed(alt)
	}
	return alt
}

// IsStatementList reports whether n holds a list of statements, so that a
// child statement can be removed or replaced by several statements.
func IsStatementList(n *sitter.Node) bool {
	if n == nil {
		return false
	}
	switch n.Type() {
	case NodeProgram, NodeStatementBlock, NodeSwitchCase, NodeSwitchDefault:
		return true
	}
	return false
}

// StringValue returns the value of a plain string literal. Template strings
// and other expressions are not resolved.
func StringValue(n *sitter.Node, src []byte) (string, bool) {
	if n == nil || n.Type() != NodeString {
		return "", false
	}
	var b strings.Builder
	for _, child := range NamedChildren(n) {
		text := string(src[child.StartByte():child.EndByte()])
		switch child.Type() {
		case NodeStringFragment:
			b.WriteString(text)
		case NodeEscapeSequence:
			b.WriteString(unescape(text))
		}
	}
	return b.String(), true
}

func unescape(seq string) string {
	if len(seq) != 2 {
		return seq
	}
	switch seq[1] {
	case 'n':
		return "\n"
	case 't':
		return "\t"
	case 'r':
		return "\r"
	case '0':
		return "\x00"
	default:
		return seq[1:]
	}
}
