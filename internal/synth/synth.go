// Package synth renders a disposition recipe into a text edit of the
// original source.
package synth

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/gnolang/flaglint/internal/disposition"
	"github.com/gnolang/flaglint/internal/jsast"
	"github.com/gnolang/flaglint/internal/locator"
	tt "github.com/gnolang/flaglint/internal/types"
)

// emptyBlock replaces a statement that cannot simply disappear because its
// parent requires one (an else branch, a brace-less loop body, ...).
const emptyBlock = "{}"

// Render produces the edit for site according to recipe, or nil when the
// recipe has no fix.
func Render(file *jsast.File, site locator.UsageSite, recipe disposition.Recipe) *tt.Edit {
	node := site.Node
	switch recipe.Action {
	case disposition.ReplaceWithSubtree:
		if recipe.Subtree == nil {
			return nil
		}
		if recipe.Splice != nil {
			return splice(file, node, recipe.Splice, recipe.Subtree)
		}
		if site.Kind == locator.IfStatement {
			return replaceStatement(file, node, recipe.Subtree)
		}
		return replace(node, file.Text(recipe.Subtree))

	case disposition.ReplaceWithLiteral:
		return replace(node, recipe.Literal)

	case disposition.RemoveNode:
		return removeStatement(file, node)

	case disposition.RemoveStatement:
		stmt := jsast.Enclosing(node)
		if stmt == nil || stmt.Type() != jsast.NodeExpressionStatement {
			return nil
		}
		return removeStatement(file, stmt)
	}
	return nil
}

func replace(n *sitter.Node, text string) *tt.Edit {
	return &tt.Edit{Start: int(n.StartByte()), End: int(n.EndByte()), Text: text}
}

// splice keeps node's text but substitutes inner's range with survivor's text.
func splice(file *jsast.File, node, inner, survivor *sitter.Node) *tt.Edit {
	src := file.Source
	var b strings.Builder
	b.Write(src[node.StartByte():inner.StartByte()])
	b.WriteString(file.Text(survivor))
	b.Write(src[inner.EndByte():node.EndByte()])
	return replace(node, b.String())
}

// replaceStatement replaces the statement stmt by the surviving branch body.
func replaceStatement(file *jsast.File, stmt, body *sitter.Node) *tt.Edit {
	indent := file.LineIndent(int(stmt.StartByte()))
	inList := jsast.IsStatementList(stmt.Parent())

	if body.Type() != jsast.NodeStatementBlock {
		from := file.LineIndent(int(body.StartByte()))
		return replace(stmt, Reindent(file.Text(body), from, indent))
	}

	children := jsast.NamedChildren(body)
	switch {
	case len(children) == 0:
		return removeStatement(file, stmt)
	case !inList:
		// The parent needs exactly one statement: keep the block itself.
		from := file.LineIndent(int(body.StartByte()))
		return replace(stmt, Reindent(file.Text(body), from, indent))
	case len(children) == 1 && children[0].Type() != jsast.NodeComment:
		only := children[0]
		from := file.LineIndent(int(only.StartByte()))
		return replace(stmt, Reindent(file.Text(only), from, indent))
	}
	return replace(stmt, BlockContent(file.Source, body, indent))
}

// removeStatement deletes stmt, swallowing its whole line(s) when nothing
// else shares them.
func removeStatement(file *jsast.File, stmt *sitter.Node) *tt.Edit {
	if !jsast.IsStatementList(stmt.Parent()) {
		return replace(stmt, emptyBlock)
	}
	start, end := RemovalRange(file.Source, int(stmt.StartByte()), int(stmt.EndByte()))
	return &tt.Edit{Start: start, End: end}
}

// RemovalRange widens [start, end) to full lines when only whitespace
// surrounds it on its first and last line.
func RemovalRange(src []byte, start, end int) (int, int) {
	lineStart := jsast.LineStart(src, start)
	for i := lineStart; i < start; i++ {
		if !isBlank(src[i]) {
			return start, end
		}
	}

	after := end
	for after < len(src) && isBlank(src[after]) {
		after++
	}
	if after < len(src) && src[after] == '\r' {
		after++
	}
	switch {
	case after == len(src):
	case src[after] == '\n':
		after++
	default:
		return start, end
	}
	return lineStart, after
}

func isBlank(c byte) bool {
	return c == ' ' || c == '\t'
}
