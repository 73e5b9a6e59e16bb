// Package disposition decides, for a usage site and a cleanup strategy, which
// part of the flag check survives the cleanup.
package disposition

import (
	"strconv"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/gnolang/flaglint/internal/jsast"
	"github.com/gnolang/flaglint/internal/locator"
	"github.com/gnolang/flaglint/internal/registry"
)

// Action is what the synthesizer does with the reported node.
type Action int

const (
	// NoFix: the shape is not supported; the site is reported without a fix.
	NoFix Action = iota
	ReplaceWithSubtree
	ReplaceWithLiteral
	RemoveNode
	RemoveStatement
)

func (a Action) String() string {
	switch a {
	case NoFix:
		return "no-fix"
	case ReplaceWithSubtree:
		return "replace-with-subtree-text"
	case ReplaceWithLiteral:
		return "replace-with-literal"
	case RemoveNode:
		return "remove-node"
	case RemoveStatement:
		return "remove-enclosing-statement"
	}
	return "unknown"
}

// Confidence levels attached to recipes.
const (
	ConfidenceExact     = 1.0
	ConfidenceHeuristic = 0.5
)

// Recipe is the resolved transformation of one usage site.
type Recipe struct {
	Action Action

	// Subtree is the surviving node for ReplaceWithSubtree.
	Subtree *sitter.Node
	// Splice, when set, is the node inside the reported node whose range is
	// replaced by Subtree; the rest of the reported node is kept.
	Splice *sitter.Node

	// Literal is the replacement for ReplaceWithLiteral.
	Literal string

	Confidence float64
}

// Resolver maps (strategy, construct, context) to a Recipe.
type Resolver struct {
	placeholder PlaceholderPolicy
}

// New creates a Resolver. A nil policy selects NameHints.
func New(policy PlaceholderPolicy) *Resolver {
	if policy == nil {
		policy = NameHints
	}
	return &Resolver{placeholder: policy}
}

// Resolve computes the recipe for site under strategy.
func (r *Resolver) Resolve(file *jsast.File, site locator.UsageSite, strategy registry.CleanupStrategy) Recipe {
	switch site.Kind {
	case locator.IfStatement:
		return resolveIf(site, strategy)
	case locator.ConditionalExpression:
		return resolveConditional(site, strategy)
	case locator.LogicalAnd, locator.LogicalOr:
		return r.resolveLogical(file, site, strategy)
	}
	return Recipe{Action: NoFix}
}

func resolveIf(site locator.UsageSite, strategy registry.CleanupStrategy) Recipe {
	switch strategy {
	case registry.PreserveEnabledPath:
		return subtree(jsast.Field(site.Node, "consequence"))
	case registry.PreserveDisabledPath:
		if alt := jsast.IfAlternative(site.Node); alt != nil {
			return subtree(alt)
		}
		return Recipe{Action: RemoveNode, Confidence: ConfidenceExact}
	case registry.RemoveEntirely:
		return Recipe{Action: RemoveNode, Confidence: ConfidenceExact}
	}
	return Recipe{Action: NoFix}
}

func resolveConditional(site locator.UsageSite, strategy registry.CleanupStrategy) Recipe {
	switch strategy {
	case registry.PreserveEnabledPath:
		return subtree(jsast.Field(site.Node, "consequence"))
	case registry.PreserveDisabledPath, registry.RemoveEntirely:
		return subtree(jsast.Field(site.Node, "alternative"))
	}
	return Recipe{Action: NoFix}
}

func (r *Resolver) resolveLogical(file *jsast.File, site locator.UsageSite, strategy registry.CleanupStrategy) Recipe {
	right := jsast.Field(site.Operand, "right")
	if right == nil {
		return Recipe{Action: NoFix}
	}

	// A value read through `||` keeps its fallback even when the flag is
	// enabled. This only holds for the reported node itself.
	if !site.Nested() && site.Kind == locator.LogicalOr &&
		strategy == registry.PreserveEnabledPath && site.Context == locator.ValueContext {
		return subtree(right)
	}

	// Fold the flag's value up the left spine. A level either reduces to its
	// right operand, which ends the fold, or short-circuits and passes its
	// value to the next level.
	value := strategy == registry.PreserveEnabledPath
	for i := len(site.Spine) - 1; i >= 0; i-- {
		level := site.Spine[i]
		and := jsast.Operator(level) == "&&"
		if and != value {
			continue
		}
		recipe := subtree(jsast.Field(level, "right"))
		if i > 0 && recipe.Action != NoFix {
			recipe.Splice = level
		}
		return recipe
	}
	return r.constant(file, site, right, value)
}

// constant is the recipe for a chain that evaluates to value without
// running any of its right operands.
func (r *Resolver) constant(file *jsast.File, site locator.UsageSite, right *sitter.Node, value bool) Recipe {
	switch site.Context {
	case locator.StatementContext:
		return Recipe{Action: RemoveStatement, Confidence: ConfidenceExact}
	case locator.ValueContext:
		if value {
			return Recipe{Action: ReplaceWithLiteral, Literal: "true", Confidence: ConfidenceExact}
		}
		// The flag's falsy value must still produce something the variable
		// can hold. Destructuring patterns have no single name to guess from.
		if destructures(site.Target) {
			return Recipe{Action: NoFix}
		}
		literal := r.placeholder(PlaceholderHint{
			Variable: targetName(file, site.Target),
			Operand:  file.Text(jsast.Unwrap(right)),
		})
		return Recipe{Action: ReplaceWithLiteral, Literal: literal, Confidence: ConfidenceHeuristic}
	}
	return Recipe{Action: ReplaceWithLiteral, Literal: strconv.FormatBool(value), Confidence: ConfidenceExact}
}

func subtree(n *sitter.Node) Recipe {
	if n == nil {
		return Recipe{Action: NoFix}
	}
	return Recipe{Action: ReplaceWithSubtree, Subtree: n, Confidence: ConfidenceExact}
}

// targetName returns the name receiving the value of a declarator or
// assignment: the identifier, or the property of a member expression.
func targetName(file *jsast.File, target *sitter.Node) string {
	lhs := targetLHS(target)
	if lhs == nil {
		return ""
	}
	switch lhs.Type() {
	case jsast.NodeIdentifier:
		return file.Text(lhs)
	case jsast.NodeMemberExpression:
		return file.Text(jsast.Field(lhs, "property"))
	}
	return ""
}

func targetLHS(target *sitter.Node) *sitter.Node {
	switch {
	case target == nil:
		return nil
	case target.Type() == jsast.NodeVariableDeclarator:
		return jsast.Field(target, "name")
	case target.Type() == jsast.NodeAssignment:
		return jsast.Unwrap(jsast.Field(target, "left"))
	}
	return nil
}

func destructures(target *sitter.Node) bool {
	lhs := targetLHS(target)
	if lhs == nil {
		return false
	}
	t := lhs.Type()
	return t == jsast.NodeObjectPattern || t == jsast.NodeArrayPattern
}
