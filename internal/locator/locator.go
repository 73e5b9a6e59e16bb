// Package locator finds feature-flag accessor calls in a syntax tree and
// classifies the construct each one is tested in.
package locator

import (
	"iter"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/gnolang/flaglint/internal/jsast"
)

// DefaultAccessor is used when no accessor identifiers are configured.
const DefaultAccessor = "getFeatureFlag"

// Locator detects accessor calls by callee name.
type Locator struct {
	identifiers map[string]struct{}
}

// New creates a Locator for the given accessor function names.
func New(identifiers []string) *Locator {
	if len(identifiers) == 0 {
		identifiers = []string{DefaultAccessor}
	}
	l := &Locator{identifiers: make(map[string]struct{}, len(identifiers))}
	for _, id := range identifiers {
		l.identifiers[id] = struct{}{}
	}
	return l
}

// Call resolves n as an accessor call. Calls whose first argument is not a
// string literal are never resolved.
func (l *Locator) Call(file *jsast.File, n *sitter.Node) (Call, bool) {
	if n == nil || n.Type() != jsast.NodeCall {
		return Call{}, false
	}
	fn := jsast.Field(n, "function")
	if fn == nil || fn.Type() != jsast.NodeIdentifier {
		return Call{}, false
	}
	name := file.Text(fn)
	if _, ok := l.identifiers[name]; !ok {
		return Call{}, false
	}
	arg := jsast.FirstNamed(jsast.Field(n, "arguments"))
	flag, ok := jsast.StringValue(arg, file.Source)
	if !ok {
		return Call{}, false
	}
	return Call{Node: n, Accessor: name, Flag: flag}, true
}

// Calls yields every resolvable accessor call in tree order.
func (l *Locator) Calls(file *jsast.File) iter.Seq[Call] {
	return func(yield func(Call) bool) {
		for n := range jsast.Walk(file.Root) {
			if call, ok := l.Call(file, n); ok {
				if !yield(call) {
					return
				}
			}
		}
	}
}

// claim records a reported site so that nested checks overlapping it are
// not reported again.
type claim struct {
	start, end uint32
	flag       string
	right      *sitter.Node // right operand of a reported logical expression
}

func (c claim) contains(n *sitter.Node) bool {
	return c.start <= n.StartByte() && n.EndByte() <= c.end
}

// Sites yields the usage sites under file's root in tree order. Only calls
// whose flag satisfies qualifies are considered. The sequence performs a
// fresh walk each time it is ranged over.
func (l *Locator) Sites(file *jsast.File, qualifies func(flag string) bool) iter.Seq[UsageSite] {
	return func(yield func(UsageSite) bool) {
		var claims []claim
		for n := range jsast.Walk(file.Root) {
			for len(claims) > 0 && claims[len(claims)-1].end <= n.StartByte() {
				claims = claims[:len(claims)-1]
			}

			site, ok := l.classify(file, n, qualifies)
			if !ok || overlapsClaim(claims, site) {
				continue
			}

			c := claim{start: n.StartByte(), end: n.EndByte(), flag: site.Flag}
			if site.Kind == LogicalAnd || site.Kind == LogicalOr {
				c.right = jsast.Field(site.Node, "right")
			}
			claims = append(claims, c)

			if !yield(site) {
				return
			}
		}
	}
}

func overlapsClaim(claims []claim, site UsageSite) bool {
	logical := site.Kind == LogicalAnd || site.Kind == LogicalOr
	for _, c := range claims {
		if !c.contains(site.Node) {
			continue
		}
		if c.flag == site.Flag {
			return true
		}
		if logical && c.right != nil &&
			c.right.StartByte() <= site.Node.StartByte() && site.Node.EndByte() <= c.right.EndByte() {
			return true
		}
	}
	return false
}

func (l *Locator) classify(file *jsast.File, n *sitter.Node, qualifies func(string) bool) (UsageSite, bool) {
	switch n.Type() {
	case jsast.NodeIfStatement:
		call, ok := l.qualifyingCall(file, jsast.Field(n, "condition"), qualifies)
		if !ok {
			return UsageSite{}, false
		}
		return UsageSite{
			Call:    call,
			Flag:    call.Flag,
			Kind:    IfStatement,
			Node:    n,
			Operand: n,
			Spine:   []*sitter.Node{n},
			Context: StatementContext,
		}, true

	case jsast.NodeTernary:
		call, ok := l.qualifyingCall(file, jsast.Field(n, "condition"), qualifies)
		if !ok {
			return UsageSite{}, false
		}
		site := UsageSite{
			Call:    call,
			Flag:    call.Flag,
			Kind:    ConditionalExpression,
			Node:    n,
			Operand: n,
			Spine:   []*sitter.Node{n},
		}
		site.Context, site.Target = valueContext(n)
		return site, true

	case jsast.NodeBinary:
		if !jsast.IsLogical(n) {
			return UsageSite{}, false
		}
		// The outermost expression of a chain reports for the whole chain.
		if parent := jsast.Enclosing(n); jsast.IsLogical(parent) &&
			jsast.Same(jsast.Unwrap(jsast.Field(parent, "left")), n) {
			return UsageSite{}, false
		}
		return l.classifyChain(file, n, qualifies)
	}
	return UsageSite{}, false
}

// classifyChain walks the left spine of a logical chain until it reaches an
// accessor call.
func (l *Locator) classifyChain(file *jsast.File, n *sitter.Node, qualifies func(string) bool) (UsageSite, bool) {
	var spine []*sitter.Node
	cur := n
	for {
		spine = append(spine, cur)
		left := jsast.Unwrap(jsast.Field(cur, "left"))
		if call, ok := l.qualifyingCall(file, left, qualifies); ok {
			kind := LogicalAnd
			if jsast.Operator(cur) == "||" {
				kind = LogicalOr
			}
			site := UsageSite{
				Call:    call,
				Flag:    call.Flag,
				Kind:    kind,
				Node:    n,
				Operand: cur,
				Spine:   spine,
			}
			site.Context, site.Target = valueContext(n)
			return site, true
		}
		if !jsast.IsLogical(left) {
			return UsageSite{}, false
		}
		cur = left
	}
}

func (l *Locator) qualifyingCall(file *jsast.File, test *sitter.Node, qualifies func(string) bool) (Call, bool) {
	call, ok := l.Call(file, jsast.Unwrap(test))
	if !ok {
		return Call{}, false
	}
	if qualifies != nil && !qualifies(call.Flag) {
		return Call{}, false
	}
	return call, true
}

// valueContext classifies where the value of expression n flows.
func valueContext(n *sitter.Node) (Context, *sitter.Node) {
	parent := jsast.Enclosing(n)
	if parent == nil {
		return ExpressionContext, nil
	}
	switch parent.Type() {
	case jsast.NodeVariableDeclarator:
		if jsast.Same(jsast.Unwrap(jsast.Field(parent, "value")), n) {
			return ValueContext, parent
		}
	case jsast.NodeAssignment:
		if jsast.Same(jsast.Unwrap(jsast.Field(parent, "right")), n) {
			return ValueContext, parent
		}
	case jsast.NodeExpressionStatement:
		return StatementContext, nil
	}
	return ExpressionContext, nil
}
