package disposition

import (
	"context"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnolang/flaglint/internal/jsast"
	"github.com/gnolang/flaglint/internal/locator"
	"github.com/gnolang/flaglint/internal/registry"
)

func resolve(t *testing.T, src string, strategy registry.CleanupStrategy) (*jsast.File, Recipe) {
	t.Helper()
	f, err := jsast.Parse(context.Background(), "test.js", []byte(src))
	require.NoError(t, err)
	got := slices.Collect(locator.New(nil).Sites(f, nil))
	require.Len(t, got, 1)
	return f, New(nil).Resolve(f, got[0], strategy)
}

func TestResolveIf(t *testing.T) {
	t.Parallel()
	const withElse = "if (getFeatureFlag('f')) { a(); } else { b(); }"
	const withoutElse = "if (getFeatureFlag('f')) { a(); }"

	f, r := resolve(t, withElse, registry.PreserveEnabledPath)
	assert.Equal(t, ReplaceWithSubtree, r.Action)
	assert.Equal(t, "{ a(); }", f.Text(r.Subtree))

	f, r = resolve(t, withElse, registry.PreserveDisabledPath)
	assert.Equal(t, ReplaceWithSubtree, r.Action)
	assert.Equal(t, "{ b(); }", f.Text(r.Subtree))

	_, r = resolve(t, withoutElse, registry.PreserveDisabledPath)
	assert.Equal(t, RemoveNode, r.Action)

	_, r = resolve(t, withElse, registry.RemoveEntirely)
	assert.Equal(t, RemoveNode, r.Action)
	assert.Equal(t, ConfidenceExact, r.Confidence)
}

func TestResolveConditional(t *testing.T) {
	t.Parallel()
	const src = "const v = getFeatureFlag('f') ? 'on' : 'off';"

	f, r := resolve(t, src, registry.PreserveEnabledPath)
	assert.Equal(t, "'on'", f.Text(r.Subtree))

	f, r = resolve(t, src, registry.PreserveDisabledPath)
	assert.Equal(t, "'off'", f.Text(r.Subtree))

	f, r = resolve(t, src, registry.RemoveEntirely)
	assert.Equal(t, "'off'", f.Text(r.Subtree))
}

func TestResolveLogical(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name       string
		src        string
		strategy   registry.CleanupStrategy
		action     Action
		text       string // subtree text or literal
		confidence float64
	}{
		{"and enabled statement", "getFeatureFlag('f') && run();", registry.PreserveEnabledPath, ReplaceWithSubtree, "run()", ConfidenceExact},
		{"and disabled statement", "getFeatureFlag('f') && run();", registry.PreserveDisabledPath, RemoveStatement, "", ConfidenceExact},
		{"and remove statement", "getFeatureFlag('f') && run();", registry.RemoveEntirely, RemoveStatement, "", ConfidenceExact},
		{"and disabled value", "const isEnabled = getFeatureFlag('f') && compute();", registry.PreserveDisabledPath, ReplaceWithLiteral, "false", ConfidenceHeuristic},
		{"and disabled value theme", "const theme = getFeatureFlag('f') && 'dark';", registry.RemoveEntirely, ReplaceWithLiteral, "'light'", ConfidenceHeuristic},
		{"and disabled expression", "call(getFeatureFlag('f') && a);", registry.PreserveDisabledPath, ReplaceWithLiteral, "false", ConfidenceExact},
		{"or enabled statement", "getFeatureFlag('f') || run();", registry.PreserveEnabledPath, RemoveStatement, "", ConfidenceExact},
		{"or enabled expression", "call(getFeatureFlag('f') || a);", registry.PreserveEnabledPath, ReplaceWithLiteral, "true", ConfidenceExact},
		{"or enabled value", "x = getFeatureFlag('f') || fallback;", registry.PreserveEnabledPath, ReplaceWithSubtree, "fallback", ConfidenceExact},
		{"or disabled", "x = getFeatureFlag('f') || fallback;", registry.PreserveDisabledPath, ReplaceWithSubtree, "fallback", ConfidenceExact},
		{"or remove", "getFeatureFlag('f') || run();", registry.RemoveEntirely, ReplaceWithSubtree, "run()", ConfidenceExact},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f, r := resolve(t, tt.src, tt.strategy)
			assert.Equal(t, tt.action, r.Action, r.Action.String())
			assert.Equal(t, tt.confidence, r.Confidence)
			switch r.Action {
			case ReplaceWithSubtree:
				assert.Equal(t, tt.text, f.Text(r.Subtree))
			case ReplaceWithLiteral:
				assert.Equal(t, tt.text, r.Literal)
			}
		})
	}
}

func TestResolveNestedChain(t *testing.T) {
	t.Parallel()

	f, r := resolve(t, "getFeatureFlag('f') && a && b;", registry.PreserveEnabledPath)
	assert.Equal(t, ReplaceWithSubtree, r.Action)
	assert.Equal(t, "a", f.Text(r.Subtree))
	require.NotNil(t, r.Splice)
	assert.Equal(t, "getFeatureFlag('f') && a", f.Text(r.Splice))

	_, r = resolve(t, "getFeatureFlag('f') && a && b;", registry.RemoveEntirely)
	assert.Equal(t, RemoveStatement, r.Action)

	f, r = resolve(t, "getFeatureFlag('f') && a || b;", registry.RemoveEntirely)
	assert.Equal(t, ReplaceWithSubtree, r.Action)
	assert.Equal(t, "b", f.Text(r.Subtree))
	assert.Nil(t, r.Splice)

	f, r = resolve(t, "getFeatureFlag('f') && a || b && c;", registry.RemoveEntirely)
	assert.Equal(t, ReplaceWithSubtree, r.Action)
	assert.Equal(t, "b && c", f.Text(r.Subtree))
}

func TestResolveNestedChainValueContext(t *testing.T) {
	t.Parallel()

	// The fallback rule of a value read through `||` does not apply to an
	// inner operand: the flag decides the `||`, which then feeds the `&&`.
	f, r := resolve(t, "const v = (getFeatureFlag('f') || b) && c;", registry.PreserveEnabledPath)
	assert.Equal(t, ReplaceWithSubtree, r.Action)
	assert.Equal(t, "c", f.Text(r.Subtree))
	assert.Nil(t, r.Splice)

	f, r = resolve(t, "const v = (getFeatureFlag('f') || b) && c;", registry.PreserveDisabledPath)
	assert.Equal(t, ReplaceWithSubtree, r.Action)
	assert.Equal(t, "b", f.Text(r.Subtree))
	require.NotNil(t, r.Splice)
	assert.Equal(t, "getFeatureFlag('f') || b", f.Text(r.Splice))

	_, r = resolve(t, "const v = getFeatureFlag('f') || a || b;", registry.PreserveEnabledPath)
	assert.Equal(t, ReplaceWithLiteral, r.Action)
	assert.Equal(t, "true", r.Literal)
	assert.Equal(t, ConfidenceExact, r.Confidence)
}

func TestResolveDestructuringTarget(t *testing.T) {
	t.Parallel()

	_, r := resolve(t, "const { a } = getFeatureFlag('f') && obj;", registry.RemoveEntirely)
	assert.Equal(t, NoFix, r.Action)

	_, r = resolve(t, "[x, y] = getFeatureFlag('f') && pair;", registry.RemoveEntirely)
	assert.Equal(t, NoFix, r.Action)

	f, r := resolve(t, "const { a } = getFeatureFlag('f') && obj;", registry.PreserveEnabledPath)
	assert.Equal(t, ReplaceWithSubtree, r.Action)
	assert.Equal(t, "obj", f.Text(r.Subtree))
}

func TestActionString(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "no-fix", NoFix.String())
	assert.Equal(t, "remove-enclosing-statement", RemoveStatement.String())
	assert.Equal(t, "unknown", Action(99).String())
}
