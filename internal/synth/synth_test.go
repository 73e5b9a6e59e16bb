package synth

import (
	"context"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnolang/flaglint/internal/disposition"
	"github.com/gnolang/flaglint/internal/jsast"
	"github.com/gnolang/flaglint/internal/locator"
	"github.com/gnolang/flaglint/internal/registry"
)

// cleanup rewrites the single flag check in src.
func cleanup(t *testing.T, src string, strategy registry.CleanupStrategy) string {
	t.Helper()
	f, err := jsast.Parse(context.Background(), "test.js", []byte(src))
	require.NoError(t, err)

	sites := slices.Collect(locator.New(nil).Sites(f, nil))
	require.Len(t, sites, 1)

	recipe := disposition.New(nil).Resolve(f, sites[0], strategy)
	edit := Render(f, sites[0], recipe)
	require.NotNil(t, edit, "no edit for %s", recipe.Action)
	return string(edit.Apply(f.Source))
}

func TestRenderIfStatement(t *testing.T) {
	t.Parallel()
	const ifElse = `if (getFeatureFlag('f')) {
  doSomething();
} else {
  doSomethingElse();
}
`
	const ifOnly = `if (getFeatureFlag('f')) {
  doSomething();
}
`
	tests := []struct {
		name     string
		src      string
		strategy registry.CleanupStrategy
		want     string
	}{
		{"enabled keeps consequence", ifElse, registry.PreserveEnabledPath, "doSomething();\n"},
		{"disabled keeps alternative", ifElse, registry.PreserveDisabledPath, "doSomethingElse();\n"},
		{"disabled without else removes", ifOnly, registry.PreserveDisabledPath, ""},
		{"remove entirely", ifElse, registry.RemoveEntirely, ""},
		{
			name:     "unbraced body",
			src:      "if (getFeatureFlag('f')) run();\nnext();\n",
			strategy: registry.PreserveEnabledPath,
			want:     "run();\nnext();\n",
		},
		{
			name:     "empty body",
			src:      "if (getFeatureFlag('f')) {}\nnext();\n",
			strategy: registry.PreserveEnabledPath,
			want:     "next();\n",
		},
		{
			name:     "else if chain",
			src:      "if (getFeatureFlag('f')) {\n  a();\n} else if (x) {\n  b();\n}\n",
			strategy: registry.PreserveDisabledPath,
			want:     "if (x) {\n  b();\n}\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, cleanup(t, tt.src, tt.strategy))
		})
	}
}

func TestRenderMultiStatementBlock(t *testing.T) {
	t.Parallel()
	src := `function f() {
  if (getFeatureFlag('f')) {
    a();
    b();
  }
  c();
}
`
	want := `function f() {
  a();
  b();
  c();
}
`
	assert.Equal(t, want, cleanup(t, src, registry.PreserveEnabledPath))

	removed := `function f() {
  c();
}
`
	assert.Equal(t, removed, cleanup(t, src, registry.RemoveEntirely))
}

func TestRenderNestedIfPosition(t *testing.T) {
	t.Parallel()
	src := "if (x) {\n  a();\n} else if (getFeatureFlag('f')) {\n  b();\n}\n"

	assert.Equal(t, "if (x) {\n  a();\n} else {}\n", cleanup(t, src, registry.RemoveEntirely))
	assert.Equal(t, "if (x) {\n  a();\n} else {\n  b();\n}\n", cleanup(t, src, registry.PreserveEnabledPath))
}

func TestRenderConditional(t *testing.T) {
	t.Parallel()
	const src = "const v = getFeatureFlag('f') ? 'enabled' : 'disabled';"
	assert.Equal(t, "const v = 'enabled';", cleanup(t, src, registry.PreserveEnabledPath))
	assert.Equal(t, "const v = 'disabled';", cleanup(t, src, registry.PreserveDisabledPath))
	assert.Equal(t, "const v = 'disabled';", cleanup(t, src, registry.RemoveEntirely))
}

func TestRenderLogical(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		src      string
		strategy registry.CleanupStrategy
		want     string
	}{
		{"and enabled", "getFeatureFlag('f') && doSomething();\n", registry.PreserveEnabledPath, "doSomething();\n"},
		{"and removed statement", "getFeatureFlag('f') && doSomething();\n", registry.RemoveEntirely, ""},
		{"and value placeholder", "const isEnabled = getFeatureFlag('f') && compute();", registry.RemoveEntirely, "const isEnabled = false;"},
		{"and expression literal", "call(getFeatureFlag('f') && a);", registry.PreserveDisabledPath, "call(false);"},
		{"or expression literal", "call(getFeatureFlag('f') || a);", registry.PreserveEnabledPath, "call(true);"},
		{"or keeps fallback", "x = getFeatureFlag('f') || fallback;", registry.PreserveDisabledPath, "x = fallback;"},
		{"nested chain splice", "getFeatureFlag('f') && a && b;", registry.PreserveEnabledPath, "a && b;"},
		{"nested chain removed", "getFeatureFlag('f') && a && b;\nnext();\n", registry.RemoveEntirely, "next();\n"},
		{"mixed chain keeps fallback", "getFeatureFlag('f') && a || b;", registry.RemoveEntirely, "b;"},
		{"or inside and value", "const v = (getFeatureFlag('f') || b) && c;", registry.PreserveEnabledPath, "const v = c;"},
		{"or inside and value disabled", "const v = (getFeatureFlag('f') || b) && c;", registry.PreserveDisabledPath, "const v = (b) && c;"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, cleanup(t, tt.src, tt.strategy))
		})
	}
}

func TestRenderNoFix(t *testing.T) {
	t.Parallel()
	f, err := jsast.Parse(context.Background(), "test.js", []byte("const { a } = getFeatureFlag('f') && obj;"))
	require.NoError(t, err)
	sites := slices.Collect(locator.New(nil).Sites(f, nil))
	require.Len(t, sites, 1)

	recipe := disposition.New(nil).Resolve(f, sites[0], registry.RemoveEntirely)
	assert.Nil(t, Render(f, sites[0], recipe))
}

func TestRenderIsIdempotent(t *testing.T) {
	t.Parallel()
	src := "if (getFeatureFlag('f')) {\n  a();\n}\n"
	out := cleanup(t, src, registry.PreserveEnabledPath)

	f, err := jsast.Parse(context.Background(), "test.js", []byte(out))
	require.NoError(t, err)
	assert.Empty(t, slices.Collect(locator.New(nil).Sites(f, nil)))
}

func TestRemovalRange(t *testing.T) {
	t.Parallel()
	src := []byte("a;\n  b;\nc;")
	start, end := RemovalRange(src, 5, 7)
	assert.Equal(t, 3, start)
	assert.Equal(t, 8, end)

	src = []byte("a; b;")
	start, end = RemovalRange(src, 3, 5)
	assert.Equal(t, 3, start)
	assert.Equal(t, 5, end)
}

func TestReindent(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "{\n  a();\n}", Reindent("{\n    a();\n  }", "  ", ""))
	assert.Equal(t, "single", Reindent("single", "  ", ""))
}

func TestCommonIndent(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "  ", CommonIndent([]string{"    a", "  b", "", "   c"}))
	assert.Equal(t, "", CommonIndent([]string{"a", "  b"}))
}
