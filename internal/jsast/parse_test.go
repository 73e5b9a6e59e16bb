package jsast

import (
	"context"
	"testing"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, name, src string) *File {
	t.Helper()
	f, err := Parse(context.Background(), name, []byte(src))
	require.NoError(t, err)
	return f
}

func TestLanguageFor(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		lang Language
		ok   bool
	}{
		{"app.js", JavaScript, true},
		{"App.JSX", JavaScript, true},
		{"lib.mjs", JavaScript, true},
		{"service.ts", TypeScript, true},
		{"view.tsx", TSX, true},
		{"main.go", "", false},
		{"README", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lang, ok := LanguageFor(tt.name)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.lang, lang)
			assert.Equal(t, tt.ok, Supported(tt.name))
		})
	}
}

func TestParseUnsupported(t *testing.T) {
	t.Parallel()
	_, err := Parse(context.Background(), "main.go", []byte("package main"))
	assert.ErrorIs(t, err, ErrUnsupportedLanguage)
}

func TestParseEmptyNameIsJavaScript(t *testing.T) {
	t.Parallel()
	f := parse(t, "", "const a = 1;")
	assert.Equal(t, JavaScript, f.Lang)
	assert.False(t, f.HasSyntaxError())
}

func TestParseTypeScript(t *testing.T) {
	t.Parallel()
	f := parse(t, "a.ts", "const a: number = 1;\n")
	assert.False(t, f.HasSyntaxError())

	f = parse(t, "a.tsx", "const el = <div>{x}</div>;\n")
	assert.False(t, f.HasSyntaxError())
}

func TestHasSyntaxError(t *testing.T) {
	t.Parallel()
	f := parse(t, "a.js", "if (x { y(); }")
	assert.True(t, f.HasSyntaxError())
}

func TestPosition(t *testing.T) {
	t.Parallel()
	src := "let a;\n  foo();\n"
	f := parse(t, "a.js", src)

	var call *sitter.Node
	for n := range Walk(f.Root) {
		if n.Type() == NodeCall {
			call = n
			break
		}
	}
	require.NotNil(t, call)

	start, end := f.Position(call)
	assert.Equal(t, 2, start.Line)
	assert.Equal(t, 3, start.Column)
	assert.Equal(t, 9, start.Offset)
	assert.Equal(t, 2, end.Line)
	assert.Equal(t, 8, end.Column)
	assert.Equal(t, "foo()", f.Text(call))
	assert.Equal(t, "  ", f.LineIndent(start.Offset))
}

func TestLineStart(t *testing.T) {
	t.Parallel()
	src := []byte("ab\n\tcd\n")
	assert.Equal(t, 0, LineStart(src, 1))
	assert.Equal(t, 3, LineStart(src, 5))
	assert.Equal(t, "\t", LineIndent(src, 5))
}
