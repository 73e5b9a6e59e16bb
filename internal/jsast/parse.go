// Package jsast parses JavaScript and TypeScript sources with tree-sitter and
// provides the small set of node helpers the flag rules are written against.
package jsast

import (
	"context"
	"errors"
	"fmt"
	"go/token"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// ErrUnsupportedLanguage is returned for files whose extension has no grammar.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// Language identifies the grammar a file is parsed with.
type Language string

const (
	JavaScript Language = "javascript"
	TypeScript Language = "typescript"
	TSX        Language = "tsx"
)

var extensions = map[string]Language{
	".js":  JavaScript,
	".jsx": JavaScript,
	".mjs": JavaScript,
	".cjs": JavaScript,
	".ts":  TypeScript,
	".mts": TypeScript,
	".cts": TypeScript,
	".tsx": TSX,
}

// LanguageFor returns the language for a file name.
func LanguageFor(filename string) (Language, bool) {
	lang, ok := extensions[strings.ToLower(filepath.Ext(filename))]
	return lang, ok
}

// Supported reports whether the file can be parsed.
func Supported(filename string) bool {
	_, ok := LanguageFor(filename)
	return ok
}

func (l Language) grammar() *sitter.Language {
	switch l {
	case TypeScript:
		return typescript.GetLanguage()
	case TSX:
		return tsx.GetLanguage()
	default:
		return javascript.GetLanguage()
	}
}

// File is a parsed source file. Source and Tree are never modified after
// parsing, so nodes and text taken from them stay valid for the life of File.
type File struct {
	Name   string
	Lang   Language
	Source []byte
	Tree   *sitter.Tree
	Root   *sitter.Node
}

// Parse parses src with the grammar chosen by filename's extension.
// An empty filename (in-memory sources) is parsed as JavaScript.
func Parse(ctx context.Context, filename string, src []byte) (*File, error) {
	lang, ok := LanguageFor(filename)
	if !ok {
		if filename != "" {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, filename)
		}
		lang = JavaScript
	}
	return ParseAs(ctx, lang, filename, src)
}

// ParseAs parses src with an explicit language.
func ParseAs(ctx context.Context, lang Language, filename string, src []byte) (*File, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(lang.grammar())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("tree-sitter parse failed: %w", err)
	}

	return &File{
		Name:   filename,
		Lang:   lang,
		Source: src,
		Tree:   tree,
		Root:   tree.RootNode(),
	}, nil
}

// HasSyntaxError reports whether the tree contains error or missing nodes.
func (f *File) HasSyntaxError() bool {
	return f.Root == nil || f.Root.HasError()
}

// Text returns the source text of n.
func (f *File) Text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return string(f.Source[n.StartByte():n.EndByte()])
}

// Position converts the start and end of n into token positions.
func (f *File) Position(n *sitter.Node) (token.Position, token.Position) {
	sp, ep := n.StartPoint(), n.EndPoint()
	start := token.Position{
		Filename: f.Name,
		Offset:   int(n.StartByte()),
		Line:     int(sp.Row) + 1,
		Column:   int(sp.Column) + 1,
	}
	end := token.Position{
		Filename: f.Name,
		Offset:   int(n.EndByte()),
		Line:     int(ep.Row) + 1,
		Column:   int(ep.Column) + 1,
	}
	return start, end
}

// LineIndent returns the leading whitespace of the line containing offset.
func (f *File) LineIndent(offset int) string {
	return LineIndent(f.Source, offset)
}

// LineIndent returns the leading whitespace of the line of src containing offset.
func LineIndent(src []byte, offset int) string {
	start := LineStart(src, offset)
	end := start
	for end < len(src) && (src[end] == ' ' || src[end] == '\t') {
		end++
	}
	return string(src[start:end])
}

// LineStart returns the offset of the first byte of the line containing offset.
func LineStart(src []byte, offset int) int {
	for offset > 0 && src[offset-1] != '\n' {
		offset--
	}
	return offset
}
