package synth

import (
	"strings"
	"unicode"

	sitter "github.com/smacker/go-tree-sitter"
)

// Reindent rebases every line after the first from indentation `from` to
// `to`. The first line is placed by the caller. Lines that are not indented
// by `from` are left alone.
func Reindent(text, from, to string) string {
	if from == to || !strings.Contains(text, "\n") {
		return text
	}
	lines := strings.Split(text, "\n")
	for i := 1; i < len(lines); i++ {
		line := lines[i]
		switch {
		case strings.TrimSpace(line) == "":
			lines[i] = ""
		case strings.HasPrefix(line, from):
			lines[i] = to + line[len(from):]
		}
	}
	return strings.Join(lines, "\n")
}

// BlockContent returns the statements of a statement block without its
// braces, de-indented by their common indentation and with continuation
// lines indented by indent.
func BlockContent(src []byte, block *sitter.Node, indent string) string {
	start, end := int(block.StartByte())+1, int(block.EndByte())-1
	if end < start {
		return ""
	}
	lines := strings.Split(string(src[start:end]), "\n")
	for i := range lines {
		lines[i] = strings.TrimRightFunc(lines[i], unicode.IsSpace)
	}

	onBraceLine := strings.TrimSpace(lines[0]) != ""
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 0 {
		return ""
	}

	rest := lines
	if onBraceLine {
		rest = lines[1:]
	}
	common := CommonIndent(rest)

	out := make([]string, len(lines))
	out[0] = strings.TrimLeftFunc(lines[0], unicode.IsSpace)
	for i := 1; i < len(lines); i++ {
		line := strings.TrimPrefix(lines[i], common)
		if line != "" {
			line = indent + line
		}
		out[i] = line
	}
	return strings.Join(out, "\n")
}

// CommonIndent finds the longest whitespace prefix shared by all non-empty lines.
func CommonIndent(lines []string) string {
	var indent []rune
	found := false
	for _, line := range lines {
		trimmed := strings.TrimLeftFunc(line, unicode.IsSpace)
		if trimmed == "" {
			continue
		}
		current := []rune(line[:len(line)-len(trimmed)])
		if !found {
			indent, found = current, true
			continue
		}
		indent = commonPrefix(indent, current)
		if len(indent) == 0 {
			break
		}
	}
	return string(indent)
}

func commonPrefix(a, b []rune) []rune {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return a[:i]
		}
	}
	return a[:n]
}
