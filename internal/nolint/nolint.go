package nolint

import (
	"fmt"
	"go/token"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/gnolang/flaglint/internal/jsast"
)

const nolintPrefix = "nolint"

// Manager manages nolint scopes and checks if a position is nolinted.
type Manager struct {
	// scopes maps filename to a slice of nolint scopes.
	scopes map[string][]nolintScope
}

// nolintScope represents a range of lines where nolint applies.
type nolintScope struct {
	rules map[string]struct{}
	start token.Position
	end   token.Position
}

// ParseComments collects the nolint comments of a parsed file.
//
//	//nolint                      every rule
//	// nolint:rule-a, rule-b      only the listed rules
//	/* nolint:rule-a */           block comments work the same way
//
// A comment that trails a statement covers that statement. A comment on its
// own line covers the statement on the next line. A comment placed before the
// first statement of the file and separated from it by a blank line covers the
// whole file.
func ParseComments(file *jsast.File) *Manager {
	manager := Manager{scopes: make(map[string][]nolintScope)}
	if file == nil || file.Root == nil {
		return &manager
	}

	stmtMap := indexStatementsByLine(file)
	first := jsast.FirstNamed(file.Root)

	for n := range jsast.Walk(file.Root) {
		if n.Type() != jsast.NodeComment {
			continue
		}
		ns, err := parseComment(file, n, stmtMap, first)
		if err != nil {
			// ignore invalid nolint comments
			continue
		}
		manager.scopes[file.Name] = append(manager.scopes[file.Name], ns)
	}
	return &manager
}

// parseComment parses a single nolint comment and determines its scope.
func parseComment(
	file *jsast.File,
	comment *sitter.Node,
	stmtMap map[int]*sitter.Node,
	first *sitter.Node,
) (nolintScope, error) {
	var ns nolintScope

	text, ok := commentBody(file.Text(comment))
	if !ok || !strings.HasPrefix(text, nolintPrefix) {
		return ns, fmt.Errorf("invalid nolint comment")
	}

	rest := text[len(nolintPrefix):]
	if len(rest) > 0 && rest[0] != ':' {
		return ns, fmt.Errorf("invalid nolint comment format")
	}
	if len(rest) > 0 {
		rest = strings.TrimSpace(rest[1:])
		if rest == "" {
			return ns, fmt.Errorf("invalid nolint comment: no rules specified after colon")
		}
	}
	ns.rules = parseIgnoreRuleNames(rest)

	pos, _ := file.Position(comment)

	if first == nil || (comment.EndByte() <= first.StartByte() &&
		hasBlankLine(file.Source[comment.EndByte():first.StartByte()])) {
		ns.start = token.Position{Filename: file.Name, Line: 1}
		_, ns.end = file.Position(file.Root)
		return ns, nil
	}

	if stmt, exists := stmtMap[pos.Line]; exists && stmt.StartByte() < comment.StartByte() {
		ns.start, ns.end = file.Position(stmt)
		return ns, nil
	}

	if stmt, exists := stmtMap[pos.Line+1]; exists {
		ns.start = pos
		_, ns.end = file.Position(stmt)
		return ns, nil
	}

	// apply only to the comment line
	ns.start = pos
	ns.end = pos
	return ns, nil
}

// commentBody strips the comment markers and surrounding space.
func commentBody(raw string) (string, bool) {
	switch {
	case strings.HasPrefix(raw, "//"):
		return strings.TrimSpace(raw[2:]), true
	case strings.HasPrefix(raw, "/*") && strings.HasSuffix(raw, "*/") && len(raw) >= 4:
		return strings.TrimSpace(raw[2 : len(raw)-2]), true
	}
	return "", false
}

// parseIgnoreRuleNames parses the rule list from the nolint comment.
func parseIgnoreRuleNames(text string) map[string]struct{} {
	rulesMap := make(map[string]struct{})
	if text == "" {
		return rulesMap
	}
	for _, rule := range strings.Split(text, ",") {
		rule = strings.TrimSpace(rule)
		if rule != "" {
			rulesMap[rule] = struct{}{}
		}
	}
	return rulesMap
}

// indexStatementsByLine maps each line to the first statement starting on it.
func indexStatementsByLine(file *jsast.File) map[int]*sitter.Node {
	stmtMap := make(map[int]*sitter.Node)
	for n := range jsast.Walk(file.Root) {
		if !isStatement(n) {
			continue
		}
		line := int(n.StartPoint().Row) + 1
		if _, exists := stmtMap[line]; !exists {
			stmtMap[line] = n
		}
	}
	return stmtMap
}

func isStatement(n *sitter.Node) bool {
	typ := n.Type()
	return strings.HasSuffix(typ, "_statement") ||
		strings.HasSuffix(typ, "_declaration")
}

// hasBlankLine reports whether the text between two nodes contains an empty
// line.
func hasBlankLine(between []byte) bool {
	lines := strings.Split(string(between), "\n")
	if len(lines) < 3 {
		return false
	}
	for _, line := range lines[1 : len(lines)-1] {
		if strings.TrimSpace(line) == "" {
			return true
		}
	}
	return false
}

// IsNolint checks if a given position and rule are nolinted.
func (m *Manager) IsNolint(pos token.Position, ruleName string) bool {
	scopes, exists := m.scopes[pos.Filename]
	if !exists {
		return false
	}
	for _, ns := range scopes {
		if pos.Line < ns.start.Line || pos.Line > ns.end.Line {
			continue
		}
		// If the rules list is empty, nolint applies to all rules
		if len(ns.rules) == 0 {
			return true
		}
		if _, exists := ns.rules[ruleName]; exists {
			return true
		}
	}
	return false
}
