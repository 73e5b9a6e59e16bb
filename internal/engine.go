package internal

import (
	"context"
	"errors"
	"fmt"
	"go/token"
	"os"
	"path/filepath"
	"sort"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/gnolang/flaglint/internal/jsast"
	"github.com/gnolang/flaglint/internal/lints"
	"github.com/gnolang/flaglint/internal/nolint"
	tt "github.com/gnolang/flaglint/internal/types"
)

// Engine manages the linting process.
type Engine struct {
	flags        *lints.Flags
	ignoredRules map[string]bool
	ignoredPaths []string
	pathMatcher  *ignore.GitIgnore
	rules        map[string]LintRule
}

// NewEngine creates a new lint engine for the given flag state and rule
// configuration.
func NewEngine(flags *lints.Flags, rules map[string]tt.ConfigRule) (*Engine, error) {
	if flags == nil {
		return nil, errors.New("engine requires feature flag state")
	}
	engine := &Engine{flags: flags}
	engine.applyRules(rules)

	return engine, nil
}

type ruleConstructor func(*lints.Flags) LintRule

type ruleMap map[string]ruleConstructor

var allRuleConstructors = ruleMap{
	"cleanup-feature-flag":   NewCleanupFeatureFlagRule,
	"expired-feature-flag":   NewExpiredFeatureFlagRule,
	"undefined-feature-flag": NewUndefinedFeatureFlagRule,
}

// RuleNames lists every rule the engine knows, sorted.
func RuleNames() []string {
	names := make([]string, 0, len(allRuleConstructors))
	for name := range allRuleConstructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRules returns the configuration of every rule at its default severity.
func DefaultRules() map[string]tt.ConfigRule {
	rules := make(map[string]tt.ConfigRule, len(allRuleConstructors))
	for name, newRule := range allRuleConstructors {
		rules[name] = tt.ConfigRule{Severity: newRule(nil).Severity()}
	}
	return rules
}

func (e *Engine) applyRules(rules map[string]tt.ConfigRule) {
	e.rules = make(map[string]LintRule)
	e.registerDefaultRules()

	for key, rule := range rules {
		r := e.findRule(key)
		if r == nil {
			newRuleCstr := allRuleConstructors[key]
			if newRuleCstr == nil {
				// Unknown rule, continue to the next one
				continue
			}
			r = newRuleCstr(e.flags)
			e.rules[key] = r
		}
		if rule.Severity == tt.SeverityOff {
			e.IgnoreRule(key)
		}
		r.SetSeverity(rule.Severity)
	}
}

func (e *Engine) registerDefaultRules() {
	for key, newRuleCstr := range allRuleConstructors {
		newRule := newRuleCstr(e.flags)
		if newRule.Severity() != tt.SeverityOff {
			e.rules[key] = newRule
		}
	}
}

func (e *Engine) findRule(name string) LintRule {
	if rule, ok := e.rules[name]; ok {
		return rule
	}
	return nil
}

// Flags returns the feature flag state the rules run against.
func (e *Engine) Flags() *lints.Flags {
	return e.flags
}

// Run applies all lint rules to the given file and returns a slice of Issues.
func (e *Engine) Run(ctx context.Context, filename string) ([]tt.Issue, error) {
	if e.IsIgnoredPath(filename) {
		return nil, nil
	}
	source, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}
	return e.RunSource(ctx, filename, source)
}

// RunSource applies all lint rules to an in-memory source. The filename
// selects the grammar; an empty name is parsed as JavaScript.
func (e *Engine) RunSource(ctx context.Context, filename string, source []byte) ([]tt.Issue, error) {
	file, err := jsast.Parse(ctx, filename, source)
	if err != nil {
		return nil, fmt.Errorf("error parsing %s: %w", filename, err)
	}
	return e.Lint(file)
}

// Lint applies all lint rules to an already parsed file. Issues are ordered
// by position.
//
// Rules run one after another: tree-sitter nodes of one tree must not be
// visited from several goroutines. Files are linted in parallel instead.
func (e *Engine) Lint(file *jsast.File) ([]tt.Issue, error) {
	nolintMgr := nolint.ParseComments(file)

	names := make([]string, 0, len(e.rules))
	for name := range e.rules {
		names = append(names, name)
	}
	sort.Strings(names)

	var (
		allIssues []tt.Issue
		errs      []error
	)
	for _, name := range names {
		rule := e.rules[name]
		if e.ignoredRules[rule.Name()] {
			continue
		}
		issues, err := rule.Check(file)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", rule.Name(), err))
			continue
		}
		allIssues = append(allIssues, filterNolintIssues(nolintMgr, issues)...)
	}

	sortIssues(allIssues)
	return allIssues, errors.Join(errs...)
}

func (e *Engine) IgnoreRule(rule string) {
	if e.ignoredRules == nil {
		e.ignoredRules = make(map[string]bool)
	}
	e.ignoredRules[rule] = true
}

// IgnorePath excludes files matching a gitignore-style pattern.
func (e *Engine) IgnorePath(pattern string) {
	e.ignoredPaths = append(e.ignoredPaths, pattern)
	e.pathMatcher = ignore.CompileIgnoreLines(e.ignoredPaths...)
}

// IsIgnoredPath reports whether the file matches an ignored path pattern.
func (e *Engine) IsIgnoredPath(filename string) bool {
	if e.pathMatcher == nil {
		return false
	}
	return e.pathMatcher.MatchesPath(filepath.ToSlash(filename))
}

// filterNolintIssues filters issues based on nolint comments.
func filterNolintIssues(mgr *nolint.Manager, issues []tt.Issue) []tt.Issue {
	if mgr == nil {
		return issues
	}
	filtered := make([]tt.Issue, 0, len(issues))
	for _, issue := range issues {
		pos := token.Position{
			Filename: issue.Filename,
			Line:     issue.Start.Line,
		}
		if !mgr.IsNolint(pos, issue.Rule) {
			filtered = append(filtered, issue)
		}
	}
	return filtered
}

func sortIssues(issues []tt.Issue) {
	sort.SliceStable(issues, func(i, j int) bool {
		a, b := issues[i], issues[j]
		if a.Filename != b.Filename {
			return a.Filename < b.Filename
		}
		if a.Start.Offset != b.Start.Offset {
			return a.Start.Offset < b.Start.Offset
		}
		return a.Rule < b.Rule
	})
}
