// Package internal provides the lint engine behind flaglint.
//
// The engine parses JavaScript and TypeScript sources with tree-sitter and
// runs the feature flag rules over them. Files are linted concurrently; the
// rules of one file run in sequence. All rules share one
// immutable flag state (registry, call locator and disposition resolver),
// built once per run from configuration.
//
// Key components:
//
// Engine: coordinates a lint run. It owns the enabled rules, the ignored
// rules and the ignored path patterns, and drops issues suppressed by
// nolint comments.
//
// LintRule: the contract every rule implements. Check inspects a parsed
// file and returns issues; cleanup issues carry a deferred fix that the
// fixer package evaluates.
//
// SourceCode: the lines of a file, used when printing issues.
//
// Usage:
//
//	flags := lints.NewFlags(reg, []string{"getFeatureFlag"}, nil)
//	engine, err := internal.NewEngine(flags, internal.DefaultRules())
//	if err != nil {
//	    // handle error
//	}
//
//	issues, err := engine.Run(ctx, "src/app.ts")
//	if err != nil {
//	    // handle error
//	}
//
//	for _, issue := range issues {
//	    fmt.Printf("Found issue: %s at %s\n", issue.Message, issue.Start)
//	}
package internal
