package internal

import (
	"github.com/gnolang/flaglint/internal/jsast"
	"github.com/gnolang/flaglint/internal/lints"
	tt "github.com/gnolang/flaglint/internal/types"
)

/*
* Implement each lint rule as a separate struct
 */

// LintRule defines the interface for all lint rules.
type LintRule interface {
	// Check runs the lint rule on the given file and returns a slice of Issues.
	Check(file *jsast.File) ([]tt.Issue, error)

	// Name returns the name of the lint rule.
	Name() string

	// Severity returns the severity of the lint rule.
	Severity() tt.Severity

	// SetSeverity sets the severity of the lint rule.
	SetSeverity(tt.Severity)
}

// flagRule carries the state every feature-flag rule shares.
type flagRule struct {
	flags    *lints.Flags
	severity tt.Severity
}

func (r *flagRule) Severity() tt.Severity {
	return r.severity
}

func (r *flagRule) SetSeverity(severity tt.Severity) {
	r.severity = severity
}

type CleanupFeatureFlagRule struct{ flagRule }

func NewCleanupFeatureFlagRule(flags *lints.Flags) LintRule {
	return &CleanupFeatureFlagRule{flagRule{flags: flags, severity: tt.SeverityWarning}}
}

func (r *CleanupFeatureFlagRule) Check(file *jsast.File) ([]tt.Issue, error) {
	return lints.DetectFlagCleanup(file, r.flags, r.severity)
}

func (r *CleanupFeatureFlagRule) Name() string {
	return "cleanup-feature-flag"
}

type ExpiredFeatureFlagRule struct{ flagRule }

func NewExpiredFeatureFlagRule(flags *lints.Flags) LintRule {
	return &ExpiredFeatureFlagRule{flagRule{flags: flags, severity: tt.SeverityError}}
}

func (r *ExpiredFeatureFlagRule) Check(file *jsast.File) ([]tt.Issue, error) {
	return lints.DetectExpiredFlags(file, r.flags, r.severity)
}

func (r *ExpiredFeatureFlagRule) Name() string {
	return "expired-feature-flag"
}

type UndefinedFeatureFlagRule struct{ flagRule }

func NewUndefinedFeatureFlagRule(flags *lints.Flags) LintRule {
	return &UndefinedFeatureFlagRule{flagRule{flags: flags, severity: tt.SeverityWarning}}
}

func (r *UndefinedFeatureFlagRule) Check(file *jsast.File) ([]tt.Issue, error) {
	return lints.DetectUndefinedFlags(file, r.flags, r.severity)
}

func (r *UndefinedFeatureFlagRule) Name() string {
	return "undefined-feature-flag"
}
