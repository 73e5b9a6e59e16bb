// Package report writes lint issues in machine-readable formats.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"sort"

	"github.com/owenrumney/go-sarif/v2/sarif"

	tt "github.com/gnolang/flaglint/internal/types"
)

const (
	toolName = "flaglint"
	toolURI  = "https://github.com/gnolang/flaglint"
)

// ruleDescriptions documents the rules in the SARIF tool section.
var ruleDescriptions = map[string]string{
	"cleanup-feature-flag":   "Code branching on a feature flag scheduled for cleanup.",
	"expired-feature-flag":   "Use of a feature flag past its expiration date.",
	"undefined-feature-flag": "Use of a feature flag missing from the configuration.",
}

// SARIF builds a SARIF 2.1.0 report with one result per issue. runID, when
// set, is attached to every result so reports of one invocation can be
// correlated.
func SARIF(issues []tt.Issue, runID string) (*sarif.Report, error) {
	report, err := sarif.New(sarif.Version210)
	if err != nil {
		return nil, fmt.Errorf("failed to create SARIF report: %w", err)
	}

	run := sarif.NewRunWithInformationURI(toolName, toolURI)

	rules := make(map[string]struct{})
	for _, issue := range issues {
		rules[issue.Rule] = struct{}{}
	}
	ruleIDs := make([]string, 0, len(rules))
	for id := range rules {
		ruleIDs = append(ruleIDs, id)
	}
	sort.Strings(ruleIDs)
	for _, id := range ruleIDs {
		description := ruleDescriptions[id]
		if description == "" {
			description = id
		}
		run.AddRule(id).WithDescription(description)
	}

	for _, issue := range issues {
		region := sarif.NewRegion().
			WithStartLine(max(issue.Start.Line, 1)).
			WithStartColumn(max(issue.Start.Column, 1))
		if issue.End.Line > 0 {
			region = region.WithEndLine(issue.End.Line).WithEndColumn(max(issue.End.Column, 1))
		}

		location := sarif.NewLocation().WithPhysicalLocation(
			sarif.NewPhysicalLocation().
				WithArtifactLocation(sarif.NewArtifactLocation().WithUri(filepath.ToSlash(issue.Filename))).
				WithRegion(region),
		)

		result := sarif.NewRuleResult(issue.Rule).
			WithMessage(sarif.NewTextMessage(issue.Message)).
			WithLevel(level(issue.Severity)).
			WithLocations([]*sarif.Location{location})

		result.Properties = map[string]interface{}{
			"fixable": issue.Fixable(),
		}
		if issue.Confidence > 0 {
			result.Properties["confidence"] = issue.Confidence
		}
		for k, v := range issue.Data {
			result.Properties[k] = v
		}
		if runID != "" {
			result.Properties["runId"] = runID
		}
		run.AddResult(result)
	}

	report.AddRun(run)
	return report, nil
}

// WriteSARIF writes the SARIF report of issues to w.
func WriteSARIF(w io.Writer, issues []tt.Issue, runID string) error {
	report, err := SARIF(issues, runID)
	if err != nil {
		return err
	}
	return report.PrettyWrite(w)
}

// WriteJSON writes the issues grouped by file, as the lint command's
// --json output.
func WriteJSON(w io.Writer, issues []tt.Issue) error {
	byFile := make(map[string][]tt.Issue)
	for _, issue := range issues {
		byFile[issue.Filename] = append(byFile[issue.Filename], issue)
	}
	d, err := json.Marshal(byFile)
	if err != nil {
		return fmt.Errorf("error marshalling issues to JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(d))
	return err
}

func level(severity tt.Severity) string {
	switch severity {
	case tt.SeverityError:
		return "error"
	case tt.SeverityWarning:
		return "warning"
	case tt.SeverityInfo:
		return "note"
	default:
		return "none"
	}
}
