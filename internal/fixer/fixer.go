package fixer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/gnolang/flaglint/internal/jsast"
	tt "github.com/gnolang/flaglint/internal/types"
)

// DefaultMaxPasses bounds the lint/fix cycles run on one file.
const DefaultMaxPasses = 5

// ErrBrokenFix is returned when applying the fixes would leave the file
// with syntax errors it did not have before.
var ErrBrokenFix = errors.New("fix produced invalid source")

// Linter produces the issues of an in-memory source.
type Linter interface {
	RunSource(ctx context.Context, filename string, source []byte) ([]tt.Issue, error)
}

type Fixer struct {
	DryRun        bool
	MinConfidence float64 // threshold for fixing issues
	MaxPasses     int

	// Out receives the dry-run report.
	Out io.Writer
}

func New(dryRun bool, threshold float64) *Fixer {
	return &Fixer{
		DryRun:        dryRun,
		MinConfidence: threshold,
		MaxPasses:     DefaultMaxPasses,
		Out:           os.Stdout,
	}
}

// Result summarises the fixes applied to one file.
type Result struct {
	Passes  int
	Applied int
	Source  []byte
}

// Changed reports whether any edit was applied.
func (r Result) Changed() bool {
	return r.Applied > 0
}

// Fix lints and rewrites filename until no fixable issue remains or the
// pass limit is reached. In dry-run mode the planned edits are reported and
// the file is left untouched.
func (f *Fixer) Fix(ctx context.Context, linter Linter, filename string) (Result, error) {
	info, err := os.Stat(filename)
	if err != nil {
		return Result{}, fmt.Errorf("failed to stat file: %w", err)
	}
	content, err := os.ReadFile(filename)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read file: %w", err)
	}

	result, err := f.FixSource(ctx, linter, filename, content)
	if err != nil {
		return result, err
	}
	if f.DryRun || !result.Changed() {
		return result, nil
	}

	if err := os.WriteFile(filename, result.Source, info.Mode().Perm()); err != nil {
		return result, fmt.Errorf("failed to write file: %w", err)
	}
	return result, nil
}

// FixSource runs the lint/fix cycle on an in-memory source.
func (f *Fixer) FixSource(ctx context.Context, linter Linter, filename string, source []byte) (Result, error) {
	maxPasses := f.MaxPasses
	if maxPasses <= 0 {
		maxPasses = DefaultMaxPasses
	}

	result := Result{Source: source}
	hadErrors := hasSyntaxError(ctx, filename, source)

	for result.Passes < maxPasses {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		issues, err := linter.RunSource(ctx, filename, result.Source)
		if err != nil {
			return result, fmt.Errorf("pass %d: %w", result.Passes+1, err)
		}

		edits, planned := Plan(issues, f.MinConfidence)
		if len(edits) == 0 {
			break
		}
		result.Passes++

		fixed := ApplyEdits(result.Source, edits)
		if !hadErrors && hasSyntaxError(ctx, filename, fixed) {
			return result, fmt.Errorf("%w: %s (pass %d)", ErrBrokenFix, filename, result.Passes)
		}

		if f.DryRun {
			f.report(filename, planned)
		}
		result.Source = fixed
		result.Applied += len(edits)
	}

	return result, nil
}

func (f *Fixer) report(filename string, issues []tt.Issue) {
	out := f.Out
	if out == nil {
		out = os.Stdout
	}
	for _, issue := range issues {
		fmt.Fprintf(out, "Would fix issue in %s at line %d: %s\n", filename, issue.Start.Line, issue.Message)
		fmt.Fprintf(out, "Suggestion:\n%s\n", issue.SuggestedText())
	}
}

// Plan selects the edits to apply in one pass: fixes at or above the
// confidence threshold, outermost first, skipping any edit that overlaps an
// already selected one. The skipped edits are picked up by the next pass.
// The returned edits are ordered by start offset, together with the issues
// they come from.
func Plan(issues []tt.Issue, minConfidence float64) ([]tt.Edit, []tt.Issue) {
	type candidate struct {
		edit  tt.Edit
		issue tt.Issue
	}

	var candidates []candidate
	for _, issue := range issues {
		if issue.Fix == nil || issue.Confidence < minConfidence {
			continue
		}
		if edit := issue.Fix(); edit != nil {
			candidates = append(candidates, candidate{*edit, issue})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i].edit, candidates[j].edit
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		return a.End > b.End
	})

	var (
		edits  []tt.Edit
		issued []tt.Issue
	)
	for _, c := range candidates {
		if overlapsAny(c.edit, edits) {
			continue
		}
		edits = append(edits, c.edit)
		issued = append(issued, c.issue)
	}
	return edits, issued
}

func overlapsAny(edit tt.Edit, accepted []tt.Edit) bool {
	for _, other := range accepted {
		if edit.Overlaps(other) || edit == other {
			return true
		}
	}
	return false
}

// ApplyEdits applies non-overlapping edits to src, last edit first so
// earlier offsets stay valid.
func ApplyEdits(src []byte, edits []tt.Edit) []byte {
	sorted := make([]tt.Edit, len(edits))
	copy(sorted, edits)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Start > sorted[j].Start
	})

	out := src
	for _, edit := range sorted {
		out = edit.Apply(out)
	}
	return out
}

func hasSyntaxError(ctx context.Context, filename string, source []byte) bool {
	file, err := jsast.Parse(ctx, filename, source)
	if err != nil {
		return true
	}
	return file.HasSyntaxError()
}
