package lints

import (
	"fmt"

	"github.com/gnolang/flaglint/internal/disposition"
	"github.com/gnolang/flaglint/internal/jsast"
	"github.com/gnolang/flaglint/internal/locator"
	"github.com/gnolang/flaglint/internal/registry"
	"github.com/gnolang/flaglint/internal/synth"
	tt "github.com/gnolang/flaglint/internal/types"
)

const cleanupFeatureFlagRule = "cleanup-feature-flag"

// DetectFlagCleanup reports every check of a flag that has a cleanup
// strategy configured. Each issue carries a fix rewriting the check
// according to the strategy.
func DetectFlagCleanup(file *jsast.File, flags *Flags, severity tt.Severity) ([]tt.Issue, error) {
	qualifies := func(name string) bool {
		_, ok := flags.Registry.LookupCleanupStrategy(name)
		return ok
	}

	var issues []tt.Issue
	for site := range flags.Locator.Sites(file, qualifies) {
		strategy, _ := flags.Registry.LookupCleanupStrategy(site.Flag)
		recipe := flags.Resolver.Resolve(file, site, strategy)
		start, end := file.Position(site.Node)

		issue := tt.Issue{
			Rule:     cleanupFeatureFlagRule,
			Category: "feature-flags",
			Filename: file.Name,
			Start:    start,
			End:      end,
			Message: fmt.Sprintf("Feature flag \"%s\" should be cleaned up using strategy \"%s\"",
				site.Flag, strategy.String()),
			Data: map[string]string{
				"name":     site.Flag,
				"strategy": strategy.String(),
			},
			Severity:   severity,
			Confidence: recipe.Confidence,
			Fix:        cleanupFix(file, site, strategy, flags.Resolver),
		}
		if recipe.Action == disposition.NoFix {
			issue.Note = fmt.Sprintf("no automatic fix for this %s", site.Kind)
		}
		issues = append(issues, issue)
	}

	return issues, nil
}

// cleanupFix defers resolving and rendering until the fix is requested. It
// only reads the parsed file, so repeated calls yield the same edit.
func cleanupFix(file *jsast.File, site locator.UsageSite, strategy registry.CleanupStrategy, resolver *disposition.Resolver) tt.FixFunc {
	return func() *tt.Edit {
		recipe := resolver.Resolve(file, site, strategy)
		if recipe.Action == disposition.NoFix {
			return nil
		}
		return synth.Render(file, site, recipe)
	}
}
