package lints

import (
	"fmt"

	"github.com/gnolang/flaglint/internal/jsast"
	tt "github.com/gnolang/flaglint/internal/types"
)

const undefinedFeatureFlagRule = "undefined-feature-flag"

// DetectUndefinedFlags reports accessor calls naming a flag that has no
// definition in the configuration.
func DetectUndefinedFlags(file *jsast.File, flags *Flags, severity tt.Severity) ([]tt.Issue, error) {
	var issues []tt.Issue
	for call := range flags.Locator.Calls(file) {
		if flags.Registry.Defined(call.Flag) {
			continue
		}
		start, end := file.Position(call.Node)
		issues = append(issues, tt.Issue{
			Rule:     undefinedFeatureFlagRule,
			Category: "feature-flags",
			Filename: file.Name,
			Start:    start,
			End:      end,
			Message:  fmt.Sprintf("Feature flag \"%s\" is not defined in the configuration.", call.Flag),
			Data:     map[string]string{"name": call.Flag},
			Severity: severity,
		})
	}
	return issues, nil
}
