package formatter

import (
	"go/token"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"github.com/gnolang/flaglint/internal"
	tt "github.com/gnolang/flaglint/internal/types"
)

func init() {
	color.NoColor = true
}

func fixWith(text string) tt.FixFunc {
	return func() *tt.Edit { return &tt.Edit{Text: text} }
}

func TestFormatGeneralIssue(t *testing.T) {
	t.Parallel()
	code := &internal.SourceCode{Lines: []string{"getFeatureFlag('ghost');"}}
	issues := []tt.Issue{
		{
			Rule:     "undefined-feature-flag",
			Filename: "app.js",
			Start:    token.Position{Line: 1, Column: 1},
			End:      token.Position{Line: 1, Column: 24},
			Message:  `Feature flag "ghost" is not defined in the configuration.`,
			Severity: tt.SeverityWarning,
		},
	}

	expected := `warning: undefined-feature-flag
 --> app.js:1:1
  |
1 | getFeatureFlag('ghost');
  | ` + strings.Repeat("~", 23) + `
  = Feature flag "ghost" is not defined in the configuration.

`
	assert.Equal(t, expected, GenerateFormattedIssue(issues, code))
}

func TestFormatMultipleDigitsLineNumbers(t *testing.T) {
	t.Parallel()
	lines := make([]string, 10)
	for i := range lines {
		lines[i] = "run();"
	}
	lines[9] = "\tgetFeatureFlag('x');"
	code := &internal.SourceCode{Lines: lines}

	issues := []tt.Issue{{
		Rule:     "undefined-feature-flag",
		Filename: "app.js",
		Start:    token.Position{Line: 10, Column: 2},
		End:      token.Position{Line: 10, Column: 21},
		Message:  "example issue",
		Severity: tt.SeverityError,
	}}

	expected := `error: undefined-feature-flag
  --> app.js:10:2
   |
10 | getFeatureFlag('x');
   | ` + strings.Repeat("~", 19) + `
   = example issue

`
	assert.Equal(t, expected, GenerateFormattedIssue(issues, code))
}

func TestFormatCleanupIssue(t *testing.T) {
	t.Parallel()
	code := &internal.SourceCode{Lines: []string{
		"function f() {",
		"  if (getFeatureFlag('a')) {",
		"    run();",
		"  }",
		"}",
	}}
	issue := tt.Issue{
		Rule:       "cleanup-feature-flag",
		Filename:   "app.js",
		Start:      token.Position{Line: 2, Column: 3},
		End:        token.Position{Line: 4, Column: 4},
		Message:    `Feature flag "a" should be cleaned up using strategy "preserve-enabled-path"`,
		Data:       map[string]string{"name": "a", "strategy": "preserve-enabled-path"},
		Severity:   tt.SeverityWarning,
		Confidence: 1,
		Fix:        fixWith("run();"),
	}

	expected := `warning: cleanup-feature-flag
 --> app.js:2:3
  |
2 | if (getFeatureFlag('a')) {
3 |   run();
4 | }
  | ` + strings.Repeat("~", 26) + `
  = Feature flag "a" should be cleaned up using strategy "preserve-enabled-path"
  = strategy: preserve-enabled-path

Suggestion:
  |
2 | run();
  |

`
	assert.Equal(t, expected, GenerateFormattedIssue([]tt.Issue{issue}, code))
}

func TestFormatCleanupRemoval(t *testing.T) {
	t.Parallel()
	code := &internal.SourceCode{Lines: []string{
		"if (getFeatureFlag('a')) {",
		"  run();",
		"}",
	}}
	issue := tt.Issue{
		Rule:       "cleanup-feature-flag",
		Filename:   "app.js",
		Start:      token.Position{Line: 1, Column: 1},
		End:        token.Position{Line: 3, Column: 2},
		Message:    "cleanup",
		Data:       map[string]string{"strategy": "remove-entirely"},
		Confidence: 1,
		Fix:        fixWith(""),
	}

	result := GenerateFormattedIssue([]tt.Issue{issue}, code)
	assert.Contains(t, result, "= strategy: remove-entirely\n")
	assert.Contains(t, result, "Suggestion: remove lines 1-3\n")
	assert.NotContains(t, result, "Note:")
}

func TestFormatCleanupHeuristic(t *testing.T) {
	t.Parallel()
	code := &internal.SourceCode{Lines: []string{"const isEnabled = getFeatureFlag('a') && compute();"}}
	issue := tt.Issue{
		Rule:       "cleanup-feature-flag",
		Filename:   "app.js",
		Start:      token.Position{Line: 1, Column: 19},
		End:        token.Position{Line: 1, Column: 51},
		Message:    "cleanup",
		Data:       map[string]string{"strategy": "remove-entirely"},
		Confidence: 0.5,
		Fix:        fixWith("false"),
	}

	result := GenerateFormattedIssue([]tt.Issue{issue}, code)
	assert.Contains(t, result, "1 | false\n")
	assert.Contains(t, result, "Note: the replacement value is a guess")
}

func TestFormatCleanupWithoutFix(t *testing.T) {
	t.Parallel()
	code := &internal.SourceCode{Lines: []string{"getFeatureFlag('a') && b || c;"}}
	issue := tt.Issue{
		Rule:     "cleanup-feature-flag",
		Filename: "app.js",
		Start:    token.Position{Line: 1, Column: 1},
		End:      token.Position{Line: 1, Column: 30},
		Message:  "cleanup",
		Data:     map[string]string{"strategy": "remove-entirely"},
		Note:     "no automatic fix for this LogicalAnd",
		Fix:      func() *tt.Edit { return nil },
	}

	result := GenerateFormattedIssue([]tt.Issue{issue}, code)
	assert.NotContains(t, result, "Suggestion")
	assert.Contains(t, result, "Note: no automatic fix for this LogicalAnd\n")
}

func TestFormatExpiredIssue(t *testing.T) {
	t.Parallel()
	code := &internal.SourceCode{Lines: []string{"getFeatureFlag('old');"}}
	issue := tt.Issue{
		Rule:     "expired-feature-flag",
		Filename: "app.js",
		Start:    token.Position{Line: 1, Column: 1},
		End:      token.Position{Line: 1, Column: 22},
		Message:  `Feature flag "old" has expired on January 1, 2024. It should be removed.`,
		Data:     map[string]string{"name": "old", "expirationDate": "2024-01-01"},
	}

	result := GenerateFormattedIssue([]tt.Issue{issue}, code)
	assert.True(t, strings.HasPrefix(result, "error: expired-feature-flag\n"))
	assert.Contains(t, result, "  = expires: 2024-01-01\n")
}

func TestFormatOutOfRange(t *testing.T) {
	t.Parallel()
	issue := tt.Issue{
		Rule:     "undefined-feature-flag",
		Filename: "app.js",
		Start:    token.Position{Line: 5, Column: 1},
		End:      token.Position{Line: 5, Column: 3},
		Message:  "gone",
	}
	result := GenerateFormattedIssue([]tt.Issue{issue}, nil)
	assert.Contains(t, result, "  | gone\n")
}

func TestCalculateVisualColumn(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 0, calculateVisualColumn("abc", 1))
	assert.Equal(t, 2, calculateVisualColumn("abc", 3))
	assert.Equal(t, 8, calculateVisualColumn("\tx", 2))
	assert.Equal(t, 0, calculateVisualColumn("abc", -1))
}
