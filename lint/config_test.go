package lint

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnolang/flaglint/internal/registry"
	tt "github.com/gnolang/flaglint/internal/types"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultConfigFile)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, `
name: web
rules:
  undefined-feature-flag:
    severity: OFF
  expired-feature-flag:
    severity: WARNING
featureFlags:
  new-checkout:
    expires: "2024-06-01"
    description: Checkout redesign
  dark-mode:
    expires: "2030-01-01"
identifiers:
  - getFeatureFlag
  - isEnabled
flagsToCleanup:
  new-checkout: preserve-enabled-path
placeholder: operand-shape
`)

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "web", config.Name)
	assert.Equal(t, tt.SeverityOff, config.Rules["undefined-feature-flag"].Severity)
	assert.Equal(t, tt.SeverityWarning, config.Rules["expired-feature-flag"].Severity)
	assert.Equal(t, tt.SeverityWarning, config.Rules["cleanup-feature-flag"].Severity)
	assert.Equal(t, []string{"getFeatureFlag", "isEnabled"}, config.Identifiers)
	assert.Equal(t, registry.PreserveEnabledPath, config.FlagsToCleanup["new-checkout"])
	assert.Equal(t, "Checkout redesign", config.FeatureFlags["new-checkout"].Description)
}

func TestLoadConfigEmptyFile(t *testing.T) {
	t.Parallel()
	config, err := LoadConfig(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), config)
}

func TestLoadConfigErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{
			name:    "unknown strategy",
			content: "flagsToCleanup:\n  a: keep-it\n",
			errMsg:  "unknown cleanup strategy",
		},
		{
			name:    "missing expires",
			content: "featureFlags:\n  a:\n    description: no date\n",
			errMsg:  `feature flag "a": missing expires`,
		},
		{
			name:    "unknown field",
			content: "flags: {}\n",
			errMsg:  "field flags not found",
		},
		{
			name:    "unknown placeholder",
			content: "placeholder: random\n",
			errMsg:  "unknown placeholder policy",
		},
		{
			name:    "bad severity",
			content: "rules:\n  cleanup-feature-flag:\n    severity: LOUD\n",
			errMsg:  "unknown severity",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := LoadConfig(writeConfig(t, tc.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errMsg)
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	t.Parallel()
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDescribeFlags(t *testing.T) {
	t.Parallel()
	config := DefaultConfig()
	config.FeatureFlags = map[string]FlagConfig{
		"old":   {Expires: "2024-01-01"},
		"fresh": {Expires: "2030-01-01", Description: "new thing"},
	}
	config.FlagsToCleanup = map[string]registry.CleanupStrategy{
		"old":     registry.RemoveEntirely,
		"missing": registry.PreserveDisabledPath,
	}

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	statuses := config.DescribeFlags(now)

	require.Len(t, statuses, 3)
	assert.Equal(t, FlagStatus{Name: "fresh", Expires: "2030-01-01", Defined: true, Description: "new thing"}, statuses[0])
	assert.Equal(t, FlagStatus{Name: "missing", Strategy: "preserve-disabled-path"}, statuses[1])
	assert.Equal(t, FlagStatus{Name: "old", Expires: "2024-01-01", Expired: true, Defined: true, Strategy: "remove-entirely"}, statuses[2])
}
