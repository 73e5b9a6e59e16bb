package lint

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/gnolang/flaglint/internal"
	"github.com/gnolang/flaglint/internal/disposition"
	"github.com/gnolang/flaglint/internal/lints"
	"github.com/gnolang/flaglint/internal/locator"
	"github.com/gnolang/flaglint/internal/registry"
	tt "github.com/gnolang/flaglint/internal/types"
)

// DefaultConfigFile is the configuration file looked up in the working directory.
const DefaultConfigFile = ".flaglint.yaml"

// FlagConfig describes one feature flag in the configuration file.
type FlagConfig struct {
	Expires     string `yaml:"expires"`
	Description string `yaml:"description,omitempty"`
}

// Config represents the overall configuration: rule severities and the
// feature flags the rules check against.
type Config struct {
	Name           string                              `yaml:"name"`
	Rules          map[string]tt.ConfigRule            `yaml:"rules"`
	FeatureFlags   map[string]FlagConfig               `yaml:"featureFlags"`
	Identifiers    []string                            `yaml:"identifiers,omitempty"`
	FlagsToCleanup map[string]registry.CleanupStrategy `yaml:"flagsToCleanup"`
	Placeholder    string                              `yaml:"placeholder,omitempty"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Name:           "flaglint",
		Rules:          internal.DefaultRules(),
		FeatureFlags:   map[string]FlagConfig{},
		Identifiers:    []string{locator.DefaultAccessor},
		FlagsToCleanup: map[string]registry.CleanupStrategy{},
		Placeholder:    disposition.PolicyNameHints,
	}
}

// Validate rejects configurations the rules cannot run with.
func (c Config) Validate() error {
	var errs []error

	names := make([]string, 0, len(c.FeatureFlags))
	for name := range c.FeatureFlags {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if c.FeatureFlags[name].Expires == "" {
			errs = append(errs, fmt.Errorf("feature flag %q: missing expires", name))
		}
	}

	if _, err := disposition.PolicyByName(c.Placeholder); err != nil {
		errs = append(errs, err)
	}

	for _, id := range c.Identifiers {
		if id == "" {
			errs = append(errs, errors.New("identifiers: empty accessor name"))
			break
		}
	}

	return errors.Join(errs...)
}

// Registry builds the flag registry described by the configuration.
func (c Config) Registry() *registry.Registry {
	defs := make(map[string]registry.FlagDefinition, len(c.FeatureFlags))
	for name, flag := range c.FeatureFlags {
		defs[name] = registry.FlagDefinition{
			Name:        name,
			ExpiresOn:   flag.Expires,
			Description: flag.Description,
		}
	}
	return registry.New(defs, c.FlagsToCleanup)
}

// Flags builds the shared rule state of the configuration.
func (c Config) Flags() (*lints.Flags, error) {
	policy, err := disposition.PolicyByName(c.Placeholder)
	if err != nil {
		return nil, err
	}
	return lints.NewFlags(c.Registry(), c.Identifiers, policy), nil
}

// FlagStatus is the state of one configured flag at a point in time.
type FlagStatus struct {
	Name        string
	Expires     string
	Expired     bool
	Defined     bool
	Strategy    string
	Description string
}

// DescribeFlags lists every flag named in the configuration, sorted by name.
func (c Config) DescribeFlags(now time.Time) []FlagStatus {
	reg := c.Registry()
	var statuses []FlagStatus
	for _, name := range reg.Names() {
		status := FlagStatus{Name: name}
		if def, ok := reg.Flag(name); ok {
			status.Defined = true
			status.Expires = def.ExpiresOn
			status.Description = def.Description
			status.Expired = reg.ExpiredAt(name, now)
		}
		if strategy, ok := reg.LookupCleanupStrategy(name); ok {
			status.Strategy = strategy.String()
		}
		statuses = append(statuses, status)
	}
	return statuses
}

// LoadConfig reads and validates a configuration file. Sections missing from
// the file keep their defaults.
func LoadConfig(configurationPath string) (Config, error) {
	config := DefaultConfig()

	f, err := os.Open(configurationPath)
	if err != nil {
		return config, err
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	if err := decoder.Decode(&config); err != nil && !errors.Is(err, io.EOF) {
		return config, fmt.Errorf("error parsing %s: %w", configurationPath, err)
	}

	if err := config.Validate(); err != nil {
		return config, fmt.Errorf("invalid configuration %s: %w", configurationPath, err)
	}
	return config, nil
}
