// Package registry holds the configured feature flags and the cleanup
// strategies attached to them.
//
// A Registry is built once per run from configuration and is never mutated
// afterwards, so it can be shared by every rule and goroutine.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// DateLayout is the layout of flag expiration dates.
const DateLayout = "2006-01-02"

// ErrUnknownStrategy is returned when a cleanup strategy name is not recognised.
var ErrUnknownStrategy = errors.New("unknown cleanup strategy")

// FlagDefinition describes one configured feature flag.
type FlagDefinition struct {
	Name        string
	ExpiresOn   string
	Description string
}

// CleanupStrategy is the policy used to rewrite code branching on a flag.
type CleanupStrategy int

const (
	PreserveEnabledPath CleanupStrategy = iota
	PreserveDisabledPath
	RemoveEntirely
)

var strategyNames = map[CleanupStrategy]string{
	PreserveEnabledPath:  "preserve-enabled-path",
	PreserveDisabledPath: "preserve-disabled-path",
	RemoveEntirely:       "remove-entirely",
}

func (s CleanupStrategy) String() string {
	if name, ok := strategyNames[s]; ok {
		return name
	}
	return fmt.Sprintf("CleanupStrategy(%d)", int(s))
}

// ParseStrategy converts a configuration value into a CleanupStrategy.
func ParseStrategy(s string) (CleanupStrategy, error) {
	for strategy, name := range strategyNames {
		if name == s {
			return strategy, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
}

func (s CleanupStrategy) MarshalYAML() (interface{}, error) {
	return s.String(), nil
}

func (s *CleanupStrategy) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw string
	if err := unmarshal(&raw); err != nil {
		return err
	}
	parsed, err := ParseStrategy(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Registry provides O(1) lookups of flag expiry and cleanup strategy.
type Registry struct {
	flags   map[string]FlagDefinition
	cleanup map[string]CleanupStrategy
}

// New builds a registry. The maps are copied.
func New(flags map[string]FlagDefinition, cleanup map[string]CleanupStrategy) *Registry {
	r := &Registry{
		flags:   make(map[string]FlagDefinition, len(flags)),
		cleanup: make(map[string]CleanupStrategy, len(cleanup)),
	}
	for name, def := range flags {
		def.Name = name
		r.flags[name] = def
	}
	for name, strategy := range cleanup {
		r.cleanup[name] = strategy
	}
	return r
}

// LookupExpiry returns the expiration date string of a flag.
func (r *Registry) LookupExpiry(name string) (string, bool) {
	def, ok := r.flags[name]
	if !ok || def.ExpiresOn == "" {
		return "", false
	}
	return def.ExpiresOn, true
}

// LookupCleanupStrategy returns the cleanup strategy configured for a flag.
// Presence in the flag definitions is not required.
func (r *Registry) LookupCleanupStrategy(name string) (CleanupStrategy, bool) {
	strategy, ok := r.cleanup[name]
	return strategy, ok
}

// Defined reports whether the flag appears in the flag definitions.
func (r *Registry) Defined(name string) bool {
	_, ok := r.flags[name]
	return ok
}

// Flag returns the definition of a flag.
func (r *Registry) Flag(name string) (FlagDefinition, bool) {
	def, ok := r.flags[name]
	return def, ok
}

// Names returns every flag name known to the registry, sorted.
func (r *Registry) Names() []string {
	seen := make(map[string]struct{}, len(r.flags)+len(r.cleanup))
	for name := range r.flags {
		seen[name] = struct{}{}
	}
	for name := range r.cleanup {
		seen[name] = struct{}{}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ExpiredAt reports whether the named flag is expired at now.
func (r *Registry) ExpiredAt(name string, now time.Time) bool {
	def, ok := r.flags[name]
	if !ok {
		return false
	}
	return IsExpired(def, now)
}
