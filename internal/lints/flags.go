package lints

import (
	"time"

	"github.com/gnolang/flaglint/internal/disposition"
	"github.com/gnolang/flaglint/internal/locator"
	"github.com/gnolang/flaglint/internal/registry"
)

// Flags bundles the immutable state the feature-flag rules share during a run.
type Flags struct {
	Registry *registry.Registry
	Locator  *locator.Locator
	Resolver *disposition.Resolver

	// Now is the clock used for expiry checks.
	Now func() time.Time
}

// NewFlags wires a Flags value. A nil policy selects the name-hint placeholders.
func NewFlags(reg *registry.Registry, identifiers []string, policy disposition.PlaceholderPolicy) *Flags {
	if reg == nil {
		reg = registry.New(nil, nil)
	}
	return &Flags{
		Registry: reg,
		Locator:  locator.New(identifiers),
		Resolver: disposition.New(policy),
		Now:      time.Now,
	}
}

func (f *Flags) now() time.Time {
	if f.Now == nil {
		return time.Now()
	}
	return f.Now()
}
