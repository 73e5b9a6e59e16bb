package types

import (
	"fmt"
	"go/token"
	"strings"
)

// Issue represents a lint issue found in the code base.
type Issue struct {
	Rule       string            `json:"rule"`
	Category   string            `json:"category,omitempty"`
	Filename   string            `json:"filename"`
	Message    string            `json:"message"`
	Suggestion string            `json:"suggestion,omitempty"`
	Note       string            `json:"note,omitempty"`
	Data       map[string]string `json:"data,omitempty"`
	Start      token.Position    `json:"start"`
	End        token.Position    `json:"end"`
	Severity   Severity          `json:"severity"`
	Confidence float64           `json:"confidence"`

	// Fix computes the automatic rewrite for the issue, if any.
	// It may be called any number of times and always yields the same Edit.
	Fix FixFunc `json:"-"`
}

// Fixable reports whether the issue carries a fix that currently yields an edit.
func (i Issue) Fixable() bool {
	return i.Fix != nil && i.Fix() != nil
}

// SuggestedText returns the replacement text of the issue's fix,
// falling back to the static suggestion.
func (i Issue) SuggestedText() string {
	if i.Fix != nil {
		if edit := i.Fix(); edit != nil {
			return edit.Text
		}
	}
	return i.Suggestion
}

// Edit is a replacement of the byte range [Start, End) of a source file.
type Edit struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Text  string `json:"text"`
}

// Overlaps reports whether two edits touch a common byte.
func (e Edit) Overlaps(other Edit) bool {
	return e.Start < other.End && other.Start < e.End
}

// Apply returns src with the edit applied.
func (e Edit) Apply(src []byte) []byte {
	out := make([]byte, 0, len(src)-(e.End-e.Start)+len(e.Text))
	out = append(out, src[:e.Start]...)
	out = append(out, e.Text...)
	return append(out, src[e.End:]...)
}

// FixFunc produces the edit for an issue, or nil when no fix is available.
type FixFunc func() *Edit

// Severity is the level at which a rule reports.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
	SeverityOff
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "ERROR"
	case SeverityWarning:
		return "WARNING"
	case SeverityInfo:
		return "INFO"
	case SeverityOff:
		return "OFF"
	}
	return "UNKNOWN"
}

// ParseSeverity converts a configuration string into a Severity.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ERROR":
		return SeverityError, nil
	case "WARNING", "WARN":
		return SeverityWarning, nil
	case "INFO":
		return SeverityInfo, nil
	case "OFF":
		return SeverityOff, nil
	}
	return SeverityOff, fmt.Errorf("unknown severity %q", s)
}

func (s Severity) MarshalYAML() (interface{}, error) {
	return s.String(), nil
}

func (s *Severity) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw string
	if err := unmarshal(&raw); err != nil {
		return err
	}
	parsed, err := ParseSeverity(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func (s Severity) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// ConfigRule is the per-rule section of the configuration file.
type ConfigRule struct {
	Severity Severity `yaml:"severity"`
}
