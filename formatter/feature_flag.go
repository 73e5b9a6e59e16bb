package formatter

// CleanupFlagFormatter shows the cleanup strategy and the rewritten code.
// An empty rewrite is shown as a removal.
type CleanupFlagFormatter struct{}

func (f *CleanupFlagFormatter) IssueTemplate() string {
	return `{{header .Rule .Severity .MaxLineNumWidth .Filename .StartLine .StartColumn -}}
{{snippet .SnippetLines .StartLine .EndLine .MaxLineNumWidth .CommonIndent .Padding -}}
{{underlineAndMessage .Message .Padding .StartLine .EndLine .StartColumn .EndColumn .SnippetLines .CommonIndent -}}
{{detail "strategy" (index .Data "strategy") .Padding}}

{{- if .Fixable }}
{{- if .Suggestion }}
{{suggestion .Suggestion .Padding .MaxLineNumWidth .StartLine}}
{{- else }}
{{removal .StartLine .EndLine}}
{{- end }}
{{- if lt .Confidence 1.0 }}
{{note "the replacement value is a guess; review it before applying"}}
{{- end }}
{{- end }}

{{- if .Note }}
{{note .Note}}
{{- end }}
`
}

// ExpiredFlagFormatter adds the expiration date of the flag.
type ExpiredFlagFormatter struct{}

func (f *ExpiredFlagFormatter) IssueTemplate() string {
	return `{{header .Rule .Severity .MaxLineNumWidth .Filename .StartLine .StartColumn -}}
{{snippet .SnippetLines .StartLine .EndLine .MaxLineNumWidth .CommonIndent .Padding -}}
{{underlineAndMessage .Message .Padding .StartLine .EndLine .StartColumn .EndColumn .SnippetLines .CommonIndent -}}
{{detail "expires" (index .Data "expirationDate") .Padding}}
`
}
