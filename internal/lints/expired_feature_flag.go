package lints

import (
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/gnolang/flaglint/internal/jsast"
	"github.com/gnolang/flaglint/internal/registry"
	tt "github.com/gnolang/flaglint/internal/types"
)

const expiredFeatureFlagRule = "expired-feature-flag"

// DetectExpiredFlags reports accessor calls, property accesses
// (flags.name, flags['name']) and string literals naming a flag whose
// expiration date has passed. A literal already reported through its call or
// subscript is not reported again.
func DetectExpiredFlags(file *jsast.File, flags *Flags, severity tt.Severity) ([]tt.Issue, error) {
	now := flags.now()

	var issues []tt.Issue
	report := func(n *sitter.Node, name string) {
		expiry, ok := flags.Registry.LookupExpiry(name)
		if !ok || !flags.Registry.ExpiredAt(name, now) {
			return
		}
		start, end := file.Position(n)
		issues = append(issues, tt.Issue{
			Rule:     expiredFeatureFlagRule,
			Category: "feature-flags",
			Filename: file.Name,
			Start:    start,
			End:      end,
			Message: fmt.Sprintf("Feature flag \"%s\" has expired on %s. It should be removed.",
				name, registry.FormatExpirationDate(expiry)),
			Data: map[string]string{
				"name":           name,
				"expirationDate": expiry,
			},
			Severity: severity,
		})
	}

	// string literals consumed by a call or subscript, keyed by start byte
	covered := make(map[uint32]struct{})
	for n := range jsast.Walk(file.Root) {
		if call, ok := flags.Locator.Call(file, n); ok {
			report(call.Node, call.Flag)
			if arg := firstArgument(call.Node); arg != nil {
				covered[arg.StartByte()] = struct{}{}
			}
			continue
		}
		if name, ok := propertyName(file, n); ok {
			report(n, name)
			if n.Type() == jsast.NodeSubscript {
				covered[jsast.Unwrap(jsast.Field(n, "index")).StartByte()] = struct{}{}
			}
			continue
		}
		if n.Type() != jsast.NodeString {
			continue
		}
		if _, ok := covered[n.StartByte()]; ok {
			continue
		}
		if name, ok := jsast.StringValue(n, file.Source); ok {
			report(n, name)
		}
	}

	return issues, nil
}

// propertyName resolves the statically known property of a member or
// subscript expression.
func propertyName(file *jsast.File, n *sitter.Node) (string, bool) {
	switch n.Type() {
	case jsast.NodeMemberExpression:
		prop := jsast.Field(n, "property")
		if prop == nil || prop.Type() != "property_identifier" {
			return "", false
		}
		return file.Text(prop), true
	case jsast.NodeSubscript:
		return jsast.StringValue(jsast.Unwrap(jsast.Field(n, "index")), file.Source)
	}
	return "", false
}

func firstArgument(call *sitter.Node) *sitter.Node {
	args := jsast.Field(call, "arguments")
	if args == nil || args.NamedChildCount() == 0 {
		return nil
	}
	return jsast.Unwrap(args.NamedChild(0))
}
