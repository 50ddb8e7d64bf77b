package scoping

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
)

// ClassRule pairs one class name with the serialized rule that styles it.
// Compound selectors produce one ClassRule per class token, each carrying
// the same rule text so every participant scopes identically.
type ClassRule struct {
	ClassName string
	RuleText  string
}

// classToken matches a full class token: a leading dot followed by a CSS
// identifier. The identifier part is maximal, so `.btn` never matches inside
// `.btn-primary`.
var classToken = regexp.MustCompile(`\.(-?[A-Za-z_][A-Za-z0-9_-]*)`)

// ExtractRules parses a stylesheet and returns every class-selector rule in
// document order. Rules nested under at-rules (media queries and similar)
// are walked recursively.
func ExtractRules(stylesheet string) ([]ClassRule, error) {
	parsed, err := parser.Parse(stylesheet)
	if err != nil {
		return nil, fmt.Errorf("parse stylesheet: %w", err)
	}

	var rules []ClassRule
	collectClassRules(parsed.Rules, &rules)
	return rules, nil
}

func collectClassRules(in []*css.Rule, out *[]ClassRule) {
	for _, rule := range in {
		if rule.EmbedsRules() {
			collectClassRules(rule.Rules, out)
			continue
		}
		if rule.Kind != css.QualifiedRule {
			continue
		}

		text := serializeRule(rule)
		for _, selector := range rule.Selectors {
			if !strings.HasPrefix(strings.TrimSpace(selector), ".") {
				continue
			}
			for _, match := range classToken.FindAllStringSubmatch(selector, -1) {
				*out = append(*out, ClassRule{ClassName: match[1], RuleText: text})
			}
		}
	}
}

// serializeRule renders a canonical selector+declaration block. The exact
// byte sequence is the hashing input, so the format must stay stable.
func serializeRule(rule *css.Rule) string {
	var b strings.Builder
	b.WriteString(strings.Join(rule.Selectors, ", "))
	b.WriteString("{")
	for _, decl := range rule.Declarations {
		b.WriteString(decl.Property)
		b.WriteString(":")
		b.WriteString(decl.Value)
		if decl.Important {
			b.WriteString(" !important")
		}
		b.WriteString(";")
	}
	b.WriteString("}")
	return b.String()
}
