// Package scoping rewrites component-local class names into
// collision-resistant, content-addressed scoped names so that independently
// authored components can reuse class names without clashing.
package scoping

import (
	"context"
	"fmt"
	"regexp"

	applog "sartor/internal/log"
)

// Mapping records the original to scoped class-name translation for a single
// component's stylesheet, preserving first-seen order. Mappings are never
// shared across components.
type Mapping struct {
	names  []string
	scoped map[string]string
}

func newMapping() *Mapping {
	return &Mapping{scoped: make(map[string]string)}
}

// Lookup returns the scoped name for an original class name.
func (m *Mapping) Lookup(name string) (string, bool) {
	if m == nil {
		return "", false
	}
	scoped, ok := m.scoped[name]
	return scoped, ok
}

// Names lists the original class names in first-seen order.
func (m *Mapping) Names() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.names))
	copy(out, m.names)
	return out
}

// Len reports the number of distinct class names in the mapping.
func (m *Mapping) Len() int {
	if m == nil {
		return 0
	}
	return len(m.names)
}

func (m *Mapping) add(name, scoped string) {
	if _, exists := m.scoped[name]; exists {
		return
	}
	m.names = append(m.names, name)
	m.scoped[name] = scoped
}

// Result is the output of scoping one component stylesheet.
type Result struct {
	// Stylesheet is the rewritten CSS with every mapped class token scoped.
	Stylesheet string
	// Mapping translates original class names to scoped names.
	Mapping *Mapping
	// ClassNames lists the original class names in first-seen order.
	ClassNames []string
	// Degraded reports that the stylesheet failed to parse and the mapping
	// came from the lossy regex scan instead of the CSS parser.
	Degraded bool
}

// degradedClassToken only admits class tokens in selector position
// (start of input or after whitespace, comma, or a closing brace), keeping
// the lossy scan away from property values and URLs.
var degradedClassToken = regexp.MustCompile(`(?:^|[\s,}])\.(-?[A-Za-z_][A-Za-z0-9_-]*)`)

// Scope computes the rename mapping for a component stylesheet and rewrites
// it. Names take the form {component}_{class}_{hash5} where the fingerprint
// is content-addressed to the owning rule text, so a name changes exactly
// when its rule changes. A stylesheet that fails to parse degrades to a
// best-effort scan rather than failing the build.
func Scope(stylesheet, componentName string) (Result, error) {
	if componentName == "" {
		return Result{}, fmt.Errorf("component name must not be empty")
	}

	rules, err := ExtractRules(stylesheet)
	if err != nil {
		applog.Warn(context.Background(), "stylesheet parse failed, using degraded class scan",
			"component", componentName, "error", err)
		return scopeDegraded(stylesheet, componentName), nil
	}

	mapping := newMapping()
	for _, rule := range rules {
		mapping.add(rule.ClassName, scopedName(componentName, rule.ClassName, rule.RuleText))
	}

	return Result{
		Stylesheet: rewriteTokens(stylesheet, mapping),
		Mapping:    mapping,
		ClassNames: mapping.Names(),
	}, nil
}

// scopeDegraded scans class tokens with a regex and fingerprints the whole
// stylesheet in place of per-rule text. Stable, but not rule-addressed.
func scopeDegraded(stylesheet, componentName string) Result {
	mapping := newMapping()
	for _, match := range degradedClassToken.FindAllStringSubmatch(stylesheet, -1) {
		mapping.add(match[1], scopedName(componentName, match[1], stylesheet))
	}

	return Result{
		Stylesheet: rewriteTokens(stylesheet, mapping),
		Mapping:    mapping,
		ClassNames: mapping.Names(),
		Degraded:   true,
	}
}

func scopedName(componentName, className, ruleText string) string {
	return fmt.Sprintf("%s_%s_%s", componentName, className, Fingerprint(ruleText))
}

// rewriteTokens replaces every mapped `.class` occurrence at a token
// boundary. The token regex consumes the full identifier, so pseudo-classes
// and combinators after the token survive verbatim and longer class names
// are never split.
func rewriteTokens(stylesheet string, mapping *Mapping) string {
	if mapping.Len() == 0 {
		return stylesheet
	}
	return classToken.ReplaceAllStringFunc(stylesheet, func(token string) string {
		scoped, ok := mapping.Lookup(token[1:])
		if !ok {
			return token
		}
		return "." + scoped
	})
}
