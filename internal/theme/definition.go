// Package theme holds the runtime theme state: named theme definitions,
// an explicitly constructed store that applies them to a document root, and
// an ordered multi-source registry with host-last override semantics.
package theme

import "strings"

// Definition is one immutable named theme: CSS custom properties plus
// component style rules. Definitions are produced once at build or bootstrap
// time and never mutated afterwards.
type Definition struct {
	Name            string
	Variables       map[string]string
	ComponentStyles map[string]any
}

// NewDefinition builds a Definition, normalizing every variable key to carry
// the custom-property prefix.
func NewDefinition(name string, variables map[string]string, styles map[string]any) *Definition {
	normalized := make(map[string]string, len(variables))
	for key, value := range variables {
		normalized[NormalizeVariableName(key)] = value
	}
	return &Definition{
		Name:            name,
		Variables:       normalized,
		ComponentStyles: styles,
	}
}

// NormalizeVariableName guarantees the `--` custom-property prefix.
func NormalizeVariableName(name string) string {
	return "--" + strings.TrimLeft(strings.TrimSpace(name), "-")
}
