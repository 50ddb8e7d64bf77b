package theme

import (
	"sort"
	"strings"
)

// CompileStyles renders one component style entry to CSS text. A literal
// string value is used verbatim as the declaration block. A nested map
// flattens recursively: string values become declarations, keys starting
// with `@` wrap the compiled inner block as an at-rule, keys starting with
// `&` or `:` attach to the current selector, and every other nested key
// nests as a descendant. Keys are emitted in sorted order so compiled output
// is deterministic.
func CompileStyles(selector string, value any) string {
	switch v := value.(type) {
	case string:
		return selector + " { " + strings.TrimSpace(v) + " }"
	case map[string]any:
		return compileBlock(selector, v)
	}
	return ""
}

// CompileAll renders a full ComponentStyles map in sorted selector order.
func CompileAll(styles map[string]any) string {
	if len(styles) == 0 {
		return ""
	}
	blocks := make([]string, 0, len(styles))
	for _, selector := range sortedKeys(styles) {
		if block := CompileStyles(selector, styles[selector]); block != "" {
			blocks = append(blocks, block)
		}
	}
	return strings.Join(blocks, "\n")
}

func compileBlock(selector string, props map[string]any) string {
	var declarations []string
	var nested []string

	for _, key := range sortedKeys(props) {
		switch value := props[key].(type) {
		case string:
			declarations = append(declarations, key+": "+value+";")
		case map[string]any:
			switch {
			case strings.HasPrefix(key, "@"):
				nested = append(nested, key+" { "+compileBlock(selector, value)+" }")
			case strings.HasPrefix(key, "&"):
				nested = append(nested, compileBlock(selector+key[1:], value))
			case strings.HasPrefix(key, ":"):
				// Bare pseudo-classes attach like their &-prefixed form.
				nested = append(nested, compileBlock(selector+key, value))
			default:
				nested = append(nested, compileBlock(selector+" "+key, value))
			}
		}
	}

	var blocks []string
	if len(declarations) > 0 {
		blocks = append(blocks, selector+" { "+strings.Join(declarations, " ")+" }")
	}
	blocks = append(blocks, nested...)
	return strings.Join(blocks, "\n")
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
