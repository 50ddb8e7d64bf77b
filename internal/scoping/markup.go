package scoping

import (
	"regexp"
	"strings"
)

// classAttr matches a class attribute with either quote style. The leading
// boundary keeps attributes that merely end in "class" (data-class, ng-class)
// out of reach; the value group excludes the matching quote, so nested
// alternate quotes are left alone.
var classAttr = regexp.MustCompile(`(?:^|[\s"'<])class\s*=\s*(?:"[^"]*"|'[^']*')`)

// RewriteMarkup rewrites class attributes token by token: tokens present in
// the mapping are replaced with their scoped names, unmapped tokens pass
// through unchanged, and the original quote character is preserved. Every
// other attribute, class-like names included, passes through verbatim.
func RewriteMarkup(markup string, mapping *Mapping) string {
	if mapping.Len() == 0 {
		return markup
	}

	return classAttr.ReplaceAllStringFunc(markup, func(attr string) string {
		// The match may carry its one-byte left boundary.
		prefix := ""
		if !strings.HasPrefix(attr, "class") {
			prefix = attr[:1]
			attr = attr[1:]
		}

		quoteAt := strings.IndexAny(attr, `"'`)
		if quoteAt < 0 {
			return prefix + attr
		}
		quote := attr[quoteAt : quoteAt+1]
		value := attr[quoteAt+1 : len(attr)-1]

		tokens := strings.Fields(value)
		for i, token := range tokens {
			if scoped, ok := mapping.Lookup(token); ok {
				tokens[i] = scoped
			}
		}

		return prefix + attr[:quoteAt] + quote + strings.Join(tokens, " ") + quote
	})
}
