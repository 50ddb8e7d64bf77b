// Package document abstracts the style injection surface a running
// application exposes: CSS custom properties on a root scope, singleton
// style blocks, and singleton link elements. Exactly one implementation is
// wired per environment: HeadRoot when markup is being rendered, MemoryRoot
// when running headless.
package document

// Root is the shared write surface mutated by the theme store and the style
// application protocol. Upserts replace in place, keyed by element id, so
// repeated theme switches never grow the document.
type Root interface {
	SetVariable(name, value string)
	Variable(name string) (string, bool)
	Variables() map[string]string

	UpsertStyle(id, css string)
	RemoveStyle(id string)
	StyleText(id string) (string, bool)

	UpsertLink(id, href string)
	LinkHref(id string) (string, bool)
}
