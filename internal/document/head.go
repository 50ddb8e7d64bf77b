package document

import (
	"fmt"
	"html"
	"io"
	"strings"
	"sync"
)

type elementKind int

const (
	styleElement elementKind = iota
	linkElement
)

type headElement struct {
	kind    elementKind
	id      string
	content string
}

// HeadRoot materializes the style surface as document head elements. Element
// order is insertion order, and upserting an existing id updates the element
// where it already sits, so cascade position survives theme switches.
type HeadRoot struct {
	mu        sync.RWMutex
	varNames  []string
	variables map[string]string
	elements  []headElement
	index     map[string]int
}

// NewHeadRoot returns an empty renderable root.
func NewHeadRoot() *HeadRoot {
	return &HeadRoot{
		variables: make(map[string]string),
		index:     make(map[string]int),
	}
}

func (r *HeadRoot) SetVariable(name, value string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.variables[name]; !exists {
		r.varNames = append(r.varNames, name)
	}
	r.variables[name] = value
}

func (r *HeadRoot) Variable(name string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	value, ok := r.variables[name]
	return value, ok
}

func (r *HeadRoot) Variables() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]string, len(r.variables))
	for k, v := range r.variables {
		out[k] = v
	}
	return out
}

func (r *HeadRoot) UpsertStyle(id, css string) {
	r.upsert(headElement{kind: styleElement, id: id, content: css})
}

func (r *HeadRoot) RemoveStyle(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	at, ok := r.index[id]
	if !ok || r.elements[at].kind != styleElement {
		return
	}
	r.elements = append(r.elements[:at], r.elements[at+1:]...)
	delete(r.index, id)
	for i := at; i < len(r.elements); i++ {
		r.index[r.elements[i].id] = i
	}
}

func (r *HeadRoot) StyleText(id string) (string, bool) {
	return r.lookup(id, styleElement)
}

func (r *HeadRoot) UpsertLink(id, href string) {
	r.upsert(headElement{kind: linkElement, id: id, content: href})
}

func (r *HeadRoot) LinkHref(id string) (string, bool) {
	return r.lookup(id, linkElement)
}

func (r *HeadRoot) upsert(el headElement) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if at, ok := r.index[el.id]; ok {
		r.elements[at] = el
		return
	}
	r.index[el.id] = len(r.elements)
	r.elements = append(r.elements, el)
}

func (r *HeadRoot) lookup(id string, kind elementKind) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	at, ok := r.index[id]
	if !ok || r.elements[at].kind != kind {
		return "", false
	}
	return r.elements[at].content, true
}

// WriteHead renders the root variable block followed by every style and link
// element in insertion order. Stylesheet text is authored, trusted input and
// is emitted verbatim; attribute values are escaped.
func (r *HeadRoot) WriteHead(w io.Writer) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.varNames) > 0 {
		var b strings.Builder
		b.WriteString(":root{")
		for _, name := range r.varNames {
			b.WriteString(name)
			b.WriteString(":")
			b.WriteString(r.variables[name])
			b.WriteString(";")
		}
		b.WriteString("}")
		if _, err := fmt.Fprintf(w, "<style id=\"root-variables\">%s</style>\n", b.String()); err != nil {
			return err
		}
	}

	for _, el := range r.elements {
		var err error
		switch el.kind {
		case styleElement:
			_, err = fmt.Fprintf(w, "<style id=%q>%s</style>\n", el.id, el.content)
		case linkElement:
			_, err = fmt.Fprintf(w, "<link id=%q rel=\"stylesheet\" href=%q>\n",
				el.id, html.EscapeString(el.content))
		}
		if err != nil {
			return err
		}
	}
	return nil
}
