package document

import "sync"

// MemoryRoot keeps variables and style blocks in plain in-process tables.
// It backs headless execution (builds, tests, server-side bootstraps that
// never render markup).
type MemoryRoot struct {
	mu        sync.RWMutex
	variables map[string]string
	styles    map[string]string
	links     map[string]string
}

// NewMemoryRoot returns an empty headless root.
func NewMemoryRoot() *MemoryRoot {
	return &MemoryRoot{
		variables: make(map[string]string),
		styles:    make(map[string]string),
		links:     make(map[string]string),
	}
}

func (r *MemoryRoot) SetVariable(name, value string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.variables[name] = value
}

func (r *MemoryRoot) Variable(name string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	value, ok := r.variables[name]
	return value, ok
}

func (r *MemoryRoot) Variables() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]string, len(r.variables))
	for k, v := range r.variables {
		out[k] = v
	}
	return out
}

func (r *MemoryRoot) UpsertStyle(id, css string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.styles[id] = css
}

func (r *MemoryRoot) RemoveStyle(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.styles, id)
}

func (r *MemoryRoot) StyleText(id string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	css, ok := r.styles[id]
	return css, ok
}

func (r *MemoryRoot) UpsertLink(id, href string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.links[id] = href
}

func (r *MemoryRoot) LinkHref(id string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	href, ok := r.links[id]
	return href, ok
}
