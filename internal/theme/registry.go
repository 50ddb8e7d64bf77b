package theme

import (
	"context"
	"sync"

	applog "sartor/internal/log"
)

// Source is one origin of theme definitions: a consumed component library,
// or the host application. The host always orders last so its values win.
type Source struct {
	ID           string
	DefaultTheme string
	names        []string
	themes       map[string]*Definition
}

func newSource(id string, themes []*Definition, defaultTheme string) *Source {
	src := &Source{
		ID:           id,
		DefaultTheme: defaultTheme,
		themes:       make(map[string]*Definition, len(themes)),
	}
	for _, def := range themes {
		if _, exists := src.themes[def.Name]; exists {
			continue
		}
		src.names = append(src.names, def.Name)
		src.themes[def.Name] = def
	}
	return src
}

// ThemeNames lists the source's theme names in registration order.
func (s *Source) ThemeNames() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Theme looks up one of the source's definitions.
func (s *Source) Theme(name string) (*Definition, bool) {
	def, ok := s.themes[name]
	return def, ok
}

// Registry is the append-only ordered ledger of theme sources. Registration
// order drives cascade precedence: applying a theme walks sources in order,
// so identically named custom properties resolve last-write-wins with the
// host, always last, on top.
type Registry struct {
	mu      sync.Mutex
	store   *Store
	sources []*Source
	host    *Source
}

// NewRegistry builds a registry applying through the given store.
func NewRegistry(store *Store) *Registry {
	return &Registry{store: store}
}

// RegisterSource appends a library source. Each library registers exactly
// once; a duplicate id is rejected.
func (r *Registry) RegisterSource(id string, themes []*Definition, defaultTheme string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if id == "" {
		return false
	}
	for _, src := range r.sources {
		if src.ID == id {
			applog.Warn(context.Background(), "duplicate theme source registration rejected", "source", id)
			return false
		}
	}
	if r.host != nil && r.host.ID == id {
		applog.Warn(context.Background(), "library source conflicts with host id", "source", id)
		return false
	}
	r.sources = append(r.sources, newSource(id, themes, defaultTheme))
	return true
}

// RegisterHost installs the host application's source. The host entry is
// idempotent by id with last-write-wins, and is always ordered after every
// library source.
func (r *Registry) RegisterHost(id string, themes []*Definition, defaultTheme string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.host = newSource(id, themes, defaultTheme)
}

// Sources returns the application order: libraries first, host last.
func (r *Registry) Sources() []*Source {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.orderedLocked()
}

func (r *Registry) orderedLocked() []*Source {
	out := make([]*Source, 0, len(r.sources)+1)
	out = append(out, r.sources...)
	if r.host != nil {
		out = append(out, r.host)
	}
	return out
}

// ListAllThemeNames returns the union of every source's theme names, ordered
// by first appearance across the registration order.
func (r *Registry) ListAllThemeNames() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[string]struct{})
	var names []string
	for _, src := range r.orderedLocked() {
		for _, name := range src.names {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			names = append(names, name)
		}
	}
	return names
}

// Definition resolves a theme name against the registry, preferring the
// last-ordered source that defines it (the host, when it does).
func (r *Registry) Definition(name string) (*Definition, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var found *Definition
	for _, src := range r.orderedLocked() {
		if def, ok := src.themes[name]; ok {
			found = def
		}
	}
	return found, found != nil
}

// ApplyTheme applies every source that defines the named theme, in
// registration order, through the store's loading path. Each application is
// tagged with the source id so reapplying the same source replaces its own
// block. Sources that do not define the theme are skipped and keep whatever
// they last applied; they do not fall back to their own defaults. Returns
// false, with nothing applied, when no source defines the theme.
func (r *Registry) ApplyTheme(name string) bool {
	return r.ApplyThemeTo(r.store, name)
}

// ApplyThemeTo applies the named theme through a caller-supplied store,
// typically one bound to a per-request document root.
func (r *Registry) ApplyThemeTo(store *Store, name string) bool {
	r.mu.Lock()
	ordered := r.orderedLocked()
	r.mu.Unlock()

	var defining []*Source
	for _, src := range ordered {
		if _, ok := src.themes[name]; ok {
			defining = append(defining, src)
		}
	}
	if len(defining) == 0 {
		applog.Warn(context.Background(), "theme not defined by any source", "theme", name)
		return false
	}

	for _, src := range defining {
		def := src.themes[name]
		applog.Debug(context.Background(), "applying theme source", "theme", name, "source", src.ID)
		store.ApplyDefinition(src.ID, def)
	}
	return true
}
