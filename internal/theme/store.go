package theme

import (
	"context"
	"fmt"
	"sync"

	"sartor/internal/document"
	applog "sartor/internal/log"
)

// EventName identifies a store notification.
type EventName string

const (
	// EventInitialized fires once after a successful Initialize.
	EventInitialized EventName = "initialized"
	// EventThemeChanged fires after a theme switch takes effect.
	EventThemeChanged EventName = "themeChanged"
	// EventVariableChanged fires after SetCSSVariable writes a value.
	EventVariableChanged EventName = "variableChanged"
)

// Event is the payload delivered to subscribers.
type Event struct {
	Name       EventName
	Previous   string
	Current    string
	Definition *Definition
	Variable   string
	Value      string
}

// Subscriber receives every store event from the moment of subscription.
type Subscriber func(Event)

// InitOptions tunes Initialize.
type InitOptions struct {
	// InitialTheme overrides DefaultTheme as the first active theme.
	InitialTheme string
	// DefaultTheme is the fallback active theme and the name reported when
	// no theme link exists.
	DefaultTheme string
}

// storeStyleID keys the single style block the store owns. Theme switches
// replace this block in place; they never append a second one.
const storeStyleID = "theme-styles"

// Store is the runtime theme state machine. It is explicitly constructed
// and passed by reference; there is no process-wide instance. A Store moves
// from uninitialized to initialized once and then self-loops on switches,
// additions, removals, and variable writes.
type Store struct {
	mu           sync.Mutex
	root         document.Root
	themes       map[string]*Definition
	current      string
	defaultTheme string
	initialized  bool
	subscribers  map[int]Subscriber
	nextToken    int
}

// NewStore builds an empty store writing through the given root.
func NewStore(root document.Root) *Store {
	return &Store{
		root:        root,
		themes:      make(map[string]*Definition),
		subscribers: make(map[int]Subscriber),
	}
}

// Initialize populates the theme map, activates the initial theme, and emits
// the initialized event. An unknown initial theme is fatal: logged and
// returned to the caller.
func (s *Store) Initialize(themes []*Definition, opts InitOptions) error {
	s.mu.Lock()
	if s.initialized {
		s.mu.Unlock()
		return fmt.Errorf("theme store already initialized")
	}

	for _, def := range themes {
		s.themes[def.Name] = def
	}

	s.defaultTheme = opts.DefaultTheme
	initial := opts.InitialTheme
	if initial == "" {
		initial = opts.DefaultTheme
	}

	def, ok := s.themes[initial]
	if !ok {
		s.mu.Unlock()
		err := fmt.Errorf("initial theme %q is not registered", initial)
		applog.Error(context.Background(), "theme store initialization failed", "error", err)
		return err
	}

	s.applyLocked(storeStyleID, def)
	s.current = initial
	s.initialized = true
	s.mu.Unlock()

	s.emit(Event{Name: EventInitialized, Current: initial, Definition: def})
	return nil
}

// Initialized reports whether Initialize has completed.
func (s *Store) Initialized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initialized
}

// CurrentTheme returns the active theme name, empty before initialization.
func (s *Store) CurrentTheme() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// DefaultTheme returns the configured fallback theme name.
func (s *Store) DefaultTheme() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.defaultTheme
}

// Theme looks up a registered definition by name.
func (s *Store) Theme(name string) (*Definition, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	def, ok := s.themes[name]
	return def, ok
}

// SwitchTheme activates a registered theme. Switching to the active theme is
// a no-op success and emits nothing. Switching before initialization or to
// an unknown name fails without mutating state.
func (s *Store) SwitchTheme(name string) bool {
	s.mu.Lock()
	if !s.initialized {
		s.mu.Unlock()
		applog.Warn(context.Background(), "theme switch before initialization", "theme", name)
		return false
	}
	if name == s.current {
		s.mu.Unlock()
		return true
	}
	def, ok := s.themes[name]
	if !ok {
		s.mu.Unlock()
		applog.Warn(context.Background(), "theme switch to unknown theme", "theme", name)
		return false
	}

	previous := s.current
	s.applyLocked(storeStyleID, def)
	s.current = name
	s.mu.Unlock()

	s.emit(Event{Name: EventThemeChanged, Previous: previous, Current: name, Definition: def})
	return true
}

// AddTheme registers a new definition. Duplicate names are rejected without
// an event.
func (s *Store) AddTheme(def *Definition) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if def == nil || def.Name == "" {
		return false
	}
	if _, exists := s.themes[def.Name]; exists {
		return false
	}
	s.themes[def.Name] = def
	return true
}

// RemoveTheme unregisters a definition. Removing the active theme or an
// unknown name is rejected without mutation.
func (s *Store) RemoveTheme(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if name == s.current {
		return false
	}
	if _, exists := s.themes[name]; !exists {
		return false
	}
	delete(s.themes, name)
	return true
}

// Subscribe registers a callback for every subsequent event and returns its
// unsubscribe function. A panicking subscriber is recovered and logged and
// never affects other subscribers.
func (s *Store) Subscribe(fn Subscriber) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	token := s.nextToken
	s.nextToken++
	s.subscribers[token] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers, token)
	}
}

// CSSVariable reads a custom property from the root, normalizing the name.
func (s *Store) CSSVariable(name string) (string, bool) {
	return s.root.Variable(NormalizeVariableName(name))
}

// SetCSSVariable writes a custom property to the root and emits
// variableChanged.
func (s *Store) SetCSSVariable(name, value string) {
	normalized := NormalizeVariableName(name)
	s.root.SetVariable(normalized, value)
	s.emit(Event{Name: EventVariableChanged, Variable: normalized, Value: value})
}

// ApplyDefinition runs a definition through the loading path under a
// caller-supplied tag, so multi-source application can later replace the
// same source's block cleanly. The active-theme pointer is untouched.
func (s *Store) ApplyDefinition(sourceID string, def *Definition) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applyLocked("theme-styles-"+sourceID, def)
}

// applyLocked writes the definition's variables and replaces the tagged
// style block. Remove-then-insert keeps a reapplied block at the cascade
// tail instead of its stale position.
func (s *Store) applyLocked(styleID string, def *Definition) {
	for name, value := range def.Variables {
		s.root.SetVariable(name, value)
	}

	s.root.RemoveStyle(styleID)
	if css := CompileAll(def.ComponentStyles); css != "" {
		s.root.UpsertStyle(styleID, css)
	}
}

func (s *Store) emit(ev Event) {
	s.mu.Lock()
	subscribers := make([]Subscriber, 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subscribers = append(subscribers, fn)
	}
	s.mu.Unlock()

	for _, fn := range subscribers {
		s.notify(fn, ev)
	}
}

func (s *Store) notify(fn Subscriber, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			applog.Error(context.Background(), "theme subscriber panicked",
				"event", string(ev.Name), "panic", fmt.Sprint(r))
		}
	}()
	fn(ev)
}
