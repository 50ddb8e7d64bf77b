package theme

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Manifest is the TOML description of one theme source: the source id, its
// default theme, and the themes it ships.
//
//	source = "widgets"
//	default_theme = "light"
//
//	[themes.light.variables]
//	background = "#ffffff"
//
//	[themes.light.styles.".panel"]
//	border = "1px solid #ddd"
type Manifest struct {
	SourceID     string                   `toml:"source"`
	DefaultTheme string                   `toml:"default_theme"`
	Themes       map[string]ManifestTheme `toml:"themes"`
}

// ManifestTheme is one named theme inside a manifest.
type ManifestTheme struct {
	Variables map[string]string `toml:"variables"`
	Styles    map[string]any    `toml:"styles"`
}

// ParseManifest decodes manifest TOML and validates the required fields.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	if strings.TrimSpace(m.SourceID) == "" {
		return nil, fmt.Errorf("manifest missing source id")
	}
	if len(m.Themes) == 0 {
		return nil, fmt.Errorf("manifest %q declares no themes", m.SourceID)
	}
	if m.DefaultTheme == "" {
		return nil, fmt.Errorf("manifest %q missing default theme", m.SourceID)
	}
	if _, ok := m.Themes[m.DefaultTheme]; !ok {
		return nil, fmt.Errorf("manifest %q default theme %q is not declared", m.SourceID, m.DefaultTheme)
	}
	return &m, nil
}

// LoadManifest reads and parses a manifest file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return ParseManifest(data)
}

// LoadManifestDir parses every .toml file in a directory, sorted by file
// name so registration order is reproducible.
func LoadManifestDir(dir string) ([]*Manifest, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read manifest dir: %w", err)
	}

	var manifests []*Manifest
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".toml") {
			continue
		}
		m, err := LoadManifest(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("manifest %s: %w", entry.Name(), err)
		}
		manifests = append(manifests, m)
	}
	return manifests, nil
}

// Definitions converts the manifest's themes into Definition values, sorted
// by theme name for a stable registration order.
func (m *Manifest) Definitions() []*Definition {
	names := make([]string, 0, len(m.Themes))
	for name := range m.Themes {
		names = append(names, name)
	}
	sort.Strings(names)

	defs := make([]*Definition, 0, len(names))
	for _, name := range names {
		entry := m.Themes[name]
		defs = append(defs, NewDefinition(name, entry.Variables, entry.Styles))
	}
	return defs
}
