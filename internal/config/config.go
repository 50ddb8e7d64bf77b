package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Environment identifies which style application strategy is in effect.
type Environment string

const (
	// EnvDevelopment serves styles inline with local overrides from the dev server.
	EnvDevelopment Environment = "development"
	// EnvBuild assumes every stylesheet URL was resolved ahead of time.
	EnvBuild Environment = "build"
	// EnvLibrary is a pre-packaged component library consumed by a host application.
	EnvLibrary Environment = "library"
)

// ParseEnvironment maps a configuration string onto an Environment value.
func ParseEnvironment(value string) (Environment, bool) {
	switch Environment(strings.ToLower(strings.TrimSpace(value))) {
	case EnvDevelopment:
		return EnvDevelopment, true
	case EnvBuild:
		return EnvBuild, true
	case EnvLibrary:
		return EnvLibrary, true
	}
	return "", false
}

// ResolveEnvironment is the single deterministic environment decision.
// An explicit configuration value wins; otherwise a live-reload capability
// implies development, a packaged-library flag implies library, and the
// default is build.
func ResolveEnvironment(explicit string, liveReload, packagedLibrary bool) Environment {
	if env, ok := ParseEnvironment(explicit); ok {
		return env
	}
	if liveReload {
		return EnvDevelopment
	}
	if packagedLibrary {
		return EnvLibrary
	}
	return EnvBuild
}

// Runtime is the literal configuration a built component package carries at
// run time: where its styles live and which themes it ships.
type Runtime struct {
	Environment      Environment `json:"environment"`
	SourceID         string      `json:"sourceId"`
	Themes           []string    `json:"themes"`
	DefaultTheme     string      `json:"defaultTheme"`
	InlineCSS        string      `json:"inlineCss,omitempty"`
	AssetURLs        []string    `json:"assetUrls,omitempty"`
	ProcessedURLs    []string    `json:"processedUrls,omitempty"`
	CacheKey         string      `json:"cacheKey,omitempty"`
	CacheEndpoint    string      `json:"cacheEndpoint,omitempty"`
	OverrideEndpoint string      `json:"overrideEndpoint,omitempty"`
	EntryFile        string      `json:"entryFile,omitempty"`
}

// Config captures the runtime configuration for the dev/cache server.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Logging  LoggingConfig
	Styles   StylesConfig
}

// ServerConfig configures the HTTP server runtime behavior.
type ServerConfig struct {
	Addr    string
	Session SessionConfig
}

// SessionConfig controls session cookie behavior.
type SessionConfig struct {
	Lifetime     time.Duration
	CookieName   string
	CookieDomain string
	CookieSecure bool
}

// DatabaseConfig contains the processed-style cache connection settings.
// An empty URL selects an in-memory sqlite database.
type DatabaseConfig struct {
	URL string
}

// LoggingConfig selects the log verbosity.
type LoggingConfig struct {
	Level string
}

// StylesConfig locates the style inputs served in development. HostSource
// names which manifest source id acts as the host application; the host's
// theme values override every library source.
type StylesConfig struct {
	ManifestDir string
	OverrideDir string
	HostSource  string
}

// Load inspects the environment and builds a Config value.
func Load() (Config, error) {
	cfg := Config{}

	cfg.Server = ServerConfig{
		Addr: firstNonEmpty(
			os.Getenv("SERVER_ADDR"),
			os.Getenv("ADDR"),
			":8080",
		),
		Session: SessionConfig{
			Lifetime:     parseDurationWithDefault(os.Getenv("SESSION_LIFETIME"), 12*time.Hour),
			CookieName:   firstNonEmpty(os.Getenv("SESSION_COOKIE_NAME"), "sartor_session"),
			CookieDomain: os.Getenv("SESSION_COOKIE_DOMAIN"),
			CookieSecure: parseBoolWithDefault(os.Getenv("SESSION_COOKIE_SECURE"), false),
		},
	}

	cfg.Database = DatabaseConfig{
		URL: firstNonEmpty(
			os.Getenv("DATABASE_URL"),
			os.Getenv("DB_URL"),
			"",
		),
	}

	cfg.Logging = LoggingConfig{
		Level: firstNonEmpty(os.Getenv("LOG_LEVEL"), "info"),
	}

	cfg.Styles = StylesConfig{
		ManifestDir: firstNonEmpty(os.Getenv("STYLE_MANIFEST_DIR"), "themes"),
		OverrideDir: firstNonEmpty(os.Getenv("STYLE_OVERRIDE_DIR"), "styles"),
		HostSource:  os.Getenv("STYLE_HOST_SOURCE"),
	}

	if strings.TrimSpace(cfg.Server.Addr) == "" {
		return Config{}, fmt.Errorf("server address must not be empty")
	}

	return cfg, nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}

func parseDurationWithDefault(value string, def time.Duration) time.Duration {
	if strings.TrimSpace(value) == "" {
		return def
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return def
	}
	return parsed
}

func parseBoolWithDefault(value string, def bool) bool {
	if strings.TrimSpace(value) == "" {
		return def
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return def
	}
	return parsed
}
