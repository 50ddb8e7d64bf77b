// Package apply is the environment-sensitive style application protocol:
// it decides how a component's style layers reach the executing document
// (inline injection, link tags, processed-cache fetch, or raw asset
// fallback) and applies them in cascade order base, component-library,
// theme. Failures are logged and converted to boolean outcomes; a failed
// layer degrades to the next fallback tier instead of propagating.
package apply

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"sartor/internal/cache"
	"sartor/internal/config"
	"sartor/internal/document"
	applog "sartor/internal/log"
	"sartor/internal/theme"
)

// Fixed element ids: every layer owns one singleton injection point, so
// repeated applications replace instead of accumulating.
const (
	componentStyleID = "component-styles"
	overrideStyleID  = "component-styles-override"
	libraryStyleID   = "library-styles"
	themeLinkID      = "theme-link"
)

const defaultFetchTimeout = 10 * time.Second

// themeLinkPattern recovers the theme name from the singleton link location.
var themeLinkPattern = regexp.MustCompile(`/themes/([A-Za-z0-9_-]+)\.[a-z]+(?:\?.*)?$`)

// Applier orchestrates style application for one component tree. Callers
// serialize their own ApplyStyles and theme-switch invocations; the applier
// guarantees layer ordering within a single call, not across calls.
type Applier struct {
	root   document.Root
	store  *theme.Store
	client *http.Client
	cfg    config.Runtime
	now    func() time.Time

	injected []string
}

// Option tunes an Applier.
type Option func(*Applier)

// WithHTTPClient overrides the fetch client.
func WithHTTPClient(client *http.Client) Option {
	return func(a *Applier) { a.client = client }
}

// WithClock overrides the cache-busting clock.
func WithClock(now func() time.Time) Option {
	return func(a *Applier) { a.now = now }
}

// New builds an Applier over the given root and theme store.
func New(root document.Root, store *theme.Store, cfg config.Runtime, opts ...Option) *Applier {
	a := &Applier{
		root:   root,
		store:  store,
		client: &http.Client{Timeout: defaultFetchTimeout},
		cfg:    cfg,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// SetInjectedStylesheets installs the host-provided list of already
// processed stylesheet URLs. Hosting applications call this before the
// component tree mounts; it is the first tier of the library fallback chain.
func (a *Applier) SetInjectedStylesheets(urls []string) {
	a.injected = append([]string(nil), urls...)
}

// ApplyStyles materializes the component's style layers for the configured
// environment. Returns false when every delivery tier of some layer failed;
// partial failure inside a tier is logged and absorbed.
func (a *Applier) ApplyStyles(ctx context.Context) bool {
	switch a.cfg.Environment {
	case config.EnvDevelopment:
		return a.applyDevelopment(ctx)
	case config.EnvLibrary:
		return a.applyLibrary(ctx)
	default:
		return a.applyBuild(ctx)
	}
}

// applyDevelopment injects the supplied component CSS inline, fetches the
// optional local override, and applies the default theme.
func (a *Applier) applyDevelopment(ctx context.Context) bool {
	if a.cfg.InlineCSS != "" {
		a.root.UpsertStyle(componentStyleID, a.cfg.InlineCSS)
	}

	if a.cfg.OverrideEndpoint != "" && a.cfg.EntryFile != "" {
		url := joinURL(a.cfg.OverrideEndpoint, a.cfg.EntryFile)
		css, err := a.fetchCSS(ctx, url)
		if err != nil {
			// The override is a dev convenience; absence is normal.
			applog.Debug(ctx, "local style override unavailable", "url", url, "error", err)
		} else {
			a.root.UpsertStyle(overrideStyleID, css)
		}
	}

	return a.applyDefaultTheme(ctx)
}

// applyLibrary walks the fallback chain, first success wins: host-injected
// processed URLs, the package's own processed URLs, the processed-style
// cache, then raw per-asset links.
func (a *Applier) applyLibrary(ctx context.Context) bool {
	loaded := false

	switch {
	case a.loadSequential(ctx, a.injected, "host-injected"):
		loaded = true
	case a.loadSequential(ctx, a.cfg.ProcessedURLs, "configured"):
		loaded = true
	case a.loadFromCache(ctx):
		loaded = true
	default:
		for i, url := range a.cfg.AssetURLs {
			a.root.UpsertLink(fmt.Sprintf("asset-%d", i), url)
			loaded = true
		}
		if loaded {
			applog.Warn(ctx, "library styles degraded to raw asset links", "assets", len(a.cfg.AssetURLs))
		}
	}

	if !loaded {
		applog.Error(ctx, "no library style tier succeeded", "source", a.cfg.SourceID)
	}

	themed := a.applyDefaultTheme(ctx)
	return loaded && themed
}

// applyBuild assumes every URL was resolved ahead of time and installs link
// elements in configured order. No network fallback.
func (a *Applier) applyBuild(ctx context.Context) bool {
	for i, url := range a.cfg.AssetURLs {
		a.root.UpsertLink(fmt.Sprintf("asset-%d", i), url)
	}
	return a.applyDefaultTheme(ctx)
}

// loadSequential fetches processed stylesheets one at a time; a URL must
// resolve or fail before the next begins, so insertion order matches list
// order and the cascade is preserved. Failed URLs are logged and skipped.
func (a *Applier) loadSequential(ctx context.Context, urls []string, tier string) bool {
	if len(urls) == 0 {
		return false
	}

	applied := 0
	for i, url := range urls {
		css, err := a.fetchCSS(ctx, url)
		if err != nil {
			applog.Warn(ctx, "processed stylesheet failed to load", "tier", tier, "url", url, "error", err)
			continue
		}
		a.root.UpsertStyle(fmt.Sprintf("%s-%d", libraryStyleID, i), css)
		applied++
	}
	return applied > 0
}

// loadFromCache fetches the processed-style cache entry keyed by the
// sanitized source identifier.
func (a *Applier) loadFromCache(ctx context.Context) bool {
	if a.cfg.CacheEndpoint == "" {
		return false
	}
	key := a.cfg.CacheKey
	if key == "" {
		key = cache.Sanitize(a.cfg.SourceID)
	}
	if key == "" {
		return false
	}

	url := joinURL(a.cfg.CacheEndpoint, key)
	css, err := a.fetchCSS(ctx, url)
	if err != nil {
		applog.Warn(ctx, "processed-style cache fetch failed", "url", url, "error", err)
		return false
	}
	a.root.UpsertStyle(libraryStyleID, css)
	return true
}

// applyDefaultTheme applies the configured default theme: through the store
// when one is initialized, otherwise as a theme link.
func (a *Applier) applyDefaultTheme(ctx context.Context) bool {
	name := a.cfg.DefaultTheme
	if name == "" {
		return true
	}

	if a.store != nil && a.store.Initialized() {
		if a.store.SwitchTheme(name) {
			return true
		}
		applog.Warn(ctx, "default theme unknown to store, falling back to theme link", "theme", name)
	}

	a.ApplyThemeLink(name)
	return true
}

// ApplyThemeLink points the singleton theme link at the named theme. The
// element is keyed by a fixed id and updated in place with a cache-busting
// query parameter; repeated calls never create duplicates.
func (a *Applier) ApplyThemeLink(name string) {
	href := fmt.Sprintf("/themes/%s.css?v=%d", name, a.now().Unix())
	a.root.UpsertLink(themeLinkID, href)
}

// CurrentThemeName recovers the active theme from the theme link location.
// A missing link means the baseline inline theme, reported as the configured
// default.
func (a *Applier) CurrentThemeName() string {
	href, ok := a.root.LinkHref(themeLinkID)
	if ok {
		if m := themeLinkPattern.FindStringSubmatch(href); m != nil {
			return m[1]
		}
	}
	return a.cfg.DefaultTheme
}

// fetchCSS performs a best-effort stylesheet fetch. Non-2xx statuses are
// errors so callers can degrade to the next tier.
func (a *Applier) fetchCSS(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "text/css")

	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch stylesheet: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("fetch stylesheet: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read stylesheet body: %w", err)
	}
	return string(body), nil
}

func joinURL(base, path string) string {
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(path, "/")
}
