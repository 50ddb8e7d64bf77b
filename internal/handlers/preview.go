package handlers

import (
	"errors"
	"html"
	"net/http"
	"strings"

	"sartor/internal/cache"
	"sartor/internal/document"
	applog "sartor/internal/log"
	"sartor/internal/theme"
	"sartor/internal/views"
)

const defaultPreviewMarkup = `<div class="preview-placeholder">No component selected. Pass ?style={cache-key} to preview a cached stylesheet.</div>`

// Preview renders a component preview page: theme variables and styles from
// the registry, an optional cached stylesheet, and the theme switcher. The
// active theme comes from the session preference, falling back to the first
// theme any source defines.
func Preview(w http.ResponseWriter, r *http.Request) {
	names := themeRegistry.ListAllThemeNames()

	active := sessionTheme(r)
	if !knownTheme(active) && len(names) > 0 {
		active = names[0]
	}

	root := document.NewHeadRoot()

	// Component styles go in before the theme so the head keeps the
	// base, component, theme cascade order.
	markup := defaultPreviewMarkup
	if key := strings.TrimSpace(r.URL.Query().Get("style")); key != "" {
		entry, err := styleCache.Get(r.Context(), key)
		switch {
		case errors.Is(err, cache.ErrNotFound):
			applog.Debug(r.Context(), "preview style not cached", "key", key)
		case err != nil:
			applog.Error(r.Context(), "preview style lookup failed", "key", key, "error", err)
		default:
			root.UpsertStyle("component-styles", entry.CSS)
			markup = `<div class="preview-placeholder">Previewing cached styles for ` +
				html.EscapeString(entry.SourceID) + `</div>`
		}
	}

	store := theme.NewStore(root)
	if active != "" {
		themeRegistry.ApplyThemeTo(store, active)
	}

	page := views.PreviewPage(views.PreviewData{
		Title:       "Component preview",
		ThemeNames:  names,
		ActiveTheme: active,
		Head:        root,
		Markup:      markup,
	})
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := page.Render(r.Context(), w); err != nil {
		applog.Error(r.Context(), "failed to render preview page", "error", err)
	}
}
