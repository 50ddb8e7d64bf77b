package handlers

import (
	"net/http"

	"github.com/alexedwards/scs/v2"

	"sartor/internal/cache"
	"sartor/internal/theme"
)

const sessionThemeKey = "preview:theme"

var (
	sessionManager *scs.SessionManager
	styleCache     *cache.Store
	themeRegistry  *theme.Registry
	overrideDir    string
)

// Configure installs the shared dependencies used by the HTTP handlers.
func Configure(sm *scs.SessionManager, store *cache.Store, registry *theme.Registry, overrides string) {
	sessionManager = sm
	styleCache = store
	themeRegistry = registry
	overrideDir = overrides
}

// sessionTheme reads the previewer's stored theme selection, empty when none.
func sessionTheme(r *http.Request) string {
	if sessionManager == nil {
		return ""
	}
	return sessionManager.GetString(r.Context(), sessionThemeKey)
}

func setSessionTheme(r *http.Request, name string) {
	if sessionManager == nil {
		return
	}
	sessionManager.Put(r.Context(), sessionThemeKey, name)
}
