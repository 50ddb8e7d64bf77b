package server

import (
	"net/http"

	"sartor/internal/handlers"
)

// newRouter wires the style engine's HTTP surface.
func newRouter() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", handlers.Health)

	// Processed stylesheet cache, addressed by sanitized cache key.
	mux.HandleFunc("GET /styles/cache/{key}", handlers.StyleCache)

	// Local override stylesheets served straight off disk during development.
	mux.HandleFunc("GET /styles/local/{entry}", handlers.LocalOverride)

	// Theme stylesheets rendered from every registered source.
	mux.HandleFunc("GET /themes/{file}", handlers.ThemeCSS)

	mux.HandleFunc("GET /preview", handlers.Preview)
	mux.HandleFunc("POST /preferences/theme", handlers.UpdateThemePreference)

	return mux
}
