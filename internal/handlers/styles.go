package handlers

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"sartor/internal/cache"
	applog "sartor/internal/log"
)

// StyleCache serves processed stylesheets from the hash-addressed cache.
// Consumers treat this endpoint as best-effort, so a miss is a plain 404.
func StyleCache(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimSpace(r.PathValue("key"))
	if key == "" {
		http.NotFound(w, r)
		return
	}

	entry, err := styleCache.Get(r.Context(), key)
	if errors.Is(err, cache.ErrNotFound) {
		applog.Debug(r.Context(), "processed style cache miss", "key", key)
		http.NotFound(w, r)
		return
	}
	if err != nil {
		applog.Error(r.Context(), "processed style cache lookup failed", "key", key, "error", err)
		http.Error(w, "cache unavailable", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Header().Set("ETag", `"`+entry.Hash+`"`)
	_, _ = w.Write([]byte(entry.CSS))
}

// LocalOverride serves developer-local stylesheet overrides. Absence is the
// normal case and yields a 404 the client ignores.
func LocalOverride(w http.ResponseWriter, r *http.Request) {
	entry := strings.TrimSpace(r.PathValue("entry"))
	if entry == "" || overrideDir == "" {
		http.NotFound(w, r)
		return
	}

	// Confine lookups to the override directory.
	clean := filepath.Clean("/" + entry)
	path := filepath.Join(overrideDir, clean)
	if !strings.HasPrefix(path, filepath.Clean(overrideDir)+string(os.PathSeparator)) {
		http.NotFound(w, r)
		return
	}

	css, err := os.ReadFile(path)
	if err != nil {
		applog.Debug(r.Context(), "local override not found", "entry", entry)
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	_, _ = w.Write(css)
}
