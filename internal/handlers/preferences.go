package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	applog "sartor/internal/log"
)

type preferencesResponse struct {
	Theme string `json:"theme"`
}

// UpdateThemePreference stores the previewer's theme selection in the
// session. The selection must name a theme some registered source defines.
func UpdateThemePreference(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		applog.Error(r.Context(), "failed to parse preferences form", "error", err)
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}

	name := strings.TrimSpace(r.FormValue("theme"))
	if !knownTheme(name) {
		applog.Debug(r.Context(), "received invalid theme selection", "value", name)
		http.Error(w, "invalid theme selection", http.StatusBadRequest)
		return
	}

	setSessionTheme(r, name)

	if strings.Contains(r.Header.Get("Accept"), "text/html") {
		http.Redirect(w, r, "/preview", http.StatusSeeOther)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(preferencesResponse{Theme: name}); err != nil {
		applog.Error(r.Context(), "failed to encode preferences response", "error", err)
	}
}

func knownTheme(name string) bool {
	if name == "" || themeRegistry == nil {
		return false
	}
	for _, candidate := range themeRegistry.ListAllThemeNames() {
		if candidate == name {
			return true
		}
	}
	return false
}
