package handlers

import (
	"net/http"
	"sort"
	"strings"

	applog "sartor/internal/log"
	"sartor/internal/theme"
)

// ThemeCSS serves a named theme as a standalone stylesheet, resolved across
// every registered source in registration order so host values override
// library values through the ordinary cascade.
func ThemeCSS(w http.ResponseWriter, r *http.Request) {
	file := r.PathValue("file")
	name := strings.TrimSuffix(file, ".css")
	if name == "" || name == file {
		http.NotFound(w, r)
		return
	}

	var blocks []string
	for _, src := range themeRegistry.Sources() {
		def, ok := src.Theme(name)
		if !ok {
			continue
		}
		blocks = append(blocks, renderDefinition(def))
	}
	if len(blocks) == 0 {
		applog.Debug(r.Context(), "theme stylesheet requested for unknown theme", "theme", name)
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	_, _ = w.Write([]byte(strings.Join(blocks, "\n")))
}

func renderDefinition(def *theme.Definition) string {
	var b strings.Builder

	if len(def.Variables) > 0 {
		names := make([]string, 0, len(def.Variables))
		for name := range def.Variables {
			names = append(names, name)
		}
		sort.Strings(names)

		b.WriteString(":root{")
		for _, name := range names {
			b.WriteString(name)
			b.WriteString(":")
			b.WriteString(def.Variables[name])
			b.WriteString(";")
		}
		b.WriteString("}")
	}

	if css := theme.CompileAll(def.ComponentStyles); css != "" {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(css)
	}
	return b.String()
}
