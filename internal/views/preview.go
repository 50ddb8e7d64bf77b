// Package views renders the dev server's preview surface with templ
// components.
package views

import (
	"context"
	"fmt"
	"html"
	"io"

	"github.com/a-h/templ"

	"sartor/internal/document"
)

// PreviewData feeds the component preview page.
type PreviewData struct {
	Title       string
	ThemeNames  []string
	ActiveTheme string
	Head        *document.HeadRoot
	Markup      string
}

// PreviewPage renders a full preview document: the materialized style head,
// a theme switcher, and the component markup. The markup is authored,
// already-scoped component output and is emitted verbatim.
func PreviewPage(data PreviewData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, "<!DOCTYPE html>\n<html>\n<head>\n"); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "<title>%s</title>\n", html.EscapeString(data.Title)); err != nil {
			return err
		}
		if data.Head != nil {
			if err := data.Head.WriteHead(w); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, "</head>\n<body>\n"); err != nil {
			return err
		}
		if err := themeSwitcher(data.ThemeNames, data.ActiveTheme).Render(ctx, w); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "<main class=\"preview-stage\">\n%s\n</main>\n", data.Markup); err != nil {
			return err
		}
		_, err := io.WriteString(w, "</body>\n</html>\n")
		return err
	})
}

func themeSwitcher(names []string, active string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if len(names) == 0 {
			return nil
		}
		if _, err := io.WriteString(w, `<form class="theme-switcher" method="post" action="/preferences/theme">`); err != nil {
			return err
		}
		if _, err := io.WriteString(w, `<select name="theme">`); err != nil {
			return err
		}
		for _, name := range names {
			selected := ""
			if name == active {
				selected = " selected"
			}
			escaped := html.EscapeString(name)
			if _, err := fmt.Fprintf(w, `<option value="%s"%s>%s</option>`, escaped, selected, escaped); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, `</select><button type="submit">Apply</button></form>`); err != nil {
			return err
		}
		_, err := io.WriteString(w, "\n")
		return err
	})
}
