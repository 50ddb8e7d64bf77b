package document

import (
	"strings"
	"testing"
)

func roots() map[string]func() Root {
	return map[string]func() Root{
		"memory": func() Root { return NewMemoryRoot() },
		"head":   func() Root { return NewHeadRoot() },
	}
}

func TestRootVariableRoundTrip(t *testing.T) {
	t.Parallel()

	for name, build := range roots() {
		build := build
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			root := build()

			if _, ok := root.Variable("--accent"); ok {
				t.Fatalf("unset variable reported present")
			}
			root.SetVariable("--accent", "#ff0000")
			root.SetVariable("--accent", "#00ff00")

			got, ok := root.Variable("--accent")
			if !ok || got != "#00ff00" {
				t.Fatalf("Variable(--accent) = %q, %t", got, ok)
			}
			if vars := root.Variables(); len(vars) != 1 {
				t.Fatalf("Variables() = %v, want single entry", vars)
			}
		})
	}
}

func TestRootStyleUpsertReplacesInPlace(t *testing.T) {
	t.Parallel()

	for name, build := range roots() {
		build := build
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			root := build()

			root.UpsertStyle("component-styles", ".a{color:red}")
			root.UpsertStyle("component-styles", ".a{color:blue}")

			css, ok := root.StyleText("component-styles")
			if !ok || css != ".a{color:blue}" {
				t.Fatalf("StyleText = %q, %t", css, ok)
			}

			root.RemoveStyle("component-styles")
			if _, ok := root.StyleText("component-styles"); ok {
				t.Fatalf("style block survived removal")
			}
		})
	}
}

func TestRootLinkUpsert(t *testing.T) {
	t.Parallel()

	for name, build := range roots() {
		build := build
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			root := build()

			root.UpsertLink("theme-link", "/themes/dark.css")
			root.UpsertLink("theme-link", "/themes/light.css?v=2")

			href, ok := root.LinkHref("theme-link")
			if !ok || href != "/themes/light.css?v=2" {
				t.Fatalf("LinkHref = %q, %t", href, ok)
			}
		})
	}
}

func TestHeadRootPreservesInsertionOrderOnUpsert(t *testing.T) {
	t.Parallel()

	root := NewHeadRoot()
	root.UpsertStyle("base", "body{margin:0}")
	root.UpsertStyle("component", ".btn{color:red}")
	root.UpsertStyle("base", "body{margin:4px}")

	var out strings.Builder
	if err := root.WriteHead(&out); err != nil {
		t.Fatalf("WriteHead error = %v", err)
	}
	head := out.String()

	baseAt := strings.Index(head, `id="base"`)
	componentAt := strings.Index(head, `id="component"`)
	if baseAt < 0 || componentAt < 0 {
		t.Fatalf("missing elements in head: %q", head)
	}
	if baseAt > componentAt {
		t.Fatalf("upsert reordered elements: %q", head)
	}
	if !strings.Contains(head, "body{margin:4px}") {
		t.Fatalf("upsert did not replace content: %q", head)
	}
	if strings.Contains(head, "body{margin:0}") {
		t.Fatalf("stale style content retained: %q", head)
	}
}

func TestHeadRootWritesVariablesBlock(t *testing.T) {
	t.Parallel()

	root := NewHeadRoot()
	root.SetVariable("--bg", "black")
	root.SetVariable("--fg", "white")
	root.UpsertLink("theme-link", "/themes/dark.css")

	var out strings.Builder
	if err := root.WriteHead(&out); err != nil {
		t.Fatalf("WriteHead error = %v", err)
	}
	head := out.String()

	if !strings.Contains(head, ":root{--bg:black;--fg:white;}") {
		t.Fatalf("variables block missing or unordered: %q", head)
	}
	if !strings.Contains(head, `href="/themes/dark.css"`) {
		t.Fatalf("link element missing: %q", head)
	}
}
