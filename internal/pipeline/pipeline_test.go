package pipeline

import "testing"

func TestPassthroughReturnsInputUnchanged(t *testing.T) {
	t.Parallel()

	const css = ".btn { color: red; }"
	result, err := Passthrough(css, Options{Minify: true, From: "Button.css"})
	if err != nil {
		t.Fatalf("passthrough returned error: %v", err)
	}
	if result.CSS != css {
		t.Errorf("expected input unchanged, got %q", result.CSS)
	}
	if result.SourceMap != "" || len(result.Warnings) != 0 {
		t.Error("expected no source map or warnings from passthrough")
	}
}
