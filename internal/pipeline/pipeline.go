// Package pipeline declares the boundary to the general-purpose stylesheet
// transform (import inlining, nesting, prefixing, minification). The
// transform itself lives outside this module; scoped output is fed through
// the configured Func before it is cached or emitted.
package pipeline

// Options forwards transform settings to the external processor.
type Options struct {
	// Minify requests a minified emission.
	Minify bool
	// SourceMap requests source map generation.
	SourceMap bool
	// From names the originating file for diagnostics and maps.
	From string
}

// Result is the processed stylesheet.
type Result struct {
	CSS       string
	SourceMap string
	Warnings  []string
}

// Func is the pure processing function contract.
type Func func(css string, opts Options) (Result, error)

// Passthrough returns the input unchanged. It is the default when no
// external processor is wired in.
func Passthrough(css string, _ Options) (Result, error) {
	return Result{CSS: css}, nil
}
