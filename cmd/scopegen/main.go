// Command scopegen builds a component package's style artifacts: it scopes
// every component stylesheet, runs the transform pipeline, rewrites markup
// templates against the scope mapping, records the processed output in the
// style cache, and emits the runtime bootstrap source.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"sartor/internal/bootstrap"
	"sartor/internal/cache"
	"sartor/internal/config"
	"sartor/internal/pipeline"
	"sartor/internal/scoping"
	"sartor/internal/theme"
)

type options struct {
	srcDir    string
	outDir    string
	sourceID  string
	pkg       string
	minify    bool
	noCache   bool
	transform pipeline.Func
}

func main() {
	opts := options{transform: pipeline.Passthrough}
	flag.StringVar(&opts.srcDir, "src", "components", "directory of component stylesheets")
	flag.StringVar(&opts.outDir, "out", "dist", "output directory for built artifacts")
	flag.StringVar(&opts.sourceID, "source", "", "package source identifier, e.g. @acme/widgets")
	flag.StringVar(&opts.pkg, "pkg", "styles", "package name for the generated bootstrap source")
	flag.BoolVar(&opts.minify, "minify", false, "request minified pipeline output")
	flag.BoolVar(&opts.noCache, "no-cache", false, "skip writing the processed-style cache")
	flag.Parse()

	if err := run(context.Background(), opts); err != nil {
		fmt.Fprintf(os.Stderr, "scopegen failed: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options) error {
	if strings.TrimSpace(opts.sourceID) == "" {
		return fmt.Errorf("source id must not be empty")
	}
	if opts.transform == nil {
		opts.transform = pipeline.Passthrough
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	components, err := findComponents(opts.srcDir)
	if err != nil {
		return fmt.Errorf("scan components: %w", err)
	}
	if len(components) == 0 {
		return fmt.Errorf("no component stylesheets found in %s", opts.srcDir)
	}

	if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	var combined strings.Builder
	degraded := 0
	for _, name := range components {
		result, err := buildComponent(opts, name)
		if err != nil {
			return fmt.Errorf("component %s: %w", name, err)
		}
		if result.Degraded {
			degraded++
		}
		combined.WriteString(result.Stylesheet)
		if !strings.HasSuffix(result.Stylesheet, "\n") {
			combined.WriteString("\n")
		}
	}

	processed, err := opts.transform(combined.String(), pipeline.Options{
		Minify: opts.minify,
		From:   opts.srcDir,
	})
	if err != nil {
		return fmt.Errorf("transform pipeline: %w", err)
	}
	for _, warning := range processed.Warnings {
		fmt.Fprintf(os.Stderr, "pipeline warning: %s\n", warning)
	}

	bundlePath := filepath.Join(opts.outDir, "styles.css")
	if err := os.WriteFile(bundlePath, []byte(processed.CSS), 0o644); err != nil {
		return fmt.Errorf("write bundle: %w", err)
	}

	cacheKey := cache.Sanitize(opts.sourceID)
	if !opts.noCache {
		store, err := cache.Open(cfg.Database)
		if err != nil {
			return fmt.Errorf("open cache: %w", err)
		}
		entry, err := store.Put(ctx, opts.sourceID, strings.Join(components, ","), processed.CSS)
		if err != nil {
			return fmt.Errorf("cache processed styles: %w", err)
		}
		cacheKey = entry.Key
	}

	themes, defaultTheme := manifestThemes(cfg.Styles.ManifestDir, opts.sourceID)

	runtime := config.Runtime{
		Environment:  config.EnvLibrary,
		SourceID:     opts.sourceID,
		Themes:       themes,
		DefaultTheme: defaultTheme,
		CacheKey:     cacheKey,
		EntryFile:    "styles.css",
	}

	source, err := bootstrap.Generate(opts.pkg, runtime)
	if err != nil {
		return fmt.Errorf("generate bootstrap: %w", err)
	}
	if err := os.WriteFile(filepath.Join(opts.outDir, "bootstrap_gen.go"), source, 0o644); err != nil {
		return fmt.Errorf("write bootstrap: %w", err)
	}

	fmt.Fprintf(os.Stdout, "Scoped %d components from %s into %s (degraded: %d, cache key: %s)\n",
		len(components), opts.srcDir, opts.outDir, degraded, cacheKey)
	return nil
}

// findComponents lists component names with a stylesheet in the source
// directory, sorted so builds are reproducible.
func findComponents(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".css") {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), ".css"))
	}
	sort.Strings(names)
	return names, nil
}

// buildComponent scopes one component's stylesheet, writes the scoped CSS and
// class-name mapping, and rewrites the component's markup template when one
// exists alongside the stylesheet.
func buildComponent(opts options, name string) (scoping.Result, error) {
	css, err := os.ReadFile(filepath.Join(opts.srcDir, name+".css"))
	if err != nil {
		return scoping.Result{}, fmt.Errorf("read stylesheet: %w", err)
	}

	result, err := scoping.Scope(string(css), name)
	if err != nil {
		return scoping.Result{}, err
	}

	if err := os.WriteFile(filepath.Join(opts.outDir, name+".css"), []byte(result.Stylesheet), 0o644); err != nil {
		return scoping.Result{}, fmt.Errorf("write scoped stylesheet: %w", err)
	}

	mapping := make(map[string]string, len(result.ClassNames))
	for _, class := range result.ClassNames {
		scoped, _ := result.Mapping.Lookup(class)
		mapping[class] = scoped
	}
	encoded, err := json.MarshalIndent(mapping, "", "  ")
	if err != nil {
		return scoping.Result{}, fmt.Errorf("encode class mapping: %w", err)
	}
	if err := os.WriteFile(filepath.Join(opts.outDir, name+".classes.json"), encoded, 0o644); err != nil {
		return scoping.Result{}, fmt.Errorf("write class mapping: %w", err)
	}

	markupPath := filepath.Join(opts.srcDir, name+".html")
	markup, err := os.ReadFile(markupPath)
	if os.IsNotExist(err) {
		return result, nil
	}
	if err != nil {
		return scoping.Result{}, fmt.Errorf("read markup: %w", err)
	}

	rewritten := scoping.RewriteMarkup(string(markup), result.Mapping)
	if err := os.WriteFile(filepath.Join(opts.outDir, name+".html"), []byte(rewritten), 0o644); err != nil {
		return scoping.Result{}, fmt.Errorf("write rewritten markup: %w", err)
	}
	return result, nil
}

// manifestThemes pulls the theme list for the built source from the manifest
// directory. A missing directory or manifest just produces an empty list.
func manifestThemes(dir, sourceID string) ([]string, string) {
	manifests, err := theme.LoadManifestDir(dir)
	if err != nil {
		return nil, ""
	}
	for _, m := range manifests {
		if m.SourceID != sourceID {
			continue
		}
		names := make([]string, 0, len(m.Themes))
		for name := range m.Themes {
			names = append(names, name)
		}
		sort.Strings(names)
		return names, m.DefaultTheme
	}
	return nil, ""
}
