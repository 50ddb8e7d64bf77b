// Package bootstrap emits the runtime bootstrap source a built component
// package carries: a generated Go file embedding the literal runtime
// configuration (theme list, default theme, asset locations, environment
// tag) for the consuming application to register.
package bootstrap

import (
	"bytes"
	"encoding/json"
	"fmt"
	"go/format"
	"strconv"
	"text/template"

	"sartor/internal/config"
)

// The generated file ships inside the consuming component package, outside
// this module, so it must not import anything under sartor/internal. The
// Runtime mirror below carries the same JSON shape as config.Runtime.
const fileTemplate = `// Code generated by scopegen. DO NOT EDIT.

package {{.Package}}

import "encoding/json"

// Runtime is the style runtime configuration baked in at build time.
type Runtime struct {
	Environment      string   ` + "`json:\"environment\"`" + `
	SourceID         string   ` + "`json:\"sourceId\"`" + `
	Themes           []string ` + "`json:\"themes\"`" + `
	DefaultTheme     string   ` + "`json:\"defaultTheme\"`" + `
	InlineCSS        string   ` + "`json:\"inlineCss,omitempty\"`" + `
	AssetURLs        []string ` + "`json:\"assetUrls,omitempty\"`" + `
	ProcessedURLs    []string ` + "`json:\"processedUrls,omitempty\"`" + `
	CacheKey         string   ` + "`json:\"cacheKey,omitempty\"`" + `
	CacheEndpoint    string   ` + "`json:\"cacheEndpoint,omitempty\"`" + `
	OverrideEndpoint string   ` + "`json:\"overrideEndpoint,omitempty\"`" + `
	EntryFile        string   ` + "`json:\"entryFile,omitempty\"`" + `
}

const runtimeConfigJSON = {{.ConfigLiteral}}

// RuntimeConfig returns the style runtime configuration baked in at build
// time.
func RuntimeConfig() Runtime {
	var cfg Runtime
	if err := json.Unmarshal([]byte(runtimeConfigJSON), &cfg); err != nil {
		panic("invalid embedded runtime config: " + err.Error())
	}
	return cfg
}
`

var bootstrapTemplate = template.Must(template.New("bootstrap").Parse(fileTemplate))

// Generate renders the bootstrap source for a package. Output is gofmt'd.
func Generate(pkg string, cfg config.Runtime) ([]byte, error) {
	if pkg == "" {
		return nil, fmt.Errorf("package name must not be empty")
	}

	payload, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("marshal runtime config: %w", err)
	}

	var buf bytes.Buffer
	err = bootstrapTemplate.Execute(&buf, struct {
		Package       string
		ConfigLiteral string
	}{
		Package:       pkg,
		ConfigLiteral: strconv.Quote(string(payload)),
	})
	if err != nil {
		return nil, fmt.Errorf("render bootstrap: %w", err)
	}

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("format bootstrap: %w", err)
	}
	return formatted, nil
}
