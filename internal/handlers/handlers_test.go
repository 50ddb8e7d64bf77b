package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alexedwards/scs/v2"

	"sartor/internal/cache"
	"sartor/internal/config"
	"sartor/internal/document"
	"sartor/internal/theme"
)

func newTestRegistry(t *testing.T) *theme.Registry {
	t.Helper()

	registry := theme.NewRegistry(theme.NewStore(document.NewMemoryRoot()))

	light := theme.NewDefinition("light", map[string]string{"bg": "#ffffff"}, map[string]any{
		".card": "padding: 1rem;",
	})
	dark := theme.NewDefinition("dark", map[string]string{"bg": "#111111"}, nil)
	if !registry.RegisterSource("@acme/widgets", []*theme.Definition{light, dark}, "light") {
		t.Fatal("failed to register library source")
	}

	hostLight := theme.NewDefinition("light", map[string]string{"bg": "#fafafa"}, nil)
	registry.RegisterHost("host-app", []*theme.Definition{hostLight}, "light")

	return registry
}

func newTestCache(t *testing.T) *cache.Store {
	t.Helper()

	store, err := cache.Open(config.DatabaseConfig{URL: filepath.Join(t.TempDir(), "cache.db")})
	if err != nil {
		t.Fatalf("failed to open cache store: %v", err)
	}
	return store
}

func configureTest(t *testing.T, overrides string) *scs.SessionManager {
	t.Helper()

	sm := scs.New()
	Configure(sm, newTestCache(t), newTestRegistry(t), overrides)
	t.Cleanup(func() { Configure(nil, nil, nil, "") })
	return sm
}

func TestHealthReturnsOK(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	Health(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var resp healthResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode health response: %v", err)
	}
	if resp.Status != "ok" {
		t.Errorf("expected status %q, got %q", "ok", resp.Status)
	}
}

func TestStyleCache(t *testing.T) {
	configureTest(t, "")

	entry, err := styleCache.Put(context.Background(), "@acme/widgets", "Button", ".Button_btn_a1b2c{color:red;}")
	if err != nil {
		t.Fatalf("failed to seed cache: %v", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /styles/cache/{key}", StyleCache)

	t.Run("hit", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/styles/cache/"+entry.Key, nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		if got := rec.Header().Get("Content-Type"); !strings.HasPrefix(got, "text/css") {
			t.Errorf("expected text/css content type, got %q", got)
		}
		if got := rec.Header().Get("ETag"); got != `"`+entry.Hash+`"` {
			t.Errorf("expected ETag %q, got %q", entry.Hash, got)
		}
		if rec.Body.String() != entry.CSS {
			t.Errorf("expected body %q, got %q", entry.CSS, rec.Body.String())
		}
	})

	t.Run("miss", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/styles/cache/unknown-key", nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected status 404, got %d", rec.Code)
		}
	})
}

func TestLocalOverride(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "styles.css"), []byte(".override{color:blue;}"), 0o600); err != nil {
		t.Fatalf("failed to write override file: %v", err)
	}
	configureTest(t, dir)

	tests := []struct {
		name       string
		entry      string
		wantStatus int
		wantBody   string
	}{
		{name: "existing override", entry: "styles.css", wantStatus: http.StatusOK, wantBody: ".override{color:blue;}"},
		{name: "missing override", entry: "other.css", wantStatus: http.StatusNotFound},
		{name: "traversal attempt", entry: "../../etc/passwd", wantStatus: http.StatusNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/styles/local/entry", nil)
			req.SetPathValue("entry", tc.entry)
			rec := httptest.NewRecorder()
			LocalOverride(rec, req)

			if rec.Code != tc.wantStatus {
				t.Fatalf("expected status %d, got %d", tc.wantStatus, rec.Code)
			}
			if tc.wantBody != "" && rec.Body.String() != tc.wantBody {
				t.Errorf("expected body %q, got %q", tc.wantBody, rec.Body.String())
			}
		})
	}
}

func TestThemeCSS(t *testing.T) {
	configureTest(t, "")

	mux := http.NewServeMux()
	mux.HandleFunc("GET /themes/{file}", ThemeCSS)

	t.Run("known theme merges sources in order", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/themes/light.css", nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		body := rec.Body.String()
		libraryAt := strings.Index(body, "--bg:#ffffff;")
		hostAt := strings.Index(body, "--bg:#fafafa;")
		if libraryAt < 0 || hostAt < 0 {
			t.Fatalf("expected both source blocks in body, got %q", body)
		}
		if hostAt < libraryAt {
			t.Error("expected the host block after the library block")
		}
		if !strings.Contains(body, ".card {") {
			t.Errorf("expected compiled component styles in body, got %q", body)
		}
	})

	t.Run("unknown theme", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/themes/sepia.css", nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected status 404, got %d", rec.Code)
		}
	})

	t.Run("missing css suffix", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/themes/light", nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected status 404, got %d", rec.Code)
		}
	})
}

func TestUpdateThemePreference(t *testing.T) {
	sm := configureTest(t, "")
	handler := sm.LoadAndSave(http.HandlerFunc(UpdateThemePreference))

	t.Run("valid selection returns json", func(t *testing.T) {
		form := url.Values{"theme": {"dark"}}
		req := httptest.NewRequest(http.MethodPost, "/preferences/theme", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
		}
		var resp preferencesResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.Theme != "dark" {
			t.Errorf("expected theme %q, got %q", "dark", resp.Theme)
		}
	})

	t.Run("valid selection redirects html clients", func(t *testing.T) {
		form := url.Values{"theme": {"light"}}
		req := httptest.NewRequest(http.MethodPost, "/preferences/theme", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("Accept", "text/html")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusSeeOther {
			t.Fatalf("expected status 303, got %d", rec.Code)
		}
		if got := rec.Header().Get("Location"); got != "/preview" {
			t.Errorf("expected redirect to /preview, got %q", got)
		}
	})

	t.Run("unknown theme rejected", func(t *testing.T) {
		form := url.Values{"theme": {"sepia"}}
		req := httptest.NewRequest(http.MethodPost, "/preferences/theme", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", rec.Code)
		}
	})
}

func TestPreviewRendersActiveTheme(t *testing.T) {
	sm := configureTest(t, "")
	handler := sm.LoadAndSave(http.HandlerFunc(Preview))

	req := httptest.NewRequest(http.MethodGet, "/preview", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `id="theme-styles-@acme/widgets"`) {
		t.Errorf("expected library theme block in head, got %q", body)
	}
	if !strings.Contains(body, "--bg:#fafafa;") {
		t.Errorf("expected host variable value to win the cascade, got %q", body)
	}
	if !strings.Contains(body, `<option value="light" selected>`) {
		t.Errorf("expected light selected in theme switcher, got %q", body)
	}
	if !strings.Contains(body, "preview-placeholder") {
		t.Error("expected placeholder markup when no style requested")
	}
}

func TestPreviewIncludesCachedStyle(t *testing.T) {
	sm := configureTest(t, "")
	handler := sm.LoadAndSave(http.HandlerFunc(Preview))

	entry, err := styleCache.Put(context.Background(), "@acme/widgets", "Button", ".Button_btn_a1b2c{color:red;}")
	if err != nil {
		t.Fatalf("failed to seed cache: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/preview?style="+entry.Key, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, ".Button_btn_a1b2c{color:red;}") {
		t.Errorf("expected cached stylesheet inlined, got %q", body)
	}
	if !strings.Contains(body, "Previewing cached styles for @acme/widgets") {
		t.Errorf("expected cached-style message, got %q", body)
	}

	componentAt := strings.Index(body, `id="component-styles"`)
	themeAt := strings.Index(body, `id="theme-styles-@acme/widgets"`)
	if componentAt < 0 || themeAt < 0 {
		t.Fatalf("expected component and theme blocks in head, got %q", body)
	}
	if themeAt < componentAt {
		t.Error("expected theme block after component block in the head")
	}
}
