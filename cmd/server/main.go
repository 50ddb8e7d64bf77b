package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"sartor/internal/cache"
	"sartor/internal/config"
	"sartor/internal/document"
	applog "sartor/internal/log"
	"sartor/internal/server"
	"sartor/internal/theme"
)

// serverLifecycle is the slice of server behavior main drives.
type serverLifecycle interface {
	Start() error
	Stop() error
}

// Seams for tests.
var (
	loadConfigFunc  = config.Load
	setLogLevelFunc = applog.SetLevel
	openCacheFunc   = func(cfg config.DatabaseConfig) (*cache.Store, error) {
		return cache.Open(cfg)
	}
	loadManifestsFunc = theme.LoadManifestDir
	newServerFunc     = func(cfg server.Config) (serverLifecycle, error) {
		return server.New(cfg)
	}
	subscribeShutdownSig = func() (<-chan os.Signal, func()) {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGTERM, syscall.SIGINT)
		return ch, func() { signal.Stop(ch) }
	}
)

func main() {
	os.Exit(run(context.Background()))
}

func run(ctx context.Context) int {
	cfg, err := loadConfigFunc()
	if err != nil {
		applog.Error(ctx, "failed to load configuration", "error", err)
		return 1
	}

	if err := setLogLevelFunc(cfg.Logging.Level); err != nil {
		applog.Error(ctx, "invalid log level", "level", cfg.Logging.Level, "error", err)
		return 1
	}

	store, err := openCacheFunc(cfg.Database)
	if err != nil {
		applog.Error(ctx, "failed to open style cache", "error", err)
		return 1
	}

	registry, err := buildRegistry(ctx, cfg.Styles)
	if err != nil {
		applog.Error(ctx, "failed to load theme manifests", "dir", cfg.Styles.ManifestDir, "error", err)
		return 1
	}

	srv, err := newServerFunc(server.Config{
		Addr:        cfg.Server.Addr,
		Session:     cfg.Server.Session,
		Cache:       store,
		Registry:    registry,
		OverrideDir: cfg.Styles.OverrideDir,
	})
	if err != nil {
		applog.Error(ctx, "failed to build server", "error", err)
		return 1
	}

	errCh := make(chan error, 1)
	go func() {
		applog.Info(ctx, "starting http server", "addr", cfg.Server.Addr)
		errCh <- srv.Start()
	}()

	shutdownCh, unsubscribe := subscribeShutdownSig()
	defer unsubscribe()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			applog.Error(ctx, "server encountered an error", "error", err)
			return 1
		}
	case sig := <-shutdownCh:
		applog.Info(ctx, "shutting down http server", "signal", sig.String())
		if err := srv.Stop(); err != nil {
			applog.Error(ctx, "graceful shutdown failed", "error", err)
			return 1
		}
	}

	return 0
}

// buildRegistry loads every theme manifest and registers it, ordering the
// configured host source last so its values win the cascade.
func buildRegistry(ctx context.Context, styles config.StylesConfig) (*theme.Registry, error) {
	registry := theme.NewRegistry(theme.NewStore(document.NewMemoryRoot()))

	manifests, err := loadManifestsFunc(styles.ManifestDir)
	if err != nil {
		if os.IsNotExist(err) || errors.Is(err, os.ErrNotExist) {
			applog.Warn(ctx, "theme manifest directory missing, serving without themes", "dir", styles.ManifestDir)
			return registry, nil
		}
		return nil, err
	}

	for _, m := range manifests {
		if m.SourceID == styles.HostSource {
			registry.RegisterHost(m.SourceID, m.Definitions(), m.DefaultTheme)
			applog.Debug(ctx, "registered host theme source", "source", m.SourceID)
			continue
		}
		if !registry.RegisterSource(m.SourceID, m.Definitions(), m.DefaultTheme) {
			applog.Warn(ctx, "skipped conflicting theme source", "source", m.SourceID)
		}
	}
	return registry, nil
}
