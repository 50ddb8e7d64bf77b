// Package cache is the processed-style cache: a hash-addressed store of
// already-transformed stylesheets, written at build time and served on
// demand so the transform pipeline never re-runs per request.
package cache

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/blake2b"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"sartor/internal/config"
	applog "sartor/internal/log"
	"sartor/models"
)

// ErrNotFound reports a cache miss.
var ErrNotFound = errors.New("cache: entry not found")

// memoryDSN is the sqlite DSN used when no database URL is configured.
const memoryDSN = "file:sartor-cache?mode=memory&cache=shared"

// Store wraps the cache database handle.
type Store struct {
	db *gorm.DB
}

// Open connects the cache backend and migrates its schema. A postgres URL
// selects postgres; anything else is treated as a sqlite DSN, with an
// in-memory database when the URL is empty.
func Open(cfg config.DatabaseConfig) (*Store, error) {
	gormCfg := &gorm.Config{
		PrepareStmt:            true,
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Warn),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}

	url := strings.TrimSpace(cfg.URL)
	var dialector gorm.Dialector
	switch {
	case url == "":
		applog.Debug(context.Background(), "cache database not configured, using in-memory sqlite")
		dialector = sqlite.Open(memoryDSN)
	case strings.HasPrefix(url, "postgres://") || strings.HasPrefix(url, "postgresql://"):
		dialector = postgres.Open(url)
	default:
		dialector = sqlite.Open(url)
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("open cache database: %w", err)
	}

	if err := db.AutoMigrate(&models.ProcessedStyle{}); err != nil {
		return nil, fmt.Errorf("migrate cache schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Sanitize normalizes a source identifier into a cache key: the `@` scope
// marker is stripped and path separators become dashes.
func Sanitize(sourceID string) string {
	key := strings.ReplaceAll(sourceID, "@", "")
	key = strings.ReplaceAll(key, "/", "-")
	return key
}

// ContentAddress returns the hex blake2b-256 digest of the processed CSS.
func ContentAddress(css string) string {
	sum := blake2b.Sum256([]byte(css))
	return hex.EncodeToString(sum[:])
}

// Put upserts the processed stylesheet for a source, keyed by the sanitized
// source id.
func (s *Store) Put(ctx context.Context, sourceID, component, css string) (*models.ProcessedStyle, error) {
	if s == nil || s.db == nil {
		return nil, gorm.ErrInvalidDB
	}

	key := Sanitize(sourceID)
	entry := &models.ProcessedStyle{
		Key:       key,
		SourceID:  sourceID,
		Component: component,
		CSS:       css,
		Hash:      ContentAddress(css),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.ProcessedStyle
		err := tx.Where("key = ?", key).First(&existing).Error
		switch {
		case err == nil:
			updates := map[string]any{
				"source_id": entry.SourceID,
				"component": entry.Component,
				"css":       entry.CSS,
				"hash":      entry.Hash,
			}
			if err := tx.Model(&existing).Updates(updates).Error; err != nil {
				return fmt.Errorf("update cache entry %q: %w", key, err)
			}
			entry.ID = existing.ID
			return nil
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Create(entry).Error; err != nil {
				return fmt.Errorf("create cache entry %q: %w", key, err)
			}
			return nil
		default:
			return fmt.Errorf("find cache entry %q: %w", key, err)
		}
	})
	if err != nil {
		return nil, err
	}

	applog.Debug(ctx, "processed style cached", "key", key, "hash", entry.Hash)
	return entry, nil
}

// Get returns the cached stylesheet for a sanitized key.
func (s *Store) Get(ctx context.Context, key string) (*models.ProcessedStyle, error) {
	if s == nil || s.db == nil {
		return nil, gorm.ErrInvalidDB
	}

	var entry models.ProcessedStyle
	err := s.db.WithContext(ctx).Where("key = ?", key).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find cache entry %q: %w", key, err)
	}
	return &entry, nil
}
