package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ppiankov/specmatrix/internal/cache"
	"github.com/ppiankov/specmatrix/internal/model"
	"github.com/ppiankov/specmatrix/internal/selection"
	"github.com/ppiankov/specmatrix/internal/store"
	"github.com/ppiankov/specmatrix/internal/store/sqlite"
)

// app bundles the services a command needs
type app struct {
	cfg        *model.Config
	logger     *zap.Logger
	db         *sqlite.Store
	devices    store.DeviceStore // db behind the record cache
	cache      cache.Cache
	selections *selection.Store
	backend    *selection.FileBackend
}

// openApp loads configuration and opens the device database. An empty
// database is seeded with the bundled sample catalog.
func openApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(cfg.Output.Verbose)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Store.Path), 0755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}
	db, err := sqlite.Open(cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	c := cache.FromConfig(cfg.Cache)
	a := &app{
		cfg:     cfg,
		logger:  logger,
		db:      db,
		devices: store.NewCached(db, c, cfg.Cache.MemoryTTL, logger),
		cache:   c,
		backend: selection.NewFileBackend(cfg.Selection.Dir),
	}

	if err := a.seedIfEmpty(ctx); err != nil {
		_ = a.Close()
		return nil, err
	}

	a.selections = selection.NewStore(a.backend,
		selection.WithLogger(logger),
		selection.WithKnown(a.known(ctx)),
	)
	return a, nil
}

// Close releases the database and flushes the logger
func (a *app) Close() error {
	_ = a.logger.Sync()
	return a.db.Close()
}

func (a *app) seedIfEmpty(ctx context.Context) error {
	counts, err := a.db.Count(ctx)
	if err != nil {
		return fmt.Errorf("count devices: %w", err)
	}
	total := 0
	for _, n := range counts {
		total += n
	}
	if total > 0 {
		return nil
	}

	devices, err := store.SampleDevices()
	if err != nil {
		return fmt.Errorf("load sample devices: %w", err)
	}
	n, err := a.db.Upsert(ctx, devices)
	if err != nil {
		return fmt.Errorf("seed store: %w", err)
	}
	a.logger.Info("seeded empty store with sample devices", zap.Int("devices", n))
	return nil
}

// known reports whether a slug exists in the store, so stale persisted
// slugs are dropped when a set is read. Lookup failures keep the slug: only
// ErrNotFound removes it from a saved set.
func (a *app) known(ctx context.Context) selection.KnownFunc {
	return func(category model.Category, slug string) bool {
		_, err := a.devices.GetBySlug(ctx, category, slug)
		if errors.Is(err, store.ErrNotFound) {
			return false
		}
		if err != nil {
			a.logger.Warn("device lookup failed, keeping slug", zap.String("slug", slug), zap.Error(err))
		}
		return true
	}
}

// parseCategory resolves a --category flag
func parseCategory(s string) (model.Category, error) {
	c, err := model.ParseCategory(s)
	if err != nil {
		return "", fmt.Errorf("%w (supported: phone, tablet, laptop, watch, accessory)", err)
	}
	return c, nil
}
