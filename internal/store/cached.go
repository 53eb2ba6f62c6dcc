package store

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/specmatrix/internal/cache"
	"github.com/ppiankov/specmatrix/internal/model"
)

// Cached is a read-through cache in front of another DeviceStore. Only slug
// lookups are cached; listings and searches always reach the backing store.
type Cached struct {
	next   DeviceStore
	cache  cache.Cache
	ttl    time.Duration
	logger *zap.Logger
}

// NewCached wraps next with c. A nil cache returns next unchanged.
func NewCached(next DeviceStore, c cache.Cache, ttl time.Duration, logger *zap.Logger) DeviceStore {
	if c == nil {
		return next
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cached{next: next, cache: c, ttl: ttl, logger: logger}
}

// GetBySlug serves from the cache, falling back to the backing store
func (s *Cached) GetBySlug(ctx context.Context, category model.Category, slug string) (model.Device, error) {
	key := cache.DeviceKey(category, slug)

	if data, ok := s.cache.Get(key); ok {
		var d model.Device
		if err := json.Unmarshal(data, &d); err == nil && d.Slug == slug {
			s.logger.Debug("device cache hit", zap.String("category", string(category)), zap.String("slug", slug))
			return d, nil
		}
		delErr := s.cache.Delete(key)
		s.logger.Warn("dropping undecodable device cache entry",
			zap.String("category", string(category)),
			zap.String("slug", slug),
			zap.NamedError("delete_error", delErr))
	}

	d, err := s.next.GetBySlug(ctx, category, slug)
	if err != nil {
		return model.Device{}, err
	}

	if data, err := json.Marshal(d); err == nil {
		if err := s.cache.Set(key, data, s.ttl); err != nil {
			s.logger.Warn("device cache write failed", zap.String("slug", slug), zap.Error(err))
		}
	}
	return d, nil
}

// ListByCategory delegates to the backing store
func (s *Cached) ListByCategory(ctx context.Context, category model.Category) ([]model.Device, error) {
	return s.next.ListByCategory(ctx, category)
}

// SearchByName delegates to the backing store
func (s *Cached) SearchByName(ctx context.Context, category model.Category, text string, limit int) ([]model.Device, error) {
	return s.next.SearchByName(ctx, category, text, limit)
}
