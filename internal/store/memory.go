package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/ppiankov/specmatrix/internal/model"
)

// Memory is an in-process DeviceStore used for fixtures and tests
type Memory struct {
	mu      sync.RWMutex
	devices map[model.Category]map[string]model.Device
}

// NewMemory creates a store holding devices
func NewMemory(devices ...model.Device) *Memory {
	m := &Memory{devices: make(map[model.Category]map[string]model.Device)}
	_, _ = m.Upsert(context.Background(), devices)
	return m
}

// GetBySlug returns one device or ErrNotFound
func (m *Memory) GetBySlug(ctx context.Context, category model.Category, slug string) (model.Device, error) {
	if err := ctx.Err(); err != nil {
		return model.Device{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	d, ok := m.devices[category][slug]
	if !ok {
		return model.Device{}, fmt.Errorf("%w: %s/%s", ErrNotFound, category, slug)
	}
	return d, nil
}

// ListByCategory returns every device of a category, newest release first
func (m *Memory) ListByCategory(ctx context.Context, category model.Category) ([]model.Device, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	out := make([]model.Device, 0, len(m.devices[category]))
	for _, d := range m.devices[category] {
		out = append(out, d)
	}
	m.mu.RUnlock()

	SortByRelease(out)
	return out, nil
}

// SearchByName matches a case-insensitive name substring
func (m *Memory) SearchByName(ctx context.Context, category model.Category, text string, limit int) ([]model.Device, error) {
	all, err := m.ListByCategory(ctx, category)
	if err != nil {
		return nil, err
	}

	var out []model.Device
	for _, d := range all {
		if !MatchesName(d, text) {
			continue
		}
		out = append(out, d)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// Upsert inserts or replaces devices by category and slug
func (m *Memory) Upsert(ctx context.Context, devices []model.Device) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, d := range devices {
		if err := validate(d); err != nil {
			return i, err
		}
		if m.devices[d.Category] == nil {
			m.devices[d.Category] = make(map[string]model.Device)
		}
		m.devices[d.Category][d.Slug] = d
	}
	return len(devices), nil
}

// validate rejects records that cannot be addressed by category and slug
func validate(d model.Device) error {
	if d.Slug == "" {
		return fmt.Errorf("device %q: slug is required", d.Name)
	}
	if !d.Category.Valid() {
		return fmt.Errorf("device %q: %w: %q", d.Slug, model.ErrUnknownCategory, d.Category)
	}
	if d.Specs != nil && d.Specs.Category() != d.Category {
		return fmt.Errorf("device %q: %s specs on a %s record", d.Slug, d.Specs.Category(), d.Category)
	}
	return nil
}
