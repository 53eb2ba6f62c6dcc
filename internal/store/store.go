// Package store defines the device record collaborator and its in-process
// implementations.
package store

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/ppiankov/specmatrix/internal/model"
)

// ErrNotFound is returned when no device matches a slug within a category
var ErrNotFound = errors.New("device not found")

// DeviceStore is the read-only record source the engine consumes
type DeviceStore interface {
	// GetBySlug returns one device or ErrNotFound
	GetBySlug(ctx context.Context, category model.Category, slug string) (model.Device, error)
	// ListByCategory returns every device of a category, newest release first
	ListByCategory(ctx context.Context, category model.Category) ([]model.Device, error)
	// SearchByName matches a case-insensitive substring of the display name,
	// newest release first, at most limit results (limit <= 0 means no limit)
	SearchByName(ctx context.Context, category model.Category, text string, limit int) ([]model.Device, error)
}

// Writer accepts device records from an import
type Writer interface {
	Upsert(ctx context.Context, devices []model.Device) (int, error)
}

// SortByRelease orders devices newest release first; ties and unparsable
// dates fall back to name order
func SortByRelease(devices []model.Device) {
	slices.SortStableFunc(devices, func(a, b model.Device) int {
		if c := cmp.Compare(model.ReleaseKey(b.ReleaseDate), model.ReleaseKey(a.ReleaseDate)); c != 0 {
			return c
		}
		return cmp.Compare(a.DisplayName(), b.DisplayName())
	})
}

// MatchesName reports whether text is a case-insensitive substring of the name
func MatchesName(d model.Device, text string) bool {
	return strings.Contains(strings.ToLower(d.DisplayName()), strings.ToLower(strings.TrimSpace(text)))
}
