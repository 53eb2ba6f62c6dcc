package score

import (
	"github.com/ppiankov/specmatrix/internal/catalog"
	"github.com/ppiankov/specmatrix/internal/model"
)

// WinnerResult is the outcome of resolving one spec across a device set
type WinnerResult struct {
	Key     string   `json:"key"`
	Winners []string `json:"winners"` // Slugs tied for the maximum, slot order
	Max     float64  `json:"max"`
}

// IsWinner reports whether slug is among the winners
func (r WinnerResult) IsWinner(slug string) bool {
	for _, w := range r.Winners {
		if w == slug {
			return true
		}
	}
	return false
}

// Resolver determines which devices hold the best value of a spec
type Resolver struct {
	catalog *catalog.Catalog
}

// NewResolver creates a resolver over a catalog (nil uses the default catalog)
func NewResolver(c *catalog.Catalog) *Resolver {
	if c == nil {
		c = catalog.Default
	}
	return &Resolver{catalog: c}
}

// Resolve returns every device whose value equals the set's maximum.
//
// Only comparable keys are evaluated. Missing or non-numeric values count
// as 0. The winner set is empty when the maximum is 0, when fewer than two
// devices are compared, or when the set mixes categories.
func (r *Resolver) Resolve(devices []model.Device, key string) WinnerResult {
	result := WinnerResult{Key: key}
	if len(devices) < 2 {
		return result
	}

	cat := devices[0].Category
	for _, d := range devices[1:] {
		if d.Category != cat {
			return result
		}
	}
	if !r.catalog.IsComparable(cat, key) {
		return result
	}

	values := make([]float64, len(devices))
	best := 0.0
	for i, d := range devices {
		values[i] = numericValue(d, key)
		if values[i] > best {
			best = values[i]
		}
	}
	if best == 0 {
		return result
	}

	// Collect all ties; do not stop at the first match
	for i, d := range devices {
		if values[i] == best {
			result.Winners = append(result.Winners, d.Slug)
		}
	}
	result.Max = best

	return result
}

// numericValue extracts a value for max-comparison; absent and text count as 0
func numericValue(d model.Device, key string) float64 {
	n, ok := model.Lookup(d, key).Number()
	if !ok {
		return 0
	}
	return n
}
