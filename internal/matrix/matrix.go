// Package matrix assembles the per-attribute comparison view of a device set.
package matrix

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ppiankov/specmatrix/internal/catalog"
	"github.com/ppiankov/specmatrix/internal/history"
	"github.com/ppiankov/specmatrix/internal/model"
	"github.com/ppiankov/specmatrix/internal/score"
)

// Derived longevity row
const (
	GroupLongevity = "Longevity"
	KeyLongevity   = "support_years_remaining"
)

// Matrix is the grouped comparison of one device set
type Matrix struct {
	Category model.Category
	Devices  []model.Device // Slot order
	Groups   []model.SpecGroup
}

// Empty reports whether the matrix has no devices to compare
func (m Matrix) Empty() bool {
	return len(m.Devices) == 0
}

// Row returns the row for key, if present
func (m Matrix) Row(key string) (model.SpecRow, bool) {
	for _, g := range m.Groups {
		for _, r := range g.Rows {
			if r.Definition.Key == key {
				return r, true
			}
		}
	}
	return model.SpecRow{}, false
}

// Builder produces matrices from a catalog
type Builder struct {
	catalog       *catalog.Catalog
	resolver      *score.Resolver
	longevity     *score.Longevity
	withLongevity bool
	referenceYear int
}

// NewBuilder creates a builder over c (nil uses the default catalog)
func NewBuilder(c *catalog.Catalog) *Builder {
	if c == nil {
		c = catalog.Default
	}
	return &Builder{
		catalog:   c,
		resolver:  score.NewResolver(c),
		longevity: score.NewLongevity(),
	}
}

// WithLongevity returns a builder that appends the support forecast group.
// A referenceYear of 0 uses the current year.
func (b *Builder) WithLongevity(referenceYear int) *Builder {
	out := *b
	out.withLongevity = true
	out.referenceYear = referenceYear
	return &out
}

// Build lays out every catalog row of category for devices. Devices of other
// categories are left out. No devices yields an empty matrix.
func (b *Builder) Build(category model.Category, devices []model.Device) Matrix {
	m := Matrix{Category: category}
	for _, d := range devices {
		if d.Category == category {
			m.Devices = append(m.Devices, d)
		}
	}
	if len(m.Devices) == 0 {
		return m
	}

	var current *model.SpecGroup
	for _, def := range b.catalog.Specs(category) {
		if current == nil || current.Name != def.Group {
			m.Groups = append(m.Groups, model.SpecGroup{Name: def.Group})
			current = &m.Groups[len(m.Groups)-1]
		}
		current.Rows = append(current.Rows, b.row(def, m.Devices))
	}

	if b.withLongevity {
		m.Groups = append(m.Groups, model.SpecGroup{
			Name: GroupLongevity,
			Rows: []model.SpecRow{b.longevityRow(category, m.Devices)},
		})
	}

	return m
}

func (b *Builder) row(def model.SpecDefinition, devices []model.Device) model.SpecRow {
	row := model.SpecRow{
		Definition: def,
		Cells:      make([]model.Cell, len(devices)),
	}

	var result score.WinnerResult
	if def.Comparable {
		result = b.resolver.Resolve(devices, def.Key)
		row.Winners = result.Winners
	}

	for i, d := range devices {
		v := model.Lookup(d, def.Key)
		row.Cells[i] = model.Cell{
			Slug:    d.Slug,
			Value:   v,
			Display: v.Display(def.Unit),
			Winner:  result.IsWinner(d.Slug),
		}
	}
	return row
}

func (b *Builder) longevityRow(category model.Category, devices []model.Device) model.SpecRow {
	year := b.referenceYear
	if year == 0 {
		year = b.longevity.CurrentYear()
	}

	def := model.SpecDefinition{
		Category:   category,
		Group:      GroupLongevity,
		Key:        KeyLongevity,
		Label:      "Support Remaining",
		Unit:       " yrs",
		Comparable: true,
	}
	row := model.SpecRow{
		Definition: def,
		Cells:      make([]model.Cell, len(devices)),
		Winners:    b.longevity.Winners(devices, year),
	}

	for i, f := range b.longevity.ForecastAll(devices, year) {
		v := model.Value{}
		if f.Known {
			v = model.Number(float64(f.YearsRemaining))
		}
		row.Cells[i] = model.Cell{
			Slug:    f.DeviceID,
			Value:   v,
			Display: v.Display(def.Unit),
			Winner:  contains(row.Winners, f.DeviceID),
		}
	}
	return row
}

// Highlights returns plain-language insights about a matrix: the performance
// leader by multi-core score and the device with the longest support. Sets of
// fewer than two devices have none.
func Highlights(m Matrix) []string {
	if len(m.Devices) < 2 {
		return nil
	}

	var out []string
	if row, ok := m.Row("geekbench_multi"); ok && len(row.Winners) > 0 {
		names := namesOf(m.Devices, row.Winners)
		verb := "stands out as the power leader"
		if len(names) > 1 {
			verb = "share the power lead"
		}
		out = append(out, fmt.Sprintf("The %s %s with a Geekbench score of %s.",
			joinNames(names), verb, strconv.FormatFloat(maxOf(row), 'f', -1, 64)))
	}

	if row, ok := m.Row(KeyLongevity); ok && len(row.Winners) > 0 && len(row.Winners) < len(m.Devices) {
		names := namesOf(m.Devices, row.Winners)
		out = append(out, fmt.Sprintf("The %s should receive updates the longest (%s).",
			joinNames(names), cellDisplay(row, row.Winners[0])))
	}

	return out
}

// Spotlight is the trend drill-down for one attribute
type Spotlight struct {
	Definition model.SpecDefinition
	Trend      []history.Point
}

// Spotlight returns the drill-down for key, or false when the attribute has no history
func (b *Builder) Spotlight(category model.Category, key string) (Spotlight, bool) {
	def, ok := b.catalog.Lookup(category, key)
	if !ok || !def.HasHistory {
		return Spotlight{}, false
	}
	return Spotlight{Definition: def, Trend: history.TrendFor(key)}, true
}

func namesOf(devices []model.Device, slugs []string) []string {
	var names []string
	for _, d := range devices {
		if contains(slugs, d.Slug) {
			names = append(names, d.DisplayName())
		}
	}
	return names
}

func joinNames(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	default:
		return strings.Join(names[:len(names)-1], ", ") + " and " + names[len(names)-1]
	}
}

func maxOf(row model.SpecRow) float64 {
	best := 0.0
	for _, c := range row.Cells {
		if n, ok := c.Value.Number(); ok && n > best {
			best = n
		}
	}
	return best
}

func cellDisplay(row model.SpecRow, slug string) string {
	for _, c := range row.Cells {
		if c.Slug == slug {
			return c.Display
		}
	}
	return model.Unknown
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
