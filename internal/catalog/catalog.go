// Package catalog defines, per category, which attributes are compared and how
// they are labelled.
package catalog

import "github.com/ppiankov/specmatrix/internal/model"

// Group names in display order
const (
	GroupGeneral     = "General"
	GroupPerformance = "Performance"
	GroupDisplay     = "Display"
	GroupCamera      = "Camera"
	GroupBattery     = "Battery"
	GroupDesign      = "Design"
	GroupFeatures    = "Features"
)

type entry struct {
	group      string
	key        string
	label      string
	unit       string
	comparable bool
	history    bool
}

// Weight and dimensions are listed but not comparable: winners are the
// maximum, and lighter or thinner is not "more".
var definitions = map[model.Category][]entry{
	model.CategoryPhone: {
		{GroupGeneral, "release_date", "Release Date", "", false, false},
		{GroupPerformance, "chip_name", "Chipset", "", false, false},
		{GroupPerformance, "ram_gb", "RAM", "GB", true, true},
		{GroupPerformance, "geekbench_multi", "Geekbench (Multi)", "", true, true},
		{GroupPerformance, "base_storage_gb", "Storage", "GB", true, false},
		{GroupDisplay, "display_size_inches", "Size", `"`, true, false},
		{GroupDisplay, "refresh_rate_hz", "Refresh Rate", "Hz", true, true},
		{GroupDisplay, "peak_brightness_nits", "Brightness", " nits", true, true},
		{GroupCamera, "main_camera_mp", "Main", "MP", true, true},
		{GroupCamera, "ultrawide_mp", "Ultrawide", "MP", true, false},
		{GroupCamera, "optical_zoom", "Zoom", "", false, false},
		{GroupBattery, "battery_mah", "Capacity", " mAh", true, true},
		{GroupBattery, "wired_charging_w", "Charging", "W", true, false},
		{GroupDesign, "weight_grams", "Weight", "g", false, false},
		{GroupDesign, "height_mm", "Height", " mm", false, false},
		{GroupDesign, "width_mm", "Width", " mm", false, false},
		{GroupDesign, "depth_mm", "Depth", " mm", false, false},
		{GroupDesign, "port_type", "Port", "", false, false},
		{GroupFeatures, "five_g_support", "5G", "", false, false},
		{GroupFeatures, "always_on_display", "Always-On Display", "", false, false},
		{GroupFeatures, "apple_intelligence", "Apple Intelligence", "", false, false},
	},
	model.CategoryTablet: {
		{GroupGeneral, "release_date", "Release Date", "", false, false},
		{GroupPerformance, "chip_name", "Chipset", "", false, false},
		{GroupPerformance, "ram_gb", "RAM", "GB", true, true},
		{GroupPerformance, "geekbench_multi", "Geekbench (Multi)", "", true, true},
		{GroupPerformance, "base_storage_gb", "Storage", "GB", true, false},
		{GroupDisplay, "display_size_inches", "Size", `"`, true, false},
		{GroupDisplay, "refresh_rate_hz", "Refresh Rate", "Hz", true, true},
		{GroupDisplay, "peak_brightness_nits", "Brightness", " nits", true, true},
		{GroupCamera, "main_camera_mp", "Main", "MP", true, true},
		{GroupBattery, "battery_hours", "Battery Life", " h", true, false},
		{GroupDesign, "weight_grams", "Weight", "g", false, false},
		{GroupDesign, "port_type", "Port", "", false, false},
		{GroupFeatures, "five_g_support", "Cellular 5G", "", false, false},
		{GroupFeatures, "pencil_support", "Pencil", "", false, false},
		{GroupFeatures, "apple_intelligence", "Apple Intelligence", "", false, false},
	},
	model.CategoryLaptop: {
		{GroupGeneral, "release_date", "Release Date", "", false, false},
		{GroupPerformance, "chip_name", "Chipset", "", false, false},
		{GroupPerformance, "ram_gb", "RAM", "GB", true, true},
		{GroupPerformance, "geekbench_multi", "Geekbench (Multi)", "", true, true},
		{GroupPerformance, "base_storage_gb", "Storage", "GB", true, false},
		{GroupDisplay, "screen_size", "Screen", `"`, true, false},
		{GroupDisplay, "refresh_rate_hz", "Refresh Rate", "Hz", true, true},
		{GroupDisplay, "peak_brightness_nits", "Brightness", " nits", true, true},
		{GroupBattery, "battery_hours", "Battery Life", " h", true, false},
		{GroupDesign, "weight_grams", "Weight", "g", false, false},
		{GroupDesign, "port_type", "Ports", "", false, false},
		{GroupFeatures, "apple_intelligence", "Apple Intelligence", "", false, false},
	},
	model.CategoryWatch: {
		{GroupGeneral, "release_date", "Release Date", "", false, false},
		{GroupPerformance, "chip_name", "Chipset", "", false, false},
		{GroupDisplay, "case_size_mm", "Case Size", " mm", true, false},
		{GroupDisplay, "peak_brightness_nits", "Brightness", " nits", true, true},
		{GroupBattery, "battery_hours", "Battery Life", " h", true, false},
		{GroupDesign, "water_resistance_m", "Water Resistance", " m", true, false},
		{GroupDesign, "weight_grams", "Weight", "g", false, false},
		{GroupFeatures, "always_on_display", "Always-On Display", "", false, false},
		{GroupFeatures, "five_g_support", "Cellular", "", false, false},
	},
	model.CategoryAccessory: {
		{GroupGeneral, "release_date", "Release Date", "", false, false},
		{GroupGeneral, "type", "Type", "", false, false},
		{GroupPerformance, "chip_name", "Chip", "", false, false},
		{GroupBattery, "battery_hours", "Battery Life", " h", true, false},
		{GroupDesign, "weight_grams", "Weight", "g", false, false},
		{GroupDesign, "connection_type", "Connection", "", false, false},
		{GroupDesign, "port_type", "Port", "", false, false},
	},
}

// Catalog is the static spec catalog
type Catalog struct {
	byCategory map[model.Category][]model.SpecDefinition
	byKey      map[model.Category]map[string]model.SpecDefinition
}

// Default is the built-in catalog
var Default = New()

// New builds the catalog from the static definitions
func New() *Catalog {
	c := &Catalog{
		byCategory: make(map[model.Category][]model.SpecDefinition),
		byKey:      make(map[model.Category]map[string]model.SpecDefinition),
	}

	for cat, entries := range definitions {
		defs := make([]model.SpecDefinition, 0, len(entries))
		keys := make(map[string]model.SpecDefinition, len(entries))
		for _, e := range entries {
			def := model.SpecDefinition{
				Category:   cat,
				Group:      e.group,
				Key:        e.key,
				Label:      e.label,
				Unit:       e.unit,
				Comparable: e.comparable,
				HasHistory: e.history,
			}
			defs = append(defs, def)
			keys[e.key] = def
		}
		c.byCategory[cat] = defs
		c.byKey[cat] = keys
	}

	return c
}

// Specs returns the definitions of a category in display order. The slice is a copy.
func (c *Catalog) Specs(cat model.Category) []model.SpecDefinition {
	defs := c.byCategory[cat]
	out := make([]model.SpecDefinition, len(defs))
	copy(out, defs)
	return out
}

// Lookup returns the definition of a key within a category
func (c *Catalog) Lookup(cat model.Category, key string) (model.SpecDefinition, bool) {
	def, ok := c.byKey[cat][key]
	return def, ok
}

// IsComparable reports whether a key takes part in winner resolution
func (c *Catalog) IsComparable(cat model.Category, key string) bool {
	def, ok := c.Lookup(cat, key)
	return ok && def.Comparable
}

// Groups returns the group names used by a category, in display order
func (c *Catalog) Groups(cat model.Category) []string {
	var groups []string
	seen := make(map[string]bool)
	for _, def := range c.byCategory[cat] {
		if !seen[def.Group] {
			seen[def.Group] = true
			groups = append(groups, def.Group)
		}
	}
	return groups
}

// WithHistory returns the definitions of a category that offer a trend drill-down
func (c *Catalog) WithHistory(cat model.Category) []model.SpecDefinition {
	var out []model.SpecDefinition
	for _, def := range c.byCategory[cat] {
		if def.HasHistory {
			out = append(out, def)
		}
	}
	return out
}
