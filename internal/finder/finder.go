// Package finder narrows a category's devices by era, size, port and
// feature filters.
package finder

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/specmatrix/internal/model"
	"github.com/ppiankov/specmatrix/internal/store"
)

// ModernFromYear is the first release year considered modern
const ModernFromYear = 2021

// Era filters by release year
type Era string

const (
	EraAll     Era = ""
	EraModern  Era = "Modern"
	EraVintage Era = "Vintage"
)

// Size is a per-category size bucket
type Size string

const (
	SizeAll      Size = ""
	SizeCompact  Size = "Compact"
	SizeStandard Size = "Standard"
	SizeMax      Size = "Max"
)

// Port filters by charging/data connector
type Port string

const (
	PortAll       Port = ""
	PortUSBC      Port = "USB-C"
	PortLightning Port = "Lightning"
)

// Filter is a conjunction of criteria; zero values match everything
type Filter struct {
	Era   Era
	Size  Size
	Port  Port
	AI    bool // Apple Intelligence capable
	FiveG bool
	AOD   bool // Always-on display
	Type  model.AccessoryType
}

// Find lists category from devices and keeps those matching f, newest first
func Find(ctx context.Context, devices store.DeviceStore, category model.Category, f Filter) ([]model.Device, error) {
	all, err := devices.ListByCategory(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", category, err)
	}
	return Apply(all, f), nil
}

// Apply returns the devices matching f, keeping their order
func Apply(devices []model.Device, f Filter) []model.Device {
	out := make([]model.Device, 0, len(devices))
	for _, d := range devices {
		if f.Match(d) {
			out = append(out, d)
		}
	}
	return out
}

// Match reports whether d satisfies every criterion of f
func (f Filter) Match(d model.Device) bool {
	if f.Type != "" {
		acc, ok := d.Specs.(*model.AccessorySpecs)
		if !ok || acc.Type != f.Type {
			return false
		}
	}

	switch f.Era {
	case EraModern:
		if !IsModern(d) {
			return false
		}
	case EraVintage:
		if IsModern(d) {
			return false
		}
	}

	if f.AI && !HasAI(d) {
		return false
	}
	if f.FiveG && !yes(d, "five_g_support") {
		return false
	}
	if f.AOD && !yes(d, "always_on_display") {
		return false
	}

	if f.Port != PortAll && !hasPort(d, f.Port) {
		return false
	}

	if f.Size != SizeAll && !inBucket(d, f.Size) {
		return false
	}

	return true
}

// IsModern reports a release year of ModernFromYear or later. Unknown dates
// are not modern.
func IsModern(d model.Device) bool {
	year, ok := model.ReleaseYear(d.ReleaseDate)
	return ok && year >= ModernFromYear
}

// HasAI reports Apple Intelligence support, either declared or implied by an
// M-series, A17 or A18 chip
func HasAI(d model.Device) bool {
	if yes(d, "apple_intelligence") {
		return true
	}
	chip := model.Lookup(d, "chip_name")
	if !chip.Known() {
		return false
	}
	name := chip.String()
	return strings.HasPrefix(name, "M") || strings.Contains(name, "A17") || strings.Contains(name, "A18")
}

func yes(d model.Device, key string) bool {
	v := model.Lookup(d, key)
	return v.Known() && strings.EqualFold(strings.TrimSpace(v.String()), "yes")
}

func hasPort(d model.Device, p Port) bool {
	port := model.Lookup(d, "port_type")
	if !port.Known() {
		port = model.Lookup(d, "connection_type")
	}
	if !port.Known() {
		return false
	}
	return strings.Contains(strings.ToLower(port.String()), strings.ToLower(string(p)))
}

// inBucket places the device's display or case size in s. Devices without a
// size, and categories without buckets, always pass.
func inBucket(d model.Device, s Size) bool {
	var key string
	var compactBelow, maxAbove float64
	inclusiveCompact := false

	switch d.Category {
	case model.CategoryPhone:
		key, compactBelow, maxAbove = "display_size_inches", 6.1, 6.6
	case model.CategoryTablet:
		key, compactBelow, maxAbove = "display_size_inches", 10, 12
	case model.CategoryWatch:
		// Watch cases up to and including 41 mm are compact
		key, compactBelow, maxAbove = "case_size_mm", 41, 45
		inclusiveCompact = true
	default:
		return true
	}

	size, ok := model.Lookup(d, key).Number()
	if !ok || size == 0 {
		return true
	}

	compact := size < compactBelow || (inclusiveCompact && size == compactBelow)
	switch s {
	case SizeCompact:
		return compact
	case SizeStandard:
		return !compact && size <= maxAbove
	case SizeMax:
		return size > maxAbove
	default:
		return true
	}
}

// ParseEra resolves an era name case-insensitively ("" and "all" match everything)
func ParseEra(s string) (Era, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return EraAll, nil
	case "modern":
		return EraModern, nil
	case "vintage":
		return EraVintage, nil
	}
	return "", fmt.Errorf("unknown era %q (supported: modern, vintage)", s)
}

// ParseSize resolves a size bucket name case-insensitively
func ParseSize(s string) (Size, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return SizeAll, nil
	case "compact":
		return SizeCompact, nil
	case "standard":
		return SizeStandard, nil
	case "max":
		return SizeMax, nil
	}
	return "", fmt.Errorf("unknown size %q (supported: compact, standard, max)", s)
}

// ParsePort resolves a port name case-insensitively
func ParsePort(s string) (Port, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return PortAll, nil
	case "usb-c", "usbc":
		return PortUSBC, nil
	case "lightning":
		return PortLightning, nil
	}
	return "", fmt.Errorf("unknown port %q (supported: usb-c, lightning)", s)
}

// ParseAccessoryType resolves an accessory sub-type case-insensitively
func ParseAccessoryType(s string) (model.AccessoryType, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "all") {
		return "", nil
	}
	for _, t := range []model.AccessoryType{model.AccessorySpatial, model.AccessoryAudio, model.AccessoryHome, model.AccessoryOther} {
		if strings.EqualFold(s, string(t)) {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown accessory type %q (supported: spatial, audio, home, accessory)", s)
}
