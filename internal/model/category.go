package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownCategory is returned when a category name cannot be resolved
var ErrUnknownCategory = errors.New("unknown category")

// Category is the explicit device kind tag carried by every record
type Category string

const (
	CategoryPhone     Category = "Phone"
	CategoryTablet    Category = "Tablet"
	CategoryLaptop    Category = "Laptop"
	CategoryWatch     Category = "Watch"
	CategoryAccessory Category = "Accessory" // Spatial, audio, home and other accessories
)

// Categories lists all categories in display order
func Categories() []Category {
	return []Category{CategoryPhone, CategoryTablet, CategoryLaptop, CategoryWatch, CategoryAccessory}
}

// categoryAliases maps lowercase names, including legacy product-line names, to categories
var categoryAliases = map[string]Category{
	"phone":     CategoryPhone,
	"phones":    CategoryPhone,
	"iphone":    CategoryPhone,
	"tablet":    CategoryTablet,
	"tablets":   CategoryTablet,
	"ipad":      CategoryTablet,
	"laptop":    CategoryLaptop,
	"laptops":   CategoryLaptop,
	"mac":       CategoryLaptop,
	"watch":     CategoryWatch,
	"watches":   CategoryWatch,
	"accessory": CategoryAccessory,
	"others":    CategoryAccessory,
}

// ParseCategory resolves a category name case-insensitively
func ParseCategory(s string) (Category, error) {
	if c, ok := categoryAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return c, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

// Valid reports whether c is one of the known categories
func (c Category) Valid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

func (c Category) String() string {
	return string(c)
}

// AccessoryType subdivides the accessory category
type AccessoryType string

const (
	AccessorySpatial AccessoryType = "Spatial"
	AccessoryAudio   AccessoryType = "Audio"
	AccessoryHome    AccessoryType = "Home"
	AccessoryOther   AccessoryType = "Accessory"
)
