package model

import "time"

// SupportWindowYears is how long a device is expected to receive platform support
const SupportWindowYears = 7

// MaxComparisonSet is the capacity of a comparison set
const MaxComparisonSet = 5

// SpecDefinition describes one comparable attribute of a category
type SpecDefinition struct {
	Category   Category `json:"category" yaml:"category"`
	Group      string   `json:"group" yaml:"group"`                     // Performance, Display, Camera, ...
	Key        string   `json:"key" yaml:"key"`                         // Spec key, e.g. "ram_gb"
	Label      string   `json:"label" yaml:"label"`                     // Display label
	Unit       string   `json:"unit,omitempty" yaml:"unit,omitempty"`   // Appended to numeric values
	Comparable bool     `json:"comparable" yaml:"comparable"`           // Numeric, eligible for winners
	HasHistory bool     `json:"has_history" yaml:"has_history"`         // Trend drill-down available
}

// Report is the rendered outcome of comparing one comparison set
type Report struct {
	Category    Category            `json:"category"`
	GeneratedAt time.Time           `json:"generated_at"`
	Devices     []DeviceSummary     `json:"devices"`              // Loaded devices in slot order
	Missing     []string            `json:"missing,omitempty"`    // Requested slugs the store did not know
	Matrix      []SpecGroup         `json:"matrix"`               // Empty when no devices were loaded
	Longevity   []LongevityForecast `json:"longevity,omitempty"`  // Per device, slot order
	Highlights  []string            `json:"highlights,omitempty"` // Plain-language insights
	Errors      []string            `json:"errors,omitempty"`     // Store failures; partial results are kept

	LLM *LLMSummary `json:"llm,omitempty"` // Optional narrative (separate, never affects winners)
}

// DeviceSummary identifies a device in a report
type DeviceSummary struct {
	Slug        string `json:"slug"`
	Name        string `json:"model_name"`
	ReleaseDate string `json:"release_date,omitempty"`
}

// SpecGroup is one section of the comparison matrix
type SpecGroup struct {
	Name string    `json:"name"`
	Rows []SpecRow `json:"rows"`
}

// SpecRow is one attribute across every device in the set
type SpecRow struct {
	Definition SpecDefinition `json:"definition"`
	Cells      []Cell         `json:"cells"`             // One per device, slot order
	Winners    []string       `json:"winners,omitempty"` // Slugs holding the maximum
}

// Cell is one device's value for a row
type Cell struct {
	Slug    string `json:"slug"`
	Value   Value  `json:"value"`
	Display string `json:"display"` // "—" when unknown
	Winner  bool   `json:"winner"`
}

// LongevityForecast is the remaining platform support estimate for a device
type LongevityForecast struct {
	DeviceID       string `json:"device_id"`
	SupportEndYear int    `json:"support_end_year,omitempty"` // 0 when the release date is unknown
	YearsRemaining int    `json:"years_remaining"`
	Known          bool   `json:"known"` // Release date parsed
}

// LLMSummary contains an optional LLM-generated narrative
type LLMSummary struct {
	Enabled       bool     `json:"enabled"`
	Provider      string   `json:"provider,omitempty"`
	Model         string   `json:"model,omitempty"`
	StrictDevices bool     `json:"strict_devices"` // Only devices in the set may be referenced
	SummaryMD     string   `json:"summary_md,omitempty"`
	Warnings      []string `json:"warnings,omitempty"`
}
