package model

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Debounce bounds for search input coalescing
const (
	MinSearchDebounce = 150 * time.Millisecond
	MaxSearchDebounce = 300 * time.Millisecond
)

// Config is the complete specmatrix configuration
type Config struct {
	Store       StoreConfig       `yaml:"store" mapstructure:"store"`
	Selection   SelectionConfig   `yaml:"selection" mapstructure:"selection"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Search      SearchConfig      `yaml:"search" mapstructure:"search"`
	Longevity   LongevityConfig   `yaml:"longevity" mapstructure:"longevity"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	LLM         LLMConfig         `yaml:"llm" mapstructure:"llm"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
}

// StoreConfig locates the device database
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"` // SQLite file
}

// SelectionConfig locates persisted comparison sets
type SelectionConfig struct {
	Dir string `yaml:"dir" mapstructure:"dir"` // One file per category key
}

// CacheConfig controls device record caching
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskDir   string        `yaml:"disk_dir" mapstructure:"disk_dir"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// SearchConfig controls the debounced device search
type SearchConfig struct {
	Debounce          time.Duration `yaml:"debounce" mapstructure:"debounce"`
	MinChars          int           `yaml:"min_chars" mapstructure:"min_chars"`
	Limit             int           `yaml:"limit" mapstructure:"limit"`
	PerCategoryLimit  int           `yaml:"per_category_limit" mapstructure:"per_category_limit"` // Cross-category search
	RequestsPerSecond float64       `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int           `yaml:"burst" mapstructure:"burst"`
}

// LongevityConfig controls support forecasts
type LongevityConfig struct {
	ReferenceYear int `yaml:"reference_year" mapstructure:"reference_year"` // 0 = current year
}

// ConcurrencyConfig controls parallel loading
type ConcurrencyConfig struct {
	Workers     int `yaml:"workers" mapstructure:"workers"`           // Batch comparisons in flight
	LoadWorkers int `yaml:"load_workers" mapstructure:"load_workers"` // Device lookups per comparison
}

// LLMConfig controls the optional narrative summary
type LLMConfig struct {
	Provider  string `yaml:"provider" mapstructure:"provider"` // "" disables, "openai"
	Model     string `yaml:"model" mapstructure:"model"`
	APIKey    string `yaml:"-" mapstructure:"api_key"` // From OPENAI_API_KEY, never written to disk
	BaseURL   string `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout   int    `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`

	// Proxies for the provider API; empty falls back to HTTP_PROXY / HTTPS_PROXY / NO_PROXY
	HTTPProxy  string `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy string `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy    string `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// OutputConfig controls rendering
type OutputConfig struct {
	Verbose bool `yaml:"verbose" mapstructure:"verbose"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	base := DefaultHome()

	return &Config{
		Store: StoreConfig{
			Path: filepath.Join(base, "devices.db"),
		},
		Selection: SelectionConfig{
			Dir: filepath.Join(base, "selections"),
		},
		Cache: CacheConfig{
			Enabled:   true,
			MemoryTTL: 10 * time.Minute,
			DiskDir:   filepath.Join(base, "cache"),
			DiskTTL:   24 * time.Hour,
		},
		Search: SearchConfig{
			Debounce:          MaxSearchDebounce,
			MinChars:          2,
			Limit:             10,
			PerCategoryLimit:  3,
			RequestsPerSecond: 10,
			Burst:             5,
		},
		Concurrency: ConcurrencyConfig{
			Workers:     4,
			LoadWorkers: MaxComparisonSet,
		},
		LLM: LLMConfig{
			Model:     "gpt-4o-mini",
			Timeout:   30,
			MaxTokens: 600,
		},
	}
}

// DefaultHome returns ~/.specmatrix, or a relative directory when HOME is unknown
func DefaultHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".specmatrix"
	}
	return filepath.Join(home, ".specmatrix")
}

// Validate checks ranges that would otherwise break the engine at runtime
func (c *Config) Validate() error {
	if c.Store.Path == "" {
		return fmt.Errorf("store.path is required")
	}
	if c.Selection.Dir == "" {
		return fmt.Errorf("selection.dir is required")
	}
	if c.Search.Debounce < MinSearchDebounce || c.Search.Debounce > MaxSearchDebounce {
		return fmt.Errorf("search.debounce must be between %v and %v, got %v", MinSearchDebounce, MaxSearchDebounce, c.Search.Debounce)
	}
	if c.Search.MinChars < 1 {
		return fmt.Errorf("search.min_chars must be at least 1, got %d", c.Search.MinChars)
	}
	if c.Search.Limit < 1 || c.Search.Limit > 10 {
		return fmt.Errorf("search.limit must be between 1 and 10, got %d", c.Search.Limit)
	}
	if c.Search.RequestsPerSecond <= 0 {
		return fmt.Errorf("search.requests_per_second must be positive")
	}
	if c.Concurrency.Workers < 1 || c.Concurrency.LoadWorkers < 1 {
		return fmt.Errorf("concurrency workers must be at least 1")
	}
	if c.Longevity.ReferenceYear < 0 {
		return fmt.Errorf("longevity.reference_year must not be negative")
	}
	return nil
}
