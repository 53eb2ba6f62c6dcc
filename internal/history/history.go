// Package history holds the static trend series behind spotlight drill-downs.
package history

// Point is one period in a trend series
type Point struct {
	Period string  `json:"period" yaml:"period"` // Release year of the reference device
	Value  float64 `json:"value" yaml:"value"`
	Label  string  `json:"label" yaml:"label"` // Reference device for the period
}

// Flagship lineage per year. Series are chronological; callers must not re-sort.
var trends = map[string][]Point{
	"ram_gb": {
		{"2017", 3, "iPhone X"},
		{"2018", 4, "iPhone XS"},
		{"2019", 4, "iPhone 11 Pro"},
		{"2020", 6, "iPhone 12 Pro"},
		{"2021", 6, "iPhone 13 Pro"},
		{"2022", 6, "iPhone 14 Pro"},
		{"2023", 8, "iPhone 15 Pro"},
		{"2024", 8, "iPhone 16 Pro"},
		{"2025", 12, "iPhone 17 Pro"},
	},
	"geekbench_multi": {
		{"2017", 10100, "A11 Bionic"},
		{"2018", 11300, "A12 Bionic"},
		{"2019", 13400, "A13 Bionic"},
		{"2020", 15800, "A14 Bionic"},
		{"2021", 18600, "A15 Bionic"},
		{"2022", 20900, "A16 Bionic"},
		{"2023", 28600, "A17 Pro"},
		{"2024", 33300, "A18 Pro"},
		{"2025", 37800, "A19 Pro"},
	},
	"refresh_rate_hz": {
		{"2017", 60, "iPhone X"},
		{"2019", 60, "iPhone 11 Pro"},
		{"2021", 120, "iPhone 13 Pro"},
		{"2023", 120, "iPhone 15 Pro"},
		{"2025", 120, "iPhone 17"},
	},
	"peak_brightness_nits": {
		{"2017", 625, "iPhone X"},
		{"2019", 1200, "iPhone 11 Pro"},
		{"2021", 1200, "iPhone 13 Pro"},
		{"2022", 2000, "iPhone 14 Pro"},
		{"2023", 2000, "iPhone 15 Pro"},
		{"2025", 3000, "iPhone 17 Pro"},
	},
	"main_camera_mp": {
		{"2017", 12, "iPhone X"},
		{"2019", 12, "iPhone 11 Pro"},
		{"2021", 12, "iPhone 13 Pro"},
		{"2022", 48, "iPhone 14 Pro"},
		{"2024", 48, "iPhone 16 Pro"},
	},
	"battery_mah": {
		{"2017", 2716, "iPhone X"},
		{"2018", 2658, "iPhone XS"},
		{"2019", 3046, "iPhone 11 Pro"},
		{"2020", 2815, "iPhone 12 Pro"},
		{"2021", 3095, "iPhone 13 Pro"},
		{"2022", 3200, "iPhone 14 Pro"},
		{"2023", 3274, "iPhone 15 Pro"},
		{"2024", 3582, "iPhone 16 Pro"},
	},
}

// TrendFor returns the series for a spec key, or nil when there is none.
// The returned slice is a copy.
func TrendFor(key string) []Point {
	series := trends[key]
	if len(series) == 0 {
		return nil
	}
	out := make([]Point, len(series))
	copy(out, series)
	return out
}

// Has reports whether a key has a trend series
func Has(key string) bool {
	return len(trends[key]) > 0
}

// Keys returns every key with a series
func Keys() []string {
	keys := make([]string, 0, len(trends))
	for k := range trends {
		keys = append(keys, k)
	}
	return keys
}
