package score

import (
	"time"

	"github.com/ppiankov/specmatrix/internal/model"
)

// Longevity forecasts remaining platform support from release dates
type Longevity struct {
	window int
	now    func() time.Time
}

// NewLongevity creates a forecaster with the standard support window
func NewLongevity() *Longevity {
	return &Longevity{
		window: model.SupportWindowYears,
		now:    time.Now,
	}
}

// CurrentYear returns the reference year used when none is pinned
func (l *Longevity) CurrentYear() int {
	return l.now().Year()
}

// Forecast computes the support end year and remaining years at referenceYear
func (l *Longevity) Forecast(d model.Device, referenceYear int) model.LongevityForecast {
	forecast := model.LongevityForecast{DeviceID: d.Slug}

	year, ok := model.ReleaseYear(d.ReleaseDate)
	if !ok {
		// Unknown release date counts as already out of support
		return forecast
	}

	forecast.Known = true
	forecast.SupportEndYear = year + l.window
	if remaining := forecast.SupportEndYear - referenceYear; remaining > 0 {
		forecast.YearsRemaining = remaining
	}
	return forecast
}

// Remaining returns the years of support left at referenceYear, never negative
func (l *Longevity) Remaining(d model.Device, referenceYear int) int {
	return l.Forecast(d, referenceYear).YearsRemaining
}

// ForecastAll forecasts every device, keeping slot order
func (l *Longevity) ForecastAll(devices []model.Device, referenceYear int) []model.LongevityForecast {
	out := make([]model.LongevityForecast, len(devices))
	for i, d := range devices {
		out[i] = l.Forecast(d, referenceYear)
	}
	return out
}

// Winners returns the devices with the most support remaining. Ties are all
// winners, the same policy attribute winners use. Empty for fewer than two
// devices or when no device has support left.
func (l *Longevity) Winners(devices []model.Device, referenceYear int) []string {
	if len(devices) < 2 {
		return nil
	}

	best := 0
	remaining := make([]int, len(devices))
	for i, d := range devices {
		remaining[i] = l.Remaining(d, referenceYear)
		if remaining[i] > best {
			best = remaining[i]
		}
	}
	if best == 0 {
		return nil
	}

	var winners []string
	for i, d := range devices {
		if remaining[i] == best {
			winners = append(winners, d.Slug)
		}
	}
	return winners
}
