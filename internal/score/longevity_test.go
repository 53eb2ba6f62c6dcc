package score

import (
	"reflect"
	"testing"
	"time"

	"github.com/ppiankov/specmatrix/internal/model"
)

func released(slug, date string) model.Device {
	return model.Device{Slug: slug, Category: model.CategoryPhone, ReleaseDate: date, Specs: &model.PhoneSpecs{}}
}

func TestLongevity_Remaining_Example(t *testing.T) {
	l := NewLongevity()

	if got := l.Remaining(released("a", "2022-09"), 2026); got != 3 {
		t.Errorf("expected 3 years remaining, got %d", got)
	}

	f := l.Forecast(released("a", "2022-09"), 2026)
	if f.SupportEndYear != 2029 || !f.Known {
		t.Errorf("unexpected forecast: %+v", f)
	}
}

func TestLongevity_Remaining_NeverNegative(t *testing.T) {
	l := NewLongevity()

	if got := l.Remaining(released("old", "2012-09"), 2026); got != 0 {
		t.Errorf("expected 0 for an unsupported device, got %d", got)
	}
}

func TestLongevity_Remaining_UnparsableDate(t *testing.T) {
	l := NewLongevity()

	for _, date := range []string{"", "TBA", "13/2024"} {
		f := l.Forecast(released("x", date), 2026)
		if f.YearsRemaining != 0 || f.Known {
			t.Errorf("date %q: expected unknown forecast with 0 remaining, got %+v", date, f)
		}
	}
}

// Property: remaining is non-increasing in the reference year and never negative.
func TestLongevity_Remaining_Monotonic(t *testing.T) {
	l := NewLongevity()
	devices := []model.Device{
		released("a", "2015"),
		released("b", "Sep 2021"),
		released("c", "2024-10-30"),
		released("d", "garbage"),
	}

	for _, d := range devices {
		prev := l.Remaining(d, 2000)
		for year := 2001; year <= 2040; year++ {
			got := l.Remaining(d, year)
			if got < 0 {
				t.Fatalf("%s: negative remaining %d at %d", d.Slug, got, year)
			}
			if got > prev {
				t.Fatalf("%s: remaining increased from %d to %d at %d", d.Slug, prev, got, year)
			}
			prev = got
		}
	}
}

func TestLongevity_Winners(t *testing.T) {
	l := NewLongevity()

	tests := []struct {
		name    string
		devices []model.Device
		want    []string
	}{
		{
			name:    "newest wins",
			devices: []model.Device{released("a", "2022-09"), released("b", "2024-09")},
			want:    []string{"b"},
		},
		{
			name:    "ties all win",
			devices: []model.Device{released("a", "2024-09"), released("b", "Oct 2024"), released("c", "2020")},
			want:    []string{"a", "b"},
		},
		{
			name:    "single device",
			devices: []model.Device{released("a", "2024-09")},
			want:    nil,
		},
		{
			name:    "nobody supported",
			devices: []model.Device{released("a", "2010"), released("b", "")},
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := l.Winners(tt.devices, 2026)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestLongevity_CurrentYear(t *testing.T) {
	l := NewLongevity()
	l.now = func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) }

	if got := l.CurrentYear(); got != 2026 {
		t.Errorf("expected 2026, got %d", got)
	}
}
