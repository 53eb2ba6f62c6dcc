package selection

import (
	"net/url"
	"strings"

	"github.com/ppiankov/specmatrix/internal/model"
)

// Query parameter names of the shareable comparison URL
const (
	paramCategory = "category"
	paramDevices  = "devices"
)

// Encode joins slugs into the persisted comma-separated form
func Encode(slugs []string) string {
	return strings.Join(slugs, ",")
}

// Decode splits a comma list into a comparison set. Empty entries, duplicates
// and slugs rejected by known (nil accepts all) are dropped before the result
// is capped at MaxComparisonSet.
func Decode(raw string, known func(slug string) bool) []string {
	if strings.TrimSpace(raw) == "" {
		return []string{}
	}

	out := make([]string, 0, model.MaxComparisonSet)
	seen := make(map[string]bool)
	for _, part := range strings.Split(raw, ",") {
		slug := strings.TrimSpace(part)
		if slug == "" || seen[slug] {
			continue
		}
		if known != nil && !known(slug) {
			continue
		}
		seen[slug] = true
		out = append(out, slug)
		if len(out) == model.MaxComparisonSet {
			break
		}
	}
	return out
}

// State is the URL-visible comparison: category plus ordered device slugs
type State struct {
	Category model.Category
	Devices  []string
}

// ParseQuery reads ?category=<cat>&devices=a,b,c. An unknown or missing
// category falls back to Phone.
func ParseQuery(q url.Values) State {
	cat, err := model.ParseCategory(q.Get(paramCategory))
	if err != nil {
		cat = model.CategoryPhone
	}
	return State{
		Category: cat,
		Devices:  Decode(q.Get(paramDevices), nil),
	}
}

// Query renders the state back into URL parameters
func (s State) Query() url.Values {
	q := url.Values{}
	q.Set(paramCategory, string(s.Category))
	if len(s.Devices) > 0 {
		q.Set(paramDevices, Encode(s.Devices))
	}
	return q
}

// String returns the encoded query string
func (s State) String() string {
	return s.Query().Encode()
}

func validSlug(slug string) bool {
	return slug != "" && !strings.ContainsAny(slug, ", \t\r\n")
}
