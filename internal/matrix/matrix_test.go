package matrix

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ppiankov/specmatrix/internal/catalog"
	"github.com/ppiankov/specmatrix/internal/model"
)

func phone(slug, name, release string, specs *model.PhoneSpecs) model.Device {
	return model.Device{Slug: slug, Name: name, Category: model.CategoryPhone, ReleaseDate: release, Specs: specs}
}

func samplePhones() []model.Device {
	return []model.Device{
		phone("a", "Phone A", "2024-09", &model.PhoneSpecs{GeekbenchMulti: model.Number(21000), RAMGB: model.Number(8)}),
		phone("b", "Phone B", "2022-09", &model.PhoneSpecs{GeekbenchMulti: model.Number(15000), RAMGB: model.Number(8)}),
		phone("c", "Phone C", "", &model.PhoneSpecs{}),
	}
}

func displays(row model.SpecRow) []string {
	out := make([]string, len(row.Cells))
	for i, c := range row.Cells {
		out[i] = c.Display
	}
	return out
}

func TestBuild_EmptySet(t *testing.T) {
	m := NewBuilder(nil).Build(model.CategoryPhone, nil)
	if !m.Empty() || len(m.Groups) != 0 {
		t.Errorf("expected empty matrix, got %d groups", len(m.Groups))
	}
}

func TestBuild_GroupsFollowCatalog(t *testing.T) {
	m := NewBuilder(nil).Build(model.CategoryPhone, samplePhones())

	var groups []string
	rows := 0
	for _, g := range m.Groups {
		groups = append(groups, g.Name)
		rows += len(g.Rows)
	}

	if diff := cmp.Diff(catalog.Default.Groups(model.CategoryPhone), groups); diff != "" {
		t.Errorf("group order mismatch (-want +got):\n%s", diff)
	}
	if want := len(catalog.Default.Specs(model.CategoryPhone)); rows != want {
		t.Errorf("expected %d rows including all-unknown ones, got %d", want, rows)
	}
}

func TestBuild_WinnersAndDisplay(t *testing.T) {
	m := NewBuilder(nil).Build(model.CategoryPhone, samplePhones())

	gb, ok := m.Row("geekbench_multi")
	if !ok {
		t.Fatal("missing geekbench_multi row")
	}
	if diff := cmp.Diff([]string{"a"}, gb.Winners); diff != "" {
		t.Errorf("geekbench winners (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"21000", "15000", "—"}, displays(gb)); diff != "" {
		t.Errorf("geekbench display (-want +got):\n%s", diff)
	}
	if !gb.Cells[0].Winner || gb.Cells[1].Winner || gb.Cells[2].Winner {
		t.Errorf("unexpected winner flags: %+v", gb.Cells)
	}

	ram, _ := m.Row("ram_gb")
	if diff := cmp.Diff([]string{"a", "b"}, ram.Winners); diff != "" {
		t.Errorf("ram winners (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"8GB", "8GB", "—"}, displays(ram)); diff != "" {
		t.Errorf("ram display (-want +got):\n%s", diff)
	}

	weight, _ := m.Row("weight_grams")
	if len(weight.Winners) != 0 {
		t.Errorf("non-comparable row should have no winners, got %v", weight.Winners)
	}
}

func TestBuild_SingleDeviceHasNoWinners(t *testing.T) {
	m := NewBuilder(nil).Build(model.CategoryPhone, samplePhones()[:1])

	for _, g := range m.Groups {
		for _, r := range g.Rows {
			if len(r.Winners) != 0 {
				t.Errorf("%s: expected no winners for one device, got %v", r.Definition.Key, r.Winners)
			}
		}
	}
}

func TestBuild_DropsOtherCategories(t *testing.T) {
	devices := append(samplePhones(), model.Device{Slug: "w", Category: model.CategoryWatch, Specs: &model.WatchSpecs{}})
	m := NewBuilder(nil).Build(model.CategoryPhone, devices)

	if len(m.Devices) != 3 {
		t.Errorf("expected 3 phones, got %d devices", len(m.Devices))
	}
}

func TestBuild_WithLongevity(t *testing.T) {
	m := NewBuilder(nil).WithLongevity(2026).Build(model.CategoryPhone, samplePhones())

	last := m.Groups[len(m.Groups)-1]
	if last.Name != GroupLongevity {
		t.Fatalf("expected trailing %s group, got %s", GroupLongevity, last.Name)
	}

	row := last.Rows[0]
	if diff := cmp.Diff([]string{"5 yrs", "3 yrs", "—"}, displays(row)); diff != "" {
		t.Errorf("longevity display (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a"}, row.Winners); diff != "" {
		t.Errorf("longevity winners (-want +got):\n%s", diff)
	}
}

func TestBuild_WithLongevityDoesNotMutateBuilder(t *testing.T) {
	b := NewBuilder(nil)
	_ = b.WithLongevity(2026)

	m := b.Build(model.CategoryPhone, samplePhones())
	if _, ok := m.Row(KeyLongevity); ok {
		t.Error("expected base builder to stay without longevity")
	}
}

func TestHighlights(t *testing.T) {
	m := NewBuilder(nil).WithLongevity(2026).Build(model.CategoryPhone, samplePhones())

	want := []string{
		"The Phone A stands out as the power leader with a Geekbench score of 21000.",
		"The Phone A should receive updates the longest (5 yrs).",
	}
	if diff := cmp.Diff(want, Highlights(m)); diff != "" {
		t.Errorf("highlights (-want +got):\n%s", diff)
	}
}

func TestHighlights_TiedLeaders(t *testing.T) {
	devices := []model.Device{
		phone("a", "Phone A", "2024", &model.PhoneSpecs{GeekbenchMulti: model.Number(9000)}),
		phone("b", "Phone B", "2024", &model.PhoneSpecs{GeekbenchMulti: model.Number(9000)}),
	}
	m := NewBuilder(nil).WithLongevity(2026).Build(model.CategoryPhone, devices)

	want := []string{"The Phone A and Phone B share the power lead with a Geekbench score of 9000."}
	if diff := cmp.Diff(want, Highlights(m)); diff != "" {
		t.Errorf("highlights (-want +got):\n%s", diff)
	}
}

func TestHighlights_SingleDevice(t *testing.T) {
	m := NewBuilder(nil).Build(model.CategoryPhone, samplePhones()[:1])
	if h := Highlights(m); len(h) != 0 {
		t.Errorf("expected no highlights, got %v", h)
	}
}

func TestSpotlight(t *testing.T) {
	b := NewBuilder(nil)

	s, ok := b.Spotlight(model.CategoryPhone, "geekbench_multi")
	if !ok {
		t.Fatal("expected spotlight for geekbench_multi")
	}
	if len(s.Trend) == 0 || s.Definition.Key != "geekbench_multi" {
		t.Errorf("unexpected spotlight: %+v", s)
	}

	if _, ok := b.Spotlight(model.CategoryPhone, "weight_grams"); ok {
		t.Error("expected no spotlight for an attribute without history")
	}
	if _, ok := b.Spotlight(model.CategoryPhone, "warp_factor"); ok {
		t.Error("expected no spotlight for an unknown key")
	}
}
