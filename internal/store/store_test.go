package store

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ppiankov/specmatrix/internal/cache"
	"github.com/ppiankov/specmatrix/internal/model"
)

func phone(slug, name, release string) model.Device {
	return model.Device{
		Slug:        slug,
		Name:        name,
		Category:    model.CategoryPhone,
		ReleaseDate: release,
		Specs:       &model.PhoneSpecs{},
	}
}

func slugs(devices []model.Device) string {
	out := make([]string, len(devices))
	for i, d := range devices {
		out[i] = d.Slug
	}
	return strings.Join(out, ",")
}

func TestMemory_GetBySlug(t *testing.T) {
	m := NewMemory(phone("iphone-16", "iPhone 16", "2024-09-20"))
	ctx := context.Background()

	d, err := m.GetBySlug(ctx, model.CategoryPhone, "iphone-16")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if d.Name != "iPhone 16" {
		t.Errorf("expected iPhone 16, got %q", d.Name)
	}

	_, err = m.GetBySlug(ctx, model.CategoryTablet, "iphone-16")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound across categories, got %v", err)
	}
}

func TestMemory_ListByCategoryNewestFirst(t *testing.T) {
	m := NewMemory(
		phone("old", "iPhone 11", "Sep 2019"),
		phone("new", "iPhone 16", "2024-09-20"),
		phone("mid", "iPhone 14", "2022-09"),
		phone("unknown", "Prototype", ""),
	)

	got, err := m.ListByCategory(context.Background(), model.CategoryPhone)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if s := slugs(got); s != "new,mid,old,unknown" {
		t.Errorf("expected new,mid,old,unknown, got %s", s)
	}
}

func TestMemory_SearchByName(t *testing.T) {
	m := NewMemory(
		phone("iphone-16-pro", "iPhone 16 Pro", "2024-09-20"),
		phone("iphone-15-pro", "iPhone 15 Pro", "2023-09-22"),
		phone("iphone-14-pro", "iPhone 14 Pro", "2022-09-16"),
		phone("iphone-14", "iPhone 14", "2022-09-16"),
	)
	ctx := context.Background()

	got, err := m.SearchByName(ctx, model.CategoryPhone, "PRO", 2)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if s := slugs(got); s != "iphone-16-pro,iphone-15-pro" {
		t.Errorf("expected two newest pro models, got %s", s)
	}

	got, _ = m.SearchByName(ctx, model.CategoryPhone, "pixel", 10)
	if len(got) != 0 {
		t.Errorf("expected no matches, got %s", slugs(got))
	}
}

func TestMemory_UpsertRejectsMismatchedSpecs(t *testing.T) {
	m := NewMemory()
	d := phone("x", "X", "")
	d.Specs = &model.WatchSpecs{}

	if _, err := m.Upsert(context.Background(), []model.Device{d}); err == nil {
		t.Fatal("expected error for watch specs on a phone record")
	}
}

func TestMemory_CancelledContext(t *testing.T) {
	m := NewMemory()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := m.GetBySlug(ctx, model.CategoryPhone, "a"); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

type countingStore struct {
	DeviceStore
	gets int
}

func (c *countingStore) GetBySlug(ctx context.Context, category model.Category, slug string) (model.Device, error) {
	c.gets++
	return c.DeviceStore.GetBySlug(ctx, category, slug)
}

func TestCached_ReadThrough(t *testing.T) {
	backing := &countingStore{DeviceStore: NewMemory(phone("iphone-16", "iPhone 16", "2024-09-20"))}
	s := NewCached(backing, cache.NewMemoryCache(time.Minute, time.Minute), 0, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		d, err := s.GetBySlug(ctx, model.CategoryPhone, "iphone-16")
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if _, ok := d.Specs.(*model.PhoneSpecs); !ok {
			t.Fatalf("expected phone specs from cache, got %T", d.Specs)
		}
	}
	if backing.gets != 1 {
		t.Errorf("expected 1 backing lookup, got %d", backing.gets)
	}
}

func TestCached_MissesAreNotCached(t *testing.T) {
	backing := &countingStore{DeviceStore: NewMemory()}
	s := NewCached(backing, cache.NewMemoryCache(time.Minute, time.Minute), 0, nil)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := s.GetBySlug(ctx, model.CategoryPhone, "ghost"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	}
	if backing.gets != 2 {
		t.Errorf("expected every miss to reach the backing store, got %d lookups", backing.gets)
	}
}

func TestCached_CorruptEntryIsLoggedAndReplaced(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	backing := &countingStore{DeviceStore: NewMemory(phone("iphone-16", "iPhone 16", "2024-09-20"))}
	c := cache.NewMemoryCache(time.Minute, time.Minute)
	s := NewCached(backing, c, 0, zap.New(core))
	ctx := context.Background()

	key := cache.DeviceKey(model.CategoryPhone, "iphone-16")
	if err := c.Set(key, []byte("{not json"), 0); err != nil {
		t.Fatalf("seed cache: %v", err)
	}

	d, err := s.GetBySlug(ctx, model.CategoryPhone, "iphone-16")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if d.Slug != "iphone-16" || backing.gets != 1 {
		t.Errorf("expected a backing lookup for iphone-16, got %q after %d lookups", d.Slug, backing.gets)
	}

	entries := logs.FilterMessage("dropping undecodable device cache entry").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(entries))
	}
	if got := entries[0].ContextMap()["slug"]; got != "iphone-16" {
		t.Errorf("expected slug field iphone-16, got %v", got)
	}

	if data, ok := c.Get(key); !ok || strings.HasPrefix(string(data), "{not") {
		t.Errorf("expected the corrupt entry to be replaced, got %q", data)
	}
}

func TestNewCached_NilCache(t *testing.T) {
	m := NewMemory()
	if s := NewCached(m, nil, 0, nil); s != DeviceStore(m) {
		t.Error("expected the backing store when caching is disabled")
	}
}

func TestDecodeFixtures(t *testing.T) {
	doc := `
devices:
  - slug: watch-ultra-2
    model_name: Apple Watch Ultra 2
    category: Watch
    release_date: "2023-09-22"
    specs:
      case_size_mm: 49
      always_on_display: "Yes"
  - slug: airpods-4
    model_name: AirPods 4
    category: Others
    specs:
      type: Audio
`
	devices, err := DecodeFixtures(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(devices) != 2 {
		t.Fatalf("expected 2 devices, got %d", len(devices))
	}

	w, ok := devices[0].Specs.(*model.WatchSpecs)
	if !ok {
		t.Fatalf("expected watch specs, got %T", devices[0].Specs)
	}
	if n, _ := w.CaseSizeMM.Number(); n != 49 {
		t.Errorf("expected case size 49, got %v", w.CaseSizeMM)
	}
	if devices[1].Category != model.CategoryAccessory {
		t.Errorf("expected Others alias to map to Accessory, got %s", devices[1].Category)
	}
}

func TestDecodeFixtures_Duplicate(t *testing.T) {
	doc := `
devices:
  - {slug: a, model_name: A, category: Phone}
  - {slug: a, model_name: A again, category: Phone}
`
	if _, err := DecodeFixtures(strings.NewReader(doc)); err == nil {
		t.Fatal("expected duplicate slug error")
	}
}

func TestSampleDevices(t *testing.T) {
	devices, err := SampleDevices()
	if err != nil {
		t.Fatalf("sample: %v", err)
	}

	perCategory := make(map[model.Category]int)
	for _, d := range devices {
		perCategory[d.Category]++
		if _, ok := model.ReleaseYear(d.ReleaseDate); !ok {
			t.Errorf("%s: unparsable release date %q", d.Slug, d.ReleaseDate)
		}
	}
	for _, cat := range model.Categories() {
		if perCategory[cat] < 2 {
			t.Errorf("expected at least 2 sample devices for %s, got %d", cat, perCategory[cat])
		}
	}
}
