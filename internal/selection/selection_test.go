package selection

import (
	"context"
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/specmatrix/internal/model"
)

const phone = model.CategoryPhone

func TestStore_GetEmpty(t *testing.T) {
	s := NewStore(NewMemoryBackend())
	assert.Empty(t, s.Get(phone))
	assert.NotNil(t, s.Get(phone))
}

func TestStore_AddCapacity(t *testing.T) {
	backend := NewMemoryBackend()
	s := NewStore(backend)

	for _, slug := range []string{"a", "b", "c", "d", "e"} {
		_, err := s.Add(phone, slug)
		require.NoError(t, err)
	}

	var events int
	s.Subscribe(func(Event) { events++ })

	list, err := s.Add(phone, "f")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCapacityExceeded))

	var capErr *CapacityError
	require.True(t, errors.As(err, &capErr))
	assert.Equal(t, 5, capErr.Limit)
	assert.Equal(t, "f", capErr.Slug)

	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, list)
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, s.Get(phone))
	raw, _, _ := backend.Load(StorageKey(phone))
	assert.Equal(t, "a,b,c,d,e", raw)
	assert.Zero(t, events, "observers must not see a failed add")
}

func TestStore_AddDuplicateIsNoop(t *testing.T) {
	s := NewStore(NewMemoryBackend())
	_, err := s.Add(phone, "a")
	require.NoError(t, err)

	var events int
	s.Subscribe(func(Event) { events++ })

	list, err := s.Add(phone, "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, list)
	assert.Zero(t, events)
}

func TestStore_AddInvalidSlug(t *testing.T) {
	s := NewStore(NewMemoryBackend())

	for _, slug := range []string{"", "  ", "a,b", "two words"} {
		_, err := s.Add(phone, slug)
		assert.ErrorIs(t, err, ErrInvalidSlug, "slug %q", slug)
	}
}

func TestStore_UnknownCategory(t *testing.T) {
	s := NewStore(NewMemoryBackend())
	_, err := s.Add(model.Category("Toaster"), "a")
	assert.ErrorIs(t, err, model.ErrUnknownCategory)
}

func TestStore_ReplaceAt(t *testing.T) {
	tests := []struct {
		name  string
		index int
		slug  string
		want  []string
	}{
		{"in range", 1, "x", []string{"a", "x", "c"}},
		{"negative index adds", -1, "x", []string{"a", "b", "c", "x"}},
		{"past end adds", 3, "x", []string{"a", "b", "c", "x"}},
		{"duplicate elsewhere is a noop", 0, "c", []string{"a", "b", "c"}},
		{"same slug in place", 2, "c", []string{"a", "b", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore(NewMemoryBackend())
			for _, slug := range []string{"a", "b", "c"} {
				_, err := s.Add(phone, slug)
				require.NoError(t, err)
			}

			got, err := s.ReplaceAt(phone, tt.index, tt.slug)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want, s.Get(phone))
		})
	}
}

func TestStore_ReplaceAtOutOfRangeWhenFull(t *testing.T) {
	s := NewStore(NewMemoryBackend())
	for _, slug := range []string{"a", "b", "c", "d", "e"} {
		_, err := s.Add(phone, slug)
		require.NoError(t, err)
	}

	_, err := s.ReplaceAt(phone, 9, "f")
	assert.ErrorIs(t, err, ErrCapacityExceeded)
}

func TestStore_RemoveAt(t *testing.T) {
	s := NewStore(NewMemoryBackend())
	for _, slug := range []string{"a", "b", "c"} {
		_, err := s.Add(phone, slug)
		require.NoError(t, err)
	}

	got, err := s.RemoveAt(phone, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, got)

	got, err = s.RemoveAt(phone, 7)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, got)

	got, err = s.RemoveAt(phone, -1)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, got)
}

func TestStore_Clear(t *testing.T) {
	s := NewStore(NewMemoryBackend())
	_, _ = s.Add(phone, "a")
	_, _ = s.Add(model.CategoryWatch, "w")

	require.NoError(t, s.Clear(phone))
	assert.Empty(t, s.Get(phone))
	assert.Equal(t, []string{"w"}, s.Get(model.CategoryWatch), "categories are independent")
}

func TestStore_SubscribeAndUnsubscribe(t *testing.T) {
	s := NewStore(NewMemoryBackend())

	var got []Event
	unsubscribe := s.Subscribe(func(e Event) { got = append(got, e) })

	_, _ = s.Add(phone, "a")
	_, _ = s.Add(phone, "b")
	unsubscribe()
	_, _ = s.Add(phone, "c")

	require.Len(t, got, 2)
	assert.Equal(t, Event{Category: phone, Slugs: []string{"a", "b"}}, got[1])
}

func TestStore_ObserverMayCallStore(t *testing.T) {
	s := NewStore(NewMemoryBackend())

	var seen []string
	s.Subscribe(func(e Event) { seen = s.Get(e.Category) })

	_, err := s.Add(phone, "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, seen)
}

func TestStore_KnownFilter(t *testing.T) {
	backend := NewMemoryBackend()
	require.NoError(t, backend.Save(StorageKey(phone), "a,ghost,b"))

	s := NewStore(backend, WithKnown(func(_ model.Category, slug string) bool {
		return slug != "ghost"
	}))
	assert.Equal(t, []string{"a", "b"}, s.Get(phone))
}

// Property: persisted encoding round-trips for every valid set.
func TestStore_PersistRoundTrip(t *testing.T) {
	sets := [][]string{
		{},
		{"iphone-16"},
		{"iphone-16-pro", "iphone-15", "iphone-se-3"},
		{"a", "b", "c", "d", "e"},
	}

	for _, set := range sets {
		backend := NewMemoryBackend()
		s := NewStore(backend)
		for _, slug := range set {
			_, err := s.Add(phone, slug)
			require.NoError(t, err)
		}

		reopened := NewStore(backend)
		assert.Equal(t, set, reopened.Get(phone))
	}
}

func TestStore_ConcurrentAddsRespectCapacity(t *testing.T) {
	s := NewStore(NewMemoryBackend())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _ = s.Add(phone, string(rune('a'+i)))
		}(i)
	}
	wg.Wait()

	assert.Len(t, s.Get(phone), model.MaxComparisonSet)
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		known func(string) bool
		want  []string
	}{
		{"empty", "", nil, []string{}},
		{"whitespace", "  ", nil, []string{}},
		{"trims and drops empties", " a, ,b,, ", nil, []string{"a", "b"}},
		{"drops duplicates", "a,b,a", nil, []string{"a", "b"}},
		{"caps at five", "a,b,c,d,e,f,g", nil, []string{"a", "b", "c", "d", "e"}},
		{
			"filters before capping",
			"x,a,y,b,c,d,e",
			func(s string) bool { return s != "x" && s != "y" },
			[]string{"a", "b", "c", "d", "e"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decode(tt.raw, tt.known))
		})
	}
}

func TestState_Query(t *testing.T) {
	q, err := url.ParseQuery("category=iPad&devices=ipad-pro,ipad-air,ipad-pro")
	require.NoError(t, err)

	st := ParseQuery(q)
	assert.Equal(t, model.CategoryTablet, st.Category)
	assert.Equal(t, []string{"ipad-pro", "ipad-air"}, st.Devices)

	back := ParseQuery(st.Query())
	assert.Equal(t, st, back)
}

func TestState_UnknownCategoryDefaultsToPhone(t *testing.T) {
	st := ParseQuery(url.Values{"category": {"Toaster"}})
	assert.Equal(t, model.CategoryPhone, st.Category)
	assert.Empty(t, st.Devices)
}

func TestFileBackend_PersistsAcrossStores(t *testing.T) {
	dir := t.TempDir()

	first := NewStore(NewFileBackend(dir))
	_, err := first.Add(model.CategoryLaptop, "macbook-air-m3")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "compare_mem_Laptop.list"))
	require.NoError(t, err)
	assert.Equal(t, "macbook-air-m3\n", string(data))

	second := NewStore(NewFileBackend(dir))
	assert.Equal(t, []string{"macbook-air-m3"}, second.Get(model.CategoryLaptop))
}

func TestFileBackend_RejectsPathKeys(t *testing.T) {
	b := NewFileBackend(t.TempDir())
	assert.Error(t, b.Save("../escape", "a"))
	_, _, err := b.Load("nested/key")
	assert.Error(t, err)
}

func TestStore_RefreshNotifiesOnlyOnChange(t *testing.T) {
	backend := NewMemoryBackend()
	s := NewStore(backend)
	_, _ = s.Add(phone, "a")

	var events []Event
	s.Subscribe(func(e Event) { events = append(events, e) })

	s.Refresh(phone)
	assert.Empty(t, events, "own writes are already known")

	require.NoError(t, backend.Save(StorageKey(phone), "a,b"))
	s.Refresh(phone)
	require.Len(t, events, 1)
	assert.Equal(t, []string{"a", "b"}, events[0].Slugs)
}

func TestWatcher_RefreshesOnExternalWrite(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(NewFileBackend(dir))

	events := make(chan Event, 4)
	s.Subscribe(func(e Event) { events <- e })

	w, err := NewWatcher(s, dir, nil)
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	other := NewStore(NewFileBackend(dir))
	_, err = other.Add(model.CategoryWatch, "watch-ultra-2")
	require.NoError(t, err)

	select {
	case e := <-events:
		assert.Equal(t, model.CategoryWatch, e.Category)
		assert.Equal(t, []string{"watch-ultra-2"}, e.Slugs)
	case <-time.After(2 * time.Second):
		t.Fatal("expected a change event from the watcher")
	}
}

func TestCategoryFromKey(t *testing.T) {
	cat, ok := categoryFromKey("compare_mem_Tablet")
	assert.True(t, ok)
	assert.Equal(t, model.CategoryTablet, cat)

	_, ok = categoryFromKey("compare_mem_Toaster")
	assert.False(t, ok)
	_, ok = categoryFromKey("other_Tablet")
	assert.False(t, ok)
}
