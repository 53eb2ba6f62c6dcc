package selection

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/ppiankov/specmatrix/internal/model"
)

// Event is delivered to observers after a comparison set changes
type Event struct {
	Category model.Category
	Slugs    []string
}

// KnownFunc reports whether slug identifies a device of category
type KnownFunc func(category model.Category, slug string) bool

// Store holds one persisted comparison set per category.
//
// Every successful mutation writes the encoded set through the backend and
// then notifies observers outside the lock. Failed mutations leave both the
// persisted set and the observers untouched.
type Store struct {
	mu        sync.Mutex
	backend   Backend
	known     KnownFunc
	logger    *zap.Logger
	observers map[int]func(Event)
	nextID    int
	seen      map[model.Category]string // Last encoded value observed per category
}

// Option configures a Store
type Option func(*Store)

// WithLogger sets the store logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithKnown filters persisted slugs through a device existence check on read
func WithKnown(known KnownFunc) Option {
	return func(s *Store) {
		s.known = known
	}
}

// NewStore creates a selection store over backend
func NewStore(backend Backend, opts ...Option) *Store {
	s := &Store{
		backend:   backend,
		logger:    zap.NewNop(),
		observers: make(map[int]func(Event)),
		seen:      make(map[model.Category]string),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the current comparison set, empty when nothing is stored
func (s *Store) Get(category model.Category) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.load(category)
	if err != nil {
		s.logger.Warn("load selection failed", zap.String("category", string(category)), zap.Error(err))
		return []string{}
	}
	return list
}

// Add appends slug unless already present
func (s *Store) Add(category model.Category, slug string) ([]string, error) {
	return s.mutate(category, func(list []string) ([]string, bool, error) {
		return add(category, list, slug)
	})
}

// ReplaceAt swaps the slug at index. An out-of-range index behaves as Add;
// a slug already present at another index leaves the set unchanged.
func (s *Store) ReplaceAt(category model.Category, index int, slug string) ([]string, error) {
	return s.mutate(category, func(list []string) ([]string, bool, error) {
		if index < 0 || index >= len(list) {
			return add(category, list, slug)
		}
		slug = strings.TrimSpace(slug)
		if !validSlug(slug) {
			return nil, false, fmt.Errorf("%w: %q", ErrInvalidSlug, slug)
		}
		if current := slices.Index(list, slug); current >= 0 {
			return list, false, nil
		}
		out := slices.Clone(list)
		out[index] = slug
		return out, true, nil
	})
}

// RemoveAt drops the slug at index; an out-of-range index is a no-op
func (s *Store) RemoveAt(category model.Category, index int) ([]string, error) {
	return s.mutate(category, func(list []string) ([]string, bool, error) {
		if index < 0 || index >= len(list) {
			return list, false, nil
		}
		return slices.Delete(slices.Clone(list), index, index+1), true, nil
	})
}

// Clear empties the comparison set
func (s *Store) Clear(category model.Category) error {
	_, err := s.mutate(category, func(list []string) ([]string, bool, error) {
		return []string{}, true, nil
	})
	return err
}

// Refresh re-reads the persisted set and notifies observers when it differs
// from what this store last saw. Used for writes made by other processes.
func (s *Store) Refresh(category model.Category) []string {
	s.mu.Lock()
	list, err := s.load(category)
	if err != nil {
		s.mu.Unlock()
		s.logger.Warn("refresh selection failed", zap.String("category", string(category)), zap.Error(err))
		return []string{}
	}
	encoded := Encode(list)
	changed := s.seen[category] != encoded
	s.seen[category] = encoded
	s.mu.Unlock()

	if changed {
		s.logger.Debug("selection changed externally", zap.String("category", string(category)), zap.Strings("slugs", list))
		s.notify(Event{Category: category, Slugs: list})
	}
	return list
}

// Subscribe registers fn for change events and returns its unsubscribe func
func (s *Store) Subscribe(fn func(Event)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.observers[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.observers, id)
	}
}

// mutate runs fn under the lock, persists a changed result and notifies
func (s *Store) mutate(category model.Category, fn func([]string) ([]string, bool, error)) ([]string, error) {
	if !category.Valid() {
		return nil, fmt.Errorf("%w: %q", model.ErrUnknownCategory, category)
	}

	s.mu.Lock()
	list, err := s.load(category)
	if err != nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("load selection: %w", err)
	}

	next, changed, err := fn(list)
	if err != nil {
		s.mu.Unlock()
		return list, err
	}
	if !changed {
		s.mu.Unlock()
		return list, nil
	}

	encoded := Encode(next)
	if err := s.backend.Save(StorageKey(category), encoded); err != nil {
		s.mu.Unlock()
		return list, fmt.Errorf("save selection: %w", err)
	}
	s.seen[category] = encoded
	s.mu.Unlock()

	s.logger.Debug("selection updated", zap.String("category", string(category)), zap.Strings("slugs", next))
	s.notify(Event{Category: category, Slugs: slices.Clone(next)})
	return next, nil
}

// load reads and decodes the persisted set; callers hold s.mu
func (s *Store) load(category model.Category) ([]string, error) {
	raw, _, err := s.backend.Load(StorageKey(category))
	if err != nil {
		return nil, err
	}

	var known func(string) bool
	if s.known != nil {
		known = func(slug string) bool { return s.known(category, slug) }
	}
	return Decode(raw, known), nil
}

func (s *Store) notify(e Event) {
	s.mu.Lock()
	observers := make([]func(Event), 0, len(s.observers))
	for _, fn := range s.observers {
		observers = append(observers, fn)
	}
	s.mu.Unlock()

	for _, fn := range observers {
		fn(Event{Category: e.Category, Slugs: slices.Clone(e.Slugs)})
	}
}

func add(category model.Category, list []string, slug string) ([]string, bool, error) {
	slug = strings.TrimSpace(slug)
	if !validSlug(slug) {
		return nil, false, fmt.Errorf("%w: %q", ErrInvalidSlug, slug)
	}
	if slices.Contains(list, slug) {
		return list, false, nil
	}
	if len(list) >= model.MaxComparisonSet {
		return nil, false, &CapacityError{Category: category, Slug: slug, Limit: model.MaxComparisonSet}
	}
	return append(slices.Clone(list), slug), true, nil
}
