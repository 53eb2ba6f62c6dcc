// Package search runs debounced, cancellable device name lookups.
package search

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ppiankov/specmatrix/internal/model"
	"github.com/ppiankov/specmatrix/internal/worker"
)

// Query bounds
const (
	DefaultMinChars    = 2
	MaxLimit           = 10
	DefaultPerCategory = 3
)

// Index is the device lookup a session queries
type Index interface {
	SearchByName(ctx context.Context, category model.Category, text string, limit int) ([]model.Device, error)
}

// Result is one search hit
type Result struct {
	Slug        string         `json:"slug"`
	DisplayName string         `json:"display_name"`
	ReleaseDate string         `json:"release_date,omitempty"`
	Category    model.Category `json:"category"`
}

// Response is delivered once per query that survives until completion
type Response struct {
	Token    uint64
	Category model.Category
	Text     string
	Results  []Result
	Err      error
}

// Session coalesces keystrokes into queries. Each Type call supersedes the
// previous one: its timer is stopped, its in-flight query is cancelled, and
// any response it still produces is dropped.
type Session struct {
	index    Index
	deliver  func(Response)
	limiter  *worker.Limiter
	logger   *zap.Logger
	debounce time.Duration
	minChars int
	limit    int

	mu      sync.Mutex
	token   uint64
	timer   *time.Timer
	cancel  context.CancelFunc
	closed  bool
	pending sync.WaitGroup

	deliverMu sync.Mutex
}

// Option configures a Session
type Option func(*Session)

// WithDebounce sets the quiet period, clamped to 150-300ms
func WithDebounce(d time.Duration) Option {
	return func(s *Session) {
		s.debounce = ClampDebounce(d)
	}
}

// WithLimit sets the maximum results per query, clamped to 1-10
func WithLimit(n int) Option {
	return func(s *Session) {
		s.limit = clamp(n, 1, MaxLimit)
	}
}

// WithMinChars sets the shortest text that issues a query
func WithMinChars(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.minChars = n
		}
	}
}

// WithLimiter throttles queries per category
func WithLimiter(l *worker.Limiter) Option {
	return func(s *Session) {
		s.limiter = l
	}
}

// WithLogger sets the session logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSession creates a session delivering responses to deliver
func NewSession(index Index, deliver func(Response), opts ...Option) *Session {
	s := &Session{
		index:    index,
		deliver:  deliver,
		logger:   zap.NewNop(),
		debounce: model.MaxSearchDebounce,
		minChars: DefaultMinChars,
		limit:    MaxLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ClampDebounce bounds d to the supported quiet period
func ClampDebounce(d time.Duration) time.Duration {
	if d < model.MinSearchDebounce {
		return model.MinSearchDebounce
	}
	if d > model.MaxSearchDebounce {
		return model.MaxSearchDebounce
	}
	return d
}

// Type records new input and returns its token. Text shorter than the
// minimum is answered at once with no results and no query.
func (s *Session) Type(category model.Category, text string) uint64 {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return 0
	}

	s.token++
	token := s.token
	s.stopLocked()

	if utf8.RuneCountInString(text) < s.minChars {
		s.mu.Unlock()
		s.emit(Response{Token: token, Category: category, Text: text})
		return token
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.pending.Add(1)
	s.timer = time.AfterFunc(s.debounce, func() {
		defer s.pending.Done()
		s.run(ctx, token, category, text)
	})
	s.mu.Unlock()

	return token
}

// Current returns the most recently issued token
func (s *Session) Current() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Close cancels pending work and waits for running queries to return
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	s.token++
	s.stopLocked()
	s.mu.Unlock()

	s.pending.Wait()
}

// stopLocked stops the timer and cancels the in-flight query; callers hold s.mu
func (s *Session) stopLocked() {
	if s.timer != nil && s.timer.Stop() {
		// Timer never fired, so its callback will not release pending
		s.pending.Done()
	}
	s.timer = nil
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *Session) run(ctx context.Context, token uint64, category model.Category, text string) {
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx, string(category)); err != nil {
			return
		}
	}

	devices, err := s.index.SearchByName(ctx, category, text, s.limit)
	if ctx.Err() != nil {
		s.logger.Debug("search cancelled", zap.Uint64("token", token), zap.String("text", text))
		return
	}

	resp := Response{Token: token, Category: category, Text: text}
	if err != nil {
		resp.Err = fmt.Errorf("search %s: %w", category, err)
		s.logger.Warn("search failed", zap.String("category", string(category)), zap.Error(err))
	} else {
		resp.Results = toResults(devices)
	}

	s.emit(resp)
}

// emit serialises delivery so callbacks never overlap. The token is checked
// under the delivery lock so a superseded response never follows a newer one.
func (s *Session) emit(resp Response) {
	s.deliverMu.Lock()
	defer s.deliverMu.Unlock()
	if resp.Token != s.Current() {
		s.logger.Debug("stale search response dropped", zap.Uint64("token", resp.Token))
		return
	}
	if s.deliver != nil {
		s.deliver(resp)
	}
}

// CategoryResults groups palette hits by category
type CategoryResults struct {
	Category model.Category
	Results  []Result
}

// SearchAll queries every category at once for the command palette, keeping
// category order. Text below DefaultMinChars returns nothing. A failing
// category does not cancel the others: their results are returned along with
// the joined errors.
func SearchAll(ctx context.Context, index Index, text string, perCategory int) ([]CategoryResults, error) {
	if utf8.RuneCountInString(text) < DefaultMinChars {
		return nil, nil
	}
	if perCategory <= 0 {
		perCategory = DefaultPerCategory
	}

	categories := model.Categories()
	out := make([]CategoryResults, len(categories))
	errs := make([]error, len(categories))

	var g errgroup.Group
	for i, cat := range categories {
		g.Go(func() error {
			devices, err := index.SearchByName(ctx, cat, text, perCategory)
			if err != nil {
				errs[i] = fmt.Errorf("search %s: %w", cat, err)
				return nil
			}
			out[i] = CategoryResults{Category: cat, Results: toResults(devices)}
			return nil
		})
	}
	_ = g.Wait()

	// Drop empty categories
	filtered := out[:0]
	for _, cr := range out {
		if len(cr.Results) > 0 {
			filtered = append(filtered, cr)
		}
	}
	return filtered, errors.Join(errs...)
}

func toResults(devices []model.Device) []Result {
	out := make([]Result, len(devices))
	for i, d := range devices {
		out[i] = Result{
			Slug:        d.Slug,
			DisplayName: d.DisplayName(),
			ReleaseDate: d.ReleaseDate,
			Category:    d.Category,
		}
	}
	return out
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
