// Package pipeline loads a comparison set, builds its matrix and renders the
// resulting report.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ppiankov/specmatrix/internal/llm"
	"github.com/ppiankov/specmatrix/internal/matrix"
	"github.com/ppiankov/specmatrix/internal/model"
	"github.com/ppiankov/specmatrix/internal/score"
	"github.com/ppiankov/specmatrix/internal/selection"
	"github.com/ppiankov/specmatrix/internal/store"
)

// Pipeline orchestrates one comparison
type Pipeline struct {
	store      store.DeviceStore
	builder    *matrix.Builder
	longevity  *score.Longevity
	renderer   *Renderer
	summarizer *llm.Summarizer // Optional LLM summarizer (nil if disabled)
	config     *model.Config
	logger     *zap.Logger
	now        func() time.Time
}

// NewPipeline creates a new pipeline over devices with the given configuration
func NewPipeline(cfg *model.Config, devices store.DeviceStore, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}

	// Create LLM summarizer if configured
	var summarizer *llm.Summarizer
	if cfg.LLM.Provider != "" {
		s, err := llm.NewSummarizer(llm.ConfigFromModel(cfg.LLM))
		if err != nil {
			logger.Warn("failed to initialize LLM provider", zap.Error(err))
		} else {
			summarizer = s
		}
	}

	return &Pipeline{
		store:      devices,
		builder:    matrix.NewBuilder(nil),
		longevity:  score.NewLongevity(),
		renderer:   NewRenderer(nil),
		summarizer: summarizer,
		config:     cfg,
		logger:     logger,
		now:        time.Now,
	}
}

// Request names one comparison set
type Request struct {
	Category      model.Category
	Slugs         []string // Slot order; duplicates and blanks are dropped, capped at 5
	ReferenceYear int      // 0 uses the configured year, then the current year
}

// Compare loads the devices of req and builds a complete report. It only
// fails when the request itself is invalid or ctx ends; unknown slugs and
// store failures are recorded on the report.
func (p *Pipeline) Compare(ctx context.Context, req Request) (*model.Report, error) {
	// 1. Validate request
	if !req.Category.Valid() {
		return nil, fmt.Errorf("validate: %w: %q", model.ErrUnknownCategory, req.Category)
	}
	slugs := selection.Decode(selection.Encode(req.Slugs), nil)

	// 2. Load devices concurrently, keeping slot order
	devices, missing, loadErrs := p.load(ctx, req.Category, slugs)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("load devices: %w", err)
	}

	// 3. Build the matrix with the support forecast
	year := p.referenceYear(req)
	m := p.builder.WithLongevity(year).Build(req.Category, devices)

	// 4. Build report (without LLM summary yet)
	report := &model.Report{
		Category:    req.Category,
		GeneratedAt: p.now().UTC(),
		Devices:     summaries(m.Devices),
		Missing:     missing,
		Matrix:      m.Groups,
		Highlights:  matrix.Highlights(m),
		Errors:      loadErrs,
	}
	if !m.Empty() {
		report.Longevity = p.longevity.ForecastAll(m.Devices, year)
	}
	if report.Matrix == nil {
		report.Matrix = []model.SpecGroup{}
	}

	// 5. Generate LLM summary if enabled (AFTER winners, never affects them)
	if p.summarizer != nil && p.summarizer.IsEnabled() && len(m.Devices) > 1 {
		summary, err := p.summarizer.GenerateSummary(ctx, *report)
		if err != nil {
			p.logger.Warn("LLM summary generation failed", zap.Error(err))
		} else if summary != nil {
			report.LLM = summary
		}
	}

	p.logger.Debug("comparison built",
		zap.String("category", req.Category.String()),
		zap.Int("devices", len(report.Devices)),
		zap.Int("missing", len(report.Missing)),
		zap.Int("errors", len(report.Errors)))

	return report, nil
}

// load fetches every slug with at most LoadWorkers lookups in flight
func (p *Pipeline) load(ctx context.Context, category model.Category, slugs []string) ([]model.Device, []string, []string) {
	type slot struct {
		device model.Device
		found  bool
		err    error
	}
	slots := make([]slot, len(slugs))

	var g errgroup.Group
	g.SetLimit(max(p.config.Concurrency.LoadWorkers, 1))
	for i, slug := range slugs {
		g.Go(func() error {
			d, err := p.store.GetBySlug(ctx, category, slug)
			switch {
			case err == nil:
				slots[i] = slot{device: d, found: true}
			case errors.Is(err, store.ErrNotFound):
				// Missing, reported by slug
			default:
				slots[i] = slot{err: err}
			}
			// Failures stay per slot so one bad lookup keeps the rest
			return nil
		})
	}
	_ = g.Wait()

	var (
		devices []model.Device
		missing []string
		errs    []string
	)
	for i, s := range slots {
		switch {
		case s.found:
			devices = append(devices, s.device)
		case s.err != nil:
			p.logger.Warn("device lookup failed",
				zap.String("category", category.String()),
				zap.String("slug", slugs[i]),
				zap.Error(s.err))
			errs = append(errs, fmt.Sprintf("%s: %v", slugs[i], s.err))
		default:
			missing = append(missing, slugs[i])
		}
	}
	return devices, missing, errs
}

func (p *Pipeline) referenceYear(req Request) int {
	switch {
	case req.ReferenceYear > 0:
		return req.ReferenceYear
	case p.config.Longevity.ReferenceYear > 0:
		return p.config.Longevity.ReferenceYear
	default:
		return p.now().Year()
	}
}

func summaries(devices []model.Device) []model.DeviceSummary {
	out := make([]model.DeviceSummary, len(devices))
	for i, d := range devices {
		out[i] = model.DeviceSummary{Slug: d.Slug, Name: d.DisplayName(), ReleaseDate: d.ReleaseDate}
	}
	return out
}

// Outputs names the files RenderReport writes; empty paths are skipped
type Outputs struct {
	JSON     string
	Markdown string
	HTML     string
}

// RenderReport renders the report to the specified outputs
func (p *Pipeline) RenderReport(report *model.Report, out Outputs, verbose bool) error {
	// Render JSON
	if out.JSON != "" {
		if err := p.renderer.RenderJSON(report, out.JSON); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			p.renderer.Printf("✓ Wrote JSON: %s\n", out.JSON)
		}
	}

	// Render Markdown
	if out.Markdown != "" {
		if err := p.renderer.RenderMarkdown(report, out.Markdown); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			p.renderer.Printf("✓ Wrote Markdown: %s\n", out.Markdown)
		}
	}

	// Render HTML
	if out.HTML != "" {
		if err := p.renderer.RenderHTML(report, out.HTML); err != nil {
			return fmt.Errorf("render HTML: %w", err)
		}
		if verbose {
			p.renderer.Printf("✓ Wrote HTML: %s\n", out.HTML)
		}
	}

	// Render LLM summary to separate file if present
	if report.LLM != nil && report.LLM.Enabled && out.Markdown != "" {
		llmMdPath := strings.TrimSuffix(out.Markdown, ".md") + ".llm.md"
		if err := p.renderer.RenderLLMMarkdown(llm.RenderSeparateMarkdown(report.LLM), llmMdPath); err != nil {
			p.logger.Warn("failed to write LLM summary", zap.String("path", llmMdPath), zap.Error(err))
		} else if verbose {
			p.renderer.Printf("✓ Wrote LLM Summary: %s\n", llmMdPath)
		}
	}

	// Print summary
	p.renderer.RenderSummary(report)

	return nil
}

// SetRenderer replaces the renderer, e.g. to capture the summary in tests
func (p *Pipeline) SetRenderer(r *Renderer) {
	p.renderer = r
}
