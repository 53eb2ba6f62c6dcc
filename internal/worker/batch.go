package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/ppiankov/specmatrix/internal/model"
	"github.com/ppiankov/specmatrix/internal/pipeline"
	"github.com/ppiankov/specmatrix/internal/selection"
)

// Comparer defines the interface for building one comparison
type Comparer interface {
	Compare(ctx context.Context, req pipeline.Request) (*model.Report, error)
}

// CompareJob represents one comparison set in a batch
type CompareJob struct {
	Index    int
	Request  pipeline.Request
	Comparer Comparer
	Limiter  *Limiter // Optional, keyed by category
}

// Execute executes the comparison job
func (j *CompareJob) Execute(ctx context.Context) Result {
	if j.Limiter != nil {
		if err := j.Limiter.Wait(ctx, j.Request.Category.String()); err != nil {
			return &CompareResult{Index: j.Index, Request: j.Request, Error: fmt.Errorf("rate limit: %w", err)}
		}
	}

	report, err := j.Comparer.Compare(ctx, j.Request)
	if err != nil {
		return &CompareResult{Index: j.Index, Request: j.Request, Error: err}
	}
	return &CompareResult{Index: j.Index, Request: j.Request, Report: report}
}

// CompareResult represents the result of a comparison job
type CompareResult struct {
	Index   int
	Request pipeline.Request
	Report  *model.Report
	Error   error
}

// GetError returns the error from the comparison result
func (r *CompareResult) GetError() error {
	return r.Error
}

// Label names the comparison for progress output
func (r *CompareResult) Label() string {
	return fmt.Sprintf("%s %s", r.Request.Category, selection.Encode(r.Request.Slugs))
}

// BatchProcessor runs many comparisons concurrently
type BatchProcessor struct {
	comparer    Comparer
	concurrency int
	limiter     *Limiter
}

// NewBatchProcessor creates a new batch processor. A requestsPerSecond of 0
// disables rate limiting.
func NewBatchProcessor(comparer Comparer, concurrency int, requestsPerSecond float64, burst int) *BatchProcessor {
	var limiter *Limiter
	if requestsPerSecond > 0 {
		limiter = NewLimiter(requestsPerSecond, burst)
	}
	return &BatchProcessor{
		comparer:    comparer,
		concurrency: concurrency,
		limiter:     limiter,
	}
}

// ProcessRequests runs every request and returns results in request order
func (b *BatchProcessor) ProcessRequests(ctx context.Context, requests []pipeline.Request) []*CompareResult {
	if len(requests) == 0 {
		return []*CompareResult{}
	}

	// Create worker pool
	pool := NewPoolWithContext(ctx, b.concurrency)
	pool.Start()

	// Submit jobs
	for i, req := range requests {
		pool.Submit(&CompareJob{
			Index:    i,
			Request:  req,
			Comparer: b.comparer,
			Limiter:  b.limiter,
		})
	}

	// Wait for all jobs to complete
	results := pool.Wait()

	compareResults := make([]*CompareResult, 0, len(results))
	for _, result := range results {
		compareResults = append(compareResults, result.(*CompareResult))
	}
	slices.SortFunc(compareResults, func(a, b *CompareResult) int {
		return a.Index - b.Index
	})

	return compareResults
}

// ProcessFile reads comparison requests from a file and runs them concurrently
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*CompareResult, error) {
	requests, err := ReadRequestsFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read requests: %w", err)
	}

	return b.ProcessRequests(ctx, requests), nil
}

// ReadRequestsFromFile reads one comparison per line in the form
// "<category> slug,slug,...". Blank lines and # comments are skipped and
// repeated sets are read once.
func ReadRequestsFromFile(filePath string) ([]pipeline.Request, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var requests []pipeline.Request
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		req, err := ParseRequestLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}

		// Deduplicate sets
		key := req.Category.String() + " " + selection.Encode(req.Slugs)
		if !seen[key] {
			seen[key] = true
			requests = append(requests, req)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return requests, nil
}

// ParseRequestLine parses "<category> slug,slug,..."
func ParseRequestLine(line string) (pipeline.Request, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return pipeline.Request{}, fmt.Errorf("empty request")
	}

	category, err := model.ParseCategory(fields[0])
	if err != nil {
		return pipeline.Request{}, err
	}

	slugs := selection.Decode(strings.Join(fields[1:], ","), nil)
	if len(slugs) == 0 {
		return pipeline.Request{}, fmt.Errorf("no devices for %s", category)
	}

	return pipeline.Request{Category: category, Slugs: slugs}, nil
}
