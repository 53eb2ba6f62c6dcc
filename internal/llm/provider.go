package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/specmatrix/internal/model"
	"github.com/ppiankov/specmatrix/internal/util"
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Summarize writes a narrative for a comparison report
	Summarize(ctx context.Context, req SummarizeRequest) (*SummarizeResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// SummarizeRequest contains the input for LLM summarization
type SummarizeRequest struct {
	// Report is the comparison report to narrate
	Report model.Report

	// AllowedSlugs is the STRICT allowlist of devices the LLM may reference.
	// Devices outside the comparison set must never appear in the narrative.
	AllowedSlugs []string

	// Prompt is an optional custom prompt (if empty, use default)
	Prompt string

	// Model is the specific model to use (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// SummarizeResponse contains the LLM's summary output
type SummarizeResponse struct {
	// Summary is the generated summary text
	Summary string

	// CitedSlugs are the device references found in the summary
	CitedSlugs []string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai" or "" (disabled)
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI
	APIKey string

	// BaseURL for OpenAI-compatible endpoints
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// StrictDevices rejects narratives that reference devices outside the set
	StrictDevices bool

	// MaxTokens for response generation
	MaxTokens int

	// Proxy routes provider traffic
	Proxy util.ProxyConfig
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:      "", // Disabled by default
		Timeout:       30,
		StrictDevices: true,
		MaxTokens:     600,
	}
}

// BuildPrompt constructs the default prompt for a comparison narrative
func BuildPrompt(report model.Report, allowedSlugs []string) string {
	var b strings.Builder

	fmt.Fprintf(&b, `You are summarizing a side-by-side comparison of %s devices. Winners were computed
from the published specifications below; do not re-rank devices or invent new figures.

RULES:
1. Refer to a device only by its bracketed id, e.g. [%s]. Allowed ids:
%s

2. Never mention devices outside this list.
3. If a value is shown as "%s" it is unknown; say so rather than guessing.
4. Describe trade-offs, not a single "best" device.

`, report.Category, firstOr(allowedSlugs, "device-id"), joinSlugs(allowedSlugs), model.Unknown)

	b.WriteString("Devices:\n")
	for _, d := range report.Devices {
		fmt.Fprintf(&b, "- [%s] %s (released %s)\n", d.Slug, d.Name, orUnknown(d.ReleaseDate))
	}

	b.WriteString("\nWinners by attribute:\n")
	for _, g := range report.Matrix {
		for _, r := range g.Rows {
			if len(r.Winners) == 0 {
				continue
			}
			fmt.Fprintf(&b, "- %s / %s: %s\n", g.Name, r.Definition.Label, bracketed(r.Winners))
		}
	}

	if len(report.Highlights) > 0 {
		b.WriteString("\nHighlights:\n")
		for _, h := range report.Highlights {
			fmt.Fprintf(&b, "- %s\n", h)
		}
	}

	b.WriteString("\nProvide a 3-4 sentence summary of who each device suits best.")

	return b.String()
}

// Helper functions

func joinSlugs(slugs []string) string {
	if len(slugs) == 0 {
		return "(No devices in the comparison)"
	}
	var b strings.Builder
	for _, s := range slugs {
		fmt.Fprintf(&b, "\n- [%s]", s)
	}
	return b.String()
}

func bracketed(slugs []string) string {
	out := make([]string, len(slugs))
	for i, s := range slugs {
		out[i] = "[" + s + "]"
	}
	return strings.Join(out, ", ")
}

func firstOr(list []string, fallback string) string {
	if len(list) == 0 {
		return fallback
	}
	return list[0]
}

func orUnknown(s string) string {
	if s == "" {
		return model.Unknown
	}
	return s
}
