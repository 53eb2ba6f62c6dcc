package llm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ppiankov/specmatrix/internal/model"
)

// MockProvider implements the Provider interface for testing
type MockProvider struct {
	name      string
	available bool
	response  *SummarizeResponse
	err       error
	lastReq   SummarizeRequest
}

func (m *MockProvider) Name() string {
	return m.name
}

func (m *MockProvider) Summarize(ctx context.Context, req SummarizeRequest) (*SummarizeResponse, error) {
	m.lastReq = req
	if m.err != nil {
		return nil, m.err
	}
	return m.response, nil
}

func (m *MockProvider) IsAvailable(ctx context.Context) bool {
	return m.available
}

func phoneReport() model.Report {
	return model.Report{
		Category: model.CategoryPhone,
		Devices: []model.DeviceSummary{
			{Slug: "iphone-16-pro", Name: "iPhone 16 Pro", ReleaseDate: "Sep 2024"},
			{Slug: "iphone-14", Name: "iPhone 14"},
		},
		Matrix: []model.SpecGroup{
			{
				Name: "Performance",
				Rows: []model.SpecRow{
					{
						Definition: model.SpecDefinition{Key: "geekbench_multi", Label: "Geekbench Multi-Core"},
						Winners:    []string{"iphone-16-pro"},
					},
					{
						Definition: model.SpecDefinition{Key: "chip", Label: "Chip"},
					},
				},
			},
		},
		Highlights: []string{"The iPhone 16 Pro stands out as the power leader with a Geekbench score of 8500."},
	}
}

func TestNewSummarizer_DisabledProvider(t *testing.T) {
	summarizer, err := NewSummarizer(Config{Provider: ""})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if summarizer.provider != nil {
		t.Error("Expected provider to be nil when disabled")
	}
	if summarizer.IsEnabled() {
		t.Error("Expected summarizer to be disabled")
	}
	if summarizer.ProviderName() != "" {
		t.Error("Expected empty provider name when disabled")
	}
}

func TestNewSummarizer_UnknownProvider(t *testing.T) {
	if _, err := NewSummarizer(Config{Provider: "anthropic"}); err == nil {
		t.Fatal("Expected error for unsupported provider")
	}
}

func TestNewSummarizer_OpenAIRequiresKey(t *testing.T) {
	if _, err := NewSummarizer(Config{Provider: "OpenAI"}); err == nil {
		t.Fatal("Expected error for missing API key")
	}
}

func TestSummarizer_GenerateSummary_Disabled(t *testing.T) {
	summarizer := &Summarizer{}

	summary, err := summarizer.GenerateSummary(context.Background(), phoneReport())
	if err != nil {
		t.Errorf("Expected no error when disabled, got %v", err)
	}
	if summary != nil {
		t.Error("Expected nil summary when provider disabled")
	}
}

func TestSummarizer_GenerateSummary_ProviderUnavailable(t *testing.T) {
	summarizer := &Summarizer{
		provider: &MockProvider{name: "test-provider"},
		config:   Config{StrictDevices: true},
	}

	summary, err := summarizer.GenerateSummary(context.Background(), phoneReport())
	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if summary == nil {
		t.Fatal("Expected summary object with warnings")
	}
	if summary.Enabled {
		t.Error("Expected summary to be marked as disabled")
	}
	if len(summary.Warnings) != 1 || !strings.Contains(summary.Warnings[0], "not available") {
		t.Errorf("Expected unavailability warning, got %v", summary.Warnings)
	}
}

func TestSummarizer_GenerateSummary_Success(t *testing.T) {
	mock := &MockProvider{
		name:      "test-provider",
		available: true,
		response: &SummarizeResponse{
			Summary:    "[iphone-16-pro] is faster than [iphone-14].",
			CitedSlugs: []string{"iphone-16-pro", "iphone-14"},
			Model:      "test-model-v2",
			TokensUsed: 150,
		},
	}
	summarizer := &Summarizer{
		provider: mock,
		config:   Config{Model: "test-model", StrictDevices: true, MaxTokens: 400},
	}

	summary, err := summarizer.GenerateSummary(context.Background(), phoneReport())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !summary.Enabled {
		t.Error("Expected summary to be enabled")
	}
	if summary.Provider != "test-provider" {
		t.Errorf("Expected provider test-provider, got %s", summary.Provider)
	}
	if summary.Model != "test-model-v2" {
		t.Errorf("Expected model from response, got %s", summary.Model)
	}
	if !summary.StrictDevices {
		t.Error("Expected strict device mode to be recorded")
	}
	if summary.SummaryMD != "[iphone-16-pro] is faster than [iphone-14]." {
		t.Errorf("Unexpected summary: %s", summary.SummaryMD)
	}

	joined := strings.Join(summary.Warnings, "\n")
	if !strings.Contains(joined, "Tokens used: 150") {
		t.Errorf("Expected token usage note, got %v", summary.Warnings)
	}
	if !strings.Contains(joined, "Verified 2 device references") {
		t.Errorf("Expected verification note, got %v", summary.Warnings)
	}

	// The allowlist is the comparison set in slot order
	if got := mock.lastReq.AllowedSlugs; len(got) != 2 || got[0] != "iphone-16-pro" || got[1] != "iphone-14" {
		t.Errorf("Unexpected allowlist: %v", got)
	}
	if mock.lastReq.MaxTokens != 400 {
		t.Errorf("Expected MaxTokens 400, got %d", mock.lastReq.MaxTokens)
	}
}

func TestSummarizer_GenerateSummary_ProviderError(t *testing.T) {
	summarizer := &Summarizer{
		provider: &MockProvider{
			name:      "test-provider",
			available: true,
			err:       errors.New("API rate limit exceeded"),
		},
		config: Config{StrictDevices: true},
	}

	summary, err := summarizer.GenerateSummary(context.Background(), phoneReport())
	if err != nil {
		t.Errorf("Expected no error (errors go to warnings), got %v", err)
	}
	if summary == nil {
		t.Fatal("Expected summary object with error warning")
	}
	if summary.SummaryMD != "" {
		t.Error("Expected empty summary on error")
	}
	if len(summary.Warnings) != 1 || !strings.Contains(summary.Warnings[0], "failed: API rate limit exceeded") {
		t.Errorf("Expected failure warning, got %v", summary.Warnings)
	}
}

func TestRenderSeparateMarkdown_Disabled(t *testing.T) {
	if out := RenderSeparateMarkdown(&model.LLMSummary{Enabled: false}); out != "" {
		t.Errorf("Expected empty output for disabled summary, got %q", out)
	}
	if out := RenderSeparateMarkdown(nil); out != "" {
		t.Errorf("Expected empty output for nil summary, got %q", out)
	}
}

func TestRenderSeparateMarkdown_Success(t *testing.T) {
	out := RenderSeparateMarkdown(&model.LLMSummary{
		Enabled:       true,
		Provider:      "openai",
		Model:         "gpt-4o-mini",
		StrictDevices: true,
		SummaryMD:     "Both phones are solid.",
		Warnings:      []string{"Tokens used: 12"},
	})

	for _, want := range []string{
		"# LLM Summary",
		"GENERATED CONTENT",
		"determined independently",
		"**Provider:** openai",
		"**Model:** gpt-4o-mini",
		"**Strict Device Mode:** true",
		"Both phones are solid.",
		"## Notes",
		"- Tokens used: 12",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q", want)
		}
	}
}

func TestRenderSeparateMarkdown_NoSummary(t *testing.T) {
	out := RenderSeparateMarkdown(&model.LLMSummary{Enabled: true, Provider: "openai"})
	if !strings.Contains(out, "No summary generated") {
		t.Errorf("Expected placeholder text, got %q", out)
	}
	if strings.Contains(out, "## Notes") {
		t.Error("Expected no notes section without warnings")
	}
}

func TestBuildPrompt_BasicStructure(t *testing.T) {
	prompt := BuildPrompt(phoneReport(), []string{"iphone-16-pro", "iphone-14"})

	for _, want := range []string{
		"side-by-side comparison of Phone devices",
		"- [iphone-16-pro]",
		"- [iphone-14]",
		"- [iphone-16-pro] iPhone 16 Pro (released Sep 2024)",
		"- [iphone-14] iPhone 14 (released " + model.Unknown + ")",
		"Performance / Geekbench Multi-Core: [iphone-16-pro]",
		"stands out as the power leader",
		"Never mention devices outside this list",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("Expected prompt to contain %q", want)
		}
	}

	// Rows without winners are not listed
	if strings.Contains(prompt, "Performance / Chip") {
		t.Error("Expected rows without winners to be omitted")
	}
}

func TestBuildPrompt_NoDevices(t *testing.T) {
	prompt := BuildPrompt(model.Report{Category: model.CategoryWatch}, nil)
	if !strings.Contains(prompt, "(No devices in the comparison)") {
		t.Error("Expected empty allowlist marker")
	}
	if strings.Contains(prompt, "Highlights:") {
		t.Error("Expected no highlights section")
	}
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Provider != "" {
		t.Errorf("Expected disabled provider by default, got %s", config.Provider)
	}
	if !config.StrictDevices {
		t.Error("Expected strict device mode by default")
	}
	if config.Timeout != 30 {
		t.Errorf("Expected timeout 30, got %d", config.Timeout)
	}
}

func TestConfigFromModel(t *testing.T) {
	config := ConfigFromModel(model.LLMConfig{
		Provider:  "openai",
		Model:     "gpt-4o",
		APIKey:    "k",
		Timeout:   10,
		MaxTokens: 200,
	})
	if config.Provider != "openai" || config.Model != "gpt-4o" || config.APIKey != "k" {
		t.Errorf("Unexpected config: %+v", config)
	}
	if !config.StrictDevices {
		t.Error("Expected strict device mode to be forced on")
	}
}

func TestSummarizer_ProviderName(t *testing.T) {
	summarizer := &Summarizer{provider: &MockProvider{name: "my-provider"}}
	if summarizer.ProviderName() != "my-provider" {
		t.Errorf("Expected my-provider, got %s", summarizer.ProviderName())
	}
	if !summarizer.IsEnabled() {
		t.Error("Expected enabled")
	}
}
