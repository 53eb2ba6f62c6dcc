package cli

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/specmatrix/internal/pipeline"
	"github.com/ppiankov/specmatrix/internal/selection"
)

var (
	compareCategory string
	compareDevices  string
	compareYear     int
	compareLink     string
	outJSON         string
	outMD           string
	outHTML         string
	compareTimeout  time.Duration
	llmEnabled      bool
	llmModel        string
)

// compareCmd represents the compare command
var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare up to five devices side by side",
	Long: `Compare builds the grouped spec matrix for a comparison set:
- Every attribute of the category, in catalog order
- Winners for each numeric attribute (ties all win)
- Remaining years of platform support per device
- Plain-language highlights

Without --devices the persisted comparison set of the category is used.
--link accepts a shared comparison link or query string
("?category=Watch&devices=a,b") in place of --category and --devices.

Example:
  specmatrix compare --category phone --devices iphone-16-pro,iphone-14
  specmatrix compare --category watch --md watches.md --html watches.html
  specmatrix compare --category tablet --llm`,
	RunE: runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)

	compareCmd.Flags().StringVarP(&compareCategory, "category", "c", "phone", "device category (phone, tablet, laptop, watch, accessory)")
	compareCmd.Flags().StringVarP(&compareDevices, "devices", "d", "", "comma-separated device slugs (default: saved selection)")
	compareCmd.Flags().StringVar(&compareLink, "link", "", "shared comparison link or query string")
	compareCmd.Flags().IntVar(&compareYear, "year", 0, "reference year for support forecasts (default: current year)")
	compareCmd.Flags().DurationVar(&compareTimeout, "timeout", 30*time.Second, "overall comparison timeout")

	// Output flags
	compareCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path (optional)")
	compareCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	compareCmd.Flags().StringVar(&outHTML, "html", "", "output HTML path (optional)")

	// LLM flags
	compareCmd.Flags().BoolVar(&llmEnabled, "llm", false, "generate an LLM narrative (requires OPENAI_API_KEY)")
	compareCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name (default from config)")
}

func runCompare(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), compareTimeout)
	defer cancel()

	category, err := parseCategory(compareCategory)
	if err != nil {
		return err
	}
	slugs := selection.Decode(compareDevices, nil)

	if compareLink != "" {
		state, err := parseLink(compareLink)
		if err != nil {
			return err
		}
		category, slugs = state.Category, state.Devices
	}

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	if llmEnabled {
		a.cfg.LLM.Provider = "openai"
		if llmModel != "" {
			a.cfg.LLM.Model = llmModel
		}
		if a.cfg.LLM.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	}

	if compareDevices == "" && compareLink == "" {
		slugs = a.selections.Get(category)
	}
	if len(slugs) == 0 {
		fmt.Fprintf(os.Stderr, "No devices selected for %s. Add some with 'specmatrix select add' or pass --devices.\n", category)
		return nil
	}

	if verbose {
		state := selection.State{Category: category, Devices: slugs}
		fmt.Fprintf(os.Stderr, "Comparing %s: %s (link: ?%s)\n", category, selection.Encode(slugs), state)
	}

	p := pipeline.NewPipeline(a.cfg, a.devices, a.logger)
	report, err := p.Compare(ctx, pipeline.Request{
		Category:      category,
		Slugs:         slugs,
		ReferenceYear: compareYear,
	})
	if err != nil {
		return fmt.Errorf("compare failed: %w", err)
	}

	return p.RenderReport(report, pipeline.Outputs{JSON: outJSON, Markdown: outMD, HTML: outHTML}, verbose)
}

// parseLink reads a comparison from a full URL or a bare query string
func parseLink(link string) (selection.State, error) {
	raw := link
	if i := strings.IndexByte(link, '?'); i >= 0 {
		raw = link[i+1:]
	}
	q, err := url.ParseQuery(raw)
	if err != nil {
		return selection.State{}, fmt.Errorf("parse link: %w", err)
	}
	return selection.ParseQuery(q), nil
}
