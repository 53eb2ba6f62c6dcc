package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ppiankov/specmatrix/internal/history"
	"github.com/ppiankov/specmatrix/internal/matrix"
)

var trendCategory string

// trendCmd represents the trend command
var trendCmd = &cobra.Command{
	Use:   "trend <spec-key>",
	Short: "Show the year-over-year trend of an attribute",
	Long: `Trend prints the flagship series behind an attribute's spotlight view.

Example:
  specmatrix trend geekbench_multi
  specmatrix trend ram_gb --category phone`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := args[0]
		category, err := parseCategory(trendCategory)
		if err != nil {
			return err
		}

		spot, ok := matrix.NewBuilder(nil).Spotlight(category, key)
		if !ok {
			return fmt.Errorf("no trend for %s/%s (available: %v)", category, key, history.Keys())
		}

		fmt.Printf("%s (%s)\n\n", spot.Definition.Label, category)
		peak := 0.0
		for _, p := range spot.Trend {
			peak = max(peak, p.Value)
		}
		for _, p := range spot.Trend {
			bar := 0
			if peak > 0 {
				bar = int(p.Value / peak * 30)
			}
			fmt.Printf("  %s  %-30s %s%s  %s\n", p.Period, strings.Repeat("█", bar),
				strconv.FormatFloat(p.Value, 'f', -1, 64), spot.Definition.Unit, p.Label)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(trendCmd)
	trendCmd.Flags().StringVarP(&trendCategory, "category", "c", "phone", "device category")
}

