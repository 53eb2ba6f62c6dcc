package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/ppiankov/specmatrix/internal/model"
	"github.com/ppiankov/specmatrix/internal/score"
	"github.com/ppiankov/specmatrix/internal/selection"
	"github.com/ppiankov/specmatrix/internal/store"
)

var (
	longevityCategory string
	longevityDevices  string
	longevityYear     int
)

// longevityCmd represents the longevity command
var longevityCmd = &cobra.Command{
	Use:   "longevity",
	Short: "Forecast remaining platform support",
	Long: `Longevity estimates the years of platform support each device has left,
assuming a seven year support window from its release year.

Example:
  specmatrix longevity --category phone --devices iphone-16,iphone-11
  specmatrix longevity --category watch --year 2028`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		category, err := parseCategory(longevityCategory)
		if err != nil {
			return err
		}

		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = a.Close() }()

		var devices []model.Device
		if longevityDevices == "" && len(a.selections.Get(category)) == 0 {
			// Nothing selected: forecast the whole category
			devices, err = a.devices.ListByCategory(ctx, category)
			if err != nil {
				return fmt.Errorf("list devices: %w", err)
			}
		} else {
			slugs := selection.Decode(longevityDevices, nil)
			if longevityDevices == "" {
				slugs = a.selections.Get(category)
			}
			devices = loadDevices(cmd, a.devices, category, slugs)
		}

		lon := score.NewLongevity()
		year := longevityYear
		if year == 0 {
			year = a.cfg.Longevity.ReferenceYear
		}
		if year == 0 {
			year = lon.CurrentYear()
		}

		winners := lon.Winners(devices, year)
		fmt.Printf("Support forecast for %s at %d (%d year window)\n\n", category, year, model.SupportWindowYears)
		for _, d := range devices {
			f := lon.Forecast(d, year)
			mark := ""
			if slices.Contains(winners, d.Slug) {
				mark = " ★"
			}
			if !f.Known {
				fmt.Printf("  %-36s release date unknown\n", d.DisplayName())
				continue
			}
			fmt.Printf("  %-36s until %d  %d yrs left%s\n", d.DisplayName(), f.SupportEndYear, f.YearsRemaining, mark)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(longevityCmd)
	longevityCmd.Flags().StringVarP(&longevityCategory, "category", "c", "phone", "device category")
	longevityCmd.Flags().StringVarP(&longevityDevices, "devices", "d", "", "comma-separated device slugs (default: saved selection)")
	longevityCmd.Flags().IntVar(&longevityYear, "year", 0, "reference year (default: current year)")
}

// loadDevices fetches slugs in order, warning about unknown ones
func loadDevices(cmd *cobra.Command, devices store.DeviceStore, category model.Category, slugs []string) []model.Device {
	var out []model.Device
	for _, slug := range slugs {
		d, err := devices.GetBySlug(cmd.Context(), category, slug)
		if err != nil {
			cmd.PrintErrf("⚠️  %s: %v\n", slug, err)
			continue
		}
		out = append(out, d)
	}
	return out
}
