package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ppiankov/specmatrix/internal/finder"
	"github.com/ppiankov/specmatrix/internal/model"
)

var (
	finderCategory string
	finderEra      string
	finderSize     string
	finderPort     string
	finderType     string
	finderAI       bool
	finderFiveG    bool
	finderAOD      bool
)

// finderCmd represents the finder command
var finderCmd = &cobra.Command{
	Use:   "finder",
	Short: "Browse a category with filters",
	Long: `Finder lists the devices of a category that match every filter given.

Sizes are per category: phones compact < 6.1", standard 6.1–6.6", max > 6.6";
tablets compact < 10", standard 10–12", max > 12"; watches compact ≤ 41 mm,
standard 42–45 mm, max > 45 mm. Devices without a size always match.

Example:
  specmatrix finder --category phone --era modern --port usb-c --ai
  specmatrix finder --category watch --size max --aod
  specmatrix finder --category accessory --type audio`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		category, err := parseCategory(finderCategory)
		if err != nil {
			return err
		}

		f := finder.Filter{AI: finderAI, FiveG: finderFiveG, AOD: finderAOD}
		if f.Era, err = finder.ParseEra(finderEra); err != nil {
			return err
		}
		if f.Size, err = finder.ParseSize(finderSize); err != nil {
			return err
		}
		if f.Port, err = finder.ParsePort(finderPort); err != nil {
			return err
		}
		if f.Type, err = finder.ParseAccessoryType(finderType); err != nil {
			return err
		}

		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer func() { _ = a.Close() }()

		devices, err := finder.Find(cmd.Context(), a.devices, category, f)
		if err != nil {
			return err
		}

		fmt.Printf("%d %s devices match\n\n", len(devices), category)
		for _, d := range devices {
			era := "Vintage"
			if finder.IsModern(d) {
				era = "Modern"
			}
			date := d.ReleaseDate
			if date == "" {
				date = model.Unknown
			}
			fmt.Printf("  %-28s %-36s %-12s %s\n", d.Slug, d.DisplayName(), date, era)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(finderCmd)

	finderCmd.Flags().StringVarP(&finderCategory, "category", "c", "phone", "device category")
	finderCmd.Flags().StringVar(&finderEra, "era", "", "modern (2021 and later) or vintage")
	finderCmd.Flags().StringVar(&finderSize, "size", "", "compact, standard or max")
	finderCmd.Flags().StringVar(&finderPort, "port", "", "usb-c or lightning")
	finderCmd.Flags().StringVar(&finderType, "type", "", "accessory type: spatial, audio, home, accessory")
	finderCmd.Flags().BoolVar(&finderAI, "ai", false, "Apple Intelligence capable")
	finderCmd.Flags().BoolVar(&finderFiveG, "5g", false, "5G support")
	finderCmd.Flags().BoolVar(&finderAOD, "aod", false, "always-on display")
}
