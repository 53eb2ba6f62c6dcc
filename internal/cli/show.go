package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ppiankov/specmatrix/internal/matrix"
	"github.com/ppiankov/specmatrix/internal/model"
)

var (
	showCategory string
	showYear     int
)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show <slug>",
	Short: "Print the full spec sheet of one device",
	Long: `Show prints every catalog attribute of a single device, grouped as in a
comparison, followed by its support forecast. Attributes without a published
value are shown as "—".

Example:
  specmatrix show iphone-16-pro
  specmatrix show apple-watch-ultra-2 --category watch`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		category, err := parseCategory(showCategory)
		if err != nil {
			return err
		}

		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = a.Close() }()

		d, err := a.devices.GetBySlug(ctx, category, args[0])
		if err != nil {
			return fmt.Errorf("show %s: %w", args[0], err)
		}

		year := showYear
		if year == 0 {
			year = a.cfg.Longevity.ReferenceYear
		}
		m := matrix.NewBuilder(nil).WithLongevity(year).Build(category, []model.Device{d})
		printSpecSheet(os.Stdout, d, m)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().StringVarP(&showCategory, "category", "c", "phone", "device category")
	showCmd.Flags().IntVar(&showYear, "year", 0, "reference year for the support forecast (default: current year)")
}

// printSpecSheet writes the single-device view of m
func printSpecSheet(w io.Writer, d model.Device, m matrix.Matrix) {
	fmt.Fprintf(w, "%s (%s)\n", d.DisplayName(), d.Category)
	released := d.ReleaseDate
	if released == "" {
		released = model.Unknown
	}
	fmt.Fprintf(w, "Released: %s\n", released)

	for _, g := range m.Groups {
		fmt.Fprintf(w, "\n%s\n", g.Name)
		for _, r := range g.Rows {
			display := model.Unknown
			if len(r.Cells) > 0 {
				display = r.Cells[0].Display
			}
			fmt.Fprintf(w, "  %-28s %s\n", r.Definition.Label, display)
		}
	}
}
