package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ppiankov/specmatrix/internal/model"
	"github.com/ppiankov/specmatrix/internal/store"
)

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import <fixtures.yaml>",
	Short: "Import device records from a YAML file",
	Long: `Import upserts device records into the local database. The file holds a
"devices" list; each record names its category and carries the specs of
that category.

Example:
  specmatrix import devices.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		devices, err := store.LoadFixtureFile(args[0])
		if err != nil {
			return err
		}
		return upsertDevices(cmd, devices, args[0])
	},
}

// seedCmd represents the seed command
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the bundled sample catalog",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		devices, err := store.SampleDevices()
		if err != nil {
			return err
		}
		return upsertDevices(cmd, devices, "sample catalog")
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(seedCmd)
}

func upsertDevices(cmd *cobra.Command, devices []model.Device, source string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	n, err := a.db.Upsert(cmd.Context(), devices)
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}

	// Cached records may now be stale
	if err := a.cache.Clear(); err != nil {
		fmt.Fprintf(os.Stderr, "⚠️  Failed to clear cache: %v\n", err)
	}

	counts, err := a.db.Count(cmd.Context())
	if err != nil {
		return fmt.Errorf("count devices: %w", err)
	}

	fmt.Printf("✓ Imported %d devices from %s\n", n, source)
	for _, c := range model.Categories() {
		fmt.Printf("  %-10s %d\n", c, counts[c])
	}
	return nil
}
