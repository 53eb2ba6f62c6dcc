package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ppiankov/specmatrix/internal/model"
	"github.com/ppiankov/specmatrix/internal/selection"
	"github.com/ppiankov/specmatrix/internal/store"
)

var selectCategory string

// selectCmd represents the select command
var selectCmd = &cobra.Command{
	Use:   "select",
	Short: "Manage the saved comparison set of a category",
	Long: `Each category keeps one comparison set of up to five devices between runs.
Slots are numbered from 1 in the order devices were added.

Example:
  specmatrix select add iphone-16-pro --category phone
  specmatrix select replace 2 iphone-15-pro-max --category phone
  specmatrix select remove 1 --category phone
  specmatrix select list`,
}

var selectListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show saved comparison sets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer func() { _ = a.Close() }()

		categories := model.Categories()
		if cmd.Flags().Changed("category") {
			c, err := parseCategory(selectCategory)
			if err != nil {
				return err
			}
			categories = []model.Category{c}
		}

		for _, c := range categories {
			printSet(c, a.selections.Get(c))
		}
		return nil
	},
}

var selectAddCmd = &cobra.Command{
	Use:   "add <slug>",
	Short: "Add a device to the comparison set",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSelection(cmd, func(a *app, c model.Category) ([]string, error) {
			if err := ensureDevice(cmd.Context(), a, c, args[0]); err != nil {
				return nil, err
			}
			return a.selections.Add(c, args[0])
		})
	},
}

var selectReplaceCmd = &cobra.Command{
	Use:   "replace <slot> <slug>",
	Short: "Replace the device in a slot (an empty slot appends)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		slot, err := parseSlot(args[0])
		if err != nil {
			return err
		}
		return withSelection(cmd, func(a *app, c model.Category) ([]string, error) {
			if err := ensureDevice(cmd.Context(), a, c, args[1]); err != nil {
				return nil, err
			}
			return a.selections.ReplaceAt(c, slot, args[1])
		})
	},
}

var selectRemoveCmd = &cobra.Command{
	Use:   "remove <slot>",
	Short: "Remove the device in a slot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		slot, err := parseSlot(args[0])
		if err != nil {
			return err
		}
		return withSelection(cmd, func(a *app, c model.Category) ([]string, error) {
			return a.selections.RemoveAt(c, slot)
		})
	},
}

var selectClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty the comparison set",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSelection(cmd, func(a *app, c model.Category) ([]string, error) {
			return []string{}, a.selections.Clear(c)
		})
	},
}

var selectWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print comparison sets as other processes change them",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = a.Close() }()

		unsubscribe := a.selections.Subscribe(func(e selection.Event) {
			printSet(e.Category, e.Slugs)
		})
		defer unsubscribe()

		// Prime the last-seen state so only later changes are reported
		for _, c := range model.Categories() {
			a.selections.Refresh(c)
		}

		w, err := selection.NewWatcher(a.selections, a.backend.Dir(), a.logger)
		if err != nil {
			return err
		}
		if err := w.Start(ctx); err != nil {
			return err
		}
		defer w.Stop()

		fmt.Fprintf(os.Stderr, "Watching %s (Ctrl+C to stop)\n", a.backend.Dir())
		<-ctx.Done()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(selectCmd)
	selectCmd.PersistentFlags().StringVarP(&selectCategory, "category", "c", "phone", "device category")

	selectCmd.AddCommand(selectListCmd)
	selectCmd.AddCommand(selectAddCmd)
	selectCmd.AddCommand(selectReplaceCmd)
	selectCmd.AddCommand(selectRemoveCmd)
	selectCmd.AddCommand(selectClearCmd)
	selectCmd.AddCommand(selectWatchCmd)
}

// withSelection opens the app, applies fn to the --category set and prints
// the result
func withSelection(cmd *cobra.Command, fn func(a *app, c model.Category) ([]string, error)) error {
	c, err := parseCategory(selectCategory)
	if err != nil {
		return err
	}

	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	list, err := fn(a, c)
	if errors.Is(err, selection.ErrCapacityExceeded) {
		printSet(c, a.selections.Get(c))
		return fmt.Errorf("%w; remove or replace a device first", err)
	}
	if err != nil {
		return err
	}

	printSet(c, list)
	return nil
}

func ensureDevice(ctx context.Context, a *app, c model.Category, slug string) error {
	_, err := a.devices.GetBySlug(ctx, c, strings.TrimSpace(slug))
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("unknown %s device %q (try 'specmatrix search')", c, slug)
	}
	return err
}

// parseSlot converts a 1-based slot number to an index
func parseSlot(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid slot %q: expected a number from 1 to %d", s, model.MaxComparisonSet)
	}
	return n - 1, nil
}

func printSet(c model.Category, slugs []string) {
	fmt.Printf("%-10s (%d/%d)", c, len(slugs), model.MaxComparisonSet)
	if len(slugs) == 0 {
		fmt.Println("  —")
		return
	}
	fmt.Println()
	for i, s := range slugs {
		fmt.Printf("  %d. %s\n", i+1, s)
	}
}
