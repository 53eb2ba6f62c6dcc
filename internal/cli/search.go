package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/specmatrix/internal/model"
	"github.com/ppiankov/specmatrix/internal/search"
	"github.com/ppiankov/specmatrix/internal/worker"
)

var (
	searchCategory    string
	searchAll         bool
	searchInteractive bool
	searchLimit       int
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search [text]",
	Short: "Find devices by name",
	Long: `Search matches a case-insensitive substring of device names, newest first.

With --all every category is searched at once (a few hits per category).
With --interactive each line read from stdin is treated as the current
input; lines arriving within the debounce window are coalesced and only the
latest query's results are printed.

Example:
  specmatrix search pro --category tablet
  specmatrix search air --all
  specmatrix search --interactive --category phone`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringVarP(&searchCategory, "category", "c", "phone", "device category")
	searchCmd.Flags().BoolVar(&searchAll, "all", false, "search every category")
	searchCmd.Flags().BoolVarP(&searchInteractive, "interactive", "i", false, "read successive inputs from stdin")
	searchCmd.Flags().IntVar(&searchLimit, "limit", 0, "maximum results (default from config, at most 10)")
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	text := ""
	if len(args) == 1 {
		text = args[0]
	}

	if searchAll {
		groups, err := search.SearchAll(ctx, a.devices, text, a.cfg.Search.PerCategoryLimit)
		if err != nil {
			if len(groups) == 0 {
				return fmt.Errorf("search: %w", err)
			}
			fmt.Fprintf(os.Stderr, "⚠️  Some categories failed: %v\n", err)
		}
		if len(groups) == 0 {
			fmt.Println("No matches.")
		}
		for _, g := range groups {
			fmt.Printf("%s\n", g.Category)
			printResults(g.Results)
		}
		return nil
	}

	category, err := parseCategory(searchCategory)
	if err != nil {
		return err
	}

	limit := a.cfg.Search.Limit
	if searchLimit > 0 {
		limit = searchLimit
	}

	responses := make(chan search.Response, 16)
	session := search.NewSession(a.devices, func(r search.Response) { responses <- r },
		search.WithDebounce(a.cfg.Search.Debounce),
		search.WithMinChars(a.cfg.Search.MinChars),
		search.WithLimit(limit),
		search.WithLimiter(worker.NewLimiter(a.cfg.Search.RequestsPerSecond, a.cfg.Search.Burst)),
		search.WithLogger(a.logger),
	)
	defer session.Close()

	if searchInteractive {
		return interactiveSearch(ctx, session, category, responses)
	}

	token := session.Type(category, text)
	return awaitResponse(ctx, session, token, responses)
}

// awaitResponse prints the response for token, skipping superseded ones
func awaitResponse(ctx context.Context, session *search.Session, token uint64, responses <-chan search.Response) error {
	timeout := time.After(10 * time.Second)
	for {
		select {
		case r := <-responses:
			if r.Token != session.Current() || r.Token != token {
				continue
			}
			return printResponse(r)
		case <-timeout:
			return fmt.Errorf("search timed out")
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func interactiveSearch(ctx context.Context, session *search.Session, category model.Category, responses <-chan search.Response) error {
	fmt.Fprintf(os.Stderr, "Searching %s; type a query per line (Ctrl+D to finish)\n", category)

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	var last uint64
	for {
		select {
		case line, ok := <-lines:
			if !ok {
				// Input finished: wait for the final query, if any
				if last == 0 {
					return nil
				}
				return awaitResponse(ctx, session, last, responses)
			}
			last = session.Type(category, line)
		case r := <-responses:
			if r.Token == session.Current() {
				if err := printResponse(r); err != nil {
					return err
				}
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func printResponse(r search.Response) error {
	if r.Err != nil {
		return fmt.Errorf("search %s: %w", r.Category, r.Err)
	}
	fmt.Printf("%s %q\n", r.Category, r.Text)
	if len(r.Results) == 0 {
		fmt.Println("  No matches.")
		return nil
	}
	printResults(r.Results)
	return nil
}

func printResults(results []search.Result) {
	for _, r := range results {
		date := r.ReleaseDate
		if date == "" {
			date = model.Unknown
		}
		fmt.Printf("  %-28s %-36s %s\n", r.Slug, r.DisplayName, date)
	}
}
