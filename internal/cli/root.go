package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ppiankov/specmatrix/internal/model"
)

// Version is the release version, overridden at build time with -ldflags
var Version = "v0.1.0"

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "specmatrix",
	Short: "Specmatrix - side-by-side device comparison",
	Long: `Specmatrix compares up to five devices of one category side by side.

It lays out every published attribute in a grouped matrix, marks the
devices holding the best value for each numeric attribute, forecasts how
many years of platform support each device has left, and keeps one
comparison set per category between runs.

Winners are computed from published figures only. Unknown values are
shown as "—" and never count as zero.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number of Specmatrix.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("specmatrix %s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.specmatrix/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Bind flags to viper
	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Search for config in ~/.specmatrix
		viper.AddConfigPath(model.DefaultHome())
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	bindEnv(viper.GetViper())

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// bindEnv reads environment variables that match SPECMATRIX_*, e.g.
// SPECMATRIX_SEARCH_DEBOUNCE for search.debounce
func bindEnv(v *viper.Viper) {
	v.SetEnvPrefix("SPECMATRIX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v, model.DefaultConfig())
}

// setDefaults registers every key so environment variables can override
// settings that are absent from the config file
func setDefaults(v *viper.Viper, cfg *model.Config) {
	v.SetDefault("store.path", cfg.Store.Path)
	v.SetDefault("selection.dir", cfg.Selection.Dir)
	v.SetDefault("cache.enabled", cfg.Cache.Enabled)
	v.SetDefault("cache.memory_ttl", cfg.Cache.MemoryTTL)
	v.SetDefault("cache.disk_dir", cfg.Cache.DiskDir)
	v.SetDefault("cache.disk_ttl", cfg.Cache.DiskTTL)
	v.SetDefault("search.debounce", cfg.Search.Debounce)
	v.SetDefault("search.min_chars", cfg.Search.MinChars)
	v.SetDefault("search.limit", cfg.Search.Limit)
	v.SetDefault("search.per_category_limit", cfg.Search.PerCategoryLimit)
	v.SetDefault("search.requests_per_second", cfg.Search.RequestsPerSecond)
	v.SetDefault("search.burst", cfg.Search.Burst)
	v.SetDefault("longevity.reference_year", cfg.Longevity.ReferenceYear)
	v.SetDefault("concurrency.workers", cfg.Concurrency.Workers)
	v.SetDefault("concurrency.load_workers", cfg.Concurrency.LoadWorkers)
	v.SetDefault("llm.provider", cfg.LLM.Provider)
	v.SetDefault("llm.model", cfg.LLM.Model)
	v.SetDefault("llm.api_key", cfg.LLM.APIKey)
	v.SetDefault("llm.base_url", cfg.LLM.BaseURL)
	v.SetDefault("llm.timeout", cfg.LLM.Timeout)
	v.SetDefault("llm.max_tokens", cfg.LLM.MaxTokens)
	v.SetDefault("llm.http_proxy", cfg.LLM.HTTPProxy)
	v.SetDefault("llm.https_proxy", cfg.LLM.HTTPSProxy)
	v.SetDefault("llm.no_proxy", cfg.LLM.NoProxy)
	v.SetDefault("output.verbose", cfg.Output.Verbose)
}

// loadConfig resolves flags, environment, config file and defaults into a
// validated configuration
func loadConfig(v *viper.Viper) (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	cfg.Store.Path = expandHome(cfg.Store.Path)
	cfg.Selection.Dir = expandHome(cfg.Selection.Dir)
	cfg.Cache.DiskDir = expandHome(cfg.Cache.DiskDir)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

// newLogger builds the structured logger; diagnostics go to stderr at warn
// level, or debug with --verbose
func newLogger(debug bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return cfg.Build()
}
