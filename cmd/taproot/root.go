package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/taproot"
	"github.com/aretw0/taproot/pkg/hierarchy"
)

var (
	verbose bool
	dataDir string
	adapter string
)

// fileConfig mirrors the optional ~/.taproot.yaml file.
type fileConfig struct {
	DataDir     string `yaml:"data_dir"`
	Adapter     string `yaml:"adapter"`
	MaxDepth    int    `yaml:"max_depth"`
	MaxChildren int    `yaml:"max_children"`
	WarnDepth   int    `yaml:"warn_depth"`
}

var cfg fileConfig

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "taproot",
	Short: "A hierarchical note-taking engine with tags and reminders",
	Long: `Taproot keeps your notes in a local durable store, organized as a
forest of parent notes and sub-notes, with tags and per-note reminders.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)

		loadConfigFile()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "", "Data directory (default ~/.taproot)")
	rootCmd.PersistentFlags().StringVar(&adapter, "adapter", "", "Storage adapter: file or sqlite (default file)")
}

// loadConfigFile fills unset flags from ~/.taproot.yaml if it exists.
func loadConfigFile() {
	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	data, err := os.ReadFile(filepath.Join(home, ".taproot.yaml"))
	if err != nil {
		return
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		slog.Warn("ignoring unreadable config file", "error", err)
		return
	}
	if dataDir == "" {
		dataDir = cfg.DataDir
	}
	if adapter == "" {
		adapter = cfg.Adapter
	}
}

func resolveDataDir() string {
	if dataDir != "" {
		return dataDir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".taproot"
	}
	return filepath.Join(home, ".taproot")
}

func resolveLimits() hierarchy.Limits {
	limits := hierarchy.DefaultLimits()
	if cfg.MaxDepth > 0 {
		limits.MaxDepth = cfg.MaxDepth
	}
	if cfg.MaxChildren > 0 {
		limits.MaxChildren = cfg.MaxChildren
	}
	if cfg.WarnDepth > 0 {
		limits.WarnDepth = cfg.WarnDepth
	}
	return limits
}

// openApp wires a taproot App from the resolved flags and config.
func openApp() (*taproot.App, error) {
	opts := []taproot.Option{
		taproot.WithLogger(slog.Default()),
		taproot.WithLimits(resolveLimits()),
	}
	if adapter != "" {
		opts = append(opts, taproot.WithAdapter(adapter))
	}
	return taproot.New(resolveDataDir(), opts...)
}

// printWarnings shows outcome warnings without failing the command.
func printWarnings(warnings []string) {
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
}
