// Package cli provides the command-line interface for facetgrip.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"facetgrip/internal/config"
)

// DefaultCatalog is used when no catalog path is given
const DefaultCatalog = "catalog.toml"

type rootOptions struct {
	configPath  string
	noWatch     bool
	noReconcile bool
	logFile     string
	logLevel    string
}

// NewRootCmd creates the root command for facetgrip
func NewRootCmd(version, commit, buildDate string) *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "facetgrip [catalog.toml]",
		Short: "Filter a catalog by free-text search and tag facets",
		Long: `facetgrip loads a TOML catalog of items and facet controls and filters it
interactively. Search ignores case and diacritics; facets combine with AND.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalogPath := DefaultCatalog
			if len(args) > 0 {
				catalogPath = args[0]
			}

			cfg, err := loadConfig(opts.configPath, catalogPath)
			if err != nil {
				return err
			}
			opts.apply(cfg)

			return runTUI(cmd.Context(), cfg, catalogPath)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default: .facetgrip.toml next to the catalog)")
	flags.StringVar(&opts.logFile, "log-file", "", "log file, overrides log.file")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level, overrides log.level")
	rootCmd.Flags().BoolVar(&opts.noWatch, "no-watch", false, "do not watch the catalog file for changes")
	rootCmd.Flags().BoolVar(&opts.noReconcile, "no-reconcile", false, "disable the periodic collection check")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "facetgrip %s\n", version)
			fmt.Fprintf(out, "commit: %s\n", commit)
			fmt.Fprintf(out, "built: %s\n", buildDate)
		},
	}

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(newQueryCmd(opts))
	return rootCmd
}

// Execute runs the root command with a context cancelled on SIGINT/SIGTERM
func Execute(version, commit, buildDate string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd(version, commit, buildDate).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// loadConfig reads an explicit config file, or the one next to the catalog
// when present
func loadConfig(explicit, catalogPath string) (*config.Config, error) {
	if explicit != "" {
		cfg, err := config.LoadFromPath(explicit)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		return cfg, nil
	}

	cfg, err := config.Load(config.PathFor(catalogPath))
	if err != nil && !errors.Is(err, config.ErrNotFound) {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func (o *rootOptions) apply(cfg *config.Config) {
	if o.noWatch {
		cfg.Watch.Enabled = false
	}
	if o.noReconcile {
		cfg.Reconcile.Enabled = false
	}
	if o.logFile != "" {
		cfg.Log.File = o.logFile
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
}
