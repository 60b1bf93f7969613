package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"bundler/config"
	"bundler/internal/adapter/analyzer"
	"bundler/internal/adapter/fs"
	"bundler/internal/adapter/store"
	"bundler/internal/port"
	"bundler/internal/usecase"
)

var (
	bundleOutput string
	bundleCache  bool
)

func init() {
	rootCmd.Flags().StringVarP(&bundleOutput, "output", "o", "", "output location (default from config, Output.java)")
	rootCmd.Flags().BoolVar(&bundleCache, "cache", false, "reuse parsed files from the unit cache")
}

func runBundle(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	entry := args[0]

	output := cfg.Output.Path
	if bundleOutput != "" {
		output = bundleOutput
	}

	logger.Info("starting bundler",
		slog.String("entry", entry),
		slog.String("output", output),
		slog.Bool("verbose", verbose))
	fmt.Printf("Bundling all dependency in %s to %s\n", entry, output)

	bundleUC, cleanup, err := newBundleUseCase(cfg, filepath.Dir(entry), bundleCache || cfg.Cache.Enabled)
	if err != nil {
		return err
	}
	defer cleanup()

	var bar *progressbar.ProgressBar
	var progress usecase.ProgressFunc
	if !verbose {
		bar = progressbar.NewOptions(-1,
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("Loading sources"),
			progressbar.OptionSpinnerType(14),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
		progress = func(loaded int, path string) {
			bar.Add(1)
		}
	}

	result, err := bundleUC.Bundle(entry, progress)
	if bar != nil {
		bar.Finish()
	}
	if err != nil {
		return err
	}

	fmt.Println("Dependency solved")

	content := result.Bundle.Bytes()
	if err := os.WriteFile(output, content, 0644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	fmt.Printf("%d bytes has been written to %s\n", len(content), output)
	fmt.Printf("  Files loaded:  %d", result.Load.FilesLoaded)
	if result.Load.CacheHits > 0 {
		fmt.Printf(" (%d from cache)", result.Load.CacheHits)
	}
	fmt.Println()
	fmt.Printf("  Units bundled: %d\n", len(result.Bundle.Discovered)-len(result.Bundle.Missing))

	if len(result.Bundle.Missing) > 0 {
		fmt.Printf("\nWarnings:\n")
		for _, id := range result.Bundle.Missing {
			fmt.Printf("  - unresolved %s\n", id)
		}
	}
	return nil
}

// newBundleUseCase wires the bundling pipeline for a project directory. The
// returned cleanup closes the unit cache when one was opened.
func newBundleUseCase(cfg *config.Config, dir string, withCache bool) (*usecase.BundleUseCase, func(), error) {
	cleanup := func() {}

	lister, err := fs.NewLister(cfg.Source.Excludes)
	if err != nil {
		return nil, cleanup, fmt.Errorf("invalid source.excludes: %w", err)
	}

	extractor := analyzer.NewUnitExtractor(cfg.Source.Extension, cfg.Source.StdlibPrefix, logger)

	var cache port.UnitCache
	if withCache {
		st, err := openCache(cfg, dir)
		if err != nil {
			return nil, cleanup, err
		}
		cache = st
		cleanup = func() {
			if err := st.Close(); err != nil {
				logger.Warn("failed to close unit cache", slog.String("error", err.Error()))
			}
		}
	}

	policy := usecase.LoadPolicy{
		Extension:            cfg.Source.Extension,
		IncludeExtensionless: cfg.Source.IncludeExtensionless,
	}
	loader := usecase.NewLoadUseCase(lister, extractor, cache, policy, logger)
	resolver := usecase.NewResolveUseCase(logger)

	return usecase.NewBundleUseCase(loader, resolver, extractor, logger), cleanup, nil
}

func openCache(cfg *config.Config, dir string) (*store.BoltStore, error) {
	if err := cfg.EnsureCacheDir(dir); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	st, err := store.NewBoltStore(cfg.CachePath(dir))
	if err != nil {
		return nil, fmt.Errorf("failed to open unit cache: %w", err)
	}

	migration, err := st.Prepare(cfg)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("failed to prepare unit cache: %w", err)
	}
	if migration.NeedsRebuild {
		logger.Info("unit cache cleared", slog.String("reason", migration.Reason))
	}
	return st, nil
}
