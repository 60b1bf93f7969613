package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"bundler/internal/adapter/store"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the unit cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear [dir]",
	Short: "Remove every cached unit",
	Long: `Remove every parsed unit stored in the cache of a project directory.
The cache is only used when bundling with --cache or cache.enabled.

Examples:
  bundler cache clear src/app`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCacheClear,
}

func init() {
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	dir := "."
	if len(args) > 0 {
		dir = projectDir(args[0])
	}

	path := cfg.CachePath(dir)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Fprintf(cmd.OutOrStdout(), "No unit cache at %s\n", path)
		return nil
	}

	st, err := store.NewBoltStore(path)
	if err != nil {
		return fmt.Errorf("failed to open unit cache: %w", err)
	}
	defer st.Close()

	n, err := st.CountUnits()
	if err != nil {
		return fmt.Errorf("failed to count cached units: %w", err)
	}
	if err := st.Clear(); err != nil {
		return fmt.Errorf("failed to clear unit cache: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached units from %s\n", n, path)
	return nil
}
