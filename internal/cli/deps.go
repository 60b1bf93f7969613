package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"bundler/internal/domain"
)

var depsCmd = &cobra.Command{
	Use:   "deps <file>",
	Short: "List the files a bundle would contain",
	Long: `Print the identifiers reachable from the entry file in the order they
would be written to the bundle. Identifiers with no matching source file are
marked as missing. Nothing is written.

Examples:
  bundler deps src/app/Main.java`,
	Args: cobra.ExactArgs(1),
	RunE: runDeps,
}

func init() {
	rootCmd.AddCommand(depsCmd)
}

func runDeps(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	entry := args[0]

	bundleUC, cleanup, err := newBundleUseCase(cfg, filepath.Dir(entry), false)
	if err != nil {
		return err
	}
	defer cleanup()

	discovered, missing, err := bundleUC.Dependencies(entry)
	if err != nil {
		return err
	}

	absent := make(map[domain.ModuleID]bool, len(missing))
	for _, id := range missing {
		absent[id] = true
	}

	out := cmd.OutOrStdout()
	for i, id := range discovered {
		if absent[id] {
			fmt.Fprintf(out, "%3d. %s (missing)\n", i+1, id)
		} else {
			fmt.Fprintf(out, "%3d. %s\n", i+1, id)
		}
	}
	fmt.Fprintf(out, "\n%d reachable, %d missing\n", len(discovered)-len(missing), len(missing))
	return nil
}
