package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"bundler/config"
	"bundler/internal/logging"
)

var (
	cfgFile  string
	cfg      *config.Config
	verbose  bool
	logger   = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: quietLevel}))
	closeLog = func() error { return nil }
)

// quietLevel keeps the terminal free of log records; errors are printed
// by Execute.
const quietLevel = slog.LevelError + 4

var rootCmd = &cobra.Command{
	Use:   "bundler <file>",
	Short: "A bundler for Java",
	Long: `Bundler concatenates a Java source file and every local source file it
depends on into one file. Dependencies are found through import statements
and through same-package visibility: every non-test file in the directory of
a bundled file is bundled too. Package declarations are removed, "public" is
stripped from type declarations and java.* imports are hoisted to the top.

Example usage:
  bundler src/app/Main.java                # writes Output.java
  bundler src/app/Main.java -o Solution.java
  bundler deps src/app/Main.java           # show what would be bundled`,
	Args:          cobra.ExactArgs(1),
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		dir := "."
		if len(args) > 0 {
			dir = projectDir(args[0])
		}

		if cfgFile != "" {
			cfg, err = config.Load(cfgFile)
		} else {
			cfg, err = config.LoadFromDir(dir)
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		return setupLogging()
	},
	RunE: runBundle,
}

// Execute runs the root command. Any panic below this point is logged and
// terminates the process with a non-zero status.
func Execute() {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("fatal", slog.Any("panic", r))
			closeLog()
			fmt.Fprintln(os.Stderr, "Error:", r)
			os.Exit(1)
		}
	}()

	err := rootCmd.Execute()
	if err != nil {
		logger.Error("command failed", slog.String("error", err.Error()))
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	closeLog()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is bundler.yaml next to the entry file)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose mode")
}

func setupLogging() error {
	logPath := cfg.Logging.File
	if !filepath.IsAbs(logPath) {
		var err error
		logPath, err = logging.DefaultLogPath(logPath)
		if err != nil {
			return err
		}
	}

	fileLevel, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("invalid logging.level: %w", err)
	}
	termLevel := quietLevel
	if verbose {
		termLevel = slog.LevelDebug
	}

	l, closeFn, err := logging.Setup(logging.Options{
		FilePath:  logPath,
		FileLevel: fileLevel,
		Terminal:  os.Stderr,
		TermLevel: termLevel,
	})
	if err != nil {
		return err
	}
	logger, closeLog = l, closeFn
	return nil
}

// projectDir returns arg itself when it is a directory, otherwise its parent.
func projectDir(arg string) string {
	if info, err := os.Stat(arg); err == nil && info.IsDir() {
		return arg
	}
	return filepath.Dir(arg)
}

func GetConfig() *config.Config {
	return cfg
}
