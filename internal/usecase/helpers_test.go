package usecase

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"bundler/config"
	"bundler/internal/adapter/analyzer"
	"bundler/internal/adapter/fs"
	"bundler/internal/port"
)

// writeTree creates files under root; keys are slash separated paths.
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

type pipeline struct {
	extractor *analyzer.UnitExtractor
	loader    *LoadUseCase
	resolver  *ResolveUseCase
	bundle    *BundleUseCase
	logs      *bytes.Buffer
}

func newPipeline(t *testing.T, cfg *config.Config, cache port.UnitCache) *pipeline {
	t.Helper()
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	logs := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: slog.LevelWarn}))

	lister, err := fs.NewLister(cfg.Source.Excludes)
	require.NoError(t, err)

	extractor := analyzer.NewUnitExtractor(cfg.Source.Extension, cfg.Source.StdlibPrefix, logger)
	loader := NewLoadUseCase(lister, extractor, cache, LoadPolicy{
		Extension:            cfg.Source.Extension,
		IncludeExtensionless: cfg.Source.IncludeExtensionless,
	}, logger)
	resolver := NewResolveUseCase(logger)

	return &pipeline{
		extractor: extractor,
		loader:    loader,
		resolver:  resolver,
		bundle:    NewBundleUseCase(loader, resolver, extractor, logger),
		logs:      logs,
	}
}
