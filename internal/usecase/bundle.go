package usecase

import (
	"log/slog"
	"path/filepath"

	"bundler/internal/adapter/analyzer"
	"bundler/internal/domain"
	"bundler/internal/logging"
)

// BundleUseCase loads the entry file's directory tree and resolves the entry
// unit against it.
type BundleUseCase struct {
	loader    *LoadUseCase
	resolver  *ResolveUseCase
	extractor *analyzer.UnitExtractor
	logger    *slog.Logger
}

// NewBundleUseCase creates a new bundle use case.
func NewBundleUseCase(loader *LoadUseCase, resolver *ResolveUseCase, extractor *analyzer.UnitExtractor, logger *slog.Logger) *BundleUseCase {
	if logger == nil {
		logger = logging.Discard()
	}
	return &BundleUseCase{
		loader:    loader,
		resolver:  resolver,
		extractor: extractor,
		logger:    logger,
	}
}

// BundleResult contains the bundle plus load statistics.
type BundleResult struct {
	Bundle *domain.Bundle
	Load   *LoadResult
}

// Bundle resolves entryPath and every unit it reaches.
func (u *BundleUseCase) Bundle(entryPath string, progress ProgressFunc) (*BundleResult, error) {
	table, load, entry, err := u.prepare(entryPath, progress)
	if err != nil {
		return nil, err
	}

	bundle := u.resolver.Resolve(table, entry)
	u.logger.Info("bundle assembled",
		slog.String("entry", string(entry)),
		slog.Int("units", len(bundle.Discovered)-len(bundle.Missing)),
		slog.Int("missing", len(bundle.Missing)))

	return &BundleResult{Bundle: bundle, Load: load}, nil
}

// Dependencies returns the discovery order for entryPath without assembling
// a bundle. The second slice lists identifiers with no loaded unit.
func (u *BundleUseCase) Dependencies(entryPath string) ([]domain.ModuleID, []domain.ModuleID, error) {
	table, _, entry, err := u.prepare(entryPath, nil)
	if err != nil {
		return nil, nil, err
	}

	discovered := u.resolver.Discover(table, entry)
	var missing []domain.ModuleID
	for _, id := range discovered {
		if _, ok := table.Get(id); !ok {
			missing = append(missing, id)
		}
	}
	return discovered, missing, nil
}

func (u *BundleUseCase) prepare(entryPath string, progress ProgressFunc) (*domain.UnitTable, *LoadResult, domain.ModuleID, error) {
	entryPath = filepath.Clean(entryPath)
	root := filepath.Dir(entryPath)

	load, err := u.loader.Load(root, progress)
	if err != nil {
		return nil, nil, "", err
	}
	u.logger.Info("source tree loaded",
		slog.String("root", root),
		slog.Int("files", load.FilesLoaded),
		slog.Int("units", load.Table.Len()),
		slog.Int("cache_hits", load.CacheHits))

	entry := EntryID(load.Table, entryPath, u.extractor.Stem(filepath.Base(entryPath)))
	if _, ok := load.Table.IDForPath(entryPath); !ok {
		u.logger.Warn("entry file produced no unit", slog.String("path", entryPath), slog.String("id", string(entry)))
	}
	return load.Table, load, entry, nil
}

// EntryID returns the identifier registered for entryPath, or stem when the
// file itself produced no unit.
func EntryID(table *domain.UnitTable, entryPath, stem string) domain.ModuleID {
	if id, ok := table.IDForPath(entryPath); ok {
		return id
	}
	return domain.ModuleID(stem)
}
