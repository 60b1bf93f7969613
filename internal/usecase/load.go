package usecase

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"bundler/internal/adapter/analyzer"
	"bundler/internal/domain"
	"bundler/internal/logging"
	"bundler/internal/port"
)

// LoadPolicy decides which directory entries become units.
type LoadPolicy struct {
	Extension            string
	IncludeExtensionless bool
}

// Loadable reports whether a file named name is loaded as a unit: files with
// the source extension always are, files without any extension only when
// IncludeExtensionless is set.
func (p LoadPolicy) Loadable(name string) bool {
	ext := filepath.Ext(name)
	if ext == "" {
		return p.IncludeExtensionless
	}
	return ext == p.Extension
}

// LinkSiblings applies same-package visibility: every unit in a directory may
// refer to every other unit there without an import. One reference per
// sibling stem is appended, qualified with the unit's own package.
func LinkSiblings(unit *domain.Unit, siblings []string) {
	for _, stem := range siblings {
		unit.AddSibling(stem)
	}
}

// ProgressFunc is called after each file is loaded.
type ProgressFunc func(loaded int, path string)

// LoadResult contains the results of a directory scan.
type LoadResult struct {
	Table       *domain.UnitTable
	FilesLoaded int
	CacheHits   int
	Overwritten int
}

// LoadUseCase builds a unit table from a directory tree.
type LoadUseCase struct {
	lister    port.DirLister
	extractor *analyzer.UnitExtractor
	cache     port.UnitCache
	policy    LoadPolicy
	logger    *slog.Logger
}

// NewLoadUseCase creates a new load use case. cache may be nil.
func NewLoadUseCase(
	lister port.DirLister,
	extractor *analyzer.UnitExtractor,
	cache port.UnitCache,
	policy LoadPolicy,
	logger *slog.Logger,
) *LoadUseCase {
	if logger == nil {
		logger = logging.Discard()
	}
	return &LoadUseCase{
		lister:    lister,
		extractor: extractor,
		cache:     cache,
		policy:    policy,
		logger:    logger,
	}
}

// Load scans root depth-first and returns the populated table. Any read
// failure aborts the scan.
func (u *LoadUseCase) Load(root string, progress ProgressFunc) (*LoadResult, error) {
	result := &LoadResult{Table: domain.NewUnitTable()}
	if err := u.loadDir(root, result, progress); err != nil {
		return nil, err
	}
	return result, nil
}

func (u *LoadUseCase) loadDir(dir string, result *LoadResult, progress ProgressFunc) error {
	entries, err := u.lister.List(dir)
	if err != nil {
		return fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	// Siblings are fixed before any file of this directory is loaded.
	var siblings []string
	for _, entry := range entries {
		if !entry.IsDir && u.policy.Loadable(entry.Name) {
			siblings = append(siblings, u.extractor.Stem(entry.Name))
		}
	}

	for _, entry := range entries {
		if entry.IsDir {
			if err := u.loadDir(entry.Path, result, progress); err != nil {
				return err
			}
			continue
		}
		if !u.policy.Loadable(entry.Name) {
			u.logger.Debug("skipping file", slog.String("path", entry.Path))
			continue
		}
		if err := u.loadFile(entry, siblings, result); err != nil {
			return err
		}
		result.FilesLoaded++
		if progress != nil {
			progress(result.FilesLoaded, entry.Path)
		}
	}
	return nil
}

func (u *LoadUseCase) loadFile(entry port.DirEntry, siblings []string, result *LoadResult) error {
	u.logger.Info("loading file", slog.String("path", entry.Path))

	unit, err := u.parse(entry, result)
	if err != nil {
		return err
	}

	LinkSiblings(unit, siblings)

	if result.Table.Insert(unit) {
		result.Overwritten++
		u.logger.Debug("unit replaced", slog.String("id", string(unit.ID)), slog.String("path", entry.Path))
	}
	return nil
}

func (u *LoadUseCase) parse(entry port.DirEntry, result *LoadResult) (*domain.Unit, error) {
	if u.cache != nil {
		unit, ok, err := u.cache.GetUnit(entry.Path, entry.ModTime, entry.Size)
		if err != nil {
			return nil, fmt.Errorf("failed to read cache for %s: %w", entry.Path, err)
		}
		if ok {
			result.CacheHits++
			u.logger.Debug("cache hit", slog.String("path", entry.Path), slog.String("id", string(unit.ID)))
			return unit, nil
		}
	}

	content, err := u.lister.ReadFile(entry.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", entry.Path, err)
	}

	unit, err := u.extractor.Extract(entry.Name, content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", entry.Path, err)
	}
	unit.Path = entry.Path

	if u.cache != nil {
		if err := u.cache.PutUnit(unit, entry.ModTime, entry.Size); err != nil {
			return nil, fmt.Errorf("failed to cache %s: %w", entry.Path, err)
		}
	}
	return unit, nil
}
