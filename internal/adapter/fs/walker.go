package fs

import (
	"fmt"
	iofs "io/fs"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"bundler/internal/port"
)

// Lister reads one directory level at a time, dropping entries whose name
// matches an exclusion pattern.
type Lister struct {
	excludes []string
}

func NewLister(excludes []string) (*Lister, error) {
	for _, pattern := range excludes {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid exclude pattern %q", pattern)
		}
	}
	return &Lister{excludes: excludes}, nil
}

// List returns the entries of dir in name order, without excluded names.
// Symbolic links are reported as directories when they point at one.
func (l *Lister) List(dir string) ([]port.DirEntry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	listed := make([]port.DirEntry, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if l.Excluded(name) {
			continue
		}

		path := filepath.Join(dir, name)
		info, err := entry.Info()
		if err != nil {
			return nil, err
		}
		if entry.Type()&iofs.ModeSymlink != 0 {
			if target, err := os.Stat(path); err == nil {
				info = target
			}
		}

		listed = append(listed, port.DirEntry{
			Name:    name,
			Path:    path,
			IsDir:   info.IsDir(),
			ModTime: info.ModTime().UnixNano(),
			Size:    info.Size(),
		})
	}
	return listed, nil
}

// Excluded reports whether name matches any exclusion pattern.
func (l *Lister) Excluded(name string) bool {
	for _, pattern := range l.excludes {
		matched, err := doublestar.Match(pattern, name)
		if err == nil && matched {
			return true
		}
	}
	return false
}

func (l *Lister) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}
