package port

import "bundler/internal/domain"

// UnitCache stores parse results keyed by file path. Get reports a hit only
// when the stored size and modification time match.
type UnitCache interface {
	GetUnit(path string, modTime, size int64) (*domain.Unit, bool, error)

	PutUnit(unit *domain.Unit, modTime, size int64) error
}
