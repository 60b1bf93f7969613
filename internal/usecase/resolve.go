package usecase

import (
	"bytes"
	"context"
	"log/slog"

	"bundler/internal/domain"
	"bundler/internal/logging"
)

// ResolveUseCase computes the transitive closure of an entry unit and
// serializes it.
type ResolveUseCase struct {
	logger *slog.Logger
}

// NewResolveUseCase creates a new resolve use case.
func NewResolveUseCase(logger *slog.Logger) *ResolveUseCase {
	if logger == nil {
		logger = logging.Discard()
	}
	return &ResolveUseCase{logger: logger}
}

// Discover walks local imports depth-first from entry. The worklist is
// visited LIFO, but the returned slice is in first-discovery order, which is
// the order the bundle is written in. Cycles stop because an identifier is
// pushed at most once.
func (u *ResolveUseCase) Discover(table *domain.UnitTable, entry domain.ModuleID) []domain.ModuleID {
	discovered := []domain.ModuleID{entry}
	seen := map[domain.ModuleID]struct{}{entry: {}}
	stack := []domain.ModuleID{entry}

	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		unit, ok := table.Get(id)
		if !ok {
			u.logger.Warn("failed to find source", slog.String("id", string(id)))
			continue
		}
		for _, imp := range unit.LocalImports {
			if _, dup := seen[imp]; dup {
				u.logger.Log(context.Background(), logging.LevelTrace, "skipping import", slog.String("id", string(imp)))
				continue
			}
			seen[imp] = struct{}{}
			discovered = append(discovered, imp)
			stack = append(stack, imp)
		}
	}
	return discovered
}

// Assemble removes each discovered unit from table, in order, and
// concatenates foreign imports and bodies. Duplicate foreign import lines
// are kept.
func (u *ResolveUseCase) Assemble(table *domain.UnitTable, entry domain.ModuleID, discovered []domain.ModuleID) *domain.Bundle {
	b := &domain.Bundle{Entry: entry, Discovered: discovered}
	var foreign, body bytes.Buffer

	for _, id := range discovered {
		unit, ok := table.Remove(id)
		if !ok {
			u.logger.Warn("failed to find source", slog.String("id", string(id)))
			b.Missing = append(b.Missing, id)
			continue
		}
		foreign.Write(unit.ForeignImports)
		body.Write(unit.Body)
	}

	b.ForeignImports = foreign.Bytes()
	b.Body = body.Bytes()
	return b
}

// Resolve runs Discover then Assemble. table is drained of every bundled
// unit.
func (u *ResolveUseCase) Resolve(table *domain.UnitTable, entry domain.ModuleID) *domain.Bundle {
	discovered := u.Discover(table, entry)
	u.logger.Debug("dependencies discovered", slog.String("entry", string(entry)), slog.Int("count", len(discovered)))
	return u.Assemble(table, entry, discovered)
}
