package analyzer

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"

	"bundler/internal/domain"
	"bundler/internal/logging"
)

// UnitExtractor turns the raw bytes of one source file into a domain.Unit.
type UnitExtractor struct {
	extension    string
	stdlibPrefix []byte
	logger       *slog.Logger
}

// NewUnitExtractor creates an extractor for files with the given source
// extension (e.g. ".java"). Imports whose token starts with stdlibPrefix are
// hoisted verbatim instead of being resolved locally.
func NewUnitExtractor(extension, stdlibPrefix string, logger *slog.Logger) *UnitExtractor {
	if logger == nil {
		logger = logging.Discard()
	}
	return &UnitExtractor{
		extension:    extension,
		stdlibPrefix: []byte(stdlibPrefix),
		logger:       logger,
	}
}

// Stem returns name without its source extension. Names carrying another
// extension lose that one instead; names without an extension are returned
// unchanged.
func (e *UnitExtractor) Stem(name string) string {
	if e.extension != "" && strings.HasSuffix(name, e.extension) {
		return strings.TrimSuffix(name, e.extension)
	}
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// IsForeign reports whether an import token belongs to the standard library.
func (e *UnitExtractor) IsForeign(token []byte) bool {
	return bytes.HasPrefix(token, e.stdlibPrefix)
}

// Extract classifies every line of content and routes it into the unit's
// body, foreign imports or local imports. The unit's ID is derived from the
// first package line and the file name.
func (e *UnitExtractor) Extract(name string, content []byte) (*domain.Unit, error) {
	unit := &domain.Unit{}
	var body, foreign bytes.Buffer
	packageSeen := false

	lines := bytes.Split(content, []byte{'\n'})
	if n := len(lines); n > 0 && len(lines[n-1]) == 0 {
		lines = lines[:n-1]
	}

	for i, raw := range lines {
		raw = bytes.TrimSuffix(raw, []byte{'\r'})
		line, err := Classify(raw)
		if err != nil {
			var de *DirectiveError
			if errors.As(err, &de) {
				de.Line = i + 1
			}
			return nil, err
		}
		e.logger.Log(context.Background(), logging.LevelTrace, "classified line",
			slog.String("file", name),
			slog.Int("line", i+1),
			slog.String("kind", line.Kind.String()))

		switch line.Kind {
		case KindStaticImport, KindImport:
			if e.IsForeign(line.Payload) {
				writeLine(&foreign, raw)
			} else {
				unit.LocalImports = append(unit.LocalImports, domain.ModuleID(line.Payload))
			}
		case KindPackage:
			if !packageSeen {
				unit.Package = string(line.Payload)
				packageSeen = true
			}
		case KindVisibility, KindOther:
			writeLine(&body, line.Payload)
		}
	}

	unit.ID = domain.ModuleID(unit.PackagePrefix() + e.Stem(name))
	unit.Body = body.Bytes()
	unit.ForeignImports = foreign.Bytes()

	e.logger.Debug("module path", slog.String("file", name), slog.String("id", string(unit.ID)))
	return unit, nil
}

func writeLine(buf *bytes.Buffer, line []byte) {
	buf.Write(line)
	buf.WriteByte('\n')
}
