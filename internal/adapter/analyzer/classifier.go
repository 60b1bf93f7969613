package analyzer

import (
	"bytes"
	"errors"
	"fmt"
)

// LineKind is the syntactic category of one source line.
type LineKind int

const (
	KindOther LineKind = iota
	KindStaticImport
	KindImport
	KindPackage
	KindDecorator
	KindComment
	KindVisibility
)

func (k LineKind) String() string {
	switch k {
	case KindStaticImport:
		return "static import"
	case KindImport:
		return "import"
	case KindPackage:
		return "package"
	case KindDecorator:
		return "decorator"
	case KindComment:
		return "comment"
	case KindVisibility:
		return "visibility"
	default:
		return "other"
	}
}

// ErrMalformedDirective is returned when an import or package line lacks the
// token it must carry.
var ErrMalformedDirective = errors.New("malformed directive line")

// DirectiveError describes a malformed directive line.
type DirectiveError struct {
	Line int
	Kind LineKind
	Text string
}

func (e *DirectiveError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s: missing token in %q", e.Line, e.Kind, e.Text)
	}
	return fmt.Sprintf("%s: missing token in %q", e.Kind, e.Text)
}

func (e *DirectiveError) Unwrap() error {
	return ErrMalformedDirective
}

// Line is a classified source line. Payload is the import or package token
// for directives, the text kept in the body for visibility and other lines,
// and nil for dropped lines.
type Line struct {
	Kind    LineKind
	Payload []byte
}

var (
	prefixStaticImport = []byte("import static")
	prefixImport       = []byte("import")
	prefixPackage      = []byte("package")
	prefixDecorator    = []byte("@")
	prefixComment      = []byte("//")
	prefixPublic       = []byte("public")

	visibilityPrefixes = [][]byte{
		[]byte("public interface"),
		[]byte("public class"),
		[]byte("public enum"),
	}
)

// Classify returns the category of one raw line (without its newline).
// The first matching rule wins; see the KindX constants for the order.
func Classify(line []byte) (Line, error) {
	switch {
	case bytes.HasPrefix(line, prefixStaticImport):
		return directive(line, KindStaticImport, 2)
	case bytes.HasPrefix(line, prefixImport):
		return directive(line, KindImport, 1)
	case bytes.HasPrefix(line, prefixPackage):
		return directive(line, KindPackage, 1)
	}

	trimmed := bytes.TrimLeft(line, " ")
	switch {
	case bytes.HasPrefix(trimmed, prefixDecorator):
		return Line{Kind: KindDecorator}, nil
	case bytes.HasPrefix(trimmed, prefixComment):
		return Line{Kind: KindComment}, nil
	}

	for _, p := range visibilityPrefixes {
		if bytes.HasPrefix(trimmed, p) {
			rest := bytes.TrimLeft(trimmed[len(prefixPublic):], " ")
			return Line{Kind: KindVisibility, Payload: rest}, nil
		}
	}

	return Line{Kind: KindOther, Payload: line}, nil
}

// directive extracts the n-th space separated token with a trailing ';'
// removed.
func directive(line []byte, kind LineKind, n int) (Line, error) {
	tokens := bytes.Split(line, []byte{' '})
	if len(tokens) <= n {
		return Line{}, &DirectiveError{Kind: kind, Text: string(line)}
	}
	return Line{Kind: kind, Payload: bytes.TrimSuffix(tokens[n], []byte{';'})}, nil
}
