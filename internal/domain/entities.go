package domain

import "sort"

// ModuleID names a compilation unit. Canonical IDs are "<package>.<stem>"
// (or just "<stem>" without a package); references copied from import lines
// use the same key space and are compared byte for byte.
type ModuleID string

// Unit is the extracted model of one source file.
type Unit struct {
	ID             ModuleID
	Package        string
	Path           string
	Body           []byte
	ForeignImports []byte
	LocalImports   []ModuleID
}

// PackagePrefix returns the qualifier used for the unit's sibling references:
// "<package>." when a package was declared, otherwise "".
func (u *Unit) PackagePrefix() string {
	if u.Package == "" {
		return ""
	}
	return u.Package + "."
}

// AddSibling appends an implicit same-package reference to the named sibling.
func (u *Unit) AddSibling(stem string) {
	u.LocalImports = append(u.LocalImports, ModuleID(u.PackagePrefix()+stem))
}

// UnitTable maps identifiers to units. It is filled by one directory scan and
// drained by the resolver.
type UnitTable struct {
	units  map[ModuleID]*Unit
	byPath map[string]ModuleID
}

func NewUnitTable() *UnitTable {
	return &UnitTable{
		units:  make(map[ModuleID]*Unit),
		byPath: make(map[string]ModuleID),
	}
}

// Insert stores u under its ID. A unit already stored under the same ID is
// replaced; Insert reports whether that happened.
func (t *UnitTable) Insert(u *Unit) (replaced bool) {
	_, replaced = t.units[u.ID]
	t.units[u.ID] = u
	if u.Path != "" {
		t.byPath[u.Path] = u.ID
	}
	return replaced
}

func (t *UnitTable) Get(id ModuleID) (*Unit, bool) {
	u, ok := t.units[id]
	return u, ok
}

// Remove takes the unit out of the table and hands it to the caller.
func (t *UnitTable) Remove(id ModuleID) (*Unit, bool) {
	u, ok := t.units[id]
	if ok {
		delete(t.units, id)
	}
	return u, ok
}

// IDForPath returns the identifier of the unit loaded from path.
func (t *UnitTable) IDForPath(path string) (ModuleID, bool) {
	id, ok := t.byPath[path]
	return id, ok
}

func (t *UnitTable) Len() int {
	return len(t.units)
}

// IDs returns the stored identifiers in ascending order.
func (t *UnitTable) IDs() []ModuleID {
	ids := make([]ModuleID, 0, len(t.units))
	for id := range t.units {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Bundle is the result of resolving one entry unit.
type Bundle struct {
	Entry          ModuleID
	Discovered     []ModuleID
	Missing        []ModuleID
	ForeignImports []byte
	Body           []byte
}

// Bytes returns the hoisted foreign imports followed by the bodies.
func (b *Bundle) Bytes() []byte {
	out := make([]byte, 0, len(b.ForeignImports)+len(b.Body))
	out = append(out, b.ForeignImports...)
	return append(out, b.Body...)
}
