package schema

import (
	"fmt"
	"sort"

	"github.com/quickwritereader/flatpack/types"
)

// FieldDef describes one table field.
//
// Indexes come from ID when any field of the table sets one (then all must),
// otherwise from declaration order.
type FieldDef struct {
	Name       string     `json:"name"`
	Kind       types.Kind `json:"type"`
	ID         *int       `json:"id,omitempty"`
	Ref        string     `json:"ref,omitempty"`  // table or struct name for table, struct and vector fields
	Elem       types.Kind `json:"elem,omitempty"` // vector element kind
	Default    any        `json:"default,omitempty"`
	Deprecated bool       `json:"deprecated,omitempty"`

	Index int `json:"-"`

	table   *TableDef
	structV *StructDef
}

// ID is a convenience for FieldDef.ID literals.
func ID(n int) *int { return &n }

// Slot is the vtable offset of the field.
func (f *FieldDef) Slot() types.VOffsetT {
	return types.VtableSlot(f.Index)
}

// RefTable is the resolved target of a table field or a vector of tables.
func (f *FieldDef) RefTable() *TableDef { return f.table }

// RefStruct is the resolved layout of a struct field.
func (f *FieldDef) RefStruct() *StructDef { return f.structV }

// DefaultValue is the normalized default; scalar fields without one default to zero.
func (f *FieldDef) DefaultValue() any {
	if f.Default != nil {
		return f.Default
	}
	if f.Kind.IsScalar() {
		return zeroOf(f.Kind)
	}
	return nil
}

// StructField is a scalar member of a struct.
type StructField struct {
	Name   string     `json:"name"`
	Kind   types.Kind `json:"type"`
	Offset int        `json:"-"`
}

// StructDef is a fixed-layout record stored inline in its parent table.
type StructDef struct {
	Name      string        `json:"name"`
	Namespace string        `json:"namespace,omitempty"`
	Fields    []StructField `json:"fields"`

	Size  int `json:"-"`
	Align int `json:"-"`
}

func (s *StructDef) FullName() string { return qualify(s.Namespace, s.Name) }

// layout places each member at its natural alignment and pads the whole
// struct to its largest member.
func (s *StructDef) layout() error {
	if len(s.Fields) == 0 {
		return NewSchemaError(ErrInvalidKind, s.FullName(), "", fmt.Errorf("struct has no fields"))
	}
	seen := make(map[string]bool, len(s.Fields))
	off, align := 0, 1
	for i := range s.Fields {
		f := &s.Fields[i]
		if seen[f.Name] {
			return NewSchemaError(ErrDuplicate, s.FullName(), f.Name, nil)
		}
		seen[f.Name] = true
		if !f.Kind.IsScalar() {
			return NewSchemaError(ErrInvalidKind, s.FullName(), f.Name,
				fmt.Errorf("%w: struct members must be scalar, got %s", ErrKindMismatch, f.Kind))
		}
		w := f.Kind.Width()
		off = (off + w - 1) &^ (w - 1)
		f.Offset = off
		off += w
		if w > align {
			align = w
		}
	}
	s.Align = align
	s.Size = (off + align - 1) &^ (align - 1)
	return nil
}

// TableDef describes a table: its fields keyed by name and slot.
type TableDef struct {
	Name      string     `json:"name"`
	Namespace string     `json:"namespace,omitempty"`
	Fields    []FieldDef `json:"fields"`

	byName    map[string]int
	numFields int
}

func (t *TableDef) FullName() string { return qualify(t.Namespace, t.Name) }

// NumFields is the field count to pass to StartObject: highest index + 1.
func (t *TableDef) NumFields() int { return t.numFields }

// Field looks up a field by name.
func (t *TableDef) Field(name string) (*FieldDef, bool) {
	i, ok := t.byName[name]
	if !ok {
		return nil, false
	}
	return &t.Fields[i], true
}

// Ordered returns the fields sorted by index.
func (t *TableDef) Ordered() []*FieldDef {
	out := make([]*FieldDef, len(t.Fields))
	for i := range t.Fields {
		out[i] = &t.Fields[i]
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}

// normalize assigns indexes, checks kinds and coerces defaults. References
// are resolved later by the registry.
func (t *TableDef) normalize() error {
	name := t.FullName()
	withID := 0
	for i := range t.Fields {
		if t.Fields[i].ID != nil {
			withID++
		}
	}
	if withID != 0 && withID != len(t.Fields) {
		return NewSchemaError(ErrInvalidFormat, name, "", fmt.Errorf("either all fields or none must set id"))
	}

	t.byName = make(map[string]int, len(t.Fields))
	used := make(map[int]string, len(t.Fields))
	t.numFields = 0
	for i := range t.Fields {
		f := &t.Fields[i]
		if f.Name == "" {
			return NewSchemaError(ErrInvalidFormat, name, fmt.Sprintf("#%d", i), fmt.Errorf("field without name"))
		}
		if _, dup := t.byName[f.Name]; dup {
			return NewSchemaError(ErrDuplicate, name, f.Name, nil)
		}
		t.byName[f.Name] = i

		f.Index = i
		if f.ID != nil {
			f.Index = *f.ID
		}
		if f.Index < 0 {
			return NewSchemaError(ErrInvalidFormat, name, f.Name, fmt.Errorf("negative id %d", f.Index))
		}
		if other, dup := used[f.Index]; dup {
			return NewSchemaError(ErrDuplicate, name, f.Name, fmt.Errorf("id %d already used by %s", f.Index, other))
		}
		used[f.Index] = f.Name
		if f.Index+1 > t.numFields {
			t.numFields = f.Index + 1
		}

		if err := f.check(name); err != nil {
			return err
		}
	}
	return nil
}

func (f *FieldDef) check(table string) error {
	switch {
	case f.Kind.IsScalar():
		if f.Default != nil {
			d, err := Coerce(f.Kind, f.Default)
			if err != nil {
				return NewSchemaError(ErrDefaultValue, table, f.Name, err)
			}
			f.Default = d
		}
		return nil
	case f.Kind == types.KindString:
	case f.Kind == types.KindTable, f.Kind == types.KindStruct:
		if f.Ref == "" {
			return NewSchemaError(ErrInvalidKind, table, f.Name, fmt.Errorf("%s field needs ref", f.Kind))
		}
	case f.Kind == types.KindVector:
		switch {
		case f.Elem.IsScalar(), f.Elem == types.KindString:
		case f.Elem == types.KindTable:
			if f.Ref == "" {
				return NewSchemaError(ErrInvalidKind, table, f.Name, fmt.Errorf("vector of tables needs ref"))
			}
		default:
			return NewSchemaError(ErrInvalidKind, table, f.Name, fmt.Errorf("unsupported vector element %s", f.Elem))
		}
	default:
		return NewSchemaError(ErrInvalidKind, table, f.Name, fmt.Errorf("%w: %s", types.ErrUnknownKind, f.Kind))
	}
	if f.Default != nil {
		return NewSchemaError(ErrDefaultValue, table, f.Name, fmt.Errorf("only scalar fields take defaults"))
	}
	return nil
}

func qualify(ns, name string) string {
	if ns == "" {
		return name
	}
	return ns + "." + name
}
