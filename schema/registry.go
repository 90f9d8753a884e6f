package schema

import (
	"fmt"
	"strings"
	"sync"

	"github.com/quickwritereader/flatpack/types"
	"github.com/quickwritereader/flatpack/utils"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Registry holds resolved table and struct definitions keyed by full name.
// It is safe for concurrent use; definitions are immutable once registered.
type Registry struct {
	mu      sync.RWMutex
	tables  map[string]*TableDef
	structs map[string]*StructDef
	log     zerolog.Logger
}

type RegistryOption func(*Registry)

// WithLogger replaces the package logger derived from zerolog's global one.
func WithLogger(l zerolog.Logger) RegistryOption {
	return func(r *Registry) { r.log = l }
}

func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		tables:  make(map[string]*TableDef),
		structs: make(map[string]*StructDef),
		log:     log.Logger.With().Str("component", "schema").Logger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register validates every definition of doc and resolves its references
// against doc itself plus anything registered earlier. Nothing is added when
// an error is returned.
func (r *Registry) Register(doc *Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	structs := make(map[string]*StructDef, len(doc.Structs))
	for i := range doc.Structs {
		s := &doc.Structs[i]
		if s.Namespace == "" {
			s.Namespace = doc.Namespace
		}
		name := s.FullName()
		if _, dup := r.structs[name]; dup {
			return NewSchemaError(ErrDuplicate, name, "", nil)
		}
		if _, dup := structs[name]; dup {
			return NewSchemaError(ErrDuplicate, name, "", nil)
		}
		if err := s.layout(); err != nil {
			return err
		}
		structs[name] = s
	}

	tables := make(map[string]*TableDef, len(doc.Tables))
	for i := range doc.Tables {
		t := &doc.Tables[i]
		if t.Namespace == "" {
			t.Namespace = doc.Namespace
		}
		name := t.FullName()
		if _, dup := r.tables[name]; dup {
			return NewSchemaError(ErrDuplicate, name, "", nil)
		}
		if _, dup := tables[name]; dup {
			return NewSchemaError(ErrDuplicate, name, "", nil)
		}
		if err := t.normalize(); err != nil {
			return err
		}
		tables[name] = t
	}

	for _, t := range tables {
		for i := range t.Fields {
			if err := r.resolve(t, &t.Fields[i], tables, structs); err != nil {
				return err
			}
		}
	}

	for _, name := range utils.SortKeys(structs) {
		s := structs[name]
		r.structs[name] = s
		r.log.Debug().Str("struct", name).Int("size", s.Size).Int("align", s.Align).Msg("registered struct")
	}
	for _, name := range utils.SortKeys(tables) {
		t := tables[name]
		r.tables[name] = t
		r.log.Debug().Str("table", name).Int("fields", t.NumFields()).Msg("registered table")
	}
	return nil
}

func (r *Registry) resolve(t *TableDef, f *FieldDef, tables map[string]*TableDef, structs map[string]*StructDef) error {
	needsTable := f.Kind == types.KindTable || (f.Kind == types.KindVector && f.Elem == types.KindTable)
	switch {
	case needsTable:
		name, ok := lookupName(f.Ref, t.Namespace, func(n string) bool {
			_, inDoc := tables[n]
			_, known := r.tables[n]
			return inDoc || known
		}, r.tableNamesLocked(tables))
		if !ok {
			return NewSchemaError(ErrUnresolvedRef, t.FullName(), f.Name, fmt.Errorf("%w: %s", ErrUnknownTable, f.Ref))
		}
		f.Ref = name
		if def, inDoc := tables[name]; inDoc {
			f.table = def
		} else {
			f.table = r.tables[name]
		}
	case f.Kind == types.KindStruct:
		names := make([]string, 0, len(structs)+len(r.structs))
		for n := range structs {
			names = append(names, n)
		}
		for n := range r.structs {
			names = append(names, n)
		}
		name, ok := lookupName(f.Ref, t.Namespace, func(n string) bool {
			_, inDoc := structs[n]
			_, known := r.structs[n]
			return inDoc || known
		}, names)
		if !ok {
			return NewSchemaError(ErrUnresolvedRef, t.FullName(), f.Name, fmt.Errorf("unknown struct %s", f.Ref))
		}
		f.Ref = name
		if def, inDoc := structs[name]; inDoc {
			f.structV = def
		} else {
			f.structV = r.structs[name]
		}
	}
	return nil
}

func (r *Registry) tableNamesLocked(pending map[string]*TableDef) []string {
	names := make([]string, 0, len(pending)+len(r.tables))
	for n := range pending {
		names = append(names, n)
	}
	for n := range r.tables {
		names = append(names, n)
	}
	return names
}

// lookupName resolves ref as written inside namespace ns: exact match, then
// relative to ns, then a unique match on the unqualified name.
func lookupName(ref, ns string, exists func(string) bool, all []string) (string, bool) {
	if exists(ref) {
		return ref, true
	}
	if ns != "" && exists(ns+"."+ref) {
		return ns + "." + ref, true
	}
	found := ""
	for _, n := range all {
		if n == ref || strings.HasSuffix(n, "."+ref) {
			if found != "" && found != n {
				return "", false
			}
			found = n
		}
	}
	return found, found != ""
}

// Table returns the definition registered under name, which may omit the
// namespace when it is unambiguous.
func (r *Registry) Table(name string) (*TableDef, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	full, ok := lookupName(name, "", func(n string) bool {
		_, ok := r.tables[n]
		return ok
	}, r.tableNamesLocked(nil))
	if !ok {
		return nil, NewSchemaError(ErrLookup, name, "", ErrUnknownTable)
	}
	return r.tables[full], nil
}

// Tables lists registered table names in sorted order.
func (r *Registry) Tables() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return utils.SortKeys(r.tables)
}
