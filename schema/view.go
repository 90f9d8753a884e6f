package schema

import (
	"fmt"

	"github.com/quickwritereader/flatpack/access"
	"github.com/quickwritereader/flatpack/encode"
	"github.com/quickwritereader/flatpack/types"
)

// View reads one table through its definition. Like access.Table it is a
// plain value; nothing is decoded until a field is asked for.
type View struct {
	Def   *TableDef
	Table access.Table
}

// View pairs t with the definition registered under name.
func (r *Registry) View(name string, t access.Table) (View, error) {
	def, err := r.Table(name)
	if err != nil {
		return View{}, err
	}
	return View{Def: def, Table: t}, nil
}

// Root resolves the root table of buf as name.
func (r *Registry) Root(name string, buf []byte) (View, error) {
	return r.View(name, access.GetRoot(buf, 0))
}

// SizePrefixedRoot is Root for buffers finished with a size prefix.
func (r *Registry) SizePrefixedRoot(name string, buf []byte) (View, error) {
	return r.View(name, access.GetSizePrefixedRoot(buf, 0))
}

func (v View) field(name string, want func(*FieldDef) bool) (*FieldDef, error) {
	f, ok := v.Def.Field(name)
	if !ok {
		return nil, NewSchemaError(ErrLookup, v.Def.FullName(), name, ErrUnknownField)
	}
	if want != nil && !want(f) {
		return nil, NewSchemaError(ErrValueType, v.Def.FullName(), name, fmt.Errorf("%w: field is %s", ErrKindMismatch, f.Kind))
	}
	return f, nil
}

// Has reports whether the field is stored in the buffer. Scalars equal to
// their default usually are not.
func (v View) Has(name string) bool {
	f, ok := v.Def.Field(name)
	return ok && v.Table.Offset(f.Slot()) != 0
}

// Scalar returns the field value boxed as its kind's Go type, or the default
// when the field is absent.
func (v View) Scalar(name string) (any, error) {
	f, err := v.field(name, func(f *FieldDef) bool { return f.Kind.IsScalar() })
	if err != nil {
		return nil, err
	}
	off := v.Table.Offset(f.Slot())
	if off == 0 {
		return f.DefaultValue(), nil
	}
	return readScalar(v.Table, f.Kind, v.Table.Pos+types.UOffsetT(off)), nil
}

// ScalarAs is Scalar for callers that know the Go type. T must have the
// field's width and signedness; named types such as enums are accepted.
func ScalarAs[T encode.Number](v View, name string) (T, error) {
	var zero T
	f, err := v.field(name, func(f *FieldDef) bool {
		return f.Kind.IsScalar() && f.Kind != types.KindBool && sameShape[T](f.Kind)
	})
	if err != nil {
		return zero, err
	}
	d, err := numberOf[T](f.DefaultValue())
	if err != nil {
		return zero, NewSchemaError(ErrDefaultValue, v.Def.FullName(), name, err)
	}
	return access.GetSlot(v.Table, f.Slot(), d), nil
}

// String returns a string field; ok is false when it is absent.
func (v View) String(name string) (string, bool, error) {
	f, err := v.field(name, func(f *FieldDef) bool { return f.Kind == types.KindString })
	if err != nil {
		return "", false, err
	}
	off := v.Table.Offset(f.Slot())
	if off == 0 {
		return "", false, nil
	}
	return v.Table.String(v.Table.Pos + types.UOffsetT(off)), true, nil
}

// Ref follows a table reference; ok is false when it is absent.
func (v View) Ref(name string) (View, bool, error) {
	f, err := v.field(name, func(f *FieldDef) bool { return f.Kind == types.KindTable })
	if err != nil {
		return View{}, false, err
	}
	t, ok := v.Table.Ref(f.Slot())
	if !ok {
		return View{}, false, nil
	}
	return View{Def: f.RefTable(), Table: t}, true, nil
}

// Struct decodes an inline struct into its members in declaration order.
func (v View) Struct(name string) (*types.OrderedMap[any], bool, error) {
	f, err := v.field(name, func(f *FieldDef) bool { return f.Kind == types.KindStruct })
	if err != nil {
		return nil, false, err
	}
	st, ok := v.Table.Struct(f.Slot())
	if !ok {
		return nil, false, nil
	}
	sd := f.RefStruct()
	out := types.NewOrderedMap[any]()
	for _, m := range sd.Fields {
		out.Set(m.Name, readScalar(st, m.Kind, st.Pos+types.UOffsetT(m.Offset)))
	}
	return out, true, nil
}

// VectorView reads the elements of one vector field.
type VectorView struct {
	field *FieldDef
	tab   access.Table
	start types.UOffsetT
	n     int
}

// Vector opens a vector field; ok is false when it is absent.
func (v View) Vector(name string) (VectorView, bool, error) {
	f, err := v.field(name, func(f *FieldDef) bool { return f.Kind == types.KindVector })
	if err != nil {
		return VectorView{}, false, err
	}
	off := v.Table.Offset(f.Slot())
	if off == 0 {
		return VectorView{}, false, nil
	}
	rel := types.UOffsetT(off)
	return VectorView{
		field: f,
		tab:   v.Table,
		start: v.Table.Vector(rel),
		n:     v.Table.VectorLen(rel),
	}, true, nil
}

func (vv VectorView) Len() int { return vv.n }

func (vv VectorView) at(i int) types.UOffsetT {
	return vv.start + types.UOffsetT(i*vv.field.Elem.Width())
}

// At returns element i: a scalar, a string, or a View for tables.
func (vv VectorView) At(i int) any {
	pos := vv.at(i)
	switch vv.field.Elem {
	case types.KindString:
		return vv.tab.String(pos)
	case types.KindTable:
		t := access.Table{Bytes: vv.tab.Bytes, Pos: vv.tab.Indirect(pos), Packer: vv.tab.Packer}
		return View{Def: vv.field.RefTable(), Table: t}
	}
	return readScalar(vv.tab, vv.field.Elem, pos)
}

func readScalar(t access.Table, kind types.Kind, pos types.UOffsetT) any {
	switch kind {
	case types.KindBool:
		return t.GetBool(pos)
	case types.KindInt8:
		return t.GetInt8(pos)
	case types.KindUint8:
		return t.GetUint8(pos)
	case types.KindInt16:
		return t.GetInt16(pos)
	case types.KindUint16:
		return t.GetUint16(pos)
	case types.KindInt32:
		return t.GetInt32(pos)
	case types.KindUint32:
		return t.GetUint32(pos)
	case types.KindInt64:
		return t.GetInt64(pos)
	case types.KindUint64:
		return t.GetUint64(pos)
	case types.KindFloat32:
		return t.GetFloat32(pos)
	case types.KindFloat64:
		return t.GetFloat64(pos)
	}
	return nil
}

func sameShape[T encode.Number](kind types.Kind) bool {
	if encode.SizeOf[T]() != kind.Width() {
		return false
	}
	half := 0.5
	var zero T
	isFloat := T(half) != 0
	isSigned := zero-1 < 0
	return isFloat == (kind == types.KindFloat32 || kind == types.KindFloat64) && isSigned == signedKind(kind)
}

func signedKind(kind types.Kind) bool {
	switch kind {
	case types.KindInt8, types.KindInt16, types.KindInt32, types.KindInt64, types.KindFloat32, types.KindFloat64:
		return true
	}
	return false
}

// numberOf converts a boxed default of any scalar kind to T.
func numberOf[T encode.Number](v any) (T, error) {
	switch x := v.(type) {
	case int8:
		return T(x), nil
	case uint8:
		return T(x), nil
	case int16:
		return T(x), nil
	case uint16:
		return T(x), nil
	case int32:
		return T(x), nil
	case uint32:
		return T(x), nil
	case int64:
		return T(x), nil
	case uint64:
		return T(x), nil
	case float32:
		return T(x), nil
	case float64:
		return T(x), nil
	}
	var zero T
	return zero, fmt.Errorf("%w: %T is not numeric", ErrKindMismatch, v)
}
