package schema

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/quickwritereader/flatpack/access"
	"github.com/quickwritereader/flatpack/encode"
	"github.com/quickwritereader/flatpack/packable"
	"github.com/quickwritereader/flatpack/types"
)

// Record is the object-tree form of a table: field values by name in index
// order. Scalars hold their kind's Go type, strings are string, tables are
// *Record, structs are *types.OrderedMap[any] and vectors are []any.
type Record struct {
	Def    *TableDef
	Fields *types.OrderedMap[any]
}

func NewRecord(def *TableDef) *Record {
	return &Record{Def: def, Fields: types.NewOrderedMap[any]()}
}

// Get returns a field value. Unset scalars report their default.
func (r *Record) Get(name string) (any, bool) {
	if v, ok := r.Fields.Get(name); ok {
		return v, true
	}
	if f, ok := r.Def.Field(name); ok && f.Kind.IsScalar() {
		return f.DefaultValue(), true
	}
	return nil, false
}

// Set stores v after converting it to the field's representation. A nil v
// clears the field.
func (r *Record) Set(name string, v any) error {
	f, ok := r.Def.Field(name)
	if !ok {
		return NewSchemaError(ErrLookup, r.Def.FullName(), name, ErrUnknownField)
	}
	if rec, ok := v.(*Record); v == nil || ok && rec == nil {
		r.Fields.Delete(name)
		return nil
	}
	val, err := normalizeValue(f, v)
	if err != nil {
		return NewSchemaError(ErrValueType, r.Def.FullName(), name, err)
	}
	r.Fields.Set(name, val)
	return nil
}

func normalizeValue(f *FieldDef, v any) (any, error) {
	switch {
	case f.Kind.IsScalar(), f.Kind == types.KindString:
		return Coerce(f.Kind, v)
	case f.Kind == types.KindTable:
		return asRecord(f.RefTable(), v)
	case f.Kind == types.KindStruct:
		return asStruct(f.RefStruct(), v)
	case f.Kind == types.KindVector:
		items, ok := v.([]any)
		if !ok {
			return nil, fmt.Errorf("%w: %T is not []any", ErrKindMismatch, v)
		}
		out := make([]any, len(items))
		for i, item := range items {
			var err error
			if f.Elem == types.KindTable {
				out[i], err = asRecord(f.RefTable(), item)
			} else {
				out[i], err = Coerce(f.Elem, item)
			}
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrKindMismatch, f.Kind)
}

func asRecord(def *TableDef, v any) (*Record, error) {
	rec, ok := v.(*Record)
	if !ok {
		return nil, fmt.Errorf("%w: %T is not *Record", ErrKindMismatch, v)
	}
	if rec == nil {
		return nil, fmt.Errorf("%w: nil *Record", ErrKindMismatch)
	}
	if rec.Def != def {
		return nil, fmt.Errorf("%w: record of %s where %s is expected", ErrKindMismatch, rec.Def.FullName(), def.FullName())
	}
	return rec, nil
}

func asStruct(sd *StructDef, v any) (*types.OrderedMap[any], error) {
	get := func(string) (any, bool) { return nil, false }
	switch m := v.(type) {
	case *types.OrderedMap[any]:
		get = m.Get
	case map[string]any:
		get = func(k string) (any, bool) {
			x, ok := m[k]
			return x, ok
		}
	default:
		return nil, fmt.Errorf("%w: %T is not a struct value", ErrKindMismatch, v)
	}
	out := types.NewOrderedMap[any]()
	for _, member := range sd.Fields {
		raw, ok := get(member.Name)
		if !ok {
			out.Set(member.Name, zeroOf(member.Kind))
			continue
		}
		val, err := Coerce(member.Kind, raw)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", sd.Name, member.Name, err)
		}
		out.Set(member.Name, val)
	}
	return out, nil
}

// Unpack copies every field of v into a new Record that does not alias the
// buffer. Scalars are always present (absent ones take their default); other
// fields only when stored.
func Unpack(v View) (*Record, error) {
	rec := NewRecord(v.Def)
	for _, f := range v.Def.Ordered() {
		if f.Deprecated {
			continue
		}
		switch {
		case f.Kind.IsScalar():
			val, err := v.Scalar(f.Name)
			if err != nil {
				return nil, err
			}
			rec.Fields.Set(f.Name, val)
		case f.Kind == types.KindString:
			s, ok, err := v.String(f.Name)
			if err != nil {
				return nil, err
			}
			if ok {
				rec.Fields.Set(f.Name, strings.Clone(s))
			}
		case f.Kind == types.KindTable:
			child, ok, err := v.Ref(f.Name)
			if err != nil {
				return nil, err
			}
			if ok {
				nested, err := Unpack(child)
				if err != nil {
					return nil, err
				}
				rec.Fields.Set(f.Name, nested)
			}
		case f.Kind == types.KindStruct:
			st, ok, err := v.Struct(f.Name)
			if err != nil {
				return nil, err
			}
			if ok {
				rec.Fields.Set(f.Name, st)
			}
		case f.Kind == types.KindVector:
			vec, ok, err := v.Vector(f.Name)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
			items := make([]any, vec.Len())
			for i := range items {
				switch item := vec.At(i).(type) {
				case View:
					if items[i], err = Unpack(item); err != nil {
						return nil, err
					}
				case string:
					items[i] = strings.Clone(item)
				default:
					items[i] = item
				}
			}
			rec.Fields.Set(f.Name, items)
		}
	}
	return rec, nil
}

// Pack writes the record and everything it references, children first, and
// returns the table offset.
func (r *Record) Pack(b *access.Builder) (types.UOffsetT, error) {
	offsets := make(map[string]types.UOffsetT)
	for name, val := range r.Fields.ItemsIter() {
		f, ok := r.Def.Field(name)
		if !ok {
			return 0, NewSchemaError(ErrEncode, r.Def.FullName(), name, ErrUnknownField)
		}
		var (
			off types.UOffsetT
			err error
		)
		switch f.Kind {
		case types.KindString:
			off = b.CreateString(val.(string))
		case types.KindTable:
			off, err = val.(*Record).Pack(b)
		case types.KindVector:
			off, err = packVector(b, f, val.([]any))
		default:
			continue
		}
		if err != nil {
			return 0, err
		}
		offsets[name] = off
	}

	// widest first keeps alignment padding inside the table minimal
	fields := r.Def.Ordered()
	sort.SliceStable(fields, func(i, j int) bool { return inlineWidth(fields[i]) > inlineWidth(fields[j]) })

	b.StartObject(r.Def.NumFields())
	for _, f := range fields {
		val, ok := r.Fields.Get(f.Name)
		if !ok {
			continue
		}
		switch {
		case f.Kind.IsScalar():
			prependScalarSlot(b, f.Index, val, f.DefaultValue())
		case f.Kind == types.KindStruct:
			writeStruct(b, f.RefStruct(), val.(*types.OrderedMap[any]))
			b.PrependStructSlot(f.Index, b.Offset(), 0)
		default:
			b.PrependUOffsetTSlot(f.Index, offsets[f.Name], 0)
		}
	}
	return b.EndObject(), nil
}

// PackRoot packs r as the root of b, with an optional 4-byte identifier.
func PackRoot(b *access.Builder, r *Record, fid string) ([]byte, error) {
	root, err := r.Pack(b)
	if err != nil {
		return nil, err
	}
	if fid != "" {
		b.FinishWithFileIdentifier(root, []byte(fid))
	} else {
		b.Finish(root)
	}
	return b.FinishedBytes(), nil
}

// Equal compares field by field regardless of insertion order. An unset
// scalar equals its default.
func (r *Record) Equal(o *Record) bool {
	if r == nil || o == nil {
		return r == o
	}
	if r.Def != o.Def {
		return false
	}
	for _, f := range r.Def.Ordered() {
		a, okA := r.Get(f.Name)
		b, okB := o.Get(f.Name)
		if okA != okB || !valueEqual(a, b) {
			return false
		}
	}
	return true
}

func valueEqual(a, b any) bool {
	switch x := a.(type) {
	case *Record:
		y, ok := b.(*Record)
		return ok && x.Equal(y)
	case []any:
		y, ok := b.([]any)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !valueEqual(x[i], y[i]) {
				return false
			}
		}
		return true
	case *types.OrderedMap[any]:
		y, ok := b.(*types.OrderedMap[any])
		return ok && x.Equal(y)
	}
	return reflect.DeepEqual(a, b)
}

// MarshalJSON dumps the field values in index order.
func (r *Record) MarshalJSON() ([]byte, error) {
	return r.Fields.MarshalJSON()
}

func inlineWidth(f *FieldDef) int {
	if f.Kind == types.KindStruct {
		return f.RefStruct().Align
	}
	return f.Kind.Width()
}

func packVector(b *access.Builder, f *FieldDef, items []any) (types.UOffsetT, error) {
	switch f.Elem {
	case types.KindString:
		strs := make(packable.Strings, len(items))
		for i, it := range items {
			strs[i] = it.(string)
		}
		return strs.Pack(b), nil
	case types.KindTable:
		elems := make([]types.UOffsetT, len(items))
		for i, it := range items {
			off, err := it.(*Record).Pack(b)
			if err != nil {
				return 0, err
			}
			elems[i] = off
		}
		return packable.Offsets(b, elems), nil
	}

	var vec access.Packable
	switch f.Elem {
	case types.KindBool:
		bools := make(packable.Bools, len(items))
		for i, it := range items {
			bools[i] = it.(bool)
		}
		vec = bools
	case types.KindInt8:
		vec = scalarsOf[int8](items)
	case types.KindUint8:
		vec = scalarsOf[uint8](items)
	case types.KindInt16:
		vec = scalarsOf[int16](items)
	case types.KindUint16:
		vec = scalarsOf[uint16](items)
	case types.KindInt32:
		vec = scalarsOf[int32](items)
	case types.KindUint32:
		vec = scalarsOf[uint32](items)
	case types.KindInt64:
		vec = scalarsOf[int64](items)
	case types.KindUint64:
		vec = scalarsOf[uint64](items)
	case types.KindFloat32:
		vec = scalarsOf[float32](items)
	case types.KindFloat64:
		vec = scalarsOf[float64](items)
	default:
		return 0, NewSchemaError(ErrEncode, "", f.Name, fmt.Errorf("%w: vector of %s", ErrKindMismatch, f.Elem))
	}
	return vec.Pack(b), nil
}

// scalarsOf narrows coerced vector items to their element type.
func scalarsOf[T encode.Number](items []any) packable.Scalars[T] {
	out := make(packable.Scalars[T], len(items))
	for i, it := range items {
		out[i] = it.(T)
	}
	return out
}

func writeStruct(b *access.Builder, sd *StructDef, m *types.OrderedMap[any]) {
	b.Prep(sd.Align, sd.Size)
	end := sd.Size
	for i := len(sd.Fields) - 1; i >= 0; i-- {
		member := sd.Fields[i]
		b.Pad(end - member.Offset - member.Kind.Width())
		v, ok := m.Get(member.Name)
		if !ok {
			v = zeroOf(member.Kind)
		}
		placeScalar(b, v)
		end = member.Offset
	}
}

func placeScalar(b *access.Builder, v any) {
	switch x := v.(type) {
	case bool:
		b.PlaceBool(x)
	case int8:
		b.PlaceInt8(x)
	case uint8:
		b.PlaceUint8(x)
	case int16:
		b.PlaceInt16(x)
	case uint16:
		b.PlaceUint16(x)
	case int32:
		b.PlaceInt32(x)
	case uint32:
		b.PlaceUint32(x)
	case int64:
		b.PlaceInt64(x)
	case uint64:
		b.PlaceUint64(x)
	case float32:
		b.PlaceFloat32(x)
	case float64:
		b.PlaceFloat64(x)
	}
}

func prependScalarSlot(b *access.Builder, slot int, v, d any) {
	switch x := v.(type) {
	case bool:
		b.PrependBoolSlot(slot, x, d.(bool))
	case int8:
		b.PrependInt8Slot(slot, x, d.(int8))
	case uint8:
		b.PrependUint8Slot(slot, x, d.(uint8))
	case int16:
		b.PrependInt16Slot(slot, x, d.(int16))
	case uint16:
		b.PrependUint16Slot(slot, x, d.(uint16))
	case int32:
		b.PrependInt32Slot(slot, x, d.(int32))
	case uint32:
		b.PrependUint32Slot(slot, x, d.(uint32))
	case int64:
		b.PrependInt64Slot(slot, x, d.(int64))
	case uint64:
		b.PrependUint64Slot(slot, x, d.(uint64))
	case float32:
		b.PrependFloat32Slot(slot, x, d.(float32))
	case float64:
		b.PrependFloat64Slot(slot, x, d.(float64))
	}
}
