package access

import (
	"unsafe"

	"github.com/quickwritereader/flatpack/encode"
	"github.com/quickwritereader/flatpack/types"
)

// Table is a read view of one table inside a finished buffer: the buffer
// and the position of the table's soffset. It owns nothing and is cheap to
// copy. Reads do no bounds validation beyond Go's slice checks.
//
//	vtable:
//	+-------------------+-------------------+-------------------+-----+
//	| vtable size (2B)  | table size (2B)   | field0 offset (2B)| ... |
//	+-------------------+-------------------+-------------------+-----+
//
//	table:
//	+-------------------+-------------------+-------------------+-----+
//	| soffset to vtable | field data        | field data        | ... |
//	+-------------------+-------------------+-------------------+-----+
type Table struct {
	Bytes []byte
	Pos   types.UOffsetT // Always < 1<<31.

	// Packer is the scalar codec; the zero value reads little-endian.
	Packer encode.Packer
}

// Init points the view at pos without validating anything.
func (t *Table) Init(buf []byte, pos types.UOffsetT) {
	t.Bytes = buf
	t.Pos = pos
}

// Vtable returns the absolute position of the table's vtable.
func (t Table) Vtable() types.UOffsetT {
	return types.UOffsetT(types.SOffsetT(t.Pos) - t.GetSOffsetT(t.Pos))
}

// VtableSize is the byte size of the vtable, header included.
func (t Table) VtableSize() types.VOffsetT {
	return t.GetVOffsetT(t.Vtable())
}

// ObjectSize is the inline byte size of the table, soffset included.
func (t Table) ObjectSize() types.VOffsetT {
	return t.GetVOffsetT(t.Vtable() + types.SizeVOffsetT)
}

// NumSlots is the number of field entries the vtable carries.
func (t Table) NumSlots() int {
	return int(t.VtableSize())/types.SizeVOffsetT - types.VtableMetadataFields
}

// Offset provides access into the Table's vtable.
//
// A field is absent when its entry is 0 or when the vtable is too short to
// contain the slot (written by an older schema); both return 0.
func (t Table) Offset(vtableOffset types.VOffsetT) types.VOffsetT {
	vtable := t.Vtable()
	if vtableOffset < t.GetVOffsetT(vtable) {
		return t.GetVOffsetT(vtable + types.UOffsetT(vtableOffset))
	}
	return 0
}

// Indirect retrieves the relative offset stored at `off`.
func (t Table) Indirect(off types.UOffsetT) types.UOffsetT {
	return off + t.GetUOffsetT(off)
}

// Ref resolves an optional nested table stored at vtable slot `slot`.
func (t Table) Ref(slot types.VOffsetT) (Table, bool) {
	o := t.Offset(slot)
	if o == 0 {
		return Table{}, false
	}
	return Table{
		Bytes:  t.Bytes,
		Pos:    t.Indirect(t.Pos + types.UOffsetT(o)),
		Packer: t.Packer,
	}, true
}

// Struct resolves an inline struct field; its bytes start at the returned Pos.
func (t Table) Struct(slot types.VOffsetT) (Table, bool) {
	o := t.Offset(slot)
	if o == 0 {
		return Table{}, false
	}
	return Table{Bytes: t.Bytes, Pos: t.Pos + types.UOffsetT(o), Packer: t.Packer}, true
}

// String gets a string from data stored inside the flatbuffer.
func (t Table) String(off types.UOffsetT) string {
	b := t.ByteVector(off)
	if len(b) == 0 {
		return ""
	}
	return unsafe.String(&b[0], len(b))
}

// ByteVector gets a byte slice from data stored inside the flatbuffer.
func (t Table) ByteVector(off types.UOffsetT) []byte {
	off += t.GetUOffsetT(off)
	start := off + types.UOffsetT(types.SizeUOffsetT)
	length := t.GetUOffsetT(off)
	return t.Bytes[start : start+length]
}

// VectorLen retrieves the length of the vector whose offset is stored at
// "off" in this object.
func (t Table) VectorLen(off types.UOffsetT) int {
	off += t.Pos
	off += t.GetUOffsetT(off)
	return int(t.GetUOffsetT(off))
}

// Vector retrieves the start of data of the vector whose offset is stored
// at "off" in this object.
func (t Table) Vector(off types.UOffsetT) types.UOffsetT {
	off += t.Pos
	x := off + t.GetUOffsetT(off)
	return x + types.UOffsetT(types.SizeUOffsetT)
}

// Union initializes any Table-derived type to point to the union at the given offset.
func (t Table) Union(t2 *Table, off types.UOffsetT) {
	off += t.Pos
	t2.Pos = off + t.GetUOffsetT(off)
	t2.Bytes = t.Bytes
	t2.Packer = t.Packer
}

// Get decodes a T at absolute offset off.
func Get[T encode.Number](t Table, off types.UOffsetT) T {
	return encode.Get[T](t.Packer, t.Bytes[off:])
}

// GetSlot returns the T stored at vtable slot `slot`, or d when absent.
func GetSlot[T encode.Number](t Table, slot types.VOffsetT, d T) T {
	off := t.Offset(slot)
	if off == 0 {
		return d
	}
	return Get[T](t, t.Pos+types.UOffsetT(off))
}

// Mutate overwrites the T at absolute offset off, as struct members are
// updated.
func Mutate[T encode.Number](t Table, off types.UOffsetT, n T) {
	encode.Put(t.Packer, t.Bytes[off:], n)
}

// MutateSlot overwrites a present scalar field in place. It reports false
// when the field was elided and so has no storage to overwrite.
func MutateSlot[T encode.Number](t Table, slot types.VOffsetT, n T) bool {
	off := t.Offset(slot)
	if off == 0 {
		return false
	}
	Mutate(t, t.Pos+types.UOffsetT(off), n)
	return true
}

func (t Table) GetBool(off types.UOffsetT) bool {
	return encode.GetBool(t.Bytes[off:])
}

func (t Table) GetByte(off types.UOffsetT) byte { return Get[byte](t, off) }
func (t Table) GetUint8(off types.UOffsetT) uint8 { return Get[uint8](t, off) }
func (t Table) GetUint16(off types.UOffsetT) uint16 { return Get[uint16](t, off) }
func (t Table) GetUint32(off types.UOffsetT) uint32 { return Get[uint32](t, off) }
func (t Table) GetUint64(off types.UOffsetT) uint64 { return Get[uint64](t, off) }
func (t Table) GetInt8(off types.UOffsetT) int8 { return Get[int8](t, off) }
func (t Table) GetInt16(off types.UOffsetT) int16 { return Get[int16](t, off) }
func (t Table) GetInt32(off types.UOffsetT) int32 { return Get[int32](t, off) }
func (t Table) GetInt64(off types.UOffsetT) int64 { return Get[int64](t, off) }
func (t Table) GetFloat32(off types.UOffsetT) float32 { return Get[float32](t, off) }
func (t Table) GetFloat64(off types.UOffsetT) float64 { return Get[float64](t, off) }

// GetUOffsetT retrieves a UOffsetT at the given offset.
func (t Table) GetUOffsetT(off types.UOffsetT) types.UOffsetT {
	return t.Packer.UOffsetT(t.Bytes[off:])
}

// GetVOffsetT retrieves a VOffsetT at the given offset.
func (t Table) GetVOffsetT(off types.UOffsetT) types.VOffsetT {
	return t.Packer.VOffsetT(t.Bytes[off:])
}

// GetSOffsetT retrieves a SOffsetT at the given offset.
func (t Table) GetSOffsetT(off types.UOffsetT) types.SOffsetT {
	return t.Packer.SOffsetT(t.Bytes[off:])
}

// GetBoolSlot retrieves the bool that the given vtable location
// points to. If the vtable value is zero, the default value `d`
// will be returned.
func (t Table) GetBoolSlot(slot types.VOffsetT, d bool) bool {
	off := t.Offset(slot)
	if off == 0 {
		return d
	}
	return t.GetBool(t.Pos + types.UOffsetT(off))
}

func (t Table) GetByteSlot(slot types.VOffsetT, d byte) byte { return GetSlot(t, slot, d) }
func (t Table) GetInt8Slot(slot types.VOffsetT, d int8) int8 { return GetSlot(t, slot, d) }
func (t Table) GetUint8Slot(slot types.VOffsetT, d uint8) uint8 { return GetSlot(t, slot, d) }
func (t Table) GetInt16Slot(slot types.VOffsetT, d int16) int16 { return GetSlot(t, slot, d) }
func (t Table) GetUint16Slot(slot types.VOffsetT, d uint16) uint16 { return GetSlot(t, slot, d) }
func (t Table) GetInt32Slot(slot types.VOffsetT, d int32) int32 { return GetSlot(t, slot, d) }
func (t Table) GetUint32Slot(slot types.VOffsetT, d uint32) uint32 { return GetSlot(t, slot, d) }
func (t Table) GetInt64Slot(slot types.VOffsetT, d int64) int64 { return GetSlot(t, slot, d) }
func (t Table) GetUint64Slot(slot types.VOffsetT, d uint64) uint64 { return GetSlot(t, slot, d) }
func (t Table) GetFloat32Slot(slot types.VOffsetT, d float32) float32 { return GetSlot(t, slot, d) }
func (t Table) GetFloat64Slot(slot types.VOffsetT, d float64) float64 { return GetSlot(t, slot, d) }

// GetVOffsetTSlot retrieves the VOffsetT that the given vtable location
// points to. If the vtable value is zero, the default value `d`
// will be returned.
func (t Table) GetVOffsetTSlot(slot types.VOffsetT, d types.VOffsetT) types.VOffsetT {
	off := t.Offset(slot)
	if off == 0 {
		return d
	}
	return off
}

// MutateBoolSlot updates the bool at given vtable location
func (t Table) MutateBoolSlot(slot types.VOffsetT, n bool) bool {
	off := t.Offset(slot)
	if off == 0 {
		return false
	}
	encode.WriteBool(t.Bytes[t.Pos+types.UOffsetT(off):], n)
	return true
}

func (t Table) MutateInt8Slot(slot types.VOffsetT, n int8) bool { return MutateSlot(t, slot, n) }
func (t Table) MutateUint8Slot(slot types.VOffsetT, n uint8) bool { return MutateSlot(t, slot, n) }
func (t Table) MutateInt16Slot(slot types.VOffsetT, n int16) bool { return MutateSlot(t, slot, n) }
func (t Table) MutateUint16Slot(slot types.VOffsetT, n uint16) bool { return MutateSlot(t, slot, n) }
func (t Table) MutateInt32Slot(slot types.VOffsetT, n int32) bool { return MutateSlot(t, slot, n) }
func (t Table) MutateUint32Slot(slot types.VOffsetT, n uint32) bool { return MutateSlot(t, slot, n) }
func (t Table) MutateInt64Slot(slot types.VOffsetT, n int64) bool { return MutateSlot(t, slot, n) }
func (t Table) MutateUint64Slot(slot types.VOffsetT, n uint64) bool { return MutateSlot(t, slot, n) }
func (t Table) MutateFloat32Slot(slot types.VOffsetT, n float32) bool { return MutateSlot(t, slot, n) }
func (t Table) MutateFloat64Slot(slot types.VOffsetT, n float64) bool { return MutateSlot(t, slot, n) }
