package access

import (
	"testing"

	"github.com/quickwritereader/flatpack/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable_HandWrittenBuffer(t *testing.T) {
	buf := []byte{
		0x0C, 0x00, 0x00, 0x00, // root → 12
		0x08, 0x00, // vtable @ 4: size 8
		0x0C, 0x00, // table size 12
		0x08, 0x00, // field 0 @ +8
		0x04, 0x00, // field 1 @ +4
		0x08, 0x00, 0x00, 0x00, // table @ 12: soffset 8 → vtable @ 4
		0xFE, 0xFF, 0xFF, 0xFF, // field 1: int32(-2)
		0x10, 0x00, 0x00, 0x00, // field 0: uint32(16)
	}

	tab := GetRoot(buf, 0)
	require.Equal(t, types.UOffsetT(12), tab.Pos)
	require.Equal(t, types.UOffsetT(4), tab.Vtable())
	assert.Equal(t, types.VOffsetT(8), tab.VtableSize())
	assert.Equal(t, types.VOffsetT(12), tab.ObjectSize())
	assert.Equal(t, 2, tab.NumSlots())
	assert.Equal(t, uint32(16), tab.GetUint32Slot(types.VtableSlot(0), 0))
	assert.Equal(t, int32(-2), tab.GetInt32Slot(types.VtableSlot(1), 0))
	assert.Equal(t, int32(-9), tab.GetInt32Slot(types.VtableSlot(2), -9))

	var same Table
	same.Init(buf, 12)
	assert.Equal(t, tab.Offset(types.VtableSlot(1)), same.Offset(types.VtableSlot(1)))
}

func TestTable_OffsetPastShortVtable(t *testing.T) {
	b := NewBuilder(0)
	b.StartObject(1)
	b.PrependUint8Slot(0, 200, 0)
	b.Finish(b.EndObject())

	tab := GetRoot(b.FinishedBytes(), 0)
	for field := 1; field < 8; field++ {
		assert.Equal(t, types.VOffsetT(0), tab.Offset(types.VtableSlot(field)))
	}
	assert.Equal(t, uint8(200), tab.GetUint8Slot(types.VtableSlot(0), 0))
	assert.Equal(t, 1.25, tab.GetFloat64Slot(types.VtableSlot(5), 1.25))
	assert.Equal(t, types.VOffsetT(3), tab.GetVOffsetTSlot(types.VtableSlot(6), 3))
}

func TestTable_Mutate(t *testing.T) {
	b := NewBuilder(0)
	b.StartObject(3)
	b.PrependInt64Slot(0, 10, 0)
	b.PrependBoolSlot(1, true, false)
	b.Finish(b.EndObject())

	buf := b.FinishedBytes()
	tab := GetRoot(buf, 0)

	assert.True(t, tab.MutateInt64Slot(types.VtableSlot(0), -77))
	assert.True(t, tab.MutateBoolSlot(types.VtableSlot(1), false))
	assert.False(t, tab.MutateFloat32Slot(types.VtableSlot(2), 1), "elided field has no storage")

	again := GetRoot(buf, 0)
	assert.Equal(t, int64(-77), again.GetInt64Slot(types.VtableSlot(0), 0))
	assert.Equal(t, false, again.GetBoolSlot(types.VtableSlot(1), true))
	assert.Equal(t, float32(0), again.GetFloat32Slot(types.VtableSlot(2), 0))
}

func TestTable_Union(t *testing.T) {
	b := NewBuilder(0)
	b.StartObject(1)
	b.PrependInt16Slot(0, 321, 0)
	member := b.EndObject()

	b.StartObject(2)
	b.PrependUint8Slot(0, 1, 0) // union type tag
	b.PrependUOffsetTSlot(1, member, 0)
	b.Finish(b.EndObject())

	tab := GetRoot(b.FinishedBytes(), 0)
	require.Equal(t, uint8(1), tab.GetUint8Slot(types.VtableSlot(0), 0))

	var u Table
	tab.Union(&u, types.UOffsetT(tab.Offset(types.VtableSlot(1))))
	assert.Equal(t, int16(321), u.GetInt16Slot(types.VtableSlot(0), 0))
}

func TestTable_GenericAccessors(t *testing.T) {
	type level uint16

	b := NewBuilder(0)
	b.StartObject(2)
	PrependSlot(b, 0, level(4), level(0))
	PrependSlot(b, 1, float32(0.5), 0)
	b.Finish(b.EndObject())

	tab := GetRoot(b.FinishedBytes(), 0)
	assert.Equal(t, level(4), GetSlot(tab, types.VtableSlot(0), level(0)))
	assert.Equal(t, float32(0.5), GetSlot[float32](tab, types.VtableSlot(1), 0))
	assert.True(t, MutateSlot(tab, types.VtableSlot(0), level(9)))
	assert.Equal(t, level(9), GetSlot(tab, types.VtableSlot(0), level(0)))
}
