package access

import (
	"encoding/binary"
	"testing"

	"github.com/quickwritereader/flatpack/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireUsagePanic(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected a usage panic")
		err, ok := r.(error)
		require.True(t, ok, "panic value %T is not an error", r)
		assert.ErrorIs(t, err, ErrUsage)
		var ue *UsageError
		assert.ErrorAs(t, err, &ue)
	}()
	fn()
}

func TestBuilder_ExplicitByteMatch(t *testing.T) {
	b := NewBuilder(0)
	b.StartObject(1)
	b.PrependInt32Slot(0, 42, 0)
	root := b.EndObject()
	b.Finish(root)

	expected := []byte{
		0x0C, 0x00, 0x00, 0x00, // root uoffset → table @ 12
		0x00, 0x00, // padding so the table's soffset is 4-aligned
		0x06, 0x00, // vtable @ 6: vtable size = 6
		0x08, 0x00, // table size = 8 (soffset + int32)
		0x04, 0x00, // field 0 @ table+4
		0x06, 0x00, 0x00, 0x00, // table @ 12: soffset = 6 → vtable @ 12-6
		0x2A, 0x00, 0x00, 0x00, // int32(42)
	}

	actual := b.FinishedBytes()
	require.Equal(t, len(expected), len(actual), "Length mismatch")
	for i := range expected {
		assert.Equalf(t, expected[i], actual[i], "Byte %d mismatch: expected %02X, got %02X", i, expected[i], actual[i])
	}
}

func TestBuilder_MixedWidthsAlignment(t *testing.T) {
	b := NewBuilder(0)
	b.StartObject(3)
	b.PrependBoolSlot(0, true, false)
	b.PrependInt16Slot(1, -2, 0)
	b.PrependInt64Slot(2, 1<<40, 0)
	b.Finish(b.EndObject())

	buf := b.FinishedBytes()
	tab := GetRoot(buf, 0)

	assert.Equal(t, true, tab.GetBoolSlot(types.VtableSlot(0), false))
	assert.Equal(t, int16(-2), tab.GetInt16Slot(types.VtableSlot(1), 0))
	assert.Equal(t, int64(1<<40), tab.GetInt64Slot(types.VtableSlot(2), 0))

	// the int64 must land on an 8-byte boundary relative to the buffer end
	off := tab.Offset(types.VtableSlot(2))
	abs := int(tab.Pos) + int(off)
	assert.Equal(t, 0, (len(buf)-abs)%8, "int64 field misaligned")
}

func TestBuilder_DefaultElision(t *testing.T) {
	b := NewBuilder(0)
	b.StartObject(2)
	b.PrependInt32Slot(0, 0, 0) // equals default → not written
	b.PrependInt32Slot(1, 7, 0)
	b.Finish(b.EndObject())

	tab := GetRoot(b.FinishedBytes(), 0)
	assert.Equal(t, types.VOffsetT(0), tab.Offset(types.VtableSlot(0)))
	assert.NotEqual(t, types.VOffsetT(0), tab.Offset(types.VtableSlot(1)))
	assert.Equal(t, int32(0), tab.GetInt32Slot(types.VtableSlot(0), 0))
	assert.Equal(t, int32(99), tab.GetInt32Slot(types.VtableSlot(0), 99), "absent field yields caller default")
	assert.Equal(t, int32(7), tab.GetInt32Slot(types.VtableSlot(1), 0))
	// soffset + one int32
	assert.Equal(t, types.VOffsetT(8), tab.ObjectSize())
}

func TestBuilder_TrailingDefaultsShortenVtable(t *testing.T) {
	b := NewBuilder(0)
	b.StartObject(4)
	b.PrependInt16Slot(0, 3, 0)
	b.PrependInt16Slot(3, 5, 5)
	b.Finish(b.EndObject())

	tab := GetRoot(b.FinishedBytes(), 0)
	assert.Equal(t, 1, tab.NumSlots())
	assert.Equal(t, types.VOffsetT(6), tab.VtableSize())
	// slot past the end of a short vtable reads as absent
	assert.Equal(t, int16(5), tab.GetInt16Slot(types.VtableSlot(3), 5))
}

func TestBuilder_ForceDefaults(t *testing.T) {
	b := NewBuilder(0, WithForceDefaults(true))
	b.StartObject(1)
	b.PrependInt32Slot(0, 0, 0)
	b.Finish(b.EndObject())

	tab := GetRoot(b.FinishedBytes(), 0)
	assert.NotEqual(t, types.VOffsetT(0), tab.Offset(types.VtableSlot(0)))
	assert.Equal(t, int32(0), tab.GetInt32Slot(types.VtableSlot(0), 11))
}

func buildPoints(b *Builder, n int) []types.UOffsetT {
	offs := make([]types.UOffsetT, 0, n)
	for i := 0; i < n; i++ {
		b.StartObject(2)
		b.PrependInt32Slot(0, int32(i+1), 0)
		b.PrependInt32Slot(1, int32(-i-1), 0)
		offs = append(offs, b.EndObject())
	}
	return offs
}

func TestBuilder_VtableDedup(t *testing.T) {
	const n = 10

	shared := NewBuilder(0)
	sharedOffs := buildPoints(shared, n)
	assert.Equal(t, 1, shared.VtableCount())

	plain := NewBuilder(0, WithDedup(false))
	plainOffs := buildPoints(plain, n)
	assert.Equal(t, n, plain.VtableCount())

	assert.Less(t, int(shared.Offset()), int(plain.Offset()))

	// both layouts read back identically
	shared.StartVector(4, n, 4)
	for i := n - 1; i >= 0; i-- {
		shared.PrependUOffsetT(sharedOffs[i])
	}
	shared.Finish(shared.EndVector(n))
	plain.StartVector(4, n, 4)
	for i := n - 1; i >= 0; i-- {
		plain.PrependUOffsetT(plainOffs[i])
	}
	plain.Finish(plain.EndVector(n))

	for _, buf := range [][]byte{shared.FinishedBytes(), plain.FinishedBytes()} {
		vec := GetRoot(buf, 0).Pos
		length := int(GetRoot(buf, 0).GetUint32(vec))
		require.Equal(t, n, length)
		for i := 0; i < n; i++ {
			at := vec + types.SizeUOffsetT + types.UOffsetT(i*types.SizeUOffsetT)
			var elem Table
			elem.Init(buf, at+GetRoot(buf, 0).GetUOffsetT(at))
			assert.Equal(t, int32(i+1), elem.GetInt32Slot(types.VtableSlot(0), 0))
			assert.Equal(t, int32(-i-1), elem.GetInt32Slot(types.VtableSlot(1), 0))
		}
	}
}

func TestBuilder_DistinctShapesGetDistinctVtables(t *testing.T) {
	b := NewBuilder(0)
	b.StartObject(2)
	b.PrependInt32Slot(0, 1, 0)
	b.EndObject()
	b.StartObject(2)
	b.PrependInt32Slot(1, 1, 0)
	b.EndObject()
	b.StartObject(2)
	b.PrependInt64Slot(0, 1, 0)
	b.EndObject()
	assert.Equal(t, 3, b.VtableCount())
}

func TestBuilder_NestedReference(t *testing.T) {
	b := NewBuilder(0)

	b.StartObject(1)
	b.PrependInt32Slot(0, 1234, 0)
	child := b.EndObject()

	b.StartObject(2)
	b.PrependUOffsetTRelativeSlot(1, child, 0)
	b.Finish(b.EndObject())

	buf := b.FinishedBytes()
	parent := GetRoot(buf, 0)

	_, ok := parent.Ref(types.VtableSlot(0))
	assert.False(t, ok, "slot 0 was never written")

	nested, ok := parent.Ref(types.VtableSlot(1))
	require.True(t, ok)
	assert.Equal(t, types.UOffsetT(len(buf))-child, nested.Pos)
	assert.Equal(t, int32(1234), nested.GetInt32Slot(types.VtableSlot(0), 0))
}

func TestBuilder_IndirectionAcrossLargeGap(t *testing.T) {
	const gap = 1 << 24

	b := NewBuilder(0)
	b.StartObject(1)
	b.PrependUint64Slot(0, 0xDEADBEEFCAFE, 0)
	child := b.EndObject()

	filler := b.CreateByteVector(make([]byte, gap))

	b.StartObject(2)
	b.PrependUOffsetTSlot(0, child, 0)
	b.PrependUOffsetTSlot(1, filler, 0)
	b.Finish(b.EndObject())

	buf := b.FinishedBytes()
	require.Greater(t, len(buf), gap)

	parent := GetRoot(buf, 0)
	nested, ok := parent.Ref(types.VtableSlot(0))
	require.True(t, ok)
	assert.Equal(t, types.UOffsetT(len(buf))-child, nested.Pos)
	assert.Equal(t, uint64(0xDEADBEEFCAFE), nested.GetUint64Slot(types.VtableSlot(0), 0))
	assert.Equal(t, gap, parent.VectorLen(types.UOffsetT(parent.Offset(types.VtableSlot(1)))))
}

func TestBuilder_StringsAndVectors(t *testing.T) {
	b := NewBuilder(0)
	name := b.CreateString("gopher")
	again := b.CreateSharedString("shared")
	same := b.CreateSharedString("shared")
	blob := b.CreateByteVector([]byte{0xAA, 0xBB, 0xCC})
	assert.Equal(t, again, same)

	b.StartVector(2, 3, 2)
	b.PrependInt16(3)
	b.PrependInt16(2)
	b.PrependInt16(1)
	nums := b.EndVector(3)

	b.StartObject(4)
	b.PrependUOffsetTSlot(0, name, 0)
	b.PrependUOffsetTSlot(1, again, 0)
	b.PrependUOffsetTSlot(2, blob, 0)
	b.PrependUOffsetTSlot(3, nums, 0)
	b.Finish(b.EndObject())

	tab := GetRoot(b.FinishedBytes(), 0)
	field := func(i int) types.UOffsetT {
		return tab.Pos + types.UOffsetT(tab.Offset(types.VtableSlot(i)))
	}
	assert.Equal(t, "gopher", tab.String(field(0)))
	assert.Equal(t, "shared", tab.String(field(1)))
	assert.Equal(t, []byte{0xAA, 0xBB, 0xCC}, tab.ByteVector(field(2)))

	rel := types.UOffsetT(tab.Offset(types.VtableSlot(3)))
	require.Equal(t, 3, tab.VectorLen(rel))
	start := tab.Vector(rel)
	for i := 0; i < 3; i++ {
		assert.Equal(t, int16(i+1), tab.GetInt16(start+types.UOffsetT(i*2)))
	}

	// strings carry a trailing zero byte after their payload
	str := tab.Indirect(field(0))
	assert.Equal(t, byte(0), tab.Bytes[str+4+6])
}

func TestBuilder_InlineStruct(t *testing.T) {
	b := NewBuilder(0)
	b.StartObject(1)
	b.Prep(4, 8)
	b.PlaceInt32(20) // b
	b.PlaceInt32(10) // a
	b.PrependStructSlot(0, b.Offset(), 0)
	b.Finish(b.EndObject())

	tab := GetRoot(b.FinishedBytes(), 0)
	st, ok := tab.Struct(types.VtableSlot(0))
	require.True(t, ok)
	assert.Equal(t, int32(10), st.GetInt32(st.Pos))
	assert.Equal(t, int32(20), st.GetInt32(st.Pos+4))
}

func TestBuilder_BigEndian(t *testing.T) {
	b := NewBuilder(0, WithByteOrder(binary.BigEndian))
	b.StartObject(1)
	b.PrependInt32Slot(0, 0x01020304, 0)
	child := b.EndObject()
	b.StartObject(2)
	b.PrependUOffsetTSlot(0, child, 0)
	b.PrependFloat64Slot(1, 2.5, 0)
	b.Finish(b.EndObject())

	buf := b.FinishedBytes()
	root := GetRootWith(b.Packer(), buf, 0)
	assert.Equal(t, 2.5, root.GetFloat64Slot(types.VtableSlot(1), 0))
	nested, ok := root.Ref(types.VtableSlot(0))
	require.True(t, ok)
	assert.Equal(t, int32(0x01020304), nested.GetInt32Slot(types.VtableSlot(0), 0))

	pos := nested.Pos + types.UOffsetT(nested.Offset(types.VtableSlot(0)))
	assert.Equal(t, []byte{0x01, 0x02, 0x03, 0x04}, buf[pos:pos+4])
}

func TestBuilder_ResetProducesIdenticalBytes(t *testing.T) {
	build := func(b *Builder) []byte {
		b.StartObject(2)
		b.PrependUint16Slot(0, 9, 0)
		b.PrependFloat32Slot(1, 1.5, 0)
		b.Finish(b.EndObject())
		return append([]byte(nil), b.FinishedBytes()...)
	}

	b := NewBuilder(16)
	first := build(b)
	b.Reset()
	second := build(b)
	assert.Equal(t, first, second)
	assert.Equal(t, first, build(NewBuilder(0)))
}

func TestBuilder_Pool(t *testing.T) {
	b := GetBuilder()
	b.StartObject(1)
	b.PrependInt8Slot(0, -3, 0)
	b.Finish(b.EndObject())
	out := append([]byte(nil), b.FinishedBytes()...)
	ReleaseBuilder(b)

	again := GetBuilder()
	defer ReleaseBuilder(again)
	assert.Equal(t, types.UOffsetT(0), again.Offset())
	assert.Equal(t, int8(-3), GetRoot(out, 0).GetInt8Slot(types.VtableSlot(0), 0))
}

func TestBuilder_Misuse(t *testing.T) {
	requireUsagePanic(t, func() {
		NewBuilder(0).PrependInt32Slot(0, 1, 0)
	})
	requireUsagePanic(t, func() {
		// defaults still require an open object
		NewBuilder(0).PrependInt32Slot(0, 0, 0)
	})
	requireUsagePanic(t, func() {
		b := NewBuilder(0)
		b.StartObject(1)
		b.StartObject(1)
	})
	requireUsagePanic(t, func() {
		NewBuilder(0).EndObject()
	})
	requireUsagePanic(t, func() {
		b := NewBuilder(0)
		b.StartObject(1)
		b.Finish(0)
	})
	requireUsagePanic(t, func() {
		b := NewBuilder(0)
		b.StartObject(1)
		b.CreateString("nested")
	})
	requireUsagePanic(t, func() {
		NewBuilder(0).FinishedBytes()
	})
	requireUsagePanic(t, func() {
		b := NewBuilder(0)
		b.StartObject(1)
		b.PrependInt32Slot(1, 5, 0)
	})
	requireUsagePanic(t, func() {
		b := NewBuilder(0)
		b.StartObject(0)
		b.FinishWithFileIdentifier(b.EndObject(), []byte("TOOLONG"))
	})
	requireUsagePanic(t, func() {
		b := NewBuilder(0)
		b.StartObject(0)
		b.Finish(b.EndObject())
		b.StartObject(0)
	})
	requireUsagePanic(t, func() {
		b := NewBuilder(0)
		b.StartVector(4, 1, 4)
		b.EndObject()
	})
}
