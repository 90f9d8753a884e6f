package packable

import (
	"testing"

	"github.com/quickwritereader/flatpack/access"
	"github.com/quickwritereader/flatpack/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// point is a two-field table used as a vector element.
type point struct{ x, y int32 }

func (p point) Pack(b *access.Builder) types.UOffsetT {
	b.StartObject(2)
	b.PrependInt32Slot(0, p.x, 0)
	b.PrependInt32Slot(1, p.y, 0)
	return b.EndObject()
}

func finish(v access.Packable) []byte {
	return access.PackRoot(access.NewBuilder(0), v)
}

func TestScalars_ExplicitByteMatch(t *testing.T) {
	actual := finish(Scalars[int16]{1, 2, 3})

	expected := []byte{
		0x04, 0x00, 0x00, 0x00, // root uoffset → 4
		0x03, 0x00, 0x00, 0x00, // length 3
		0x01, 0x00, // [0]
		0x02, 0x00, // [1]
		0x03, 0x00, // [2]
		0x00, 0x00, // padding to 4
	}
	require.Equal(t, len(expected), len(actual), "Length mismatch")
	for i := range expected {
		assert.Equalf(t, expected[i], actual[i], "Byte %d mismatch", i)
	}
}

func vectorAt(buf []byte) (access.Table, types.UOffsetT, int) {
	// a root that points at a vector: view it from the root slot itself
	tab := access.Table{Bytes: buf, Pos: 0}
	return tab, tab.Vector(0), tab.VectorLen(0)
}

func TestScalars_ReadBack(t *testing.T) {
	tab, start, n := vectorAt(finish(Scalars[float64]{1.5, -2.25}))
	require.Equal(t, 2, n)
	assert.Equal(t, 1.5, tab.GetFloat64(start))
	assert.Equal(t, -2.25, tab.GetFloat64(start+8))
	assert.Zero(t, start%8)
}

func TestBools(t *testing.T) {
	tab, start, n := vectorAt(finish(Bools{true, false, true}))
	require.Equal(t, 3, n)
	assert.True(t, tab.GetBool(start))
	assert.False(t, tab.GetBool(start+1))
	assert.True(t, tab.GetBool(start+2))
}

func TestStrings(t *testing.T) {
	tab, start, n := vectorAt(finish(Strings{"alpha", "", "gamma"}))
	require.Equal(t, 3, n)
	assert.Equal(t, "alpha", tab.String(start))
	assert.Equal(t, "", tab.String(start+4))
	assert.Equal(t, "gamma", tab.String(start+8))
}

func TestStringAndBytes(t *testing.T) {
	buf := finish(String("go"))
	tab := access.Table{Bytes: buf}
	assert.Equal(t, "go", tab.String(0))

	buf = finish(Bytes{0xAA, 0xBB})
	tab = access.Table{Bytes: buf}
	assert.Equal(t, []byte{0xAA, 0xBB}, tab.ByteVector(0))
}

func TestTables(t *testing.T) {
	b := access.NewBuilder(0)
	buf := access.PackRoot(b, Tables{point{1, 2}, point{3, 4}, point{5, 6}})
	assert.Equal(t, 1, b.VtableCount())

	tab, start, n := vectorAt(buf)
	require.Equal(t, 3, n)
	for i := 0; i < n; i++ {
		elem := access.Table{Bytes: buf, Pos: tab.Indirect(start + types.UOffsetT(i*4))}
		assert.Equal(t, int32(2*i+1), elem.GetInt32Slot(4, 0))
		assert.Equal(t, int32(2*i+2), elem.GetInt32Slot(6, 0))
	}
}

func TestEmptyVectors(t *testing.T) {
	for _, v := range []access.Packable{Scalars[uint32]{}, Strings{}, Tables{}, Bools(nil)} {
		_, _, n := vectorAt(finish(v))
		assert.Zero(t, n)
	}
}

func TestPackAll(t *testing.T) {
	b := access.NewBuilder(0)
	offs := PackAll(b, String("a"), String("b"))
	require.Len(t, offs, 2)
	assert.Less(t, offs[0], offs[1])
}
