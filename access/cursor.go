package access

import (
	"fmt"
	"sort"

	"github.com/quickwritereader/flatpack/types"
)

// FieldCursor walks the vtable of one table slot by slot. It is meant for
// inspection tools that have no schema: it reports which slots are present,
// where their bytes start and how many inline bytes they span.
type FieldCursor struct {
	tab    Table
	vtable types.UOffsetT
	count  int
	pos    int
	// voffsets of present fields, ascending, with the object size appended
	bounds []types.VOffsetT
}

// NewFieldCursor positions a cursor before the first slot of t.
func NewFieldCursor(t Table) *FieldCursor {
	c := &FieldCursor{tab: t, vtable: t.Vtable(), count: t.NumSlots(), pos: -1}
	for i := 0; i < c.count; i++ {
		if off := c.entry(i); off != 0 {
			c.bounds = append(c.bounds, off)
		}
	}
	sort.Slice(c.bounds, func(i, j int) bool { return c.bounds[i] < c.bounds[j] })
	c.bounds = append(c.bounds, t.ObjectSize())
	return c
}

func (c *FieldCursor) entry(i int) types.VOffsetT {
	return c.tab.GetVOffsetT(c.vtable + types.UOffsetT(types.VtableSlot(i)))
}

// ArgCount is the number of slots in the vtable, present or not.
func (c *FieldCursor) ArgCount() int {
	return c.count
}

// CurrentIndex is the field index the cursor is on, -1 before Next.
func (c *FieldCursor) CurrentIndex() int {
	return c.pos
}

// Next advances to the following slot.
func (c *FieldCursor) Next() bool {
	if c.pos+1 >= c.count {
		return false
	}
	c.pos++
	return true
}

// Present reports whether the current slot holds a value.
func (c *FieldCursor) Present() bool {
	return c.VOffset() != 0
}

// VOffset is the current slot's offset from the table start, 0 when absent.
func (c *FieldCursor) VOffset() types.VOffsetT {
	if c.pos < 0 || c.pos >= c.count {
		return 0
	}
	return c.entry(c.pos)
}

// Width is the number of inline bytes up to the next present field or the
// end of the table. It includes any alignment padding that follows the value.
func (c *FieldCursor) Width() int {
	off := c.VOffset()
	if off == 0 {
		return 0
	}
	i := sort.Search(len(c.bounds), func(i int) bool { return c.bounds[i] > off })
	if i == len(c.bounds) {
		return 0
	}
	return int(c.bounds[i] - off)
}

// Payload returns the inline bytes of the current slot.
func (c *FieldCursor) Payload() ([]byte, error) {
	off := c.VOffset()
	if off == 0 {
		return nil, nil
	}
	start := int(c.tab.Pos) + int(off)
	end := start + c.Width()
	if end > len(c.tab.Bytes) {
		return nil, fmt.Errorf("payload: field %d range %d → %d exceeds buffer length %d",
			c.pos, start, end, len(c.tab.Bytes))
	}
	return c.tab.Bytes[start:end], nil
}

// Position is the absolute buffer position of the current slot's bytes.
func (c *FieldCursor) Position() types.UOffsetT {
	return c.tab.Pos + types.UOffsetT(c.VOffset())
}

// Reset rewinds the cursor.
func (c *FieldCursor) Reset() {
	c.pos = -1
}
