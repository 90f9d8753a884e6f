package namespace

import (
	"github.com/quickwritereader/flatpack/access"
	"github.com/quickwritereader/flatpack/types"
)

// StructInNestedNS is the inline struct NamespaceA.NamespaceB.StructInNestedNS:
// a int32 at 0, b int32 at 4.
type StructInNestedNS struct {
	_tab access.Table
}

const structInNestedNSSize = 8

func (rcv *StructInNestedNS) Init(buf []byte, i types.UOffsetT) {
	rcv._tab.Init(buf, i)
}

func (rcv *StructInNestedNS) Table() access.Table {
	return rcv._tab
}

func (rcv *StructInNestedNS) A() int32 {
	return rcv._tab.GetInt32(rcv._tab.Pos + 0)
}

func (rcv *StructInNestedNS) MutateA(n int32) {
	access.Mutate(rcv._tab, rcv._tab.Pos+0, n)
}

func (rcv *StructInNestedNS) B() int32 {
	return rcv._tab.GetInt32(rcv._tab.Pos + 4)
}

func (rcv *StructInNestedNS) MutateB(n int32) {
	access.Mutate(rcv._tab, rcv._tab.Pos+4, n)
}

// CreateStructInNestedNS writes the struct inline; call it inside the
// owning table, right before adding its slot.
func CreateStructInNestedNS(builder *access.Builder, a, b int32) types.UOffsetT {
	builder.Prep(4, structInNestedNSSize)
	builder.PrependInt32(b)
	builder.PrependInt32(a)
	return builder.Offset()
}

type StructInNestedNST struct {
	A int32
	B int32
}

func (t *StructInNestedNST) Pack(builder *access.Builder) types.UOffsetT {
	if t == nil {
		return 0
	}
	return CreateStructInNestedNS(builder, t.A, t.B)
}

func (rcv *StructInNestedNS) UnPackTo(t *StructInNestedNST) {
	t.A = rcv.A()
	t.B = rcv.B()
}

func (rcv *StructInNestedNS) UnPack() *StructInNestedNST {
	if rcv == nil {
		return nil
	}
	t := &StructInNestedNST{}
	rcv.UnPackTo(t)
	return t
}
