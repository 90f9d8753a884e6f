package namespace

import (
	"github.com/quickwritereader/flatpack/access"
	"github.com/quickwritereader/flatpack/types"
)

// TableInNestedNS is NamespaceA.NamespaceB.TableInNestedNS { foo:int32 }.
type TableInNestedNS struct {
	_tab access.Table
}

func GetRootAsTableInNestedNS(buf []byte, offset types.UOffsetT) *TableInNestedNS {
	x := &TableInNestedNS{}
	x._tab = access.GetRoot(buf, offset)
	return x
}

func GetSizePrefixedRootAsTableInNestedNS(buf []byte, offset types.UOffsetT) *TableInNestedNS {
	x := &TableInNestedNS{}
	x._tab = access.GetSizePrefixedRoot(buf, offset)
	return x
}

func (rcv *TableInNestedNS) Init(buf []byte, i types.UOffsetT) {
	rcv._tab.Init(buf, i)
}

func (rcv *TableInNestedNS) Table() access.Table {
	return rcv._tab
}

func (rcv *TableInNestedNS) Foo() int32 {
	return rcv._tab.GetInt32Slot(4, 0)
}

// MutateFoo fails when foo was elided as default.
func (rcv *TableInNestedNS) MutateFoo(n int32) bool {
	return rcv._tab.MutateInt32Slot(4, n)
}

func TableInNestedNSStart(builder *access.Builder) {
	builder.StartObject(1)
}

func TableInNestedNSAddFoo(builder *access.Builder, foo int32) {
	builder.PrependInt32Slot(0, foo, 0)
}

func TableInNestedNSEnd(builder *access.Builder) types.UOffsetT {
	return builder.EndObject()
}

type TableInNestedNST struct {
	Foo int32
}

func (t *TableInNestedNST) Pack(builder *access.Builder) types.UOffsetT {
	if t == nil {
		return 0
	}
	TableInNestedNSStart(builder)
	TableInNestedNSAddFoo(builder, t.Foo)
	return TableInNestedNSEnd(builder)
}

func (rcv *TableInNestedNS) UnPackTo(t *TableInNestedNST) {
	t.Foo = rcv.Foo()
}

func (rcv *TableInNestedNS) UnPack() *TableInNestedNST {
	if rcv == nil {
		return nil
	}
	t := &TableInNestedNST{}
	rcv.UnPackTo(t)
	return t
}
