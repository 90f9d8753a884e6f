package namespace

import (
	"github.com/quickwritereader/flatpack/access"
	"github.com/quickwritereader/flatpack/types"
)

// TableInFirstNS is NamespaceA.TableInFirstNS. Field ids 2 and 3 belong to
// the union pair (type tag and value) and are never written here.
type TableInFirstNS struct {
	_tab access.Table
}

func GetRootAsTableInFirstNS(buf []byte, offset types.UOffsetT) *TableInFirstNS {
	x := &TableInFirstNS{}
	x._tab = access.GetRoot(buf, offset)
	return x
}

func GetSizePrefixedRootAsTableInFirstNS(buf []byte, offset types.UOffsetT) *TableInFirstNS {
	x := &TableInFirstNS{}
	x._tab = access.GetSizePrefixedRoot(buf, offset)
	return x
}

func (rcv *TableInFirstNS) Init(buf []byte, i types.UOffsetT) {
	rcv._tab.Init(buf, i)
}

func (rcv *TableInFirstNS) Table() access.Table {
	return rcv._tab
}

func (rcv *TableInFirstNS) FooTable() (TableInNestedNS, bool) {
	t, ok := rcv._tab.Ref(4)
	return TableInNestedNS{_tab: t}, ok
}

func (rcv *TableInFirstNS) FooEnum() EnumInNestedNS {
	return access.GetSlot(rcv._tab, 6, EnumInNestedNSA)
}

func (rcv *TableInFirstNS) MutateFooEnum(n EnumInNestedNS) bool {
	return access.MutateSlot(rcv._tab, 6, n)
}

func (rcv *TableInFirstNS) FooStruct() (StructInNestedNS, bool) {
	t, ok := rcv._tab.Struct(12)
	return StructInNestedNS{_tab: t}, ok
}

func TableInFirstNSStart(builder *access.Builder) {
	builder.StartObject(5)
}

func TableInFirstNSAddFooTable(builder *access.Builder, fooTable types.UOffsetT) {
	builder.PrependUOffsetTRelativeSlot(0, fooTable, 0)
}

func TableInFirstNSAddFooEnum(builder *access.Builder, fooEnum EnumInNestedNS) {
	access.PrependSlot(builder, 1, fooEnum, EnumInNestedNSA)
}

func TableInFirstNSAddFooStruct(builder *access.Builder, fooStruct types.UOffsetT) {
	builder.PrependStructSlot(4, fooStruct, 0)
}

func TableInFirstNSEnd(builder *access.Builder) types.UOffsetT {
	return builder.EndObject()
}

type TableInFirstNST struct {
	FooTable  *TableInNestedNST
	FooEnum   EnumInNestedNS
	FooStruct *StructInNestedNST
}

// Pack adds the widest fields first: the table reference, the struct, then
// the enum.
func (t *TableInFirstNST) Pack(builder *access.Builder) types.UOffsetT {
	if t == nil {
		return 0
	}
	fooTableOffset := t.FooTable.Pack(builder)

	TableInFirstNSStart(builder)
	TableInFirstNSAddFooTable(builder, fooTableOffset)
	fooStructOffset := t.FooStruct.Pack(builder)
	TableInFirstNSAddFooStruct(builder, fooStructOffset)
	TableInFirstNSAddFooEnum(builder, t.FooEnum)
	return TableInFirstNSEnd(builder)
}

func (rcv *TableInFirstNS) UnPackTo(t *TableInFirstNST) {
	if nested, ok := rcv.FooTable(); ok {
		t.FooTable = nested.UnPack()
	}
	t.FooEnum = rcv.FooEnum()
	if st, ok := rcv.FooStruct(); ok {
		t.FooStruct = st.UnPack()
	}
}

func (rcv *TableInFirstNS) UnPack() *TableInFirstNST {
	if rcv == nil {
		return nil
	}
	t := &TableInFirstNST{}
	rcv.UnPackTo(t)
	return t
}
