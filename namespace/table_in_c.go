package namespace

import (
	"github.com/quickwritereader/flatpack/access"
	"github.com/quickwritereader/flatpack/types"
)

// TableInC is NamespaceC.TableInC. Both fields point back into NamespaceA.
type TableInC struct {
	_tab access.Table
}

func GetRootAsTableInC(buf []byte, offset types.UOffsetT) *TableInC {
	x := &TableInC{}
	x._tab = access.GetRoot(buf, offset)
	return x
}

func GetSizePrefixedRootAsTableInC(buf []byte, offset types.UOffsetT) *TableInC {
	x := &TableInC{}
	x._tab = access.GetSizePrefixedRoot(buf, offset)
	return x
}

func (rcv *TableInC) Init(buf []byte, i types.UOffsetT) {
	rcv._tab.Init(buf, i)
}

func (rcv *TableInC) Table() access.Table {
	return rcv._tab
}

func (rcv *TableInC) ReferToA1() (TableInFirstNS, bool) {
	t, ok := rcv._tab.Ref(4)
	return TableInFirstNS{_tab: t}, ok
}

func (rcv *TableInC) ReferToA2() (SecondTableInA, bool) {
	t, ok := rcv._tab.Ref(6)
	return SecondTableInA{_tab: t}, ok
}

func TableInCStart(builder *access.Builder) {
	builder.StartObject(2)
}

func TableInCAddReferToA1(builder *access.Builder, referToA1 types.UOffsetT) {
	builder.PrependUOffsetTRelativeSlot(0, referToA1, 0)
}

func TableInCAddReferToA2(builder *access.Builder, referToA2 types.UOffsetT) {
	builder.PrependUOffsetTRelativeSlot(1, referToA2, 0)
}

func TableInCEnd(builder *access.Builder) types.UOffsetT {
	return builder.EndObject()
}

type TableInCT struct {
	ReferToA1 *TableInFirstNST
	ReferToA2 *SecondTableInAT
}

func (t *TableInCT) Pack(builder *access.Builder) types.UOffsetT {
	if t == nil {
		return 0
	}
	referToA1Offset := t.ReferToA1.Pack(builder)
	referToA2Offset := t.ReferToA2.Pack(builder)

	TableInCStart(builder)
	TableInCAddReferToA1(builder, referToA1Offset)
	TableInCAddReferToA2(builder, referToA2Offset)
	return TableInCEnd(builder)
}

func (rcv *TableInC) UnPackTo(t *TableInCT) {
	if a1, ok := rcv.ReferToA1(); ok {
		t.ReferToA1 = a1.UnPack()
	}
	if a2, ok := rcv.ReferToA2(); ok {
		t.ReferToA2 = a2.UnPack()
	}
}

func (rcv *TableInC) UnPack() *TableInCT {
	if rcv == nil {
		return nil
	}
	t := &TableInCT{}
	rcv.UnPackTo(t)
	return t
}
