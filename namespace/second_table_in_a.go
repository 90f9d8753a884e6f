package namespace

import (
	"github.com/quickwritereader/flatpack/access"
	"github.com/quickwritereader/flatpack/types"
)

// SecondTableInA is NamespaceA.SecondTableInA { refer_to_c:NamespaceC.TableInC }.
type SecondTableInA struct {
	_tab access.Table
}

func GetRootAsSecondTableInA(buf []byte, offset types.UOffsetT) *SecondTableInA {
	x := &SecondTableInA{}
	x._tab = access.GetRoot(buf, offset)
	return x
}

func GetSizePrefixedRootAsSecondTableInA(buf []byte, offset types.UOffsetT) *SecondTableInA {
	x := &SecondTableInA{}
	x._tab = access.GetSizePrefixedRoot(buf, offset)
	return x
}

func (rcv *SecondTableInA) Init(buf []byte, i types.UOffsetT) {
	rcv._tab.Init(buf, i)
}

func (rcv *SecondTableInA) Table() access.Table {
	return rcv._tab
}

// ReferToC reports false when the reference was never added.
func (rcv *SecondTableInA) ReferToC() (TableInC, bool) {
	t, ok := rcv._tab.Ref(4)
	return TableInC{_tab: t}, ok
}

func SecondTableInAStart(builder *access.Builder) {
	builder.StartObject(1)
}

func SecondTableInAAddReferToC(builder *access.Builder, referToC types.UOffsetT) {
	builder.PrependUOffsetTRelativeSlot(0, referToC, 0)
}

func SecondTableInAEnd(builder *access.Builder) types.UOffsetT {
	return builder.EndObject()
}

// SecondTableInAT is the object tree of SecondTableInA; a nil ReferToC is
// an absent reference.
type SecondTableInAT struct {
	ReferToC *TableInCT
}

func (t *SecondTableInAT) Pack(builder *access.Builder) types.UOffsetT {
	if t == nil {
		return 0
	}
	referToCOffset := t.ReferToC.Pack(builder)

	SecondTableInAStart(builder)
	SecondTableInAAddReferToC(builder, referToCOffset)
	return SecondTableInAEnd(builder)
}

func (rcv *SecondTableInA) UnPackTo(t *SecondTableInAT) {
	if c, ok := rcv.ReferToC(); ok {
		t.ReferToC = c.UnPack()
	}
}

func (rcv *SecondTableInA) UnPack() *SecondTableInAT {
	if rcv == nil {
		return nil
	}
	t := &SecondTableInAT{}
	rcv.UnPackTo(t)
	return t
}
