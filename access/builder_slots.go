package access

import (
	"github.com/quickwritereader/flatpack/encode"
	"github.com/quickwritereader/flatpack/types"
)

// Place writes x at the cursor without alignment or space checks.
// Callers must have called Prep.
func Place[T encode.Number](b *Builder, x T) {
	b.head -= types.UOffsetT(encode.SizeOf[T]())
	encode.Put(b.packer, b.Bytes[b.head:], x)
}

// Prepend aligns for T and writes x.
func Prepend[T encode.Number](b *Builder, x T) {
	b.Prep(encode.SizeOf[T](), 0)
	Place(b, x)
}

// PrependSlot writes x into field slot of the open object, unless it equals
// the default d, in which case the slot stays unset.
func PrependSlot[T encode.Number](b *Builder, slot int, x, d T) {
	b.assertInObject("PrependSlot")
	if x == d && !b.forceDefaults {
		return
	}
	Prepend(b, x)
	b.Slot(slot)
}

func (b *Builder) PlaceBool(x bool) {
	b.head -= types.SizeBool
	encode.WriteBool(b.Bytes[b.head:], x)
}

func (b *Builder) PlaceByte(x byte) { Place(b, x) }
func (b *Builder) PlaceUint8(x uint8) { Place(b, x) }
func (b *Builder) PlaceUint16(x uint16) { Place(b, x) }
func (b *Builder) PlaceUint32(x uint32) { Place(b, x) }
func (b *Builder) PlaceUint64(x uint64) { Place(b, x) }
func (b *Builder) PlaceInt8(x int8) { Place(b, x) }
func (b *Builder) PlaceInt16(x int16) { Place(b, x) }
func (b *Builder) PlaceInt32(x int32) { Place(b, x) }
func (b *Builder) PlaceInt64(x int64) { Place(b, x) }
func (b *Builder) PlaceFloat32(x float32) { Place(b, x) }
func (b *Builder) PlaceFloat64(x float64) { Place(b, x) }

func (b *Builder) PlaceVOffsetT(x types.VOffsetT) {
	b.head -= types.SizeVOffsetT
	b.packer.PutVOffsetT(b.Bytes[b.head:], x)
}

func (b *Builder) PlaceSOffsetT(x types.SOffsetT) {
	b.head -= types.SizeSOffsetT
	b.packer.PutSOffsetT(b.Bytes[b.head:], x)
}

func (b *Builder) PlaceUOffsetT(x types.UOffsetT) {
	b.head -= types.SizeUOffsetT
	b.packer.PutUOffsetT(b.Bytes[b.head:], x)
}

func (b *Builder) PrependBool(x bool) {
	b.Prep(types.SizeBool, 0)
	b.PlaceBool(x)
}

func (b *Builder) PrependByte(x byte) { Prepend(b, x) }
func (b *Builder) PrependUint8(x uint8) { Prepend(b, x) }
func (b *Builder) PrependUint16(x uint16) { Prepend(b, x) }
func (b *Builder) PrependUint32(x uint32) { Prepend(b, x) }
func (b *Builder) PrependUint64(x uint64) { Prepend(b, x) }
func (b *Builder) PrependInt8(x int8) { Prepend(b, x) }
func (b *Builder) PrependInt16(x int16) { Prepend(b, x) }
func (b *Builder) PrependInt32(x int32) { Prepend(b, x) }
func (b *Builder) PrependInt64(x int64) { Prepend(b, x) }
func (b *Builder) PrependFloat32(x float32) { Prepend(b, x) }
func (b *Builder) PrependFloat64(x float64) { Prepend(b, x) }

func (b *Builder) PrependVOffsetT(x types.VOffsetT) {
	b.Prep(types.SizeVOffsetT, 0)
	b.PlaceVOffsetT(x)
}

// PrependBoolSlot prepends a bool onto the object at vtable slot `o`.
// If value `x` equals default `d`, then the slot will be set to zero and no
// other data will be written.
func (b *Builder) PrependBoolSlot(o int, x, d bool) {
	var val, def byte
	if x {
		val = 1
	}
	if d {
		def = 1
	}
	PrependSlot(b, o, val, def)
}

func (b *Builder) PrependByteSlot(o int, x, d byte) { PrependSlot(b, o, x, d) }
func (b *Builder) PrependUint8Slot(o int, x, d uint8) { PrependSlot(b, o, x, d) }
func (b *Builder) PrependUint16Slot(o int, x, d uint16) { PrependSlot(b, o, x, d) }
func (b *Builder) PrependUint32Slot(o int, x, d uint32) { PrependSlot(b, o, x, d) }
func (b *Builder) PrependUint64Slot(o int, x, d uint64) { PrependSlot(b, o, x, d) }
func (b *Builder) PrependInt8Slot(o int, x, d int8) { PrependSlot(b, o, x, d) }
func (b *Builder) PrependInt16Slot(o int, x, d int16) { PrependSlot(b, o, x, d) }
func (b *Builder) PrependInt32Slot(o int, x, d int32) { PrependSlot(b, o, x, d) }
func (b *Builder) PrependInt64Slot(o int, x, d int64) { PrependSlot(b, o, x, d) }
func (b *Builder) PrependFloat32Slot(o int, x, d float32) { PrependSlot(b, o, x, d) }
func (b *Builder) PrependFloat64Slot(o int, x, d float64) { PrependSlot(b, o, x, d) }

// PrependUOffsetTSlot prepends a reference to an already finished object.
// x is the offset EndObject (or CreateString, EndVector) returned; it is
// rewritten relative to its storage location here. 0 means absent.
func (b *Builder) PrependUOffsetTSlot(o int, x, d types.UOffsetT) {
	b.assertInObject("PrependUOffsetTSlot")
	if x == d {
		return
	}
	b.PrependUOffsetT(x)
	b.Slot(o)
}

// PrependUOffsetTRelativeSlot is PrependUOffsetTSlot under the name the
// generated accessors of other target languages use.
func (b *Builder) PrependUOffsetTRelativeSlot(o int, x, d types.UOffsetT) {
	b.PrependUOffsetTSlot(o, x, d)
}

// PrependStructSlot records a struct that was just written inline; x must be
// the current offset.
func (b *Builder) PrependStructSlot(voffset int, x, d types.UOffsetT) {
	b.assertInObject("PrependStructSlot")
	if x == d {
		return
	}
	if x != b.Offset() {
		usage("PrependStructSlot", "inline data write outside of object")
	}
	b.Slot(voffset)
}

// StartVector initializes bookkeeping for writing a new vector.
//
// A vector has the following format:
//
//	<UOffsetT: number of elements in this vector>
//	<T: data>+, where T is the type of elements of this vector.
func (b *Builder) StartVector(elemSize, numElems, alignment int) types.UOffsetT {
	b.assertNotNested("StartVector")
	b.assertNotFinished("StartVector")
	b.Prep(types.SizeUint32, elemSize*numElems)
	b.Prep(alignment, elemSize*numElems)
	b.open = append(b.open, frame{kind: frameVector, start: b.Offset()})
	return b.Offset()
}

// EndVector writes data necessary to finish vector construction.
func (b *Builder) EndVector(vectorNumElems int) types.UOffsetT {
	b.assertInVector("EndVector")
	b.PlaceUOffsetT(types.UOffsetT(vectorNumElems))
	b.open = b.open[:len(b.open)-1]
	return b.Offset()
}

// CreateString writes a null-terminated string as a vector.
func (b *Builder) CreateString(s string) types.UOffsetT {
	return b.createBytes(s, true)
}

// CreateByteString writes a byte slice as a string (null-terminated).
func (b *Builder) CreateByteString(s []byte) types.UOffsetT {
	return b.createBytes(string(s), true)
}

// CreateByteVector writes a ubyte vector
func (b *Builder) CreateByteVector(v []byte) types.UOffsetT {
	return b.createBytes(string(v), false)
}

// CreateSharedString returns the offset of an identical string written
// earlier into this buffer, or writes it.
func (b *Builder) CreateSharedString(s string) types.UOffsetT {
	if off, ok := b.sharedStrings[s]; ok {
		return off
	}
	if b.sharedStrings == nil {
		b.sharedStrings = make(map[string]types.UOffsetT)
	}
	off := b.CreateString(s)
	b.sharedStrings[s] = off
	return off
}

func (b *Builder) createBytes(s string, terminate bool) types.UOffsetT {
	b.assertNotNested("CreateString")
	b.assertNotFinished("CreateString")
	extra := 0
	if terminate {
		extra = 1
	}
	b.Prep(types.SizeUOffsetT, (len(s)+extra)*types.SizeByte)
	if terminate {
		b.PlaceByte(0)
	}
	l := types.UOffsetT(len(s))
	b.head -= l
	copy(b.Bytes[b.head:b.head+l], s)

	b.PlaceUOffsetT(l)
	return b.Offset()
}

// Finish finalizes a buffer, pointing to the given `rootTable`.
func (b *Builder) Finish(rootTable types.UOffsetT) {
	b.finish(rootTable, nil, false)
}

// FinishWithFileIdentifier finalizes a buffer with a 4-byte identifier
// placed right after the root offset.
func (b *Builder) FinishWithFileIdentifier(rootTable types.UOffsetT, fid []byte) {
	b.finish(rootTable, fid, false)
}

// FinishSizePrefixed finalizes a buffer and prepends its length.
func (b *Builder) FinishSizePrefixed(rootTable types.UOffsetT) {
	b.finish(rootTable, nil, true)
}

// FinishSizePrefixedWithFileIdentifier combines both prefixes.
func (b *Builder) FinishSizePrefixedWithFileIdentifier(rootTable types.UOffsetT, fid []byte) {
	b.finish(rootTable, fid, true)
}

func (b *Builder) finish(rootTable types.UOffsetT, fid []byte, sizePrefix bool) {
	b.assertNotNested("Finish")
	b.assertNotFinished("Finish")

	additional := types.SizeUOffsetT
	if sizePrefix {
		additional += types.SizePrefixLength
	}
	if fid != nil {
		if len(fid) != types.FileIdentifierLength {
			usage("Finish", "incorrect file identifier length")
		}
		additional += types.FileIdentifierLength
	}
	b.Prep(b.minalign, additional)

	for i := len(fid) - 1; i >= 0; i-- {
		b.PlaceByte(fid[i])
	}
	b.PrependUOffsetT(rootTable)
	if sizePrefix {
		// same byte order as every other scalar of the buffer
		b.PrependUint32(uint32(b.Offset()))
	}
	b.finished = true
}
