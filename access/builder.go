package access

import (
	"encoding/binary"
	"sync"

	"github.com/quickwritereader/flatpack/encode"
	"github.com/quickwritereader/flatpack/types"
	"github.com/quickwritereader/flatpack/utils"
)

var bufPool = utils.NewBufferPool()

var builderPool = sync.Pool{
	New: func() interface{} {
		return NewBuilder(1024)
	},
}

// GetBuilder returns a reset builder from the pool.
func GetBuilder() *Builder {
	b := builderPool.Get().(*Builder)
	b.Reset()
	return b
}

// ReleaseBuilder hands b back to the pool. Slices previously returned by
// FinishedBytes must not be used afterwards.
func ReleaseBuilder(b *Builder) {
	b.dedup, b.forceDefaults = true, false
	b.packer = encode.LittleEndian
	builderPool.Put(b)
}

type frameKind uint8

const (
	frameObject frameKind = iota + 1
	frameVector
)

type frame struct {
	kind  frameKind
	start types.UOffsetT
}

// Builder writes a buffer back to front. All offsets it hands out are
// measured from the end of the buffer, so they stay valid while it grows.
type Builder struct {
	// Bytes holds the data under construction; the live region is Bytes[head:].
	Bytes []byte

	head     types.UOffsetT
	minalign int
	packer   encode.Packer

	// slot offsets of the open object, 0 = unset
	vtable    []types.UOffsetT
	objectEnd types.UOffsetT
	open      []frame

	dedup         bool
	vtables       map[string]types.UOffsetT
	vtScratch     []byte
	vtWritten     int
	forceDefaults bool

	sharedStrings map[string]types.UOffsetT
	finished      bool
}

// Option configures a Builder at construction.
type Option func(*Builder)

// WithByteOrder selects the scalar byte order. Readers must use the same order.
func WithByteOrder(order binary.ByteOrder) Option {
	return func(b *Builder) { b.packer = encode.NewPacker(order) }
}

// WithDedup toggles vtable sharing. Buffers read identically either way.
func WithDedup(on bool) Option {
	return func(b *Builder) { b.dedup = on }
}

// WithForceDefaults writes scalar fields even when they equal their default.
func WithForceDefaults(on bool) Option {
	return func(b *Builder) { b.forceDefaults = on }
}

// NewBuilder initializes a Builder of size `initialSize`.
// The internal buffer grows as needed.
func NewBuilder(initialSize int, opts ...Option) *Builder {
	if initialSize <= 0 {
		initialSize = 0
	}
	b := &Builder{
		minalign: 1,
		packer:   encode.LittleEndian,
		dedup:    true,
		vtables:  make(map[string]types.UOffsetT, 16),
	}
	if initialSize > 0 {
		b.Bytes = bufPool.Acquire(initialSize)
	}
	b.head = types.UOffsetT(len(b.Bytes))
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Reset truncates the builder for reuse, keeping the backing memory.
func (b *Builder) Reset() {
	if b.Bytes != nil {
		b.Bytes = b.Bytes[:cap(b.Bytes)]
	}
	b.vtable = b.vtable[:0]
	b.open = b.open[:0]
	clear(b.vtables)
	clear(b.sharedStrings)
	b.head = types.UOffsetT(len(b.Bytes))
	b.minalign = 1
	b.objectEnd = 0
	b.vtWritten = 0
	b.finished = false
}

// SetForceDefaults is the runtime counterpart of WithForceDefaults.
func (b *Builder) SetForceDefaults(on bool) {
	b.forceDefaults = on
}

// Packer returns the scalar codec the builder writes with.
func (b *Builder) Packer() encode.Packer {
	return b.packer
}

// FinishedBytes returns the finished buffer. The slice aliases the builder's
// memory and is valid until Reset or ReleaseBuilder.
func (b *Builder) FinishedBytes() []byte {
	b.assertFinished("FinishedBytes")
	return b.Bytes[b.head:]
}

// Head is the index of the first live byte in Bytes.
func (b *Builder) Head() types.UOffsetT {
	return b.head
}

// Offset is the number of bytes written so far.
func (b *Builder) Offset() types.UOffsetT {
	return types.UOffsetT(len(b.Bytes)) - b.head
}

// StartObject opens a table with numfields slots, all unset.
func (b *Builder) StartObject(numfields int) {
	b.assertNotNested("StartObject")
	b.assertNotFinished("StartObject")
	if numfields < 0 {
		usage("StartObject", "negative field count")
	}
	if cap(b.vtable) < numfields {
		b.vtable = make([]types.UOffsetT, numfields)
	} else {
		b.vtable = b.vtable[:numfields]
		clear(b.vtable)
	}
	b.objectEnd = b.Offset()
	b.open = append(b.open, frame{kind: frameObject, start: b.objectEnd})
}

// Slot records the current offset as the location of field slotnum.
func (b *Builder) Slot(slotnum int) {
	b.assertInObject("Slot")
	if slotnum < 0 || slotnum >= len(b.vtable) {
		usage("Slot", "field index outside the declared field count")
	}
	b.vtable[slotnum] = b.Offset()
}

// EndObject closes the open table and returns its offset.
func (b *Builder) EndObject() types.UOffsetT {
	b.assertInObject("EndObject")
	n := b.writeVtable()
	b.open = b.open[:len(b.open)-1]
	return n
}

// writeVtable serializes the vtable for the current object, reusing an
// identical one when dedup is on.
//
// Before:
//
//	<field data...>
//
// After (new vtable):
//
//	<vtable: size, object size, field offsets...> <soffset> <field data...>
func (b *Builder) writeVtable() types.UOffsetT {
	// placeholder for the soffset to the vtable
	b.PrependSOffsetT(0)
	objectOffset := b.Offset()

	i := len(b.vtable) - 1
	for ; i >= 0 && b.vtable[i] == 0; i-- {
	}
	b.vtable = b.vtable[:i+1]

	vtBytes := (len(b.vtable) + types.VtableMetadataFields) * types.SizeVOffsetT
	objectSize := objectOffset - b.objectEnd
	if vtBytes > 0xFFFF || objectSize > 0xFFFF {
		usage("EndObject", "table exceeds the 64KiB vtable addressing range")
	}

	vt := b.candidateVtable(objectOffset, vtBytes, objectSize)

	var existing types.UOffsetT
	if b.vtables == nil {
		b.vtables = make(map[string]types.UOffsetT, 16)
	}
	if b.dedup {
		existing = b.vtables[string(vt)]
	}

	objectStart := types.UOffsetT(len(b.Bytes)) - objectOffset
	if existing == 0 {
		b.Prep(types.SizeVOffsetT, vtBytes-types.SizeVOffsetT)
		b.head -= types.UOffsetT(vtBytes)
		copy(b.Bytes[b.head:], vt)
		b.vtWritten++

		vtOffset := b.Offset()
		// objectStart moved with any growth in Prep; recompute from the end
		objectStart = types.UOffsetT(len(b.Bytes)) - objectOffset
		b.packer.PutSOffsetT(b.Bytes[objectStart:], types.SOffsetT(vtOffset)-types.SOffsetT(objectOffset))
		if b.dedup {
			b.vtables[string(vt)] = vtOffset
		}
	} else {
		b.packer.PutSOffsetT(b.Bytes[objectStart:], types.SOffsetT(existing)-types.SOffsetT(objectOffset))
	}

	b.vtable = b.vtable[:0]
	return objectOffset
}

func (b *Builder) candidateVtable(objectOffset types.UOffsetT, vtBytes int, objectSize types.UOffsetT) []byte {
	if cap(b.vtScratch) < vtBytes {
		b.vtScratch = make([]byte, vtBytes)
	}
	vt := b.vtScratch[:vtBytes]
	b.packer.PutVOffsetT(vt[0:], types.VOffsetT(vtBytes))
	b.packer.PutVOffsetT(vt[2:], types.VOffsetT(objectSize))
	for i, at := range b.vtable {
		var off types.VOffsetT
		if at != 0 {
			off = types.VOffsetT(objectOffset - at)
		}
		b.packer.PutVOffsetT(vt[(types.VtableMetadataFields+i)*types.SizeVOffsetT:], off)
	}
	return vt
}

// VtableCount is the number of distinct vtables written so far.
func (b *Builder) VtableCount() int {
	return b.vtWritten
}

// growByteBuffer doubles the buffer and moves the live data to the top half.
func (b *Builder) growByteBuffer() {
	if (int64(len(b.Bytes)) & int64(0xC0000000)) != 0 {
		usage("grow", "cannot grow buffer beyond 2 gigabytes")
	}
	newLen := len(b.Bytes) * 2
	if newLen == 0 {
		newLen = 1
	}
	grown := bufPool.Acquire(newLen)
	copy(grown[newLen-len(b.Bytes):], b.Bytes)
	old := b.Bytes
	b.Bytes = grown
	bufPool.Release(old)
}

// Pad places zeros at the current offset.
func (b *Builder) Pad(n int) {
	for i := 0; i < n; i++ {
		b.PlaceByte(0)
	}
}

// Prep prepares to write an element of `size` after `additionalBytes`
// have been written, e.g. if you write a string, you need to align such
// the int length field is aligned to SizeInt32, and the string data follows it
// directly. If all you need to do is align, `additionalBytes` will be 0.
func (b *Builder) Prep(size, additionalBytes int) {
	if size > b.minalign {
		b.minalign = size
	}
	alignSize := (^(len(b.Bytes) - int(b.head) + additionalBytes)) + 1
	alignSize &= (size - 1)

	for int(b.head) <= alignSize+size+additionalBytes {
		oldBufSize := len(b.Bytes)
		b.growByteBuffer()
		b.head += types.UOffsetT(len(b.Bytes) - oldBufSize)
	}
	b.Pad(alignSize)
}

// PrependSOffsetT prepends an SOffsetT, relative to where it will be written.
func (b *Builder) PrependSOffsetT(off types.SOffsetT) {
	b.Prep(types.SizeSOffsetT, 0)
	if types.UOffsetT(off) > b.Offset() {
		usage("PrependSOffsetT", "offset points past the written region")
	}
	off2 := types.SOffsetT(b.Offset()) - off + types.SOffsetT(types.SizeSOffsetT)
	b.PlaceSOffsetT(off2)
}

// PrependUOffsetT prepends a UOffsetT, relative to where it will be written.
func (b *Builder) PrependUOffsetT(off types.UOffsetT) {
	b.Prep(types.SizeUOffsetT, 0)
	if off > b.Offset() {
		usage("PrependUOffsetT", "offset points past the written region")
	}
	off2 := b.Offset() - off + types.UOffsetT(types.SizeUOffsetT)
	b.PlaceUOffsetT(off2)
}

func (b *Builder) assertInObject(op string) {
	if n := len(b.open); n == 0 || b.open[n-1].kind != frameObject {
		usage(op, "must be inside an object: call StartObject first")
	}
}

func (b *Builder) assertInVector(op string) {
	if n := len(b.open); n == 0 || b.open[n-1].kind != frameVector {
		usage(op, "must be inside a vector: call StartVector first")
	}
}

func (b *Builder) assertNotNested(op string) {
	if len(b.open) != 0 {
		usage(op, "object must not be nested: finish the open object or vector first")
	}
}

func (b *Builder) assertNotFinished(op string) {
	if b.finished {
		usage(op, "buffer already finished: call Reset to build another")
	}
}

func (b *Builder) assertFinished(op string) {
	if !b.finished {
		usage(op, "must call Finish first")
	}
}
