package encode

import (
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/quickwritereader/flatpack/types"
	"golang.org/x/exp/constraints"
)

// Number is any fixed-width scalar the format can store inline.
type Number interface {
	constraints.Integer | constraints.Float
}

// Packer encodes scalars with an explicit byte order.
// The zero Packer is little-endian.
type Packer struct {
	Order binary.ByteOrder
}

// LittleEndian is the wire default.
var LittleEndian = Packer{Order: binary.LittleEndian}

// BigEndian is available for deployments that configure it on both sides.
var BigEndian = Packer{Order: binary.BigEndian}

// NewPacker returns a Packer for order; nil selects little-endian.
func NewPacker(order binary.ByteOrder) Packer {
	if order == nil {
		order = binary.LittleEndian
	}
	return Packer{Order: order}
}

func (p Packer) order() binary.ByteOrder {
	if p.Order == nil {
		return binary.LittleEndian
	}
	return p.Order
}

// IsLittleEndian reports whether p uses the wire default.
func (p Packer) IsLittleEndian() bool {
	return p.order() == binary.LittleEndian
}

func (p Packer) Uint16(buf []byte) uint16 { return p.order().Uint16(buf) }
func (p Packer) Uint32(buf []byte) uint32 { return p.order().Uint32(buf) }
func (p Packer) Uint64(buf []byte) uint64 { return p.order().Uint64(buf) }

func (p Packer) PutUint16(buf []byte, v uint16) { p.order().PutUint16(buf, v) }
func (p Packer) PutUint32(buf []byte, v uint32) { p.order().PutUint32(buf, v) }
func (p Packer) PutUint64(buf []byte, v uint64) { p.order().PutUint64(buf, v) }

func (p Packer) UOffsetT(buf []byte) types.UOffsetT {
	return types.UOffsetT(p.order().Uint32(buf))
}

func (p Packer) SOffsetT(buf []byte) types.SOffsetT {
	return types.SOffsetT(p.order().Uint32(buf))
}

func (p Packer) VOffsetT(buf []byte) types.VOffsetT {
	return types.VOffsetT(p.order().Uint16(buf))
}

func (p Packer) PutUOffsetT(buf []byte, v types.UOffsetT) {
	p.order().PutUint32(buf, uint32(v))
}

func (p Packer) PutSOffsetT(buf []byte, v types.SOffsetT) {
	p.order().PutUint32(buf, uint32(v))
}

func (p Packer) PutVOffsetT(buf []byte, v types.VOffsetT) {
	p.order().PutUint16(buf, uint16(v))
}

// SizeOf is the inline width of T in bytes.
func SizeOf[T Number]() int {
	var v T
	return int(unsafe.Sizeof(v))
}

func isFloat[T Number]() bool {
	half := 0.5
	return T(half) != 0
}

func isSigned[T Number]() bool {
	var zero T
	return zero-1 < 0
}

// Get decodes a T from the front of buf. Named types (enums) decode through
// their underlying representation.
func Get[T Number](p Packer, buf []byte) T {
	o := p.order()
	switch SizeOf[T]() {
	case 1:
		if isSigned[T]() {
			return T(int8(buf[0]))
		}
		return T(buf[0])
	case 2:
		u := o.Uint16(buf)
		if isSigned[T]() {
			return T(int16(u))
		}
		return T(u)
	case 4:
		u := o.Uint32(buf)
		if isFloat[T]() {
			return T(math.Float32frombits(u))
		}
		if isSigned[T]() {
			return T(int32(u))
		}
		return T(u)
	default:
		u := o.Uint64(buf)
		if isFloat[T]() {
			return T(math.Float64frombits(u))
		}
		if isSigned[T]() {
			return T(int64(u))
		}
		return T(u)
	}
}

// Put encodes v at the front of buf.
func Put[T Number](p Packer, buf []byte, v T) {
	o := p.order()
	switch SizeOf[T]() {
	case 1:
		if isSigned[T]() {
			buf[0] = byte(int8(v))
			return
		}
		buf[0] = byte(v)
	case 2:
		if isSigned[T]() {
			o.PutUint16(buf, uint16(int16(v)))
			return
		}
		o.PutUint16(buf, uint16(v))
	case 4:
		if isFloat[T]() {
			o.PutUint32(buf, math.Float32bits(float32(v)))
			return
		}
		if isSigned[T]() {
			o.PutUint32(buf, uint32(int32(v)))
			return
		}
		o.PutUint32(buf, uint32(v))
	default:
		if isFloat[T]() {
			o.PutUint64(buf, math.Float64bits(float64(v)))
			return
		}
		if isSigned[T]() {
			o.PutUint64(buf, uint64(int64(v)))
			return
		}
		o.PutUint64(buf, uint64(v))
	}
}
