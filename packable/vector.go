// Package packable has access.Packable values for the out-of-line objects
// that are not tables: strings, byte vectors and vectors of scalars, strings
// or tables. Each Pack writes its own children before the vector itself.
package packable

import (
	"github.com/quickwritereader/flatpack/access"
	"github.com/quickwritereader/flatpack/encode"
	"github.com/quickwritereader/flatpack/types"
)

// String packs a null-terminated string.
type String string

func (s String) Pack(b *access.Builder) types.UOffsetT {
	return b.CreateString(string(s))
}

// Bytes packs a ubyte vector without terminator.
type Bytes []byte

func (v Bytes) Pack(b *access.Builder) types.UOffsetT {
	return b.CreateByteVector(v)
}

// Scalars packs a vector of fixed-width numbers aligned to their width.
type Scalars[T encode.Number] []T

func (v Scalars[T]) Pack(b *access.Builder) types.UOffsetT {
	w := encode.SizeOf[T]()
	b.StartVector(w, len(v), w)
	for i := len(v) - 1; i >= 0; i-- {
		access.Prepend(b, v[i])
	}
	return b.EndVector(len(v))
}

// Bools packs a vector of one-byte booleans.
type Bools []bool

func (v Bools) Pack(b *access.Builder) types.UOffsetT {
	b.StartVector(types.SizeBool, len(v), types.SizeBool)
	for i := len(v) - 1; i >= 0; i-- {
		b.PrependBool(v[i])
	}
	return b.EndVector(len(v))
}

// Strings packs every string, then the vector of their offsets.
type Strings []string

func (v Strings) Pack(b *access.Builder) types.UOffsetT {
	offs := make([]types.UOffsetT, len(v))
	for i, s := range v {
		offs[i] = b.CreateString(s)
	}
	return Offsets(b, offs)
}

// Tables packs every element, then the vector of their offsets.
type Tables []access.Packable

func (v Tables) Pack(b *access.Builder) types.UOffsetT {
	return Offsets(b, PackAll(b, v...))
}

// PackAll packs items in order and returns their offsets.
func PackAll(b *access.Builder, items ...access.Packable) []types.UOffsetT {
	offs := make([]types.UOffsetT, len(items))
	for i, it := range items {
		offs[i] = it.Pack(b)
	}
	return offs
}

// Offsets writes a vector of references to objects that are already
// finished.
func Offsets(b *access.Builder, offs []types.UOffsetT) types.UOffsetT {
	b.StartVector(types.SizeUOffsetT, len(offs), types.SizeUOffsetT)
	for i := len(offs) - 1; i >= 0; i-- {
		b.PrependUOffsetT(offs[i])
	}
	return b.EndVector(len(offs))
}
