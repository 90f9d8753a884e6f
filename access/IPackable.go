package access

import (
	"github.com/quickwritereader/flatpack/types"
)

// Packable is implemented by object trees that can write themselves into a
// Builder. Pack must finish every child before starting its own object and
// returns the offset of the object it wrote: usually a table, but strings
// and vectors qualify too.
type Packable interface {
	Pack(b *Builder) types.UOffsetT
}

// PackRoot packs v as the root of b and returns the finished bytes.
func PackRoot(b *Builder, v Packable) []byte {
	b.Finish(v.Pack(b))
	return b.FinishedBytes()
}

// PackRootWithIdentifier is PackRoot plus a 4-byte buffer identifier.
func PackRootWithIdentifier(b *Builder, v Packable, fid string) []byte {
	b.FinishWithFileIdentifier(v.Pack(b), []byte(fid))
	return b.FinishedBytes()
}

// PackToBytes packs v with a pooled builder and returns a copy of the
// finished buffer, so nothing aliases pooled memory.
func PackToBytes(v Packable) []byte {
	b := GetBuilder()
	defer ReleaseBuilder(b)
	return append([]byte(nil), PackRoot(b, v)...)
}
