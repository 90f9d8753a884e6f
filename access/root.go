package access

import (
	"github.com/quickwritereader/flatpack/encode"
	"github.com/quickwritereader/flatpack/types"
	"github.com/quickwritereader/flatpack/utils"
)

// GetRoot returns a view of the root table of buf, whose uoffset sits at
// `offset` (0 for a plain buffer).
func GetRoot(buf []byte, offset types.UOffsetT) Table {
	return GetRootWith(encode.LittleEndian, buf, offset)
}

// GetRootWith is GetRoot for buffers written with a non-default byte order.
func GetRootWith(p encode.Packer, buf []byte, offset types.UOffsetT) Table {
	n := p.UOffsetT(buf[offset:])
	return Table{Bytes: buf, Pos: offset + n, Packer: p}
}

// GetSizePrefixedRoot skips the 4-byte length prefix before resolving the root.
func GetSizePrefixedRoot(buf []byte, offset types.UOffsetT) Table {
	return GetSizePrefixedRootWith(encode.LittleEndian, buf, offset)
}

// GetSizePrefixedRootWith is GetSizePrefixedRoot for buffers written with a
// non-default byte order.
func GetSizePrefixedRootWith(p encode.Packer, buf []byte, offset types.UOffsetT) Table {
	return GetRootWith(p, buf, offset+types.SizePrefixLength)
}

// GetSizePrefix reads the length prefix written by FinishSizePrefixed. It
// counts the bytes after the prefix.
func GetSizePrefix(buf []byte, offset types.UOffsetT) uint32 {
	return GetSizePrefixWith(encode.LittleEndian, buf, offset)
}

// GetSizePrefixWith reads the length prefix in the builder's byte order.
func GetSizePrefixWith(p encode.Packer, buf []byte, offset types.UOffsetT) uint32 {
	return p.Uint32(buf[offset:])
}

// GetBufferIdentifier returns the 4-byte tag following the root offset.
func GetBufferIdentifier(buf []byte) string {
	return string(buf[types.SizeUOffsetT : types.SizeUOffsetT+types.FileIdentifierLength])
}

// BufferHasIdentifier checks the tag of a plain buffer.
func BufferHasIdentifier(buf []byte, identifier string) bool {
	return hasIdentifier(buf, types.SizeUOffsetT, identifier)
}

// SizePrefixedBufferHasIdentifier checks the tag of a size-prefixed buffer.
func SizePrefixedBufferHasIdentifier(buf []byte, identifier string) bool {
	return hasIdentifier(buf, types.SizePrefixLength+types.SizeUOffsetT, identifier)
}

func hasIdentifier(buf []byte, at int, identifier string) bool {
	if len(identifier) != types.FileIdentifierLength || len(buf) < at {
		return false
	}
	return utils.HasPrefix(buf[at:], identifier)
}
