package types

import (
	"errors"
	"fmt"
)

// ErrUnknownKind is returned for type names outside the supported set.
var ErrUnknownKind = errors.New("unknown kind")

// UOffsetT is an unsigned offset relative to the location it is stored at.
// Used for references to tables, vectors and strings, and for the root.
type UOffsetT uint32

// SOffsetT is the signed offset from a table to its vtable.
type SOffsetT int32

// VOffsetT is a vtable entry: a field offset relative to the table start.
type VOffsetT uint16

const (
	SizeUint8   = 1
	SizeUint16  = 2
	SizeUint32  = 4
	SizeUint64  = 8
	SizeInt8    = 1
	SizeInt16   = 2
	SizeInt32   = 4
	SizeInt64   = 8
	SizeFloat32 = 4
	SizeFloat64 = 8
	SizeByte    = 1
	SizeBool    = 1

	SizeSOffsetT = 4
	SizeUOffsetT = 4
	SizeVOffsetT = 2
)

const (
	// VtableMetadataFields is the number of leading vtable entries that are
	// not field offsets: the vtable byte size and the table byte size.
	VtableMetadataFields = 2
	// FileIdentifierLength is the fixed width of a buffer identifier tag.
	FileIdentifierLength = 4
	// SizePrefixLength is the width of the optional leading buffer size.
	SizePrefixLength = SizeUOffsetT
	// MaxBufferSize is the hard limit on a builder's backing slice.
	MaxBufferSize = 1 << 31
)

// VtableSlot converts a field index into the byte offset of its vtable entry.
func VtableSlot(field int) VOffsetT {
	return VOffsetT((VtableMetadataFields + field) * SizeVOffsetT)
}

// FieldIndex is the inverse of VtableSlot.
func FieldIndex(slot VOffsetT) int {
	return int(slot)/SizeVOffsetT - VtableMetadataFields
}

// Kind names the storage class of a table field
type Kind uint8

const (
	KindInvalid Kind = iota
	KindBool
	KindInt8
	KindUint8
	KindInt16
	KindUint16
	KindInt32
	KindUint32
	KindInt64
	KindUint64
	KindFloat32
	KindFloat64
	KindString
	KindTable  // uoffset to a nested table
	KindStruct // fixed-size, stored inline
	KindVector // uoffset to a length-prefixed vector
)

var kindNames = [...]string{
	KindInvalid: "invalid",
	KindBool:    "bool",
	KindInt8:    "int8",
	KindUint8:   "uint8",
	KindInt16:   "int16",
	KindUint16:  "uint16",
	KindInt32:   "int32",
	KindUint32:  "uint32",
	KindInt64:   "int64",
	KindUint64:  "uint64",
	KindFloat32: "float32",
	KindFloat64: "float64",
	KindString:  "string",
	KindTable:   "table",
	KindStruct:  "struct",
	KindVector:  "vector",
}

// String returns the schema-language spelling of the kind
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// ParseKind maps a schema-language type name back to a Kind.
// The usual aliases (int, uint, short, long, float, double, byte, ubyte) are accepted.
func ParseKind(name string) (Kind, bool) {
	switch name {
	case "bool":
		return KindBool, true
	case "int8", "byte":
		return KindInt8, true
	case "uint8", "ubyte":
		return KindUint8, true
	case "int16", "short":
		return KindInt16, true
	case "uint16", "ushort":
		return KindUint16, true
	case "int32", "int":
		return KindInt32, true
	case "uint32", "uint":
		return KindUint32, true
	case "int64", "long":
		return KindInt64, true
	case "uint64", "ulong":
		return KindUint64, true
	case "float32", "float":
		return KindFloat32, true
	case "float64", "double":
		return KindFloat64, true
	case "string":
		return KindString, true
	case "table":
		return KindTable, true
	case "struct":
		return KindStruct, true
	case "vector":
		return KindVector, true
	}
	return KindInvalid, false
}

// IsScalar reports whether values of the kind live inline as a fixed-width number.
func (k Kind) IsScalar() bool {
	return k >= KindBool && k <= KindFloat64
}

// IsOffset reports whether the field stores a uoffset to an out-of-line object.
func (k Kind) IsOffset() bool {
	return k == KindString || k == KindTable || k == KindVector
}

// Width is the inline byte size of a field of this kind.
// Structs have no fixed width at the kind level and report 0.
func (k Kind) Width() int {
	switch k {
	case KindBool, KindInt8, KindUint8:
		return 1
	case KindInt16, KindUint16:
		return 2
	case KindInt32, KindUint32, KindFloat32:
		return 4
	case KindInt64, KindUint64, KindFloat64:
		return 8
	case KindString, KindTable, KindVector:
		return SizeUOffsetT
	}
	return 0
}

// MarshalText writes the schema-language spelling.
func (k Kind) MarshalText() ([]byte, error) {
	if k == KindInvalid || int(k) >= len(kindNames) {
		return nil, fmt.Errorf("marshal kind: %w: %d", ErrUnknownKind, uint8(k))
	}
	return []byte(kindNames[k]), nil
}

// UnmarshalText accepts any name ParseKind does.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, ok := ParseKind(string(text))
	if !ok {
		return fmt.Errorf("unmarshal kind: %w: %q", ErrUnknownKind, text)
	}
	*k = parsed
	return nil
}
