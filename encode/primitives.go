// Package encode reads and writes the fixed-width scalars of the format at
// arbitrary byte offsets. Packer carries the byte order; the zero Packer and
// LittleEndian are the wire default. Bools are one byte and have no order.
package encode

// GetBool decodes a one-byte bool; any non-zero byte is true.
func GetBool(buf []byte) bool {
	return buf[0] != 0
}

// WriteBool stores b as 0 or 1.
func WriteBool(buf []byte, b bool) {
	buf[0] = 0
	if b {
		buf[0] = 1
	}
}
