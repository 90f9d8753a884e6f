package utils

import (
	"math/bits"
	"sync"
)

const (
	minClassShift = 6  // 64 B
	maxClassShift = 20 // 1 MiB
)

// BufferSizeClass lists the pooled capacities. Builders double their buffer
// on growth, so every class is a power of two.
var BufferSizeClass = func() [maxClassShift - minClassShift + 1]int {
	var c [maxClassShift - minClassShift + 1]int
	for i := range c {
		c[i] = 1 << (minClassShift + i)
	}
	return c
}()

// MaxPooledSize is the largest capacity the pool keeps.
const MaxPooledSize = 1 << maxClassShift

// SizeIndex maps a request to the smallest class that fits it, -1 if none.
func SizeIndex(n int) int {
	if n <= 0 || n > MaxPooledSize {
		return -1
	}
	idx := bits.Len(uint(n-1)) - minClassShift
	if idx < 0 {
		return 0
	}
	return idx
}

// BufferPool recycles byte slices by power-of-two capacity class.
type BufferPool struct {
	pools [len(BufferSizeClass)]sync.Pool
}

func NewBufferPool() *BufferPool {
	var bp BufferPool
	for i, sz := range BufferSizeClass {
		size := sz
		bp.pools[i].New = func() any {
			b := make([]byte, size)
			return &b
		}
	}
	return &bp
}

// Acquire returns a slice of length n. Its contents are unspecified.
func (bp *BufferPool) Acquire(n int) []byte {
	idx := SizeIndex(n)
	if idx < 0 {
		return make([]byte, n)
	}
	bufPtr := bp.pools[idx].Get().(*[]byte)
	return (*bufPtr)[:n]
}

// AcquireZeroed is Acquire with the returned bytes cleared.
func (bp *BufferPool) AcquireZeroed(n int) []byte {
	buf := bp.Acquire(n)
	clear(buf)
	return buf
}

// Release returns buf to its class. Slices whose capacity is not exactly a
// class size are dropped for the GC.
func (bp *BufferPool) Release(buf []byte) {
	c := cap(buf)
	if c < BufferSizeClass[0] || c > MaxPooledSize || c&(c-1) != 0 {
		return
	}
	idx := bits.Len(uint(c)) - 1 - minClassShift
	bp.pools[idx].Put(&buf)
}
