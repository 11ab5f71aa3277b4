package exr

import "sync"

// BufferPool hands out reusable chunk buffers in a few size classes.
type BufferPool struct {
	pools []*sync.Pool
}

// bufferSizes are the pooled capacities. A ZIP chunk of a 360-pixel FLOAT
// image is 23 KB, a 4096-pixel one 256 KB.
var bufferSizes = []int{
	4 << 10,
	16 << 10,
	64 << 10,
	256 << 10,
	1 << 20,
	4 << 20,
}

var chunkPool = NewBufferPool()

// NewBufferPool creates an empty pool.
func NewBufferPool() *BufferPool {
	p := &BufferPool{pools: make([]*sync.Pool, len(bufferSizes))}
	for i, size := range bufferSizes {
		p.pools[i] = &sync.Pool{
			New: func() any {
				b := make([]byte, size)
				return &b
			},
		}
	}
	return p
}

func poolIndex(size int) int {
	for i, s := range bufferSizes {
		if size <= s {
			return i
		}
	}
	return -1
}

// Get returns a buffer of length size. Larger requests than the biggest
// class are allocated directly.
func (p *BufferPool) Get(size int) []byte {
	idx := poolIndex(size)
	if idx < 0 {
		return make([]byte, size)
	}
	b := p.pools[idx].Get().(*[]byte)
	return (*b)[:size]
}

// Put returns buf to the pool. Buffers that did not come from Get are
// dropped.
func (p *BufferPool) Put(buf []byte) {
	idx := poolIndex(cap(buf))
	if idx < 0 || bufferSizes[idx] != cap(buf) {
		return
	}
	buf = buf[:cap(buf)]
	p.pools[idx].Put(&buf)
}
