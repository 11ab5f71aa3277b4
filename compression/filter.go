// Package compression implements the lossless OpenEXR chunk codecs used
// for stimulus images: RLE, ZIPS and ZIP.
//
// Both codecs first run the data through the OpenEXR pre-filter: bytes at
// even offsets are gathered into the first half of the buffer and bytes at
// odd offsets into the second half, then each byte is replaced by its
// difference from its predecessor biased by 128. For float pixel data this
// groups exponent bytes together and turns smooth gradients into long runs
// of similar values.
package compression

import "sync"

var filterPool = sync.Pool{
	New: func() any { return new([]byte) },
}

func getScratch(n int) *[]byte {
	p := filterPool.Get().(*[]byte)
	if cap(*p) < n {
		*p = make([]byte, n)
	}
	*p = (*p)[:n]
	return p
}

func putScratch(p *[]byte) { filterPool.Put(p) }

// encodeFilter writes the reordered, delta-encoded form of src into dst.
// dst must be len(src) bytes and must not overlap src.
func encodeFilter(dst, src []byte) {
	t1, t2 := 0, (len(src)+1)/2
	for i, b := range src {
		if i&1 == 0 {
			dst[t1] = b
			t1++
		} else {
			dst[t2] = b
			t2++
		}
	}

	if len(dst) == 0 {
		return
	}
	prev := dst[0]
	for i := 1; i < len(dst); i++ {
		cur := dst[i]
		dst[i] = cur - prev + 128
		prev = cur
	}
}

// decodeFilter reverses encodeFilter. tmp holds the filtered bytes and is
// overwritten; the original bytes are written to dst.
func decodeFilter(dst, tmp []byte) {
	for i := 1; i < len(tmp); i++ {
		tmp[i] = tmp[i-1] + tmp[i] - 128
	}

	t1, t2 := 0, (len(tmp)+1)/2
	for i := range dst {
		if i&1 == 0 {
			dst[i] = tmp[t1]
			t1++
		} else {
			dst[i] = tmp[t2]
			t2++
		}
	}
}
