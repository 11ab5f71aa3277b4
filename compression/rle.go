package compression

import "errors"

// ErrRLECorrupted is returned when RLE chunk data does not expand to the
// expected size.
var ErrRLECorrupted = errors.New("compression: corrupted RLE data")

const (
	rleMinRun = 3
	rleMaxRun = 127
)

// RLECompress filters src and run-length encodes it. A non-negative count
// byte n is followed by one value repeated n+1 times; a negative count -n
// is followed by n literal bytes. Empty input yields nil.
func RLECompress(src []byte) []byte {
	if len(src) == 0 {
		return nil
	}

	scratch := getScratch(len(src))
	defer putScratch(scratch)
	in := *scratch
	encodeFilter(in, src)

	out := make([]byte, 0, len(in)+len(in)/rleMaxRun+1)
	start := 0
	for start < len(in) {
		end := start + 1
		for end < len(in) && in[end] == in[start] && end-start < rleMaxRun+1 {
			end++
		}

		if end-start >= rleMinRun {
			out = append(out, byte(end-start-1), in[start])
			start = end
			continue
		}

		// Extend the literal until a run of rleMinRun begins.
		for end < len(in) &&
			(end+2 >= len(in) || in[end] != in[end+1] || in[end] != in[end+2]) &&
			end-start < rleMaxRun {
			end++
		}
		out = append(out, byte(int8(start-end)))
		out = append(out, in[start:end]...)
		start = end
	}
	return out
}

// RLEDecompressTo expands src and reverses the filter into dst, which must
// be exactly the uncompressed size.
func RLEDecompressTo(dst, src []byte) error {
	scratch := getScratch(len(dst))
	defer putScratch(scratch)
	tmp := *scratch

	pos := 0
	for i := 0; i < len(src); {
		count := int(int8(src[i]))
		i++
		if count < 0 {
			n := -count
			if i+n > len(src) || pos+n > len(tmp) {
				return ErrRLECorrupted
			}
			copy(tmp[pos:], src[i:i+n])
			pos += n
			i += n
			continue
		}

		n := count + 1
		if i >= len(src) || pos+n > len(tmp) {
			return ErrRLECorrupted
		}
		v := src[i]
		i++
		for end := pos + n; pos < end; pos++ {
			tmp[pos] = v
		}
	}
	if pos != len(tmp) {
		return ErrRLECorrupted
	}

	decodeFilter(dst, tmp)
	return nil
}
