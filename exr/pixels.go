package exr

import (
	"encoding/binary"
	"math"

	"github.com/mrjoshuak/go-spherestim/half"
)

// packPixels stores src into dst as little-endian samples of type t.
func packPixels(dst []byte, src []float32, t PixelType) {
	if t == PixelTypeHalf {
		for i, v := range src {
			binary.LittleEndian.PutUint16(dst[2*i:], half.FromFloat32(v).Bits())
		}
		return
	}
	for i, v := range src {
		binary.LittleEndian.PutUint32(dst[4*i:], math.Float32bits(v))
	}
}

// unpackPixels is the inverse of packPixels.
func unpackPixels(dst []float32, src []byte, t PixelType) {
	if t == PixelTypeHalf {
		for i := range dst {
			dst[i] = half.FromBits(binary.LittleEndian.Uint16(src[2*i:])).Float32()
		}
		return
	}
	for i := range dst {
		dst[i] = math.Float32frombits(binary.LittleEndian.Uint32(src[4*i:]))
	}
}
