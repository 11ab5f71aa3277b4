package exr

import (
	"github.com/mrjoshuak/go-spherestim/internal/xdr"
)

// PixelType is the storage type of a channel.
type PixelType uint32

const (
	PixelTypeUint  PixelType = 0
	PixelTypeHalf  PixelType = 1
	PixelTypeFloat PixelType = 2
)

// Size returns the number of bytes per sample.
func (p PixelType) Size() int {
	if p == PixelTypeHalf {
		return 2
	}
	return 4
}

// String returns a string representation of the pixel type.
func (p PixelType) String() string {
	switch p {
	case PixelTypeUint:
		return "uint"
	case PixelTypeHalf:
		return "half"
	case PixelTypeFloat:
		return "float"
	default:
		return "unknown"
	}
}

// Compression defines the compression method for pixel data.
type Compression uint8

const (
	// CompressionNone stores uncompressed data.
	CompressionNone Compression = 0
	// CompressionRLE uses run-length encoding on single scanlines.
	CompressionRLE Compression = 1
	// CompressionZIPS uses zlib compression on single scanlines.
	CompressionZIPS Compression = 2
	// CompressionZIP uses zlib compression on 16 scanlines.
	CompressionZIP Compression = 3
)

// String returns a string representation of the compression type.
func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionRLE:
		return "rle"
	case CompressionZIPS:
		return "zips"
	case CompressionZIP:
		return "zip"
	default:
		return "unknown"
	}
}

// ParseCompression returns the compression named s, as printed by String.
func ParseCompression(s string) (Compression, bool) {
	for c := CompressionNone; c <= CompressionZIP; c++ {
		if c.String() == s {
			return c, true
		}
	}
	return 0, false
}

// ScanlinesPerChunk returns the number of scanlines grouped together
// for this compression type.
func (c Compression) ScanlinesPerChunk() int {
	if c == CompressionZIP {
		return 16
	}
	return 1
}

func (c Compression) supported() bool { return c <= CompressionZIP }

// LineOrder defines the order of scanlines in the file.
type LineOrder uint8

const (
	LineOrderIncreasing LineOrder = 0
	LineOrderDecreasing LineOrder = 1
	LineOrderRandom     LineOrder = 2
)

// EnvMap defines environment map types.
type EnvMap uint8

const (
	// EnvMapLatLong is a latitude-longitude environment map.
	EnvMapLatLong EnvMap = 0
	// EnvMapCube is a cube map.
	EnvMapCube EnvMap = 1
)

// Box2i is an integer rectangle with inclusive bounds.
type Box2i struct {
	XMin, YMin, XMax, YMax int32
}

// Width returns the number of columns in b.
func (b Box2i) Width() int { return int(b.XMax) - int(b.XMin) + 1 }

// Height returns the number of rows in b.
func (b Box2i) Height() int { return int(b.YMax) - int(b.YMin) + 1 }

// V2f is a 2D float vector.
type V2f struct {
	X, Y float32
}

func readBox2i(r *xdr.Reader) (Box2i, error) {
	var v [4]int32
	for i := range v {
		n, err := r.ReadInt32()
		if err != nil {
			return Box2i{}, err
		}
		v[i] = n
	}
	return Box2i{XMin: v[0], YMin: v[1], XMax: v[2], YMax: v[3]}, nil
}

func writeBox2i(w *xdr.BufferWriter, b Box2i) {
	w.WriteInt32(b.XMin)
	w.WriteInt32(b.YMin)
	w.WriteInt32(b.XMax)
	w.WriteInt32(b.YMax)
}

func readV2f(r *xdr.Reader) (V2f, error) {
	x, err := r.ReadFloat32()
	if err != nil {
		return V2f{}, err
	}
	y, err := r.ReadFloat32()
	if err != nil {
		return V2f{}, err
	}
	return V2f{X: x, Y: y}, nil
}

func writeV2f(w *xdr.BufferWriter, v V2f) {
	w.WriteFloat32(v.X)
	w.WriteFloat32(v.Y)
}
