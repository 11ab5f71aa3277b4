package sphere

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Sample is the texture lookup for one point on the sphere.
type Sample struct {
	Face    Face
	Row     int
	Col     int
	Clamped bool // an index fell outside [1, D-2] and was pulled back in
}

// FaceCoords projects p along the ray from the cube centre onto face f and
// returns the in-face coordinates (u, v) in [-1, 1]. u selects the texture
// column and v the row:
//
//	+X/-X: u = y/|x|, v = z/|x|
//	+Y/-Y: u = x/|y|, v = z/|y|
//	+Z/-Z: u = x/|z|, v = y/|z|
func FaceCoords(f Face, p r3.Vec) (u, v float64) {
	switch f.Axis() {
	case 0:
		d := math.Abs(p.X)
		return p.Y / d, p.Z / d
	case 1:
		d := math.Abs(p.Y)
		return p.X / d, p.Z / d
	default:
		d := math.Abs(p.Z)
		return p.X / d, p.Y / d
	}
}

// PixelIndex maps an in-face coordinate u in [-1, 1] to a texture index
// for a texture of side size, leaving a one-pixel margin on each side for
// the 3x3 box filter:
//
//	idx = ceil((u+1)/2 * (size-2))
//
// The result is clamped into [1, size-2]; clamped reports whether that was
// necessary (u at exactly -1, or rounding pushing u past 1).
func PixelIndex(u float64, size int) (idx int, clamped bool) {
	hi := size - 2
	f := math.Ceil((u + 1) / 2 * float64(hi))
	switch {
	case math.IsNaN(f) || f < 1:
		return 1, true
	case f > float64(hi):
		return hi, true
	}
	return int(f), false
}

// Locate classifies p and returns the centre pixel of its box filter on a
// texture of side size.
func Locate(p r3.Vec, size int) Sample {
	f := Classify(p)
	u, v := FaceCoords(f, p)
	col, cc := PixelIndex(u, size)
	row, rc := PixelIndex(v, size)
	return Sample{Face: f, Row: row, Col: col, Clamped: cc || rc}
}
