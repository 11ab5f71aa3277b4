package sphere

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Face identifies one of the six axis-aligned cube faces.
type Face uint8

const (
	// FacePosX is the +X face.
	FacePosX Face = iota
	// FaceNegX is the -X face.
	FaceNegX
	// FacePosY is the +Y face.
	FacePosY
	// FaceNegY is the -Y face.
	FaceNegY
	// FacePosZ is the +Z (top) face.
	FacePosZ
	// FaceNegZ is the -Z (bottom) face.
	FaceNegZ
)

// NumFaces is the number of cube faces.
const NumFaces = 6

// Faces lists every face in index order.
var Faces = [NumFaces]Face{FacePosX, FaceNegX, FacePosY, FaceNegY, FacePosZ, FaceNegZ}

// String returns the face name.
func (f Face) String() string {
	switch f {
	case FacePosX:
		return "+X"
	case FaceNegX:
		return "-X"
	case FacePosY:
		return "+Y"
	case FaceNegY:
		return "-Y"
	case FacePosZ:
		return "+Z"
	case FaceNegZ:
		return "-Z"
	default:
		return "unknown"
	}
}

// Axis returns the dominant axis of the face: 0 for X, 1 for Y, 2 for Z.
func (f Face) Axis() int {
	return int(f) / 2
}

// Classify returns the cube face a direction falls on.
//
// The dominant axis is chosen with strict comparisons in a fixed order:
// X wins only if it beats both Y and Z, otherwise Y wins if it beats Z,
// otherwise Z. Exact ties therefore fall through to the later axis, so
// a point with |x| == |y| > |z| lands on a Y face rather than an X face.
// Points on cube edges and corners are assigned asymmetrically as a result.
func Classify(p r3.Vec) Face {
	absX := math.Abs(p.X)
	absY := math.Abs(p.Y)
	absZ := math.Abs(p.Z)

	switch {
	case absX > absY && absX > absZ:
		if p.X > 0 {
			return FacePosX
		}
		return FaceNegX
	case absY > absZ:
		if p.Y > 0 {
			return FacePosY
		}
		return FaceNegY
	default:
		if p.Z > 0 {
			return FacePosZ
		}
		return FaceNegZ
	}
}
