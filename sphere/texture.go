// Package sphere projects six cube-face textures onto an equirectangular
// spherical image.
//
// The cube is inscribed in the unit sphere and viewed from its centre. Each
// output pixel is a point on the sphere; the ray through that point picks
// a cube face by dominant axis, the two remaining coordinates give a
// position on the face, and a 3x3 box average of the face texture around
// that position becomes the pixel value.
//
// Example usage:
//
//	faces, _ := sphere.NewCubeFaces(textures)
//	img, _ := sphere.Project(360, 180, faces)
//	fmt.Println(img.Width, img.Height)
package sphere

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// minTextureSize is the smallest side that leaves one interior pixel once
// the 1-pixel box filter margin is reserved on each side.
const minTextureSize = 3

// Texture is an immutable square intensity map normalized to [0,1].
// Row 0 is the bottom of the face, column 0 its left edge.
type Texture struct {
	size int
	pix  []float64
}

// NewTexture copies m and min-max normalizes it. The returned error is
// ErrTextureSize, ErrNonFiniteTexture, or a *DegenerateTextureError whose
// Face is left at its zero value.
func NewTexture(m mat.Matrix) (*Texture, error) {
	r, c := m.Dims()
	if r != c || r < minTextureSize {
		return nil, fmt.Errorf("%w: got %dx%d", ErrTextureSize, r, c)
	}

	pix := make([]float64, r*c)
	for i := 0; i < r; i++ {
		row := pix[i*c : (i+1)*c]
		for j := range row {
			row[j] = m.At(i, j)
		}
	}
	if err := Normalize(pix); err != nil {
		return nil, err
	}
	return &Texture{size: r, pix: pix}, nil
}

// Normalize rescales pix in place so its minimum becomes 0 and its
// maximum 1. Already-normalized data is left bit-for-bit unchanged.
func Normalize(pix []float64) error {
	if len(pix) == 0 {
		return ErrTextureSize
	}
	for _, v := range pix {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return ErrNonFiniteTexture
		}
	}

	lo, hi := floats.Min(pix), floats.Max(pix)
	if hi == lo {
		return &DegenerateTextureError{Value: lo}
	}
	if lo == 0 && hi == 1 {
		return nil
	}
	floats.AddConst(-lo, pix)
	span := hi - lo
	for i := range pix {
		pix[i] /= span
	}
	return nil
}

// Size returns the side length D.
func (t *Texture) Size() int { return t.size }

// At returns the normalized intensity at (row, col).
func (t *Texture) At(row, col int) float64 {
	return t.pix[row*t.size+col]
}

// Dense returns a copy of the texture as a gonum matrix.
func (t *Texture) Dense() *mat.Dense {
	data := make([]float64, len(t.pix))
	copy(data, t.pix)
	return mat.NewDense(t.size, t.size, data)
}

// CubeFaces is a complete set of six textures of equal size.
type CubeFaces struct {
	faces [NumFaces]*Texture
	size  int
}

// NewCubeFaces normalizes each face independently and checks that all six
// share one size. A constant face is reported as a *DegenerateTextureError
// naming that face.
func NewCubeFaces(faces [NumFaces]mat.Matrix) (*CubeFaces, error) {
	cf := &CubeFaces{}
	for _, f := range Faces {
		m := faces[f]
		if m == nil {
			return nil, fmt.Errorf("%w: %s texture is nil", ErrTextureSize, f)
		}
		t, err := NewTexture(m)
		if err != nil {
			var de *DegenerateTextureError
			if errors.As(err, &de) {
				de.Face = f
				return nil, de
			}
			return nil, fmt.Errorf("%s texture: %w", f, err)
		}
		if cf.size == 0 {
			cf.size = t.size
		} else if t.size != cf.size {
			return nil, fmt.Errorf("%w: %s texture is %d, want %d", ErrTextureSize, f, t.size, cf.size)
		}
		cf.faces[f] = t
	}
	return cf, nil
}

// Face returns the texture painted on face f.
func (cf *CubeFaces) Face(f Face) *Texture { return cf.faces[f] }

// Size returns the common texture side length D.
func (cf *CubeFaces) Size() int { return cf.size }
