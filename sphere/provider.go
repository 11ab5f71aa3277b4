package sphere

import (
	"math/rand/v2"
	"sync"

	"gonum.org/v1/gonum/mat"
)

// Provider supplies the six textures for one projection run.
type Provider interface {
	CubeFaces() (*CubeFaces, error)
}

// FixedFaces is a Provider that always returns the same six textures,
// indexed by Face.
type FixedFaces [NumFaces]mat.Matrix

// CubeFaces normalizes and returns the fixed textures.
func (f FixedFaces) CubeFaces() (*CubeFaces, error) {
	return NewCubeFaces(f)
}

// ImageFaces is like FixedFaces but holds textures in image row order,
// top row first. They are flipped the same way Library flips its draws.
type ImageFaces [NumFaces]mat.Matrix

// CubeFaces flips, normalizes and returns the textures.
func (f ImageFaces) CubeFaces() (*CubeFaces, error) {
	var faces [NumFaces]mat.Matrix
	for i, m := range f {
		if m != nil {
			faces[i] = flipRows(m)
		}
	}
	return NewCubeFaces(faces)
}

// Library draws cube faces at random from a collection of images.
//
// Images are in image row order, top row first. Each drawn image is
// flipped vertically so its top row ends up at the top of the cube face
// (row D-1). Draws are made with replacement, one per face in Face order,
// so the same seed always yields the same faces.
type Library struct {
	images []mat.Matrix

	mu  sync.Mutex
	rng *rand.Rand
}

// NewLibrary returns a Library over images seeded with seed.
func NewLibrary(images []mat.Matrix, seed uint64) *Library {
	return &Library{
		images: images,
		rng:    rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// Len returns the number of images in the library.
func (l *Library) Len() int { return len(l.images) }

// Draw returns the library indices for the next six faces.
func (l *Library) Draw() ([NumFaces]int, error) {
	var picks [NumFaces]int
	if len(l.images) == 0 {
		return picks, ErrEmptyLibrary
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range picks {
		picks[i] = l.rng.IntN(len(l.images))
	}
	return picks, nil
}

// CubeFaces draws six images and normalizes them into a face set.
func (l *Library) CubeFaces() (*CubeFaces, error) {
	picks, err := l.Draw()
	if err != nil {
		return nil, err
	}
	var faces [NumFaces]mat.Matrix
	for i, idx := range picks {
		faces[i] = flipRows(l.images[idx])
	}
	return NewCubeFaces(faces)
}

// flipRows returns m with its row order reversed.
func flipRows(m mat.Matrix) mat.Matrix {
	r, c := m.Dims()
	if r == 0 || c == 0 {
		return m
	}
	out := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			out.Set(r-1-i, j, m.At(i, j))
		}
	}
	return out
}
