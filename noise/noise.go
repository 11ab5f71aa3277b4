// Package noise synthesizes grayscale textures with natural-image
// statistics: random-phase noise whose amplitude spectrum falls as 1/f^β.
//
// With β near 1 the fields have the scale-invariant second-order
// statistics of natural scenes and can stand in for a photographic
// texture library when projecting stimuli with package sphere.
package noise

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"
	"math/rand/v2"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/mat"

	"github.com/mrjoshuak/go-spherestim/internal/parallel"
)

// ErrInvalidOptions is returned for library options that cannot produce
// any texture.
var ErrInvalidOptions = errors.New("noise: invalid options")

// Options configures a procedural texture library.
type Options struct {
	// Size is the side length of every texture.
	Size int
	// Count is the number of textures in the library.
	Count int
	// Beta is the spectral falloff exponent.
	Beta float64
}

// DefaultOptions returns 32 textures of 302x302 with β = 1.
func DefaultOptions() Options {
	return Options{Size: 302, Count: 32, Beta: 1.0}
}

// Validate reports whether o describes a usable library.
func (o Options) Validate() error {
	switch {
	case o.Size < 3:
		return fmt.Errorf("%w: size %d is smaller than 3", ErrInvalidOptions, o.Size)
	case o.Count < 1:
		return fmt.Errorf("%w: count %d", ErrInvalidOptions, o.Count)
	case math.IsNaN(o.Beta) || math.IsInf(o.Beta, 0):
		return fmt.Errorf("%w: beta %v", ErrInvalidOptions, o.Beta)
	}
	return nil
}

// Library generates the textures described by o from seed.
func (o Options) Library(seed uint64) ([]mat.Matrix, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	return Library(o.Count, o.Size, o.Beta, seed), nil
}

// Library returns n independent size x size fields. Texture i is drawn
// from its own generator derived from (seed, i), so the result does not
// depend on how generation is scheduled.
func Library(n, size int, beta float64, seed uint64) []mat.Matrix {
	out := make([]mat.Matrix, n)
	parallel.For(n, func(i int) {
		rng := rand.New(rand.NewPCG(seed, uint64(i)))
		out[i] = Field(size, beta, rng)
	})
	return out
}

// Field returns a size x size random-phase field with amplitude spectrum
// |F(f)| = f^-β. The DC term is zero. size must be positive.
func Field(size int, beta float64, rng *rand.Rand) *mat.Dense {
	coeffs := make([]complex128, size*size)
	for ky := 0; ky < size; ky++ {
		fy := float64(fold(ky, size))
		for kx := 0; kx < size; kx++ {
			fx := float64(fold(kx, size))
			f := math.Hypot(fx, fy)
			if f == 0 {
				continue
			}
			amp := math.Pow(f, -beta)
			coeffs[ky*size+kx] = cmplx.Rect(amp, 2*math.Pi*rng.Float64())
		}
	}

	inverse2D(coeffs, size)

	data := make([]float64, size*size)
	for i, c := range coeffs {
		data[i] = real(c)
	}
	return mat.NewDense(size, size, data)
}

// fold maps FFT bin k to its signed frequency.
func fold(k, n int) int {
	if k > n/2 {
		return k - n
	}
	return k
}

// inverse2D applies an unnormalized inverse DFT to the rows and then the
// columns of the n x n row-major grid in place.
func inverse2D(grid []complex128, n int) {
	fft := fourier.NewCmplxFFT(n)
	in := make([]complex128, n)
	out := make([]complex128, n)

	for r := 0; r < n; r++ {
		row := grid[r*n : (r+1)*n]
		copy(in, row)
		fft.Sequence(out, in)
		copy(row, out)
	}
	for c := 0; c < n; c++ {
		for r := 0; r < n; r++ {
			in[r] = grid[r*n+c]
		}
		fft.Sequence(out, in)
		for r := 0; r < n; r++ {
			grid[r*n+c] = out[r]
		}
	}
}
