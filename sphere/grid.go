package sphere

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Grid holds the pixel-centre angles of an equirectangular image.
//
// Theta is the azimuth of each column, Phi the polar angle (elevation
// measured from +Z) of each row. Both are bin midpoints, so no sample sits
// on a pole or on the 0/2pi seam.
type Grid struct {
	Theta []float64
	Phi   []float64

	cosTheta, sinTheta []float64
	cosPhi, sinPhi     []float64
}

// NewGrid builds the sampling grid for an image of xPixels columns and
// yPixels rows.
func NewGrid(xPixels, yPixels int) (*Grid, error) {
	if err := checkDims(xPixels, yPixels); err != nil {
		return nil, err
	}

	g := &Grid{
		Theta: binCenters(xPixels, 2*math.Pi),
		Phi:   binCenters(yPixels, math.Pi),
	}

	g.cosTheta = make([]float64, xPixels)
	g.sinTheta = make([]float64, xPixels)
	for j, t := range g.Theta {
		g.sinTheta[j], g.cosTheta[j] = math.Sincos(t)
	}
	g.cosPhi = make([]float64, yPixels)
	g.sinPhi = make([]float64, yPixels)
	for i, p := range g.Phi {
		g.sinPhi[i], g.cosPhi[i] = math.Sincos(p)
	}
	return g, nil
}

func checkDims(xPixels, yPixels int) error {
	if xPixels <= 0 {
		return fmt.Errorf("%w: x pixels = %d", ErrInvalidDimension, xPixels)
	}
	if yPixels <= 0 {
		return fmt.Errorf("%w: y pixels = %d", ErrInvalidDimension, yPixels)
	}
	return nil
}

// binCenters returns the midpoints of n equal bins spanning [0, span].
func binCenters(n int, span float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		lo := span * float64(i) / float64(n)
		hi := span * float64(i+1) / float64(n)
		out[i] = (lo + hi) / 2
	}
	return out
}

// Width returns the number of columns.
func (g *Grid) Width() int { return len(g.Theta) }

// Height returns the number of rows.
func (g *Grid) Height() int { return len(g.Phi) }

// Direction returns the unit-sphere point sampled by pixel (row, col).
func (g *Grid) Direction(row, col int) r3.Vec {
	return r3.Vec{
		X: g.cosTheta[col] * g.sinPhi[row],
		Y: g.sinTheta[col] * g.sinPhi[row],
		Z: g.cosPhi[row],
	}
}
