// Package stimutil provides file-level operations for stimulus images:
// summary statistics, saving in several formats, loading, validation and
// comparison, and conversion of decoded pictures into cube-face textures.
//
// Example usage:
//
//	img, _ := sphere.Generate(360, 180, provider)
//	fmt.Println(stimutil.Summarize(img))
//	err := stimutil.SaveImage("stim.exr", img, stimutil.DefaultSaveOptions())
package stimutil

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/mrjoshuak/go-spherestim/sphere"
)

// Summary describes the value distribution of an image.
type Summary struct {
	Width  int
	Height int

	// Min, Max, Mean and StdDev cover the finite pixels only. They are
	// NaN when there are none.
	Min    float64
	Max    float64
	Mean   float64
	StdDev float64

	NonFinite int
	Clamped   int
}

// Summarize computes a Summary of img.
func Summarize(img *sphere.Image) Summary {
	s := Summary{Width: img.Width, Height: img.Height, Clamped: img.Clamped}

	vals := make([]float64, 0, len(img.Pix))
	for _, v := range img.Pix {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			s.NonFinite++
			continue
		}
		vals = append(vals, v)
	}
	if len(vals) == 0 {
		s.Min, s.Max, s.Mean, s.StdDev = math.NaN(), math.NaN(), math.NaN(), math.NaN()
		return s
	}

	s.Min, s.Max = floats.Min(vals), floats.Max(vals)
	if len(vals) == 1 {
		s.Mean = vals[0]
		return s
	}
	s.Mean, s.StdDev = stat.MeanStdDev(vals, nil)
	return s
}

// InUnitRange reports whether every pixel is finite and within [0, 1].
func (s Summary) InUnitRange() bool {
	return s.NonFinite == 0 && s.Min >= 0 && s.Max <= 1
}

func (s Summary) String() string {
	return fmt.Sprintf("%dx%d min=%.4f max=%.4f mean=%.4f std=%.4f clamped=%d",
		s.Width, s.Height, s.Min, s.Max, s.Mean, s.StdDev, s.Clamped)
}
