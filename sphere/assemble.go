package sphere

import (
	"image"
	"image/color"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/mrjoshuak/go-spherestim/internal/parallel"
)

// Image is an equirectangular intensity image. Row i samples polar angle
// Grid.Phi[i] (row 0 nearest +Z), column j samples azimuth Grid.Theta[j].
type Image struct {
	Width  int
	Height int
	// Pix holds Height rows of Width values in row-major order.
	Pix []float64
	// Clamped counts texture lookups whose index had to be clamped back
	// into the box filter's valid range.
	Clamped int
}

// At returns the intensity at (row, col).
func (img *Image) At(row, col int) float64 {
	return img.Pix[row*img.Width+col]
}

// Row returns row i as a slice aliasing Pix.
func (img *Image) Row(i int) []float64 {
	return img.Pix[i*img.Width : (i+1)*img.Width]
}

// Dense returns the image as a Height x Width gonum matrix sharing Pix.
func (img *Image) Dense() *mat.Dense {
	return mat.NewDense(img.Height, img.Width, img.Pix)
}

// Float32 returns a row-major float32 copy of Pix.
func (img *Image) Float32() []float32 {
	out := make([]float32, len(img.Pix))
	for i, v := range img.Pix {
		out[i] = float32(v)
	}
	return out
}

// Gray16 quantizes the image to 16-bit grayscale, mapping [0,1] to
// [0,65535]. Values outside [0,1] saturate.
func (img *Image) Gray16() *image.Gray16 {
	out := image.NewGray16(image.Rect(0, 0, img.Width, img.Height))
	for y := 0; y < img.Height; y++ {
		for x, v := range img.Row(y) {
			out.SetGray16(x, y, color.Gray16{Y: quantize16(v)})
		}
	}
	return out
}

func quantize16(v float64) uint16 {
	if !(v > 0) {
		return 0
	}
	if v >= 1 {
		return math.MaxUint16
	}
	return uint16(math.Round(v * math.MaxUint16))
}

// ParallelConfig configures how Project spreads rows over goroutines.
type ParallelConfig = parallel.Config

// DefaultParallelConfig returns the default parallel configuration.
func DefaultParallelConfig() ParallelConfig {
	return parallel.DefaultConfig()
}

// SetParallelConfig sets the global parallel configuration used by
// Project and by the exr chunk encoder.
func SetParallelConfig(c ParallelConfig) {
	parallel.SetConfig(c)
}

// GetParallelConfig returns the current parallel configuration.
func GetParallelConfig() ParallelConfig {
	return parallel.GetConfig()
}

// Project renders faces onto an xPixels by yPixels equirectangular image.
//
// Every pixel is computed independently from its own grid sample and the
// read-only textures, so rows are processed concurrently. Either the full
// image is returned or an error and no image.
func Project(xPixels, yPixels int, faces *CubeFaces) (*Image, error) {
	grid, err := NewGrid(xPixels, yPixels)
	if err != nil {
		return nil, err
	}
	if faces == nil || faces.size < minTextureSize {
		return nil, ErrTextureSize
	}

	img := &Image{
		Width:  xPixels,
		Height: yPixels,
		Pix:    make([]float64, xPixels*yPixels),
	}
	clamped := make([]int, yPixels)
	size := faces.Size()

	parallel.For(yPixels, func(row int) {
		out := img.Row(row)
		for col := range out {
			s := Locate(grid.Direction(row, col), size)
			if s.Clamped {
				clamped[row]++
			}
			out[col] = faces.faces[s.Face].BoxMean(s.Row, s.Col)
		}
	})

	for _, n := range clamped {
		img.Clamped += n
	}
	return img, nil
}

// Generate draws a face set from p and projects it.
func Generate(xPixels, yPixels int, p Provider) (*Image, error) {
	if err := checkDims(xPixels, yPixels); err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNilProvider
	}
	faces, err := p.CubeFaces()
	if err != nil {
		return nil, err
	}
	return Project(xPixels, yPixels, faces)
}
