package spherestim_test

import (
	"bytes"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/mrjoshuak/go-spherestim/exr"
	"github.com/mrjoshuak/go-spherestim/noise"
	"github.com/mrjoshuak/go-spherestim/sphere"
	"github.com/mrjoshuak/go-spherestim/stimutil"
)

// Example_generate draws cube faces from a noise library and projects them.
func Example_generate() {
	opts := noise.Options{Size: 32, Count: 8, Beta: 1.0}
	lib, err := opts.Library(7)
	if err != nil {
		fmt.Println("Error building library:", err)
		return
	}

	img, err := sphere.Generate(72, 36, sphere.NewLibrary(lib, 7))
	if err != nil {
		fmt.Println("Error generating:", err)
		return
	}

	s := stimutil.Summarize(img)
	fmt.Printf("%dx%d in [0,1]: %v\n", s.Width, s.Height, s.InUnitRange())
	// Output: 72x36 in [0,1]: true
}

// Example_fixedFaces projects six fixed textures. Each face is a horizontal
// ramp, so the projection keeps the full [0,1] range.
func Example_fixedFaces() {
	var faces sphere.FixedFaces
	for i := range faces {
		m := mat.NewDense(5, 5, nil)
		for r := 0; r < 5; r++ {
			for c := 0; c < 5; c++ {
				m.Set(r, c, float64(c))
			}
		}
		faces[i] = m
	}

	img, err := sphere.Generate(36, 18, faces)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Println(img.Width, img.Height, len(img.Pix))
	// Output: 36 18 648
}

// Example_writeEXR encodes a stimulus as a latlong OpenEXR image.
func Example_writeEXR() {
	h := exr.NewScanlineHeader(8, 4)
	h.PixelType = exr.PixelTypeHalf
	pix := make([]float32, 8*4)
	for i := range pix {
		pix[i] = float32(i) / float32(len(pix)-1)
	}

	var buf bytes.Buffer
	if err := exr.Write(&buf, h, pix); err != nil {
		fmt.Println("Error writing:", err)
		return
	}

	img, err := exr.Read(&buf)
	if err != nil {
		fmt.Println("Error reading:", err)
		return
	}
	fmt.Println(img.Header.Width, img.Header.Height, img.Header.PixelType, img.Header.Compression, img.Header.LatLong)
	// Output: 8 4 half zip true
}
