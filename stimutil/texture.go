package stimutil

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/mrjoshuak/go-jpeg2000"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
	"gonum.org/v1/gonum/mat"
)

// ErrEmptyImage is returned when a source picture has no pixels.
var ErrEmptyImage = errors.New("stimutil: empty source image")

// LoadPicture decodes a PNG, JPEG, BMP, TIFF, WebP or JPEG 2000
// codestream picture from path.
func LoadPicture(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".j2k", ".j2c":
		img, err := jpeg2000.Decode(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return img, nil
	}
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

// TextureFromImage resamples src to size x size with bilinear filtering
// and returns its gray level in [0, 1], row 0 at the top. Gray levels are
// the gamma-encoded values stored in the picture.
func TextureFromImage(src image.Image, size int) (*mat.Dense, error) {
	return texture(src, size, func(c color.RGBA64) float64 {
		return float64(color.Gray16Model.Convert(c).(color.Gray16).Y) / 0xFFFF
	})
}

// LinearTextureFromImage is like TextureFromImage but returns relative
// luminance (CIE Y) in linear light.
func LinearTextureFromImage(src image.Image, size int) (*mat.Dense, error) {
	return texture(src, size, func(c color.RGBA64) float64 {
		col, ok := colorful.MakeColor(c)
		if !ok {
			return 0
		}
		_, y, _ := col.Xyz()
		return y
	})
}

func texture(src image.Image, size int, level func(color.RGBA64) float64) (*mat.Dense, error) {
	if size <= 0 {
		return nil, fmt.Errorf("stimutil: texture size %d", size)
	}
	if src.Bounds().Empty() {
		return nil, ErrEmptyImage
	}

	dst := image.NewRGBA64(image.Rect(0, 0, size, size))
	draw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	m := mat.NewDense(size, size, nil)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			m.Set(y, x, level(dst.RGBA64At(x, y)))
		}
	}
	return m, nil
}
