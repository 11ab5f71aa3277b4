package stimutil

import (
	"errors"
	"fmt"
	"image/png"
	"io"
	"math/bits"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mrjoshuak/go-jpeg2000"

	"github.com/mrjoshuak/go-spherestim/exr"
	"github.com/mrjoshuak/go-spherestim/sphere"
	"github.com/mrjoshuak/go-spherestim/stimmeta"
)

// ErrUnsupportedFormat is returned for output paths whose extension names
// no known format.
var ErrUnsupportedFormat = errors.New("stimutil: unsupported output format")

// Format is an output file format.
type Format string

const (
	// FormatEXR is a single-channel OpenEXR latlong environment map.
	FormatEXR Format = "exr"
	// FormatPNG is a 16-bit grayscale PNG.
	FormatPNG Format = "png"
	// FormatJ2K is a lossless 16-bit JPEG 2000 codestream.
	FormatJ2K Format = "j2k"
)

// FormatFromPath picks the format from the extension of path.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".exr":
		return FormatEXR, nil
	case ".png":
		return FormatPNG, nil
	case ".j2k", ".j2c":
		return FormatJ2K, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
}

// SaveOptions configures how images are written.
type SaveOptions struct {
	// Half stores EXR pixels as 16-bit floats instead of 32-bit.
	Half bool
	// Compression is the EXR chunk compression.
	Compression exr.Compression
	// Comments is stored in the EXR comments attribute.
	Comments string
	// Owner and CapDate are stored when set.
	Owner   string
	CapDate time.Time
	// Provenance, when set, is stored along with the image's clamp count.
	Provenance *stimmeta.Provenance
}

// DefaultSaveOptions returns FLOAT pixels with ZIP compression.
func DefaultSaveOptions() SaveOptions {
	return SaveOptions{Compression: exr.CompressionZIP}
}

// Encode writes img to w in format f. PNG and JPEG 2000 quantize the
// [0,1] range to 16 bits.
func Encode(w io.Writer, f Format, img *sphere.Image, opts SaveOptions) error {
	switch f {
	case FormatEXR:
		h := exr.NewScanlineHeader(img.Width, img.Height)
		h.Compression = opts.Compression
		h.Comments = opts.Comments
		if opts.Half {
			h.PixelType = exr.PixelTypeHalf
		}
		if opts.Owner != "" {
			stimmeta.SetOwner(h, opts.Owner)
		}
		if !opts.CapDate.IsZero() {
			stimmeta.SetCapDate(h, opts.CapDate)
		}
		if opts.Provenance != nil {
			p := *opts.Provenance
			p.Clamped = img.Clamped
			stimmeta.SetProvenance(h, p)
		}
		return exr.Write(w, h, img.Float32())

	case FormatPNG:
		enc := png.Encoder{CompressionLevel: png.BestCompression}
		return enc.Encode(w, img.Gray16())

	case FormatJ2K:
		return jpeg2000.Encode(w, img.Gray16(), &jpeg2000.Options{
			Format:         jpeg2000.FormatJ2K,
			Lossless:       true,
			NumResolutions: numResolutions(img.Width, img.Height),
		})
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, string(f))
}

// numResolutions returns the wavelet resolution count for a w x h image:
// up to five decomposition levels, fewer for images too small to halve.
func numResolutions(w, h int) int {
	levels := bits.Len(uint(min(w, h))) - 1
	return min(levels, 5) + 1
}

// SaveImage writes img to path in the format named by its extension.
// If encoding fails the partial file is removed.
func SaveImage(path string, img *sphere.Image, opts SaveOptions) error {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Encode(out, f, img, opts); err != nil {
		out.Close()
		os.Remove(path)
		return err
	}
	return out.Close()
}

// LoadEXR reads a stimulus written by SaveImage back into an Image.
func LoadEXR(path string) (*sphere.Image, error) {
	f, err := exr.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return fromEXR(f), nil
}

func fromEXR(f *exr.Image) *sphere.Image {
	img := &sphere.Image{
		Width:  f.Header.Width,
		Height: f.Header.Height,
		Pix:    make([]float64, len(f.Pix)),
	}
	for i, v := range f.Pix {
		img.Pix[i] = float64(v)
	}
	return img
}
