// spherestim synthesizes equirectangular stimulus images by projecting
// six cube-face textures onto the sphere.
//
// Faces come either from a procedurally generated 1/f^β noise library,
// drawn at random with replacement, or from six picture files given with
// -faces in +X,-X,+Y,-Y,+Z,-Z order.
//
// Usage:
//
//	spherestim [options] outfile
//
// The output format follows the extension of outfile: .exr, .png, .j2k.
//
// Options:
//
//	-x <n>        output width in pixels (default 360)
//	-y <n>        output height in pixels (default 180)
//	-size <n>     noise texture side length (default 302)
//	-n <n>        number of noise textures in the library (default 32)
//	-beta <b>     noise spectral falloff exponent (default 1.0)
//	-seed <n>     random seed (default 0)
//	-faces <list> comma-separated face pictures instead of noise
//	-linear       read face pictures as linear luminance
//	-j <n>        worker goroutines, 0 for all CPUs
//	-half         store EXR pixels as 16-bit floats
//	-c <type>     EXR compression (none, rle, zips, zip) - default: zip
//	-owner <s>    owner recorded in the EXR header
//	-q            do not print the image summary
//	-version      show version information
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/mrjoshuak/go-spherestim/exr"
	"github.com/mrjoshuak/go-spherestim/noise"
	"github.com/mrjoshuak/go-spherestim/sphere"
	"github.com/mrjoshuak/go-spherestim/stimmeta"
	"github.com/mrjoshuak/go-spherestim/stimutil"
)

const version = "1.0.0"

type config struct {
	width, height int
	noise         noise.Options
	seed          uint64
	faces         []string
	linear        bool
	save          stimutil.SaveOptions
}

func main() {
	defaults := noise.DefaultOptions()

	width := flag.Int("x", 360, "output width in pixels")
	height := flag.Int("y", 180, "output height in pixels")
	size := flag.Int("size", defaults.Size, "noise texture side length")
	count := flag.Int("n", defaults.Count, "number of noise textures in the library")
	beta := flag.Float64("beta", defaults.Beta, "noise spectral falloff exponent")
	seed := flag.Uint64("seed", 0, "random seed")
	faces := flag.String("faces", "", "comma-separated face pictures in +X,-X,+Y,-Y,+Z,-Z order")
	linear := flag.Bool("linear", false, "read face pictures as linear luminance")
	workers := flag.Int("j", 0, "worker goroutines, 0 for all CPUs")
	half := flag.Bool("half", false, "store EXR pixels as 16-bit floats")
	compressionStr := flag.String("c", "zip", "EXR compression (none, rle, zips, zip)")
	owner := flag.String("owner", "", "owner recorded in the EXR header")
	quiet := flag.Bool("q", false, "do not print the image summary")
	showVersion := flag.Bool("version", false, "show version information")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: spherestim [options] outfile\n\n")
		fmt.Fprintf(os.Stderr, "Synthesize an equirectangular stimulus by projecting six cube-face\n")
		fmt.Fprintf(os.Stderr, "textures onto the sphere. The output format follows the extension\n")
		fmt.Fprintf(os.Stderr, "of outfile: .exr, .png or .j2k.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("spherestim version %s\n", version)
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) != 1 {
		flag.Usage()
		os.Exit(2)
	}

	compression, ok := exr.ParseCompression(*compressionStr)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: invalid compression type: %s\n", *compressionStr)
		fmt.Fprintf(os.Stderr, "Valid options are: none, rle, zips, zip\n")
		os.Exit(2)
	}

	cfg := config{
		width:  *width,
		height: *height,
		noise:  noise.Options{Size: *size, Count: *count, Beta: *beta},
		seed:   *seed,
		linear: *linear,
		save: stimutil.SaveOptions{
			Half:        *half,
			Compression: compression,
			Comments:    fmt.Sprintf("spherestim %s", version),
			Owner:       *owner,
			CapDate:     time.Now(),
		},
	}
	if *faces != "" {
		cfg.faces = strings.Split(*faces, ",")
		if len(cfg.faces) != sphere.NumFaces {
			fmt.Fprintf(os.Stderr, "Error: -faces needs %d pictures, got %d\n", sphere.NumFaces, len(cfg.faces))
			os.Exit(2)
		}
	}

	pc := sphere.GetParallelConfig()
	pc.NumWorkers = *workers
	sphere.SetParallelConfig(pc)

	img, err := run(args[0], cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if !*quiet {
		fmt.Printf("%s: %s\n", args[0], stimutil.Summarize(img))
	}
}

func run(outFile string, cfg config) (*sphere.Image, error) {
	if _, err := stimutil.FormatFromPath(outFile); err != nil {
		return nil, err
	}

	provider, meta, err := newProvider(cfg)
	if err != nil {
		return nil, err
	}
	cfg.save.Provenance = meta
	img, err := sphere.Generate(cfg.width, cfg.height, provider)
	if err != nil {
		return nil, err
	}
	if err := stimutil.SaveImage(outFile, img, cfg.save); err != nil {
		return nil, fmt.Errorf("cannot write %s: %w", outFile, err)
	}
	return img, nil
}

func newProvider(cfg config) (sphere.Provider, *stimmeta.Provenance, error) {
	if len(cfg.faces) == 0 {
		lib, err := cfg.noise.Library(cfg.seed)
		if err != nil {
			return nil, nil, err
		}
		meta := &stimmeta.Provenance{
			Seed:        cfg.seed,
			Beta:        cfg.noise.Beta,
			TextureSize: cfg.noise.Size,
			LibrarySize: cfg.noise.Count,
			FaceSource:  "noise",
		}
		return sphere.NewLibrary(lib, cfg.seed), meta, nil
	}

	toTexture := stimutil.TextureFromImage
	if cfg.linear {
		toTexture = stimutil.LinearTextureFromImage
	}

	var faces sphere.ImageFaces
	size := 0
	for i, path := range cfg.faces {
		pic, err := stimutil.LoadPicture(strings.TrimSpace(path))
		if err != nil {
			return nil, nil, err
		}
		// Pictures are resampled to the smallest side of the first face.
		if size == 0 {
			b := pic.Bounds()
			size = max(min(b.Dx(), b.Dy()), 3)
		}
		var tex *mat.Dense
		if tex, err = toTexture(pic, size); err != nil {
			return nil, nil, fmt.Errorf("%s face: %w", sphere.Faces[i], err)
		}
		faces[i] = tex
	}
	meta := &stimmeta.Provenance{
		Seed:        cfg.seed,
		TextureSize: size,
		FaceSource:  strings.Join(cfg.faces, ","),
	}
	return faces, meta, nil
}
