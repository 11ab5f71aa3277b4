package exr

import "errors"

var (
	ErrInvalidMagic       = errors.New("exr: invalid magic number")
	ErrUnsupportedVersion = errors.New("exr: unsupported file version")
	ErrUnsupportedFeature = errors.New("exr: unsupported file feature")

	ErrUnsupportedCompression = errors.New("exr: unsupported compression")
	ErrUnsupportedPixelType   = errors.New("exr: unsupported pixel type")
	ErrUnsupportedChannels    = errors.New("exr: unsupported channel layout")

	ErrMissingAttribute = errors.New("exr: missing required attribute")
	ErrInvalidHeader    = errors.New("exr: invalid header")
	ErrPixelCount       = errors.New("exr: pixel count does not match data window")
	ErrCorruptChunk     = errors.New("exr: corrupt chunk")
)
