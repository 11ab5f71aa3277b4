package stimutil

import (
	"os"

	"github.com/mrjoshuak/go-spherestim/exr"
	"github.com/mrjoshuak/go-spherestim/stimmeta"
)

// FileInfo contains basic information about a stimulus file.
type FileInfo struct {
	Path        string
	Width       int
	Height      int
	Channel     string
	PixelType   exr.PixelType
	Compression exr.Compression
	LatLong     bool
	Comments    string
	Owner       string
	FileSize    int64

	// Provenance is nil for files without generation metadata.
	Provenance *stimmeta.Provenance
}

// GetFileInfo returns information about an EXR stimulus file.
func GetFileInfo(path string) (*FileInfo, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	f, err := exr.ReadFile(path)
	if err != nil {
		return nil, err
	}
	h := f.Header
	return &FileInfo{
		Path:        path,
		Width:       h.Width,
		Height:      h.Height,
		Channel:     h.Channel,
		PixelType:   h.PixelType,
		Compression: h.Compression,
		LatLong:     h.LatLong,
		Comments:    h.Comments,
		Owner:       stimmeta.Owner(h),
		FileSize:    stat.Size(),
		Provenance:  stimmeta.GetProvenance(h),
	}, nil
}
