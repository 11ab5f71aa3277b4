// Package stimmeta provides typed accessors for the header attributes that
// record how a stimulus was made.
//
// All functions operate on *exr.Header and store their values as extra
// attributes, so files stay readable by any OpenEXR tool.
//
// Example usage:
//
//	h := exr.NewScanlineHeader(360, 180)
//	stimmeta.SetOwner(h, "Vision Lab")
//	stimmeta.SetProvenance(h, stimmeta.Provenance{Seed: 7, Beta: 1})
package stimmeta

import (
	"strconv"
	"time"

	"github.com/mrjoshuak/go-spherestim/exr"
)

// Attribute names
const (
	// Standard OpenEXR production metadata
	AttrOwner   = "owner"
	AttrCapDate = "capDate"

	// Stimulus provenance
	AttrSeed        = "stimSeed"
	AttrBeta        = "stimBeta"
	AttrTextureSize = "stimTextureSize"
	AttrLibrarySize = "stimLibrarySize"
	AttrFaceSource  = "stimFaceSource"
	AttrClamped     = "stimClamped"
)

// capDateLayout is the OpenEXR capDate format.
const capDateLayout = "2006:01:02 15:04:05"

// SetOwner sets the file owner/creator.
func SetOwner(h *exr.Header, owner string) {
	h.Set(&exr.Attribute{Name: AttrOwner, Type: exr.AttrTypeString, Value: owner})
}

// Owner returns the file owner/creator, or empty string if not set.
func Owner(h *exr.Header) string {
	return getString(h, AttrOwner)
}

// SetCapDate sets the creation time.
func SetCapDate(h *exr.Header, t time.Time) {
	h.Set(&exr.Attribute{Name: AttrCapDate, Type: exr.AttrTypeString, Value: t.Format(capDateLayout)})
}

// CapDate returns the creation time in t's original local clock, read as
// UTC. The second result is false if the attribute is missing or malformed.
func CapDate(h *exr.Header) (time.Time, bool) {
	t, err := time.Parse(capDateLayout, getString(h, AttrCapDate))
	return t, err == nil
}

// SetSeed sets the random seed. It is stored as a decimal string since
// OpenEXR has no 64-bit integer attribute.
func SetSeed(h *exr.Header, seed uint64) {
	h.Set(&exr.Attribute{Name: AttrSeed, Type: exr.AttrTypeString, Value: strconv.FormatUint(seed, 10)})
}

// Seed returns the random seed and whether it was set.
func Seed(h *exr.Header) (uint64, bool) {
	s := getString(h, AttrSeed)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseUint(s, 10, 64)
	return v, err == nil
}

// SetBeta sets the noise spectral falloff exponent.
func SetBeta(h *exr.Header, beta float32) {
	h.Set(&exr.Attribute{Name: AttrBeta, Type: exr.AttrTypeFloat, Value: beta})
}

// Beta returns the noise spectral falloff exponent, or 0 if not set.
func Beta(h *exr.Header) float32 {
	return getFloat(h, AttrBeta)
}

// SetTextureSize sets the cube face side length.
func SetTextureSize(h *exr.Header, size int32) {
	h.Set(&exr.Attribute{Name: AttrTextureSize, Type: exr.AttrTypeInt, Value: size})
}

// TextureSize returns the cube face side length, or 0 if not set.
func TextureSize(h *exr.Header) int32 {
	return getInt(h, AttrTextureSize)
}

// SetLibrarySize sets the number of textures faces were drawn from.
func SetLibrarySize(h *exr.Header, n int32) {
	h.Set(&exr.Attribute{Name: AttrLibrarySize, Type: exr.AttrTypeInt, Value: n})
}

// LibrarySize returns the number of textures faces were drawn from.
func LibrarySize(h *exr.Header) int32 {
	return getInt(h, AttrLibrarySize)
}

// SetFaceSource describes where the faces came from, such as "noise" or
// a list of picture files.
func SetFaceSource(h *exr.Header, src string) {
	h.Set(&exr.Attribute{Name: AttrFaceSource, Type: exr.AttrTypeString, Value: src})
}

// FaceSource returns the face source, or empty string if not set.
func FaceSource(h *exr.Header) string {
	return getString(h, AttrFaceSource)
}

// SetClamped sets the number of clamped texture lookups.
func SetClamped(h *exr.Header, n int32) {
	h.Set(&exr.Attribute{Name: AttrClamped, Type: exr.AttrTypeInt, Value: n})
}

// Clamped returns the number of clamped texture lookups.
func Clamped(h *exr.Header) int32 {
	return getInt(h, AttrClamped)
}

// ===========================================
// Provenance
// ===========================================

// Provenance groups the generation parameters of a stimulus.
type Provenance struct {
	Seed        uint64
	Beta        float64
	TextureSize int
	LibrarySize int
	FaceSource  string
	Clamped     int
}

// SetProvenance stores all fields of p. Zero sizes and an empty face
// source are omitted.
func SetProvenance(h *exr.Header, p Provenance) {
	SetSeed(h, p.Seed)
	SetBeta(h, float32(p.Beta))
	if p.TextureSize > 0 {
		SetTextureSize(h, int32(p.TextureSize))
	}
	if p.LibrarySize > 0 {
		SetLibrarySize(h, int32(p.LibrarySize))
	}
	if p.FaceSource != "" {
		SetFaceSource(h, p.FaceSource)
	}
	SetClamped(h, int32(p.Clamped))
}

// GetProvenance returns the stored provenance, or nil if the header has
// no seed attribute.
func GetProvenance(h *exr.Header) *Provenance {
	seed, ok := Seed(h)
	if !ok {
		return nil
	}
	return &Provenance{
		Seed:        seed,
		Beta:        float64(Beta(h)),
		TextureSize: int(TextureSize(h)),
		LibrarySize: int(LibrarySize(h)),
		FaceSource:  FaceSource(h),
		Clamped:     int(Clamped(h)),
	}
}

// ===========================================
// Helper functions
// ===========================================

func getString(h *exr.Header, name string) string {
	attr := h.Get(name)
	if attr == nil {
		return ""
	}
	if s, ok := attr.Value.(string); ok {
		return s
	}
	return ""
}

func getFloat(h *exr.Header, name string) float32 {
	attr := h.Get(name)
	if attr == nil {
		return 0
	}
	if f, ok := attr.Value.(float32); ok {
		return f
	}
	return 0
}

func getInt(h *exr.Header, name string) int32 {
	attr := h.Get(name)
	if attr == nil {
		return 0
	}
	if v, ok := attr.Value.(int32); ok {
		return v
	}
	return 0
}
