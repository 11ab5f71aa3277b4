package exr

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/mrjoshuak/go-spherestim/internal/xdr"
)

// Magic is the OpenEXR magic number, the first four bytes of every file.
const Magic = 20000630

const (
	versionNumber = 2

	flagTiled     = 0x200
	flagDeep      = 0x800
	flagMultipart = 0x1000

	maxNameLength = 31
	maxPixels     = 1 << 28
)

// Names of the attributes modelled by Header fields.
const (
	attrChannels           = "channels"
	attrComments           = "comments"
	attrCompression        = "compression"
	attrDataWindow         = "dataWindow"
	attrDisplayWindow      = "displayWindow"
	attrEnvmap             = "envmap"
	attrLineOrder          = "lineOrder"
	attrPixelAspectRatio   = "pixelAspectRatio"
	attrScreenWindowCenter = "screenWindowCenter"
	attrScreenWindowWidth  = "screenWindowWidth"
)

var requiredAttributes = []string{
	attrChannels,
	attrCompression,
	attrDataWindow,
	attrDisplayWindow,
	attrLineOrder,
	attrPixelAspectRatio,
	attrScreenWindowCenter,
	attrScreenWindowWidth,
}

func isModelled(name string) bool {
	switch name {
	case attrComments, attrEnvmap:
		return true
	}
	for _, r := range requiredAttributes {
		if r == name {
			return true
		}
	}
	return false
}

// Header describes a single-channel scanline image.
type Header struct {
	Width  int
	Height int

	// Channel is the name of the single channel, "Y" for luminance.
	Channel     string
	PixelType   PixelType
	Compression Compression

	// Comments is stored in the optional "comments" attribute when set.
	Comments string
	// LatLong marks the image as a latitude-longitude environment map.
	LatLong bool

	// Other holds attributes the fields above do not model. Read fills it
	// with whatever else the file carried and Write emits it unchanged.
	Other []*Attribute
}

// NewScanlineHeader returns a header for a width x height luminance
// environment map stored as ZIP-compressed FLOAT.
func NewScanlineHeader(width, height int) *Header {
	return &Header{
		Width:       width,
		Height:      height,
		Channel:     "Y",
		PixelType:   PixelTypeFloat,
		Compression: CompressionZIP,
		LatLong:     true,
	}
}

// Validate reports whether h can be written.
func (h *Header) Validate() error {
	switch {
	case h.Width <= 0 || h.Height <= 0:
		return fmt.Errorf("%w: size %dx%d", ErrInvalidHeader, h.Width, h.Height)
	case int64(h.Width)*int64(h.Height) > maxPixels:
		return fmt.Errorf("%w: %dx%d pixels is too large", ErrInvalidHeader, h.Width, h.Height)
	case h.Channel == "" || len(h.Channel) > maxNameLength || strings.IndexByte(h.Channel, 0) >= 0:
		return fmt.Errorf("%w: channel name %q", ErrInvalidHeader, h.Channel)
	case h.PixelType != PixelTypeHalf && h.PixelType != PixelTypeFloat:
		return fmt.Errorf("%w: %s", ErrUnsupportedPixelType, h.PixelType)
	case !h.Compression.supported():
		return fmt.Errorf("%w: %d", ErrUnsupportedCompression, h.Compression)
	}
	seen := make(map[string]bool, len(h.Other))
	for _, a := range h.Other {
		if a == nil || a.Name == "" || isModelled(a.Name) || len(a.Name) > maxNameLength || len(a.Type) > maxNameLength {
			return fmt.Errorf("%w: extra attribute %v", ErrInvalidHeader, a)
		}
		if seen[a.Name] {
			return fmt.Errorf("%w: duplicate attribute %q", ErrInvalidHeader, a.Name)
		}
		seen[a.Name] = true
	}
	return nil
}

// Get returns the extra attribute called name, or nil.
func (h *Header) Get(name string) *Attribute {
	for _, a := range h.Other {
		if a.Name == name {
			return a
		}
	}
	return nil
}

// Set adds a to the extra attributes, replacing any with the same name.
func (h *Header) Set(a *Attribute) {
	for i, old := range h.Other {
		if old.Name == a.Name {
			h.Other[i] = a
			return
		}
	}
	h.Other = append(h.Other, a)
}

// Delete removes the extra attribute called name.
func (h *Header) Delete(name string) {
	h.Other = slices.DeleteFunc(h.Other, func(a *Attribute) bool { return a.Name == name })
}

// ChunkCount returns the number of scanline blocks in the file.
func (h *Header) ChunkCount() int {
	n := h.Compression.ScanlinesPerChunk()
	return (h.Height + n - 1) / n
}

func (h *Header) dataWindow() Box2i {
	return Box2i{XMax: int32(h.Width - 1), YMax: int32(h.Height - 1)}
}

// attributes returns the header attributes in name order.
func (h *Header) attributes() []*Attribute {
	attrs := []*Attribute{{
		Name: attrChannels, Type: AttrTypeChlist,
		Value: []Channel{{Name: h.Channel, Type: h.PixelType, XSampling: 1, YSampling: 1}},
	}}
	if h.Comments != "" {
		attrs = append(attrs, &Attribute{Name: attrComments, Type: AttrTypeString, Value: h.Comments})
	}
	attrs = append(attrs,
		&Attribute{Name: attrCompression, Type: AttrTypeCompression, Value: h.Compression},
		&Attribute{Name: attrDataWindow, Type: AttrTypeBox2i, Value: h.dataWindow()},
		&Attribute{Name: attrDisplayWindow, Type: AttrTypeBox2i, Value: h.dataWindow()},
	)
	if h.LatLong {
		attrs = append(attrs, &Attribute{Name: attrEnvmap, Type: AttrTypeEnvmap, Value: EnvMapLatLong})
	}
	return append(attrs,
		&Attribute{Name: attrLineOrder, Type: AttrTypeLineOrder, Value: LineOrderIncreasing},
		&Attribute{Name: attrPixelAspectRatio, Type: AttrTypeFloat, Value: float32(1)},
		&Attribute{Name: attrScreenWindowCenter, Type: AttrTypeV2f, Value: V2f{}},
		&Attribute{Name: attrScreenWindowWidth, Type: AttrTypeFloat, Value: float32(1)},
	)
}

func (h *Header) write(w *xdr.BufferWriter) error {
	w.WriteInt32(Magic)
	w.WriteUint32(versionNumber)
	attrs := append(h.attributes(), h.Other...)
	slices.SortStableFunc(attrs, func(a, b *Attribute) int { return cmp.Compare(a.Name, b.Name) })
	for _, a := range attrs {
		if err := writeAttribute(w, a); err != nil {
			return err
		}
	}
	w.WriteUint8(0)
	return nil
}

// readHeader parses the magic number, version field and attributes and
// returns the header with its data window.
func readHeader(r *xdr.Reader) (*Header, Box2i, error) {
	var dw Box2i

	magic, err := r.ReadInt32()
	if err != nil || magic != Magic {
		return nil, dw, ErrInvalidMagic
	}
	version, err := r.ReadUint32()
	if err != nil {
		return nil, dw, fmt.Errorf("%w: %v", ErrInvalidHeader, err)
	}
	if version&0xFF != versionNumber {
		return nil, dw, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version&0xFF)
	}
	switch {
	case version&flagTiled != 0:
		return nil, dw, fmt.Errorf("%w: tiled", ErrUnsupportedFeature)
	case version&flagDeep != 0:
		return nil, dw, fmt.Errorf("%w: deep data", ErrUnsupportedFeature)
	case version&flagMultipart != 0:
		return nil, dw, fmt.Errorf("%w: multi-part", ErrUnsupportedFeature)
	}

	attrs := make(map[string]*Attribute)
	h := &Header{}
	for {
		a, err := readAttribute(r)
		if err != nil {
			return nil, dw, fmt.Errorf("%w: %v", ErrInvalidHeader, err)
		}
		if a == nil {
			break
		}
		if !isModelled(a.Name) {
			h.Other = append(h.Other, a)
			continue
		}
		attrs[a.Name] = a
	}

	for _, name := range requiredAttributes {
		if attrs[name] == nil {
			return nil, dw, fmt.Errorf("%w: %s", ErrMissingAttribute, name)
		}
	}

	chans, ok := attrs[attrChannels].Value.([]Channel)
	if !ok {
		return nil, dw, fmt.Errorf("%w: channels has type %s", ErrInvalidHeader, attrs[attrChannels].Type)
	}
	if len(chans) != 1 || chans[0].XSampling != 1 || chans[0].YSampling != 1 {
		return nil, dw, fmt.Errorf("%w: %d channels", ErrUnsupportedChannels, len(chans))
	}
	h.Channel = chans[0].Name
	h.PixelType = chans[0].Type
	if h.PixelType != PixelTypeHalf && h.PixelType != PixelTypeFloat {
		return nil, dw, fmt.Errorf("%w: %s", ErrUnsupportedPixelType, h.PixelType)
	}

	if h.Compression, ok = attrs[attrCompression].Value.(Compression); !ok {
		return nil, dw, fmt.Errorf("%w: compression has type %s", ErrInvalidHeader, attrs[attrCompression].Type)
	}
	if !h.Compression.supported() {
		return nil, dw, fmt.Errorf("%w: %d", ErrUnsupportedCompression, h.Compression)
	}

	if dw, ok = attrs[attrDataWindow].Value.(Box2i); !ok {
		return nil, dw, fmt.Errorf("%w: dataWindow has type %s", ErrInvalidHeader, attrs[attrDataWindow].Type)
	}
	h.Width, h.Height = dw.Width(), dw.Height()
	if h.Width <= 0 || h.Height <= 0 || int64(h.Width)*int64(h.Height) > maxPixels {
		return nil, dw, fmt.Errorf("%w: data window %+v", ErrInvalidHeader, dw)
	}

	if a := attrs[attrComments]; a != nil {
		h.Comments, _ = a.Value.(string)
	}
	if a := attrs[attrEnvmap]; a != nil {
		e, ok := a.Value.(EnvMap)
		h.LatLong = ok && e == EnvMapLatLong
	}
	return h, dw, nil
}
