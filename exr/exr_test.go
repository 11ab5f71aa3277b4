package exr

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/mrjoshuak/go-spherestim/half"
	"github.com/mrjoshuak/go-spherestim/internal/xdr"
)

// testPixels returns a smooth pattern in [0,1] with a few sharp edges.
func testPixels(w, h int) []float32 {
	pix := make([]float32, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := 0.5 + 0.4*math.Sin(float64(x)/7)*math.Cos(float64(y)/5)
			if (x/8+y/8)%2 == 0 {
				v *= 0.5
			}
			pix[y*w+x] = float32(v)
		}
	}
	return pix
}

func encode(t *testing.T, h *Header, pix []float32) []byte {
	t.Helper()
	data, err := Encode(h, pix)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	return data
}

// chunkSizes returns the stored size of every chunk in an encoded file.
func chunkSizes(t *testing.T, data []byte) []int {
	t.Helper()
	r := xdr.NewReader(data)
	h, _, err := readHeader(r)
	if err != nil {
		t.Fatal(err)
	}
	sizes := make([]int, h.ChunkCount())
	offsets := make([]uint64, len(sizes))
	for i := range offsets {
		offsets[i], _ = r.ReadUint64()
	}
	for i, off := range offsets {
		r.SetPos(int(off) + 4)
		n, _ := r.ReadInt32()
		sizes[i] = int(n)
	}
	return sizes
}

func TestRoundTrip(t *testing.T) {
	const w, h = 37, 23
	pix := testPixels(w, h)

	for _, pt := range []PixelType{PixelTypeFloat, PixelTypeHalf} {
		for _, c := range []Compression{CompressionNone, CompressionRLE, CompressionZIPS, CompressionZIP} {
			t.Run(pt.String()+"/"+c.String(), func(t *testing.T) {
				hdr := NewScanlineHeader(w, h)
				hdr.PixelType = pt
				hdr.Compression = c
				hdr.Comments = "seed 42"

				img, err := Decode(encode(t, hdr, pix))
				if err != nil {
					t.Fatalf("Decode() error = %v", err)
				}
				got := img.Header
				if got.Width != w || got.Height != h || got.Channel != "Y" ||
					got.PixelType != pt || got.Compression != c ||
					got.Comments != "seed 42" || !got.LatLong {
					t.Errorf("header = %+v", got)
				}
				for i, v := range pix {
					want := v
					if pt == PixelTypeHalf {
						want = half.FromFloat32(v).Float32()
					}
					if img.Pix[i] != want {
						t.Fatalf("pixel %d = %v, want %v", i, img.Pix[i], want)
					}
				}
			})
		}
	}
}

func TestFileLayout(t *testing.T) {
	hdr := NewScanlineHeader(4, 3)
	hdr.Comments = "hello"
	data := encode(t, hdr, testPixels(4, 3))

	if !bytes.HasPrefix(data, []byte{0x76, 0x2f, 0x31, 0x01, 2, 0, 0, 0}) {
		t.Errorf("file starts with % x", data[:8])
	}
	for _, want := range []string{
		"channels\x00chlist\x00",
		"comments\x00string\x00\x05\x00\x00\x00hello",
		"compression\x00compression\x00\x01\x00\x00\x00\x03",
		"dataWindow\x00box2i\x00",
		"displayWindow\x00box2i\x00",
		"envmap\x00envmap\x00\x01\x00\x00\x00\x00",
		"lineOrder\x00lineOrder\x00\x01\x00\x00\x00\x00",
		"pixelAspectRatio\x00float\x00",
		"screenWindowCenter\x00v2f\x00",
		"screenWindowWidth\x00float\x00",
	} {
		if !bytes.Contains(data, []byte(want)) {
			t.Errorf("header lacks %q", want)
		}
	}

	// ZIP groups 16 scanlines, so three rows fit in one chunk.
	if n := len(chunkSizes(t, data)); n != 1 {
		t.Errorf("chunk count = %d, want 1", n)
	}
}

func TestOmittedOptionalAttributes(t *testing.T) {
	hdr := NewScanlineHeader(4, 3)
	hdr.LatLong = false
	data := encode(t, hdr, testPixels(4, 3))
	if bytes.Contains(data, []byte("envmap\x00")) || bytes.Contains(data, []byte("comments\x00")) {
		t.Error("optional attributes written although unset")
	}
	img, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	if img.Header.LatLong || img.Header.Comments != "" {
		t.Errorf("header = %+v", img.Header)
	}
}

func TestChunkCount(t *testing.T) {
	tests := []struct {
		c      Compression
		height int
		want   int
	}{
		{CompressionNone, 33, 33},
		{CompressionRLE, 33, 33},
		{CompressionZIPS, 33, 33},
		{CompressionZIP, 33, 3},
		{CompressionZIP, 32, 2},
		{CompressionZIP, 1, 1},
	}
	for _, tt := range tests {
		h := &Header{Height: tt.height, Compression: tt.c}
		if got := h.ChunkCount(); got != tt.want {
			t.Errorf("%s height %d: ChunkCount() = %d, want %d", tt.c, tt.height, got, tt.want)
		}
	}
}

func TestIncompressibleChunkStoredRaw(t *testing.T) {
	hdr := NewScanlineHeader(1, 1)
	data := encode(t, hdr, []float32{0.25})
	if sizes := chunkSizes(t, data); sizes[0] != 4 {
		t.Errorf("chunk size = %d, want 4 (raw)", sizes[0])
	}
	img, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	if img.Pix[0] != 0.25 {
		t.Errorf("pixel = %v, want 0.25", img.Pix[0])
	}
}

func TestSmoothImageCompresses(t *testing.T) {
	hdr := NewScanlineHeader(360, 180)
	data := encode(t, hdr, testPixels(360, 180))
	raw := 360 * 16 * 4
	for i, n := range chunkSizes(t, data)[:11] {
		if n >= raw {
			t.Errorf("chunk %d stored raw (%d bytes)", i, n)
		}
	}
}

func TestOtherAttributesRoundTrip(t *testing.T) {
	hdr := NewScanlineHeader(8, 2)
	hdr.Other = []*Attribute{
		{Name: "owner", Type: "string", Value: "lab"},
		{Name: "seed", Type: "int", Value: int32(42)},
		{Name: "blob", Type: "opaque", Value: []byte{1, 2, 3}},
	}
	img, err := Decode(encode(t, hdr, testPixels(8, 2)))
	if err != nil {
		t.Fatal(err)
	}
	got := map[string]any{}
	for _, a := range img.Header.Other {
		got[a.Name] = a.Value
	}
	if got["owner"] != "lab" || got["seed"] != int32(42) || !bytes.Equal(got["blob"].([]byte), []byte{1, 2, 3}) {
		t.Errorf("Other = %v", got)
	}
}

func TestEncodeErrors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(h *Header)
		pix    int
		want   error
	}{
		{"pixel count", func(h *Header) {}, 5, ErrPixelCount},
		{"zero width", func(h *Header) { h.Width = 0 }, 0, ErrInvalidHeader},
		{"empty channel", func(h *Header) { h.Channel = "" }, 12, ErrInvalidHeader},
		{"long channel", func(h *Header) { h.Channel = string(make([]byte, 40)) }, 12, ErrInvalidHeader},
		{"uint pixels", func(h *Header) { h.PixelType = PixelTypeUint }, 12, ErrUnsupportedPixelType},
		{"piz", func(h *Header) { h.Compression = 4 }, 12, ErrUnsupportedCompression},
		{"shadowing attribute", func(h *Header) {
			h.Other = []*Attribute{{Name: "envmap", Type: "envmap", Value: EnvMapCube}}
		}, 12, ErrInvalidHeader},
		{"bad attribute value", func(h *Header) {
			h.Other = []*Attribute{{Name: "x", Type: "m33f", Value: [9]float32{}}}
		}, 12, ErrInvalidHeader},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewScanlineHeader(4, 3)
			tt.modify(h)
			if _, err := Encode(h, make([]float32, tt.pix)); !errors.Is(err, tt.want) {
				t.Errorf("Encode() error = %v, want %v", err, tt.want)
			}
		})
	}
}

// rawHeader writes a header from attrs with no chunks.
func rawHeader(version uint32, attrs []*Attribute) []byte {
	w := xdr.NewBufferWriter(256)
	w.WriteInt32(Magic)
	w.WriteUint32(version)
	for _, a := range attrs {
		if err := writeAttribute(w, a); err != nil {
			panic(err)
		}
	}
	w.WriteUint8(0)
	return w.Bytes()
}

func withoutAttr(h *Header, name string) []*Attribute {
	var out []*Attribute
	for _, a := range h.attributes() {
		if a.Name != name {
			out = append(out, a)
		}
	}
	return out
}

func TestDecodeErrors(t *testing.T) {
	good := encode(t, NewScanlineHeader(64, 40), testPixels(64, 40))
	patched := func(off int, b byte) []byte {
		d := bytes.Clone(good)
		d[off] = b
		return d
	}

	twoChannels := NewScanlineHeader(4, 3).attributes()
	twoChannels[0].Value = []Channel{
		{Name: "R", Type: PixelTypeHalf, XSampling: 1, YSampling: 1},
		{Name: "G", Type: PixelTypeHalf, XSampling: 1, YSampling: 1},
	}
	uintChannel := NewScanlineHeader(4, 3).attributes()
	uintChannel[0].Value = []Channel{{Name: "Y", Type: PixelTypeUint, XSampling: 1, YSampling: 1}}

	// Point the first chunk at scanline 3, which is not a block start.
	first := int(chunkOffset(t, good, 0))
	misaligned := bytes.Clone(good)
	misaligned[first] = 3

	// Damage the deflate stream of the first chunk.
	damaged := bytes.Clone(good)
	for i := first + 8; i < first+8+20; i++ {
		damaged[i] ^= 0xFF
	}

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"empty", nil, ErrInvalidMagic},
		{"bad magic", patched(0, 0x77), ErrInvalidMagic},
		{"version 1", patched(4, 1), ErrUnsupportedVersion},
		{"tiled", patched(5, 0x02), ErrUnsupportedFeature},
		{"deep", patched(5, 0x08), ErrUnsupportedFeature},
		{"multi-part", patched(5, 0x10), ErrUnsupportedFeature},
		{"truncated header", good[:30], ErrInvalidHeader},
		{"missing lineOrder", rawHeader(2, withoutAttr(NewScanlineHeader(4, 3), attrLineOrder)), ErrMissingAttribute},
		{"two channels", rawHeader(2, twoChannels), ErrUnsupportedChannels},
		{"uint channel", rawHeader(2, uintChannel), ErrUnsupportedPixelType},
		{"no offset table", rawHeader(2, NewScanlineHeader(4, 3).attributes()), ErrCorruptChunk},
		{"truncated chunks", good[:len(good)-10], ErrCorruptChunk},
		{"misaligned chunk", misaligned, ErrCorruptChunk},
		{"damaged chunk", damaged, ErrCorruptChunk},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode(tt.data); !errors.Is(err, tt.want) {
				t.Errorf("Decode() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func chunkOffset(t *testing.T, data []byte, i int) uint64 {
	t.Helper()
	r := xdr.NewReader(data)
	if _, _, err := readHeader(r); err != nil {
		t.Fatal(err)
	}
	r.Skip(8 * i)
	off, err := r.ReadUint64()
	if err != nil {
		t.Fatal(err)
	}
	return off
}

func TestWriteReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stim.exr")
	pix := testPixels(20, 10)
	if err := WriteFile(path, NewScanlineHeader(20, 10), pix); err != nil {
		t.Fatal(err)
	}
	img, err := ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for i := range pix {
		if img.Pix[i] != pix[i] {
			t.Fatalf("pixel %d = %v, want %v", i, img.Pix[i], pix[i])
		}
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if _, err := Read(f); err != nil {
		t.Errorf("Read() error = %v", err)
	}

	if err := WriteFile(filepath.Join(t.TempDir(), "missing", "x.exr"), NewScanlineHeader(20, 10), pix); err == nil {
		t.Error("WriteFile into a missing directory succeeded")
	}
}

func TestParseCompression(t *testing.T) {
	for _, c := range []Compression{CompressionNone, CompressionRLE, CompressionZIPS, CompressionZIP} {
		got, ok := ParseCompression(c.String())
		if !ok || got != c {
			t.Errorf("ParseCompression(%q) = %v, %v", c.String(), got, ok)
		}
	}
	if _, ok := ParseCompression("piz"); ok {
		t.Error("ParseCompression(piz) succeeded")
	}
}

func BenchmarkEncode360x180(b *testing.B) {
	hdr := NewScanlineHeader(360, 180)
	pix := testPixels(360, 180)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Encode(hdr, pix); err != nil {
			b.Fatal(err)
		}
	}
}

func TestHeaderExtraAttributes(t *testing.T) {
	h := NewScanlineHeader(4, 2)
	h.Set(&Attribute{Name: "owner", Type: AttrTypeString, Value: "lab"})
	h.Set(&Attribute{Name: "beta", Type: AttrTypeFloat, Value: float32(1)})
	h.Set(&Attribute{Name: "owner", Type: AttrTypeString, Value: "rig"})

	if len(h.Other) != 2 {
		t.Fatalf("len(Other) = %d, want 2", len(h.Other))
	}
	if a := h.Get("owner"); a == nil || a.Value != "rig" {
		t.Errorf("Get(owner) = %v, want rig", a)
	}
	h.Delete("owner")
	if h.Get("owner") != nil || len(h.Other) != 1 {
		t.Errorf("after Delete, Other = %v", h.Other)
	}
	if h.Get("missing") != nil {
		t.Error("Get(missing) != nil")
	}

	h.Other = append(h.Other, &Attribute{Name: "beta", Type: AttrTypeFloat, Value: float32(2)})
	if err := h.Validate(); !errors.Is(err, ErrInvalidHeader) {
		t.Errorf("Validate() with duplicate attribute error = %v, want ErrInvalidHeader", err)
	}
}
