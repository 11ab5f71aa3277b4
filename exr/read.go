package exr

import (
	"fmt"
	"io"
	"os"

	"github.com/mrjoshuak/go-spherestim/compression"
	"github.com/mrjoshuak/go-spherestim/internal/parallel"
	"github.com/mrjoshuak/go-spherestim/internal/xdr"
)

// Image is a decoded single-channel file.
type Image struct {
	Header *Header
	// Pix holds Height rows of Width samples, row 0 at the top.
	Pix []float32
}

// Read decodes an OpenEXR file from r.
func Read(r io.Reader) (*Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

// ReadFile decodes the OpenEXR file at path.
func ReadFile(path string) (*Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

type chunkSpan struct {
	first int
	lines int
	data  []byte
}

// Decode decodes an OpenEXR file held in memory.
func Decode(data []byte) (*Image, error) {
	r := xdr.NewReader(data)
	h, dw, err := readHeader(r)
	if err != nil {
		return nil, err
	}

	n := h.ChunkCount()
	lines := h.Compression.ScanlinesPerChunk()
	offsets := make([]uint64, n)
	for i := range offsets {
		if offsets[i], err = r.ReadUint64(); err != nil {
			return nil, fmt.Errorf("%w: offset table: %v", ErrCorruptChunk, err)
		}
	}

	spans := make([]chunkSpan, n)
	seen := make([]bool, n)
	for i, off := range offsets {
		if off > uint64(len(data)) {
			return nil, fmt.Errorf("%w: chunk %d offset %d past end of file", ErrCorruptChunk, i, off)
		}
		if err := r.SetPos(int(off)); err != nil {
			return nil, fmt.Errorf("%w: chunk %d: %v", ErrCorruptChunk, i, err)
		}
		y, err := r.ReadInt32()
		if err != nil {
			return nil, fmt.Errorf("%w: chunk %d: %v", ErrCorruptChunk, i, err)
		}
		size, err := r.ReadInt32()
		if err != nil {
			return nil, fmt.Errorf("%w: chunk %d: %v", ErrCorruptChunk, i, err)
		}
		body, err := r.ReadBytes(int(size))
		if err != nil {
			return nil, fmt.Errorf("%w: chunk %d: %v", ErrCorruptChunk, i, err)
		}

		first := int(y) - int(dw.YMin)
		if first < 0 || first >= h.Height || first%lines != 0 || seen[first/lines] {
			return nil, fmt.Errorf("%w: chunk %d has scanline %d", ErrCorruptChunk, i, y)
		}
		seen[first/lines] = true
		spans[first/lines] = chunkSpan{first: first, lines: min(lines, h.Height-first), data: body}
	}

	pix := make([]float32, h.Width*h.Height)
	stride := h.Width * h.PixelType.Size()
	err = parallel.ForWithError(n, func(i int) error {
		s := spans[i]
		dst := pix[s.first*h.Width : (s.first+s.lines)*h.Width]
		rawSize := s.lines * stride
		if len(s.data) == rawSize {
			unpackPixels(dst, s.data, h.PixelType)
			return nil
		}

		raw := chunkPool.Get(rawSize)
		defer chunkPool.Put(raw)
		if err := decompressChunk(h.Compression, raw, s.data); err != nil {
			return fmt.Errorf("%w: scanline %d: %v", ErrCorruptChunk, s.first, err)
		}
		unpackPixels(dst, raw, h.PixelType)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &Image{Header: h, Pix: pix}, nil
}

func decompressChunk(c Compression, dst, src []byte) error {
	switch c {
	case CompressionRLE:
		return compression.RLEDecompressTo(dst, src)
	case CompressionZIPS, CompressionZIP:
		return compression.ZIPDecompressTo(dst, src)
	}
	return fmt.Errorf("%d bytes of uncompressed data, want %d", len(src), len(dst))
}
