package exr

import (
	"fmt"
	"io"
	"os"

	"github.com/mrjoshuak/go-spherestim/compression"
	"github.com/mrjoshuak/go-spherestim/internal/parallel"
	"github.com/mrjoshuak/go-spherestim/internal/xdr"
)

// Write encodes pix, h.Height rows of h.Width samples with row 0 at the
// top, as an OpenEXR file.
func Write(w io.Writer, h *Header, pix []float32) error {
	data, err := Encode(h, pix)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// WriteFile writes an OpenEXR file at path.
func WriteFile(path string, h *Header, pix []float32) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, h, pix); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Encode returns the OpenEXR encoding of pix. Chunks are compressed
// concurrently using the parallel configuration shared with package
// sphere; the output does not depend on it.
func Encode(h *Header, pix []float32) ([]byte, error) {
	if err := h.Validate(); err != nil {
		return nil, err
	}
	if len(pix) != h.Width*h.Height {
		return nil, fmt.Errorf("%w: got %d samples for %dx%d", ErrPixelCount, len(pix), h.Width, h.Height)
	}

	chunks, err := encodeChunks(h, pix)
	if err != nil {
		return nil, err
	}

	size := 0
	for _, c := range chunks {
		size += 8 + 8 + len(c)
	}
	w := xdr.NewBufferWriter(1024 + size)
	if err := h.write(w); err != nil {
		return nil, err
	}

	table := w.Len()
	for range chunks {
		w.WriteUint64(0)
	}
	lines := h.Compression.ScanlinesPerChunk()
	for i, c := range chunks {
		if err := w.PutUint64At(table+8*i, uint64(w.Len())); err != nil {
			return nil, err
		}
		w.WriteInt32(int32(i * lines))
		w.WriteInt32(int32(len(c)))
		w.WriteBytes(c)
	}
	return w.Bytes(), nil
}

func encodeChunks(h *Header, pix []float32) ([][]byte, error) {
	lines := h.Compression.ScanlinesPerChunk()
	stride := h.Width * h.PixelType.Size()
	out := make([][]byte, h.ChunkCount())

	err := parallel.ForWithError(len(out), func(i int) error {
		y0 := i * lines
		y1 := min(y0+lines, h.Height)

		raw := chunkPool.Get((y1 - y0) * stride)
		defer chunkPool.Put(raw)
		packPixels(raw, pix[y0*h.Width:y1*h.Width], h.PixelType)

		packed, err := compressChunk(h.Compression, raw)
		if err != nil {
			return fmt.Errorf("exr: chunk %d: %w", i, err)
		}
		// Readers treat a chunk of raw size as uncompressed.
		if packed == nil || len(packed) >= len(raw) {
			packed = append([]byte(nil), raw...)
		}
		out[i] = packed
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func compressChunk(c Compression, raw []byte) ([]byte, error) {
	switch c {
	case CompressionRLE:
		return compression.RLECompress(raw), nil
	case CompressionZIPS, CompressionZIP:
		return compression.ZIPCompress(raw)
	}
	return nil, nil
}
