package compression

import (
	"bytes"
	"errors"
	"io"
	"sync"

	"github.com/klauspost/compress/zlib"
)

// ErrZIPCorrupted is returned when ZIP chunk data cannot be inflated to
// the expected size.
var ErrZIPCorrupted = errors.New("compression: corrupted ZIP data")

// Pooled zlib writers, each with its own destination buffer.
type zlibWriterPoolItem struct {
	writer *zlib.Writer
	buf    *bytes.Buffer
}

var zlibWriterPool = sync.Pool{
	New: func() any {
		buf := new(bytes.Buffer)
		w, _ := zlib.NewWriterLevel(buf, zlib.DefaultCompression)
		return &zlibWriterPoolItem{writer: w, buf: buf}
	},
}

// ZIPCompress filters src and deflates it with zlib. The same encoding is
// used for ZIPS (one scanline per chunk) and ZIP (16 scanlines per chunk);
// only the chunk height differs. Empty input yields nil.
func ZIPCompress(src []byte) ([]byte, error) {
	if len(src) == 0 {
		return nil, nil
	}

	scratch := getScratch(len(src))
	defer putScratch(scratch)
	encodeFilter(*scratch, src)

	item := zlibWriterPool.Get().(*zlibWriterPoolItem)
	defer zlibWriterPool.Put(item)
	item.buf.Reset()
	item.writer.Reset(item.buf)

	if _, err := item.writer.Write(*scratch); err != nil {
		item.writer.Close()
		return nil, err
	}
	if err := item.writer.Close(); err != nil {
		return nil, err
	}

	out := make([]byte, item.buf.Len())
	copy(out, item.buf.Bytes())
	return out, nil
}

type zlibReaderPoolItem struct {
	reader io.ReadCloser
	src    *bytes.Reader
}

var zlibReaderPool = sync.Pool{
	New: func() any {
		return &zlibReaderPoolItem{src: bytes.NewReader(nil)}
	},
}

// ZIPDecompressTo inflates src and reverses the filter into dst, which
// must be exactly the uncompressed size.
func ZIPDecompressTo(dst, src []byte) error {
	if len(src) == 0 {
		if len(dst) != 0 {
			return ErrZIPCorrupted
		}
		return nil
	}

	item := zlibReaderPool.Get().(*zlibReaderPoolItem)
	defer zlibReaderPool.Put(item)
	item.src.Reset(src)

	var err error
	if r, ok := item.reader.(zlib.Resetter); ok {
		err = r.Reset(item.src, nil)
	} else {
		item.reader, err = zlib.NewReader(item.src)
	}
	if err != nil {
		item.reader = nil
		return ErrZIPCorrupted
	}

	scratch := getScratch(len(dst))
	defer putScratch(scratch)

	if _, err := io.ReadFull(item.reader, *scratch); err != nil {
		return ErrZIPCorrupted
	}
	// Trailing data means the chunk is larger than its scanlines.
	var one [1]byte
	if n, err := item.reader.Read(one[:]); n != 0 || (err != nil && err != io.EOF) {
		return ErrZIPCorrupted
	}

	decodeFilter(dst, *scratch)
	return nil
}
