package dataset

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression selects how a dataset object is stored.
type Compression uint8

const (
	// CompressionNone stores plain text.
	CompressionNone Compression = iota
	// CompressionZSTD stores a zstd stream (better ratio).
	CompressionZSTD
	// CompressionLZ4 stores an LZ4 frame (faster).
	CompressionLZ4
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionZSTD:
		return "zstd"
	case CompressionLZ4:
		return "lz4"
	default:
		return fmt.Sprintf("Unknown(%d)", c)
	}
}

// CompressionFor infers the compression from an object name suffix.
func CompressionFor(name string) Compression {
	switch {
	case strings.HasSuffix(name, ".zst"):
		return CompressionZSTD
	case strings.HasSuffix(name, ".lz4"):
		return CompressionLZ4
	default:
		return CompressionNone
	}
}

var zstdEncoderPool sync.Pool

func getZstdEncoder() (*zstd.Encoder, error) {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder), nil
	}
	return zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
}

func compress(c Compression, data []byte) ([]byte, error) {
	switch c {
	case CompressionNone:
		return data, nil
	case CompressionZSTD:
		enc, err := getZstdEncoder()
		if err != nil {
			return nil, err
		}
		defer zstdEncoderPool.Put(enc)
		return enc.EncodeAll(data, nil), nil
	case CompressionLZ4:
		var buf bytes.Buffer
		zw := lz4.NewWriter(&buf)
		if _, err := zw.Write(data); err != nil {
			return nil, err
		}
		if err := zw.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unsupported compression: %v", c)
	}
}

type zstdReadCloser struct {
	*zstd.Decoder
	src io.Closer
}

func (z zstdReadCloser) Close() error {
	z.Decoder.Close()
	return z.src.Close()
}

type lz4ReadCloser struct {
	*lz4.Reader
	src io.Closer
}

func (l lz4ReadCloser) Close() error { return l.src.Close() }

// decompressReader wraps rc; closing the result closes rc.
func decompressReader(c Compression, rc io.ReadCloser) (io.ReadCloser, error) {
	switch c {
	case CompressionNone:
		return rc, nil
	case CompressionZSTD:
		dec, err := zstd.NewReader(rc)
		if err != nil {
			return nil, err
		}
		return zstdReadCloser{Decoder: dec, src: rc}, nil
	case CompressionLZ4:
		return lz4ReadCloser{Reader: lz4.NewReader(rc), src: rc}, nil
	default:
		return nil, fmt.Errorf("unsupported compression: %v", c)
	}
}
