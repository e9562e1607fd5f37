package csvsql

import (
	"compress/bzip2"
	"compress/gzip"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// CompressionType represents a compression codec applied to input files or
// to the generated script.
type CompressionType int

const (
	// CompressionNone represents no compression
	CompressionNone CompressionType = iota
	// CompressionGZ represents gzip compression
	CompressionGZ
	// CompressionBZ2 represents bzip2 compression (read only; the standard
	// library ships no bzip2 writer)
	CompressionBZ2
	// CompressionXZ represents xz compression
	CompressionXZ
	// CompressionZSTD represents zstd compression
	CompressionZSTD
)

// String returns the string representation of CompressionType
func (c CompressionType) String() string {
	switch c {
	case CompressionGZ:
		return "gz"
	case CompressionBZ2:
		return "bz2"
	case CompressionXZ:
		return "xz"
	case CompressionZSTD:
		return "zstd"
	default:
		return "none"
	}
}

// Extension returns the file extension for the compression type
func (c CompressionType) Extension() string {
	switch c {
	case CompressionGZ:
		return extGZ
	case CompressionBZ2:
		return extBZ2
	case CompressionXZ:
		return extXZ
	case CompressionZSTD:
		return extZSTD
	default:
		return ""
	}
}

// newDecompressor wraps reader with the matching decompression reader.
// The returned closer must be called after reading; it is a no-op where the
// codec needs no cleanup.
func (c CompressionType) newDecompressor(reader io.Reader) (io.Reader, func() error, error) {
	switch c {
	case CompressionNone:
		return reader, func() error { return nil }, nil
	case CompressionGZ:
		gzReader, err := gzip.NewReader(reader)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		return gzReader, gzReader.Close, nil
	case CompressionBZ2:
		return bzip2.NewReader(reader), func() error { return nil }, nil
	case CompressionXZ:
		xzReader, err := xz.NewReader(reader)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create xz reader: %w", err)
		}
		return xzReader, func() error { return nil }, nil
	case CompressionZSTD:
		decoder, err := zstd.NewReader(reader)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create zstd reader: %w", err)
		}
		return decoder.IOReadCloser(), func() error { decoder.Close(); return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unsupported compression type for reading: %v", c)
	}
}

// newCompressor wraps writer with the matching compression writer. The
// returned closer flushes the codec and must be called before the underlying
// file is closed.
func (c CompressionType) newCompressor(writer io.Writer) (io.Writer, func() error, error) {
	switch c {
	case CompressionNone:
		return writer, func() error { return nil }, nil
	case CompressionGZ:
		gzWriter := gzip.NewWriter(writer)
		return gzWriter, gzWriter.Close, nil
	case CompressionBZ2:
		return nil, nil, errors.New("bzip2 compression is not supported for writing")
	case CompressionXZ:
		xzWriter, err := xz.NewWriter(writer)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create xz writer: %w", err)
		}
		return xzWriter, xzWriter.Close, nil
	case CompressionZSTD:
		zstdWriter, err := zstd.NewWriter(writer)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create zstd writer: %w", err)
		}
		return zstdWriter, zstdWriter.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported compression type for writing: %v", c)
	}
}
