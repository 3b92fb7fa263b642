package fileloader

import (
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"
	"os"

	"github.com/ulikunitz/xz"
)

// CompressionType identifies the compression wrapper around a file.
type CompressionType int

const (
	CompressionNone CompressionType = iota
	CompressionGzip
	CompressionBzip2
	CompressionXZ
)

// String returns the display name of the compression type.
func (ct CompressionType) String() string {
	switch ct {
	case CompressionGzip:
		return "gzip"
	case CompressionBzip2:
		return "bzip2"
	case CompressionXZ:
		return "xz"
	default:
		return "none"
	}
}

// Magic byte signatures for compression detection.
var (
	gzipMagic  = []byte{0x1f, 0x8b}
	bzip2Magic = []byte{0x42, 0x5a, 0x68} // "BZh"
	xzMagic    = []byte{0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00}
)

// DetectCompressionByMagic sniffs the first bytes of a file for a known
// compression signature.
func DetectCompressionByMagic(path string) (CompressionType, error) {
	f, err := os.Open(path)
	if err != nil {
		return CompressionNone, err
	}
	defer f.Close()

	header := make([]byte, len(xzMagic))
	n, err := f.Read(header)
	if err != nil && err != io.EOF {
		return CompressionNone, err
	}
	header = header[:n]

	switch {
	case bytes.HasPrefix(header, gzipMagic):
		return CompressionGzip, nil
	case bytes.HasPrefix(header, bzip2Magic):
		return CompressionBzip2, nil
	case bytes.HasPrefix(header, xzMagic):
		return CompressionXZ, nil
	}
	return CompressionNone, nil
}

// Decompress reads a compressed file fully into memory. A stream that
// breaks off mid-file still returns the bytes read so far, with a
// warning, so a truncated log remains partially loadable.
func Decompress(path string, ct CompressionType) ([]byte, string, error) {
	if ct == CompressionNone {
		data, err := os.ReadFile(path)
		return data, "", err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	var reader io.Reader
	switch ct {
	case CompressionGzip:
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, "", fmt.Errorf("open gzip stream: %w", err)
		}
		defer gz.Close()
		reader = gz
	case CompressionBzip2:
		reader = bzip2.NewReader(f)
	case CompressionXZ:
		xzr, err := xz.NewReader(f)
		if err != nil {
			return nil, "", fmt.Errorf("open xz stream: %w", err)
		}
		reader = xzr
	default:
		return nil, "", fmt.Errorf("unsupported compression type %v", ct)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, reader); err != nil {
		if buf.Len() == 0 {
			return nil, "", fmt.Errorf("decompress %s: %w", path, err)
		}
		return buf.Bytes(), fmt.Sprintf("decompression incomplete (%v), some rows may be missing", err), nil
	}
	return buf.Bytes(), "", nil
}

// readFileData reads a file, transparently decompressing it.
func readFileData(path string) ([]byte, string, error) {
	return Decompress(path, DetectCompression(path))
}
