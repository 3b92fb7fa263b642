package fileloader

import (
	"strings"
)

var compressionExtensions = map[string]CompressionType{
	".gz":  CompressionGzip,
	".bz2": CompressionBzip2,
	".xz":  CompressionXZ,
}

// DetectType determines the data format from the file extension,
// ignoring a trailing compression extension (data.json.gz is JSON).
// Unknown extensions are treated as CSV so plain text exports still
// load.
func DetectType(path string) FileType {
	if path == "" {
		return FileTypeUnknown
	}
	lower := strings.ToLower(path)
	for ext := range compressionExtensions {
		if strings.HasSuffix(lower, ext) {
			lower = strings.TrimSuffix(lower, ext)
			break
		}
	}
	switch {
	case strings.HasSuffix(lower, ".xlsx"):
		return FileTypeXLSX
	case strings.HasSuffix(lower, ".json"):
		return FileTypeJSON
	default:
		return FileTypeCSV
	}
}

// DetectCompression determines the compression wrapper from the file
// extension, falling back to magic bytes for files whose name does not
// say (a rotated log renamed without its .gz, for example).
func DetectCompression(path string) CompressionType {
	lower := strings.ToLower(path)
	for ext, ct := range compressionExtensions {
		if strings.HasSuffix(lower, ext) {
			return ct
		}
	}
	if ct, err := DetectCompressionByMagic(path); err == nil {
		return ct
	}
	return CompressionNone
}
