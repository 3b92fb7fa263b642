package app

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/minio/highwayhash"
)

// FileHashKey is the fixed key used for file fingerprinting. The key
// never changes, so one file produces the same fingerprint in every
// session and fingerprints stored in workspace files stay comparable.
var FileHashKey = []byte("gridline hash key\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00")

// CalculateFileHash calculates a HighwayHash of the file content using FileHashKey.
func CalculateFileHash(filePath string) (string, error) {
	return CalculateFileHashWithKey(filePath, FileHashKey)
}

// CalculateFileHashWithKey calculates a HighwayHash of the file content using the provided key.
func CalculateFileHashWithKey(filePath string, hashKey []byte) (string, error) {
	if len(hashKey) != 32 {
		return "", fmt.Errorf("hash key must be exactly 32 bytes, got %d", len(hashKey))
	}

	file, err := os.Open(filePath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hash, err := highwayhash.New(hashKey)
	if err != nil {
		return "", fmt.Errorf("failed to create hash: %w", err)
	}

	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}

	return hex.EncodeToString(hash.Sum(nil)), nil
}

// CalculateDirectoryHash fingerprints a directory load from the files
// that fed it. Each file contributes its relative name and its content,
// in load order, so adding, removing, renaming or editing any source
// file changes the fingerprint.
func CalculateDirectoryHash(root string, files []string) (string, error) {
	hash, err := highwayhash.New(FileHashKey)
	if err != nil {
		return "", fmt.Errorf("failed to create hash: %w", err)
	}

	for _, rel := range files {
		hash.Write([]byte(rel))
		hash.Write([]byte{0})
		f, err := os.Open(filepath.Join(root, rel))
		if err != nil {
			return "", err
		}
		_, err = io.Copy(hash, f)
		f.Close()
		if err != nil {
			return "", err
		}
	}

	return hex.EncodeToString(hash.Sum(nil)), nil
}
