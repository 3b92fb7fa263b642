package fileloader

import (
	"fmt"

	"gridline/app/table"
)

// Package fileloader reads CSV, XLSX and JSON sources, plain or
// compressed, single files or whole directories, into tables.

// FileType identifies the data format of a source file.
type FileType int

const (
	FileTypeUnknown FileType = iota
	FileTypeCSV
	FileTypeXLSX
	FileTypeJSON
)

// String returns the display name of the file type.
func (ft FileType) String() string {
	switch ft {
	case FileTypeCSV:
		return "CSV"
	case FileTypeXLSX:
		return "XLSX"
	case FileTypeJSON:
		return "JSON"
	default:
		return "Unknown"
	}
}

// SourceColumn is the synthetic column that records which file a row
// came from when loading a directory.
const SourceColumn = "__source_file__"

// Options controls how a path is loaded. The yaml tags are the form
// workspace files persist.
type Options struct {
	// JPath extracts the row array from JSON documents.
	JPath string `yaml:"jpath,omitempty"`
	// Pattern selects files when loading a directory, e.g. "*.csv" or
	// "**/*.json.gz".
	Pattern string `yaml:"pattern,omitempty"`
	// NoHeaderRow treats the first CSV/XLSX row as data; headers become
	// Unnamed_A, Unnamed_B and so on.
	NoHeaderRow bool `yaml:"no_header_row,omitempty"`
	// IncludeSourceColumn appends SourceColumn to directory loads.
	IncludeSourceColumn bool `yaml:"include_source_column,omitempty"`
	// MaxFiles caps directory loading. Zero means no cap.
	MaxFiles int `yaml:"max_files,omitempty"`
}

// DefaultOptions returns the options used when the caller specifies
// nothing.
func DefaultOptions() Options {
	return Options{Pattern: "*.csv"}
}

// Key serializes the load-affecting options. Loads of one path with
// equal keys produce the same table, so the key participates in cache
// and workspace identity.
func (o Options) Key() string {
	return fmt.Sprintf("jpath=%s|pattern=%s|noheader=%t|source=%t|max=%d",
		o.JPath, o.Pattern, o.NoHeaderRow, o.IncludeSourceColumn, o.MaxFiles)
}

// Result is a completed load.
type Result struct {
	Table *table.Table
	// Warning is set when the load succeeded partially, for example a
	// truncated compressed stream or unreadable files in a directory.
	Warning string
	// SourceFiles lists the files behind a directory load, relative to
	// the directory root, in load order. Empty for single-file loads.
	SourceFiles []string
}
