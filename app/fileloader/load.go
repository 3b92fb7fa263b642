package fileloader

import (
	"gridline/app/table"
)

// Load reads the file or directory at path into a table.
func Load(path string, opts Options) (*Result, error) {
	if IsDirectory(path) {
		return loadDirectory(path, opts)
	}
	tbl, warning, err := loadSingle(path, opts)
	if err != nil {
		return nil, err
	}
	return &Result{Table: tbl, Warning: warning}, nil
}

// loadSingle dispatches one file to its format loader.
func loadSingle(path string, opts Options) (*table.Table, string, error) {
	switch DetectType(path) {
	case FileTypeJSON:
		return loadJSON(path, opts)
	case FileTypeXLSX:
		return loadXLSX(path, opts)
	default:
		return loadCSV(path, opts)
	}
}
