package workspace

import (
	"gridline/app/fileloader"
)

// Extension is the workspace file suffix.
const Extension = ".gridline"

// File records one open tab: where its data came from, how it was
// loaded, and the view state to restore on reopen.
type File struct {
	Path        string             `yaml:"path"`
	Fingerprint string             `yaml:"fingerprint,omitempty"`
	Options     fileloader.Options `yaml:"options,omitempty"`
	Query       string             `yaml:"query,omitempty"`
	Sort        string             `yaml:"sort,omitempty"`
	Marks       []int              `yaml:"marks,omitempty,flow"`
	Description string             `yaml:"description,omitempty"`
}

// Config is the on-disk form of a workspace.
type Config struct {
	Version int    `yaml:"version"`
	Files   []File `yaml:"files"`
}

// configVersion is written to new workspace files. Older versions are
// read as-is; fields a version lacks keep their zero values.
const configVersion = 1

// compositeKey tracks the same path loaded with different options as
// separate workspace entries.
func compositeKey(path string, opts fileloader.Options) string {
	return path + "::" + opts.Key()
}
