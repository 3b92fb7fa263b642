package fileloader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"gridline/app/table"
)

// Info describes the files behind a directory load.
type Info struct {
	RootPath  string
	Files     []string
	TotalSize int64
}

// IsDirectory reports whether the path names a directory.
func IsDirectory(path string) bool {
	st, err := os.Stat(path)
	return err == nil && st.IsDir()
}

// DiscoverFiles finds the files under dir matching the glob pattern.
// Patterns use doublestar syntax, so "**/*.csv.gz" descends into
// subdirectories. maxFiles caps the result, zero means no cap.
func DiscoverFiles(dir, pattern string, maxFiles int) (*Info, error) {
	if pattern == "" {
		return nil, fmt.Errorf("a file pattern is required for directories (e.g. *.csv)")
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", dir, err)
	}

	matches, err := doublestar.FilepathGlob(filepath.Join(abs, pattern))
	if err != nil {
		return nil, fmt.Errorf("match pattern %q: %w", pattern, err)
	}

	info := &Info{RootPath: abs}
	for _, m := range matches {
		st, err := os.Stat(m)
		if err != nil || st.IsDir() {
			continue
		}
		info.Files = append(info.Files, m)
		info.TotalSize += st.Size()
		if maxFiles > 0 && len(info.Files) >= maxFiles {
			break
		}
	}
	if len(info.Files) == 0 {
		return nil, fmt.Errorf("no files under %s match %q", dir, pattern)
	}
	return info, nil
}

// loadDirectory loads every matching file and merges the tables under
// the union of their columns, ordered by first appearance. Files that
// fail to load are skipped and reported in the warning, so one rotten
// log does not sink the whole directory.
func loadDirectory(dir string, opts Options) (*Result, error) {
	info, err := DiscoverFiles(dir, opts.Pattern, opts.MaxFiles)
	if err != nil {
		return nil, err
	}

	fileOpts := opts
	fileOpts.IncludeSourceColumn = false

	merged := table.New(nil)
	seen := make(map[string]bool)
	var warnings []string
	var loaded []string

	for _, path := range info.Files {
		rel := relativeTo(info.RootPath, path)
		part, warning, err := loadSingle(path, fileOpts)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: %v", rel, err))
			continue
		}
		if warning != "" {
			warnings = append(warnings, fmt.Sprintf("%s: %s", rel, warning))
		}

		for _, col := range part.Columns {
			if !seen[col] {
				seen[col] = true
				merged.Columns = append(merged.Columns, col)
			}
		}
		for _, row := range part.Rows {
			cells := row.Cells
			if cells == nil {
				cells = map[string]table.Cell{}
			}
			if opts.IncludeSourceColumn {
				cells[SourceColumn] = table.TextCell(rel)
			}
			merged.AppendCells(cells)
		}
		loaded = append(loaded, rel)
	}

	if len(loaded) == 0 {
		return nil, fmt.Errorf("no loadable files under %s: %s", dir, strings.Join(warnings, "; "))
	}
	if opts.IncludeSourceColumn && !seen[SourceColumn] {
		merged.Columns = append(merged.Columns, SourceColumn)
	}

	return &Result{
		Table:       merged,
		Warning:     strings.Join(warnings, "; "),
		SourceFiles: loaded,
	}, nil
}

// relativeTo returns path relative to root, or the path itself when it
// cannot be made relative.
func relativeTo(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return rel
}
