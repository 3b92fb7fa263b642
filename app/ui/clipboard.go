package ui

import (
	"fmt"
	"strings"

	clipboard "golang.design/x/clipboard"

	"gridline/app/query"
	"gridline/app/table"
)

// Maximum clipboard size in bytes (10MB) - helps avoid X11 BadLength errors on Linux
const maxClipboardSize = 10 * 1024 * 1024

// safeClipboardWrite attempts to write data to clipboard with panic recovery.
// Returns an error if the write fails or data is too large.
func safeClipboardWrite(format clipboard.Format, data []byte) (err error) {
	if len(data) > maxClipboardSize {
		return fmt.Errorf("data too large for clipboard (%d bytes, max %d bytes / %.1f MB). Try selecting fewer rows",
			len(data), maxClipboardSize, float64(maxClipboardSize)/(1024*1024))
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("clipboard write failed: %v", r)
		}
	}()

	clipboard.Write(format, data)
	return nil
}

// sanitizeField keeps TSV rows rectangular: tabs and line breaks inside
// a cell become spaces.
func sanitizeField(s string) string {
	s = strings.ReplaceAll(s, "\t", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}

// buildTSV renders rows as tab-separated text with the result's visible
// columns as the header line.
func buildTSV(res *query.Result, rows []*table.Row) []byte {
	var b strings.Builder
	for i, col := range res.Columns {
		if i > 0 {
			b.WriteByte('\t')
		}
		b.WriteString(sanitizeField(col))
	}
	b.WriteByte('\n')
	for _, row := range rows {
		for i, col := range res.Columns {
			if i > 0 {
				b.WriteByte('\t')
			}
			b.WriteString(sanitizeField(row.Cell(col).String()))
		}
		b.WriteByte('\n')
	}
	return []byte(b.String())
}

// rowsToCopy picks what a bulk copy takes: the marked rows when any are
// visible in the view, otherwise every view row.
func rowsToCopy(res *query.Result, marks map[int]bool) []*table.Row {
	if len(marks) > 0 {
		var out []*table.Row
		for _, row := range res.Rows {
			if marks[row.Index] {
				out = append(out, row)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return res.Rows
}

// copyRows writes rows to the system clipboard as TSV, initialising the
// clipboard lazily on first use. Returns the number of rows copied.
func (m *Model) copyRows(res *query.Result, rows []*table.Row) (int, error) {
	m.clipOnce.Do(func() {
		if err := clipboard.Init(); err == nil {
			m.clipOK = true
		} else {
			m.clipOK = false
			m.app.Log("error", fmt.Sprintf("Clipboard init failed: %v", err))
		}
	})
	if !m.clipOK {
		return 0, fmt.Errorf("clipboard not available")
	}
	if len(rows) == 0 {
		return 0, nil
	}
	if err := safeClipboardWrite(clipboard.FmtText, buildTSV(res, rows)); err != nil {
		m.app.Log("error", fmt.Sprintf("Clipboard write failed: %v", err))
		return 0, err
	}
	return len(rows), nil
}
