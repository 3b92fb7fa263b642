package fileloader

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"gridline/app/table"
)

// loadXLSX reads the first sheet of a workbook into a table of text
// cells. Values arrive from excelize already formatted, so numbers keep
// whatever display format the sheet gave them.
func loadXLSX(path string, opts Options) (*table.Table, string, error) {
	f, warning, err := openWorkbook(path)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, "", fmt.Errorf("%s: workbook has no sheets", path)
	}
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", path, err)
	}
	if len(records) == 0 {
		return table.New(nil), warning, nil
	}

	var header []string
	if opts.NoHeaderRow {
		header = NormalizeHeaders(make([]string, len(records[0])))
	} else {
		header = NormalizeHeaders(records[0])
		records = records[1:]
	}
	return table.FromRecords(header, records), warning, nil
}

// openWorkbook opens an XLSX file directly or via in-memory
// decompression when it carries a compression wrapper.
func openWorkbook(path string) (*excelize.File, string, error) {
	compression := DetectCompression(path)
	if compression == CompressionNone {
		f, err := excelize.OpenFile(path)
		if err != nil {
			return nil, "", fmt.Errorf("open %s: %w", path, err)
		}
		return f, "", nil
	}

	data, warning, err := Decompress(path, compression)
	if err != nil {
		return nil, "", err
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("open %s: %w", path, err)
	}
	return f, warning, nil
}
