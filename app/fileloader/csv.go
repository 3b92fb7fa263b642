package fileloader

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"gridline/app/table"
)

// loadCSV reads a CSV file, plain or compressed, into a table of text
// cells. Ragged input is tolerated: short records leave trailing cells
// absent, fields beyond the header are dropped, and records the csv
// package cannot parse are skipped and counted in the warning.
func loadCSV(path string, opts Options) (*table.Table, string, error) {
	reader, closer, warning, err := openCSV(path)
	if err != nil {
		return nil, "", err
	}
	if closer != nil {
		defer closer.Close()
	}

	first, err := reader.Read()
	if err == io.EOF {
		return table.New(nil), warning, nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", path, err)
	}

	var tbl *table.Table
	if opts.NoHeaderRow {
		tbl = table.New(NormalizeHeaders(make([]string, len(first))))
		tbl.AppendRecord(first)
	} else {
		tbl = table.New(NormalizeHeaders(first))
	}

	skipped := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if !errors.As(err, &pe) {
				// Not a per-record problem; the source itself failed.
				break
			}
			if record == nil {
				skipped++
				continue
			}
		}
		tbl.AppendRecord(record)
	}
	if skipped > 0 {
		msg := fmt.Sprintf("skipped %d malformed records", skipped)
		if warning != "" {
			warning += "; " + msg
		} else {
			warning = msg
		}
	}
	return tbl, warning, nil
}

// openCSV opens a CSV source for reading. Uncompressed files stream
// from disk; compressed files are decompressed into memory first.
func openCSV(path string) (*csv.Reader, io.Closer, string, error) {
	compression := DetectCompression(path)
	if compression == CompressionNone {
		f, err := os.Open(path)
		if err != nil {
			return nil, nil, "", err
		}
		r := csv.NewReader(f)
		// Ragged files are common enough that strict field counting
		// would reject real data.
		r.FieldsPerRecord = -1
		return r, f, "", nil
	}

	data, warning, err := Decompress(path, compression)
	if err != nil {
		return nil, nil, "", err
	}
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	return r, nil, warning, nil
}
