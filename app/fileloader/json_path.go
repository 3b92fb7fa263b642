package fileloader

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"

	"gridline/app/table"
)

// tableFromJSON applies a JSONPath expression to a decoded document and
// builds a table. The expression must select an array: of objects, whose
// union of keys (sorted alphabetically) becomes the columns, or of
// arrays, whose first element is the header row.
func tableFromJSON(doc interface{}, expression string) (*table.Table, error) {
	x, err := jp.ParseString(expression)
	if err != nil {
		return nil, fmt.Errorf("invalid JSONPath %q: %w", expression, err)
	}
	results := x.Get(doc)
	if len(results) == 0 {
		return nil, fmt.Errorf("JSONPath %q selected nothing", expression)
	}

	arr, ok := results[0].([]interface{})
	if !ok {
		if obj, isMap := results[0].(map[string]interface{}); isMap {
			// Tell the user what they could descend into.
			keys := make([]string, 0, len(obj))
			for k := range obj {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			return nil, fmt.Errorf("JSONPath %q selected an object, not an array (keys: %s)",
				expression, strings.Join(keys, ", "))
		}
		return nil, fmt.Errorf("JSONPath %q must select an array, got %T", expression, results[0])
	}
	if len(arr) == 0 {
		return nil, fmt.Errorf("JSONPath %q selected an empty array", expression)
	}

	if _, ok := arr[0].(map[string]interface{}); ok {
		return tableFromObjects(arr), nil
	}
	if _, ok := arr[0].([]interface{}); ok {
		return tableFromArrays(arr), nil
	}
	return nil, fmt.Errorf("JSONPath %q must select an array of objects or an array of arrays", expression)
}

// tableFromObjects builds a table from an array of JSON objects. The
// column universe is the union of all keys, sorted alphabetically so
// repeated loads of the same data agree on column order.
func tableFromObjects(arr []interface{}) *table.Table {
	seen := make(map[string]bool)
	var keys []string
	items := make([]map[string]interface{}, 0, len(arr))

	for _, item := range arr {
		obj, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		items = append(items, obj)
		for k := range obj {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	sort.Strings(keys)

	// Blank keys get Unnamed_ names; remember which column each
	// original key landed in.
	columns := NormalizeHeaders(keys)
	colFor := make(map[string]string, len(keys))
	for i, k := range keys {
		colFor[k] = columns[i]
	}

	tbl := table.New(columns)
	for _, obj := range items {
		cells := make(map[string]table.Cell, len(obj))
		for k, v := range obj {
			cell := cellFromValue(v)
			if cell.IsAbsent() {
				continue
			}
			cells[colFor[k]] = cell
		}
		tbl.AppendCells(cells)
	}
	return tbl
}

// tableFromArrays builds a table from an array of JSON arrays: the
// first array names the columns, the rest are rows.
func tableFromArrays(arr []interface{}) *table.Table {
	var header []string
	var tbl *table.Table

	for _, item := range arr {
		itemArr, ok := item.([]interface{})
		if !ok {
			continue
		}
		if tbl == nil {
			header = make([]string, len(itemArr))
			for i, v := range itemArr {
				header[i] = valueText(v)
			}
			header = NormalizeHeaders(header)
			tbl = table.New(header)
			continue
		}
		cells := make(map[string]table.Cell, len(itemArr))
		for i, v := range itemArr {
			if i >= len(header) {
				break
			}
			cell := cellFromValue(v)
			if cell.IsAbsent() {
				continue
			}
			cells[header[i]] = cell
		}
		tbl.AppendCells(cells)
	}
	if tbl == nil {
		tbl = table.New(nil)
	}
	return tbl
}

// cellFromValue converts a decoded JSON value into a cell. Nested
// structures are re-marshaled so they stay visible as JSON text.
func cellFromValue(v interface{}) table.Cell {
	switch t := v.(type) {
	case nil:
		return table.Cell{}
	case string:
		return table.TextCell(t)
	case bool:
		return table.BoolCell(t)
	case float64:
		return table.NumberCell(t)
	case int64:
		return table.NumberCell(float64(t))
	case int:
		return table.NumberCell(float64(t))
	case map[string]interface{}, []interface{}:
		if b, err := oj.Marshal(v); err == nil {
			return table.TextCell(string(b))
		}
		return table.TextCell(fmt.Sprintf("%v", v))
	default:
		return table.TextCell(fmt.Sprintf("%v", v))
	}
}

// valueText renders a JSON value for use as a header name.
func valueText(v interface{}) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return cellFromValue(v).String()
}
