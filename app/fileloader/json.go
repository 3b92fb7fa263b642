package fileloader

import (
	"fmt"

	"github.com/ohler55/ojg/oj"

	"gridline/app/table"
)

// loadJSON parses a JSON document, applies the JSONPath expression and
// builds a typed table. Numbers and booleans keep their types; nested
// objects and arrays become JSON text; null becomes an absent cell.
func loadJSON(path string, opts Options) (*table.Table, string, error) {
	if opts.JPath == "" {
		return nil, "", fmt.Errorf("%s: a JSONPath expression is required for JSON files (try $)", path)
	}

	data, warning, err := readFileData(path)
	if err != nil {
		return nil, "", err
	}
	doc, err := parseDocument(data)
	if err != nil {
		return nil, "", fmt.Errorf("parse %s: %w", path, err)
	}
	tbl, err := tableFromJSON(doc, opts.JPath)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", path, err)
	}
	return tbl, warning, nil
}

// parseDocument parses JSON bytes. A document that is not one valid
// JSON value is retried as a stream of concatenated values (the
// one-object-per-line export format), which parses into an array.
func parseDocument(data []byte) (interface{}, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("file is empty")
	}

	doc, err := oj.Parse(data)
	if err == nil {
		return doc, nil
	}

	values, streamErr := parseStream(data)
	if streamErr != nil || len(values) == 0 {
		return nil, err
	}
	return values, nil
}

// parseStream extracts consecutive JSON objects or arrays from a byte
// stream. Values may span lines or share one.
func parseStream(data []byte) ([]interface{}, error) {
	var values []interface{}
	str := string(data)
	pos := 0

	for pos < len(str) {
		for pos < len(str) && (str[pos] == ' ' || str[pos] == '\t' || str[pos] == '\n' || str[pos] == '\r') {
			pos++
		}
		if pos >= len(str) {
			break
		}
		if str[pos] != '{' && str[pos] != '[' {
			return nil, fmt.Errorf("expected { or [ at offset %d", pos)
		}

		end, err := findValueEnd(str, pos)
		if err != nil {
			return nil, err
		}
		value, err := oj.ParseString(str[pos:end])
		if err != nil {
			return nil, fmt.Errorf("invalid value at offset %d: %w", pos, err)
		}
		values = append(values, value)
		pos = end
	}
	return values, nil
}

// findValueEnd scans for the end of the JSON value starting at pos,
// tracking nesting and string escapes.
func findValueEnd(str string, pos int) (int, error) {
	var stack []byte
	inString := false
	escaped := false

	for i := pos; i < len(str); i++ {
		ch := str[i]
		if escaped {
			escaped = false
			continue
		}
		if inString {
			switch ch {
			case '\\':
				escaped = true
			case '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{', '[':
			stack = append(stack, ch)
		case '}':
			if len(stack) == 0 || stack[len(stack)-1] != '{' {
				return 0, fmt.Errorf("unmatched } at offset %d", i)
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return i + 1, nil
			}
		case ']':
			if len(stack) == 0 || stack[len(stack)-1] != '[' {
				return 0, fmt.Errorf("unmatched ] at offset %d", i)
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return i + 1, nil
			}
		}
	}
	if len(stack) > 0 {
		return 0, fmt.Errorf("unclosed JSON value")
	}
	return len(str), nil
}
