package fileloader

import (
	"strings"
)

// excelColumnName converts a 0-based index to an Excel-style column
// name: 0 -> A, 25 -> Z, 26 -> AA, 702 -> AAA.
func excelColumnName(index int) string {
	name := ""
	index++
	for index > 0 {
		index--
		name = string(rune('A'+index%26)) + name
		index /= 26
	}
	return name
}

// NormalizeHeaders replaces empty or whitespace-only header names with
// Unnamed_A, Unnamed_B and so on. Every format loader runs its headers
// through here, so a blank CSV column and a blank JSON key end up with
// the same kind of name.
func NormalizeHeaders(header []string) []string {
	normalized := make([]string, len(header))
	empty := 0
	for i, h := range header {
		if strings.TrimSpace(h) == "" {
			normalized[i] = "Unnamed_" + excelColumnName(empty)
			empty++
		} else {
			normalized[i] = h
		}
	}
	return normalized
}
