package query

import "strings"

// FormatSortKeys serializes sort keys as "col:asc,col2:desc". The
// string form feeds cache keys and workspace files, so equal key lists
// must always serialize identically.
func FormatSortKeys(keys []SortKey) string {
	if len(keys) == 0 {
		return ""
	}
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		dir := "asc"
		if k.Descending {
			dir = "desc"
		}
		parts = append(parts, k.Column+":"+dir)
	}
	return strings.Join(parts, ",")
}

// ParseSortKeys reads the string form back into sort keys. Malformed
// entries are dropped, a missing direction reads as ascending, and the
// result is capped at maxSortKeys. Column names may contain colons; the
// direction is split off the last one.
func ParseSortKeys(spec string) []SortKey {
	if strings.TrimSpace(spec) == "" {
		return nil
	}
	var keys []SortKey
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		col, dir := part, "asc"
		if i := strings.LastIndex(part, ":"); i >= 0 {
			col = strings.TrimSpace(part[:i])
			dir = strings.ToLower(strings.TrimSpace(part[i+1:]))
		}
		if col == "" {
			continue
		}
		keys = append(keys, SortKey{Column: col, Descending: dir == "desc"})
	}
	if len(keys) > maxSortKeys {
		keys = keys[:maxSortKeys]
	}
	return keys
}
