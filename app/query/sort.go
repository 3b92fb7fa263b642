package query

import (
	"sort"
	"strconv"
	"strings"

	"gridline/app/table"
)

// maxSortKeys caps multi-column sorting. Keys beyond the cap are
// silently ignored.
const maxSortKeys = 3

// SortKey names one sort column and its direction.
type SortKey struct {
	Column     string
	Descending bool
}

// Sort returns the rows stably ordered by up to three keys; later keys
// break ties left by earlier ones. The input slice is not modified.
// With no keys the input is returned as is.
func Sort(rows []*table.Row, keys []SortKey) []*table.Row {
	if len(keys) == 0 {
		return rows
	}
	if len(keys) > maxSortKeys {
		keys = keys[:maxSortKeys]
	}
	out := make([]*table.Row, len(rows))
	copy(out, rows)
	sort.SliceStable(out, func(i, j int) bool {
		for _, k := range keys {
			c := Compare(out[i].Cell(k.Column), out[j].Cell(k.Column))
			if c == 0 {
				continue
			}
			if k.Descending {
				return c > 0
			}
			return c < 0
		}
		return false
	})
	return out
}

// placeholders are values that read as "no data" and must never win a
// numeric comparison.
var placeholders = map[string]bool{
	"-":    true,
	"--":   true,
	"n/a":  true,
	"null": true,
	"none": true,
}

// Compare orders two cells for sorting: absent cells first, then
// numeric values by magnitude, then everything else by
// case-insensitive natural comparison.
func Compare(a, b table.Cell) int {
	aAbsent, bAbsent := a.IsAbsent(), b.IsAbsent()
	switch {
	case aAbsent && bAbsent:
		return 0
	case aAbsent:
		return -1
	case bAbsent:
		return 1
	}
	av, aNum := sortNumber(a)
	bv, bNum := sortNumber(b)
	switch {
	case aNum && bNum:
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
		return 0
	case aNum:
		return -1
	case bNum:
		return 1
	}
	return naturalCompare(strings.ToLower(a.String()), strings.ToLower(b.String()))
}

// sortNumber classifies a cell for sorting. Blank values, the
// placeholder strings, and anything strconv.ParseFloat rejects are
// non-numeric. Comparisons elsewhere use the tolerant parser; sorting
// deliberately does not, so "1,000" orders as text.
func sortNumber(c table.Cell) (float64, bool) {
	if v, ok := c.Number(); ok {
		return v, true
	}
	s := strings.TrimSpace(c.String())
	if s == "" || placeholders[strings.ToLower(s)] {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// naturalCompare walks two lowercased strings run by run: contiguous
// digit runs compare by run length and then digit order, everything
// else byte-wise. "a2" therefore sorts before "a10".
func naturalCompare(a, b string) int {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		ca, cb := a[i], b[j]
		if isDigit(ca) && isDigit(cb) {
			ra, rb := digitRun(a, i), digitRun(b, j)
			if c := compareDigitRuns(a[i:ra], b[j:rb]); c != 0 {
				return c
			}
			i, j = ra, rb
			continue
		}
		if ca != cb {
			if ca < cb {
				return -1
			}
			return 1
		}
		i++
		j++
	}
	switch {
	case len(a)-i < len(b)-j:
		return -1
	case len(a)-i > len(b)-j:
		return 1
	}
	return 0
}

// compareDigitRuns orders two digit runs: the shorter run is the
// smaller number, equal-length runs compare digit by digit.
func compareDigitRuns(x, y string) int {
	if len(x) != len(y) {
		if len(x) < len(y) {
			return -1
		}
		return 1
	}
	return strings.Compare(x, y)
}

func digitRun(s string, i int) int {
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	return i
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
