package stats

import (
	"math"
	"sort"

	"gridline/app/query"
	"gridline/app/table"
)

// Package stats builds per-column profiles for the stats overlay:
// counts, numeric range and distribution, and the most frequent values.

const (
	// MaxBuckets bounds the numeric distribution.
	MaxBuckets = 20
	// MaxTopValues bounds the frequent-values list.
	MaxTopValues = 10
)

// Bucket is one slot of a numeric distribution. A bucket covers
// [Start, Start+Width); the last bucket includes its upper edge.
type Bucket struct {
	Start float64
	Width float64
	Count int
}

// ValueCount is one entry of the frequent-values list.
type ValueCount struct {
	Value string
	Count int
}

// Profile describes one column over a set of rows.
type Profile struct {
	Column       string
	Total        int
	Absent       int
	NumericCount int
	Min          float64
	Max          float64
	Sum          float64
	Buckets      []Bucket
	TopValues    []ValueCount
}

// Mean returns the average of the numeric values, or 0 when there are
// none.
func (p *Profile) Mean() float64 {
	if p.NumericCount == 0 {
		return 0
	}
	return p.Sum / float64(p.NumericCount)
}

// ProfileColumn examines one column across the given rows. Numbers are
// recognized the way comparisons recognize them, so "1,000" and "50%"
// count as numeric here too.
func ProfileColumn(rows []*table.Row, column string) *Profile {
	p := &Profile{Column: column, Total: len(rows)}

	freq := make(map[string]int)
	var values []float64
	for _, row := range rows {
		cell := row.Cell(column)
		if cell.IsAbsent() {
			p.Absent++
			continue
		}
		text := cell.String()
		freq[text]++

		num, ok := cell.Number()
		if !ok {
			num, ok = query.ParseNumber(text)
		}
		if !ok {
			continue
		}
		if p.NumericCount == 0 || num < p.Min {
			p.Min = num
		}
		if p.NumericCount == 0 || num > p.Max {
			p.Max = num
		}
		p.Sum += num
		p.NumericCount++
		values = append(values, num)
	}

	p.Buckets = buildBuckets(values, p.Min, p.Max)
	p.TopValues = topValues(freq)
	return p
}

// ProfileTable profiles every visible column.
func ProfileTable(rows []*table.Row, columns []string) []*Profile {
	profiles := make([]*Profile, 0, len(columns))
	for _, col := range columns {
		profiles = append(profiles, ProfileColumn(rows, col))
	}
	return profiles
}

// bucketWidths is the 1-2-5 progression candidate widths are drawn
// from, scanned smallest first so the distribution keeps as many
// buckets as the cap allows.
func bucketWidths() []float64 {
	widths := make([]float64, 0, 66)
	for exp := -9; exp <= 12; exp++ {
		base := math.Pow(10, float64(exp))
		widths = append(widths, base, 2*base, 5*base)
	}
	return widths
}

func buildBuckets(values []float64, min, max float64) []Bucket {
	if len(values) == 0 {
		return nil
	}
	if min == max {
		return []Bucket{{Start: min, Width: 0, Count: len(values)}}
	}

	var width float64
	var start float64
	var count int
	for _, w := range bucketWidths() {
		s := math.Floor(min/w) * w
		n := int(math.Floor((max-s)/w)) + 1
		if n <= MaxBuckets {
			width, start, count = w, s, n
			break
		}
	}
	if count == 0 {
		// Span too wide even for the largest candidate; one bucket
		// holds everything.
		return []Bucket{{Start: min, Width: max - min, Count: len(values)}}
	}

	buckets := make([]Bucket, count)
	for i := range buckets {
		buckets[i] = Bucket{Start: start + float64(i)*width, Width: width}
	}
	for _, v := range values {
		idx := int(math.Floor((v - start) / width))
		if idx < 0 {
			idx = 0
		}
		if idx >= count {
			idx = count - 1
		}
		buckets[idx].Count++
	}
	return buckets
}

func topValues(freq map[string]int) []ValueCount {
	if len(freq) == 0 {
		return nil
	}
	out := make([]ValueCount, 0, len(freq))
	for v, c := range freq {
		out = append(out, ValueCount{Value: v, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})
	if len(out) > MaxTopValues {
		out = out[:MaxTopValues]
	}
	return out
}
