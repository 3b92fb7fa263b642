package query

import (
	"fmt"
	"sort"
	"strings"
)

// ColumnState carries the resolved column layout between filter calls.
// The resolver runs again only when the serialized column-affecting
// filter state differs from the previous call's.
type ColumnState struct {
	Signature string
	Columns   []string
}

// resolveColumns computes the visible columns and their display order
// for the parsed groups. With no column filters anywhere, every column
// is visible in natural order. Otherwise a column is visible when any
// group's column rule matches it, and explicit position entries claim
// their columns first.
func resolveColumns(all []string, groups []*FilterGroup) []string {
	var rules []ColumnRule
	var orders []ColumnOrder
	for _, g := range groups {
		rules = append(rules, g.Columns...)
		orders = append(orders, g.Orders...)
	}
	if len(rules) == 0 {
		return append([]string(nil), all...)
	}

	lowered := make([]string, len(all))
	for i, c := range all {
		lowered[i] = strings.ToLower(c)
	}
	var visible []string
	var visLowered []string
	for i, col := range all {
		for _, r := range rules {
			if r.Matches(lowered[i]) {
				visible = append(visible, col)
				visLowered = append(visLowered, lowered[i])
				break
			}
		}
	}
	if len(orders) == 0 {
		return visible
	}

	// Entries sorted by ascending position each claim the first
	// not-yet-placed visible column their rule matches; the rest keep
	// natural order after them.
	sorted := append([]ColumnOrder(nil), orders...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Position < sorted[j].Position })
	placed := make([]bool, len(visible))
	ordered := make([]string, 0, len(visible))
	for _, o := range sorted {
		for i := range visible {
			if placed[i] {
				continue
			}
			if o.Rule.Matches(visLowered[i]) {
				ordered = append(ordered, visible[i])
				placed[i] = true
				break
			}
		}
	}
	for i := range visible {
		if !placed[i] {
			ordered = append(ordered, visible[i])
		}
	}
	return ordered
}

// columnSignature serializes the column-affecting parts of the parsed
// groups. Two queries with equal signatures resolve to the same layout,
// so the resolver can be skipped.
func columnSignature(groups []*FilterGroup) string {
	var sb strings.Builder
	for _, g := range groups {
		for _, r := range g.Columns {
			writeRule(&sb, 'v', r)
		}
		for _, o := range g.Orders {
			fmt.Fprintf(&sb, "o%d;", o.Position)
			writeRule(&sb, 'r', o.Rule)
		}
	}
	return sb.String()
}

func writeRule(sb *strings.Builder, tag byte, r ColumnRule) {
	sb.WriteByte(tag)
	sb.WriteByte(';')
	sb.WriteString(r.Name)
	sb.WriteByte(';')
	sb.WriteString(strings.Join(r.Parts, ","))
	if r.Exact {
		sb.WriteString(";e")
	}
	sb.WriteByte('|')
}
