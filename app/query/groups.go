package query

import (
	"regexp"
	"strconv"
	"strings"
)

// TextFilter matches when the row's concatenated text contains Value.
type TextFilter struct {
	Value   string
	Exclude bool
}

// ExactFilter matches when some single cell equals Value exactly.
type ExactFilter struct {
	Value   string
	Exclude bool
}

// GlobFilter matches when some single cell matches the * / ? pattern in
// full. re is the compiled anchored, case-insensitive form.
type GlobFilter struct {
	Pattern string
	Exclude bool
	re      *regexp.Regexp
}

// ColumnRule describes how a filter selects columns: by exact header
// name, or by requiring every part as a substring of the header. The
// empty rule matches every column.
type ColumnRule struct {
	Name  string
	Parts []string
	Exact bool
}

// Empty reports whether the rule constrains nothing.
func (r ColumnRule) Empty() bool { return len(r.Parts) == 0 && r.Name == "" }

// Matches reports whether a lowercased header satisfies the rule.
func (r ColumnRule) Matches(header string) bool {
	if r.Exact {
		return header == r.Name
	}
	for _, p := range r.Parts {
		if !strings.Contains(header, p) {
			return false
		}
	}
	return true
}

// ValueFilter matches rows where some cell of a matching column
// satisfies the value: exact equality, glob, or substring.
type ValueFilter struct {
	Column  ColumnRule
	Value   string
	Exclude bool
	Exact   bool
	Glob    bool
	re      *regexp.Regexp
}

// CompareFilter matches rows where some candidate cell parses as a
// number beyond the threshold. An empty Column rule means every cell in
// the row is a candidate.
type CompareFilter struct {
	Op        byte // '>' or '<'
	Threshold float64
	Column    ColumnRule
	Exclude   bool
}

// ColumnOrder pins a matching column to an explicit display rank.
type ColumnOrder struct {
	Position int
	Rule     ColumnRule
}

// FilterGroup is the parsed form of one OR group: every filter in it
// must hold for a row to match the group.
type FilterGroup struct {
	Texts    []TextFilter
	Exacts   []ExactFilter
	Globs    []GlobFilter
	Values   []ValueFilter
	Compares []CompareFilter
	Columns  []ColumnRule
	Orders   []ColumnOrder
}

// ParseQuery parses the full query string into OR groups. Parsing never
// fails: tokens that fit no special form become plain text filters.
func ParseQuery(query string) []*FilterGroup {
	raw := SplitGroups(query)
	if raw == nil {
		return nil
	}
	groups := make([]*FilterGroup, 0, len(raw))
	for _, g := range raw {
		fg := &FilterGroup{}
		for _, tok := range SplitTokens(g) {
			parseToken(fg, tok)
		}
		groups = append(groups, fg)
	}
	return groups
}

// parseToken classifies one token and appends the resulting filter to
// the group. Recognition order matters: exclusion prefix, bare
// comparison, column token, exact marker, glob, plain text.
func parseToken(g *FilterGroup, token string) {
	if token == "" {
		return
	}
	exclude := false
	if token[0] == '!' {
		exclude = true
		token = token[1:]
		if token == "" {
			return
		}
	}

	if op, threshold, ok := parseComparison(token); ok {
		g.Compares = append(g.Compares, CompareFilter{Op: op, Threshold: threshold, Exclude: exclude})
		return
	}

	position := -1
	if pos, rest, ok := splitPositionPrefix(token); ok {
		position = pos
		token = rest
	}
	if strings.HasPrefix(token, "$") {
		parseColumnToken(g, token[1:], position, exclude)
		return
	}

	if val, ok := stripExactMarker(token); ok {
		g.Exacts = append(g.Exacts, ExactFilter{Value: strings.ToLower(val), Exclude: exclude})
		return
	}
	val := strings.ToLower(unquote(token))
	if strings.ContainsAny(val, "*?") {
		if re := globRegexp(val); re != nil {
			g.Globs = append(g.Globs, GlobFilter{Pattern: val, Exclude: exclude, re: re})
			return
		}
	}
	g.Texts = append(g.Texts, TextFilter{Value: val, Exclude: exclude})
}

// parseColumnToken handles everything after a $ prefix: column
// visibility, optional explicit position, and an optional value or
// comparison scoped to the matched columns.
func parseColumnToken(g *FilterGroup, rest string, position int, exclude bool) {
	colExact := false
	if len(rest) >= 2 && rest[0] == 'e' && rest[1] == '"' {
		colExact = true
		rest = rest[1:]
	}

	colPart := rest
	valPart := ""
	hasValue := false
	if idx := strings.Index(rest, "::"); idx >= 0 {
		colPart, valPart = rest[:idx], rest[idx+2:]
		hasValue = true
	} else if idx := strings.Index(rest, ":"); idx >= 0 {
		colPart, valPart = rest[:idx], rest[idx+1:]
		hasValue = true
	}

	rule := newColumnRule(colPart, colExact)
	g.Columns = append(g.Columns, rule)
	if position >= 0 {
		g.Orders = append(g.Orders, ColumnOrder{Position: position, Rule: rule})
	}
	if !hasValue {
		return
	}

	vExact := false
	val := valPart
	if v, ok := stripExactMarker(valPart); ok {
		vExact = true
		val = v
	} else {
		val = unquote(val)
	}
	if op, threshold, ok := parseComparison(val); ok {
		g.Compares = append(g.Compares, CompareFilter{Op: op, Threshold: threshold, Column: rule, Exclude: exclude})
		return
	}
	f := ValueFilter{Column: rule, Value: strings.ToLower(val), Exclude: exclude, Exact: vExact}
	if !vExact && strings.ContainsAny(f.Value, "*?") {
		if re := globRegexp(f.Value); re != nil {
			f.Glob = true
			f.re = re
		}
	}
	g.Values = append(g.Values, f)
}

// newColumnRule turns the raw column fragment into a matching rule. A
// quoted fragment may carry several space-separated parts that must all
// appear in a header; an unquoted fragment is a single part.
func newColumnRule(colPart string, exact bool) ColumnRule {
	quoted := len(colPart) >= 2 && colPart[0] == '"' && colPart[len(colPart)-1] == '"'
	name := strings.ToLower(unquote(colPart))
	rule := ColumnRule{Name: name, Exact: exact}
	if quoted {
		rule.Parts = strings.Fields(name)
	} else if name != "" {
		rule.Parts = []string{name}
	}
	return rule
}

// splitPositionPrefix recognizes the N$ column-ordering prefix and
// returns the position and the remaining $-token.
func splitPositionPrefix(token string) (int, string, bool) {
	i := 0
	for i < len(token) && token[i] >= '0' && token[i] <= '9' {
		i++
	}
	if i == 0 || i >= len(token) || token[i] != '$' {
		return 0, "", false
	}
	pos, err := strconv.Atoi(token[:i])
	if err != nil {
		return 0, "", false
	}
	return pos, token[i:], true
}

// parseComparison recognizes a bare numeric comparison: > or < followed
// by digits with an optional decimal part and nothing else.
func parseComparison(s string) (byte, float64, bool) {
	if len(s) < 2 {
		return 0, 0, false
	}
	op := s[0]
	if op != '>' && op != '<' {
		return 0, 0, false
	}
	rest := s[1:]
	i := 0
	for i < len(rest) && rest[i] >= '0' && rest[i] <= '9' {
		i++
	}
	if i == 0 {
		return 0, 0, false
	}
	if i < len(rest) && rest[i] == '.' {
		i++
		for i < len(rest) && rest[i] >= '0' && rest[i] <= '9' {
			i++
		}
	}
	if i != len(rest) {
		return 0, 0, false
	}
	v, err := strconv.ParseFloat(rest, 64)
	if err != nil {
		return 0, 0, false
	}
	return op, v, true
}

// stripExactMarker recognizes the exact-match form e"value" and returns
// the unquoted value.
func stripExactMarker(s string) (string, bool) {
	if len(s) >= 3 && s[0] == 'e' && s[1] == '"' && s[len(s)-1] == '"' {
		return unquote(s[1:]), true
	}
	return "", false
}

// globRegexp compiles a glob pattern into an anchored, case-insensitive
// regular expression: * spans any run, ? a single character. A pattern
// that somehow fails to compile yields nil and the caller falls back to
// substring matching.
func globRegexp(pattern string) *regexp.Regexp {
	expr := regexp.QuoteMeta(pattern)
	expr = strings.ReplaceAll(expr, `\*`, `.*`)
	expr = strings.ReplaceAll(expr, `\?`, `.`)
	re, err := regexp.Compile(`(?i)^` + expr + `$`)
	if err != nil {
		return nil
	}
	return re
}
