package query

import (
	"reflect"
	"testing"
)

// parseOne parses a query expected to yield a single group.
func parseOne(t *testing.T, q string) *FilterGroup {
	t.Helper()
	groups := ParseQuery(q)
	if len(groups) != 1 {
		t.Fatalf("ParseQuery(%q) returned %d groups, want 1", q, len(groups))
	}
	return groups[0]
}

func TestParsePlainText(t *testing.T) {
	g := parseOne(t, "Door")
	if len(g.Texts) != 1 || g.Texts[0].Value != "door" || g.Texts[0].Exclude {
		t.Errorf("unexpected text filters: %#v", g.Texts)
	}
}

func TestParseExclusion(t *testing.T) {
	g := parseOne(t, "!door")
	if len(g.Texts) != 1 || !g.Texts[0].Exclude {
		t.Errorf("unexpected text filters: %#v", g.Texts)
	}
}

func TestParseQuotedPhrase(t *testing.T) {
	g := parseOne(t, `"Exit Door"`)
	if len(g.Texts) != 1 || g.Texts[0].Value != "exit door" {
		t.Errorf("unexpected text filters: %#v", g.Texts)
	}
}

func TestParseExactMarker(t *testing.T) {
	g := parseOne(t, `e"Door"`)
	if len(g.Exacts) != 1 || g.Exacts[0].Value != "door" {
		t.Errorf("unexpected exact filters: %#v", g.Exacts)
	}
	if len(g.Texts) != 0 {
		t.Errorf("exact token leaked into text filters: %#v", g.Texts)
	}
}

func TestParseGlob(t *testing.T) {
	g := parseOne(t, "do*r")
	if len(g.Globs) != 1 || g.Globs[0].Pattern != "do*r" || g.Globs[0].re == nil {
		t.Errorf("unexpected glob filters: %#v", g.Globs)
	}
}

func TestParseBareComparison(t *testing.T) {
	tests := []struct {
		token     string
		op        byte
		threshold float64
	}{
		{">50", '>', 50},
		{"<12.5", '<', 12.5},
		{">0.25", '>', 0.25},
		{">100.", '>', 100},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			g := parseOne(t, tt.token)
			if len(g.Compares) != 1 {
				t.Fatalf("want 1 comparison, got %#v", g.Compares)
			}
			c := g.Compares[0]
			if c.Op != tt.op || c.Threshold != tt.threshold || !c.Column.Empty() {
				t.Errorf("comparison = %+v", c)
			}
		})
	}
}

func TestParseComparisonRejects(t *testing.T) {
	// Tokens that look almost like comparisons stay plain text.
	for _, q := range []string{">", ">abc", ">5x", "5>", "><5"} {
		t.Run(q, func(t *testing.T) {
			g := parseOne(t, q)
			if len(g.Compares) != 0 {
				t.Errorf("%q parsed as comparison: %#v", q, g.Compares)
			}
			if len(g.Texts) != 1 {
				t.Errorf("%q did not fall back to text: %#v", q, g)
			}
		})
	}
}

func TestParseColumnToken(t *testing.T) {
	g := parseOne(t, "$Width")
	if len(g.Columns) != 1 {
		t.Fatalf("want 1 column rule, got %#v", g.Columns)
	}
	r := g.Columns[0]
	if r.Name != "width" || !reflect.DeepEqual(r.Parts, []string{"width"}) || r.Exact {
		t.Errorf("rule = %+v", r)
	}
}

func TestParseQuotedColumnParts(t *testing.T) {
	g := parseOne(t, `$"Door Width"`)
	r := g.Columns[0]
	if !reflect.DeepEqual(r.Parts, []string{"door", "width"}) {
		t.Errorf("parts = %#v, want [door width]", r.Parts)
	}
	if r.Name != "door width" {
		t.Errorf("name = %q", r.Name)
	}
}

func TestParseExactColumn(t *testing.T) {
	g := parseOne(t, `$e"Type"`)
	r := g.Columns[0]
	if !r.Exact || r.Name != "type" {
		t.Errorf("rule = %+v", r)
	}
}

func TestParsePositionPrefix(t *testing.T) {
	g := parseOne(t, "2$width")
	if len(g.Orders) != 1 || g.Orders[0].Position != 2 {
		t.Fatalf("orders = %#v", g.Orders)
	}
	if len(g.Columns) != 1 {
		t.Errorf("position prefix must still register visibility: %#v", g.Columns)
	}
}

func TestParseColumnValue(t *testing.T) {
	g := parseOne(t, "$status:Open")
	if len(g.Values) != 1 {
		t.Fatalf("values = %#v", g.Values)
	}
	v := g.Values[0]
	if v.Value != "open" || v.Exact || v.Glob || v.Exclude {
		t.Errorf("value filter = %+v", v)
	}
	if len(g.Columns) != 1 {
		t.Errorf("value token must still register visibility: %#v", g.Columns)
	}
}

func TestParseColumnValueDoubleColon(t *testing.T) {
	g := parseOne(t, `$type::e"door"`)
	v := g.Values[0]
	if !v.Exact || v.Value != "door" {
		t.Errorf("value filter = %+v", v)
	}
}

func TestParseColumnValueGlob(t *testing.T) {
	g := parseOne(t, "$name:do*r")
	v := g.Values[0]
	if !v.Glob || v.re == nil {
		t.Errorf("value filter = %+v", v)
	}
}

func TestParseScopedComparison(t *testing.T) {
	g := parseOne(t, "$width:>50")
	if len(g.Compares) != 1 {
		t.Fatalf("compares = %#v", g.Compares)
	}
	c := g.Compares[0]
	if c.Op != '>' || c.Threshold != 50 || c.Column.Empty() {
		t.Errorf("comparison = %+v", c)
	}
	if len(g.Values) != 0 {
		t.Errorf("scoped comparison also produced a value filter: %#v", g.Values)
	}
}

func TestParseExcludedColumnValue(t *testing.T) {
	g := parseOne(t, "!$status:closed")
	if len(g.Values) != 1 || !g.Values[0].Exclude {
		t.Errorf("values = %#v", g.Values)
	}
}

func TestParseMixedGroup(t *testing.T) {
	g := parseOne(t, `door !temp $width:>50 e"open"`)
	if len(g.Texts) != 2 {
		t.Errorf("texts = %#v", g.Texts)
	}
	if len(g.Compares) != 1 || len(g.Exacts) != 1 || len(g.Columns) != 1 {
		t.Errorf("group = %+v", g)
	}
}

func TestParseBangAlone(t *testing.T) {
	g := parseOne(t, "!")
	if len(g.Texts)+len(g.Exacts)+len(g.Globs)+len(g.Values)+len(g.Compares) != 0 {
		t.Errorf("bare ! should produce no filters: %+v", g)
	}
}

func TestColumnRuleMatches(t *testing.T) {
	tests := []struct {
		name   string
		rule   ColumnRule
		header string
		want   bool
	}{
		{"substring hit", ColumnRule{Parts: []string{"width"}}, "door width", true},
		{"substring miss", ColumnRule{Parts: []string{"height"}}, "door width", false},
		{"all parts required", ColumnRule{Parts: []string{"door", "width"}}, "door width", true},
		{"one part missing", ColumnRule{Parts: []string{"door", "height"}}, "door width", false},
		{"exact hit", ColumnRule{Name: "type", Exact: true}, "type", true},
		{"exact rejects superstring", ColumnRule{Name: "type", Exact: true}, "subtype", false},
		{"empty rule matches all", ColumnRule{}, "anything", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rule.Matches(tt.header); got != tt.want {
				t.Errorf("Matches(%q) = %v, want %v", tt.header, got, tt.want)
			}
		})
	}
}

func TestGlobRegexp(t *testing.T) {
	tests := []struct {
		pattern string
		input   string
		want    bool
	}{
		{"do*r", "door", true},
		{"do*r", "dor", true},
		{"do*r", "dooooor", true},
		{"do*r", "adoor", false},
		{"do*r", "doors", false},
		{"d?r", "dar", true},
		{"d?r", "daar", false},
		{"*.csv", "report.csv", true},
		{"*.csv", "reportxcsv", false},
		{"do*r", "DOOR", true},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+"/"+tt.input, func(t *testing.T) {
			re := globRegexp(tt.pattern)
			if re == nil {
				t.Fatal("globRegexp returned nil")
			}
			if got := re.MatchString(tt.input); got != tt.want {
				t.Errorf("match = %v, want %v", got, tt.want)
			}
		})
	}
}
