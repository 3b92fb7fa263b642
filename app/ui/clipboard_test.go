package ui

import (
	"testing"

	"gridline/app/table"
)

func TestSanitizeField(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "hello", "hello"},
		{"tab", "a\tb", "a b"},
		{"newline", "a\nb", "a b"},
		{"crlf", "a\r\nb", "a  b"},
		{"mixed", "a\tb\nc", "a b c"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitizeField(tt.in); got != tt.want {
				t.Errorf("sanitizeField(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestBuildTSV(t *testing.T) {
	res := gridResult(
		[]string{"name", "width"},
		[][]string{
			{"door", "82"},
			{"win\tdow", "40"},
		},
	)
	got := string(buildTSV(res, res.Rows))
	want := "name\twidth\ndoor\t82\nwin dow\t40\n"
	if got != want {
		t.Errorf("buildTSV = %q, want %q", got, want)
	}
}

func TestBuildTSVRespectsVisibleColumns(t *testing.T) {
	res := gridResult(
		[]string{"name", "width"},
		[][]string{{"door", "82"}},
	)
	res.Columns = []string{"width"}

	got := string(buildTSV(res, res.Rows))
	want := "width\n82\n"
	if got != want {
		t.Errorf("buildTSV = %q, want %q", got, want)
	}
}

func TestRowsToCopy(t *testing.T) {
	res := gridResult(
		[]string{"name"},
		[][]string{{"door"}, {"window"}, {"wall"}},
	)

	t.Run("no marks copies everything", func(t *testing.T) {
		rows := rowsToCopy(res, nil)
		if len(rows) != 3 {
			t.Errorf("got %d rows, want 3", len(rows))
		}
	})

	t.Run("marks narrow the selection", func(t *testing.T) {
		rows := rowsToCopy(res, map[int]bool{0: true, 2: true})
		if len(rows) != 2 {
			t.Fatalf("got %d rows, want 2", len(rows))
		}
		if rows[0].Cell("name").String() != "door" || rows[1].Cell("name").String() != "wall" {
			t.Errorf("wrong rows selected: %s, %s",
				rows[0].Cell("name").String(), rows[1].Cell("name").String())
		}
	})

	t.Run("marks outside the view fall back to everything", func(t *testing.T) {
		filtered := *res
		filtered.Rows = []*table.Row{res.Rows[1]}
		rows := rowsToCopy(&filtered, map[int]bool{0: true})
		if len(rows) != 1 {
			t.Fatalf("got %d rows, want 1", len(rows))
		}
		if rows[0].Cell("name").String() != "window" {
			t.Errorf("got %q, want %q", rows[0].Cell("name").String(), "window")
		}
	})
}
