package app

import (
	"fmt"
	"regexp"
	"strings"

	"gridline/app/query"
)

const (
	// SearchMaxResults is the maximum total matches to track per find
	SearchMaxResults = 100000
	// SnippetContextLength is the number of characters to show around a match
	SnippetContextLength = 30
)

// Match is one find hit in the current view.
type Match struct {
	// Row is the position of the matching row in the view, not its
	// original table index.
	Row int
	// Column is the name of the matching column.
	Column string
	// Start and End bound the match inside the cell text.
	Start int
	End   int
	// Snippet is the matched text with surrounding context.
	Snippet string
}

// Find scans the visible cells of a result for a term, row by row in
// view order. Plain terms match case-insensitively; regex terms follow
// their own case rules. Only the first match per cell is reported, and
// matches beyond SearchMaxResults are dropped.
func Find(res *query.Result, term string, isRegex bool) ([]Match, error) {
	if res == nil || term == "" {
		return nil, nil
	}

	var re *regexp.Regexp
	if isRegex {
		var err error
		re, err = regexp.Compile(term)
		if err != nil {
			return nil, fmt.Errorf("invalid regex: %w", err)
		}
	}
	termLower := strings.ToLower(term)

	var matches []Match
	for rowPos, row := range res.Rows {
		for _, col := range res.Columns {
			cell := row.Cell(col)
			if cell.IsAbsent() {
				continue
			}
			text := cell.String()
			if text == "" {
				continue
			}

			var matchStart, matchEnd int
			var found bool

			if isRegex && re != nil {
				loc := re.FindStringIndex(text)
				if loc != nil {
					found = true
					matchStart = loc[0]
					matchEnd = loc[1]
				}
			} else {
				// Case-insensitive string search
				idx := strings.Index(strings.ToLower(text), termLower)
				if idx >= 0 {
					found = true
					matchStart = idx
					matchEnd = idx + len(term)
				}
			}
			if !found {
				continue
			}

			matches = append(matches, Match{
				Row:     rowPos,
				Column:  col,
				Start:   matchStart,
				End:     matchEnd,
				Snippet: generateSnippet(text, matchStart, matchEnd, SnippetContextLength),
			})
			if len(matches) >= SearchMaxResults {
				return matches, nil
			}
		}
	}
	return matches, nil
}

// generateSnippet creates a snippet of text around a match with context
func generateSnippet(text string, matchStart, matchEnd, contextLen int) string {
	textLen := len(text)
	if textLen == 0 {
		return ""
	}

	snippetStart := matchStart - contextLen
	snippetEnd := matchEnd + contextLen

	if snippetStart < 0 {
		snippetStart = 0
	}
	if snippetEnd > textLen {
		snippetEnd = textLen
	}

	var builder strings.Builder

	if snippetStart > 0 {
		builder.WriteString("…")
	}

	builder.WriteString(text[snippetStart:snippetEnd])

	if snippetEnd < textLen {
		builder.WriteString("…")
	}

	return builder.String()
}
