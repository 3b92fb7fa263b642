package query

import (
	"strings"
	"unicode"
)

// SplitGroups splits a query on || into OR groups. A || inside a quoted
// phrase is literal text. Group text is returned raw, leading and
// trailing whitespace included, so the tokenizer sees exactly what the
// user typed.
func SplitGroups(query string) []string {
	if strings.TrimSpace(query) == "" {
		return nil
	}
	var groups []string
	var cur strings.Builder
	inQuote := false
	runes := []rune(query)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r == '"' && (i == 0 || runes[i-1] != '\\') {
			inQuote = !inQuote
			cur.WriteRune(r)
			continue
		}
		if !inQuote && r == '|' && i+1 < len(runes) && runes[i+1] == '|' {
			groups = append(groups, cur.String())
			cur.Reset()
			i++
			continue
		}
		cur.WriteRune(r)
	}
	groups = append(groups, cur.String())
	return groups
}

// SplitTokens splits one group on whitespace into tokens. Whitespace
// inside a quoted segment does not split, so "exit door":open stays a
// single token. Quotes are kept in place for the parser.
func SplitTokens(group string) []string {
	var tokens []string
	var cur strings.Builder
	inQuote := false
	runes := []rune(group)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r == '"' && (i == 0 || runes[i-1] != '\\') {
			inQuote = !inQuote
			cur.WriteRune(r)
			continue
		}
		if !inQuote && unicode.IsSpace(r) {
			if cur.Len() > 0 {
				tokens = append(tokens, cur.String())
				cur.Reset()
			}
			continue
		}
		cur.WriteRune(r)
	}
	if cur.Len() > 0 {
		tokens = append(tokens, cur.String())
	}
	return tokens
}

// unquote strips one pair of surrounding double quotes if both are
// present and unescapes embedded \" sequences.
func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	return strings.ReplaceAll(s, `\"`, `"`)
}
