package cache

import (
	"fmt"
	"strings"
)

// Key builds the cache identity of one rendered view: the tab's content
// fingerprint, the load options that shaped the table, the query text
// and the sort spec. Two calls that would produce the same rows produce
// the same key.
func Key(fingerprint, optionsKey, queryText, sortSpec string) string {
	return fmt.Sprintf("tab:%s|opts:%s|q:%s|sort:%s",
		fingerprint, optionsKey, queryText, sortSpec)
}

// TabPrefix returns the key prefix shared by every entry belonging to
// one fingerprint, whatever its query or sort.
func TabPrefix(fingerprint string) string {
	return fmt.Sprintf("tab:%s|", fingerprint)
}

// FingerprintFromKey recovers the fingerprint from a cache key, or ""
// if the key is not in the expected form.
func FingerprintFromKey(key string) string {
	if !strings.HasPrefix(key, "tab:") {
		return ""
	}
	rest := strings.TrimPrefix(key, "tab:")
	if i := strings.Index(rest, "|"); i >= 0 {
		return rest[:i]
	}
	return ""
}
