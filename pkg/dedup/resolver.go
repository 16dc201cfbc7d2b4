// Package dedup implements the column-resolution and deduplication engine:
// it discovers the identifier and date columns of an untyped table by fuzzy
// name matching, derives comparison keys per row, and removes duplicate
// identifiers keeping the row with the most recent date.
package dedup

import "strings"

// Match describes a resolved column: its original name, its original index,
// and the candidate pattern that matched it.
type Match struct {
	Column  string
	Index   int
	Pattern string
}

// ResolveColumn picks the actual column best matching an ordered candidate
// pattern list. Patterns are tried in priority order; the first pattern with
// any match wins, and among columns matched by that pattern the lowest
// original index wins. Matching is a substring check in either direction over
// normalized names, so partial column names are tolerated.
func ResolveColumn(columns []string, patterns []string) (Match, bool) {
	for _, pattern := range patterns {
		p := compactName(pattern)
		if p == "" {
			continue
		}
		for i, col := range columns {
			c := compactName(col)
			if c == "" {
				continue
			}
			if strings.Contains(c, p) || strings.Contains(p, c) {
				return Match{Column: col, Index: i, Pattern: pattern}, true
			}
		}
	}
	return Match{}, false
}

// compactName normalizes a column name or candidate pattern for comparison:
// lowercase, with whitespace and common punctuation removed, so that
// "F_INGRESO", "f ingreso" and "fecha.ingreso"-style variants compare equal.
func compactName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch r {
		case ' ', '\t', '\n', '_', '-', '.', ':', '/':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
