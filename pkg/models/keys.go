package models

import "time"

// Resolution holds the outcome of column discovery for one table. It is
// computed once per table and immutable afterwards. An empty column name
// means the field was not found.
type Resolution struct {
	IdentifierColumn string
	IdentifierIndex  int
	DateColumn       string
	DateIndex        int
}

// HasIdentifier reports whether an identifier column was resolved.
func (r Resolution) HasIdentifier() bool {
	return r.IdentifierColumn != ""
}

// HasDate reports whether a date column was resolved.
func (r Resolution) HasDate() bool {
	return r.DateColumn != ""
}

// RowKey is the comparison key derived for one row: the canonical identifier
// text and a date ordering value. An empty Identifier means the row has no
// identifier and is never deduplicated. DateValid false is the sentinel for a
// missing or unparseable date and orders before every real date.
type RowKey struct {
	Identifier string
	Date       time.Time
	DateValid  bool
}

// MoreRecentThan reports whether k orders strictly after other under the
// survivor rule: any valid date beats the sentinel, later valid dates beat
// earlier ones, and equal keys (sentinel against sentinel included) are not
// more recent so the earliest-position row wins the tie.
func (k RowKey) MoreRecentThan(other RowKey) bool {
	if k.DateValid != other.DateValid {
		return k.DateValid
	}
	if !k.DateValid {
		return false
	}
	return k.Date.After(other.Date)
}
