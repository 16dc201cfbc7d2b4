package models

// Report summarizes one cleaning run. It is purely derived from the input
// table and the dedup result; building it mutates nothing.
type Report struct {
	InputRows         int      `json:"input_rows"`
	CleanedRows       int      `json:"cleaned_rows"`
	RowsRemoved       int      `json:"rows_removed"`
	DuplicateGroups   int      `json:"duplicate_groups"`
	UniqueIdentifiers int      `json:"unique_identifiers"`
	EmptyIdentifiers  int      `json:"empty_identifiers"`
	UnparseableDates  int      `json:"unparseable_dates"`
	IdentifierColumn  string   `json:"identifier_column"`
	DateColumn        string   `json:"date_column,omitempty"`
	Warnings          []string `json:"warnings,omitempty"`
}

// ReductionPercent returns the share of input rows that were removed,
// in percent. Zero input rows yields zero.
func (r *Report) ReductionPercent() float64 {
	if r.InputRows == 0 {
		return 0
	}
	return float64(r.RowsRemoved) / float64(r.InputRows) * 100
}
