package dedup

import "github.com/dedupkit/dedup-engine/pkg/models"

// Summarize builds the report for one run from the input table, the derived
// keys, the removed positions and the column resolution. It derives counters
// only and mutates none of its inputs.
func Summarize(t *models.Table, keys []models.RowKey, removed []int, res models.Resolution) *models.Report {
	report := &models.Report{
		InputRows:        t.RowCount(),
		RowsRemoved:      len(removed),
		CleanedRows:      t.RowCount() - len(removed),
		DuplicateGroups:  CountDuplicateGroups(keys),
		IdentifierColumn: res.IdentifierColumn,
		DateColumn:       res.DateColumn,
	}

	unique := make(map[string]struct{})
	for _, key := range keys {
		if key.Identifier == "" {
			report.EmptyIdentifiers++
			continue
		}
		unique[key.Identifier] = struct{}{}
	}
	report.UniqueIdentifiers = len(unique)

	if res.HasDate() {
		for _, key := range keys {
			if !key.DateValid {
				report.UnparseableDates++
			}
		}
	} else {
		report.Warnings = append(report.Warnings,
			"no date column found; kept the first occurrence of each identifier")
	}

	return report
}
