package models

import (
	"time"

	"github.com/google/uuid"
)

// CleaningRun is the persisted record of one upload-clean-download cycle.
type CleaningRun struct {
	ID               uuid.UUID `json:"id"`
	Filename         string    `json:"filename"`
	Format           string    `json:"format"`
	InputRows        int       `json:"input_rows"`
	CleanedRows      int       `json:"cleaned_rows"`
	RowsRemoved      int       `json:"rows_removed"`
	DuplicateGroups  int       `json:"duplicate_groups"`
	UnparseableDates int       `json:"unparseable_dates"`
	IdentifierColumn string    `json:"identifier_column"`
	DateColumn       string    `json:"date_column,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}
