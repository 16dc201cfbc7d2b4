package dedup

import (
	"fmt"
	"strings"

	"github.com/dedupkit/dedup-engine/pkg/apperrors"
	"github.com/dedupkit/dedup-engine/pkg/models"
)

// Options holds the candidate-pattern lists used for column discovery. Order
// encodes priority: earlier patterns win when multiple columns match. The
// lists are the only tunable the engine exposes.
type Options struct {
	IdentifierPatterns []string
	DatePatterns       []string
}

// DefaultOptions returns the candidate lists the original roster-cleaning
// deployments use. Punctuation variants (docto_ident, f_ingreso) are covered
// by name normalization and need no separate entries.
func DefaultOptions() Options {
	return Options{
		IdentifierPatterns: []string{
			"docto ident", "documento identidad", "documento",
			"cedula", "dni", "id", "identificacion",
		},
		DatePatterns: []string{
			"f ingreso", "fecha ingreso", "fecha", "date", "ingreso",
		},
	}
}

// Resolve runs column discovery against a table's columns. A missing
// identifier column is fatal for deduplication; a missing date column is not.
func Resolve(columns []string, opts Options) (models.Resolution, error) {
	idMatch, ok := ResolveColumn(columns, opts.IdentifierPatterns)
	if !ok {
		return models.Resolution{}, fmt.Errorf("%w (available columns: %s)",
			apperrors.ErrIdentifierColumnNotFound, strings.Join(columns, ", "))
	}

	res := models.Resolution{
		IdentifierColumn: idMatch.Column,
		IdentifierIndex:  idMatch.Index,
	}
	if dateMatch, ok := ResolveColumn(columns, opts.DatePatterns); ok {
		res.DateColumn = dateMatch.Column
		res.DateIndex = dateMatch.Index
	}
	return res, nil
}

// Clean runs the whole pipeline on an in-memory table: resolve columns,
// derive keys, deduplicate, summarize. It fails only when the identifier
// column cannot be resolved; every other anomaly (missing date column,
// unparseable dates, blank identifiers) degrades gracefully and shows up in
// the report instead. Clean is idempotent: feeding its output back in yields
// an identical table and zero removals.
func Clean(t *models.Table, opts Options) (*models.Table, *models.Report, error) {
	res, err := Resolve(t.Columns, opts)
	if err != nil {
		return nil, nil, err
	}

	keys := NormalizeRows(t, res)
	cleaned, removed := Deduplicate(t, keys)
	report := Summarize(t, keys, removed, res)
	return cleaned, report, nil
}
