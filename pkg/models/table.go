// Package models contains domain types for dedup-engine.
package models

// Cell is a single table value. Cells are heterogeneous and untrusted:
// depending on the source format a cell may be a string, a number, a
// time.Time or nil.
type Cell any

// Table is an ordered sequence of rows sharing one column set. Row order is
// the original ingestion order and is preserved through the pipeline so that
// tie-breaking stays stable.
type Table struct {
	Columns []string
	Rows    [][]Cell
}

// NewTable creates an empty table with the given column set.
func NewTable(columns []string) *Table {
	return &Table{Columns: columns}
}

// AppendRow adds a row, padding or truncating it to the column count so the
// all-rows-share-the-column-set invariant holds even for ragged input.
func (t *Table) AppendRow(row []Cell) {
	switch {
	case len(row) < len(t.Columns):
		padded := make([]Cell, len(t.Columns))
		copy(padded, row)
		row = padded
	case len(row) > len(t.Columns):
		row = row[:len(t.Columns)]
	}
	t.Rows = append(t.Rows, row)
}

// RowCount returns the number of rows.
func (t *Table) RowCount() int {
	return len(t.Rows)
}

// ColumnIndex returns the index of the named column, or -1 if absent.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Select returns a new table containing the rows at the given positions, in
// the order given. Row slices are shared with the receiver, not copied.
func (t *Table) Select(positions []int) *Table {
	out := &Table{Columns: t.Columns, Rows: make([][]Cell, 0, len(positions))}
	for _, pos := range positions {
		out.Rows = append(out.Rows, t.Rows[pos])
	}
	return out
}
