// Package tabio reads and writes tabular spreadsheet files (XLSX and CSV)
// to and from the in-memory table the dedup engine operates on. It owns all
// file-format concerns so the engine never touches encodings.
package tabio

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/dedupkit/dedup-engine/pkg/apperrors"
	"github.com/dedupkit/dedup-engine/pkg/models"
)

// Format identifies a supported spreadsheet format.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// DetectFormat maps a filename to its spreadsheet format.
func DetectFormat(filename string) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	case ".csv":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("%w: %q", apperrors.ErrUnsupportedFormat, filepath.Ext(filename))
	}
}

// Read parses a spreadsheet into a table. The first row is the header; data
// rows are padded or truncated to the header width. Column names and cell
// contents are untrusted and passed through as-is.
func Read(r io.Reader, filename string) (*models.Table, Format, error) {
	format, err := DetectFormat(filename)
	if err != nil {
		return nil, "", err
	}

	var table *models.Table
	switch format {
	case FormatXLSX:
		table, err = ReadXLSX(r)
	case FormatCSV:
		table, err = ReadCSV(r)
	}
	if err != nil {
		return nil, "", err
	}
	return table, format, nil
}

// ReadXLSX parses the first sheet of an XLSX workbook.
func ReadXLSX(r io.Reader) (*models.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperrors.ErrEmptyTable
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	return tableFromStringRows(rows)
}

// ReadCSV parses a CSV stream, sniffing the delimiter (comma or semicolon)
// from the header line.
func ReadCSV(r io.Reader) (*models.Table, error) {
	br := bufio.NewReader(r)

	reader := csv.NewReader(br)
	reader.Comma = sniffDelimiter(br)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	return tableFromStringRows(records)
}

func tableFromStringRows(rows [][]string) (*models.Table, error) {
	if len(rows) == 0 {
		return nil, apperrors.ErrEmptyTable
	}

	header := make([]string, len(rows[0]))
	for i, name := range rows[0] {
		header[i] = strings.TrimSpace(name)
	}

	table := models.NewTable(header)
	for _, row := range rows[1:] {
		cells := make([]models.Cell, len(row))
		for i, v := range row {
			cells[i] = v
		}
		table.AppendRow(cells)
	}
	return table, nil
}

// sniffDelimiter peeks at the first line and picks the delimiter with the
// most occurrences. Comma wins ties; exported files in the wild use either.
func sniffDelimiter(br *bufio.Reader) rune {
	const peekSize = 4096
	buf, _ := br.Peek(peekSize)
	line := string(buf)
	if idx := strings.IndexByte(line, '\n'); idx >= 0 {
		line = line[:idx]
	}
	if strings.Count(line, ";") > strings.Count(line, ",") {
		return ';'
	}
	return ','
}
