package dedup

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/xuri/excelize/v2"

	"github.com/dedupkit/dedup-engine/pkg/models"
)

// Plausible range for Excel serial date numbers: 1900-01-01 through the year
// 9999. Numbers outside this range are treated as plain numbers, not dates.
const (
	minExcelSerial = 1
	maxExcelSerial = 2958465
)

// NormalizeRows derives the comparison key for every row, in input order.
// The identifier key is the cell's text with surrounding whitespace stripped
// (empty string for missing cells). The date key is a parsed instant; cells
// that are missing or unparseable get the invalid sentinel, which orders
// before every real date. When no date column was resolved every row gets the
// sentinel and survivor selection degrades to first-seen.
func NormalizeRows(t *models.Table, res models.Resolution) []models.RowKey {
	keys := make([]models.RowKey, len(t.Rows))
	for i, row := range t.Rows {
		var key models.RowKey
		if res.HasIdentifier() && res.IdentifierIndex < len(row) {
			key.Identifier = CellText(row[res.IdentifierIndex])
		}
		if res.HasDate() && res.DateIndex < len(row) {
			if ts, ok := parseDateCell(row[res.DateIndex]); ok {
				key.Date = ts
				key.DateValid = true
			}
		}
		keys[i] = key
	}
	return keys
}

// CellText renders a cell as canonical text: trimmed, with numeric values
// printed without a float artifact suffix (so an identifier read as 123456.0
// compares equal to the string "123456").
func CellText(c models.Cell) string {
	switch v := c.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	case time.Time:
		return v.Format(time.RFC3339)
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", v))
	}
}

// parseDateCell attempts to interpret a cell as a timestamp. Typed times pass
// through, numbers in range are treated as Excel serial dates, and text goes
// through a permissive parser that accepts most common layouts.
func parseDateCell(c models.Cell) (time.Time, bool) {
	switch v := c.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		if v.IsZero() {
			return time.Time{}, false
		}
		return v, true
	case float64:
		return excelSerialToTime(v)
	case float32:
		return excelSerialToTime(float64(v))
	case int:
		return excelSerialToTime(float64(v))
	case int64:
		return excelSerialToTime(float64(v))
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return time.Time{}, false
		}
		// Bare numbers in text cells are Excel serials more often than
		// anything dateparse would guess correctly.
		if serial, err := strconv.ParseFloat(s, 64); err == nil {
			return excelSerialToTime(serial)
		}
		ts, err := dateparse.ParseAny(s)
		if err != nil {
			return time.Time{}, false
		}
		return ts, true
	default:
		return time.Time{}, false
	}
}

func excelSerialToTime(serial float64) (time.Time, bool) {
	if serial < minExcelSerial || serial > maxExcelSerial {
		return time.Time{}, false
	}
	ts, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}
