package tabio

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/dedupkit/dedup-engine/pkg/apperrors"
	"github.com/dedupkit/dedup-engine/pkg/models"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		filename string
		format   Format
		err      bool
	}{
		{"padron.xlsx", FormatXLSX, false},
		{"PADRON.XLSX", FormatXLSX, false},
		{"macro.xlsm", FormatXLSX, false},
		{"padron.csv", FormatCSV, false},
		{"padron.txt", "", true},
		{"padron", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			format, err := DetectFormat(tt.filename)
			if tt.err {
				require.ErrorIs(t, err, apperrors.ErrUnsupportedFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.format, format)
		})
	}
}

func TestReadCSV_CommaDelimited(t *testing.T) {
	input := "DOCUMENTO,F_INGRESO,CARGO\n123,2023-01-15,Ventas\n456,2023-02-20,RRHH\n"

	table, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []string{"DOCUMENTO", "F_INGRESO", "CARGO"}, table.Columns)
	require.Equal(t, 2, table.RowCount())
	assert.Equal(t, models.Cell("123"), table.Rows[0][0])
	assert.Equal(t, models.Cell("RRHH"), table.Rows[1][2])
}

func TestReadCSV_SemicolonDelimited(t *testing.T) {
	input := "DOCUMENTO;F_INGRESO\n123;2023-01-15\n"

	table, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []string{"DOCUMENTO", "F_INGRESO"}, table.Columns)
	require.Equal(t, 1, table.RowCount())
	assert.Equal(t, models.Cell("2023-01-15"), table.Rows[0][1])
}

func TestReadCSV_RaggedRowsPaddedToHeader(t *testing.T) {
	input := "A,B,C\n1,2\n1,2,3,4\n"

	table, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)

	require.Equal(t, 2, table.RowCount())
	assert.Len(t, table.Rows[0], 3)
	assert.Len(t, table.Rows[1], 3)
	assert.Nil(t, table.Rows[0][2])
}

func TestReadCSV_Empty(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""))
	assert.ErrorIs(t, err, apperrors.ErrEmptyTable)
}

func TestXLSXRoundTrip(t *testing.T) {
	table := models.NewTable([]string{"DOCUMENTO", "F_INGRESO"})
	table.AppendRow([]models.Cell{"123", "2023-01-15"})
	table.AppendRow([]models.Cell{"456", "2023-02-20"})

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, table))

	got, err := ReadXLSX(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)

	assert.Equal(t, table.Columns, got.Columns)
	require.Equal(t, 2, got.RowCount())
	assert.Equal(t, models.Cell("123"), got.Rows[0][0])
	assert.Equal(t, models.Cell("2023-02-20"), got.Rows[1][1])
}

func TestWriteXLSX_SheetName(t *testing.T) {
	table := models.NewTable([]string{"A"})
	table.AppendRow([]models.Cell{"1"})

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, table))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Resultado"}, f.GetSheetList())
}

func TestWriteCSV(t *testing.T) {
	table := models.NewTable([]string{"A", "B"})
	table.AppendRow([]models.Cell{"1", nil})
	table.AppendRow([]models.Cell{"x,y", "2"})

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, table))

	assert.Equal(t, "A,B\n1,\n\"x,y\",2\n", buf.String())
}

func TestRead_DispatchesOnExtension(t *testing.T) {
	input := "DOCUMENTO,FECHA\n1,2020-01-01\n"

	table, format, err := Read(strings.NewReader(input), "upload.csv")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, format)
	assert.Equal(t, 1, table.RowCount())

	_, _, err = Read(strings.NewReader(input), "upload.pdf")
	assert.ErrorIs(t, err, apperrors.ErrUnsupportedFormat)
}
