package parser

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"archivist/internal/model"
)

func locate(t *testing.T, grid Grid) HeaderResult {
	t.Helper()
	res, err := NewHeaderLocator(nil, nil).Locate(grid)
	require.NoError(t, err)
	return res
}

func TestRowExtractor_ParsesRowsBelowHeader(t *testing.T) {
	t.Parallel()

	grid := Grid{
		{"Inventar 2001"},
		{"Nr. crt", "Indicativ nomenclator", "Conținut", "Date extreme", "Număr file", "Observații", "Nr. cutie"},
		{"1", "A1", "Txt A", "2001", "45", "", ""},
		{"", "", "", ""},
		{"2", "A2", "Txt B", "2001-2002", "", "lipsă copertă", "3"},
	}

	rows, err := NewRowExtractor().Extract(grid, locate(t, grid))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, 3, rows[0].RowNo)
	assert.Equal(t, 1, rows[0].SequenceNumber)
	assert.Equal(t, "A1", rows[0].NomenclatureCode)
	require.NotNil(t, rows[0].PageCount)
	assert.Equal(t, 45, *rows[0].PageCount)
	assert.Nil(t, rows[0].BoxNumber)
	assert.Nil(t, rows[0].Notes)

	assert.Equal(t, 5, rows[1].RowNo)
	assert.Nil(t, rows[1].PageCount)
	require.NotNil(t, rows[1].BoxNumber)
	assert.Equal(t, 3, *rows[1].BoxNumber)
	require.NotNil(t, rows[1].Notes)
	assert.Equal(t, "lipsă copertă", *rows[1].Notes)
}

func TestRowExtractor_MissingRequiredValue(t *testing.T) {
	t.Parallel()

	grid := Grid{
		{"Nr. crt", "Indicativ nomenclator", "Conținut", "Date extreme"},
		{"1", "A1", "Txt A", "2001"},
		{"2", "A2", "", "2002"},
	}

	rows, err := NewRowExtractor().Extract(grid, locate(t, grid))
	assert.Nil(t, rows)
	require.True(t, errors.Is(err, ErrMissingRequiredField))

	var mrf *MissingRequiredFieldError
	require.ErrorAs(t, err, &mrf)
	assert.Equal(t, 3, mrf.Row)
	assert.Equal(t, FieldContent, mrf.Field)
	assert.Equal(t, "2", mrf.SequenceHint)
	assert.Contains(t, err.Error(), "Conținut")
}

func TestRowExtractor_MissingRequiredColumn(t *testing.T) {
	t.Parallel()

	grid := Grid{
		{"Nr. crt", "Indicativ nomenclator", "Conținut"},
		{"1", "A1", "Txt A"},
	}

	_, err := NewRowExtractor().Extract(grid, locate(t, grid))
	var mrf *MissingRequiredFieldError
	require.ErrorAs(t, err, &mrf)
	assert.True(t, mrf.ColumnMissing)
	assert.Equal(t, FieldDateRange, mrf.Field)
}

func TestRowExtractor_TypeCoercion(t *testing.T) {
	t.Parallel()

	grid := Grid{
		{"Nr. crt", "Indicativ nomenclator", "Conținut", "Date extreme", "Număr file"},
		{"1", "A1", "Txt A", "2001", "patruzeci"},
	}

	_, err := NewRowExtractor().Extract(grid, locate(t, grid))
	require.True(t, errors.Is(err, ErrTypeCoercion))

	var tce *TypeCoercionError
	require.ErrorAs(t, err, &tce)
	assert.Equal(t, FieldPageCount, tce.Field)
	assert.Equal(t, "patruzeci", tce.Value)
}

func TestRowExtractor_FieldLimits(t *testing.T) {
	t.Parallel()

	grid := Grid{
		{"Nr. crt", "Indicativ nomenclator", "Conținut", "Date extreme", "Nr. cutie"},
		{"1", "A1", "Txt A", "2001", "10000"},
	}
	_, err := NewRowExtractor().Extract(grid, locate(t, grid))
	assert.True(t, errors.Is(err, ErrFieldLimit))

	grid = Grid{
		{"Nr. crt", "Indicativ nomenclator", "Conținut", "Date extreme"},
		{"0", "A1", "Txt A", "2001"},
	}
	_, err = NewRowExtractor().Extract(grid, locate(t, grid))
	assert.True(t, errors.Is(err, ErrFieldLimit))

	grid = Grid{
		{"Nr. crt", "Indicativ nomenclator", "Conținut", "Date extreme"},
		{"1", "A1", strings.Repeat("ț", MaxContentLen+1), "2001"},
	}
	_, err = NewRowExtractor().Extract(grid, locate(t, grid))
	assert.True(t, errors.Is(err, ErrFieldLimit))
}

func TestReadGrid_FirstSheetOnly(t *testing.T) {
	t.Parallel()

	wb := excelize.NewFile()
	t.Cleanup(func() { _ = wb.Close() })
	require.NoError(t, wb.SetSheetRow("Sheet1", "A1", &[]any{"Nr. crt", "Conținut"}))
	require.NoError(t, wb.SetSheetRow("Sheet1", "A2", &[]any{1, "Txt A"}))
	_, err := wb.NewSheet("Altele")
	require.NoError(t, err)
	require.NoError(t, wb.SetCellValue("Altele", "A1", "ignorat"))

	var buf bytes.Buffer
	require.NoError(t, wb.Write(&buf))

	grid, err := ReadGrid(&buf)
	require.NoError(t, err)
	require.Len(t, grid, 2)
	assert.Equal(t, "Nr. crt", grid.Cell(0, 0))
	assert.Equal(t, "1", grid.Cell(1, 0))
	assert.Equal(t, "", grid.Cell(5, 5))
}

func TestReadGrid_ThousandsFormatKeepsValue(t *testing.T) {
	t.Parallel()

	wb := excelize.NewFile()
	t.Cleanup(func() { _ = wb.Close() })
	require.NoError(t, wb.SetSheetRow("Sheet1", "A1", &[]any{"Nr. crt", "Indicativ nomenclator", "Conținut", "Date extreme", "Număr file"}))
	require.NoError(t, wb.SetSheetRow("Sheet1", "A2", &[]any{1, "A1", "Txt A", 36906, 1000}))

	thousands, err := wb.NewStyle(&excelize.Style{NumFmt: 3}) // #,##0
	require.NoError(t, err)
	require.NoError(t, wb.SetCellStyle("Sheet1", "E2", "E2", thousands))
	date, err := wb.NewStyle(&excelize.Style{NumFmt: 14})
	require.NoError(t, err)
	require.NoError(t, wb.SetCellStyle("Sheet1", "D2", "D2", date))

	var buf bytes.Buffer
	require.NoError(t, wb.Write(&buf))

	grid, err := ReadGrid(&buf)
	require.NoError(t, err)
	assert.Equal(t, "1000", grid.Cell(1, 4))
	// 日期单元格保留显示文本，不返回序列号
	assert.NotEqual(t, "36906", grid.Cell(1, 3))
	assert.NotEmpty(t, grid.Cell(1, 3))

	rows, err := NewRowExtractor().Extract(grid, locate(t, grid))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.NotNil(t, rows[0].PageCount)
	assert.Equal(t, 1000, *rows[0].PageCount)
}

func TestRowExtractor_GroupedNumberText(t *testing.T) {
	t.Parallel()

	grid := Grid{
		{"Nr. crt", "Indicativ nomenclator", "Conținut", "Date extreme", "Număr file"},
		{"1.000", "A1", "Txt A", "2001", "2,500"},
	}
	rows, err := NewRowExtractor().Extract(grid, locate(t, grid))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 1000, rows[0].SequenceNumber)
	require.NotNil(t, rows[0].PageCount)
	assert.Equal(t, 2500, *rows[0].PageCount)

	grid[1][4] = "1,5"
	_, err = NewRowExtractor().Extract(grid, locate(t, grid))
	assert.ErrorIs(t, err, ErrTypeCoercion)
}

func TestReadGrid_CorruptContainer(t *testing.T) {
	t.Parallel()

	_, err := ReadGrid(strings.NewReader("not a workbook"))
	assert.Error(t, err)
}

func TestValidateRecord(t *testing.T) {
	t.Parallel()

	ok := model.RecordFields{NomenclatureCode: "A1", Content: "Registru", DateRange: "2001"}
	require.NoError(t, ValidateRecord(4, ok))

	missing := ok
	missing.Content = "  "
	err := ValidateRecord(4, missing)
	require.ErrorIs(t, err, ErrMissingRequiredField)
	assert.NotContains(t, err.Error(), "rândul")

	assert.ErrorIs(t, ValidateRecord(0, ok), ErrFieldLimit)

	box := ok
	box.BoxNumber = model.IntPtr(10000)
	assert.ErrorIs(t, ValidateRecord(1, box), ErrFieldLimit)

	notes := ok
	notes.Notes = model.StringPtr(strings.Repeat("x", MaxNotesLen+1))
	assert.ErrorIs(t, ValidateRecord(1, notes), ErrFieldLimit)
}
