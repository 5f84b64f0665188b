package exporter

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"archivist/internal/model"
	"archivist/internal/parser"
)

func TestBuildInventory_RoundTrip(t *testing.T) {
	t.Parallel()

	records := []model.CaseRecord{
		{SequenceNumber: 1, RecordFields: model.RecordFields{
			NomenclatureCode: "A1", Content: "Txt A", DateRange: "2001",
			PageCount: model.IntPtr(45), BoxNumber: model.IntPtr(2), Notes: model.StringPtr("lipsă copertă"),
		}},
		{SequenceNumber: 2, RecordFields: model.RecordFields{
			NomenclatureCode: "A2", Content: "Txt B", DateRange: "2001-2002",
		}},
	}

	f, err := BuildInventory(testInfo(), records)
	require.NoError(t, err)
	defer f.Close()

	out, err := render(f, "export")
	require.NoError(t, err)

	grid, err := parser.ReadGrid(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "Primăria Test", grid.Cell(0, 1))
	assert.Equal(t, "10 ani", grid.Cell(3, 1))

	header, err := parser.NewHeaderLocator(nil, nil).Locate(grid)
	require.NoError(t, err)
	assert.Equal(t, InventoryHeaderRow-1, header.Row)
	assert.Len(t, header.Columns, len(parser.Fields))

	rows, err := parser.NewRowExtractor().Extract(grid, header)
	require.NoError(t, err)
	require.Len(t, rows, len(records))
	for i, r := range rows {
		assert.Equal(t, records[i].SequenceNumber, r.SequenceNumber)
		assert.True(t, records[i].RecordFields.Equal(r.RecordFields), "row %d: %+v", i, r.RecordFields)
	}
}
