package exporter

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"archivist/internal/model"
)

func TestBuildRegistry_RowsAndDimension(t *testing.T) {
	t.Parallel()
	f := NewRegistryTemplate()
	defer f.Close()

	entries := []model.RegistryEntry{
		{InventoryID: "i1", Year: 2001, DepartmentName: "Contabilitate", RecordCount: 3, RetentionTerm: "10"},
		{InventoryID: "i2", Year: 2002, DepartmentName: "Juridic", RecordCount: 0, RetentionTerm: "permanent"},
		{InventoryID: "i3", Year: 2003, DepartmentName: "Contabilitate", RecordCount: 41, RetentionTerm: "5"},
	}
	require.NoError(t, BuildRegistry(f, model.Fonds{ID: "f1", Name: "Primăria Test"}, entries))

	out, err := render(f, "registry")
	require.NoError(t, err)
	reopened, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer reopened.Close()

	dim, err := reopened.GetSheetDimension(RegistryTemplateSheet)
	require.NoError(t, err)
	assert.Equal(t, "A1:E6", dim)

	rows, err := reopened.GetRows(RegistryTemplateSheet)
	require.NoError(t, err)
	require.Len(t, rows, 6)
	assert.Equal(t, "Fond: Primăria Test", rows[1][0])
	assert.Equal(t, []string{"1", "2001", "Contabilitate", "3", "10 ani"}, rows[3])
	assert.Equal(t, []string{"2", "2002", "Juridic", "0", "Permanent"}, rows[4])
	assert.Equal(t, []string{"3", "2003", "Contabilitate", "41", "5 ani"}, rows[5])
}

func TestBuildRegistry_Empty(t *testing.T) {
	t.Parallel()
	f := NewRegistryTemplate()
	defer f.Close()

	require.NoError(t, BuildRegistry(f, model.Fonds{Name: "Gol"}, nil))
	dim, err := f.GetSheetDimension(RegistryTemplateSheet)
	require.NoError(t, err)
	assert.Equal(t, "A1:E3", dim)
}

func TestBuildRegistry_DimensionCoversTemplateExtras(t *testing.T) {
	t.Parallel()
	f := NewRegistryTemplate()
	defer f.Close()
	require.NoError(t, f.SetCellValue(RegistryTemplateSheet, "G1", "Cod"))
	require.NoError(t, f.SetCellValue(RegistryTemplateSheet, "B12", "Semnătura arhivarului"))

	entries := []model.RegistryEntry{
		{InventoryID: "i1", Year: 2001, DepartmentName: "Contabilitate", RecordCount: 3, RetentionTerm: "10"},
	}
	require.NoError(t, BuildRegistry(f, model.Fonds{Name: "Primăria Test"}, entries))

	dim, err := f.GetSheetDimension(RegistryTemplateSheet)
	require.NoError(t, err)
	assert.Equal(t, "A1:G12", dim)
}

func TestBuildRegistry_TemplateWithoutSheet(t *testing.T) {
	t.Parallel()
	f := excelize.NewFile()
	defer f.Close()

	err := BuildRegistry(f, model.Fonds{Name: "x"}, nil)
	assert.ErrorIs(t, err, ErrTemplateLoad)
}
